package echoweb

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/smartcampusucv/web/core"
)

var (
	errHttpForbidden = echo.NewHTTPError(http.StatusForbidden, "No tienes permiso para realizar esta acción")
	errHttpNotFound  = echo.NewHTTPError(http.StatusNotFound, "La página que buscas no existe")
)

// Messages shown on the form itself when the backend fails.
var (
	errCreateActivity = errors.New("Error al crear la actividad")
	errUpdateActivity = errors.New("Error al actualizar la actividad")
	errSignIn         = errors.New("Error al iniciar sesión. Intenta de nuevo en unos minutos.")
	errSignUp         = errors.New("Error al crear la cuenta. Intenta de nuevo en unos minutos.")
)

// backendFailure reports whether err is a failed backend call that the page should report
// in place, keeping what the user typed. Validation, permission and missing-resource errors
// are not: they have their own rendering.
func backendFailure(err error) bool {
	return !core.IsValidation(err) && !core.IsForbidden(err) && !core.IsNotFound(err) && !core.IsUnauthorized(err)
}

type errorPage struct {
	Code    int
	Message string
	Detail  string
}

// newAppHTTPErrorHandler returns a custom echo.HTTPErrorHandler that renders our error page.
// Unexpected errors are reported through logger.
func newAppHTTPErrorHandler(logger core.Logger) echo.HTTPErrorHandler {
	return func(err error, ctx echo.Context) {
		var code int
		var message string

		switch origErr := errors.Cause(err).(type) {
		case *echo.HTTPError:
			if origErr.Internal != nil {
				if herr, ok := origErr.Internal.(*echo.HTTPError); ok {
					origErr = herr
				}
			}
			code = origErr.Code
			if msg, ok := origErr.Message.(string); ok {
				message = msg
			} else {
				message = http.StatusText(code)
			}
		case *core.ValidationError:
			code = http.StatusBadRequest
			message = origErr.Error()
		case *core.APIError:
			code = origErr.Status
			message = origErr.Message
			if code == http.StatusUnauthorized {
				// the backend dropped the session
				expireCookie(ctx, sessionCookie)
				if !ctx.Response().Committed {
					_ = ctx.Redirect(http.StatusSeeOther, "/login")
				}
				return
			}
			if code < 400 || code >= 500 {
				code = http.StatusBadGateway
				message = "El servidor del campus no respondió correctamente"
				logError(logger, ctx, err)
			}
		default:
			switch {
			case core.IsForbidden(err):
				code = http.StatusForbidden
				message = errHttpForbidden.Message.(string)
			case core.IsNotFound(err):
				code = http.StatusNotFound
				message = errHttpNotFound.Message.(string)
			default: // any other error is a server error
				code = http.StatusInternalServerError
				message = "Ocurrió un error inesperado. Por favor, inténtalo de nuevo."
				logError(logger, ctx, err)
			}
		}

		page := errorPage{Code: code, Message: message}
		if ctx.Echo().Debug {
			page.Detail = err.Error()
		}

		// Send response
		if !ctx.Response().Committed {
			if ctx.Request().Method == http.MethodHead { // Issue #608
				err = ctx.NoContent(code)
			} else {
				err = render(ctx, code, "error", "Error", page)
			}
			if err != nil {
				ctx.Echo().Logger.Error(err)
				_ = ctx.String(code, message)
			}
		}
	}
}

func logError(logger core.Logger, ctx echo.Context, err error) {
	if logger == nil {
		return
	}
	args := []interface{}{err, map[string]interface{}{
		"path":      ctx.Request().URL.Path,
		"method":    ctx.Request().Method,
		"requestId": ctx.Response().Header().Get(echo.HeaderXRequestID),
	}}
	if usr := contextUser(ctx); usr != nil {
		args = append(args, *usr)
	}
	logger.Error("request failed", args...)
}
