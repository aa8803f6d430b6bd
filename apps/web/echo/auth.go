package echoweb

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/smartcampusucv/web/core"
	"github.com/smartcampusucv/web/core/user"
)

type authPages struct {
	*server
}

func registerAuthRoutes(g *echo.Group, s *server) {
	h := authPages{s}

	g.GET("/login", h.loginForm, guestOnly)
	g.POST("/login", h.login, guestOnly)
	g.GET("/registro", h.registerForm, guestOnly)
	g.POST("/registro", h.register, guestOnly)
	g.POST("/logout", h.logout)
}

type registerData struct {
	Form   user.NewUser
	Domain string
}

func (h authPages) loginForm(ctx echo.Context) error {
	return render(ctx, http.StatusOK, "login", "Iniciar sesión", user.Credentials{})
}

func (h authPages) login(ctx echo.Context) error {
	var data user.Credentials
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to Credentials")
	}

	state, err := h.deps.UserSvc.SignIn(requestContext(ctx), data.CorreoInstitucional, data.Contrasena)
	if err != nil {
		data.Contrasena = ""
		if err == user.ErrInvalidCredentials {
			return render(ctx, http.StatusUnauthorized, "login", "Iniciar sesión", data, err)
		}
		logError(h.deps.Logger, ctx, err)
		return render(ctx, http.StatusBadGateway, "login", "Iniciar sesión", data, errSignIn)
	}

	h.storeSession(ctx, state.Token)
	return ctx.Redirect(http.StatusSeeOther, "/inicio")
}

func (h authPages) registerForm(ctx echo.Context) error {
	return render(ctx, http.StatusOK, "register", "Crear cuenta", registerData{Domain: core.Conf.InstitutionalDomain})
}

// register creates the account and sends the user to sign in; it never signs in by itself.
func (h authPages) register(ctx echo.Context) error {
	var data user.NewUser
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewUser")
	}
	data.Rol = user.RoleStudent

	if err := h.deps.UserSvc.SignUp(requestContext(ctx), data); err != nil {
		code := http.StatusUnprocessableEntity
		if !core.IsValidation(err) {
			logError(h.deps.Logger, ctx, err)
			code, err = http.StatusBadGateway, errSignUp
		}
		data.Contrasena = ""
		return render(ctx, code, "register", "Crear cuenta",
			registerData{Form: data, Domain: core.Conf.InstitutionalDomain}, err)
	}
	return redirectWithFlash(ctx, "/login", flashSuccess, "¡Cuenta creada! Ahora puedes iniciar sesión.")
}

func (h authPages) logout(ctx echo.Context) error {
	if usr := contextUser(ctx); usr != nil {
		h.deps.ChatSvc.Forget(usr.ID)
	}
	h.clearSession(ctx)
	return ctx.Redirect(http.StatusSeeOther, "/login")
}
