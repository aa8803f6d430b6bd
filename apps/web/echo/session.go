package echoweb

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/smartcampusucv/web/core"
	"github.com/smartcampusucv/web/core/user"
)

const (
	sessionCookie   = "campus_session"
	contextStateKey = "authState"
	csrfContextKey  = "csrf"
	csrfField       = "_csrf"

	secureCookiesKey = "secureCookies"
)

// sessionMiddleware restores the session from the stored token on every request.
// A token the backend no longer accepts is forgotten.
func (s *server) sessionMiddleware(next echo.HandlerFunc) echo.HandlerFunc {
	return func(ctx echo.Context) error {
		var token string
		if cookie, err := ctx.Cookie(sessionCookie); err == nil {
			token = cookie.Value
		}

		state, err := s.deps.UserSvc.Restore(ctx.Request().Context(), token)
		if err != nil {
			if !core.IsUnauthorized(err) && err != user.ErrSessionExpired && s.deps.Logger != nil {
				s.deps.Logger.Warn("restoring session", err)
			}
			s.clearSession(ctx)
			state = user.AuthState{}
		}
		ctx.Set(contextStateKey, state)
		if state.Token != "" {
			req := ctx.Request()
			ctx.SetRequest(req.WithContext(core.ContextWithToken(req.Context(), state.Token)))
		}
		return next(ctx)
	}
}

// cookieMiddleware makes Options.SecureCookies available to newCookie.
func (s *server) cookieMiddleware(next echo.HandlerFunc) echo.HandlerFunc {
	return func(ctx echo.Context) error {
		ctx.Set(secureCookiesKey, s.opts.SecureCookies)
		return next(ctx)
	}
}

// newCookie is the shape of every cookie the app writes: HttpOnly, SameSite=Lax, site-wide.
func newCookie(ctx echo.Context, name, value string) *http.Cookie {
	secure, _ := ctx.Get(secureCookiesKey).(bool)
	return &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	}
}

func expireCookie(ctx echo.Context, name string) {
	cookie := newCookie(ctx, name, "")
	cookie.MaxAge = -1
	ctx.SetCookie(cookie)
}

func (s *server) storeSession(ctx echo.Context, token string) {
	cookie := newCookie(ctx, sessionCookie, token)
	if claims, ok := user.ParseClaims(token); ok && claims.ExpiresAt > 0 {
		cookie.Expires = time.Unix(claims.ExpiresAt, 0)
	}
	ctx.SetCookie(cookie)
}

func (s *server) clearSession(ctx echo.Context) {
	expireCookie(ctx, sessionCookie)
}

func contextState(ctx echo.Context) user.AuthState {
	state, _ := ctx.Get(contextStateKey).(user.AuthState)
	return state
}

// contextUser returns the signed-in user; routes behind requireAuth always have one.
func contextUser(ctx echo.Context) *user.User {
	return contextState(ctx).User
}

func requestContext(ctx echo.Context) context.Context {
	return ctx.Request().Context()
}

// requireAuth sends unauthenticated visitors to the login page.
func requireAuth(next echo.HandlerFunc) echo.HandlerFunc {
	return func(ctx echo.Context) error {
		if contextState(ctx).Phase() != user.PhaseAuthenticated {
			return ctx.Redirect(http.StatusSeeOther, "/login")
		}
		return next(ctx)
	}
}

// guestOnly keeps signed-in users away from the login and register pages.
func guestOnly(next echo.HandlerFunc) echo.HandlerFunc {
	return func(ctx echo.Context) error {
		if contextState(ctx).Phase() == user.PhaseAuthenticated {
			return ctx.Redirect(http.StatusSeeOther, "/inicio")
		}
		return next(ctx)
	}
}

// roleMiddleware lets through users holding one of roles; anyone else lands on the home page.
func roleMiddleware(roles ...string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(ctx echo.Context) error {
			usr := contextUser(ctx)
			if usr == nil {
				return ctx.Redirect(http.StatusSeeOther, "/login")
			}
			if !usr.HasAnyRole(roles...) {
				return ctx.Redirect(http.StatusSeeOther, "/inicio")
			}
			return next(ctx)
		}
	}
}

func csrfToken(ctx echo.Context) string {
	token, _ := ctx.Get(csrfContextKey).(string)
	return token
}
