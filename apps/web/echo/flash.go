package echoweb

import (
	"net/http"
	"net/url"
	"strings"

	"github.com/labstack/echo/v4"
)

const flashCookie = "campus_flash"

// Flash kinds
const (
	flashSuccess = "success"
	flashError   = "error"
)

// Flash is a one-shot toast carried across a redirect.
type Flash struct {
	Kind    string
	Message string
}

func setFlash(ctx echo.Context, kind, msg string) {
	ctx.SetCookie(newCookie(ctx, flashCookie, url.QueryEscape(kind+"|"+msg)))
}

// popFlash reads and clears the pending toast, if any.
func popFlash(ctx echo.Context) *Flash {
	cookie, err := ctx.Cookie(flashCookie)
	if err != nil || cookie.Value == "" {
		return nil
	}
	expireCookie(ctx, flashCookie)

	raw, err := url.QueryUnescape(cookie.Value)
	if err != nil {
		return nil
	}
	parts := strings.SplitN(raw, "|", 2)
	if len(parts) != 2 || parts[1] == "" {
		return nil
	}
	return &Flash{Kind: parts[0], Message: parts[1]}
}

// redirectWithFlash is the post/redirect/get tail of most form handlers.
func redirectWithFlash(ctx echo.Context, path, kind, msg string) error {
	setFlash(ctx, kind, msg)
	return ctx.Redirect(http.StatusSeeOther, path)
}
