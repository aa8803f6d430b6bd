package echoweb

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/smartcampusucv/web/core/chat"
)

func registerChatRoutes(g *echo.Group, s *server) {
	cg := g.Group("/chat", requireAuth)

	cg.GET("", func(ctx echo.Context) error {
		return render(ctx, http.StatusOK, "chat", "Asistente", chatData{
			Messages:    s.deps.ChatSvc.Transcript(*contextUser(ctx)),
			Suggestions: chat.Suggestions,
		})
	})

	cg.POST("", func(ctx echo.Context) error {
		_, err := s.deps.ChatSvc.Send(requestContext(ctx), *contextUser(ctx), ctx.FormValue("mensaje"))
		if err != nil {
			return redirectWithFlash(ctx, "/chat", flashError, err.Error())
		}
		return ctx.Redirect(http.StatusSeeOther, "/chat#ultimo")
	})
}

type chatData struct {
	Messages    []chat.Message
	Suggestions []string
}
