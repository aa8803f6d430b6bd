package echoweb

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/smartcampusucv/web/core/participation"
)

func registerRankingRoutes(g *echo.Group, s *server) {
	g.GET("/ranking", func(ctx echo.Context) error {
		board, err := s.deps.ParticipationSvc.Leaderboard(requestContext(ctx), contextUser(ctx).ID)
		if err != nil {
			return errors.Wrap(err, "loading ranking")
		}
		return render(ctx, http.StatusOK, "ranking", "Ranking", rankingData{
			Board:  board,
			UserID: contextUser(ctx).ID,
		})
	}, requireAuth)
}

type rankingData struct {
	participation.Board
	UserID int
}

// Podium returns the first three entries.
func (d rankingData) Podium() []participation.RankingEntry {
	if len(d.Entries) > 3 {
		return d.Entries[:3]
	}
	return d.Entries
}
