package participation

import (
	"context"
	"time"

	"github.com/pkg/errors"

	"github.com/smartcampusucv/web/core"
	"github.com/smartcampusucv/web/core/activity"
	"github.com/smartcampusucv/web/core/enrollment"
	"github.com/smartcampusucv/web/core/user"
)

var NowFunc = time.Now // mockable

// Leaderboard page sizes
const (
	TopLimit    = 100
	SearchLimit = 1000
)

var ErrNotEligible = errors.New("no puedes confirmar tu asistencia a esta actividad")

// Repository is the backend surface for participations and the ranking.
type Repository interface {
	Create(ctx context.Context, p Participation) (Participation, error)
	QueryMine(ctx context.Context) ([]Participation, error)
	Ranking(ctx context.Context, limit int) ([]RankingEntry, error)
}

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Board is the ranking page model.
type Board struct {
	Entries []RankingEntry
	Me      Standing
}

// Leaderboard fetches the top entries and locates userID, asking for a larger page when
// the user is not among the top.
func (svc *Service) Leaderboard(ctx context.Context, userID int) (Board, error) {
	entries, err := svc.repo.Ranking(ctx, TopLimit)
	if err != nil {
		return Board{}, errors.Wrap(err, "fetching ranking")
	}
	board := Board{Entries: entries}
	if userID == 0 {
		return board, nil
	}
	if me, ok := findStanding(entries, userID); ok {
		board.Me = me
		return board, nil
	}
	all, err := svc.repo.Ranking(ctx, SearchLimit)
	if err != nil {
		return Board{}, errors.Wrap(err, "fetching extended ranking")
	}
	board.Me, _ = findStanding(all, userID)
	return board, nil
}

// Standing is the user's position and total points.
func (svc *Service) Standing(ctx context.Context, userID int) (Standing, error) {
	board, err := svc.Leaderboard(ctx, userID)
	return board.Me, err
}

func (svc *Service) Mine(ctx context.Context) ([]Participation, error) {
	parts, err := svc.repo.QueryMine(ctx)
	return parts, errors.Wrap(err, "querying my participations")
}

// Eligible returns, keyed by inscription ID, the inscriptions whose attendance can be confirmed now.
// Inscriptions without an embedded activity are skipped.
func (svc *Service) Eligible(ctx context.Context, inscs []enrollment.Inscription) (map[int]bool, error) {
	mine, err := svc.Mine(ctx)
	if err != nil {
		return nil, err
	}
	now := NowFunc()
	eligible := make(map[int]bool)
	for _, insc := range inscs {
		if insc.Actividad != nil && CanConfirm(*insc.Actividad, insc, mine, now) {
			eligible[insc.ID] = true
		}
	}
	return eligible, nil
}

// Confirm records the actor's attendance to act through insc.
func (svc *Service) Confirm(ctx context.Context, actor *user.User, act activity.Activity, insc enrollment.Inscription, a Attendance) (Participation, error) {
	if actor == nil {
		return Participation{}, core.ErrForbidden
	}
	if insc.UsuarioID != 0 && insc.UsuarioID != actor.ID {
		return Participation{}, core.ErrForbidden
	}
	mine, err := svc.Mine(ctx)
	if err != nil {
		return Participation{}, err
	}
	if !CanConfirm(act, insc, mine, NowFunc()) {
		return Participation{}, ErrNotEligible
	}
	p, err := svc.repo.Create(ctx, NewParticipation(*actor, act.ID, a))
	if err != nil {
		return Participation{}, errors.Wrap(err, "recording participation")
	}
	return p, nil
}
