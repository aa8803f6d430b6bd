package enrollment

import (
	"context"

	"github.com/pkg/errors"

	"github.com/smartcampusucv/web/core"
	"github.com/smartcampusucv/web/core/activity"
	"github.com/smartcampusucv/web/core/user"
)

var (
	ErrAlreadySubscribed = errors.New("ya estás inscrito en esta actividad")
	ErrNotSubscribed     = errors.New("no estás inscrito en esta actividad")
	ErrInvalidTransition = errors.New("cambio de estado no permitido")
)

// Repository is the backend surface for inscriptions.
type Repository interface {
	Create(ctx context.Context, activityID int) (Inscription, error)
	UpdateStatus(ctx context.Context, id int, status string) (Inscription, error)
	QueryMine(ctx context.Context) ([]Inscription, error)
	QueryByActivity(ctx context.Context, activityID int) ([]Inscription, error)
}

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (svc *Service) Mine(ctx context.Context) ([]Inscription, error) {
	inscs, err := svc.repo.QueryMine(ctx)
	return inscs, errors.Wrap(err, "querying my inscriptions")
}

// Subscription returns the signed-in student's state for activityID.
func (svc *Service) Subscription(ctx context.Context, activityID int) (Subscription, error) {
	mine, err := svc.Mine(ctx)
	if err != nil {
		return Subscription{}, err
	}
	return SubscriptionFor(mine, activityID), nil
}

// Enroll subscribes a student to activityID.
func (svc *Service) Enroll(ctx context.Context, actor *user.User, activityID int) (Inscription, error) {
	if actor == nil || !actor.IsStudent() {
		return Inscription{}, core.ErrForbidden
	}
	sub, err := svc.Subscription(ctx, activityID)
	if err != nil {
		return Inscription{}, err
	}
	if sub.Subscribed {
		return Inscription{}, ErrAlreadySubscribed
	}
	insc, err := svc.repo.Create(ctx, activityID)
	if err != nil {
		return Inscription{}, errors.Wrapf(err, "enrolling in activity %d", activityID)
	}
	return insc, nil
}

// Unsubscribe cancels the student's active inscription to activityID.
func (svc *Service) Unsubscribe(ctx context.Context, actor *user.User, activityID int) error {
	if actor == nil || !actor.IsStudent() {
		return core.ErrForbidden
	}
	sub, err := svc.Subscription(ctx, activityID)
	if err != nil {
		return err
	}
	if !sub.Subscribed {
		return ErrNotSubscribed
	}
	_, err = svc.repo.UpdateStatus(ctx, sub.InscriptionID, StatusCancelled)
	return errors.Wrapf(err, "cancelling inscription %d", sub.InscriptionID)
}

// Roster lists the inscriptions of act for one of its editors.
func (svc *Service) Roster(ctx context.Context, actor *user.User, act activity.Activity) ([]Inscription, error) {
	if !act.CanEdit(actor) {
		return nil, core.ErrForbidden
	}
	inscs, err := svc.repo.QueryByActivity(ctx, act.ID)
	return inscs, errors.Wrapf(err, "querying roster of activity %d", act.ID)
}

func (svc *Service) Confirm(ctx context.Context, actor *user.User, act activity.Activity, inscriptionID int) error {
	return svc.setStatus(ctx, actor, act, inscriptionID, StatusConfirmed)
}

func (svc *Service) Cancel(ctx context.Context, actor *user.User, act activity.Activity, inscriptionID int) error {
	return svc.setStatus(ctx, actor, act, inscriptionID, StatusCancelled)
}

func (svc *Service) setStatus(ctx context.Context, actor *user.User, act activity.Activity, inscriptionID int, status string) error {
	roster, err := svc.Roster(ctx, actor, act)
	if err != nil {
		return err
	}
	for _, insc := range roster {
		if insc.ID != inscriptionID {
			continue
		}
		if !CanTransition(insc.Estado, status) {
			return ErrInvalidTransition
		}
		_, err = svc.repo.UpdateStatus(ctx, inscriptionID, status)
		return errors.Wrapf(err, "updating inscription %d", inscriptionID)
	}
	return core.ErrNotFound
}
