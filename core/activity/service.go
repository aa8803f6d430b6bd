package activity

import (
	"context"
	"sort"

	"github.com/pkg/errors"

	"github.com/smartcampusucv/web/core"
	"github.com/smartcampusucv/web/core/user"
)

// Repository is the backend surface for activities.
type Repository interface {
	QueryAll(ctx context.Context) ([]Activity, error)
	GetByID(ctx context.Context, id int) (Activity, error)
	Create(ctx context.Context, p Payload) (Activity, error)
	Update(ctx context.Context, id int, p Payload) (Activity, error)
	Delete(ctx context.Context, id int) error
}

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// List fetches every activity and applies the home page filter, soonest first.
func (svc *Service) List(ctx context.Context, filter Filter) ([]Activity, error) {
	acts, err := svc.repo.QueryAll(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "querying activities")
	}
	filter.Clean()
	acts = filter.Apply(acts, NowFunc())
	sort.SliceStable(acts, func(i, j int) bool { return acts[i].StartsAt().Before(acts[j].StartsAt()) })
	return acts, nil
}

func (svc *Service) Get(ctx context.Context, id int) (Activity, error) {
	act, err := svc.repo.GetByID(ctx, id)
	return act, errors.Wrapf(err, "getting activity %d", id)
}

// Create validates f and posts it. Only organizers and administrators may create.
func (svc *Service) Create(ctx context.Context, actor *user.User, f Form) (Activity, error) {
	if actor == nil || !actor.CanCreateActivities() {
		return Activity{}, core.ErrForbidden
	}
	if f.NivelSostenibilidad == "" {
		f.NivelSostenibilidad = NewForm().NivelSostenibilidad
	}
	if err := f.Validate(true /* creating */); err != nil {
		return Activity{}, err
	}
	act, err := svc.repo.Create(ctx, f.Payload())
	if err != nil {
		return Activity{}, errors.Wrap(err, "creating activity")
	}
	return act, nil
}

// Update validates f before touching the network, then checks that actor may edit the activity.
func (svc *Service) Update(ctx context.Context, actor *user.User, id int, f Form) (Activity, error) {
	if err := f.Validate(false /* creating */); err != nil {
		return Activity{}, err
	}
	if err := svc.checkEditor(ctx, actor, id); err != nil {
		return Activity{}, err
	}
	act, err := svc.repo.Update(ctx, id, f.Payload())
	if err != nil {
		return Activity{}, errors.Wrapf(err, "updating activity %d", id)
	}
	return act, nil
}

func (svc *Service) Delete(ctx context.Context, actor *user.User, id int) error {
	if err := svc.checkEditor(ctx, actor, id); err != nil {
		return err
	}
	return errors.Wrapf(svc.repo.Delete(ctx, id), "deleting activity %d", id)
}

func (svc *Service) checkEditor(ctx context.Context, actor *user.User, id int) error {
	if actor == nil || !(actor.IsAdmin() || actor.IsOrganizer()) {
		return core.ErrForbidden
	}
	act, err := svc.repo.GetByID(ctx, id)
	if err != nil {
		return errors.Wrapf(err, "getting activity %d", id)
	}
	if !act.CanEdit(actor) {
		return core.ErrForbidden
	}
	return nil
}
