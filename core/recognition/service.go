package recognition

import (
	"context"

	"github.com/pkg/errors"

	"github.com/smartcampusucv/web/core"
	"github.com/smartcampusucv/web/core/user"
)

// Repository is the backend surface for recognitions.
type Repository interface {
	QueryAll(ctx context.Context) ([]Recognition, error)
	QueryMine(ctx context.Context) ([]Recognition, error)
	QueryByUser(ctx context.Context, userID int) ([]Recognition, error)
	Create(ctx context.Context, p Payload) (Recognition, error)
}

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Query lists every recognition matching search. Administrators only.
func (svc *Service) Query(ctx context.Context, actor *user.User, search string) ([]Recognition, error) {
	if actor == nil || !actor.CanManageRecognitions() {
		return nil, core.ErrForbidden
	}
	recs, err := svc.repo.QueryAll(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "querying recognitions")
	}
	matched := make([]Recognition, 0, len(recs))
	for _, rec := range recs {
		if rec.Match(search) {
			matched = append(matched, rec)
		}
	}
	return matched, nil
}

func (svc *Service) Mine(ctx context.Context) ([]Recognition, error) {
	recs, err := svc.repo.QueryMine(ctx)
	return recs, errors.Wrap(err, "querying my recognitions")
}

func (svc *Service) ForUser(ctx context.Context, userID int) ([]Recognition, error) {
	recs, err := svc.repo.QueryByUser(ctx, userID)
	return recs, errors.Wrapf(err, "querying recognitions of user %d", userID)
}

// Issue validates nr and creates the recognition. Administrators only.
func (svc *Service) Issue(ctx context.Context, actor *user.User, nr NewRecognition) (Recognition, error) {
	if actor == nil || !actor.CanManageRecognitions() {
		return Recognition{}, core.ErrForbidden
	}
	if err := nr.Validate(); err != nil {
		return Recognition{}, err
	}
	rec, err := svc.repo.Create(ctx, nr.Payload())
	if err != nil {
		return Recognition{}, errors.Wrap(err, "creating recognition")
	}
	return rec, nil
}
