package restrepos

import (
	"context"
	"strconv"

	"github.com/smartcampusucv/web/core/activity"
)

type activityRepository struct {
	c *Client
}

var _ activity.Repository = (*activityRepository)(nil) // interface compliance check

func NewActivityRepository(c *Client) activity.Repository {
	return &activityRepository{c: c}
}

func (repo *activityRepository) QueryAll(ctx context.Context) ([]activity.Activity, error) {
	acts := make([]activity.Activity, 0)
	err := repo.c.get(ctx, "/actividades", &acts)
	return acts, err
}

func (repo *activityRepository) GetByID(ctx context.Context, id int) (activity.Activity, error) {
	var act activity.Activity
	err := repo.c.get(ctx, "/actividades/"+strconv.Itoa(id), &act)
	return act, err
}

func (repo *activityRepository) Create(ctx context.Context, p activity.Payload) (activity.Activity, error) {
	var act activity.Activity
	err := repo.c.post(ctx, "/actividades", p, &act)
	return act, err
}

func (repo *activityRepository) Update(ctx context.Context, id int, p activity.Payload) (activity.Activity, error) {
	var act activity.Activity
	err := repo.c.patch(ctx, "/actividades/"+strconv.Itoa(id), p, &act)
	return act, err
}

func (repo *activityRepository) Delete(ctx context.Context, id int) error {
	return repo.c.delete(ctx, "/actividades/"+strconv.Itoa(id))
}
