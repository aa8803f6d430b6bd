package restrepos

import (
	"context"
	"strconv"

	"github.com/smartcampusucv/web/core/enrollment"
)

type enrollmentRepository struct {
	c *Client
}

var _ enrollment.Repository = (*enrollmentRepository)(nil) // interface compliance check

func NewEnrollmentRepository(c *Client) enrollment.Repository {
	return &enrollmentRepository{c: c}
}

func (repo *enrollmentRepository) Create(ctx context.Context, activityID int) (enrollment.Inscription, error) {
	var insc enrollment.Inscription
	body := struct {
		ActividadID int `json:"actividadId"`
	}{activityID}
	err := repo.c.post(ctx, "/inscripciones", body, &insc)
	return insc, err
}

func (repo *enrollmentRepository) UpdateStatus(ctx context.Context, id int, status string) (enrollment.Inscription, error) {
	var insc enrollment.Inscription
	body := struct {
		Estado string `json:"estado"`
	}{status}
	err := repo.c.patch(ctx, "/inscripciones/"+strconv.Itoa(id), body, &insc)
	return insc, err
}

func (repo *enrollmentRepository) QueryMine(ctx context.Context) ([]enrollment.Inscription, error) {
	inscs := make([]enrollment.Inscription, 0)
	err := repo.c.get(ctx, "/inscripciones", &inscs)
	return inscs, err
}

func (repo *enrollmentRepository) QueryByActivity(ctx context.Context, activityID int) ([]enrollment.Inscription, error) {
	inscs := make([]enrollment.Inscription, 0)
	err := repo.c.get(ctx, "/inscripciones/actividad/"+strconv.Itoa(activityID), &inscs)
	return inscs, err
}
