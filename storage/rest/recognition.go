package restrepos

import (
	"context"
	"strconv"

	"github.com/smartcampusucv/web/core/recognition"
)

type recognitionRepository struct {
	c *Client
}

var _ recognition.Repository = (*recognitionRepository)(nil) // interface compliance check

func NewRecognitionRepository(c *Client) recognition.Repository {
	return &recognitionRepository{c: c}
}

func (repo *recognitionRepository) QueryAll(ctx context.Context) ([]recognition.Recognition, error) {
	return repo.list(ctx, "/reconocimientos")
}

func (repo *recognitionRepository) QueryMine(ctx context.Context) ([]recognition.Recognition, error) {
	return repo.list(ctx, "/reconocimientos/mis-reconocimientos")
}

func (repo *recognitionRepository) QueryByUser(ctx context.Context, userID int) ([]recognition.Recognition, error) {
	return repo.list(ctx, "/reconocimientos/usuario/"+strconv.Itoa(userID))
}

func (repo *recognitionRepository) Create(ctx context.Context, p recognition.Payload) (recognition.Recognition, error) {
	var rec recognition.Recognition
	err := repo.c.post(ctx, "/reconocimientos", p, &rec)
	return rec, err
}

func (repo *recognitionRepository) list(ctx context.Context, path string) ([]recognition.Recognition, error) {
	recs := make([]recognition.Recognition, 0)
	err := repo.c.get(ctx, path, &recs)
	return recs, err
}
