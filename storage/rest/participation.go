package restrepos

import (
	"context"
	"net/url"
	"strconv"

	"github.com/smartcampusucv/web/core/participation"
)

type participationRepository struct {
	c *Client
}

var _ participation.Repository = (*participationRepository)(nil) // interface compliance check

func NewParticipationRepository(c *Client) participation.Repository {
	return &participationRepository{c: c}
}

func (repo *participationRepository) Create(ctx context.Context, p participation.Participation) (participation.Participation, error) {
	var created participation.Participation
	err := repo.c.post(ctx, "/participaciones", p, &created)
	return created, err
}

func (repo *participationRepository) QueryMine(ctx context.Context) ([]participation.Participation, error) {
	parts := make([]participation.Participation, 0)
	err := repo.c.get(ctx, "/participaciones", &parts)
	return parts, err
}

func (repo *participationRepository) Ranking(ctx context.Context, limit int) ([]participation.RankingEntry, error) {
	q := make(url.Values)
	q.Set("limit", strconv.Itoa(limit))
	entries := make([]participation.RankingEntry, 0)
	err := repo.c.get(ctx, "/participaciones/ranking-global?"+q.Encode(), &entries)
	return entries, err
}
