package inmemdb

import (
	"context"
	"net/http"
	"sort"

	"github.com/smartcampusucv/web/core/participation"
)

type participationRepository struct {
	db *DB
}

var _ participation.Repository = (*participationRepository)(nil) // interface compliance check

func NewParticipationRepository(db *DB) participation.Repository {
	return &participationRepository{db: db}
}

func (repo *participationRepository) Create(ctx context.Context, p participation.Participation) (participation.Participation, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	me, err := repo.db.currentUser(ctx)
	if err != nil {
		return participation.Participation{}, err
	}
	if p.UsuarioID != me.ID {
		return participation.Participation{}, errForbidden
	}
	if _, ok := repo.db.acts[p.ActividadID]; !ok {
		return participation.Participation{}, errNotFound("Actividad")
	}
	for _, existing := range repo.db.parts {
		if existing.UsuarioID == me.ID && existing.ActividadID == p.ActividadID {
			return participation.Participation{}, apiError(http.StatusConflict, "La participación ya fue registrada")
		}
	}
	p.ID = repo.db.nextPK()
	repo.db.parts[p.ID] = &p
	return p, nil
}

func (repo *participationRepository) QueryMine(ctx context.Context) ([]participation.Participation, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	me, err := repo.db.currentUser(ctx)
	if err != nil {
		return nil, err
	}
	parts := make([]participation.Participation, 0)
	for _, p := range repo.db.parts {
		if p.UsuarioID == me.ID {
			parts = append(parts, *p)
		}
	}
	sort.Slice(parts, func(i, j int) bool { return parts[i].ID < parts[j].ID })
	return parts, nil
}

// Ranking sums points per user, highest first; ties keep the older account first.
func (repo *participationRepository) Ranking(_ context.Context, limit int) ([]participation.RankingEntry, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	totals := make(map[int]int)
	for _, p := range repo.db.parts {
		totals[p.UsuarioID] += p.Puntos
	}
	entries := make([]participation.RankingEntry, 0, len(totals))
	for userID, pts := range totals {
		entries = append(entries, participation.RankingEntry{UsuarioID: userID, Puntos: pts, Usuario: repo.db.summary(userID)})
	}
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].Puntos != entries[j].Puntos {
			return entries[i].Puntos > entries[j].Puntos
		}
		return entries[i].UsuarioID < entries[j].UsuarioID
	})
	if limit > 0 && len(entries) > limit {
		entries = entries[:limit]
	}
	return entries, nil
}
