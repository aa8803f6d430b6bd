package inmemdb

import (
	"context"
	"net/http"
	"sort"

	"github.com/smartcampusucv/web/core/enrollment"
)

type enrollmentRepository struct {
	db *DB
}

var _ enrollment.Repository = (*enrollmentRepository)(nil) // interface compliance check

func NewEnrollmentRepository(db *DB) enrollment.Repository {
	return &enrollmentRepository{db: db}
}

// view embeds the user and activity the way the backend does. Must be called with a lock held.
func (db *DB) view(insc enrollment.Inscription) enrollment.Inscription {
	insc.Usuario = db.summary(insc.UsuarioID)
	if act, ok := db.acts[insc.ActividadID]; ok {
		a := db.withOrganizer(*act)
		insc.Actividad = &a
	}
	return insc
}

func (repo *enrollmentRepository) Create(ctx context.Context, activityID int) (enrollment.Inscription, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	me, err := repo.db.currentUser(ctx)
	if err != nil {
		return enrollment.Inscription{}, err
	}
	act, ok := repo.db.acts[activityID]
	if !ok {
		return enrollment.Inscription{}, errNotFound("Actividad")
	}
	active := 0
	for _, insc := range repo.db.inscs {
		if insc.ActividadID != activityID || !insc.IsActive() {
			continue
		}
		if insc.UsuarioID == me.ID {
			return enrollment.Inscription{}, apiError(http.StatusConflict, "Ya estás inscrito en esta actividad")
		}
		active++
	}
	if act.MaxParticipantes != nil && *act.MaxParticipantes > 0 && active >= *act.MaxParticipantes {
		return enrollment.Inscription{}, apiError(http.StatusConflict, "La actividad no tiene cupos disponibles")
	}
	insc := &enrollment.Inscription{
		ID:          repo.db.nextPK(),
		UsuarioID:   me.ID,
		ActividadID: activityID,
		Estado:      enrollment.StatusPending,
	}
	repo.db.inscs[insc.ID] = insc
	return repo.db.view(*insc), nil
}

func (repo *enrollmentRepository) UpdateStatus(ctx context.Context, id int, status string) (enrollment.Inscription, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	me, err := repo.db.currentUser(ctx)
	if err != nil {
		return enrollment.Inscription{}, err
	}
	insc, ok := repo.db.inscs[id]
	if !ok {
		return enrollment.Inscription{}, errNotFound("Inscripción")
	}
	act := repo.db.acts[insc.ActividadID]
	owner := insc.UsuarioID == me.ID && status == enrollment.StatusCancelled
	if !owner && (act == nil || !act.CanEdit(&me.User)) {
		return enrollment.Inscription{}, errForbidden
	}
	insc.Estado = status
	return repo.db.view(*insc), nil
}

func (repo *enrollmentRepository) QueryMine(ctx context.Context) ([]enrollment.Inscription, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	me, err := repo.db.currentUser(ctx)
	if err != nil {
		return nil, err
	}
	return repo.db.inscriptions(func(insc *enrollment.Inscription) bool { return insc.UsuarioID == me.ID }), nil
}

func (repo *enrollmentRepository) QueryByActivity(ctx context.Context, activityID int) ([]enrollment.Inscription, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	if _, err := repo.db.currentUser(ctx); err != nil {
		return nil, err
	}
	return repo.db.inscriptions(func(insc *enrollment.Inscription) bool { return insc.ActividadID == activityID }), nil
}

func (db *DB) inscriptions(keep func(*enrollment.Inscription) bool) []enrollment.Inscription {
	inscs := make([]enrollment.Inscription, 0)
	for _, insc := range db.inscs {
		if keep(insc) {
			inscs = append(inscs, db.view(*insc))
		}
	}
	sort.Slice(inscs, func(i, j int) bool { return inscs[i].ID < inscs[j].ID })
	return inscs
}
