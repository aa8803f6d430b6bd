package inmemdb

import (
	"context"
	"sort"

	"github.com/smartcampusucv/web/core/activity"
)

type activityRepository struct {
	db *DB
}

var _ activity.Repository = (*activityRepository)(nil) // interface compliance check

func NewActivityRepository(db *DB) activity.Repository {
	return &activityRepository{db: db}
}

// withOrganizer must be called with a lock held.
func (db *DB) withOrganizer(act activity.Activity) activity.Activity {
	act.Organizador = db.summary(act.OrganizadorID)
	return act
}

func (repo *activityRepository) QueryAll(context.Context) ([]activity.Activity, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	acts := make([]activity.Activity, 0, len(repo.db.acts))
	for _, act := range repo.db.acts {
		acts = append(acts, repo.db.withOrganizer(*act))
	}
	sort.Slice(acts, func(i, j int) bool { return acts[i].ID < acts[j].ID })
	return acts, nil
}

func (repo *activityRepository) GetByID(_ context.Context, id int) (activity.Activity, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	act, ok := repo.db.acts[id]
	if !ok {
		return activity.Activity{}, errNotFound("Actividad")
	}
	return repo.db.withOrganizer(*act), nil
}

func (repo *activityRepository) Create(ctx context.Context, p activity.Payload) (activity.Activity, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	me, err := repo.db.currentUser(ctx)
	if err != nil {
		return activity.Activity{}, err
	}
	if !me.CanCreateActivities() {
		return activity.Activity{}, errForbidden
	}
	return repo.db.insertActivity(me.ID, p), nil
}

// insertActivity must be called with the write lock held.
func (db *DB) insertActivity(organizerID int, p activity.Payload) activity.Activity {
	act := &activity.Activity{ID: db.nextPK(), OrganizadorID: organizerID}
	applyPayload(act, p)
	db.acts[act.ID] = act
	return db.withOrganizer(*act)
}

func (repo *activityRepository) Update(ctx context.Context, id int, p activity.Payload) (activity.Activity, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	act, err := repo.editable(ctx, id)
	if err != nil {
		return activity.Activity{}, err
	}
	applyPayload(act, p)
	return repo.db.withOrganizer(*act), nil
}

func (repo *activityRepository) Delete(ctx context.Context, id int) error {
	repo.db.Lock()
	defer repo.db.Unlock()

	if _, err := repo.editable(ctx, id); err != nil {
		return err
	}
	delete(repo.db.acts, id)
	for inscID, insc := range repo.db.inscs {
		if insc.ActividadID == id {
			delete(repo.db.inscs, inscID)
		}
	}
	return nil
}

func (repo *activityRepository) editable(ctx context.Context, id int) (*activity.Activity, error) {
	me, err := repo.db.currentUser(ctx)
	if err != nil {
		return nil, err
	}
	act, ok := repo.db.acts[id]
	if !ok {
		return nil, errNotFound("Actividad")
	}
	if !act.CanEdit(&me.User) {
		return nil, errForbidden
	}
	return act, nil
}

func applyPayload(act *activity.Activity, p activity.Payload) {
	act.Titulo = p.Titulo
	act.Descripcion = p.Descripcion
	act.Categoria = p.Categoria
	act.Fecha = p.Fecha
	act.Hora = p.Hora
	act.Lugar = p.Lugar
	act.MaxParticipantes = p.MaxParticipantes
	act.NivelSostenibilidad = p.NivelSostenibilidad
}
