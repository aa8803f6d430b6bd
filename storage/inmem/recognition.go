package inmemdb

import (
	"context"
	"sort"

	"github.com/smartcampusucv/web/core/recognition"
)

type recognitionRepository struct {
	db *DB
}

var _ recognition.Repository = (*recognitionRepository)(nil) // interface compliance check

func NewRecognitionRepository(db *DB) recognition.Repository {
	return &recognitionRepository{db: db}
}

func (repo *recognitionRepository) QueryAll(ctx context.Context) ([]recognition.Recognition, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	me, err := repo.db.currentUser(ctx)
	if err != nil {
		return nil, err
	}
	if !me.IsAdmin() {
		return nil, errForbidden
	}
	return repo.db.recognitions(0), nil
}

func (repo *recognitionRepository) QueryMine(ctx context.Context) ([]recognition.Recognition, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	me, err := repo.db.currentUser(ctx)
	if err != nil {
		return nil, err
	}
	return repo.db.recognitions(me.ID), nil
}

func (repo *recognitionRepository) QueryByUser(ctx context.Context, userID int) ([]recognition.Recognition, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	if _, err := repo.db.currentUser(ctx); err != nil {
		return nil, err
	}
	return repo.db.recognitions(userID), nil
}

func (repo *recognitionRepository) Create(ctx context.Context, p recognition.Payload) (recognition.Recognition, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	me, err := repo.db.currentUser(ctx)
	if err != nil {
		return recognition.Recognition{}, err
	}
	if !me.IsAdmin() {
		return recognition.Recognition{}, errForbidden
	}
	return repo.db.insertRecognition(p)
}

// insertRecognition must be called with the write lock held.
func (db *DB) insertRecognition(p recognition.Payload) (recognition.Recognition, error) {
	if _, ok := db.users[p.UsuarioID]; !ok {
		return recognition.Recognition{}, errNotFound("Usuario")
	}
	rec := &recognition.Recognition{
		ID:          db.nextPK(),
		UsuarioID:   p.UsuarioID,
		Tipo:        p.Tipo,
		Descripcion: p.Descripcion,
		Fecha:       NowFunc().UTC(),
	}
	db.recs[rec.ID] = rec
	out := *rec
	out.Usuario = db.summary(rec.UsuarioID)
	return out, nil
}

// recognitions lists the recognitions of userID (all when 0), newest first.
func (db *DB) recognitions(userID int) []recognition.Recognition {
	recs := make([]recognition.Recognition, 0)
	for _, rec := range db.recs {
		if userID == 0 || rec.UsuarioID == userID {
			r := *rec
			r.Usuario = db.summary(r.UsuarioID)
			recs = append(recs, r)
		}
	}
	sort.Slice(recs, func(i, j int) bool { return recs[i].ID > recs[j].ID })
	return recs
}
