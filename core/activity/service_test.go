package activity

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/smartcampusucv/web/core"
	"github.com/smartcampusucv/web/core/user"
)

type repoMock struct {
	calls   int
	acts    map[int]Activity
	created []Payload
	updated map[int]Payload
	deleted []int
}

func newRepoMock() *repoMock {
	return &repoMock{
		acts: map[int]Activity{
			1: {ID: 1, Titulo: "Reciclaje", Fecha: "2025-06-03", Hora: "2025-06-03T10:00:00.000Z", OrganizadorID: 2},
			2: {ID: 2, Titulo: "Siembra", Fecha: "2025-06-01", Hora: "2025-06-01T08:00:00.000Z", OrganizadorID: 3},
		},
		updated: make(map[int]Payload),
	}
}

func (r *repoMock) QueryAll(context.Context) ([]Activity, error) {
	r.calls++
	return []Activity{r.acts[1], r.acts[2]}, nil
}

func (r *repoMock) GetByID(_ context.Context, id int) (Activity, error) {
	r.calls++
	act, ok := r.acts[id]
	if !ok {
		return Activity{}, &core.APIError{Status: http.StatusNotFound, Message: "Actividad no encontrada"}
	}
	return act, nil
}

func (r *repoMock) Create(_ context.Context, p Payload) (Activity, error) {
	r.calls++
	r.created = append(r.created, p)
	return Activity{ID: 3, Titulo: p.Titulo}, nil
}

func (r *repoMock) Update(_ context.Context, id int, p Payload) (Activity, error) {
	r.calls++
	r.updated[id] = p
	return Activity{ID: id, Titulo: p.Titulo}, nil
}

func (r *repoMock) Delete(_ context.Context, id int) error {
	r.calls++
	r.deleted = append(r.deleted, id)
	return nil
}

var (
	student   = &user.User{ID: 1, Rol: user.RoleStudent}
	organizer = &user.User{ID: 2, Rol: user.RoleOrganizer}
	admin     = &user.User{ID: 9, Rol: user.RoleAdmin}
)

func TestService_List(t *testing.T) {
	defer func() { NowFunc = time.Now }()
	NowFunc = func() time.Time { return time.Date(2025, 5, 30, 0, 0, 0, 0, time.UTC) }

	svc := NewService(newRepoMock())
	acts, err := svc.List(context.Background(), Filter{})
	require.NoError(t, err)
	require.Len(t, acts, 2)
	assert.Equal(t, 2, acts[0].ID, "soonest first")

	acts, err = svc.List(context.Background(), Filter{Search: "recic"})
	require.NoError(t, err)
	require.Len(t, acts, 1)
	assert.Equal(t, 1, acts[0].ID)
}

func TestService_Create(t *testing.T) {
	defer func() { NowFunc = time.Now }()
	NowFunc = func() time.Time { return time.Date(2025, 5, 10, 12, 0, 0, 0, time.Local) }

	tests := []struct {
		name      string
		actor     *user.User
		edit      func(f *Form)
		wantErr   func(error) bool
		wantCalls int
	}{
		{name: "organizer", actor: organizer, wantCalls: 1},
		{name: "admin", actor: admin, wantCalls: 1},
		{name: "student forbidden", actor: student, wantErr: core.IsForbidden},
		{name: "anonymous forbidden", wantErr: core.IsForbidden},
		{name: "invalid form", actor: organizer, edit: func(f *Form) { f.Titulo = "x" }, wantErr: core.IsValidation},
		{name: "past date", actor: organizer, edit: func(f *Form) { f.Fecha = "2025-05-01" }, wantErr: core.IsValidation},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := newRepoMock()
			svc := NewService(repo)

			f := validForm()
			f.NivelSostenibilidad = ""
			if tt.edit != nil {
				tt.edit(&f)
			}
			_, err := svc.Create(context.Background(), tt.actor, f)
			if tt.wantErr != nil {
				assert.True(t, tt.wantErr(err), "unexpected error: %v", err)
			} else {
				require.NoError(t, err)
				require.Len(t, repo.created, 1)
				require.NotNil(t, repo.created[0].NivelSostenibilidad)
				assert.Equal(t, DefaultSustainability, *repo.created[0].NivelSostenibilidad)
			}
			assert.Equal(t, tt.wantCalls, repo.calls)
		})
	}
}

func TestService_Update(t *testing.T) {
	tests := []struct {
		name      string
		actor     *user.User
		id        int
		edit      func(f *Form)
		wantErr   func(error) bool
		wantCalls int
	}{
		{name: "owner", actor: organizer, id: 1, wantCalls: 2},
		{name: "admin any", actor: admin, id: 2, wantCalls: 2},
		{name: "not owner", actor: organizer, id: 2, wantErr: core.IsForbidden, wantCalls: 1},
		{name: "student", actor: student, id: 1, wantErr: core.IsForbidden},
		{name: "missing", actor: admin, id: 42, wantErr: core.IsNotFound, wantCalls: 1},
		{name: "short title never hits backend", actor: organizer, id: 1, edit: func(f *Form) { f.Titulo = "ab" }, wantErr: core.IsValidation},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := newRepoMock()
			svc := NewService(repo)

			f := validForm()
			if tt.edit != nil {
				tt.edit(&f)
			}
			_, err := svc.Update(context.Background(), tt.actor, tt.id, f)
			if tt.wantErr != nil {
				assert.True(t, tt.wantErr(err), "unexpected error: %v", err)
				assert.Empty(t, repo.updated)
			} else {
				require.NoError(t, err)
				assert.Equal(t, "2025-06-01T09:30:00.000Z", repo.updated[tt.id].Hora)
			}
			assert.Equal(t, tt.wantCalls, repo.calls)
		})
	}
}

func TestService_Delete(t *testing.T) {
	repo := newRepoMock()
	svc := NewService(repo)

	err := svc.Delete(context.Background(), organizer, 2)
	assert.True(t, core.IsForbidden(err))
	assert.Empty(t, repo.deleted)

	require.NoError(t, svc.Delete(context.Background(), organizer, 1))
	assert.Equal(t, []int{1}, repo.deleted)
}
