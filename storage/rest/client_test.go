package restrepos

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/smartcampusucv/web/core"
	"github.com/smartcampusucv/web/core/activity"
	"github.com/smartcampusucv/web/core/enrollment"
	"github.com/smartcampusucv/web/core/participation"
	"github.com/smartcampusucv/web/core/recognition"
	"github.com/smartcampusucv/web/core/user"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

type recorded struct {
	method string
	path   string
	query  string
	auth   string
	body   map[string]interface{}
}

// newBackend serves canned answers keyed by "METHOD /path" and records every request.
func newBackend(t *testing.T, routes map[string]func(w http.ResponseWriter)) (*Client, *backendLog) {
	t.Helper()
	reqs := new(backendLog)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rec := recorded{method: r.Method, path: r.URL.Path, query: r.URL.RawQuery, auth: r.Header.Get("Authorization")}
		if data, _ := io.ReadAll(r.Body); len(data) > 0 {
			_ = json.Unmarshal(data, &rec.body)
		}
		reqs.add(rec)

		handler, ok := routes[r.Method+" "+r.URL.Path]
		if !ok {
			w.WriteHeader(http.StatusNotFound)
			_, _ = w.Write([]byte(`{"statusCode":404,"message":"Cannot ` + r.Method + ` ` + r.URL.Path + `"}`))
			return
		}
		w.Header().Set("Content-Type", "application/json")
		handler(w)
	}))
	t.Cleanup(srv.Close)
	return NewClient(srv.URL+"/", 5*time.Second), reqs
}

type backendLog struct {
	mu   sync.Mutex
	reqs []recorded
}

func (l *backendLog) add(rec recorded) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.reqs = append(l.reqs, rec)
}

func (l *backendLog) all() []recorded {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]recorded(nil), l.reqs...)
}

func (l *backendLog) at(i int) recorded { return l.all()[i] }

func reply(code int, body string) func(w http.ResponseWriter) {
	return func(w http.ResponseWriter) {
		w.WriteHeader(code)
		_, _ = w.Write([]byte(body))
	}
}

func TestUserRepository_Login(t *testing.T) {
	tests := []struct {
		name      string
		answer    func(w http.ResponseWriter)
		wantToken string
		wantUser  bool
		wantErr   string
	}{
		{
			name:      "access_token and user",
			answer:    reply(http.StatusCreated, `{"access_token":"abc","user":{"id":1,"nombre":"Ana","rol":"estudiante"}}`),
			wantToken: "abc", wantUser: true,
		},
		{
			name:      "token and usuario",
			answer:    reply(http.StatusOK, `{"token":"xyz","usuario":{"id":1,"nombre":"Ana","rol":"estudiante"}}`),
			wantToken: "xyz", wantUser: true,
		},
		{name: "token only", answer: reply(http.StatusOK, `{"access_token":"abc"}`), wantToken: "abc"},
		{
			name:    "unauthorized",
			answer:  reply(http.StatusUnauthorized, `{"statusCode":401,"message":"Credenciales inválidas","error":"Unauthorized"}`),
			wantErr: "POST /auth/login: backend: 401 Credenciales inválidas",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, reqs := newBackend(t, map[string]func(http.ResponseWriter){"POST /auth/login": tt.answer})
			repo := NewUserRepository(c)

			res, err := repo.Login(context.Background(), user.Credentials{CorreoInstitucional: "ana@ucv.edu.pe", Contrasena: "Campus#2024"})
			require.Len(t, reqs.all(), 1)
			assert.Equal(t, "ana@ucv.edu.pe", reqs.at(0).body["correoInstitucional"])
			assert.Equal(t, "Campus#2024", reqs.at(0).body["contrasena"])
			assert.Empty(t, reqs.at(0).auth)
			if tt.wantErr != "" {
				assert.EqualError(t, err, tt.wantErr)
				assert.True(t, core.IsUnauthorized(err))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantToken, res.Token)
			assert.Equal(t, tt.wantUser, res.User != nil)
		})
	}
}

func TestUserRepository_UpdateUser(t *testing.T) {
	c, reqs := newBackend(t, map[string]func(http.ResponseWriter){
		"PATCH /usuarios/3": reply(http.StatusOK, `{"id":3,"nombre":"Ana"}`),
	})
	repo := NewUserRepository(c)
	noPhoto := ""

	tests := []struct {
		name     string
		foto     *string
		wantFoto bool
	}{
		{name: "unchanged photo is not sent", foto: nil, wantFoto: false},
		{name: "removed photo is sent empty", foto: &noPhoto, wantFoto: true},
	}
	for i, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := repo.UpdateUser(context.Background(), 3, user.UpdateProfile{Nombre: "Ana", Apellido: "Torres", Foto: tt.foto})
			require.NoError(t, err)
			foto, ok := reqs.at(i).body["foto"]
			if ok != tt.wantFoto {
				t.Errorf("failed! foto sent = %v; want %v", ok, tt.wantFoto)
			}
			if ok && foto != "" {
				t.Errorf("failed! foto = %v; want empty", foto)
			}
		})
	}
}

func TestClient_bearerToken(t *testing.T) {
	c, reqs := newBackend(t, map[string]func(http.ResponseWriter){
		"GET /auth/me": reply(http.StatusOK, `{"id":3,"nombre":"Rosa","apellido":"Quispe","correoInstitucional":"rquispe@ucv.edu.pe","rol":"administrador"}`),
	})
	repo := NewUserRepository(c)

	usr, err := repo.Me(core.ContextWithToken(context.Background(), "tkn"))
	require.NoError(t, err)
	assert.Equal(t, "Rosa Quispe", usr.FullName())
	assert.True(t, usr.IsAdmin())
	assert.Equal(t, "Bearer tkn", reqs.at(0).auth)
}

func TestClient_errors(t *testing.T) {
	tests := []struct {
		name       string
		answer     func(w http.ResponseWriter)
		wantStatus int
		wantMsg    string
	}{
		{name: "string message", answer: reply(http.StatusConflict, `{"statusCode":409,"message":"El correo ya existe"}`), wantStatus: 409, wantMsg: "El correo ya existe"},
		{
			name:       "message list",
			answer:     reply(http.StatusBadRequest, `{"statusCode":400,"message":["titulo must be longer","lugar should not be empty"],"error":"Bad Request"}`),
			wantStatus: 400, wantMsg: "titulo must be longer; lugar should not be empty",
		},
		{name: "error only", answer: reply(http.StatusForbidden, `{"statusCode":403,"error":"Forbidden"}`), wantStatus: 403, wantMsg: "Forbidden"},
		{name: "not json", answer: reply(http.StatusBadGateway, `<html>bad gateway</html>`), wantStatus: 502},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, _ := newBackend(t, map[string]func(http.ResponseWriter){"POST /actividades": tt.answer})
			repo := NewActivityRepository(c)

			_, err := repo.Create(context.Background(), activity.Payload{Titulo: "x"})
			require.Error(t, err)
			apiErr, ok := errors.Cause(err).(*core.APIError)
			require.True(t, ok, "want *core.APIError, got %T", err)
			assert.Equal(t, tt.wantStatus, apiErr.Status)
			assert.Equal(t, tt.wantMsg, apiErr.Message)
		})
	}
}

func TestClient_cancelledContext(t *testing.T) {
	c, reqs := newBackend(t, map[string]func(http.ResponseWriter){"GET /actividades": reply(http.StatusOK, `[]`)})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewActivityRepository(c).QueryAll(ctx)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, reqs.all())
}

func TestActivityRepository(t *testing.T) {
	c, reqs := newBackend(t, map[string]func(http.ResponseWriter){
		"GET /actividades":      reply(http.StatusOK, `[{"id":1,"titulo":"Reciclaje","organizadorId":2,"organizador":{"nombre":"Luis","apellido":"Paredes"}}]`),
		"GET /actividades/1":    reply(http.StatusOK, `{"id":1,"titulo":"Reciclaje","maxParticipantes":30,"nivelSostenibilidad":7}`),
		"PATCH /actividades/1":  reply(http.StatusOK, `{"id":1,"titulo":"Reciclaje 2"}`),
		"DELETE /actividades/1": reply(http.StatusNoContent, ``),
	})
	repo := NewActivityRepository(c)
	ctx := context.Background()

	acts, err := repo.QueryAll(ctx)
	require.NoError(t, err)
	require.Len(t, acts, 1)
	assert.Equal(t, "Luis Paredes", acts[0].OrganizerName())

	act, err := repo.GetByID(ctx, 1)
	require.NoError(t, err)
	require.NotNil(t, act.MaxParticipantes)
	assert.Equal(t, 30, *act.MaxParticipantes)

	lvl := 7
	_, err = repo.Update(ctx, 1, activity.Payload{Titulo: "Reciclaje 2", Fecha: "2025-06-01", Hora: "2025-06-01T09:30:00.000Z", NivelSostenibilidad: &lvl})
	require.NoError(t, err)
	assert.Equal(t, "2025-06-01T09:30:00.000Z", reqs.at(2).body["hora"])
	assert.NotContains(t, reqs.at(2).body, "maxParticipantes")
	assert.EqualValues(t, 7, reqs.at(2).body["nivelSostenibilidad"])

	require.NoError(t, repo.Delete(ctx, 1))

	_, err = repo.GetByID(ctx, 2)
	assert.True(t, core.IsNotFound(err))
}

func TestEnrollmentRepository(t *testing.T) {
	c, reqs := newBackend(t, map[string]func(http.ResponseWriter){
		"POST /inscripciones":            reply(http.StatusCreated, `{"id":9,"actividadId":4,"estado":"pendiente"}`),
		"PATCH /inscripciones/9":         reply(http.StatusOK, `{"id":9,"actividadId":4,"estado":"cancelada"}`),
		"GET /inscripciones":             reply(http.StatusOK, `[{"id":9,"actividad":{"id":4,"titulo":"Huerto"},"estado":"pendiente"}]`),
		"GET /inscripciones/actividad/4": reply(http.StatusOK, `[{"id":9,"usuario":{"id":1,"nombre":"Ana","apellido":"Torres"},"estado":"pendiente"}]`),
	})
	repo := NewEnrollmentRepository(c)
	ctx := context.Background()

	insc, err := repo.Create(ctx, 4)
	require.NoError(t, err)
	assert.Equal(t, enrollment.StatusPending, insc.Estado)
	assert.EqualValues(t, 4, reqs.at(0).body["actividadId"])

	insc, err = repo.UpdateStatus(ctx, 9, enrollment.StatusCancelled)
	require.NoError(t, err)
	assert.True(t, insc.IsCancelled())
	assert.Equal(t, map[string]interface{}{"estado": "cancelada"}, reqs.at(1).body)

	mine, err := repo.QueryMine(ctx)
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.Equal(t, 4, mine[0].ActivityID())

	roster, err := repo.QueryByActivity(ctx, 4)
	require.NoError(t, err)
	require.Len(t, roster, 1)
	assert.Equal(t, "Ana Torres", roster[0].Usuario.FullName())
}

func TestParticipationRepository(t *testing.T) {
	c, reqs := newBackend(t, map[string]func(http.ResponseWriter){
		"GET /participaciones/ranking-global": reply(http.StatusOK, `[{"usuarioId":1,"puntos":45,"usuario":{"id":1,"nombre":"Ana","apellido":"Torres"}}]`),
		"POST /participaciones":               reply(http.StatusCreated, `{"id":3,"actividadId":4,"usuarioId":1,"asistencia":true,"feedback":null,"puntos":10}`),
	})
	repo := NewParticipationRepository(c)
	ctx := context.Background()

	entries, err := repo.Ranking(ctx, participation.TopLimit)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "limit=100", reqs.at(0).query)

	p, err := repo.Create(ctx, participation.NewParticipation(user.User{ID: 1}, 4, participation.Attendance{Attended: true}))
	require.NoError(t, err)
	assert.Equal(t, 10, p.Puntos)
	assert.False(t, p.Feedback.Valid)
	assert.Nil(t, reqs.at(1).body["feedback"])
	assert.EqualValues(t, 10, reqs.at(1).body["puntos"])
}

func TestRecognitionRepository(t *testing.T) {
	c, reqs := newBackend(t, map[string]func(http.ResponseWriter){
		"GET /reconocimientos/mis-reconocimientos": reply(http.StatusOK, `[{"id":1,"usuarioId":1,"tipo":null,"descripcion":"Eco héroe","fecha":"2025-05-01T10:00:00.000Z"}]`),
		"GET /reconocimientos/usuario/2":           reply(http.StatusOK, `[]`),
		"POST /reconocimientos":                    reply(http.StatusCreated, `{"id":2,"usuarioId":2,"tipo":"badge","descripcion":null}`),
	})
	repo := NewRecognitionRepository(c)
	ctx := context.Background()

	recs, err := repo.QueryMine(ctx)
	require.NoError(t, err)
	require.Len(t, recs, 1)
	assert.False(t, recs[0].Tipo.Valid)
	assert.Equal(t, "Reconocimiento", recs[0].Title())
	assert.Equal(t, 2025, recs[0].Fecha.Year())

	recs, err = repo.QueryByUser(ctx, 2)
	require.NoError(t, err)
	assert.Empty(t, recs)

	nr := recognition.NewRecognition{UsuarioID: 2}
	require.NoError(t, nr.Validate())
	rec, err := repo.Create(ctx, nr.Payload())
	require.NoError(t, err)
	assert.Equal(t, recognition.KindMedal, rec.Kind())
	assert.Equal(t, map[string]interface{}{"usuarioId": float64(2), "tipo": "badge", "descripcion": nil}, reqs.at(2).body)
}

func TestChatRepository(t *testing.T) {
	c, reqs := newBackend(t, map[string]func(http.ResponseWriter){
		"POST /chatbot": reply(http.StatusCreated, `{"id":5,"respuestaBot":"Te recomiendo **Reciclaje**","fecha":"2025-05-10T12:00:00.000Z"}`),
	})
	repo := NewChatRepository(c)

	r, err := repo.Ask(core.ContextWithToken(context.Background(), "tkn"), 1, "Hola")
	require.NoError(t, err)
	assert.Equal(t, "Te recomiendo **Reciclaje**", r.RespuestaBot)
	assert.Equal(t, map[string]interface{}{"usuarioId": float64(1), "mensajeUsuario": "Hola"}, reqs.at(0).body)
	assert.Equal(t, "Bearer tkn", reqs.at(0).auth)
}
