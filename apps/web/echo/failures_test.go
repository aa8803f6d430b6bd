package echoweb

import (
	"context"
	"net/http"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/smartcampusucv/web/core"
	"github.com/smartcampusucv/web/core/activity"
	"github.com/smartcampusucv/web/core/user"
	inmemdb "github.com/smartcampusucv/web/storage/inmem"
	"github.com/smartcampusucv/web/tests"
)

var errBackendDown = &core.APIError{Status: http.StatusInternalServerError, Message: "Internal server error"}

// brokenActivities lists activities but fails every write.
type brokenActivities struct {
	activity.Repository
}

func (brokenActivities) Create(context.Context, activity.Payload) (activity.Activity, error) {
	return activity.Activity{}, errBackendDown
}

func (brokenActivities) Update(context.Context, int, activity.Payload) (activity.Activity, error) {
	return activity.Activity{}, errBackendDown
}

// brokenAuth fails sign-in and sign-up; sessions already issued keep working.
type brokenAuth struct {
	user.Repository
}

func (brokenAuth) Login(context.Context, user.Credentials) (user.LoginResult, error) {
	return user.LoginResult{}, &core.APIError{Status: http.StatusServiceUnavailable}
}

func (brokenAuth) Register(context.Context, user.NewUser) error {
	return errBackendDown
}

func TestActivityBackendFailure(t *testing.T) {
	db := testutil.OpenDB(t)
	deps := setupDeps(db)
	deps.ActivitySvc = activity.NewService(brokenActivities{inmemdb.NewActivityRepository(db)})
	app := NewServer(&Options{DisableReqLogs: true, DisableCSRF: true}, deps)

	session := login(t, app, testutil.OrganizerEmail)

	edit := activityForm("Limpieza del campus y jardines")
	runHTTPTests(t, app, []httpTest{
		{
			name: "create", method: http.MethodPost, path: "/actividades", session: session, form: activityForm("Siembra de árboles"),
			wantCode: http.StatusBadGateway, wantBody: []string{"Error al crear la actividad", `value="Siembra de árboles"`},
		},
		{
			name: "update", method: http.MethodPost, path: "/actividades/5", session: session, form: edit,
			wantCode: http.StatusBadGateway, wantBody: []string{"Error al actualizar la actividad", `value="Limpieza del campus y jardines"`},
		},
	})

	rec := do(app, http.MethodGet, "/actividades/5", session, nil)
	assert.Contains(t, rec.Body.String(), "Limpieza del campus")
	assert.NotContains(t, rec.Body.String(), "Limpieza del campus y jardines")
}

func TestAuthBackendFailure(t *testing.T) {
	db := testutil.OpenDB(t)
	deps := setupDeps(db)
	deps.UserSvc = user.NewService(brokenAuth{inmemdb.NewUserRepository(db)})
	app := NewServer(&Options{DisableReqLogs: true, DisableCSRF: true}, deps)

	runHTTPTests(t, app, []httpTest{
		{
			name: "login", method: http.MethodPost, path: "/login",
			form:     url.Values{"correoInstitucional": {testutil.StudentEmail}, "contrasena": {inmemdb.DemoPassword}},
			wantCode: http.StatusBadGateway, wantBody: []string{"Error al iniciar sesión", `value="` + testutil.StudentEmail + `"`},
		},
		{
			name: "register", method: http.MethodPost, path: "/registro",
			form: url.Values{
				"nombre": {"Eva"}, "apellido": {"Rojas"}, "correoInstitucional": {"erojas@" + testutil.Domain},
				"contrasena": {"Camp0s!verde"},
			},
			wantCode: http.StatusBadGateway, wantBody: []string{"Error al crear la cuenta", `value="Eva"`},
		},
	})
}
