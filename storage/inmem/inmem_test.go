package inmemdb

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/smartcampusucv/web/core"
	"github.com/smartcampusucv/web/core/activity"
	"github.com/smartcampusucv/web/core/chat"
	"github.com/smartcampusucv/web/core/enrollment"
	"github.com/smartcampusucv/web/core/participation"
	"github.com/smartcampusucv/web/core/recognition"
	"github.com/smartcampusucv/web/core/user"
)

const domain = "ucv.edu.pe"

type services struct {
	usr  *user.Service
	act  *activity.Service
	enr  *enrollment.Service
	part *participation.Service
	rec  *recognition.Service
	chat *chat.Service
}

func setup(t *testing.T) services {
	t.Helper()
	db := Open("test-secret")
	require.NoError(t, db.Seed(domain))
	return services{
		usr:  user.NewService(NewUserRepository(db)),
		act:  activity.NewService(NewActivityRepository(db)),
		enr:  enrollment.NewService(NewEnrollmentRepository(db)),
		part: participation.NewService(NewParticipationRepository(db)),
		rec:  recognition.NewService(NewRecognitionRepository(db)),
		chat: chat.NewService(NewChatRepository(db), nil),
	}
}

func signIn(t *testing.T, svc *user.Service, email string) (context.Context, *user.User) {
	t.Helper()
	state, err := svc.SignIn(context.Background(), email, DemoPassword)
	require.NoError(t, err)
	return core.ContextWithToken(context.Background(), state.Token), state.User
}

func TestSignInAndRestore(t *testing.T) {
	s := setup(t)

	_, err := s.usr.SignIn(context.Background(), "atorres@ucv.edu.pe", "wrong-pass")
	assert.Equal(t, user.ErrInvalidCredentials, err)

	state, err := s.usr.SignIn(context.Background(), "atorres@ucv.edu.pe", DemoPassword)
	require.NoError(t, err)
	assert.Equal(t, user.RoleStudent, state.Role())
	assert.False(t, user.TokenExpired(state.Token))

	restored, err := s.usr.Restore(context.Background(), state.Token)
	require.NoError(t, err)
	assert.Equal(t, state.User.ID, restored.User.ID)

	_, err = s.usr.Restore(context.Background(), state.Token+"x")
	assert.True(t, core.IsUnauthorized(err))
}

func TestSignUp(t *testing.T) {
	s := setup(t)
	nu := user.NewUser{Nombre: "Eva", Apellido: "Ríos", CorreoInstitucional: "erios@ucv.edu.pe", Contrasena: "Bosque#77"}

	require.NoError(t, s.usr.SignUp(context.Background(), nu))
	err := s.usr.SignUp(context.Background(), nu)
	assert.EqualError(t, err, user.ErrAccountExists.Error())

	state, err := s.usr.SignIn(context.Background(), "erios@ucv.edu.pe", "Bosque#77")
	require.NoError(t, err)
	assert.Equal(t, user.RoleStudent, state.Role())
}

func TestEnrollmentFlow(t *testing.T) {
	s := setup(t)
	orgCtx, organizer := signIn(t, s.usr, "lparedes@ucv.edu.pe")
	stuCtx, student := signIn(t, s.usr, "atorres@ucv.edu.pe")

	tomorrow := time.Now().AddDate(0, 0, 1)
	f := activity.Form{
		Titulo:      "Siembra de árboles",
		Descripcion: "Plantamos 50 árboles nativos en el campus.",
		Categoria:   activity.CategoryEnvironment,
		Fecha:       tomorrow.Format("2006-01-02"),
		Hora:        "10:00",
		Lugar:       "Campo 3",
	}
	act, err := s.act.Create(orgCtx, organizer, f)
	require.NoError(t, err)
	assert.Equal(t, organizer.ID, act.OrganizadorID)

	_, err = s.enr.Enroll(orgCtx, organizer, act.ID)
	assert.True(t, core.IsForbidden(err))

	insc, err := s.enr.Enroll(stuCtx, student, act.ID)
	require.NoError(t, err)
	sub, err := s.enr.Subscription(stuCtx, act.ID)
	require.NoError(t, err)
	assert.True(t, sub.Subscribed)

	require.NoError(t, s.enr.Confirm(orgCtx, organizer, act, insc.ID))
	roster, err := s.enr.Roster(orgCtx, organizer, act)
	require.NoError(t, err)
	require.Len(t, roster, 1)
	assert.True(t, roster[0].IsConfirmed())

	// a future activity is never eligible for attendance
	mine, err := s.enr.Mine(stuCtx)
	require.NoError(t, err)
	eligible, err := s.part.Eligible(stuCtx, mine)
	require.NoError(t, err)
	assert.False(t, eligible[insc.ID])
}

func TestAttendanceAndRanking(t *testing.T) {
	s := setup(t)
	ctx, student := signIn(t, s.usr, "atorres@ucv.edu.pe")

	mine, err := s.enr.Mine(ctx)
	require.NoError(t, err)
	eligible, err := s.part.Eligible(ctx, mine)
	require.NoError(t, err)

	// only the confirmed inscription to the past clean-up is open
	var open []enrollment.Inscription
	for _, insc := range mine {
		if eligible[insc.ID] {
			open = append(open, insc)
		}
	}
	require.Len(t, open, 1)
	insc := open[0]
	require.NotNil(t, insc.Actividad)
	assert.Equal(t, "Limpieza del campus", insc.Actividad.Titulo)

	before, err := s.part.Standing(ctx, student.ID)
	require.NoError(t, err)
	assert.False(t, before.Ranked())

	p, err := s.part.Confirm(ctx, student, *insc.Actividad, insc, participation.Attendance{Attended: true, Feedback: "Excelente"})
	require.NoError(t, err)
	assert.Equal(t, participation.AttendancePoints+participation.FeedbackBonus, p.Puntos)

	_, err = s.part.Confirm(ctx, student, *insc.Actividad, insc, participation.Attendance{Attended: true})
	assert.Equal(t, participation.ErrNotEligible, err)

	board, err := s.part.Leaderboard(ctx, student.ID)
	require.NoError(t, err)
	assert.Len(t, board.Entries, 2)
	assert.True(t, board.Me.Ranked())
	assert.Equal(t, 15, board.Me.Points)
}

func TestActivityPermissions(t *testing.T) {
	s := setup(t)
	adminCtx, admin := signIn(t, s.usr, "rquispe@ucv.edu.pe")
	orgCtx, organizer := signIn(t, s.usr, "lparedes@ucv.edu.pe")

	acts, err := s.act.List(orgCtx, activity.Filter{Search: "energía"})
	require.NoError(t, err)
	require.Len(t, acts, 1)
	adminsAct := acts[0]
	assert.Equal(t, admin.ID, adminsAct.OrganizadorID)

	_, err = s.act.Update(orgCtx, organizer, adminsAct.ID, activity.FormFromActivity(adminsAct))
	assert.True(t, core.IsForbidden(err))

	f := activity.FormFromActivity(adminsAct)
	f.Titulo = "Charla: energía solar y eólica"
	updated, err := s.act.Update(adminCtx, admin, adminsAct.ID, f)
	require.NoError(t, err)
	assert.Equal(t, f.Titulo, updated.Titulo)

	require.NoError(t, s.act.Delete(adminCtx, admin, adminsAct.ID))
	_, err = s.act.Get(adminCtx, adminsAct.ID)
	assert.True(t, core.IsNotFound(err))
}

func TestRecognitions(t *testing.T) {
	s := setup(t)
	adminCtx, admin := signIn(t, s.usr, "rquispe@ucv.edu.pe")
	stuCtx, student := signIn(t, s.usr, "atorres@ucv.edu.pe")

	mine, err := s.rec.Mine(stuCtx)
	require.NoError(t, err)
	assert.Len(t, mine, 2)

	_, err = s.rec.Query(stuCtx, student, "")
	assert.True(t, core.IsForbidden(err))

	rec, err := s.rec.Issue(adminCtx, admin, recognition.NewRecognition{UsuarioID: student.ID, Descripcion: "Mejor asistencia"})
	require.NoError(t, err)
	assert.Equal(t, recognition.KindMedal, rec.Kind())
	assert.Equal(t, "Ana Torres", rec.Usuario.FullName())

	found, err := s.rec.Query(adminCtx, admin, "mejor asistencia")
	require.NoError(t, err)
	assert.Len(t, found, 1)
}

func TestChatbot(t *testing.T) {
	s := setup(t)
	ctx, student := signIn(t, s.usr, "atorres@ucv.edu.pe")

	msg, err := s.chat.Send(ctx, *student, "Recomiéndame actividades")
	require.NoError(t, err)
	assert.Contains(t, msg.Text(), "Te recomiendo")
	assert.NotEqual(t, chat.ApologyText, msg.Text())
}
