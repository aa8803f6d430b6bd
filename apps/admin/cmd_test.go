package main

import (
	"bytes"
	"os"
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/smartcampusucv/web/core"
	"github.com/smartcampusucv/web/core/participation"
	"github.com/smartcampusucv/web/core/recognition"
	"github.com/smartcampusucv/web/core/user"
	inmemdb "github.com/smartcampusucv/web/storage/inmem"
	"github.com/smartcampusucv/web/tests"
)

func setup(t *testing.T) (*commandLine, *bytes.Buffer, *inmemdb.DB) {
	db := testutil.OpenDB(t)
	out := new(bytes.Buffer)
	return &commandLine{
		usrSvc:  user.NewService(inmemdb.NewUserRepository(db)),
		partSvc: participation.NewService(inmemdb.NewParticipationRepository(db)),
		recSvc:  recognition.NewService(inmemdb.NewRecognitionRepository(db)),
		in:      os.Stdin,
		out:     out,
	}, out, db
}

func mockPassword(pwd string) {
	readPasswordFunc = func(fd int) ([]byte, error) {
		return []byte(pwd), nil
	}
}

type cliTest struct {
	name       string
	args       []string // without program name
	pwd        string
	wantErr    error
	wantErrStr string
	wantOut    []string
}

func runCLITests(t *testing.T, tests []cliTest) {
	t.Helper()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cli, out, _ := setup(t)
			mockPassword(tt.pwd)

			err := cli.run(append([]string{"admin"}, tt.args...))
			switch {
			case tt.wantErr != nil:
				if err != tt.wantErr {
					t.Errorf("failed! cli.run() error = %v, wantErr %v", err, tt.wantErr)
				}
			case tt.wantErrStr != "":
				if err == nil || !strings.Contains(err.Error(), tt.wantErrStr) {
					t.Errorf("failed! cli.run() error = %v, wantErrStr %s", err, tt.wantErrStr)
				}
			case err != nil:
				t.Errorf("failed! cli.run() unexpected error = %v", err)
			}
			for _, s := range tt.wantOut {
				assert.Contains(t, out.String(), s)
			}
		})
	}
}

func Test_commandLine_run(t *testing.T) {
	runCLITests(t, []cliTest{
		{name: "no command", wantErr: errHelp},
		{name: "unknown command", args: []string{"lol"}, wantErrStr: `unknown command "lol"`},
		{name: "no email", args: []string{"users"}, wantErr: errHelp},
		{name: "no password", args: []string{"users", "-e", testutil.AdminEmail}, wantErr: errNoPassword},
		{name: "wrong password", args: []string{"users", "-e", testutil.AdminEmail}, pwd: "lol", wantErr: user.ErrInvalidCredentials},
	})
}

func Test_commandLine_users(t *testing.T) {
	runCLITests(t, []cliTest{
		{
			name: "all", args: []string{"users", "-e", testutil.AdminEmail}, pwd: inmemdb.DemoPassword,
			wantOut: []string{"Rosa Quispe", testutil.StudentEmail, "Organizador", "4 usuarios"},
		},
		{
			name: "students", args: []string{"users", "-e", testutil.AdminEmail, "--rol", user.RoleStudent}, pwd: inmemdb.DemoPassword,
			wantOut: []string{"Ana Torres", "Marco Salas", "2 usuarios"},
		},
		{
			name: "search", args: []string{"users", "-e", testutil.AdminEmail, "-q", "paredes"}, pwd: inmemdb.DemoPassword,
			wantOut: []string{"Luis Paredes", "1 usuarios"},
		},
	})
}

func Test_commandLine_ranking(t *testing.T) {
	runCLITests(t, []cliTest{
		{
			name: "leaderboard", args: []string{"ranking", "-e", testutil.StudentEmail}, pwd: inmemdb.DemoPassword,
			wantOut: []string{"ESTUDIANTE", "Marco Salas", "15"},
		},
	})
}

func Test_commandLine_badge(t *testing.T) {
	cli, out, db := setup(t)
	mockPassword(inmemdb.DemoPassword)

	ctx, ana := testutil.SignIn(t, db, testutil.StudentEmail)
	anaID := strconv.Itoa(ana.ID)

	err := cli.run([]string{"admin", "badge", "-e", testutil.AdminEmail, "-u", anaID, "-d", "Mejor asistencia"})
	if err != nil {
		t.Fatalf("failed! cli.run() unexpected error = %v", err)
	}
	assert.Contains(t, out.String(), "(badge) otorgado a Ana Torres")

	recs, err := cli.recSvc.Mine(ctx)
	if err != nil {
		t.Fatalf("Mine() failed: %v", err)
	}
	assert.Len(t, recs, 3)

	runCLITests(t, []cliTest{
		{name: "admins only", args: []string{"badge", "-e", testutil.OrganizerEmail, "-u", anaID}, pwd: inmemdb.DemoPassword, wantErr: core.ErrForbidden},
		{name: "user required", args: []string{"badge", "-e", testutil.AdminEmail}, pwd: inmemdb.DemoPassword, wantErrStr: "Debes seleccionar un usuario"},
	})
}

func Test_commandLine_addUser(t *testing.T) {
	runCLITests(t, []cliTest{
		{name: "no email", args: []string{"adduser"}, wantErr: errHelp},
		{
			name: "foreign domain", args: []string{"adduser", "--nombre", "Eva", "--apellido", "Rojas", "--correo", "eva@gmail.com"},
			pwd: "Camp0s!verde", wantErrStr: "Usa tu correo institucional",
		},
		{
			name: "existing account", args: []string{"adduser", "--nombre", "Ana", "--apellido", "Torres", "--correo", testutil.StudentEmail},
			pwd: "Camp0s!verde", wantErrStr: user.ErrAccountExists.Error(),
		},
		{
			name: "organizer", args: []string{"adduser", "--nombre", "Eva", "--apellido", "Rojas", "--correo", "erojas@" + testutil.Domain, "--rol", user.RoleOrganizer},
			pwd: "Camp0s!verde", wantOut: []string{"Cuenta creada: erojas@" + testutil.Domain},
		},
	})
}
