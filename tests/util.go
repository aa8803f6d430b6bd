package testutil

import (
	"context"
	"testing"

	"github.com/smartcampusucv/web/core"
	"github.com/smartcampusucv/web/core/user"
	inmemdb "github.com/smartcampusucv/web/storage/inmem"
)

// Seeded accounts of the demo backend; all share inmemdb.DemoPassword.
const (
	Domain         = "ucv.edu.pe"
	AdminEmail     = "rquispe@" + Domain
	OrganizerEmail = "lparedes@" + Domain
	StudentEmail   = "atorres@" + Domain
	Student2Email  = "msalas@" + Domain
)

// OpenDB returns a freshly seeded in-memory backend.
func OpenDB(t *testing.T) *inmemdb.DB {
	t.Helper()
	db := inmemdb.Open("test-secret")
	if err := db.Seed(Domain); err != nil {
		t.Fatalf("OpenDB() failed: %v", err)
	}
	return db
}

func CreateUser(t *testing.T, db *inmemdb.DB, nombre, apellido, email, pwd, rol string) user.User {
	t.Helper()
	usr, err := db.CreateUser(user.NewUser{
		Nombre:              nombre,
		Apellido:            apellido,
		CorreoInstitucional: email,
		Contrasena:          pwd,
		Rol:                 rol,
	})
	if err != nil {
		t.Fatalf("CreateUser() failed: %v", err)
	}
	return usr
}

// SignIn logs email in against db and returns a context carrying the session token.
func SignIn(t *testing.T, db *inmemdb.DB, email string) (context.Context, user.User) {
	t.Helper()
	res, err := inmemdb.NewUserRepository(db).Login(context.Background(), user.Credentials{
		CorreoInstitucional: email,
		Contrasena:          inmemdb.DemoPassword,
	})
	if err != nil {
		t.Fatalf("SignIn() failed: %v", err)
	}
	return core.ContextWithToken(context.Background(), res.Token), *res.User
}
