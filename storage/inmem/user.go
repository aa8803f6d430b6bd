package inmemdb

import (
	"context"
	"net/http"
	"sort"

	"golang.org/x/crypto/bcrypt"

	"github.com/smartcampusucv/web/core/user"
)

type userRepository struct {
	db *DB
}

var _ user.Repository = (*userRepository)(nil) // interface compliance check

func NewUserRepository(db *DB) user.Repository {
	return &userRepository{db: db}
}

func (repo *userRepository) Login(_ context.Context, creds user.Credentials) (user.LoginResult, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	for _, row := range repo.db.users {
		if row.CorreoInstitucional != creds.CorreoInstitucional {
			continue
		}
		if bcrypt.CompareHashAndPassword(row.PasswordHash, []byte(creds.Contrasena)) != nil {
			break
		}
		token, err := repo.db.issueToken(row.User)
		if err != nil {
			return user.LoginResult{}, err
		}
		usr := row.User
		return user.LoginResult{Token: token, User: &usr}, nil
	}
	return user.LoginResult{}, apiError(http.StatusUnauthorized, "Credenciales inválidas")
}

func (repo *userRepository) Register(_ context.Context, nu user.NewUser) error {
	_, err := repo.db.CreateUser(nu)
	return err
}

// CreateUser stores a new account; seeding and registration share it.
func (db *DB) CreateUser(nu user.NewUser) (user.User, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(nu.Contrasena), bcrypt.DefaultCost)
	if err != nil {
		return user.User{}, err
	}

	db.Lock()
	defer db.Unlock()
	for _, row := range db.users {
		if row.CorreoInstitucional == nu.CorreoInstitucional {
			return user.User{}, apiError(http.StatusConflict, "El correo ya está registrado")
		}
	}
	if nu.Rol == "" {
		nu.Rol = user.RoleStudent
	}
	row := &userRow{
		User: user.User{
			ID:                  db.nextPK(),
			Nombre:              nu.Nombre,
			Apellido:            nu.Apellido,
			CorreoInstitucional: nu.CorreoInstitucional,
			Rol:                 nu.Rol,
			Intereses:           nu.Intereses,
			Hobbies:             nu.Hobbies,
		},
		PasswordHash: hash,
	}
	db.users[row.ID] = row
	return row.User, nil
}

func (repo *userRepository) Me(ctx context.Context) (user.User, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	row, err := repo.db.currentUser(ctx)
	if err != nil {
		return user.User{}, err
	}
	return row.User, nil
}

func (repo *userRepository) UpdateUser(ctx context.Context, id int, up user.UpdateProfile) (user.User, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	me, err := repo.db.currentUser(ctx)
	if err != nil {
		return user.User{}, err
	}
	row, ok := repo.db.users[id]
	if !ok {
		return user.User{}, errNotFound("Usuario")
	}
	if me.ID != id && !me.IsAdmin() {
		return user.User{}, errForbidden
	}
	row.Nombre = up.Nombre
	row.Apellido = up.Apellido
	row.Intereses = up.Intereses
	row.Hobbies = up.Hobbies
	if up.Foto != nil {
		row.Foto = *up.Foto
	}
	return row.User, nil
}

func (repo *userRepository) QueryAllUsers(ctx context.Context) ([]user.User, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	if _, err := repo.db.currentUser(ctx); err != nil {
		return nil, err
	}
	users := make([]user.User, 0, len(repo.db.users))
	for _, row := range repo.db.users {
		users = append(users, row.User)
	}
	sort.Slice(users, func(i, j int) bool { return users[i].ID < users[j].ID })
	return users, nil
}
