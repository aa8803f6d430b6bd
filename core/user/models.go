package user

import (
	"strings"

	"github.com/smartcampusucv/web/core"
)

// Roles
const (
	RoleStudent   = "estudiante"
	RoleOrganizer = "organizador"
	RoleAdmin     = "administrador"
)

var (
	AllRoles = []string{RoleStudent, RoleOrganizer, RoleAdmin}

	rolePriorities = map[string]int{
		RoleAdmin:     30,
		RoleOrganizer: 20,
		RoleStudent:   10,
	}

	Roles = []Role{
		{Name: "Estudiante", Value: RoleStudent},
		{Name: "Organizador", Value: RoleOrganizer},
		{Name: "Administrador", Value: RoleAdmin},
	}
)

func RolePriority(role string) int {
	return rolePriorities[role]
}

// RoleName returns the display name of role, or role itself if unknown.
func RoleName(role string) string {
	for _, r := range Roles {
		if r.Value == role {
			return r.Name
		}
	}
	return role
}

type Role struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

type User struct {
	ID                  int    `json:"id"`
	Nombre              string `json:"nombre"`
	Apellido            string `json:"apellido"`
	CorreoInstitucional string `json:"correoInstitucional"`
	Rol                 string `json:"rol"`
	Intereses           string `json:"intereses,omitempty"`
	Hobbies             string `json:"hobbies,omitempty"`
	Foto                string `json:"foto,omitempty"` // data URL or remote URL
}

// Summary is the user shape embedded by the backend in other resources.
type Summary struct {
	ID                  int    `json:"id,omitempty"`
	Nombre              string `json:"nombre"`
	Apellido            string `json:"apellido"`
	CorreoInstitucional string `json:"correoInstitucional,omitempty"`
	Foto                string `json:"foto,omitempty"`
}

func (s Summary) FullName() string {
	return strings.TrimSpace(s.Nombre + " " + s.Apellido)
}

func (u User) FullName() string {
	if name := strings.TrimSpace(u.Nombre + " " + u.Apellido); name != "" {
		return name
	}
	return "Usuario"
}

// Initial is the avatar fallback letter.
func (u User) Initial() string {
	if u.Nombre == "" {
		return "U"
	}
	return strings.ToUpper(string([]rune(u.Nombre)[:1]))
}

func (u User) Summary() Summary {
	return Summary{
		ID:                  u.ID,
		Nombre:              u.Nombre,
		Apellido:            u.Apellido,
		CorreoInstitucional: u.CorreoInstitucional,
		Foto:                u.Foto,
	}
}

func (u User) InterestList() []string { return core.SplitList(u.Intereses) }
func (u User) HobbyList() []string    { return core.SplitList(u.Hobbies) }

func (u User) IsAdmin() bool     { return u.Rol == RoleAdmin }
func (u User) IsOrganizer() bool { return u.Rol == RoleOrganizer }
func (u User) IsStudent() bool   { return u.Rol == RoleStudent }

// CanCreateActivities gates the "Crear Actividad" page and nav item.
func (u User) CanCreateActivities() bool {
	return u.IsOrganizer() || u.IsAdmin()
}

// CanManageRecognitions gates the badge manager.
func (u User) CanManageRecognitions() bool {
	return u.IsAdmin()
}

// HasAnyRole reports whether the user holds one of roles; an empty list allows everyone.
func (u User) HasAnyRole(roles ...string) bool {
	if len(roles) == 0 {
		return true
	}
	for _, role := range roles {
		if u.Rol == role {
			return true
		}
	}
	return false
}

// Credentials is the login form.
type Credentials struct {
	CorreoInstitucional string `json:"correoInstitucional" form:"correoInstitucional" validate:"required,email"`
	Contrasena          string `json:"contrasena" form:"contrasena" validate:"required"`
}

func (c *Credentials) Validate() error {
	c.CorreoInstitucional = core.CleanString(c.CorreoInstitucional, true /* lower */)
	return core.ValidateStruct(c)
}

// NewUser contains information needed to register a new User.
type NewUser struct {
	Nombre              string `json:"nombre" form:"nombre" validate:"required,notblank"`
	Apellido            string `json:"apellido" form:"apellido" validate:"required,notblank"`
	CorreoInstitucional string `json:"correoInstitucional" form:"correoInstitucional" validate:"required,email,institutional"`
	Contrasena          string `json:"contrasena" form:"contrasena" validate:"required,pwdpolicy"`
	Rol                 string `json:"rol" form:"-" validate:"omitempty,oneof=estudiante organizador administrador"`
	Intereses           string `json:"intereses,omitempty" form:"intereses"`
	Hobbies             string `json:"hobbies,omitempty" form:"hobbies"`
}

// Validate cleans the form and applies the registration rules. It never touches the network.
func (nu *NewUser) Validate() error {
	nu.Nombre = core.CleanString(nu.Nombre)
	nu.Apellido = core.CleanString(nu.Apellido)
	nu.CorreoInstitucional = core.CleanString(nu.CorreoInstitucional, true /* lower */)
	nu.Intereses = core.JoinList(core.SplitList(nu.Intereses))
	nu.Hobbies = core.JoinList(core.SplitList(nu.Hobbies))
	if nu.Rol == "" {
		nu.Rol = RoleStudent
	}
	return core.ValidateStruct(nu)
}

// UpdateProfile defines what information may be provided to modify the signed-in User.
type UpdateProfile struct {
	Nombre    string `json:"nombre" validate:"required,notblank"`
	Apellido  string `json:"apellido" validate:"required,notblank"`
	Intereses string `json:"intereses"`
	Hobbies   string `json:"hobbies"`
	// Foto is sent only when it changes: nil keeps the current photo, "" removes it.
	Foto *string `json:"foto,omitempty"`
}

func (up *UpdateProfile) Validate() error {
	up.Nombre = core.CleanString(up.Nombre)
	up.Apellido = core.CleanString(up.Apellido)
	up.Intereses = core.JoinList(core.SplitList(up.Intereses))
	up.Hobbies = core.JoinList(core.SplitList(up.Hobbies))
	return core.ValidateStruct(up)
}

// QueryFilter narrows a user list locally (the backend returns every user).
type QueryFilter struct {
	Search string
	Roles  []string
}

func (qf *QueryFilter) Clean() {
	qf.Search = core.CleanString(qf.Search)
}

func (qf QueryFilter) Match(u User) bool {
	if !u.HasAnyRole(qf.Roles...) {
		return false
	}
	if qf.Search == "" {
		return true
	}
	return core.ContainsFold(u.Nombre, qf.Search) ||
		core.ContainsFold(u.Apellido, qf.Search) ||
		core.ContainsFold(u.CorreoInstitucional, qf.Search)
}
