package inmemdb

import (
	"strings"

	"github.com/pkg/errors"
	"github.com/volatiletech/null/v8"

	"github.com/smartcampusucv/web/core/activity"
	"github.com/smartcampusucv/web/core/enrollment"
	"github.com/smartcampusucv/web/core/participation"
	"github.com/smartcampusucv/web/core/recognition"
	"github.com/smartcampusucv/web/core/user"
)

// DemoPassword is shared by every seeded account.
const DemoPassword = "Campus#2024"

// Seed fills the backend with a few accounts, activities around today, and some history.
func (db *DB) Seed(domain string) error {
	people := []user.NewUser{
		{Nombre: "Rosa", Apellido: "Quispe", Rol: user.RoleAdmin, Intereses: "Gestión ambiental"},
		{Nombre: "Luis", Apellido: "Paredes", Rol: user.RoleOrganizer, Intereses: "Voluntariado, Deportes"},
		{Nombre: "Ana", Apellido: "Torres", Rol: user.RoleStudent, Intereses: "Reciclaje, Ambiental", Hobbies: "Fotografía"},
		{Nombre: "Marco", Apellido: "Salas", Rol: user.RoleStudent, Intereses: "Tecnología"},
	}
	ids := make([]int, len(people))
	for i, nu := range people {
		nu.CorreoInstitucional = emailOf(nu, domain)
		nu.Contrasena = DemoPassword
		usr, err := db.CreateUser(nu)
		if err != nil {
			return errors.Wrapf(err, "seeding %s", nu.CorreoInstitucional)
		}
		ids[i] = usr.ID
	}
	admin, organizer, ana, marco := ids[0], ids[1], ids[2], ids[3]

	today := NowFunc().UTC()
	day := func(offset int) string { return today.AddDate(0, 0, offset).Format("2006-01-02") }
	lvl := func(n int) *int { return &n }

	db.Lock()
	defer db.Unlock()

	acts := []activity.Activity{
		db.insertActivity(organizer, activity.Payload{
			Titulo: "Limpieza del campus", Descripcion: "Jornada de recojo de residuos en las áreas verdes.",
			Categoria: activity.CategoryEnvironment, Fecha: day(-2), Hora: day(-2) + "T09:00:00.000Z",
			Lugar: "Campo deportivo", NivelSostenibilidad: lvl(9),
		}),
		db.insertActivity(organizer, activity.Payload{
			Titulo: "Taller de reciclaje creativo", Descripcion: "Convierte botellas y cartón en objetos útiles.",
			Categoria: activity.CategoryArts, Fecha: day(0), Hora: day(0) + "T23:00:00.000Z",
			Lugar: "Aula 204", NivelSostenibilidad: lvl(7),
		}),
		db.insertActivity(admin, activity.Payload{
			Titulo: "Charla: energía solar", Descripcion: "Cómo funcionan los paneles solares del pabellón C.",
			Categoria: activity.CategoryTech, Fecha: day(5), Hora: day(5) + "T17:00:00.000Z",
			Lugar: "Auditorio principal", NivelSostenibilidad: lvl(8),
		}),
		db.insertActivity(organizer, activity.Payload{
			Titulo: "Fulbito solidario", Descripcion: "Partido benéfico para el comedor universitario.",
			Categoria: activity.CategorySports, Fecha: day(12), Hora: day(12) + "T15:30:00.000Z",
			Lugar: "Cancha 2", MaxParticipantes: lvl(22), NivelSostenibilidad: lvl(4),
		}),
		db.insertActivity(organizer, activity.Payload{
			Titulo: "Webinar de huertos urbanos", Descripcion: "Aprende a cultivar hortalizas en espacios pequeños.",
			Categoria: "huertos", Fecha: day(20), Hora: day(20) + "T19:00:00.000Z",
			Lugar: "Virtual (Zoom)", NivelSostenibilidad: lvl(6),
		}),
	}

	enroll := func(userID, actID int, status string) {
		id := db.nextPK()
		db.inscs[id] = &enrollment.Inscription{ID: id, UsuarioID: userID, ActividadID: actID, Estado: status}
	}
	enroll(ana, acts[0].ID, enrollment.StatusConfirmed)
	enroll(marco, acts[0].ID, enrollment.StatusConfirmed)
	enroll(ana, acts[2].ID, enrollment.StatusPending)
	enroll(marco, acts[3].ID, enrollment.StatusCancelled)

	id := db.nextPK()
	db.parts[id] = &participation.Participation{
		ID: id, ActividadID: acts[0].ID, UsuarioID: marco, Asistencia: true,
		Feedback: null.StringFrom("Muy bien organizado"), Puntos: participation.Points(true, "Muy bien organizado"),
	}

	badges := []recognition.Payload{
		{UsuarioID: marco, Tipo: null.StringFrom("badge"), Descripcion: null.StringFrom("Eco héroe del mes")},
		{UsuarioID: ana, Tipo: null.StringFrom("diploma"), Descripcion: null.StringFrom("Voluntaria destacada 2024")},
		{UsuarioID: ana, Tipo: null.StringFrom("reconocimiento")},
	}
	for _, b := range badges {
		if _, err := db.insertRecognition(b); err != nil {
			return errors.Wrap(err, "seeding recognitions")
		}
	}
	return nil
}

func emailOf(nu user.NewUser, domain string) string {
	initial := string([]rune(nu.Nombre)[:1])
	return strings.ToLower(initial+nu.Apellido) + "@" + domain
}
