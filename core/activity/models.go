package activity

import (
	"strings"
	"time"

	"github.com/smartcampusucv/web/core"
	"github.com/smartcampusucv/web/core/user"
)

// Categories
const (
	CategorySports      = "deportiva"
	CategoryArts        = "artistica"
	CategoryVolunteer   = "voluntariado"
	CategorySinging     = "canto"
	CategoryEnvironment = "ambiental"
	CategoryTech        = "tecnologica"
	CategoryCultural    = "cultural"
	CategoryAcademic    = "academica"
	CategorySocial      = "social"
	CategoryOther       = "otra"

	DefaultSustainability = 5

	dateLayout = "2006-01-02"
	timeLayout = "15:04"
)

type Category struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

var Categories = []Category{
	{ID: CategorySports, Name: "Deportiva"},
	{ID: CategoryArts, Name: "Artística"},
	{ID: CategoryVolunteer, Name: "Voluntariado"},
	{ID: CategorySinging, Name: "Canto"},
	{ID: CategoryEnvironment, Name: "Ambiental"},
	{ID: CategoryTech, Name: "Tecnológica"},
	{ID: CategoryCultural, Name: "Cultural"},
	{ID: CategoryAcademic, Name: "Académica"},
	{ID: CategorySocial, Name: "Social"},
	{ID: CategoryOther, Name: "Otra"},
}

// IsKnownCategory reports whether id is one of the predefined categories (excluding "otra").
func IsKnownCategory(id string) bool {
	if id == CategoryOther {
		return false
	}
	for _, c := range Categories {
		if c.ID == id {
			return true
		}
	}
	return false
}

// CategoryName returns the display name of id; custom categories are shown as typed.
func CategoryName(id string) string {
	for _, c := range Categories {
		if c.ID == id {
			return c.Name
		}
	}
	return id
}

type Activity struct {
	ID                  int           `json:"id"`
	Titulo              string        `json:"titulo"`
	Descripcion         string        `json:"descripcion"`
	Categoria           string        `json:"categoria"`
	Fecha               string        `json:"fecha"`
	Hora                string        `json:"hora"`
	Lugar               string        `json:"lugar"`
	OrganizadorID       int           `json:"organizadorId"`
	Organizador         *user.Summary `json:"organizador,omitempty"`
	MaxParticipantes    *int          `json:"maxParticipantes,omitempty"`
	NivelSostenibilidad *int          `json:"nivelSostenibilidad,omitempty"`
}

// Date is the calendar day of the activity (UTC), zero if fecha is malformed.
func (a Activity) Date() time.Time {
	t, _ := parseInstant(a.Fecha)
	return t
}

// StartsAt combines the day from fecha with the clock time from hora.
// hora is an ISO instant; when it is missing the activity starts at midnight.
func (a Activity) StartsAt() time.Time {
	day := a.Date()
	if day.IsZero() {
		t, _ := parseInstant(a.Hora)
		return t
	}
	clock, err := parseInstant(a.Hora)
	if err != nil {
		return day
	}
	y, m, d := day.Date()
	return time.Date(y, m, d, clock.Hour(), clock.Minute(), 0, 0, time.UTC)
}

// HasStarted reports whether the activity's start lies before now.
func (a Activity) HasStarted(now time.Time) bool {
	start := a.StartsAt()
	return !start.IsZero() && start.Before(now)
}

// DateInput formats fecha for an <input type="date">.
func (a Activity) DateInput() string {
	if d := a.Date(); !d.IsZero() {
		return d.Format(dateLayout)
	}
	return ""
}

// TimeInput formats hora for an <input type="time">.
func (a Activity) TimeInput() string {
	if t, err := parseInstant(a.Hora); err == nil && strings.Contains(a.Hora, "T") {
		return t.Format(timeLayout)
	}
	return ""
}

func (a Activity) CategoryName() string { return CategoryName(a.Categoria) }

func (a Activity) OrganizerName() string {
	if a.Organizador == nil || a.Organizador.FullName() == "" {
		return "Organizador"
	}
	return a.Organizador.FullName()
}

func (a Activity) OrganizerInitial() string {
	if a.Organizador == nil || a.Organizador.Nombre == "" {
		return "O"
	}
	return strings.ToUpper(string([]rune(a.Organizador.Nombre)[:1]))
}

// CanEdit reports whether usr may edit, delete and manage the roster of the activity:
// administrators always, organizers only their own activities.
func (a Activity) CanEdit(usr *user.User) bool {
	if usr == nil {
		return false
	}
	return usr.IsAdmin() || (usr.IsOrganizer() && usr.ID == a.OrganizadorID)
}

// CanSubscribe reports whether usr sees the subscribe/unsubscribe action.
func (a Activity) CanSubscribe(usr *user.User) bool {
	return usr != nil && usr.IsStudent()
}

// Date windows
const (
	WhenAll   = "all"
	WhenToday = "today"
	WhenWeek  = "week"
	WhenMonth = "month"
)

// Location classes
const (
	WhereAll        = "all"
	WhereClassroom  = "aula"
	WhereAuditorium = "auditorio"
	WhereField      = "campo"
	WhereVirtual    = "virtual"
)

var locationKeywords = map[string][]string{
	WhereClassroom:  {"aula"},
	WhereAuditorium: {"auditorio"},
	WhereField:      {"campo", "cancha"},
	WhereVirtual:    {"virtual", "online"},
}

// Filter is the home page filter panel.
type Filter struct {
	Search    string `query:"q"`
	Categoria string `query:"categoria"`
	Fecha     string `query:"fecha"`
	Lugar     string `query:"lugar"`
}

func (f *Filter) Clean() {
	f.Search = core.CleanString(f.Search)
	f.Categoria = core.CleanString(f.Categoria)
	if f.Categoria == "all" {
		f.Categoria = ""
	}
	switch f.Fecha {
	case WhenToday, WhenWeek, WhenMonth:
	default:
		f.Fecha = WhenAll
	}
	if _, ok := locationKeywords[f.Lugar]; !ok {
		f.Lugar = WhereAll
	}
}

func (f Filter) IsZero() bool {
	return f.Search == "" && f.Categoria == "" && (f.Fecha == "" || f.Fecha == WhenAll) && (f.Lugar == "" || f.Lugar == WhereAll)
}

// Match applies every active criterion; now anchors the date windows.
func (f Filter) Match(a Activity, now time.Time) bool {
	if f.Search != "" && !core.ContainsFold(a.Titulo, f.Search) && !core.ContainsFold(a.Descripcion, f.Search) {
		return false
	}
	if f.Categoria != "" && a.Categoria != f.Categoria {
		return false
	}
	if !f.matchDate(a, now) {
		return false
	}
	if keywords, ok := locationKeywords[f.Lugar]; ok {
		found := false
		for _, kw := range keywords {
			if core.ContainsFold(a.Lugar, kw) {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

func (f Filter) matchDate(a Activity, now time.Time) bool {
	var window time.Duration
	switch f.Fecha {
	case WhenToday:
		day := a.Date()
		y1, m1, d1 := day.Date()
		y2, m2, d2 := now.UTC().Date()
		return !day.IsZero() && y1 == y2 && m1 == m2 && d1 == d2
	case WhenWeek:
		window = 7 * 24 * time.Hour
	case WhenMonth:
		window = 30 * 24 * time.Hour
	default:
		return true
	}
	start := a.StartsAt()
	return !start.IsZero() && !start.Before(now) && !start.After(now.Add(window))
}

// Apply returns the activities matching f, in their original order.
func (f Filter) Apply(acts []Activity, now time.Time) []Activity {
	matched := make([]Activity, 0, len(acts))
	for _, a := range acts {
		if f.Match(a, now) {
			matched = append(matched, a)
		}
	}
	return matched
}

func parseInstant(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if len(s) == len(dateLayout) {
		return time.Parse(dateLayout, s)
	}
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}, err
	}
	return t.UTC(), nil
}
