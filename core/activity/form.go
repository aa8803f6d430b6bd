package activity

import (
	"sort"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"

	"github.com/smartcampusucv/web/core"
)

var NowFunc = time.Now // mockable

var (
	sustainabilityTag = "sustainability"

	formMessages = map[string]string{
		"titulo":              "Título inválido",
		"descripcion":         "Descripción inválida",
		"categoria":           "Selecciona una categoría",
		"categoriaCustom":     "Escribe tu categoría personalizada",
		"fecha":               "Selecciona una fecha",
		"hora":                "Selecciona una hora",
		"lugar":               "Lugar inválido",
		"maxParticipantes":    "Cupo máximo inválido",
		"nivelSostenibilidad": "El nivel de sostenibilidad debe estar entre 1 y 10",
	}
	formOrder = []string{
		"titulo", "descripcion", "categoria", "categoriaCustom", "fecha", "hora", "lugar",
		"maxParticipantes", "nivelSostenibilidad",
	}

	errPastDate = "La fecha no puede ser pasada"
)

func init() {
	_ = core.Validate.RegisterValidation(sustainabilityTag, func(fl validator.FieldLevel) bool {
		n, err := strconv.Atoi(fl.Field().String())
		return err == nil && n >= 1 && n <= 10
	})
}

// Form is the create/edit activity form as posted by the browser.
type Form struct {
	Titulo              string `form:"titulo" validate:"min=3"`
	Descripcion         string `form:"descripcion" validate:"min=10"`
	Categoria           string `form:"categoria" validate:"required"`
	CategoriaCustom     string `form:"categoriaCustom" validate:"required_if=Categoria otra"`
	Fecha               string `form:"fecha" validate:"required,datetime=2006-01-02"`
	Hora                string `form:"hora" validate:"required,datetime=15:04"`
	Lugar               string `form:"lugar" validate:"min=3"`
	MaxParticipantes    string `form:"maxParticipantes" validate:"omitempty,number"`
	NivelSostenibilidad string `form:"nivelSostenibilidad" validate:"omitempty,sustainability"`
}

// NewForm returns an empty creation form.
func NewForm() Form {
	return Form{NivelSostenibilidad: strconv.Itoa(DefaultSustainability)}
}

// FormFromActivity pre-fills the edit form. Categories outside the predefined list
// are shown as a custom "otra" category.
func FormFromActivity(a Activity) Form {
	f := Form{
		Titulo:      a.Titulo,
		Descripcion: a.Descripcion,
		Categoria:   a.Categoria,
		Fecha:       a.DateInput(),
		Hora:        a.TimeInput(),
		Lugar:       a.Lugar,
	}
	if a.Categoria != "" && !IsKnownCategory(a.Categoria) {
		f.Categoria = CategoryOther
		f.CategoriaCustom = a.Categoria
	}
	if a.MaxParticipantes != nil {
		f.MaxParticipantes = strconv.Itoa(*a.MaxParticipantes)
	}
	if a.NivelSostenibilidad != nil {
		f.NivelSostenibilidad = strconv.Itoa(*a.NivelSostenibilidad)
	}
	return f
}

// Validate checks the form and returns a *core.ValidationError whose message is the
// first failing rule, in form order. creating additionally rejects dates before today.
func (f *Form) Validate(creating bool) error {
	f.Titulo = core.CleanString(f.Titulo)
	f.Descripcion = core.CleanString(f.Descripcion)
	f.Categoria = core.CleanString(f.Categoria)
	f.CategoriaCustom = core.CleanString(f.CategoriaCustom)
	f.Fecha = core.CleanString(f.Fecha)
	f.Hora = core.CleanString(f.Hora)
	f.Lugar = core.CleanString(f.Lugar)
	f.MaxParticipantes = core.CleanString(f.MaxParticipantes)
	f.NivelSostenibilidad = core.CleanString(f.NivelSostenibilidad)

	var flds []core.FieldError
	if err := core.ValidateStruct(f, formMessages); err != nil {
		var vErr *core.ValidationError
		if !errors.As(err, &vErr) {
			return err
		}
		flds = vErr.Fields
	}
	if creating && !hasField(flds, "fecha") && f.isPast() {
		flds = append(flds, core.FieldError{Field: "fecha", Error: errPastDate})
	}
	if len(flds) == 0 {
		return nil
	}

	rank := make(map[string]int, len(formOrder))
	for i, name := range formOrder {
		rank[name] = i
	}
	sort.SliceStable(flds, func(i, j int) bool { return rank[flds[i].Field] < rank[flds[j].Field] })
	return core.NewValidationError(errors.New(flds[0].Error), flds...)
}

// isPast compares calendar days in the local zone: today is still allowed.
func (f Form) isPast() bool {
	day, err := time.ParseInLocation(dateLayout, f.Fecha, time.Local)
	if err != nil {
		return false
	}
	y, m, d := NowFunc().Date()
	return day.Before(time.Date(y, m, d, 0, 0, 0, 0, time.Local))
}

// CategoryValue is the category actually stored: the custom text for "otra".
func (f Form) CategoryValue() string {
	if f.Categoria == CategoryOther {
		return f.CategoriaCustom
	}
	return f.Categoria
}

// Payload is the body sent to the backend on create and update.
type Payload struct {
	Titulo              string `json:"titulo"`
	Descripcion         string `json:"descripcion"`
	Categoria           string `json:"categoria"`
	Fecha               string `json:"fecha"`
	Hora                string `json:"hora"`
	Lugar               string `json:"lugar"`
	MaxParticipantes    *int   `json:"maxParticipantes,omitempty"`
	NivelSostenibilidad *int   `json:"nivelSostenibilidad,omitempty"`
}

// Payload converts a validated form. hora travels as the instant fechaTHH:MM:00.000Z.
func (f Form) Payload() Payload {
	p := Payload{
		Titulo:      f.Titulo,
		Descripcion: f.Descripcion,
		Categoria:   f.CategoryValue(),
		Fecha:       f.Fecha,
		Hora:        f.Fecha + "T" + f.Hora + ":00.000Z",
		Lugar:       f.Lugar,
	}
	if n, err := strconv.Atoi(f.MaxParticipantes); err == nil && n > 0 {
		p.MaxParticipantes = &n
	}
	if n, err := strconv.Atoi(f.NivelSostenibilidad); err == nil {
		p.NivelSostenibilidad = &n
	}
	return p
}

func hasField(flds []core.FieldError, name string) bool {
	for _, fld := range flds {
		if fld.Field == name {
			return true
		}
	}
	return false
}
