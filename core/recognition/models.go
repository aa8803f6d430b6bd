package recognition

import (
	"strings"
	"time"

	"github.com/volatiletech/null/v8"

	"github.com/smartcampusucv/web/core"
	"github.com/smartcampusucv/web/core/user"
)

// Kinds group the free-form tipo values for display.
const (
	KindMedal   = "medal"
	KindDiploma = "diploma"
	KindOther   = "other"

	DefaultType = "badge"
)

// Types offered by the badge manager.
var Types = []core.Option{
	{Value: "badge", Label: "Badge / Medalla"},
	{Value: "diploma", Label: "Diploma / Certificado"},
	{Value: "reconocimiento", Label: "Reconocimiento General"},
}

// KindOf classifies a tipo value, case-insensitively.
func KindOf(tipo string) string {
	switch strings.ToLower(strings.TrimSpace(tipo)) {
	case "badge", "medalla":
		return KindMedal
	case "diploma", "certificado":
		return KindDiploma
	default:
		return KindOther
	}
}

// Recognition is a badge issued to a user. tipo and descripcion are nullable on the backend.
type Recognition struct {
	ID          int           `json:"id"`
	UsuarioID   int           `json:"usuarioId"`
	Tipo        null.String   `json:"tipo"`
	Descripcion null.String   `json:"descripcion"`
	Fecha       time.Time     `json:"fecha"`
	Usuario     *user.Summary `json:"usuario,omitempty"`
}

func (r Recognition) Kind() string { return KindOf(r.Tipo.String) }

// Title is the display heading: the tipo, or a generic label when it is null.
func (r Recognition) Title() string {
	if r.Tipo.Valid && strings.TrimSpace(r.Tipo.String) != "" {
		return r.Tipo.String
	}
	return "Reconocimiento"
}

// Match reports whether search appears in the user's name or email, the tipo or the descripcion.
func (r Recognition) Match(search string) bool {
	search = core.CleanString(search)
	if search == "" {
		return true
	}
	if r.Usuario != nil && (core.ContainsFold(r.Usuario.Nombre, search) ||
		core.ContainsFold(r.Usuario.Apellido, search) ||
		core.ContainsFold(r.Usuario.CorreoInstitucional, search)) {
		return true
	}
	return core.ContainsFold(r.Tipo.String, search) || core.ContainsFold(r.Descripcion.String, search)
}

// NewRecognition is the badge manager form.
type NewRecognition struct {
	UsuarioID   int    `json:"usuarioId" form:"usuarioId" validate:"required,gt=0"`
	Tipo        string `json:"-" form:"tipo"`
	Descripcion string `json:"-" form:"descripcion" validate:"max=500"`
}

var newRecognitionMessages = map[string]string{
	"usuarioId": "Debes seleccionar un usuario",
}

func (nr *NewRecognition) Validate() error {
	nr.Tipo = core.CleanString(nr.Tipo, true /* lower */)
	if nr.Tipo == "" {
		nr.Tipo = DefaultType
	}
	nr.Descripcion = core.CleanString(nr.Descripcion)
	return core.ValidateStruct(nr, newRecognitionMessages)
}

// Payload is the create body: empty strings travel as null.
type Payload struct {
	UsuarioID   int         `json:"usuarioId"`
	Tipo        null.String `json:"tipo"`
	Descripcion null.String `json:"descripcion"`
}

func (nr NewRecognition) Payload() Payload {
	return Payload{
		UsuarioID:   nr.UsuarioID,
		Tipo:        null.NewString(nr.Tipo, nr.Tipo != ""),
		Descripcion: null.NewString(nr.Descripcion, nr.Descripcion != ""),
	}
}
