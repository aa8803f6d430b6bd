package enrollment

import (
	"github.com/smartcampusucv/web/core/activity"
	"github.com/smartcampusucv/web/core/user"
)

// Statuses
const (
	StatusPending   = "pendiente"
	StatusConfirmed = "confirmada"
	StatusCancelled = "cancelada"
)

var statusLabels = map[string]string{
	StatusPending:   "Pendiente",
	StatusConfirmed: "Confirmada",
	StatusCancelled: "Cancelada",
}

// StatusLabel returns the display label of status, or status itself if unknown.
func StatusLabel(status string) string {
	if label, ok := statusLabels[status]; ok {
		return label
	}
	return status
}

// Inscription is a user's enrollment in an activity.
type Inscription struct {
	ID          int                `json:"id"`
	UsuarioID   int                `json:"usuarioId,omitempty"`
	Usuario     *user.Summary      `json:"usuario,omitempty"`
	ActividadID int                `json:"actividadId"`
	Actividad   *activity.Activity `json:"actividad,omitempty"`
	Estado      string             `json:"estado"`
}

func (i Inscription) IsActive() bool    { return i.Estado != StatusCancelled }
func (i Inscription) IsPending() bool   { return i.Estado == StatusPending }
func (i Inscription) IsConfirmed() bool { return i.Estado == StatusConfirmed }
func (i Inscription) IsCancelled() bool { return i.Estado == StatusCancelled }

func (i Inscription) StatusLabel() string { return StatusLabel(i.Estado) }

// ActivityID prefers the embedded activity, which the "mine" listing always carries.
func (i Inscription) ActivityID() int {
	if i.ActividadID == 0 && i.Actividad != nil {
		return i.Actividad.ID
	}
	return i.ActividadID
}

// Subscription is the student's enrollment state for one activity.
type Subscription struct {
	Subscribed    bool
	InscriptionID int
	Estado        string
}

// SubscriptionFor looks for a non-cancelled inscription to activityID among mine.
func SubscriptionFor(mine []Inscription, activityID int) Subscription {
	for _, insc := range mine {
		if insc.ActivityID() == activityID && insc.IsActive() {
			return Subscription{Subscribed: true, InscriptionID: insc.ID, Estado: insc.Estado}
		}
	}
	return Subscription{}
}

// CanTransition reports whether a roster manager may move an inscription from one status to another.
func CanTransition(from, to string) bool {
	switch to {
	case StatusConfirmed:
		return from == StatusPending
	case StatusCancelled:
		return from == StatusPending || from == StatusConfirmed
	default:
		return false
	}
}
