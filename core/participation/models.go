package participation

import (
	"strings"
	"time"

	"github.com/volatiletech/null/v8"

	"github.com/smartcampusucv/web/core/activity"
	"github.com/smartcampusucv/web/core/enrollment"
	"github.com/smartcampusucv/web/core/user"
)

// Points
const (
	AttendancePoints = 10
	FeedbackBonus    = 5
)

// Participation records attendance to a finished activity; one per user and activity.
type Participation struct {
	ID          int         `json:"id,omitempty"`
	ActividadID int         `json:"actividadId"`
	UsuarioID   int         `json:"usuarioId"`
	Asistencia  bool        `json:"asistencia"`
	Feedback    null.String `json:"feedback"`
	Puntos      int         `json:"puntos"`
}

// Attendance is the two-step confirmation answer.
type Attendance struct {
	Attended bool   `form:"asistio"`
	Feedback string `form:"feedback"`
}

// Points awards AttendancePoints for attending plus FeedbackBonus when the
// trimmed feedback is non-empty; absences earn nothing.
func Points(attended bool, feedback string) int {
	if !attended {
		return 0
	}
	if strings.TrimSpace(feedback) != "" {
		return AttendancePoints + FeedbackBonus
	}
	return AttendancePoints
}

// NewParticipation builds the record for the signed-in user.
func NewParticipation(usr user.User, activityID int, a Attendance) Participation {
	p := Participation{
		ActividadID: activityID,
		UsuarioID:   usr.ID,
		Asistencia:  a.Attended,
		Puntos:      Points(a.Attended, a.Feedback),
	}
	if fb := strings.TrimSpace(a.Feedback); a.Attended && fb != "" {
		p.Feedback = null.StringFrom(fb)
	}
	return p
}

// CanConfirm reports whether attendance to act may be confirmed: the activity has started,
// the inscription is confirmed and nothing was recorded for it yet.
func CanConfirm(act activity.Activity, insc enrollment.Inscription, mine []Participation, now time.Time) bool {
	if !insc.IsConfirmed() || !act.HasStarted(now) {
		return false
	}
	for _, p := range mine {
		if p.ActividadID == act.ID {
			return false
		}
	}
	return true
}

// RankingEntry is one row of the global leaderboard.
type RankingEntry struct {
	UsuarioID int           `json:"usuarioId"`
	Puntos    int           `json:"puntos"`
	Usuario   *user.Summary `json:"usuario,omitempty"`
}

func (e RankingEntry) UserID() int {
	if e.Usuario != nil && e.Usuario.ID != 0 {
		return e.Usuario.ID
	}
	return e.UsuarioID
}

func (e RankingEntry) Name() string {
	if e.Usuario == nil || e.Usuario.FullName() == "" {
		return "Usuario"
	}
	return e.Usuario.FullName()
}

// Standing is a user's place in the leaderboard; Position is 1-based and 0 when unranked.
type Standing struct {
	Position int
	Points   int
}

func (s Standing) Ranked() bool { return s.Position > 0 }

// Medal returns the podium class for the top three positions.
func Medal(position int) string {
	switch position {
	case 1:
		return "gold"
	case 2:
		return "silver"
	case 3:
		return "bronze"
	default:
		return ""
	}
}

func findStanding(entries []RankingEntry, userID int) (Standing, bool) {
	for i, e := range entries {
		if e.UserID() == userID {
			return Standing{Position: i + 1, Points: e.Puntos}, true
		}
	}
	return Standing{}, false
}
