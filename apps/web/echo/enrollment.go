package echoweb

import (
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/smartcampusucv/web/core/enrollment"
	"github.com/smartcampusucv/web/core/participation"
)

type enrollmentPages struct {
	*server
}

func registerEnrollmentRoutes(g *echo.Group, s *server) {
	h := enrollmentPages{s}

	ig := g.Group("/inscripciones", requireAuth)
	ig.GET("", h.list)
	ig.GET("/:id/asistencia", h.attendanceForm)
	ig.POST("/:id/asistencia", h.confirmAttendance)
}

type (
	inscriptionsData struct {
		Inscriptions []enrollment.Inscription
		Eligible     map[int]bool
	}

	attendanceData struct {
		Inscription enrollment.Inscription
		Attended    bool // second step: feedback
		Points      int
		Bonus       int
	}
)

func (h enrollmentPages) list(ctx echo.Context) error {
	rctx := requestContext(ctx)
	inscs, err := h.deps.EnrollmentSvc.Mine(rctx)
	if err != nil {
		return errors.Wrap(err, "listing inscriptions")
	}
	eligible, err := h.deps.ParticipationSvc.Eligible(rctx, inscs)
	if err != nil {
		return errors.Wrap(err, "checking attendance eligibility")
	}
	return render(ctx, http.StatusOK, "inscriptions", "Mis Inscripciones", inscriptionsData{
		Inscriptions: inscs,
		Eligible:     eligible,
	})
}

// attendanceForm is the two-step confirmation: "¿Asististe?" first, then the optional
// feedback once the student answers yes (?asistio=1).
func (h enrollmentPages) attendanceForm(ctx echo.Context) error {
	insc, ok, err := h.eligibleInscription(ctx)
	if err != nil || !ok {
		return err
	}
	return render(ctx, http.StatusOK, "attendance", "Confirmar asistencia", attendanceData{
		Inscription: insc,
		Attended:    ctx.QueryParam("asistio") == "1",
		Points:      participation.AttendancePoints,
		Bonus:       participation.FeedbackBonus,
	})
}

func (h enrollmentPages) confirmAttendance(ctx echo.Context) error {
	insc, ok, err := h.eligibleInscription(ctx)
	if err != nil || !ok {
		return err
	}
	var data participation.Attendance
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to Attendance")
	}

	p, err := h.deps.ParticipationSvc.Confirm(requestContext(ctx), contextUser(ctx), *insc.Actividad, insc, data)
	if err != nil {
		if err == participation.ErrNotEligible {
			return redirectWithFlash(ctx, "/inscripciones", flashError, err.Error())
		}
		return redirectWithFlash(ctx, "/inscripciones", flashError, "Error al confirmar la asistencia")
	}
	msg := "Registramos que no asististe"
	if p.Asistencia {
		msg = fmt.Sprintf("¡Asistencia confirmada! Ganaste %d puntos", p.Puntos)
	}
	return redirectWithFlash(ctx, "/inscripciones", flashSuccess, msg)
}

// eligibleInscription finds the inscription among the user's own and checks attendance can be
// confirmed now. When ok is false the response (a redirect) has already been written.
func (h enrollmentPages) eligibleInscription(ctx echo.Context) (enrollment.Inscription, bool, error) {
	id, err := pathID(ctx, "id")
	if err != nil {
		return enrollment.Inscription{}, false, err
	}
	rctx := requestContext(ctx)
	mine, err := h.deps.EnrollmentSvc.Mine(rctx)
	if err != nil {
		return enrollment.Inscription{}, false, errors.Wrap(err, "listing inscriptions")
	}
	for _, insc := range mine {
		if insc.ID != id {
			continue
		}
		eligible, err := h.deps.ParticipationSvc.Eligible(rctx, []enrollment.Inscription{insc})
		if err != nil {
			return insc, false, errors.Wrap(err, "checking attendance eligibility")
		}
		if !eligible[insc.ID] {
			return insc, false, redirectWithFlash(ctx, "/inscripciones", flashError, participation.ErrNotEligible.Error())
		}
		return insc, true, nil
	}
	return enrollment.Inscription{}, false, errHttpNotFound
}
