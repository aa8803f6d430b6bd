package echoweb

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/smartcampusucv/web/core"
	"github.com/smartcampusucv/web/core/activity"
	"github.com/smartcampusucv/web/core/enrollment"
	"github.com/smartcampusucv/web/core/user"
)

type activityPages struct {
	*server
}

func registerActivityRoutes(g *echo.Group, s *server) {
	h := activityPages{s}
	editors := roleMiddleware(user.RoleOrganizer, user.RoleAdmin)

	ag := g.Group("", requireAuth)
	ag.GET("/inicio", h.list)
	ag.GET("/actividades/nueva", h.newForm, editors)
	ag.POST("/actividades", h.create, editors)

	dg := ag.Group("/actividades/:id")
	dg.GET("", h.detail)
	dg.POST("", h.update)
	dg.POST("/eliminar", h.destroy)
	dg.POST("/inscripcion", h.subscribe)
	dg.POST("/desinscripcion", h.unsubscribe)
	dg.POST("/inscripciones/:insc/confirmar", h.confirmInscription)
	dg.POST("/inscripciones/:insc/cancelar", h.cancelInscription)
}

type (
	listData struct {
		Activities []activity.Activity
		Filter     activity.Filter
		Categories []activity.Category
		When       []core.Option
		Where      []core.Option
		CanCreate  bool
	}

	formData struct {
		Form       activity.Form
		Categories []activity.Category
		Editing    bool
		ID         int
	}

	detailData struct {
		Activity     activity.Activity
		CanEdit      bool
		CanSubscribe bool
		Subscription enrollment.Subscription
		Roster       []enrollment.Inscription
		Edit         formData
		Editing      bool
	}
)

var (
	whenOptions = []core.Option{
		{Value: activity.WhenAll, Label: "Todas las fechas"},
		{Value: activity.WhenToday, Label: "Hoy"},
		{Value: activity.WhenWeek, Label: "Próximos 7 días"},
		{Value: activity.WhenMonth, Label: "Próximos 30 días"},
	}
	whereOptions = []core.Option{
		{Value: activity.WhereAll, Label: "Todos los lugares"},
		{Value: activity.WhereClassroom, Label: "Aulas"},
		{Value: activity.WhereAuditorium, Label: "Auditorios"},
		{Value: activity.WhereField, Label: "Campos deportivos"},
		{Value: activity.WhereVirtual, Label: "Virtual"},
	}
)

func (h activityPages) list(ctx echo.Context) error {
	var filter activity.Filter
	if err := ctx.Bind(&filter); err != nil {
		return errors.Wrap(err, "binding to Filter")
	}
	acts, err := h.deps.ActivitySvc.List(requestContext(ctx), filter)
	if err != nil {
		return errors.Wrap(err, "listing activities")
	}
	filter.Clean()
	return render(ctx, http.StatusOK, "home", "Inicio", listData{
		Activities: acts,
		Filter:     filter,
		Categories: activity.Categories,
		When:       whenOptions,
		Where:      whereOptions,
		CanCreate:  contextState(ctx).CanCreateActivities(),
	})
}

func (h activityPages) newForm(ctx echo.Context) error {
	return render(ctx, http.StatusOK, "activity_form", "Crear Actividad", formData{
		Form:       activity.NewForm(),
		Categories: activity.Categories,
	})
}

func (h activityPages) create(ctx echo.Context) error {
	var form activity.Form
	if err := ctx.Bind(&form); err != nil {
		return errors.Wrap(err, "binding to activity.Form")
	}
	act, err := h.deps.ActivitySvc.Create(requestContext(ctx), contextUser(ctx), form)
	if err != nil {
		code := http.StatusUnprocessableEntity
		switch {
		case core.IsValidation(err):
		case backendFailure(err):
			logError(h.deps.Logger, ctx, err)
			code, err = http.StatusBadGateway, errCreateActivity
		default:
			return errors.Wrap(err, "creating activity")
		}
		return render(ctx, code, "activity_form", "Crear Actividad", formData{
			Form:       form,
			Categories: activity.Categories,
		}, err)
	}
	return redirectWithFlash(ctx, activityPath(act.ID), flashSuccess, "¡Actividad creada exitosamente!")
}

func (h activityPages) detail(ctx echo.Context) error {
	act, err := h.activity(ctx)
	if err != nil {
		return err
	}
	data, err := h.detailData(ctx, act)
	if err != nil {
		return err
	}
	data.Editing = data.CanEdit && ctx.QueryParam("editar") != ""
	return render(ctx, http.StatusOK, "activity", act.Titulo, data)
}

// detailData loads what the detail page shows to the current user: the subscription
// state for students, the roster and edit form for editors.
func (h activityPages) detailData(ctx echo.Context, act activity.Activity) (detailData, error) {
	usr := contextUser(ctx)
	data := detailData{
		Activity:     act,
		CanEdit:      act.CanEdit(usr),
		CanSubscribe: act.CanSubscribe(usr),
		Edit: formData{
			Form:       activity.FormFromActivity(act),
			Categories: activity.Categories,
			Editing:    true,
			ID:         act.ID,
		},
	}
	rctx := requestContext(ctx)
	if data.CanSubscribe {
		sub, err := h.deps.EnrollmentSvc.Subscription(rctx, act.ID)
		if err != nil {
			return data, errors.Wrap(err, "loading subscription")
		}
		data.Subscription = sub
	}
	if data.CanEdit {
		roster, err := h.deps.EnrollmentSvc.Roster(rctx, usr, act)
		if err != nil {
			return data, errors.Wrap(err, "loading roster")
		}
		data.Roster = roster
	}
	return data, nil
}

func (h activityPages) update(ctx echo.Context) error {
	id, err := pathID(ctx, "id")
	if err != nil {
		return err
	}
	var form activity.Form
	if err := ctx.Bind(&form); err != nil {
		return errors.Wrap(err, "binding to activity.Form")
	}

	_, err = h.deps.ActivitySvc.Update(requestContext(ctx), contextUser(ctx), id, form)
	if err == nil {
		return redirectWithFlash(ctx, activityPath(id), flashSuccess, "Actividad actualizada")
	}
	code := http.StatusUnprocessableEntity
	switch {
	case core.IsValidation(err):
	case backendFailure(err):
		logError(h.deps.Logger, ctx, err)
		code, err = http.StatusBadGateway, errUpdateActivity
	default:
		return errors.Wrap(err, "updating activity")
	}

	act, aErr := h.activity(ctx)
	if aErr != nil {
		return aErr
	}
	data, dErr := h.detailData(ctx, act)
	if dErr != nil {
		return dErr
	}
	data.Edit.Form = form
	data.Editing = true
	return render(ctx, code, "activity", act.Titulo, data, err)
}

func (h activityPages) destroy(ctx echo.Context) error {
	id, err := pathID(ctx, "id")
	if err != nil {
		return err
	}
	if err := h.deps.ActivitySvc.Delete(requestContext(ctx), contextUser(ctx), id); err != nil {
		if core.IsForbidden(err) {
			return err
		}
		return redirectWithFlash(ctx, activityPath(id), flashError, "Error al eliminar la actividad")
	}
	return redirectWithFlash(ctx, "/inicio", flashSuccess, "Actividad eliminada")
}

func (h activityPages) subscribe(ctx echo.Context) error {
	id, err := pathID(ctx, "id")
	if err != nil {
		return err
	}
	if _, err := h.deps.EnrollmentSvc.Enroll(requestContext(ctx), contextUser(ctx), id); err != nil {
		msg := "Error al inscribirse"
		if err == enrollment.ErrAlreadySubscribed {
			msg = err.Error()
		} else if apiErr, ok := errors.Cause(err).(*core.APIError); ok && apiErr.Status == http.StatusConflict && apiErr.Message != "" {
			msg = apiErr.Message
		}
		return redirectWithFlash(ctx, activityPath(id), flashError, msg)
	}
	return redirectWithFlash(ctx, activityPath(id), flashSuccess, "¡Inscripción realizada!")
}

func (h activityPages) unsubscribe(ctx echo.Context) error {
	id, err := pathID(ctx, "id")
	if err != nil {
		return err
	}
	if err := h.deps.EnrollmentSvc.Unsubscribe(requestContext(ctx), contextUser(ctx), id); err != nil {
		return redirectWithFlash(ctx, activityPath(id), flashError, "Error al cancelar la inscripción")
	}
	return redirectWithFlash(ctx, activityPath(id), flashSuccess, "Inscripción cancelada")
}

func (h activityPages) confirmInscription(ctx echo.Context) error {
	return h.setInscriptionStatus(ctx, enrollment.StatusConfirmed)
}

func (h activityPages) cancelInscription(ctx echo.Context) error {
	return h.setInscriptionStatus(ctx, enrollment.StatusCancelled)
}

func (h activityPages) setInscriptionStatus(ctx echo.Context, status string) error {
	act, err := h.activity(ctx)
	if err != nil {
		return err
	}
	inscID, err := pathID(ctx, "insc")
	if err != nil {
		return err
	}

	svc, rctx, usr := h.deps.EnrollmentSvc, requestContext(ctx), contextUser(ctx)
	if status == enrollment.StatusConfirmed {
		err = svc.Confirm(rctx, usr, act, inscID)
	} else {
		err = svc.Cancel(rctx, usr, act, inscID)
	}
	if err != nil {
		if core.IsForbidden(err) {
			return err
		}
		return redirectWithFlash(ctx, activityPath(act.ID), flashError, "Error al actualizar la inscripción")
	}
	return redirectWithFlash(ctx, activityPath(act.ID), flashSuccess, "Inscripción "+strings.ToLower(enrollment.StatusLabel(status)))
}

func (h activityPages) activity(ctx echo.Context) (activity.Activity, error) {
	id, err := pathID(ctx, "id")
	if err != nil {
		return activity.Activity{}, err
	}
	act, err := h.deps.ActivitySvc.Get(requestContext(ctx), id)
	if err != nil {
		if core.IsNotFound(err) {
			return activity.Activity{}, errHttpNotFound
		}
		return activity.Activity{}, errors.Wrap(err, "fetching activity")
	}
	return act, nil
}

func pathID(ctx echo.Context, name string) (int, error) {
	id, err := strconv.Atoi(ctx.Param(name))
	if err != nil || id <= 0 {
		return 0, errHttpNotFound
	}
	return id, nil
}

func activityPath(id int) string {
	return "/actividades/" + strconv.Itoa(id)
}
