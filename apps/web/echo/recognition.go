package echoweb

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"

	"github.com/smartcampusucv/web/core"
	"github.com/smartcampusucv/web/core/recognition"
	"github.com/smartcampusucv/web/core/user"
)

type recognitionPages struct {
	*server
}

func registerRecognitionRoutes(g *echo.Group, s *server) {
	h := recognitionPages{s}

	rg := g.Group("/reconocimientos", requireAuth, roleMiddleware(user.RoleAdmin))
	rg.GET("", h.list)
	rg.POST("", h.create)
}

type recognitionsData struct {
	Recognitions []recognition.Recognition
	Users        []user.User
	Types        []core.Option
	Search       string
	UserID       int
	Form         recognition.NewRecognition
	ShowForm     bool
}

// Count returns how many listed recognitions are of kind.
func (d recognitionsData) Count(kind string) int {
	n := 0
	for _, rec := range d.Recognitions {
		if rec.Kind() == kind {
			n++
		}
	}
	return n
}

func (h recognitionPages) list(ctx echo.Context) error {
	data := recognitionsData{Search: core.CleanString(ctx.QueryParam("q"))}
	data.UserID, _ = strconv.Atoi(ctx.QueryParam("usuario"))
	if err := h.load(ctx, &data); err != nil {
		return err
	}
	return render(ctx, http.StatusOK, "recognitions", "Reconocimientos", data)
}

func (h recognitionPages) create(ctx echo.Context) error {
	var form recognition.NewRecognition
	if err := ctx.Bind(&form); err != nil {
		return errors.Wrap(err, "binding to NewRecognition")
	}
	rec, err := h.deps.RecognitionSvc.Issue(requestContext(ctx), contextUser(ctx), form)
	if err != nil {
		if !core.IsValidation(err) {
			return redirectWithFlash(ctx, "/reconocimientos", flashError, "Error al crear el reconocimiento")
		}
		data := recognitionsData{Form: form, ShowForm: true}
		if lErr := h.load(ctx, &data); lErr != nil {
			return lErr
		}
		return render(ctx, http.StatusUnprocessableEntity, "recognitions", "Reconocimientos", data, err)
	}

	msg := "¡Reconocimiento creado exitosamente!"
	if rec.Usuario != nil {
		msg = "¡Reconocimiento otorgado a " + rec.Usuario.FullName() + "!"
	}
	return redirectWithFlash(ctx, "/reconocimientos", flashSuccess, msg)
}

// load fetches the recognitions (all of them, or those of data.UserID) and the user picker concurrently.
func (h recognitionPages) load(ctx echo.Context, data *recognitionsData) error {
	data.Types = recognition.Types
	actor := contextUser(ctx)

	g, gctx := errgroup.WithContext(requestContext(ctx))
	g.Go(func() error {
		var recs []recognition.Recognition
		var err error
		if data.UserID > 0 {
			recs, err = h.deps.RecognitionSvc.ForUser(gctx, data.UserID)
			recs = filterRecognitions(recs, data.Search)
		} else {
			recs, err = h.deps.RecognitionSvc.Query(gctx, actor, data.Search)
		}
		data.Recognitions = recs
		return err
	})
	g.Go(func() error {
		users, err := h.deps.UserSvc.Query(gctx, user.QueryFilter{})
		data.Users = users
		return err
	})
	return errors.Wrap(g.Wait(), "loading recognitions")
}

func filterRecognitions(recs []recognition.Recognition, search string) []recognition.Recognition {
	matched := recs[:0]
	for _, rec := range recs {
		if rec.Match(search) {
			matched = append(matched, rec)
		}
	}
	return matched
}
