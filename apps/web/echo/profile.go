package echoweb

import (
	"encoding/base64"
	"io"
	"mime/multipart"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"

	"github.com/smartcampusucv/web/core"
	"github.com/smartcampusucv/web/core/participation"
	"github.com/smartcampusucv/web/core/recognition"
	"github.com/smartcampusucv/web/core/user"
)

const maxPhotoSize = 2 << 20

var errPhotoTooLarge = core.NewValidationError(nil, core.FieldError{Field: "foto", Error: "La imagen debe ser menor a 2MB"})
var errPhotoType = core.NewValidationError(nil, core.FieldError{Field: "foto", Error: "El archivo debe ser una imagen"})

type profilePages struct {
	*server
}

func registerProfileRoutes(g *echo.Group, s *server) {
	h := profilePages{s}

	pg := g.Group("/perfil", requireAuth)
	pg.GET("", h.show)
	pg.POST("", h.update)
}

type profileData struct {
	Form         user.UpdateProfile
	Standing     participation.Standing
	Recognitions []recognition.Recognition
}

func (h profilePages) show(ctx echo.Context) error {
	usr := contextUser(ctx)
	data, err := h.load(ctx, *usr)
	if err != nil {
		return err
	}
	return render(ctx, http.StatusOK, "profile", "Mi Perfil", data)
}

// load fetches the total points and the user's badges concurrently.
func (h profilePages) load(ctx echo.Context, usr user.User) (profileData, error) {
	data := profileData{Form: user.UpdateProfile{
		Nombre:    usr.Nombre,
		Apellido:  usr.Apellido,
		Intereses: usr.Intereses,
		Hobbies:   usr.Hobbies,
	}}

	g, gctx := errgroup.WithContext(requestContext(ctx))
	g.Go(func() error {
		standing, err := h.deps.ParticipationSvc.Standing(gctx, usr.ID)
		data.Standing = standing
		return errors.Wrap(err, "loading standing")
	})
	g.Go(func() error {
		recs, err := h.deps.RecognitionSvc.Mine(gctx)
		data.Recognitions = recs
		return errors.Wrap(err, "loading recognitions")
	})
	return data, g.Wait()
}

func (h profilePages) update(ctx echo.Context) error {
	usr := contextUser(ctx)
	up := user.UpdateProfile{
		Nombre:    ctx.FormValue("nombre"),
		Apellido:  ctx.FormValue("apellido"),
		Intereses: ctx.FormValue("intereses"),
		Hobbies:   ctx.FormValue("hobbies"),
	}
	if ctx.FormValue("quitarFoto") != "" {
		noPhoto := ""
		up.Foto = &noPhoto
	}

	err := readPhoto(ctx, &up)
	if err == nil {
		_, err = h.deps.UserSvc.UpdateProfile(requestContext(ctx), usr.ID, up)
	}
	if err != nil {
		if !core.IsValidation(err) {
			return redirectWithFlash(ctx, "/perfil", flashError, "Error al actualizar el perfil")
		}
		data, lErr := h.load(ctx, *usr)
		if lErr != nil {
			return lErr
		}
		data.Form = up
		return render(ctx, http.StatusUnprocessableEntity, "profile", "Mi Perfil", data, err)
	}

	if _, err := h.deps.UserSvc.RefreshUser(requestContext(ctx)); err != nil {
		return errors.Wrap(err, "refreshing user")
	}
	return redirectWithFlash(ctx, "/perfil", flashSuccess, "Perfil actualizado correctamente")
}

// readPhoto stores an uploaded avatar in up as a data URL.
func readPhoto(ctx echo.Context, up *user.UpdateProfile) error {
	fh, err := ctx.FormFile("foto")
	if err != nil {
		if err == http.ErrMissingFile || err == http.ErrNotMultipart {
			return nil
		}
		return errors.Wrap(err, "reading photo")
	}
	if fh.Size > maxPhotoSize {
		return errPhotoTooLarge
	}
	mime := fh.Header.Get("Content-Type")
	if !strings.HasPrefix(mime, "image/") {
		return errPhotoType
	}
	b, err := readAll(fh)
	if err != nil {
		return err
	}
	photo := "data:" + mime + ";base64," + base64.StdEncoding.EncodeToString(b)
	up.Foto = &photo
	return nil
}

func readAll(fh *multipart.FileHeader) ([]byte, error) {
	f, err := fh.Open()
	if err != nil {
		return nil, errors.Wrap(err, "opening photo")
	}
	defer f.Close()
	b, err := io.ReadAll(io.LimitReader(f, maxPhotoSize+1))
	if err != nil {
		return nil, errors.Wrap(err, "reading photo")
	}
	if len(b) > maxPhotoSize {
		return nil, errPhotoTooLarge
	}
	return b, nil
}
