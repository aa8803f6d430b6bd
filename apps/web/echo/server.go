package echoweb

import (
	"context"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/labstack/gommon/log"

	"github.com/smartcampusucv/web/core"
	"github.com/smartcampusucv/web/core/activity"
	"github.com/smartcampusucv/web/core/chat"
	"github.com/smartcampusucv/web/core/enrollment"
	"github.com/smartcampusucv/web/core/participation"
	"github.com/smartcampusucv/web/core/recognition"
	"github.com/smartcampusucv/web/core/user"
)

type (
	Options struct {
		Address        string
		DisableReqLogs bool
		DisableCSRF    bool
		SecureCookies  bool
		ReadTimeout    time.Duration
		WriteTimeout   time.Duration
	}

	Deps struct {
		Logger           core.Logger
		UserSvc          *user.Service
		ActivitySvc      *activity.Service
		EnrollmentSvc    *enrollment.Service
		ParticipationSvc *participation.Service
		RecognitionSvc   *recognition.Service
		ChatSvc          *chat.Service
	}

	Server interface {
		http.Handler
		Start() error
		Stop(context.Context) error
	}

	server struct {
		opts *Options
		deps *Deps
		app  *echo.Echo
	}
)

var _ Server = (*server)(nil)

func NewServer(opts *Options, deps *Deps) Server {
	s := &server{
		opts: opts,
		deps: deps,
		app:  echo.New(),
	}
	s.setup()
	return s
}

func (s *server) setup() {
	debug := core.Conf.Debug

	s.app.HideBanner = true
	s.app.Server.ReadTimeout = s.opts.ReadTimeout
	s.app.Server.WriteTimeout = s.opts.WriteTimeout
	s.app.Pre(middleware.RemoveTrailingSlash())
	s.app.Use(s.cookieMiddleware)
	s.app.Use(middleware.RequestIDWithConfig(middleware.RequestIDConfig{Generator: uuid.NewString}))
	if !s.opts.DisableReqLogs {
		s.app.Use(middleware.Logger())
	}
	// do not recover in DEV|TEST mode
	if !(debug || core.Conf.TestMode) {
		s.app.Use(middleware.RecoverWithConfig(middleware.RecoverConfig{LogLevel: log.ERROR}))
	}
	s.app.Use(middleware.SecureWithConfig(middleware.SecureConfig{
		XSSProtection:      "1; mode=block",
		ContentTypeNosniff: "nosniff",
		XFrameOptions:      "DENY",
	}))
	s.app.Use(middleware.BodyLimit("4M"))
	if !s.opts.DisableCSRF {
		s.app.Use(middleware.CSRFWithConfig(middleware.CSRFConfig{
			TokenLookup:    "form:" + csrfField,
			ContextKey:     csrfContextKey,
			CookieName:     "_csrf",
			CookiePath:     "/",
			CookieHTTPOnly: true,
			CookieSecure:   s.opts.SecureCookies,
			CookieSameSite: http.SameSiteLaxMode,
			Skipper:        func(ctx echo.Context) bool { return ctx.Path() == "/healthz" },
		}))
	}

	s.app.Renderer = newRenderer()
	s.app.HTTPErrorHandler = newAppHTTPErrorHandler(s.deps.Logger)
	s.app.Debug = debug

	s.app.StaticFS("/static", echo.MustSubFS(staticFS, "static"))
	s.app.GET("/healthz", healthz)

	app := s.app.Group("", s.sessionMiddleware)
	app.GET("/", home)

	registerAuthRoutes(app, s)
	registerActivityRoutes(app, s)
	registerEnrollmentRoutes(app, s)
	registerRankingRoutes(app, s)
	registerProfileRoutes(app, s)
	registerRecognitionRoutes(app, s)
	registerChatRoutes(app, s)
}

func (s *server) Start() error {
	return s.app.Start(s.opts.Address)
}

func (s *server) Stop(ctx context.Context) error {
	return s.app.Shutdown(ctx)
}

func (s *server) ServeHTTP(w http.ResponseWriter, r *http.Request) { // for tests
	s.app.ServeHTTP(w, r)
}

// home sends the visitor to the page matching their session.
func home(ctx echo.Context) error {
	if contextState(ctx).Phase() == user.PhaseAuthenticated {
		return ctx.Redirect(http.StatusSeeOther, "/inicio")
	}
	return ctx.Redirect(http.StatusSeeOther, "/login")
}

func healthz(ctx echo.Context) error {
	return ctx.JSON(http.StatusOK, echo.Map{"status": "ok", "build": core.Conf.Build})
}
