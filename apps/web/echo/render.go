package echoweb

import (
	"bytes"
	"embed"
	"html/template"
	"io"
	"io/fs"
	"path"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/renderer/html"

	"github.com/smartcampusucv/web/core"
	"github.com/smartcampusucv/web/core/participation"
	"github.com/smartcampusucv/web/core/recognition"
	"github.com/smartcampusucv/web/core/user"
)

var (
	//go:embed templates
	templateFS embed.FS

	//go:embed static
	staticFS embed.FS

	// raw HTML in markdown is dropped
	mdRenderer = goldmark.New(goldmark.WithRendererOptions(html.WithHardWraps()))

	months = [...]string{"ene", "feb", "mar", "abr", "may", "jun", "jul", "ago", "sep", "oct", "nov", "dic"}
)

// Page is the model every template receives.
type Page struct {
	Title  string
	State  user.AuthState
	User   *user.User
	Nav    []NavItem
	Flash  *Flash
	CSRF   string
	Data   interface{}
	Errors map[string]string // field errors of the form on the page
	Error  string            // banner
}

func (p Page) FieldError(name string) string {
	return p.Errors[name]
}

// formView pairs an activity form with the page it is embedded in.
type formView struct {
	Page Page
	F    formData
}

type renderer struct {
	pages map[string]*template.Template
}

var _ echo.Renderer = (*renderer)(nil)

// newRenderer parses the layout and partials once, then one clone per page.
func newRenderer() *renderer {
	base := template.Must(template.New("base").Funcs(funcMap).ParseFS(templateFS, "templates/layout/*.html"))
	pages := make(map[string]*template.Template)
	files, err := fs.Glob(templateFS, "templates/pages/*.html")
	if err != nil {
		panic(err)
	}
	for _, file := range files {
		name := strings.TrimSuffix(path.Base(file), ".html")
		pages[name] = template.Must(template.Must(base.Clone()).ParseFS(templateFS, file))
	}
	return &renderer{pages: pages}
}

func (r *renderer) Render(w io.Writer, name string, data interface{}, _ echo.Context) error {
	tmpl, ok := r.pages[name]
	if !ok {
		return errors.Errorf("template %q not found", name)
	}
	// render fully before writing so a template error still gets a proper error page
	var buf bytes.Buffer
	if err := tmpl.ExecuteTemplate(&buf, "layout", data); err != nil {
		return errors.Wrapf(err, "rendering %s", name)
	}
	_, err := buf.WriteTo(w)
	return err
}

// render fills the page chrome and renders the named page.
func render(ctx echo.Context, code int, name, title string, data interface{}, errs ...error) error {
	state := contextState(ctx)
	p := Page{
		Title: title,
		State: state,
		User:  state.User,
		Nav:   Navigation(state, ctx.Request().URL.Path),
		Flash: popFlash(ctx),
		CSRF:  csrfToken(ctx),
		Data:  data,
	}
	if len(errs) > 0 && errs[0] != nil {
		if vErr, ok := errors.Cause(errs[0]).(*core.ValidationError); ok {
			p.Errors = vErr.FieldErrors()
		}
		p.Error = errs[0].Error()
	}
	return ctx.Render(code, name, p)
}

var funcMap = template.FuncMap{
	"markdown": renderMarkdown,
	"date":     formatDate,
	"clock":    formatClock,
	"medal":    participation.Medal,
	"kindOf":   recognition.KindOf,
	"roleName": user.RoleName,
	"add":      func(a, b int) int { return a + b },
	"safeURL":  safeURL,
	"formView": func(p Page, f formData) formView { return formView{Page: p, F: f} },
	"deref": func(n *int) int {
		if n == nil {
			return 0
		}
		return *n
	},
}

func renderMarkdown(s string) template.HTML {
	var buf bytes.Buffer
	if err := mdRenderer.Convert([]byte(s), &buf); err != nil {
		return template.HTML(template.HTMLEscapeString(s))
	}
	return template.HTML(buf.String()) // nolint:gosec
}

// formatDate renders a date like "18 oct 2026".
func formatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format("2") + " " + months[t.Month()-1] + " " + t.Format("2006")
}

func formatClock(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format("15:04")
}

// safeURL lets avatar data URLs and http(s) URLs through as image sources.
func safeURL(s string) template.URL {
	if strings.HasPrefix(s, "data:image/") || strings.HasPrefix(s, "https://") || strings.HasPrefix(s, "http://") {
		return template.URL(s) // nolint:gosec
	}
	return ""
}
