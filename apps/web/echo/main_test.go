package echoweb

import (
	"bytes"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"net/url"
	"strings"
	"testing"

	"github.com/smartcampusucv/web/core/activity"
	"github.com/smartcampusucv/web/core/chat"
	"github.com/smartcampusucv/web/core/enrollment"
	"github.com/smartcampusucv/web/core/participation"
	"github.com/smartcampusucv/web/core/recognition"
	"github.com/smartcampusucv/web/core/user"
	inmemdb "github.com/smartcampusucv/web/storage/inmem"
	"github.com/smartcampusucv/web/tests"
)

func setup(t *testing.T) (Server, *inmemdb.DB) {
	t.Helper()
	db := testutil.OpenDB(t)
	return NewServer(&Options{DisableReqLogs: true, DisableCSRF: true}, setupDeps(db)), db
}

func setupDeps(db *inmemdb.DB) *Deps {
	return &Deps{
		UserSvc:          user.NewService(inmemdb.NewUserRepository(db)),
		ActivitySvc:      activity.NewService(inmemdb.NewActivityRepository(db)),
		EnrollmentSvc:    enrollment.NewService(inmemdb.NewEnrollmentRepository(db)),
		ParticipationSvc: participation.NewService(inmemdb.NewParticipationRepository(db)),
		RecognitionSvc:   recognition.NewService(inmemdb.NewRecognitionRepository(db)),
		ChatSvc:          chat.NewService(inmemdb.NewChatRepository(db), nil),
	}
}

type httpTest struct {
	name         string
	method       string
	path         string
	session      string
	form         url.Values
	wantCode     int
	wantLocation string
	wantBody     []string
}

func newRequest(method, path, session string, form url.Values) (*http.Request, *httptest.ResponseRecorder) {
	var body io.Reader
	if form != nil {
		body = strings.NewReader(form.Encode())
	}
	if method == "" {
		method = http.MethodGet
	}
	req := httptest.NewRequest(method, path, body)
	if form != nil {
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}
	if session != "" {
		req.AddCookie(&http.Cookie{Name: sessionCookie, Value: session})
	}
	return req, httptest.NewRecorder()
}

func do(app Server, method, path, session string, form url.Values) *httptest.ResponseRecorder {
	req, rec := newRequest(method, path, session, form)
	app.ServeHTTP(rec, req)
	return rec
}

func runHTTPTests(t *testing.T, app Server, tests []httpTest) {
	t.Helper()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(app, tt.method, tt.path, tt.session, tt.form)
			checkResponse(t, tt, rec)
		})
	}
}

func checkResponse(t *testing.T, tt httpTest, rec *httptest.ResponseRecorder) {
	t.Helper()
	wantCode := tt.wantCode
	if wantCode == 0 {
		wantCode = http.StatusOK
	}
	if rec.Code != wantCode {
		t.Errorf("failed! code = %v; wantCode %v", rec.Code, wantCode)
	}
	if tt.wantLocation != "" {
		if loc := rec.Header().Get("Location"); loc != tt.wantLocation {
			t.Errorf("failed! location = %q; wantLocation %q", loc, tt.wantLocation)
		}
	}
	body := rec.Body.String()
	for _, want := range tt.wantBody {
		if !strings.Contains(body, want) {
			t.Errorf("failed! body does not contain %q", want)
		}
	}
}

// login signs email in through the login form and returns the session cookie value.
func login(t *testing.T, app Server, email string) string {
	t.Helper()
	rec := do(app, http.MethodPost, "/login", "", url.Values{
		"correoInstitucional": {email},
		"contrasena":          {inmemdb.DemoPassword},
	})
	if rec.Code != http.StatusSeeOther {
		t.Fatalf("login(%s) failed: code %d", email, rec.Code)
	}
	if c := responseCookie(rec, sessionCookie); c != nil && c.Value != "" {
		return c.Value
	}
	t.Fatalf("login(%s) failed: no session cookie", email)
	return ""
}

func responseCookie(rec *httptest.ResponseRecorder, name string) *http.Cookie {
	var found *http.Cookie
	for _, c := range rec.Result().Cookies() {
		if c.Name == name {
			found = c
		}
	}
	return found
}

// flashOf returns the toast message set by rec, or "".
func flashOf(rec *httptest.ResponseRecorder) string {
	c := responseCookie(rec, flashCookie)
	if c == nil {
		return ""
	}
	raw, err := url.QueryUnescape(c.Value)
	if err != nil {
		return ""
	}
	if i := strings.Index(raw, "|"); i >= 0 {
		return raw[i+1:]
	}
	return raw
}

func multipartRequest(t *testing.T, path, session string, fields map[string]string, file []byte, mime string) (*http.Request, *httptest.ResponseRecorder) {
	t.Helper()
	var buf bytes.Buffer
	w := newMultipartWriter(&buf)
	for k, v := range fields {
		if err := w.WriteField(k, v); err != nil {
			t.Fatalf("multipartRequest() failed: %v", err)
		}
	}
	if file != nil {
		if err := w.writeFile("foto", "foto.png", mime, file); err != nil {
			t.Fatalf("multipartRequest() failed: %v", err)
		}
	}
	if err := w.Close(); err != nil {
		t.Fatalf("multipartRequest() failed: %v", err)
	}
	req := httptest.NewRequest(http.MethodPost, path, &buf)
	req.Header.Set("Content-Type", w.FormDataContentType())
	req.AddCookie(&http.Cookie{Name: sessionCookie, Value: session})
	return req, httptest.NewRecorder()
}

type multipartWriter struct {
	*multipart.Writer
}

func newMultipartWriter(w io.Writer) multipartWriter {
	return multipartWriter{multipart.NewWriter(w)}
}

// writeFile adds a file part with an explicit content type.
func (w multipartWriter) writeFile(field, filename, mime string, content []byte) error {
	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="%s"; filename="%s"`, field, filename))
	h.Set("Content-Type", mime)
	part, err := w.CreatePart(h)
	if err != nil {
		return err
	}
	_, err = part.Write(content)
	return err
}
