package web_test

import (
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/require"

	"github.com/mcoot/elevate/internal/factory"
	"github.com/mcoot/elevate/internal/model"
	"github.com/mcoot/elevate/internal/testutil"
	"github.com/mcoot/elevate/internal/web"
	"github.com/mcoot/elevate/internal/web/middleware"
)

// webTestServer provides a test server for web interface testing
type webTestServer struct {
	t       *testing.T
	handler http.Handler
	app     *factory.TestApp
	backend *testutil.Backend
	cookies *cookieJar
}

type serverOption func(*web.RouterConfig)

func withCSRF(key string) serverOption {
	return func(cfg *web.RouterConfig) {
		cfg.CSRFKey = []byte(key)
		cfg.TrustedOrigins = []string{"example.com"}
	}
}

// newWebTestServer creates a new test server with all dependencies wired
// against a fake backend. The seeded user belongs to the given clubs.
func newWebTestServer(t *testing.T, clubs []model.Club, opts ...serverOption) *webTestServer {
	t.Helper()

	backend := testutil.NewBackend(t)
	testutil.SeedBackend(backend, clubs...)

	app := factory.NewTestApp(backend.URL)
	app.MockClock.Set(time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC))
	require.NoError(t, app.CalendarService.LoadFromFile("../../data/events.yaml"))

	cfg := web.RouterConfig{
		Logger:               testutil.NopLogger(),
		AuthService:          app.AuthService,
		MembershipController: app.MembershipController,
		CalendarService:      app.CalendarService,
		Clock:                app.MockClock,
		StaticDir:            "", // No static files in tests
		SessionTTL:           time.Hour,
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	return &webTestServer{
		t:       t,
		handler: web.NewRouter(cfg),
		app:     app,
		backend: backend,
		cookies: newCookieJar(),
	}
}

// request makes an HTTP request and returns the response
func (ts *webTestServer) request(method, path string, form url.Values, htmx bool) *httptest.ResponseRecorder {
	var body io.Reader
	if form != nil {
		body = strings.NewReader(form.Encode())
	}

	req := httptest.NewRequest(method, path, body)
	if form != nil {
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}
	if htmx {
		req.Header.Set("HX-Request", "true")
	}

	// Add cookies from jar
	ts.cookies.addTo(req)

	rr := httptest.NewRecorder()
	ts.handler.ServeHTTP(rr, req)

	// Extract Set-Cookie headers into jar
	ts.cookies.extract(rr)

	return rr
}

// get makes a GET request
func (ts *webTestServer) get(path string) *httptest.ResponseRecorder {
	return ts.request(http.MethodGet, path, nil, false)
}

// getHTMX makes a GET request as an HTMX request
func (ts *webTestServer) getHTMX(path string) *httptest.ResponseRecorder {
	return ts.request(http.MethodGet, path, nil, true)
}

// post makes a POST request with form data (non-HTMX)
func (ts *webTestServer) post(path string, form url.Values) *httptest.ResponseRecorder {
	return ts.request(http.MethodPost, path, form, false)
}

// postHTMX makes a POST request with form data as an HTMX request
func (ts *webTestServer) postHTMX(path string, form url.Values) *httptest.ResponseRecorder {
	return ts.request(http.MethodPost, path, form, true)
}

// parseHTML parses the response body as HTML
func parseHTML(r io.Reader) *goquery.Document {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		panic(err)
	}
	return doc
}

// cookieJar maintains cookies across requests (like a browser would)
type cookieJar struct {
	cookies map[string]*http.Cookie
}

func newCookieJar() *cookieJar {
	return &cookieJar{
		cookies: make(map[string]*http.Cookie),
	}
}

// addTo adds all cookies to the request
func (j *cookieJar) addTo(req *http.Request) {
	for _, cookie := range j.cookies {
		req.AddCookie(cookie)
	}
}

// extract extracts Set-Cookie headers from response
func (j *cookieJar) extract(rr *httptest.ResponseRecorder) {
	for _, cookie := range rr.Result().Cookies() {
		if cookie.MaxAge < 0 {
			// Cookie being deleted
			delete(j.cookies, cookie.Name)
		} else {
			j.cookies[cookie.Name] = cookie
		}
	}
}

// sessionID returns the session id the browser holds, empty if none
func (j *cookieJar) sessionID() model.SessionID {
	cookie, ok := j.cookies[middleware.SessionCookieName]
	if !ok {
		return ""
	}
	return model.SessionID(cookie.Value)
}

// Helper functions for common test operations

// login logs the seeded user in through the login form
func (ts *webTestServer) login() {
	ts.t.Helper()
	form := url.Values{
		"email":    {testutil.TestEmail},
		"password": {testutil.TestPassword},
	}
	rr := ts.post("/login", form)
	require.Equal(ts.t, http.StatusSeeOther, rr.Code, "Expected redirect after login")
	require.Equal(ts.t, "/dashboard", rr.Header().Get("Location"))
	require.NotEmpty(ts.t, ts.cookies.sessionID(), "Expected session cookie to be set")
}

// state reads the browser's session state straight from storage
func (ts *webTestServer) state() *model.SessionState {
	ts.t.Helper()
	sess := ts.app.AuthService.Open(ts.cookies.sessionID())
	state, err := sess.Store.State(ts.t.Context())
	require.NoError(ts.t, err)
	return state
}

// followRedirect follows a redirect and returns the response
// Works with both traditional Location headers and HTMX HX-Redirect headers
func (ts *webTestServer) followRedirect(rr *httptest.ResponseRecorder) *httptest.ResponseRecorder {
	ts.t.Helper()
	// Check for HTMX redirect first
	location := rr.Header().Get("HX-Redirect")
	if location == "" {
		// Fall back to traditional redirect
		location = rr.Header().Get("Location")
	}
	require.NotEmpty(ts.t, location, "Expected Location or HX-Redirect header for redirect")
	return ts.get(location)
}

// Assertion helpers

// assertContainsElement asserts that the document contains an element matching the selector
func assertContainsElement(t *testing.T, doc *goquery.Document, selector string) {
	t.Helper()
	if doc.Find(selector).Length() == 0 {
		t.Errorf("Expected to find element matching %q, but none found", selector)
	}
}

// assertNotContainsElement asserts that the document does not contain an element matching the selector
func assertNotContainsElement(t *testing.T, doc *goquery.Document, selector string) {
	t.Helper()
	if doc.Find(selector).Length() > 0 {
		t.Errorf("Expected NOT to find element matching %q, but found %d", selector, doc.Find(selector).Length())
	}
}

// assertContainsText asserts that the element matching the selector contains the text
func assertContainsText(t *testing.T, doc *goquery.Document, selector, text string) {
	t.Helper()
	el := doc.Find(selector)
	if el.Length() == 0 {
		t.Errorf("Expected to find element matching %q, but none found", selector)
		return
	}
	if !strings.Contains(el.Text(), text) {
		t.Errorf("Expected element %q to contain %q, but got %q", selector, text, el.Text())
	}
}
