package web_test

import (
	"net/http"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mcoot/elevate/internal/testutil"
)

func TestLandingPage(t *testing.T) {
	ts := newWebTestServer(t, nil)

	rr := ts.get("/")
	assert.Equal(t, http.StatusOK, rr.Code)

	doc := parseHTML(rr.Body)
	assertContainsText(t, doc, "h1", "Welcome to College Club Platform")
	assertContainsElement(t, doc, "a.login-button[href='/login']")
	assertContainsElement(t, doc, "a.signup-button[href='/signup']")
	// Public pages have no sidebar
	assertNotContainsElement(t, doc, "nav.sidebar")

	// Every visit gets a session cookie
	assert.NotEmpty(t, ts.cookies.sessionID())
}

func TestSessionCookieIsStable(t *testing.T) {
	ts := newWebTestServer(t, nil)

	ts.get("/")
	first := ts.cookies.sessionID()
	ts.get("/login")
	assert.Equal(t, first, ts.cookies.sessionID())
}

func TestMalformedSessionCookieStartsNewSession(t *testing.T) {
	ts := newWebTestServer(t, nil)

	ts.cookies.cookies["elevate_session"] = &http.Cookie{Name: "elevate_session", Value: "not-a-uuid"}
	ts.get("/")
	assert.NotEqual(t, "not-a-uuid", string(ts.cookies.sessionID()))
}

func TestLogin(t *testing.T) {
	ts := newWebTestServer(t, nil)
	ts.login()

	state := ts.state()
	require.NotNil(t, state.User)
	assert.Equal(t, "A", state.User.FirstName)
	assert.Empty(t, state.Clubs)

	// The stored credential is sent to the backend on later calls
	assert.Contains(t, ts.backend.AuthHeadersFor("GET /student/users/email"), "Bearer "+testutil.TestToken)
}

func TestLoginPageRedirectsWhenLoggedIn(t *testing.T) {
	ts := newWebTestServer(t, nil)
	ts.login()

	rr := ts.get("/login")
	assert.Equal(t, http.StatusSeeOther, rr.Code)
	assert.Equal(t, "/dashboard", rr.Header().Get("Location"))
}

func TestLoginWrongPassword(t *testing.T) {
	ts := newWebTestServer(t, nil)

	form := url.Values{"email": {testutil.TestEmail}, "password": {"wrong-password"}}
	rr := ts.post("/login", form)

	// Re-renders the form with an inline error
	assert.Equal(t, http.StatusOK, rr.Code)
	doc := parseHTML(rr.Body)
	assertContainsText(t, doc, "p.error", "Invalid email or password")
	// The email is kept, the password is not
	assert.Equal(t, testutil.TestEmail, doc.Find("input[name='email']").AttrOr("value", ""))

	// Still locked out
	rr = ts.get("/dashboard")
	assert.Equal(t, http.StatusSeeOther, rr.Code)
}

func TestLoginUnknownEmail(t *testing.T) {
	ts := newWebTestServer(t, nil)

	form := url.Values{"email": {"nobody@gmail.com"}, "password": {"12345678"}}
	rr := ts.post("/login", form)

	doc := parseHTML(rr.Body)
	assertContainsText(t, doc, "p.error", "Invalid email or password")
}

func TestLoginBlankFields(t *testing.T) {
	ts := newWebTestServer(t, nil)

	rr := ts.post("/login", url.Values{"email": {""}, "password": {""}})

	doc := parseHTML(rr.Body)
	assertContainsText(t, doc, "p.error", "Invalid email or password")
	assert.Empty(t, ts.backend.AuthHeadersFor("POST /auth/login"), "Expected no backend call")
}

func TestLoginUserDataFailure(t *testing.T) {
	ts := newWebTestServer(t, nil)
	ts.backend.FailWith("GET /student/users", http.StatusInternalServerError)

	form := url.Values{"email": {testutil.TestEmail}, "password": {testutil.TestPassword}}
	rr := ts.post("/login", form)

	assert.Equal(t, http.StatusOK, rr.Code)
	doc := parseHTML(rr.Body)
	assertContainsText(t, doc, "p.error", "Error fetching user data")

	// A half-finished login does not open the guard
	rr = ts.get("/dashboard")
	assert.Equal(t, http.StatusSeeOther, rr.Code)
	assert.Equal(t, "/login", rr.Header().Get("Location"))
}

func TestSignupPage(t *testing.T) {
	ts := newWebTestServer(t, nil)

	rr := ts.get("/signup")
	assert.Equal(t, http.StatusOK, rr.Code)

	doc := parseHTML(rr.Body)
	for _, field := range []string{"firstName", "lastName", "email", "password", "phone", "address", "birthday"} {
		assertContainsElement(t, doc, "input[name='"+field+"']")
	}
}

func signupForm() url.Values {
	return url.Values{
		"firstName": {"B"},
		"lastName":  {"Student"},
		"email":     {"user2@gmail.com"},
		"password":  {"abcdefgh"},
		"phone":     {"0400000000"},
		"address":   {"1 College Rd"},
		"birthday":  {"2004-05-06"},
	}
}

func TestSignup(t *testing.T) {
	ts := newWebTestServer(t, nil)

	rr := ts.post("/signup", signupForm())

	// Signup does not log in; it sends the user to the login page
	assert.Equal(t, http.StatusSeeOther, rr.Code)
	assert.Equal(t, "/login", rr.Header().Get("Location"))

	rr = ts.followRedirect(rr)
	doc := parseHTML(rr.Body)
	assertContainsText(t, doc, ".flash-success", "Signup successful! Please log in.")

	require.Len(t, ts.backend.CreatedUsers, 1)
	assert.Equal(t, "user2@gmail.com", ts.backend.CreatedUsers[0].Email)
	assert.Equal(t, "STUDENT", string(ts.backend.CreatedUsers[0].Role))
}

func TestSignupValidationErrors(t *testing.T) {
	ts := newWebTestServer(t, nil)

	form := signupForm()
	form.Set("email", "not-an-email")
	form.Set("password", "short")
	form.Set("firstName", "")
	rr := ts.post("/signup", form)

	assert.Equal(t, http.StatusOK, rr.Code)
	doc := parseHTML(rr.Body)
	assertContainsElement(t, doc, "span.field-error[data-field='email']")
	assertContainsElement(t, doc, "span.field-error[data-field='password']")
	assertContainsElement(t, doc, "span.field-error[data-field='firstName']")
	assertNotContainsElement(t, doc, "span.field-error[data-field='lastName']")

	// Entered values survive, the password does not
	assert.Equal(t, "Student", doc.Find("input[name='lastName']").AttrOr("value", ""))
	assert.Equal(t, "", doc.Find("input[name='password']").AttrOr("value", ""))
	assert.Empty(t, ts.backend.CreatedUsers)
}

func TestSignupDuplicateEmail(t *testing.T) {
	ts := newWebTestServer(t, nil)

	form := signupForm()
	form.Set("email", testutil.TestEmail)
	rr := ts.post("/signup", form)

	assert.Equal(t, http.StatusOK, rr.Code)
	doc := parseHTML(rr.Body)
	assertContainsText(t, doc, "p.error", "Email already registered")
}

func TestLogout(t *testing.T) {
	ts := newWebTestServer(t, nil)
	ts.login()

	rr := ts.post("/logout", url.Values{})
	assert.Equal(t, http.StatusSeeOther, rr.Code)
	assert.Equal(t, "/login", rr.Header().Get("Location"))

	rr = ts.followRedirect(rr)
	doc := parseHTML(rr.Body)
	assertContainsText(t, doc, ".flash-info", "You have been logged out")

	// Credential and user are gone
	state := ts.state()
	assert.Nil(t, state.User)
	ok, err := ts.app.AuthService.Authenticated(t.Context(), ts.app.AuthService.Open(ts.cookies.sessionID()))
	require.NoError(t, err)
	assert.False(t, ok)

	// The guard is closed again
	rr = ts.get("/dashboard")
	assert.Equal(t, http.StatusSeeOther, rr.Code)
}
