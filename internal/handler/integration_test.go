package handler_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"net/url"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/msomdec/todo-list/internal/domain"
	"github.com/msomdec/todo-list/internal/handler"
	"github.com/msomdec/todo-list/internal/service"
)

type testServer struct {
	*testApp
	srv *httptest.Server
}

func newTestServer(t *testing.T, loginBurst float64) *testServer {
	t.Helper()
	app := newTestApp(t)

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	limiter := service.NewTokenBucket(ctx, 0, loginBurst)

	mux := http.NewServeMux()
	handler.RegisterRoutes(mux, app.auth, app.tasks, handler.NewFlashes(testSecret, false), limiter,
		handler.CookieConfig{Secure: false, MaxAge: time.Hour})

	srv := httptest.NewServer(handler.SecurityHeaders(mux))
	t.Cleanup(srv.Close)
	return &testServer{testApp: app, srv: srv}
}

// client returns a browser-like client with its own cookie jar that does
// not follow redirects.
func (s *testServer) client(t *testing.T) *http.Client {
	t.Helper()
	jar, err := cookiejar.New(nil)
	if err != nil {
		t.Fatalf("cookiejar: %v", err)
	}
	return &http.Client{
		Jar: jar,
		CheckRedirect: func(*http.Request, []*http.Request) error {
			return http.ErrUseLastResponse
		},
	}
}

func (s *testServer) get(t *testing.T, c *http.Client, path string) (*http.Response, string) {
	t.Helper()
	resp, err := c.Get(s.srv.URL + path)
	if err != nil {
		t.Fatalf("GET %s: %v", path, err)
	}
	return resp, readBody(t, resp)
}

func (s *testServer) post(t *testing.T, c *http.Client, path string, form url.Values) *http.Response {
	t.Helper()
	resp, err := c.PostForm(s.srv.URL+path, form)
	if err != nil {
		t.Fatalf("POST %s: %v", path, err)
	}
	readBody(t, resp)
	return resp
}

// signIn registers and logs in through the HTTP forms.
func (s *testServer) signIn(t *testing.T, c *http.Client, email string) {
	t.Helper()
	creds := url.Values{"email": {email}, "password": {"password123"}}
	resp := s.post(t, c, "/register", creds)
	expectRedirect(t, resp, "/login")
	resp = s.post(t, c, "/login", creds)
	expectRedirect(t, resp, "/dashboard")
}

func (s *testServer) userTasks(t *testing.T, email string) []domain.Task {
	t.Helper()
	ctx := context.Background()
	user, err := s.db.Users().GetByEmail(ctx, email)
	if err != nil {
		t.Fatalf("GetByEmail: %v", err)
	}
	tasks, err := s.db.Tasks().ListByUser(ctx, user.ID)
	if err != nil {
		t.Fatalf("ListByUser: %v", err)
	}
	return tasks
}

func readBody(t *testing.T, resp *http.Response) string {
	t.Helper()
	defer resp.Body.Close()
	b, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	return string(b)
}

func expectRedirect(t *testing.T, resp *http.Response, want string) {
	t.Helper()
	if resp.StatusCode != http.StatusSeeOther {
		t.Fatalf("expected 303, got %d", resp.StatusCode)
	}
	if loc := resp.Header.Get("Location"); loc != want {
		t.Fatalf("expected redirect to %q, got %q", want, loc)
	}
}

// between returns the part of body after start and before end.
func between(t *testing.T, body, start, end string) string {
	t.Helper()
	i := strings.Index(body, start)
	j := strings.Index(body, end)
	if i < 0 || j < 0 || j < i {
		t.Fatalf("markers %q..%q not found in order", start, end)
	}
	return body[i:j]
}

// dashboardStats decodes the chart data embedded in the dashboard script.
func dashboardStats(t *testing.T, body string) domain.DailyStats {
	t.Helper()
	const marker = "const stats = "
	i := strings.Index(body, marker)
	if i < 0 {
		t.Fatal("stats not found in dashboard")
	}
	rest := body[i+len(marker):]
	end := strings.Index(rest, ";")
	if end < 0 {
		t.Fatal("unterminated stats literal")
	}

	var stats domain.DailyStats
	if err := json.Unmarshal([]byte(strings.TrimSpace(rest[:end])), &stats); err != nil {
		t.Fatalf("decode stats: %v", err)
	}
	return stats
}

func sum(xs []int) int {
	n := 0
	for _, x := range xs {
		n += x
	}
	return n
}

func taskPath(action string, id int64) string {
	return "/" + action + "/" + strconv.FormatInt(id, 10)
}

func TestIntegration_TaskLifecycle(t *testing.T) {
	s := newTestServer(t, 100)
	c := s.client(t)
	s.signIn(t, c, "alice@example.com")

	for _, title := range []string{"Buy milk", "Write report"} {
		resp := s.post(t, c, "/dashboard", url.Values{"title": {title}})
		expectRedirect(t, resp, "/dashboard")
	}

	tasks := s.userTasks(t, "alice@example.com")
	if len(tasks) != 2 {
		t.Fatalf("expected 2 tasks, got %d", len(tasks))
	}
	var milk domain.Task
	for _, task := range tasks {
		if task.Title == "Buy milk" {
			milk = task
		}
	}

	resp := s.post(t, c, taskPath("toggle", milk.ID), nil)
	expectRedirect(t, resp, "/dashboard")

	resp, body := s.get(t, c, "/dashboard")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	if !strings.Contains(body, "alice@example.com") {
		t.Error("dashboard should show the signed-in email")
	}

	pending := between(t, body, `id="pending"`, `id="done"`)
	done := between(t, body, `id="done"`, `id="stats-chart"`)
	if !strings.Contains(pending, "Write report") || strings.Contains(pending, "Buy milk") {
		t.Errorf("pending list wrong: %s", pending)
	}
	if !strings.Contains(done, "Buy milk") || strings.Contains(done, "Write report") {
		t.Errorf("done list wrong: %s", done)
	}
	stats := dashboardStats(t, body)
	if len(stats.Labels) != 7 || len(stats.Created) != 7 || len(stats.Completed) != 7 {
		t.Fatalf("expected a 7-day window, got %+v", stats)
	}
	if n := sum(stats.Created); n != 2 {
		t.Errorf("expected 2 tasks created in window, got %d", n)
	}
	if n := sum(stats.Completed); n != 1 {
		t.Errorf("expected 1 task completed in window, got %d", n)
	}

	resp = s.post(t, c, taskPath("delete", milk.ID), nil)
	expectRedirect(t, resp, "/dashboard")

	_, body = s.get(t, c, "/dashboard")
	if strings.Contains(body, "Buy milk") {
		t.Error("deleted task should not be shown")
	}
	if !strings.Contains(body, "Task deleted.") {
		t.Error("expected delete flash")
	}
}

func TestIntegration_UnauthenticatedRedirects(t *testing.T) {
	s := newTestServer(t, 100)
	c := s.client(t)

	for _, tc := range []struct{ method, path string }{
		{http.MethodGet, "/dashboard"},
		{http.MethodPost, "/dashboard"},
		{http.MethodPost, "/toggle/1"},
		{http.MethodPost, "/delete/1"},
		{http.MethodGet, "/logout"},
		{http.MethodGet, "/"},
	} {
		t.Run(tc.method+" "+tc.path, func(t *testing.T) {
			req, err := http.NewRequest(tc.method, s.srv.URL+tc.path, nil)
			if err != nil {
				t.Fatal(err)
			}
			resp, err := c.Do(req)
			if err != nil {
				t.Fatal(err)
			}
			readBody(t, resp)
			expectRedirect(t, resp, "/login")
		})
	}
}

func TestIntegration_HomeRedirectsSignedInUser(t *testing.T) {
	s := newTestServer(t, 100)
	c := s.client(t)
	s.signIn(t, c, "home@example.com")

	resp, _ := s.get(t, c, "/")
	expectRedirect(t, resp, "/dashboard")
}

func TestIntegration_CrossUserAccess(t *testing.T) {
	s := newTestServer(t, 100)
	alice := s.client(t)
	bob := s.client(t)
	s.signIn(t, alice, "alice@example.com")
	s.signIn(t, bob, "bob@example.com")

	s.post(t, alice, "/dashboard", url.Values{"title": {"Private"}})
	task := s.userTasks(t, "alice@example.com")[0]

	for _, action := range []string{"toggle", "delete"} {
		resp := s.post(t, bob, taskPath(action, task.ID), nil)
		if resp.StatusCode != http.StatusNotFound {
			t.Fatalf("%s: expected 404, got %d", action, resp.StatusCode)
		}
	}

	tasks := s.userTasks(t, "alice@example.com")
	if len(tasks) != 1 || tasks[0].Done {
		t.Fatalf("alice's task should be untouched, got %+v", tasks)
	}
}

func TestIntegration_InvalidTaskID(t *testing.T) {
	s := newTestServer(t, 100)
	c := s.client(t)
	s.signIn(t, c, "ids@example.com")

	for _, path := range []string{"/toggle/abc", "/delete/0", "/toggle/-1", "/delete/999"} {
		resp := s.post(t, c, path, nil)
		if resp.StatusCode != http.StatusNotFound {
			t.Errorf("%s: expected 404, got %d", path, resp.StatusCode)
		}
	}
}

func TestIntegration_LogoutRevokesToken(t *testing.T) {
	s := newTestServer(t, 100)
	c := s.client(t)
	s.signIn(t, c, "logout@example.com")

	u, _ := url.Parse(s.srv.URL)
	var token string
	for _, cookie := range c.Jar.Cookies(u) {
		if cookie.Name == "auth_token" {
			token = cookie.Value
		}
	}
	if token == "" {
		t.Fatal("expected auth_token cookie after login")
	}

	resp, _ := s.get(t, c, "/logout")
	expectRedirect(t, resp, "/login")

	resp, _ = s.get(t, c, "/dashboard")
	expectRedirect(t, resp, "/login")

	// Replaying the old token must not work either.
	req, _ := http.NewRequest(http.MethodGet, s.srv.URL+"/dashboard", nil)
	req.AddCookie(&http.Cookie{Name: "auth_token", Value: token})
	replay := &http.Client{CheckRedirect: c.CheckRedirect}
	resp, err := replay.Do(req)
	if err != nil {
		t.Fatal(err)
	}
	readBody(t, resp)
	expectRedirect(t, resp, "/login")
}

func TestIntegration_RegisterErrors(t *testing.T) {
	s := newTestServer(t, 100)
	c := s.client(t)
	s.signIn(t, c, "dup@example.com")

	resp := s.post(t, c, "/register", url.Values{"email": {"DUP@example.com"}, "password": {"password123"}})
	expectRedirect(t, resp, "/register")
	_, body := s.get(t, c, "/register")
	if !strings.Contains(body, "That email is already registered.") {
		t.Error("expected duplicate email flash")
	}

	resp = s.post(t, c, "/register", url.Values{"email": {"not-an-email"}, "password": {""}})
	expectRedirect(t, resp, "/register")
	_, body = s.get(t, c, "/register")
	if !strings.Contains(body, "Please enter a valid email and password.") {
		t.Error("expected invalid input flash")
	}
}

func TestIntegration_RegisterPasswordTooLong(t *testing.T) {
	s := newTestServer(t, 100)
	c := s.client(t)

	long := strings.Repeat("p", domain.MaxPasswordBytes+8)
	resp := s.post(t, c, "/register", url.Values{"email": {"long@example.com"}, "password": {long}})
	expectRedirect(t, resp, "/register")

	_, body := s.get(t, c, "/register")
	if !strings.Contains(body, "Password is too long.") {
		t.Error("expected password length flash")
	}
	if _, err := s.db.Users().GetByEmail(context.Background(), "long@example.com"); err == nil {
		t.Fatal("user should not be created")
	}
}

func TestIntegration_WrongPassword(t *testing.T) {
	s := newTestServer(t, 100)
	c := s.client(t)
	s.signIn(t, c, "wrong@example.com")

	resp := s.post(t, c, "/login", url.Values{"email": {"wrong@example.com"}, "password": {"nope"}})
	expectRedirect(t, resp, "/login")

	_, body := s.get(t, c, "/login")
	if !strings.Contains(body, "Invalid email or password.") {
		t.Error("expected invalid credentials flash")
	}
}

func TestIntegration_EmptyTitleRejected(t *testing.T) {
	s := newTestServer(t, 100)
	c := s.client(t)
	s.signIn(t, c, "empty@example.com")

	resp := s.post(t, c, "/dashboard", url.Values{"title": {"   "}})
	expectRedirect(t, resp, "/dashboard")

	_, body := s.get(t, c, "/dashboard")
	if !strings.Contains(body, "Please enter a task.") {
		t.Error("expected empty title flash")
	}
	if n := len(s.userTasks(t, "empty@example.com")); n != 0 {
		t.Fatalf("expected no tasks, got %d", n)
	}

	resp = s.post(t, c, "/dashboard", url.Values{"title": {strings.Repeat("x", domain.MaxTitleLength+1)}})
	expectRedirect(t, resp, "/dashboard")
	_, body = s.get(t, c, "/dashboard")
	if !strings.Contains(body, "Task title is too long.") {
		t.Error("expected too-long flash")
	}
}

func TestIntegration_FlashShownOnce(t *testing.T) {
	s := newTestServer(t, 100)
	c := s.client(t)

	resp := s.post(t, c, "/register", url.Values{"email": {"once@example.com"}, "password": {"password123"}})
	expectRedirect(t, resp, "/login")

	_, body := s.get(t, c, "/login")
	if !strings.Contains(body, "Account created! Please log in.") {
		t.Fatal("expected success flash on first view")
	}
	_, body = s.get(t, c, "/login")
	if strings.Contains(body, "Account created!") {
		t.Fatal("flash should be consumed after first view")
	}
}

func TestIntegration_LoginRateLimited(t *testing.T) {
	s := newTestServer(t, 2)
	c := s.client(t)
	creds := url.Values{"email": {"rl@example.com"}, "password": {"bad"}}

	for range 2 {
		resp := s.post(t, c, "/login", creds)
		expectRedirect(t, resp, "/login")
	}
	resp := s.post(t, c, "/login", creds)
	if resp.StatusCode != http.StatusTooManyRequests {
		t.Fatalf("expected 429, got %d", resp.StatusCode)
	}
	if resp.Header.Get("Retry-After") == "" {
		t.Error("expected Retry-After header")
	}
}

func TestIntegration_Healthz(t *testing.T) {
	s := newTestServer(t, 100)
	resp, body := s.get(t, s.client(t), "/healthz")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	if !strings.Contains(body, `"status":"ok"`) {
		t.Fatalf("unexpected body %q", body)
	}
	if resp.Header.Get("X-Content-Type-Options") != "nosniff" {
		t.Error("expected security headers on every response")
	}
}
