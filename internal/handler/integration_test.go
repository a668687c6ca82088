package handler_test

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/tinggo/tinggo/internal/domain"
	"github.com/tinggo/tinggo/internal/service"
)

// pngAvatar is enough of a PNG for content sniffing.
var pngAvatar = append([]byte("\x89PNG\r\n\x1a\n"), bytes.Repeat([]byte{0}, 64)...)

func newTestClient(t *testing.T) *http.Client {
	t.Helper()
	jar, err := cookiejar.New(nil)
	if err != nil {
		t.Fatalf("create cookie jar: %v", err)
	}
	return &http.Client{
		Jar: jar,
		CheckRedirect: func(req *http.Request, via []*http.Request) error {
			return http.ErrUseLastResponse // don't follow redirects automatically
		},
	}
}

func registrationForm(email, role string) url.Values {
	return url.Values{
		"email":      {email},
		"first_name": {"Ana"},
		"last_name":  {"Pierre"},
		"role":       {role},
		"password1":  {"secret1"},
		"password2":  {"secret1"},
	}
}

func expectRedirect(t *testing.T, resp *http.Response, to string) {
	t.Helper()
	resp.Body.Close()
	if resp.StatusCode != http.StatusSeeOther {
		t.Fatalf("expected 303, got %d", resp.StatusCode)
	}
	if loc := resp.Header.Get("Location"); loc != to {
		t.Fatalf("expected redirect to %s, got %s", to, loc)
	}
}

func readBody(t *testing.T, resp *http.Response) string {
	t.Helper()
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	return string(body)
}

func get(t *testing.T, client *http.Client, u string) *http.Response {
	t.Helper()
	resp, err := client.Get(u)
	if err != nil {
		t.Fatalf("GET %s: %v", u, err)
	}
	return resp
}

func post(t *testing.T, client *http.Client, u string, form url.Values) *http.Response {
	t.Helper()
	resp, err := client.PostForm(u, form)
	if err != nil {
		t.Fatalf("POST %s: %v", u, err)
	}
	return resp
}

func TestIntegration_RegisterLogoutLogin(t *testing.T) {
	app := newTestApp(t)
	srv := httptest.NewServer(app.handler())
	defer srv.Close()
	client := newTestClient(t)

	resp := get(t, client, srv.URL+"/accounts/register")
	if body := readBody(t, resp); resp.StatusCode != http.StatusOK || !strings.Contains(body, `name="password2"`) {
		t.Fatalf("register page: status %d", resp.StatusCode)
	}

	// 1. Register lands on the role dashboard with a flash.
	expectRedirect(t, post(t, client, srv.URL+"/accounts/register", registrationForm("integ@example.com", "organizer")),
		"/accounts/organizer-dashboard")

	resp = get(t, client, srv.URL+"/accounts/organizer-dashboard")
	body := readBody(t, resp)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("dashboard: expected 200, got %d", resp.StatusCode)
	}
	if !strings.Contains(body, "Registration successful! Welcome to TingGo.") {
		t.Fatal("expected registration flash on dashboard")
	}
	if app.remote.Calls("sign_up") != 1 {
		t.Fatalf("expected one remote sign-up, got %d", app.remote.Calls("sign_up"))
	}

	// 2. The generic dashboard dispatches by role.
	expectRedirect(t, get(t, client, srv.URL+"/accounts/dashboard"), "/accounts/organizer-dashboard")

	// 3. Someone else's dashboard is refused.
	expectRedirect(t, get(t, client, srv.URL+"/accounts/vendor-dashboard"), "/")
	if body := readBody(t, get(t, client, srv.URL+"/")); !strings.Contains(body, "Access denied. Vendor/Partner privileges required.") {
		t.Fatal("expected access denied flash")
	}

	// 4. Logout, then protected pages redirect to login.
	expectRedirect(t, post(t, client, srv.URL+"/accounts/logout", nil), "/")
	expectRedirect(t, get(t, client, srv.URL+"/accounts/profile"), "/accounts/login?next=%2Faccounts%2Fprofile")

	// 5. Login honours next.
	expectRedirect(t, post(t, client, srv.URL+"/accounts/login", url.Values{
		"email":    {"integ@example.com"},
		"password": {"secret1"},
		"next":     {"/accounts/profile"},
	}), "/accounts/profile")

	resp = get(t, client, srv.URL+"/accounts/profile")
	body = readBody(t, resp)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("profile: expected 200, got %d", resp.StatusCode)
	}
	if !strings.Contains(body, "Welcome back, Ana!") {
		t.Fatal("expected welcome back flash")
	}
}

func TestIntegration_LoginIgnoresOffsiteNext(t *testing.T) {
	app := newTestApp(t)
	app.register(t, "next@example.com", domain.RoleHost)
	srv := httptest.NewServer(app.handler())
	defer srv.Close()

	expectRedirect(t, post(t, newTestClient(t), srv.URL+"/accounts/login", url.Values{
		"email":    {"next@example.com"},
		"password": {"secret1"},
		"next":     {"//evil.test/"},
	}), "/accounts/host-dashboard")
}

func TestIntegration_RegisterErrors(t *testing.T) {
	app := newTestApp(t)
	app.register(t, "taken@example.com", domain.RoleParticipant)
	srv := httptest.NewServer(app.handler())
	defer srv.Close()
	client := newTestClient(t)

	mismatch := registrationForm("new@example.com", "vendor")
	mismatch.Set("password2", "other12")
	resp := post(t, client, srv.URL+"/accounts/register", mismatch)
	body := readBody(t, resp)
	if resp.StatusCode != http.StatusUnprocessableEntity {
		t.Fatalf("mismatch: expected 422, got %d", resp.StatusCode)
	}
	if !strings.Contains(body, `value="new@example.com"`) {
		t.Fatal("expected submitted email to be kept")
	}

	resp = post(t, client, srv.URL+"/accounts/register", registrationForm("TAKEN@example.com", "vendor"))
	body = readBody(t, resp)
	if resp.StatusCode != http.StatusConflict {
		t.Fatalf("duplicate: expected 409, got %d", resp.StatusCode)
	}
	if !strings.Contains(body, "An account with this email already exists.") {
		t.Fatal("expected duplicate email message")
	}

	app.remote.FailSignUp = true
	resp = post(t, client, srv.URL+"/accounts/register", registrationForm("remote@example.com", "vendor"))
	readBody(t, resp)
	if resp.StatusCode != http.StatusBadGateway {
		t.Fatalf("remote failure: expected 502, got %d", resp.StatusCode)
	}
	if n, _ := app.db.Users().Count(context.Background()); n != 1 {
		t.Fatalf("expected no local user after remote failure, have %d users", n)
	}
}

func TestIntegration_LoginErrors(t *testing.T) {
	app := newTestApp(t)
	app.register(t, "login@example.com", domain.RoleParticipant)
	srv := httptest.NewServer(app.handler())
	defer srv.Close()
	client := newTestClient(t)

	tests := []struct {
		name     string
		email    string
		password string
		want     int
	}{
		{"wrong password", "login@example.com", "nope123", http.StatusUnauthorized},
		{"unknown email", "ghost@example.com", "secret1", http.StatusUnauthorized},
		{"blank fields", "", "", http.StatusUnprocessableEntity},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := post(t, client, srv.URL+"/accounts/login", url.Values{
				"email":    {tt.email},
				"password": {tt.password},
			})
			readBody(t, resp)
			if resp.StatusCode != tt.want {
				t.Fatalf("expected %d, got %d", tt.want, resp.StatusCode)
			}
		})
	}
}

func TestIntegration_PasswordReset(t *testing.T) {
	app := newTestApp(t)
	srv := httptest.NewServer(app.handler())
	defer srv.Close()
	client := newTestClient(t)

	expectRedirect(t, post(t, client, srv.URL+"/accounts/password-reset", url.Values{"email": {"any@example.com"}}),
		"/accounts/login")
	if app.remote.Calls("reset_password_email") != 1 {
		t.Fatal("expected the reset email to be requested")
	}

	resp := post(t, client, srv.URL+"/accounts/password-reset", url.Values{"email": {""}})
	readBody(t, resp)
	if resp.StatusCode != http.StatusUnprocessableEntity {
		t.Fatalf("blank email: expected 422, got %d", resp.StatusCode)
	}

	app.remote.FailReset = true
	resp = post(t, client, srv.URL+"/accounts/password-reset", url.Values{"email": {"any@example.com"}})
	readBody(t, resp)
	if resp.StatusCode != http.StatusBadGateway {
		t.Fatalf("remote failure: expected 502, got %d", resp.StatusCode)
	}
}

func TestIntegration_PasswordChange(t *testing.T) {
	app := newTestApp(t)
	srv := httptest.NewServer(app.handler())
	defer srv.Close()
	client := newTestClient(t)

	expectRedirect(t, post(t, client, srv.URL+"/accounts/register", registrationForm("pw@example.com", "participant")),
		"/accounts/participant-dashboard")

	resp := post(t, client, srv.URL+"/accounts/password-change", url.Values{
		"old_password":  {"wrong12"},
		"new_password1": {"newpass1"},
		"new_password2": {"newpass1"},
	})
	readBody(t, resp)
	if resp.StatusCode != http.StatusUnprocessableEntity {
		t.Fatalf("wrong current password: expected 422, got %d", resp.StatusCode)
	}

	expectRedirect(t, post(t, client, srv.URL+"/accounts/password-change", url.Values{
		"old_password":  {"secret1"},
		"new_password1": {"newpass1"},
		"new_password2": {"newpass1"},
	}), "/accounts/profile")

	expectRedirect(t, post(t, client, srv.URL+"/accounts/logout", nil), "/")

	resp = post(t, client, srv.URL+"/accounts/login", url.Values{"email": {"pw@example.com"}, "password": {"secret1"}})
	readBody(t, resp)
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("old password: expected 401, got %d", resp.StatusCode)
	}
	expectRedirect(t, post(t, client, srv.URL+"/accounts/login", url.Values{"email": {"pw@example.com"}, "password": {"newpass1"}}),
		"/accounts/participant-dashboard")
}

func profileForm(t *testing.T, fields map[string]string, avatar []byte) (io.Reader, string) {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for k, v := range fields {
		if err := mw.WriteField(k, v); err != nil {
			t.Fatalf("write field: %v", err)
		}
	}
	if avatar != nil {
		fw, err := mw.CreateFormFile("avatar", "me.png")
		if err != nil {
			t.Fatalf("create form file: %v", err)
		}
		fw.Write(avatar)
	}
	if err := mw.Close(); err != nil {
		t.Fatalf("close multipart: %v", err)
	}
	return &buf, mw.FormDataContentType()
}

func TestIntegration_ProfileUpdateWithAvatar(t *testing.T) {
	app := newTestApp(t)
	srv := httptest.NewServer(app.handler())
	defer srv.Close()
	client := newTestClient(t)

	expectRedirect(t, post(t, client, srv.URL+"/accounts/register", registrationForm("profile@example.com", "vendor")),
		"/accounts/vendor-dashboard")
	user, err := app.db.Users().GetByEmail(context.Background(), "profile@example.com")
	if err != nil {
		t.Fatalf("GetByEmail: %v", err)
	}

	fields := map[string]string{
		"first_name":    "Marie",
		"last_name":     "Joseph",
		"language":      "ht",
		"city":          "Jacmel",
		"website":       "https://example.com",
		"business_name": "Atelier Jacmel",
	}
	body, contentType := profileForm(t, fields, pngAvatar)
	resp, err := client.Post(srv.URL+"/accounts/profile", contentType, body)
	if err != nil {
		t.Fatalf("POST /accounts/profile: %v", err)
	}
	expectRedirect(t, resp, "/accounts/profile")

	page := readBody(t, get(t, client, srv.URL+"/accounts/profile"))
	if !strings.Contains(page, "Atelier Jacmel") {
		t.Fatal("expected business name on profile page")
	}
	if !strings.Contains(page, fmt.Sprintf(`src="/avatars/%d"`, user.ID)) {
		t.Fatal("expected avatar image on profile page")
	}

	resp = get(t, client, fmt.Sprintf("%s/avatars/%d", srv.URL, user.ID))
	data := readBody(t, resp)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("avatar: expected 200, got %d", resp.StatusCode)
	}
	if ct := resp.Header.Get("Content-Type"); ct != "image/png" {
		t.Fatalf("expected image/png, got %s", ct)
	}
	if data != string(pngAvatar) {
		t.Fatal("avatar bytes differ from upload")
	}

	mirrored, ok := app.remote.Profiles()[user.ID]
	if !ok {
		t.Fatal("expected profile mirrored after update")
	}
	if mirrored.FirstName != "Marie" || mirrored.Language != "ht" {
		t.Fatalf("unexpected mirror record %+v", mirrored)
	}

	// A rejected form shows what was submitted, including cleared fields.
	fields["business_name"] = ""
	fields["website"] = "not a url"
	body, contentType = profileForm(t, fields, nil)
	resp, err = client.Post(srv.URL+"/accounts/profile", contentType, body)
	if err != nil {
		t.Fatalf("POST /accounts/profile: %v", err)
	}
	page = readBody(t, resp)
	if resp.StatusCode != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %d", resp.StatusCode)
	}
	if !strings.Contains(page, `name="business_name" value=""`) {
		t.Fatal("expected cleared business name to stay empty")
	}
	if strings.Contains(page, "Atelier Jacmel") {
		t.Fatal("stored business name refilled a cleared field")
	}
}

func TestIntegration_ProfileUpdateRejectsBadInput(t *testing.T) {
	app := newTestApp(t)
	srv := httptest.NewServer(app.handler())
	defer srv.Close()
	client := newTestClient(t)

	expectRedirect(t, post(t, client, srv.URL+"/accounts/register", registrationForm("bad@example.com", "host")),
		"/accounts/host-dashboard")

	tests := []struct {
		name   string
		fields map[string]string
		avatar []byte
		want   string
	}{
		{
			name:   "invalid website",
			fields: map[string]string{"first_name": "Ana", "last_name": "Pierre", "language": "en", "website": "not a url"},
		},
		{
			name:   "avatar is not an image",
			fields: map[string]string{"first_name": "Ana", "last_name": "Pierre", "language": "en"},
			avatar: []byte("plain text pretending to be a picture"),
			want:   "Upload a JPEG or PNG image.",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			body, contentType := profileForm(t, tt.fields, tt.avatar)
			resp, err := client.Post(srv.URL+"/accounts/profile", contentType, body)
			if err != nil {
				t.Fatalf("POST: %v", err)
			}
			page := readBody(t, resp)
			if resp.StatusCode != http.StatusUnprocessableEntity {
				t.Fatalf("expected 422, got %d", resp.StatusCode)
			}
			if tt.want != "" && !strings.Contains(page, tt.want) {
				t.Fatalf("expected %q in page", tt.want)
			}
		})
	}
}

func seedUsers(t *testing.T, app *testApp, n int) {
	t.Helper()
	for i := range n {
		u := &domain.User{
			AuthID:       uuid.New(),
			Email:        fmt.Sprintf("user%02d@example.com", i),
			FirstName:    "User",
			LastName:     fmt.Sprintf("%02d", i),
			Role:         domain.RoleParticipant,
			IsActive:     true,
			PasswordHash: "x",
		}
		if err := app.db.Users().Create(context.Background(), u); err != nil {
			t.Fatalf("Create: %v", err)
		}
	}
}

func TestIntegration_AdminDashboard(t *testing.T) {
	app := newTestApp(t)
	seedUsers(t, app, 12)
	_, token := app.register(t, "admin@example.com", domain.RoleAdmin)
	h := app.handler()

	req := httptest.NewRequest(http.MethodGet, "http://127.0.0.1/accounts/admin-dashboard", nil)
	req.AddCookie(&http.Cookie{Name: "auth_token", Value: token})
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	page := w.Body.String()
	if !strings.Contains(page, `<dd id="stat-total">13</dd>`) {
		t.Fatal("expected 13 users in total")
	}
	if !strings.Contains(page, `<dd id="stat-participants">12</dd>`) {
		t.Fatal("expected 12 participants")
	}
	if !strings.Contains(page, "admin@example.com") {
		t.Fatal("expected newest user in recent list")
	}
	if !strings.Contains(page, "offset=10") {
		t.Fatal("expected a load more control")
	}

	// Load more streams the remaining rows.
	req = httptest.NewRequest(http.MethodGet, "http://127.0.0.1/accounts/admin-dashboard/users?offset=10", nil)
	req.AddCookie(&http.Cookie{Name: "auth_token", Value: token})
	w = httptest.NewRecorder()
	h.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("load more: expected 200, got %d", w.Code)
	}
	if ct := w.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/event-stream") {
		t.Fatalf("expected event stream, got %s", ct)
	}
	events := w.Body.String()
	for _, want := range []string{"datastar-patch-elements", "admin-users-list", "user00@example.com", "admin-load-more"} {
		if !strings.Contains(events, want) {
			t.Fatalf("expected %q in SSE stream", want)
		}
	}
	if strings.Contains(events, "admin@example.com") {
		t.Fatal("first page users should not be streamed again")
	}
}

func TestIntegration_AdminDashboardDenied(t *testing.T) {
	app := newTestApp(t)
	_, token := app.register(t, "organizer@example.com", domain.RoleOrganizer)
	h := app.handler()

	req := httptest.NewRequest(http.MethodGet, "http://127.0.0.1/accounts/admin-dashboard", nil)
	req.AddCookie(&http.Cookie{Name: "auth_token", Value: token})
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	if w.Code != http.StatusSeeOther || w.Header().Get("Location") != "/" {
		t.Fatalf("expected redirect home, got %d %s", w.Code, w.Header().Get("Location"))
	}

	req = httptest.NewRequest(http.MethodGet, "http://127.0.0.1/accounts/admin-dashboard/users", nil)
	req.AddCookie(&http.Cookie{Name: "auth_token", Value: token})
	w = httptest.NewRecorder()
	h.ServeHTTP(w, req)
	if w.Code != http.StatusForbidden {
		t.Fatalf("load more: expected 403, got %d", w.Code)
	}
}

func TestIntegration_CredentialFormsRateLimited(t *testing.T) {
	app := newTestApp(t)
	app.svc.Limiter = service.PerMinute(2)
	srv := httptest.NewServer(app.handler())
	defer srv.Close()
	client := newTestClient(t)

	form := url.Values{"email": {"x@example.com"}, "password": {"wrong12"}}
	codes := make([]int, 0, 3)
	for range 3 {
		resp := post(t, client, srv.URL+"/accounts/login", form)
		readBody(t, resp)
		codes = append(codes, resp.StatusCode)
	}
	if codes[0] != http.StatusUnauthorized || codes[1] != http.StatusUnauthorized {
		t.Fatalf("expected first two attempts to reach the form, got %v", codes)
	}
	if codes[2] != http.StatusTooManyRequests {
		t.Fatalf("expected third attempt to be limited, got %v", codes)
	}

	// Pages stay reachable while the forms are throttled.
	resp := get(t, client, srv.URL+"/accounts/login")
	readBody(t, resp)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("login page: expected 200, got %d", resp.StatusCode)
	}
}
