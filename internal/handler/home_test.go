package handler_test

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestHandleHome(t *testing.T) {
	app := newTestApp(t)

	srv := httptest.NewServer(app.handler())
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/")
	if err != nil {
		t.Fatalf("GET /: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	if ct := resp.Header.Get("Content-Type"); !strings.HasPrefix(ct, "text/html") {
		t.Fatalf("expected HTML, got %s", ct)
	}
	body, _ := io.ReadAll(resp.Body)
	if !strings.Contains(string(body), "/accounts/register") {
		t.Fatal("expected sign-up link for anonymous visitors")
	}
}

func TestHandleHome_UnknownPath(t *testing.T) {
	app := newTestApp(t)

	srv := httptest.NewServer(app.handler())
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/no-such-page")
	if err != nil {
		t.Fatalf("GET: %v", err)
	}
	resp.Body.Close()

	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", resp.StatusCode)
	}
}

func TestDisallowedHost(t *testing.T) {
	app := newTestApp(t)

	req := httptest.NewRequest(http.MethodGet, "http://attacker.test/", nil)
	w := httptest.NewRecorder()
	app.handler().ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
}
