package supabase_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tinggo/tinggo/internal/domain"
	"github.com/tinggo/tinggo/internal/supabase"
)

// fakeProject emulates the GoTrue and PostgREST endpoints the client uses.
type fakeProject struct {
	mu       sync.Mutex
	userID   uuid.UUID
	rows     []domain.MirrorRecord
	inserts  int
	updates  int
	failRest bool
}

func (p *fakeProject) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	p.mu.Lock()
	defer p.mu.Unlock()

	switch {
	case r.URL.Path == "/auth/v1/signup":
		var req struct {
			Email    string         `json:"email"`
			Password string         `json:"password"`
			Data     map[string]any `json:"data"`
		}
		_ = json.NewDecoder(r.Body).Decode(&req)
		if req.Email == "taken@example.com" {
			writeJSON(w, http.StatusUnprocessableEntity, map[string]any{"msg": "User already registered"})
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"id": p.userID, "email": req.Email, "user_metadata": req.Data})
	case r.URL.Path == "/auth/v1/token":
		var req struct {
			Password string `json:"password"`
		}
		_ = json.NewDecoder(r.Body).Decode(&req)
		if req.Password != "correct-horse" {
			writeJSON(w, http.StatusBadRequest, map[string]any{"error": "invalid_grant"})
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{
			"access_token": "remote-token",
			"token_type":   "bearer",
			"expires_in":   3600,
			"user":         map[string]any{"id": p.userID},
		})
	case r.URL.Path == "/auth/v1/recover":
		writeJSON(w, http.StatusOK, map[string]any{})
	case r.URL.Path == "/auth/v1/user":
		if r.Header.Get("Authorization") != "Bearer remote-token" {
			writeJSON(w, http.StatusUnauthorized, map[string]any{"msg": "invalid token"})
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"id": p.userID})
	case strings.HasPrefix(r.URL.Path, "/rest/v1/"+supabase.ProfileTable):
		p.serveProfiles(w, r)
	default:
		http.NotFound(w, r)
	}
}

func (p *fakeProject) serveProfiles(w http.ResponseWriter, r *http.Request) {
	if p.failRest {
		writeJSON(w, http.StatusInternalServerError, map[string]any{"message": "boom"})
		return
	}
	match := func(rec domain.MirrorRecord) bool {
		q := r.URL.Query()
		if v := q.Get("user_id"); v != "" {
			return "eq."+strconv.FormatInt(rec.UserID, 10) == v
		}
		if v := q.Get("email"); v != "" {
			return "eq."+rec.Email == v
		}
		return true
	}

	switch r.Method {
	case http.MethodGet, http.MethodHead:
		out := []domain.MirrorRecord{}
		for _, rec := range p.rows {
			if match(rec) {
				out = append(out, rec)
			}
		}
		writeJSON(w, http.StatusOK, out)
	case http.MethodPost:
		var rec domain.MirrorRecord
		_ = json.NewDecoder(r.Body).Decode(&rec)
		p.rows = append(p.rows, rec)
		p.inserts++
		writeJSON(w, http.StatusCreated, []domain.MirrorRecord{rec})
	case http.MethodPatch:
		var rec domain.MirrorRecord
		_ = json.NewDecoder(r.Body).Decode(&rec)
		p.updates++
		for i := range p.rows {
			if match(p.rows[i]) {
				p.rows[i] = rec
			}
		}
		writeJSON(w, http.StatusOK, []domain.MirrorRecord{rec})
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func newClient(t *testing.T) (*supabase.Client, *fakeProject) {
	t.Helper()
	project := &fakeProject{userID: uuid.New()}
	srv := httptest.NewServer(project)
	t.Cleanup(srv.Close)

	client, err := supabase.New(srv.URL, "anon-key")
	require.NoError(t, err)
	return client, project
}

func TestSignUp(t *testing.T) {
	client, project := newClient(t)
	ctx := context.Background()

	id := client.SignUp(ctx, "ana@example.com", "correct-horse", map[string]any{"role": "host"})
	require.NotNil(t, id)
	assert.Equal(t, project.userID, id.ID)
	assert.Equal(t, "ana@example.com", id.Email)

	assert.Nil(t, client.SignUp(ctx, "taken@example.com", "correct-horse", nil))
}

func TestSignIn(t *testing.T) {
	client, project := newClient(t)
	ctx := context.Background()

	id := client.SignIn(ctx, "ana@example.com", "correct-horse")
	require.NotNil(t, id)
	assert.Equal(t, project.userID, id.ID)
	assert.Equal(t, "remote-token", id.AccessToken)

	assert.Nil(t, client.SignIn(ctx, "ana@example.com", "wrong"))
}

func TestPasswordOperations(t *testing.T) {
	client, _ := newClient(t)
	ctx := context.Background()

	assert.True(t, client.ResetPasswordEmail(ctx, "ana@example.com"))
	assert.True(t, client.UpdatePassword(ctx, "remote-token", "new-password"))
	assert.False(t, client.UpdatePassword(ctx, "stale-token", "new-password"))
}

func TestUpsertProfile_InsertThenUpdate(t *testing.T) {
	client, project := newClient(t)
	ctx := context.Background()

	rec := domain.MirrorRecord{UserID: 7, Email: "ana@example.com", FirstName: "Ana", Role: "host", Language: "en"}
	saved := client.UpsertProfile(ctx, rec)
	require.NotNil(t, saved)
	assert.Equal(t, int64(7), saved.UserID)

	rec.City = "Jacmel"
	saved = client.UpsertProfile(ctx, rec)
	require.NotNil(t, saved)
	assert.Equal(t, "Jacmel", saved.City)

	assert.Len(t, project.rows, 1)
	assert.Equal(t, 1, project.inserts)
	assert.Equal(t, 1, project.updates)

	got := client.GetProfile(ctx, 7)
	require.NotNil(t, got)
	assert.Equal(t, "Jacmel", got.City)

	byEmail := client.GetProfileByEmail(ctx, "ana@example.com")
	require.NotNil(t, byEmail)
	assert.Equal(t, int64(7), byEmail.UserID)

	assert.Nil(t, client.GetProfile(ctx, 8))
}

func TestFailuresCollapseToNil(t *testing.T) {
	client, project := newClient(t)
	project.failRest = true
	ctx := context.Background()

	assert.Nil(t, client.UpsertProfile(ctx, domain.MirrorRecord{UserID: 1}))
	assert.Nil(t, client.GetProfile(ctx, 1))
	assert.False(t, client.Ping(ctx))

	project.failRest = false
	assert.True(t, client.Ping(ctx))
}
