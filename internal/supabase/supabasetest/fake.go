// Package supabasetest provides an in-memory stand-in for the Supabase client.
package supabasetest

import (
	"context"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/tinggo/tinggo/internal/domain"
)

var (
	_ domain.IdentityProvider = (*Fake)(nil)
	_ domain.ProfileMirror    = (*Fake)(nil)
)

// Fake keeps identities and mirror rows in memory. Identities are keyed by
// lower-cased email, as the hosted service treats addresses. The Fail*
// switches make the matching operation report failure the way the real
// client does.
type Fake struct {
	FailSignUp bool
	FailSignIn bool
	FailReset  bool
	FailUpdate bool
	FailMirror bool

	mu         sync.Mutex
	identities map[string]*identity
	tokens     map[string]string
	profiles   map[int64]domain.MirrorRecord
	calls      map[string]int
}

type identity struct {
	id         uuid.UUID
	password   string
	attributes map[string]any
}

// New returns an empty Fake.
func New() *Fake {
	return &Fake{
		identities: make(map[string]*identity),
		tokens:     make(map[string]string),
		profiles:   make(map[int64]domain.MirrorRecord),
		calls:      make(map[string]int),
	}
}

// Calls reports how many times op was invoked.
func (f *Fake) Calls(op string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[op]
}

// Attributes returns the metadata stored at sign-up for email.
func (f *Fake) Attributes(email string) map[string]any {
	f.mu.Lock()
	defer f.mu.Unlock()
	if id, ok := f.identities[emailKey(email)]; ok {
		return id.attributes
	}
	return nil
}

// Profiles returns a copy of the mirror table.
func (f *Fake) Profiles() map[int64]domain.MirrorRecord {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make(map[int64]domain.MirrorRecord, len(f.profiles))
	for k, v := range f.profiles {
		out[k] = v
	}
	return out
}

// AddIdentity registers an identity directly, bypassing SignUp.
func (f *Fake) AddIdentity(email, password string) uuid.UUID {
	f.mu.Lock()
	defer f.mu.Unlock()
	id := uuid.New()
	f.identities[emailKey(email)] = &identity{id: id, password: password}
	return id
}

func (f *Fake) SignUp(_ context.Context, email, password string, attributes map[string]any) *domain.RemoteIdentity {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls["sign_up"]++
	if f.FailSignUp {
		return nil
	}
	if _, exists := f.identities[emailKey(email)]; exists {
		return nil
	}
	id := &identity{id: uuid.New(), password: password, attributes: attributes}
	f.identities[emailKey(email)] = id
	return &domain.RemoteIdentity{ID: id.id, Email: email}
}

func (f *Fake) SignIn(_ context.Context, email, password string) *domain.RemoteIdentity {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls["sign_in"]++
	if f.FailSignIn {
		return nil
	}
	id, ok := f.identities[emailKey(email)]
	if !ok || id.password != password {
		return nil
	}
	token := "token-" + uuid.NewString()
	f.tokens[token] = emailKey(email)
	return &domain.RemoteIdentity{ID: id.id, Email: email, AccessToken: token}
}

func (f *Fake) ResetPasswordEmail(_ context.Context, _ string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls["reset_password_email"]++
	return !f.FailReset
}

func (f *Fake) UpdatePassword(_ context.Context, accessToken, newPassword string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls["update_password"]++
	if f.FailUpdate {
		return false
	}
	email, ok := f.tokens[accessToken]
	if !ok {
		return false
	}
	f.identities[email].password = newPassword
	return true
}

func (f *Fake) UpsertProfile(_ context.Context, record domain.MirrorRecord) *domain.MirrorRecord {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls["upsert_profile"]++
	if f.FailMirror {
		return nil
	}
	f.profiles[record.UserID] = record
	return &record
}

func (f *Fake) GetProfile(_ context.Context, userID int64) *domain.MirrorRecord {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls["get_profile"]++
	if f.FailMirror {
		return nil
	}
	rec, ok := f.profiles[userID]
	if !ok {
		return nil
	}
	return &rec
}

func emailKey(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
