package domain

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Role controls which dashboard a user lands on and which dashboards they may open.
type Role string

const (
	RoleAdmin       Role = "admin"
	RoleOrganizer   Role = "organizer"
	RoleParticipant Role = "participant"
	RoleVendor      Role = "vendor"
	RoleHost        Role = "host"
)

// Roles lists every role in display order.
func Roles() []Role {
	return []Role{RoleAdmin, RoleOrganizer, RoleParticipant, RoleVendor, RoleHost}
}

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleOrganizer, RoleParticipant, RoleVendor, RoleHost:
		return true
	}
	return false
}

// Label returns the human-readable role name.
func (r Role) Label() string {
	switch r {
	case RoleAdmin:
		return "Administrator"
	case RoleOrganizer:
		return "Event Organizer"
	case RoleParticipant:
		return "Event Participant"
	case RoleVendor:
		return "Vendor/Partner"
	case RoleHost:
		return "Experience Host"
	}
	return string(r)
}

// Language is a user's preferred interface language.
type Language string

const (
	LanguageEnglish Language = "en"
	LanguageSpanish Language = "es"
	LanguageHaitian Language = "ht"
)

// Languages lists the supported languages in display order.
func Languages() []Language {
	return []Language{LanguageEnglish, LanguageSpanish, LanguageHaitian}
}

func (l Language) Valid() bool {
	switch l {
	case LanguageEnglish, LanguageSpanish, LanguageHaitian:
		return true
	}
	return false
}

func (l Language) Label() string {
	switch l {
	case LanguageEnglish:
		return "English"
	case LanguageSpanish:
		return "Español"
	case LanguageHaitian:
		return "Kreyòl Ayisyen"
	}
	return string(l)
}

// User is the canonical account record. Email is the login handle.
type User struct {
	ID           int64
	AuthID       uuid.UUID // identity id assigned by the hosted auth service
	Email        string
	FirstName    string
	LastName     string
	Phone        string
	Bio          string
	Avatar       string // AvatarStore key, empty when no avatar is set
	Country      string
	City         string
	Language     Language
	Role         Role
	IsVerified   bool
	IsActive     bool
	PasswordHash string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// FullName returns "first last" without surrounding whitespace.
func (u *User) FullName() string {
	return strings.TrimSpace(u.FirstName + " " + u.LastName)
}

// HasRole reports whether the user holds role r.
func (u *User) HasRole(r Role) bool {
	return u.Role == r
}

// ApplyDefaults fills the fields a freshly created account must carry.
func (u *User) ApplyDefaults() {
	if u.Role == "" {
		u.Role = RoleParticipant
	}
	if u.Language == "" {
		u.Language = LanguageEnglish
	}
}

// NormalizeEmail trims and lower-cases the address. Emails are compared
// case-insensitively everywhere, matching the hosted identity service.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// UserRepository defines persistence operations for users.
type UserRepository interface {
	Create(ctx context.Context, user *User) error
	GetByID(ctx context.Context, id int64) (*User, error)
	GetByEmail(ctx context.Context, email string) (*User, error)
	// Update writes every mutable profile field and bumps UpdatedAt.
	Update(ctx context.Context, user *User) error
	UpdatePassword(ctx context.Context, id int64, passwordHash string) error
	// CreateWithProfile inserts user and profile atomically and links them.
	CreateWithProfile(ctx context.Context, user *User, profile *UserProfile) error
	// UpdateWithProfile writes user and profile atomically.
	UpdateWithProfile(ctx context.Context, user *User, profile *UserProfile) error
	// ListRecent returns users newest first.
	ListRecent(ctx context.Context, limit, offset int) ([]User, error)
	Count(ctx context.Context) (int, error)
	CountByRole(ctx context.Context, role Role) (int, error)
}
