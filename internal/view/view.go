// Package view holds the templ components for every page and the Datastar
// fragments the admin dashboard streams. Text is translated with i18n.T
// against the request context.
package view

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"

	"github.com/a-h/templ"
	"github.com/tinggo/tinggo/internal/domain"
)

// Chrome is the per-request state every full page shows.
type Chrome struct {
	User  *domain.User
	Flash string
	Lang  domain.Language
	Path  string
}

// Form carries submitted values and their errors back into a page.
type Form struct {
	Values map[string]string
	Errors map[string]string
	// Error is a message not tied to a single field.
	Error string
}

// Value returns the submitted value of field.
func (f Form) Value(field string) string { return f.Values[field] }

// FieldError returns the error shown under field.
func (f Form) FieldError(field string) string { return f.Errors[field] }

// Posted reports whether the form carries submitted values.
func (f Form) Posted() bool { return f.Values != nil }

// ValueOr returns the submitted value of field once the form was posted,
// even when empty, and stored otherwise.
func (f Form) ValueOr(field, stored string) string {
	if f.Posted() {
		return f.Values[field]
	}
	return stored
}

// Checked is ValueOr for checkboxes, which post "on" only when ticked.
func (f Form) Checked(field string, stored bool) bool {
	if f.Posted() {
		return f.Values[field] == "on"
	}
	return stored
}

func initial(name string) string {
	r := []rune(strings.TrimSpace(name))
	if len(r) == 0 {
		return "?"
	}
	return string(unicode.ToUpper(r[0]))
}

func languageURL(path string, l domain.Language) templ.SafeURL {
	return templ.URL(path + "?lang=" + string(l))
}

func avatarURL(id int64) string {
	return "/avatars/" + strconv.FormatInt(id, 10)
}

func loadMoreAction(next int) string {
	return fmt.Sprintf("@get('/accounts/admin-dashboard/users?offset=%d')", next)
}
