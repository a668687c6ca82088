package view_test

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/a-h/templ"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tinggo/tinggo/internal/domain"
	"github.com/tinggo/tinggo/internal/i18n"
	"github.com/tinggo/tinggo/internal/service"
	"github.com/tinggo/tinggo/internal/view"
)

func renderString(t *testing.T, ctx context.Context, c templ.Component) string {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, c.Render(ctx, &buf))
	return buf.String()
}

func TestRegisterPage_ShowsErrorsAndValues(t *testing.T) {
	form := view.Form{
		Values: map[string]string{"email": "ana@example.com", "role": "vendor"},
		Errors: map[string]string{"password1": "Ensure this value has at least 6 characters."},
	}
	html := renderString(t, context.Background(), view.RegisterPage(view.Chrome{Lang: domain.LanguageEnglish, Path: "/accounts/register"}, form))

	assert.Contains(t, html, `value="ana@example.com"`)
	assert.Contains(t, html, `<option value="vendor" selected>`)
	assert.Contains(t, html, "Ensure this value has at least 6 characters.")
	assert.Contains(t, html, `href="/accounts/register?lang=es"`)
}

func TestLoginPage_Translated(t *testing.T) {
	ctx := i18n.WithLanguage(context.Background(), domain.LanguageSpanish)
	form := view.Form{Error: i18n.T(ctx, i18n.MsgInvalidCredentials)}
	html := renderString(t, ctx, view.LoginPage(view.Chrome{Lang: domain.LanguageSpanish}, form, "/accounts/profile"))

	assert.Contains(t, html, "Credenciales inválidas.")
	assert.Contains(t, html, `name="next" value="/accounts/profile"`)
	assert.Contains(t, html, `<html lang="es">`)
}

func TestLayout_FlashAndUser(t *testing.T) {
	user := &domain.User{ID: 3, FirstName: "Rose", Role: domain.RoleHost, Language: domain.LanguageEnglish}
	html := renderString(t, context.Background(), view.HomePage(view.Chrome{User: user, Flash: "Profile updated successfully!"}))

	assert.Contains(t, html, "Profile updated successfully!")
	assert.Contains(t, html, "Welcome back, Rose!")
	assert.Contains(t, html, `action="/accounts/logout"`)
}

func TestAdminFragments(t *testing.T) {
	users := []domain.User{{
		ID: 1, FirstName: "Jean", LastName: "Baptiste", Email: "jean@example.com",
		Role: domain.RoleVendor, CreatedAt: time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC),
	}}
	rows := renderString(t, context.Background(), view.AdminUsersFragment(users))
	assert.Contains(t, rows, "Jean Baptiste")
	assert.Contains(t, rows, "Vendor/Partner")

	more := renderString(t, context.Background(), view.AdminLoadMoreFragment(20, true))
	assert.Contains(t, more, `id="admin-load-more"`)
	assert.Contains(t, more, "offset=20")

	done := renderString(t, context.Background(), view.AdminLoadMoreFragment(20, false))
	assert.NotContains(t, done, "<button")
}

func TestAdminUsersFragment_InitialIsRuneSafe(t *testing.T) {
	users := []domain.User{
		{FirstName: "Élodie", Role: domain.RoleHost},
		{FirstName: "", Role: domain.RoleHost},
	}
	rows := renderString(t, context.Background(), view.AdminUsersFragment(users))

	assert.Contains(t, rows, `<span class="avatar">É</span>`)
	assert.Contains(t, rows, `<span class="avatar">?</span>`)
	assert.NotContains(t, rows, "\uFFFD")
}

func TestProfilePage_StoredValuesBeforePost(t *testing.T) {
	user := &domain.User{ID: 7, FirstName: "Marie", City: "Jacmel", Language: domain.LanguageHaitian, Avatar: "k"}
	profile := &domain.UserProfile{BusinessName: "Atelier Jacmel", EmailNotifications: true}
	html := renderString(t, context.Background(), view.ProfilePage(view.Chrome{User: user}, user, profile, view.Form{}))

	assert.Contains(t, html, `name="city" value="Jacmel"`)
	assert.Contains(t, html, `name="business_name" value="Atelier Jacmel"`)
	assert.Contains(t, html, `<option value="ht" selected>`)
	assert.Contains(t, html, `name="email_notifications" value="on" checked>`)
	assert.Contains(t, html, `src="/avatars/7"`)
}

func TestProfilePage_PostedFormKeepsClearedFields(t *testing.T) {
	user := &domain.User{ID: 7, FirstName: "Marie", City: "Jacmel", Language: domain.LanguageHaitian}
	profile := &domain.UserProfile{BusinessName: "Atelier Jacmel", EmailNotifications: true}
	form := view.Form{
		Values: map[string]string{"first_name": "Marie", "city": "", "business_name": "", "language": "es"},
		Errors: map[string]string{"website": "Enter a valid URL."},
	}
	html := renderString(t, context.Background(), view.ProfilePage(view.Chrome{User: user}, user, profile, form))

	assert.Contains(t, html, `name="city" value=""`)
	assert.Contains(t, html, `name="business_name" value=""`)
	assert.NotContains(t, html, "Atelier Jacmel")
	assert.Contains(t, html, `<option value="es" selected>`)
	assert.Contains(t, html, `name="email_notifications" value="on">`)
	assert.Contains(t, html, "Enter a valid URL.")
}

func TestAdminDashboardPage(t *testing.T) {
	o := &service.AdminOverview{Total: 12, Organizers: 3, HasMore: true,
		RecentUsers: []domain.User{{FirstName: "Ana", Email: "ana@example.com", Role: domain.RoleOrganizer}}}
	admin := &domain.User{FirstName: "Root", Role: domain.RoleAdmin}
	html := renderString(t, context.Background(), view.AdminDashboardPage(view.Chrome{User: admin}, o))

	assert.Contains(t, html, `<dd id="stat-total">12</dd>`)
	assert.Contains(t, html, `id="admin-users-list"`)
	assert.Contains(t, html, "offset=1")
}
