package handler

import (
	"net/http"
	"strconv"

	"github.com/rs/zerolog/hlog"
	datastar "github.com/starfederation/datastar-go/datastar"
	"github.com/tinggo/tinggo/internal/domain"
	"github.com/tinggo/tinggo/internal/i18n"
	"github.com/tinggo/tinggo/internal/service"
	"github.com/tinggo/tinggo/internal/view"
)

// DashboardPath is the landing page for role. Unknown roles land on the
// participant dashboard.
func DashboardPath(role domain.Role) string {
	switch role {
	case domain.RoleAdmin:
		return "/accounts/admin-dashboard"
	case domain.RoleOrganizer:
		return "/accounts/organizer-dashboard"
	case domain.RoleVendor:
		return "/accounts/vendor-dashboard"
	case domain.RoleHost:
		return "/accounts/host-dashboard"
	}
	return "/accounts/participant-dashboard"
}

// DashboardHandler dispatches users to their role dashboard and serves those pages.
type DashboardHandler struct {
	dashboards *service.DashboardService
	cookies    cookies
}

// NewDashboardHandler creates a new DashboardHandler.
func NewDashboardHandler(dashboards *service.DashboardService, cookieSecure bool) *DashboardHandler {
	return &DashboardHandler{dashboards: dashboards, cookies: cookies{secure: cookieSecure}}
}

// HandleDispatch redirects to the dashboard of the signed-in user's role.
func (h *DashboardHandler) HandleDispatch(w http.ResponseWriter, r *http.Request) {
	user := UserFromContext(r.Context())
	http.Redirect(w, r, DashboardPath(user.Role), http.StatusSeeOther)
}

// requireRole sends users without role home with an access-denied flash.
func (h *DashboardHandler) requireRole(w http.ResponseWriter, r *http.Request, role domain.Role) bool {
	if UserFromContext(r.Context()).HasRole(role) {
		return true
	}
	h.cookies.setFlash(w, i18n.T(r.Context(), i18n.MsgAccessDenied, i18n.T(r.Context(), role.Label())))
	http.Redirect(w, r, "/", http.StatusSeeOther)
	return false
}

// HandleRole serves the organizer, participant, vendor and host dashboards.
func (h *DashboardHandler) HandleRole(role domain.Role) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !h.requireRole(w, r, role) {
			return
		}
		render(w, r, http.StatusOK, view.RoleDashboardPage(chrome(r), role))
	}
}

// HandleAdmin renders the admin overview.
func (h *DashboardHandler) HandleAdmin(w http.ResponseWriter, r *http.Request) {
	if !h.requireRole(w, r, domain.RoleAdmin) {
		return
	}

	overview, err := h.dashboards.AdminOverview(r.Context())
	if err != nil {
		serverError(w, r, err, "load admin overview")
		return
	}
	render(w, r, http.StatusOK, view.AdminDashboardPage(chrome(r), overview))
}

// HandleAdminUsers streams the next page of users via SSE.
func (h *DashboardHandler) HandleAdminUsers(w http.ResponseWriter, r *http.Request) {
	if !UserFromContext(r.Context()).HasRole(domain.RoleAdmin) {
		http.Error(w, "Forbidden", http.StatusForbidden)
		return
	}

	offset := 0
	if v := r.URL.Query().Get("offset"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil && parsed > 0 {
			offset = parsed
		}
	}

	users, hasMore, err := h.dashboards.UserPage(r.Context(), offset)
	if err != nil {
		serverError(w, r, err, "load more users")
		return
	}

	sse := datastar.NewSSE(w, r)

	// Append the rows to the list.
	if err := sse.PatchElementTempl(
		view.AdminUsersFragment(users),
		datastar.WithSelectorID("admin-users-list"),
		datastar.WithModeAppend(),
	); err != nil {
		hlog.FromRequest(r).Warn().Err(err).Msg("patch admin users")
		return
	}

	// Replace the load-more control, matched by its id.
	if err := sse.PatchElementTempl(view.AdminLoadMoreFragment(offset+len(users), hasMore)); err != nil {
		hlog.FromRequest(r).Warn().Err(err).Msg("patch load more")
	}
}
