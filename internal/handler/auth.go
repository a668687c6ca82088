package handler

import (
	"errors"
	"net/http"

	"github.com/rs/zerolog/hlog"
	"github.com/tinggo/tinggo/internal/domain"
	"github.com/tinggo/tinggo/internal/i18n"
	"github.com/tinggo/tinggo/internal/service"
	"github.com/tinggo/tinggo/internal/view"
)

// AuthHandler serves the registration, login, logout and password forms.
type AuthHandler struct {
	auth    *service.AuthService
	cookies cookies
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(auth *service.AuthService, cookieSecure bool) *AuthHandler {
	return &AuthHandler{auth: auth, cookies: cookies{secure: cookieSecure}}
}

// HandleRegisterPage renders the registration form.
func (h *AuthHandler) HandleRegisterPage(w http.ResponseWriter, r *http.Request) {
	if UserFromContext(r.Context()) != nil {
		http.Redirect(w, r, "/accounts/dashboard", http.StatusSeeOther)
		return
	}
	render(w, r, http.StatusOK, view.RegisterPage(chrome(r), view.Form{}))
}

// HandleRegister creates the account and signs the user in.
func (h *AuthHandler) HandleRegister(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	in := service.RegisterInput{
		Email:           r.PostFormValue("email"),
		FirstName:       r.PostFormValue("first_name"),
		LastName:        r.PostFormValue("last_name"),
		Role:            r.PostFormValue("role"),
		Password:        r.PostFormValue("password1"),
		PasswordConfirm: r.PostFormValue("password2"),
		Language:        sessionLanguage(r),
	}

	user, token, err := h.auth.Register(ctx, in)
	if err != nil {
		form := view.Form{Values: formValues(r, "email", "first_name", "last_name", "role")}
		var verr *service.ValidationError
		switch {
		case errors.As(err, &verr):
			form.Errors = verr.Messages(ctx)
			render(w, r, http.StatusUnprocessableEntity, view.RegisterPage(chrome(r), form))
		case errors.Is(err, domain.ErrDuplicateEmail):
			form.Errors = map[string]string{"email": i18n.T(ctx, i18n.MsgDuplicateEmail)}
			render(w, r, http.StatusConflict, view.RegisterPage(chrome(r), form))
		case errors.Is(err, domain.ErrAccountCreation):
			form.Error = i18n.T(ctx, i18n.MsgAccountCreation)
			render(w, r, http.StatusBadGateway, view.RegisterPage(chrome(r), form))
		default:
			serverError(w, r, err, "register user")
		}
		return
	}

	h.cookies.setSession(w, token, h.auth.SessionTTL())
	h.cookies.setFlash(w, i18n.T(ctx, i18n.MsgRegistered))
	http.Redirect(w, r, DashboardPath(user.Role), http.StatusSeeOther)
}

// HandleLoginPage renders the login form.
func (h *AuthHandler) HandleLoginPage(w http.ResponseWriter, r *http.Request) {
	if UserFromContext(r.Context()) != nil {
		http.Redirect(w, r, "/accounts/dashboard", http.StatusSeeOther)
		return
	}
	render(w, r, http.StatusOK, view.LoginPage(chrome(r), view.Form{}, safeNext(r.URL.Query().Get("next"))))
}

// HandleLogin authenticates the user and establishes a session.
func (h *AuthHandler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	next := safeNext(r.PostFormValue("next"))

	user, token, err := h.auth.Login(ctx, r.PostFormValue("email"), r.PostFormValue("password"))
	if err != nil {
		form := view.Form{Values: formValues(r, "email")}
		switch {
		case errors.Is(err, domain.ErrInvalidInput):
			form.Error = i18n.T(ctx, i18n.MsgMissingCredentials)
			render(w, r, http.StatusUnprocessableEntity, view.LoginPage(chrome(r), form, next))
		case errors.Is(err, domain.ErrInvalidCredentials):
			form.Error = i18n.T(ctx, i18n.MsgInvalidCredentials)
			render(w, r, http.StatusUnauthorized, view.LoginPage(chrome(r), form, next))
		default:
			serverError(w, r, err, "login user")
		}
		return
	}

	hlog.FromRequest(r).Info().Int64("user_id", user.ID).Msg("user logged in")
	h.cookies.setSession(w, token, h.auth.SessionTTL())
	h.cookies.setFlash(w, i18n.T(ctx, i18n.MsgWelcomeBack, user.FirstName))
	if next == "" {
		next = DashboardPath(user.Role)
	}
	http.Redirect(w, r, next, http.StatusSeeOther)
}

// HandleLogout clears the session cookie. It never calls the hosted service.
func (h *AuthHandler) HandleLogout(w http.ResponseWriter, r *http.Request) {
	h.cookies.clearSession(w)
	h.cookies.setFlash(w, i18n.T(r.Context(), i18n.MsgLoggedOut))
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (h *AuthHandler) HandlePasswordResetPage(w http.ResponseWriter, r *http.Request) {
	render(w, r, http.StatusOK, view.PasswordResetPage(chrome(r), view.Form{}))
}

// HandlePasswordReset asks the hosted service to send a reset email.
func (h *AuthHandler) HandlePasswordReset(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	err := h.auth.RequestPasswordReset(ctx, r.PostFormValue("email"))
	if err != nil {
		form := view.Form{Values: formValues(r, "email")}
		switch {
		case errors.Is(err, domain.ErrInvalidInput):
			form.Error = i18n.T(ctx, i18n.MsgEmailRequired)
			render(w, r, http.StatusUnprocessableEntity, view.PasswordResetPage(chrome(r), form))
		default:
			form.Error = i18n.T(ctx, i18n.MsgResetFailed)
			render(w, r, http.StatusBadGateway, view.PasswordResetPage(chrome(r), form))
		}
		return
	}

	h.cookies.setFlash(w, i18n.T(ctx, i18n.MsgResetSent))
	http.Redirect(w, r, "/accounts/login", http.StatusSeeOther)
}

func (h *AuthHandler) HandlePasswordChangePage(w http.ResponseWriter, r *http.Request) {
	render(w, r, http.StatusOK, view.PasswordChangePage(chrome(r), view.Form{}))
}

// HandlePasswordChange updates the password of the signed-in user.
func (h *AuthHandler) HandlePasswordChange(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	user := UserFromContext(ctx)

	err := h.auth.ChangePassword(ctx, user.ID, service.ChangePasswordInput{
		Current: r.PostFormValue("old_password"),
		New:     r.PostFormValue("new_password1"),
		Confirm: r.PostFormValue("new_password2"),
	})
	if err != nil {
		var form view.Form
		var verr *service.ValidationError
		switch {
		case errors.As(err, &verr):
			form.Errors = verr.Messages(ctx)
			render(w, r, http.StatusUnprocessableEntity, view.PasswordChangePage(chrome(r), form))
		case errors.Is(err, domain.ErrInvalidCredentials):
			form.Errors = map[string]string{"old_password": i18n.T(ctx, i18n.MsgInvalidCredentials)}
			render(w, r, http.StatusUnprocessableEntity, view.PasswordChangePage(chrome(r), form))
		case errors.Is(err, domain.ErrRemoteUnavailable):
			form.Error = i18n.T(ctx, i18n.MsgPasswordFailed)
			render(w, r, http.StatusBadGateway, view.PasswordChangePage(chrome(r), form))
		default:
			serverError(w, r, err, "change password")
		}
		return
	}

	h.cookies.setFlash(w, i18n.T(ctx, i18n.MsgPasswordChanged))
	http.Redirect(w, r, "/accounts/profile", http.StatusSeeOther)
}
