package handler

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/tinggo/tinggo/internal/domain"
	"github.com/tinggo/tinggo/internal/i18n"
	"github.com/tinggo/tinggo/internal/service"
	"github.com/tinggo/tinggo/internal/view"
)

// maxProfileBody bounds the multipart profile form: the avatar plus the text fields.
const maxProfileBody = service.MaxAvatarSize + 1<<20

var profileFields = []string{
	"first_name", "last_name", "phone", "bio", "country", "city", "language",
	"website", "instagram", "facebook", "twitter", "business_name", "business_description",
	"email_notifications", "push_notifications",
}

// ProfileHandler serves the profile editor and avatar images.
type ProfileHandler struct {
	profiles *service.ProfileService
	cookies  cookies
}

// NewProfileHandler creates a new ProfileHandler.
func NewProfileHandler(profiles *service.ProfileService, cookieSecure bool) *ProfileHandler {
	return &ProfileHandler{profiles: profiles, cookies: cookies{secure: cookieSecure}}
}

// HandleProfilePage renders the signed-in user's profile.
func (h *ProfileHandler) HandleProfilePage(w http.ResponseWriter, r *http.Request) {
	user, profile, err := h.profiles.Get(r.Context(), UserFromContext(r.Context()).ID)
	if err != nil {
		serverError(w, r, err, "load profile")
		return
	}
	render(w, r, http.StatusOK, view.ProfilePage(chrome(r), user, profile, view.Form{}))
}

// HandleProfileUpdate saves the multipart profile form.
func (h *ProfileHandler) HandleProfileUpdate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	current := UserFromContext(ctx)

	r.Body = http.MaxBytesReader(w, r.Body, maxProfileBody)
	if err := r.ParseMultipartForm(1 << 20); err != nil && !errors.Is(err, http.ErrNotMultipart) {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			h.rerender(w, r, map[string]string{"avatar": i18n.T(ctx, i18n.MsgAvatarSize)})
			return
		}
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}

	avatar, err := readAvatar(r)
	if err != nil {
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}

	in := service.ProfileInput{
		FirstName:           r.FormValue("first_name"),
		LastName:            r.FormValue("last_name"),
		Phone:               r.FormValue("phone"),
		Bio:                 r.FormValue("bio"),
		Country:             r.FormValue("country"),
		City:                r.FormValue("city"),
		Language:            r.FormValue("language"),
		Website:             r.FormValue("website"),
		Instagram:           r.FormValue("instagram"),
		Facebook:            r.FormValue("facebook"),
		Twitter:             r.FormValue("twitter"),
		BusinessName:        r.FormValue("business_name"),
		BusinessDescription: r.FormValue("business_description"),
		EmailNotifications:  r.FormValue("email_notifications") != "",
		PushNotifications:   r.FormValue("push_notifications") != "",
	}

	if _, _, err := h.profiles.Update(ctx, current.ID, in, avatar); err != nil {
		var verr *service.ValidationError
		if errors.As(err, &verr) {
			h.rerender(w, r, verr.Messages(ctx))
			return
		}
		serverError(w, r, err, "update profile")
		return
	}

	h.cookies.setFlash(w, i18n.T(ctx, i18n.MsgProfileUpdated))
	http.Redirect(w, r, "/accounts/profile", http.StatusSeeOther)
}

func (h *ProfileHandler) rerender(w http.ResponseWriter, r *http.Request, fieldErrors map[string]string) {
	ctx := r.Context()
	user, profile, err := h.profiles.Get(ctx, UserFromContext(ctx).ID)
	if err != nil {
		serverError(w, r, err, "load profile")
		return
	}
	form := view.Form{
		Values: formValues(r, profileFields...),
		Errors: fieldErrors,
		Error:  i18n.T(ctx, i18n.MsgProfileFailed),
	}
	render(w, r, http.StatusUnprocessableEntity, view.ProfilePage(chrome(r), user, profile, form))
}

// readAvatar returns the uploaded avatar bytes, or nil when none was sent.
// One byte past the limit is read so oversize files are still detected.
func readAvatar(r *http.Request) ([]byte, error) {
	file, _, err := r.FormFile("avatar")
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) || errors.Is(err, http.ErrNotMultipart) {
			return nil, nil
		}
		return nil, err
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, service.MaxAvatarSize+1))
	if err != nil {
		return nil, fmt.Errorf("read avatar: %w", err)
	}
	if len(data) == 0 {
		return nil, nil
	}
	return data, nil
}

// HandleAvatar serves the avatar of the user in the path.
// GET /avatars/{id}
func (h *ProfileHandler) HandleAvatar(w http.ResponseWriter, r *http.Request) {
	userID, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		http.NotFound(w, r)
		return
	}

	data, contentType, err := h.profiles.Avatar(r.Context(), userID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			http.NotFound(w, r)
			return
		}
		serverError(w, r, err, "get avatar")
		return
	}

	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Length", strconv.Itoa(len(data)))
	w.Header().Set("Cache-Control", "private, max-age=3600")
	w.Write(data)
}
