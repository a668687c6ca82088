package service

import (
	"context"
	"errors"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/tinggo/tinggo/internal/domain"
	"github.com/tinggo/tinggo/internal/i18n"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	// Report fields by their form names so errors line up with inputs.
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("form"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// RegisterInput is the submitted registration form.
type RegisterInput struct {
	Email           string `form:"email" validate:"required,email,max=254"`
	FirstName       string `form:"first_name" validate:"required,max=150"`
	LastName        string `form:"last_name" validate:"required,max=150"`
	Role            string `form:"role" validate:"required,oneof=admin organizer participant vendor host"`
	Password        string `form:"password1" validate:"required,min=6"`
	PasswordConfirm string `form:"password2" validate:"required,eqfield=Password"`

	// Language is the session locale at the time of registration.
	Language domain.Language `form:"-"`
}

// ProfileInput is the submitted profile form: the editable user fields
// followed by the profile extension.
type ProfileInput struct {
	FirstName string `form:"first_name" validate:"required,max=150"`
	LastName  string `form:"last_name" validate:"required,max=150"`
	Phone     string `form:"phone" validate:"max=20"`
	Bio       string `form:"bio" validate:"max=500"`
	Country   string `form:"country" validate:"max=100"`
	City      string `form:"city" validate:"max=100"`
	Language  string `form:"language" validate:"required,oneof=en es ht"`

	Website             string `form:"website" validate:"omitempty,url,max=200"`
	Instagram           string `form:"instagram" validate:"max=100"`
	Facebook            string `form:"facebook" validate:"max=100"`
	Twitter             string `form:"twitter" validate:"max=100"`
	BusinessName        string `form:"business_name" validate:"max=200"`
	BusinessDescription string `form:"business_description"`
	EmailNotifications  bool   `form:"email_notifications"`
	PushNotifications   bool   `form:"push_notifications"`
}

// FieldError is a translatable message for one form field.
type FieldError struct {
	Msg   string
	Param string
}

// Text renders the message in the request language.
func (e FieldError) Text(ctx context.Context) string {
	if e.Param == "" {
		return i18n.T(ctx, e.Msg)
	}
	return i18n.T(ctx, e.Msg, e.Param)
}

// ValidationError maps form field names to their first failure.
type ValidationError struct {
	Fields map[string]FieldError
}

func (e *ValidationError) Error() string {
	names := make([]string, 0, len(e.Fields))
	for name := range e.Fields {
		names = append(names, name)
	}
	return "invalid form fields: " + strings.Join(names, ", ")
}

func (e *ValidationError) Unwrap() error { return domain.ErrInvalidInput }

// Messages renders every field error in the request language.
func (e *ValidationError) Messages(ctx context.Context) map[string]string {
	out := make(map[string]string, len(e.Fields))
	for name, fe := range e.Fields {
		out[name] = fe.Text(ctx)
	}
	return out
}

func fieldError(field string, fe FieldError) *ValidationError {
	return &ValidationError{Fields: map[string]FieldError{field: fe}}
}

// ValidateRegister normalises and checks a registration form.
func ValidateRegister(in *RegisterInput) error {
	in.Email = domain.NormalizeEmail(in.Email)
	trimAll(&in.FirstName, &in.LastName, &in.Role)
	if !in.Language.Valid() {
		in.Language = domain.LanguageEnglish
	}
	return check(in)
}

// ValidateProfile normalises and checks a profile form.
func ValidateProfile(in *ProfileInput) error {
	trimAll(&in.FirstName, &in.LastName, &in.Phone, &in.Country, &in.City, &in.Language,
		&in.Website, &in.Instagram, &in.Facebook, &in.Twitter, &in.BusinessName)
	return check(in)
}

func check(v any) error {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}

	out := &ValidationError{Fields: make(map[string]FieldError, len(verrs))}
	for _, fe := range verrs {
		if _, seen := out.Fields[fe.Field()]; seen {
			continue
		}
		out.Fields[fe.Field()] = translateTag(fe)
	}
	return out
}

func translateTag(fe validator.FieldError) FieldError {
	switch fe.Tag() {
	case "required":
		return FieldError{Msg: i18n.MsgFieldRequired}
	case "email":
		return FieldError{Msg: i18n.MsgFieldEmail}
	case "url":
		return FieldError{Msg: i18n.MsgFieldURL}
	case "max":
		return FieldError{Msg: i18n.MsgFieldMax, Param: fe.Param()}
	case "min":
		return FieldError{Msg: i18n.MsgFieldMin, Param: fe.Param()}
	case "oneof":
		return FieldError{Msg: i18n.MsgFieldChoice}
	case "eqfield":
		return FieldError{Msg: i18n.MsgPasswordMismatch}
	}
	return FieldError{Msg: i18n.MsgFieldInvalid}
}

func trimAll(ss ...*string) {
	for _, s := range ss {
		*s = strings.TrimSpace(*s)
	}
}
