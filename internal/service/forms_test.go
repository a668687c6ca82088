package service_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tinggo/tinggo/internal/domain"
	"github.com/tinggo/tinggo/internal/i18n"
	"github.com/tinggo/tinggo/internal/service"
)

func fieldsOf(t *testing.T, err error) map[string]service.FieldError {
	t.Helper()
	var verr *service.ValidationError
	require.True(t, errors.As(err, &verr), "expected ValidationError, got %v", err)
	return verr.Fields
}

func TestValidateRegister(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*service.RegisterInput)
		field  string
	}{
		{"bad email", func(in *service.RegisterInput) { in.Email = "not-an-email" }, "email"},
		{"missing first name", func(in *service.RegisterInput) { in.FirstName = "  " }, "first_name"},
		{"missing last name", func(in *service.RegisterInput) { in.LastName = "" }, "last_name"},
		{"unknown role", func(in *service.RegisterInput) { in.Role = "guest" }, "role"},
		{"short password", func(in *service.RegisterInput) { in.Password, in.PasswordConfirm = "12345", "12345" }, "password1"},
		{"mismatch", func(in *service.RegisterInput) { in.PasswordConfirm = "secret2" }, "password2"},
		{"long name", func(in *service.RegisterInput) { in.FirstName = strings.Repeat("a", 151) }, "first_name"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := validRegistration("form@example.com")
			tt.modify(&in)
			fields := fieldsOf(t, service.ValidateRegister(&in))
			assert.Contains(t, fields, tt.field)
		})
	}
}

func TestValidateRegister_Normalizes(t *testing.T) {
	in := validRegistration("  Someone@TingGo.HT ")
	in.Language = ""
	require.NoError(t, service.ValidateRegister(&in))
	assert.Equal(t, "someone@tinggo.ht", in.Email)
	assert.Equal(t, domain.LanguageEnglish, in.Language)
}

func TestValidateProfile(t *testing.T) {
	in := service.ProfileInput{FirstName: "Ana", LastName: "Pierre", Language: "ht", Website: "https://tinggo.ht"}
	require.NoError(t, service.ValidateProfile(&in))

	in.Website = "not a url"
	in.Language = "fr"
	in.Phone = strings.Repeat("9", 21)
	fields := fieldsOf(t, service.ValidateProfile(&in))
	assert.Contains(t, fields, "website")
	assert.Contains(t, fields, "language")
	assert.Contains(t, fields, "phone")
}

func TestValidationError_Messages(t *testing.T) {
	in := validRegistration("x@example.com")
	in.Password, in.PasswordConfirm = "123", "123"
	err := service.ValidateRegister(&in)

	var verr *service.ValidationError
	require.True(t, errors.As(err, &verr))

	en := verr.Messages(context.Background())
	assert.Equal(t, "Ensure this value has at least 6 characters.", en["password1"])

	es := verr.Messages(i18n.WithLanguage(context.Background(), domain.LanguageSpanish))
	assert.Equal(t, "Asegúrese de que este valor tenga al menos 6 caracteres.", es["password1"])
}
