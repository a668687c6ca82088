package i18n_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/tinggo/tinggo/internal/domain"
	"github.com/tinggo/tinggo/internal/i18n"
)

func TestFromContext_DefaultsToEnglish(t *testing.T) {
	assert.Equal(t, domain.LanguageEnglish, i18n.FromContext(context.Background()))

	ctx := i18n.WithLanguage(context.Background(), domain.Language("xx"))
	assert.Equal(t, domain.LanguageEnglish, i18n.FromContext(ctx))
}

func TestT(t *testing.T) {
	tests := []struct {
		lang domain.Language
		want string
	}{
		{domain.LanguageEnglish, "Invalid credentials."},
		{domain.LanguageSpanish, "Credenciales inválidas."},
		{domain.LanguageHaitian, "Idantifyan yo pa valab."},
	}
	for _, tt := range tests {
		t.Run(string(tt.lang), func(t *testing.T) {
			ctx := i18n.WithLanguage(context.Background(), tt.lang)
			assert.Equal(t, tt.want, i18n.T(ctx, i18n.MsgInvalidCredentials))
		})
	}
}

func TestT_FormatsArguments(t *testing.T) {
	ctx := i18n.WithLanguage(context.Background(), domain.LanguageEnglish)
	assert.Equal(t, "Access denied. Administrator privileges required.",
		i18n.T(ctx, i18n.MsgAccessDenied, domain.RoleAdmin.Label()))

	es := i18n.WithLanguage(context.Background(), domain.LanguageSpanish)
	assert.Equal(t, "¡Bienvenido de nuevo, Ana!", i18n.T(es, i18n.MsgWelcomeBack, "Ana"))
}

func TestT_UnknownKeyPassesThrough(t *testing.T) {
	ctx := i18n.WithLanguage(context.Background(), domain.LanguageHaitian)
	assert.Equal(t, "Something else", i18n.T(ctx, "Something else"))
}
