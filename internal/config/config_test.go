package config_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tinggo/tinggo/internal/config"
)

func setSupabase(t *testing.T) {
	t.Setenv("SUPABASE_URL", "https://demo.supabase.co")
	t.Setenv("SUPABASE_KEY", "anon-key")
}

func TestParse_Defaults(t *testing.T) {
	setSupabase(t)

	cfg, err := config.Parse()
	require.NoError(t, err)

	assert.True(t, cfg.Debug)
	assert.NotEmpty(t, cfg.SecretKey, "development key expected in debug mode")
	assert.Equal(t, []string{"localhost", "127.0.0.1"}, cfg.AllowedHosts)
	assert.Equal(t, "console", cfg.EmailBackend)
	assert.Equal(t, 8080, cfg.Port)
	assert.Equal(t, ":8080", cfg.Addr())
	assert.Equal(t, "tinggo.db", cfg.DatabaseURL)
	assert.False(t, cfg.UsesPostgres())
	assert.True(t, cfg.CookieSecure)
	assert.Equal(t, 12, cfg.BcryptCost)
	assert.Equal(t, "en", cfg.LanguageCode)
	assert.Equal(t, 24*time.Hour, cfg.SessionTTL)
	assert.Equal(t, 10, cfg.RatePerMin)
	assert.Equal(t, "https://demo.supabase.co", cfg.Supabase.URL)
}

func TestParse_SupabaseRequired(t *testing.T) {
	t.Setenv("SUPABASE_URL", "")
	t.Setenv("SUPABASE_KEY", "")

	_, err := config.Parse()
	assert.Error(t, err)
}

func TestParse_SecretKeyRequiredInProduction(t *testing.T) {
	setSupabase(t)
	t.Setenv("DEBUG", "false")
	t.Setenv("SECRET_KEY", "")

	_, err := config.Parse()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "SECRET_KEY")

	t.Setenv("SECRET_KEY", "a-production-secret-that-is-long-enough-0123")
	cfg, err := config.Parse()
	require.NoError(t, err)
	assert.False(t, cfg.Debug)
}

func TestParse_BcryptCostRange(t *testing.T) {
	setSupabase(t)
	t.Setenv("BCRYPT_COST", "3")
	_, err := config.Parse()
	assert.Error(t, err)

	t.Setenv("BCRYPT_COST", "15")
	_, err = config.Parse()
	assert.Error(t, err)
}

func TestParse_PostgresURLAndHosts(t *testing.T) {
	setSupabase(t)
	t.Setenv("DATABASE_URL", "postgresql://tinggo@db:5432/tinggo")
	t.Setenv("ALLOWED_HOSTS", " TingGo.ht , .tinggo.app")

	cfg, err := config.Parse()
	require.NoError(t, err)
	assert.True(t, cfg.UsesPostgres())
	assert.Equal(t, []string{"tinggo.ht", ".tinggo.app"}, cfg.AllowedHosts)
}
