package app

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/multierr"
)

func TestLoadConfigFromFile(t *testing.T) {
	cfg, err := LoadConfig("testdata")
	require.NoError(t, err)

	require.Equal(t, 9090, cfg.Server.Port)
	require.Equal(t, "debug", cfg.Server.LogLevel)
	require.Equal(t, 5, cfg.Server.RateLimit.Requests)
	require.Equal(t, 30*time.Second, cfg.Server.RateLimit.Window)

	require.Equal(t, "postgres", cfg.Database.Driver)
	require.Equal(t, "db.example.com", cfg.Database.Postgres.Host)
	require.Equal(t, "require", cfg.Database.Options["sslmode"])

	require.Equal(t, "jwt-secret", cfg.Auth.JWT.Secret)
	require.Equal(t, 30*time.Minute, cfg.Auth.JWT.TTL)

	require.Equal(t, "smtp.example.com", cfg.Email.SMTP.Host)
	require.Equal(t, 2525, cfg.Email.SMTP.Port)
	require.Equal(t, 15*time.Second, cfg.Email.SMTP.Timeout)

	require.Equal(t, IdentityProviderFirebase, cfg.Identity.Provider)
	require.Equal(t, "stockpulse-dev", cfg.Identity.Firebase.ProjectID)
	require.Equal(t, 25, cfg.Notifications.DefaultPageSize)

	require.NoError(t, cfg.Validate())
}

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := LoadConfig(t.TempDir())
	require.NoError(t, err)

	require.Equal(t, 8000, cfg.Server.Port)
	require.Equal(t, "sqlite", cfg.Database.Driver)
	require.Equal(t, IdentityProviderDatabase, cfg.Identity.Provider)
	require.Equal(t, 10, cfg.Notifications.DefaultPageSize)
	require.Equal(t, 10*time.Second, cfg.Email.SMTP.Timeout)
	require.False(t, cfg.Email.SMTPSettings().Configured())
	require.NoError(t, cfg.Validate())
}

func TestLoadConfigEnvironmentOverrides(t *testing.T) {
	t.Setenv("STOCKPULSE_SERVER_PORT", "7070")
	t.Setenv("STOCKPULSE_EMAIL_SMTP_HOST", "mail.internal")

	cfg, err := LoadConfig(t.TempDir())
	require.NoError(t, err)
	require.Equal(t, 7070, cfg.Server.Port)
	require.Equal(t, "mail.internal", cfg.Email.SMTP.Host)
}

func TestConfigValidateCollectsAllProblems(t *testing.T) {
	cfg := &Config{}
	cfg.Server.Port = 0
	cfg.Database.Driver = "oracle"
	cfg.Identity.Provider = IdentityProviderFirebase
	cfg.Notifications.DefaultPageSize = 500

	err := cfg.Validate()
	require.Error(t, err)
	require.Len(t, multierr.Errors(err), 4)
}

func TestConfigAdapters(t *testing.T) {
	cfg, err := LoadConfig("testdata")
	require.NoError(t, err)

	db := cfg.Database.DatabaseSettings()
	require.Equal(t, "db.example.com", db.Host)
	require.Equal(t, 5433, db.Port)
	require.Equal(t, "stockpulse", db.Name)
	require.Equal(t, "app", db.User)
	require.Equal(t, 20, db.MaxOpenConns)

	smtp := cfg.Email.SMTPSettings()
	require.True(t, smtp.Configured())
	require.Equal(t, "alerts@example.com", smtp.From)

	jwt := cfg.Auth.JWTServiceConfig()
	require.Equal(t, "accounts", jwt.Issuer)
	require.Equal(t, 30*time.Minute, jwt.AccessTokenTTL)
}

func TestSMTPSettingsDefaultsSenderToUsername(t *testing.T) {
	cfg := EmailConfig{SMTP: SMTPConfig{Host: " smtp.example.com ", Port: 587, Username: "bot@example.com", Password: "pw"}}

	settings := cfg.SMTPSettings()
	require.Equal(t, "smtp.example.com", settings.Host)
	require.Equal(t, "bot@example.com", settings.From)
}
