package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("JWT_SECRET", "secret")
	t.Setenv("CONFIG_FILE", "")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "4000", cfg.Port)
	assert.Equal(t, 8*time.Hour, cfg.JWTExpiresIn)
	assert.Equal(t, []string{"isep.ipp.pt"}, cfg.AllowedStudentEmailDomains)
	assert.Equal(t, int64(4<<20), cfg.MaxCVBytes)
	assert.Equal(t, 500, cfg.StudentScanLimit)
	assert.Equal(t, 200, cfg.CompanyScanLimit)
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("JWT_SECRET", "secret")
	t.Setenv("JWT_EXPIRES_IN", "2h")
	t.Setenv("APP_BASE_URL", "https://app.example/")
	t.Setenv("ALLOWED_STUDENT_EMAIL_DOMAINS", " ISEP.ipp.pt , fe.up.pt ,")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 2*time.Hour, cfg.JWTExpiresIn)
	assert.Equal(t, "https://app.example", cfg.AppBaseURL)
	assert.Equal(t, []string{"isep.ipp.pt", "fe.up.pt"}, cfg.AllowedStudentEmailDomains)
}

func TestLoad_ExpiryAsHours(t *testing.T) {
	t.Setenv("JWT_SECRET", "secret")
	t.Setenv("JWT_EXPIRES_IN", "12")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 12*time.Hour, cfg.JWTExpiresIn)
}

func TestLoad_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := "port: \"9000\"\njwt_secret: from-file\ncompany_scan_limit: 50\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	t.Setenv("CONFIG_FILE", path)
	t.Setenv("PORT", "9100")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "9100", cfg.Port)
	assert.Equal(t, "from-file", cfg.JWTSecret)
	assert.Equal(t, 50, cfg.CompanyScanLimit)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{name: "valid development", mutate: func(c *Config) { c.JWTSecret = "s" }},
		{name: "missing secret", mutate: func(c *Config) {}, wantErr: true},
		{
			name: "production without setup key",
			mutate: func(c *Config) {
				c.JWTSecret = "s"
				c.Environment = "production"
			},
			wantErr: true,
		},
		{
			name: "no domains",
			mutate: func(c *Config) {
				c.JWTSecret = "s"
				c.AllowedStudentEmailDomains = nil
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			assert.NoError(t, err)
		})
	}
}
