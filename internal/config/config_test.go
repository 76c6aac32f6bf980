package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	configPath := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(configPath, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write temp config: %v", err)
	}
	return configPath
}

func TestLoadConfig(t *testing.T) {
	t.Setenv("GMAIL_USER", "agency@example.com")
	t.Setenv("GMAIL_PASS", "app-password")
	t.Setenv("PORT", "")

	configPath := writeConfig(t, `
app:
  name: "kashika"
mail:
  user: "${GMAIL_USER}"
  password: "${GMAIL_PASS}"
http:
  port: 8081
`)

	cfg, err := Load(configPath)
	require.NoError(t, err)

	assert.Equal(t, "agency@example.com", cfg.Mail.User)
	assert.Equal(t, "app-password", cfg.Mail.Password)
	assert.Equal(t, 8081, cfg.HTTP.Port)
	assert.Equal(t, ProviderSMTP, cfg.Mail.Provider)
}

func TestLoadConfigMissingCredentials(t *testing.T) {
	t.Setenv("GMAIL_USER", "")
	t.Setenv("GMAIL_PASS", "")

	configPath := writeConfig(t, `
mail:
  user: "${GMAIL_USER}"
  password: "${GMAIL_PASS}"
`)

	_, err := Load(configPath)
	assert.Error(t, err)
}

func TestLoadConfigPortOverride(t *testing.T) {
	t.Setenv("PORT", "4100")

	configPath := writeConfig(t, `
mail:
  user: "a@example.com"
  password: "secret"
http:
  port: 8081
`)

	cfg, err := Load(configPath)
	require.NoError(t, err)
	assert.Equal(t, 4100, cfg.HTTP.Port)
}

func TestReadConfigSkipsValidation(t *testing.T) {
	t.Setenv("GMAIL_USER", "")
	t.Setenv("GMAIL_PASS", "")

	configPath := writeConfig(t, `
mail:
  user: "${GMAIL_USER}"
carousel:
  slides_path: "testdata/slides.yaml"
  interval_ms: 3000
`)

	cfg, err := Read(configPath)
	require.NoError(t, err)
	assert.Equal(t, "testdata/slides.yaml", cfg.Carousel.SlidesPath)
	assert.Equal(t, 3000, cfg.Carousel.IntervalMillis)
	assert.Equal(t, 550, cfg.Carousel.BreakpointPx)

	_, err = Load(configPath)
	assert.Error(t, err)
}

func TestValidateConfig(t *testing.T) {
	valid := func() Config {
		cfg := Config{Mail: MailConfig{User: "a@example.com", Password: "secret"}}
		cfg.applyDefaults()
		return cfg
	}

	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr bool
	}{
		{name: "valid config", mutate: func(*Config) {}, wantErr: false},
		{name: "missing user", mutate: func(c *Config) { c.Mail.User = "" }, wantErr: true},
		{name: "missing password", mutate: func(c *Config) { c.Mail.Password = " " }, wantErr: true},
		{name: "unknown provider", mutate: func(c *Config) { c.Mail.Provider = "pigeon" }, wantErr: true},
		{name: "sendgrid provider", mutate: func(c *Config) { c.Mail.Provider = ProviderSendGrid }, wantErr: false},
		{name: "bad port", mutate: func(c *Config) { c.HTTP.Port = 70000 }, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestApplyDefaults(t *testing.T) {
	cfg := &Config{}
	cfg.applyDefaults()

	if cfg.HTTP.Port != 3000 {
		t.Errorf("expected default http port 3000, got %d", cfg.HTTP.Port)
	}
	if cfg.Mail.SMTPHost != "smtp.gmail.com" || cfg.Mail.SMTPPort != 587 {
		t.Errorf("expected gmail smtp defaults, got %s:%d", cfg.Mail.SMTPHost, cfg.Mail.SMTPPort)
	}
	if cfg.Carousel.IntervalMillis != 5000 {
		t.Errorf("expected default interval 5000ms, got %d", cfg.Carousel.IntervalMillis)
	}
	if cfg.Carousel.BreakpointPx != 550 {
		t.Errorf("expected default breakpoint 550px, got %d", cfg.Carousel.BreakpointPx)
	}
	if cfg.Monitoring.PrometheusPort != 0 {
		t.Errorf("expected no prometheus port when disabled, got %d", cfg.Monitoring.PrometheusPort)
	}
	assert.Equal(t, []string{"*"}, cfg.HTTP.CORSOrigins)
}
