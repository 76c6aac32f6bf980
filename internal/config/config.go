package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type Config struct {
	App        AppConfig        `yaml:"app"`
	HTTP       HTTPConfig       `yaml:"http"`
	Mail       MailConfig       `yaml:"mail"`
	Telegram   TelegramConfig   `yaml:"telegram"`
	Carousel   CarouselConfig   `yaml:"carousel"`
	Monitoring MonitoringConfig `yaml:"monitoring"`
	Logging    LoggingConfig    `yaml:"logging"`
}

type AppConfig struct {
	Name        string `yaml:"name"`
	Environment string `yaml:"environment"`
	Version     string `yaml:"version"`
}

type HTTPConfig struct {
	Port      int    `yaml:"port"`
	StaticDir string `yaml:"static_dir"`
	// CORSOrigins defaults to "*" when empty.
	CORSOrigins []string `yaml:"cors_origins"`
}

type MailConfig struct {
	// Provider is "smtp" or "sendgrid".
	Provider string `yaml:"provider"`
	// User is the mail account; it is also the admin recipient and the sender address.
	User string `yaml:"user"`
	// Password is the SMTP password or the SendGrid API key.
	Password      string `yaml:"password"`
	FromName      string `yaml:"from_name"`
	SupportPhone  string `yaml:"support_phone"`
	SMTPHost      string `yaml:"smtp_host"`
	SMTPPort      int    `yaml:"smtp_port"`
	TLSSkipVerify bool   `yaml:"tls_skip_verify"`
	SendGridHost  string `yaml:"sendgrid_host"`
}

type TelegramConfig struct {
	BotToken    string `yaml:"bot_token"`
	AdminChatID int64  `yaml:"admin_chat_id"`
	Debug       bool   `yaml:"debug"`
}

type CarouselConfig struct {
	SlidesPath     string `yaml:"slides_path"`
	IntervalMillis int    `yaml:"interval_ms"`
	BreakpointPx   int    `yaml:"breakpoint_px"`
}

type MonitoringConfig struct {
	PrometheusEnabled bool `yaml:"prometheus_enabled"`
	PrometheusPort    int  `yaml:"prometheus_port"`
}

type LoggingConfig struct {
	Level    string `yaml:"level"`
	Format   string `yaml:"format"`
	Output   string `yaml:"output"`
	FilePath string `yaml:"file_path"`
}

const (
	ProviderSMTP     = "smtp"
	ProviderSendGrid = "sendgrid"
)

// Load reads the config and validates it for the booking server.
func Load(configPath string) (*Config, error) {
	config, err := Read(configPath)
	if err != nil {
		return nil, err
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return config, nil
}

// Read loads .env, expands ${VAR} references and applies defaults and env overrides
// without validating. Tools that only need one section use it directly.
func Read(configPath string) (*Config, error) {
	// .env is optional; real environment variables win.
	if err := godotenv.Load(".env"); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, err
	}

	expandedData := []byte(os.ExpandEnv(string(data)))

	var config Config
	if err := yaml.Unmarshal(expandedData, &config); err != nil {
		return nil, err
	}

	config.applyDefaults()
	config.applyEnvOverrides()

	return &config, nil
}

func (c *Config) Validate() error {
	if strings.TrimSpace(c.Mail.User) == "" {
		return errors.New("mail user is required (GMAIL_USER)")
	}
	if strings.TrimSpace(c.Mail.Password) == "" {
		return errors.New("mail password is required (GMAIL_PASS)")
	}

	switch c.Mail.Provider {
	case ProviderSMTP:
		if c.Mail.SMTPHost == "" || c.Mail.SMTPPort == 0 {
			return errors.New("smtp provider requires smtp_host and smtp_port")
		}
	case ProviderSendGrid:
	default:
		return fmt.Errorf("unknown mail provider %q", c.Mail.Provider)
	}

	if c.HTTP.Port <= 0 || c.HTTP.Port > 65535 {
		return fmt.Errorf("invalid http port %d", c.HTTP.Port)
	}

	return nil
}

func (c *Config) applyDefaults() {
	if c.App.Name == "" {
		c.App.Name = "kashika"
	}
	if c.HTTP.Port == 0 {
		c.HTTP.Port = 3000
	}
	if c.HTTP.StaticDir == "" {
		c.HTTP.StaticDir = "public"
	}
	if len(c.HTTP.CORSOrigins) == 0 {
		c.HTTP.CORSOrigins = []string{"*"}
	}

	if c.Mail.Provider == "" {
		c.Mail.Provider = ProviderSMTP
	}
	if c.Mail.FromName == "" {
		c.Mail.FromName = "Kashika Travel"
	}
	if c.Mail.SMTPHost == "" {
		c.Mail.SMTPHost = "smtp.gmail.com"
	}
	if c.Mail.SMTPPort == 0 {
		c.Mail.SMTPPort = 587
	}
	if c.Mail.SendGridHost == "" {
		c.Mail.SendGridHost = "https://api.sendgrid.com"
	}

	if c.Carousel.SlidesPath == "" {
		c.Carousel.SlidesPath = "configs/slides.yaml"
	}
	if c.Carousel.IntervalMillis == 0 {
		c.Carousel.IntervalMillis = 5000
	}
	if c.Carousel.BreakpointPx == 0 {
		c.Carousel.BreakpointPx = 550
	}

	if c.Monitoring.PrometheusEnabled && c.Monitoring.PrometheusPort == 0 {
		c.Monitoring.PrometheusPort = 9090
	}
}

// applyEnvOverrides lets PORT take precedence over the file, as hosting platforms set it.
func (c *Config) applyEnvOverrides() {
	if raw := strings.TrimSpace(os.Getenv("PORT")); raw != "" {
		if port, err := strconv.Atoi(raw); err == nil {
			c.HTTP.Port = port
		}
	}
}
