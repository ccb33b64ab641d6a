package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"github.com/rpggio/studytrail/internal/domain/content"
	"gopkg.in/yaml.v3"
)

const envPrefix = "STUDYTRAIL_"

// Config defines server configuration.
type Config struct {
	Server    ServerConfig    `yaml:"server"`
	DB        DBConfig        `yaml:"db"`
	Content   ContentConfig   `yaml:"content"`
	Log       LogConfig       `yaml:"log"`
	Mail      MailConfig      `yaml:"mail"`
	AI        AIConfig        `yaml:"ai"`
	Scheduler SchedulerConfig `yaml:"scheduler"`
	Cron      CronConfig      `yaml:"cron"`
	Transport TransportConfig `yaml:"transport"`
}

type ServerConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

type DBConfig struct {
	Driver string `yaml:"driver"`
	DSN    string `yaml:"dsn"`
}

type ContentConfig struct {
	Root  string                    `yaml:"root"`
	Weeks map[int]content.WeekRange `yaml:"weeks"`
}

// WeekTable returns the default table with any configured overrides applied.
func (c ContentConfig) WeekTable() content.WeekTable {
	table := content.DefaultWeekTable()
	for phase, r := range c.Weeks {
		table.Ranges[phase] = r
	}
	return table
}

type LogConfig struct {
	Level string `yaml:"level"`
	Path  string `yaml:"path"`
}

type MailConfig struct {
	APIKey        string `yaml:"api_key"`
	BaseURL       string `yaml:"base_url"`
	FromEmail     string `yaml:"from_email"`
	FromName      string `yaml:"from_name"`
	Recipient     string `yaml:"recipient"`
	RecipientName string `yaml:"recipient_name"`
	AppURL        string `yaml:"app_url"`
}

type AIConfig struct {
	APIKey  string `yaml:"api_key"`
	BaseURL string `yaml:"base_url"`
}

type SchedulerConfig struct {
	Enabled          bool   `yaml:"enabled"`
	Timezone         string `yaml:"timezone"`
	StreakReminderAt string `yaml:"streak_reminder_at"`
	WeeklyDigestDay  string `yaml:"weekly_digest_day"`
	WeeklyDigestAt   string `yaml:"weekly_digest_at"`
}

type CronConfig struct {
	Secret string `yaml:"secret"`
}

type TransportConfig struct {
	Mode       string `yaml:"mode"`
	MCPEnabled bool   `yaml:"mcp_enabled"`
}

// Default returns the configuration used when nothing is overridden.
func Default() Config {
	return Config{
		Server: ServerConfig{
			Host: "0.0.0.0",
			Port: 8080,
		},
		DB: DBConfig{
			Driver: "sqlite",
			DSN:    "studytrail.db",
		},
		Content: ContentConfig{
			Root: "content",
		},
		Log: LogConfig{
			Level: "info",
		},
		Mail: MailConfig{
			RecipientName: "FAANG Student",
			AppURL:        "http://localhost:3000",
		},
		Scheduler: SchedulerConfig{
			Enabled:          true,
			Timezone:         "UTC",
			StreakReminderAt: "18:00",
			WeeklyDigestDay:  "sunday",
			WeeklyDigestAt:   "09:00",
		},
		Transport: TransportConfig{
			Mode:       "http",
			MCPEnabled: true,
		},
	}
}

// Load builds the configuration from defaults, an optional YAML file named by
// STUDYTRAIL_CONFIG_PATH, an optional .env file and the environment, in that
// order of increasing precedence.
func Load() (Config, error) {
	cfg := Default()

	if path := os.Getenv(envPrefix + "CONFIG_PATH"); path != "" {
		if err := loadFromFile(path, &cfg); err != nil {
			return Config{}, err
		}
	}

	envFile := os.Getenv(envPrefix + "ENV_FILE")
	if envFile == "" {
		envFile = ".env"
	}
	if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("load env file: %w", err)
	}

	if err := applyEnv(&cfg); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks values that would otherwise fail later at startup.
func (c Config) Validate() error {
	switch c.DB.Driver {
	case "sqlite", "postgres":
	default:
		return fmt.Errorf("invalid db driver %q", c.DB.Driver)
	}
	switch c.Transport.Mode {
	case "http", "stdio":
	default:
		return fmt.Errorf("invalid transport mode %q", c.Transport.Mode)
	}
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port %d", c.Server.Port)
	}
	return nil
}

func loadFromFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse config file: %w", err)
	}
	return nil
}

func applyEnv(cfg *Config) error {
	// Legacy names shared with the hosted deployment come first so the
	// prefixed variables win when both are set.
	if dsn := os.Getenv("DATABASE_URL"); dsn != "" {
		cfg.DB.DSN = dsn
		if strings.HasPrefix(dsn, "postgres://") || strings.HasPrefix(dsn, "postgresql://") {
			cfg.DB.Driver = "postgres"
		}
	}
	setString(&cfg.Mail.APIKey, "BREVO_API_KEY")
	setString(&cfg.AI.APIKey, "GEMINI_API_KEY")
	setString(&cfg.Cron.Secret, "CRON_SECRET")
	setString(&cfg.Mail.AppURL, "NEXT_PUBLIC_APP_URL")

	setString(&cfg.Server.Host, envPrefix+"SERVER_HOST")
	if err := setInt(&cfg.Server.Port, envPrefix+"SERVER_PORT"); err != nil {
		return err
	}
	setString(&cfg.DB.Driver, envPrefix+"DB_DRIVER")
	setString(&cfg.DB.DSN, envPrefix+"DB_DSN")
	setString(&cfg.Content.Root, envPrefix+"CONTENT_ROOT")
	setString(&cfg.Log.Level, envPrefix+"LOG_LEVEL")
	setString(&cfg.Log.Path, envPrefix+"LOG_PATH")
	setString(&cfg.Mail.APIKey, envPrefix+"MAIL_API_KEY")
	setString(&cfg.Mail.BaseURL, envPrefix+"MAIL_BASE_URL")
	setString(&cfg.Mail.FromEmail, envPrefix+"MAIL_FROM_EMAIL")
	setString(&cfg.Mail.FromName, envPrefix+"MAIL_FROM_NAME")
	setString(&cfg.Mail.Recipient, envPrefix+"MAIL_RECIPIENT")
	setString(&cfg.Mail.RecipientName, envPrefix+"MAIL_RECIPIENT_NAME")
	setString(&cfg.Mail.AppURL, envPrefix+"APP_URL")
	setString(&cfg.AI.APIKey, envPrefix+"AI_API_KEY")
	setString(&cfg.AI.BaseURL, envPrefix+"AI_BASE_URL")
	if err := setBool(&cfg.Scheduler.Enabled, envPrefix+"SCHEDULER_ENABLED"); err != nil {
		return err
	}
	setString(&cfg.Scheduler.Timezone, envPrefix+"SCHEDULER_TIMEZONE")
	setString(&cfg.Scheduler.StreakReminderAt, envPrefix+"SCHEDULER_STREAK_REMINDER_AT")
	setString(&cfg.Scheduler.WeeklyDigestDay, envPrefix+"SCHEDULER_WEEKLY_DIGEST_DAY")
	setString(&cfg.Scheduler.WeeklyDigestAt, envPrefix+"SCHEDULER_WEEKLY_DIGEST_AT")
	setString(&cfg.Cron.Secret, envPrefix+"CRON_SECRET")
	setString(&cfg.Transport.Mode, envPrefix+"TRANSPORT_MODE")
	return setBool(&cfg.Transport.MCPEnabled, envPrefix+"MCP_ENABLED")
}

func setString(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func setInt(dst *int, key string) error {
	v := os.Getenv(key)
	if v == "" {
		return nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fmt.Errorf("invalid %s: %w", key, err)
	}
	*dst = n
	return nil
}

func setBool(dst *bool, key string) error {
	v := os.Getenv(key)
	if v == "" {
		return nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return fmt.Errorf("invalid %s: %w", key, err)
	}
	*dst = b
	return nil
}
