package config

import (
	"fmt"
	"net"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/fastygo/teamtracker/domain"
)

const (
	MailProviderConsole  = "console"
	MailProviderSendgrid = "sendgrid"
)

// Config aggregates all runtime settings required by the application.
type Config struct {
	AppName     string
	Environment string
	HTTP        HTTPConfig
	Database    DatabaseConfig
	Redis       RedisConfig
	Buffer      BufferConfig
	Context     ContextConfig
	Logger      LoggerConfig
	Migrations  MigrationsConfig
	Mail        MailConfig
	Schedule    ScheduleConfig
	Cache       CacheConfig
}

type HTTPConfig struct {
	Host         string
	Port         string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration
}

type DatabaseConfig struct {
	URL             string
	Host            string
	Port            string
	Name            string
	User            string
	Password        string
	MaxOpenConns    int
	MaxIdleConns    int
	MaxConnLifetime time.Duration
	SSLMode         string
}

type RedisConfig struct {
	URL      string
	Password string
	DB       int
}

type BufferConfig struct {
	Path           string
	RetentionHours int
	SyncInterval   time.Duration
	MaxRetry       int
}

type ContextConfig struct {
	RequestTimeout  time.Duration
	ShutdownTimeout time.Duration
}

type LoggerConfig struct {
	Level    string
	Encoding string
}

type MigrationsConfig struct {
	Enabled bool
	Path    string
}

// MailConfig selects the mail transport and its credentials.
type MailConfig struct {
	Provider       string
	SendgridAPIKey string
	FromEmail      string
	FromName       string
	AppLink        string
}

// ScheduleConfig holds the cron specs of the notification jobs.
type ScheduleConfig struct {
	Enabled      bool
	ReminderSpec string
	SummarySpec  string
	Timezone     string
	JobTimeout   time.Duration
}

type CacheConfig struct {
	LeaderboardTTL time.Duration
}

// Load reads configuration from environment variables (optionally .env)
// and applies defaults so the service can boot in any environment.
func Load() (*Config, error) {
	_ = godotenv.Load(".env")

	cfg := &Config{
		AppName:     getString("APP_NAME", "team-task-tracker"),
		Environment: getString("APP_ENV", "development"),
		HTTP: HTTPConfig{
			Host:         getString("SERVER_HOST", "0.0.0.0"),
			Port:         getString("SERVER_PORT", "8080"),
			ReadTimeout:  getDuration("SERVER_READ_TIMEOUT", 10*time.Second),
			WriteTimeout: getDuration("SERVER_WRITE_TIMEOUT", 10*time.Second),
			IdleTimeout:  getDuration("SERVER_IDLE_TIMEOUT", 120*time.Second),
		},
		Database: DatabaseConfig{
			URL:             os.Getenv("DATABASE_URL"),
			Host:            getString("DB_HOST", "localhost"),
			Port:            getString("DB_PORT", "5432"),
			Name:            getString("DB_NAME", "tracker"),
			User:            getString("DB_USER", "tracker"),
			Password:        os.Getenv("DB_PASSWORD"),
			MaxOpenConns:    getInt("DB_MAX_OPEN_CONNS", 10),
			MaxIdleConns:    getInt("DB_MAX_IDLE_CONNS", 2),
			MaxConnLifetime: getDuration("DB_CONN_LIFETIME", time.Hour),
			SSLMode:         getString("DB_SSLMODE", "disable"),
		},
		Redis: RedisConfig{
			URL:      getString("REDIS_URL", "redis://localhost:6379"),
			Password: os.Getenv("REDIS_PASSWORD"),
			DB:       getInt("REDIS_DB", 0),
		},
		Buffer: BufferConfig{
			Path:           getString("BOLTDB_PATH", "./data/buffer.db"),
			RetentionHours: getInt("BUFFER_RETENTION_HOURS", 24),
			SyncInterval:   getDuration("SYNC_INTERVAL_SECONDS", 30*time.Second),
			MaxRetry:       getInt("MAX_RETRY_ATTEMPTS", 3),
		},
		Context: ContextConfig{
			RequestTimeout:  getDuration("REQUEST_TIMEOUT_SECONDS", 5*time.Second),
			ShutdownTimeout: getDuration("SHUTDOWN_TIMEOUT_SECONDS", 15*time.Second),
		},
		Logger: LoggerConfig{
			Level:    getString("LOG_LEVEL", "info"),
			Encoding: getString("LOG_ENCODING", "json"),
		},
		Migrations: MigrationsConfig{
			Enabled: getBool("RUN_MIGRATIONS", true),
			Path:    getString("MIGRATIONS_PATH", "./assets/migrations"),
		},
		Mail: MailConfig{
			Provider:       strings.ToLower(getString("MAIL_PROVIDER", MailProviderConsole)),
			SendgridAPIKey: os.Getenv("SENDGRID_API_KEY"),
			FromEmail:      getString("SENDER_EMAIL", "noreply@localhost"),
			FromName:       getString("SENDER_NAME", "Task Tracker"),
			AppLink:        os.Getenv("APP_LINK"),
		},
		Schedule: ScheduleConfig{
			Enabled:      getBool("SCHEDULE_ENABLED", true),
			ReminderSpec: getString("REMINDER_CRON", "0 9 * * *"),
			SummarySpec:  getString("SUMMARY_CRON", "0 21 * * *"),
			Timezone:     getString("TZ_NAME", "UTC"),
			JobTimeout:   getDuration("JOB_TIMEOUT_SECONDS", 5*time.Minute),
		},
		Cache: CacheConfig{
			LeaderboardTTL: getDuration("LEADERBOARD_CACHE_TTL", time.Minute),
		},
	}

	if cfg.Database.URL == "" {
		cfg.Database.URL = buildPostgresURL(cfg)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// MustLoad panics if configuration cannot be loaded.
func MustLoad() *Config {
	cfg, err := Load()
	if err != nil {
		panic(err)
	}
	return cfg
}

// Validate rejects combinations that would only fail later, at send time.
func (c *Config) Validate() error {
	switch c.Mail.Provider {
	case MailProviderConsole:
	case MailProviderSendgrid:
		if c.Mail.SendgridAPIKey == "" {
			return domain.NewError(domain.ErrCodeConfiguration, "SENDGRID_API_KEY is required for the sendgrid provider")
		}
		if c.Mail.FromEmail == "" {
			return domain.NewError(domain.ErrCodeConfiguration, "SENDER_EMAIL is required for the sendgrid provider")
		}
	default:
		return domain.NewError(domain.ErrCodeConfiguration, fmt.Sprintf("unknown mail provider %q", c.Mail.Provider))
	}
	if _, err := c.Location(); err != nil {
		return domain.WrapError(domain.ErrCodeConfiguration, "invalid TZ_NAME", err)
	}
	return nil
}

// Location resolves the timezone used for "today" and for cron schedules.
func (c *Config) Location() (*time.Location, error) {
	if c.Schedule.Timezone == "" {
		return time.UTC, nil
	}
	return time.LoadLocation(c.Schedule.Timezone)
}

// buildPostgresURL assembles a DSN from the DB_* parts, escaping credentials.
func buildPostgresURL(cfg *Config) string {
	db := cfg.Database
	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(db.User, db.Password),
		Host:     net.JoinHostPort(db.Host, db.Port),
		Path:     "/" + db.Name,
		RawQuery: url.Values{"sslmode": {db.SSLMode}}.Encode(),
	}
	return u.String()
}

func getString(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getInt(key string, fallback int) int {
	if val := os.Getenv(key); val != "" {
		if parsed, err := strconv.Atoi(val); err == nil {
			return parsed
		}
	}
	return fallback
}

func getBool(key string, fallback bool) bool {
	if val := os.Getenv(key); val != "" {
		if parsed, err := strconv.ParseBool(val); err == nil {
			return parsed
		}
	}
	return fallback
}

func getDuration(key string, fallback time.Duration) time.Duration {
	if val := os.Getenv(key); val != "" {
		if parsed, err := time.ParseDuration(val); err == nil {
			return parsed
		}
		if seconds, err := strconv.Atoi(val); err == nil {
			return time.Duration(seconds) * time.Second
		}
	}
	return fallback
}

// Address returns the HTTP listen address for the fasthttp server.
func (c *Config) Address() string {
	return fmt.Sprintf("%s:%s", c.HTTP.Host, c.HTTP.Port)
}
