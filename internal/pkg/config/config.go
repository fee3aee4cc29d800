package config

import (
	"fmt"
	"net"
	"strings"
	"time"

	"car-rental-core/internal/pkg/errs"

	"github.com/kelseyhightower/envconfig"
)

// -----------------------------------------------------------------------------
// Environment variable configuration guidelines:
// - required: Values that differ between environments (port, DB connection, etc.), security settings
// - default: Values common across all environments (timezone, timeout, etc.), standard settings
// -----------------------------------------------------------------------------

type Config struct {
	Server    ServerConfig
	DB        DBConfig
	CORS      CORSConfig
	Log       LogConfig
	JWT       JWTConfig
	Redis     RedisConfig
	Notify    NotifyConfig
	Lifecycle LifecycleConfig
	RateLimit RateLimitConfig
}

type ServerConfig struct {
	Port string `envconfig:"PORT" required:"true"`
	// TrustedProxies lists the IPs or CIDRs allowed to set X-Forwarded-For.
	// Empty trusts no proxy, so clients are keyed by the peer address.
	TrustedProxies []string `envconfig:"TRUSTED_PROXIES"`
}

type DBConfig struct {
	Host     string `envconfig:"DB_HOST" default:"localhost"`
	Port     string `envconfig:"DB_PORT" default:"5432"`
	User     string `envconfig:"DB_USER" required:"true"`
	Password string `envconfig:"DB_PASSWORD" required:"true"`
	DBName   string `envconfig:"DB_NAME" required:"true"`
	SSLMode  string `envconfig:"DB_SSL_MODE" default:"disable"`
	TimeZone string `envconfig:"DB_TIMEZONE" default:"UTC"`
	MaxConns int32  `envconfig:"DB_MAX_CONNS" default:"20"`
}

type CORSConfig struct {
	AllowOrigins     []string      `envconfig:"CORS_ALLOW_ORIGINS" default:"http://localhost:3000,http://localhost:8080"`
	AllowMethods     []string      `envconfig:"CORS_ALLOW_METHODS" default:"GET,POST,PUT,PATCH,DELETE,OPTIONS"`
	AllowHeaders     []string      `envconfig:"CORS_ALLOW_HEADERS" default:"Origin,Content-Type,Accept,Authorization,Idempotency-Key"`
	ExposeHeaders    []string      `envconfig:"CORS_EXPOSE_HEADERS" default:"Content-Length"`
	AllowCredentials bool          `envconfig:"CORS_ALLOW_CREDENTIALS" default:"true"`
	MaxAge           time.Duration `envconfig:"CORS_MAX_AGE" default:"12h"`
}

type LogConfig struct {
	Level          string `envconfig:"LOG_LEVEL" default:"info"`
	TimeZone       string `envconfig:"LOG_TIMEZONE" default:"UTC"`
	TimeFormat     string `envconfig:"LOG_TIME_FORMAT" default:"2006-01-02 15:04:05.000"`
	TimeZoneOffset int    `envconfig:"LOG_TIMEZONE_OFFSET" default:"0"`
	// File enables a rotated log file in addition to stdout.
	File       string `envconfig:"LOG_FILE"`
	MaxSizeMB  int    `envconfig:"LOG_MAX_SIZE_MB" default:"100"`
	MaxBackups int    `envconfig:"LOG_MAX_BACKUPS" default:"5"`
	MaxAgeDays int    `envconfig:"LOG_MAX_AGE_DAYS" default:"28"`
}

type JWTConfig struct {
	Secret   string `envconfig:"JWT_SECRET" required:"true"`
	Duration string `envconfig:"JWT_DURATION" default:"24h"`
}

// RedisConfig is optional; an empty address disables the idempotency cache.
type RedisConfig struct {
	Addr     string `envconfig:"REDIS_ADDR"`
	Password string `envconfig:"REDIS_PASSWORD"`
	DB       int    `envconfig:"REDIS_DB" default:"0"`
}

type NotifyConfig struct {
	// Publisher selects the outbox sink: log, kafka or sqs.
	Publisher    string        `envconfig:"NOTIFY_PUBLISHER" default:"log"`
	KafkaBrokers []string      `envconfig:"NOTIFY_KAFKA_BROKERS" default:"localhost:9092"`
	KafkaTopic   string        `envconfig:"NOTIFY_KAFKA_TOPIC" default:"reservation-events"`
	SQSQueueURL  string        `envconfig:"NOTIFY_SQS_QUEUE_URL"`
	PollInterval time.Duration `envconfig:"NOTIFY_POLL_INTERVAL" default:"5s"`
	BatchSize    int32         `envconfig:"NOTIFY_BATCH_SIZE" default:"50"`
	MaxAttempts  int32         `envconfig:"NOTIFY_MAX_ATTEMPTS" default:"5"`
}

type LifecycleConfig struct {
	SweepInterval  time.Duration `envconfig:"SWEEP_INTERVAL" default:"15m"`
	SweepBatchSize int32         `envconfig:"SWEEP_BATCH_SIZE" default:"200"`
	PaymentTimeout time.Duration `envconfig:"PAYMENT_TIMEOUT" default:"30m"`
	IdempotencyTTL time.Duration `envconfig:"IDEMPOTENCY_TTL" default:"24h"`
	ReminderHour   int           `envconfig:"REMINDER_HOUR" default:"7"`
	ReminderMinute int           `envconfig:"REMINDER_MINUTE" default:"0"`
	WorkersEnabled bool          `envconfig:"WORKERS_ENABLED" default:"true"`
}

type RateLimitConfig struct {
	RequestsPerMinute float64 `envconfig:"RATE_LIMIT_RPM" default:"120"`
	Burst             int     `envconfig:"RATE_LIMIT_BURST" default:"20"`
}

func (c *DBConfig) BuildDSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s?sslmode=%s&timezone=%s",
		c.User, c.Password, c.Host, c.Port, c.DBName, c.SSLMode, c.TimeZone,
	)
}

func LoadConfig() (Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return Config{}, errs.Wrap(err, "failed to process env config")
	}
	return cfg, nil
}

// Validate reports every setting envconfig cannot check on its own.
func (c Config) Validate() error {
	var problems []string
	add := func(format string, args ...any) {
		problems = append(problems, fmt.Sprintf(format, args...))
	}

	for _, p := range c.Server.TrustedProxies {
		if !validProxy(p) {
			add("TRUSTED_PROXIES entry %q is not an IP or CIDR", p)
		}
	}

	switch c.Notify.Publisher {
	case "log", "kafka":
	case "sqs":
		if c.Notify.SQSQueueURL == "" {
			add("NOTIFY_SQS_QUEUE_URL is required when NOTIFY_PUBLISHER=sqs")
		}
	default:
		add("NOTIFY_PUBLISHER must be one of log, kafka, sqs (got %q)", c.Notify.Publisher)
	}
	if c.Notify.Publisher == "kafka" && len(c.Notify.KafkaBrokers) == 0 {
		add("NOTIFY_KAFKA_BROKERS must not be empty when NOTIFY_PUBLISHER=kafka")
	}

	if c.Lifecycle.SweepInterval <= 0 {
		add("SWEEP_INTERVAL must be positive")
	}
	if c.Lifecycle.SweepBatchSize <= 0 {
		add("SWEEP_BATCH_SIZE must be positive")
	}
	if c.Lifecycle.PaymentTimeout <= 0 {
		add("PAYMENT_TIMEOUT must be positive")
	}
	if c.Lifecycle.IdempotencyTTL <= 0 {
		add("IDEMPOTENCY_TTL must be positive")
	}
	if c.Lifecycle.ReminderHour < 0 || c.Lifecycle.ReminderHour > 23 {
		add("REMINDER_HOUR must be within 0-23 (got %d)", c.Lifecycle.ReminderHour)
	}
	if c.Lifecycle.ReminderMinute < 0 || c.Lifecycle.ReminderMinute > 59 {
		add("REMINDER_MINUTE must be within 0-59 (got %d)", c.Lifecycle.ReminderMinute)
	}

	if len(problems) == 0 {
		return nil
	}
	return errs.Newf("invalid configuration: %s", strings.Join(problems, "; "))
}

func validProxy(p string) bool {
	if net.ParseIP(p) != nil {
		return true
	}
	_, _, err := net.ParseCIDR(p)
	return err == nil
}

func NewTestConfig() Config {
	return Config{
		Server: ServerConfig{
			Port: "8889", // Test port
		},
		DB: DBConfig{
			Host:     "localhost",
			Port:     "15433", // Test DB port
			User:     "test",
			Password: "test",
			DBName:   "test_db",
			SSLMode:  "disable",
			TimeZone: "UTC",
			MaxConns: 10,
		},
		Log: LogConfig{
			Level:          "error", // Error level only for tests
			TimeZone:       "UTC",
			TimeFormat:     "2006-01-02 15:04:05.000",
			TimeZoneOffset: 0,
		},
		JWT: JWTConfig{
			Secret:   "test-secret",
			Duration: "1h",
		},
		Notify: NotifyConfig{
			Publisher:    "log",
			PollInterval: time.Second,
			BatchSize:    10,
			MaxAttempts:  3,
		},
		Lifecycle: LifecycleConfig{
			SweepInterval:  15 * time.Minute,
			SweepBatchSize: 50,
			PaymentTimeout: 30 * time.Minute,
			IdempotencyTTL: 24 * time.Hour,
			ReminderHour:   7,
			WorkersEnabled: false,
		},
		RateLimit: RateLimitConfig{
			RequestsPerMinute: 6000,
			Burst:             1000,
		},
	}
}
