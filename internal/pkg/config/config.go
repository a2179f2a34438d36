package config

import (
	"fmt"
	"time"
	_ "time/tzdata" // BOOKING_TIMEZONE resolves without host zoneinfo

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
	Storage   StorageConfig
	Redis     RedisConfig
	CORS      CORSConfig
	Log       LogConfig
	JWT       JWTConfig
	Booking   BookingConfig
	RateLimit RateLimitConfig
	Notify    NotifyConfig
	Metrics   MetricsConfig
}

type ServerConfig struct {
	Port string `envconfig:"PORT" required:"true"`
}

type DBConfig struct {
	Host     string `envconfig:"DB_HOST" default:"localhost"`
	Port     string `envconfig:"DB_PORT" default:"5432"`
	User     string `envconfig:"DB_USER" default:"postgres"`
	Password string `envconfig:"DB_PASSWORD" default:""`
	DBName   string `envconfig:"DB_NAME" default:"marketplace"`
	SSLMode  string `envconfig:"DB_SSL_MODE" default:"disable"`
	TimeZone string `envconfig:"DB_TIMEZONE" default:"UTC"`
	MaxConns int32  `envconfig:"DB_MAX_CONNS" default:"20"`
}

// postgres | memory
type StorageConfig struct {
	Driver string `envconfig:"STORAGE_DRIVER" default:"postgres"`
}

// Empty URL selects the in-process hold store.
type RedisConfig struct {
	URL       string        `envconfig:"REDIS_URL" default:""`
	KeyPrefix string        `envconfig:"REDIS_KEY_PREFIX" default:"slot_lock"`
	Timeout   time.Duration `envconfig:"REDIS_TIMEOUT" default:"2s"`
}

type CORSConfig struct {
	AllowOrigins     []string      `envconfig:"CORS_ALLOW_ORIGINS" default:"http://localhost:3000,http://localhost:8080"`
	AllowMethods     []string      `envconfig:"CORS_ALLOW_METHODS" default:"GET,POST,PUT,PATCH,DELETE,OPTIONS"`
	AllowHeaders     []string      `envconfig:"CORS_ALLOW_HEADERS" default:"Origin,Content-Type,Accept,Authorization"`
	ExposeHeaders    []string      `envconfig:"CORS_EXPOSE_HEADERS" default:"Content-Length"`
	AllowCredentials bool          `envconfig:"CORS_ALLOW_CREDENTIALS" default:"true"`
	MaxAge           time.Duration `envconfig:"CORS_MAX_AGE" default:"12h"`
}

type LogConfig struct {
	Level          string `envconfig:"LOG_LEVEL" default:"info"`
	TimeZone       string `envconfig:"LOG_TIMEZONE" default:"UTC"`
	TimeFormat     string `envconfig:"LOG_TIME_FORMAT" default:"2006-01-02 15:04:05.000"`
	TimeZoneOffset int    `envconfig:"LOG_TIMEZONE_OFFSET" default:"0"`
}

// Empty Issuer skips the iss check.
type JWTConfig struct {
	Secret   string        `envconfig:"JWT_SECRET" required:"true"`
	Duration time.Duration `envconfig:"JWT_DURATION" default:"24h"`
	Issuer   string        `envconfig:"JWT_ISSUER" default:""`
	Leeway   time.Duration `envconfig:"JWT_LEEWAY" default:"30s"`
}

type BookingConfig struct {
	TimeZone             string        `envconfig:"BOOKING_TIMEZONE" default:"UTC"`
	SlotGranularity      time.Duration `envconfig:"BOOKING_SLOT_GRANULARITY" default:"30m"`
	AllowedDurations     []int         `envconfig:"BOOKING_ALLOWED_DURATIONS" default:"30,60,90"`
	ReservationTTL       time.Duration `envconfig:"BOOKING_RESERVATION_TTL" default:"5m"`
	InitialStatus        string        `envconfig:"BOOKING_INITIAL_STATUS" default:"confirmed"`
	EnforceCompleteAfter bool          `envconfig:"BOOKING_ENFORCE_COMPLETE_AFTER_END" default:"false"`
	CancelMinNotice      time.Duration `envconfig:"BOOKING_CANCEL_MIN_NOTICE" default:"0s"`
	FallbackEnabled      bool          `envconfig:"BOOKING_FALLBACK_ENABLED" default:"false"`
	MeetingBaseURL       string        `envconfig:"BOOKING_MEETING_BASE_URL" default:"https://meet.jit.si"`
}

// Location resolves TimeZone as an IANA name.
func (c BookingConfig) Location() (*time.Location, error) {
	loc, err := time.LoadLocation(c.TimeZone)
	if err != nil {
		return nil, fmt.Errorf("invalid BOOKING_TIMEZONE %q: %w", c.TimeZone, err)
	}
	return loc, nil
}

// Validate rejects settings envconfig accepts but the booking policy cannot use.
func (c BookingConfig) Validate() error {
	if _, err := c.Location(); err != nil {
		return err
	}
	switch c.InitialStatus {
	case "pending", "confirmed":
	default:
		return fmt.Errorf("invalid BOOKING_INITIAL_STATUS %q: must be pending or confirmed", c.InitialStatus)
	}
	return nil
}

type RateLimitConfig struct {
	Enabled bool          `envconfig:"RATE_LIMIT_ENABLED" default:"true"`
	RPS     float64       `envconfig:"RATE_LIMIT_RPS" default:"5"`
	Burst   int           `envconfig:"RATE_LIMIT_BURST" default:"10"`
	IdleTTL time.Duration `envconfig:"RATE_LIMIT_IDLE_TTL" default:"10m"`
}

type NotifyConfig struct {
	Enabled   bool   `envconfig:"NOTIFY_ENABLED" default:"true"`
	Schedule  string `envconfig:"NOTIFY_SCHEDULE" default:"@every 30s"`
	BatchSize int    `envconfig:"NOTIFY_BATCH_SIZE" default:"50"`
}

type MetricsConfig struct {
	Namespace string `envconfig:"METRICS_NAMESPACE" default:"marketplace"`
	Subsystem string `envconfig:"METRICS_SUBSYSTEM" default:"booking"`
}

func (c *DBConfig) BuildDSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s?sslmode=%s&timezone=%s",
		c.User, c.Password, c.Host, c.Port, c.DBName, c.SSLMode, c.TimeZone,
	)
}

func LoadConfig() (Config, error) {
	var cfg Config
	err := envconfig.Process("", &cfg)
	if err != nil {
		return Config{}, fmt.Errorf("failed to process env config: %w", err)
	}
	if err := cfg.Booking.Validate(); err != nil {
		return Config{}, fmt.Errorf("failed to validate booking config: %w", err)
	}
	return cfg, nil
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
			MaxConns: 20,
		},
		Storage: StorageConfig{Driver: "postgres"},
		Redis:   RedisConfig{KeyPrefix: "slot_lock", Timeout: 2 * time.Second},
		Log: LogConfig{
			Level:          "error", // Error level only for tests
			TimeZone:       "UTC",
			TimeFormat:     "2006-01-02 15:04:05.000",
			TimeZoneOffset: 0,
		},
		JWT: JWTConfig{
			Secret:   "test-secret",
			Duration: time.Hour,
		},
		Booking: BookingConfig{
			TimeZone:         "UTC",
			SlotGranularity:  30 * time.Minute,
			AllowedDurations: []int{30, 60, 90},
			ReservationTTL:   5 * time.Minute,
			InitialStatus:    "confirmed",
			MeetingBaseURL:   "https://meet.jit.si",
		},
		RateLimit: RateLimitConfig{Enabled: false, RPS: 5, Burst: 10, IdleTTL: 10 * time.Minute},
		Notify:    NotifyConfig{Enabled: false, Schedule: "@every 30s", BatchSize: 50},
		Metrics:   MetricsConfig{Namespace: "marketplace", Subsystem: "booking"},
	}
}
