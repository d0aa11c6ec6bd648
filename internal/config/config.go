package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

const (
	DriverMemory   = "memory"
	DriverPostgres = "postgres"
)

type Config struct {
	APIPort  string `envconfig:"API_PORT" default:"8000"`
	LogLevel string `envconfig:"LOG_LEVEL" default:"info"`

	StoreDriver string `envconfig:"STORE_DRIVER" default:"memory"`
	DBHost      string `envconfig:"DB_HOST" default:"localhost"`
	DBPort      string `envconfig:"DB_PORT" default:"5432"`
	DBUser      string `envconfig:"DB_USER" default:"postgres"`
	DBPassword  string `envconfig:"DB_PASSWORD"`
	DBName      string `envconfig:"DB_NAME" default:"fastapi"`

	RedisAddr   string        `envconfig:"REDIS_ADDR"`
	ETACacheTTL time.Duration `envconfig:"ETA_CACHE_TTL" default:"24h"`

	JWTSecret               string `envconfig:"JWT_SECRET" default:"your-super-secret-key"`
	JWTAlgorithm            string `envconfig:"JWT_ALGORITHM" default:"HS256"`
	AccessTokenExpireMinute int    `envconfig:"ACCESS_TOKEN_EXPIRE_MINUTES" default:"30"`

	DeliveryDays    int      `envconfig:"DELIVERY_DAYS" default:"2"`
	DeliveryMaxDays int      `envconfig:"DELIVERY_MAX_DAYS" default:"3650"`
	DeliveryRule    string   `envconfig:"DELIVERY_RULE" default:"delivery"`
	Holidays        []string `envconfig:"HOLIDAYS"`

	HolidaySourceURL    string        `envconfig:"HOLIDAY_SOURCE_URL" default:"http://localhost:8080/holidays"`
	HolidaySyncInterval time.Duration `envconfig:"HOLIDAY_SYNC_INTERVAL" default:"24h"`

	RateLimitRequests int           `envconfig:"RATE_LIMIT_REQUESTS" default:"60"`
	RateLimitWindow   time.Duration `envconfig:"RATE_LIMIT_WINDOW" default:"1m"`
}

// Load reads the optional .env file, installs the global logger and parses
// the environment.
func Load() (*Config, error) {
	loadEnv()

	cfg := &Config{}
	if err := envconfig.Process("", cfg); err != nil {
		return nil, fmt.Errorf("parse environment: %w", err)
	}

	setupLogger(cfg.LogLevel)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	var errs []error
	switch c.StoreDriver {
	case DriverMemory, DriverPostgres:
	default:
		errs = append(errs, fmt.Errorf("STORE_DRIVER %q: must be %q or %q", c.StoreDriver, DriverMemory, DriverPostgres))
	}
	if c.DeliveryDays < 0 {
		errs = append(errs, fmt.Errorf("DELIVERY_DAYS %d: must not be negative", c.DeliveryDays))
	}
	if c.DeliveryMaxDays <= 0 {
		errs = append(errs, fmt.Errorf("DELIVERY_MAX_DAYS %d: must be positive", c.DeliveryMaxDays))
	} else if c.DeliveryDays > c.DeliveryMaxDays {
		errs = append(errs, fmt.Errorf("DELIVERY_DAYS %d: must not exceed DELIVERY_MAX_DAYS %d", c.DeliveryDays, c.DeliveryMaxDays))
	}
	if c.JWTSecret == "" {
		errs = append(errs, errors.New("JWT_SECRET must be set"))
	}
	if c.AccessTokenExpireMinute <= 0 {
		errs = append(errs, fmt.Errorf("ACCESS_TOKEN_EXPIRE_MINUTES %d: must be positive", c.AccessTokenExpireMinute))
	}
	if c.RateLimitRequests <= 0 || c.RateLimitWindow <= 0 {
		errs = append(errs, errors.New("RATE_LIMIT_REQUESTS and RATE_LIMIT_WINDOW must be positive"))
	}
	return errors.Join(errs...)
}

func (c *Config) AccessTokenTTL() time.Duration {
	return time.Duration(c.AccessTokenExpireMinute) * time.Minute
}

func (c *Config) PostgresDSN() string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=disable", c.DBHost, c.DBPort, c.DBUser, c.DBPassword, c.DBName)
}

func setupLogger(level string) {
	lvl, err := zerolog.ParseLevel(strings.ToLower(level))
	if err != nil || lvl == zerolog.NoLevel {
		lvl = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(lvl)
	log.Logger = zerolog.New(os.Stdout).With().Timestamp().Logger()
}

func loadEnv() {
	paths := []string{".env", "../.env", "../../.env"}
	for _, p := range paths {
		if _, err := os.Stat(p); err == nil {
			_ = godotenv.Load(p)
			return
		}
	}
}
