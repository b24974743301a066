package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

func init() {
	// Load .env file - ignore error if file doesn't exist
	if err := godotenv.Load(); err != nil {
		fmt.Printf("Note: .env file not found or could not be loaded: %v\n", err)
	}
}

type Config struct {
	Primary       PrimaryConfig
	Database      DatabaseConfig
	Server        ServerConfig
	Auth          AuthConfig
	Redis         RedisConfig
	Kafka         KafkaConfig
	Sweeper       SweeperConfig
	Observability *ObservabilityConfig
}

type PrimaryConfig struct {
	Env string
}

type DatabaseConfig struct {
	Host            string
	Port            int
	User            string
	Password        string
	Name            string
	SSLMode         string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime int
	ConnMaxIdleTime int
}

type ServerConfig struct {
	Port               string
	ReadTimeout        int
	WriteTimeout       int
	IdleTimeout        int
	CORSAllowedOrigins []string
}

// AuthConfig carries the signing secret for session tokens and the shared
// secret required to register an admin account. Both must be supplied from
// the environment; startup fails if either is missing.
type AuthConfig struct {
	JWTSecret     string
	AdminSecret   string
	SessionCookie string
	SecureCookie  bool
}

type RedisConfig struct {
	Address      string
	Password     string
	DB           int
	PoolSize     int
	MinIdleConns int
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	LockTTL      time.Duration
	KeyPrefix    string
}

type KafkaConfig struct {
	Brokers []string
}

type SweeperConfig struct {
	Interval  time.Duration
	BatchSize int
}

type ObservabilityConfig struct {
	ServiceName  string
	Environment  string
	Logging      LoggingConfig
	NewRelic     NewRelicConfig
	HealthChecks HealthChecksConfig
}

type LoggingConfig struct {
	Level              string
	Format             string
	SlowQueryThreshold time.Duration
}

type NewRelicConfig struct {
	LicenseKey                string
	AppLogForwardingEnabled   bool
	DistributedTracingEnabled bool
	DebugLogging              bool
}

type HealthChecksConfig struct {
	Enabled  bool
	Interval time.Duration
	Timeout  time.Duration
	Checks   []string
}

// Helper functions for parsing env vars
func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return fallback
}

func getEnvSlice(key string, fallback []string) []string {
	if value := os.Getenv(key); value != "" {
		return strings.Split(value, ",")
	}
	return fallback
}

func (c *ObservabilityConfig) GetLogLevel() string {
	if c.Logging.Level == "" {
		switch c.Environment {
		case "production":
			return "info"
		case "development":
			return "debug"
		default:
			return "info"
		}
	}
	return c.Logging.Level
}

func (c *ObservabilityConfig) IsProduction() bool {
	return c.Environment == "production"
}

func LoadConfig() (*Config, error) {
	cfg := &Config{
		Primary: PrimaryConfig{
			Env: getEnv("AGRIBID_ENV", "development"),
		},
		Database: DatabaseConfig{
			Host:            getEnv("AGRIBID_DB_HOST", "localhost"),
			Port:            getEnvInt("AGRIBID_DB_PORT", 5432),
			User:            getEnv("AGRIBID_DB_USER", "agribid"),
			Password:        getEnv("AGRIBID_DB_PASSWORD", ""),
			Name:            getEnv("AGRIBID_DB_NAME", "agribid"),
			SSLMode:         getEnv("AGRIBID_DB_SSLMODE", "disable"),
			MaxOpenConns:    getEnvInt("AGRIBID_DB_MAX_OPEN_CONNS", 25),
			MaxIdleConns:    getEnvInt("AGRIBID_DB_MAX_IDLE_CONNS", 10),
			ConnMaxLifetime: getEnvInt("AGRIBID_DB_CONN_MAX_LIFETIME", 300),
			ConnMaxIdleTime: getEnvInt("AGRIBID_DB_CONN_MAX_IDLE_TIME", 60),
		},
		Server: ServerConfig{
			Port:               getEnv("AGRIBID_SERVER_PORT", "8080"),
			ReadTimeout:        getEnvInt("AGRIBID_SERVER_READ_TIMEOUT", 30),
			WriteTimeout:       getEnvInt("AGRIBID_SERVER_WRITE_TIMEOUT", 30),
			IdleTimeout:        getEnvInt("AGRIBID_SERVER_IDLE_TIMEOUT", 60),
			CORSAllowedOrigins: getEnvSlice("AGRIBID_SERVER_CORS_ORIGINS", []string{"*"}),
		},
		Auth: AuthConfig{
			JWTSecret:     os.Getenv("AGRIBID_JWT_SECRET"),
			AdminSecret:   os.Getenv("AGRIBID_ADMIN_SECRET"),
			SessionCookie: getEnv("AGRIBID_SESSION_COOKIE", "agribid_session"),
			SecureCookie:  getEnvBool("AGRIBID_SESSION_SECURE", false),
		},
		Redis: RedisConfig{
			Address:      getEnv("AGRIBID_REDIS_ADDRESS", "localhost:6379"),
			Password:     getEnv("AGRIBID_REDIS_PASSWORD", ""),
			DB:           getEnvInt("AGRIBID_REDIS_DB", 0),
			PoolSize:     getEnvInt("AGRIBID_REDIS_POOL_SIZE", 10),
			MinIdleConns: getEnvInt("AGRIBID_REDIS_MIN_IDLE_CONNS", 5),
			DialTimeout:  getEnvDuration("AGRIBID_REDIS_DIAL_TIMEOUT", 5*time.Second),
			ReadTimeout:  getEnvDuration("AGRIBID_REDIS_READ_TIMEOUT", 3*time.Second),
			WriteTimeout: getEnvDuration("AGRIBID_REDIS_WRITE_TIMEOUT", 3*time.Second),
			LockTTL:      getEnvDuration("AGRIBID_REDIS_LOCK_TTL", 30*time.Second),
			KeyPrefix:    getEnv("AGRIBID_REDIS_KEY_PREFIX", "agribid:"),
		},
		Kafka: KafkaConfig{
			Brokers: getEnvSlice("AGRIBID_KAFKA_BROKERS", []string{"localhost:9092"}),
		},
		Sweeper: SweeperConfig{
			Interval:  getEnvDuration("AGRIBID_SWEEPER_INTERVAL", time.Minute),
			BatchSize: getEnvInt("AGRIBID_SWEEPER_BATCH_SIZE", 100),
		},
		Observability: &ObservabilityConfig{
			ServiceName: "AgriBid",
			Environment: getEnv("AGRIBID_ENV", "development"),
			Logging: LoggingConfig{
				Level:              getEnv("AGRIBID_LOG_LEVEL", "debug"),
				Format:             getEnv("AGRIBID_LOG_FORMAT", "console"),
				SlowQueryThreshold: getEnvDuration("AGRIBID_LOG_SLOW_QUERY_THRESHOLD", 100*time.Millisecond),
			},
			NewRelic: NewRelicConfig{
				LicenseKey:                getEnv("AGRIBID_NEWRELIC_LICENSE_KEY", ""),
				AppLogForwardingEnabled:   getEnvBool("AGRIBID_NEWRELIC_LOG_FORWARDING", true),
				DistributedTracingEnabled: getEnvBool("AGRIBID_NEWRELIC_DISTRIBUTED_TRACING", true),
				DebugLogging:              getEnvBool("AGRIBID_NEWRELIC_DEBUG", false),
			},
			HealthChecks: HealthChecksConfig{
				Enabled:  getEnvBool("AGRIBID_HEALTHCHECK_ENABLED", true),
				Interval: getEnvDuration("AGRIBID_HEALTHCHECK_INTERVAL", 30*time.Second),
				Timeout:  getEnvDuration("AGRIBID_HEALTHCHECK_TIMEOUT", 5*time.Second),
				Checks:   getEnvSlice("AGRIBID_HEALTHCHECK_CHECKS", []string{"database", "redis"}),
			},
		},
	}

	// Validate required fields. Secrets have no embedded fallback on purpose.
	if cfg.Database.Host == "" {
		return nil, fmt.Errorf("AGRIBID_DB_HOST is required")
	}
	if cfg.Database.Name == "" {
		return nil, fmt.Errorf("AGRIBID_DB_NAME is required")
	}
	if cfg.Auth.JWTSecret == "" {
		return nil, fmt.Errorf("AGRIBID_JWT_SECRET is required")
	}
	if cfg.Auth.AdminSecret == "" {
		return nil, fmt.Errorf("AGRIBID_ADMIN_SECRET is required")
	}

	return cfg, nil
}
