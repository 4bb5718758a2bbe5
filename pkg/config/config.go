package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/tair/grocery-pos/pkg/database"
)

// Config is the full service configuration, read from the environment
type Config struct {
	ServiceName string
	Environment string
	LogLevel    string
	HTTPPort    string
	GRPCPort    string

	Database database.Config

	JWTSecret string
	JWTTTL    time.Duration

	RedisAddr     string
	RedisPassword string
	RedisDB       int

	KafkaBrokers     []string
	KafkaGroupID     string
	NotificationSink string

	RateLimitPerMinute int
	ReportCacheTTL     time.Duration
	ExpiryWarningDays  int

	TracingEnabled bool
	JaegerEndpoint string

	BootstrapAdmin BootstrapAdmin
}

// BootstrapAdmin describes the first admin created on an empty user table
type BootstrapAdmin struct {
	Username string
	Password string
	Email    string
}

// Notification sinks
const (
	SinkDirect = "direct"
	SinkKafka  = "kafka"
)

// IsDevelopment reports whether pretty console logging should be used
func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

// Load reads an optional .env file and then the process environment
func Load(files ...string) *Config {
	// A missing .env is normal outside local development.
	_ = godotenv.Load(files...)

	tracingEnabled := getBool("TRACING_ENABLED", false)

	cfg := &Config{
		ServiceName: getEnv("OTEL_SERVICE_NAME", "grocery-pos"),
		Environment: getEnv("ENVIRONMENT", "development"),
		LogLevel:    getEnv("LOG_LEVEL", "info"),
		HTTPPort:    getEnv("HTTP_PORT", "8080"),
		GRPCPort:    getEnv("GRPC_PORT", "9090"),
		Database: database.Config{
			Host:          getEnv("DB_HOST", "localhost"),
			Port:          getEnv("DB_PORT", "5432"),
			User:          getEnv("DB_USER", "postgres"),
			Password:      getEnv("DB_PASSWORD", "postgres"),
			DBName:        getEnv("DB_NAME", "grocerydb"),
			SSLMode:       getEnv("DB_SSLMODE", "disable"),
			MaxOpenConns:  getInt("DB_MAX_OPEN_CONNS", 25),
			EnableTracing: tracingEnabled,
		},
		JWTSecret:          getEnv("JWT_SECRET", "change-me"),
		JWTTTL:             getDuration("JWT_TTL", 12*time.Hour),
		RedisAddr:          getEnv("REDIS_ADDR", ""),
		RedisPassword:      getEnv("REDIS_PASSWORD", ""),
		RedisDB:            getInt("REDIS_DB", 0),
		KafkaBrokers:       getList("KAFKA_BROKERS"),
		KafkaGroupID:       getEnv("KAFKA_GROUP_ID", "grocery-pos-notifications"),
		NotificationSink:   getEnv("NOTIFICATION_SINK", SinkDirect),
		RateLimitPerMinute: getInt("RATE_LIMIT_PER_MINUTE", 300),
		ReportCacheTTL:     getDuration("REPORT_CACHE_TTL", 5*time.Minute),
		ExpiryWarningDays:  getInt("EXPIRY_WARNING_DAYS", 7),
		TracingEnabled:     tracingEnabled,
		JaegerEndpoint:     getEnv("JAEGER_ENDPOINT", ""),
		BootstrapAdmin: BootstrapAdmin{
			Username: getEnv("BOOTSTRAP_ADMIN_USERNAME", "admin"),
			Password: getEnv("BOOTSTRAP_ADMIN_PASSWORD", ""),
			Email:    getEnv("BOOTSTRAP_ADMIN_EMAIL", "admin@localhost"),
		},
	}

	if cfg.NotificationSink == SinkKafka && len(cfg.KafkaBrokers) == 0 {
		cfg.NotificationSink = SinkDirect
	}
	return cfg
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getInt(key string, defaultValue int) int {
	if v, err := strconv.Atoi(os.Getenv(key)); err == nil {
		return v
	}
	return defaultValue
}

func getBool(key string, defaultValue bool) bool {
	if v, err := strconv.ParseBool(os.Getenv(key)); err == nil {
		return v
	}
	return defaultValue
}

func getDuration(key string, defaultValue time.Duration) time.Duration {
	if v, err := time.ParseDuration(os.Getenv(key)); err == nil {
		return v
	}
	return defaultValue
}

func getList(key string) []string {
	raw := os.Getenv(key)
	if raw == "" {
		return nil
	}
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
