package configs

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Server    ServerConfig
	Database  DatabaseConfig
	Redis     RedisConfig
	Log       LogConfig
	Semaphore SemaphoreConfig
	RateLimit RateLimitConfig
	Alert     AlertConfig
	Push      PushConfig
}

type ServerConfig struct {
	Host         string
	Port         string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration
	TLSCertFile  string
	TLSKeyFile   string
}

type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
	SSLMode  string
	DSN      string
	// Connection pool settings
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	ConnMaxIdleTime time.Duration
}

type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
	// Pool and timeout settings
	PoolSize     int
	MinIdleConns int
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	PoolTimeout  time.Duration
	IdleTimeout  time.Duration
}

type LogConfig struct {
	Level  string
	Format string // json or text
}

// SemaphoreConfig holds settings for the upstream SMS provider.
type SemaphoreConfig struct {
	APIKey          string
	SenderName      string
	MessagesURL     string
	AccountURL      string
	Timeout         time.Duration
	BalanceCacheTTL time.Duration
}

// RateLimitConfig controls the per-client admission window on the SMS endpoints.
type RateLimitConfig struct {
	MaxRequests int
	Window      time.Duration
}

// AlertConfig controls the operator low-balance email alert.
type AlertConfig struct {
	SendGridAPIKey      string
	FromEmail           string
	ToEmail             string
	LowBalanceThreshold float64
	MinInterval         time.Duration
}

type PushConfig struct {
	WebhookURL string
	Timeout    time.Duration
}

func Load() (*Config, error) {
	// Load .env file if it exists
	_ = godotenv.Load()

	cfg := &Config{
		Server: ServerConfig{
			Host:         getEnv("SERVER_HOST", "0.0.0.0"),
			Port:         getEnv("SERVER_PORT", "8080"),
			ReadTimeout:  getDurationEnv("SERVER_READ_TIMEOUT", 30*time.Second),
			WriteTimeout: getDurationEnv("SERVER_WRITE_TIMEOUT", 30*time.Second),
			IdleTimeout:  getDurationEnv("SERVER_IDLE_TIMEOUT", 120*time.Second),
			TLSCertFile:  getEnv("TLS_CERT_FILE", ""),
			TLSKeyFile:   getEnv("TLS_KEY_FILE", ""),
		},
		Database: DatabaseConfig{
			Host:            getEnv("DB_HOST", "localhost"),
			Port:            getEnv("DB_PORT", "5432"),
			User:            getEnv("DB_USER", "postgres"),
			Password:        getEnv("DB_PASSWORD", "postgres"),
			DBName:          getEnv("DB_NAME", "jeepni_db"),
			SSLMode:         getEnv("DB_SSL_MODE", "disable"),
			MaxOpenConns:    getIntEnv("DB_MAX_OPEN_CONNS", 25),
			MaxIdleConns:    getIntEnv("DB_MAX_IDLE_CONNS", 25),
			ConnMaxLifetime: getDurationEnv("DB_CONN_MAX_LIFETIME", 30*time.Minute),
			ConnMaxIdleTime: getDurationEnv("DB_CONN_MAX_IDLE_TIME", 5*time.Minute),
		},
		Redis: RedisConfig{
			Host:         getEnv("REDIS_HOST", "localhost"),
			Port:         getEnv("REDIS_PORT", "6379"),
			Password:     getEnv("REDIS_PASSWORD", ""),
			DB:           getIntEnv("REDIS_DB", 0),
			PoolSize:     getIntEnv("REDIS_POOL_SIZE", 10),
			MinIdleConns: getIntEnv("REDIS_MIN_IDLE_CONNS", 2),
			DialTimeout:  getDurationEnv("REDIS_DIAL_TIMEOUT", 5*time.Second),
			ReadTimeout:  getDurationEnv("REDIS_READ_TIMEOUT", 3*time.Second),
			WriteTimeout: getDurationEnv("REDIS_WRITE_TIMEOUT", 3*time.Second),
			PoolTimeout:  getDurationEnv("REDIS_POOL_TIMEOUT", 4*time.Second),
			IdleTimeout:  getDurationEnv("REDIS_IDLE_TIMEOUT", 5*time.Minute),
		},
		Log: LogConfig{
			Level:  getEnv("LOG_LEVEL", "info"),
			Format: getEnv("LOG_FORMAT", "json"),
		},
		Semaphore: SemaphoreConfig{
			APIKey:          normalizeAPIKey(os.Getenv("SEMAPHORE_API_KEY")),
			SenderName:      getEnv("SEMAPHORE_SENDER_NAME", "SEMAPHORE"),
			MessagesURL:     getEnv("SEMAPHORE_MESSAGES_URL", "https://api.semaphore.co/api/v4/messages"),
			AccountURL:      getEnv("SEMAPHORE_ACCOUNT_URL", "https://api.semaphore.co/api/v4/account"),
			Timeout:         getDurationEnv("SEMAPHORE_TIMEOUT", 15*time.Second),
			BalanceCacheTTL: getDurationEnv("SEMAPHORE_BALANCE_CACHE_TTL", 60*time.Second),
		},
		RateLimit: RateLimitConfig{
			MaxRequests: getIntEnv("RATE_LIMIT_MAX_REQUESTS", 10),
			Window:      getDurationEnv("RATE_LIMIT_WINDOW", time.Minute),
		},
		Alert: AlertConfig{
			SendGridAPIKey:      getEnv("SENDGRID_API_KEY", ""),
			FromEmail:           getEnv("ALERT_FROM_EMAIL", "alerts@jeepni.app"),
			ToEmail:             getEnv("ALERT_TO_EMAIL", ""),
			LowBalanceThreshold: getFloatEnv("ALERT_LOW_BALANCE_THRESHOLD", 50),
			MinInterval:         getDurationEnv("ALERT_MIN_INTERVAL", 6*time.Hour),
		},
		Push: PushConfig{
			WebhookURL: getEnv("PUSH_WEBHOOK_URL", ""),
			Timeout:    getDurationEnv("PUSH_TIMEOUT", 10*time.Second),
		},
	}

	// Build database DSN
	cfg.Database.DSN = fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		cfg.Database.Host,
		cfg.Database.Port,
		cfg.Database.User,
		cfg.Database.Password,
		cfg.Database.DBName,
		cfg.Database.SSLMode,
	)

	return cfg, nil
}

// normalizeAPIKey rejects empty or obvious placeholder keys so the gateway
// refuses requests up front instead of forwarding a doomed credential upstream.
func normalizeAPIKey(raw string) string {
	key := strings.TrimSpace(raw)
	if key == "" {
		return ""
	}
	upper := strings.ToUpper(key)
	for _, prefix := range []string{"SET_", "ENTER_", "REPLACE_", "YOUR_"} {
		if strings.HasPrefix(upper, prefix) {
			return ""
		}
	}
	if strings.Contains(upper, "CHANGE") {
		return ""
	}
	return key
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getIntEnv(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getDurationEnv(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

func getFloatEnv(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return f
		}
	}
	return defaultValue
}
