package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds application configuration
type Config struct {
	Database  DatabaseConfig
	Server    ServerConfig
	Logging   LoggingConfig
	CORS      CORSConfig
	Auth      AuthConfig
	Supabase  SupabaseConfig
	Cache     CacheConfig
	Analytics AnalyticsConfig
	Identity  IdentityConfig
}

// DatabaseConfig holds database configuration
type DatabaseConfig struct {
	Host            string
	Port            string
	User            string
	Password        string
	Name            string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

// ServerConfig holds server configuration
type ServerConfig struct {
	Host         string
	Port         string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level  string
	Format string
	Output string
}

// CORSConfig holds CORS configuration
type CORSConfig struct {
	AllowedOrigins []string
	AllowedMethods []string
	AllowedHeaders []string
}

// AuthConfig holds authentication configuration
type AuthConfig struct {
	JWTSecret     string
	AdminUsername string
	AdminPassword string // bootstrap password for the admin user, empty disables bootstrap
}

// SupabaseConfig holds the optional Supabase REST read path.
// When URL is empty the template library is read straight from Postgres.
type SupabaseConfig struct {
	URL            string
	ServiceRoleKey string
}

// CacheConfig holds per-feature response cache TTLs
type CacheConfig struct {
	TemplateUsageTTL time.Duration
	LeaderboardTTL   time.Duration
	MetricsTTL       time.Duration
}

// AnalyticsConfig holds thresholds for derived metrics
type AnalyticsConfig struct {
	PMFWindowDays       int // lookback window for survey readiness
	PMFMinActiveDays    int // distinct active days required
	PMFMinMessages      int // messages required within the window
	ErrorClusterMinSize int // errors within one minute that flag an outlier cluster
}

// IdentityConfig holds test-account rule configuration
type IdentityConfig struct {
	RulesFile string // optional YAML file with extra exclusion rules
}

// Load loads configuration from environment variables
func Load() *Config {
	return &Config{
		Database: DatabaseConfig{
			Host:            getEnv("DB_HOST", "localhost"),
			Port:            getEnv("DB_PORT", "5432"),
			User:            getEnv("DB_USER", "dashboard"),
			Password:        getEnv("DB_PASSWORD", "dashboard"),
			Name:            getEnv("DB_NAME", "recoup"),
			MaxOpenConns:    getEnvInt("DB_MAX_OPEN_CONNS", 25),
			MaxIdleConns:    getEnvInt("DB_MAX_IDLE_CONNS", 5),
			ConnMaxLifetime: getEnvDuration("DB_CONN_MAX_LIFETIME", 5*time.Minute),
		},
		Server: ServerConfig{
			Host:         getEnv("SERVER_HOST", "0.0.0.0"),
			Port:         getEnv("SERVER_PORT", "8090"),
			ReadTimeout:  getEnvDuration("SERVER_READ_TIMEOUT", 30*time.Second),
			WriteTimeout: getEnvDuration("SERVER_WRITE_TIMEOUT", 60*time.Second),
		},
		Logging: LoggingConfig{
			Level:  getEnv("LOG_LEVEL", "info"),
			Format: getEnv("LOG_FORMAT", "json"),
			Output: getEnv("LOG_OUTPUT", "stdout"),
		},
		CORS: CORSConfig{
			AllowedOrigins: getEnvSlice("CORS_ALLOWED_ORIGINS", []string{"*"}),
			AllowedMethods: getEnvSlice("CORS_ALLOWED_METHODS", []string{"GET", "POST", "OPTIONS"}),
			AllowedHeaders: getEnvSlice("CORS_ALLOWED_HEADERS", []string{"Content-Type", "Authorization"}),
		},
		Auth: AuthConfig{
			JWTSecret:     getEnv("JWT_SECRET", ""),
			AdminUsername: getEnv("ADMIN_USERNAME", "admin"),
			AdminPassword: getEnv("ADMIN_PASSWORD", ""),
		},
		Supabase: SupabaseConfig{
			URL:            getEnv("SUPABASE_URL", ""),
			ServiceRoleKey: getEnv("SUPABASE_SERVICE_ROLE_KEY", ""),
		},
		Cache: CacheConfig{
			TemplateUsageTTL: getEnvDuration("CACHE_TEMPLATE_USAGE_TTL", 5*time.Minute),
			LeaderboardTTL:   getEnvDuration("CACHE_LEADERBOARD_TTL", 1*time.Minute),
			MetricsTTL:       getEnvDuration("CACHE_METRICS_TTL", 1*time.Minute),
		},
		Analytics: AnalyticsConfig{
			PMFWindowDays:       getEnvInt("PMF_WINDOW_DAYS", 30),
			PMFMinActiveDays:    getEnvInt("PMF_MIN_ACTIVE_DAYS", 2),
			PMFMinMessages:      getEnvInt("PMF_MIN_MESSAGES", 10),
			ErrorClusterMinSize: getEnvInt("ERROR_CLUSTER_MIN_SIZE", 5),
		},
		Identity: IdentityConfig{
			RulesFile: getEnv("TEST_ACCOUNT_RULES_FILE", ""),
		},
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

func getEnvSlice(key string, defaultValue []string) []string {
	if value := os.Getenv(key); value != "" {
		parts := []string{}
		for _, part := range strings.Split(value, ",") {
			if trimmed := strings.TrimSpace(part); trimmed != "" {
				parts = append(parts, trimmed)
			}
		}
		if len(parts) > 0 {
			return parts
		}
	}
	return defaultValue
}

// DSN returns the database connection string
func (c *DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
		c.Host, c.Port, c.User, c.Password, c.Name)
}
