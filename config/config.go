package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

const (
	SessionStoreMemory = "memory"
	SessionStoreSigned = "signed"
)

// Config holds all application configuration
//
//nolint:govet // Field alignment optimization would reduce readability
type Config struct {
	Server         ServerConfig
	Database       DatabaseConfig
	Storage        StorageConfig
	Session        SessionConfig
	AdminBootstrap AdminBootstrapConfig
	EventTriggers  EventTriggersConfig
	Logging        LoggingConfig
	Observability  ObservabilityConfig
	Profiling      ProfilingConfig
}

type ServerConfig struct {
	Port           string
	GinMode        string
	AppEnv         string
	BaseURL        string
	AllowedOrigins []string
}

type DatabaseConfig struct {
	URL        string
	MaxConns   int32
	MinConns   int32
	CACertPath string
}

// StorageConfig points at an S3-compatible bucket for course images.
// Image uploads are disabled when BucketName is empty.
type StorageConfig struct {
	AccessKeyID     string
	SecretAccessKey string
	BucketName      string
	Endpoint        string
	Region          string
	PublicURL       string
}

// Enabled reports whether object storage is configured
func (s StorageConfig) Enabled() bool {
	return s.BucketName != ""
}

type SessionConfig struct {
	Store        string
	TTLHours     int
	JWTSecret    string
	JWTIssuer    string
	CookieSecure bool
}

type AdminBootstrapConfig struct {
	Email    string
	Password string
}

type EventTriggersConfig struct {
	CourseChangedTriggerURL string
	RatingCreatedTriggerURL string
}

type LoggingConfig struct {
	Level      string
	Dir        string
	MaxSizeMB  int
	MaxBackups int
}

type ObservabilityConfig struct {
	ExporterEndpoint  string
	ServiceName       string
	ServiceNamespace  string
	ServiceVersion    string
	ServiceInstanceID string
}

type ProfilingConfig struct {
	Enabled               bool
	Endpoint              string
	AppName               string
	SampleTypes           string
	UploadIntervalSeconds int
}

// Load reads configuration from environment variables (and .env when present)
func Load() (*Config, error) {
	v := viper.New()

	v.SetDefault("PORT", "8080")
	v.SetDefault("GIN_MODE", "release")
	v.SetDefault("APP_ENV", "production")
	v.SetDefault("BASE_URL", "http://localhost:8080")
	v.SetDefault("ALLOWED_CORS_ORIGINS", "http://localhost:8080")
	v.SetDefault("DB_MAX_CONNS", 20)
	v.SetDefault("DB_MIN_CONNS", 2)
	v.SetDefault("STORAGE_REGION", "us-east-1")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_DIR", "/app/logs")
	v.SetDefault("LOG_MAX_SIZE_MB", 100)
	v.SetDefault("LOG_MAX_BACKUPS", 5)
	v.SetDefault("O11Y_EXPORTER_ENDPOINT", "") // tracing off unless set
	v.SetDefault("O11Y_BE_SERVICE_NAME", "certiswift-api")
	v.SetDefault("O11Y_SERVICE_NAMESPACE", "certiswift")
	v.SetDefault("O11Y_BE_SERVICE_VERSION", "1.0.0")
	v.SetDefault("O11Y_PROFILING_ENABLED", false)
	v.SetDefault("O11Y_PROFILING_APP_NAME", "certiswift-api")
	v.SetDefault("O11Y_PROFILING_SAMPLE_TYPES", "cpu,alloc_space,alloc_objects,goroutines,mutex,block")
	v.SetDefault("O11Y_PROFILING_UPLOAD_INTERVAL_SECONDS", 15)

	// Admin session defaults
	v.SetDefault("SESSION_STORE", SessionStoreMemory)
	v.SetDefault("SESSION_TTL_HOURS", 24)
	v.SetDefault("JWT_ISSUER", "certiswift-api")
	v.SetDefault("COOKIE_SECURE", true)

	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	v.SetConfigName(".env")
	v.SetConfigType("env")
	v.AddConfigPath(".")
	v.AddConfigPath("..")
	_ = v.ReadInConfig() //nolint:errcheck // Ignore error if .env file doesn't exist

	cfg := &Config{
		Server: ServerConfig{
			Port:           v.GetString("PORT"),
			GinMode:        v.GetString("GIN_MODE"),
			AppEnv:         v.GetString("APP_ENV"),
			BaseURL:        v.GetString("BASE_URL"),
			AllowedOrigins: splitList(v.GetString("ALLOWED_CORS_ORIGINS")),
		},
		Database: DatabaseConfig{
			URL:        v.GetString("DATABASE_URL"),
			MaxConns:   v.GetInt32("DB_MAX_CONNS"),
			MinConns:   v.GetInt32("DB_MIN_CONNS"),
			CACertPath: v.GetString("DATABASE_CA_CERT_PATH"),
		},
		Storage: StorageConfig{
			AccessKeyID:     v.GetString("STORAGE_ACCESS_KEY_ID"),
			SecretAccessKey: v.GetString("STORAGE_SECRET_ACCESS_KEY"),
			BucketName:      v.GetString("STORAGE_BUCKET_NAME"),
			Endpoint:        v.GetString("STORAGE_ENDPOINT"),
			Region:          v.GetString("STORAGE_REGION"),
			PublicURL:       v.GetString("STORAGE_PUBLIC_URL"),
		},
		Session: SessionConfig{
			Store:        strings.ToLower(strings.TrimSpace(v.GetString("SESSION_STORE"))),
			TTLHours:     v.GetInt("SESSION_TTL_HOURS"),
			JWTSecret:    v.GetString("JWT_SECRET"),
			JWTIssuer:    v.GetString("JWT_ISSUER"),
			CookieSecure: v.GetBool("COOKIE_SECURE"),
		},
		AdminBootstrap: AdminBootstrapConfig{
			Email:    v.GetString("ADMIN_BOOTSTRAP_EMAIL"),
			Password: v.GetString("ADMIN_BOOTSTRAP_PASSWORD"),
		},
		EventTriggers: EventTriggersConfig{
			CourseChangedTriggerURL: v.GetString("COURSE_CHANGED_TRIGGER_URL"),
			RatingCreatedTriggerURL: v.GetString("RATING_CREATED_TRIGGER_URL"),
		},
		Logging: LoggingConfig{
			Level:      v.GetString("LOG_LEVEL"),
			Dir:        v.GetString("LOG_DIR"),
			MaxSizeMB:  v.GetInt("LOG_MAX_SIZE_MB"),
			MaxBackups: v.GetInt("LOG_MAX_BACKUPS"),
		},
		Observability: ObservabilityConfig{
			ExporterEndpoint:  v.GetString("O11Y_EXPORTER_ENDPOINT"),
			ServiceName:       v.GetString("O11Y_BE_SERVICE_NAME"),
			ServiceNamespace:  v.GetString("O11Y_SERVICE_NAMESPACE"),
			ServiceVersion:    v.GetString("O11Y_BE_SERVICE_VERSION"),
			ServiceInstanceID: v.GetString("SERVICE_INSTANCE_ID"),
		},
		Profiling: ProfilingConfig{
			Enabled:               v.GetBool("O11Y_PROFILING_ENABLED"),
			Endpoint:              v.GetString("O11Y_PROFILING_ENDPOINT"),
			AppName:               v.GetString("O11Y_PROFILING_APP_NAME"),
			SampleTypes:           v.GetString("O11Y_PROFILING_SAMPLE_TYPES"),
			UploadIntervalSeconds: v.GetInt("O11Y_PROFILING_UPLOAD_INTERVAL_SECONDS"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func splitList(s string) []string {
	items := []string{}
	for _, item := range strings.Split(s, ",") {
		item = strings.TrimSpace(item)
		if item != "" {
			items = append(items, item)
		}
	}
	return items
}

// Validate checks if required configuration values are set
func (c *Config) Validate() error {
	if c.Database.URL == "" {
		return fmt.Errorf("DATABASE_URL is required")
	}

	if c.Server.Port == "" {
		return fmt.Errorf("PORT is required")
	}
	if len(c.Server.AllowedOrigins) == 0 {
		return fmt.Errorf("ALLOWED_CORS_ORIGINS is required")
	}

	switch c.Session.Store {
	case SessionStoreMemory:
	case SessionStoreSigned:
		if c.Session.JWTSecret == "" {
			return fmt.Errorf("JWT_SECRET is required when SESSION_STORE=signed")
		}
	default:
		return fmt.Errorf("SESSION_STORE must be %q or %q, got %q", SessionStoreMemory, SessionStoreSigned, c.Session.Store)
	}
	if c.Session.TTLHours <= 0 {
		return fmt.Errorf("SESSION_TTL_HOURS must be positive")
	}

	if (c.AdminBootstrap.Email == "") != (c.AdminBootstrap.Password == "") {
		return fmt.Errorf("ADMIN_BOOTSTRAP_EMAIL and ADMIN_BOOTSTRAP_PASSWORD must be set together")
	}

	if c.Storage.Enabled() && (c.Storage.AccessKeyID == "" || c.Storage.SecretAccessKey == "") {
		return fmt.Errorf("STORAGE_ACCESS_KEY_ID and STORAGE_SECRET_ACCESS_KEY are required when STORAGE_BUCKET_NAME is set")
	}

	if c.Profiling.Enabled && c.Profiling.Endpoint == "" {
		return fmt.Errorf("O11Y_PROFILING_ENDPOINT is required when profiling is enabled")
	}

	return nil
}

// IsDevelopment returns true if running in development mode
func (c *Config) IsDevelopment() bool {
	return c.Server.AppEnv == "development" || c.Server.GinMode == "debug"
}

// IsProduction returns true if running in production mode
func (c *Config) IsProduction() bool {
	return c.Server.AppEnv == "production"
}
