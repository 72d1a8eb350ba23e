package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	IdentityModeHosted = "hosted"
	IdentityModeLocal  = "local"
)

type Config struct {
	App      AppConfig
	Database DatabaseConfig
	JWT      JWTConfig
	Redis    RedisConfig
	Identity IdentityConfig
	Storage  StorageConfig
	AI       AIConfig
	Email    EmailConfig
}

type AppConfig struct {
	AppName     string
	Environment string
	HTTPPort    string
	LogLevel    string
	PublicURL   string
	CORSOrigins []string
}

type DatabaseConfig struct {
	DBHost     string
	DBPort     string
	DBName     string
	DBUser     string
	DBPassword string
	DBSSLMode  string

	ConnectTimeout        time.Duration
	PoolMaxConns          int32
	PoolMinConns          int32
	PoolMaxConnLifetime   time.Duration
	PoolMaxConnIdleTime   time.Duration
	PoolHealthCheckPeriod time.Duration
}

type JWTConfig struct {
	AccessSecret     string
	RefreshSecret    string
	AccessExpiresIn  time.Duration
	RefreshExpiresIn time.Duration
}

type RedisConfig struct {
	Host     string
	Port     string
	Password string
	TTL      time.Duration
}

type IdentityConfig struct {
	Mode       string
	URL        string
	AnonKey    string
	ServiceKey string
}

// StorageConfig selects the object store. Without a URL and service key,
// uploads are written under Dir and served by the API at /uploads.
type StorageConfig struct {
	URL        string
	ServiceKey string
	Dir        string
	PublicURL  string
}

type AIConfig struct {
	APIKey  string
	Model   string
	BaseURL string
}

type EmailConfig struct {
	APIKey  string
	From    string
	BaseURL string
}

var errMissingRequiredEnv = errors.New("missing required environment variables")

// Load reads configuration from the environment. A .env file in the working
// directory is applied first when present; real environment variables win.
func Load() (Config, error) {
	_ = godotenv.Load()

	cfg := Config{}

	var missing []string
	req := func(key string) string {
		v := strings.TrimSpace(os.Getenv(key))
		if v == "" {
			missing = append(missing, key)
		}
		return v
	}
	opt := func(key string) string {
		return strings.TrimSpace(os.Getenv(key))
	}
	optDefault := func(key, def string) string {
		if v := opt(key); v != "" {
			return v
		}
		return def
	}

	cfg.App = AppConfig{
		AppName:     optDefault("APP_NAME", "Mammy Coker Hub"),
		Environment: req("APP_ENV"),
		HTTPPort:    req("HTTP_PORT"),
		LogLevel:    optDefault("LOG_LEVEL", "info"),
		PublicURL:   strings.TrimRight(optDefault("PUBLIC_URL", "http://localhost:5173"), "/"),
		CORSOrigins: splitList(optDefault("CORS_ORIGINS", "*")),
	}

	cfg.Database = DatabaseConfig{
		DBHost:                opt("DB_HOST"),
		DBPort:                opt("DB_PORT"),
		DBName:                opt("DB_NAME"),
		DBUser:                opt("DB_USER"),
		DBPassword:            opt("DB_PASSWORD"),
		DBSSLMode:             optDefault("DB_SSL_MODE", "disable"),
		ConnectTimeout:        parseDuration(opt("DB_CONNECT_TIMEOUT"), 5*time.Second),
		PoolMaxConns:          int32(parseInt(opt("DB_POOL_MAX_CONNS"), 0)),
		PoolMinConns:          int32(parseInt(opt("DB_POOL_MIN_CONNS"), 0)),
		PoolMaxConnLifetime:   parseDuration(opt("DB_POOL_MAX_CONN_LIFETIME"), 0),
		PoolMaxConnIdleTime:   parseDuration(opt("DB_POOL_MAX_CONN_IDLE_TIME"), 0),
		PoolHealthCheckPeriod: parseDuration(opt("DB_POOL_HEALTH_CHECK_PERIOD"), 0),
	}

	cfg.JWT = JWTConfig{
		AccessSecret:     req("JWT_ACCESS_SECRET"),
		RefreshSecret:    optDefault("JWT_REFRESH_SECRET", opt("JWT_ACCESS_SECRET")),
		AccessExpiresIn:  parseDuration(opt("JWT_ACCESS_EXPIRES_IN"), time.Hour),
		RefreshExpiresIn: parseDuration(opt("JWT_REFRESH_EXPIRES_IN"), 30*24*time.Hour),
	}

	cfg.Redis = RedisConfig{
		Host:     optDefault("REDIS_HOST", "localhost"),
		Port:     optDefault("REDIS_PORT", "6379"),
		Password: opt("REDIS_PASSWORD"),
		TTL:      time.Duration(parseInt(opt("REDIS_TTL"), 600)) * time.Second,
	}

	cfg.Identity = IdentityConfig{
		Mode:       strings.ToLower(optDefault("IDENTITY_MODE", IdentityModeLocal)),
		URL:        strings.TrimRight(opt("IDENTITY_URL"), "/"),
		AnonKey:    opt("IDENTITY_ANON_KEY"),
		ServiceKey: opt("IDENTITY_SERVICE_KEY"),
	}
	if cfg.Identity.Mode == IdentityModeHosted {
		if cfg.Identity.URL == "" {
			missing = append(missing, "IDENTITY_URL")
		}
		if cfg.Identity.AnonKey == "" {
			missing = append(missing, "IDENTITY_ANON_KEY")
		}
	}

	cfg.Storage = StorageConfig{
		URL:        strings.TrimRight(optDefault("STORAGE_URL", cfg.Identity.URL), "/"),
		ServiceKey: optDefault("STORAGE_SERVICE_KEY", cfg.Identity.ServiceKey),
		Dir:        optDefault("STORAGE_DIR", "./data/uploads"),
		PublicURL:  strings.TrimRight(optDefault("STORAGE_PUBLIC_URL", "http://localhost:"+strings.TrimPrefix(cfg.App.HTTPPort, ":")+"/uploads"), "/"),
	}

	cfg.AI = AIConfig{
		APIKey:  opt("OPENAI_API_KEY"),
		Model:   optDefault("OPENAI_MODEL", "gpt-4o-mini"),
		BaseURL: strings.TrimRight(optDefault("OPENAI_BASE_URL", "https://api.openai.com/v1"), "/"),
	}

	cfg.Email = EmailConfig{
		APIKey:  opt("RESEND_API_KEY"),
		From:    optDefault("EMAIL_FROM", "onboarding@resend.dev"),
		BaseURL: strings.TrimRight(optDefault("EMAIL_BASE_URL", "https://api.resend.com"), "/"),
	}

	if len(missing) > 0 {
		return Config{}, fmt.Errorf("%w: %s", errMissingRequiredEnv, strings.Join(missing, ", "))
	}

	if cfg.Identity.Mode != IdentityModeHosted && cfg.Identity.Mode != IdentityModeLocal {
		return Config{}, fmt.Errorf("invalid IDENTITY_MODE %q", cfg.Identity.Mode)
	}

	return cfg, nil
}

// parseDuration accepts Go duration strings ("15m") or plain seconds ("900").
func parseDuration(raw string, def time.Duration) time.Duration {
	if raw == "" {
		return def
	}
	if d, err := time.ParseDuration(raw); err == nil && d > 0 {
		return d
	}
	if n, err := strconv.Atoi(raw); err == nil && n > 0 {
		return time.Duration(n) * time.Second
	}
	return def
}

func parseInt(raw string, def int) int {
	if raw == "" {
		return def
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return def
	}
	return n
}

func splitList(raw string) []string {
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		out = append(out, p)
	}
	return out
}
