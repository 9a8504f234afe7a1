package config

import (
	"fmt"
	"net/http"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/vncsmyrnk/polls/internal/adapters/repository/postgres"
)

// LoadDotEnv loads environment variables from a .env file if present.
// Existing environment variables are not overwritten.
func LoadDotEnv(path string) error {
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	return godotenv.Load(path)
}

type Database struct {
	URL      string
	Host     string
	Port     string
	User     string
	Password string
	Name     string
	SSLMode  string
}

// ConnString prefers URL and otherwise builds one from the parts.
func (d Database) ConnString() string {
	if d.URL != "" {
		return d.URL
	}
	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(d.User, d.Password),
		Host:     d.Host + ":" + d.Port,
		Path:     "/" + d.Name,
		RawQuery: "sslmode=" + d.SSLMode,
	}
	return u.String()
}

type Config struct {
	Port             string
	Database         Database
	DBMaxOpenConns   int
	DBMaxIdleConns   int
	DBConnMaxLife    time.Duration
	DBConnMaxIdle    time.Duration
	JWTSecret        string
	GoogleClientID   string
	OAuthRedirectURL string
	CookieDomain     string
	CookieSameSite   http.SameSite
	CookieSecure     bool
	PaginationAmount int
}

func Default() Config {
	return Config{
		Port: "8080",
		Database: Database{
			Host:    "localhost",
			Port:    "5432",
			SSLMode: "disable",
		},
		DBMaxOpenConns:   10,
		DBMaxIdleConns:   10,
		DBConnMaxLife:    300 * time.Second,
		DBConnMaxIdle:    60 * time.Second,
		OAuthRedirectURL: "/",
		CookieSameSite:   http.SameSiteLaxMode,
		CookieSecure:     true,
		PaginationAmount: 100,
	}
}

func Load() Config {
	cfg := Default()
	if raw := os.Getenv("PORT"); raw != "" {
		cfg.Port = raw
	}
	cfg.Database.URL = os.Getenv("DATABASE_URL")
	if raw := os.Getenv("POSTGRES_HOST"); raw != "" {
		cfg.Database.Host = raw
	}
	if raw := os.Getenv("POSTGRES_PORT"); raw != "" {
		cfg.Database.Port = raw
	}
	cfg.Database.User = os.Getenv("POSTGRES_USER")
	cfg.Database.Password = os.Getenv("POSTGRES_PASSWORD")
	cfg.Database.Name = os.Getenv("POSTGRES_DB")
	if raw := os.Getenv("POSTGRES_SSLMODE"); raw != "" {
		cfg.Database.SSLMode = raw
	}
	if raw := os.Getenv("DB_MAX_OPEN_CONNS"); raw != "" {
		if value, err := strconv.Atoi(raw); err == nil && value > 0 {
			cfg.DBMaxOpenConns = value
		}
	}
	if raw := os.Getenv("DB_MAX_IDLE_CONNS"); raw != "" {
		if value, err := strconv.Atoi(raw); err == nil && value > 0 {
			cfg.DBMaxIdleConns = value
		}
	}
	if raw := os.Getenv("DB_CONN_MAX_LIFETIME_SECONDS"); raw != "" {
		if value, err := strconv.Atoi(raw); err == nil && value > 0 {
			cfg.DBConnMaxLife = time.Duration(value) * time.Second
		}
	}
	if raw := os.Getenv("DB_CONN_MAX_IDLE_SECONDS"); raw != "" {
		if value, err := strconv.Atoi(raw); err == nil && value > 0 {
			cfg.DBConnMaxIdle = time.Duration(value) * time.Second
		}
	}
	cfg.JWTSecret = os.Getenv("JWT_SECRET")
	cfg.GoogleClientID = os.Getenv("GOOGLE_CLIENT_ID")
	if raw := os.Getenv("OAUTH_REDIRECT_URL"); raw != "" {
		cfg.OAuthRedirectURL = raw
	}
	cfg.CookieDomain = os.Getenv("COOKIE_DOMAIN")
	if raw := os.Getenv("COOKIE_SAMESITE"); raw != "" {
		cfg.CookieSameSite = parseSameSite(raw)
	}
	if raw := os.Getenv("COOKIE_SECURE"); raw != "" {
		if value, err := strconv.ParseBool(raw); err == nil {
			cfg.CookieSecure = value
		}
	}
	if raw := os.Getenv("PAGINATION_AMOUNT"); raw != "" {
		if value, err := strconv.Atoi(raw); err == nil && value > 0 {
			cfg.PaginationAmount = value
		}
	}
	return cfg
}

// Validate reports settings the server cannot start without.
func (c Config) Validate() error {
	if c.Database.URL == "" && c.Database.Name == "" {
		return fmt.Errorf("DATABASE_URL or POSTGRES_DB must be set")
	}
	if c.JWTSecret == "" {
		return fmt.Errorf("JWT_SECRET must be set")
	}
	return nil
}

func (c Config) Pool() postgres.PoolConfig {
	return postgres.PoolConfig{
		MaxOpenConns:    c.DBMaxOpenConns,
		MaxIdleConns:    c.DBMaxIdleConns,
		ConnMaxLifetime: c.DBConnMaxLife,
		ConnMaxIdleTime: c.DBConnMaxIdle,
	}
}

func parseSameSite(raw string) http.SameSite {
	switch strings.ToLower(raw) {
	case "strict":
		return http.SameSiteStrictMode
	case "none":
		return http.SameSiteNoneMode
	default:
		return http.SameSiteLaxMode
	}
}
