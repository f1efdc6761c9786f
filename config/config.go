package config

import (
	"fmt"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
	"golang.org/x/exp/slices"
)

type Configs struct {
	Env string `toml:"env"`

	Database  DatabaseConfigs `toml:"database"`
	ApiServer ServerConfigs   `toml:"api_server"`
	Auth      AuthConfigs     `toml:"auth"`
	Session   SessionConfigs  `toml:"session"`
	File      FileConfigs     `toml:"file"`
}

type DatabaseConfigs struct {
	// Driver is either "sqlite" or "mysql".
	Driver     string `toml:"driver"`
	SQLitePath string `toml:"sqlite_path"`

	Host     string `toml:"host"`
	Port     string `toml:"port"`
	Database string `toml:"database"`
	User     string `toml:"user"`
	Password string `toml:"password"`
}

func (d *DatabaseConfigs) ConnectionString() string {
	return fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=Local",
		d.User,
		d.Password,
		d.Host,
		d.Port,
		d.Database,
	)
}

type ServerConfigs struct {
	Host           string   `toml:"host"`
	Port           string   `toml:"port"`
	AllowedOrigins []string `toml:"allowed_origins"`

	// FrontendURL is where OAuth callbacks redirect the browser after the
	// account has been resolved.
	FrontendURL string `toml:"frontend_url"`
}

type AuthConfigs struct {
	Google OAuth2Config `toml:"google"`

	// StateExpiration bounds the oauth_states table growth and the replay
	// window of a single round trip.
	StateExpiration time.Duration `toml:"state_expiration"`
}

type OAuth2Config struct {
	Name         string `toml:"name"`
	Issuer       string `toml:"issuer"`
	ClientID     string `toml:"client_id"`
	ClientSecret string `toml:"client_secret"`
	RedirectURL  string `toml:"redirect_url"`
}

func (c OAuth2Config) IsConfigured() bool {
	return c.ClientID != "" && c.ClientSecret != "" && c.RedirectURL != ""
}

type SessionConfigs struct {
	Name       string        `toml:"name"`
	Expiration time.Duration `toml:"expiration"`

	// SameSite is one of lax, strict, none. Secure accepts "", "true",
	// "false"; empty means "derive from Env".
	SameSite string `toml:"same_site"`
	Secure   string `toml:"secure"`
}

// CookieSecure reports whether session cookies carry the Secure flag.
// SameSite=None always forces it, browsers reject the cookie otherwise.
func (s SessionConfigs) CookieSecure(env string) bool {
	secure := env == "prod"
	switch strings.ToLower(s.Secure) {
	case "1", "true", "yes":
		secure = true
	case "0", "false", "no":
		secure = false
	}

	if s.CookieSameSite() == http.SameSiteNoneMode {
		return true
	}

	return secure
}

func (s SessionConfigs) CookieSameSite() http.SameSite {
	switch strings.ToLower(s.SameSite) {
	case "strict":
		return http.SameSiteStrictMode
	case "none":
		return http.SameSiteNoneMode
	default:
		return http.SameSiteLaxMode
	}
}

type FileConfigs struct {
	MaxSize int64 `toml:"max_size"`
}

// Load builds the configuration once at process start. Values come from an
// optional toml file, then .env files, then the process environment; business
// logic never reads ambient environment state afterwards.
func Load() (*Configs, error) {
	// Missing .env files are fine; existing environment wins over them.
	_ = godotenv.Load(".env.local")
	_ = godotenv.Load(".env")

	cfg := &Configs{
		Env: getEnv("ENV", "dev"),
		Database: DatabaseConfigs{
			Driver:     getEnv("DB_DRIVER", "sqlite"),
			SQLitePath: getEnv("DB_SQLITE_PATH", "pixelfit.db"),
			Host:       getEnv("DB_HOST", "localhost"),
			Port:       getEnv("DB_PORT", "3306"),
			Database:   getEnv("DB_NAME", "pixelfit"),
			User:       getEnv("DB_USER", "root"),
			Password:   os.Getenv("DB_PASSWORD"),
		},
		ApiServer: ServerConfigs{
			Host:           getEnv("HOST", "0.0.0.0"),
			Port:           getEnv("PORT", "8001"),
			AllowedOrigins: splitList(getEnv("ALLOWED_ORIGINS", "http://127.0.0.1:5500,http://localhost:5500")),
			FrontendURL:    getEnv("FRONTEND_REDIRECT_URL", "http://127.0.0.1:5500/index.html"),
		},
		Auth: AuthConfigs{
			Google: OAuth2Config{
				Name:         "google",
				Issuer:       getEnv("GOOGLE_ISSUER", "https://accounts.google.com"),
				ClientID:     os.Getenv("GOOGLE_CLIENT_ID"),
				ClientSecret: os.Getenv("GOOGLE_CLIENT_SECRET"),
				RedirectURL:  os.Getenv("GOOGLE_REDIRECT_URL"),
			},
			StateExpiration: getDuration("OAUTH_STATE_TTL", 10*time.Minute),
		},
		Session: SessionConfigs{
			Name:       getEnv("SESSION_COOKIE_NAME", "pixelfit_session"),
			Expiration: getDuration("SESSION_TTL", 7*24*time.Hour),
			SameSite:   getEnv("COOKIE_SAMESITE", "lax"),
			Secure:     os.Getenv("COOKIE_SECURE"),
		},
		File: FileConfigs{
			MaxSize: int64(getInt("FILE_MAX_SIZE", 32<<20)),
		},
	}

	if path := os.Getenv("CONFIG_FILE"); path != "" {
		if _, err := toml.DecodeFile(path, cfg); err != nil {
			return nil, fmt.Errorf("cannot decode config file %s: %w", path, err)
		}
	}

	if !slices.Contains([]string{"lax", "strict", "none"}, strings.ToLower(cfg.Session.SameSite)) {
		cfg.Session.SameSite = "lax"
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getInt(key string, fallback int) int {
	value, err := strconv.Atoi(os.Getenv(key))
	if err != nil {
		return fallback
	}
	return value
}

func getDuration(key string, fallback time.Duration) time.Duration {
	value, err := time.ParseDuration(os.Getenv(key))
	if err != nil {
		return fallback
	}
	return value
}

func splitList(s string) []string {
	parts := strings.Split(s, ",")
	result := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			result = append(result, trimmed)
		}
	}
	return result
}
