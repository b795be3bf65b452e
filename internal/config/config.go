package config

import (
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/ilyakaznacheev/cleanenv"
	_ "github.com/joho/godotenv/autoload"
)

type Config struct {
	Port int    `env:"PORT" env-default:"8080"`
	Env  string `env:"APP_ENV" env-default:"local"`

	Database DatabaseConfig
	Auth     AuthConfig
	CORS     CORSConfig
	Codegen  CodegenConfig
}

type DatabaseConfig struct {
	Host          string `env:"DB_HOST" env-default:"localhost"`
	Port          int    `env:"DB_PORT" env-default:"5432"`
	User          string `env:"DB_USERNAME" env-default:"postgres"`
	Password      string `env:"DB_PASSWORD"`
	Name          string `env:"DB_DATABASE" env-default:"draw_sql"`
	SSLMode       string `env:"DB_SSLMODE" env-default:"disable"`
	MaxConns      int32  `env:"DB_MAX_CONNS" env-default:"25"`
	MinConns      int32  `env:"DB_MIN_CONNS" env-default:"5"`
	AdminUser     string `env:"DB_ADMIN_USER"`
	AdminPassword string `env:"DB_ADMIN_PASSWORD"`
}

// DSN builds a postgres:// URL for the named database.
func (c DatabaseConfig) DSN(database, user, password string) string {
	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(user, password),
		Host:     fmt.Sprintf("%s:%d", c.Host, c.Port),
		Path:     "/" + database,
		RawQuery: "sslmode=" + url.QueryEscape(c.SSLMode),
	}
	return u.String()
}

// URL is the DSN of the application database.
func (c DatabaseConfig) URL() string {
	return c.DSN(c.Name, c.User, c.Password)
}

// CanCreate reports whether admin credentials were supplied for creating the
// database on start-up.
func (c DatabaseConfig) CanCreate() bool {
	return c.AdminUser != "" && c.AdminPassword != ""
}

type AuthConfig struct {
	AccessTokenSecret string `env:"ACCESS_TOKEN_SECRET"`
}

type CORSConfig struct {
	AllowedOrigins []string `env:"CORS_ALLOWED_ORIGINS" env-separator:"," env-default:"http://localhost:3000"`
}

type CodegenConfig struct {
	// TemplateDir replaces the built-in Yii2 templates when set.
	TemplateDir string `env:"CODEGEN_TEMPLATE_DIR"`
}

// Load reads the environment (after .env autoload) into a Config.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := cleanenv.ReadEnv(cfg); err != nil {
		return nil, fmt.Errorf("failed to read config from environment: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	var errs []error
	if c.Port <= 0 || c.Port > 65535 {
		errs = append(errs, fmt.Errorf("PORT must be between 1 and 65535, got %d", c.Port))
	}
	if strings.TrimSpace(c.Auth.AccessTokenSecret) == "" {
		errs = append(errs, errors.New("ACCESS_TOKEN_SECRET is required"))
	}
	if c.Database.Password == "" {
		errs = append(errs, errors.New("DB_PASSWORD is required"))
	}
	if c.Database.MaxConns < c.Database.MinConns {
		errs = append(errs, fmt.Errorf("DB_MAX_CONNS (%d) must not be below DB_MIN_CONNS (%d)", c.Database.MaxConns, c.Database.MinConns))
	}
	return errors.Join(errs...)
}

// IsDevelopment reports whether the service runs in a local or development
// environment.
func (c *Config) IsDevelopment() bool {
	switch strings.ToLower(c.Env) {
	case "local", "development", "dev":
		return true
	}
	return false
}
