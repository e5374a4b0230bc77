package config

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/caarlos0/env/v11"
	v10 "github.com/go-playground/validator/v10"
)

// EnvPrefix prefixes every environment override, eg. PAGEKIT_SERVER_PORT.
const EnvPrefix = "PAGEKIT_"

func Load(path string, v interface{}) error {
	b, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return json.Unmarshal(b, v)
}

func MustLoad(path string, v interface{}) {
	if err := Load(path, v); err != nil {
		panic(err)
	}
}

type AppConfig struct {
	Name        string `json:"name" env:"APP_NAME"`
	Environment string `json:"environment" env:"APP_ENVIRONMENT"`
	Debug       bool   `json:"debug" env:"APP_DEBUG"`
}

type ServerConfig struct {
	Host                string     `json:"host" env:"SERVER_HOST"`
	Port                int        `json:"port" env:"SERVER_PORT" validate:"gte=0,lte=65535"`
	ReadTimeoutSeconds  int        `json:"read_timeout_seconds" env:"SERVER_READ_TIMEOUT_SECONDS" validate:"gte=0"`
	WriteTimeoutSeconds int        `json:"write_timeout_seconds" env:"SERVER_WRITE_TIMEOUT_SECONDS" validate:"gte=0"`
	Cors                CorsConfig `json:"cors,omitempty"`
}

type CorsConfig struct {
	AllowedOrigins []string `json:"allowed_origins,omitempty" env:"CORS_ALLOWED_ORIGINS"`
	AllowedMethods []string `json:"allowed_methods,omitempty" env:"CORS_ALLOWED_METHODS"`
	AllowedHeaders []string `json:"allowed_headers,omitempty" env:"CORS_ALLOWED_HEADERS"`
}

// HtmxConfig selects the header that marks partial-render requests.
// Empty fields fall back to HX-Request / "true".
type HtmxConfig struct {
	Header string `json:"header,omitempty" env:"HTMX_HEADER"`
	Value  string `json:"value,omitempty" env:"HTMX_VALUE"`
}

type ViewsConfig struct {
	Dir     string `json:"dir" env:"VIEWS_DIR"`
	Layout  string `json:"layout,omitempty" env:"VIEWS_LAYOUT"`
	DevMode bool   `json:"dev_mode" env:"VIEWS_DEV_MODE"`
}

type Config struct {
	App    AppConfig    `json:"app"`
	Server ServerConfig `json:"server"`
	Htmx   HtmxConfig   `json:"htmx"`
	Views  ViewsConfig  `json:"views"`
}

// Default returns the configuration used when no file is given.
func Default() Config {
	return Config{
		App: AppConfig{Name: "pagekit", Environment: "development"},
		Server: ServerConfig{
			Host:                "127.0.0.1",
			Port:                8080,
			ReadTimeoutSeconds:  15,
			WriteTimeoutSeconds: 15,
		},
		Views: ViewsConfig{Dir: "views"},
	}
}

// Addr returns the listen address.
func (c Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}

// Validate checks the configuration values.
func (c Config) Validate() error {
	return v10.New().Struct(c)
}

var ConfigVar = Default()

// LoadConfig reads path into ConfigVar, applies PAGEKIT_* environment
// overrides and validates the result. An empty path skips the file.
func LoadConfig(path string) error {
	c := Default()
	if path != "" {
		if err := Load(path, &c); err != nil {
			return fmt.Errorf("load config %s: %w", path, err)
		}
	}
	if err := env.ParseWithOptions(&c, env.Options{Prefix: EnvPrefix}); err != nil {
		return fmt.Errorf("config environment: %w", err)
	}
	if err := c.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	ConfigVar = c
	return nil
}

func MustLoadConfig(path string) {
	if err := LoadConfig(path); err != nil {
		panic(err)
	}
}
