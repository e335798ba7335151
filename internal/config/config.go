package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// Порядок: значения по умолчанию, затем YAML-файл, затем переменные окружения.
// .env подгружается в main до вызова Load и попадает сюда через окружение.

const DefaultPath = "config.yaml"

type Config struct {
	App      AppConfig      `yaml:"app"`
	API      APIConfig      `yaml:"api"`
	Upstream UpstreamConfig `yaml:"upstream"`
}

type AppConfig struct {
	Environment string `yaml:"env" validate:"required"`
	LogLevel    string `yaml:"log_level" validate:"oneof=trace debug info warn warning error"`
	LogFormat   string `yaml:"log_format" validate:"oneof=json text"`
}

type APIConfig struct {
	HTTPAddr    string `yaml:"http_addr" validate:"required"`
	GRPCAddr    string `yaml:"grpc_addr"` // пусто — health по gRPC не поднимаем
	SiteBaseURL string `yaml:"site_base_url" validate:"required,url"`
	CORSOrigins string `yaml:"cors_origins" validate:"required"`
}

type UpstreamConfig struct {
	Timeout      time.Duration `yaml:"timeout" validate:"gt=0"`
	Attempts     int           `yaml:"attempts" validate:"min=1,max=3"`
	SearchWindow int           `yaml:"search_window" validate:"min=1,max=2000"`
	Listing      ListingConfig `yaml:"listing"`
	Candles      CandlesConfig `yaml:"candles"`
}

type ListingConfig struct {
	Provider string `yaml:"provider" validate:"oneof=coinlore coincap"`
	BaseURL  string `yaml:"base_url" validate:"omitempty,url"` // пусто — адрес провайдера по умолчанию
}

type CandlesConfig struct {
	Provider string `yaml:"provider" validate:"oneof=binance okx bybit kucoin gate htx bitget"`
	BaseURL  string `yaml:"base_url" validate:"omitempty,url"`
}

func Default() *Config {
	return &Config{
		App: AppConfig{
			Environment: "development",
			LogLevel:    "info",
			LogFormat:   "text",
		},
		API: APIConfig{
			HTTPAddr:    ":8080",
			GRPCAddr:    ":9090",
			SiteBaseURL: "http://localhost:8080",
			CORSOrigins: "*",
		},
		Upstream: UpstreamConfig{
			Timeout:      5 * time.Second,
			Attempts:     1,
			SearchWindow: 100,
			Listing:      ListingConfig{Provider: "coinlore"},
			Candles:      CandlesConfig{Provider: "binance"},
		},
	}
}

// Load читает path (отсутствие файла — не ошибка), накладывает окружение и валидирует.
// Пустой path — CONFIG_PATH или DefaultPath.
func Load(path string) (*Config, error) {
	if path == "" {
		path = getEnv("CONFIG_PATH", DefaultPath)
	}
	cfg := Default()
	// формат лога без явного значения выбирается по окружению в applyEnv
	cfg.App.LogFormat = ""

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("config: разбор %s: %w", path, err)
		}
	case errors.Is(err, fs.ErrNotExist):
	default:
		return nil, fmt.Errorf("config: чтение %s: %w", path, err)
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() error {
	c.App.Environment = getEnv("APP_ENV", c.App.Environment)
	c.App.LogLevel = strings.ToLower(getEnv("LOG_LEVEL", c.App.LogLevel))
	c.App.LogFormat = strings.ToLower(getEnv("LOG_FORMAT", c.App.LogFormat))
	if c.App.LogFormat == "" {
		c.App.LogFormat = "text"
		if c.App.IsProduction() {
			c.App.LogFormat = "json"
		}
	}

	c.API.HTTPAddr = getEnv("HTTP_ADDR", c.API.HTTPAddr)
	if v, ok := os.LookupEnv("GRPC_ADDR"); ok {
		c.API.GRPCAddr = v
	}
	c.API.SiteBaseURL = strings.TrimRight(getEnv("SITE_BASE_URL", c.API.SiteBaseURL), "/")
	c.API.CORSOrigins = getEnv("CORS_ORIGINS", c.API.CORSOrigins)

	var err error
	if c.Upstream.Timeout, err = getEnvAsDuration("UPSTREAM_TIMEOUT", c.Upstream.Timeout); err != nil {
		return err
	}
	if c.Upstream.Attempts, err = getEnvAsInt("UPSTREAM_ATTEMPTS", c.Upstream.Attempts); err != nil {
		return err
	}
	if c.Upstream.SearchWindow, err = getEnvAsInt("SEARCH_WINDOW", c.Upstream.SearchWindow); err != nil {
		return err
	}
	c.Upstream.Listing.Provider = strings.ToLower(getEnv("LISTING_PROVIDER", c.Upstream.Listing.Provider))
	c.Upstream.Listing.BaseURL = getEnv("LISTING_BASE_URL", c.Upstream.Listing.BaseURL)
	c.Upstream.Candles.Provider = strings.ToLower(getEnv("CANDLES_PROVIDER", c.Upstream.Candles.Provider))
	c.Upstream.Candles.BaseURL = getEnv("CANDLES_BASE_URL", c.Upstream.Candles.BaseURL)
	return nil
}

var validate = validator.New()

func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			f := verrs[0]
			return fmt.Errorf("config: поле %s не проходит правило %q (значение %v)", f.Namespace(), f.Tag(), f.Value())
		}
		return fmt.Errorf("config: %w", err)
	}
	return nil
}

// Origins — список разрешённых Origin; "*" — любой.
func (a APIConfig) Origins() []string {
	var out []string
	for _, o := range strings.Split(a.CORSOrigins, ",") {
		if o = strings.TrimSpace(o); o != "" {
			out = append(out, o)
		}
	}
	return out
}

func (a AppConfig) IsProduction() bool {
	return strings.EqualFold(a.Environment, "production")
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) (int, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("config: %s=%q не целое число", key, value)
	}
	return n, nil
}

func getEnvAsDuration(key string, defaultValue time.Duration) (time.Duration, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("config: %s=%q не длительность (пример: 5s)", key, value)
	}
	return d, nil
}
