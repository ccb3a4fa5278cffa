package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/huh"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	DefaultServiceURL  = "http://localhost:8000"
	DefaultGeminiModel = "gemini-2.5-flash"
	DefaultListenAddr  = ":8080"
	DefaultLogLevel    = "info"

	envPrefix = "QUALIFIER"
)

type Config struct {
	ServiceURL         string `json:"service_url" mapstructure:"service_url"`
	RequestTimeout     string `json:"request_timeout,omitempty" mapstructure:"request_timeout"`
	GeminiAPIKey       string `json:"gemini_api_key,omitempty" mapstructure:"gemini_api_key"`
	GeminiModel        string `json:"gemini_model" mapstructure:"gemini_model"`
	ListenAddr         string `json:"listen_addr" mapstructure:"listen_addr"`
	LogLevel           string `json:"log_level" mapstructure:"log_level"`
	CORSAllowedOrigins string `json:"cors_allowed_origins" mapstructure:"cors_allowed_origins"`
}

// Timeout is the transport timeout for calls to the qualification service.
// Empty means none.
func (c *Config) Timeout() (time.Duration, error) {
	if strings.TrimSpace(c.RequestTimeout) == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(strings.TrimSpace(c.RequestTimeout))
	if err != nil {
		return 0, fmt.Errorf("invalid request_timeout %q: %w", c.RequestTimeout, err)
	}
	if d < 0 {
		return 0, fmt.Errorf("invalid request_timeout %q: must not be negative", c.RequestTimeout)
	}
	return d, nil
}

func GeminiModelOptions() []huh.Option[string] {
	return []huh.Option[string]{
		huh.NewOption("Gemini 2.5 Flash", "gemini-2.5-flash"),
		huh.NewOption("Gemini 2.5 Flash Lite", "gemini-2.5-flash-lite"),
		huh.NewOption("Gemini 2.5 Pro", "gemini-2.5-pro"),
	}
}

func LogLevelOptions() []huh.Option[string] {
	return huh.NewOptions("debug", "info", "warn", "error")
}

func Dir() string {
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".qualifier")
}

// Path is the config file location; QUALIFIER_CONFIG overrides it.
func Path() string {
	if p := os.Getenv(envPrefix + "_CONFIG"); p != "" {
		return p
	}
	return filepath.Join(Dir(), "config.json")
}

// LogPath is where the interactive client writes its logs.
func LogPath() string {
	return filepath.Join(Dir(), "qualifier.log")
}

func fileExists() bool {
	_, err := os.Stat(Path())
	return err == nil
}

// Exists reports whether the client has been configured, either through the
// config file or the environment.
func Exists() bool {
	return fileExists() || os.Getenv(envPrefix+"_SERVICE_URL") != ""
}

// Load layers defaults, the config file and QUALIFIER_* environment
// variables, in increasing order of precedence. A .env file in the working
// directory is loaded into the environment first.
func Load() (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetDefault("service_url", DefaultServiceURL)
	v.SetDefault("request_timeout", "")
	v.SetDefault("gemini_api_key", "")
	v.SetDefault("gemini_model", DefaultGeminiModel)
	v.SetDefault("listen_addr", DefaultListenAddr)
	v.SetDefault("log_level", DefaultLogLevel)
	v.SetDefault("cors_allowed_origins", "*")

	if fileExists() {
		v.SetConfigFile(Path())
		v.SetConfigType("json")
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("invalid config file: %w", err)
		}
	}

	v.SetEnvPrefix(envPrefix)
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	cfg.ServiceURL = strings.TrimRight(strings.TrimSpace(cfg.ServiceURL), "/")
	if cfg.GeminiModel == "" {
		cfg.GeminiModel = DefaultGeminiModel
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) Validate() error {
	if err := validateURL(c.ServiceURL); err != nil {
		return fmt.Errorf("service_url: %w", err)
	}
	if _, err := c.Timeout(); err != nil {
		return err
	}
	if c.ListenAddr == "" {
		return errors.New("listen_addr must not be empty")
	}
	return nil
}

func Save(cfg *Config) error {
	if err := os.MkdirAll(filepath.Dir(Path()), 0700); err != nil {
		return fmt.Errorf("cannot create config directory: %w", err)
	}
	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(Path(), data, 0600)
}

// RunSetup asks for the settings interactively and saves them.
func RunSetup() (*Config, error) {
	cfg := Config{
		ServiceURL:         DefaultServiceURL,
		GeminiModel:        DefaultGeminiModel,
		ListenAddr:         DefaultListenAddr,
		LogLevel:           DefaultLogLevel,
		CORSAllowedOrigins: "*",
	}
	if existing, err := Load(); err == nil {
		cfg = *existing
	}

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Qualification service URL").
				Placeholder(DefaultServiceURL).
				Value(&cfg.ServiceURL).
				Validate(validateURL),
			huh.NewInput().
				Title("Request timeout").
				Description("Go duration such as 90s or 5m. Leave empty to wait as long as the service needs.").
				Value(&cfg.RequestTimeout).
				Validate(func(s string) error {
					c := Config{RequestTimeout: s}
					_, err := c.Timeout()
					return err
				}),
		).Title("Qualification Service"),

		huh.NewGroup(
			huh.NewInput().
				Title("Gemini API Key").
				Description("Optional. Enables /draft to fill event details from pasted text.").
				EchoMode(huh.EchoModePassword).
				Value(&cfg.GeminiAPIKey),
			huh.NewSelect[string]().
				Title("Gemini Model").
				Options(GeminiModelOptions()...).
				Value(&cfg.GeminiModel),
		).Title("Event Drafting"),

		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Log level").
				Options(LogLevelOptions()...).
				Value(&cfg.LogLevel),
		).Title("Logging"),
	)

	if err := form.Run(); err != nil {
		return nil, err
	}

	cfg.ServiceURL = strings.TrimRight(strings.TrimSpace(cfg.ServiceURL), "/")

	if err := Save(&cfg); err != nil {
		return nil, fmt.Errorf("failed to save config: %w", err)
	}

	fmt.Printf("\nConfig saved to %s\n", Path())
	return &cfg, nil
}

func validateURL(s string) error {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "http://") && !strings.HasPrefix(s, "https://") {
		return fmt.Errorf("URL must start with http:// or https://")
	}
	return nil
}
