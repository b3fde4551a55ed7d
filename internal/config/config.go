package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const envPrefix = "FOCUSOS"

const (
	AuthRemote = "remote"
	AuthJWT    = "jwt"
)

// Config is the merged configuration for both the server and the client
// commands.
type Config struct {
	Addr           string   `yaml:"addr" mapstructure:"addr"`
	DBPath         string   `yaml:"db_path" mapstructure:"db_path"`
	LogLevel       string   `yaml:"log_level" mapstructure:"log_level"`
	LogPath        string   `yaml:"log_path" mapstructure:"log_path"`
	AllowedOrigins []string `yaml:"allowed_origins" mapstructure:"allowed_origins"`

	Auth AuthConfig `yaml:"auth" mapstructure:"auth"`

	// Client side
	APIURL string `yaml:"api_url" mapstructure:"api_url"`
	Token  string `yaml:"token" mapstructure:"token"`
}

// AuthConfig selects how bearer tokens are verified.
type AuthConfig struct {
	Mode        string `yaml:"mode" mapstructure:"mode"`
	ProviderURL string `yaml:"provider_url" mapstructure:"provider_url"`
	APIKey      string `yaml:"api_key" mapstructure:"api_key"`
	JWTSecret   string `yaml:"jwt_secret" mapstructure:"jwt_secret"`
}

// Default returns the default configuration. DBPath is left empty and
// resolved by the caller.
func Default() *Config {
	return &Config{
		Addr:           ":8000",
		LogLevel:       "info",
		AllowedOrigins: []string{"http://localhost:5173", "http://localhost:3000"},
		Auth: AuthConfig{
			Mode: AuthRemote,
		},
		APIURL: "http://localhost:8000",
	}
}

// Load merges defaults, an optional YAML file and FOCUSOS_* environment
// variables, in that order. A .env file in the working directory is loaded
// into the environment first. An empty path falls back to DefaultPath when
// that file exists.
func Load(path string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	v := viper.New()
	setDefaults(v, Default())

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path == "" {
		if p := DefaultPath(); fileExists(p) {
			path = p
		}
	}
	if path != "" {
		v.SetConfigFile(path)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	return cfg, nil
}

// setDefaults registers every key so AutomaticEnv can override keys that
// appear in no file.
func setDefaults(v *viper.Viper, d *Config) {
	v.SetDefault("addr", d.Addr)
	v.SetDefault("db_path", d.DBPath)
	v.SetDefault("log_level", d.LogLevel)
	v.SetDefault("log_path", d.LogPath)
	v.SetDefault("allowed_origins", d.AllowedOrigins)
	v.SetDefault("auth.mode", d.Auth.Mode)
	v.SetDefault("auth.provider_url", d.Auth.ProviderURL)
	v.SetDefault("auth.api_key", d.Auth.APIKey)
	v.SetDefault("auth.jwt_secret", d.Auth.JWTSecret)
	v.SetDefault("api_url", d.APIURL)
	v.SetDefault("token", d.Token)
}

// Validate reports settings the server cannot start without.
func (c *Config) Validate() error {
	if c.Addr == "" {
		return errors.New("addr is required")
	}
	switch c.Auth.Mode {
	case AuthRemote:
		if c.Auth.ProviderURL == "" {
			return errors.New("auth.provider_url is required when auth.mode is remote")
		}
	case AuthJWT:
		if c.Auth.JWTSecret == "" {
			return errors.New("auth.jwt_secret is required when auth.mode is jwt")
		}
	default:
		return fmt.Errorf("unknown auth.mode %q", c.Auth.Mode)
	}
	return nil
}

// Redacted returns a copy with secrets masked, for display.
func (c *Config) Redacted() *Config {
	cp := *c
	cp.AllowedOrigins = append([]string(nil), c.AllowedOrigins...)
	mask := func(s string) string {
		if s == "" {
			return ""
		}
		return "********"
	}
	cp.Token = mask(cp.Token)
	cp.Auth.APIKey = mask(cp.Auth.APIKey)
	cp.Auth.JWTSecret = mask(cp.Auth.JWTSecret)
	return &cp
}

// Dir returns ~/.config/focusos
func Dir() string {
	cfg, err := os.UserConfigDir()
	if err != nil {
		return ".focusos"
	}
	return filepath.Join(cfg, "focusos")
}

// DefaultPath returns the config file used when --config is not given.
func DefaultPath() string {
	return filepath.Join(Dir(), "config.yaml")
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
