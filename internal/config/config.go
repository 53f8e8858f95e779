package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// DefaultAPIURL is used when nothing else is configured.
const DefaultAPIURL = "https://api.aula.school"

// Config holds the client configuration.
type Config struct {
	APIURL      string        `mapstructure:"api_url"`
	BaseURL     string        `mapstructure:"base_url"`
	SessionDir  string        `mapstructure:"session_dir"`
	DownloadDir string        `mapstructure:"download_dir"` // certificate PDFs
	LogLevel    string        `mapstructure:"log_level"`
	Timeout     time.Duration `mapstructure:"timeout"`
	// Token, when set, overrides the stored session token.
	Token string `mapstructure:"token"`
}

// LogPath is the log file inside the session directory.
func (c *Config) LogPath() string {
	return filepath.Join(c.SessionDir, "aula.log")
}

// Load reads configuration for the current user.
//
// Precedence: AULA_* env vars > .env in the working directory >
// <session dir>/config.yaml > defaults.
func Load() (*Config, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("config.Load: get home dir: %w", err)
	}
	return LoadFrom(home)
}

// LoadFrom is Load with an explicit home directory.
func LoadFrom(home string) (*Config, error) {
	// .env is optional; real env vars win because godotenv never overwrites.
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("config.Load: read .env: %w", err)
	}

	v := viper.New()
	setDefaults(v, home)

	v.SetEnvPrefix("AULA")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	dir := v.GetString("session_dir")
	v.SetConfigFile(filepath.Join(dir, "config.yaml"))
	if err := v.ReadInConfig(); err != nil && !isNotFound(err) {
		return nil, fmt.Errorf("config.Load: read config file: %w", err)
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("config.Load: %w", err)
	}
	if err := cfg.normalize(); err != nil {
		return nil, fmt.Errorf("config.Load: %w", err)
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper, home string) {
	v.SetDefault("api_url", DefaultAPIURL)
	v.SetDefault("base_url", "")
	v.SetDefault("session_dir", filepath.Join(home, ".aula"))
	v.SetDefault("download_dir", filepath.Join(home, "Downloads"))
	v.SetDefault("log_level", "info")
	v.SetDefault("timeout", 30*time.Second)
	v.SetDefault("token", "")
}

func isNotFound(err error) bool {
	var nf viper.ConfigFileNotFoundError
	return errors.As(err, &nf) || errors.Is(err, os.ErrNotExist)
}

func (c *Config) normalize() error {
	c.APIURL = strings.TrimRight(strings.TrimSpace(c.APIURL), "/")
	u, err := url.Parse(c.APIURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("invalid api_url %q", c.APIURL)
	}
	if c.BaseURL == "" {
		c.BaseURL = deriveBaseURL(u)
	}
	c.BaseURL = strings.TrimRight(c.BaseURL, "/")
	if c.Timeout <= 0 {
		c.Timeout = 30 * time.Second
	}
	return nil
}

// deriveBaseURL maps api.example.com to example.com; the web login lives on
// the bare host.
func deriveBaseURL(api *url.URL) string {
	u := *api
	u.Path = ""
	host := u.Hostname()
	if strings.HasPrefix(host, "api.") {
		u.Host = strings.TrimPrefix(host, "api.")
		if api.Port() != "" {
			u.Host += ":" + api.Port()
		}
	}
	return u.String()
}
