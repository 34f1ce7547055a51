// Package config handles the XDG configuration directory, settings and the stored session.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"

	"dockassign/internal/catalog"
	"dockassign/internal/logging"
)

const (
	// AppName is the application directory name.
	AppName = "dockassign"

	// ConfigFile is the settings filename inside the config directory.
	ConfigFile = "config.yaml"

	// SessionFile is the stored session filename.
	SessionFile = "session.json"

	// EnvPrefix prefixes every environment override, e.g. DOCKASSIGN_SESSION_HASH.
	EnvPrefix = "DOCKASSIGN"

	// DefaultBaseURL is the fleet API endpoint.
	DefaultBaseURL = "https://api.navixy.com"
)

// Listing strategies.
const (
	StrategyAll      = "all"
	StrategyFiltered = "filtered"
)

// ErrNoSession is returned when no session credential is configured or stored.
var ErrNoSession = errors.New("no session (run: dockassign login, or set DOCKASSIGN_SESSION_HASH)")

// Config holds configuration paths and settings.
type Config struct {
	// Dir is the configuration directory path.
	Dir string

	// Debug enables debug logging.
	Debug bool

	// Quiet suppresses informational output.
	Quiet bool

	// Settings are the merged defaults, config file and environment values.
	Settings Settings

	// Log receives structured logs. Nil discards.
	Log *logging.Logger
}

// Settings is the content of config.yaml.
type Settings struct {
	API     APISettings     `mapstructure:"api" yaml:"api"`
	Session SessionSettings `mapstructure:"session" yaml:"session"`
	List    ListSettings    `mapstructure:"list" yaml:"list"`
	Match   MatchSettings   `mapstructure:"match" yaml:"match"`
	Catalog CatalogSettings `mapstructure:"catalog" yaml:"catalog"`
}

// APISettings controls the remote endpoint.
type APISettings struct {
	BaseURL string `mapstructure:"base_url" yaml:"base_url"`
	// Timeout bounds each API call. Zero leaves it to the transport.
	Timeout time.Duration `mapstructure:"timeout" yaml:"timeout"`
}

// SessionSettings supplies the API credential.
type SessionSettings struct {
	Hash     string `mapstructure:"hash" yaml:"hash"`
	Login    string `mapstructure:"login" yaml:"login"`
	Password string `mapstructure:"password" yaml:"password"`
}

// ListSettings selects how candidate tasks are fetched.
type ListSettings struct {
	// Strategy is "all" (plain listing) or "filtered" (trackers/from/statuses).
	Strategy string        `mapstructure:"strategy" yaml:"strategy"`
	Trackers []int         `mapstructure:"trackers" yaml:"trackers"`
	Statuses []string      `mapstructure:"statuses" yaml:"statuses"`
	Lookback time.Duration `mapstructure:"lookback" yaml:"lookback"`
}

// MatchSettings controls dock-to-task matching.
type MatchSettings struct {
	// Strict refuses to pick when several tasks match a dock.
	Strict bool `mapstructure:"strict" yaml:"strict"`
}

// CatalogSettings overrides the built-in dock and tracker lists.
type CatalogSettings struct {
	Docks    []string          `mapstructure:"docks" yaml:"docks"`
	Trackers []catalog.Tracker `mapstructure:"trackers" yaml:"trackers"`
}

// DefaultSettings returns the settings used when nothing is configured.
func DefaultSettings() Settings {
	return Settings{
		API: APISettings{
			BaseURL: DefaultBaseURL,
		},
		List: ListSettings{
			Strategy: StrategyAll,
			Statuses: []string{"assigned"},
		},
	}
}

// New creates a new Config with default settings and the default or specified config directory.
// If configDir is empty, uses XDG_CONFIG_HOME/dockassign or $HOME/.config/dockassign.
func New(configDir string) *Config {
	dir := configDir
	if dir == "" {
		dir = DefaultConfigDir()
	}
	return &Config{Dir: dir, Settings: DefaultSettings()}
}

// Load creates a Config and merges config.yaml and DOCKASSIGN_* environment
// variables over the defaults.
func Load(configDir string) (*Config, error) {
	cfg := New(configDir)

	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	path := cfg.ConfigPath()
	if _, err := os.Stat(path); err == nil {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", path, err)
		}
	}

	if err := v.Unmarshal(&cfg.Settings); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	if err := cfg.Settings.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	d := DefaultSettings()
	v.SetDefault("api.base_url", d.API.BaseURL)
	v.SetDefault("api.timeout", d.API.Timeout)
	v.SetDefault("session.hash", "")
	v.SetDefault("session.login", "")
	v.SetDefault("session.password", "")
	v.SetDefault("list.strategy", d.List.Strategy)
	v.SetDefault("list.trackers", []int{})
	v.SetDefault("list.statuses", d.List.Statuses)
	v.SetDefault("list.lookback", d.List.Lookback)
	v.SetDefault("match.strict", false)
	v.SetDefault("catalog.docks", []string{})
}

// Validate checks setting values that cannot be caught by decoding.
func (s Settings) Validate() error {
	switch s.List.Strategy {
	case StrategyAll, StrategyFiltered:
	default:
		return fmt.Errorf("invalid list.strategy: %q (want %q or %q)", s.List.Strategy, StrategyAll, StrategyFiltered)
	}
	if s.API.BaseURL == "" {
		return fmt.Errorf("api.base_url must not be empty")
	}
	if s.API.Timeout < 0 {
		return fmt.Errorf("api.timeout must not be negative")
	}
	if s.List.Lookback < 0 {
		return fmt.Errorf("list.lookback must not be negative")
	}
	return nil
}

// Catalog returns the configured catalog, falling back to the built-in lists.
func (c *Config) Catalog() catalog.Catalog {
	cat := catalog.Default()
	if len(c.Settings.Catalog.Docks) > 0 {
		cat.Docks = c.Settings.Catalog.Docks
	}
	if len(c.Settings.Catalog.Trackers) > 0 {
		cat.Trackers = c.Settings.Catalog.Trackers
	}
	return cat
}

// Logger returns the configured logger, or a discarding one.
func (c *Config) Logger() *logging.Logger {
	if c.Log == nil {
		return logging.Nop()
	}
	return c.Log
}

// DefaultConfigDir returns the default configuration directory.
// Uses XDG_CONFIG_HOME if set, otherwise $HOME/.config.
func DefaultConfigDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, AppName)
	}
	home, err := os.UserHomeDir()
	if err != nil {
		// Fallback to current directory if home can't be determined
		return AppName
	}
	return filepath.Join(home, ".config", AppName)
}

// ConfigPath returns the path to config.yaml.
func (c *Config) ConfigPath() string {
	return filepath.Join(c.Dir, ConfigFile)
}

// SessionPath returns the path to the stored session file.
func (c *Config) SessionPath() string {
	return filepath.Join(c.Dir, SessionFile)
}

// EnsureDir creates the config directory if it doesn't exist.
// Directory is created with mode 0700.
func (c *Config) EnsureDir() error {
	return os.MkdirAll(c.Dir, 0700)
}

// Session is the content of session.json.
type Session struct {
	Hash      string    `json:"hash"`
	Login     string    `json:"login,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// HasSession checks if the session file exists.
func (c *Config) HasSession() bool {
	_, err := os.Stat(c.SessionPath())
	return err == nil
}

// LoadSession reads session.json.
func (c *Config) LoadSession() (Session, error) {
	data, err := os.ReadFile(c.SessionPath())
	if err != nil {
		return Session{}, err
	}
	var s Session
	if err := json.Unmarshal(data, &s); err != nil {
		return Session{}, fmt.Errorf("invalid %s: %w", SessionFile, err)
	}
	if s.Hash == "" {
		return Session{}, fmt.Errorf("invalid %s: empty hash", SessionFile)
	}
	return s, nil
}

// SaveSession writes session.json with mode 0600.
func (c *Config) SaveSession(s Session) error {
	if err := c.EnsureDir(); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(c.SessionPath(), data, 0600)
}

// RemoveSession deletes the session file.
func (c *Config) RemoveSession() error {
	return os.Remove(c.SessionPath())
}

// SessionHash returns the credential to use: the configured hash first,
// then the stored session. Returns ErrNoSession if neither exists.
func (c *Config) SessionHash() (string, error) {
	if h := strings.TrimSpace(c.Settings.Session.Hash); h != "" {
		return h, nil
	}
	if !c.HasSession() {
		return "", ErrNoSession
	}
	s, err := c.LoadSession()
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrNoSession, err)
	}
	return s.Hash, nil
}

// HasCredentials reports whether login/password are configured for lazy authentication.
func (c *Config) HasCredentials() bool {
	return c.Settings.Session.Login != "" && c.Settings.Session.Password != ""
}
