// Package config handles CLI configuration loading and management.
package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"time"

	"github.com/hashicorp/go-multierror"
	"github.com/ilyakaznacheev/cleanenv"
	"github.com/spf13/afero"
	"gopkg.in/yaml.v3"
)

// DefaultProfileName is used when neither a flag, MEILI_PROFILE nor the
// config file names a profile.
const DefaultProfileName = "default"

// Config represents the CLI configuration.
type Config struct {
	DefaultProfile string             `yaml:"default_profile,omitempty"`
	Profiles       map[string]Profile `yaml:"profiles"`
}

// Profile describes one server.
type Profile struct {
	Host string `yaml:"host"`
	// APIKeyRef names the keystore entry holding the key.
	APIKeyRef    string        `yaml:"api_key_ref,omitempty"`
	ClientAgents []string      `yaml:"client_agents,omitempty"`
	Timeout      time.Duration `yaml:"timeout,omitempty"`
}

// Env holds environment overrides.
type Env struct {
	Host    string `env:"MEILI_HOST"`
	APIKey  string `env:"MEILI_API_KEY"`
	Profile string `env:"MEILI_PROFILE"`
}

// ReadEnv reads the MEILI_* overrides from the process environment.
func ReadEnv() (Env, error) {
	var env Env
	if err := cleanenv.ReadEnv(&env); err != nil {
		return Env{}, fmt.Errorf("failed to read environment: %w", err)
	}
	return env, nil
}

// Resolved is the effective connection settings after applying the
// profile and environment overrides.
type Resolved struct {
	Profile      string
	Host         string
	APIKey       string
	APIKeyRef    string
	ClientAgents []string
	Timeout      time.Duration
}

// DefaultConfigPath returns the default configuration file path for the current platform.
// - macOS/Linux: ~/.meili/config.yaml
// - Windows: %USERPROFILE%\.meili\config.yaml
func DefaultConfigPath() string {
	return filepath.Join(homeDir(), ".meili", "config.yaml")
}

func homeDir() string {
	var dir string
	if runtime.GOOS == "windows" {
		dir = os.Getenv("USERPROFILE")
	} else {
		dir = os.Getenv("HOME")
	}
	if dir == "" {
		return "."
	}
	return dir
}

// New returns an empty configuration.
func New() *Config {
	return &Config{Profiles: make(map[string]Profile)}
}

// Load loads configuration from path on fs.
// If the file doesn't exist, returns an empty config without error.
// Returns an error only if the file exists but cannot be read, parsed or
// validated.
func Load(fs afero.Fs, path string) (*Config, error) {
	cfg := New()

	data, err := afero.ReadFile(fs, path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return nil, err
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	if cfg.Profiles == nil {
		cfg.Profiles = make(map[string]Profile)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return cfg, nil
}

// Save writes cfg to path on fs, creating the directory if needed.
func Save(fs afero.Fs, path string, cfg *Config) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	if err := fs.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return err
	}
	return afero.WriteFile(fs, path, data, 0o600)
}

// Validate reports every problem in the configuration at once.
func (c *Config) Validate() error {
	var result *multierror.Error

	names := make([]string, 0, len(c.Profiles))
	for name := range c.Profiles {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		if err := c.Profiles[name].validate(); err != nil {
			result = multierror.Append(result, fmt.Errorf("profile %q: %w", name, err))
		}
	}
	if c.DefaultProfile != "" {
		if _, ok := c.Profiles[c.DefaultProfile]; !ok {
			result = multierror.Append(result, fmt.Errorf("default_profile %q is not defined", c.DefaultProfile))
		}
	}
	return result.ErrorOrNil()
}

func (p Profile) validate() error {
	if p.Host == "" {
		return errors.New("host is required")
	}
	if err := validateHost(p.Host); err != nil {
		return err
	}
	if p.Timeout < 0 {
		return errors.New("timeout must not be negative")
	}
	return nil
}

func validateHost(host string) error {
	u, err := url.Parse(host)
	if err != nil {
		return fmt.Errorf("invalid host: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("invalid host %q: scheme must be http or https", host)
	}
	if u.Host == "" {
		return fmt.Errorf("invalid host %q: missing hostname", host)
	}
	return nil
}

// GetProfile returns the profile with the given name.
// Returns nil if the profile is not configured.
func (c *Config) GetProfile(name string) *Profile {
	if c.Profiles == nil {
		return nil
	}
	if p, ok := c.Profiles[name]; ok {
		return &p
	}
	return nil
}

// Resolve picks the profile (flag, then MEILI_PROFILE, then
// default_profile, then "default") and applies env overrides.
// The API key is only set when MEILI_API_KEY is; callers look APIKeyRef up
// in the keystore otherwise. An empty host is not an error here since
// some commands never contact the server.
func (c *Config) Resolve(profileFlag string, env Env) (Resolved, error) {
	name := firstNonEmpty(profileFlag, env.Profile, c.DefaultProfile, DefaultProfileName)

	var r Resolved
	r.Profile = name
	p := c.GetProfile(name)
	if p != nil {
		r.Host = p.Host
		r.APIKeyRef = p.APIKeyRef
		r.ClientAgents = p.ClientAgents
		r.Timeout = p.Timeout
	} else if profileFlag != "" || env.Profile != "" {
		return Resolved{}, fmt.Errorf("profile %q is not defined", name)
	}

	if env.Host != "" {
		r.Host = env.Host
	}
	r.APIKey = env.APIKey

	if r.Host != "" {
		if err := validateHost(r.Host); err != nil {
			return Resolved{}, err
		}
	}
	return r, nil
}

// CheckHost reports an error when no host was configured anywhere.
func (r Resolved) CheckHost() error {
	if r.Host == "" {
		return errors.New("no host configured: run 'meili init' or set MEILI_HOST")
	}
	return nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
