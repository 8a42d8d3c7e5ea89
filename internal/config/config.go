package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/Yus314/MoLe-sub005/internal/model"
)

// FileName is the config file looked up in the project directory.
const FileName = "hlsync.yaml"

// ErrProfileNotFound is returned by Profile for unknown names.
var ErrProfileNotFound = errors.New("profile not found")

// Config represents the top-level hlsync.yaml configuration.
type Config struct {
	Database string          `yaml:"database"`
	Log      LogConfig       `yaml:"log"`
	HTTP     HTTPConfig      `yaml:"http"`
	Profiles []ProfileConfig `yaml:"profiles,omitempty"`
}

// LogConfig controls the rotated log file.
type LogConfig struct {
	File       string `yaml:"file"`
	MaxSizeMB  int    `yaml:"max_size_mb"`
	MaxBackups int    `yaml:"max_backups"`
	MaxAgeDays int    `yaml:"max_age_days"`
	Verbose    bool   `yaml:"verbose"`
}

// HTTPConfig controls requests to hledger-web.
type HTTPConfig struct {
	Timeout   time.Duration `yaml:"timeout"`
	UserAgent string        `yaml:"user_agent,omitempty"`
}

// AuthConfig holds basic-auth credentials.
type AuthConfig struct {
	User     string `yaml:"user"`
	Password string `yaml:"password"`
}

// ProfileConfig is one hledger-web server.
type ProfileConfig struct {
	ID               int64                `yaml:"id"`
	Name             string               `yaml:"name"`
	URL              string               `yaml:"url"`
	Auth             *AuthConfig          `yaml:"auth,omitempty"`
	APIVersion       model.APIVersion     `yaml:"api_version"`
	DetectedVersion  *model.ServerVersion `yaml:"detected_version,omitempty"`
	DefaultCommodity string               `yaml:"default_commodity,omitempty"`
}

// Model converts the entry to the domain profile.
func (p ProfileConfig) Model() model.Profile {
	prof := model.Profile{
		ID:               p.ID,
		Name:             p.Name,
		URL:              p.URL,
		APIVersion:       p.APIVersion,
		DefaultCommodity: p.DefaultCommodity,
	}
	if p.Auth != nil {
		prof.Credentials = &model.Credentials{User: p.Auth.User, Password: p.Auth.Password}
	}
	if p.DetectedVersion != nil {
		v := *p.DetectedVersion
		prof.DetectedVersion = &v
	}
	return prof
}

// Load reads a hlsync.yaml file from disk. Unset settings take their
// defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return cfg, nil
}

// Save writes a Config to a YAML file. It is readable by the owner only
// since it may hold passwords.
func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	return nil
}

// Default returns a Config with sensible defaults for a new project.
func Default() *Config {
	return &Config{
		Database: "hlsync.db",
		Log: LogConfig{
			File:       "logs/hlsync.log",
			MaxSizeMB:  10,
			MaxBackups: 3,
			MaxAgeDays: 28,
		},
		HTTP: HTTPConfig{
			Timeout: 30 * time.Second,
		},
	}
}

// Profile returns the profile called name. An empty name selects the only
// profile when there is exactly one.
func (c *Config) Profile(name string) (*ProfileConfig, error) {
	if name == "" {
		switch len(c.Profiles) {
		case 0:
			return nil, fmt.Errorf("no profiles configured: %w", ErrProfileNotFound)
		case 1:
			return &c.Profiles[0], nil
		default:
			return nil, fmt.Errorf("%d profiles configured, pick one with --profile", len(c.Profiles))
		}
	}
	for i := range c.Profiles {
		if c.Profiles[i].Name == name {
			return &c.Profiles[i], nil
		}
	}
	return nil, fmt.Errorf("%q: %w", name, ErrProfileNotFound)
}

// AddProfile appends p with the next free id and returns the stored entry.
func (c *Config) AddProfile(p ProfileConfig) (*ProfileConfig, error) {
	var maxID int64
	for _, existing := range c.Profiles {
		if existing.Name == p.Name {
			return nil, fmt.Errorf("profile %q already exists", p.Name)
		}
		maxID = max(maxID, existing.ID)
	}
	p.ID = maxID + 1
	if err := validateProfile(p); err != nil {
		return nil, err
	}
	c.Profiles = append(c.Profiles, p)
	return &c.Profiles[len(c.Profiles)-1], nil
}

// Validate checks settings and profiles for consistency.
func (c *Config) Validate() error {
	if c.Database == "" {
		return errors.New("database path is empty")
	}
	if c.HTTP.Timeout < 0 {
		return fmt.Errorf("negative http timeout %s", c.HTTP.Timeout)
	}
	names := make(map[string]bool)
	ids := make(map[int64]bool)
	for _, p := range c.Profiles {
		if err := validateProfile(p); err != nil {
			return err
		}
		if names[p.Name] {
			return fmt.Errorf("duplicate profile name %q", p.Name)
		}
		if ids[p.ID] {
			return fmt.Errorf("duplicate profile id %d", p.ID)
		}
		names[p.Name] = true
		ids[p.ID] = true
	}
	return nil
}

func validateProfile(p ProfileConfig) error {
	if p.Name == "" {
		return errors.New("profile without name")
	}
	if p.ID <= 0 {
		return fmt.Errorf("profile %q: id must be positive", p.Name)
	}
	u, err := url.Parse(p.URL)
	if err != nil {
		return fmt.Errorf("profile %q: %w", p.Name, err)
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("profile %q: url %q must be http(s)://host", p.Name, p.URL)
	}
	return nil
}
