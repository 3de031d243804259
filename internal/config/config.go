package config

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// BasicAuthConfig holds HTTP Basic Auth credentials for the preview server.
type BasicAuthConfig struct {
	Username string `yaml:"username" json:"username"`
	Password string `yaml:"password" json:"password"`
}

// Config is the top-level application configuration.
type Config struct {
	// Data is the dataset location: a local YAML path or an http(s) URL.
	Data string `yaml:"data" json:"data"`

	// Readme is the target document the report is spliced into.
	Readme string `yaml:"readme" json:"readme"`

	// Assets is the directory rendered SVG artifacts are written to.
	Assets string `yaml:"assets" json:"assets"`

	// Timezone is an explicit IANA zone name used to resolve "today"
	// (e.g. "Asia/Tokyo"). If empty, the PAPERS_TZ / TZ environment
	// chain applies, falling back to the process-local date.
	Timezone string `yaml:"timezone" json:"timezone"`

	// Listen is the HTTP listen address for the preview server.
	Listen string `yaml:"listen" json:"listen"`

	// Refresh is a cron-style schedule for rebuilding the report while
	// the preview server is running (e.g. "@hourly", "*/15 * * * *").
	Refresh string `yaml:"refresh" json:"refresh"`

	// RecentLimit caps the "Recently read" list length.
	RecentLimit int `yaml:"recent_limit" json:"recent_limit"`

	// CacheDir is where remote dataset fetches keep their HTTP cache.
	CacheDir string `yaml:"cache_dir" json:"cache_dir"`

	// BasicAuth, if non-nil, enables HTTP Basic Authentication on all
	// preview endpoints except /health.
	BasicAuth *BasicAuthConfig `yaml:"basic_auth,omitempty" json:"basic_auth,omitempty"`

	// LogLevel is one of debug/info/warn/error.
	LogLevel string `yaml:"log_level" json:"log_level"`
}

// DefaultConfig returns an in-memory default configuration.
func DefaultConfig() *Config {
	return &Config{
		Data:        "data/papers.yml",
		Readme:      "README.md",
		Assets:      "assets",
		Timezone:    "",
		Listen:      "127.0.0.1:8080",
		Refresh:     "@hourly",
		RecentLimit: 10,
		CacheDir:    "./var/data-cache",
		BasicAuth:   nil,
		LogLevel:    "info",
	}
}

// Normalize fills in missing/zero values with defaults so that
// partially-filled config files still behave correctly.
func (c *Config) Normalize() {
	if c.Data == "" {
		c.Data = "data/papers.yml"
	}
	if c.Readme == "" {
		c.Readme = "README.md"
	}
	if c.Assets == "" {
		c.Assets = "assets"
	}
	if c.Listen == "" {
		c.Listen = "127.0.0.1:8080"
	}
	if c.Refresh == "" {
		c.Refresh = "@hourly"
	}
	if c.RecentLimit <= 0 {
		c.RecentLimit = 10
	}
	if c.CacheDir == "" {
		c.CacheDir = "./var/data-cache"
	}
	if c.LogLevel == "" {
		c.LogLevel = "info"
	}
}

// Load loads configuration from the given YAML path.
//
// Behavior:
//   - If the file does not exist, the in-memory defaults are returned
//     without creating anything on disk; the tool is expected to work
//     out of the box inside a reading-log repository.
//   - If the file exists, read YAML, unmarshal, normalize defaults.
func Load(path string) (*Config, error) {
	if path == "" {
		return nil, errors.New("config path is empty")
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return DefaultConfig(), nil
		}
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	cfg.Normalize()

	return &cfg, nil
}

// Save writes the given configuration to the specified path.
//
// Implementation details:
//   - Ensures parent directory exists (0700).
//   - Writes atomically via a temp file + rename.
//   - Final file permissions are 0600 (basic auth credentials may be
//     present).
func Save(path string, cfg *Config) error {
	if path == "" {
		return errors.New("config path is empty")
	}
	if cfg == nil {
		return errors.New("config is nil")
	}

	cfg.Normalize()

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return err
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(dir, ".paperlog-config-*.tmp")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Chmod(tmpName, 0o600); err != nil {
		return err
	}
	return os.Rename(tmpName, path)
}

// Save is a convenience method delegating to the package-level Save.
func (c *Config) Save(path string) error {
	return Save(path, c)
}
