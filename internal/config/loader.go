package config

import (
	"errors"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// DefaultConfigFile is the default configuration file name.
const DefaultConfigFile = ".postfilter"

// ErrConfigNotFound is returned when the configuration file does not exist.
var ErrConfigNotFound = errors.New("configuration file not found")

// File represents the structure of the .postfilter configuration file.
// Every field is optional; zero values leave the corresponding Config field
// untouched.
type File struct {
	Source SourceFile `yaml:"source,omitempty"`
	Server ServerFile `yaml:"server,omitempty"`
	Index  IndexFile  `yaml:"index,omitempty"`
	Output OutputFile `yaml:"output,omitempty"`
}

// SourceFile configures where datasets are fetched from.
type SourceFile struct {
	BaseURL     string        `yaml:"baseURL,omitempty"`
	Timeout     time.Duration `yaml:"timeout,omitempty"`
	MaxBodySize int64         `yaml:"maxBodySize,omitempty"`
	UserAgent   string        `yaml:"userAgent,omitempty"`
	Proxy       ProxyFile     `yaml:"proxy,omitempty"`
}

// ProxyFile configures the optional SOCKS5 proxy.
type ProxyFile struct {
	Address  string `yaml:"address,omitempty"`
	User     string `yaml:"user,omitempty"`
	Password string `yaml:"password,omitempty"`
}

// ServerFile configures the HTTP server.
type ServerFile struct {
	Addr      string `yaml:"addr,omitempty"`
	StaticDir string `yaml:"staticDir,omitempty"`
}

// IndexFile configures the article indexer and the post store.
type IndexFile struct {
	ContentDir string `yaml:"contentDir,omitempty"`
	DBDir      string `yaml:"dbDir,omitempty"`
	Workers    int    `yaml:"workers,omitempty"`
}

// OutputFile configures the filter command output.
type OutputFile struct {
	Format string `yaml:"format,omitempty"`
}

// LoadConfigFile loads a YAML configuration file.
// If the file does not exist, it returns ErrConfigNotFound.
func LoadConfigFile(path string) (*File, error) {
	data, err := os.ReadFile(path) //nolint:gosec // User-provided config path is intentional
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrConfigNotFound
		}
		return nil, err
	}

	var cf File
	if err := yaml.Unmarshal(data, &cf); err != nil {
		return nil, err
	}
	return &cf, nil
}

// Apply overlays the non-zero values of the file onto cfg.
func (cf *File) Apply(cfg *Config) {
	setString(&cfg.BaseURL, cf.Source.BaseURL)
	setString(&cfg.UserAgent, cf.Source.UserAgent)
	setString(&cfg.ProxyAddress, cf.Source.Proxy.Address)
	setString(&cfg.ProxyUser, cf.Source.Proxy.User)
	setString(&cfg.ProxyPassword, cf.Source.Proxy.Password)
	if cf.Source.Timeout > 0 {
		cfg.Timeout = cf.Source.Timeout
	}
	if cf.Source.MaxBodySize > 0 {
		cfg.MaxBodySize = cf.Source.MaxBodySize
	}

	setString(&cfg.Addr, cf.Server.Addr)
	setString(&cfg.StaticDir, cf.Server.StaticDir)

	setString(&cfg.ContentDir, cf.Index.ContentDir)
	setString(&cfg.DBDir, cf.Index.DBDir)
	if cf.Index.Workers > 0 {
		cfg.Workers = cf.Index.Workers
	}

	setString(&cfg.Format, cf.Output.Format)
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}

// FindConfigFile searches for the configuration file in the following order:
// 1. If configPath is specified, use it directly
// 2. Look for .postfilter in the current directory
// 3. Look for .postfilter in the user's home directory
// 4. Look for config.yaml in the XDG config directory
//
// Returns the path to the configuration file if found, or empty string if not found.
func FindConfigFile(configPath string) string {
	if configPath != "" {
		if _, err := os.Stat(configPath); err == nil {
			return configPath
		}
		return ""
	}

	if cwd, err := os.Getwd(); err == nil {
		cwdConfig := filepath.Join(cwd, DefaultConfigFile)
		if _, err := os.Stat(cwdConfig); err == nil {
			return cwdConfig
		}
	}

	if home, err := os.UserHomeDir(); err == nil {
		homeConfig := filepath.Join(home, DefaultConfigFile)
		if _, err := os.Stat(homeConfig); err == nil {
			return homeConfig
		}
	}

	xdgConfig := filepath.Join(XDGConfigDir(), "config.yaml")
	if _, err := os.Stat(xdgConfig); err == nil {
		return xdgConfig
	}

	return ""
}
