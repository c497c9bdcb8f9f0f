package config

import (
	"path/filepath"
	"time"

	"github.com/adrg/xdg"
)

// Default configuration values.
const (
	// DefaultTimeout bounds a single dataset fetch. A listing that cannot be
	// loaded within this time shows an error state instead of hanging.
	DefaultTimeout = 10 * time.Second

	// DefaultMaxBodySize limits the size of a dataset response body.
	DefaultMaxBodySize = 5 * 1024 * 1024 // 5MB

	// DefaultUserAgent identifies postfilter in dataset requests.
	DefaultUserAgent = "postfilter/1.0 (+https://github.com/nao1215/postfilter)"

	// DefaultAddr is the listen address of the HTTP server.
	DefaultAddr = ":8080"

	// DefaultBaseURL is the site the filter command reads datasets from when
	// no local database is used.
	DefaultBaseURL = "http://localhost:8080"

	// DefaultContentDir is the directory holding markdown articles.
	DefaultContentDir = "content"

	// DefaultWorkers is the number of articles indexed concurrently.
	DefaultWorkers = 4

	// DefaultFormat is the output format of the filter command.
	DefaultFormat = FormatText

	// AppName is the application name used for XDG directory paths.
	AppName = "postfilter"
)

// Output formats of the filter command.
const (
	FormatText     = "text"
	FormatHTML     = "html"
	FormatJSON     = "json"
	FormatMarkdown = "markdown"
)

// Config holds all configuration options for postfilter.
// It is populated from defaults, the configuration file and CLI flags, in
// that order, and passed to components explicitly.
type Config struct {
	// BaseURL is the site whose /api/*.json endpoints are read by the
	// filter command when UseDB is false.
	BaseURL string

	// Timeout bounds each dataset fetch.
	Timeout time.Duration

	// MaxBodySize is the maximum dataset response size in bytes.
	MaxBodySize int64

	// UserAgent is sent with dataset requests.
	UserAgent string

	// ProxyAddress routes dataset requests through a SOCKS5 proxy
	// ("host:port"). Empty means direct connections.
	ProxyAddress string

	// ProxyUser and ProxyPassword are optional SOCKS5 credentials.
	ProxyUser     string
	ProxyPassword string

	// Addr is the listen address of the HTTP server.
	Addr string

	// StaticDir is served under /static/ when non-empty.
	StaticDir string

	// ContentDir holds the markdown articles to index.
	ContentDir string

	// DBDir is the directory of the SQLite post store.
	// Defaults to the XDG data directory (~/.local/share/postfilter on Linux).
	DBDir string

	// UseDB makes the filter command read the local post store instead of
	// fetching from BaseURL.
	UseDB bool

	// Workers is the number of articles indexed concurrently.
	Workers int

	// Format is the output format of the filter command.
	Format string

	// OutputFile receives filter output instead of stdout when set.
	OutputFile string

	// Verbose enables debug logging.
	Verbose bool

	// JSONLog switches log output to JSON.
	JSONLog bool

	// ConfigFilePath is the path of the configuration file. If empty, the
	// tool searches for .postfilter in the current and home directories.
	ConfigFilePath string
}

// NewConfig creates a new Config with default values.
func NewConfig() *Config {
	return &Config{
		BaseURL:     DefaultBaseURL,
		Timeout:     DefaultTimeout,
		MaxBodySize: DefaultMaxBodySize,
		UserAgent:   DefaultUserAgent,
		Addr:        DefaultAddr,
		ContentDir:  DefaultContentDir,
		DBDir:       XDGDataDir(),
		Workers:     DefaultWorkers,
		Format:      DefaultFormat,
	}
}

// XDGDataDir returns the XDG data directory for postfilter.
// On Linux: ~/.local/share/postfilter
// On macOS: ~/Library/Application Support/postfilter
// On Windows: %LOCALAPPDATA%\postfilter
func XDGDataDir() string {
	return filepath.Join(xdg.DataHome, AppName)
}

// XDGConfigDir returns the XDG config directory for postfilter.
func XDGConfigDir() string {
	return filepath.Join(xdg.ConfigHome, AppName)
}

// Validate checks if the configuration is valid and returns the first
// problem found.
func (c *Config) Validate() error {
	if c.Timeout <= 0 {
		return ErrInvalidTimeout
	}
	if c.MaxBodySize < 0 {
		return ErrInvalidMaxBodySize
	}
	if c.Workers <= 0 {
		return ErrInvalidWorkers
	}
	switch c.Format {
	case FormatText, FormatHTML, FormatJSON, FormatMarkdown:
	default:
		return ErrUnknownFormat
	}
	if !c.UseDB && c.BaseURL == "" {
		return ErrNoSource
	}
	if c.UseDB && c.DBDir == "" {
		return ErrNoDBDir
	}
	return nil
}
