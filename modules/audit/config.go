package audit

import "fmt"

const (
	defaultLogFile     = "audit.jsonl"
	defaultDBFile      = "audit.db"
	defaultBusyTimeout = 5000
	defaultMaxSizeMB   = 10
	defaultMaxBackups  = 5
	defaultMaxAgeDays  = 30
)

// Config holds the audit module configuration.
type Config struct {
	// Path is the JSONL audit log path. Defaults to {DataDir}/audit.jsonl.
	Path string `yaml:"path"`

	// MaxSizeMB is the size in megabytes before the log rotates.
	MaxSizeMB int `yaml:"max_size_mb"`

	// MaxBackups is the number of rotated files to retain.
	MaxBackups int `yaml:"max_backups"`

	// MaxAgeDays is the retention window for rotated files.
	MaxAgeDays int `yaml:"max_age_days"`

	// Compress gzips rotated files. Defaults to true.
	Compress *bool `yaml:"compress"`

	// Store enables the SQLite error sink.
	Store StoreConfig `yaml:"store"`
}

// StoreConfig holds the optional SQLite sink settings.
type StoreConfig struct {
	// Enabled turns the sink on. Off by default.
	Enabled bool `yaml:"enabled"`

	// Path is the database file path. Defaults to {DataDir}/audit.db.
	Path string `yaml:"path"`

	// WAL enables WAL journal mode. Defaults to true.
	WAL *bool `yaml:"wal"`

	// BusyTimeout is the milliseconds to wait on a busy lock. Defaults to 5000.
	BusyTimeout int `yaml:"busy_timeout"`
}

func (c *Config) defaults() {
	if c.MaxSizeMB == 0 {
		c.MaxSizeMB = defaultMaxSizeMB
	}
	if c.MaxBackups == 0 {
		c.MaxBackups = defaultMaxBackups
	}
	if c.MaxAgeDays == 0 {
		c.MaxAgeDays = defaultMaxAgeDays
	}
	if c.Compress == nil {
		t := true
		c.Compress = &t
	}
	if c.Store.BusyTimeout == 0 {
		c.Store.BusyTimeout = defaultBusyTimeout
	}
}

func (c *StoreConfig) walEnabled() bool {
	return c.WAL == nil || *c.WAL
}

func (c *Config) validate() error {
	if c.MaxSizeMB < 0 || c.MaxBackups < 0 || c.MaxAgeDays < 0 {
		return fmt.Errorf("audit: rotation settings must be non-negative")
	}
	if c.Store.BusyTimeout < 0 {
		return fmt.Errorf("audit: store.busy_timeout must be non-negative, got %d", c.Store.BusyTimeout)
	}
	return nil
}
