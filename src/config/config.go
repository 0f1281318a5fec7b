package config

import (
	"os"
	"os/user"
	"path/filepath"
	"runtime"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/vulcan-lighting/vulcan/src/common"
	prefixed "github.com/x-cray/logrus-prefixed-formatter"
)

// Default filenames.
const (
	// DefaultBadgerFile is the default name of the folder containing the
	// Badger database used for local snapshot backups.
	DefaultBadgerFile = "badger_db"
)

// Default configuration values.
const (
	DefaultLogLevel      = "debug"
	DefaultServiceAddr   = "127.0.0.1:8852"
	DefaultRefreshRate   = 40 // Hz, DMX convention is 30-44
	DefaultBackupCadence = 1 * time.Second
	DefaultStore         = false
)

// Refresh-rate bounds, matching DMX512 convention.
const (
	MinRefreshRate = 30
	MaxRefreshRate = 44
)

// Config contains all the configuration properties of a Vulcan
// controller.
type Config struct {
	// DataDir is the top-level directory containing Vulcan configuration
	// and data.
	DataDir string `mapstructure:"datadir"`

	// LogLevel determines the chattiness of the log output.
	LogLevel string `mapstructure:"log"`

	// LogDir, when set, is a directory that receives per-level log files
	// in addition to the standard output.
	LogDir string `mapstructure:"log-dir"`

	// Device is the path of the serial device driving the DMX adapter.
	// It is the only required setting.
	Device string `mapstructure:"device"`

	// ServiceAddr is the address:port of the HTTP command service.
	ServiceAddr string `mapstructure:"service-listen"`

	// NoService disables the HTTP API service.
	NoService bool `mapstructure:"no-service"`

	// RefreshRate is the output cadence in frames per second. It is a
	// constant cadence, not adaptive, and must lie in [30, 44].
	RefreshRate int `mapstructure:"refresh"`

	// BackupAddr is the address of the Redis backup server. When empty,
	// and Store is false, Backup Sync is disabled entirely.
	BackupAddr string `mapstructure:"backup"`

	// Store activates the local Badger snapshot store as the backup
	// backend. It is ignored when BackupAddr is set.
	Store bool `mapstructure:"store"`

	// DatabaseDir is the directory containing the Badger database files.
	DatabaseDir string `mapstructure:"db"`

	// BackupCadence bounds how often snapshots are pushed to the backup
	// store; mutations arriving faster than this are coalesced.
	BackupCadence time.Duration `mapstructure:"backup-cadence"`

	logger *logrus.Logger
}

// NewDefaultConfig returns a config object with default values.
func NewDefaultConfig() *Config {
	config := &Config{
		DataDir:       DefaultDataDir(),
		LogLevel:      DefaultLogLevel,
		ServiceAddr:   DefaultServiceAddr,
		RefreshRate:   DefaultRefreshRate,
		Store:         DefaultStore,
		DatabaseDir:   DefaultDatabaseDir(),
		BackupCadence: DefaultBackupCadence,
	}

	return config
}

// NewTestConfig returns a config object with default values and a special
// logger for debugging tests.
func NewTestConfig(t testing.TB) *Config {
	config := NewDefaultConfig()
	config.logger = common.NewTestLogger(t)
	return config
}

// SetDataDir sets the top-level Vulcan directory, and updates the
// database directory if it is currently set to the default value. If the
// database directory is not currently the default, it means the user has
// explicitely set it to something else, so avoid changing it again here.
func (c *Config) SetDataDir(dataDir string) {
	c.DataDir = dataDir
	if c.DatabaseDir == DefaultDatabaseDir() {
		c.DatabaseDir = filepath.Join(dataDir, DefaultBadgerFile)
	}
}

// Logger returns a formatted logrus Entry, with prefix set to "vulcan".
func (c *Config) Logger() *logrus.Entry {
	if c.logger == nil {
		c.logger = logrus.New()
		c.logger.Level = LogLevel(c.LogLevel)
		c.logger.Formatter = new(prefixed.TextFormatter)
	}
	return c.logger.WithField("prefix", "vulcan")
}

// DefaultDatabaseDir returns the default path for the badger database
// files.
func DefaultDatabaseDir() string {
	return filepath.Join(DefaultDataDir(), DefaultBadgerFile)
}

// DefaultDataDir return the default directory name for top-level Vulcan
// config based on the underlying OS, attempting to respect conventions.
func DefaultDataDir() string {
	// Try to place the data folder in the user's home dir
	home := HomeDir()
	if home != "" {
		if runtime.GOOS == "darwin" {
			return filepath.Join(home, ".Vulcan")
		} else if runtime.GOOS == "windows" {
			return filepath.Join(home, "AppData", "Roaming", "Vulcan")
		} else {
			return filepath.Join(home, ".vulcan")
		}
	}
	// As we cannot guess a stable location, return empty and handle later
	return ""
}

// HomeDir returns the user's home directory.
func HomeDir() string {
	if home := os.Getenv("HOME"); home != "" {
		return home
	}
	if usr, err := user.Current(); err == nil {
		return usr.HomeDir
	}
	return ""
}

// LogLevel parses a string into a Logrus log level.
func LogLevel(l string) logrus.Level {
	switch l {
	case "debug":
		return logrus.DebugLevel
	case "info":
		return logrus.InfoLevel
	case "warn":
		return logrus.WarnLevel
	case "error":
		return logrus.ErrorLevel
	case "fatal":
		return logrus.FatalLevel
	case "panic":
		return logrus.PanicLevel
	default:
		return logrus.DebugLevel
	}
}
