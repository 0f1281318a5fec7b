package commands

import (
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/rifflock/lfshook"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/vulcan-lighting/vulcan/src/vulcan"
)

// NewRunCmd returns the command that starts a Vulcan controller
func NewRunCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "run",
		Short:   "Run controller",
		PreRunE: loadConfig,
		RunE:    runVulcan,
	}
	AddRunFlags(cmd)
	return cmd
}

/*******************************************************************************
* RUN
*******************************************************************************/

func runVulcan(cmd *cobra.Command, args []string) error {
	engine := vulcan.NewVulcan(_config)

	if err := engine.Init(); err != nil {
		_config.Logger().Error("Cannot initialize engine:", err)
		return err
	}

	//Relay SIGINT and SIGTERM to a graceful shutdown
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-sigCh
		engine.Shutdown()
	}()

	return engine.Run()
}

/*******************************************************************************
* CONFIG
*******************************************************************************/

// AddRunFlags adds flags to the Run command
func AddRunFlags(cmd *cobra.Command) {

	cmd.Flags().String("datadir", _config.DataDir, "Top-level directory for configuration and data")
	cmd.Flags().String("log", _config.LogLevel, "debug, info, warn, error, fatal, panic")
	cmd.Flags().String("log-dir", _config.LogDir, "Directory for per-level log files")

	// Output
	cmd.Flags().StringP("device", "p", _config.Device, "Path of the DMX serial device")
	cmd.Flags().Int("refresh", _config.RefreshRate, "Output refresh rate in Hz (30-44)")

	// Service
	cmd.Flags().StringP("service-listen", "s", _config.ServiceAddr, "Listen IP:Port for HTTP service")
	cmd.Flags().Bool("no-service", _config.NoService, "Disable the HTTP service")

	// Backup
	cmd.Flags().StringP("backup", "b", _config.BackupAddr, "Address of the Redis backup server")
	cmd.Flags().Bool("store", _config.Store, "Use a local badgerDB backup instead of Redis")
	cmd.Flags().String("db", _config.DatabaseDir, "Database directory")
	cmd.Flags().Duration("backup-cadence", _config.BackupCadence, "Min interval between backup writes")
}

func loadConfig(cmd *cobra.Command, args []string) error {

	err := bindFlagsLoadViper(cmd)
	if err != nil {
		return err
	}

	// If --datadir was explicitely set, but not --db, this will update the
	// default database dir to be inside the new datadir
	_config.SetDataDir(_config.DataDir)

	if _config.LogDir != "" {
		addLogFileHooks()
	}

	logFields := logrus.Fields{
		"vulcan.DataDir":       _config.DataDir,
		"vulcan.Device":        _config.Device,
		"vulcan.ServiceAddr":   _config.ServiceAddr,
		"vulcan.NoService":     _config.NoService,
		"vulcan.RefreshRate":   _config.RefreshRate,
		"vulcan.BackupAddr":    _config.BackupAddr,
		"vulcan.Store":         _config.Store,
		"vulcan.BackupCadence": _config.BackupCadence,
		"vulcan.LogLevel":      _config.LogLevel,
	}

	if _config.Store {
		logFields["vulcan.DatabaseDir"] = _config.DatabaseDir
	}

	_config.Logger().WithFields(logFields).Debug("RUN")

	return nil
}

// Bind all flags and read the config into viper
func bindFlagsLoadViper(cmd *cobra.Command) error {
	// Register flags with viper. Include flags from this command and all other
	// persistent flags from the parent
	if err := viper.BindPFlags(cmd.Flags()); err != nil {
		return err
	}

	// first unmarshal to read from CLI flags
	if err := viper.Unmarshal(_config); err != nil {
		return err
	}

	// look for config file in [datadir]/vulcan.toml (.json, .yaml also work)
	viper.SetConfigName("vulcan")        // name of config file (without extension)
	viper.AddConfigPath(_config.DataDir) // search root directory

	// If a config file is found, read it in.
	if err := viper.ReadInConfig(); err == nil {
		_config.Logger().Debugf("Using config file: %s", viper.ConfigFileUsed())
	} else if _, ok := err.(viper.ConfigFileNotFoundError); ok {
		_config.Logger().Debugf("No config file found in: %s", _config.DataDir)
	} else {
		return err
	}

	// second unmarshal to read from config file
	return viper.Unmarshal(_config)
}

// addLogFileHooks mirrors info and debug output to files in LogDir.
func addLogFileHooks() {
	logger := _config.Logger().Logger

	pathMap := lfshook.PathMap{}

	infoPath := filepath.Join(_config.LogDir, "vulcan_info.log")
	_, err := os.OpenFile(infoPath, os.O_CREATE|os.O_WRONLY, 0666)
	if err != nil {
		logger.Info("Failed to open vulcan_info.log file, using default stderr")
	} else {
		pathMap[logrus.InfoLevel] = infoPath
	}

	debugPath := filepath.Join(_config.LogDir, "vulcan_debug.log")
	_, err = os.OpenFile(debugPath, os.O_CREATE|os.O_WRONLY, 0666)
	if err != nil {
		logger.Info("Failed to open vulcan_debug.log file, using default stderr")
	} else {
		pathMap[logrus.DebugLevel] = debugPath
	}

	logger.Hooks.Add(lfshook.NewHook(
		pathMap,
		&logrus.TextFormatter{},
	))
}
