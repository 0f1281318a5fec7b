// Package config defines the configuration for a Vulcan controller.
//
// Regardless of how Vulcan is started, directly from Go code or as a
// standalone process from the command line, it uses the Config object
// defined in this package to store and forward configuration options. The
// run command additionally looks in the data directory, defined by
// Config.DataDir, for an optional config file:
//
//	vulcan.toml // (.json and .yaml also work) values for any of the run flags.
package config
