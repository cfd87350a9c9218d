// Package utils exposes the launcher's ambient helpers.
//
// ConfigurationLoader merges embedded defaults, configuration files and
// TULAUNCH_ environment overrides through Viper; LoggerFactory builds zap
// loggers that write to standard error so standard output stays reserved for
// the launch result.
package utils
