// Package cli constructs the tulaunch command-line interface, wiring the Cobra
// root command, the Viper-backed configuration loader, and zap logging around
// the launcher.
package cli
