// Package ui provides helpers for formatting human-readable console output.
//
// It renders shell lifecycle events as short sentences on the console logger
// while the launch result itself stays on standard output.
package ui
