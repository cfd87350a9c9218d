// Package launcher runs the inventory entry point through the host command shell.
//
// The launcher selects sh or cmd based on the operating system, runs the
// configured interpreter against a script path relative to the working
// directory, and prints the captured child result without interpreting it.
package launcher
