//go:build !linux

package main

import "os"

// isTerminal is conservative on platforms without termios: no color.
func isTerminal(*os.File) bool {
	return false
}
