//go:build !linux && !windows && !darwin && !freebsd && !netbsd && !openbsd && !dragonfly

package logger

func isTerminal(uintptr) bool {
	return false
}
