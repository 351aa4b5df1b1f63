// Package config provides configuration helpers for go-leveler commands.
package config

import (
	"os"
	"strconv"
)

// Defaults for the leveler binary.
const (
	DefaultWebPort   = "8090"
	DefaultCameraID  = 0
	DefaultFrameRate = 15
)

// WebPort returns the dashboard port from LEVELER_PORT or the default.
func WebPort() string {
	if port := os.Getenv("LEVELER_PORT"); port != "" {
		return port
	}
	return DefaultWebPort
}

// CameraID returns the capture device index from LEVELER_CAMERA or the
// default.
func CameraID() int {
	if v := os.Getenv("LEVELER_CAMERA"); v != "" {
		if id, err := strconv.Atoi(v); err == nil {
			return id
		}
	}
	return DefaultCameraID
}

// LogLevel returns the log level from LEVELER_LOG or "info".
func LogLevel() string {
	if lvl := os.Getenv("LEVELER_LOG"); lvl != "" {
		return lvl
	}
	return "info"
}
