package lib

import (
	"os"
)

// GetHostname returns the host part of the default node name
func GetHostname() string {
	// pods are addressed by IP within the cluster
	if podIP := os.Getenv("POD_IP"); podIP != "" {
		return podIP
	}

	// docker creates .dockerenv at the root of the container
	if _, err := os.Stat("/.dockerenv"); err == nil {
		if hostname, err := os.Hostname(); err == nil {
			return hostname
		}
	}

	return "localhost"
}
