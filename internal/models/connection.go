package models

import "fmt"

// ConnectionConfig holds the settings for a monitored server connection
type ConnectionConfig struct {
	Host     string
	Port     int
	Database string
	User     string
	Password string
	SSLMode  string
}

// Address returns the host:port pair for display
func (c ConnectionConfig) Address() string {
	if c.Port == 0 {
		return c.Host
	}
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}
