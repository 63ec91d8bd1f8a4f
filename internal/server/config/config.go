// Package config handles configuration for the server component,
// including defaults, JSON overlay, and command-line flags.
package config

import "time"

// Config holds runtime settings for the incident keeper server.
//
// Fields:
//   - EndpointAddr: TCP bind address for the line protocol.
//   - DataDir: directory holding the collection files.
//   - UsersFile / IncidentsFile: file names inside DataDir.
//   - BindRetryInterval: pause between failed bind attempts.
//   - MaxConnections: concurrent connection cap, 0 disables it.
//   - SubscriberBuffer: pending pushes kept per subscriber.
//   - LogLevel: debug, info, warn or error.
type Config struct {
	EndpointAddr      string
	DataDir           string
	UsersFile         string
	IncidentsFile     string
	BindRetryInterval time.Duration
	MaxConnections    int
	SubscriberBuffer  int
	LogLevel          string
}

// LoadDefaults populates Config with development defaults.
func (c *Config) LoadDefaults() {
	c.EndpointAddr = ":63012"
	c.DataDir = "."
	c.UsersFile = "users.dat"
	c.IncidentsFile = "incidents.dat"
	c.BindRetryInterval = 500 * time.Millisecond
	c.MaxConnections = 1024
	c.SubscriberBuffer = 16
	c.LogLevel = "info"
}

// LoadConfig builds a Config by applying defaults, then overlaying values
// from an optional JSON file and finally from command-line flags.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)
	parseFlags(cfg)
	return cfg
}
