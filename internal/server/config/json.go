package config

import (
	"encoding/json"
	"os"

	"github.com/dmitrijs2005/incidentkeeper/internal/flagx"
	"github.com/dmitrijs2005/incidentkeeper/internal/timex"
)

// JsonConfig is the on-disk shape of the server configuration file. Only
// fields present in the file override the current Config.
type JsonConfig struct {
	EndpointAddr      string         `json:"endpoint_addr"`
	DataDir           string         `json:"data_dir"`
	UsersFile         string         `json:"users_file"`
	IncidentsFile     string         `json:"incidents_file"`
	BindRetryInterval timex.Duration `json:"bind_retry_interval"`
	MaxConnections    *int           `json:"max_connections"`
	SubscriberBuffer  int            `json:"subscriber_buffer"`
	LogLevel          string         `json:"log_level"`
}

// parseJson loads the file named by -c/-config, if any, into config.
// An unreadable file or invalid JSON panics: a bad config file is a startup
// error.
func parseJson(config *Config) {
	jsonConfigFile := flagx.JsonConfigFlags()
	if jsonConfigFile == "" {
		return
	}

	file, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}

	c := &JsonConfig{}
	if err := json.Unmarshal(file, c); err != nil {
		panic(err)
	}

	if c.EndpointAddr != "" {
		config.EndpointAddr = c.EndpointAddr
	}
	if c.DataDir != "" {
		config.DataDir = c.DataDir
	}
	if c.UsersFile != "" {
		config.UsersFile = c.UsersFile
	}
	if c.IncidentsFile != "" {
		config.IncidentsFile = c.IncidentsFile
	}
	if c.BindRetryInterval.Duration > 0 {
		config.BindRetryInterval = c.BindRetryInterval.Duration
	}
	// max_connections may legitimately be 0 (unlimited).
	if c.MaxConnections != nil {
		config.MaxConnections = *c.MaxConnections
	}
	if c.SubscriberBuffer > 0 {
		config.SubscriberBuffer = c.SubscriberBuffer
	}
	if c.LogLevel != "" {
		config.LogLevel = c.LogLevel
	}
}
