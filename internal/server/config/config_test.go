package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func assertDefaults(t *testing.T, c *Config) {
	t.Helper()
	assert.Equal(t, ":63012", c.EndpointAddr)
	assert.Equal(t, ".", c.DataDir)
	assert.Equal(t, "users.dat", c.UsersFile)
	assert.Equal(t, "incidents.dat", c.IncidentsFile)
	assert.Equal(t, 500*time.Millisecond, c.BindRetryInterval)
	assert.Equal(t, 1024, c.MaxConnections)
	assert.Equal(t, 16, c.SubscriberBuffer)
	assert.Equal(t, "info", c.LogLevel)
}

func TestLoadDefaults(t *testing.T) {
	var c Config
	c.LoadDefaults()
	assertDefaults(t, &c)
}

func TestLoadConfig_UsesDefaultsBeforeParsing(t *testing.T) {
	origArgs := os.Args
	t.Cleanup(func() { os.Args = origArgs })
	os.Args = []string{"testbin"}

	c := LoadConfig()

	require.NotNil(t, c, "LoadConfig must not return nil")
	assertDefaults(t, c)
}
