package config

import (
	"flag"
	"os"
	"time"

	"github.com/dmitrijs2005/incidentkeeper/internal/flagx"
)

// parseFlags populates selected server Config fields from command-line flags.
//
// Supported flags (short forms):
//
//	-a string   bind address (e.g., ":63012")
//	-d string   data directory
//	-u string   users file name
//	-i string   incidents file name
//	-r int      bind retry interval, milliseconds
//	-m int      max concurrent connections (0 = unlimited)
//	-b int      per-subscriber push buffer
//	-l string   log level
//
// os.Args is first filtered with flagx.FilterArgs so that -c/-config and
// unknown flags do not reach this flag set.
func parseFlags(config *Config) {
	args := flagx.FilterArgs(os.Args[1:], []string{"-a", "-d", "-u", "-i", "-r", "-m", "-b", "-l"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&config.EndpointAddr, "a", config.EndpointAddr, "address and port to run server")
	fs.StringVar(&config.DataDir, "d", config.DataDir, "data directory")
	fs.StringVar(&config.UsersFile, "u", config.UsersFile, "users file name")
	fs.StringVar(&config.IncidentsFile, "i", config.IncidentsFile, "incidents file name")

	bindRetryInterval := fs.Int("r", int(config.BindRetryInterval.Milliseconds()), "bind retry interval (in milliseconds)")

	fs.IntVar(&config.MaxConnections, "m", config.MaxConnections, "max concurrent connections, 0 for unlimited")
	fs.IntVar(&config.SubscriberBuffer, "b", config.SubscriberBuffer, "pending pushes kept per subscriber")
	fs.StringVar(&config.LogLevel, "l", config.LogLevel, "log level")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	config.BindRetryInterval = time.Duration(*bindRetryInterval) * time.Millisecond
}
