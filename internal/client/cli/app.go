package cli

import (
	"bufio"
	"context"
	"io"
	"os"
	"sync"

	"github.com/dmitrijs2005/incidentkeeper/internal/client/client"
	"github.com/dmitrijs2005/incidentkeeper/internal/client/config"
	"github.com/dmitrijs2005/incidentkeeper/internal/models"
)

// IncidentClient is the server API the CLI needs. *client.Client satisfies
// it.
type IncidentClient interface {
	Login(ctx context.Context, username, password string) ([]models.Incident, error)
	AddIncident(ctx context.Context, reportedBy, location, description string) ([]models.Incident, error)
	UpdateIncident(ctx context.Context, id, reportedBy, location, description string) ([]models.Incident, error)
	DeleteIncident(ctx context.Context, id string) ([]models.Incident, error)
	Subscribe(ctx context.Context, fn func([]models.Incident)) error
}

type App struct {
	config   *config.Config
	client   IncidentClient
	reader   *bufio.Reader
	out      io.Writer
	userName string
	password string

	mu        sync.Mutex
	stopWatch context.CancelFunc
	watchDone chan struct{}
	outMu     sync.Mutex
}

func NewApp(c *config.Config) (*App, error) {
	return newApp(c, client.New(c), os.Stdin, os.Stdout), nil
}

func newApp(c *config.Config, ic IncidentClient, in io.Reader, out io.Writer) *App {
	return &App{config: c, client: ic, reader: bufio.NewReader(in), out: out}
}

func (a *App) Run(ctx context.Context) {
	defer a.Unwatch(ctx)
	a.Root(ctx)
}

func (a *App) isLoggedIn() bool {
	return a.userName != ""
}

func (a *App) isWatching() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.stopWatch != nil
}
