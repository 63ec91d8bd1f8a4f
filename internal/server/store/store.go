package store

import (
	"fmt"
	"path/filepath"

	"github.com/dmitrijs2005/incidentkeeper/internal/common"
	"github.com/dmitrijs2005/incidentkeeper/internal/filex"
	"github.com/dmitrijs2005/incidentkeeper/internal/models"
	"github.com/dmitrijs2005/incidentkeeper/internal/server/config"
)

// Store owns the two collections. It is created once at startup and shared
// by every session; there is nothing to flush at shutdown.
type Store struct {
	Users     *Collection[models.User]
	Incidents *Collection[models.Incident]
}

// New prepares cfg.DataDir and binds the users and incidents collections to
// their files inside it. Files are created lazily on first access.
func New(cfg *config.Config) (*Store, error) {
	dir, err := filex.EnsureDir(cfg.DataDir)
	if err != nil {
		return nil, fmt.Errorf("%w: data dir: %w", common.ErrStorage, err)
	}

	return &Store{
		Users:     NewCollection[models.User](common.CollectionUsers, filepath.Join(dir, cfg.UsersFile)),
		Incidents: NewCollection[models.Incident](common.CollectionIncidents, filepath.Join(dir, cfg.IncidentsFile)),
	}, nil
}
