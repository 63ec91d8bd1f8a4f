package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/dmitrijs2005/incidentkeeper/internal/common"
	"github.com/dmitrijs2005/incidentkeeper/internal/models"
)

// IncidentRepository is the part of the incidents collection
// IncidentService needs. Every mutation returns the resulting snapshot.
type IncidentRepository interface {
	List(ctx context.Context) ([]models.Incident, error)
	Add(ctx context.Context, record models.Incident) ([]models.Incident, error)
	UpdateFunc(ctx context.Context, id uuid.UUID, fn func(prev models.Incident, found bool) models.Incident) ([]models.Incident, error)
	Remove(ctx context.Context, id uuid.UUID) ([]models.Incident, error)
}

// IncidentService implements incident reporting on top of the incidents
// collection. Subscribers are notified by the collection itself.
type IncidentService struct {
	incidents IncidentRepository
	now       func() time.Time
}

func NewIncidentService(incidents IncidentRepository) *IncidentService {
	return &IncidentService{incidents: incidents, now: time.Now}
}

func (s *IncidentService) List(ctx context.Context) ([]models.Incident, error) {
	return s.incidents.List(ctx)
}

// Add files a new report and returns the updated list.
func (s *IncidentService) Add(ctx context.Context, reportedBy, location, description string) ([]models.Incident, error) {
	rec := models.NewIncidentAt(uuid.New(), reportedBy, location, description, s.now())
	return s.incidents.Add(ctx, rec)
}

// Update rewrites the report with the given id. The id and the original
// date survive; an unknown id files a new report under that id.
func (s *IncidentService) Update(ctx context.Context, id, reportedBy, location, description string) ([]models.Incident, error) {
	parsed, err := parseID(id)
	if err != nil {
		return nil, err
	}

	return s.incidents.UpdateFunc(ctx, parsed, func(prev models.Incident, found bool) models.Incident {
		next := models.NewIncidentAt(parsed, reportedBy, location, description, s.now())
		if found {
			next.Date = prev.Date
		}
		return next
	})
}

func (s *IncidentService) Delete(ctx context.Context, id string) ([]models.Incident, error) {
	parsed, err := parseID(id)
	if err != nil {
		return nil, err
	}
	return s.incidents.Remove(ctx, parsed)
}

func parseID(id string) (uuid.UUID, error) {
	parsed, err := uuid.Parse(id)
	if err != nil {
		return uuid.Nil, fmt.Errorf("%w: %q", common.ErrMalformedID, id)
	}
	return parsed, nil
}
