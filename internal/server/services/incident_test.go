package services

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/incidentkeeper/internal/common"
	"github.com/dmitrijs2005/incidentkeeper/internal/models"
	"github.com/dmitrijs2005/incidentkeeper/internal/server/store"
)

func newIncidentService(t *testing.T) (*IncidentService, *store.Collection[models.Incident]) {
	t.Helper()
	c := store.NewCollection[models.Incident](common.CollectionIncidents, filepath.Join(t.TempDir(), "incidents.dat"))
	return NewIncidentService(c), c
}

func TestIncidentService_Add(t *testing.T) {
	s, c := newIncidentService(t)
	ctx := context.Background()

	got, err := s.Add(ctx, "alice", "room1", "leak")
	require.NoError(t, err)
	require.Len(t, got, 1)

	listed, err := c.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, got, listed)
	assert.Equal(t, "alice", listed[0].ReportedBy)
	assert.Equal(t, "room1", listed[0].Location)
	assert.Equal(t, "leak", listed[0].Incident)
	assert.NotEqual(t, uuid.Nil, listed[0].ID)
}

func TestIncidentService_UpdateKeepsIDAndDate(t *testing.T) {
	s, _ := newIncidentService(t)
	ctx := context.Background()

	created := time.Date(2026, time.January, 2, 10, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return created }
	added, err := s.Add(ctx, "alice", "room1", "leak")
	require.NoError(t, err)
	orig := added[0]

	s.now = func() time.Time { return created.Add(48 * time.Hour) }
	got, err := s.Update(ctx, orig.ID.String(), "bob", "room2", "flood")
	require.NoError(t, err)

	require.Len(t, got, 1)
	assert.Equal(t, orig.ID, got[0].ID)
	assert.Equal(t, orig.Date, got[0].Date)
	assert.Equal(t, "bob", got[0].ReportedBy)
	assert.Equal(t, "room2", got[0].Location)
	assert.Equal(t, "flood", got[0].Incident)
}

func TestIncidentService_UpdateUnknownIDInserts(t *testing.T) {
	s, _ := newIncidentService(t)
	ctx := context.Background()

	id := uuid.New()
	got, err := s.Update(ctx, id.String(), "bob", "hall", "smoke")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, id, got[0].ID)
}

func TestIncidentService_Delete(t *testing.T) {
	s, _ := newIncidentService(t)
	ctx := context.Background()

	_, err := s.Add(ctx, "alice", "room1", "leak")
	require.NoError(t, err)
	added, err := s.Add(ctx, "bob", "hall", "smoke")
	require.NoError(t, err)

	var victim models.Incident
	for _, i := range added {
		if i.ReportedBy == "alice" {
			victim = i
		}
	}

	got, err := s.Delete(ctx, victim.ID.String())
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "bob", got[0].ReportedBy)
}

func TestIncidentService_MalformedID(t *testing.T) {
	s, c := newIncidentService(t)
	ctx := context.Background()

	_, err := s.Update(ctx, "not-a-uuid", "a", "b", "c")
	assert.ErrorIs(t, err, common.ErrMalformedID)
	assert.ErrorIs(t, err, common.ErrValidation)

	_, err = s.Delete(ctx, "")
	assert.ErrorIs(t, err, common.ErrMalformedID)

	listed, err := c.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, listed)
}
