// Package models holds the two record kinds kept by the server and shared
// with the client: users and incident reports.
package models

import (
	"time"

	"github.com/google/uuid"
)

// DateLayout is the format of Incident.Date, e.g. "10/19/26 3:04 PM".
const DateLayout = "1/2/06 3:04 PM"

// Record is implemented by every entity stored in a collection.
type Record interface {
	GetID() uuid.UUID
}

type User struct {
	ID       uuid.UUID `json:"id"`
	Username string    `json:"username"`
	Password string    `json:"password"`
}

// NewUser builds a user with a freshly generated id.
func NewUser(username, password string) User {
	return User{
		ID:       uuid.New(),
		Username: username,
		Password: password,
	}
}

func (u User) GetID() uuid.UUID { return u.ID }

// Incident is a single report. Date is captured once, when the report is
// first created.
type Incident struct {
	ID         uuid.UUID `json:"id"`
	ReportedBy string    `json:"reportedBy"`
	Location   string    `json:"location"`
	Date       string    `json:"date"`
	Incident   string    `json:"incident"`
}

// NewIncident builds an incident with a fresh id, dated now.
func NewIncident(reportedBy, location, description string) Incident {
	return NewIncidentAt(uuid.New(), reportedBy, location, description, time.Now())
}

// NewIncidentAt builds an incident with explicit id and creation time.
func NewIncidentAt(id uuid.UUID, reportedBy, location, description string, at time.Time) Incident {
	return Incident{
		ID:         id,
		ReportedBy: reportedBy,
		Location:   location,
		Date:       at.Format(DateLayout),
		Incident:   description,
	}
}

func (i Incident) GetID() uuid.UUID { return i.ID }
