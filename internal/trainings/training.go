package trainings

import (
	"time"

	"github.com/2beens/homerun/internal/activities"
	"github.com/2beens/homerun/internal/events"
)

// Training is a named block of preparation, usually leading up to a
// race. Events and activities link themselves to a training and are
// served together with it.
type Training struct {
	ID          int                   `json:"id"`
	Name        string                `json:"name"`
	Discipline  activities.Discipline `json:"discipline"`
	Description string                `json:"description,omitempty"`
	BeginDate   time.Time             `json:"beginDate"`
	EndDate     time.Time             `json:"endDate"`
	UserID      int                   `json:"userId"`
	Events      []events.Event        `json:"events"`
	Activities  []activities.Activity `json:"activities"`
}
