package events

import (
	"time"

	"github.com/2beens/homerun/internal/activities"
)

// Goal is the target for an event: the wanted finish time, with pace
// and speed derived from the event's nominal distance.
type Goal struct {
	ID      int     `json:"id"`
	EventID int     `json:"eventId"`
	Time    int     `json:"time"`
	Pace    int     `json:"pace"`
	Speed   float64 `json:"speed"`
}

// Event is a planned or logged race. Its distance tag comes from the
// nominal distance, not from a result - none may exist yet.
type Event struct {
	ID          int                     `json:"id"`
	Name        string                  `json:"name"`
	Discipline  activities.Discipline   `json:"discipline"`
	Description string                  `json:"description,omitempty"`
	Date        time.Time               `json:"date"`
	Distance    float64                 `json:"distance"`
	DistanceTag activities.DistanceTag  `json:"distanceTag,omitempty"`
	Environment string                  `json:"environment,omitempty"`
	RaceType    activities.RaceType     `json:"raceType,omitempty"`
	UserID      int                     `json:"userId"`
	TrainingID  *int                    `json:"trainingId,omitempty"`
	Goal        *Goal                   `json:"goal,omitempty"`
	Activity    *activities.Activity    `json:"activity,omitempty"`
}
