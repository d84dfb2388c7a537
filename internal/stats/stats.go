package stats

import (
	"github.com/2beens/homerun/internal/activities"
)

// PeriodSummary is one monthly or yearly bucket with its derived
// totals. Totals are computed from the member activities' aggregation
// results on every read, never stored.
type PeriodSummary struct {
	Period        string                `json:"period"`
	TotalDistance float64               `json:"totalDistance"`
	TotalTime     int                   `json:"totalTime"`
	Activities    []activities.Activity `json:"activities"`
}

type Stats struct {
	Monthly     []PeriodSummary                                   `json:"monthly"`
	Yearly      []PeriodSummary                                   `json:"yearly"`
	BestEfforts map[activities.DistanceTag][]activities.Activity `json:"bestEfforts"`
}
