package activities

import (
	"time"
)

type Discipline string

const (
	DisciplineRunning  Discipline = "running"
	DisciplineSwimming Discipline = "swimming"
)

// Terrain is the environment of a running activity.
type Terrain string

const (
	TerrainRoad      Terrain = "road"
	TerrainMixed     Terrain = "mixed"
	TerrainTrail     Terrain = "trail"
	TerrainTreadmill Terrain = "treadmill"
)

// PoolType is the environment of a swimming activity.
type PoolType string

const (
	Pool25m        PoolType = "25m"
	Pool50m        PoolType = "50m"
	PoolOpenWaters PoolType = "open waters"
)

type TrainingType string

const (
	// running
	TrainingTypeBase          TrainingType = "base"
	TrainingTypeHighEffort    TrainingType = "high effort"
	TrainingTypeInterval      TrainingType = "interval"
	TrainingTypeElevationGain TrainingType = "elevation gain"
	// swimming
	TrainingTypeBreaststroke TrainingType = "breaststroke"
	TrainingTypeCrawl        TrainingType = "crawl"
	TrainingTypeMixedStroke  TrainingType = "mixed"
)

type RaceType string

const (
	RaceTypeBase       RaceType = "base"
	RaceTypeHighEffort RaceType = "high effort"
	RaceTypeFun        RaceType = "fun"
)

type Activity struct {
	ID           int          `json:"id"`
	Name         string       `json:"name"`
	Discipline   Discipline   `json:"discipline"`
	Description  string       `json:"description,omitempty"`
	Date         time.Time    `json:"date"`
	Environment  string       `json:"environment,omitempty"`
	TrainingType TrainingType `json:"trainingType,omitempty"`
	RaceType     RaceType     `json:"raceType,omitempty"`
	WithFriends  bool         `json:"withFriends"`
	DistanceTag  DistanceTag  `json:"distanceTag,omitempty"`
	UserID       int          `json:"userId"`
	MonthID      int          `json:"monthId"`
	YearID       int          `json:"yearId"`
	EventID      *int         `json:"eventId,omitempty"`
	TrainingID   *int         `json:"trainingId,omitempty"`
	Results      []Result     `json:"results"`
}

// DistanceTagFromResults computes the activity level tag from the
// authoritative result. An activity with no authoritative result
// carries no tag.
func (a *Activity) DistanceTagFromResults() DistanceTag {
	authoritative := AuthoritativeResult(a.Results)
	if authoritative == nil {
		return ""
	}
	return ClassifyDistance(authoritative.Distance, a.Discipline)
}
