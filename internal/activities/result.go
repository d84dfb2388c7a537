package activities

type TrackingType string

const (
	TrackingTypeOfficial TrackingType = "official"
	TrackingTypePersonal TrackingType = "personal"
	TrackingTypeSplit    TrackingType = "split"
)

type Result struct {
	ID           int          `json:"id"`
	ActivityID   int          `json:"activityId"`
	Distance     float64      `json:"distance"`
	Time         int          `json:"time"`
	TrackingType TrackingType `json:"trackingType"`
	URL          string       `json:"url,omitempty"`
	Pace         int          `json:"pace"`
	Speed        float64      `json:"speed"`
	DistanceTag  DistanceTag  `json:"distanceTag,omitempty"`
}

// AuthoritativeResult picks the result used for distance tagging and
// best efforts ranking: the last seen official result, else the last
// seen personal one, else nothing.
func AuthoritativeResult(results []Result) *Result {
	for i := len(results) - 1; i >= 0; i-- {
		if results[i].TrackingType == TrackingTypeOfficial {
			return &results[i]
		}
	}
	for i := len(results) - 1; i >= 0; i-- {
		if results[i].TrackingType == TrackingTypePersonal {
			return &results[i]
		}
	}
	return nil
}

// AggregationResult picks the result used for bucket totals. Same
// precedence as AuthoritativeResult, but falls back to the first
// result (whatever its tracking type) when no official or personal
// one exists.
func AggregationResult(results []Result) *Result {
	if result := AuthoritativeResult(results); result != nil {
		return result
	}
	if len(results) > 0 {
		return &results[0]
	}
	return nil
}
