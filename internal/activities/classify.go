package activities

type DistanceTag string

const (
	DistanceTag5K           DistanceTag = "5k"
	DistanceTag10K          DistanceTag = "10k"
	DistanceTag15K          DistanceTag = "15k"
	DistanceTagHalfMarathon DistanceTag = "half-marathon"
	DistanceTag30K          DistanceTag = "30k"
	DistanceTagMarathon     DistanceTag = "marathon"

	DistanceTag250  DistanceTag = "250"
	DistanceTag500  DistanceTag = "500"
	DistanceTag1000 DistanceTag = "1000"
	DistanceTag1500 DistanceTag = "1500"
	DistanceTag2000 DistanceTag = "2000"
)

type canonicalDistance struct {
	km  float64
	tag DistanceTag
}

// Canonical distances per discipline, in kilometers, ordered. The
// first matching tolerance band wins.
var (
	runningDistances = []canonicalDistance{
		{5.0, DistanceTag5K},
		{10.0, DistanceTag10K},
		{15.0, DistanceTag15K},
		{21.1, DistanceTagHalfMarathon},
		{30.0, DistanceTag30K},
		{42.2, DistanceTagMarathon},
	}
	swimmingDistances = []canonicalDistance{
		{0.250, DistanceTag250},
		{0.500, DistanceTag500},
		{1.0, DistanceTag1000},
		{1.5, DistanceTag1500},
		{2.0, DistanceTag2000},
	}
)

// ClassifyDistance maps a raw distance to a standardized distance tag.
// A distance matches a canonical distance d when it falls within the
// inclusive band [d - d/25, d + d/25], i.e. within 4% of d. No match,
// or an unknown discipline, yields an empty tag - not an error.
func ClassifyDistance(distance float64, discipline Discipline) DistanceTag {
	for _, cd := range canonicalDistancesFor(discipline) {
		margin := cd.km / 25
		if distance >= cd.km-margin && distance <= cd.km+margin {
			return cd.tag
		}
	}
	return ""
}

// DistanceTagsFor lists the standardized tags of a discipline, in
// canonical order. Disciplines without canonical distances have none.
func DistanceTagsFor(discipline Discipline) []DistanceTag {
	canonical := canonicalDistancesFor(discipline)
	tags := make([]DistanceTag, 0, len(canonical))
	for _, cd := range canonical {
		tags = append(tags, cd.tag)
	}
	return tags
}

func canonicalDistancesFor(discipline Discipline) []canonicalDistance {
	switch discipline {
	case DisciplineRunning:
		return runningDistances
	case DisciplineSwimming:
		return swimmingDistances
	default:
		return nil
	}
}
