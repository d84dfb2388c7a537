package test

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/2beens/homerun/internal/activities"
	"github.com/2beens/homerun/internal/stats"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func (s *IntegrationTestSuite) TestStats() {
	t := s.T()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	token := doLogin(ctx, t)
	user := createTestUser(ctx, t, token, "stats-user")

	addActivity := func(name string, date time.Time, distance float64, seconds int) activities.Activity {
		var added activities.Activity
		doRequest(
			ctx, t, "POST", fmt.Sprintf("/api/activities/%d", user.ID), token,
			activities.NewActivityRequest{
				Name:       name,
				Discipline: activities.DisciplineRunning,
				Date:       date,
				Results: []activities.NewResultRequest{
					{
						Distance:     distance,
						Time:         seconds,
						TrackingType: activities.TrackingTypeOfficial,
					},
				},
			},
			http.StatusCreated, &added,
		)
		return added
	}

	// two activities in november, one in december, one a year later
	addActivity("nov run one", time.Date(2023, 11, 5, 9, 0, 0, 0, time.UTC), 10.0, 3000)
	addActivity("nov run two", time.Date(2023, 11, 19, 9, 0, 0, 0, time.UTC), 10.1, 2900)
	addActivity("dec run", time.Date(2023, 12, 3, 9, 0, 0, 0, time.UTC), 10.0, 3100)
	addActivity("next year run", time.Date(2024, 11, 10, 9, 0, 0, 0, time.UTC), 5.0, 1500)

	var gotten stats.Stats
	doRequest(
		ctx, t, "GET", fmt.Sprintf("/api/stats/%d/%s", user.ID, activities.DisciplineRunning), token,
		nil, http.StatusOK, &gotten,
	)

	require.Len(t, gotten.Monthly, 3)
	require.Len(t, gotten.Yearly, 2)

	monthlyByPeriod := make(map[string]stats.PeriodSummary)
	for _, summary := range gotten.Monthly {
		monthlyByPeriod[summary.Period] = summary
	}
	require.Contains(t, monthlyByPeriod, "2023-11")
	require.Contains(t, monthlyByPeriod, "2023-12")
	require.Contains(t, monthlyByPeriod, "2024-11")

	november := monthlyByPeriod["2023-11"]
	assert.InDelta(t, 20.1, november.TotalDistance, 0.001)
	assert.Equal(t, 5900, november.TotalTime)
	assert.Len(t, november.Activities, 2)

	december := monthlyByPeriod["2023-12"]
	assert.InDelta(t, 10.0, december.TotalDistance, 0.001)
	assert.Equal(t, 3100, december.TotalTime)
	assert.Len(t, december.Activities, 1)

	yearlyByPeriod := make(map[string]stats.PeriodSummary)
	for _, summary := range gotten.Yearly {
		yearlyByPeriod[summary.Period] = summary
	}
	require.Contains(t, yearlyByPeriod, "2023")
	require.Contains(t, yearlyByPeriod, "2024")

	year2023 := yearlyByPeriod["2023"]
	assert.InDelta(t, 30.1, year2023.TotalDistance, 0.001)
	assert.Equal(t, 9000, year2023.TotalTime)
	assert.Len(t, year2023.Activities, 3)

	year2024 := yearlyByPeriod["2024"]
	assert.InDelta(t, 5.0, year2024.TotalDistance, 0.001)
	assert.Equal(t, 1500, year2024.TotalTime)

	// every standardized tag is present, even with no qualifying runs
	require.Len(t, gotten.BestEfforts, len(activities.DistanceTagsFor(activities.DisciplineRunning)))

	best10k := gotten.BestEfforts[activities.DistanceTag10K]
	require.Len(t, best10k, 3)
	assert.Equal(t, "nov run two", best10k[0].Name) // pace 287
	assert.Equal(t, "nov run one", best10k[1].Name) // pace 300
	assert.Equal(t, "dec run", best10k[2].Name)     // pace 310

	best5k := gotten.BestEfforts[activities.DistanceTag5K]
	require.Len(t, best5k, 1)
	assert.Equal(t, "next year run", best5k[0].Name)

	assert.Empty(t, gotten.BestEfforts[activities.DistanceTagMarathon])
}
