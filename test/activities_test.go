package test

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/2beens/homerun/internal/activities"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func (s *IntegrationTestSuite) TestActivitiesLifecycle() {
	t := s.T()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	token := doLogin(ctx, t)
	user := createTestUser(ctx, t, token, "activity-lifecycle-user")

	newActivityReq := activities.NewActivityRequest{
		Name:         "morning run",
		Discipline:   activities.DisciplineRunning,
		Description:  "easy morning run around the block",
		Date:         time.Date(2023, 11, 5, 9, 0, 0, 0, time.UTC),
		Environment:  string(activities.TerrainRoad),
		TrainingType: activities.TrainingTypeBase,
		WithFriends:  false,
		Results: []activities.NewResultRequest{
			{
				Distance:     10.0,
				Time:         3000,
				TrackingType: activities.TrackingTypeOfficial,
				URL:          "https://tracker.example.com/run/1",
			},
		},
	}

	// mutations without a token are rejected before reaching the handler
	doRequest(
		ctx, t, "POST", fmt.Sprintf("/api/activities/%d", user.ID), "",
		newActivityReq, http.StatusUnauthorized, nil,
	)

	var added activities.Activity
	doRequest(
		ctx, t, "POST", fmt.Sprintf("/api/activities/%d", user.ID), token,
		newActivityReq, http.StatusCreated, &added,
	)
	require.NotZero(t, added.ID)
	assert.Equal(t, user.ID, added.UserID)
	assert.NotZero(t, added.MonthID)
	assert.NotZero(t, added.YearID)
	assert.Equal(t, activities.DistanceTag10K, added.DistanceTag)
	require.Len(t, added.Results, 1)
	assert.Equal(t, 300, added.Results[0].Pace)
	assert.InDelta(t, 12.0, added.Results[0].Speed, 0.001)
	assert.Equal(t, activities.DistanceTag10K, added.Results[0].DistanceTag)

	// zero distance never reaches the database
	invalidReq := newActivityReq
	invalidReq.Results = []activities.NewResultRequest{
		{Distance: 0, Time: 3000, TrackingType: activities.TrackingTypeOfficial},
	}
	doRequest(
		ctx, t, "POST", fmt.Sprintf("/api/activities/%d", user.ID), token,
		invalidReq, http.StatusBadRequest, nil,
	)

	var gotten activities.Activity
	doRequest(
		ctx, t, "GET", fmt.Sprintf("/api/activities/activity/%d", added.ID), token,
		nil, http.StatusOK, &gotten,
	)
	assert.Equal(t, added.ID, gotten.ID)
	assert.Equal(t, "morning run", gotten.Name)
	require.Len(t, gotten.Results, 1)
	assert.Equal(t, 300, gotten.Results[0].Pace)

	// a replace recomputes every derived field from the new measurements
	replaceReq := newActivityReq
	replaceReq.Name = "morning run, remeasured"
	replaceReq.Results = []activities.NewResultRequest{
		{
			Distance:     21.1,
			Time:         6000,
			TrackingType: activities.TrackingTypeOfficial,
		},
	}
	var replaced activities.Activity
	doRequest(
		ctx, t, "PUT", fmt.Sprintf("/api/activities/%d/activity/%d", user.ID, added.ID), token,
		replaceReq, http.StatusOK, &replaced,
	)
	assert.Equal(t, activities.DistanceTagHalfMarathon, replaced.DistanceTag)
	require.Len(t, replaced.Results, 1)
	assert.Equal(t, 284, replaced.Results[0].Pace)
	assert.InDelta(t, 12.66, replaced.Results[0].Speed, 0.001)

	var listed []activities.Activity
	doRequest(
		ctx, t, "GET", fmt.Sprintf("/api/activities/%d/%s", user.ID, activities.DisciplineRunning), token,
		nil, http.StatusOK, &listed,
	)
	require.Len(t, listed, 1)
	assert.Equal(t, "morning run, remeasured", listed[0].Name)

	doRequest(
		ctx, t, "DELETE", fmt.Sprintf("/api/activities/activity/%d", replaced.ID), token,
		nil, http.StatusOK, nil,
	)
	doRequest(
		ctx, t, "GET", fmt.Sprintf("/api/activities/activity/%d", replaced.ID), token,
		nil, http.StatusNotFound, nil,
	)
}
