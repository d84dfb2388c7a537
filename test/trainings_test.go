package test

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/2beens/homerun/internal/activities"
	"github.com/2beens/homerun/internal/trainings"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func (s *IntegrationTestSuite) TestTrainingsLifecycle() {
	t := s.T()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	token := doLogin(ctx, t)
	user := createTestUser(ctx, t, token, "trainings-user")

	var added trainings.Training
	doRequest(
		ctx, t, "POST", fmt.Sprintf("/api/trainings/%d", user.ID), token,
		trainings.NewTrainingRequest{
			Name:       "spring base block",
			Discipline: activities.DisciplineRunning,
			BeginDate:  time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
			EndDate:    time.Date(2024, 3, 31, 0, 0, 0, 0, time.UTC),
		},
		http.StatusCreated, &added,
	)
	require.NotZero(t, added.ID)
	assert.Equal(t, user.ID, added.UserID)
	assert.Empty(t, added.Events)
	assert.Empty(t, added.Activities)

	// an activity assigned to the training shows up as its member
	var activity activities.Activity
	doRequest(
		ctx, t, "POST", fmt.Sprintf("/api/activities/%d", user.ID), token,
		activities.NewActivityRequest{
			Name:       "block run",
			Discipline: activities.DisciplineRunning,
			Date:       time.Date(2024, 1, 15, 9, 0, 0, 0, time.UTC),
			TrainingID: &added.ID,
			Results: []activities.NewResultRequest{
				{
					Distance:     5.0,
					Time:         1500,
					TrackingType: activities.TrackingTypePersonal,
				},
			},
		},
		http.StatusCreated, &activity,
	)

	var gotten trainings.Training
	doRequest(
		ctx, t, "GET", fmt.Sprintf("/api/trainings/training/%d", added.ID), token,
		nil, http.StatusOK, &gotten,
	)
	require.Len(t, gotten.Activities, 1)
	assert.Equal(t, "block run", gotten.Activities[0].Name)
	require.Len(t, gotten.Activities[0].Results, 1)
	assert.Equal(t, 300, gotten.Activities[0].Results[0].Pace)

	// trainings are edited in place, the id stays
	var updated trainings.Training
	doRequest(
		ctx, t, "PUT", fmt.Sprintf("/api/trainings/training/%d", added.ID), token,
		trainings.NewTrainingRequest{
			Name:       "spring base block, extended",
			Discipline: activities.DisciplineRunning,
			BeginDate:  time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
			EndDate:    time.Date(2024, 4, 30, 0, 0, 0, 0, time.UTC),
		},
		http.StatusOK, &updated,
	)
	assert.Equal(t, added.ID, updated.ID)
	assert.Equal(t, "spring base block, extended", updated.Name)

	var listed []trainings.Training
	doRequest(
		ctx, t, "GET", fmt.Sprintf("/api/trainings/%d/%s", user.ID, activities.DisciplineRunning), token,
		nil, http.StatusOK, &listed,
	)
	require.Len(t, listed, 1)

	doRequest(
		ctx, t, "DELETE", fmt.Sprintf("/api/trainings/training/%d", added.ID), token,
		nil, http.StatusOK, nil,
	)
	doRequest(
		ctx, t, "GET", fmt.Sprintf("/api/trainings/training/%d", added.ID), token,
		nil, http.StatusNotFound, nil,
	)
}
