package test

import (
	"context"
	"fmt"
	"net/http"

	"github.com/2beens/homerun/internal/users"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func (s *IntegrationTestSuite) TestUsersLifecycle() {
	t := s.T()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	token := doLogin(ctx, t)
	user := createTestUser(ctx, t, token, "users-lifecycle-user")

	// the password hash stays server side
	var gotten users.User
	doRequest(
		ctx, t, "GET", fmt.Sprintf("/api/users/%d", user.ID), token,
		nil, http.StatusOK, &gotten,
	)
	assert.Equal(t, "users-lifecycle-user", gotten.UserName)
	assert.Empty(t, gotten.PasswordHash)

	newName := "users-lifecycle-user-renamed"
	var updated users.User
	doRequest(
		ctx, t, "PATCH", fmt.Sprintf("/api/users/%d", user.ID), token,
		users.UserUpdate{UserName: &newName},
		http.StatusOK, &updated,
	)
	assert.Equal(t, newName, updated.UserName)

	var listed []users.User
	doRequest(
		ctx, t, "GET", "/api/users", token,
		nil, http.StatusOK, &listed,
	)
	require.NotEmpty(t, listed)

	doRequest(
		ctx, t, "DELETE", fmt.Sprintf("/api/users/%d", user.ID), token,
		nil, http.StatusOK, nil,
	)
	doRequest(
		ctx, t, "GET", fmt.Sprintf("/api/users/%d", user.ID), token,
		nil, http.StatusNotFound, nil,
	)
}
