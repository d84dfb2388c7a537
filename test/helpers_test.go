package test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"testing"

	"github.com/2beens/homerun/internal/auth"
	"github.com/2beens/homerun/internal/misc"
	"github.com/2beens/homerun/internal/users"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/stretchr/testify/require"
)

func doLogin(ctx context.Context, t *testing.T) string {
	t.Helper()

	credentials := auth.Credentials{
		Username: testUsername,
		Password: testPassword,
	}
	loginReqJson, err := json.Marshal(credentials)
	require.NoError(t, err)

	req, err := http.NewRequestWithContext(ctx, "POST", fmt.Sprintf("%s/a/login", serverEndpoint), bytes.NewBuffer(loginReqJson))
	require.NoError(t, err)
	req.Header.Set("User-Agent", "test-agent")
	req.Header.Set("Content-Type", "application/json")

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	defer resp.Body.Close()

	respBytes, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	require.NotEmpty(t, respBytes)

	var loginResp misc.LoginResponse
	require.NoError(t, json.Unmarshal(respBytes, &loginResp))

	return loginResp.Token
}

// createTestUser registers a fresh user so each scenario works with
// its own data set.
func createTestUser(ctx context.Context, t *testing.T, token, userName string) users.User {
	t.Helper()

	var user users.User
	doRequest(
		ctx, t, "POST", "/api/users", token,
		users.NewUserRequest{
			UserName: userName,
			Password: gofakeit.Password(true, true, true, false, false, 12),
		},
		http.StatusCreated, &user,
	)
	require.NotZero(t, user.ID)
	return user
}

// doRequest fires a JSON request against the test server and decodes
// the response into target (unless target is nil).
func doRequest(
	ctx context.Context,
	t *testing.T,
	method, path, token string,
	body any,
	expectedStatusCode int,
	target any,
) {
	t.Helper()

	var bodyReader io.Reader
	if body != nil {
		bodyJson, err := json.Marshal(body)
		require.NoError(t, err)
		bodyReader = bytes.NewBuffer(bodyJson)
	}

	req, err := http.NewRequestWithContext(ctx, method, serverEndpoint+path, bodyReader)
	require.NoError(t, err)
	req.Header.Set("User-Agent", "test-agent")
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("X-HOMERUN-TOKEN", token)
	}

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	respBytes, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	require.Equal(t, expectedStatusCode, resp.StatusCode, string(respBytes))

	if target != nil {
		require.NoError(t, json.Unmarshal(respBytes, target))
	}
}
