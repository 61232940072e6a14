package http

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/Saeid202/buyers/internal/auth"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSignInSignOutFlow(t *testing.T) {
	env := newTestEnv(t)

	resp, body := env.do(t, "POST", "/api/v1/auth/signin",
		SignInRequestDTO{UserID: "user-42", Email: "sara@example.com", Name: "Sara Mohammadi"}, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var signIn SignInResponseDTO
	require.NoError(t, json.Unmarshal(body, &signIn))
	require.NotEmpty(t, signIn.Token)
	assert.Equal(t, "user-42", signIn.User.UserID)

	resp, body = env.do(t, "GET", "/api/v1/auth/me", nil, signIn.Token)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var identity auth.Identity
	require.NoError(t, json.Unmarshal(body, &identity))
	assert.Equal(t, "sara@example.com", identity.Email)

	resp, _ = env.do(t, "POST", "/api/v1/auth/signout", nil, signIn.Token)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp, _ = env.do(t, "GET", "/api/v1/auth/me", nil, signIn.Token)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestSignIn_RequiresUserID(t *testing.T) {
	env := newTestEnv(t)

	resp, _ := env.do(t, "POST", "/api/v1/auth/signin", SignInRequestDTO{Email: "sara@example.com"}, "")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestMe_AnonymousUnauthorized(t *testing.T) {
	env := newTestEnv(t)

	resp, _ := env.do(t, "GET", "/api/v1/auth/me", nil, "")
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestMe_BogusTokenUnauthorized(t *testing.T) {
	env := newTestEnv(t)

	resp, _ := env.do(t, "GET", "/api/v1/auth/me", nil, "not-a-real-token")
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}
