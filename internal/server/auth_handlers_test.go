package server

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegister(t *testing.T) {
	_, app := newTestServer(t)

	tests := []struct {
		name           string
		body           map[string]string
		expectedStatus int
	}{
		{
			name: "Success",
			body: map[string]string{
				"username": "testuser",
				"email":    "test@example.com",
				"password": "password123",
			},
			expectedStatus: http.StatusCreated,
		},
		{
			name: "Duplicate Username",
			body: map[string]string{
				"username": "testuser",
				"email":    "other@example.com",
				"password": "password123",
			},
			expectedStatus: http.StatusConflict,
		},
		{
			name: "Duplicate Email Different Case",
			body: map[string]string{
				"username": "otheruser",
				"email":    "TEST@example.com",
				"password": "password123",
			},
			expectedStatus: http.StatusConflict,
		},
		{
			name: "Short Password",
			body: map[string]string{
				"username": "shortpw",
				"email":    "shortpw@example.com",
				"password": "short",
			},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name: "Bad Email",
			body: map[string]string{
				"username": "bademail",
				"email":    "not-an-email",
				"password": "password123",
			},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name: "Missing Fields",
			body: map[string]string{
				"username": "nopassword",
			},
			expectedStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := doJSON(t, app, http.MethodPost, "/api/auth/register", "", tt.body)
			assert.Equal(t, tt.expectedStatus, resp.StatusCode)
		})
	}
}

func TestRegister_SetsSessionCookie(t *testing.T) {
	_, app := newTestServer(t)

	resp := doJSON(t, app, http.MethodPost, "/api/auth/register", "", map[string]string{
		"username": "cookieuser",
		"email":    "cookie@example.com",
		"password": "password123",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var sessionCookie *http.Cookie
	for _, ck := range resp.Cookies() {
		if ck.Name == "memoir_session" {
			sessionCookie = ck
		}
	}
	require.NotNil(t, sessionCookie)
	assert.NotEmpty(t, sessionCookie.Value)
	assert.True(t, sessionCookie.HttpOnly)
}

func TestLogin(t *testing.T) {
	_, app := newTestServer(t)
	registerUser(t, app, "loginuser")

	tests := []struct {
		name           string
		body           map[string]string
		expectedStatus int
	}{
		{
			name: "By Username",
			body: map[string]string{
				"username": "loginuser",
				"password": "password123",
			},
			expectedStatus: http.StatusOK,
		},
		{
			name: "By Email",
			body: map[string]string{
				"username": "loginuser@example.com",
				"password": "password123",
			},
			expectedStatus: http.StatusOK,
		},
		{
			name: "Wrong Password",
			body: map[string]string{
				"username": "loginuser",
				"password": "wrongpassword",
			},
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name: "Unknown User",
			body: map[string]string{
				"username": "ghost",
				"password": "password123",
			},
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name:           "Missing Password",
			body:           map[string]string{"username": "loginuser"},
			expectedStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := doJSON(t, app, http.MethodPost, "/api/auth/login", "", tt.body)
			assert.Equal(t, tt.expectedStatus, resp.StatusCode)
		})
	}
}

func TestLogin_UnknownUserAndBadPasswordLookSame(t *testing.T) {
	_, app := newTestServer(t)
	registerUser(t, app, "probe")

	unknown := doJSON(t, app, http.MethodPost, "/api/auth/login", "", map[string]string{
		"username": "nobody", "password": "password123",
	})
	badPassword := doJSON(t, app, http.MethodPost, "/api/auth/login", "", map[string]string{
		"username": "probe", "password": "notthepassword",
	})

	require.Equal(t, http.StatusUnauthorized, unknown.StatusCode)
	require.Equal(t, http.StatusUnauthorized, badPassword.StatusCode)

	unknownBody := decodeBody[map[string]any](t, unknown)
	badPasswordBody := decodeBody[map[string]any](t, badPassword)
	assert.Equal(t, unknownBody["error"], badPasswordBody["error"])
}

func TestLogout_RevokesSession(t *testing.T) {
	rdb := newTestRedis(t)
	_, app := newTestServerOn(t, newTestDB(t), rdb, "test-app-secret")

	token := registerUser(t, app, "leaver")

	// The session works before logout.
	resp := doJSON(t, app, http.MethodGet, "/api/profile", token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp = doJSON(t, app, http.MethodPost, "/api/auth/logout", token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	// And is rejected after, even though the JWT itself has not expired.
	resp = doJSON(t, app, http.MethodGet, "/api/profile", token, nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestProtectedRoutesRequireAuth(t *testing.T) {
	_, app := newTestServer(t)

	paths := []string{
		"/api/profile",
		"/api/achievements",
		"/api/goals",
		"/api/expenses",
		"/api/notes",
		"/api/confidential-details",
	}
	for _, path := range paths {
		resp := doJSON(t, app, http.MethodGet, path, "", nil)
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode, path)
	}
}
