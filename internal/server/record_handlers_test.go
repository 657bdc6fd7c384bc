package server

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecords_OwnersAreIsolated(t *testing.T) {
	_, app := newTestServer(t)
	alice := registerUser(t, app, "alice")
	bob := registerUser(t, app, "bob")

	resp := doJSON(t, app, http.MethodPost, "/api/notes", alice,
		map[string]string{"title": "secret plans", "content": "world domination"})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	created := decodeBody[map[string]any](t, resp)
	noteID := int(created["id"].(float64))

	// Bob sees nothing of Alice's.
	resp = doJSON(t, app, http.MethodGet, "/api/notes", bob, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Empty(t, decodeBody[[]map[string]any](t, resp))

	// Bob cannot read, update or delete Alice's note; every path is a 404,
	// exactly as if the id did not exist.
	path := fmt.Sprintf("/api/notes/%d", noteID)
	resp = doJSON(t, app, http.MethodGet, path, bob, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	resp = doJSON(t, app, http.MethodPut, path, bob, map[string]string{"title": "mine now"})
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	resp = doJSON(t, app, http.MethodDelete, path, bob, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	// Alice's note survived all of it.
	resp = doJSON(t, app, http.MethodGet, path, alice, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	note := decodeBody[map[string]any](t, resp)
	assert.Equal(t, "secret plans", note["title"])
}

func TestNotes_Validation(t *testing.T) {
	_, app := newTestServer(t)
	token := registerUser(t, app, "writer")

	resp := doJSON(t, app, http.MethodPost, "/api/notes", token,
		map[string]string{"title": "no body"})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp = doJSON(t, app, http.MethodPost, "/api/notes", token,
		map[string]string{"content": "no title"})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp = doJSON(t, app, http.MethodPost, "/api/notes", token,
		map[string]string{"title": "ok", "content": "fine"})
	assert.Equal(t, http.StatusCreated, resp.StatusCode)
}

func TestGoals_StatusEnum(t *testing.T) {
	_, app := newTestServer(t)
	token := registerUser(t, app, "planner")

	// "done" is not in the enum.
	resp := doJSON(t, app, http.MethodPost, "/api/goals", token,
		map[string]string{"title": "ship it", "description": "v1 release", "status": "done"})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp = doJSON(t, app, http.MethodPost, "/api/goals", token,
		map[string]string{"title": "ship it", "description": "v1 release"})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	goal := decodeBody[map[string]any](t, resp)
	assert.Equal(t, "planned", goal["status"])
	goalID := int(goal["id"].(float64))

	path := fmt.Sprintf("/api/goals/%d", goalID)
	resp = doJSON(t, app, http.MethodPut, path, token,
		map[string]string{"status": "done"})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp = doJSON(t, app, http.MethodPut, path, token,
		map[string]string{"status": "in progress"})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	updated := decodeBody[map[string]any](t, resp)
	assert.Equal(t, "in progress", updated["status"])

	// The failed update left the stored status untouched.
	resp = doJSON(t, app, http.MethodGet, "/api/goals?status=in+progress", token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Len(t, decodeBody[[]map[string]any](t, resp), 1)
}

func TestExpenses_AmountRoundTrip(t *testing.T) {
	_, app := newTestServer(t)
	token := registerUser(t, app, "spender")

	resp := doJSON(t, app, http.MethodPost, "/api/expenses", token,
		map[string]string{"amount": "12.50", "category": "food"})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	created := decodeBody[map[string]any](t, resp)

	// Exact decimal: "12.50" comes back as "12.50", not 12.5.
	assert.Equal(t, "12.50", created["amount"])

	resp = doJSON(t, app, http.MethodGet, "/api/expenses", token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	listed := decodeBody[[]map[string]any](t, resp)
	require.Len(t, listed, 1)
	assert.Equal(t, "12.50", listed[0]["amount"])
}

func TestExpenses_Validation(t *testing.T) {
	_, app := newTestServer(t)
	token := registerUser(t, app, "auditor")

	tests := []struct {
		name           string
		body           map[string]string
		expectedStatus int
	}{
		{"Missing Amount", map[string]string{"category": "food"}, http.StatusBadRequest},
		{"Zero Amount", map[string]string{"amount": "0", "category": "food"}, http.StatusBadRequest},
		{"Negative Amount", map[string]string{"amount": "-5.00", "category": "food"}, http.StatusBadRequest},
		{"Garbage Amount", map[string]string{"amount": "12.5.0", "category": "food"}, http.StatusBadRequest},
		{"Too Many Decimals", map[string]string{"amount": "1.999", "category": "food"}, http.StatusBadRequest},
		{"Missing Category", map[string]string{"amount": "5.00"}, http.StatusBadRequest},
		{"Bad Date", map[string]string{"amount": "5.00", "category": "food", "date": "last tuesday"}, http.StatusBadRequest},
		{"Valid", map[string]string{"amount": "5.00", "category": "food", "date": "2024-06-01"}, http.StatusCreated},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := doJSON(t, app, http.MethodPost, "/api/expenses", token, tt.body)
			assert.Equal(t, tt.expectedStatus, resp.StatusCode)
		})
	}
}

func TestExpenses_Filters(t *testing.T) {
	_, app := newTestServer(t)
	token := registerUser(t, app, "filterer")

	seed := []map[string]string{
		{"amount": "5.00", "category": "food", "date": "2024-05-01", "notes": "coffee"},
		{"amount": "25.00", "category": "food", "date": "2024-05-10", "notes": "groceries"},
		{"amount": "25.00", "category": "travel", "date": "2024-05-10", "notes": "train ticket"},
		{"amount": "90.00", "category": "food", "date": "2024-05-20", "notes": "birthday dinner"},
	}
	for _, body := range seed {
		resp := doJSON(t, app, http.MethodPost, "/api/expenses", token, body)
		require.Equal(t, http.StatusCreated, resp.StatusCode)
	}

	tests := []struct {
		name  string
		query string
		want  int
	}{
		{"All", "", 4},
		{"By Category", "?category=food", 3},
		{"By Date Range", "?start_date=2024-05-05&end_date=2024-05-15", 2},
		{"By Amount Range Inclusive", "?min_amount=25.00&max_amount=25.00", 2},
		{"By Notes Search", "?q=ticket", 1},
		{"Conjunction", "?category=food&start_date=2024-05-05&max_amount=30.00", 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := doJSON(t, app, http.MethodGet, "/api/expenses"+tt.query, token, nil)
			require.Equal(t, http.StatusOK, resp.StatusCode)
			assert.Len(t, decodeBody[[]map[string]any](t, resp), tt.want)
		})
	}

	t.Run("Bad Filter Value", func(t *testing.T) {
		resp := doJSON(t, app, http.MethodGet, "/api/expenses?min_amount=lots", token, nil)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})
}

func TestAchievements_SearchAndOrdering(t *testing.T) {
	_, app := newTestServer(t)
	token := registerUser(t, app, "athlete")

	titles := []string{"first 5k", "first marathon", "learned to swim"}
	for _, title := range titles {
		resp := doJSON(t, app, http.MethodPost, "/api/achievements", token,
			map[string]string{"title": title, "description": "big day"})
		require.Equal(t, http.StatusCreated, resp.StatusCode)
	}

	resp := doJSON(t, app, http.MethodGet, "/api/achievements?q=FIRST", token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	found := decodeBody[[]map[string]any](t, resp)
	assert.Len(t, found, 2)

	// Newest first; identical timestamps fall back to insertion order.
	resp = doJSON(t, app, http.MethodGet, "/api/achievements", token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	all := decodeBody[[]map[string]any](t, resp)
	require.Len(t, all, 3)
}

func TestAchievementsAndGoals_RequireDescription(t *testing.T) {
	_, app := newTestServer(t)
	token := registerUser(t, app, "brief")

	resp := doJSON(t, app, http.MethodPost, "/api/achievements", token,
		map[string]string{"title": "ran a mile"})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp = doJSON(t, app, http.MethodPost, "/api/goals", token,
		map[string]string{"title": "learn go"})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	// A stored description cannot be blanked afterwards either.
	resp = doJSON(t, app, http.MethodPost, "/api/achievements", token,
		map[string]string{"title": "ran a mile", "description": "without stopping"})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	id := int(decodeBody[map[string]any](t, resp)["id"].(float64))

	path := fmt.Sprintf("/api/achievements/%d", id)
	resp = doJSON(t, app, http.MethodPut, path, token,
		map[string]string{"description": ""})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp = doJSON(t, app, http.MethodGet, path, token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "without stopping", decodeBody[map[string]any](t, resp)["description"])
}

func TestRecords_TextFieldsAreTrimmed(t *testing.T) {
	_, app := newTestServer(t)
	token := registerUser(t, app, "tidy")

	// Whitespace-only required fields are rejected.
	resp := doJSON(t, app, http.MethodPost, "/api/notes", token,
		map[string]string{"title": "   ", "content": "body"})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp = doJSON(t, app, http.MethodPost, "/api/expenses", token,
		map[string]string{"amount": "5.00", "category": " \t "})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	// Surrounding whitespace is stripped before storage.
	resp = doJSON(t, app, http.MethodPost, "/api/notes", token,
		map[string]string{"title": "  packing list  ", "content": " socks "})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	created := decodeBody[map[string]any](t, resp)
	assert.Equal(t, "packing list", created["title"])
	assert.Equal(t, "socks", created["content"])

	// Updates trim too.
	path := fmt.Sprintf("/api/notes/%d", int(created["id"].(float64)))
	resp = doJSON(t, app, http.MethodPut, path, token,
		map[string]string{"title": "  checked twice  "})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "checked twice", decodeBody[map[string]any](t, resp)["title"])

	// A whitespace-only update cannot blank a stored description.
	resp = doJSON(t, app, http.MethodPost, "/api/goals", token,
		map[string]string{"title": "declutter", "description": "one drawer a day"})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	goalPath := fmt.Sprintf("/api/goals/%d", int(decodeBody[map[string]any](t, resp)["id"].(float64)))
	resp = doJSON(t, app, http.MethodPut, goalPath, token,
		map[string]string{"description": "  "})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestRecords_DeleteTwice(t *testing.T) {
	_, app := newTestServer(t)
	token := registerUser(t, app, "cleaner")

	resp := doJSON(t, app, http.MethodPost, "/api/notes", token,
		map[string]string{"title": "temp", "content": "delete me"})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	noteID := int(decodeBody[map[string]any](t, resp)["id"].(float64))

	path := fmt.Sprintf("/api/notes/%d", noteID)
	resp = doJSON(t, app, http.MethodDelete, path, token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	// Hard delete: the second attempt misses.
	resp = doJSON(t, app, http.MethodDelete, path, token, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestRecords_BadID(t *testing.T) {
	_, app := newTestServer(t)
	token := registerUser(t, app, "typo")

	resp := doJSON(t, app, http.MethodGet, "/api/notes/banana", token, nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp = doJSON(t, app, http.MethodDelete, "/api/goals/0", token, nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}
