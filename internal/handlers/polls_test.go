package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"rankr-backend/internal/middleware"
	"rankr-backend/internal/models"
	"rankr-backend/internal/services"
	"rankr-backend/internal/testutil"
)

func newTestRouter(t *testing.T) (http.Handler, *services.PollService) {
	t.Helper()

	store := testutil.NewFakePollStore()
	authService := services.NewAuthService("test-secret")
	pollService := services.NewPollService(store, authService, false)
	pollHandler := NewPollHandler(pollService)

	r := newEngine()
	api := r.Group("/api/v1/polls")
	api.POST("", pollHandler.Create)
	api.POST("/join", pollHandler.Join)
	api.GET("/rejoin", middleware.TokenAuth(authService), pollHandler.Rejoin)
	return r, pollService
}

func postJSON(t *testing.T, router http.Handler, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	payload, err := json.Marshal(body)
	if err != nil {
		t.Fatalf("marshal request: %v", err)
	}
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestCreatePollEndpoint(t *testing.T) {
	router, _ := newTestRouter(t)

	w := postJSON(t, router, "/api/v1/polls", map[string]interface{}{
		"topic":         "lunch spot",
		"votesPerVoter": 3,
		"name":          "alice",
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}

	var result services.PollAuthResult
	if err := json.Unmarshal(w.Body.Bytes(), &result); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(result.Poll.ID) != 6 {
		t.Errorf("poll ID = %q, want 6 chars", result.Poll.ID)
	}
	if result.AccessToken == "" {
		t.Error("no access token returned")
	}
}

func TestCreatePollValidation(t *testing.T) {
	router, _ := newTestRouter(t)

	tests := []struct {
		name string
		body map[string]interface{}
	}{
		{"missing topic", map[string]interface{}{"votesPerVoter": 3, "name": "alice"}},
		{"votesPerVoter too high", map[string]interface{}{"topic": "t", "votesPerVoter": 6, "name": "alice"}},
		{"votesPerVoter zero", map[string]interface{}{"topic": "t", "votesPerVoter": 0, "name": "alice"}},
		{"name missing", map[string]interface{}{"topic": "t", "votesPerVoter": 3}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if w := postJSON(t, router, "/api/v1/polls", tt.body); w.Code != http.StatusBadRequest {
				t.Errorf("status = %d, want 400", w.Code)
			}
		})
	}
}

func TestJoinPollEndpoint(t *testing.T) {
	router, pollService := newTestRouter(t)
	created, err := pollService.Create(context.Background(), "topic", 2, "alice")
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	w := postJSON(t, router, "/api/v1/polls/join", map[string]interface{}{
		"pollID": created.Poll.ID,
		"name":   "bob",
	})
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}

	var result services.PollAuthResult
	if err := json.Unmarshal(w.Body.Bytes(), &result); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if result.Poll.ID != created.Poll.ID || result.AccessToken == "" {
		t.Errorf("join result = %+v", result)
	}
}

func TestJoinPollMissing(t *testing.T) {
	router, _ := newTestRouter(t)

	w := postJSON(t, router, "/api/v1/polls/join", map[string]interface{}{
		"pollID": "ZZZZZZ",
		"name":   "bob",
	})
	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", w.Code)
	}
}

func TestRejoinEndpoint(t *testing.T) {
	router, pollService := newTestRouter(t)
	created, err := pollService.Create(context.Background(), "topic", 2, "alice")
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	req := httptest.NewRequest(http.MethodGet, "/api/v1/polls/rejoin", nil)
	req.Header.Set("Authorization", "Bearer "+created.AccessToken)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}

	var body struct {
		Poll models.Poll `json:"poll"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if body.Poll.ID != created.Poll.ID {
		t.Errorf("rejoin poll = %q, want %q", body.Poll.ID, created.Poll.ID)
	}
}

func TestRejoinAuthFailures(t *testing.T) {
	router, pollService := newTestRouter(t)
	created, _ := pollService.Create(context.Background(), "topic", 2, "alice")

	tests := []struct {
		name   string
		header string
		want   int
	}{
		{"no header", "", http.StatusUnauthorized},
		{"garbage token", "Bearer nope", http.StatusUnauthorized},
		{"wrong scheme", "Basic " + created.AccessToken, http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/v1/polls/rejoin", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)
			if w.Code != tt.want {
				t.Errorf("status = %d, want %d", w.Code, tt.want)
			}
		})
	}
}

func TestRejoinDeletedPoll(t *testing.T) {
	router, pollService := newTestRouter(t)
	created, _ := pollService.Create(context.Background(), "topic", 2, "alice")
	if err := pollService.Delete(context.Background(), created.Poll.ID); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}

	req := httptest.NewRequest(http.MethodGet, "/api/v1/polls/rejoin", nil)
	req.Header.Set("Authorization", "Bearer "+created.AccessToken)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", w.Code)
	}
}
