package routes_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mbolis/tichi-survey/app"
	"github.com/mbolis/tichi-survey/config"
	"github.com/mbolis/tichi-survey/database"
	"github.com/mbolis/tichi-survey/model"
	"github.com/mbolis/tichi-survey/routes"
)

const validBody = `{"userInfo":{"fullName":"A","email":"a@b.com"},"responses":[{"questionId":"q1","answer":""},{"questionId":"q7","answer":["Other"]}]}`

func newSqliteServer(t *testing.T) http.Handler {
	t.Helper()

	cfg := config.Config{DBUrl: "sqlite3://" + filepath.Join(t.TempDir(), "survey.sqlite")}
	store, err := database.Open(context.Background(), cfg)
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	return routes.Wire(app.New(store, cfg))
}

type stubStore struct {
	readyErr  error
	insertErr error
}

func (s stubStore) Ready(context.Context) error { return s.readyErr }

func (s stubStore) Insert(_ context.Context, sub *model.Submission) error {
	if s.insertErr != nil {
		return s.insertErr
	}
	sub.ID = "stub"
	return nil
}

func (s stubStore) Close() error { return nil }

func newStubServer(store stubStore) http.Handler {
	return routes.Wire(app.New(store, config.Config{}))
}

func post(t *testing.T, h http.Handler, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/api/survey/submit", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

type errorBody struct {
	Error   string `json:"error"`
	Details any    `json:"details"`
}

func decodeError(t *testing.T, w *httptest.ResponseRecorder) errorBody {
	t.Helper()
	var body errorBody
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body), w.Body.String())
	return body
}

func TestSubmitStoresSurveyResponse(t *testing.T) {
	srv := newSqliteServer(t)
	before := time.Now().Add(-time.Second)

	w := post(t, srv, validBody)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var resp struct {
		Message string `json:"message"`
		Data    struct {
			ID          string                 `json:"_id"`
			UserInfo    model.UserInfo         `json:"userInfo"`
			Responses   []model.SurveyResponse `json:"responses"`
			SubmittedAt time.Time              `json:"submittedAt"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "Survey response saved successfully", resp.Message)
	assert.NotEmpty(t, resp.Data.ID)
	assert.Equal(t, model.UserInfo{FullName: "A", Email: "a@b.com"}, resp.Data.UserInfo)
	assert.Equal(t, []model.SurveyResponse{
		{QuestionID: "q1", Answer: ""},
		{QuestionID: "q7", Answer: []any{"Other"}},
	}, resp.Data.Responses)
	assert.True(t, resp.Data.SubmittedAt.After(before))
}

func TestSubmitTwiceStoresTwoDocuments(t *testing.T) {
	srv := newSqliteServer(t)

	first := post(t, srv, validBody)
	second := post(t, srv, validBody)
	require.Equal(t, http.StatusCreated, first.Code)
	require.Equal(t, http.StatusCreated, second.Code)

	id := func(w *httptest.ResponseRecorder) string {
		var resp struct {
			Data struct {
				ID string `json:"_id"`
			} `json:"data"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		return resp.Data.ID
	}
	assert.NotEqual(t, id(first), id(second))
}

func TestSubmitRejectsMalformedPayloads(t *testing.T) {
	srv := newSqliteServer(t)

	tests := []struct {
		name    string
		body    string
		status  int
		error   string
		details any
	}{
		{
			"missing responses",
			`{"userInfo":{"fullName":"A","email":"a@b.com"}}`,
			http.StatusBadRequest, "Invalid request body", "Request must include userInfo and responses",
		},
		{
			"empty name",
			`{"userInfo":{"fullName":"","email":"a@b.com"},"responses":[{"questionId":"q1","answer":"x"}]}`,
			http.StatusBadRequest, "Invalid userInfo", "userInfo must include fullName and email",
		},
		{
			"empty responses",
			`{"userInfo":{"fullName":"A","email":"a@b.com"},"responses":[]}`,
			http.StatusBadRequest, "Invalid responses", "responses must be a non-empty array",
		},
		{
			"missing answer",
			`{"userInfo":{"fullName":"A","email":"a@b.com"},"responses":[{"questionId":"q1"}]}`,
			http.StatusBadRequest, "Invalid response object", "Each response must include questionId and answer",
		},
		{
			"uncastable name",
			`{"userInfo":{"fullName":["A"],"email":"a@b.com"},"responses":[{"questionId":"q1","answer":"x"}]}`,
			http.StatusBadRequest, "Validation Error",
			[]any{`Cast to string failed for value ["A"] (type array) at path "userInfo.fullName"`},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := post(t, srv, tt.body)
			assert.Equal(t, tt.status, w.Code)
			body := decodeError(t, w)
			assert.Equal(t, tt.error, body.Error)
			assert.Equal(t, tt.details, body.Details)
		})
	}
}

func TestSubmitRejectsInvalidJSON(t *testing.T) {
	w := post(t, newStubServer(stubStore{}), `{"userInfo":`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Invalid request body", decodeError(t, w).Error)
}

func TestSubmitRejectsOversizedBody(t *testing.T) {
	body := `{"userInfo":{"fullName":"` + strings.Repeat("A", routes.MaxBodySize) + `","email":"a@b.com"},"responses":[]}`
	w := post(t, newStubServer(stubStore{}), body)
	assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
}

func TestSubmitStoreFailures(t *testing.T) {
	tests := []struct {
		name   string
		store  stubStore
		status int
		error  string
	}{
		{"not ready", stubStore{readyErr: database.ErrUnavailable}, http.StatusInternalServerError, "Database connection not ready"},
		{"duplicate", stubStore{insertErr: database.ErrDuplicate}, http.StatusConflict, "Duplicate Entry"},
		{"store validation", stubStore{insertErr: model.NewValidationError(errors.New("Document failed validation"))}, http.StatusBadRequest, "Validation Error"},
		{"unclassified", stubStore{insertErr: errors.New("disk full")}, http.StatusInternalServerError, "Failed to save survey response"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := post(t, newStubServer(tt.store), validBody)
			assert.Equal(t, tt.status, w.Code)
			assert.Equal(t, tt.error, decodeError(t, w).Error)
		})
	}
}

func TestHealth(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/health", nil)

	w := httptest.NewRecorder()
	newStubServer(stubStore{}).ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)

	w = httptest.NewRecorder()
	newStubServer(stubStore{readyErr: database.ErrUnavailable}).ServeHTTP(w, req)
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}

func TestUnknownRouteIsJSON(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/api/survey/responses", nil)
	w := httptest.NewRecorder()
	newStubServer(stubStore{}).ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "Not found", decodeError(t, w).Error)
}

func TestCorsPreflight(t *testing.T) {
	req := httptest.NewRequest(http.MethodOptions, "/api/survey/submit", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	w := httptest.NewRecorder()
	newStubServer(stubStore{}).ServeHTTP(w, req)

	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
}
