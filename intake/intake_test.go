package intake

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mbolis/tichi-survey/database"
	"github.com/mbolis/tichi-survey/model"
)

func decode(t *testing.T, body string) any {
	t.Helper()
	var v any
	require.NoError(t, json.Unmarshal([]byte(body), &v))
	return v
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name  string
		body  string
		title string
	}{
		{"missing responses", `{"userInfo":{"fullName":"A","email":"a@b.com"}}`, "Invalid request body"},
		{"missing userInfo", `{"responses":[{"questionId":"q1","answer":"x"}]}`, "Invalid request body"},
		{"null userInfo", `{"userInfo":null,"responses":[]}`, "Invalid request body"},
		{"not an object", `[1,2,3]`, "Invalid request body"},
		{"empty name", `{"userInfo":{"fullName":"","email":"a@b.com"},"responses":[{"questionId":"q1","answer":"x"}]}`, "Invalid userInfo"},
		{"missing email", `{"userInfo":{"fullName":"A"},"responses":[{"questionId":"q1","answer":"x"}]}`, "Invalid userInfo"},
		{"userInfo is a string", `{"userInfo":"A","responses":[{"questionId":"q1","answer":"x"}]}`, "Invalid userInfo"},
		{"empty responses", `{"userInfo":{"fullName":"A","email":"a@b.com"},"responses":[]}`, "Invalid responses"},
		{"responses is an object", `{"userInfo":{"fullName":"A","email":"a@b.com"},"responses":{"q1":"x"}}`, "Invalid responses"},
		{"missing answer", `{"userInfo":{"fullName":"A","email":"a@b.com"},"responses":[{"questionId":"q1"}]}`, "Invalid response object"},
		{"empty questionId", `{"userInfo":{"fullName":"A","email":"a@b.com"},"responses":[{"questionId":"","answer":"x"}]}`, "Invalid response object"},
		{"null element", `{"userInfo":{"fullName":"A","email":"a@b.com"},"responses":[null]}`, "Invalid response object"},
		{"second element invalid", `{"userInfo":{"fullName":"A","email":"a@b.com"},"responses":[{"questionId":"q1","answer":"x"},{"answer":"y"}]}`, "Invalid response object"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Validate(decode(t, tt.body))
			require.NotNil(t, err)
			assert.Equal(t, http.StatusBadRequest, err.Status)
			assert.Equal(t, tt.title, err.Title)
		})
	}
}

func TestValidateMissingFieldsMessage(t *testing.T) {
	err := Validate(decode(t, `{"userInfo":{"fullName":"A","email":"a@b.com"}}`))
	require.NotNil(t, err)
	assert.Equal(t, "Request must include userInfo and responses", err.Details)
}

func TestValidateAcceptsFalsyAnswers(t *testing.T) {
	for _, answer := range []string{`""`, `0`, `false`, `null`, `[]`} {
		body := fmt.Sprintf(`{"userInfo":{"fullName":"A","email":"a@b.com"},"responses":[{"questionId":"q1","answer":%s}]}`, answer)
		assert.Nil(t, Validate(decode(t, body)), answer)
	}
}

func TestClassify(t *testing.T) {
	verr := Classify(model.NewValidationError(errors.New("bad field")))
	assert.Equal(t, http.StatusBadRequest, verr.Status)
	assert.Equal(t, "Validation Error", verr.Title)
	assert.Equal(t, []string{"bad field"}, verr.Details)

	dup := Classify(fmt.Errorf("%w: E11000", database.ErrDuplicate))
	assert.Equal(t, http.StatusConflict, dup.Status)
	assert.Equal(t, "Duplicate Entry", dup.Title)

	down := Classify(fmt.Errorf("%w: no reachable servers", database.ErrUnavailable))
	assert.Equal(t, http.StatusInternalServerError, down.Status)
	assert.Equal(t, "Database connection not ready", down.Title)

	other := Classify(errors.New("disk on fire"))
	assert.Equal(t, http.StatusInternalServerError, other.Status)
	assert.Equal(t, "Failed to save survey response", other.Title)
	assert.Equal(t, "disk on fire", other.Details)
}

type fakeStore struct {
	readyErr  error
	insertErr error
	inserted  []*model.Submission
}

func (s *fakeStore) Ready(context.Context) error { return s.readyErr }

func (s *fakeStore) Insert(_ context.Context, sub *model.Submission) error {
	if s.insertErr != nil {
		return s.insertErr
	}
	sub.ID = fmt.Sprintf("id-%d", len(s.inserted)+1)
	s.inserted = append(s.inserted, sub)
	return nil
}

func (s *fakeStore) Close() error { return nil }

const validBody = `{"userInfo":{"fullName":"A","email":"a@b.com"},"responses":[{"questionId":"q1","answer":""}]}`

func TestSubmitStoresStampedSubmission(t *testing.T) {
	store := &fakeStore{}
	svc := NewService(store)
	now := time.Date(2026, 10, 15, 12, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return now }

	sub, err := svc.Submit(context.Background(), decode(t, validBody))
	require.NoError(t, err)
	assert.Equal(t, "id-1", sub.ID)
	assert.Equal(t, now, sub.SubmittedAt)
	assert.Equal(t, model.UserInfo{FullName: "A", Email: "a@b.com"}, sub.UserInfo)
	assert.Equal(t, []model.SurveyResponse{{QuestionID: "q1", Answer: ""}}, sub.Responses)
	assert.Len(t, store.inserted, 1)
}

func TestSubmitFailures(t *testing.T) {
	tests := []struct {
		name   string
		store  *fakeStore
		body   string
		status int
	}{
		{"invalid shape", &fakeStore{}, `{"userInfo":{"fullName":"A","email":"a@b.com"},"responses":[]}`, http.StatusBadRequest},
		{"cast failure", &fakeStore{}, `{"userInfo":{"fullName":{"x":1},"email":"a@b.com"},"responses":[{"questionId":"q1","answer":1}]}`, http.StatusBadRequest},
		{"not ready", &fakeStore{readyErr: database.ErrUnavailable}, validBody, http.StatusInternalServerError},
		{"duplicate", &fakeStore{insertErr: database.ErrDuplicate}, validBody, http.StatusConflict},
		{"unclassified", &fakeStore{insertErr: errors.New("boom")}, validBody, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewService(tt.store).Submit(context.Background(), decode(t, tt.body))

			var ierr *Error
			require.True(t, errors.As(err, &ierr))
			assert.Equal(t, tt.status, ierr.Status)
			assert.Empty(t, tt.store.inserted)
		})
	}
}
