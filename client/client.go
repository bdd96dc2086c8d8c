// Package client talks to the survey intake endpoint.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/mbolis/tichi-survey/log"
	"github.com/mbolis/tichi-survey/model"
)

const (
	DefaultBaseURL = "http://localhost:5000"
	SubmitPath     = "/api/survey/submit"

	genericFailure = "Failed to submit survey"
)

// Error is a submission rejected by the server.
type Error struct {
	Status  int
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

type Client struct {
	BaseURL string
	HTTP    *http.Client
}

func New(baseURL string) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		BaseURL: strings.TrimRight(baseURL, "/"),
		HTTP:    &http.Client{Timeout: 30 * time.Second},
	}
}

// SubmitSurvey posts fd. A non-2xx reply is returned as *Error carrying
// the server's "message" when the body has one. A 2xx reply is a success
// even when its body cannot be decoded; the submission is nil then.
func (c *Client) SubmitSurvey(ctx context.Context, fd model.FormData) (*model.Submission, error) {
	payload, err := json.Marshal(fd)
	if err != nil {
		return nil, fmt.Errorf("encode survey: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+SubmitPath, bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, readErr := io.ReadAll(resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &Error{Status: resp.StatusCode, Message: failureMessage(body)}
	}

	// the survey is stored once the server answers 2xx: the reply body is
	// informational only
	var out struct {
		Data *model.Submission `json:"data"`
	}
	if readErr != nil || len(body) == 0 {
		return nil, nil
	}
	if err := json.Unmarshal(body, &out); err != nil {
		log.WithError(err).WithField("status", resp.StatusCode).Debug("client.decode_reply")
		return nil, nil
	}
	return out.Data, nil
}

func failureMessage(body []byte) string {
	var reply struct {
		Message string `json:"message"`
	}
	if json.Unmarshal(body, &reply) != nil || reply.Message == "" {
		return genericFailure
	}
	return reply.Message
}
