package httpx

import (
	"net/http"

	"github.com/go-chi/render"
	"github.com/sirupsen/logrus"

	"github.com/mbolis/tichi-survey/log"
)

// ErrorBody is the JSON shape of every error response.
type ErrorBody struct {
	Error   string `json:"error"`
	Details any    `json:"details,omitempty"`
}

// Will log an error, and send a JSON response with status 500
func LogInternalError(w http.ResponseWriter, r *http.Request, code string, err error) {
	LogStatus(w, r, http.StatusInternalServerError, log.ErrorLevel, code, "Internal server error", err.Error(), err)
}

// Will log an error code at a level matching the status class, and send
// a JSON response with the given status, title and details
func LogError(w http.ResponseWriter, r *http.Request, status int, code string, title string, details any, err error) {
	level := log.InfoLevel
	if status >= http.StatusInternalServerError {
		level = log.ErrorLevel
	}
	LogStatus(w, r, status, level, code, title, details, err)
}

// Will log an error code at the given level, and send
// a JSON response with the given status, title and details
func LogStatus(w http.ResponseWriter, r *http.Request, status int, level log.Level, code string, title string, details any, err error) {
	entry := log.WithFields(log.Fields{
		"status":  status,
		"error":   title,
		"details": details,
	})
	if err != nil {
		entry = entry.WithError(err)
	}
	entry.Log(logrus.Level(level), code)

	JSONError(w, r, status, title, details)
}

func JSONError(w http.ResponseWriter, r *http.Request, status int, title string, details any) {
	render.Status(r, status)
	render.JSON(w, r, ErrorBody{Error: title, Details: details})
}
