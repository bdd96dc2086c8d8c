package routes

import (
	"errors"
	"net/http"

	"github.com/go-chi/render"

	"github.com/mbolis/tichi-survey/app"
	"github.com/mbolis/tichi-survey/httpx"
	"github.com/mbolis/tichi-survey/intake"
	"github.com/mbolis/tichi-survey/log"
	"github.com/mbolis/tichi-survey/model"
)

// MaxBodySize bounds the size of a submission body.
const MaxBodySize = 100 << 10

type SubmitResponse struct {
	Message string            `json:"message"`
	Data    *model.Submission `json:"data"`
}

func SubmitSurvey(app app.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		r.Body = http.MaxBytesReader(w, r.Body, MaxBodySize)

		var body any
		err := render.DecodeJSON(r.Body, &body)
		if err != nil {
			var tooLarge *http.MaxBytesError
			if errors.As(err, &tooLarge) {
				httpx.LogStatus(w, r, http.StatusRequestEntityTooLarge, log.DebugLevel, "request.parse_body.too_large",
					"Request entity too large", "request body exceeds 100kb", err)
				return
			}
			httpx.LogStatus(w, r, http.StatusBadRequest, log.DebugLevel, "request.parse_body",
				"Invalid request body", err.Error(), err)
			return
		}

		sub, err := app.Submit(r.Context(), body)
		if err != nil {
			ierr := intake.Classify(err)
			httpx.LogError(w, r, ierr.Status, "survey.submit", ierr.Title, ierr.Details, ierr.Cause)
			return
		}

		render.Status(r, http.StatusCreated)
		render.JSON(w, r, SubmitResponse{
			Message: "Survey response saved successfully",
			Data:    sub,
		})
	}
}

func Health(app app.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		err := app.Ready(r.Context())
		if err != nil {
			httpx.LogStatus(w, r, http.StatusServiceUnavailable, log.WarnLevel, "health.store",
				"Database connection not ready", err.Error(), err)
			return
		}
		render.JSON(w, r, map[string]string{"status": "ok"})
	}
}
