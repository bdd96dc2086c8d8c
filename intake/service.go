package intake

import (
	"context"
	"time"

	"github.com/mbolis/tichi-survey/database"
	"github.com/mbolis/tichi-survey/log"
	"github.com/mbolis/tichi-survey/model"
)

type Service struct {
	store database.Store
	now   func() time.Time
}

func NewService(store database.Store) *Service {
	return &Service{store: store, now: time.Now}
}

// Submit validates body, stamps it and stores it. Every failure is
// returned as an *Error.
func (s *Service) Submit(ctx context.Context, body any) (*model.Submission, error) {
	if verr := Validate(body); verr != nil {
		return nil, verr
	}

	fd, err := model.Cast(body.(map[string]any))
	if err != nil {
		return nil, s.fail("cast", err)
	}

	err = s.store.Ready(ctx)
	if err != nil {
		return nil, s.fail("ready", err)
	}

	sub := model.NewSubmission(fd, s.now())
	err = s.store.Insert(ctx, sub)
	if err != nil {
		return nil, s.fail("insert", err)
	}

	log.WithFields(log.Fields{
		"id":        sub.ID,
		"responses": len(sub.Responses),
	}).Info("survey response saved")
	return sub, nil
}

func (s *Service) fail(step string, err error) *Error {
	ierr := Classify(err)
	log.WithFields(log.Fields{
		"step":   step,
		"status": ierr.Status,
		"error":  ierr.Title,
	}).WithError(err).Warn("intake.submit")
	return ierr
}
