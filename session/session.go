// Package session holds the state of one respondent filling in the survey:
// the section on screen and the answers given so far.
package session

import (
	"context"
	"errors"
	"sync"

	"github.com/google/uuid"
	"github.com/looplab/fsm"

	"github.com/mbolis/tichi-survey/catalog"
	"github.com/mbolis/tichi-survey/log"
	"github.com/mbolis/tichi-survey/model"
)

type Section string

const (
	Welcome  Section = "welcome"
	Basics   Section = catalog.Basics
	Needs    Section = catalog.Needs
	Tichi    Section = catalog.Tichi
	Journey  Section = catalog.Journey
	ThankYou Section = "thankYou"
)

// Sections lists every section in the order the survey walks through them.
var Sections = []Section{Welcome, Basics, Needs, Tichi, Journey, ThankYou}

// Questions returns the catalog questions shown in s, if any.
func (s Section) Questions() []model.Question {
	return catalog.ByCategory(string(s))
}

type Submitter interface {
	SubmitSurvey(ctx context.Context, fd model.FormData) (*model.Submission, error)
}

type Viewport interface {
	ScrollToTop()
}

type Notifier interface {
	Alert(msg string)
}

type Session struct {
	ID string

	submitter Submitter
	viewport  Viewport
	notifier  Notifier

	mu         sync.Mutex
	sections   *fsm.FSM
	formData   model.FormData
	submitting bool
}

func New(submitter Submitter, viewport Viewport, notifier Notifier) *Session {
	s := &Session{
		ID:        uuid.NewString(),
		submitter: submitter,
		viewport:  viewport,
		notifier:  notifier,
		formData:  model.FormData{Responses: []model.SurveyResponse{}},
	}

	all := make([]string, len(Sections))
	for i, section := range Sections {
		all[i] = string(section)
	}
	events := make(fsm.Events, 0, len(Sections))
	for _, section := range Sections {
		events = append(events, fsm.EventDesc{Name: event(section), Src: all, Dst: string(section)})
	}

	s.sections = fsm.NewFSM(string(Welcome), events, fsm.Callbacks{
		"enter_state": func(_ context.Context, e *fsm.Event) {
			log.WithFields(log.Fields{
				"session": s.ID,
				"from":    e.Src,
				"to":      e.Dst,
			}).Debug("session.navigate")
		},
	})
	return s
}

func event(section Section) string {
	return "to_" + string(section)
}

func (s *Session) CurrentSection() Section {
	return Section(s.sections.Current())
}

// Navigate shows section, whatever the current one is.
func (s *Session) Navigate(section Section) {
	s.viewport.ScrollToTop()

	err := s.sections.Event(context.Background(), event(section))
	var noTransition fsm.NoTransitionError
	if err == nil || errors.As(err, &noTransition) {
		return
	}
	s.sections.SetState(string(section))
}

func (s *Session) UpdateUserInfo(info model.UserInfo) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.formData.UserInfo = info
}

// UpdateResponse replaces the answer to the same question in place, or
// appends it when the question has not been answered yet.
func (s *Session) UpdateResponse(response model.SurveyResponse) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, r := range s.formData.Responses {
		if r.QuestionID == response.QuestionID {
			s.formData.Responses[i] = response
			return
		}
	}
	s.formData.Responses = append(s.formData.Responses, response)
}

// FormData returns a copy of the answers collected so far.
func (s *Session) FormData() model.FormData {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.formData.Clone()
}

func (s *Session) IsSubmitting() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.submitting
}

// Submit sends the collected answers. On success the session moves to
// ThankYou; on failure the respondent is alerted and the section is kept.
func (s *Session) Submit(ctx context.Context) error {
	s.mu.Lock()
	s.submitting = true
	fd := s.formData.Clone()
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		s.submitting = false
		s.mu.Unlock()
	}()

	sub, err := s.submitter.SubmitSurvey(ctx, fd)
	if err != nil {
		log.WithFields(log.Fields{
			"session": s.ID,
			"section": s.CurrentSection(),
		}).WithError(err).Error("session.submit")
		s.notifier.Alert("Submission failed: " + err.Error())
		return err
	}

	entry := log.WithField("session", s.ID)
	if sub != nil {
		entry = entry.WithField("id", sub.ID)
	}
	entry.Info("survey submitted")

	s.Navigate(ThankYou)
	return nil
}
