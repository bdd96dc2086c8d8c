package model

import "time"

type QuestionType string

const (
	TextQuestion   QuestionType = "text"
	ChoiceQuestion QuestionType = "multiChoice"
)

type Question struct {
	ID       string       `json:"id"`
	Text     string       `json:"text"`
	Type     QuestionType `json:"type"`
	Options  []string     `json:"options,omitempty"`
	Multiple bool         `json:"multiple,omitempty"`
	Category string       `json:"category"`
}

type UserInfo struct {
	FullName string `json:"fullName" bson:"fullName"`
	Email    string `json:"email" bson:"email"`
}

// SurveyResponse is one answer to one question. Answer holds whatever
// the client sent: a string, a number, a boolean, a list of chosen
// options or null.
type SurveyResponse struct {
	QuestionID string `json:"questionId" bson:"questionId"`
	Answer     any    `json:"answer" bson:"answer"`
}

type FormData struct {
	UserInfo  UserInfo         `json:"userInfo" bson:"userInfo"`
	Responses []SurveyResponse `json:"responses" bson:"responses"`
}

// Clone returns a copy whose Responses slice can be modified freely.
func (fd FormData) Clone() FormData {
	responses := make([]SurveyResponse, len(fd.Responses))
	copy(responses, fd.Responses)
	fd.Responses = responses
	return fd
}

// Submission is a FormData as persisted by the store.
type Submission struct {
	ID          string           `json:"_id"`
	UserInfo    UserInfo         `json:"userInfo"`
	Responses   []SurveyResponse `json:"responses"`
	SubmittedAt time.Time        `json:"submittedAt"`
}

func NewSubmission(fd FormData, now time.Time) *Submission {
	fd = fd.Clone()
	return &Submission{
		UserInfo:    fd.UserInfo,
		Responses:   fd.Responses,
		SubmittedAt: now.UTC(),
	}
}
