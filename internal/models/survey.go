package models

import "time"

type QuestionType string

const (
	QuestionTypeNPS  QuestionType = "nps"
	QuestionTypeText QuestionType = "text"
)

// Question is one of the two questions that make up a survey.
type Question struct {
	ID       int64        `db:"id" json:"id"`
	SurveyID int64        `db:"survey_id" json:"surveyId"`
	Type     QuestionType `db:"type" json:"type"`
	Text     string       `db:"text" json:"text"`
	Order    int          `db:"order" json:"order"`
}

func (q *Question) IsNPS() bool {
	return q.Type == QuestionTypeNPS
}

func (q *Question) IsText() bool {
	return q.Type == QuestionTypeText
}

// Survey owns an ordered pair of questions, one NPS question and one open-text question.
// The two-question shape is enforced when surveys are defined; the response flow only
// reads the active flag and the question texts.
type Survey struct {
	ID          int64      `db:"id" json:"id"`
	Name        string     `db:"name" json:"name"`
	Description *string    `db:"description" json:"description"`
	Active      bool       `db:"is_active" json:"isActive"`
	CreatedAt   time.Time  `db:"created_at" json:"createdAt"`
	UpdatedAt   time.Time  `db:"updated_at" json:"updatedAt"`
	Questions   []Question `db:"-" json:"questions,omitempty"`
}

// IsAcceptingResponses reports whether respondents may currently view or submit to the survey.
func (s *Survey) IsAcceptingResponses() bool {
	return s.Active
}

// NPSQuestion returns the survey's NPS question, or nil if the survey has none loaded.
func (s *Survey) NPSQuestion() *Question {
	for i := range s.Questions {
		if s.Questions[i].IsNPS() {
			return &s.Questions[i]
		}
	}
	return nil
}

// TextQuestion returns the survey's open-text question, or nil if the survey has none loaded.
func (s *Survey) TextQuestion() *Question {
	for i := range s.Questions {
		if s.Questions[i].IsText() {
			return &s.Questions[i]
		}
	}
	return nil
}
