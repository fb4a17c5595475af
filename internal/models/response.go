package models

import "time"

// Response tracks one respondent's progress on one survey. There is at most one
// response per (survey, session) pair; resubmissions merge into the existing row.
type Response struct {
	ID                 int64      `db:"id" json:"id"`
	SurveyID           int64      `db:"survey_id" json:"surveyId"`
	SessionID          string     `db:"session_id" json:"sessionId"`
	NPSScore           *int64     `db:"nps_score" json:"npsScore"`
	OpenText           *string    `db:"open_text" json:"openText"`
	AIFollowUpQuestion *string    `db:"ai_follow_up_question" json:"aiFollowUpQuestion"`
	AIFollowUpAnswer   *string    `db:"ai_follow_up_answer" json:"aiFollowUpAnswer"`
	CompletedAt        *time.Time `db:"completed_at" json:"completedAt"`
	CreatedAt          time.Time  `db:"created_at" json:"createdAt"`
	UpdatedAt          time.Time  `db:"updated_at" json:"updatedAt"`
}

// IsCompleted reports whether no further input is expected for the response.
func (r *Response) IsCompleted() bool {
	return r.CompletedAt != nil
}

// HasAIFollowUp reports whether a follow-up question has been generated for the response.
func (r *Response) HasAIFollowUp() bool {
	return r.AIFollowUpQuestion != nil
}
