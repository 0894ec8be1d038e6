package dto

import (
	"time"

	"quiz-trail/internal/domain"
)

// AttemptItemRequest is one answered question. is_correct may be true, false
// or null (left unanswered).
type AttemptItemRequest struct {
	QuestionID int64  `json:"question_id"`
	IsCorrect  *bool  `json:"is_correct"`
	Commentary string `json:"commentary,omitempty"`
}

// SubmitAttemptRequest represents a whole quiz submission
// @Description Items are stored in the given order under one attempt id
type SubmitAttemptRequest struct {
	Token string               `json:"token,omitempty"`
	Items []AttemptItemRequest `json:"items"`
}

func (r SubmitAttemptRequest) ToDomain() []domain.AttemptItem {
	items := make([]domain.AttemptItem, len(r.Items))
	for i, it := range r.Items {
		items[i] = domain.AttemptItem{
			QuestionID: it.QuestionID,
			Result:     domain.CorrectnessFromBool(it.IsCorrect),
			Commentary: it.Commentary,
		}
	}
	return items
}

type SubmitAttemptResponse struct {
	AttemptID string `json:"attempt_id"`
}

type AttemptSummaryResponse struct {
	AttemptID     string    `json:"attempt_id"`
	SubmittedAt   time.Time `json:"submitted_at"`
	QuestionCount int       `json:"question_count"`
	CorrectCount  int       `json:"correct_count"`
}

// AttemptListResponse lists attempts, most recent first
type AttemptListResponse struct {
	Attempts []AttemptSummaryResponse `json:"attempts"`
}

func NewAttemptListResponse(attempts []domain.AttemptSummary) AttemptListResponse {
	resp := AttemptListResponse{Attempts: make([]AttemptSummaryResponse, len(attempts))}
	for i, a := range attempts {
		resp.Attempts[i] = AttemptSummaryResponse{
			AttemptID:     a.AttemptID,
			SubmittedAt:   a.SubmittedAt,
			QuestionCount: a.QuestionCount,
			CorrectCount:  a.CorrectCount,
		}
	}
	return resp
}

type AnswerDetailResponse struct {
	AnswerID      string    `json:"answer_id"`
	QuestionID    int64     `json:"question_id"`
	QuestionText  string    `json:"question_text"`
	CorrectAnswer string    `json:"correct_answer"`
	Choices       []string  `json:"choices"`
	Commentary    string    `json:"commentary"`
	Tag           string    `json:"tag"`
	IsCorrect     *bool     `json:"is_correct"`
	Ordinal       int       `json:"ordinal"`
	AnsweredAt    time.Time `json:"answered_at"`
}

// AttemptDetailResponse holds the answers of one attempt in submission order
type AttemptDetailResponse struct {
	AttemptID string                 `json:"attempt_id"`
	Answers   []AnswerDetailResponse `json:"answers"`
}

func NewAttemptDetailResponse(attemptID string, details []domain.AnswerDetail) AttemptDetailResponse {
	resp := AttemptDetailResponse{AttemptID: attemptID, Answers: make([]AnswerDetailResponse, len(details))}
	for i, d := range details {
		choices := d.Choices
		if choices == nil {
			choices = []string{}
		}
		resp.Answers[i] = AnswerDetailResponse{
			AnswerID:      d.AnswerID,
			QuestionID:    d.QuestionID,
			QuestionText:  d.QuestionText,
			CorrectAnswer: d.CorrectAnswer,
			Choices:       choices,
			Commentary:    d.Commentary,
			Tag:           d.Tag,
			IsCorrect:     d.Result.Bool(),
			Ordinal:       d.Ordinal,
			AnsweredAt:    d.AnsweredAt,
		}
	}
	return resp
}
