package dto

import "quiz-trail/internal/domain"

// QuestionResponse represents a question in the API response
// @Description Question information
type QuestionResponse struct {
	ID            int64    `json:"id"`
	QuestionText  string   `json:"question_text"`
	CorrectAnswer string   `json:"correct_answer"`
	Choices       []string `json:"choices"`
	Commentary    string   `json:"commentary"`
	Tag           string   `json:"tag"`
}

func NewQuestionResponse(q *domain.Question) QuestionResponse {
	choices := q.Choices
	if choices == nil {
		choices = []string{}
	}
	return QuestionResponse{
		ID:            q.ID,
		QuestionText:  q.QuestionText,
		CorrectAnswer: q.CorrectAnswer,
		Choices:       choices,
		Commentary:    q.Commentary,
		Tag:           q.Tag,
	}
}
