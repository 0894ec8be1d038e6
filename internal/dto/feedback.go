package dto

import (
	"bytes"
	"encoding/json"

	"quiz-trail/internal/domain"
)

type FeedbackRecordRequest struct {
	QuestionTag string  `json:"question_tag"`
	IsCorrect   *bool   `json:"is_correct"`
	TimeTaken   float64 `json:"time_taken,omitempty"` // seconds
}

// FeedbackRequest carries the answers to summarise
// @Description Records are not read back from storage. A bare JSON array of records is accepted as well.
type FeedbackRequest struct {
	Token   string                  `json:"token,omitempty"`
	Records []FeedbackRecordRequest `json:"records"`
}

// UnmarshalJSON accepts either {"token": ..., "records": [...]} or a bare
// array of records.
func (r *FeedbackRequest) UnmarshalJSON(data []byte) error {
	if trimmed := bytes.TrimSpace(data); len(trimmed) > 0 && trimmed[0] == '[' {
		var records []FeedbackRecordRequest
		if err := json.Unmarshal(trimmed, &records); err != nil {
			return err
		}
		*r = FeedbackRequest{Records: records}
		return nil
	}
	type plain FeedbackRequest
	var p plain
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}
	*r = FeedbackRequest(p)
	return nil
}

func (r FeedbackRequest) ToDomain() []domain.FeedbackRecord {
	records := make([]domain.FeedbackRecord, len(r.Records))
	for i, rec := range r.Records {
		records[i] = domain.FeedbackRecord{
			Tag:       rec.QuestionTag,
			Result:    domain.CorrectnessFromBool(rec.IsCorrect),
			TimeTaken: rec.TimeTaken,
		}
	}
	return records
}

// FeedbackResponse holds one line per configured tag, joined by newlines
type FeedbackResponse struct {
	Feedback string `json:"feedback"`
}
