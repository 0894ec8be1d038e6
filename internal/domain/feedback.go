package domain

import (
	"context"
	"fmt"
)

// FeedbackRecord is one answer as reported by the client when it asks for
// feedback. Records are not re-read from storage.
type FeedbackRecord struct {
	Tag       string
	Result    Correctness
	TimeTaken float64 // seconds
}

// TagStat is the aggregate for one tag.
type TagStat struct {
	Tag          string
	CorrectCount int
	TotalCount   int
	AverageTime  float64
}

// TagLabel pairs a stored tag with the name shown to the user.
type TagLabel struct {
	DisplayName string
	Tag         string
}

// AggregateTag computes the statistics for records whose tag equals tag.
// ok is false when no record matches; that is a normal outcome, not an error.
// Only Correct counts as correct; Unanswered is counted like Incorrect.
func AggregateTag(tag string, records []FeedbackRecord) (stat TagStat, ok bool) {
	var total float64
	for _, r := range records {
		if r.Tag != tag {
			continue
		}
		stat.TotalCount++
		if r.Result == Correct {
			stat.CorrectCount++
		}
		total += r.TimeTaken
	}
	if stat.TotalCount == 0 {
		return TagStat{Tag: tag}, false
	}
	stat.Tag = tag
	stat.AverageTime = total / float64(stat.TotalCount)
	return stat, true
}

// Summary renders the deterministic sentence sent to the text completer.
func (s TagStat) Summary() string {
	return fmt.Sprintf("%s: %d/%d correct, average time %.2f seconds.",
		s.Tag, s.CorrectCount, s.TotalCount, s.AverageTime)
}

// TextCompleter turns a prompt into free text. system is the fixed instruction
// given to the model; prompt is the per-call input.
type TextCompleter interface {
	Complete(ctx context.Context, system, prompt string) (string, error)
}
