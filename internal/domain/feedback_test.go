package domain

import (
	"strings"
	"testing"
)

func TestAggregateTag(t *testing.T) {
	records := []FeedbackRecord{
		{Tag: "5", Result: Correct, TimeTaken: 2.0},
		{Tag: "5", Result: Incorrect, TimeTaken: 4.0},
		{Tag: "7", Result: Correct, TimeTaken: 9.0},
	}

	tests := []struct {
		name    string
		tag     string
		records []FeedbackRecord
		want    TagStat
		wantOK  bool
	}{
		{
			name:    "mixed results for one tag",
			tag:     "5",
			records: records,
			want:    TagStat{Tag: "5", CorrectCount: 1, TotalCount: 2, AverageTime: 3.0},
			wantOK:  true,
		},
		{
			name:    "no matching records",
			tag:     "Privacy",
			records: records,
			want:    TagStat{Tag: "Privacy"},
			wantOK:  false,
		},
		{
			name:    "nil input",
			tag:     "5",
			records: nil,
			want:    TagStat{Tag: "5"},
			wantOK:  false,
		},
		{
			name: "unanswered counts against the total only",
			tag:  "x",
			records: []FeedbackRecord{
				{Tag: "x", Result: Unanswered, TimeTaken: 1},
				{Tag: "x", Result: Correct, TimeTaken: 2},
				{Tag: "x", Result: Unanswered, TimeTaken: 3},
			},
			want:   TagStat{Tag: "x", CorrectCount: 1, TotalCount: 3, AverageTime: 2},
			wantOK: true,
		},
		{
			name: "tag match is exact",
			tag:  "Data",
			records: []FeedbackRecord{
				{Tag: "Data Usage", Result: Correct},
				{Tag: "data", Result: Correct},
			},
			want:   TagStat{Tag: "Data"},
			wantOK: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := AggregateTag(tt.tag, tt.records)
			if ok != tt.wantOK {
				t.Fatalf("ok = %v, want %v", ok, tt.wantOK)
			}
			if got != tt.want {
				t.Errorf("AggregateTag() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestTagStat_Summary(t *testing.T) {
	stat := TagStat{Tag: "Privacy", CorrectCount: 3, TotalCount: 4, AverageTime: 5.5}
	summary := stat.Summary()

	if !strings.Contains(summary, "3/4") {
		t.Errorf("summary %q does not contain the ratio", summary)
	}
	if !strings.Contains(summary, "5.50") {
		t.Errorf("summary %q does not contain the average time", summary)
	}
	if summary != stat.Summary() {
		t.Error("summary is not deterministic")
	}
}
