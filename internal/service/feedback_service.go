package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"quiz-trail/internal/config"
	"quiz-trail/internal/domain"
	"quiz-trail/internal/logger"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// FeedbackService turns a batch of answered questions into one line of advice
// per configured tag.
type FeedbackService interface {
	// Feedback composes over the configured tag labels.
	Feedback(ctx context.Context, records []domain.FeedbackRecord) (string, error)
	Compose(ctx context.Context, labels []domain.TagLabel, records []domain.FeedbackRecord) (string, error)
}

type feedbackServiceImpl struct {
	completer          domain.TextCompleter
	labels             []domain.TagLabel
	systemPrompt       string
	noDataMessage      string
	unavailableMessage string
	timeout            time.Duration
}

// NewFeedbackService creates the composer. timeout bounds each completion
// call; zero leaves only the request context in charge.
func NewFeedbackService(completer domain.TextCompleter, cfg config.FeedbackConfig, timeout time.Duration) FeedbackService {
	labels := make([]domain.TagLabel, len(cfg.Tags))
	for i, t := range cfg.Tags {
		labels[i] = domain.TagLabel{DisplayName: t.DisplayName, Tag: t.Tag}
	}
	return &feedbackServiceImpl{
		completer:          completer,
		labels:             labels,
		systemPrompt:       cfg.SystemPrompt,
		noDataMessage:      cfg.NoDataMessage,
		unavailableMessage: cfg.UnavailableMessage,
		timeout:            timeout,
	}
}

func (s *feedbackServiceImpl) Feedback(ctx context.Context, records []domain.FeedbackRecord) (string, error) {
	return s.Compose(ctx, s.labels, records)
}

// Compose runs one completion per label that has data, concurrently. A failed
// or timed-out completion only degrades its own line. Compose fails only when
// ctx itself ends, since nobody is left to read the answer.
func (s *feedbackServiceImpl) Compose(ctx context.Context, labels []domain.TagLabel, records []domain.FeedbackRecord) (string, error) {
	l := logger.Get()
	lines := make([]string, len(labels))

	g, gctx := errgroup.WithContext(ctx)
	for i, label := range labels {
		stat, ok := domain.AggregateTag(label.Tag, records)
		if !ok {
			lines[i] = fmt.Sprintf("%s: %s", label.DisplayName, s.noDataMessage)
			continue
		}
		summary := stat.Summary()

		g.Go(func() error {
			callCtx := gctx
			if s.timeout > 0 {
				var cancel context.CancelFunc
				callCtx, cancel = context.WithTimeout(gctx, s.timeout)
				defer cancel()
			}

			text, err := s.completer.Complete(callCtx, s.systemPrompt, summary)
			if err != nil && ctx.Err() != nil {
				return ctx.Err()
			}
			text = strings.TrimSpace(text)
			if err != nil || text == "" {
				l.Warn("Feedback completion unavailable",
					zap.String("tag", label.Tag), zap.Error(err))
				text = s.unavailableMessage
			}
			lines[i] = fmt.Sprintf("%s: %s %s", label.DisplayName, summary, text)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return "", domain.NewInternalError("failed to compose feedback", err)
	}

	return strings.Join(lines, "\n"), nil
}
