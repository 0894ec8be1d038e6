package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"quiz-trail/internal/domain"
	"quiz-trail/internal/dto"
	"quiz-trail/internal/handler"
	"quiz-trail/internal/middleware"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// --- Manual Mocks ---

type MockSessionService struct {
	LoginFunc    func(ctx context.Context, email, password string) (*domain.Session, error)
	LogoutFunc   func(ctx context.Context, token string) error
	ValidateFunc func(ctx context.Context, token string) (int64, error)
}

func (m *MockSessionService) Login(ctx context.Context, email, password string) (*domain.Session, error) {
	if m.LoginFunc != nil {
		return m.LoginFunc(ctx, email, password)
	}
	panic("MockSessionService.LoginFunc not implemented")
}

func (m *MockSessionService) Logout(ctx context.Context, token string) error {
	if m.LogoutFunc != nil {
		return m.LogoutFunc(ctx, token)
	}
	panic("MockSessionService.LogoutFunc not implemented")
}

func (m *MockSessionService) Validate(ctx context.Context, token string) (int64, error) {
	if m.ValidateFunc != nil {
		return m.ValidateFunc(ctx, token)
	}
	if token == "good" {
		return 7, nil
	}
	return 0, domain.NewSessionNotFoundError()
}

func (m *MockSessionService) PurgeExpired(ctx context.Context) (int64, error) {
	panic("MockSessionService.PurgeExpired not implemented")
}

type MockAttemptService struct {
	SubmitFunc        func(ctx context.Context, userID int64, items []domain.AttemptItem) (string, error)
	ListAttemptsFunc  func(ctx context.Context, userID int64) ([]domain.AttemptSummary, error)
	ExpandAttemptFunc func(ctx context.Context, userID int64, attemptID string) ([]domain.AnswerDetail, error)
	DeleteAttemptFunc func(ctx context.Context, userID int64, attemptID string) error
	GetQuestionFunc   func(ctx context.Context, questionID int64) (*domain.Question, error)
}

func (m *MockAttemptService) Submit(ctx context.Context, userID int64, items []domain.AttemptItem) (string, error) {
	if m.SubmitFunc != nil {
		return m.SubmitFunc(ctx, userID, items)
	}
	panic("MockAttemptService.SubmitFunc not implemented")
}

func (m *MockAttemptService) ListAttempts(ctx context.Context, userID int64) ([]domain.AttemptSummary, error) {
	if m.ListAttemptsFunc != nil {
		return m.ListAttemptsFunc(ctx, userID)
	}
	panic("MockAttemptService.ListAttemptsFunc not implemented")
}

func (m *MockAttemptService) ExpandAttempt(ctx context.Context, userID int64, attemptID string) ([]domain.AnswerDetail, error) {
	if m.ExpandAttemptFunc != nil {
		return m.ExpandAttemptFunc(ctx, userID, attemptID)
	}
	panic("MockAttemptService.ExpandAttemptFunc not implemented")
}

func (m *MockAttemptService) DeleteAttempt(ctx context.Context, userID int64, attemptID string) error {
	if m.DeleteAttemptFunc != nil {
		return m.DeleteAttemptFunc(ctx, userID, attemptID)
	}
	panic("MockAttemptService.DeleteAttemptFunc not implemented")
}

func (m *MockAttemptService) GetQuestion(ctx context.Context, questionID int64) (*domain.Question, error) {
	if m.GetQuestionFunc != nil {
		return m.GetQuestionFunc(ctx, questionID)
	}
	panic("MockAttemptService.GetQuestionFunc not implemented")
}

type MockFeedbackService struct {
	FeedbackFunc func(ctx context.Context, records []domain.FeedbackRecord) (string, error)
}

func (m *MockFeedbackService) Feedback(ctx context.Context, records []domain.FeedbackRecord) (string, error) {
	if m.FeedbackFunc != nil {
		return m.FeedbackFunc(ctx, records)
	}
	panic("MockFeedbackService.FeedbackFunc not implemented")
}

func (m *MockFeedbackService) Compose(ctx context.Context, labels []domain.TagLabel, records []domain.FeedbackRecord) (string, error) {
	panic("MockFeedbackService.Compose not implemented")
}

type stubPinger struct{ err error }

func (p stubPinger) PingContext(ctx context.Context) error { return p.err }

// --- Helpers ---

const validAttemptID = "0b7f0d4e-5d5c-4c5b-9a52-6a3e0c7d2f11"

func setupApp(sessions *MockSessionService, attempts *MockAttemptService, feedback *MockFeedbackService) *fiber.App {
	app := fiber.New(fiber.Config{ErrorHandler: middleware.ErrorHandler()})
	protected := middleware.Protected(sessions)
	validate := middleware.NewValidationMiddleware()

	authHandler := handler.NewAuthHandler(sessions)
	attemptHandler := handler.NewAttemptHandler(attempts)
	questionHandler := handler.NewQuestionHandler(attempts)
	feedbackHandler := handler.NewFeedbackHandler(feedback)

	app.Post("/api/login", authHandler.Login)
	app.Post("/api/logout", protected, authHandler.Logout)
	app.Post("/api/attempts", protected, attemptHandler.SubmitAttempt)
	app.Get("/api/attempts", protected, attemptHandler.ListAttempts)
	app.Get("/api/attempts/:attemptID", protected, validate.ValidateAttemptID(), attemptHandler.GetAttempt)
	app.Delete("/api/attempts/:attemptID", protected, validate.ValidateAttemptID(), attemptHandler.DeleteAttempt)
	app.Get("/api/questions/:questionID", protected, validate.ValidateQuestionID(), questionHandler.GetQuestion)
	app.Post("/api/feedback", protected, feedbackHandler.GetFeedback)
	return app
}

func doRequest(t *testing.T, app *fiber.App, method, target string, body any) (int, []byte) {
	t.Helper()
	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, target, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Authorization", "Bearer good")

	resp, err := app.Test(req)
	require.NoError(t, err)
	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, data
}

// --- Tests ---

func TestAuthHandler_Login(t *testing.T) {
	sessions := &MockSessionService{
		LoginFunc: func(ctx context.Context, email, password string) (*domain.Session, error) {
			if email == "kim@example.com" && password == "secret" {
				return &domain.Session{Token: "tok", UserID: 7}, nil
			}
			return nil, domain.NewInvalidCredentialsError()
		},
	}
	app := setupApp(sessions, &MockAttemptService{}, &MockFeedbackService{})

	status, body := doRequest(t, app, "POST", "/api/login", dto.LoginRequest{Email: "kim@example.com", Password: "secret"})
	assert.Equal(t, 200, status)
	var resp dto.LoginResponse
	require.NoError(t, json.Unmarshal(body, &resp))
	assert.Equal(t, "tok", resp.Token)

	status, _ = doRequest(t, app, "POST", "/api/login", dto.LoginRequest{Email: "kim@example.com", Password: "wrong"})
	assert.Equal(t, 401, status)

	status, _ = doRequest(t, app, "POST", "/api/login", dto.LoginRequest{})
	assert.Equal(t, 400, status)
}

func TestAuthHandler_Logout(t *testing.T) {
	var revoked string
	sessions := &MockSessionService{LogoutFunc: func(ctx context.Context, token string) error {
		revoked = token
		return nil
	}}
	app := setupApp(sessions, &MockAttemptService{}, &MockFeedbackService{})

	status, _ := doRequest(t, app, "POST", "/api/logout", nil)
	assert.Equal(t, 200, status)
	assert.Equal(t, "good", revoked)
}

func TestAttemptHandler_Submit(t *testing.T) {
	var gotUser int64
	var gotItems []domain.AttemptItem
	attempts := &MockAttemptService{SubmitFunc: func(ctx context.Context, userID int64, items []domain.AttemptItem) (string, error) {
		gotUser, gotItems = userID, items
		return validAttemptID, nil
	}}
	app := setupApp(&MockSessionService{}, attempts, &MockFeedbackService{})

	yes, no := true, false
	status, body := doRequest(t, app, "POST", "/api/attempts", dto.SubmitAttemptRequest{Items: []dto.AttemptItemRequest{
		{QuestionID: 1, IsCorrect: &yes},
		{QuestionID: 2, IsCorrect: &no},
		{QuestionID: 3},
	}})
	require.Equal(t, 200, status, string(body))
	assert.JSONEq(t, `{"attempt_id":"`+validAttemptID+`"}`, string(body))
	assert.Equal(t, int64(7), gotUser)
	require.Len(t, gotItems, 3)
	assert.Equal(t, domain.Unanswered, gotItems[2].Result)
}

func TestAttemptHandler_Submit_Rejections(t *testing.T) {
	attempts := &MockAttemptService{SubmitFunc: func(ctx context.Context, userID int64, items []domain.AttemptItem) (string, error) {
		t.Fatal("Submit must not be called")
		return "", nil
	}}
	app := setupApp(&MockSessionService{}, attempts, &MockFeedbackService{})

	status, _ := doRequest(t, app, "POST", "/api/attempts", dto.SubmitAttemptRequest{})
	assert.Equal(t, 400, status)

	status, _ = doRequest(t, app, "POST", "/api/attempts", dto.SubmitAttemptRequest{Items: []dto.AttemptItemRequest{{QuestionID: -1}}})
	assert.Equal(t, 400, status)

	req := httptest.NewRequest("POST", "/api/attempts", bytes.NewReader([]byte(`{"items":[{"question_id":1}]}`)))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer bad")
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, 401, resp.StatusCode)
}

func TestAttemptHandler_Submit_StorageError(t *testing.T) {
	attempts := &MockAttemptService{SubmitFunc: func(ctx context.Context, userID int64, items []domain.AttemptItem) (string, error) {
		return "", domain.NewStorageError("failed to record attempt", errors.New("fk"))
	}}
	app := setupApp(&MockSessionService{}, attempts, &MockFeedbackService{})

	status, _ := doRequest(t, app, "POST", "/api/attempts", dto.SubmitAttemptRequest{Items: []dto.AttemptItemRequest{{QuestionID: 1}}})
	assert.Equal(t, 500, status)
}

func TestAttemptHandler_ListExpandDelete(t *testing.T) {
	at := time.Date(2025, 5, 1, 10, 0, 0, 0, time.UTC)
	deleted := false
	attempts := &MockAttemptService{
		ListAttemptsFunc: func(ctx context.Context, userID int64) ([]domain.AttemptSummary, error) {
			return []domain.AttemptSummary{{AttemptID: validAttemptID, SubmittedAt: at, QuestionCount: 2, CorrectCount: 1}}, nil
		},
		ExpandAttemptFunc: func(ctx context.Context, userID int64, attemptID string) ([]domain.AnswerDetail, error) {
			assert.Equal(t, int64(7), userID)
			if deleted {
				return []domain.AnswerDetail{}, nil
			}
			return []domain.AnswerDetail{{AnswerID: "A1", Result: domain.Correct}, {AnswerID: "A2", Ordinal: 1}}, nil
		},
		DeleteAttemptFunc: func(ctx context.Context, userID int64, attemptID string) error {
			deleted = true
			return nil
		},
	}
	app := setupApp(&MockSessionService{}, attempts, &MockFeedbackService{})

	status, body := doRequest(t, app, "GET", "/api/attempts", nil)
	assert.Equal(t, 200, status)
	var list dto.AttemptListResponse
	require.NoError(t, json.Unmarshal(body, &list))
	require.Len(t, list.Attempts, 1)
	assert.Equal(t, 2, list.Attempts[0].QuestionCount)

	status, body = doRequest(t, app, "GET", "/api/attempts/"+validAttemptID, nil)
	assert.Equal(t, 200, status)
	var detail dto.AttemptDetailResponse
	require.NoError(t, json.Unmarshal(body, &detail))
	assert.Len(t, detail.Answers, 2)

	status, _ = doRequest(t, app, "DELETE", "/api/attempts/"+validAttemptID, nil)
	assert.Equal(t, 204, status)

	status, body = doRequest(t, app, "GET", "/api/attempts/"+validAttemptID, nil)
	assert.Equal(t, 200, status)
	require.NoError(t, json.Unmarshal(body, &detail))
	assert.Empty(t, detail.Answers)

	status, _ = doRequest(t, app, "GET", "/api/attempts/not-a-uuid", nil)
	assert.Equal(t, 400, status)
}

func TestQuestionHandler_GetQuestion(t *testing.T) {
	attempts := &MockAttemptService{GetQuestionFunc: func(ctx context.Context, id int64) (*domain.Question, error) {
		if id == 5 {
			return &domain.Question{ID: 5, QuestionText: "Which data is personal?", Tag: "Privacy"}, nil
		}
		return nil, domain.NewNotFoundError("question not found")
	}}
	app := setupApp(&MockSessionService{}, attempts, &MockFeedbackService{})

	status, body := doRequest(t, app, "GET", "/api/questions/5", nil)
	assert.Equal(t, 200, status)
	var q dto.QuestionResponse
	require.NoError(t, json.Unmarshal(body, &q))
	assert.Equal(t, "Privacy", q.Tag)
	assert.Equal(t, []string{}, q.Choices)

	status, _ = doRequest(t, app, "GET", "/api/questions/6", nil)
	assert.Equal(t, 404, status)
}

func TestFeedbackHandler_GetFeedback(t *testing.T) {
	var got []domain.FeedbackRecord
	feedback := &MockFeedbackService{FeedbackFunc: func(ctx context.Context, records []domain.FeedbackRecord) (string, error) {
		got = records
		return "Privacy: ok\nEthics: no data", nil
	}}
	app := setupApp(&MockSessionService{}, &MockAttemptService{}, feedback)

	yes := true
	status, body := doRequest(t, app, "POST", "/api/feedback", dto.FeedbackRequest{Records: []dto.FeedbackRecordRequest{
		{QuestionTag: "Privacy", IsCorrect: &yes, TimeTaken: 3},
	}})
	assert.Equal(t, 200, status)
	assert.JSONEq(t, `{"feedback":"Privacy: ok\nEthics: no data"}`, string(body))
	assert.Equal(t, []domain.FeedbackRecord{{Tag: "Privacy", Result: domain.Correct, TimeTaken: 3}}, got)

	status, _ = doRequest(t, app, "POST", "/api/feedback", dto.FeedbackRequest{Records: []dto.FeedbackRecordRequest{{QuestionTag: "", TimeTaken: -1}}})
	assert.Equal(t, 400, status)
}

func TestHealthHandler(t *testing.T) {
	tests := []struct {
		name       string
		db         error
		wantStatus int
		want       dto.HealthResponse
	}{
		{name: "healthy", wantStatus: 200, want: dto.HealthResponse{Status: "ok", Database: "up", Cache: "disabled"}},
		{name: "database down", db: errors.New("ORA-12541"), wantStatus: 503, want: dto.HealthResponse{Status: "unavailable", Database: "down", Cache: "disabled"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app := fiber.New()
			app.Get("/api/health", handler.NewHealthHandler(stubPinger{err: tt.db}, nil).Health)

			resp, err := app.Test(httptest.NewRequest("GET", "/api/health", nil))
			require.NoError(t, err)
			assert.Equal(t, tt.wantStatus, resp.StatusCode)
			var got dto.HealthResponse
			require.NoError(t, json.NewDecoder(resp.Body).Decode(&got))
			assert.Equal(t, tt.want, got)
		})
	}
}
