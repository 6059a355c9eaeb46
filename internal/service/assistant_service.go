package service

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/ajmalakeel/tuition-center-api/internal/dto"
	appErrors "github.com/ajmalakeel/tuition-center-api/pkg/errors"
)

type answerProvider interface {
	Ask(ctx context.Context, question string) (string, error)
}

// AssistantService relays free-text questions to the configured answer
// endpoint. Calls are best-effort: one attempt, no retries, no
// influence on stored data.
type AssistantService struct {
	provider answerProvider
	logger   *zap.Logger
}

// NewAssistantService constructs the assistant service. A nil provider
// means the assistant is not configured.
func NewAssistantService(provider answerProvider, logger *zap.Logger) *AssistantService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AssistantService{provider: provider, logger: logger}
}

// Ask forwards a question and returns the answer text.
func (s *AssistantService) Ask(ctx context.Context, question string) (*dto.AssistantAnswer, error) {
	question = strings.TrimSpace(question)
	if question == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "question is required")
	}
	if s.provider == nil {
		return nil, appErrors.Clone(appErrors.ErrUpstream, "assistant is not configured")
	}

	answer, err := s.provider.Ask(ctx, question)
	if err != nil {
		s.logger.Warn("assistant request failed", zap.Error(err))
		return nil, appErrors.Wrap(err, appErrors.ErrUpstream.Code, appErrors.ErrUpstream.Status, "assistant request failed")
	}
	return &dto.AssistantAnswer{Answer: answer}, nil
}
