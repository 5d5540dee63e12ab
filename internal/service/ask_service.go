package service

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/limbo/habitlens/internal/analytics"
	errorvalues "github.com/limbo/habitlens/internal/error_values"
	"github.com/limbo/habitlens/internal/llm"
	"github.com/limbo/habitlens/internal/repository"
	"github.com/limbo/habitlens/pkg/entity"
	"github.com/limbo/habitlens/pkg/logctx"
)

const (
	DefaultMaxTokens   = 300
	DefaultTemperature = 0.6
)

// CompletionOptions bound the model output. Zero values fall back to the defaults.
type CompletionOptions struct {
	MaxTokens   int
	Temperature float64
}

// AskService answers free-form questions from a summary of the user's last days.
// A single model call is made per question, failures are never retried.
type AskService struct {
	loader   windowLoader
	client   llm.Client
	settings analytics.Settings
	opts     CompletionOptions
	clock    Clock
}

func NewAskService(
	habitsRepo repository.HabitsRepositoryI,
	checkInsRepo repository.CheckInsRepositoryI,
	client llm.Client,
	settings analytics.Settings,
	opts CompletionOptions,
	clock Clock,
) *AskService {
	if habitsRepo == nil || checkInsRepo == nil {
		log.Fatal("on ask service provided nil repos")
	}
	if opts.MaxTokens <= 0 {
		opts.MaxTokens = DefaultMaxTokens
	}
	if opts.Temperature <= 0 {
		opts.Temperature = DefaultTemperature
	}
	return &AskService{
		loader:   windowLoader{habitsRepo: habitsRepo, checkInsRepo: checkInsRepo},
		client:   client,
		settings: settings,
		opts:     opts,
		clock:    clock,
	}
}

func (as *AskService) Answer(ctx context.Context, uid uuid.UUID, question string) (string, error) {
	logger := logctx.FromContext(ctx)
	q, err := ValidateQuestion(question, as.settings.QuestionMaxLength)
	if err != nil {
		return "", err
	}
	if as.client == nil {
		logger.Warn("question rejected: no language model client")
		return "", errorvalues.ErrAIUnavailable
	}
	today := as.clock.Today()
	res, err := as.loader.aggregate(ctx, uid, entity.TrailingRange(today, as.settings.InsightsWindowDays), today)
	if err != nil {
		return "", err
	}
	askCtx := analytics.BuildAskContext(res, as.settings)

	start := time.Now()
	answer, err := as.client.Complete(ctx, llm.CompletionRequest{
		System:      analytics.SystemPrompt(askCtx, as.settings.Locale),
		User:        q,
		MaxTokens:   as.opts.MaxTokens,
		Temperature: as.opts.Temperature,
	})
	latency := slog.Duration("latency", time.Since(start))
	if err != nil {
		classified := llm.Classify(err)
		logger.Error("language model call failed",
			slog.String("class", failureClass(classified)),
			slog.String("error", err.Error()),
			latency,
		)
		return "", classified
	}
	answer = strings.TrimSpace(answer)
	if answer == "" {
		logger.Warn("language model returned empty answer", latency)
		return "", errorvalues.ErrAIEmptyResponse
	}
	logger.Info("question answered", latency, slog.Int("answer_length", len(answer)))
	return answer, nil
}

func failureClass(err error) string {
	switch {
	case errors.Is(err, errorvalues.ErrAIUnavailable):
		return "unavailable"
	case errors.Is(err, errorvalues.ErrAIQuota):
		return "quota"
	case errors.Is(err, errorvalues.ErrAIEmptyResponse):
		return "empty_response"
	default:
		return "upstream"
	}
}
