package worker

import (
	"context"
	"fmt"

	"github.com/hibiken/asynq"
	jsoniter "github.com/json-iterator/go"

	"card_tradein/internal/domain/entity"
	"card_tradein/internal/domain/value"
	"card_tradein/internal/infrastructure/audit"
	"card_tradein/pkg/contextx"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary //nolint:gochecknoglobals // skip

var logger = contextx.LoggerFromContextOrDefault //nolint:gochecknoglobals

type FallbackLogAppender interface {
	Append(ctx context.Context, e entity.FallbackLogEntry) error
}

// FallbackWriter — потребитель очереди аудита: достаёт событие из задачи
// и дописывает его в fallback_log. Ошибка возвращается в asynq, тот сам
// ретраит и архивирует безнадёжные задачи — это и есть dead-letter.
type FallbackWriter struct {
	repo FallbackLogAppender
}

func NewFallbackWriter(repo FallbackLogAppender) *FallbackWriter {
	return &FallbackWriter{repo: repo}
}

func (w *FallbackWriter) HandleFallback(ctx context.Context, task *asynq.Task) error {
	var payload audit.TaskPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		// Битую задачу ретраить бессмысленно.
		logger(ctx).Error("fallback task unmarshal failed", "error", err)
		return fmt.Errorf("json.Unmarshal: %w", asynq.SkipRetry)
	}

	entry := entity.FallbackLogEntry{
		Game:      value.Game(payload.Game),
		BaseValue: payload.BaseValue,
		Reason:    payload.Reason,
		UserID:    payload.UserID,
		CreatedAt: payload.CreatedAt,
	}

	if err := w.repo.Append(ctx, entry); err != nil {
		return fmt.Errorf("repo.Append: %w", err)
	}

	logger(ctx).Debug("fallback event persisted",
		"game", payload.Game,
		"reason", payload.Reason,
	)

	return nil
}
