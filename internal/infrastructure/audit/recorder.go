package audit

import (
	"context"
	"time"

	"github.com/hibiken/asynq"
	jsoniter "github.com/json-iterator/go"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"card_tradein/internal/domain/entity"
	"card_tradein/pkg/contextx"
	"card_tradein/pkg/logx"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary //nolint:gochecknoglobals // skip

var logger = contextx.LoggerFromContextOrDefault //nolint:gochecknoglobals

const (
	// TaskTypeFallback — тип задачи asynq с событием аудита.
	TaskTypeFallback = "audit:fallback"
	// Queue — очередь аудита, разгребается воркером отдельно от HTTP-пути.
	Queue = "audit"

	maxRetry = 3
)

//nolint:gochecknoglobals
var fallbackEvents = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "tradein_fallback_events_total",
		Help: "Trade-in calculations that took a fallback path, by game.",
	},
	[]string{"game"},
)

// TaskPayload — сериализованное событие аудита внутри задачи asynq.
type TaskPayload struct {
	Game      string    `json:"game"`
	BaseValue float64   `json:"baseValue"`
	Reason    string    `json:"reason"`
	UserID    string    `json:"userId,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

// Recorder отправляет события аудита в очередь и сразу возвращается.
// Сбой постановки в очередь логируется и глотается: путь ответа клиенту
// не сериализуется на медленном или лежащем аудит-стоке.
type Recorder struct {
	client *asynq.Client
}

func NewRecorder(client *asynq.Client) *Recorder {
	return &Recorder{client: client}
}

func (r *Recorder) Record(ctx context.Context, e entity.FallbackLogEntry) {
	fallbackEvents.WithLabelValues(e.Game.String()).Inc()

	payload, err := json.Marshal(TaskPayload{
		Game:      e.Game.String(),
		BaseValue: e.BaseValue,
		Reason:    e.Reason,
		UserID:    e.UserID,
		CreatedAt: e.CreatedAt,
	})
	if err != nil {
		logger(ctx).Error("fallback audit marshal failed", logx.Error(err))
		return
	}

	task := asynq.NewTask(TaskTypeFallback, payload)

	if _, err := r.client.EnqueueContext(ctx, task,
		asynq.Queue(Queue),
		asynq.MaxRetry(maxRetry),
	); err != nil {
		logger(ctx).Error("fallback audit enqueue failed",
			"game", e.Game.String(),
			"reason", e.Reason,
			logx.Error(err),
		)
	}
}
