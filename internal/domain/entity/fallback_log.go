package entity

import (
	"time"

	"card_tradein/internal/domain/value"
)

// FallbackLogEntry — запись аудита о срабатывании fallback-ветки расчёта.
// Пишется в один конец (append-only), сервис её никогда не читает обратно.
type FallbackLogEntry struct {
	ID        int64      `json:"id"`
	Game      value.Game `json:"game"`
	BaseValue float64    `json:"base_value"`
	Reason    string     `json:"reason"`
	UserID    string     `json:"user_id,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
}
