package persistence

import (
	"context"
	"time"

	"github.com/jmoiron/sqlx"

	"card_tradein/internal/domain"
	"card_tradein/internal/domain/entity"
	"card_tradein/pkg/errcodes"
)

// FallbackLogRepository пишет события аудита. Только INSERT: сервис свои
// записи никогда не перечитывает, их смотрит оператор руками.
type FallbackLogRepository struct {
	db *sqlx.DB
}

func NewFallbackLogRepository(db *sqlx.DB) *FallbackLogRepository {
	return &FallbackLogRepository{db: db}
}

func (r *FallbackLogRepository) Append(ctx context.Context, e entity.FallbackLogEntry) error {
	schema := fromFallbackLogEntry(e)
	if schema.CreatedAt.IsZero() {
		schema.CreatedAt = time.Now()
	}

	query := `
		INSERT INTO fallback_log (game, base_value, reason, user_id, created_at)
		VALUES (:game, :base_value, :reason, :user_id, :created_at)`

	if _, err := r.db.NamedExecContext(ctx, query, schema); err != nil {
		return domain.WrapError(err, errcodes.AuditWriteFailed, "failed to append fallback log entry")
	}

	return nil
}
