package persistence

import (
	"context"

	"github.com/jmoiron/sqlx"

	"card_tradein/internal/domain"
	"card_tradein/internal/domain/entity"
	"card_tradein/internal/domain/value"
	"card_tradein/pkg/errcodes"
	"card_tradein/pkg/lox"
)

// BracketRepository читает настройки вилок. Таблицу ведёт админка настроек,
// отсюда только SELECT.
type BracketRepository struct {
	db *sqlx.DB
}

func NewBracketRepository(db *sqlx.DB) *BracketRepository {
	return &BracketRepository{db: db}
}

// ListByGame возвращает все вилки игры в порядке создания.
// Порядок важен: при пересекающихся диапазонах выигрывает первая строка.
func (r *BracketRepository) ListByGame(ctx context.Context, game value.Game) ([]entity.BracketSetting, error) {
	query := `
		SELECT id, game, min_value, max_value,
		       cash_percentage, trade_percentage,
		       fixed_cash_value, fixed_trade_value
		FROM bracket_settings
		WHERE game = $1
		ORDER BY id ASC`

	var schemas []bracketSettingSchema
	if err := r.db.SelectContext(ctx, &schemas, query, game.String()); err != nil {
		return nil, domain.WrapError(err, errcodes.SettingsReadFailed, "failed to list bracket settings")
	}

	return lox.MapErr(schemas, bracketSettingSchema.toDomain)
}
