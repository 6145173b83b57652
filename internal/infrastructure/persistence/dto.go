package persistence

import (
	"database/sql"
	"time"

	"card_tradein/internal/domain"
	"card_tradein/internal/domain/entity"
	"card_tradein/internal/domain/value"
	"card_tradein/pkg/errcodes"
)

// bracketSettingSchema — строка таблицы bracket_settings как она лежит в БД.
// Nullability фиксированных колонок решает, какая это вилка; дальше по коду
// ходит уже размеченная entity.BracketSetting, а не пара nullable-полей.
type bracketSettingSchema struct {
	ID           int64           `db:"id"`
	Game         string          `db:"game"`
	MinValue     float64         `db:"min_value"`
	MaxValue     float64         `db:"max_value"`
	CashPercent  float64         `db:"cash_percentage"`
	TradePercent float64         `db:"trade_percentage"`
	FixedCash    sql.NullFloat64 `db:"fixed_cash_value"`
	FixedTrade   sql.NullFloat64 `db:"fixed_trade_value"`
}

func (s bracketSettingSchema) toDomain() (entity.BracketSetting, error) {
	setting := entity.BracketSetting{
		ID:           s.ID,
		Game:         value.Game(s.Game),
		Kind:         entity.BracketRanged,
		MinValue:     s.MinValue,
		MaxValue:     s.MaxValue,
		CashPercent:  s.CashPercent,
		TradePercent: s.TradePercent,
	}

	switch {
	case s.FixedCash.Valid && s.FixedTrade.Valid:
		setting.Kind = entity.BracketFixed
		setting.FixedCash = s.FixedCash.Float64
		setting.FixedTrade = s.FixedTrade.Float64

	case s.FixedCash.Valid != s.FixedTrade.Valid:
		// Заполнена только одна из двух фиксированных колонок — строка битая.
		return entity.BracketSetting{}, domain.NewError(
			errcodes.InvalidBracketSetup,
			"bracket setting has only one fixed value",
		)
	}

	return setting, nil
}

// fallbackLogSchema — строка append-only таблицы fallback_log.
type fallbackLogSchema struct {
	ID        int64          `db:"id"`
	Game      string         `db:"game"`
	BaseValue float64        `db:"base_value"`
	Reason    string         `db:"reason"`
	UserID    sql.NullString `db:"user_id"`
	CreatedAt time.Time      `db:"created_at"`
}

func fromFallbackLogEntry(e entity.FallbackLogEntry) fallbackLogSchema {
	schema := fallbackLogSchema{
		Game:      e.Game.String(),
		BaseValue: e.BaseValue,
		Reason:    e.Reason,
		CreatedAt: e.CreatedAt,
	}

	if e.UserID != "" {
		schema.UserID = sql.NullString{String: e.UserID, Valid: true}
	}

	return schema
}
