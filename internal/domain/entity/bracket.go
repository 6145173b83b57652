package entity

import "card_tradein/internal/domain/value"

// BracketKind — вид вилки: фиксированная сумма или процент в диапазоне.
// Решается один раз на границе доступа к данным (по nullability колонок),
// дальше движок работает только с тегом.
type BracketKind string

const (
	BracketFixed  BracketKind = "fixed"
	BracketRanged BracketKind = "ranged"
)

// BracketSetting — одно правило оценки для игры.
//
// Для Kind == BracketFixed заполнены FixedCash/FixedTrade, базовая цена и
// диапазон игнорируются. Для Kind == BracketRanged действуют проценты внутри
// [MinValue, MaxValue] включительно.
type BracketSetting struct {
	ID   int64       `json:"id"`
	Game value.Game  `json:"game"`
	Kind BracketKind `json:"kind"`

	MinValue     float64 `json:"min_value"`
	MaxValue     float64 `json:"max_value"`
	CashPercent  float64 `json:"cash_percentage"`
	TradePercent float64 `json:"trade_percentage"`

	FixedCash  float64 `json:"fixed_cash_value"`
	FixedTrade float64 `json:"fixed_trade_value"`
}

// Covers сообщает, накрывает ли ранговая вилка данную базовую цену.
// Для фиксированной вилки всегда true: она срабатывает независимо от цены.
func (b BracketSetting) Covers(baseValue float64) bool {
	if b.Kind == BracketFixed {
		return true
	}

	return baseValue >= b.MinValue && baseValue <= b.MaxValue
}
