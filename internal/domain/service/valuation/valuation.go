package valuation

import (
	"context"
	"fmt"
	"time"

	"github.com/samber/lo"
	"github.com/shopspring/decimal"

	"card_tradein/internal/domain"
	"card_tradein/internal/domain/entity"
	"card_tradein/internal/domain/value"
	"card_tradein/pkg/contextx"
)

var logger = contextx.LoggerFromContextOrDefault //nolint:gochecknoglobals

// Дефолтные проценты, когда подходящей вилки нет вообще.
const (
	defaultCashPercent  = 35.0
	defaultTradePercent = 50.0
)

// Result — итог расчёта. CashValue/TradeValue всегда неотрицательные и
// округлены до центов. Reason заполнен только когда UsedFallback == true.
type Result struct {
	CashValue    float64
	TradeValue   float64
	UsedFallback bool
	Reason       value.FallbackReason
	ErrorMessage string
}

// FallbackRecorder принимает событие аудита и возвращается сразу.
// Реализация обязана глотать собственные сбои: ответ клиенту не должен
// зависеть от судьбы аудита.
type FallbackRecorder interface {
	Record(ctx context.Context, e entity.FallbackLogEntry)
}

type Service struct {
	cache    *SettingsCache
	recorder FallbackRecorder
}

func NewService(cache *SettingsCache, recorder FallbackRecorder) *Service {
	return &Service{
		cache:    cache,
		recorder: recorder,
	}
}

// Calculate считает выплату наличными и трейд-кредитом по базовой цене карты.
//
// Порядок выбора вилки: первая фиксированная → первая ранговая, накрывающая
// цену → дефолтные проценты с пометкой fallback. Пересечения диапазонов
// разруливаются порядком выдачи хранилища (админка обязана держать вилки
// непересекающимися). Любая внутренняя паника конвертируется в результат
// с причиной DATABASE_ERROR и до вызывающего не долетает.
func (s *Service) Calculate(ctx context.Context, game value.Game, baseValue float64, userID string) (result Result) {
	// Ноль не считаем и не логируем: нечего оценивать.
	if baseValue == 0 {
		return Result{}
	}

	defer func() {
		if rec := recover(); rec != nil {
			logger(ctx).Error("calculation panicked",
				"game", game.String(),
				"base_value", baseValue,
				"panic", rec,
			)

			msg := fmt.Sprintf("calculation failed: %v", rec)
			s.recordFallback(ctx, game, baseValue, msg, userID)
			result = ErrorResult(baseValue, value.ReasonDatabaseError, msg)
		}
	}()

	settings, err := s.cache.Get(ctx, game)
	if err != nil {
		code, _ := domain.GetCode(err)

		logger(ctx).Error("settings read failed",
			"game", game.String(),
			"code", code.String(),
			"error", err,
		)

		s.recordFallback(ctx, game, baseValue, "settings read failed: "+err.Error(), userID)

		return ErrorResult(baseValue, value.ReasonDatabaseError, err.Error())
	}

	result = Result{
		CashValue:  baseValue * defaultCashPercent / 100,
		TradeValue: baseValue * defaultTradePercent / 100,
	}

	switch {
	case len(settings) == 0:
		result.UsedFallback = true
		result.Reason = value.ReasonNoSettingsFound
		s.recordFallback(ctx, game, baseValue, "no settings found", userID)

	default:
		// Фиксированная вилка всегда приоритетнее ранговых.
		if fixed, ok := lo.Find(settings, func(b entity.BracketSetting) bool {
			return b.Kind == entity.BracketFixed
		}); ok {
			result.CashValue = fixed.FixedCash
			result.TradeValue = fixed.FixedTrade

			break
		}

		if ranged, ok := lo.Find(settings, func(b entity.BracketSetting) bool {
			return b.Kind == entity.BracketRanged && b.Covers(baseValue)
		}); ok {
			result.CashValue = baseValue * ranged.CashPercent / 100
			result.TradeValue = baseValue * ranged.TradePercent / 100

			break
		}

		result.UsedFallback = true
		result.Reason = value.ReasonNoPriceRangeMatch
		s.recordFallback(ctx, game, baseValue,
			fmt.Sprintf("no price range match for %.2f", baseValue), userID)
	}

	result.CashValue = round2(result.CashValue)
	result.TradeValue = round2(result.TradeValue)

	return result
}

// ClearCache сбрасывает кэш настроек: одной игры или весь, если game пустой.
func (s *Service) ClearCache(rawGame string) string {
	if rawGame == "" {
		s.cache.ClearAll()
		return "settings cache cleared for all games"
	}

	game := value.NormalizeGame(rawGame)
	s.cache.Clear(game)

	return "settings cache cleared for " + game.String()
}

func (s *Service) recordFallback(ctx context.Context, game value.Game, baseValue float64, reason, userID string) {
	// Аудит не имеет права ронять расчёт, даже если реализация сорвалась в панику.
	defer func() {
		if rec := recover(); rec != nil {
			logger(ctx).Error("fallback recorder panicked", "panic", rec)
		}
	}()

	s.recorder.Record(ctx, entity.FallbackLogEntry{
		Game:      game,
		BaseValue: baseValue,
		Reason:    reason,
		UserID:    userID,
		CreatedAt: time.Now(),
	})
}

// ErrorResult строит корректный ответ из базовой цены и кода причины —
// дефолтные проценты, каноничное сообщение. Чистая функция без I/O.
func ErrorResult(baseValue float64, reason value.FallbackReason, errMessage string) Result {
	return Result{
		CashValue:    round2(baseValue * defaultCashPercent / 100),
		TradeValue:   round2(baseValue * defaultTradePercent / 100),
		UsedFallback: true,
		Reason:       reason,
		ErrorMessage: reason.Message(errMessage),
	}
}

// round2 округляет до центов арифметически (half-up), не усечением:
// 1.39 × 45% = 0.6255 → 0.63.
func round2(v float64) float64 {
	return decimal.NewFromFloat(v).Round(2).InexactFloat64()
}
