package valuation_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"card_tradein/internal/domain/entity"
	"card_tradein/internal/domain/service/valuation"
	"card_tradein/internal/domain/value"
)

type stubBracketRepo struct {
	settings []entity.BracketSetting
	err      error
	calls    int
}

func (r *stubBracketRepo) ListByGame(_ context.Context, _ value.Game) ([]entity.BracketSetting, error) {
	r.calls++

	if r.err != nil {
		return nil, r.err
	}

	return r.settings, nil
}

type stubRecorder struct {
	entries []entity.FallbackLogEntry
}

func (r *stubRecorder) Record(_ context.Context, e entity.FallbackLogEntry) {
	r.entries = append(r.entries, e)
}

type panickingRecorder struct{}

func (panickingRecorder) Record(_ context.Context, _ entity.FallbackLogEntry) {
	panic("audit sink exploded")
}

func newService(repo *stubBracketRepo, recorder valuation.FallbackRecorder) *valuation.Service {
	return valuation.NewService(valuation.NewSettingsCache(repo), recorder)
}

func rangedBracket(minValue, maxValue, cashPercent, tradePercent float64) entity.BracketSetting {
	return entity.BracketSetting{
		Game:         value.GamePokemon,
		Kind:         entity.BracketRanged,
		MinValue:     minValue,
		MaxValue:     maxValue,
		CashPercent:  cashPercent,
		TradePercent: tradePercent,
	}
}

func fixedBracket(cash, trade float64) entity.BracketSetting {
	return entity.BracketSetting{
		Game:       value.GameJapanesePokemon,
		Kind:       entity.BracketFixed,
		FixedCash:  cash,
		FixedTrade: trade,
	}
}

func TestCalculateZeroShortCircuit(t *testing.T) {
	rq := require.New(t)
	ctx := context.Background()

	// Репозиторий сломан нарочно: до него дело дойти не должно.
	repo := &stubBracketRepo{err: errors.New("db down")}
	recorder := &stubRecorder{}
	svc := newService(repo, recorder)

	result := svc.Calculate(ctx, value.GamePokemon, 0, "")

	rq.Equal(valuation.Result{}, result)
	rq.Zero(repo.calls)
	rq.Empty(recorder.entries)
}

func TestCalculateRangedBracket(t *testing.T) {
	rq := require.New(t)
	ctx := context.Background()

	repo := &stubBracketRepo{settings: []entity.BracketSetting{
		rangedBracket(0, 10, 30, 45),
	}}
	recorder := &stubRecorder{}
	svc := newService(repo, recorder)

	result := svc.Calculate(ctx, value.GamePokemon, 5, "user-1")

	rq.InDelta(1.5, result.CashValue, 1e-9)
	rq.InDelta(2.25, result.TradeValue, 1e-9)
	rq.False(result.UsedFallback)
	rq.Empty(result.Reason)
	rq.Empty(recorder.entries)
}

func TestCalculateRoundsHalfUpToCents(t *testing.T) {
	rq := require.New(t)
	ctx := context.Background()

	repo := &stubBracketRepo{settings: []entity.BracketSetting{
		rangedBracket(0, 10, 30, 45),
	}}
	svc := newService(repo, &stubRecorder{})

	// 1.39 × 30% = 0.417 → 0.42; 1.39 × 45% = 0.6255 → 0.63.
	// Именно округление, не усечение.
	result := svc.Calculate(ctx, value.GamePokemon, 1.39, "")

	rq.InDelta(0.42, result.CashValue, 1e-9)
	rq.InDelta(0.63, result.TradeValue, 1e-9)
	rq.False(result.UsedFallback)
}

func TestCalculateFixedBracketWinsOverRanged(t *testing.T) {
	rq := require.New(t)
	ctx := context.Background()

	repo := &stubBracketRepo{settings: []entity.BracketSetting{
		rangedBracket(0, 1000, 30, 45),
		fixedBracket(10, 15),
	}}
	recorder := &stubRecorder{}
	svc := newService(repo, recorder)

	// Фиксированная вилка игнорирует базовую цену целиком.
	result := svc.Calculate(ctx, value.GameJapanesePokemon, 50, "")

	rq.InDelta(10, result.CashValue, 1e-9)
	rq.InDelta(15, result.TradeValue, 1e-9)
	rq.False(result.UsedFallback)
	rq.Empty(recorder.entries)
}

func TestCalculateNoRangeMatch(t *testing.T) {
	rq := require.New(t)
	ctx := context.Background()

	repo := &stubBracketRepo{settings: []entity.BracketSetting{
		rangedBracket(0, 100, 30, 45),
	}}
	recorder := &stubRecorder{}
	svc := newService(repo, recorder)

	result := svc.Calculate(ctx, value.GamePokemon, 1000, "user-2")

	rq.InDelta(350, result.CashValue, 1e-9)
	rq.InDelta(500, result.TradeValue, 1e-9)
	rq.True(result.UsedFallback)
	rq.Equal(value.ReasonNoPriceRangeMatch, result.Reason)

	rq.Len(recorder.entries, 1)
	rq.Equal(value.GamePokemon, recorder.entries[0].Game)
	rq.InDelta(1000, recorder.entries[0].BaseValue, 1e-9)
	rq.Equal("user-2", recorder.entries[0].UserID)
}

func TestCalculateNoSettingsFound(t *testing.T) {
	rq := require.New(t)
	ctx := context.Background()

	repo := &stubBracketRepo{}
	recorder := &stubRecorder{}
	svc := newService(repo, recorder)

	result := svc.Calculate(ctx, value.GameLorcana, 10, "")

	rq.InDelta(3.5, result.CashValue, 1e-9)
	rq.InDelta(5, result.TradeValue, 1e-9)
	rq.True(result.UsedFallback)
	rq.Equal(value.ReasonNoSettingsFound, result.Reason)
	rq.Len(recorder.entries, 1)
}

func TestCalculateStoreErrorBecomesDatabaseError(t *testing.T) {
	rq := require.New(t)
	ctx := context.Background()

	repo := &stubBracketRepo{err: errors.New("connection refused")}
	recorder := &stubRecorder{}
	svc := newService(repo, recorder)

	result := svc.Calculate(ctx, value.GamePokemon, 20, "")

	rq.InDelta(7, result.CashValue, 1e-9)
	rq.InDelta(10, result.TradeValue, 1e-9)
	rq.True(result.UsedFallback)
	rq.Equal(value.ReasonDatabaseError, result.Reason)
	rq.Equal(value.ReasonDatabaseError.Message(""), result.ErrorMessage)
	rq.Len(recorder.entries, 1)
	rq.Contains(recorder.entries[0].Reason, "connection refused")
}

func TestCalculateCacheHitSkipsStore(t *testing.T) {
	rq := require.New(t)
	ctx := context.Background()

	repo := &stubBracketRepo{settings: []entity.BracketSetting{
		rangedBracket(0, 100, 30, 45),
	}}
	svc := newService(repo, &stubRecorder{})

	first := svc.Calculate(ctx, value.GamePokemon, 5, "")
	second := svc.Calculate(ctx, value.GamePokemon, 50, "")

	// Вторая базовая цена другая, но чтение БД одно: настройки уже в кэше.
	rq.Equal(1, repo.calls)
	rq.InDelta(1.5, first.CashValue, 1e-9)
	rq.InDelta(15, second.CashValue, 1e-9)
}

func TestCalculateSurvivesPanickingRecorder(t *testing.T) {
	rq := require.New(t)
	ctx := context.Background()

	svc := newService(&stubBracketRepo{}, panickingRecorder{})

	result := svc.Calculate(ctx, value.GamePokemon, 10, "")

	rq.True(result.UsedFallback)
	rq.Equal(value.ReasonNoSettingsFound, result.Reason)
	rq.InDelta(3.5, result.CashValue, 1e-9)
}

func TestCalculateRecoversInternalPanic(t *testing.T) {
	rq := require.New(t)
	ctx := context.Background()

	// Сервис без кэша падает при первом же обращении; наружу это
	// обязано выйти результатом с DATABASE_ERROR, а не паникой.
	recorder := &stubRecorder{}
	svc := valuation.NewService(nil, recorder)

	rq.NotPanics(func() {
		result := svc.Calculate(ctx, value.GamePokemon, 10, "")

		rq.True(result.UsedFallback)
		rq.Equal(value.ReasonDatabaseError, result.Reason)
		rq.InDelta(3.5, result.CashValue, 1e-9)
		rq.InDelta(5, result.TradeValue, 1e-9)
	})
	rq.Len(recorder.entries, 1)
}

func TestErrorResult(t *testing.T) {
	rq := require.New(t)

	result := valuation.ErrorResult(1.39, value.ReasonUnknownError, "boom")

	rq.InDelta(0.49, result.CashValue, 1e-9) // 1.39 × 35% = 0.4865 → 0.49
	rq.InDelta(0.70, result.TradeValue, 1e-9)
	rq.True(result.UsedFallback)
	rq.Equal(value.ReasonUnknownError, result.Reason)
	rq.Equal(value.ReasonUnknownError.Message(""), result.ErrorMessage)
}
