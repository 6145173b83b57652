package server

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"net/http"
	"strconv"
	"strings"
	"time"

	"card_tradein/internal/domain/entity"
	"card_tradein/internal/domain/service/valuation"
	"card_tradein/internal/domain/value"
	"card_tradein/pkg/contextx"
	"card_tradein/pkg/httpx/reply"
	"card_tradein/pkg/httpx/req"
	"card_tradein/pkg/logx"
	"card_tradein/pkg/rest"
)

var logger = contextx.LoggerFromContextOrDefault //nolint:gochecknoglobals

type valuationService interface {
	Calculate(ctx context.Context, game value.Game, baseValue float64, userID string) valuation.Result
	ClearCache(rawGame string) string
}

type fallbackRecorder interface {
	Record(ctx context.Context, e entity.FallbackLogEntry)
}

type ValuationServer struct {
	valuationService valuationService
	recorder         fallbackRecorder
}

func NewValuationServer(
	valuationService valuationService,
	recorder fallbackRecorder,
) ValuationServer {
	return ValuationServer{
		valuationService: valuationService,
		recorder:         recorder,
	}
}

// postCalculateValue — расчёт выплат по базовой цене карты.
//
// Кроме двух явных гейтов (405 по методу и 400 по входу) клиент всегда
// получает 200 с корректным телом: даже если расчёт упал, отдаём результат
// по дефолтным процентам с кодом UNKNOWN_ERROR, а не 500.
func (s ValuationServer) postCalculateValue(w http.ResponseWriter, r *http.Request) error {
	ctx := r.Context()

	var request rest.CalculateValueRequest

	if err := req.Read(r, &request); err != nil {
		logger(ctx).Warn("calculate-value: unreadable body", "error", err)
		replyInvalidInput(ctx, w, nil, 0)

		return nil
	}

	baseValue, ok := coerceBaseValue(request.BaseValue)
	if !ok || baseValue < 0 {
		replyInvalidInput(ctx, w, request.BaseValue, baseValue)

		return nil
	}

	// Нулевая цена — мгновенный выход без нормализации, кэша и аудита.
	if baseValue == 0 {
		reply.JSON(ctx, w, http.StatusOK, rest.ZeroResult{})

		return nil
	}

	if request.UserID != "" {
		ctx = contextx.WithUserID(ctx, contextx.UserID(request.UserID))
		ctx = contextx.WithLogger(ctx,
			logger(ctx).With(slog.String(logx.FieldUserID, request.UserID)),
		)
	}

	// Последний рубеж: что бы ни вылетело ниже, клиент получает 200
	// с результатом по дефолтным процентам и запись в аудите.
	defer func() {
		if rec := recover(); rec != nil {
			msg := fmt.Sprintf("unhandled calculation error: %v", rec)

			logger(ctx).Error("calculate-value: panic past engine guards",
				"game", request.Game,
				"base_value", baseValue,
				"panic", rec,
			)

			s.recorder.Record(ctx, entity.FallbackLogEntry{
				Game:      value.NormalizeGame(request.Game),
				BaseValue: baseValue,
				Reason:    msg,
				UserID:    request.UserID,
				CreatedAt: time.Now(),
			})

			reply.JSON(ctx, w, http.StatusOK, newRESTCalculationResult(
				valuation.ErrorResult(baseValue, value.ReasonUnknownError, msg),
			))
		}
	}()

	game := value.NormalizeGame(request.Game)

	result := s.valuationService.Calculate(ctx, game, baseValue, request.UserID)

	reply.JSON(ctx, w, http.StatusOK, newRESTCalculationResult(result))

	return nil
}

// postClearSettingsCache — админская ручка сброса кэша настроек.
func (s ValuationServer) postClearSettingsCache(w http.ResponseWriter, r *http.Request) error {
	ctx := r.Context()

	var request rest.ClearCacheRequest

	if err := req.Read(r, &request); err != nil {
		return fmt.Errorf("req.Read: %w", err)
	}

	message := s.valuationService.ClearCache(request.Game)

	reply.JSON(ctx, w, http.StatusOK, rest.ClearCacheResponse{
		Success: true,
		Message: message,
	})

	return nil
}

func replyInvalidInput(ctx context.Context, w http.ResponseWriter, received any, parsed float64) {
	reply.JSON(ctx, w, http.StatusBadRequest, rest.CalculationResult{
		UsedFallback:   true,
		FallbackReason: value.ReasonInvalidInput.String(),
		Error:          value.ReasonInvalidInput.Message("Invalid input"),
		Details: &rest.ValidationDetails{
			Received: received,
			Parsed:   parsed,
		},
	})
}

// coerceBaseValue принимает число или числовую строку ("12.50").
// NaN и бесконечности отвергаются наравне с мусором.
func coerceBaseValue(raw any) (float64, bool) {
	var parsed float64

	switch v := raw.(type) {
	case float64:
		parsed = v
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			return 0, false
		}
		parsed = f
	default:
		return 0, false
	}

	if math.IsNaN(parsed) || math.IsInf(parsed, 0) {
		return 0, false
	}

	return parsed, true
}
