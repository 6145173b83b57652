package server

import (
	"card_tradein/internal/domain/service/valuation"
	"card_tradein/pkg/rest"
)

func newRESTCalculationResult(result valuation.Result) rest.CalculationResult {
	return rest.CalculationResult{
		CashValue:      result.CashValue,
		TradeValue:     result.TradeValue,
		UsedFallback:   result.UsedFallback,
		FallbackReason: result.Reason.String(),
		Error:          result.ErrorMessage,
	}
}
