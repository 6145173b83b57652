// Данный файл должен быть сгенерирован из openapi спецификации и называться types.gen.go
package rest

// CalculateValueRequest — тело POST /calculate-value.
// BaseValue приходит числом или числовой строкой, коэрсит его хэндлер.
type CalculateValueRequest struct {
	Game      string `json:"game"`
	BaseValue any    `json:"baseValue"`
	UserID    string `json:"userId,omitempty"`
}

// CalculationResult — ответ расчёта выплат.
type CalculationResult struct {
	CashValue      float64            `json:"cashValue"`
	TradeValue     float64            `json:"tradeValue"`
	UsedFallback   bool               `json:"usedFallback"`
	FallbackReason string             `json:"fallbackReason,omitempty"`
	Error          string             `json:"error,omitempty"`
	Details        *ValidationDetails `json:"details,omitempty"`
}

// ZeroResult — короткий ответ для нулевой базовой цены.
type ZeroResult struct {
	CashValue  float64 `json:"cashValue"`
	TradeValue float64 `json:"tradeValue"`
}

// ValidationDetails — диагностика, что именно прислали и что распарсилось.
type ValidationDetails struct {
	Received any     `json:"received"`
	Parsed   float64 `json:"parsed"`
}

// ClearCacheRequest — тело POST /clear-settings-cache. Пустой game — сброс всего.
type ClearCacheRequest struct {
	Game string `json:"game,omitempty"`
}

type ClearCacheResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}
