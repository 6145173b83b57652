package value

// FallbackReason — код причины, по которой расчёт ушёл в fallback-ветку.
// Значения совпадают с контрактом фронтенда, менять без согласования нельзя.
type FallbackReason string

const (
	ReasonMethodNotAllowed  FallbackReason = "METHOD_NOT_ALLOWED"
	ReasonInvalidInput      FallbackReason = "INVALID_INPUT"
	ReasonNoSettingsFound   FallbackReason = "NO_SETTINGS_FOUND"
	ReasonNoPriceRangeMatch FallbackReason = "NO_PRICE_RANGE_MATCH"
	ReasonDatabaseError     FallbackReason = "DATABASE_ERROR"
	ReasonUnknownError      FallbackReason = "UNKNOWN_ERROR"
	ReasonCalculationFailed FallbackReason = "CALCULATION_FAILED"
	// ReasonAPIError эмитится только клиентом при сетевых сбоях,
	// сервер его не генерирует.
	ReasonAPIError FallbackReason = "API_ERROR"
)

func (r FallbackReason) String() string {
	return string(r)
}

//nolint:gochecknoglobals
var reasonMessages = map[FallbackReason]string{
	ReasonMethodNotAllowed:  "Method not allowed",
	ReasonInvalidInput:      "Base value must be a non-negative number",
	ReasonNoSettingsFound:   "No trade-in settings configured for this game, default percentages applied",
	ReasonNoPriceRangeMatch: "No price bracket covers this value, default percentages applied",
	ReasonDatabaseError:     "Could not read trade-in settings, default percentages applied",
	ReasonUnknownError:      "Calculation failed, default percentages applied",
	ReasonCalculationFailed: "Calculation failed",
}

// Message возвращает каноничный текст для кода причины.
// Для неизвестного кода отдаёт запасной текст, переданный вызывающим.
func (r FallbackReason) Message(fallbackText string) string {
	if msg, ok := reasonMessages[r]; ok {
		return msg
	}

	return fallbackText
}
