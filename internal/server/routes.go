package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"card_tradein/internal/domain/value"
	"card_tradein/pkg/httpx/reply"
	"card_tradein/pkg/rest"
)

func (s Server) RegisterRoutes(r chi.Router) {
	// Контракт фронтенда: не-POST отвечает 405, но телом в форме fallback,
	// чтобы UI всегда имел числовые cashValue/tradeValue.
	r.MethodNotAllowed(methodNotAllowed)

	r.Post("/calculate-value", handler(s.postCalculateValue))
	r.Post("/clear-settings-cache", handler(s.postClearSettingsCache))
}

func handler(f func(http.ResponseWriter, *http.Request) error) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := f(w, r); err != nil {
			reply.Error(r.Context(), w, err)
		}
	}
}

func methodNotAllowed(w http.ResponseWriter, r *http.Request) {
	reply.JSON(r.Context(), w, http.StatusMethodNotAllowed, rest.CalculationResult{
		UsedFallback:   true,
		FallbackReason: value.ReasonMethodNotAllowed.String(),
		Error:          value.ReasonMethodNotAllowed.Message("Method not allowed"),
	})
}
