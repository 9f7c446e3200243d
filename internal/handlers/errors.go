package handlers

import (
	"errors"
	"net/http"

	"github.com/shopbill/billing-app/internal/httpx"
	"github.com/shopbill/billing-app/internal/services"

	"github.com/rs/zerolog/log"
)

// writeServiceError maps domain failures onto HTTP statuses. Unexpected
// errors are logged with detail but reported generically.
func writeServiceError(w http.ResponseWriter, err error) {
	var ve *services.ValidationError
	if errors.As(err, &ve) {
		httpx.JSONError(w, http.StatusBadRequest, "validation_failed", ve.Violations)
		return
	}
	var nfe *services.NotFoundError
	if errors.As(err, &nfe) {
		httpx.JSONError(w, http.StatusNotFound, "not_found", map[string]any{"entity": nfe.Entity, "id": nfe.ID})
		return
	}
	var ise *services.InsufficientStockError
	if errors.As(err, &ise) {
		httpx.JSONError(w, http.StatusConflict, "insufficient_stock", map[string]any{
			"item":      ise.ItemName,
			"available": ise.Available,
			"requested": ise.Requested,
		})
		return
	}
	switch {
	case errors.Is(err, services.ErrInvalidTransition):
		httpx.JSONError(w, http.StatusConflict, "invalid_status_transition", nil)
	case errors.Is(err, services.ErrItemReferenced):
		httpx.JSONError(w, http.StatusConflict, "item_referenced_by_invoice", nil)
	case errors.Is(err, services.ErrConflictRetryable):
		httpx.JSONError(w, http.StatusServiceUnavailable, "conflict_retry_later", nil)
	default:
		log.Error().Err(err).Msg("internal error")
		httpx.JSONError(w, http.StatusInternalServerError, "internal_error", nil)
	}
}
