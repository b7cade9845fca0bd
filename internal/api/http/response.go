package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"

	"cardapio-virtual/internal/apierr"
	"cardapio-virtual/internal/domain"
	"cardapio-virtual/internal/logging"
)

type successResponse struct {
	Status  string `json:"status"`
	Data    any    `json:"data"`
	Message string `json:"message"`
}

func writeSuccess(w http.ResponseWriter, data any, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_ = json.NewEncoder(w).Encode(successResponse{Status: "success", Data: data, Message: message})
}

// writeError maps a service error onto the error envelope. notFound and
// badRequest are the messages used for the 404 and 400 cases.
func writeError(w http.ResponseWriter, r *http.Request, err error, notFound, badRequest string) {
	var missing *domain.MissingItemsError
	var apiErr *apierr.Error

	switch {
	case errors.As(err, &apiErr):
		apierr.Write(w, apiErr)
	case errors.As(err, &missing):
		apierr.Write(w, apierr.BadRequest(badRequest).WithData(map[string]any{"itens_inexistentes": missing.IDs}))
	case errors.Is(err, domain.ErrItemInUse):
		apierr.Write(w, apierr.Conflict("O item está presente em pedidos e não pode ser deletado."))
	case errors.Is(err, domain.ErrInvalidItem),
		errors.Is(err, domain.ErrInvalidOrder),
		errors.Is(err, domain.ErrInvalidStatus):
		e := apierr.BadRequest(badRequest)
		e.Description = err.Error()
		apierr.Write(w, e)
	case errors.Is(err, domain.ErrItemNotFound), errors.Is(err, domain.ErrOrderNotFound):
		apierr.Write(w, apierr.NotFound(notFound))
	default:
		logging.FromContext(r.Context()).WithError(err).Error("request failed")
		apierr.Write(w, apierr.Internal())
	}
}
