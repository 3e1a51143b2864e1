package middleware

import (
	"net/http"

	"videotube/internal/models"
	"videotube/internal/utils"

	"github.com/goccy/go-json"
	"github.com/rs/zerolog/log"
)

// WriteJSON encodes body with the given status.
func WriteJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		log.Error().Err(err).Msg("failed to encode response")
	}
}

// WriteSuccess writes the success envelope.
func WriteSuccess(w http.ResponseWriter, status int, data interface{}, message string) {
	WriteJSON(w, status, models.NewAPIResponse(status, data, message))
}

// WriteError writes the error envelope for err. Anything that is not an
// AppError is reported as an internal error without leaking its text.
func WriteError(w http.ResponseWriter, err error) {
	appErr := utils.AsAppError(err, "Internal server error")
	status := utils.AppErrorToHTTPStatus(appErr.Code)

	if status >= http.StatusInternalServerError && appErr.Origin != nil {
		log.Error().Err(appErr.Origin).Str("code", appErr.Code).Msg(appErr.Message)
	}
	WriteJSON(w, status, models.NewAPIError(status, appErr.Message, appErr.Details))
}
