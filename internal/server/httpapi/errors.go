package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/dmitrijs2005/talentbridge/internal/common"
)

const (
	codeValidation  = "validation_error"
	codeConflict    = "conflict"
	codeUnauth      = "unauthorized"
	codeForbidden   = "forbidden"
	codeInvalidOTP  = "invalid_otp"
	codeNotFound    = "not_found"
	codeUnavailable = "service_unavailable"
	codeInternal    = "internal_error"
)

type errorResponse struct {
	Error   string            `json:"error"`
	Message string            `json:"message"`
	Fields  map[string]string `json:"fields,omitempty"`
}

// classify maps a service error to a status code and a stable error code.
func classify(err error) (int, string) {
	switch {
	case errors.Is(err, common.ErrValidation):
		return http.StatusBadRequest, codeValidation
	case errors.Is(err, common.ErrConflict):
		return http.StatusConflict, codeConflict
	case errors.Is(err, common.ErrorUnauthorized), errors.Is(err, common.ErrInvalidToken):
		return http.StatusUnauthorized, codeUnauth
	case errors.Is(err, common.ErrForbidden):
		return http.StatusForbidden, codeForbidden
	case errors.Is(err, common.ErrOTP):
		return http.StatusBadRequest, codeInvalidOTP
	case errors.Is(err, common.ErrorNotFound):
		return http.StatusNotFound, codeNotFound
	case errors.Is(err, common.ErrStoreUnavailable), errors.Is(err, common.ErrQueueUnavailable):
		return http.StatusServiceUnavailable, codeUnavailable
	default:
		return http.StatusInternalServerError, codeInternal
	}
}

// publicMessage never echoes infrastructure details.
func publicMessage(err error, status int) string {
	switch {
	case errors.Is(err, common.ErrNotVerified):
		return "please verify your email"
	case errors.Is(err, common.ErrTokenExpired):
		return "session expired"
	case status == http.StatusServiceUnavailable:
		return "service temporarily unavailable, try again later"
	case status >= http.StatusInternalServerError:
		return "internal error"
	}
	return err.Error()
}

func writeServiceError(w http.ResponseWriter, err error) {
	status, code := classify(err)
	resp := errorResponse{Error: code, Message: publicMessage(err, status)}

	var verr *common.ValidationError
	if errors.As(err, &verr) {
		resp.Message = "invalid input"
		resp.Fields = verr.Fields
	}

	writeJSON(w, status, resp)
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, errorResponse{Error: code, Message: message})
}

// decodeJSON reads at most maxJSONBody bytes of r into out.
func decodeJSON(w http.ResponseWriter, r *http.Request, out interface{}) error {
	decoder := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxJSONBody))
	decoder.DisallowUnknownFields()
	return decoder.Decode(out)
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
