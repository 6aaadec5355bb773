package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/labelpay/labelpay/internal/adapter/http/dto"
	"github.com/labelpay/labelpay/internal/domain"
)

// Stable machine-readable error codes. Clients branch on these, never
// on message text.
const (
	codeAuth                = "AUTH_ERROR"
	codePermission          = "PERMISSION_ERROR"
	codeValidation          = "VALIDATION_ERROR"
	codeNotFound            = "NOT_FOUND"
	codeInsufficientBalance = "INSUFFICIENT_BALANCE"
	codeConflict            = "CONFLICT"
	codeExternalProvider    = "EXTERNAL_PROVIDER_ERROR"
	codeInternal            = "INTERNAL_ERROR"
)

// writeJSON writes a JSON response.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// writeError writes an error response.
func writeError(w http.ResponseWriter, status int, code, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(dto.ErrorResponse{
		Code:    code,
		Message: message,
	})
}

// writeDomainError maps err to its status and code and writes it.
func writeDomainError(w http.ResponseWriter, err error) {
	status, code := mapDomainError(err)
	message := err.Error()
	if status == http.StatusInternalServerError {
		// Internal detail stays in the logs.
		message = "internal error"
	}
	writeError(w, status, code, message)
}

// mapDomainError maps domain errors to an HTTP status and a stable
// error code.
func mapDomainError(err error) (int, string) {
	var permErr *domain.PermissionError
	if errors.As(err, &permErr) {
		if permErr.Reason == domain.DenyUnauthenticated {
			return http.StatusUnauthorized, codeAuth
		}
		return http.StatusForbidden, codePermission
	}

	switch {
	case errors.Is(err, domain.ErrUnauthenticated),
		errors.Is(err, domain.ErrInvalidToken),
		errors.Is(err, domain.ErrExpiredToken),
		errors.Is(err, domain.ErrInvalidCredentials):
		return http.StatusUnauthorized, codeAuth

	case errors.Is(err, domain.ErrAccountInactive):
		return http.StatusForbidden, codePermission

	case errors.Is(err, domain.ErrInsufficientBalance):
		return http.StatusBadRequest, codeInsufficientBalance

	case errors.Is(err, domain.ErrInvalidAmount),
		errors.Is(err, domain.ErrAmountExceedsMax),
		errors.Is(err, domain.ErrInvalidRole),
		errors.Is(err, domain.ErrSameAccount),
		errors.Is(err, domain.ErrRateNotFound):
		return http.StatusBadRequest, codeValidation

	case errors.Is(err, domain.ErrAccountNotFound),
		errors.Is(err, domain.ErrTransactionNotFound),
		errors.Is(err, domain.ErrShipmentNotFound),
		errors.Is(err, domain.ErrBatchNotFound):
		return http.StatusNotFound, codeNotFound

	case errors.Is(err, domain.ErrEmailTaken),
		errors.Is(err, domain.ErrAlreadyRefunded),
		errors.Is(err, domain.ErrShipmentNotRefundable),
		errors.Is(err, domain.ErrDuplicateReference),
		errors.Is(err, domain.ErrBatchNotActive):
		return http.StatusConflict, codeConflict

	case errors.Is(err, domain.ErrProviderUnavailable):
		return http.StatusBadGateway, codeExternalProvider

	default:
		return http.StatusInternalServerError, codeInternal
	}
}

// decodeAndValidate decodes the request body and runs struct
// validation. On failure it writes the error response and returns
// false.
func decodeAndValidate(w http.ResponseWriter, r *http.Request, req any) bool {
	if err := json.NewDecoder(r.Body).Decode(req); err != nil {
		writeError(w, http.StatusBadRequest, codeValidation, "invalid request body")
		return false
	}
	if err := dto.Validate(req); err != nil {
		writeError(w, http.StatusBadRequest, codeValidation, err.Error())
		return false
	}
	return true
}

// parseIntQuery parses an integer query parameter with a default value.
func parseIntQuery(r *http.Request, key string, defaultValue int) int {
	val := r.URL.Query().Get(key)
	if val == "" {
		return defaultValue
	}
	i, err := strconv.Atoi(val)
	if err != nil {
		return defaultValue
	}
	return i
}
