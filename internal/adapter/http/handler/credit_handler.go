package handler

import (
	"context"
	"net/http"

	"github.com/labelpay/labelpay/internal/adapter/http/dto"
	"github.com/labelpay/labelpay/internal/adapter/http/middleware"
	"github.com/labelpay/labelpay/internal/domain"
	"github.com/labelpay/labelpay/internal/usecase"
)

// CreditService defines the behavior needed by CreditHandler.
type CreditService interface {
	Assign(ctx context.Context, actor *domain.Account, input usecase.CreditInput) (*usecase.CreditResult, error)
	Revoke(ctx context.Context, actor *domain.Account, input usecase.CreditInput) (*usecase.CreditResult, error)
}

// CreditHandler handles credit assign and revoke requests.
type CreditHandler struct {
	creditUC CreditService
	retrier  usecase.Retrier
}

// NewCreditHandler creates a new CreditHandler.
func NewCreditHandler(creditUC CreditService, retrier usecase.Retrier) *CreditHandler {
	return &CreditHandler{creditUC: creditUC, retrier: retrier}
}

// Assign moves credit from the actor to the target account.
func (h *CreditHandler) Assign(w http.ResponseWriter, r *http.Request) {
	actor, _ := middleware.GetAccountFromContext(r.Context())

	var req dto.CreditRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	// Concurrent assigns against the same pair can deadlock or fail
	// serialization; the whole transaction is retried, not a statement.
	var result *usecase.CreditResult
	err := h.retrier.Retry(r.Context(), func() error {
		var opErr error
		result, opErr = h.creditUC.Assign(r.Context(), actor, req.ToUseCaseInput())
		return opErr
	})
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.CreditFromResult(result))
}

// Revoke moves credit from the target account back to the actor.
func (h *CreditHandler) Revoke(w http.ResponseWriter, r *http.Request) {
	actor, _ := middleware.GetAccountFromContext(r.Context())

	var req dto.CreditRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	var result *usecase.CreditResult
	err := h.retrier.Retry(r.Context(), func() error {
		var opErr error
		result, opErr = h.creditUC.Revoke(r.Context(), actor, req.ToUseCaseInput())
		return opErr
	})
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.CreditFromResult(result))
}
