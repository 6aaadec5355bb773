package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/labelpay/labelpay/internal/adapter/http/dto"
	"github.com/labelpay/labelpay/internal/adapter/http/middleware"
	"github.com/labelpay/labelpay/internal/domain"
	"github.com/labelpay/labelpay/internal/usecase"
)

// ReconciliationHandler exposes balance-vs-ledger checks. Super admin
// only.
type ReconciliationHandler struct {
	reconciliationUC *usecase.ReconciliationUseCase
}

// NewReconciliationHandler creates a new ReconciliationHandler.
func NewReconciliationHandler(reconciliationUC *usecase.ReconciliationUseCase) *ReconciliationHandler {
	return &ReconciliationHandler{reconciliationUC: reconciliationUC}
}

func (h *ReconciliationHandler) requireSuperAdmin(w http.ResponseWriter, r *http.Request) bool {
	actor, ok := middleware.GetAccountFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, codeAuth, "authentication required")
		return false
	}
	if actor.Role != domain.RoleSuperAdmin {
		writeError(w, http.StatusForbidden, codePermission, "super admin only")
		return false
	}
	return true
}

// ReconcileAll checks every non-minting account.
func (h *ReconciliationHandler) ReconcileAll(w http.ResponseWriter, r *http.Request) {
	if !h.requireSuperAdmin(w, r) {
		return
	}

	results, err := h.reconciliationUC.ReconcileAllAccounts(r.Context())
	if err != nil {
		writeDomainError(w, err)
		return
	}

	responses := make([]*dto.ReconciliationResponse, len(results))
	for i, result := range results {
		responses[i] = dto.ReconciliationFromResult(result)
	}

	writeJSON(w, http.StatusOK, responses)
}

// ReconcileAccount checks a single account.
func (h *ReconciliationHandler) ReconcileAccount(w http.ResponseWriter, r *http.Request) {
	if !h.requireSuperAdmin(w, r) {
		return
	}

	id := chi.URLParam(r, "id")
	if id == "" {
		writeError(w, http.StatusBadRequest, codeValidation, "missing account ID")
		return
	}

	result, err := h.reconciliationUC.ReconcileAccount(r.Context(), id)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.ReconciliationFromResult(result))
}
