package handler

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/labelpay/labelpay/internal/adapter/http/dto"
	"github.com/labelpay/labelpay/internal/adapter/http/middleware"
	"github.com/labelpay/labelpay/internal/domain"
	"github.com/labelpay/labelpay/internal/usecase"
)

// AccountService defines the behavior needed by AccountHandler.
type AccountService interface {
	CreateAccount(ctx context.Context, actor *domain.Account, input usecase.CreateAccountInput) (*domain.Account, error)
	GetAccount(ctx context.Context, actor *domain.Account, id string) (*domain.Account, error)
	ListAccounts(ctx context.Context, actor *domain.Account, limit, offset int) ([]*domain.Account, error)
	ResetPassword(ctx context.Context, actor *domain.Account, targetID, newPassword string) error
}

// AccountHandler handles account-related HTTP requests.
type AccountHandler struct {
	accountUC AccountService
}

// NewAccountHandler creates a new AccountHandler.
func NewAccountHandler(accountUC AccountService) *AccountHandler {
	return &AccountHandler{accountUC: accountUC}
}

// Create creates a new account under the authenticated actor.
func (h *AccountHandler) Create(w http.ResponseWriter, r *http.Request) {
	actor, _ := middleware.GetAccountFromContext(r.Context())

	var req dto.CreateAccountRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	account, err := h.accountUC.CreateAccount(r.Context(), actor, req.ToUseCaseInput())
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, dto.AccountFromDomain(account))
}

// Get retrieves an account by ID.
func (h *AccountHandler) Get(w http.ResponseWriter, r *http.Request) {
	actor, _ := middleware.GetAccountFromContext(r.Context())

	id := chi.URLParam(r, "id")
	if id == "" {
		writeError(w, http.StatusBadRequest, codeValidation, "missing account ID")
		return
	}

	account, err := h.accountUC.GetAccount(r.Context(), actor, id)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.AccountFromDomain(account))
}

// Me returns the authenticated account.
func (h *AccountHandler) Me(w http.ResponseWriter, r *http.Request) {
	actor, ok := middleware.GetAccountFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, codeAuth, "authentication required")
		return
	}

	writeJSON(w, http.StatusOK, dto.AccountFromDomain(actor))
}

// List lists the accounts visible to the actor.
func (h *AccountHandler) List(w http.ResponseWriter, r *http.Request) {
	actor, _ := middleware.GetAccountFromContext(r.Context())

	limit := parseIntQuery(r, "limit", 20)
	offset := parseIntQuery(r, "offset", 0)

	accounts, err := h.accountUC.ListAccounts(r.Context(), actor, limit, offset)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.AccountsFromDomain(accounts))
}

// ResetPassword sets a new password on the target account.
func (h *AccountHandler) ResetPassword(w http.ResponseWriter, r *http.Request) {
	actor, _ := middleware.GetAccountFromContext(r.Context())

	id := chi.URLParam(r, "id")
	if id == "" {
		writeError(w, http.StatusBadRequest, codeValidation, "missing account ID")
		return
	}

	var req dto.ResetPasswordRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	if err := h.accountUC.ResetPassword(r.Context(), actor, id, req.NewPassword); err != nil {
		writeDomainError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
