package handler

import (
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/labelpay/labelpay/internal/adapter/http/dto"
	"github.com/labelpay/labelpay/internal/adapter/http/middleware"
	"github.com/labelpay/labelpay/internal/domain"
	"github.com/labelpay/labelpay/internal/usecase"
)

// TransactionHandler handles ledger read requests.
type TransactionHandler struct {
	ledgerUC *usecase.LedgerUseCase
}

// NewTransactionHandler creates a new TransactionHandler.
func NewTransactionHandler(ledgerUC *usecase.LedgerUseCase) *TransactionHandler {
	return &TransactionHandler{ledgerUC: ledgerUC}
}

// List lists ledger rows visible to the actor. Filters come from query
// parameters: accountIds (comma-separated), kind, from, to (RFC 3339),
// limit, offset.
func (h *TransactionHandler) List(w http.ResponseWriter, r *http.Request) {
	actor, _ := middleware.GetAccountFromContext(r.Context())

	filter := domain.TransactionFilter{
		Limit:  parseIntQuery(r, "limit", 20),
		Offset: parseIntQuery(r, "offset", 0),
	}

	if ids := r.URL.Query().Get("accountIds"); ids != "" {
		filter.AccountIDs = strings.Split(ids, ",")
	}

	if kind := r.URL.Query().Get("kind"); kind != "" {
		k := domain.TransactionKind(kind)
		if !k.IsValid() {
			writeError(w, http.StatusBadRequest, codeValidation, "unknown transaction kind")
			return
		}
		filter.Kind = &k
	}

	for key, dst := range map[string]**time.Time{"from": &filter.From, "to": &filter.To} {
		if raw := r.URL.Query().Get(key); raw != "" {
			t, err := time.Parse(time.RFC3339, raw)
			if err != nil {
				writeError(w, http.StatusBadRequest, codeValidation, key+" must be RFC 3339")
				return
			}
			*dst = &t
		}
	}

	txns, err := h.ledgerUC.ListTransactions(r.Context(), actor, filter)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.TransactionsFromDomain(txns))
}

// Get retrieves a single ledger row.
func (h *TransactionHandler) Get(w http.ResponseWriter, r *http.Request) {
	actor, _ := middleware.GetAccountFromContext(r.Context())

	id := chi.URLParam(r, "id")
	if id == "" {
		writeError(w, http.StatusBadRequest, codeValidation, "missing transaction ID")
		return
	}

	txn, err := h.ledgerUC.GetTransaction(r.Context(), actor, id)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.TransactionFromDomain(txn))
}
