package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/labelpay/labelpay/internal/adapter/http/dto"
	"github.com/labelpay/labelpay/internal/adapter/http/middleware"
	"github.com/labelpay/labelpay/internal/usecase"
)

// BatchHandler handles bulk label purchase requests.
type BatchHandler struct {
	batchUC *usecase.BatchUseCase
}

// NewBatchHandler creates a new BatchHandler.
func NewBatchHandler(batchUC *usecase.BatchUseCase) *BatchHandler {
	return &BatchHandler{batchUC: batchUC}
}

// Create runs a batch of label purchases. Rows fail independently; the
// response reports per-batch progress, not per-row errors.
func (h *BatchHandler) Create(w http.ResponseWriter, r *http.Request) {
	actor, _ := middleware.GetAccountFromContext(r.Context())

	var req dto.CreateBatchRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	batch, err := h.batchUC.CreateBatch(r.Context(), actor, req.ToUseCaseInput())
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, dto.BatchFromDomain(batch))
}

// List lists the actor's batches.
func (h *BatchHandler) List(w http.ResponseWriter, r *http.Request) {
	actor, _ := middleware.GetAccountFromContext(r.Context())

	limit := parseIntQuery(r, "limit", 20)
	offset := parseIntQuery(r, "offset", 0)

	batches, err := h.batchUC.ListBatches(r.Context(), actor, limit, offset)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.BatchesFromDomain(batches))
}

// Get retrieves a batch by ID.
func (h *BatchHandler) Get(w http.ResponseWriter, r *http.Request) {
	actor, _ := middleware.GetAccountFromContext(r.Context())

	id := chi.URLParam(r, "id")
	if id == "" {
		writeError(w, http.StatusBadRequest, codeValidation, "missing batch ID")
		return
	}

	batch, err := h.batchUC.GetBatch(r.Context(), actor, id)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.BatchFromDomain(batch))
}

// Cancel stops a processing batch. Rows already purchased stay
// purchased.
func (h *BatchHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	actor, _ := middleware.GetAccountFromContext(r.Context())

	id := chi.URLParam(r, "id")
	if id == "" {
		writeError(w, http.StatusBadRequest, codeValidation, "missing batch ID")
		return
	}

	batch, err := h.batchUC.Cancel(r.Context(), actor, id)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.BatchFromDomain(batch))
}

// ListShipments lists the shipments purchased under a batch.
func (h *BatchHandler) ListShipments(w http.ResponseWriter, r *http.Request) {
	actor, _ := middleware.GetAccountFromContext(r.Context())

	id := chi.URLParam(r, "id")
	if id == "" {
		writeError(w, http.StatusBadRequest, codeValidation, "missing batch ID")
		return
	}

	shipments, err := h.batchUC.ListBatchShipments(r.Context(), actor, id)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.ShipmentsFromDomain(shipments))
}
