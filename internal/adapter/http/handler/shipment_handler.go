package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/labelpay/labelpay/internal/adapter/http/dto"
	"github.com/labelpay/labelpay/internal/adapter/http/middleware"
	"github.com/labelpay/labelpay/internal/usecase"
)

// ShipmentHandler handles rate quotes, label purchase and refund, and
// shipment reads.
type ShipmentHandler struct {
	labelUC *usecase.LabelUseCase
}

// NewShipmentHandler creates a new ShipmentHandler.
func NewShipmentHandler(labelUC *usecase.LabelUseCase) *ShipmentHandler {
	return &ShipmentHandler{labelUC: labelUC}
}

// GetRates returns carrier quotes for a from/to/parcel triple.
func (h *ShipmentHandler) GetRates(w http.ResponseWriter, r *http.Request) {
	actor, _ := middleware.GetAccountFromContext(r.Context())

	var req dto.GetRatesRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	rates, err := h.labelUC.GetRates(r.Context(), actor, req.AddressFrom.ToDomain(), req.AddressTo.ToDomain(), req.Parcel.ToDomain())
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.RatesFromDomain(rates))
}

// ValidateAddress asks the provider to validate an address.
func (h *ShipmentHandler) ValidateAddress(w http.ResponseWriter, r *http.Request) {
	actor, _ := middleware.GetAccountFromContext(r.Context())

	var req dto.ValidateAddressRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	validation, err := h.labelUC.ValidateAddress(r.Context(), actor, req.Address.ToDomain())
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.AddressValidationResponse{
		IsValid:  validation.IsValid,
		Messages: validation.Messages,
	})
}

// Purchase buys a label from a quoted rate and debits the actor.
func (h *ShipmentHandler) Purchase(w http.ResponseWriter, r *http.Request) {
	actor, _ := middleware.GetAccountFromContext(r.Context())

	var req dto.PurchaseLabelRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	result, err := h.labelUC.Purchase(r.Context(), actor, req.ToUseCaseInput())
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, dto.PurchaseResponse{
		Success:       true,
		Shipment:      dto.ShipmentFromDomain(result.Shipment),
		Transaction:   dto.TransactionFromDomain(result.Transaction),
		CreditBalance: result.CreditBalance,
	})
}

// Refund reverses a purchased label and credits its owner.
func (h *ShipmentHandler) Refund(w http.ResponseWriter, r *http.Request) {
	actor, _ := middleware.GetAccountFromContext(r.Context())

	var req dto.RefundLabelRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	result, err := h.labelUC.Refund(r.Context(), actor, req.TransactionID)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.RefundResponse{
		Success:       true,
		Shipment:      dto.ShipmentFromDomain(result.Shipment),
		Transaction:   dto.TransactionFromDomain(result.Transaction),
		CreditBalance: result.CreditBalance,
	})
}

// Get retrieves a shipment by ID.
func (h *ShipmentHandler) Get(w http.ResponseWriter, r *http.Request) {
	actor, _ := middleware.GetAccountFromContext(r.Context())

	id := chi.URLParam(r, "id")
	if id == "" {
		writeError(w, http.StatusBadRequest, codeValidation, "missing shipment ID")
		return
	}

	shipment, err := h.labelUC.GetShipment(r.Context(), actor, id)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.ShipmentFromDomain(shipment))
}

// List lists shipments visible to the actor.
func (h *ShipmentHandler) List(w http.ResponseWriter, r *http.Request) {
	actor, _ := middleware.GetAccountFromContext(r.Context())

	limit := parseIntQuery(r, "limit", 20)
	offset := parseIntQuery(r, "offset", 0)

	shipments, err := h.labelUC.ListShipments(r.Context(), actor, limit, offset)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.ShipmentsFromDomain(shipments))
}
