package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"receipt-reconciliation/internal/domain"
	"receipt-reconciliation/internal/engine"
	"receipt-reconciliation/internal/gateway"
)

const maxBodyBytes = 1 << 20

// ReceiptValidator is the usecase surface the API exposes.
type ReceiptValidator interface {
	ValidateReceipt(ctx context.Context, receiptID, poID string) (domain.TaskResult, error)
	LatestValidation(ctx context.Context, receiptID string) (domain.ValidationRecord, error)
}

// Handler serves the validation endpoints.
type Handler struct {
	validator ReceiptValidator
	engine    *engine.Engine
}

// NewHandler creates a Handler backed by the validation usecase and engine.
func NewHandler(validator ReceiptValidator, eng *engine.Engine) *Handler {
	return &Handler{
		validator: validator,
		engine:    eng,
	}
}

type validateRequest struct {
	Receipt       json.RawMessage `json:"receipt"`
	PurchaseOrder json.RawMessage `json:"purchase_order"`
}

type runValidationRequest struct {
	PurchaseOrderID string `json:"purchase_order_id"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// Validate runs the engine on two documents posted inline. Nothing is stored.
func (h *Handler) Validate(w http.ResponseWriter, r *http.Request) {
	var req validateRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&req); err != nil {
		writeError(w, r, http.StatusBadRequest, err)
		return
	}

	var receipt domain.ReceiptRecord
	if len(req.Receipt) > 0 {
		var err error
		if receipt, err = gateway.DecodeReceipt(req.Receipt, gateway.FormatJSON); err != nil {
			writeDomainError(w, r, err)
			return
		}
	}
	var po domain.PurchaseOrderRecord
	if len(req.PurchaseOrder) > 0 {
		var err error
		if po, err = gateway.DecodePurchaseOrder(req.PurchaseOrder, gateway.FormatJSON); err != nil {
			writeDomainError(w, r, err)
			return
		}
	}

	writeJSON(w, r, http.StatusOK, h.engine.Validate(receipt, po))
}

// RunValidation validates a stored receipt against a stored purchase order and keeps the result.
func (h *Handler) RunValidation(w http.ResponseWriter, r *http.Request) {
	receiptID := chi.URLParam(r, "receiptID")

	var req runValidationRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&req); err != nil {
		writeError(w, r, http.StatusBadRequest, err)
		return
	}
	if req.PurchaseOrderID == "" {
		writeError(w, r, http.StatusBadRequest, errors.New("purchase_order_id is required"))
		return
	}

	result, err := h.validator.ValidateReceipt(r.Context(), receiptID, req.PurchaseOrderID)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}

	status := http.StatusOK
	if result.Status == domain.TaskStatusFailed {
		status = http.StatusUnprocessableEntity
	}
	writeJSON(w, r, status, result)
}

// GetValidation returns the stored validation of a receipt.
func (h *Handler) GetValidation(w http.ResponseWriter, r *http.Request) {
	receiptID := chi.URLParam(r, "receiptID")

	record, err := h.validator.LatestValidation(r.Context(), receiptID)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, record)
}

// Health reports liveness.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, r, http.StatusOK, map[string]string{"status": "ok"})
}

func writeDomainError(w http.ResponseWriter, r *http.Request, err error) {
	var invalid *domain.InvalidInputError
	switch {
	case errors.As(err, &invalid):
		writeError(w, r, http.StatusBadRequest, err)
	case errors.Is(err, domain.ErrNotFound):
		writeError(w, r, http.StatusNotFound, err)
	default:
		zerolog.Ctx(r.Context()).Error().Err(err).Msg("request failed")
		writeError(w, r, http.StatusInternalServerError, errors.New("internal error"))
	}
}

func writeError(w http.ResponseWriter, r *http.Request, status int, err error) {
	writeJSON(w, r, status, errorResponse{Error: err.Error()})
}

func writeJSON(w http.ResponseWriter, r *http.Request, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		zerolog.Ctx(r.Context()).Error().
			Err(err).
			Int("status", status).
			Msg("failed to encode response")
	}
}
