package domain

import "time"

// TaskStatus is the outcome of a validation job, independent of the verdict's confidence.
type TaskStatus string

const (
	TaskStatusCompleted TaskStatus = "completed"
	TaskStatusFailed    TaskStatus = "failed"
)

// ValidationRecord is what gets persisted next to a receipt document.
type ValidationRecord struct {
	ValidationID string            `json:"validation_id"`
	ReceiptID    string            `json:"receipt_id"`
	PONumber     string            `json:"po_number"`
	ValidatedAt  time.Time         `json:"validated_at"`
	Results      ValidationVerdict `json:"results"`
}

// TaskResult is the summary handed back to whoever triggered a validation job.
type TaskResult struct {
	Status          TaskStatus      `json:"status"`
	ReceiptID       string          `json:"receipt_id"`
	PurchaseOrderID string          `json:"purchase_order_id"`
	ValidationID    string          `json:"validation_id,omitempty"`
	ValidationScore float64         `json:"validation_score"`
	NeedsReview     bool            `json:"needs_review"`
	ConfidenceLevel ConfidenceLevel `json:"confidence_level,omitempty"`
	Discrepancies   []Discrepancy   `json:"discrepancies"`
	FraudIndicators FraudIndicators `json:"fraud_indicators"`
	Error           string          `json:"error,omitempty"`
}

// ValidationPair names one receipt/purchase order pair for batch validation.
type ValidationPair struct {
	ReceiptID       string `json:"receipt_id"`
	PurchaseOrderID string `json:"purchase_order_id"`
}
