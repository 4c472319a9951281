package usecase

import (
	"context"

	"receipt-reconciliation/internal/domain"
)

// DocumentRepository defines how the usecase reads documents and stores validation results.
// The usecase layer depends on this interface, not on a concrete implementation.
//
//go:generate mockgen -destination=mocks/mock_repository.go -source=interface.go DocumentRepository
type DocumentRepository interface {
	GetReceipt(ctx context.Context, id string) (domain.ReceiptRecord, error)
	GetPurchaseOrder(ctx context.Context, id string) (domain.PurchaseOrderRecord, error)
	SaveValidation(ctx context.Context, receiptID string, record domain.ValidationRecord) error
	GetValidation(ctx context.Context, receiptID string) (domain.ValidationRecord, error)
}
