package gateway

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"receipt-reconciliation/internal/domain"
)

const (
	receiptsDir       = "receipts"
	purchaseOrdersDir = "purchase_orders"
	validationsDir    = "validations"
)

var (
	receiptExtensions       = []string{".json", ".yaml", ".yml"}
	purchaseOrderExtensions = []string{".json", ".yaml", ".yml", ".csv"}
)

// FileRepository stores documents and validation results under a root directory:
//
//	<root>/receipts/<id>.{json,yaml,yml}
//	<root>/purchase_orders/<id>.{json,yaml,yml,csv}
//	<root>/validations/<receipt id>.json
type FileRepository struct {
	root string
}

// NewFileRepository creates a repository rooted at dir.
func NewFileRepository(dir string) *FileRepository {
	return &FileRepository{root: dir}
}

// GetReceipt loads the receipt stored under id.
func (r *FileRepository) GetReceipt(ctx context.Context, id string) (domain.ReceiptRecord, error) {
	if err := ctx.Err(); err != nil {
		return domain.ReceiptRecord{}, err
	}
	path, err := r.locate(receiptsDir, id, receiptExtensions)
	if err != nil {
		return domain.ReceiptRecord{}, fmt.Errorf("receipt %s: %w", id, err)
	}
	return ReadReceiptFile(path)
}

// GetPurchaseOrder loads the purchase order stored under id.
func (r *FileRepository) GetPurchaseOrder(ctx context.Context, id string) (domain.PurchaseOrderRecord, error) {
	if err := ctx.Err(); err != nil {
		return domain.PurchaseOrderRecord{}, err
	}
	path, err := r.locate(purchaseOrdersDir, id, purchaseOrderExtensions)
	if err != nil {
		return domain.PurchaseOrderRecord{}, fmt.Errorf("purchase order %s: %w", id, err)
	}
	return ReadPurchaseOrderFile(path)
}

// SaveValidation replaces the stored validation result of a receipt.
// The file is written to a temporary name and renamed so readers never see a partial result.
func (r *FileRepository) SaveValidation(ctx context.Context, receiptID string, record domain.ValidationRecord) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := checkID(receiptID); err != nil {
		return err
	}

	dir := filepath.Join(r.root, validationsDir)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create validations directory: %w", err)
	}

	data, err := json.MarshalIndent(record, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode validation for receipt %s: %w", receiptID, err)
	}

	tmp, err := os.CreateTemp(dir, receiptID+".*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temp file for receipt %s: %w", receiptID, err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write validation for receipt %s: %w", receiptID, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to write validation for receipt %s: %w", receiptID, err)
	}
	if err := os.Rename(tmp.Name(), filepath.Join(dir, receiptID+".json")); err != nil {
		return fmt.Errorf("failed to store validation for receipt %s: %w", receiptID, err)
	}
	return nil
}

// GetValidation returns the last stored validation result of a receipt.
func (r *FileRepository) GetValidation(ctx context.Context, receiptID string) (domain.ValidationRecord, error) {
	if err := ctx.Err(); err != nil {
		return domain.ValidationRecord{}, err
	}
	if err := checkID(receiptID); err != nil {
		return domain.ValidationRecord{}, err
	}

	data, err := os.ReadFile(filepath.Join(r.root, validationsDir, receiptID+".json"))
	if errors.Is(err, fs.ErrNotExist) {
		return domain.ValidationRecord{}, fmt.Errorf("validation for receipt %s: %w", receiptID, domain.ErrNotFound)
	}
	if err != nil {
		return domain.ValidationRecord{}, fmt.Errorf("failed to read validation for receipt %s: %w", receiptID, err)
	}

	var record domain.ValidationRecord
	if err := json.Unmarshal(data, &record); err != nil {
		return domain.ValidationRecord{}, fmt.Errorf("failed to decode validation for receipt %s: %w", receiptID, err)
	}
	return record, nil
}

func (r *FileRepository) locate(dir, id string, extensions []string) (string, error) {
	if err := checkID(id); err != nil {
		return "", err
	}
	base := filepath.Join(r.root, dir, id)
	for _, ext := range extensions {
		path := base + ext
		if _, err := os.Stat(path); err == nil {
			return path, nil
		} else if !errors.Is(err, fs.ErrNotExist) {
			return "", fmt.Errorf("failed to stat %s: %w", path, err)
		}
	}
	return "", domain.ErrNotFound
}

// checkID rejects ids that would escape the store directory.
func checkID(id string) error {
	if id == "" || id == "." || id == ".." || strings.ContainsAny(id, `/\`) {
		return &domain.InvalidInputError{Document: "document id", Reason: fmt.Sprintf("invalid id %q", id)}
	}
	return nil
}
