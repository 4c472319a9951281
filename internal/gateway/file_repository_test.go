package gateway

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"receipt-reconciliation/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeStoreFile(t *testing.T, root, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Join(root, dir), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(root, dir, name), []byte(content), 0o644))
}

func TestFileRepository_GetReceipt(t *testing.T) {
	root := t.TempDir()
	writeStoreFile(t, root, "receipts", "r-json.json", receiptJSON)
	writeStoreFile(t, root, "receipts", "r-yaml.yml", receiptYAML)
	writeStoreFile(t, root, "receipts", "r-bad.json", `{"vendor": 42}`)

	repo := NewFileRepository(root)
	ctx := context.Background()

	t.Run("json document", func(t *testing.T) {
		got, err := repo.GetReceipt(ctx, "r-json")
		require.NoError(t, err)
		assert.Equal(t, expectedReceipt(), got)
	})

	t.Run("yml document", func(t *testing.T) {
		got, err := repo.GetReceipt(ctx, "r-yaml")
		require.NoError(t, err)
		assert.Equal(t, expectedReceipt(), got)
	})

	t.Run("not found", func(t *testing.T) {
		_, err := repo.GetReceipt(ctx, "missing")
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})

	t.Run("structurally invalid", func(t *testing.T) {
		_, err := repo.GetReceipt(ctx, "r-bad")
		var invalid *domain.InvalidInputError
		assert.True(t, errors.As(err, &invalid))
	})

	t.Run("path traversal rejected", func(t *testing.T) {
		_, err := repo.GetReceipt(ctx, "../receipts/r-json")
		var invalid *domain.InvalidInputError
		assert.True(t, errors.As(err, &invalid))
	})

	t.Run("cancelled context", func(t *testing.T) {
		cancelled, cancel := context.WithCancel(ctx)
		cancel()
		_, err := repo.GetReceipt(cancelled, "r-json")
		assert.ErrorIs(t, err, context.Canceled)
	})
}

func TestFileRepository_GetPurchaseOrder(t *testing.T) {
	root := t.TempDir()
	writeStoreFile(t, root, "purchase_orders", "po-csv.csv", strings.Join([]string{
		strings.Join(poHeader, ","),
		"PO-9,Acme,2024-02-01,Mouse,2,25.00,50.00",
	}, "\n"))
	writeStoreFile(t, root, "purchase_orders", "po-json.json", `{"po_number": "PO-10", "items": []}`)

	repo := NewFileRepository(root)
	ctx := context.Background()

	got, err := repo.GetPurchaseOrder(ctx, "po-csv")
	require.NoError(t, err)
	assert.Equal(t, "PO-9", got.PONumber)
	assert.Equal(t, []domain.PurchaseOrderItem{{Name: "Mouse", Quantity: 2, UnitPrice: 25}}, got.Items)

	got, err = repo.GetPurchaseOrder(ctx, "po-json")
	require.NoError(t, err)
	assert.Equal(t, "PO-10", got.PONumber)
	assert.Empty(t, got.Items)

	_, err = repo.GetPurchaseOrder(ctx, "po-missing")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestFileRepository_Validations(t *testing.T) {
	repo := NewFileRepository(t.TempDir())
	ctx := context.Background()

	_, err := repo.GetValidation(ctx, "r-1")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	first := domain.ValidationRecord{
		ValidationID: "v-1",
		ReceiptID:    "r-1",
		PONumber:     "PO-1",
		ValidatedAt:  time.Date(2024, 1, 15, 10, 0, 0, 0, time.UTC),
		Results: domain.ValidationVerdict{
			OverallScore:    0.95,
			ConfidenceLevel: domain.ConfidenceHigh,
			Flags:           domain.NewFlags(),
		},
	}
	require.NoError(t, repo.SaveValidation(ctx, "r-1", first))

	got, err := repo.GetValidation(ctx, "r-1")
	require.NoError(t, err)
	assert.Equal(t, first.ValidationID, got.ValidationID)
	assert.Equal(t, first.PONumber, got.PONumber)
	assert.True(t, first.ValidatedAt.Equal(got.ValidatedAt))
	assert.Equal(t, 0.95, got.Results.OverallScore)

	second := first
	second.ValidationID = "v-2"
	second.PONumber = "PO-2"
	require.NoError(t, repo.SaveValidation(ctx, "r-1", second))

	got, err = repo.GetValidation(ctx, "r-1")
	require.NoError(t, err)
	assert.Equal(t, "v-2", got.ValidationID)
	assert.Equal(t, "PO-2", got.PONumber)

	entries, err := os.ReadDir(filepath.Join(repo.root, "validations"))
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temporary files must not be left behind")
}
