package engine_test

import (
	"testing"

	"receipt-reconciliation/internal/domain"
	"receipt-reconciliation/internal/engine"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func techSolutionsReceipt() domain.ReceiptRecord {
	return domain.ReceiptRecord{
		Vendor: domain.ReceiptVendor{
			Name:  "Tech Solutions Inc",
			Email: "sales@techsolutions.com",
		},
		Items: []domain.ReceiptItem{
			{Description: "Dell Laptop", Quantity: 2, UnitPrice: 1200.00},
			{Description: "Wireless Mouse", Quantity: 2, UnitPrice: 30.00},
		},
		Totals: domain.ReceiptTotals{
			Subtotal: domain.Amount(2460.00),
			Tax:      domain.Amount(196.80),
			Total:    domain.Amount(2656.80),
		},
		Transaction: domain.ReceiptTransaction{
			Date:          "2024-01-15",
			TransactionID: "TXN123456",
		},
	}
}

func techSolutionsPO() domain.PurchaseOrderRecord {
	return domain.PurchaseOrderRecord{
		PONumber: "PO-2024000001123",
		Vendor:   domain.PurchaseOrderVendor{Name: "Tech Solutions Inc"},
		Items: []domain.PurchaseOrderItem{
			{Name: "Dell Laptop", Quantity: 2, UnitPrice: 1200.00},
			{Name: "Wireless Mouse", Quantity: 2, UnitPrice: 30.00},
		},
		Totals: domain.PurchaseOrderTotals{Total: domain.Amount(2656.80)},
	}
}

func TestEngine_Validate_PerfectMatch(t *testing.T) {
	e := engine.Default()

	got := e.Validate(techSolutionsReceipt(), techSolutionsPO())

	assert.GreaterOrEqual(t, got.OverallScore, 0.9)
	assert.GreaterOrEqual(t, got.VendorMatch, 0.9)
	assert.GreaterOrEqual(t, got.TotalMatch, 0.9)
	assert.GreaterOrEqual(t, got.ItemsMatch, 0.9)
	assert.Equal(t, domain.ConfidenceHigh, got.ConfidenceLevel)
	assert.Empty(t, got.Discrepancies)
	assert.Empty(t, got.Flags)
	assert.Empty(t, got.FraudIndicators)
	assert.False(t, got.NeedsReview())
}

func TestEngine_Validate_WithDiscrepancies(t *testing.T) {
	e := engine.Default()

	receipt := techSolutionsReceipt()
	receipt.Vendor.Name = "Different Vendor Corp"
	receipt.Totals.Total = domain.Amount(3000.00)
	receipt.Items = append(receipt.Items, domain.ReceiptItem{
		Description: "Extra Item", Quantity: 1, UnitPrice: 100.00,
	})

	got := e.Validate(receipt, techSolutionsPO())

	assert.Less(t, got.OverallScore, 0.7)
	assert.GreaterOrEqual(t, len(got.Discrepancies), 2)
	assert.True(t, got.Flags.Has(domain.FlagRequiresManualReview))
	assert.True(t, got.Flags.Has(domain.FlagVendorMajorMismatch))
	assert.Equal(t, domain.ConfidenceLow, got.ConfidenceLevel)
	assert.True(t, got.FraudIndicators.Has(domain.FraudSuspiciousVendorMismatch))
	assert.True(t, got.FraudIndicators.Has(domain.FraudSuspiciousTotalArithmetic))

	var types []domain.DiscrepancyType
	for _, d := range got.Discrepancies {
		types = append(types, d.Type)
	}
	assert.Equal(t, []domain.DiscrepancyType{
		domain.DiscrepancyVendorMismatch,
		domain.DiscrepancyTotalMismatch,
		domain.DiscrepancyItemsMismatch,
		domain.DiscrepancyExtraItem,
	}, types)
	assert.Equal(t, domain.SeverityHigh, got.Discrepancies[0].Severity)
}

func TestEngine_Validate_DifferentVendorAndProducts(t *testing.T) {
	e := engine.Default()

	receipt := domain.ReceiptRecord{
		Vendor: domain.ReceiptVendor{Name: "Different Vendor Corp"},
		Items: []domain.ReceiptItem{
			{Description: "Different Product", Quantity: 1, UnitPrice: 1200.00},
		},
		Totals:      domain.ReceiptTotals{Total: domain.Amount(1200.00)},
		Transaction: domain.ReceiptTransaction{Date: "2024-11-20"},
	}
	po := domain.PurchaseOrderRecord{
		PONumber: "PO-TEST-001",
		Vendor:   domain.PurchaseOrderVendor{Name: "Test Vendor Inc"},
		Items: []domain.PurchaseOrderItem{
			{Name: "Test Product A", Quantity: 2, UnitPrice: 300.00},
			{Name: "Test Product B", Quantity: 1, UnitPrice: 400.00},
		},
		Totals: domain.PurchaseOrderTotals{Total: domain.Amount(1000.00)},
	}

	got := e.Validate(receipt, po)

	assert.Less(t, got.OverallScore, 0.6)
	assert.True(t, got.NeedsReview())
	assert.NotEmpty(t, got.Discrepancies)
	assert.Equal(t, 0, got.ValidationDetails.Items.MatchedCount)
	assert.Len(t, got.ValidationDetails.Items.MissingItems, 2)
}

func TestEngine_Validate_EmptyRecords(t *testing.T) {
	e := engine.Default()

	got := e.Validate(domain.ReceiptRecord{}, domain.PurchaseOrderRecord{})

	assert.GreaterOrEqual(t, got.OverallScore, 0.0)
	assert.LessOrEqual(t, got.OverallScore, 1.0)
	assert.Equal(t, 0.0, got.VendorMatch)
	assert.Equal(t, 0.0, got.TotalMatch)
	assert.Equal(t, 0.0, got.ItemsMatch)
	assert.Equal(t, domain.ConfidenceLow, got.ConfidenceLevel)
	assert.True(t, got.Flags.Has(domain.FlagIncompleteReceipt))
	assert.True(t, got.NeedsReview())
	assert.NotNil(t, got.Discrepancies)
}

func TestEngine_Validate_EdgeCases(t *testing.T) {
	e := engine.Default()

	t.Run("missing vendor on receipt", func(t *testing.T) {
		got := e.Validate(
			domain.ReceiptRecord{Totals: domain.ReceiptTotals{Total: domain.Amount(100)}},
			domain.PurchaseOrderRecord{
				Vendor: domain.PurchaseOrderVendor{Name: "Test Vendor"},
				Totals: domain.PurchaseOrderTotals{Total: domain.Amount(100)},
			},
		)
		assert.Equal(t, 0.0, got.VendorMatch)
		assert.Equal(t, 1.0, got.TotalMatch)
		assert.True(t, got.FraudIndicators.Has(domain.FraudSuspiciousVendorMismatch))
		assert.True(t, got.Flags.Has(domain.FlagVendorMajorMismatch))
	})

	t.Run("zero receipt total", func(t *testing.T) {
		got := e.Validate(
			domain.ReceiptRecord{
				Vendor: domain.ReceiptVendor{Name: "Test"},
				Totals: domain.ReceiptTotals{Total: domain.Amount(0)},
			},
			domain.PurchaseOrderRecord{
				Vendor: domain.PurchaseOrderVendor{Name: "Test"},
				Totals: domain.PurchaseOrderTotals{Total: domain.Amount(100)},
			},
		)
		assert.Equal(t, 0.0, got.TotalMatch)
		assert.True(t, got.Flags.Has(domain.FlagTotalMajorMismatch))
	})
}

func TestEngine_Validate_Deterministic(t *testing.T) {
	e := engine.Default()
	receipt := techSolutionsReceipt()
	receipt.Items = append(receipt.Items, domain.ReceiptItem{Description: "Cable", Quantity: 3, UnitPrice: 9.99})
	po := techSolutionsPO()
	po.OrderDate = "2024-01-02"

	first := e.Validate(receipt, po)
	second := e.Validate(receipt, po)

	assert.Equal(t, first, second)
}

func TestEngine_Validate_ScoresInRange(t *testing.T) {
	e := engine.Default()

	receipts := []domain.ReceiptRecord{
		{},
		techSolutionsReceipt(),
		{
			Vendor: domain.ReceiptVendor{Name: "Tech Solutions", Phone: "555 123 4567"},
			Items: []domain.ReceiptItem{
				{Description: "dell laptop", Quantity: 20, UnitPrice: 12000},
				{Description: "", Quantity: -1, UnitPrice: -5},
			},
			Totals:      domain.ReceiptTotals{Total: domain.Amount(-10)},
			Transaction: domain.ReceiptTransaction{Date: "2019-01-01"},
		},
	}
	pos := []domain.PurchaseOrderRecord{
		{},
		techSolutionsPO(),
		{
			Vendor:    domain.PurchaseOrderVendor{Name: "Tech Solutions Inc", Phone: "(555) 123-4567"},
			Totals:    domain.PurchaseOrderTotals{Total: domain.Amount(-20)},
			OrderDate: "2024-06-30",
		},
	}

	for _, r := range receipts {
		for _, p := range pos {
			got := e.Validate(r, p)
			for _, s := range []float64{got.OverallScore, got.VendorMatch, got.TotalMatch, got.ItemsMatch, got.DateMatch} {
				assert.GreaterOrEqual(t, s, 0.0)
				assert.LessOrEqual(t, s, 1.0)
			}
		}
	}
}

func TestEngine_ClassifyConfidence(t *testing.T) {
	e := engine.Default()

	tests := []struct {
		name  string
		score float64
		flags domain.Flags
		want  domain.ConfidenceLevel
	}{
		{name: "high", score: 0.95, want: domain.ConfidenceHigh},
		{name: "high boundary", score: 0.9, want: domain.ConfidenceHigh},
		{name: "medium", score: 0.75, want: domain.ConfidenceMedium},
		{name: "medium boundary", score: 0.7, want: domain.ConfidenceMedium},
		{name: "low", score: 0.5, want: domain.ConfidenceLow},
		{
			name:  "major mismatch overrides score",
			score: 0.9,
			flags: domain.NewFlags(domain.FlagVendorMajorMismatch),
			want:  domain.ConfidenceLow,
		},
		{
			name:  "manual review alone does not override",
			score: 0.95,
			flags: domain.NewFlags(domain.FlagRequiresManualReview),
			want:  domain.ConfidenceHigh,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := e.ClassifyConfidence(domain.ValidationVerdict{OverallScore: tt.score, Flags: tt.flags})
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestEngine_CheckFraudIndicators(t *testing.T) {
	e := engine.Default()

	receipt := domain.ReceiptRecord{
		Vendor: domain.ReceiptVendor{Name: "Suspicious Vendor"},
		Totals: domain.ReceiptTotals{Total: domain.Amount(2000.00)},
	}
	po := domain.PurchaseOrderRecord{
		Vendor: domain.PurchaseOrderVendor{Name: "Legitimate Vendor"},
		Totals: domain.PurchaseOrderTotals{Total: domain.Amount(1000.00)},
	}

	t.Run("all primary rules fire", func(t *testing.T) {
		verdict := domain.ValidationVerdict{
			ValidationDetails: domain.ValidationDetails{
				Vendor: domain.VendorComparison{Score: 0.1},
				Totals: domain.TotalsComparison{PercentageDiff: 100.0},
				Items: domain.ItemsComparison{
					ExtraItems: []domain.ExtraItem{{Description: "item1"}, {Description: "item2"}},
					TotalItems: 2,
				},
			},
		}

		got := e.CheckFraudIndicators(receipt, po, verdict)

		assert.True(t, got.Has(domain.FraudSuspiciousAmountDifference))
		assert.True(t, got.Has(domain.FraudSuspiciousVendorMismatch))
		assert.True(t, got.Has(domain.FraudSuspiciousExtraItems))
		assert.False(t, got.Has(domain.FraudSuspiciousTotalArithmetic))
	})

	t.Run("receipt without vendor name", func(t *testing.T) {
		unnamed := domain.ReceiptRecord{Totals: domain.ReceiptTotals{Total: domain.Amount(100)}}
		legit := domain.PurchaseOrderRecord{
			Vendor: domain.PurchaseOrderVendor{Name: "Legit Vendor"},
			Totals: domain.PurchaseOrderTotals{Total: domain.Amount(100)},
		}

		got := e.Validate(unnamed, legit)

		assert.Equal(t, 0.0, got.VendorMatch)
		assert.Equal(t, domain.NewFraudIndicators(domain.FraudSuspiciousVendorMismatch), got.FraudIndicators)
	})

	t.Run("clean verdict raises nothing", func(t *testing.T) {
		verdict := domain.ValidationVerdict{
			ValidationDetails: domain.ValidationDetails{
				Vendor: domain.VendorComparison{Score: 1},
				Totals: domain.TotalsComparison{PercentageDiff: 0.5},
				Items:  domain.ItemsComparison{TotalItems: 2},
			},
		}

		assert.Empty(t, e.CheckFraudIndicators(receipt, po, verdict))
	})

	t.Run("single extra item among many is not suspicious", func(t *testing.T) {
		verdict := domain.ValidationVerdict{
			ValidationDetails: domain.ValidationDetails{
				Vendor: domain.VendorComparison{Score: 1},
				Items: domain.ItemsComparison{
					ExtraItems: []domain.ExtraItem{{Description: "cable"}},
					TotalItems: 5,
				},
			},
		}

		assert.False(t, e.CheckFraudIndicators(receipt, po, verdict).Has(domain.FraudSuspiciousExtraItems))
	})

	t.Run("inflated unit price", func(t *testing.T) {
		verdict := domain.ValidationVerdict{
			ValidationDetails: domain.ValidationDetails{
				Vendor: domain.VendorComparison{Score: 1},
				Items: domain.ItemsComparison{
					TotalItems: 1,
					PriceDiscrepancies: []domain.PriceDiscrepancy{
						{Item: "monitor", POUnitPrice: 200, ReceiptUnitPrice: 260, Difference: 60},
					},
				},
			},
		}

		assert.True(t, e.CheckFraudIndicators(receipt, po, verdict).Has(domain.FraudSuspiciousPriceInflation))
	})
}

func TestEngine_CollectDiscrepancies(t *testing.T) {
	e := engine.Default()

	t.Run("scores at threshold produce nothing", func(t *testing.T) {
		got := e.CollectDiscrepancies(domain.ValidationDetails{
			Vendor: domain.VendorComparison{Score: 0.8},
			Totals: domain.TotalsComparison{Score: 0.9},
			Items:  domain.ItemsComparison{Score: 0.9},
			Date:   domain.DateComparison{Score: 0.7, Known: true},
		})
		assert.Empty(t, got)
	})

	t.Run("unknown date is never a discrepancy", func(t *testing.T) {
		got := e.CollectDiscrepancies(domain.ValidationDetails{
			Vendor: domain.VendorComparison{Score: 1},
			Totals: domain.TotalsComparison{Score: 1},
			Items:  domain.ItemsComparison{Score: 1},
			Date:   domain.DateComparison{Score: 0.5},
		})
		assert.Empty(t, got)
	})

	t.Run("item level discrepancies follow the aggregate", func(t *testing.T) {
		got := e.CollectDiscrepancies(domain.ValidationDetails{
			Vendor: domain.VendorComparison{Score: 1},
			Totals: domain.TotalsComparison{Score: 1},
			Items: domain.ItemsComparison{
				Score:        0.3,
				MatchedCount: 1,
				TotalItems:   2,
				MissingItems: []domain.MissingItem{{Name: "Mouse", Quantity: 2}},
				QuantityDiscrepancies: []domain.QuantityDiscrepancy{
					{Item: "laptop computer", POQuantity: 2, ReceiptQuantity: 3, Difference: 1},
				},
			},
			Date: domain.DateComparison{Score: 1, Known: true},
		})

		require.Len(t, got, 3)
		assert.Equal(t, domain.DiscrepancyItemsMismatch, got[0].Type)
		assert.Equal(t, domain.SeverityHigh, got[0].Severity)
		assert.Equal(t, domain.DiscrepancyMissingItem, got[1].Type)
		assert.Equal(t, domain.DiscrepancyQuantityMismatch, got[2].Type)
		assert.Equal(t, domain.SeverityHigh, got[2].Severity)
		for _, d := range got {
			assert.NotEmpty(t, d.SuggestedAction)
			assert.NotEmpty(t, d.Detail)
		}
	})

	t.Run("severity follows the gap", func(t *testing.T) {
		got := e.CollectDiscrepancies(domain.ValidationDetails{
			Vendor: domain.VendorComparison{Score: 0.7, ReceiptName: "a", POName: "b"},
			Totals: domain.TotalsComparison{Score: 0.6, ReceiptTotal: domain.Amount(1), POTotal: domain.Amount(2)},
			Items:  domain.ItemsComparison{Score: 1},
			Date:   domain.DateComparison{Score: 0.1, Known: true, DaysDifference: -200, BeforeOrder: true},
		})

		require.Len(t, got, 3)
		assert.Equal(t, domain.SeverityLow, got[0].Severity)
		assert.Equal(t, domain.SeverityMedium, got[1].Severity)
		assert.Equal(t, domain.DiscrepancyDateMismatch, got[2].Type)
		assert.Equal(t, domain.SeverityHigh, got[2].Severity)
	})
}

func TestConfig_Validate(t *testing.T) {
	t.Run("default config is valid", func(t *testing.T) {
		_, err := engine.New(engine.DefaultConfig())
		require.NoError(t, err)
	})

	t.Run("weights must sum to one", func(t *testing.T) {
		cfg := engine.DefaultConfig()
		cfg.Weights.Date = 0.3
		_, err := engine.New(cfg)
		assert.ErrorContains(t, err, "weights must sum to 1.0")
	})

	t.Run("threshold out of range", func(t *testing.T) {
		cfg := engine.DefaultConfig()
		cfg.DiscrepancyThresholds.Vendor = 1.5
		_, err := engine.New(cfg)
		assert.Error(t, err)
	})

	t.Run("confidence cut points out of order", func(t *testing.T) {
		cfg := engine.DefaultConfig()
		cfg.Confidence.Medium = 0.95
		_, err := engine.New(cfg)
		assert.Error(t, err)
	})

	t.Run("custom weights change the overall score", func(t *testing.T) {
		cfg := engine.DefaultConfig()
		cfg.Weights = engine.Weights{Vendor: 0.25, Totals: 0.25, Items: 0.25, Date: 0.25}
		e, err := engine.New(cfg)
		require.NoError(t, err)

		got := e.Validate(techSolutionsReceipt(), techSolutionsPO())
		assert.Equal(t, 0.875, got.OverallScore)
	})
}
