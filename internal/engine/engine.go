// Package engine reconciles an extracted receipt against its purchase order.
//
// Everything here is a pure function of the two records and the Config: no I/O,
// no clock, no shared mutable state. An *Engine may be used from many goroutines.
package engine

import (
	"strings"

	"receipt-reconciliation/internal/domain"
)

// Engine runs the comparators, scoring, classification and fraud rules.
type Engine struct {
	cfg Config
}

// New validates cfg and returns an engine using it.
func New(cfg Config) (*Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Engine{cfg: cfg}, nil
}

// Default returns an engine with DefaultConfig.
func Default() *Engine {
	return &Engine{cfg: DefaultConfig()}
}

// Config returns the configuration the engine was built with.
func (e *Engine) Config() Config {
	return e.cfg
}

// Validate compares the receipt with the purchase order and assembles the verdict.
// Missing data lowers scores; it never produces an error.
func (e *Engine) Validate(receipt domain.ReceiptRecord, po domain.PurchaseOrderRecord) domain.ValidationVerdict {
	details := domain.ValidationDetails{
		Vendor: e.CompareVendors(receipt.Vendor, po.Vendor),
		Totals: e.CompareTotals(receipt.Totals, po.Totals),
		Items:  e.CompareItems(receipt.Items, po.Items),
		Date:   e.CompareDates(receipt.Transaction, po),
	}

	verdict := domain.ValidationVerdict{
		VendorMatch:       details.Vendor.Score,
		TotalMatch:        details.Totals.Score,
		ItemsMatch:        details.Items.Score,
		DateMatch:         details.Date.Score,
		ValidationDetails: details,
	}
	verdict.OverallScore = e.overallScore(details)
	verdict.Flags = e.flags(receipt, verdict)
	verdict.ConfidenceLevel = e.ClassifyConfidence(verdict)
	verdict.Discrepancies = e.CollectDiscrepancies(details)
	verdict.FraudIndicators = e.CheckFraudIndicators(receipt, po, verdict)
	return verdict
}

func (e *Engine) overallScore(d domain.ValidationDetails) float64 {
	w := e.cfg.Weights
	return score(w.Vendor*d.Vendor.Score +
		w.Totals*d.Totals.Score +
		w.Items*d.Items.Score +
		w.Date*d.Date.Score)
}

func (e *Engine) flags(receipt domain.ReceiptRecord, v domain.ValidationVerdict) domain.Flags {
	major := e.cfg.MajorMismatchThresholds
	var tags []domain.Flag

	if v.VendorMatch < major.Vendor {
		tags = append(tags, domain.FlagVendorMajorMismatch)
	}
	if v.TotalMatch < major.Totals {
		tags = append(tags, domain.FlagTotalMajorMismatch)
	}
	if v.ItemsMatch < major.Items {
		tags = append(tags, domain.FlagItemsMajorMismatch)
	}
	if len(tags) > 0 || v.OverallScore < e.cfg.ManualReviewThreshold {
		tags = append(tags, domain.FlagRequiresManualReview)
	}
	if strings.TrimSpace(receipt.Vendor.Name) == "" || receipt.Totals.Total == nil || len(receipt.Items) == 0 {
		tags = append(tags, domain.FlagIncompleteReceipt)
	}
	return domain.NewFlags(tags...)
}
