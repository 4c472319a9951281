package engine

import "receipt-reconciliation/internal/domain"

// CheckFraudIndicators runs every fraud rule against the inputs and the verdict.
// The result is advisory and never feeds back into scores, flags or confidence.
func (e *Engine) CheckFraudIndicators(receipt domain.ReceiptRecord, po domain.PurchaseOrderRecord, v domain.ValidationVerdict) domain.FraudIndicators {
	ft := e.cfg.Fraud
	details := v.ValidationDetails
	var tags []domain.FraudIndicator

	if details.Totals.PercentageDiff >= ft.AmountPercentage {
		tags = append(tags, domain.FraudSuspiciousAmountDifference)
	}

	if details.Vendor.Score <= ft.VendorScore {
		tags = append(tags, domain.FraudSuspiciousVendorMismatch)
	}

	if extra := len(details.Items.ExtraItems); extra > 0 &&
		(extra >= ft.ExtraItemsCount || (details.Items.TotalItems > 0 && extra >= details.Items.TotalItems)) {
		tags = append(tags, domain.FraudSuspiciousExtraItems)
	}

	for _, p := range details.Items.PriceDiscrepancies {
		if p.POUnitPrice > 0 && p.Difference/p.POUnitPrice*100 >= ft.PriceInflationPercentage {
			tags = append(tags, domain.FraudSuspiciousPriceInflation)
			break
		}
	}

	if checked, consistent := e.receiptArithmetic(receipt.Totals); checked && !consistent {
		tags = append(tags, domain.FraudSuspiciousTotalArithmetic)
	}

	return domain.NewFraudIndicators(tags...)
}
