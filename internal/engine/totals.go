package engine

import (
	"math"

	"receipt-reconciliation/internal/domain"
)

// totalsDecay maps a percentage difference to a score.
// 1% still scores 0.95; at 50% the totals are treated as unrelated.
var totalsDecay = curve{
	{0, 1.0},
	{1, 0.95},
	{5, 0.8},
	{10, 0.6},
	{25, 0.4},
	{50, 0.2},
	{100, 0.0},
}

// CompareTotals scores the receipt total against the purchase order total.
func (e *Engine) CompareTotals(receipt domain.ReceiptTotals, po domain.PurchaseOrderTotals) domain.TotalsComparison {
	result := domain.TotalsComparison{
		ReceiptTotal: receipt.Total,
		POTotal:      po.Total,
	}
	result.ArithmeticChecked, result.ArithmeticConsistent = e.receiptArithmetic(receipt)

	if receipt.Total == nil || po.Total == nil {
		return result
	}
	rt, pt := *receipt.Total, *po.Total
	result.Difference = roundTo(rt-pt, 2)

	if pt == 0 {
		if rt == 0 {
			result.Score = 1
		} else {
			result.PercentageDiff = 100
		}
		return result
	}

	result.PercentageDiff = roundTo(math.Abs(rt-pt)/math.Abs(pt)*100, 2)
	result.Score = score(totalsDecay.at(result.PercentageDiff))
	return result
}

// receiptArithmetic checks subtotal + tax against total when all three were extracted.
func (e *Engine) receiptArithmetic(t domain.ReceiptTotals) (checked, consistent bool) {
	if t.Subtotal == nil || t.Tax == nil || t.Total == nil {
		return false, false
	}
	tolerance := math.Max(0.01, math.Abs(*t.Total)*e.cfg.ArithmeticTolerance/100)
	return true, math.Abs(*t.Subtotal+*t.Tax-*t.Total) <= tolerance
}
