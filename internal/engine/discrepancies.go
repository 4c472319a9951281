package engine

import (
	"fmt"

	"receipt-reconciliation/internal/domain"
)

// CollectDiscrepancies turns below-threshold family results into discrepancy records.
// Order is vendor, totals, items (aggregate first, then per line), date.
func (e *Engine) CollectDiscrepancies(details domain.ValidationDetails) []domain.Discrepancy {
	th := e.cfg.DiscrepancyThresholds
	out := make([]domain.Discrepancy, 0)

	if v := details.Vendor; v.Score < th.Vendor {
		out = append(out, domain.Discrepancy{
			Type:            domain.DiscrepancyVendorMismatch,
			Severity:        e.severity(th.Vendor, v.Score),
			SuggestedAction: "Confirm the receipt was issued by the purchase order vendor before approving payment",
			Detail:          vendorDetail(v),
		})
	}

	if t := details.Totals; t.Score < th.Totals {
		out = append(out, domain.Discrepancy{
			Type:            domain.DiscrepancyTotalMismatch,
			Severity:        e.severity(th.Totals, t.Score),
			SuggestedAction: "Reconcile the charged amount with the purchase order total and request a corrected receipt or credit note",
			Detail:          totalsDetail(t),
		})
	}

	if items := details.Items; items.Score < th.Items {
		out = append(out, domain.Discrepancy{
			Type:            domain.DiscrepancyItemsMismatch,
			Severity:        e.severity(th.Items, items.Score),
			SuggestedAction: "Review the line items against the purchase order",
			Detail:          fmt.Sprintf("%d of %d purchase order items matched, %d extra receipt items", items.MatchedCount, items.TotalItems, len(items.ExtraItems)),
		})
		out = append(out, itemDiscrepancies(items)...)
	}

	if d := details.Date; d.Known && d.Score < th.Date {
		detail := fmt.Sprintf("receipt dated %s is %d days from order date %s", d.ReceiptDate, abs(d.DaysDifference), d.ExpectedDate)
		if d.BeforeOrder {
			detail = fmt.Sprintf("receipt dated %s precedes order date %s by %d days", d.ReceiptDate, d.ExpectedDate, -d.DaysDifference)
		}
		out = append(out, domain.Discrepancy{
			Type:            domain.DiscrepancyDateMismatch,
			Severity:        e.severity(th.Date, d.Score),
			SuggestedAction: "Check that the receipt belongs to this order and not to an earlier or later purchase",
			Detail:          detail,
		})
	}

	return out
}

func itemDiscrepancies(items domain.ItemsComparison) []domain.Discrepancy {
	var out []domain.Discrepancy
	for _, m := range items.MissingItems {
		out = append(out, domain.Discrepancy{
			Type:            domain.DiscrepancyMissingItem,
			Severity:        domain.SeverityMedium,
			SuggestedAction: fmt.Sprintf("Confirm whether %q was delivered or record a partial delivery", m.Name),
			Detail:          fmt.Sprintf("%q (quantity %g) is on the purchase order but not on the receipt", m.Name, m.Quantity),
		})
	}
	for _, x := range items.ExtraItems {
		out = append(out, domain.Discrepancy{
			Type:            domain.DiscrepancyExtraItem,
			Severity:        domain.SeverityMedium,
			SuggestedAction: fmt.Sprintf("Verify %q was authorized or request its removal from the invoice", x.Description),
			Detail:          fmt.Sprintf("%q (quantity %g) is on the receipt but not on the purchase order", x.Description, x.Quantity),
		})
	}
	for _, q := range items.QuantityDiscrepancies {
		severity := domain.SeverityMedium
		if q.Difference > 0 {
			severity = domain.SeverityHigh
		}
		out = append(out, domain.Discrepancy{
			Type:            domain.DiscrepancyQuantityMismatch,
			Severity:        severity,
			SuggestedAction: fmt.Sprintf("Confirm the delivered quantity of %q", q.Item),
			Detail:          fmt.Sprintf("%q ordered %g, receipt shows %g", q.Item, q.POQuantity, q.ReceiptQuantity),
		})
	}
	for _, p := range items.PriceDiscrepancies {
		severity := domain.SeverityLow
		if p.Difference > 0 {
			severity = domain.SeverityHigh
		}
		out = append(out, domain.Discrepancy{
			Type:            domain.DiscrepancyPriceMismatch,
			Severity:        severity,
			SuggestedAction: fmt.Sprintf("Check the agreed unit price of %q with the vendor", p.Item),
			Detail:          fmt.Sprintf("%q unit price %.2f on order, %.2f on receipt", p.Item, p.POUnitPrice, p.ReceiptUnitPrice),
		})
	}
	return out
}

// severity grades a below-threshold score by its distance to the threshold.
func (e *Engine) severity(threshold, s float64) domain.Severity {
	gap := threshold - s
	switch {
	case gap >= e.cfg.Severity.High:
		return domain.SeverityHigh
	case gap >= e.cfg.Severity.Medium:
		return domain.SeverityMedium
	default:
		return domain.SeverityLow
	}
}

func vendorDetail(v domain.VendorComparison) string {
	switch {
	case v.ReceiptName == "":
		return "vendor name missing on receipt"
	case v.POName == "":
		return "vendor name missing on purchase order"
	default:
		return fmt.Sprintf("receipt vendor %q does not match purchase order vendor %q (score %.2f)", v.ReceiptName, v.POName, v.Score)
	}
}

func totalsDetail(t domain.TotalsComparison) string {
	switch {
	case t.ReceiptTotal == nil:
		return "total missing on receipt"
	case t.POTotal == nil:
		return "total missing on purchase order"
	default:
		return fmt.Sprintf("receipt total %.2f differs from purchase order total %.2f by %.2f%%", *t.ReceiptTotal, *t.POTotal, t.PercentageDiff)
	}
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
