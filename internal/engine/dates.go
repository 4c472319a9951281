package engine

import (
	"math"
	"strings"
	"time"

	"receipt-reconciliation/internal/domain"
)

var dateLayouts = []string{time.DateOnly, time.RFC3339}

// dateProximity maps the absolute day distance between receipt and order to a score.
var dateProximity = curve{
	{0, 1.0},
	{7, 1.0},
	{30, 0.7},
	{90, 0.3},
	{180, 0.1},
}

// CompareDates scores the receipt transaction date against the purchase order date.
// Missing or unparseable dates yield the neutral unknown score instead of an error.
func (e *Engine) CompareDates(transaction domain.ReceiptTransaction, po domain.PurchaseOrderRecord) domain.DateComparison {
	result := domain.DateComparison{
		Score:        e.cfg.Dates.UnknownScore,
		ReceiptDate:  transaction.Date,
		ExpectedDate: po.OrderDate,
	}

	receiptDate, ok := parseDay(transaction.Date)
	if !ok {
		return result
	}
	orderDate, ok := parseDay(po.OrderDate)
	if !ok {
		return result
	}

	days := int(math.Round(receiptDate.Sub(orderDate).Hours() / 24))
	result.Known = true
	result.DaysDifference = days

	s := dateProximity.at(math.Abs(float64(days)))
	if days < -e.cfg.Dates.BeforeOrderGraceDays {
		result.BeforeOrder = true
		s /= 2
	}
	result.Score = score(s)
	return result
}

// parseDay parses a date and truncates it to a UTC calendar day.
func parseDay(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC), true
		}
	}
	return time.Time{}, false
}
