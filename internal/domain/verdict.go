package domain

import "sort"

// Severity grades how serious a discrepancy is.
type Severity string

const (
	SeverityLow    Severity = "LOW"
	SeverityMedium Severity = "MEDIUM"
	SeverityHigh   Severity = "HIGH"
)

// ConfidenceLevel is the coarse trust classification of a verdict.
type ConfidenceLevel string

const (
	ConfidenceHigh   ConfidenceLevel = "HIGH"
	ConfidenceMedium ConfidenceLevel = "MEDIUM"
	ConfidenceLow    ConfidenceLevel = "LOW"
)

// DiscrepancyType identifies what kind of mismatch a discrepancy describes.
type DiscrepancyType string

const (
	DiscrepancyVendorMismatch   DiscrepancyType = "VENDOR_MISMATCH"
	DiscrepancyTotalMismatch    DiscrepancyType = "TOTAL_MISMATCH"
	DiscrepancyItemsMismatch    DiscrepancyType = "ITEMS_MISMATCH"
	DiscrepancyDateMismatch     DiscrepancyType = "DATE_MISMATCH"
	DiscrepancyMissingItem      DiscrepancyType = "MISSING_ITEM"
	DiscrepancyExtraItem        DiscrepancyType = "EXTRA_ITEM"
	DiscrepancyQuantityMismatch DiscrepancyType = "QUANTITY_MISMATCH"
	DiscrepancyPriceMismatch    DiscrepancyType = "PRICE_MISMATCH"
)

// Flag is a verdict-level tag consumed by the review workflow.
type Flag string

const (
	FlagRequiresManualReview Flag = "REQUIRES_MANUAL_REVIEW"
	FlagVendorMajorMismatch  Flag = "VENDOR_MAJOR_MISMATCH"
	FlagTotalMajorMismatch   Flag = "TOTAL_MAJOR_MISMATCH"
	FlagItemsMajorMismatch   Flag = "ITEMS_MAJOR_MISMATCH"
	FlagIncompleteReceipt    Flag = "INCOMPLETE_RECEIPT"
)

// IsMajorMismatch reports whether the flag marks a family score as a major mismatch.
func (f Flag) IsMajorMismatch() bool {
	switch f {
	case FlagVendorMajorMismatch, FlagTotalMajorMismatch, FlagItemsMajorMismatch:
		return true
	}
	return false
}

// FraudIndicator is an advisory tag raised by the fraud heuristics.
type FraudIndicator string

const (
	FraudSuspiciousAmountDifference FraudIndicator = "SUSPICIOUS_AMOUNT_DIFFERENCE"
	FraudSuspiciousVendorMismatch   FraudIndicator = "SUSPICIOUS_VENDOR_MISMATCH"
	FraudSuspiciousExtraItems       FraudIndicator = "SUSPICIOUS_EXTRA_ITEMS"
	FraudSuspiciousPriceInflation   FraudIndicator = "SUSPICIOUS_PRICE_INFLATION"
	FraudSuspiciousTotalArithmetic  FraudIndicator = "SUSPICIOUS_TOTAL_ARITHMETIC"
)

// Flags is a sorted, duplicate-free set of verdict flags.
type Flags []Flag

// NewFlags builds a Flags set from the given tags.
func NewFlags(tags ...Flag) Flags {
	seen := make(map[Flag]bool, len(tags))
	out := make(Flags, 0, len(tags))
	for _, t := range tags {
		if seen[t] {
			continue
		}
		seen[t] = true
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Has reports whether the set contains f.
func (fs Flags) Has(f Flag) bool {
	for _, x := range fs {
		if x == f {
			return true
		}
	}
	return false
}

// HasMajorMismatch reports whether any major-mismatch flag is present.
func (fs Flags) HasMajorMismatch() bool {
	for _, x := range fs {
		if x.IsMajorMismatch() {
			return true
		}
	}
	return false
}

// FraudIndicators is a sorted, duplicate-free set of fraud tags.
type FraudIndicators []FraudIndicator

// NewFraudIndicators builds a FraudIndicators set from the given tags.
func NewFraudIndicators(tags ...FraudIndicator) FraudIndicators {
	seen := make(map[FraudIndicator]bool, len(tags))
	out := make(FraudIndicators, 0, len(tags))
	for _, t := range tags {
		if seen[t] {
			continue
		}
		seen[t] = true
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Has reports whether the set contains f.
func (fi FraudIndicators) Has(f FraudIndicator) bool {
	for _, x := range fi {
		if x == f {
			return true
		}
	}
	return false
}

// VendorComparison is the vendor family result.
type VendorComparison struct {
	Score        float64 `json:"score"`
	NameMatch    bool    `json:"name_match"`
	PartialMatch bool    `json:"partial_match"`
	ContactMatch bool    `json:"contact_match"`
	Similarity   float64 `json:"similarity"`
	ReceiptName  string  `json:"receipt_name,omitempty"`
	POName       string  `json:"po_name,omitempty"`
}

// TotalsComparison is the totals family result.
type TotalsComparison struct {
	Score          float64  `json:"score"`
	ReceiptTotal   *float64 `json:"receipt_total,omitempty"`
	POTotal        *float64 `json:"po_total,omitempty"`
	Difference     float64  `json:"difference"`
	PercentageDiff float64  `json:"percentage_diff"`

	// ArithmeticChecked is set when subtotal, tax and total were all present on the receipt.
	ArithmeticChecked    bool `json:"arithmetic_checked"`
	ArithmeticConsistent bool `json:"arithmetic_consistent"`
}

// ItemMatch pairs a purchase order line with the receipt line chosen for it.
type ItemMatch struct {
	Label        string  `json:"label"`
	ReceiptLabel string  `json:"receipt_label"`
	Similarity   float64 `json:"similarity"`
}

// QuantityDiscrepancy records a matched item whose quantities disagree.
type QuantityDiscrepancy struct {
	Item            string  `json:"item"`
	POQuantity      float64 `json:"po_quantity"`
	ReceiptQuantity float64 `json:"receipt_quantity"`
	Difference      float64 `json:"difference"`
}

// PriceDiscrepancy records a matched item whose unit prices disagree.
type PriceDiscrepancy struct {
	Item             string  `json:"item"`
	POUnitPrice      float64 `json:"po_unit_price"`
	ReceiptUnitPrice float64 `json:"receipt_unit_price"`
	Difference       float64 `json:"difference"`
}

// MissingItem is a purchase order line with no acceptable receipt match.
type MissingItem struct {
	Name      string  `json:"name"`
	Quantity  float64 `json:"quantity"`
	UnitPrice float64 `json:"unit_price"`
}

// ExtraItem is a receipt line with no acceptable purchase order match.
// Description holds the normalized label.
type ExtraItem struct {
	Description string  `json:"description"`
	Quantity    float64 `json:"quantity"`
	UnitPrice   float64 `json:"unit_price"`
}

// ItemsComparison is the line items family result.
type ItemsComparison struct {
	Score                 float64               `json:"score"`
	MatchedCount          int                   `json:"matched_count"`
	TotalItems            int                   `json:"total_items"`
	ReceiptItemCount      int                   `json:"receipt_item_count"`
	Matches               []ItemMatch           `json:"matches"`
	MissingItems          []MissingItem         `json:"missing_items"`
	ExtraItems            []ExtraItem           `json:"extra_items"`
	QuantityDiscrepancies []QuantityDiscrepancy `json:"quantity_discrepancies"`
	PriceDiscrepancies    []PriceDiscrepancy    `json:"price_discrepancies"`
}

// DateComparison is the transaction date family result.
type DateComparison struct {
	Score          float64 `json:"score"`
	Known          bool    `json:"known"`
	ReceiptDate    string  `json:"receipt_date,omitempty"`
	ExpectedDate   string  `json:"expected_date,omitempty"`
	DaysDifference int     `json:"days_difference"`
	BeforeOrder    bool    `json:"before_order"`
}

// ValidationDetails keeps the raw per-family results for audit and fraud checks.
type ValidationDetails struct {
	Vendor VendorComparison `json:"vendor"`
	Totals TotalsComparison `json:"totals"`
	Items  ItemsComparison  `json:"items"`
	Date   DateComparison   `json:"date"`
}

// Discrepancy is a single detected mismatch with a suggested remediation.
type Discrepancy struct {
	Type            DiscrepancyType `json:"type"`
	Severity        Severity        `json:"severity"`
	SuggestedAction string          `json:"suggested_action"`
	Detail          string          `json:"detail"`
}

// ValidationVerdict is the complete output of one validation run.
type ValidationVerdict struct {
	OverallScore      float64           `json:"overall_score"`
	VendorMatch       float64           `json:"vendor_match"`
	TotalMatch        float64           `json:"total_match"`
	ItemsMatch        float64           `json:"items_match"`
	DateMatch         float64           `json:"date_match"`
	ConfidenceLevel   ConfidenceLevel   `json:"confidence_level"`
	Discrepancies     []Discrepancy     `json:"discrepancies"`
	Flags             Flags             `json:"flags"`
	FraudIndicators   FraudIndicators   `json:"fraud_indicators"`
	ValidationDetails ValidationDetails `json:"validation_details"`
}

// NeedsReview reports whether the verdict must be routed to a human reviewer.
func (v ValidationVerdict) NeedsReview() bool {
	return v.Flags.Has(FlagRequiresManualReview)
}
