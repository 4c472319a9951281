package domain

// ReceiptVendor is the vendor block extracted from a receipt document.
type ReceiptVendor struct {
	Name    string `json:"name,omitempty" yaml:"name,omitempty"`
	Email   string `json:"email,omitempty" yaml:"email,omitempty"`
	Phone   string `json:"phone,omitempty" yaml:"phone,omitempty"`
	Address string `json:"address,omitempty" yaml:"address,omitempty"`
}

// ReceiptItem is a single extracted line of a receipt.
type ReceiptItem struct {
	Description string  `json:"description" yaml:"description"`
	Quantity    float64 `json:"quantity" yaml:"quantity"`
	UnitPrice   float64 `json:"unit_price" yaml:"unit_price"`
}

// ReceiptTotals holds the monetary totals printed on a receipt.
// A nil field means extraction did not find it, which is different from zero.
type ReceiptTotals struct {
	Subtotal *float64 `json:"subtotal,omitempty" yaml:"subtotal,omitempty"`
	Tax      *float64 `json:"tax,omitempty" yaml:"tax,omitempty"`
	Total    *float64 `json:"total,omitempty" yaml:"total,omitempty"`
}

// ReceiptTransaction carries the payment details of a receipt.
type ReceiptTransaction struct {
	Date          string `json:"date,omitempty" yaml:"date,omitempty"`
	TransactionID string `json:"transaction_id,omitempty" yaml:"transaction_id,omitempty"`
}

// ReceiptRecord is the machine-extracted view of an uploaded receipt.
// Every field may be empty when extraction partially failed.
type ReceiptRecord struct {
	Vendor      ReceiptVendor      `json:"vendor" yaml:"vendor"`
	Items       []ReceiptItem      `json:"items" yaml:"items"`
	Totals      ReceiptTotals      `json:"totals" yaml:"totals"`
	Transaction ReceiptTransaction `json:"transaction" yaml:"transaction"`
}

// PurchaseOrderVendor identifies the vendor a purchase order was raised against.
type PurchaseOrderVendor struct {
	Name  string `json:"name,omitempty" yaml:"name,omitempty"`
	Email string `json:"email,omitempty" yaml:"email,omitempty"`
	Phone string `json:"phone,omitempty" yaml:"phone,omitempty"`
}

// PurchaseOrderItem is an ordered line of a purchase order.
type PurchaseOrderItem struct {
	Name      string  `json:"name" yaml:"name"`
	Quantity  float64 `json:"quantity" yaml:"quantity"`
	UnitPrice float64 `json:"unit_price" yaml:"unit_price"`
}

// PurchaseOrderTotals holds the authoritative order total.
type PurchaseOrderTotals struct {
	Total *float64 `json:"total,omitempty" yaml:"total,omitempty"`
}

// PurchaseOrderRecord is the authoritative record a receipt is validated against.
type PurchaseOrderRecord struct {
	PONumber  string              `json:"po_number,omitempty" yaml:"po_number,omitempty"`
	Vendor    PurchaseOrderVendor `json:"vendor" yaml:"vendor"`
	Items     []PurchaseOrderItem `json:"items" yaml:"items"`
	Totals    PurchaseOrderTotals `json:"totals" yaml:"totals"`
	OrderDate string              `json:"order_date,omitempty" yaml:"order_date,omitempty"`
}

// Amount returns a pointer to v, for populating optional totals.
func Amount(v float64) *float64 {
	return &v
}
