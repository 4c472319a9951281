package gateway

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	"receipt-reconciliation/internal/domain"
)

// purchaseOrderColumns is the header a purchase order CSV export must carry.
// Column order is free; every name must be present.
var purchaseOrderColumns = []string{"po_number", "vendor", "order_date", "item_name", "quantity", "unit_price", "total"}

// ReadPurchaseOrderCSV parses a purchase order exported as one row per line item.
// Order-level columns are taken from the first row and must not change across rows.
func ReadPurchaseOrderCSV(r io.Reader) (domain.PurchaseOrderRecord, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err == io.EOF {
		return domain.PurchaseOrderRecord{}, &domain.InvalidInputError{Document: purchaseOrderDocument, Reason: "empty csv"}
	}
	if err != nil {
		return domain.PurchaseOrderRecord{}, &domain.InvalidInputError{Document: purchaseOrderDocument, Field: "header", Reason: "malformed csv", Cause: err}
	}
	col, err := indexColumns(header)
	if err != nil {
		return domain.PurchaseOrderRecord{}, err
	}

	var po domain.PurchaseOrderRecord
	rowNum := 1
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		rowNum++
		if err != nil {
			return domain.PurchaseOrderRecord{}, &domain.InvalidInputError{
				Document: purchaseOrderDocument,
				Field:    fmt.Sprintf("row %d", rowNum),
				Reason:   "malformed csv",
				Cause:    err,
			}
		}

		field := func(name string) string {
			return strings.TrimSpace(record[col[name]])
		}

		if rowNum == 2 {
			po.PONumber = field("po_number")
			po.Vendor.Name = field("vendor")
			po.OrderDate = field("order_date")
			if raw := field("total"); raw != "" {
				total, err := strconv.ParseFloat(raw, 64)
				if err != nil {
					return domain.PurchaseOrderRecord{}, rowError(rowNum, "total", raw, err)
				}
				po.Totals.Total = domain.Amount(total)
			}
		} else if field("po_number") != po.PONumber {
			return domain.PurchaseOrderRecord{}, &domain.InvalidInputError{
				Document: purchaseOrderDocument,
				Field:    fmt.Sprintf("row %d po_number", rowNum),
				Reason:   fmt.Sprintf("expected %q, got %q", po.PONumber, field("po_number")),
			}
		}

		item := domain.PurchaseOrderItem{Name: field("item_name")}
		if raw := field("quantity"); raw != "" {
			if item.Quantity, err = strconv.ParseFloat(raw, 64); err != nil {
				return domain.PurchaseOrderRecord{}, rowError(rowNum, "quantity", raw, err)
			}
		}
		if raw := field("unit_price"); raw != "" {
			if item.UnitPrice, err = strconv.ParseFloat(raw, 64); err != nil {
				return domain.PurchaseOrderRecord{}, rowError(rowNum, "unit_price", raw, err)
			}
		}
		po.Items = append(po.Items, item)
	}
	return po, nil
}

func indexColumns(header []string) (map[string]int, error) {
	col := make(map[string]int, len(header))
	for i, name := range header {
		col[strings.ToLower(strings.TrimSpace(name))] = i
	}
	for _, name := range purchaseOrderColumns {
		if _, ok := col[name]; !ok {
			return nil, &domain.InvalidInputError{
				Document: purchaseOrderDocument,
				Field:    "header",
				Reason:   fmt.Sprintf("missing column %q", name),
			}
		}
	}
	return col, nil
}

func rowError(row int, column, raw string, err error) error {
	return &domain.InvalidInputError{
		Document: purchaseOrderDocument,
		Field:    fmt.Sprintf("row %d %s", row, column),
		Reason:   fmt.Sprintf("could not parse %q", raw),
		Cause:    err,
	}
}

// ReadValidationPairs parses a receipt_id,po_id list for batch validation.
// A header row is optional; blank ids are rejected.
func ReadValidationPairs(r io.Reader) ([]domain.ValidationPair, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true
	reader.FieldsPerRecord = 2

	var pairs []domain.ValidationPair
	rowNum := 0
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		rowNum++
		if err != nil {
			return nil, fmt.Errorf("error reading pairs row %d: %w", rowNum, err)
		}

		receiptID, poID := strings.TrimSpace(record[0]), strings.TrimSpace(record[1])
		if rowNum == 1 && strings.EqualFold(receiptID, "receipt_id") {
			continue
		}
		if receiptID == "" || poID == "" {
			return nil, fmt.Errorf("pairs row %d: receipt id and purchase order id are required", rowNum)
		}
		pairs = append(pairs, domain.ValidationPair{ReceiptID: receiptID, PurchaseOrderID: poID})
	}
	return pairs, nil
}
