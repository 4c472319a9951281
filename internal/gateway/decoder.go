package gateway

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/xeipuuv/gojsonschema"
	"gopkg.in/yaml.v3"

	"receipt-reconciliation/internal/domain"
)

// Format is the serialization of a document on disk or on the wire.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
	FormatCSV  Format = "csv"
)

const (
	receiptDocument       = "receipt"
	purchaseOrderDocument = "purchase order"
)

// FormatForPath picks a format from the file extension.
func FormatForPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatJSON, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	case ".csv":
		return FormatCSV, nil
	default:
		return "", fmt.Errorf("unsupported document extension %q", filepath.Ext(path))
	}
}

// DecodeReceipt parses and structurally validates a receipt document.
func DecodeReceipt(data []byte, format Format) (domain.ReceiptRecord, error) {
	var receipt domain.ReceiptRecord
	if err := decodeDocument(data, format, receiptDocument, receiptSchemaLoader, &receipt); err != nil {
		return domain.ReceiptRecord{}, err
	}
	return receipt, nil
}

// DecodePurchaseOrder parses and structurally validates a purchase order document.
func DecodePurchaseOrder(data []byte, format Format) (domain.PurchaseOrderRecord, error) {
	if format == FormatCSV {
		return ReadPurchaseOrderCSV(strings.NewReader(string(data)))
	}
	var po domain.PurchaseOrderRecord
	if err := decodeDocument(data, format, purchaseOrderDocument, purchaseOrderSchemaLoader, &po); err != nil {
		return domain.PurchaseOrderRecord{}, err
	}
	return po, nil
}

// ReadReceiptFile loads a receipt from a JSON or YAML file.
func ReadReceiptFile(path string) (domain.ReceiptRecord, error) {
	format, data, err := readDocumentFile(path)
	if err != nil {
		return domain.ReceiptRecord{}, err
	}
	if format == FormatCSV {
		return domain.ReceiptRecord{}, fmt.Errorf("receipts cannot be read from csv: %s", path)
	}
	return DecodeReceipt(data, format)
}

// ReadPurchaseOrderFile loads a purchase order from a JSON, YAML or CSV file.
func ReadPurchaseOrderFile(path string) (domain.PurchaseOrderRecord, error) {
	format, data, err := readDocumentFile(path)
	if err != nil {
		return domain.PurchaseOrderRecord{}, err
	}
	return DecodePurchaseOrder(data, format)
}

func readDocumentFile(path string) (Format, []byte, error) {
	format, err := FormatForPath(path)
	if err != nil {
		return "", nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", nil, fmt.Errorf("failed to read document %s: %w", path, err)
	}
	return format, data, nil
}

// decodeDocument decodes generically first so the schema sees exactly what was
// sent, then decodes again into the typed record.
func decodeDocument(data []byte, format Format, document string, schema gojsonschema.JSONLoader, out any) error {
	var generic any
	switch format {
	case FormatJSON:
		if err := json.Unmarshal(data, &generic); err != nil {
			return &domain.InvalidInputError{Document: document, Reason: "malformed json", Cause: err}
		}
	case FormatYAML:
		if err := yaml.Unmarshal(data, &generic); err != nil {
			return &domain.InvalidInputError{Document: document, Reason: "malformed yaml", Cause: err}
		}
	default:
		return fmt.Errorf("unsupported %s format %q", document, format)
	}

	// An empty YAML file decodes to nil; treat it as an empty object.
	if generic == nil && format == FormatYAML {
		return nil
	}
	if err := checkStructure(schema, document, generic); err != nil {
		return err
	}

	var err error
	if format == FormatJSON {
		err = json.Unmarshal(data, out)
	} else {
		err = yaml.Unmarshal(data, out)
	}
	if err != nil {
		return &domain.InvalidInputError{Document: document, Reason: "unexpected field type", Cause: err}
	}
	return nil
}
