package gateway

import (
	"fmt"

	"github.com/xeipuuv/gojsonschema"

	"receipt-reconciliation/internal/domain"
)

// Schemas only constrain shape. Missing fields are allowed because extraction
// is partial by nature; a scalar where an object or list belongs is not.
const receiptSchema = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "object",
  "properties": {
    "vendor": {
      "type": ["object", "null"],
      "properties": {
        "name": {"type": ["string", "null"]},
        "email": {"type": ["string", "null"]},
        "phone": {"type": ["string", "null"]},
        "address": {"type": ["string", "null"]}
      }
    },
    "items": {
      "type": ["array", "null"],
      "items": {
        "type": "object",
        "properties": {
          "description": {"type": ["string", "null"]},
          "quantity": {"type": ["number", "null"]},
          "unit_price": {"type": ["number", "null"]}
        }
      }
    },
    "totals": {
      "type": ["object", "null"],
      "properties": {
        "subtotal": {"type": ["number", "null"]},
        "tax": {"type": ["number", "null"]},
        "total": {"type": ["number", "null"]}
      }
    },
    "transaction": {
      "type": ["object", "null"],
      "properties": {
        "date": {"type": ["string", "null"]},
        "transaction_id": {"type": ["string", "null"]}
      }
    }
  }
}`

const purchaseOrderSchema = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "object",
  "properties": {
    "po_number": {"type": ["string", "null"]},
    "vendor": {
      "type": ["object", "null"],
      "properties": {
        "name": {"type": ["string", "null"]},
        "email": {"type": ["string", "null"]},
        "phone": {"type": ["string", "null"]}
      }
    },
    "items": {
      "type": ["array", "null"],
      "items": {
        "type": "object",
        "properties": {
          "name": {"type": ["string", "null"]},
          "quantity": {"type": ["number", "null"]},
          "unit_price": {"type": ["number", "null"]}
        }
      }
    },
    "totals": {
      "type": ["object", "null"],
      "properties": {
        "total": {"type": ["number", "null"]}
      }
    },
    "order_date": {"type": ["string", "null"]}
  }
}`

var (
	receiptSchemaLoader       = gojsonschema.NewStringLoader(receiptSchema)
	purchaseOrderSchemaLoader = gojsonschema.NewStringLoader(purchaseOrderSchema)
)

// checkStructure validates a generically decoded document against a schema.
// The first violation is reported as an InvalidInputError.
func checkStructure(schema gojsonschema.JSONLoader, document string, doc any) error {
	result, err := gojsonschema.Validate(schema, gojsonschema.NewGoLoader(doc))
	if err != nil {
		return &domain.InvalidInputError{Document: document, Reason: "unreadable document", Cause: err}
	}
	if result.Valid() {
		return nil
	}

	first := result.Errors()[0]
	reason := first.Description()
	if n := len(result.Errors()); n > 1 {
		reason = fmt.Sprintf("%s (and %d more)", reason, n-1)
	}
	return &domain.InvalidInputError{
		Document: document,
		Field:    first.Field(),
		Reason:   reason,
	}
}
