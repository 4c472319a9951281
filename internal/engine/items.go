package engine

import (
	"math"

	"receipt-reconciliation/internal/domain"
)

const quantityEpsilon = 1e-9

// CompareItems matches purchase order lines to receipt lines and scores the result.
// Each receipt line is used at most once.
func (e *Engine) CompareItems(receipt []domain.ReceiptItem, po []domain.PurchaseOrderItem) domain.ItemsComparison {
	result := domain.ItemsComparison{
		TotalItems:            len(po),
		ReceiptItemCount:      len(receipt),
		Matches:               make([]domain.ItemMatch, 0),
		MissingItems:          make([]domain.MissingItem, 0),
		ExtraItems:            make([]domain.ExtraItem, 0),
		QuantityDiscrepancies: make([]domain.QuantityDiscrepancy, 0),
		PriceDiscrepancies:    make([]domain.PriceDiscrepancy, 0),
	}

	// Receipts say "description", purchase orders say "name"; both become a label here.
	receiptLabels := make([]string, len(receipt))
	for i, item := range receipt {
		receiptLabels[i] = normalizeLabel(item.Description)
	}

	// Exact labels are claimed first so a fuzzy pairing never steals a line
	// that another purchase order item matches exactly.
	used := make([]bool, len(receipt))
	chosen := make([]int, len(po))
	sims := make([]float64, len(po))
	for i, poItem := range po {
		chosen[i] = -1
		label := normalizeLabel(poItem.Name)
		if label == "" {
			continue
		}
		for j, candidate := range receiptLabels {
			if !used[j] && candidate == label {
				used[j] = true
				chosen[i], sims[i] = j, 1
				break
			}
		}
	}
	for i, poItem := range po {
		if chosen[i] >= 0 {
			continue
		}
		best, bestSim := bestReceiptMatch(normalizeLabel(poItem.Name), receiptLabels, used)
		if best >= 0 && bestSim >= e.cfg.Items.LabelMatchThreshold {
			used[best] = true
			chosen[i], sims[i] = best, bestSim
		}
	}

	var pairTotal float64
	for i, poItem := range po {
		best := chosen[i]
		if best < 0 {
			result.MissingItems = append(result.MissingItems, domain.MissingItem{
				Name:      poItem.Name,
				Quantity:  poItem.Quantity,
				UnitPrice: poItem.UnitPrice,
			})
			continue
		}

		label := normalizeLabel(poItem.Name)
		result.MatchedCount++
		result.Matches = append(result.Matches, domain.ItemMatch{
			Label:        label,
			ReceiptLabel: receiptLabels[best],
			Similarity:   roundTo(sims[i], 4),
		})

		matched := receipt[best]
		fidelity := 1.0
		if math.Abs(matched.Quantity-poItem.Quantity) > quantityEpsilon {
			fidelity -= e.cfg.Items.QuantityPenalty
			result.QuantityDiscrepancies = append(result.QuantityDiscrepancies, domain.QuantityDiscrepancy{
				Item:            label,
				POQuantity:      poItem.Quantity,
				ReceiptQuantity: matched.Quantity,
				Difference:      matched.Quantity - poItem.Quantity,
			})
		}
		if math.Abs(matched.UnitPrice-poItem.UnitPrice) > e.cfg.Items.PriceTolerance {
			fidelity -= e.cfg.Items.PricePenalty
			result.PriceDiscrepancies = append(result.PriceDiscrepancies, domain.PriceDiscrepancy{
				Item:             label,
				POUnitPrice:      poItem.UnitPrice,
				ReceiptUnitPrice: matched.UnitPrice,
				Difference:       roundTo(matched.UnitPrice-poItem.UnitPrice, 2),
			})
		}
		pairTotal += sims[i] * fidelity
	}

	for i, item := range receipt {
		if used[i] {
			continue
		}
		result.ExtraItems = append(result.ExtraItems, domain.ExtraItem{
			Description: receiptLabels[i],
			Quantity:    item.Quantity,
			UnitPrice:   item.UnitPrice,
		})
	}

	if result.TotalItems == 0 {
		return result
	}
	total := float64(result.TotalItems)
	base := pairTotal / total
	extraFactor := total / (total + e.cfg.Items.ExtraItemWeight*float64(len(result.ExtraItems)))
	result.Score = score(base * extraFactor)
	return result
}

// bestReceiptMatch returns the unused receipt label closest to label.
// Ties keep the earliest receipt line.
func bestReceiptMatch(label string, receiptLabels []string, used []bool) (int, float64) {
	best, bestSim := -1, 0.0
	if label == "" {
		return best, bestSim
	}
	for i, candidate := range receiptLabels {
		if used[i] {
			continue
		}
		sim := textSimilarity(label, candidate)
		if sim > bestSim {
			best, bestSim = i, sim
		}
		if sim == 1 {
			break
		}
	}
	return best, bestSim
}
