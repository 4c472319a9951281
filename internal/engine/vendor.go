package engine

import (
	"strings"
	"unicode"

	"receipt-reconciliation/internal/domain"
)

// minPhoneDigits keeps extension-only or truncated numbers from counting as a contact match.
const minPhoneDigits = 7

// minFuzzyRunes is the core name length below which edit similarity alone
// cannot earn the high fuzzy factor; short names also need a shared word.
const minFuzzyRunes = 6

// CompareVendors scores how well the receipt vendor identifies the purchase order vendor.
func (e *Engine) CompareVendors(receipt domain.ReceiptVendor, po domain.PurchaseOrderVendor) domain.VendorComparison {
	result := domain.VendorComparison{
		ReceiptName: strings.TrimSpace(receipt.Name),
		POName:      strings.TrimSpace(po.Name),
	}

	rTokens, pTokens := canonicalTokens(receipt.Name), canonicalTokens(po.Name)
	if len(rTokens) == 0 || len(pTokens) == 0 {
		return result
	}

	rName, pName := strings.Join(rTokens, " "), strings.Join(pTokens, " ")
	var s float64
	if rName == pName {
		s = 1
		result.NameMatch = true
		result.Similarity = 1
	} else {
		rCore, pCore := coreTokens(rTokens), coreTokens(pTokens)
		rCoreName, pCoreName := strings.Join(rCore, " "), strings.Join(pCore, " ")
		result.Similarity = roundTo(textSimilarity(rCoreName, pCoreName), 4)
		longEnough := min(len([]rune(rCoreName)), len([]rune(pCoreName))) >= minFuzzyRunes

		switch {
		case rCoreName == pCoreName, containsRun(rCore, pCore), containsRun(pCore, rCore):
			s = e.cfg.Vendor.PartialScore
			result.PartialMatch = true
		case result.Similarity >= e.cfg.Vendor.FuzzyCutoff && (longEnough || sharesToken(rCore, pCore)):
			s = result.Similarity * e.cfg.Vendor.FuzzyHigh
		default:
			s = result.Similarity * e.cfg.Vendor.FuzzyLow
		}
	}

	if contactMatches(receipt, po) {
		result.ContactMatch = true
		s += e.cfg.Vendor.ContactBonus
	}
	result.Score = score(s)
	return result
}

func sharesToken(a, b []string) bool {
	for _, x := range a {
		for _, y := range b {
			if x == y {
				return true
			}
		}
	}
	return false
}

func contactMatches(receipt domain.ReceiptVendor, po domain.PurchaseOrderVendor) bool {
	if re, pe := normalizeEmail(receipt.Email), normalizeEmail(po.Email); re != "" && re == pe {
		return true
	}
	rp, pp := phoneDigits(receipt.Phone), phoneDigits(po.Phone)
	return len(rp) >= minPhoneDigits && rp == pp
}

func normalizeEmail(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

func phoneDigits(s string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsDigit(r) {
			return r
		}
		return -1
	}, s)
}
