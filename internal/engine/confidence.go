package engine

import "receipt-reconciliation/internal/domain"

// ClassifyConfidence maps a verdict's overall score and flags to a confidence tier.
// Any major-mismatch flag forces LOW whatever the score.
func (e *Engine) ClassifyConfidence(v domain.ValidationVerdict) domain.ConfidenceLevel {
	if v.Flags.HasMajorMismatch() {
		return domain.ConfidenceLow
	}
	switch {
	case v.OverallScore >= e.cfg.Confidence.High:
		return domain.ConfidenceHigh
	case v.OverallScore >= e.cfg.Confidence.Medium:
		return domain.ConfidenceMedium
	default:
		return domain.ConfidenceLow
	}
}
