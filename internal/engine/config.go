package engine

import (
	"fmt"
	"math"

	"github.com/go-playground/validator/v10"
)

// Weights are the convex combination coefficients of the family scores.
type Weights struct {
	Vendor float64 `mapstructure:"vendor" json:"vendor" validate:"gte=0,lte=1"`
	Totals float64 `mapstructure:"totals" json:"totals" validate:"gte=0,lte=1"`
	Items  float64 `mapstructure:"items" json:"items" validate:"gte=0,lte=1"`
	Date   float64 `mapstructure:"date" json:"date" validate:"gte=0,lte=1"`
}

// Sum returns the total of all weights.
func (w Weights) Sum() float64 {
	return w.Vendor + w.Totals + w.Items + w.Date
}

// FamilyThresholds holds one score threshold per comparator family.
type FamilyThresholds struct {
	Vendor float64 `mapstructure:"vendor" json:"vendor" validate:"gte=0,lte=1"`
	Totals float64 `mapstructure:"totals" json:"totals" validate:"gte=0,lte=1"`
	Items  float64 `mapstructure:"items" json:"items" validate:"gte=0,lte=1"`
	Date   float64 `mapstructure:"date" json:"date" validate:"gte=0,lte=1"`
}

// SeverityGaps grade a discrepancy by how far its score falls below the threshold.
type SeverityGaps struct {
	High   float64 `mapstructure:"high" json:"high" validate:"gte=0,lte=1"`
	Medium float64 `mapstructure:"medium" json:"medium" validate:"gte=0,lte=1"`
}

// ConfidenceCutPoints are the lower bounds of the HIGH and MEDIUM tiers.
type ConfidenceCutPoints struct {
	High   float64 `mapstructure:"high" json:"high" validate:"gte=0,lte=1"`
	Medium float64 `mapstructure:"medium" json:"medium" validate:"gte=0,lte=1"`
}

// FraudThresholds configure the advisory fraud heuristics.
type FraudThresholds struct {
	AmountPercentage         float64 `mapstructure:"amount_percentage" json:"amount_percentage" validate:"gt=0"`
	VendorScore              float64 `mapstructure:"vendor_score" json:"vendor_score" validate:"gte=0,lte=1"`
	ExtraItemsCount          int     `mapstructure:"extra_items_count" json:"extra_items_count" validate:"gte=1"`
	PriceInflationPercentage float64 `mapstructure:"price_inflation_percentage" json:"price_inflation_percentage" validate:"gt=0"`
}

// VendorScoring tunes the vendor comparator.
type VendorScoring struct {
	PartialScore float64 `mapstructure:"partial_score" json:"partial_score" validate:"gte=0,lte=1"`
	ContactBonus float64 `mapstructure:"contact_bonus" json:"contact_bonus" validate:"gte=0,lte=1"`
	FuzzyCutoff  float64 `mapstructure:"fuzzy_cutoff" json:"fuzzy_cutoff" validate:"gte=0,lte=1"`
	FuzzyHigh    float64 `mapstructure:"fuzzy_high" json:"fuzzy_high" validate:"gte=0,lte=1"`
	FuzzyLow     float64 `mapstructure:"fuzzy_low" json:"fuzzy_low" validate:"gte=0,lte=1"`
}

// ItemScoring tunes the line items comparator.
type ItemScoring struct {
	LabelMatchThreshold float64 `mapstructure:"label_match_threshold" json:"label_match_threshold" validate:"gt=0,lte=1"`
	QuantityPenalty     float64 `mapstructure:"quantity_penalty" json:"quantity_penalty" validate:"gte=0,lte=0.5"`
	PricePenalty        float64 `mapstructure:"price_penalty" json:"price_penalty" validate:"gte=0,lte=0.5"`
	PriceTolerance      float64 `mapstructure:"price_tolerance" json:"price_tolerance" validate:"gte=0"`
	ExtraItemWeight     float64 `mapstructure:"extra_item_weight" json:"extra_item_weight" validate:"gte=0"`
}

// DateScoring tunes the transaction date comparator.
type DateScoring struct {
	UnknownScore         float64 `mapstructure:"unknown_score" json:"unknown_score" validate:"gte=0,lte=1"`
	BeforeOrderGraceDays int     `mapstructure:"before_order_grace_days" json:"before_order_grace_days" validate:"gte=0"`
}

// Config centralizes every weight, threshold and cut point the engine uses.
type Config struct {
	Weights                 Weights             `mapstructure:"weights" json:"weights"`
	DiscrepancyThresholds   FamilyThresholds    `mapstructure:"discrepancy_thresholds" json:"discrepancy_thresholds"`
	MajorMismatchThresholds FamilyThresholds    `mapstructure:"major_mismatch_thresholds" json:"major_mismatch_thresholds"`
	ManualReviewThreshold   float64             `mapstructure:"manual_review_threshold" json:"manual_review_threshold" validate:"gte=0,lte=1"`
	Severity                SeverityGaps        `mapstructure:"severity" json:"severity"`
	Confidence              ConfidenceCutPoints `mapstructure:"confidence" json:"confidence"`
	Fraud                   FraudThresholds     `mapstructure:"fraud" json:"fraud"`
	Vendor                  VendorScoring       `mapstructure:"vendor" json:"vendor"`
	Items                   ItemScoring         `mapstructure:"items" json:"items"`
	Dates                   DateScoring         `mapstructure:"dates" json:"dates"`

	// ArithmeticTolerance is the allowed subtotal+tax vs total disagreement, in percent.
	ArithmeticTolerance float64 `mapstructure:"arithmetic_tolerance" json:"arithmetic_tolerance" validate:"gte=0"`
}

// DefaultConfig returns the production tuning.
// Vendor and totals carry most of the weight; date is a weak signal.
func DefaultConfig() Config {
	return Config{
		Weights: Weights{
			Vendor: 0.30,
			Totals: 0.35,
			Items:  0.25,
			Date:   0.10,
		},
		DiscrepancyThresholds: FamilyThresholds{
			Vendor: 0.8,
			Totals: 0.9,
			Items:  0.9,
			Date:   0.7,
		},
		MajorMismatchThresholds: FamilyThresholds{
			Vendor: 0.5,
			Totals: 0.5,
			Items:  0.5,
		},
		ManualReviewThreshold: 0.7,
		Severity: SeverityGaps{
			High:   0.5,
			Medium: 0.2,
		},
		Confidence: ConfidenceCutPoints{
			High:   0.9,
			Medium: 0.7,
		},
		Fraud: FraudThresholds{
			AmountPercentage:         50,
			VendorScore:              0.2,
			ExtraItemsCount:          2,
			PriceInflationPercentage: 25,
		},
		Vendor: VendorScoring{
			PartialScore: 0.8,
			ContactBonus: 0.1,
			FuzzyCutoff:  0.5,
			FuzzyHigh:    0.7,
			FuzzyLow:     0.4,
		},
		Items: ItemScoring{
			LabelMatchThreshold: 0.8,
			QuantityPenalty:     0.25,
			PricePenalty:        0.25,
			PriceTolerance:      0.01,
			ExtraItemWeight:     0.5,
		},
		Dates: DateScoring{
			UnknownScore:         0.5,
			BeforeOrderGraceDays: 1,
		},
		ArithmeticTolerance: 1,
	}
}

// Validate checks field ranges and the cross-field rules the scoring relies on.
func (c Config) Validate() error {
	validate := validator.New()
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("engine config: %w", err)
	}
	if math.Abs(c.Weights.Sum()-1) > 1e-6 {
		return fmt.Errorf("engine config: weights must sum to 1.0, got %.4f", c.Weights.Sum())
	}
	if c.Confidence.Medium > c.Confidence.High {
		return fmt.Errorf("engine config: confidence medium cut point %.2f exceeds high %.2f", c.Confidence.Medium, c.Confidence.High)
	}
	if c.Severity.Medium > c.Severity.High {
		return fmt.Errorf("engine config: severity medium gap %.2f exceeds high %.2f", c.Severity.Medium, c.Severity.High)
	}
	if c.Vendor.FuzzyHigh > c.Vendor.PartialScore {
		return fmt.Errorf("engine config: fuzzy vendor factor %.2f exceeds partial score %.2f", c.Vendor.FuzzyHigh, c.Vendor.PartialScore)
	}
	return nil
}
