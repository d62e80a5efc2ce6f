// Package ingestion - Pricelist governance
package ingestion

import (
	"fmt"
	"sort"

	"github.com/shopspring/decimal"

	"operator-pricing/core/types"
	apperrors "operator-pricing/internal/errors"
)

// Validator checks loaded pricelists before they reach the price book
type Validator struct {
	minPrefixes int
	maxPrice    *decimal.Decimal
	maxSkipped  int
}

// NewValidator creates a validator that requires at least one prefix
func NewValidator() *Validator {
	return &Validator{
		minPrefixes: 1,
		maxSkipped:  -1,
	}
}

// SetMinPrefixes sets the smallest acceptable table size
func (v *Validator) SetMinPrefixes(n int) {
	v.minPrefixes = n
}

// SetMaxPrice rejects tables containing a price above limit (nil = unbounded)
func (v *Validator) SetMaxPrice(limit *decimal.Decimal) {
	v.maxPrice = limit
}

// SetMaxSkipped rejects pricelists with more skipped records (-1 = unlimited)
func (v *Validator) SetMaxSkipped(n int) {
	v.maxSkipped = n
}

// ValidationResult contains validation outcome
type ValidationResult struct {
	Operator types.OperatorID
	IsValid  bool
	Prefixes int
	Skipped  int
	Errors   []string
}

// Err returns the failures as a validation error, or nil
func (r *ValidationResult) Err() error {
	if r.IsValid {
		return nil
	}
	return apperrors.Newf(apperrors.TypeValidation, "pricelist for %s rejected: %v", r.Operator, r.Errors).
		WithContext("operator", string(r.Operator))
}

// Validate checks one loaded pricelist
func (v *Validator) Validate(id types.OperatorID, loaded *LoadResult) *ValidationResult {
	result := &ValidationResult{
		Operator: id,
		IsValid:  true,
		Prefixes: len(loaded.Table),
		Skipped:  len(loaded.Skipped),
	}

	if result.Prefixes < v.minPrefixes {
		result.Errors = append(result.Errors,
			fmt.Sprintf("%d prefixes, need at least %d", result.Prefixes, v.minPrefixes))
	}

	if v.maxSkipped >= 0 && result.Skipped > v.maxSkipped {
		result.Errors = append(result.Errors,
			fmt.Sprintf("%d malformed records, allowed %d", result.Skipped, v.maxSkipped))
	}

	if v.maxPrice != nil {
		var over []string
		for prefix, price := range loaded.Table {
			if price.GreaterThan(*v.maxPrice) {
				over = append(over, prefix)
			}
		}
		sort.Strings(over)
		for _, prefix := range over {
			result.Errors = append(result.Errors,
				fmt.Sprintf("prefix %s price %s exceeds %s", prefix, loaded.Table[prefix], v.maxPrice))
		}
	}

	result.IsValid = len(result.Errors) == 0
	return result
}
