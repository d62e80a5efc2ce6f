// Package types - Pricing types shared by the price book and its collaborators
package types

import (
	"github.com/shopspring/decimal"
)

// OperatorID identifies one operator's pricing source.
// It carries no information about where the pricing data came from.
type OperatorID string

// String returns the identifier as a plain string
func (id OperatorID) String() string {
	return string(id)
}

// Price is a non-negative per-call price attached to a prefix
type Price = decimal.Decimal

// PriceTable maps a digit-only prefix to its price
type PriceTable map[string]Price

// Clone returns an independent copy of the table
func (t PriceTable) Clone() PriceTable {
	out := make(PriceTable, len(t))
	for prefix, price := range t {
		out[prefix] = price
	}
	return out
}

// Lookup returns the price for an exact prefix
func (t PriceTable) Lookup(prefix string) (Price, bool) {
	price, ok := t[prefix]
	return price, ok
}

// Quote is the price an operator charges for the active dial number
type Quote struct {
	// Operator is the quoting operator
	Operator OperatorID `json:"operator"`

	// Prefix is the longest table prefix that matched the number
	Prefix string `json:"prefix"`

	// Price is the price attached to Prefix
	Price Price `json:"price"`
}
