// Package pricebook selects the cheapest operator for a dial number.
//
// Each operator owns a prefix table. For the active dial number every
// operator is priced by its longest matching prefix, and all operators tied
// at the lowest price are returned in registration order.
//
// A PriceBook is not safe for concurrent use. SetDialNumber followed by a
// query must be serialized by the caller.
package pricebook

import (
	"github.com/shopspring/decimal"

	"operator-pricing/core/number"
	"operator-pricing/core/types"
)

// Entry pairs an operator with its table for bulk registration
type Entry struct {
	Operator types.OperatorID
	Table    types.PriceTable
}

// PriceBook holds the registered operator tables and the active dial number
type PriceBook struct {
	tables map[types.OperatorID]types.PriceTable
	order  []types.OperatorID
	dial   number.DialNumber
}

// New creates an empty price book
func New() *PriceBook {
	return &PriceBook{
		tables: make(map[types.OperatorID]types.PriceTable),
	}
}

// Register adds table under id. Registering an id that is already present
// does nothing; the first table wins.
//
// Prefixes are reduced to their digits, so "+46" and "46" name the same
// prefix and keys without digits are dropped. When two keys reduce to the
// same prefix the digit-only key wins, then the lexically smaller one.
func (b *PriceBook) Register(id types.OperatorID, table types.PriceTable) {
	if _, exists := b.tables[id]; exists {
		return
	}
	b.tables[id] = normalizeTable(table)
	b.order = append(b.order, id)
}

func normalizeTable(table types.PriceTable) types.PriceTable {
	out := make(types.PriceTable, len(table))
	source := make(map[string]string, len(table))
	for raw, price := range table {
		prefix := number.Normalize(raw)
		if prefix == "" {
			continue
		}
		if prev, ok := source[prefix]; ok && !preferKey(raw, prev, prefix) {
			continue
		}
		out[prefix] = price
		source[prefix] = raw
	}
	return out
}

// preferKey reports whether raw should replace prev for prefix
func preferKey(raw, prev, prefix string) bool {
	if prev == prefix {
		return false
	}
	if raw == prefix {
		return true
	}
	return raw < prev
}

// RegisterAll registers entries in order using the same rule as Register
func (b *PriceBook) RegisterAll(entries ...Entry) {
	for _, e := range entries {
		b.Register(e.Operator, e.Table)
	}
}

// SetDialNumber normalizes raw and makes it the active number
func (b *PriceBook) SetDialNumber(raw string) {
	b.dial = number.NewDialNumber(raw)
}

// DialNumber returns the active number
func (b *PriceBook) DialNumber() number.DialNumber {
	return b.dial
}

// Operators returns the registered operators in registration order
func (b *PriceBook) Operators() []types.OperatorID {
	out := make([]types.OperatorID, len(b.order))
	copy(out, b.order)
	return out
}

// Len returns the number of registered operators
func (b *PriceBook) Len() int {
	return len(b.order)
}

// Table returns the table registered under id
func (b *PriceBook) Table(id types.OperatorID) (types.PriceTable, bool) {
	t, ok := b.tables[id]
	if !ok {
		return nil, false
	}
	return t.Clone(), true
}

// Quotes prices the active number for every operator that has a matching
// prefix. Operators without a match are omitted.
func (b *PriceBook) Quotes() []types.Quote {
	quotes := make([]types.Quote, 0, len(b.order))
	if b.dial.IsEmpty() {
		return quotes
	}

	for _, id := range b.order {
		table := b.tables[id]
		prefix, ok := b.dial.Match(func(p string) bool {
			_, hit := table[p]
			return hit
		})
		if !ok {
			continue
		}
		quotes = append(quotes, types.Quote{
			Operator: id,
			Prefix:   prefix,
			Price:    table[prefix],
		})
	}
	return quotes
}

// FindCheapestOperators returns every operator tied at the lowest price for
// the active number, in registration order. The result is empty, not nil,
// when no operator matches.
func (b *PriceBook) FindCheapestOperators() []types.OperatorID {
	cheapest, _ := cheapestOf(b.Quotes())
	return cheapest
}

// Result is a complete lookup for one dial number
type Result struct {
	// Number is the normalized dial number
	Number string `json:"number"`

	// Candidates are the prefixes tried, longest first
	Candidates []string `json:"candidates"`

	// Quotes holds the price of every matching operator
	Quotes []types.Quote `json:"quotes"`

	// Cheapest lists the operators tied at the lowest price
	Cheapest []types.OperatorID `json:"cheapest"`

	// Price is the lowest price, nil when no operator matched
	Price *decimal.Decimal `json:"price,omitempty"`
}

// Found reports whether any operator can carry the number
func (r *Result) Found() bool {
	return len(r.Cheapest) > 0
}

// Lookup sets raw as the active number and resolves it
func (b *PriceBook) Lookup(raw string) *Result {
	b.SetDialNumber(raw)

	quotes := b.Quotes()
	cheapest, price := cheapestOf(quotes)

	return &Result{
		Number:     b.dial.Digits(),
		Candidates: b.dial.Prefixes(),
		Quotes:     quotes,
		Cheapest:   cheapest,
		Price:      price,
	}
}

func cheapestOf(quotes []types.Quote) ([]types.OperatorID, *decimal.Decimal) {
	out := make([]types.OperatorID, 0, 1)
	if len(quotes) == 0 {
		return out, nil
	}

	minPrice := quotes[0].Price
	for _, q := range quotes[1:] {
		if q.Price.LessThan(minPrice) {
			minPrice = q.Price
		}
	}

	for _, q := range quotes {
		if q.Price.Equal(minPrice) {
			out = append(out, q.Operator)
		}
	}
	return out, &minPrice
}
