// Package api - Request and response types
package api

import (
	"github.com/shopspring/decimal"

	"operator-pricing/core/types"
)

// CheapestRequest asks for the cheapest operator for one number
type CheapestRequest struct {
	// Number is the dialed number in any formatting
	Number string `json:"number" validate:"required,max=64"`
}

// CheapestResponse is the lookup outcome. Operators is empty when no
// operator can carry the number.
type CheapestResponse struct {
	RequestID  string             `json:"request_id"`
	Number     string             `json:"number"`
	Operators  []types.OperatorID `json:"operators"`
	Price      *decimal.Decimal   `json:"price,omitempty"`
	Quotes     []types.Quote      `json:"quotes,omitempty"`
	DurationMs int64              `json:"duration_ms"`
}

// OperatorsResponse lists registered operators in registration order
type OperatorsResponse struct {
	Operators []OperatorInfo `json:"operators"`
}

// OperatorInfo summarizes one registered table
type OperatorInfo struct {
	ID       types.OperatorID `json:"id"`
	Prefixes int              `json:"prefixes"`
}

// ErrorResponse is the body of every non-2xx response
type ErrorResponse struct {
	Code      string       `json:"code"`
	Message   string       `json:"message"`
	Fields    []FieldError `json:"fields,omitempty"`
	RequestID string       `json:"request_id,omitempty"`
}

// FieldError describes one failed request field
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}
