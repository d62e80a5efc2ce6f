package ingestion

import (
	"strings"
	"testing"

	"github.com/shopspring/decimal"

	apperrors "operator-pricing/internal/errors"
)

func TestValidator(t *testing.T) {
	maxPrice := decimal.RequireFromString("1.0")

	tests := []struct {
		name      string
		src       string
		configure func(v *Validator)
		valid     bool
		errCount  int
	}{
		{
			name:  "default accepts non-empty table",
			src:   "46 0.2\n",
			valid: true,
		},
		{
			name:     "default rejects empty table",
			src:      "# nothing\n",
			valid:    false,
			errCount: 1,
		},
		{
			name:      "min prefixes",
			src:       "46 0.2\n47 0.3\n",
			configure: func(v *Validator) { v.SetMinPrefixes(3) },
			valid:     false,
			errCount:  1,
		},
		{
			name:      "max price reports each offending prefix",
			src:       "46 0.2\n47 1.5\n48 2\n",
			configure: func(v *Validator) { v.SetMaxPrice(&maxPrice) },
			valid:     false,
			errCount:  2,
		},
		{
			name:      "price equal to max is accepted",
			src:       "46 1.00\n",
			configure: func(v *Validator) { v.SetMaxPrice(&maxPrice) },
			valid:     true,
		},
		{
			name:      "skipped records over limit",
			src:       "46 0.2\nbad\n",
			configure: func(v *Validator) { v.SetMaxSkipped(0) },
			valid:     false,
			errCount:  1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			loaded, err := Read(strings.NewReader(tt.src), ReadOptions{})
			if err != nil {
				t.Fatal(err)
			}

			v := NewValidator()
			if tt.configure != nil {
				tt.configure(v)
			}

			res := v.Validate("A", loaded)
			if res.IsValid != tt.valid {
				t.Fatalf("IsValid = %v, want %v (errors: %v)", res.IsValid, tt.valid, res.Errors)
			}
			if len(res.Errors) != tt.errCount {
				t.Errorf("errors = %v, want %d", res.Errors, tt.errCount)
			}

			err = res.Err()
			if tt.valid && err != nil {
				t.Errorf("Err() = %v, want nil", err)
			}
			if !tt.valid && !apperrors.IsType(err, apperrors.TypeValidation) {
				t.Errorf("Err() = %v, want VALIDATION_ERROR", err)
			}
		})
	}
}
