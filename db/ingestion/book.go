// Package ingestion - Price book assembly
package ingestion

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"operator-pricing/core/pricebook"
	"operator-pricing/core/types"
	apperrors "operator-pricing/internal/errors"
	"operator-pricing/internal/logging"
)

// BookOptions controls LoadBook
type BookOptions struct {
	Read      ReadOptions
	Validator *Validator

	// ContinueOnInvalid skips rejected pricelists instead of aborting,
	// so every operator gets a ValidationResult
	ContinueOnInvalid bool
}

// BookResult is a loaded price book with per-operator validation
type BookResult struct {
	Book        *pricebook.PriceBook
	Validations []*ValidationResult
	Duration    time.Duration
}

// Rejected returns the validations that failed, in manifest order
func (r *BookResult) Rejected() []*ValidationResult {
	var out []*ValidationResult
	for _, v := range r.Validations {
		if !v.IsValid {
			out = append(out, v)
		}
	}
	return out
}

// LoadBook reads every pricelist of the manifest and registers the tables
// in manifest order. A rejected pricelist aborts the load unless
// opts.ContinueOnInvalid is set, in which case it is left out of the book.
func LoadBook(ctx context.Context, m *Manifest, opts BookOptions) (*BookResult, error) {
	start := time.Now()

	validator := opts.Validator
	if validator == nil {
		validator = NewValidator()
	}

	result := &BookResult{Book: pricebook.New()}
	seen := make(map[types.OperatorID]bool)

	for _, op := range m.Operators {
		if err := ctx.Err(); err != nil {
			return nil, apperrors.Internal("load cancelled", err)
		}

		if seen[op.Name] {
			logging.Warn("duplicate operator in manifest ignored",
				zap.String("operator", op.Name.String()),
				zap.String("pricelist", op.Pricelist))
			continue
		}
		seen[op.Name] = true

		readOpts := opts.Read
		readOpts.Source = op.Pricelist
		loaded, err := LoadFile(op.Pricelist, readOpts)
		if err != nil {
			return nil, fmt.Errorf("load operator %s: %w", op.Name, err)
		}

		for _, s := range loaded.Skipped {
			logging.Debug("skipped pricelist record",
				zap.String("operator", op.Name.String()),
				zap.Int("line", s.Line),
				zap.String("reason", s.Reason))
		}

		vr := validator.Validate(op.Name, loaded)
		result.Validations = append(result.Validations, vr)
		if err := vr.Err(); err != nil {
			if !opts.ContinueOnInvalid {
				return nil, err
			}
			logging.Warn("pricelist rejected",
				zap.String("operator", op.Name.String()),
				zap.Strings("errors", vr.Errors))
			continue
		}

		result.Book.Register(op.Name, loaded.Table)
		logging.Info("pricelist loaded",
			zap.String("operator", op.Name.String()),
			zap.Int("prefixes", len(loaded.Table)),
			zap.Int("duplicates", loaded.Duplicates),
			zap.Int("skipped", len(loaded.Skipped)))
	}

	result.Duration = time.Since(start)
	return result, nil
}
