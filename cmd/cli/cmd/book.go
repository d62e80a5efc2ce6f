package cmd

import (
	"context"
	"strings"

	"operator-pricing/core/types"
	"operator-pricing/db/ingestion"
	"operator-pricing/internal/config"
	apperrors "operator-pricing/internal/errors"
)

var (
	manifestPath string
	pricelists   []string
	strictRead   bool
)

// resolveManifest builds the operator list from --pricelist flags, falling
// back to --manifest and then to the configured manifest.
func resolveManifest() (*ingestion.Manifest, error) {
	if len(pricelists) > 0 {
		m := &ingestion.Manifest{Path: "--pricelist"}
		for _, flagValue := range pricelists {
			name, path, ok := strings.Cut(flagValue, "=")
			name = strings.TrimSpace(name)
			path = strings.TrimSpace(path)
			if !ok || name == "" || path == "" {
				return nil, apperrors.Input("--pricelist must be NAME=PATH, got " + flagValue)
			}
			m.Operators = append(m.Operators, ingestion.ManifestOperator{
				Name:      types.OperatorID(name),
				Pricelist: path,
			})
		}
		return m, nil
	}

	path := manifestPath
	if path == "" {
		path = config.Get().Pricing.Manifest
	}
	if path == "" {
		return nil, apperrors.Input("no operators: pass --manifest or --pricelist")
	}
	return ingestion.LoadManifest(path)
}

func loadBook(ctx context.Context, continueOnInvalid bool) (*ingestion.BookResult, error) {
	m, err := resolveManifest()
	if err != nil {
		return nil, err
	}

	cfg := config.Get().Pricing
	v := ingestion.NewValidator()
	v.SetMinPrefixes(cfg.MinPrefixes)
	v.SetMaxPrice(cfg.MaxPrice)

	return ingestion.LoadBook(ctx, m, ingestion.BookOptions{
		Read:              ingestion.ReadOptions{Strict: strictRead || cfg.Strict},
		Validator:         v,
		ContinueOnInvalid: continueOnInvalid,
	})
}
