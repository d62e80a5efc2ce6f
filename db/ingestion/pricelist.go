// Package ingestion - Pricelist reading
// A pricelist holds one record per line: "<prefix> <price>".
package ingestion

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/shopspring/decimal"

	"operator-pricing/core/number"
	"operator-pricing/core/types"
	apperrors "operator-pricing/internal/errors"
)

// ReadOptions controls how malformed records are handled
type ReadOptions struct {
	// Strict fails on the first malformed record instead of skipping it
	Strict bool

	// Source names the pricelist in error messages
	Source string
}

// SkippedRecord describes a record dropped in lenient mode
type SkippedRecord struct {
	Line   int
	Text   string
	Reason string
}

// LoadResult is a parsed pricelist
type LoadResult struct {
	Table types.PriceTable

	// Records counts accepted records, including overwritten duplicates
	Records int

	// Duplicates counts records whose prefix was already present
	Duplicates int

	Skipped []SkippedRecord
}

// Read parses a pricelist. Prefixes are normalized; a later record for the
// same prefix replaces an earlier one.
func Read(r io.Reader, opts ReadOptions) (*LoadResult, error) {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	source := opts.Source
	if source == "" {
		source = "pricelist"
	}

	result := &LoadResult{Table: make(types.PriceTable)}

	lineNo := 0
	for sc.Scan() {
		lineNo++
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		prefix, price, reason := parseRecord(line)
		if reason != "" {
			if opts.Strict {
				return nil, apperrors.Parsing(
					fmt.Sprintf("%s line %d", source, lineNo),
					fmt.Errorf("%s: %q", reason, line),
				).WithContext("line", lineNo)
			}
			result.Skipped = append(result.Skipped, SkippedRecord{Line: lineNo, Text: line, Reason: reason})
			continue
		}

		if _, exists := result.Table[prefix]; exists {
			result.Duplicates++
		}
		result.Table[prefix] = price
		result.Records++
	}

	if err := sc.Err(); err != nil {
		return nil, apperrors.Parsing("read "+source, err)
	}
	return result, nil
}

// LoadFile opens and parses a pricelist file
func LoadFile(path string, opts ReadOptions) (*LoadResult, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, apperrors.NotFound("pricelist", path)
		}
		return nil, apperrors.Wrapf(apperrors.TypeInternal, err, "open pricelist %s", path)
	}
	defer f.Close()

	if opts.Source == "" {
		opts.Source = path
	}
	return Read(f, opts)
}

func parseRecord(line string) (string, decimal.Decimal, string) {
	fields := strings.Fields(line)
	if len(fields) != 2 {
		return "", decimal.Zero, fmt.Sprintf("expected 2 fields, got %d", len(fields))
	}

	prefix := number.Normalize(fields[0])
	if prefix == "" {
		return "", decimal.Zero, "prefix has no digits"
	}

	price, err := decimal.NewFromString(strings.ReplaceAll(fields[1], ",", "."))
	if err != nil {
		return "", decimal.Zero, "bad price"
	}
	if price.IsNegative() {
		return "", decimal.Zero, "negative price"
	}
	return prefix, price, ""
}
