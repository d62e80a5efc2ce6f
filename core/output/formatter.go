// Package output renders lookup results for humans and machines.
package output

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"operator-pricing/core/pricebook"
	apperrors "operator-pricing/internal/errors"
)

// Format represents output format type
type Format string

const (
	// FormatCLI is a human-readable text block
	FormatCLI Format = "cli"

	// FormatJSON is machine-readable JSON
	FormatJSON Format = "json"
)

// Formatter produces output in a specific format
type Formatter interface {
	// Format returns the format type
	Format() Format

	// Render writes the results of one or more lookups
	Render(w io.Writer, results []*pricebook.Result) error
}

// Options tunes rendering
type Options struct {
	// ShowQuotes lists every matching operator, not only the cheapest
	ShowQuotes bool
}

// NewFormatter returns the formatter for name
func NewFormatter(name string, opts Options) (Formatter, error) {
	switch Format(strings.ToLower(name)) {
	case FormatCLI, "":
		return &CLIFormatter{opts: opts}, nil
	case FormatJSON:
		return &JSONFormatter{}, nil
	default:
		return nil, apperrors.NotSupported("output format " + name)
	}
}

// CLIFormatter renders a short text block per number
type CLIFormatter struct {
	opts Options
}

// Format returns FormatCLI
func (f *CLIFormatter) Format() Format {
	return FormatCLI
}

// Render writes one block per result
func (f *CLIFormatter) Render(w io.Writer, results []*pricebook.Result) error {
	for i, r := range results {
		if i > 0 {
			if _, err := fmt.Fprintln(w); err != nil {
				return err
			}
		}
		if err := f.renderOne(w, r); err != nil {
			return err
		}
	}
	return nil
}

func (f *CLIFormatter) renderOne(w io.Writer, r *pricebook.Result) error {
	if !r.Found() {
		_, err := fmt.Fprintf(w, "%s: no operator\n", displayNumber(r.Number))
		return err
	}

	names := make([]string, len(r.Cheapest))
	for i, id := range r.Cheapest {
		names[i] = id.String()
	}
	if _, err := fmt.Fprintf(w, "%s: %s @ %s\n", r.Number, strings.Join(names, ", "), r.Price.String()); err != nil {
		return err
	}

	if !f.opts.ShowQuotes {
		return nil
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "  OPERATOR\tPREFIX\tPRICE")
	for _, q := range r.Quotes {
		fmt.Fprintf(tw, "  %s\t%s\t%s\n", q.Operator, q.Prefix, q.Price.String())
	}
	return tw.Flush()
}

func displayNumber(n string) string {
	if n == "" {
		return "(empty)"
	}
	return n
}

// JSONFormatter renders results as a JSON array
type JSONFormatter struct{}

// Format returns FormatJSON
func (f *JSONFormatter) Format() Format {
	return FormatJSON
}

// Render writes results as indented JSON
func (f *JSONFormatter) Render(w io.Writer, results []*pricebook.Result) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(results)
}
