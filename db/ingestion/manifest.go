// Package ingestion - Operator manifest
//
// A manifest lists the operators to load, in order:
//
//	operator "operator_A" {
//	  pricelist = "operator_A.txt"
//	}
package ingestion

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/zclconf/go-cty/cty"

	"operator-pricing/core/types"
	apperrors "operator-pricing/internal/errors"
)

// ManifestOperator is one operator entry of a manifest
type ManifestOperator struct {
	Name      types.OperatorID
	Pricelist string
}

// Manifest is a parsed operator manifest
type Manifest struct {
	Path      string
	Operators []ManifestOperator
}

var manifestSchema = &hcl.BodySchema{
	Blocks: []hcl.BlockHeaderSchema{
		{Type: "operator", LabelNames: []string{"name"}},
	},
}

var operatorSchema = &hcl.BodySchema{
	Attributes: []hcl.AttributeSchema{
		{Name: "pricelist", Required: true},
	},
}

// LoadManifest reads a manifest file. Relative pricelist paths resolve
// against the manifest's directory.
func LoadManifest(path string) (*Manifest, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, apperrors.NotFound("manifest", path)
		}
		return nil, apperrors.Wrapf(apperrors.TypeInternal, err, "read manifest %s", path)
	}

	m, err := ParseManifest(src, path)
	if err != nil {
		return nil, err
	}

	base := filepath.Dir(path)
	for i := range m.Operators {
		if !filepath.IsAbs(m.Operators[i].Pricelist) {
			m.Operators[i].Pricelist = filepath.Join(base, m.Operators[i].Pricelist)
		}
	}
	return m, nil
}

// ParseManifest parses manifest source. filename is used in diagnostics only.
func ParseManifest(src []byte, filename string) (*Manifest, error) {
	parser := hclparse.NewParser()
	file, diags := parser.ParseHCL(src, filename)
	if diags.HasErrors() {
		return nil, diagError(filename, diags)
	}

	content, diags := file.Body.Content(manifestSchema)
	if diags.HasErrors() {
		return nil, diagError(filename, diags)
	}

	m := &Manifest{Path: filename}
	for _, block := range content.Blocks {
		name := strings.TrimSpace(block.Labels[0])
		if name == "" {
			return nil, apperrors.Newf(apperrors.TypeParsing, "%s: operator name is empty", filename).
				WithContext("line", block.DefRange.Start.Line)
		}

		inner, diags := block.Body.Content(operatorSchema)
		if diags.HasErrors() {
			return nil, diagError(filename, diags)
		}

		attr := inner.Attributes["pricelist"]
		val, diags := attr.Expr.Value(nil)
		if diags.HasErrors() {
			return nil, diagError(filename, diags)
		}
		if val.IsNull() || !val.IsKnown() || val.Type() != cty.String || val.AsString() == "" {
			return nil, apperrors.Newf(apperrors.TypeParsing,
				"%s:%d: operator %q: pricelist must be a non-empty string",
				filename, attr.Range.Start.Line, name)
		}

		m.Operators = append(m.Operators, ManifestOperator{
			Name:      types.OperatorID(name),
			Pricelist: val.AsString(),
		})
	}

	return m, nil
}

func diagError(filename string, diags hcl.Diagnostics) error {
	var msgs []string
	for _, diag := range diags {
		if diag.Severity != hcl.DiagError {
			continue
		}
		line := 0
		if diag.Subject != nil {
			line = diag.Subject.Start.Line
		}
		msgs = append(msgs, fmt.Sprintf("line %d: %s: %s", line, diag.Summary, diag.Detail))
	}
	return apperrors.Newf(apperrors.TypeParsing, "%s: %s", filename, strings.Join(msgs, "; "))
}
