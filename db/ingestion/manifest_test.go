package ingestion

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"operator-pricing/core/types"
	apperrors "operator-pricing/internal/errors"
)

func TestLoadManifest(t *testing.T) {
	m, err := LoadManifest(filepath.Join("testdata", "operators.hcl"))
	if err != nil {
		t.Fatalf("LoadManifest() error = %v", err)
	}

	if len(m.Operators) != 3 {
		t.Fatalf("operators = %d, want 3", len(m.Operators))
	}
	wantNames := []types.OperatorID{"operator_A", "operator_B", "operator_C"}
	for i, op := range m.Operators {
		if op.Name != wantNames[i] {
			t.Errorf("operator %d = %s, want %s", i, op.Name, wantNames[i])
		}
	}
	if want := filepath.Join("testdata", "operator_B.txt"); m.Operators[1].Pricelist != want {
		t.Errorf("pricelist = %q, want %q", m.Operators[1].Pricelist, want)
	}
}

func TestParseManifestErrors(t *testing.T) {
	tests := []struct {
		name string
		src  string
	}{
		{"syntax error", `operator "A" {`},
		{"missing pricelist", `operator "A" {}`},
		{"pricelist not a string", `operator "A" { pricelist = 3 }`},
		{"empty pricelist", `operator "A" { pricelist = "" }`},
		{"missing label", `operator { pricelist = "a.txt" }`},
		{"unknown block", `carrier "A" { pricelist = "a.txt" }`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseManifest([]byte(tt.src), "ops.hcl")
			if err == nil {
				t.Fatal("expected error")
			}
			if !apperrors.IsType(err, apperrors.TypeParsing) {
				t.Errorf("error = %v, want PARSING_ERROR", err)
			}
		})
	}
}

func TestLoadBook(t *testing.T) {
	m, err := LoadManifest(filepath.Join("testdata", "operators.hcl"))
	if err != nil {
		t.Fatal(err)
	}

	res, err := LoadBook(context.Background(), m, BookOptions{Read: ReadOptions{Strict: true}})
	if err != nil {
		t.Fatalf("LoadBook() error = %v", err)
	}
	if len(res.Validations) != 3 {
		t.Errorf("validations = %d, want 3", len(res.Validations))
	}

	book := res.Book
	book.SetDialNumber("4673212345")
	got := book.FindCheapestOperators()
	want := []types.OperatorID{"operator_B", "operator_C"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("FindCheapestOperators() = %v, want %v", got, want)
	}

	book.SetDialNumber("3214567890")
	if got := book.FindCheapestOperators(); len(got) != 0 {
		t.Errorf("FindCheapestOperators() = %v, want empty", got)
	}
}

func TestLoadBookDuplicateOperator(t *testing.T) {
	dir := t.TempDir()
	write := func(name, body string) {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(body), 0644); err != nil {
			t.Fatal(err)
		}
	}
	write("a.txt", "46 0.5\n")
	write("b.txt", "46 0.1\n")
	write("ops.hcl", `
operator "A" {
  pricelist = "a.txt"
}
operator "A" {
  pricelist = "b.txt"
}
`)

	m, err := LoadManifest(filepath.Join(dir, "ops.hcl"))
	if err != nil {
		t.Fatal(err)
	}
	res, err := LoadBook(context.Background(), m, BookOptions{})
	if err != nil {
		t.Fatal(err)
	}
	if res.Book.Len() != 1 {
		t.Fatalf("Len() = %d, want 1", res.Book.Len())
	}
	tbl, _ := res.Book.Table("A")
	if tbl["46"].String() != "0.5" {
		t.Errorf("price = %s, want first table's 0.5", tbl["46"])
	}
}

func TestLoadBookFailures(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "empty.txt"), []byte("\n"), 0644); err != nil {
		t.Fatal(err)
	}

	m := &Manifest{Operators: []ManifestOperator{{Name: "A", Pricelist: filepath.Join(dir, "empty.txt")}}}
	_, err := LoadBook(context.Background(), m, BookOptions{})
	if !apperrors.IsType(err, apperrors.TypeValidation) {
		t.Errorf("empty pricelist error = %v, want VALIDATION_ERROR", err)
	}

	m = &Manifest{Operators: []ManifestOperator{{Name: "A", Pricelist: filepath.Join(dir, "missing.txt")}}}
	_, err = LoadBook(context.Background(), m, BookOptions{})
	if !apperrors.IsType(err, apperrors.TypeNotFound) {
		t.Errorf("missing pricelist error = %v, want NOT_FOUND", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = LoadBook(ctx, m, BookOptions{})
	if !apperrors.IsType(err, apperrors.TypeInternal) || !errors.Is(err, context.Canceled) {
		t.Errorf("cancelled load error = %v, want INTERNAL_ERROR wrapping context.Canceled", err)
	}
}

func TestLoadBookContinueOnInvalid(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "empty.txt"), []byte("\n"), 0644); err != nil {
		t.Fatal(err)
	}

	m := &Manifest{Operators: []ManifestOperator{
		{Name: "A", Pricelist: filepath.Join(dir, "empty.txt")},
		{Name: "B", Pricelist: filepath.Join("testdata", "operator_B.txt")},
	}}
	result, err := LoadBook(context.Background(), m, BookOptions{ContinueOnInvalid: true})
	if err != nil {
		t.Fatalf("LoadBook() error = %v", err)
	}

	if len(result.Validations) != 2 {
		t.Fatalf("expected 2 validations, got %d", len(result.Validations))
	}
	rejected := result.Rejected()
	if len(rejected) != 1 || rejected[0].Operator != "A" {
		t.Errorf("Rejected() = %+v, want [A]", rejected)
	}
	if got := result.Book.Operators(); len(got) != 1 || got[0] != "B" {
		t.Errorf("Operators() = %v, want [B]", got)
	}
}
