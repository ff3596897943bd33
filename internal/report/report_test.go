package report

import (
	"bytes"
	"strings"
	"testing"

	"pyshrink/internal/cache"
)

func TestFilePrintsFindings(t *testing.T) {
	var out bytes.Buffer
	p := NewPrinter(&out)

	p.File(cache.FileResult{
		AbsFilePath: "/project/module.py",
		SavedBytes:  54,
		Results: []cache.StrategyOutcome{
			{
				ValidatorName: "function_inline",
				SavedBytes:    50,
				Lines:         []string{"_helper (~ 50 bytes)"},
			},
			{
				ValidatorName: "keyword_arguments",
				SavedBytes:    4,
				Lines:         []string{"3 :: show (1x) (3 bytes)"},
			},
		},
	})

	got := out.String()
	for _, want := range []string{
		"/project/module.py",
		"Potentially saved bytes: 54",
		"    function_inline",
		"        _helper (~ 50 bytes)",
		"    keyword_arguments",
		"        3 :: show (1x) (3 bytes)",
		strings.Repeat("*", 80),
	} {
		if !strings.Contains(got, want) {
			t.Fatalf("output missing %q:\n%s", want, got)
		}
	}
}

func TestFileSilentWithoutFindings(t *testing.T) {
	var out bytes.Buffer
	p := NewPrinter(&out)

	p.File(cache.FileResult{AbsFilePath: "/project/clean.py"})

	if out.Len() != 0 {
		t.Fatalf("expected no output for a clean file, got:\n%s", out.String())
	}
}

func TestTotal(t *testing.T) {
	var out bytes.Buffer
	NewPrinter(&out).Total(181)

	if !strings.Contains(out.String(), "Potentially saved bytes: 181") {
		t.Fatalf("unexpected total output: %q", out.String())
	}
}

func TestErrors(t *testing.T) {
	var out bytes.Buffer
	p := NewPrinter(&out)

	p.Errors(nil)
	if out.Len() != 0 {
		t.Fatalf("expected no output without error lines, got:\n%s", out.String())
	}

	p.Errors([]string{
		"Error happened while validating file /project/broken.py",
		"Validator: parser",
		"Err: parse failure",
	})

	got := out.String()
	for _, want := range []string{
		"Error happened while validating file /project/broken.py",
		"Validator: parser",
		"Err: parse failure",
		"ERROR: There was some unexpected issue. Please check the output above.",
	} {
		if !strings.Contains(got, want) {
			t.Fatalf("output missing %q:\n%s", want, got)
		}
	}
}
