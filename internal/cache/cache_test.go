package cache

import (
	"os"
	"path/filepath"
	"testing"
)

func sampleResult(path string) FileResult {
	return FileResult{
		AbsFilePath: path,
		SavedBytes:  12,
		Results: []StrategyOutcome{
			{
				ValidatorName: "keyword_arguments",
				SavedBytes:    12,
				Lines:         []string{"7 :: show (4x) (12 bytes)"},
			},
		},
		FileHash: "0123456789abcdef0123456789abcdef",
	}
}

func TestLookupRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cache.json")

	c := Open(path, false)
	result := sampleResult("/some/file.py")
	c.Store(result)
	if err := c.Save(); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	reloaded := Open(path, false)
	got, ok := reloaded.Lookup("/some/file.py", result.FileHash)
	if !ok {
		t.Fatal("expected cache hit after reload")
	}
	if got.SavedBytes != 12 {
		t.Errorf("saved bytes = %d, want 12", got.SavedBytes)
	}
	if len(got.Results) != 1 || got.Results[0].ValidatorName != "keyword_arguments" {
		t.Errorf("unexpected results: %+v", got.Results)
	}
}

func TestLookupMissesOnHashChange(t *testing.T) {
	c := Open(filepath.Join(t.TempDir(), "cache.json"), false)
	c.Store(sampleResult("/some/file.py"))

	if _, ok := c.Lookup("/some/file.py", "different-hash"); ok {
		t.Error("expected miss for changed content hash")
	}
	if _, ok := c.Lookup("/other/file.py", "0123456789abcdef0123456789abcdef"); ok {
		t.Error("expected miss for unknown path")
	}
}

func TestForceInvalidAlwaysMisses(t *testing.T) {
	c := Open(filepath.Join(t.TempDir(), "cache.json"), true)
	result := sampleResult("/some/file.py")
	c.Store(result)

	if _, ok := c.Lookup("/some/file.py", result.FileHash); ok {
		t.Error("forced-invalid cache should never hit")
	}
}

func TestOpenToleratesCorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cache.json")
	if err := os.WriteFile(path, []byte("{not json"), 0o644); err != nil {
		t.Fatal(err)
	}

	c := Open(path, false)
	if _, ok := c.Lookup("/some/file.py", "abc"); ok {
		t.Error("corrupt cache should behave as empty")
	}

	// It must still be usable and saveable afterwards.
	c.Store(sampleResult("/some/file.py"))
	if err := c.Save(); err != nil {
		t.Fatalf("Save after corrupt load failed: %v", err)
	}
}

func TestContentHash(t *testing.T) {
	// md5("abc")
	if got := ContentHash([]byte("abc")); got != "900150983cd24fb0d6963f7d28e17f72" {
		t.Errorf("ContentHash = %q", got)
	}
}
