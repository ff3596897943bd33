package cache

import (
	"crypto/md5"
	"encoding/hex"
	"encoding/json"
	"os"
	"path/filepath"

	"pyshrink/internal/errors"
)

// StrategyOutcome is one strategy's result for a file, as persisted.
type StrategyOutcome struct {
	ValidatorName string   `json:"validator_name"`
	SavedBytes    int      `json:"saved_bytes"`
	Lines         []string `json:"lines"`
}

// FileResult is the cached analysis of a single file.
type FileResult struct {
	AbsFilePath string            `json:"abs_file_path"`
	SavedBytes  int               `json:"saved_bytes"`
	Results     []StrategyOutcome `json:"results"`
	FileHash    string            `json:"file_hash"`
}

// ResultCache persists per-file results keyed by absolute path so
// unchanged files skip re-analysis. Entries are valid while the
// stored content hash matches.
type ResultCache struct {
	path         string
	forceInvalid bool
	entries      map[string]FileResult
}

// Open loads the cache at path. A missing or corrupt file yields an
// empty cache rather than an error. With forceInvalid set, lookups
// always miss but results are still recorded for the next run.
func Open(path string, forceInvalid bool) *ResultCache {
	c := &ResultCache{
		path:         path,
		forceInvalid: forceInvalid,
		entries:      make(map[string]FileResult),
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return c
	}
	if err := json.Unmarshal(data, &c.entries); err != nil {
		c.entries = make(map[string]FileResult)
	}
	return c
}

// Lookup returns the cached result for absPath when the stored hash
// matches the current content hash.
func (c *ResultCache) Lookup(absPath string, contentHash string) (FileResult, bool) {
	if c.forceInvalid {
		return FileResult{}, false
	}
	entry, ok := c.entries[absPath]
	if !ok || entry.FileHash != contentHash {
		return FileResult{}, false
	}
	return entry, true
}

func (c *ResultCache) Store(result FileResult) {
	c.entries[result.AbsFilePath] = result
}

// Save writes the cache atomically via a temp file rename.
func (c *ResultCache) Save() error {
	data, err := json.MarshalIndent(c.entries, "", "  ")
	if err != nil {
		return errors.Wrap(err, errors.CodeInternal, "marshal result cache")
	}

	dir := filepath.Dir(c.path)
	tmp, err := os.CreateTemp(dir, ".pyshrink-cache-*")
	if err != nil {
		return errors.Wrap(err, errors.CodeInternal, "create cache temp file").
			WithContext(errors.CtxPath, c.path)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return errors.Wrap(err, errors.CodeInternal, "write cache temp file").
			WithContext(errors.CtxPath, tmpName)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return errors.Wrap(err, errors.CodeInternal, "close cache temp file").
			WithContext(errors.CtxPath, tmpName)
	}
	if err := os.Rename(tmpName, c.path); err != nil {
		os.Remove(tmpName)
		return errors.Wrap(err, errors.CodeInternal, "replace cache file").
			WithContext(errors.CtxPath, c.path)
	}
	return nil
}

// ContentHash hashes file content the same way cached entries were
// hashed when stored.
func ContentHash(content []byte) string {
	sum := md5.Sum(content)
	return hex.EncodeToString(sum[:])
}
