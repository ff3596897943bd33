package app

import (
	"encoding/json"
	"os"
	"strings"

	"pyshrink/internal/errors"
)

// IgnoreData suppresses selected warnings for selected files. Only
// function inlining is supported so far, but the format leaves room
// for more strategies.
type IgnoreData struct {
	FunctionInline map[string][]string `json:"function_inline"`
}

// LoadIgnoreData reads the ignore file at path.
func LoadIgnoreData(path string) (*IgnoreData, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, errors.CodeNotFound, "read ignore file").
			WithContext(errors.CtxPath, path)
	}

	var ignore IgnoreData
	if err := json.Unmarshal(data, &ignore); err != nil {
		return nil, errors.Wrap(err, errors.CodeValidation, "parse ignore file").
			WithContext(errors.CtxPath, path)
	}
	return &ignore, nil
}

// NotInlineable returns function names that must not be reported as
// inline candidates for absPath. Ignore-file keys match against the
// ending of the absolute path, so relative keys work from any
// checkout location.
func (d *IgnoreData) NotInlineable(absPath string) []string {
	if d == nil {
		return nil
	}
	for file, functions := range d.FunctionInline {
		if strings.HasSuffix(absPath, file) {
			return functions
		}
	}
	return nil
}
