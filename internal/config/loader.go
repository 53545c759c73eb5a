package config

import (
	"os"

	"github.com/tidwall/gjson"
)

// LoadLayerFile reads a JSON layer file from disk and returns its
// contents as a generic tree. A missing file yields an empty layer, not
// an error, since an unconfigured layer is the common case. Parsing
// uses gjson's value extraction rather than encoding/json, matching
// the rest of the package's path-wise JSON handling.
func LoadLayerFile(source Source, path string) (*Layer, error) {
	l := &Layer{Source: source, Path: path, Data: map[string]any{}, ReadOnly: source == System}
	raw, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return l, nil
		}
		return nil, err
	}

	parsed := gjson.ParseBytes(raw)
	if !parsed.IsObject() {
		return l, nil
	}
	if m, ok := parsed.Value().(map[string]any); ok {
		l.Data = m
	}
	info, err := os.Stat(path)
	if err == nil {
		l.ModTime = info.ModTime()
	}
	return l, nil
}
