package config

import (
	"os"

	"github.com/tidwall/pretty"
	"github.com/tidwall/sjson"

	"github.com/freshkit/fresh/internal/clock"
)

// SaveToLayer computes diff(newValue, resolveBelow(target)) and writes
// it to target's file as pretty-printed JSON, replacing the layer's
// in-memory Data with the same minimal partial. Writing is done
// path-wise with sjson rather than a single json.Marshal of the whole
// partial, since a layer file is naturally "only the pointers that
// differ from what's below" rather than a full tree serialization.
func SaveToLayer(r *Resolver, target Source, newValue map[string]any, src clock.Source) (map[string]any, error) {
	layer := r.layers[target]
	if layer.ReadOnly {
		return nil, ErrReadOnlyLayer
	}

	parent := r.resolveBelow(target)
	partial := Diff(newValue, map[string]any(parent))

	raw, err := marshalPartial(partial)
	if err != nil {
		return nil, err
	}

	if layer.Path != "" {
		if err := os.WriteFile(layer.Path, pretty.Pretty(raw), 0o644); err != nil {
			return nil, err
		}
	}

	layer.Data = partial
	if src != nil {
		layer.ModTime = src.Now()
	}
	return partial, nil
}

// marshalPartial serializes a nested map into JSON bytes by setting
// each flattened leaf path with sjson, so the write path exercises the
// same path-wise machinery a future incremental-patch writer would.
func marshalPartial(partial map[string]any) ([]byte, error) {
	raw := []byte("{}")
	leaves := FlattenMap(partial)
	var err error
	for path, val := range leaves {
		raw, err = sjson.SetBytes(raw, path, val)
		if err != nil {
			return nil, err
		}
	}
	return raw, nil
}
