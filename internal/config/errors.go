package config

import "errors"

// ErrReadOnlyLayer is returned by SaveToLayer when the target layer is
// System, which is built-in and immutable.
var ErrReadOnlyLayer = errors.New("config: layer is read-only")

// ErrInvalidPath is returned when a migration's dot-separated setting
// path cannot be walked (an intermediate segment isn't a map).
var ErrInvalidPath = errors.New("config: invalid setting path")
