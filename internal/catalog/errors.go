package catalog

import "errors"

// ErrInvalidPatch indicates an update carried a value the catalog cannot accept.
var ErrInvalidPatch = errors.New("invalid video patch")
