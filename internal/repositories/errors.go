package repositories

import "errors"

// ErrEmptyProfile indicates a store constructed without a profile name.
var ErrEmptyProfile = errors.New("profile must not be empty")
