package videos

import "errors"

var (
	// ErrProviderUnavailable indicates no metadata provider is configured.
	ErrProviderUnavailable = errors.New("video metadata provider unavailable")
	// ErrEmptyMetadata indicates the provider answered without any usable field.
	ErrEmptyMetadata = errors.New("provider returned empty metadata")
)
