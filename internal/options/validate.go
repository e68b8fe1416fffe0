// Package options provides shared utilities for option validation across packages.
package options

import "github.com/erraggy/oasref/oaserrors"

// ValidateSingleInputSource ensures exactly one input source is specified.
// sources is a variadic list of booleans indicating whether each source is set.
// noSourceMsg is the error message when no source is specified.
// multiSourceMsg is the error message when multiple sources are specified.
func ValidateSingleInputSource(noSourceMsg, multiSourceMsg string, sources ...bool) error {
	sourceCount := 0
	for _, hasSource := range sources {
		if hasSource {
			sourceCount++
		}
	}

	if sourceCount == 0 {
		return &oaserrors.ConfigError{Option: "input", Message: noSourceMsg}
	}
	if sourceCount > 1 {
		return &oaserrors.ConfigError{Option: "input", Value: sourceCount, Message: multiSourceMsg}
	}

	return nil
}

// NonNegative rejects a negative value for the named option.
func NonNegative[T int | int64](option string, v T) error {
	if v < 0 {
		return &oaserrors.ConfigError{Option: option, Value: v, Message: "must not be negative"}
	}
	return nil
}
