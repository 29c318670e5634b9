package kmer

import (
	"errors"
	"fmt"
)

// ErrInvalidKmerLength indicates a k outside [MinK, MaxK].
var ErrInvalidKmerLength = errors.New("invalid k-mer length")

// ConfigError reports an invalid profile parameter.
type ConfigError struct {
	Field string
	Value int
	Err   error
}

// Error implements the error interface.
func (e *ConfigError) Error() string {
	return fmt.Sprintf("kmer: invalid config: %s=%d: %v", e.Field, e.Value, e.Err)
}

// Unwrap returns the underlying sentinel error.
func (e *ConfigError) Unwrap() error {
	return e.Err
}
