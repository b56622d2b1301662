package tpyparser

import (
	"errors"
	"fmt"
)

// ErrPositionOutOfRange is returned when a cursor lies outside the source.
var ErrPositionOutOfRange = errors.New("position out of range")

// ConfigurationError reports an invalid setting: an unsupported language,
// an out-of-range flag or an unreadable config file.
type ConfigurationError struct {
	Op  string
	Err error
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("tpyparser: %s: %v", e.Op, e.Err)
}

func (e *ConfigurationError) Unwrap() error { return e.Err }
