package config

import (
	"errors"
)

// Sentinel kinds for config loading and validation. These allow
// errors.Is/As from callers.
var (
	ErrInvalidConfig = errors.New("invalid config")
	ErrLoadConfig    = errors.New("config load failed")
)
