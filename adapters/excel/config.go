package excel

import (
	"edadash/adapters/datareadiness/coercer"
)

// ReaderConfig holds configuration for parsing uploaded tables
type ReaderConfig struct {
	// Sheet selects a worksheet by name; empty means the first sheet.
	Sheet string `json:"sheet"`
	// MaxRows caps the number of data rows; 0 means unlimited.
	MaxRows        int                    `json:"max_rows"`
	CoercionConfig coercer.CoercionConfig `json:"coercion_config"`
}

// DefaultReaderConfig returns sensible defaults for upload parsing
func DefaultReaderConfig() ReaderConfig {
	return ReaderConfig{
		MaxRows:        1_000_000,
		CoercionConfig: coercer.DefaultCoercionConfig(),
	}
}
