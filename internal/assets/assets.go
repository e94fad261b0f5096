package assets

import (
	_ "embed"
)

//go:embed taglog.yml
var defaultConfig string

// DefaultConfig returns the commented .taglog.yml written by `taglog init`.
func DefaultConfig() string {
	return defaultConfig
}
