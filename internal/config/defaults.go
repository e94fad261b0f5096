package config

import "time"

// GetDefaults returns the default value for every configuration key.
func GetDefaults() map[string]interface{} {
	return map[string]interface{}{
		"repository_url":    "",
		"tag_prefix":        "",
		"destination":       "CHANGELOG.md",
		"source":            SourceAuto,
		"token":             "",
		"api_url":           "",
		"timeout":           10 * time.Second,
		"max_concurrency":   0,
		"skip_invalid_tags": false,
		"dates":             DatesPlaceholder,
		"dry_run":           false,
		"log_level":         "info",
		"repo_path":         ".",
		"bump":              "patch",
	}
}
