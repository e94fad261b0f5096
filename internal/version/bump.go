package version

import (
	"fmt"
	"strings"
)

func (vt VersionType) String() string {
	return string(vt)
}

// VersionType represents a semantic version bump level
type VersionType string

const (
	Patch VersionType = "Patch"
	Minor VersionType = "Minor"
	Major VersionType = "Major"
)

// Increment returns the next release of v for the given bump level.
// Pre-release and build metadata are dropped.
func (v Version) Increment(bump VersionType) Version {
	switch bump {
	case Major:
		return Version{Major: v.Major + 1}
	case Minor:
		return Version{Major: v.Major, Minor: v.Minor + 1}
	case Patch:
		return Version{Major: v.Major, Minor: v.Minor, Patch: v.Patch + 1}
	default:
		return v // no change if invalid bump type
	}
}

// ParseVersionType converts a string like "major" into a VersionType enum
func ParseVersionType(s string) (VersionType, error) {
	switch strings.ToLower(s) {
	case "major":
		return Major, nil
	case "minor":
		return Minor, nil
	case "patch":
		return Patch, nil
	default:
		return "", fmt.Errorf("invalid bump type: %q. Must be one of: major, minor, patch", s)
	}
}

// ForecastNext takes the latest tag (e.g., "v1.2.3" with prefix "v") and the
// desired bump, and returns the next tag name carrying the same prefix.
func ForecastNext(latestTag, prefix string, bump VersionType) (string, error) {
	latestTag = strings.TrimSpace(latestTag)
	core := strings.TrimPrefix(latestTag, prefix)

	// No latest -> treat as 0.0.0 and bump
	if core == "" {
		return Version{}.Increment(bump).VersionString(prefix), nil
	}

	v, err := Parse(core)
	if err != nil {
		return "", fmt.Errorf("unable to parse latest tag %q: %w", latestTag, err)
	}
	return v.Increment(bump).VersionString(prefix), nil
}
