package version

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"taglog/internal/apperr"
)

const formatKind = "semantic version"

// Version is a parsed semantic version. The zero value is 0.0.0.
type Version struct {
	Major int
	Minor int
	Patch int

	// PreRelease holds the dot-separated identifiers after "-", without the dash.
	PreRelease string
	// Build holds the build metadata after "+", without the plus. It never affects ordering.
	Build string
}

var semverPattern = func() *regexp.Regexp {
	const (
		integer    = `0|[1-9]\d*`
		alnum      = `[0-9A-Za-z-]`
		label      = `\d*[A-Za-z-]` + alnum + `*`
		identifier = `(?:` + integer + `|` + label + `)`
		preRelease = `(?:-(` + identifier + `(?:\.` + identifier + `)*))?`
		build      = `(?:\+(` + alnum + `+(?:\.` + alnum + `+)*))?`
	)
	return regexp.MustCompile(`^(` + integer + `)\.(` + integer + `)\.(` + integer + `)` + preRelease + build + `$`)
}()

var numericIdentifier = regexp.MustCompile(`^\d+$`)

// Parse parses a version string in the format MAJOR.MINOR.PATCH[-PRERELEASE][+BUILD].
// It does not accept a prefix such as "v"; callers strip their tag prefix first.
func Parse(versionStr string) (Version, error) {
	m := semverPattern.FindStringSubmatch(versionStr)
	if m == nil {
		return Version{}, apperr.NewFormatError(formatKind, versionStr)
	}

	var nums [3]int
	for i := range nums {
		n, err := strconv.Atoi(m[i+1])
		if err != nil {
			return Version{}, apperr.NewFormatError(formatKind, versionStr)
		}
		nums[i] = n
	}

	return Version{
		Major:      nums[0],
		Minor:      nums[1],
		Patch:      nums[2],
		PreRelease: m[4],
		Build:      m[5],
	}, nil
}

// MustParse is like Parse but panics on malformed input. Intended for tests and constants.
func MustParse(versionStr string) Version {
	v, err := Parse(versionStr)
	if err != nil {
		panic(err)
	}
	return v
}

func (v Version) String() string {
	return v.VersionString("")
}

// VersionString renders the version with the given prefix, e.g. "v1.2.3-rc.1+build.5".
func (v Version) VersionString(prefix string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s%d.%d.%d", prefix, v.Major, v.Minor, v.Patch)
	if v.PreRelease != "" {
		b.WriteString("-")
		b.WriteString(v.PreRelease)
	}
	if v.Build != "" {
		b.WriteString("+")
		b.WriteString(v.Build)
	}
	return b.String()
}

// Core returns the version with pre-release and build metadata stripped.
// Two versions with the same core are the same release.
func (v Version) Core() Version {
	return Version{Major: v.Major, Minor: v.Minor, Patch: v.Patch}
}

// IsPreRelease reports whether the version carries pre-release identifiers.
func (v Version) IsPreRelease() bool {
	return v.PreRelease != ""
}

// Compare returns -1, 0 or 1 depending on whether v has lower, equal or higher
// precedence than other. See https://semver.org/#spec-item-11.
func (v Version) Compare(other Version) int {
	if c := compareInt(v.Major, other.Major); c != 0 {
		return c
	}
	if c := compareInt(v.Minor, other.Minor); c != 0 {
		return c
	}
	if c := compareInt(v.Patch, other.Patch); c != 0 {
		return c
	}
	return comparePreRelease(v.PreRelease, other.PreRelease)
}

func comparePreRelease(a, b string) int {
	switch {
	case a == b:
		return 0
	case a == "":
		// A release outranks any pre-release of the same core.
		return 1
	case b == "":
		return -1
	}

	aParts := strings.Split(a, ".")
	bParts := strings.Split(b, ".")
	for i := 0; i < len(aParts) && i < len(bParts); i++ {
		if aParts[i] == bParts[i] {
			continue
		}
		return compareIdentifier(aParts[i], bParts[i])
	}
	return compareInt(len(aParts), len(bParts))
}

func compareIdentifier(a, b string) int {
	aNum := numericIdentifier.MatchString(a)
	bNum := numericIdentifier.MatchString(b)
	switch {
	case aNum && bNum:
		return compareNumeric(a, b)
	case aNum:
		return -1
	case bNum:
		return 1
	default:
		return strings.Compare(a, b)
	}
}

// compareNumeric compares digit strings of any length without overflowing.
func compareNumeric(a, b string) int {
	a = strings.TrimLeft(a, "0")
	b = strings.TrimLeft(b, "0")
	if c := compareInt(len(a), len(b)); c != 0 {
		return c
	}
	return strings.Compare(a, b)
}

func compareInt(a, b int) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}
