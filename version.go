// Package scribe is a terminal rich-text editor with a floating formatting
// toolbar. The editor component lives in package editor; this package only
// carries the release version.
package scribe

import (
	_ "embed"
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

var semverRE = regexp.MustCompile(`^(0|[1-9]\d*)\.(0|[1-9]\d*)\.(0|[1-9]\d*)(?:-([0-9A-Za-z-]+(?:\.[0-9A-Za-z-]+)*))?(?:\+[0-9A-Za-z-]+(?:\.[0-9A-Za-z-]+)*)?$`)

//go:embed VERSION
var embeddedVersion string

// Semver is a parsed SemVer 2.0.0 version. Build metadata is dropped.
type Semver struct {
	Major, Minor, Patch int
	Pre                 string
}

func (v Semver) String() string {
	s := fmt.Sprintf("%d.%d.%d", v.Major, v.Minor, v.Patch)
	if v.Pre != "" {
		s += "-" + v.Pre
	}
	return s
}

// ParseSemver parses v without a leading `v`.
func ParseSemver(v string) (Semver, error) {
	m := semverRE.FindStringSubmatch(strings.TrimSpace(v))
	if m == nil {
		return Semver{}, fmt.Errorf("scribe: %q is not a semver version", v)
	}
	var out Semver
	for i, dst := range []*int{&out.Major, &out.Minor, &out.Patch} {
		n, err := strconv.Atoi(m[i+1])
		if err != nil {
			return Semver{}, fmt.Errorf("scribe: version %q: %w", v, err)
		}
		*dst = n
	}
	out.Pre = m[4]
	return out, nil
}

// Version returns the embedded version string without `v`.
func Version() string {
	return strings.TrimSpace(embeddedVersion)
}

// VersionTag returns the git tag form of Version.
func VersionTag() string {
	return "v" + Version()
}
