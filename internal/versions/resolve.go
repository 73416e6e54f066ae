package versions

import (
	"regexp"
	"sort"
	"strings"

	"github.com/Masterminds/semver/v3"

	oerrors "github.com/nitrek/Oryx/internal/errors"
)

var exactVersion = regexp.MustCompile(`^\d+\.\d+\.\d+$`)

// Pick returns the first non-blank candidate, in precedence order:
// explicit override, repo-declared, detected, configured default.
func Pick(candidates ...string) string {
	for _, c := range candidates {
		if s := strings.TrimSpace(c); s != "" {
			return s
		}
	}
	return ""
}

// Resolve maps a requested specifier to one catalog version. An empty
// request resolves the catalog default, or the latest final version when no
// default is set. It fails with an unsupported-version error when neither
// partition yields a match.
func Resolve(requested string, c Catalog) (string, error) {
	requested = strings.TrimSpace(requested)
	if requested == "" {
		requested = c.Default
	}
	if requested == "" {
		requested = "*"
	}

	final, preview := c.Partition()

	if v, ok := maxSatisfying(requested, final); ok {
		return v, nil
	}
	// A fully qualified version that is not published resolves to the
	// highest published patch of the same minor line.
	if exactVersion.MatchString(requested) {
		if v, ok := maxSatisfying("~"+requested, final); ok {
			return v, nil
		}
	}
	if v, ok := latestPreview(requested, preview); ok {
		return v, nil
	}
	return "", oerrors.UnsupportedVersion(c.Platform, requested, c.Supported)
}

func maxSatisfying(requested string, candidates []string) (string, bool) {
	constraint, err := semver.NewConstraint(requested)
	if err != nil {
		return "", false
	}
	var (
		best    *semver.Version
		bestRaw string
	)
	for _, raw := range candidates {
		v, err := semver.NewVersion(raw)
		if err != nil {
			continue
		}
		if !constraint.Check(v) {
			continue
		}
		if best == nil || v.GreaterThan(best) {
			best, bestRaw = v, raw
		}
	}
	return bestRaw, best != nil
}

func latestPreview(requested string, preview []string) (string, bool) {
	var matches []string
	for _, v := range preview {
		if strings.HasPrefix(v, requested) {
			matches = append(matches, v)
		}
	}
	if len(matches) == 0 {
		return "", false
	}
	sort.Sort(sort.Reverse(sort.StringSlice(matches)))
	return matches[0], true
}
