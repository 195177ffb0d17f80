package config

import (
	"strconv"
	"strings"
)

// CompareSemver compares two semver strings, returning -1, 0, or 1.
// Pre-release versions (X.Y.Z-tag.N) sort strictly below their release
// counterpart. Hand-rolled against the one ordering rule the version
// check needs rather than full semver precedence.
func CompareSemver(a, b string) int {
	av, apre := splitSemver(a)
	bv, bpre := splitSemver(b)

	for i := 0; i < 3; i++ {
		if av[i] != bv[i] {
			if av[i] < bv[i] {
				return -1
			}
			return 1
		}
	}
	switch {
	case apre == "" && bpre == "":
		return 0
	case apre == "":
		return 1
	case bpre == "":
		return -1
	case apre == bpre:
		return 0
	case apre < bpre:
		return -1
	default:
		return 1
	}
}

func splitSemver(v string) ([3]int, string) {
	v = strings.TrimPrefix(v, "v")
	var pre string
	if i := strings.IndexByte(v, '-'); i >= 0 {
		pre = v[i+1:]
		v = v[:i]
	}
	parts := strings.SplitN(v, ".", 3)
	var out [3]int
	for i := 0; i < 3 && i < len(parts); i++ {
		n, _ := strconv.Atoi(parts[i])
		out[i] = n
	}
	return out, pre
}
