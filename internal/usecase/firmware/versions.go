package firmware

import (
	"strconv"
	"strings"
)

// VersionScheme selects how firmware version strings are ordered.
//
// The historical backend ordered versions byte-wise, which sorts
// "10.0.0" below "9.0.0". Ordinal preserves that behavior; Numeric
// compares dot-separated integer segments. The scheme is configuration,
// not a code path choice, so deployments can switch explicitly.
type VersionScheme string

const (
	SchemeOrdinal VersionScheme = "ordinal"
	SchemeNumeric VersionScheme = "numeric"
)

// CompareVersions returns -1, 0, or 1 comparing a against b under the
// given scheme. Unknown schemes fall back to ordinal.
func CompareVersions(a, b string, scheme VersionScheme) int {
	if scheme == SchemeNumeric {
		return compareNumeric(a, b)
	}
	return strings.Compare(a, b)
}

func compareNumeric(a, b string) int {
	as := strings.Split(a, ".")
	bs := strings.Split(b, ".")

	n := len(as)
	if len(bs) > n {
		n = len(bs)
	}

	for i := 0; i < n; i++ {
		var sa, sb string
		if i < len(as) {
			sa = as[i]
		}
		if i < len(bs) {
			sb = bs[i]
		}

		na, errA := strconv.Atoi(sa)
		nb, errB := strconv.Atoi(sb)
		if errA != nil || errB != nil {
			// Non-numeric segment, compare as strings.
			if c := strings.Compare(sa, sb); c != 0 {
				return c
			}
			continue
		}

		if na != nb {
			if na < nb {
				return -1
			}
			return 1
		}
	}

	return 0
}
