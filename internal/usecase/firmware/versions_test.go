package firmware

import "testing"

func TestCompareVersions(t *testing.T) {
	tests := []struct {
		name   string
		a, b   string
		scheme VersionScheme
		want   int
	}{
		{"ordinal greater", "1.3.0", "1.2.0", SchemeOrdinal, 1},
		{"ordinal less", "1.1.0", "1.2.0", SchemeOrdinal, -1},
		{"ordinal equal", "1.2.0", "1.2.0", SchemeOrdinal, 0},
		// Byte-wise ordering sorts "10" below "9".
		{"ordinal ten below nine", "10.0.0", "9.0.0", SchemeOrdinal, -1},
		{"numeric ten above nine", "10.0.0", "9.0.0", SchemeNumeric, 1},
		{"numeric greater", "1.10.0", "1.9.0", SchemeNumeric, 1},
		{"numeric less", "2.0.0", "2.0.1", SchemeNumeric, -1},
		{"numeric equal", "3.1.4", "3.1.4", SchemeNumeric, 0},
		{"numeric shorter equal", "1.2", "1.2.0", SchemeNumeric, 0},
		{"numeric longer greater", "1.2.1", "1.2", SchemeNumeric, 1},
		{"numeric non-numeric segment", "1.2.beta", "1.2.alpha", SchemeNumeric, 1},
		{"unknown scheme falls back to ordinal", "10.0.0", "9.0.0", VersionScheme("semver"), -1},
		{"empty current version", "1.0.0", "", SchemeOrdinal, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CompareVersions(tt.a, tt.b, tt.scheme)
			if got != tt.want {
				t.Errorf("CompareVersions(%q, %q, %q) = %d, want %d", tt.a, tt.b, tt.scheme, got, tt.want)
			}
		})
	}
}
