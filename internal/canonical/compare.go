package canonical

import (
	"slices"
	"unicode/utf16"
)

// CompareUTF16 compares a and b by UTF-16 code units, which is the order
// ECMAScript's default Array.prototype.sort and RFC 8785 both use.
// CRITICAL: Go's native string comparison uses UTF-8 bytes and orders
// characters above U+FFFF differently from characters in U+E000..U+FFFF.
func CompareUTF16(a, b string) int {
	a16 := utf16.Encode([]rune(a))
	b16 := utf16.Encode([]rune(b))

	n := min(len(a16), len(b16))
	for i := 0; i < n; i++ {
		if a16[i] != b16[i] {
			if a16[i] < b16[i] {
				return -1
			}
			return 1
		}
	}

	// Equal prefix: shorter string sorts first
	switch {
	case len(a16) < len(b16):
		return -1
	case len(a16) > len(b16):
		return 1
	}
	return 0
}

// SortUTF16 sorts keys in place by CompareUTF16. The sort is stable.
func SortUTF16(keys []string) {
	slices.SortStableFunc(keys, CompareUTF16)
}
