package canonical

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCompareUTF16(t *testing.T) {
	tests := []struct {
		name string
		a, b string
		want int
	}{
		{"equal", "a", "a", 0},
		{"ascii less", "a", "b", -1},
		{"ascii greater", "b", "a", 1},
		{"prefix shorter first", "a", "ab", -1},
		{"uppercase before lowercase", "Z", "a", -1},
		{"empty first", "", "a", -1},
		// U+10000 encodes as the surrogate 0xD800, which is below U+E000.
		{"surrogate pair before private use", "\U00010000", "\uE000", -1},
		{"private use after surrogate pair", "\uE000", "\U00010000", 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CompareUTF16(tt.a, tt.b))
		})
	}
}

func TestCompareUTF16_DiffersFromUTF8(t *testing.T) {
	// Native Go ordering puts U+E000 first because its UTF-8 lead byte is smaller.
	assert.True(t, "\uE000" < "\U00010000")
	assert.Equal(t, -1, CompareUTF16("\U00010000", "\uE000"))
}

func TestSortUTF16(t *testing.T) {
	keys := []string{"c", "\uE000", "a", "\U00010000", "B", "b"}
	SortUTF16(keys)
	assert.Equal(t, []string{"B", "a", "b", "c", "\U00010000", "\uE000"}, keys)
}
