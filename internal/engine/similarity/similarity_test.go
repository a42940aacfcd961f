// internal/engine/similarity/similarity_test.go
package similarity

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeHotelName(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "strips latin marketing tokens",
			input:    "Rixos Premium Belek Resort",
			expected: "rixospremiumbelek",
		},
		{
			name:     "strips cyrillic marketing tokens",
			input:    "Отель Жемчужина СПА",
			expected: "жемчужина",
		},
		{
			name:     "case insensitive",
			input:    "RIXOS PREMIUM BELEK",
			expected: "rixospremiumbelek",
		},
		{
			name:     "collapses whitespace and punctuation",
			input:    "  Crystal   Palace - Luxury & 5*  ",
			expected: "crystalpalaceluxury5",
		},
		{
			name:     "keeps digits",
			input:    "Club Hotel 88",
			expected: "club88",
		},
		{
			name:     "empty input",
			input:    "",
			expected: "",
		},
		{
			name:     "only marketing tokens",
			input:    "Hotel Resort Spa",
			expected: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, NormalizeHotelName(tt.input))
		})
	}
}

func TestSimilarity(t *testing.T) {
	tests := []struct {
		name     string
		a        string
		b        string
		expected float64
	}{
		{name: "identical", a: "rixos", b: "rixos", expected: 1},
		{name: "identical after case fold", a: "RIXOS", b: "rixos", expected: 1},
		{name: "empty left", a: "", b: "rixos", expected: 0},
		{name: "empty right", a: "rixos", b: "", expected: 0},
		{name: "both empty", a: "", b: "", expected: 0},
		{name: "one substitution", a: "abcd", b: "abxd", expected: 0.75},
		{name: "completely different", a: "aaaa", b: "bbbb", expected: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.expected, Similarity(tt.a, tt.b), 1e-9)
		})
	}
}

func TestSimilarity_Range(t *testing.T) {
	pairs := [][2]string{
		{"Rixos Premium Belek", "RIXOS PREMIUM BELEK RESORT"},
		{"Жемчужина", "Жемчужина Сочи"},
		{"a", "abcdefghij"},
	}
	for _, p := range pairs {
		s := Similarity(p[0], p[1])
		assert.GreaterOrEqual(t, s, 0.0)
		assert.LessOrEqual(t, s, 1.0)
	}
}

func TestSimilarity_CyrillicRunes(t *testing.T) {
	// distance must be computed over runes, not bytes
	s := Similarity("пляж", "пляжи")
	assert.InDelta(t, 0.8, s, 1e-9)
}

func TestGeoDistanceKm(t *testing.T) {
	// Antalya airport to Belek is roughly 25 km
	d := GeoDistanceKm(36.8987, 30.8005, 36.8625, 31.0556)
	assert.InDelta(t, 23.0, d, 3.0)

	// same point
	assert.InDelta(t, 0, GeoDistanceKm(36.9, 30.8, 36.9, 30.8), 1e-9)

	// quarter of the equator
	d = GeoDistanceKm(0, 0, 0, 90)
	assert.InDelta(t, math.Pi/2*6371.0, d, 1.0)
}
