// internal/engine/similarity/similarity.go
package similarity

import (
	"math"
	"strings"
	"unicode"
)

// marketing tokens providers like to decorate hotel names with; dropped
// before comparison so "Rixos Premium Belek Resort & SPA" and
// "RIXOS PREMIUM BELEK" normalize to the same string.
var marketingTokens = map[string]bool{
	"hotel":  true,
	"отель":  true,
	"resort": true,
	"резорт": true,
	"spa":    true,
	"спа":    true,
}

// NormalizeHotelName lowercases the name, collapses whitespace, removes
// marketing tokens and strips everything except Latin/Cyrillic letters and
// digits.
func NormalizeHotelName(name string) string {
	lowered := strings.ToLower(name)

	var kept []string
	for _, word := range strings.Fields(lowered) {
		if marketingTokens[word] {
			continue
		}
		kept = append(kept, word)
	}

	var b strings.Builder
	for _, r := range strings.Join(kept, " ") {
		switch {
		case r >= '0' && r <= '9':
			b.WriteRune(r)
		case unicode.Is(unicode.Latin, r) || unicode.Is(unicode.Cyrillic, r):
			b.WriteRune(r)
		}
	}
	return strings.TrimSpace(b.String())
}

// Similarity returns the edit-distance ratio 1 - levenshtein(a,b)/max(len(a),len(b))
// over case-folded runes: 1 for identical strings, 0 if either is empty.
func Similarity(a, b string) float64 {
	ra := []rune(strings.ToLower(a))
	rb := []rune(strings.ToLower(b))

	if len(ra) == 0 || len(rb) == 0 {
		return 0
	}
	if string(ra) == string(rb) {
		return 1
	}

	dist := levenshtein(ra, rb)
	maxLen := len(ra)
	if len(rb) > maxLen {
		maxLen = len(rb)
	}
	return 1 - float64(dist)/float64(maxLen)
}

// levenshtein computes edit distance with a single-row DP buffer.
func levenshtein(a, b []rune) int {
	la, lb := len(a), len(b)

	prev := make([]int, lb+1)
	for j := range prev {
		prev[j] = j
	}

	for i := 1; i <= la; i++ {
		curr := make([]int, lb+1)
		curr[0] = i
		for j := 1; j <= lb; j++ {
			cost := 1
			if a[i-1] == b[j-1] {
				cost = 0
			}
			del := prev[j] + 1
			ins := curr[j-1] + 1
			sub := prev[j-1] + cost

			m := del
			if ins < m {
				m = ins
			}
			if sub < m {
				m = sub
			}
			curr[j] = m
		}
		prev = curr
	}
	return prev[lb]
}

const earthRadiusKm = 6371.0

// GeoDistanceKm returns the haversine great-circle distance between two
// coordinate pairs in kilometers.
func GeoDistanceKm(lat1, lon1, lat2, lon2 float64) float64 {
	dLat := toRadians(lat2 - lat1)
	dLon := toRadians(lon2 - lon1)

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(toRadians(lat1))*math.Cos(toRadians(lat2))*
			math.Sin(dLon/2)*math.Sin(dLon/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))

	return earthRadiusKm * c
}

func toRadians(deg float64) float64 {
	return deg * math.Pi / 180
}
