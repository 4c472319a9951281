package engine

import (
	"math"
	"strings"
	"unicode"
)

// legalSuffixes are trailing tokens that do not distinguish one vendor from another.
var legalSuffixes = map[string]bool{
	"ltd":          true,
	"limited":      true,
	"inc":          true,
	"incorporated": true,
	"corp":         true,
	"corporation":  true,
	"co":           true,
	"llc":          true,
	"llp":          true,
	"plc":          true,
	"gmbh":         true,
	"pty":          true,
}

// normalizeLabel lowercases, trims and collapses whitespace.
func normalizeLabel(s string) string {
	return strings.Join(strings.Fields(strings.ToLower(s)), " ")
}

// canonicalTokens lowercases a name, drops dots, commas and apostrophes,
// turns other punctuation into separators and splits into words.
func canonicalTokens(s string) []string {
	var b strings.Builder
	for _, r := range strings.ToLower(s) {
		switch {
		case r == '.' || r == ',' || r == '\'':
		case unicode.IsLetter(r) || unicode.IsDigit(r) || r == '&':
			b.WriteRune(r)
		default:
			b.WriteRune(' ')
		}
	}
	return strings.Fields(b.String())
}

// coreTokens strips trailing legal suffixes. A name made only of suffixes is kept as is.
func coreTokens(tokens []string) []string {
	end := len(tokens)
	for end > 0 && legalSuffixes[tokens[end-1]] {
		end--
	}
	if end == 0 {
		return tokens
	}
	return tokens[:end]
}

// containsRun reports whether short appears as a contiguous run of words inside long.
func containsRun(long, short []string) bool {
	if len(short) == 0 || len(short) > len(long) {
		return false
	}
	for i := 0; i+len(short) <= len(long); i++ {
		match := true
		for j := range short {
			if long[i+j] != short[j] {
				match = false
				break
			}
		}
		if match {
			return true
		}
	}
	return false
}

// textSimilarity is the larger of normalized edit similarity and word Jaccard.
func textSimilarity(a, b string) float64 {
	if a == b {
		return 1
	}
	if a == "" || b == "" {
		return 0
	}
	return math.Max(levenshteinSimilarity(a, b), jaccard(strings.Fields(a), strings.Fields(b)))
}

func levenshteinSimilarity(a, b string) float64 {
	denom := max(len([]rune(a)), len([]rune(b)))
	if denom == 0 {
		return 1
	}
	return math.Max(0, 1-float64(levenshtein(a, b))/float64(denom))
}

func levenshtein(a, b string) int {
	ar, br := []rune(a), []rune(b)
	if len(ar) < len(br) {
		ar, br = br, ar
	}
	if len(br) == 0 {
		return len(ar)
	}
	prev := make([]int, len(br)+1)
	curr := make([]int, len(br)+1)
	for j := range prev {
		prev[j] = j
	}
	for i, ca := range ar {
		curr[0] = i + 1
		for j, cb := range br {
			sub := prev[j]
			if ca != cb {
				sub++
			}
			curr[j+1] = min(curr[j]+1, prev[j+1]+1, sub)
		}
		prev, curr = curr, prev
	}
	return prev[len(br)]
}

func jaccard(a, b []string) float64 {
	if len(a) == 0 || len(b) == 0 {
		return 0
	}
	setA := make(map[string]struct{}, len(a))
	for _, t := range a {
		setA[t] = struct{}{}
	}
	setB := make(map[string]struct{}, len(b))
	for _, t := range b {
		setB[t] = struct{}{}
	}
	inter := 0
	for t := range setA {
		if _, ok := setB[t]; ok {
			inter++
		}
	}
	union := len(setA) + len(setB) - inter
	return float64(inter) / float64(union)
}

// point is one breakpoint of a piecewise-linear curve.
type point struct {
	x, y float64
}

// curve is a piecewise-linear function over ascending x breakpoints.
// Values are clamped to the first and last y outside the covered range.
type curve []point

func (c curve) at(x float64) float64 {
	if x <= c[0].x {
		return c[0].y
	}
	for i := 1; i < len(c); i++ {
		if x <= c[i].x {
			lo, hi := c[i-1], c[i]
			return lo.y + (x-lo.x)/(hi.x-lo.x)*(hi.y-lo.y)
		}
	}
	return c[len(c)-1].y
}

func clamp01(v float64) float64 {
	return math.Max(0, math.Min(1, v))
}

// roundTo rounds v to the given number of decimals.
func roundTo(v float64, decimals int) float64 {
	p := math.Pow(10, float64(decimals))
	return math.Round(v*p) / p
}

// score clamps and rounds a family score so verdicts serialize stably.
func score(v float64) float64 {
	return roundTo(clamp01(v), 4)
}
