package analysis

import (
	"math"
	"strings"
	"unicode"
)

// tokenize lowercases text, strips punctuation and splits on whitespace
func tokenize(text string) []string {
	var b strings.Builder
	b.Grow(len(text))
	for _, r := range strings.ToLower(text) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_' {
			b.WriteRune(r)
		} else {
			b.WriteRune(' ')
		}
	}
	return strings.Fields(b.String())
}

// Stem applies a Porter-style suffix-stripping stem to a single
// lowercase token. It covers the plural and participle families that
// dominate question text; rarer Porter steps are intentionally omitted.
func Stem(word string) string {
	if len(word) < 4 {
		return word
	}

	switch {
	case strings.HasSuffix(word, "sses"):
		word = strings.TrimSuffix(word, "es")
	case strings.HasSuffix(word, "ies"):
		word = strings.TrimSuffix(word, "ies") + "i"
	case strings.HasSuffix(word, "ss"):
		// keep
	case strings.HasSuffix(word, "s"):
		word = strings.TrimSuffix(word, "s")
	}

	if strings.HasSuffix(word, "eed") {
		if len(word) > 4 {
			word = strings.TrimSuffix(word, "d")
		}
	} else if strings.HasSuffix(word, "ed") && hasVowel(strings.TrimSuffix(word, "ed")) {
		word = fixStemEnding(strings.TrimSuffix(word, "ed"))
	} else if strings.HasSuffix(word, "ing") && hasVowel(strings.TrimSuffix(word, "ing")) {
		word = fixStemEnding(strings.TrimSuffix(word, "ing"))
	}

	if strings.HasSuffix(word, "ly") && len(word) > 4 {
		word = strings.TrimSuffix(word, "ly")
	}

	return word
}

// fixStemEnding restores a readable stem after ed/ing removal
func fixStemEnding(stem string) string {
	switch {
	case strings.HasSuffix(stem, "at"), strings.HasSuffix(stem, "bl"), strings.HasSuffix(stem, "iz"):
		return stem + "e"
	case len(stem) > 2 && stem[len(stem)-1] == stem[len(stem)-2] && !strings.ContainsRune("lsz", rune(stem[len(stem)-1])):
		return stem[:len(stem)-1]
	default:
		return stem
	}
}

func hasVowel(s string) bool {
	return strings.ContainsAny(s, "aeiouy")
}

// DiceCoefficient returns the Sørensen–Dice similarity of two strings
// over their character-bigram multisets, whitespace excluded. Result is
// in [0,1]; identical strings score 1.
func DiceCoefficient(a, b string) float64 {
	a = stripSpaces(a)
	b = stripSpaces(b)

	if a == b {
		return 1
	}
	if len(a) < 2 || len(b) < 2 {
		return 0
	}

	bigrams := make(map[string]int, len(a)-1)
	for i := 0; i < len(a)-1; i++ {
		bigrams[a[i:i+2]]++
	}

	matches := 0
	for i := 0; i < len(b)-1; i++ {
		bg := b[i : i+2]
		if bigrams[bg] > 0 {
			bigrams[bg]--
			matches++
		}
	}

	return 2 * float64(matches) / float64(len(a)+len(b)-2)
}

func stripSpaces(s string) string {
	return strings.Join(strings.Fields(s), "")
}

// JaccardOverlap returns |A∩B| / |A∪B| for two term slices.
// Two empty sets are considered identical (1); one empty set shares
// nothing with a non-empty one (0).
func JaccardOverlap(a, b []string) float64 {
	if len(a) == 0 && len(b) == 0 {
		return 1
	}
	if len(a) == 0 || len(b) == 0 {
		return 0
	}

	setA := make(map[string]bool, len(a))
	for _, s := range a {
		setA[s] = true
	}
	setB := make(map[string]bool, len(b))
	for _, s := range b {
		setB[s] = true
	}

	intersection := 0
	union := len(setA)
	for s := range setB {
		if setA[s] {
			intersection++
		} else {
			union++
		}
	}

	return float64(intersection) / float64(union)
}

// Variance returns the population variance of the samples
func Variance(samples []float64) float64 {
	if len(samples) == 0 {
		return 0
	}
	mean := 0.0
	for _, v := range samples {
		mean += v
	}
	mean /= float64(len(samples))

	variance := 0.0
	for _, v := range samples {
		d := v - mean
		variance += d * d
	}
	return variance / float64(len(samples))
}

// StdDev returns the population standard deviation of the samples
func StdDev(samples []float64) float64 {
	return math.Sqrt(Variance(samples))
}

// SplitSentences splits text on terminal punctuation, dropping empties
func SplitSentences(text string) []string {
	parts := strings.FieldsFunc(text, func(r rune) bool {
		return r == '.' || r == '!' || r == '?'
	})
	sentences := make([]string, 0, len(parts))
	for _, p := range parts {
		if s := strings.TrimSpace(p); s != "" {
			sentences = append(sentences, s)
		}
	}
	return sentences
}

// FirstWords returns the first n whitespace-separated words of text
func FirstWords(text string, n int) string {
	fields := strings.Fields(text)
	if len(fields) > n {
		fields = fields[:n]
	}
	return strings.Join(fields, " ")
}

// CapsRatio returns the share of uppercase letters among all bytes
func CapsRatio(text string) float64 {
	if len(text) == 0 {
		return 0
	}
	caps := 0
	for _, r := range text {
		if r >= 'A' && r <= 'Z' {
			caps++
		}
	}
	return float64(caps) / float64(len(text))
}
