package textutil

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/cases"
)

// Fold returns the case-folded, whitespace-trimmed form of value.
// cases.Caser is stateful, so a fresh one is built per call.
func Fold(value string) string {
	return cases.Fold().String(strings.TrimSpace(value))
}

// ContainsFold reports whether needle occurs in haystack ignoring case.
// An empty needle never matches.
func ContainsFold(haystack, needle string) bool {
	needle = Fold(needle)
	if needle == "" {
		return false
	}
	return strings.Contains(Fold(haystack), needle)
}

// wordNeedleLen is the longest needle that must lead the name as a whole
// word. Short entries like "FX" or "ABC" would otherwise hit unrelated names
// such as effects houses.
const wordNeedleLen = 3

// FirstMatch returns the first needle (in list order) contained in any of the
// haystacks, along with the haystack it matched. Needles of up to three
// characters only match as the first word of a haystack ("FX Networks",
// "HBO Max"), never inside it ("Rodeo FX").
func FirstMatch(haystacks []string, needles []string) (needle, haystack string, ok bool) {
	folded := make([]string, len(haystacks))
	for i, h := range haystacks {
		folded[i] = Fold(h)
	}
	for _, n := range needles {
		fn := Fold(n)
		if fn == "" {
			continue
		}
		short := utf8.RuneCountInString(fn) <= wordNeedleLen
		for i, h := range folded {
			if (short && leadingWord(h, fn)) || (!short && strings.Contains(h, fn)) {
				return n, haystacks[i], true
			}
		}
	}
	return "", "", false
}

// leadingWord reports whether s starts with word followed by a non-word
// rune or the end of s.
func leadingWord(s, word string) bool {
	if !strings.HasPrefix(s, word) {
		return false
	}
	after, _ := utf8.DecodeRuneInString(s[len(word):])
	return !isWordRune(after)
}

func isWordRune(r rune) bool {
	return r != utf8.RuneError && (unicode.IsLetter(r) || unicode.IsDigit(r))
}

// EqualFold compares two strings after trimming and folding.
func EqualFold(a, b string) bool {
	return Fold(a) == Fold(b)
}
