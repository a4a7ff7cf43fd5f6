// Package textutil splits raw document text into terms.
package textutil

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

var tokenizeRe = regexp.MustCompile(`[\p{L}\p{N}_]+`)

// Tokenize extracts Unicode word tokens from text.
func Tokenize(text string) []string {
	return tokenizeRe.FindAllString(text, -1)
}

// TokenNgrams returns n-grams from a list of tokens, joined by space.
func TokenNgrams(tokens []string, minN, maxN int) []string {
	tLen := len(tokens)
	var res []string
	for n := minN; n <= maxN && n <= tLen; n++ {
		for i := 0; i <= tLen-n; i++ {
			res = append(res, strings.Join(tokens[i:i+n], " "))
		}
	}
	return res
}

var (
	newlineRe    = regexp.MustCompile(`[\n\r]`)
	multiSpaceRe = regexp.MustCompile(`\s{2,}`)
)

// NormalizeWhitespaces replaces newlines and multiple whitespace with a single space.
func NormalizeWhitespaces(text string) string {
	text = newlineRe.ReplaceAllString(text, " ")
	return multiSpaceRe.ReplaceAllString(text, " ")
}

// TermOptions controls Terms.
type TermOptions struct {
	MinWordLength int
	MaxNgram      int
	StopWords     map[string]bool
}

// Terms lowercases text, drops tokens shorter than MinWordLength runes or
// listed in StopWords, and returns the 1..MaxNgram grams of what remains.
func Terms(text string, opts TermOptions) []string {
	maxN := opts.MaxNgram
	if maxN < 1 {
		maxN = 1
	}
	var tokens []string
	for _, tok := range Tokenize(strings.ToLower(text)) {
		if utf8.RuneCountInString(tok) < opts.MinWordLength {
			continue
		}
		if opts.StopWords[tok] {
			continue
		}
		tokens = append(tokens, tok)
	}
	return TokenNgrams(tokens, 1, maxN)
}
