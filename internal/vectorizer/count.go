// Package vectorizer turns document text into sparse term vectors over a
// vocabulary fitted on a training corpus.
package vectorizer

import (
	"sort"

	"github.com/happyhackingspace/corpusfold/internal/textutil"
	"github.com/happyhackingspace/corpusfold/sparse"
)

// Options controls vocabulary construction.
type Options struct {
	textutil.TermOptions
	MinDF        int  // minimum document frequency of a kept term
	MaxVocabSize int  // 0 keeps every term
	Binary       bool // record presence instead of counts
}

// CountVectorizer converts text to term count vectors.
type CountVectorizer struct {
	Options    Options
	Vocabulary map[string]int
	Terms      []string
}

// NewCountVectorizer creates a CountVectorizer.
func NewCountVectorizer(opts Options) *CountVectorizer {
	if opts.MinDF < 1 {
		opts.MinDF = 1
	}
	return &CountVectorizer{Options: opts}
}

// FromVocabulary creates a CountVectorizer over a previously fitted vocabulary.
func FromVocabulary(terms []string, opts Options) *CountVectorizer {
	cv := NewCountVectorizer(opts)
	cv.setTerms(terms)
	return cv
}

func (cv *CountVectorizer) analyze(text string) []string {
	return textutil.Terms(text, cv.Options.TermOptions)
}

// Fit builds the vocabulary from a corpus. Terms below MinDF are dropped;
// with MaxVocabSize set, the terms with the highest document frequency are kept
// (ties broken alphabetically). Kept terms are indexed alphabetically.
func (cv *CountVectorizer) Fit(corpus []string) {
	dfCounts := make(map[string]int)
	for _, doc := range corpus {
		seen := make(map[string]bool)
		for _, f := range cv.analyze(doc) {
			if !seen[f] {
				dfCounts[f]++
				seen[f] = true
			}
		}
	}

	terms := make([]string, 0, len(dfCounts))
	for term, count := range dfCounts {
		if count >= cv.Options.MinDF {
			terms = append(terms, term)
		}
	}
	sort.Strings(terms)
	if limit := cv.Options.MaxVocabSize; limit > 0 && len(terms) > limit {
		sort.SliceStable(terms, func(i, j int) bool {
			return dfCounts[terms[i]] > dfCounts[terms[j]]
		})
		terms = terms[:limit]
		sort.Strings(terms)
	}
	cv.setTerms(terms)
}

func (cv *CountVectorizer) setTerms(terms []string) {
	cv.Terms = terms
	cv.Vocabulary = make(map[string]int, len(terms))
	for i, term := range terms {
		cv.Vocabulary[term] = i
	}
}

// TransformAll transforms every document of corpus.
func (cv *CountVectorizer) TransformAll(corpus []string) []*sparse.Vector {
	result := make([]*sparse.Vector, len(corpus))
	for i, doc := range corpus {
		result[i] = cv.Transform(doc)
	}
	return result
}

// Transform converts a single document to a sparse vector. Terms outside
// the vocabulary are ignored.
func (cv *CountVectorizer) Transform(text string) *sparse.Vector {
	sv := sparse.New()
	for _, f := range cv.analyze(text) {
		idx, ok := cv.Vocabulary[f]
		if !ok {
			continue
		}
		if cur, stored := sv.Get(idx); stored && !cv.Options.Binary {
			sv.Set(idx, cur+1)
		} else {
			sv.Set(idx, 1)
		}
	}
	return sv
}

// VocabSize returns the vocabulary size.
func (cv *CountVectorizer) VocabSize() int {
	return len(cv.Terms)
}

// Vocab returns the fitted terms in index order.
func (cv *CountVectorizer) Vocab() []string {
	return cv.Terms
}
