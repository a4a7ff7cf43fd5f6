package vectorizer

import (
	"math"

	"github.com/happyhackingspace/corpusfold/sparse"
)

// TfidfVectorizer weights count vectors by smoothed inverse document
// frequency and scales them to unit L2 norm.
type TfidfVectorizer struct {
	CountVec *CountVectorizer
	IDF      []float64
}

// NewTfidfVectorizer creates a TfidfVectorizer.
func NewTfidfVectorizer(opts Options) *TfidfVectorizer {
	return &TfidfVectorizer{CountVec: NewCountVectorizer(opts)}
}

// Fit computes the vocabulary and IDF values from a corpus.
func (tv *TfidfVectorizer) Fit(corpus []string) {
	tv.CountVec.Fit(corpus)

	nDocs := float64(len(corpus))
	df := make([]float64, tv.CountVec.VocabSize())
	for _, doc := range corpus {
		for _, idx := range tv.CountVec.Transform(doc).SortedIndices() {
			df[idx]++
		}
	}

	// smooth IDF: log((1 + n) / (1 + df)) + 1
	tv.IDF = make([]float64, len(df))
	for i := range df {
		tv.IDF[i] = math.Log((1+nDocs)/(1+df[i])) + 1
	}
}

// TransformAll transforms every document of corpus.
func (tv *TfidfVectorizer) TransformAll(corpus []string) []*sparse.Vector {
	result := make([]*sparse.Vector, len(corpus))
	for i, doc := range corpus {
		result[i] = tv.Transform(doc)
	}
	return result
}

// Transform converts a single document to a TF-IDF sparse vector.
func (tv *TfidfVectorizer) Transform(text string) *sparse.Vector {
	sv := tv.CountVec.Transform(text)
	for _, idx := range sv.SortedIndices() {
		if idx < len(tv.IDF) {
			val, _ := sv.Get(idx)
			sv.Set(idx, val*tv.IDF[idx])
		}
	}
	if norm := sv.L2Norm(); norm > 0 {
		// norm > 0, so Divide cannot fail
		_ = sv.Divide(norm)
	}
	return sv
}

// VocabSize returns the vocabulary size.
func (tv *TfidfVectorizer) VocabSize() int {
	return tv.CountVec.VocabSize()
}

// Vocab returns the fitted terms in index order.
func (tv *TfidfVectorizer) Vocab() []string {
	return tv.CountVec.Terms
}
