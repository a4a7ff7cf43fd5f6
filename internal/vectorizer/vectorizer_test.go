package vectorizer

import (
	"math"
	"reflect"
	"testing"

	"github.com/happyhackingspace/corpusfold/internal/textutil"
)

func TestCountVectorizer(t *testing.T) {
	cv := NewCountVectorizer(Options{})
	corpus := []string{"tax cut tax", "budget cut"}
	cv.Fit(corpus)
	vectors := cv.TransformAll(corpus)

	if want := []string{"budget", "cut", "tax"}; !reflect.DeepEqual(cv.Terms, want) {
		t.Fatalf("Terms = %v, want %v", cv.Terms, want)
	}
	if got, want := vectors[0].String(), "2 1:1 2:2"; got != want {
		t.Errorf("vector 0 = %q, want %q", got, want)
	}
	if got, want := vectors[1].String(), "2 0:1 1:1"; got != want {
		t.Errorf("vector 1 = %q, want %q", got, want)
	}
}

func TestCountVectorizerBinary(t *testing.T) {
	cv := NewCountVectorizer(Options{Binary: true})
	cv.Fit([]string{"tax tax tax"})
	if got := cv.Transform("tax tax budget tax").String(); got != "1 0:1" {
		t.Errorf("binary vector = %q, want %q", got, "1 0:1")
	}
}

func TestCountVectorizerMinDF(t *testing.T) {
	cv := NewCountVectorizer(Options{MinDF: 2})
	cv.Fit([]string{"hello world", "hello universe"})

	if _, ok := cv.Vocabulary["hello"]; !ok {
		t.Error("expected 'hello' in vocabulary (df=2)")
	}
	if _, ok := cv.Vocabulary["world"]; ok {
		t.Error("'world' should not be in vocabulary (df=1, min_df=2)")
	}
}

func TestCountVectorizerMaxVocabSize(t *testing.T) {
	cv := NewCountVectorizer(Options{MaxVocabSize: 2})
	cv.Fit([]string{"zeta alpha beta", "zeta beta", "zeta gamma"})

	if want := []string{"beta", "zeta"}; !reflect.DeepEqual(cv.Terms, want) {
		t.Errorf("Terms = %v, want %v", cv.Terms, want)
	}
}

func TestCountVectorizerOptions(t *testing.T) {
	cv := NewCountVectorizer(Options{TermOptions: textutil.TermOptions{
		MinWordLength: 3,
		MaxNgram:      2,
		StopWords:     map[string]bool{"the": true},
	}})
	cv.Fit([]string{"The tax bill is law"})

	want := []string{"bill", "bill law", "law", "tax", "tax bill"}
	if !reflect.DeepEqual(cv.Terms, want) {
		t.Errorf("Terms = %v, want %v", cv.Terms, want)
	}
}

func TestFromVocabularyIgnoresUnknownTerms(t *testing.T) {
	cv := FromVocabulary([]string{"budget", "tax"}, Options{})
	v := cv.Transform("tax reform tax senate")
	if got := v.String(); got != "1 1:2" {
		t.Errorf("Transform = %q, want %q", got, "1 1:2")
	}
}

func TestTfidfVectorizer(t *testing.T) {
	tv := NewTfidfVectorizer(Options{})
	corpus := []string{"hello world", "hello universe", "world hello"}
	tv.Fit(corpus)
	vectors := tv.TransformAll(corpus)

	if len(vectors) != 3 {
		t.Fatalf("expected 3 vectors, got %d", len(vectors))
	}
	for i, v := range vectors {
		if norm := v.L2Norm(); v.Size() > 0 && math.Abs(norm-1.0) > 1e-9 {
			t.Errorf("vector %d norm = %v, want 1", i, norm)
		}
	}

	// "universe" (df=1) outweighs "hello" (df=3) in document 1.
	hello := tv.CountVec.Vocabulary["hello"]
	universe := tv.CountVec.Vocabulary["universe"]
	h, _ := vectors[1].Get(hello)
	u, _ := vectors[1].Get(universe)
	if u <= h {
		t.Errorf("tf-idf(universe) = %v, want > tf-idf(hello) = %v", u, h)
	}

	if empty := tv.Transform("nothing known"); empty.Size() != 0 {
		t.Errorf("unknown text produced %v", empty)
	}
}
