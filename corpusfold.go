// Package corpusfold prepares response-labeled text corpora for statistical
// models. It loads documents and their numeric responses, builds
// class-balanced cross-validation folds and writes each split as sparse
// term vectors.
//
//	corpus, _ := corpusfold.LoadTextDataFromFolder("data/texts")
//	data, _ := corpus.LoadResponses("data/responses.txt")
//	cv, _ := corpusfold.CreateCrossValidation(ctx, data, corpusfold.CrossValidationConfig{
//	    Folder:     "data/cv",
//	    Name:       "run",
//	    NumFolds:   5,
//	    NumClasses: 2,
//	})
//	for _, f := range cv.Folds() {
//	    fmt.Println(f) // fold-0 (train 6, dev 2, test 2)
//	}
package corpusfold

import (
	"fmt"
	"log/slog"

	"github.com/happyhackingspace/corpusfold/errs"
	"github.com/happyhackingspace/corpusfold/internal/storage"
	"github.com/happyhackingspace/corpusfold/znorm"
)

// Corpus is an ordered collection of uniquely identified documents.
type Corpus struct {
	IDs   []string
	Texts []string
	index map[string]int
}

// NewCorpus creates a corpus. ids and texts must have the same length and ids
// must be unique.
func NewCorpus(ids, texts []string) (*Corpus, error) {
	if len(ids) != len(texts) {
		return nil, fmt.Errorf("corpus: %w", errs.Inputf("%d ids but %d texts", len(ids), len(texts)))
	}
	index := make(map[string]int, len(ids))
	for i, id := range ids {
		if _, dup := index[id]; dup {
			return nil, fmt.Errorf("corpus: %w", errs.Inputf("duplicate document id %q", id))
		}
		index[id] = i
	}
	return &Corpus{IDs: ids, Texts: texts, index: index}, nil
}

func fromDocuments(docs []storage.Document) (*Corpus, error) {
	ids := make([]string, len(docs))
	texts := make([]string, len(docs))
	for i, d := range docs {
		ids[i] = d.ID
		texts[i] = d.Text
	}
	return NewCorpus(ids, texts)
}

// LoadTextDataFromFolder loads one document per file of dir.
func LoadTextDataFromFolder(dir string) (*Corpus, error) {
	docs, err := storage.LoadTextFolder(dir)
	if err != nil {
		return nil, fmt.Errorf("corpusfold: %w", err)
	}
	slog.Debug("Documents loaded", "folder", dir, "count", len(docs))
	return fromDocuments(docs)
}

// LoadTextDataFromFile loads one "<id>\t<text>" document per line of path.
func LoadTextDataFromFile(path string) (*Corpus, error) {
	docs, err := storage.LoadTextFile(path)
	if err != nil {
		return nil, fmt.Errorf("corpusfold: %w", err)
	}
	slog.Debug("Documents loaded", "file", path, "count", len(docs))
	return fromDocuments(docs)
}

// Len returns the number of documents.
func (c *Corpus) Len() int { return len(c.IDs) }

// Index returns the position of the document with the given id.
func (c *Corpus) Index(id string) (int, bool) {
	i, ok := c.index[id]
	return i, ok
}

// LoadResponses reads the response file at path and attaches one response
// to every document.
func (c *Corpus) LoadResponses(path string) (*ResponseDataset, error) {
	responses, err := storage.ReadResponses(path, c.IDs, c.index)
	if err != nil {
		return nil, fmt.Errorf("read responses: %w", err)
	}
	return &ResponseDataset{Corpus: c, Responses: responses}, nil
}

// ResponseDataset is a corpus with one numeric response per document.
type ResponseDataset struct {
	*Corpus
	Responses []float64
}

// NewResponseDataset attaches responses to corpus.
func NewResponseDataset(corpus *Corpus, responses []float64) (*ResponseDataset, error) {
	if corpus.Len() != len(responses) {
		return nil, fmt.Errorf("corpusfold: %w", errs.Inputf("%d documents but %d responses", corpus.Len(), len(responses)))
	}
	return &ResponseDataset{Corpus: corpus, Responses: responses}, nil
}

// ResponsesAt returns the responses at the given positions, in order.
func (d *ResponseDataset) ResponsesAt(indices []int) []float64 {
	out := make([]float64, len(indices))
	for i, idx := range indices {
		out[i] = d.Responses[idx]
	}
	return out
}

// Subset returns a new dataset holding the documents at the given positions,
// in order. Positions must be valid and distinct.
func (d *ResponseDataset) Subset(indices []int) *ResponseDataset {
	ids := make([]string, len(indices))
	texts := make([]string, len(indices))
	index := make(map[string]int, len(indices))
	for i, idx := range indices {
		ids[i] = d.IDs[idx]
		texts[i] = d.Texts[idx]
		index[ids[i]] = i
	}
	return &ResponseDataset{
		Corpus:    &Corpus{IDs: ids, Texts: texts, index: index},
		Responses: d.ResponsesAt(indices),
	}
}

// ZNormalize replaces the responses by their z-scores, using the dataset's
// own mean and standard deviation.
func (d *ResponseDataset) ZNormalize() (znorm.ZNormalizer, error) {
	z, err := znorm.New(d.Responses)
	if err != nil {
		return znorm.ZNormalizer{}, fmt.Errorf("corpusfold: %w", err)
	}
	d.Responses = z.NormalizeAll(d.Responses)
	return z, nil
}

// ZNormalizeSplits normalizes the responses of all three datasets with the
// statistics of train. dev and test may be nil.
func ZNormalizeSplits(train, dev, test *ResponseDataset) (znorm.ZNormalizer, error) {
	z, err := znorm.New(train.Responses)
	if err != nil {
		return znorm.ZNormalizer{}, fmt.Errorf("corpusfold: %w", err)
	}
	for _, d := range []*ResponseDataset{train, dev, test} {
		if d != nil {
			d.Responses = z.NormalizeAll(d.Responses)
		}
	}
	return z, nil
}

// OutputDocumentInfo writes one "<id>\t<response>" line per document.
func (d *ResponseDataset) OutputDocumentInfo(path string) error {
	if err := storage.WriteDocInfo(path, d.IDs, d.Responses); err != nil {
		return fmt.Errorf("corpusfold: %w", err)
	}
	return nil
}

// InputDocumentInfo reads a file written by OutputDocumentInfo. The returned
// dataset has empty texts.
func InputDocumentInfo(path string) (*ResponseDataset, error) {
	ids, responses, err := storage.ReadDocInfo(path)
	if err != nil {
		return nil, fmt.Errorf("corpusfold: %w", err)
	}
	corpus, err := NewCorpus(ids, make([]string, len(ids)))
	if err != nil {
		return nil, err
	}
	return &ResponseDataset{Corpus: corpus, Responses: responses}, nil
}
