package corpusfold

import (
	"fmt"
	"log/slog"

	"github.com/happyhackingspace/corpusfold/errs"
	"github.com/happyhackingspace/corpusfold/internal/storage"
	"github.com/happyhackingspace/corpusfold/internal/textutil"
	"github.com/happyhackingspace/corpusfold/internal/vectorizer"
	"github.com/happyhackingspace/corpusfold/sparse"
)

// Vectorizer maps document texts to sparse vectors over a fitted vocabulary.
type Vectorizer interface {
	Fit(corpus []string)
	TransformAll(corpus []string) []*sparse.Vector
	Vocab() []string
}

// FormatConfig controls how documents are turned into vectors.
type FormatConfig struct {
	MinDF         int
	MaxVocabSize  int
	MinWordLength int
	MaxNgram      int
	StopWords     bool
	TFIDF         bool
	Binary        bool // term presence instead of counts
}

func (cfg FormatConfig) options() vectorizer.Options {
	opts := vectorizer.Options{
		TermOptions: textutil.TermOptions{
			MinWordLength: cfg.MinWordLength,
			MaxNgram:      cfg.MaxNgram,
		},
		MinDF:        cfg.MinDF,
		MaxVocabSize: cfg.MaxVocabSize,
		Binary:       cfg.Binary,
	}
	if cfg.StopWords {
		opts.StopWords = textutil.EnglishStopWords()
	}
	return opts
}

// NewVectorizer returns an unfitted vectorizer for cfg.
func NewVectorizer(cfg FormatConfig) Vectorizer {
	if cfg.TFIDF {
		return vectorizer.NewTfidfVectorizer(cfg.options())
	}
	return vectorizer.NewCountVectorizer(cfg.options())
}

// LoadVectorizer returns a count vectorizer over the vocabulary file at path,
// one term per line as written by Format. The result is already fitted: pass
// it to FormatWith, since Fit would replace the vocabulary. Tokenization
// follows cfg; MinDF, MaxVocabSize and TFIDF do not apply.
func LoadVectorizer(path string, cfg FormatConfig) (Vectorizer, error) {
	if cfg.TFIDF {
		return nil, fmt.Errorf("corpusfold: %w", errs.Configf("a vocabulary file cannot be combined with tf-idf weighting"))
	}
	terms, err := storage.ReadVocab(path)
	if err != nil {
		return nil, fmt.Errorf("corpusfold: read vocabulary: %w", err)
	}
	return vectorizer.FromVocabulary(terms, cfg.options()), nil
}

// Format fits vec on the dataset's texts and writes <name>.wvoc, <name>.dat
// and <name>.docinfo into folder.
func (d *ResponseDataset) Format(folder, name string, vec Vectorizer) error {
	vec.Fit(d.Texts)
	return d.FormatWith(folder, name, vec)
}

// FormatWith writes the dataset with an already fitted vectorizer, so that
// development and test data share the training vocabulary.
func (d *ResponseDataset) FormatWith(folder, name string, vec Vectorizer) error {
	store := storage.NewStorage(folder)
	vectors := vec.TransformAll(d.Texts)
	if err := storage.WriteVocab(store.Path(name+storage.VocabExt), vec.Vocab()); err != nil {
		return fmt.Errorf("corpusfold: write vocabulary: %w", err)
	}
	if err := storage.WriteVectors(store.Path(name+storage.VectorExt), vectors); err != nil {
		return fmt.Errorf("corpusfold: write vectors: %w", err)
	}
	if err := d.OutputDocumentInfo(store.Path(name + storage.DocInfoExt)); err != nil {
		return err
	}
	slog.Debug("Dataset formatted", "folder", folder, "name", name, "docs", d.Len(), "vocab", len(vec.Vocab()))
	return nil
}

// FormattedData is a dataset read back from formatted files.
type FormattedData struct {
	*ResponseDataset
	Vocab   []string
	Vectors []*sparse.Vector
}

// LoadFormattedData reads the files written by Format.
func LoadFormattedData(folder, name string) (*FormattedData, error) {
	store := storage.NewStorage(folder)
	vocab, err := storage.ReadVocab(store.Path(name + storage.VocabExt))
	if err != nil {
		return nil, fmt.Errorf("corpusfold: read vocabulary: %w", err)
	}
	vectorPath := store.Path(name + storage.VectorExt)
	vectors, err := storage.ReadVectors(vectorPath)
	if err != nil {
		return nil, fmt.Errorf("corpusfold: read vectors: %w", err)
	}
	data, err := InputDocumentInfo(store.Path(name + storage.DocInfoExt))
	if err != nil {
		return nil, err
	}
	if len(vectors) != data.Len() {
		return nil, fmt.Errorf("corpusfold: %w", errs.Record(errs.ErrLoad, vectorPath, 0, "",
			fmt.Errorf("%d vectors for %d documents", len(vectors), data.Len())))
	}
	for i, v := range vectors {
		for _, idx := range v.SortedIndices() {
			if idx >= len(vocab) {
				return nil, fmt.Errorf("corpusfold: %w", errs.Record(errs.ErrLoad, vectorPath, i+1, v.String(),
					fmt.Errorf("term index %d outside vocabulary of %d", idx, len(vocab))))
			}
		}
	}
	return &FormattedData{ResponseDataset: data, Vocab: vocab, Vectors: vectors}, nil
}
