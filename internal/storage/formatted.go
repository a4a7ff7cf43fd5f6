package storage

import (
	"bufio"
	"fmt"

	"github.com/happyhackingspace/corpusfold/errs"
	"github.com/happyhackingspace/corpusfold/sparse"
)

// File extensions of formatted data.
const (
	VocabExt   = ".wvoc"
	VectorExt  = ".dat"
	DocInfoExt = ".docinfo"
)

// WriteVocab writes one term per line; the line order is the term index.
func WriteVocab(path string, terms []string) error {
	return WriteFile(path, func(w *bufio.Writer) error {
		for _, term := range terms {
			if _, err := w.WriteString(term + "\n"); err != nil {
				return err
			}
		}
		return nil
	})
}

// ReadVocab reads a file written by WriteVocab. A repeated term is a load
// error since it would leave an index without a term.
func ReadVocab(path string) ([]string, error) {
	var terms []string
	seen := make(map[string]bool)
	err := ScanFile(path, func(line int, text string) error {
		if seen[text] {
			return errs.Record(errs.ErrLoad, path, line, text, fmt.Errorf("duplicate term"))
		}
		seen[text] = true
		terms = append(terms, text)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return terms, nil
}

// WriteVectors writes one encoded sparse vector per line.
func WriteVectors(path string, vectors []*sparse.Vector) error {
	return WriteFile(path, func(w *bufio.Writer) error {
		for _, v := range vectors {
			if _, err := fmt.Fprintln(w, v.String()); err != nil {
				return err
			}
		}
		return nil
	})
}

// ReadVectors reads a file written by WriteVectors.
func ReadVectors(path string) ([]*sparse.Vector, error) {
	var vectors []*sparse.Vector
	err := ScanFile(path, func(line int, text string) error {
		v, err := sparse.Parse(text)
		if err != nil {
			return errs.Record(errs.ErrLoad, path, line, "", err)
		}
		vectors = append(vectors, v)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return vectors, nil
}
