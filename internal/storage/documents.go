package storage

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/happyhackingspace/corpusfold/errs"
	"github.com/happyhackingspace/corpusfold/internal/htmlutil"
)

// Document is a raw document with its identifier.
type Document struct {
	ID   string
	Text string
}

// LoadTextFolder reads one document per regular file in dir, ordered by
// file name. The identifier is the file name without its extension; HTML
// files are reduced to their visible text.
func LoadTextFolder(dir string) ([]Document, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read text folder: %w", err)
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.Type().IsRegular() && !strings.HasPrefix(e.Name(), ".") {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)

	seen := make(map[string]bool, len(names))
	docs := make([]Document, 0, len(names))
	for _, name := range names {
		path := filepath.Join(dir, name)
		ext := filepath.Ext(name)
		id := strings.TrimSuffix(name, ext)
		if seen[id] {
			return nil, errs.Record(errs.ErrInput, path, 0, id, fmt.Errorf("duplicate document id"))
		}
		seen[id] = true

		text, err := readDocumentText(path, ext)
		if err != nil {
			return nil, fmt.Errorf("read document %s: %w", path, err)
		}
		docs = append(docs, Document{ID: id, Text: text})
	}
	return docs, nil
}

func readDocumentText(path, ext string) (string, error) {
	switch strings.ToLower(ext) {
	case ".html", ".htm":
		f, err := os.Open(path)
		if err != nil {
			return "", err
		}
		defer func() { _ = f.Close() }()
		return htmlutil.ExtractText(f)
	default:
		data, err := os.ReadFile(path)
		if err != nil {
			return "", err
		}
		return string(data), nil
	}
}

// LoadTextFile reads one document per line of path, each line being
// "<id>\t<text>".
func LoadTextFile(path string) ([]Document, error) {
	seen := make(map[string]bool)
	var docs []Document
	err := ScanFile(path, func(line int, text string) error {
		id, body, ok := strings.Cut(text, "\t")
		if !ok || id == "" {
			return errs.Record(errs.ErrInput, path, line, text, fmt.Errorf("expected <id>\\t<text>"))
		}
		if seen[id] {
			return errs.Record(errs.ErrInput, path, line, id, fmt.Errorf("duplicate document id"))
		}
		seen[id] = true
		docs = append(docs, Document{ID: id, Text: body})
		return nil
	})
	if err != nil {
		return nil, err
	}
	return docs, nil
}
