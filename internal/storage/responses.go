package storage

import (
	"bufio"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/happyhackingspace/corpusfold/errs"
)

// ReadResponses reads "<documentId>\t<response>" records and places each
// value at the position index assigns to its id. ids lists the documents
// in position order. Unknown ids, duplicate ids, malformed lines and
// documents left without a response are input errors.
func ReadResponses(path string, ids []string, index map[string]int) ([]float64, error) {
	if len(ids) != len(index) {
		return nil, errs.Inputf("%d document ids but %d index entries", len(ids), len(index))
	}
	responses := make([]float64, len(ids))
	filled := make([]bool, len(ids))

	err := ScanFile(path, func(line int, text string) error {
		id, value, err := splitRecord(text)
		if err != nil {
			return errs.Record(errs.ErrInput, path, line, text, err)
		}
		pos, ok := index[id]
		if !ok {
			return errs.Record(errs.ErrInput, path, line, id, fmt.Errorf("unknown document id"))
		}
		if filled[pos] {
			return errs.Record(errs.ErrInput, path, line, id, fmt.Errorf("duplicate response"))
		}
		responses[pos] = value
		filled[pos] = true
		return nil
	})
	if err != nil {
		return nil, err
	}

	for pos, id := range ids {
		if !filled[pos] {
			return nil, errs.Record(errs.ErrInput, path, 0, id, fmt.Errorf("document has no response"))
		}
	}
	return responses, nil
}

// WriteDocInfo writes one "<documentId>\t<response>" line per document.
func WriteDocInfo(path string, ids []string, responses []float64) error {
	if len(ids) != len(responses) {
		return errs.Inputf("%d document ids but %d responses", len(ids), len(responses))
	}
	return WriteFile(path, func(w *bufio.Writer) error {
		for i, id := range ids {
			if _, err := fmt.Fprintf(w, "%s\t%s\n", id, formatFloat(responses[i])); err != nil {
				return err
			}
		}
		return nil
	})
}

// ReadDocInfo reads a file written by WriteDocInfo.
func ReadDocInfo(path string) ([]string, []float64, error) {
	var ids []string
	var responses []float64
	err := ScanFile(path, func(line int, text string) error {
		id, value, err := splitRecord(text)
		if err != nil {
			return errs.Record(errs.ErrLoad, path, line, text, err)
		}
		ids = append(ids, id)
		responses = append(responses, value)
		return nil
	})
	if err != nil {
		return nil, nil, err
	}
	return ids, responses, nil
}

func splitRecord(text string) (string, float64, error) {
	fields := strings.Split(text, "\t")
	if len(fields) != 2 || fields[0] == "" {
		return "", 0, fmt.Errorf("expected <id>\\t<value>")
	}
	value, err := strconv.ParseFloat(strings.TrimSpace(fields[1]), 64)
	if err != nil {
		return "", 0, fmt.Errorf("invalid response value: %w", err)
	}
	if math.IsNaN(value) || math.IsInf(value, 0) {
		return "", 0, fmt.Errorf("non-finite response value %q", fields[1])
	}
	return fields[0], value, nil
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}
