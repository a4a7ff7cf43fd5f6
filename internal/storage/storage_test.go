package storage

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/happyhackingspace/corpusfold/errs"
	"github.com/happyhackingspace/corpusfold/sparse"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
}

func TestLoadTextFolder(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "b.txt"), "second document")
	writeFile(t, filepath.Join(dir, "a.txt"), "first document")
	writeFile(t, filepath.Join(dir, "c.html"), "<html><body><p>third <i>one</i></p><script>x()</script></body></html>")
	writeFile(t, filepath.Join(dir, ".hidden"), "skip me")

	docs, err := LoadTextFolder(dir)
	if err != nil {
		t.Fatal(err)
	}
	want := []Document{
		{ID: "a", Text: "first document"},
		{ID: "b", Text: "second document"},
		{ID: "c", Text: "third one"},
	}
	if !reflect.DeepEqual(docs, want) {
		t.Errorf("LoadTextFolder = %+v, want %+v", docs, want)
	}
}

func TestLoadTextFolderDuplicateID(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "a.txt"), "x")
	writeFile(t, filepath.Join(dir, "a.html"), "<p>y</p>")

	if _, err := LoadTextFolder(dir); !errors.Is(err, errs.ErrInput) {
		t.Errorf("err = %v, want ErrInput", err)
	}
}

func TestLoadTextFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "docs.txt")
	writeFile(t, path, "d1\tfirst text\r\n\nd2\tsecond\ttabbed\n")

	docs, err := LoadTextFile(path)
	if err != nil {
		t.Fatal(err)
	}
	want := []Document{{"d1", "first text"}, {"d2", "second\ttabbed"}}
	if !reflect.DeepEqual(docs, want) {
		t.Errorf("LoadTextFile = %+v, want %+v", docs, want)
	}

	writeFile(t, path, "d1\tx\nno-tab-here\n")
	_, err = LoadTextFile(path)
	var recErr *errs.RecordError
	if !errors.As(err, &recErr) || recErr.Line != 2 {
		t.Errorf("err = %v, want RecordError on line 2", err)
	}
}

func TestReadResponses(t *testing.T) {
	ids := []string{"d1", "d2", "d3"}
	index := map[string]int{"d1": 0, "d2": 1, "d3": 2}
	path := filepath.Join(t.TempDir(), "responses.txt")

	writeFile(t, path, "d3\t-1.5\nd1\t2\nd2\t0.25\n")
	got, err := ReadResponses(path, ids, index)
	if err != nil {
		t.Fatal(err)
	}
	if want := []float64{2, 0.25, -1.5}; !reflect.DeepEqual(got, want) {
		t.Errorf("ReadResponses = %v, want %v", got, want)
	}

	bad := map[string]string{
		"unknown id":   "d1\t1\nd2\t2\nd9\t3\n",
		"duplicate":    "d1\t1\nd1\t2\nd2\t2\nd3\t3\n",
		"missing":      "d1\t1\nd3\t3\n",
		"bad value":    "d1\t1\nd2\tabc\nd3\t3\n",
		"bad columns":  "d1\t1\t7\nd2\t2\nd3\t3\n",
		"infinite":     "d1\t1\nd2\tInf\nd3\t3\n",
		"not a number": "d1\t1\nd2\t2\nd3\tNaN\n",
	}
	for name, content := range bad {
		writeFile(t, path, content)
		if _, err := ReadResponses(path, ids, index); !errors.Is(err, errs.ErrInput) {
			t.Errorf("%s: err = %v, want ErrInput", name, err)
		}
	}

	writeFile(t, path, "d1\t1\nd2\t2\nd9\t3\n")
	_, err = ReadResponses(path, ids, index)
	if err == nil || !strings.Contains(err.Error(), "d9") {
		t.Errorf("err = %v, want it to name d9", err)
	}
}

func TestDocInfoRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "data.docinfo")
	ids := []string{"x", "y", "z"}
	responses := []float64{0.1, -3, 1e21}

	if err := WriteDocInfo(path, ids, responses); err != nil {
		t.Fatal(err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if got := string(data); got != "x\t0.1\ny\t-3\nz\t1e+21\n" {
		t.Errorf("file content = %q", got)
	}

	gotIDs, gotResponses, err := ReadDocInfo(path)
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(gotIDs, ids) || !reflect.DeepEqual(gotResponses, responses) {
		t.Errorf("ReadDocInfo = %v %v, want %v %v", gotIDs, gotResponses, ids, responses)
	}

	writeFile(t, path, "x\t0.1\ny\t-Inf\n")
	if _, _, err := ReadDocInfo(path); !errors.Is(err, errs.ErrLoad) {
		t.Errorf("non-finite doc info err = %v, want ErrLoad", err)
	}

	if err := WriteDocInfo(path, ids, responses[:2]); !errors.Is(err, errs.ErrInput) {
		t.Errorf("length mismatch err = %v, want ErrInput", err)
	}
}

func TestFormattedRoundTrip(t *testing.T) {
	dir := t.TempDir()
	terms := []string{"budget", "tax cut", "senate"}
	vectors := []*sparse.Vector{
		sparse.FromMap(map[int]float64{0: 2, 2: 1}),
		sparse.New(),
		sparse.FromMap(map[int]float64{1: 0.5}),
	}

	vocabPath := filepath.Join(dir, "data"+VocabExt)
	vectorPath := filepath.Join(dir, "data"+VectorExt)
	if err := WriteVocab(vocabPath, terms); err != nil {
		t.Fatal(err)
	}
	if err := WriteVectors(vectorPath, vectors); err != nil {
		t.Fatal(err)
	}

	gotTerms, err := ReadVocab(vocabPath)
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(gotTerms, terms) {
		t.Errorf("ReadVocab = %v, want %v", gotTerms, terms)
	}
	writeFile(t, vocabPath, "budget\ntax\nbudget\n")
	if _, err := ReadVocab(vocabPath); !errors.Is(err, errs.ErrLoad) {
		t.Errorf("duplicate term err = %v, want ErrLoad", err)
	}
	gotVectors, err := ReadVectors(vectorPath)
	if err != nil {
		t.Fatal(err)
	}
	if len(gotVectors) != len(vectors) {
		t.Fatalf("ReadVectors returned %d vectors, want %d", len(gotVectors), len(vectors))
	}
	for i := range vectors {
		if gotVectors[i].String() != vectors[i].String() {
			t.Errorf("vector %d = %q, want %q", i, gotVectors[i], vectors[i])
		}
	}

	writeFile(t, vectorPath, "1 0:1\n2 0:1\n")
	if _, err := ReadVectors(vectorPath); !errors.Is(err, errs.ErrLoad) {
		t.Errorf("malformed vector err = %v, want ErrLoad", err)
	}
}

func TestSQLiteStore(t *testing.T) {
	ctx := context.Background()
	db, err := OpenSQLite(filepath.Join(t.TempDir(), "folds.db"))
	if err != nil {
		t.Fatal(err)
	}
	defer func() { _ = db.Close() }()

	store, err := NewSQLiteStore(ctx, db)
	if err != nil {
		t.Fatal(err)
	}
	first := []Assignment{
		{Fold: "fold-0", Index: 1, DocID: "b", Split: "test"},
		{Fold: "fold-0", Index: 0, DocID: "a", Split: "train"},
	}
	if err := store.SaveAssignments(ctx, "run", first); err != nil {
		t.Fatal(err)
	}
	// saving again replaces the run
	second := []Assignment{{Fold: "fold-1", Index: 0, DocID: "a", Split: "dev"}}
	if err := store.SaveAssignments(ctx, "run", second); err != nil {
		t.Fatal(err)
	}
	if err := store.SaveAssignments(ctx, "other", first); err != nil {
		t.Fatal(err)
	}

	got, err := store.Assignments(ctx, "run")
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(got, second) {
		t.Errorf("Assignments(run) = %+v, want %+v", got, second)
	}
	got, err = store.Assignments(ctx, "other")
	if err != nil {
		t.Fatal(err)
	}
	want := []Assignment{first[1], first[0]}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Assignments(other) = %+v, want %+v", got, want)
	}
}
