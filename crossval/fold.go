// Package crossval builds, persists and reloads stratified cross-validation
// folds over a list of document identifiers.
package crossval

import (
	"fmt"
	"path/filepath"
	"slices"

	"github.com/happyhackingspace/corpusfold/errs"
)

// Split positions, also used to index per-split arrays.
const (
	Train = iota
	Dev
	Test
)

// Split names used in fold files.
var splitNames = [3]string{Train: "train", Dev: "dev", Test: "test"}

// File extensions of per-split formatted data inside a fold folder.
const (
	TrainingExt = ".tr"
	DevelopExt  = ".de"
	TestExt     = ".te"
	FoldExt     = ".fold"
)

// SplitName returns "train", "dev" or "test".
func SplitName(split int) string {
	return splitNames[split]
}

// SplitExt returns the file name suffix of a split's formatted data.
func SplitExt(split int) string {
	return [3]string{TrainingExt, DevelopExt, TestExt}[split]
}

// Fold is one train/development/test partition. It is immutable: accessors
// return copies.
type Fold struct {
	name   string
	folder string
	sets   [3][]int
}

// NewFold creates a fold. The index sets must be non-negative and pairwise
// disjoint; they are stored sorted.
func NewFold(name, folder string, train, dev, test []int) (*Fold, error) {
	f := &Fold{name: name, folder: folder}
	seen := make(map[int]int)
	for split, set := range [3][]int{train, dev, test} {
		for _, idx := range set {
			if idx < 0 {
				return nil, errs.Inputf("fold %s: negative index %d", name, idx)
			}
			if prev, dup := seen[idx]; dup {
				return nil, errs.Inputf("fold %s: index %d is in both %s and %s",
					name, idx, SplitName(prev), SplitName(split))
			}
			seen[idx] = split
		}
		s := slices.Clone(set)
		if s == nil {
			s = []int{}
		}
		slices.Sort(s)
		f.sets[split] = s
	}
	return f, nil
}

// Name returns the fold name, e.g. "fold-0".
func (f *Fold) Name() string { return f.name }

// Folder returns the cross-validation folder holding the fold.
func (f *Fold) Folder() string { return f.folder }

// Path returns the fold's own folder.
func (f *Fold) Path() string { return filepath.Join(f.folder, f.name) }

// Indices returns a copy of the indices of a split.
func (f *Fold) Indices(split int) []int { return slices.Clone(f.sets[split]) }

// Training returns a copy of the training indices.
func (f *Fold) Training() []int { return f.Indices(Train) }

// Development returns a copy of the development indices.
func (f *Fold) Development() []int { return f.Indices(Dev) }

// Testing returns a copy of the test indices.
func (f *Fold) Testing() []int { return f.Indices(Test) }

// Len returns the number of indices in a split.
func (f *Fold) Len(split int) int { return len(f.sets[split]) }

// Equal reports whether two folds have the same name and index sets.
func (f *Fold) Equal(other *Fold) bool {
	if f.name != other.name {
		return false
	}
	for split := range f.sets {
		if !slices.Equal(f.sets[split], other.sets[split]) {
			return false
		}
	}
	return true
}

func (f *Fold) String() string {
	return fmt.Sprintf("%s (train %d, dev %d, test %d)", f.name, f.Len(Train), f.Len(Dev), f.Len(Test))
}
