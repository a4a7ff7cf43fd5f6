package crossval

import (
	"bufio"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/happyhackingspace/corpusfold/errs"
	"github.com/happyhackingspace/corpusfold/internal/storage"
	"github.com/happyhackingspace/corpusfold/stratify"
)

// ManifestFile is the run description written next to the fold folders.
const ManifestFile = "cv.yaml"

// Params are the stratification parameters of a run.
type Params struct {
	NumFolds     int     `yaml:"numFolds"`
	TrToDevRatio float64 `yaml:"trToDevRatio"`
	NumClasses   int     `yaml:"numClasses"`
	Seed         uint64  `yaml:"seed"`
}

// CrossValidation owns the instance identifiers, their class labels and the
// folds built over them.
type CrossValidation struct {
	Folder    string
	Name      string
	Instances []string

	params Params
	labels []int
	folds  []*Fold
}

// New creates an empty cross-validation run over instances. Instance
// identifiers must be unique.
func New(folder, name string, instances []string) (*CrossValidation, error) {
	seen := make(map[string]bool, len(instances))
	for i, id := range instances {
		if seen[id] {
			return nil, errs.Inputf("duplicate instance id %q at position %d", id, i)
		}
		seen[id] = true
	}
	return &CrossValidation{Folder: folder, Name: name, Instances: instances}, nil
}

// Path returns the folder holding the run's manifest and fold folders.
func (cv *CrossValidation) Path() string {
	return filepath.Join(cv.Folder, cv.Name)
}

// Params returns the stratification parameters.
func (cv *CrossValidation) Params() Params { return cv.params }

// Labels returns a copy of the class label of each instance.
func (cv *CrossValidation) Labels() []int { return append([]int(nil), cv.labels...) }

// Folds returns the folds in order.
func (cv *CrossValidation) Folds() []*Fold { return append([]*Fold(nil), cv.folds...) }

// FoldName returns the name of fold k.
func FoldName(k int) string {
	return "fold-" + strconv.Itoa(k)
}

// Stratify builds params.NumFolds folds from one class label per instance,
// replacing any previous folds. The shuffle is seeded with params.Seed.
func (cv *CrossValidation) Stratify(labels []int, params Params) error {
	if len(labels) != len(cv.Instances) {
		return errs.Inputf("%d labels for %d instances", len(labels), len(cv.Instances))
	}
	rng := rand.New(rand.NewPCG(params.Seed, params.Seed))
	splits, err := stratify.Partition(labels, params.NumFolds, params.TrToDevRatio, rng)
	if err != nil {
		return err
	}

	folds := make([]*Fold, len(splits))
	for k, s := range splits {
		f, err := NewFold(FoldName(k), cv.Path(), s.Train, s.Dev, s.Test)
		if err != nil {
			return err
		}
		folds[k] = f
	}
	cv.params = params
	cv.labels = append([]int(nil), labels...)
	cv.folds = folds
	return nil
}

// OutputFolds writes every fold file, then the manifest.
func (cv *CrossValidation) OutputFolds() error {
	if len(cv.folds) == 0 {
		return errs.Configf("no folds to output; stratify first")
	}
	names := make([]string, len(cv.folds))
	for k, f := range cv.folds {
		if err := WriteFold(f, cv.Instances); err != nil {
			return fmt.Errorf("write %s: %w", f.Name(), err)
		}
		names[k] = f.Name()
		slog.Debug("Fold written", "fold", f.Name(), "path", f.Path())
	}

	m := manifest{
		Name:         cv.Name,
		NumInstances: len(cv.Instances),
		Params:       cv.params,
		Folds:        names,
		Labels:       cv.labels,
	}
	return storage.WriteFile(filepath.Join(cv.Path(), ManifestFile), func(w *bufio.Writer) error {
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(&m); err != nil {
			return err
		}
		return enc.Close()
	})
}

// Assignment is the membership of one instance in one split of one fold.
type Assignment struct {
	Fold  string
	Index int
	ID    string
	Split string
}

// Assignments lists every (fold, instance) membership in fold order, then
// split order, then index order.
func (cv *CrossValidation) Assignments() []Assignment {
	var out []Assignment
	for _, f := range cv.folds {
		for split := range f.sets {
			for _, idx := range f.sets[split] {
				out = append(out, Assignment{Fold: f.Name(), Index: idx, ID: cv.Instances[idx], Split: SplitName(split)})
			}
		}
	}
	return out
}

type manifest struct {
	Name         string   `yaml:"name"`
	NumInstances int      `yaml:"numInstances"`
	Params       Params   `yaml:",inline"`
	Folds        []string `yaml:"folds"`
	Labels       []int    `yaml:"labels,flow"`
}

// FoldFile returns the path of a fold's record file.
func FoldFile(f *Fold) string {
	return filepath.Join(f.Path(), f.Name()+FoldExt)
}

// WriteFold writes one "<index>\t<id>\t<split>" record per instance of the
// fold, split by split.
func WriteFold(f *Fold, ids []string) error {
	return storage.WriteFile(FoldFile(f), func(w *bufio.Writer) error {
		for split := range f.sets {
			for _, idx := range f.sets[split] {
				if idx >= len(ids) {
					return errs.Inputf("fold %s: index %d outside %d instances", f.Name(), idx, len(ids))
				}
				if _, err := fmt.Fprintf(w, "%d\t%s\t%s\n", idx, ids[idx], SplitName(split)); err != nil {
					return err
				}
			}
		}
		return nil
	})
}

// LoadFold reads the fold called name from the cross-validation folder.
// When ids is non-nil every record must match it.
func LoadFold(folder, name string, ids []string) (*Fold, error) {
	f, _, err := readFold(folder, name, ids)
	return f, err
}

func readFold(folder, name string, ids []string) (*Fold, map[int]string, error) {
	path := filepath.Join(folder, name, name+FoldExt)
	var sets [3][]int
	records := make(map[int]string)

	err := storage.ScanFile(path, func(line int, text string) error {
		fields := strings.Split(text, "\t")
		if len(fields) != 3 {
			return errs.Record(errs.ErrLoad, path, line, text, fmt.Errorf("expected <index>\\t<id>\\t<split>"))
		}
		idx, err := strconv.Atoi(fields[0])
		if err != nil || idx < 0 {
			return errs.Record(errs.ErrLoad, path, line, text, fmt.Errorf("invalid index %q", fields[0]))
		}
		split := -1
		for s, n := range splitNames {
			if fields[2] == n {
				split = s
			}
		}
		if split < 0 {
			return errs.Record(errs.ErrLoad, path, line, text, fmt.Errorf("unknown split %q", fields[2]))
		}
		if _, dup := records[idx]; dup {
			return errs.Record(errs.ErrLoad, path, line, text, fmt.Errorf("duplicate index %d", idx))
		}
		if ids != nil && (idx >= len(ids) || ids[idx] != fields[1]) {
			return errs.Record(errs.ErrLoad, path, line, text, fmt.Errorf("id does not match instance %d", idx))
		}
		records[idx] = fields[1]
		sets[split] = append(sets[split], idx)
		return nil
	})
	if err != nil {
		return nil, nil, err
	}

	f, err := NewFold(name, folder, sets[Train], sets[Dev], sets[Test])
	if err != nil {
		return nil, nil, err
	}
	return f, records, nil
}

// Load rebuilds a run written by OutputFolds, including its instance list
// and labels.
func Load(folder, name string) (*CrossValidation, error) {
	cv := &CrossValidation{Folder: folder, Name: name}
	path := filepath.Join(cv.Path(), ManifestFile)
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read manifest: %w", err)
	}
	var m manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, errs.Record(errs.ErrLoad, path, 0, "", err)
	}
	if m.NumInstances < 0 {
		return nil, errs.Record(errs.ErrLoad, path, 0, "numInstances",
			fmt.Errorf("negative instance count %d", m.NumInstances))
	}
	numClasses := max(m.Params.NumClasses, 1)
	for i, l := range m.Labels {
		if l < 0 || l >= numClasses {
			return nil, errs.Record(errs.ErrLoad, path, 0, "labels",
				fmt.Errorf("label %d of instance %d outside [0,%d)", l, i, numClasses))
		}
	}
	if m.Labels != nil && len(m.Labels) != m.NumInstances {
		return nil, errs.Record(errs.ErrLoad, path, 0, "labels",
			fmt.Errorf("%d labels for %d instances", len(m.Labels), m.NumInstances))
	}

	instances := make([]string, m.NumInstances)
	known := make([]bool, m.NumInstances)
	for _, foldName := range m.Folds {
		f, records, err := readFold(cv.Path(), foldName, nil)
		if err != nil {
			return nil, err
		}
		for idx, id := range records {
			if idx >= m.NumInstances {
				return nil, errs.Record(errs.ErrLoad, FoldFile(f), 0, id,
					fmt.Errorf("index %d outside %d instances", idx, m.NumInstances))
			}
			if known[idx] && instances[idx] != id {
				return nil, errs.Record(errs.ErrLoad, FoldFile(f), 0, id,
					fmt.Errorf("instance %d was %q in an earlier fold", idx, instances[idx]))
			}
			instances[idx] = id
			known[idx] = true
		}
		cv.folds = append(cv.folds, f)
	}
	for idx, ok := range known {
		if !ok {
			return nil, errs.Record(errs.ErrLoad, path, 0, "", fmt.Errorf("instance %d is in no fold", idx))
		}
	}

	cv.Instances = instances
	cv.params = m.Params
	cv.labels = m.Labels
	return cv, nil
}
