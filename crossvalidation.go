package corpusfold

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/happyhackingspace/corpusfold/crossval"
	"github.com/happyhackingspace/corpusfold/internal/storage"
	"github.com/happyhackingspace/corpusfold/stratify"
)

// CrossValidationConfig holds configuration for building cross-validation
// folds.
type CrossValidationConfig struct {
	Folder       string
	Name         string
	NumFolds     int
	TrToDevRatio float64
	NumClasses   int
	Seed         uint64
	Workers      int    // folds formatted concurrently; <= 0 means one
	ZNormalize   bool   // normalize fold responses with training statistics
	DB           string // optional SQLite file receiving the fold assignments
	Format       FormatConfig
}

// Params returns the stratification parameters of cfg.
func (cfg CrossValidationConfig) Params() crossval.Params {
	return crossval.Params{
		NumFolds:     cfg.NumFolds,
		TrToDevRatio: cfg.TrToDevRatio,
		NumClasses:   cfg.NumClasses,
		Seed:         cfg.Seed,
	}
}

// CreateCrossValidation discretizes the responses of d, builds stratified
// folds, writes them under cfg.Folder/cfg.Name and formats the training,
// development and test data of every fold.
//
// Cancelling ctx stops formatting before the next split file is written and
// returns the context error. Fold files and the manifest are written before
// formatting starts and are left in place; a split file already being written
// is completed.
func CreateCrossValidation(ctx context.Context, d *ResponseDataset, cfg CrossValidationConfig) (*crossval.CrossValidation, error) {
	if err := stratify.Validate(cfg.NumFolds, cfg.TrToDevRatio); err != nil {
		return nil, fmt.Errorf("corpusfold: %w", err)
	}

	start := time.Now()
	labels := stratify.Discretize(d.Responses, cfg.NumClasses)
	cv, err := crossval.New(cfg.Folder, cfg.Name, d.IDs)
	if err != nil {
		return nil, fmt.Errorf("corpusfold: %w", err)
	}
	if err := cv.Stratify(labels, cfg.Params()); err != nil {
		return nil, fmt.Errorf("corpusfold: %w", err)
	}
	if err := cv.OutputFolds(); err != nil {
		return nil, fmt.Errorf("corpusfold: %w", err)
	}
	slog.Info("Folds written", "path", cv.Path(), "folds", len(cv.Folds()), "docs", d.Len())

	workers := cfg.Workers
	if workers < 1 {
		workers = 1
	}
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for _, f := range cv.Folds() {
		g.Go(func() error {
			return formatFold(gctx, d, f, cfg)
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("corpusfold: %w", err)
	}

	if cfg.DB != "" {
		if err := exportAssignments(ctx, cv, cfg.DB); err != nil {
			return nil, fmt.Errorf("corpusfold: %w", err)
		}
	}
	slog.Debug("Cross-validation created", "duration", time.Since(start))
	return cv, nil
}

func formatFold(ctx context.Context, d *ResponseDataset, f *crossval.Fold, cfg CrossValidationConfig) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	var sets [3]*ResponseDataset
	for split := range sets {
		sets[split] = d.Subset(f.Indices(split))
	}
	if cfg.ZNormalize {
		if _, err := ZNormalizeSplits(sets[crossval.Train], sets[crossval.Dev], sets[crossval.Test]); err != nil {
			return fmt.Errorf("%s: %w", f.Name(), err)
		}
	}

	vec := NewVectorizer(cfg.Format)
	if err := sets[crossval.Train].Format(f.Path(), splitFileName(f, crossval.Train), vec); err != nil {
		return fmt.Errorf("%s: %w", f.Name(), err)
	}
	for _, split := range []int{crossval.Dev, crossval.Test} {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := sets[split].FormatWith(f.Path(), splitFileName(f, split), vec); err != nil {
			return fmt.Errorf("%s: %w", f.Name(), err)
		}
	}
	slog.Debug("Fold formatted", "fold", f.Name(), "vocab", len(vec.Vocab()))
	return nil
}

func splitFileName(f *crossval.Fold, split int) string {
	return f.Name() + crossval.SplitExt(split)
}

func exportAssignments(ctx context.Context, cv *crossval.CrossValidation, path string) (err error) {
	db, err := storage.OpenSQLite(path)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := db.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}()

	store, err := storage.NewSQLiteStore(ctx, db)
	if err != nil {
		return err
	}
	var rows []storage.Assignment
	for _, a := range cv.Assignments() {
		rows = append(rows, storage.Assignment{Fold: a.Fold, Index: a.Index, DocID: a.ID, Split: a.Split})
	}
	if err := store.SaveAssignments(ctx, cv.Name, rows); err != nil {
		return err
	}
	slog.Info("Fold assignments exported", "db", path, "rows", len(rows))
	return nil
}

// LoadCrossValidationFold reads back the formatted training, development and
// test data of a fold.
func LoadCrossValidationFold(f *crossval.Fold) ([3]*FormattedData, error) {
	var out [3]*FormattedData
	for split := range out {
		data, err := LoadFormattedData(f.Path(), splitFileName(f, split))
		if err != nil {
			return out, err
		}
		out[split] = data
	}
	return out, nil
}
