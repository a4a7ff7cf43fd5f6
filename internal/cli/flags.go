package cli

import (
	"log/slog"

	"github.com/happyhackingspace/corpusfold"
	"github.com/happyhackingspace/corpusfold/internal/config"
	"github.com/spf13/pflag"
)

// Flag defaults mirror config.Default; a flag only overrides the loaded
// configuration when it is set on the command line.

func addDatasetFlags(fs *pflag.FlagSet) {
	d := config.Default().Dataset
	fs.String("dataset", d.Name, "Dataset name, used for output file names")
	fs.String("data-folder", d.DataFolder, "Folder holding the dataset")
	fs.String("text-data", d.TextData, "Document folder, or document file with --file (relative to --data-folder)")
	fs.Bool("file", d.TextFile, "Read documents from one \"<id>\\t<text>\" line each")
	fs.String("response-file", d.ResponseFile, "Response file (relative to --data-folder)")
}

func addFormatFlags(fs *pflag.FlagSet) {
	f := config.Default().Format
	fs.Int("min-df", f.MinDF, "Minimum document frequency of a vocabulary term")
	fs.Int("max-vocab", f.MaxVocabSize, "Maximum vocabulary size (0 keeps every term)")
	fs.Int("min-word-length", f.MinWordLength, "Minimum word length in runes")
	fs.Bool("stopwords", f.StopWords, "Remove English stop words")
	fs.Bool("bigrams", f.MaxNgram > 1, "Add word bigrams to the vocabulary")
	fs.Bool("tfidf", f.TFIDF, "Weight vectors by TF-IDF instead of raw counts")
	fs.Bool("binary", f.Binary, "Record term presence instead of counts")
	fs.Bool("znorm", false, "Z-normalize responses (with training statistics for folds)")
}

func addCrossValidationFlags(fs *pflag.FlagSet) {
	cv := config.Default().CrossValidation
	fs.Int("num-folds", cv.NumFolds, "Number of folds")
	fs.Float64("tr2dev-ratio", cv.TrToDevRatio, "Share of non-test documents used for training")
	fs.Int("num-classes", cv.NumClasses, "Number of response classes to stratify on")
	fs.String("cv-folder", cv.Folder, "Cross-validation output folder (default <data-folder>/cv)")
	fs.Uint64("seed", cv.Seed, "Shuffle seed")
	fs.Int("workers", cv.Workers, "Folds formatted concurrently")
	fs.String("db", cv.DB, "SQLite file receiving the fold assignments")
}

// applyFlags copies explicitly set flags onto cfg and validates the result.
func applyFlags(cfg *config.Config, fs *pflag.FlagSet) error {
	fs.Visit(func(f *pflag.Flag) {
		switch f.Name {
		case "dataset":
			cfg.Dataset.Name, _ = fs.GetString(f.Name)
		case "data-folder":
			cfg.Dataset.DataFolder, _ = fs.GetString(f.Name)
		case "text-data":
			cfg.Dataset.TextData, _ = fs.GetString(f.Name)
		case "file":
			cfg.Dataset.TextFile, _ = fs.GetBool(f.Name)
		case "response-file":
			cfg.Dataset.ResponseFile, _ = fs.GetString(f.Name)
		case "min-df":
			cfg.Format.MinDF, _ = fs.GetInt(f.Name)
		case "max-vocab":
			cfg.Format.MaxVocabSize, _ = fs.GetInt(f.Name)
		case "min-word-length":
			cfg.Format.MinWordLength, _ = fs.GetInt(f.Name)
		case "stopwords":
			cfg.Format.StopWords, _ = fs.GetBool(f.Name)
		case "bigrams":
			if on, _ := fs.GetBool(f.Name); on {
				cfg.Format.MaxNgram = 2
			} else {
				cfg.Format.MaxNgram = 1
			}
		case "tfidf":
			cfg.Format.TFIDF, _ = fs.GetBool(f.Name)
		case "binary":
			cfg.Format.Binary, _ = fs.GetBool(f.Name)
		case "word-voc-file":
			cfg.Format.VocabFile, _ = fs.GetString(f.Name)
		case "znorm":
			cfg.CrossValidation.ZNormalize, _ = fs.GetBool(f.Name)
		case "num-folds":
			cfg.CrossValidation.NumFolds, _ = fs.GetInt(f.Name)
		case "tr2dev-ratio":
			cfg.CrossValidation.TrToDevRatio, _ = fs.GetFloat64(f.Name)
		case "num-classes":
			cfg.CrossValidation.NumClasses, _ = fs.GetInt(f.Name)
		case "cv-folder":
			cfg.CrossValidation.Folder, _ = fs.GetString(f.Name)
		case "seed":
			cfg.CrossValidation.Seed, _ = fs.GetUint64(f.Name)
		case "workers":
			cfg.CrossValidation.Workers, _ = fs.GetInt(f.Name)
		case "db":
			cfg.CrossValidation.DB, _ = fs.GetString(f.Name)
		}
	})
	return cfg.Validate()
}

func formatConfig(cfg *config.Config) corpusfold.FormatConfig {
	return corpusfold.FormatConfig{
		MinDF:         cfg.Format.MinDF,
		MaxVocabSize:  cfg.Format.MaxVocabSize,
		MinWordLength: cfg.Format.MinWordLength,
		MaxNgram:      cfg.Format.MaxNgram,
		StopWords:     cfg.Format.StopWords,
		TFIDF:         cfg.Format.TFIDF,
		Binary:        cfg.Format.Binary,
	}
}

// loadDataset reads the documents and responses named by cfg.
func loadDataset(cfg *config.Config) (*corpusfold.ResponseDataset, error) {
	d := cfg.Dataset
	var corpus *corpusfold.Corpus
	var err error
	if d.TextFile {
		corpus, err = corpusfold.LoadTextDataFromFile(d.TextPath())
	} else {
		corpus, err = corpusfold.LoadTextDataFromFolder(d.TextPath())
	}
	if err != nil {
		return nil, err
	}
	data, err := corpus.LoadResponses(d.ResponsePath())
	if err != nil {
		return nil, err
	}
	slog.Info("Dataset loaded", "name", d.Name, "docs", data.Len())
	return data, nil
}
