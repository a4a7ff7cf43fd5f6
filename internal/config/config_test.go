package config

import (
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/happyhackingspace/corpusfold/errs"
)

func TestDefaultIsValid(t *testing.T) {
	cfg, err := LoadWithEnv("", "")
	if err != nil {
		t.Fatal(err)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("Validate() = %v", err)
	}
	if cfg.CrossValidation.NumFolds != 5 || cfg.CrossValidation.TrToDevRatio != 0.8 {
		t.Errorf("defaults = %+v", cfg.CrossValidation)
	}
	if got := cfg.CVFolder(); got != filepath.Join("data", "cv") {
		t.Errorf("CVFolder() = %q", got)
	}
	if got := cfg.Dataset.ResponsePath(); got != filepath.Join("data", "responses.txt") {
		t.Errorf("ResponsePath() = %q", got)
	}
}

func TestLoadLayers(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "corpusfold.yaml")
	yamlData := `dataset:
  name: speeches
  dataFolder: /srv/corpus
crossValidation:
  numFolds: 10
  numClasses: 3
format:
  tfidf: true
logging:
  format: json
`
	if err := os.WriteFile(path, []byte(yamlData), 0644); err != nil {
		t.Fatal(err)
	}
	envFile := filepath.Join(dir, ".env")
	if err := os.WriteFile(envFile, []byte("CORPUSFOLD_NUM_CLASSES=4\nCORPUSFOLD_SEED=99\n"), 0644); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() {
		_ = os.Unsetenv("CORPUSFOLD_NUM_CLASSES")
		_ = os.Unsetenv("CORPUSFOLD_SEED")
	})
	t.Setenv("CORPUSFOLD_SEED", "7")
	t.Setenv("CORPUSFOLD_TR2DEV_RATIO", "0.5")

	cfg, err := LoadWithEnv(path, envFile)
	if err != nil {
		t.Fatal(err)
	}
	cv := cfg.CrossValidation
	if cv.NumFolds != 10 {
		t.Errorf("NumFolds = %d, want 10 from yaml", cv.NumFolds)
	}
	if cv.NumClasses != 4 {
		t.Errorf("NumClasses = %d, want 4 from .env", cv.NumClasses)
	}
	if cv.Seed != 7 {
		t.Errorf("Seed = %d, want 7 from the environment", cv.Seed)
	}
	if cv.TrToDevRatio != 0.5 {
		t.Errorf("TrToDevRatio = %v, want 0.5", cv.TrToDevRatio)
	}
	if cv.Workers != 4 {
		t.Errorf("Workers = %d, want default 4", cv.Workers)
	}
	if !cfg.Format.TFIDF || cfg.Logging.Format != "json" || cfg.Dataset.Name != "speeches" {
		t.Errorf("yaml values not applied: %+v", cfg)
	}
	if got := cfg.Dataset.TextPath(); got != filepath.Join("/srv/corpus", "texts") {
		t.Errorf("TextPath() = %q", got)
	}
}

func TestLoadErrors(t *testing.T) {
	if _, err := LoadWithEnv(filepath.Join(t.TempDir(), "missing.yaml"), ""); err == nil {
		t.Error("missing config file: want error")
	}

	bad := filepath.Join(t.TempDir(), "bad.yaml")
	if err := os.WriteFile(bad, []byte("crossValidation: [1, 2"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadWithEnv(bad, ""); !errors.Is(err, errs.ErrConfig) {
		t.Errorf("malformed yaml err = %v, want ErrConfig", err)
	}

	t.Setenv("CORPUSFOLD_NUM_FOLDS", "many")
	if _, err := LoadWithEnv("", ""); !errors.Is(err, errs.ErrConfig) {
		t.Errorf("bad env err = %v, want ErrConfig", err)
	}
}

func TestValidate(t *testing.T) {
	tests := map[string]func(*Config){
		"one fold":         func(c *Config) { c.CrossValidation.NumFolds = 1 },
		"zero ratio":       func(c *Config) { c.CrossValidation.TrToDevRatio = 0 },
		"ratio above 1":    func(c *Config) { c.CrossValidation.TrToDevRatio = 1.2 },
		"no classes":       func(c *Config) { c.CrossValidation.NumClasses = 0 },
		"no workers":       func(c *Config) { c.CrossValidation.Workers = 0 },
		"min df":           func(c *Config) { c.Format.MinDF = 0 },
		"ngram":            func(c *Config) { c.Format.MaxNgram = 0 },
		"log level":        func(c *Config) { c.Logging.Level = "loud" },
		"log format":       func(c *Config) { c.Logging.Format = "xml" },
		"negative vocab":   func(c *Config) { c.Format.MaxVocabSize = -1 },
		"vocab file tfidf": func(c *Config) { c.Format.VocabFile, c.Format.TFIDF = "train.wvoc", true },
		"update repo":      func(c *Config) { c.Update.Repository = "corpusfold" },
		"nested repo":      func(c *Config) { c.Update.Repository = "a/b/c" },
	}
	for name, mutate := range tests {
		cfg := Default()
		mutate(cfg)
		if err := cfg.Validate(); !errors.Is(err, errs.ErrConfig) {
			t.Errorf("%s: Validate() = %v, want ErrConfig", name, err)
		}
	}
}

func TestSlogLevel(t *testing.T) {
	level, err := LoggingConfig{Level: "debug"}.SlogLevel()
	if err != nil || level != slog.LevelDebug {
		t.Errorf("SlogLevel(debug) = %v, %v", level, err)
	}
}
