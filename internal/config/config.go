// Package config loads corpusfold settings from an optional YAML file, an
// optional .env file and CORPUSFOLD_* environment variables, in that order of
// increasing precedence.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/happyhackingspace/corpusfold/errs"
	"github.com/happyhackingspace/corpusfold/stratify"
)

// Config is the top-level configuration.
type Config struct {
	Dataset         DatasetConfig         `yaml:"dataset"`
	CrossValidation CrossValidationConfig `yaml:"crossValidation"`
	Format          FormatConfig          `yaml:"format"`
	Logging         LoggingConfig         `yaml:"logging"`
	Update          UpdateConfig          `yaml:"update"`
}

// DatasetConfig locates the input documents and responses.
type DatasetConfig struct {
	Name         string `yaml:"name"`
	DataFolder   string `yaml:"dataFolder"`
	TextData     string `yaml:"textData"`     // folder of documents, or a file with TextFile set
	TextFile     bool   `yaml:"textFile"`     // TextData is one "<id>\t<text>" record per line
	ResponseFile string `yaml:"responseFile"` // "<id>\t<response>" records
}

// CrossValidationConfig controls fold construction.
type CrossValidationConfig struct {
	Folder       string  `yaml:"folder"`
	NumFolds     int     `yaml:"numFolds"`
	TrToDevRatio float64 `yaml:"trToDevRatio"`
	NumClasses   int     `yaml:"numClasses"`
	Seed         uint64  `yaml:"seed"`
	Workers      int     `yaml:"workers"`
	ZNormalize   bool    `yaml:"zNormalize"`
	DB           string  `yaml:"db"`
}

// FormatConfig controls vocabulary construction and vector weighting.
type FormatConfig struct {
	MinDF         int    `yaml:"minDF"`
	MaxVocabSize  int    `yaml:"maxVocabSize"`
	MinWordLength int    `yaml:"minWordLength"`
	MaxNgram      int    `yaml:"maxNgram"`
	StopWords     bool   `yaml:"stopWords"`
	TFIDF         bool   `yaml:"tfidf"`
	Binary        bool   `yaml:"binary"`
	VocabFile     string `yaml:"vocabFile"` // fixed vocabulary for process, relative to dataFolder
}

// LoggingConfig controls the slog handler.
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// UpdateConfig locates the releases used by the up command.
type UpdateConfig struct {
	Repository string `yaml:"repository"` // GitHub "owner/name"
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Dataset: DatasetConfig{
			Name:         "dataset",
			DataFolder:   "data",
			TextData:     "texts",
			ResponseFile: "responses.txt",
		},
		CrossValidation: CrossValidationConfig{
			NumFolds:     5,
			TrToDevRatio: 0.8,
			NumClasses:   1,
			Seed:         1,
			Workers:      4,
		},
		Format: FormatConfig{
			MinDF:         1,
			MinWordLength: 1,
			MaxNgram:      1,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
		},
		Update: UpdateConfig{
			Repository: "happyhackingspace/corpusfold",
		},
	}
}

// Load reads the YAML file at path (skipped when empty), then ./.env when
// present, then the environment.
func Load(path string) (*Config, error) {
	return LoadWithEnv(path, ".env")
}

// LoadWithEnv is Load with an explicit .env file. A missing env file is
// ignored. Variables already set in the environment win over the file.
func LoadWithEnv(path, envFile string) (*Config, error) {
	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file %s: %w", path, errors.Join(errs.ErrConfig, err))
		}
	}
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("loading env file %s: %w", envFile, err)
		}
	}
	if err := applyEnvOverrides(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate rejects settings that would fail later, before any work is done.
func (c *Config) Validate() error {
	cv := c.CrossValidation
	if err := stratify.Validate(cv.NumFolds, cv.TrToDevRatio); err != nil {
		return err
	}
	if cv.NumClasses < 1 {
		return errs.Configf("number of classes must be at least 1, got %d", cv.NumClasses)
	}
	if cv.Workers < 1 {
		return errs.Configf("workers must be at least 1, got %d", cv.Workers)
	}
	if c.Format.MinDF < 1 {
		return errs.Configf("minimum document frequency must be at least 1, got %d", c.Format.MinDF)
	}
	if c.Format.MaxVocabSize < 0 {
		return errs.Configf("maximum vocabulary size must not be negative, got %d", c.Format.MaxVocabSize)
	}
	if c.Format.MaxNgram < 1 {
		return errs.Configf("maximum n-gram length must be at least 1, got %d", c.Format.MaxNgram)
	}
	if c.Format.VocabFile != "" && c.Format.TFIDF {
		return errs.Configf("a vocabulary file cannot be combined with tf-idf weighting")
	}
	if _, err := c.Logging.SlogLevel(); err != nil {
		return err
	}
	if c.Logging.Format != "text" && c.Logging.Format != "json" {
		return errs.Configf("logging format must be text or json, got %q", c.Logging.Format)
	}
	if owner, name, ok := strings.Cut(c.Update.Repository, "/"); !ok || owner == "" || name == "" || strings.Contains(name, "/") {
		return errs.Configf("update repository must be owner/name, got %q", c.Update.Repository)
	}
	return nil
}

// SlogLevel parses the configured level name.
func (l LoggingConfig) SlogLevel() (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(l.Level)); err != nil {
		return 0, errs.Configf("logging level %q: %v", l.Level, err)
	}
	return level, nil
}

func (d DatasetConfig) resolve(p string) string {
	if p == "" || filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(d.DataFolder, p)
}

// TextPath returns the document folder or file, relative to DataFolder.
func (d DatasetConfig) TextPath() string { return d.resolve(d.TextData) }

// ResponsePath returns the response file, relative to DataFolder.
func (d DatasetConfig) ResponsePath() string { return d.resolve(d.ResponseFile) }

// VocabPath returns the fixed vocabulary file, relative to DataFolder, or ""
// when the vocabulary is fitted on the data.
func (c *Config) VocabPath() string { return c.Dataset.resolve(c.Format.VocabFile) }

// CVFolder returns the cross-validation output folder, defaulting to
// <dataFolder>/cv.
func (c *Config) CVFolder() string {
	if c.CrossValidation.Folder != "" {
		return c.CrossValidation.Folder
	}
	return filepath.Join(c.Dataset.DataFolder, "cv")
}

func applyEnvOverrides(cfg *Config) error {
	strs := map[string]*string{
		"CORPUSFOLD_DATASET":       &cfg.Dataset.Name,
		"CORPUSFOLD_DATA_FOLDER":   &cfg.Dataset.DataFolder,
		"CORPUSFOLD_TEXT_DATA":     &cfg.Dataset.TextData,
		"CORPUSFOLD_RESPONSE_FILE": &cfg.Dataset.ResponseFile,
		"CORPUSFOLD_CV_FOLDER":     &cfg.CrossValidation.Folder,
		"CORPUSFOLD_DB":            &cfg.CrossValidation.DB,
		"CORPUSFOLD_WORD_VOC_FILE": &cfg.Format.VocabFile,
		"CORPUSFOLD_LOG_LEVEL":     &cfg.Logging.Level,
		"CORPUSFOLD_LOG_FORMAT":    &cfg.Logging.Format,
		"CORPUSFOLD_UPDATE_REPO":   &cfg.Update.Repository,
	}
	for key, dst := range strs {
		if v := os.Getenv(key); v != "" {
			*dst = v
		}
	}

	ints := map[string]*int{
		"CORPUSFOLD_NUM_FOLDS":   &cfg.CrossValidation.NumFolds,
		"CORPUSFOLD_NUM_CLASSES": &cfg.CrossValidation.NumClasses,
		"CORPUSFOLD_WORKERS":     &cfg.CrossValidation.Workers,
		"CORPUSFOLD_MIN_DF":      &cfg.Format.MinDF,
		"CORPUSFOLD_MAX_VOCAB":   &cfg.Format.MaxVocabSize,
	}
	for key, dst := range ints {
		if v := os.Getenv(key); v != "" {
			n, err := strconv.Atoi(v)
			if err != nil {
				return errs.Configf("%s=%q: %v", key, v, err)
			}
			*dst = n
		}
	}

	if v := os.Getenv("CORPUSFOLD_TR2DEV_RATIO"); v != "" {
		r, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return errs.Configf("CORPUSFOLD_TR2DEV_RATIO=%q: %v", v, err)
		}
		cfg.CrossValidation.TrToDevRatio = r
	}
	if v := os.Getenv("CORPUSFOLD_SEED"); v != "" {
		s, err := strconv.ParseUint(v, 10, 64)
		if err != nil {
			return errs.Configf("CORPUSFOLD_SEED=%q: %v", v, err)
		}
		cfg.CrossValidation.Seed = s
	}
	for key, dst := range map[string]*bool{
		"CORPUSFOLD_TEXT_FILE":  &cfg.Dataset.TextFile,
		"CORPUSFOLD_ZNORMALIZE": &cfg.CrossValidation.ZNormalize,
		"CORPUSFOLD_TFIDF":      &cfg.Format.TFIDF,
		"CORPUSFOLD_BINARY":     &cfg.Format.Binary,
	} {
		if v := os.Getenv(key); v != "" {
			b, err := strconv.ParseBool(v)
			if err != nil {
				return errs.Configf("%s=%q: %v", key, v, err)
			}
			*dst = b
		}
	}
	return nil
}
