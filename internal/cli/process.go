package cli

import (
	"log/slog"
	"time"

	"github.com/happyhackingspace/corpusfold"
	"github.com/happyhackingspace/corpusfold/internal/config"
	"github.com/spf13/cobra"
)

func (c *CLI) newProcessCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "process",
		Short: "Format a whole dataset as vocabulary, sparse vectors and document info",
		Example: `  corpusfold process --data-folder data --dataset speeches
  corpusfold process --file --text-data docs.tsv --tfidf --stopwords
  corpusfold process --word-voc-file train.wvoc --dataset heldout`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := applyFlags(c.cfg, cmd.Flags()); err != nil {
				return err
			}
			data, err := loadDataset(c.cfg)
			if err != nil {
				return err
			}
			if c.cfg.CrossValidation.ZNormalize {
				z, err := data.ZNormalize()
				if err != nil {
					return err
				}
				slog.Info("Responses normalized", "mean", z.Mean(), "std", z.StdDev())
			}

			start := time.Now()
			vec, err := formatDataset(c.cfg, data)
			if err != nil {
				return err
			}
			slog.Debug("Formatting completed", "duration", time.Since(start))
			slog.Info("Dataset formatted", "folder", c.cfg.Dataset.DataFolder, "name", c.cfg.Dataset.Name, "vocab", len(vec.Vocab()))
			return nil
		},
	}

	addDatasetFlags(cmd.Flags())
	addFormatFlags(cmd.Flags())
	cmd.Flags().String("word-voc-file", "", "Fixed vocabulary, one term per line (relative to --data-folder)")
	return cmd
}

// formatDataset writes data with a vocabulary fitted on its texts, or with the
// configured vocabulary file when one is set.
func formatDataset(cfg *config.Config, data *corpusfold.ResponseDataset) (corpusfold.Vectorizer, error) {
	folder, name := cfg.Dataset.DataFolder, cfg.Dataset.Name
	if path := cfg.VocabPath(); path != "" {
		vec, err := corpusfold.LoadVectorizer(path, formatConfig(cfg))
		if err != nil {
			return nil, err
		}
		slog.Debug("Vocabulary loaded", "path", path, "terms", len(vec.Vocab()))
		return vec, data.FormatWith(folder, name, vec)
	}
	vec := corpusfold.NewVectorizer(formatConfig(cfg))
	return vec, data.Format(folder, name, vec)
}
