package cli

import (
	"fmt"

	"github.com/happyhackingspace/corpusfold"
	"github.com/spf13/cobra"
)

func (c *CLI) newCrossValidationCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "cross-validation",
		Aliases: []string{"cv"},
		Short:   "Build stratified folds and format every fold",
		Example: `  corpusfold cross-validation --num-folds 5 --num-classes 3
  corpusfold cv --tr2dev-ratio 0.75 --seed 42 --db folds.db -v`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := applyFlags(c.cfg, cmd.Flags()); err != nil {
				return err
			}
			data, err := loadDataset(c.cfg)
			if err != nil {
				return err
			}
			cv := c.cfg.CrossValidation
			run, err := corpusfold.CreateCrossValidation(cmd.Context(), data, corpusfold.CrossValidationConfig{
				Folder:       c.cfg.CVFolder(),
				Name:         c.cfg.Dataset.Name,
				NumFolds:     cv.NumFolds,
				TrToDevRatio: cv.TrToDevRatio,
				NumClasses:   cv.NumClasses,
				Seed:         cv.Seed,
				Workers:      cv.Workers,
				ZNormalize:   cv.ZNormalize,
				DB:           cv.DB,
				Format:       formatConfig(c.cfg),
			})
			if err != nil {
				return err
			}
			fmt.Printf("Cross-validation written to %s\n", run.Path())
			printFolds(run)
			return nil
		},
	}

	addDatasetFlags(cmd.Flags())
	addFormatFlags(cmd.Flags())
	addCrossValidationFlags(cmd.Flags())
	return cmd
}
