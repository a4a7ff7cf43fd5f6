package cli

import (
	"fmt"
	"strings"

	"github.com/happyhackingspace/corpusfold"
	"github.com/happyhackingspace/corpusfold/crossval"
	"github.com/spf13/cobra"
)

func (c *CLI) newFoldsCommand() *cobra.Command {
	var fold int

	cmd := &cobra.Command{
		Use:   "folds",
		Short: "Inspect a persisted cross-validation run",
		Example: `  corpusfold folds --dataset speeches
  corpusfold folds --dataset speeches --fold 2`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := applyFlags(c.cfg, cmd.Flags()); err != nil {
				return err
			}
			run, err := crossval.Load(c.cfg.CVFolder(), c.cfg.Dataset.Name)
			if err != nil {
				return err
			}
			p := run.Params()
			fmt.Printf("%s: %d documents, %d folds, %d classes, train/dev ratio %g, seed %d\n",
				run.Path(), len(run.Instances), p.NumFolds, p.NumClasses, p.TrToDevRatio, p.Seed)
			printFolds(run)

			if fold < 0 {
				return nil
			}
			folds := run.Folds()
			if fold >= len(folds) {
				return fmt.Errorf("fold %d out of range [0,%d)", fold, len(folds))
			}
			splits, err := corpusfold.LoadCrossValidationFold(folds[fold])
			if err != nil {
				return err
			}
			for split, data := range splits {
				fmt.Printf("\n%s %s (vocabulary %d)\n", folds[fold].Name(), crossval.SplitName(split), len(data.Vocab))
				fmt.Print(data.Summary())
			}
			return nil
		},
	}

	addDatasetFlags(cmd.Flags())
	cmd.Flags().String("cv-folder", "", "Cross-validation folder (default <data-folder>/cv)")
	cmd.Flags().IntVar(&fold, "fold", -1, "Also summarize the formatted data of this fold")
	return cmd
}

// printFolds prints split sizes and the per-class make-up of each test set.
func printFolds(run *crossval.CrossValidation) {
	labels := run.Labels()
	numClasses := 0
	for _, l := range labels {
		numClasses = max(numClasses, l+1)
	}

	fmt.Printf("\n%8s  %6s  %6s  %6s", "fold", "train", "dev", "test")
	for k := range numClasses {
		fmt.Printf("  %6s", fmt.Sprintf("c%d", k))
	}
	fmt.Println()
	for _, f := range run.Folds() {
		fmt.Printf("%8s  %6d  %6d  %6d", f.Name(), f.Len(crossval.Train), f.Len(crossval.Dev), f.Len(crossval.Test))
		perClass := make([]int, numClasses)
		for _, idx := range f.Testing() {
			if idx < len(labels) {
				perClass[labels[idx]]++
			}
		}
		var b strings.Builder
		for _, n := range perClass {
			fmt.Fprintf(&b, "  %6d", n)
		}
		fmt.Println(b.String())
	}
}
