package cli

import (
	"fmt"

	"github.com/happyhackingspace/corpusfold"
	"github.com/spf13/cobra"
)

func (c *CLI) newLoadCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "load",
		Short:   "Load formatted data and print a response summary",
		Example: `  corpusfold load --data-folder data --dataset speeches`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := applyFlags(c.cfg, cmd.Flags()); err != nil {
				return err
			}
			data, err := corpusfold.LoadFormattedData(c.cfg.Dataset.DataFolder, c.cfg.Dataset.Name)
			if err != nil {
				return err
			}
			nonZero := 0
			for _, v := range data.Vectors {
				nonZero += v.Size()
			}
			fmt.Printf("vocabulary: %d terms\n", len(data.Vocab))
			if len(data.Vectors) > 0 {
				fmt.Printf("terms per document: %.2f\n", float64(nonZero)/float64(len(data.Vectors)))
			}
			fmt.Print(data.Summary())
			return nil
		},
	}

	addDatasetFlags(cmd.Flags())
	return cmd
}
