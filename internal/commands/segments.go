package commands

import (
	"github.com/spf13/cobra"

	"github.com/rfmkit-dev/rfmkit/internal/segment"
)

func newSegmentsCommand() *cobra.Command {
	var bins int

	cmd := &cobra.Command{
		Use:   "segments",
		Short: "Print the ordered segment rules for a bin count",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			thresholds := segment.DefaultThresholds(bins)
			if err := thresholds.Validate(bins); err != nil {
				return err
			}

			cmd.Printf("Segment rules for %d bins (first match wins):\n", bins)
			for i, rule := range segment.Rules(thresholds) {
				cmd.Printf("%d. %-20s %s\n", i+1, rule.Segment, rule.Shape)
			}
			return nil
		},
	}

	cmd.Flags().IntVar(&bins, "bins", 5, "score tier count")

	return cmd
}
