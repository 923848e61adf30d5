package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/emiliopalmerini/pricepaid/internal/util"
)

var summaryCmd = &cobra.Command{
	Use:   "summary",
	Short: "Show the project summary",
	Long: `Show the headline model metrics and a glimpse of the cleaned dataset.

Missing metrics or dataset files are reported, not treated as errors.`,
	Args: cobra.NoArgs,
	RunE: runSummary,
}

func init() {
	rootCmd.AddCommand(summaryCmd)
}

func runSummary(cmd *cobra.Command, args []string) error {
	app, err := NewAppContext(cmd.Context(), cfg, logger, false)
	if err != nil {
		return err
	}
	defer app.Close()

	ov, err := app.Analytics.Overview(cmd.Context())
	if err != nil {
		return artifactError(err)
	}

	w := cmd.OutOrStdout()
	printHeader(w, "UK House Price Summary")

	printSection(w, "Model metrics")
	if ov.MetricsMissing != "" {
		fmt.Fprintf(w, "  %s\n", ov.MetricsMissing)
	} else {
		printMetrics(w, ov.Metrics)
	}
	fmt.Fprintln(w)

	printSection(w, "Dataset")
	if ov.Glimpse == nil {
		fmt.Fprintf(w, "  %s\n", ov.DatasetMissing)
		return nil
	}
	g := ov.Glimpse
	fmt.Fprintf(w, "  Sales:             %s\n", util.FormatInt(g.Rows))
	fmt.Fprintf(w, "  Median price:      %s\n", util.FormatPrice(g.MedianPrice))
	fmt.Fprintf(w, "  Years:             %d-%d\n", g.FirstYear, g.LastYear)
	fmt.Fprintf(w, "  Counties:          %d\n", g.Counties)
	return nil
}
