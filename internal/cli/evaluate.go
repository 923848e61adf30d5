package cli

import (
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/emiliopalmerini/pricepaid/internal/analytics"
	"github.com/emiliopalmerini/pricepaid/internal/pipeline"
	"github.com/emiliopalmerini/pricepaid/internal/util"
)

var evaluateCmd = &cobra.Command{
	Use:   "evaluate",
	Short: "Evaluate the trained pipeline",
	Long: `Show the stored metrics, the train and test scores of the pipeline on a
deterministic split of the dataset, and its most important features.

Examples:
  pricepaid evaluate            # Top 15 features
  pricepaid evaluate --top 5    # Top 5 features`,
	Args: cobra.NoArgs,
	RunE: runEvaluate,
}

var evaluateTop int

func init() {
	rootCmd.AddCommand(evaluateCmd)

	evaluateCmd.Flags().IntVarP(&evaluateTop, "top", "n", analytics.TopFeatures, "Number of feature importances to show (at most 15)")
}

func runEvaluate(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	app, err := NewAppContext(ctx, cfg, logger, false)
	if err != nil {
		return err
	}
	defer app.Close()

	rep, err := app.Analytics.ModelReport(ctx)
	if err != nil {
		return artifactError(err)
	}

	w := cmd.OutOrStdout()
	printHeader(w, "Model Evaluation")

	printSection(w, "Stored metrics")
	if rep.MetricsMissing != "" {
		fmt.Fprintf(w, "  %s\n", rep.MetricsMissing)
	} else {
		printMetrics(w, rep.Metrics)
	}
	fmt.Fprintln(w)

	printSection(w, "Train / test split")
	if rep.Evaluation == nil {
		fmt.Fprintf(w, "  Not available: %s\n", rep.EvalError)
	} else {
		printScores(w, rep.Evaluation)
	}
	fmt.Fprintln(w)

	printSection(w, "Feature importances")
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "  FEATURE\tIMPORTANCE")
	for i, imp := range rep.Importances {
		if i >= evaluateTop {
			break
		}
		fmt.Fprintf(tw, "  %s\t%s\n", truncate(imp.Feature, 40), util.FormatFloat(imp.Value, 4))
	}
	if err := tw.Flush(); err != nil {
		fmt.Fprintln(os.Stderr, err)
	}
	return nil
}

func printScores(w io.Writer, eval *pipeline.Evaluation) {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "  SPLIT\tROWS\tMAE\tRMSE\tR²")
	for _, row := range []struct {
		name   string
		scores pipeline.Scores
	}{
		{"train", eval.Train},
		{"test", eval.Test},
	} {
		s := row.scores
		fmt.Fprintf(tw, "  %s\t%d\t%s\t%s\t%s\n", row.name, s.Count,
			util.FormatPrice(s.MAE), util.FormatPrice(s.RMSE), util.FormatFloat(s.R2, 3))
	}
	if err := tw.Flush(); err != nil {
		fmt.Fprintln(os.Stderr, err)
	}
	if eval.Skipped > 0 {
		fmt.Fprintf(w, "  %d rows could not be scored\n", eval.Skipped)
	}
}
