package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/emiliopalmerini/pricepaid/internal/hypothesis"
	"github.com/emiliopalmerini/pricepaid/internal/util"
)

var hypothesisCmd = &cobra.Command{
	Use:   "hypothesis",
	Short: "Test whether new builds sell for more than established homes",
	Long: `Run a two-sided Welch t-test comparing new build and established house
prices, and a one-way ANOVA of price across property types. Both are judged
at a 0.05 significance level.`,
	Args: cobra.NoArgs,
	RunE: runHypothesis,
}

func init() {
	rootCmd.AddCommand(hypothesisCmd)
}

func runHypothesis(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	app, err := NewAppContext(ctx, cfg, logger, false)
	if err != nil {
		return err
	}
	defer app.Close()

	rep, err := app.Analytics.Hypotheses(ctx)
	if err != nil {
		return artifactError(err)
	}
	app.Telemetry.RecordTest(ctx, "welch_new_vs_old", rep.TTestVerdict == hypothesis.Reject)

	w := cmd.OutOrStdout()
	printHeader(w, "Hypothesis Tests")

	tt := rep.TTest
	printSection(w, "New build vs established (Welch t-test)")
	fmt.Fprintf(w, "  New builds:        %s (mean %s)\n", util.FormatInt(rep.NewCount), util.FormatPrice(tt.MeanA))
	fmt.Fprintf(w, "  Established:       %s (mean %s)\n", util.FormatInt(rep.OldCount), util.FormatPrice(tt.MeanB))
	if rep.ExcludedCount > 0 {
		fmt.Fprintf(w, "  Excluded:          %s (unknown Old/New)\n", util.FormatInt(rep.ExcludedCount))
	}
	fmt.Fprintf(w, "  t statistic:       %s\n", util.FormatFloat(tt.T, 3))
	fmt.Fprintf(w, "  df:                %s\n", util.FormatFloat(tt.DF, 1))
	fmt.Fprintf(w, "  p-value:           %s\n", util.FormatPValue(tt.P))
	fmt.Fprintf(w, "  %s\n", rep.TTestMessage)
	fmt.Fprintln(w)

	printSection(w, "Price by property type (one-way ANOVA)")
	if rep.ANOVA == nil {
		fmt.Fprintf(w, "  Not available: %s\n", rep.ANOVAError)
		return nil
	}
	app.Telemetry.RecordTest(ctx, "anova_property_type", rep.ANOVAVerdict == hypothesis.Reject)
	a := rep.ANOVA
	fmt.Fprintf(w, "  Groups:            %v\n", a.Groups)
	fmt.Fprintf(w, "  F statistic:       %s\n", util.FormatFloat(a.F, 3))
	fmt.Fprintf(w, "  p-value:           %s\n", util.FormatPValue(a.P))
	fmt.Fprintf(w, "  %s\n", rep.ANOVAMessage)
	return nil
}
