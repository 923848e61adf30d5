package cli

import (
	"errors"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/emiliopalmerini/pricepaid/internal/domain"
	"github.com/emiliopalmerini/pricepaid/internal/util"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List recent price estimates",
	Long: `List the most recent price estimates, newest first.

Examples:
  pricepaid history              # Last prediction.history_limit estimates
  pricepaid history --limit 50   # Last 50 estimates
  pricepaid history clear --yes  # Delete every recorded estimate`,
	Args: cobra.NoArgs,
	RunE: runHistory,
}

var historyClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Delete every recorded estimate",
	Args:  cobra.NoArgs,
	RunE:  runHistoryClear,
}

var (
	historyLimit int
	historyYes   bool
)

var errNoHistory = errors.New("prediction history is not available")

func init() {
	rootCmd.AddCommand(historyCmd)
	historyCmd.AddCommand(historyClearCmd)

	historyCmd.Flags().IntVarP(&historyLimit, "limit", "l", 10, "Number of estimates to show")
	historyClearCmd.Flags().BoolVar(&historyYes, "yes", false, "Confirm deletion")
}

func runHistory(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	app, err := NewAppContext(ctx, cfg, logger, true)
	if err != nil {
		return err
	}
	defer app.Close()
	if app.PredictionRepo == nil {
		return errNoHistory
	}

	limit := historyLimit
	if !cmd.Flags().Changed("limit") {
		limit = cfg.Prediction.HistoryLimit
	}
	preds, err := app.Analytics.History(ctx, limit)
	if err != nil {
		return fmt.Errorf("failed to list predictions: %w", err)
	}

	w := cmd.OutOrStdout()
	if len(preds) == 0 {
		fmt.Fprintln(w, "No predictions recorded")
		return nil
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tCREATED\tTYPE\tNEW\tCOUNTY\tDATE\tPRICE")
	fmt.Fprintln(tw, "--\t-------\t----\t---\t------\t----\t-----")
	for _, p := range preds {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
			truncate(p.ID, 8),
			p.CreatedAt.Local().Format("2006-01-02 15:04"),
			p.Features[domain.ColPropertyType],
			p.Features[domain.ColOldNew],
			p.Features[domain.ColCounty],
			p.Features[domain.ColDate],
			util.FormatPrice(p.PredictedPrice),
		)
	}
	if err := tw.Flush(); err != nil {
		fmt.Fprintln(os.Stderr, err)
	}
	return nil
}

func runHistoryClear(cmd *cobra.Command, args []string) error {
	if !historyYes {
		return errors.New("refusing to delete the prediction history without --yes")
	}

	ctx := cmd.Context()
	app, err := NewAppContext(ctx, cfg, logger, true)
	if err != nil {
		return err
	}
	defer app.Close()
	if app.PredictionRepo == nil {
		return errNoHistory
	}

	n, err := app.PredictionRepo.DeleteAll(ctx)
	if err != nil {
		return fmt.Errorf("failed to clear predictions: %w", err)
	}
	logger.Info("prediction history cleared", "deleted", n)
	fmt.Fprintf(cmd.OutOrStdout(), "Deleted %d predictions\n", n)
	return nil
}
