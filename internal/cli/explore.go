package cli

import (
	"fmt"
	"math"
	"os"
	"sort"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/emiliopalmerini/pricepaid/internal/analytics"
	"github.com/emiliopalmerini/pricepaid/internal/dataset"
	"github.com/emiliopalmerini/pricepaid/internal/domain"
	"github.com/emiliopalmerini/pricepaid/internal/util"
)

var exploreCmd = &cobra.Command{
	Use:   "explore",
	Short: "Describe prices for a selection of years and counties",
	Long: `Describe sale prices for a selection of years and counties.

Without filters every year and the first counties are selected, as on the
dashboard. A filter given on one dimension keeps every value of the other.

Examples:
  pricepaid explore                                # Default selection
  pricepaid explore --year 2022 --year 2023        # Two years, every county
  pricepaid explore --county "GREATER LONDON"      # One county, every year`,
	Args: cobra.NoArgs,
	RunE: runExplore,
}

var (
	exploreYears    []int
	exploreCounties []string
)

func init() {
	rootCmd.AddCommand(exploreCmd)

	exploreCmd.Flags().IntSliceVarP(&exploreYears, "year", "y", nil, "Year to include (repeatable)")
	exploreCmd.Flags().StringSliceVarP(&exploreCounties, "county", "c", nil, "County to include (repeatable)")
}

func runExplore(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	app, err := NewAppContext(ctx, cfg, logger, false)
	if err != nil {
		return err
	}
	defer app.Close()

	var exp analytics.Exploration
	if len(exploreYears) > 0 || len(exploreCounties) > 0 {
		exp, err = app.Analytics.ExplorePartial(ctx, dataset.Selection{Years: exploreYears, Counties: exploreCounties})
	} else {
		exp, err = app.Analytics.Explore(ctx, nil)
	}
	if err != nil {
		return artifactError(err)
	}

	printExploration(cmd, exp)
	return nil
}

func printExploration(cmd *cobra.Command, exp analytics.Exploration) {
	w := cmd.OutOrStdout()
	printHeader(w, "Price Exploration")

	fmt.Fprintf(w, "  Years:             %v\n", exp.Selection.Years)
	fmt.Fprintf(w, "  Counties:          %d selected\n", len(exp.Selection.Counties))
	fmt.Fprintf(w, "  Sales:             %s of %s\n", util.FormatInt(exp.Rows), util.FormatInt(exp.TotalRows))
	fmt.Fprintln(w)

	if exp.Rows == 0 {
		fmt.Fprintln(w, "  No sales match this selection.")
		return
	}

	p := exp.Price
	printSection(w, "Price")
	fmt.Fprintf(w, "  Mean:              %s\n", util.FormatPrice(p.Mean))
	fmt.Fprintf(w, "  Std:               %s\n", util.FormatPrice(p.Std))
	fmt.Fprintf(w, "  Min:               %s\n", util.FormatPrice(p.Min))
	fmt.Fprintf(w, "  25%%:               %s\n", util.FormatPrice(p.Q25))
	fmt.Fprintf(w, "  Median:            %s\n", util.FormatPrice(p.Median))
	fmt.Fprintf(w, "  75%%:               %s\n", util.FormatPrice(p.Q75))
	fmt.Fprintf(w, "  Max:               %s\n", util.FormatPrice(p.Max))
	fmt.Fprintln(w)

	printGroups(cmd, "Mean price by year", "YEAR", exp.ByYear)
	printGroups(cmd, "Mean price by property type", "TYPE", exp.ByType)

	printSection(w, "Correlation with price")
	for _, c := range priceCorrelations(exp.Correlation) {
		fmt.Fprintf(w, "  %-18s %s\n", c.column+":", util.FormatFloat(c.value, 3))
	}
	fmt.Fprintln(w)
}

func printGroups(cmd *cobra.Command, title, keyHeader string, groups []dataset.Group) {
	out := cmd.OutOrStdout()
	printSection(out, title)
	tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "  %s\tMEAN\tSALES\n", keyHeader)
	for _, g := range groups {
		fmt.Fprintf(tw, "  %s\t%s\t%d\n", g.Key, util.FormatPrice(g.Mean), g.Count)
	}
	if err := tw.Flush(); err != nil {
		fmt.Fprintln(os.Stderr, err)
	}
	fmt.Fprintln(out)
}

type columnCorrelation struct {
	column string
	value  float64
}

// priceCorrelations returns the price row of the matrix, strongest first.
// Undefined cells sort last.
func priceCorrelations(c dataset.Correlation) []columnCorrelation {
	row := -1
	for i, col := range c.Columns {
		if col == domain.ColPrice {
			row = i
		}
	}
	if row < 0 {
		return nil
	}

	var out []columnCorrelation
	for j, col := range c.Columns {
		if j == row {
			continue
		}
		out = append(out, columnCorrelation{column: col, value: c.Values[row][j]})
	}
	sort.SliceStable(out, func(i, j int) bool {
		a, b := math.Abs(out[i].value), math.Abs(out[j].value)
		if math.IsNaN(a) {
			return false
		}
		return math.IsNaN(b) || a > b
	})
	return out
}
