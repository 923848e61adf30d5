package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/emiliopalmerini/pricepaid/internal/analytics"
	"github.com/emiliopalmerini/pricepaid/internal/util"
)

var predictCmd = &cobra.Command{
	Use:   "predict",
	Short: "Estimate the sale price of a property",
	Long: `Estimate the sale price of a property with the trained pipeline.

Unset features take the first value offered on the dashboard. The date must
fall within the three years before the latest sale in the dataset and
defaults to that sale. The estimate is recorded in the prediction history.

Examples:
  pricepaid predict --options                           # List accepted values
  pricepaid predict --type D --old-new 1 --county "GREATER LONDON" \
    --town LONDON --district CAMDEN --ppd A --date 2023-06-01`,
	Args: cobra.NoArgs,
	RunE: runPredict,
}

var (
	predictPropertyType string
	predictOldNew       string
	predictDuration     string
	predictTown         string
	predictDistrict     string
	predictCounty       string
	predictPPD          string
	predictDate         string
	predictOptions      bool
)

func init() {
	rootCmd.AddCommand(predictCmd)

	f := predictCmd.Flags()
	f.StringVarP(&predictPropertyType, "type", "t", "", "Property type code (D, S, T, F, O)")
	f.StringVar(&predictOldNew, "old-new", "", "Old/New flag as in the dataset (1 new build, 0 established)")
	f.StringVar(&predictDuration, "duration", "", "Tenure code (F freehold, L leasehold)")
	f.StringVar(&predictTown, "town", "", "Town or city")
	f.StringVar(&predictDistrict, "district", "", "District")
	f.StringVar(&predictCounty, "county", "", "County")
	f.StringVar(&predictPPD, "ppd", "", "PPD category code or label")
	f.StringVarP(&predictDate, "date", "d", "", "Sale date, YYYY-MM-DD")
	f.BoolVar(&predictOptions, "options", false, "List the accepted values and exit")
}

func runPredict(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	app, err := NewAppContext(ctx, cfg, logger, !predictOptions)
	if err != nil {
		return err
	}
	defer app.Close()

	form, err := app.Analytics.PredictionForm(ctx)
	if err != nil {
		return artifactError(err)
	}

	w := cmd.OutOrStdout()
	if predictOptions {
		printPredictionOptions(w, form)
		return nil
	}

	date, err := analytics.ParseDate(predictDate)
	if err != nil {
		return err
	}
	in := analytics.PredictionInput{
		PropertyType: or(predictPropertyType, form.Defaults.PropertyType),
		OldNew:       or(predictOldNew, form.Defaults.OldNew),
		Duration:     or(predictDuration, form.Defaults.Duration),
		TownCity:     or(predictTown, form.Defaults.TownCity),
		District:     or(predictDistrict, form.Defaults.District),
		County:       or(predictCounty, form.Defaults.County),
		PPDCategory:  or(predictPPD, form.Defaults.PPDCategory),
		Date:         date,
	}

	pred, err := app.Analytics.Predict(ctx, in)
	if err != nil {
		return artifactError(err)
	}
	app.Telemetry.RecordPrediction(ctx, pred.PredictedPrice)

	printHeader(w, "Price Estimate")
	for _, col := range featureOrder {
		fmt.Fprintf(w, "  %-19s%s\n", col+":", pred.Features[col])
	}
	fmt.Fprintln(w)
	fmt.Fprintf(w, "  Estimated price:   %s\n", util.FormatPrice(pred.PredictedPrice))
	return nil
}

func or(value, fallback string) string {
	if strings.TrimSpace(value) == "" {
		return fallback
	}
	return value
}

func printPredictionOptions(w io.Writer, form analytics.PredictionForm) {
	printHeader(w, "Prediction Options")
	lists := []struct {
		flag    string
		choices []analytics.Choice
	}{
		{"--type", form.PropertyTypes},
		{"--old-new", form.OldNew},
		{"--duration", form.Durations},
		{"--town", form.Towns},
		{"--district", form.Districts},
		{"--county", form.Counties},
		{"--ppd", form.PPDCategories},
	}
	for _, l := range lists {
		values := make([]string, len(l.choices))
		for i, c := range l.choices {
			values[i] = c.Value
			if c.Label != c.Value {
				values[i] = fmt.Sprintf("%s (%s)", c.Value, c.Label)
			}
		}
		fmt.Fprintf(w, "  %-12s %s\n", l.flag, strings.Join(values, ", "))
	}
	fmt.Fprintf(w, "  %-12s %s to %s\n", "--date",
		form.MinDate.Format(analytics.DateLayout), form.MaxDate.Format(analytics.DateLayout))
}
