package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/emiliopalmerini/pricepaid/internal/artifact"
	"github.com/emiliopalmerini/pricepaid/internal/domain"
	"github.com/emiliopalmerini/pricepaid/internal/util"
)

// artifactError adds the regeneration hint to a missing artifact error.
func artifactError(err error) error {
	if me, ok := artifact.IsMissing(err); ok {
		return fmt.Errorf("%w\n%s", err, me.Message())
	}
	return err
}

func printHeader(w io.Writer, title string) {
	fmt.Fprintln(w)
	fmt.Fprintf(w, "  %s\n", title)
	fmt.Fprintf(w, "  %s\n", strings.Repeat("=", len(title)))
	fmt.Fprintln(w)
}

func printSection(w io.Writer, title string) {
	fmt.Fprintf(w, "  %s\n", title)
	fmt.Fprintf(w, "  %s\n", strings.Repeat("-", len(title)))
}

func printMetrics(w io.Writer, m domain.Metrics) {
	fmt.Fprintf(w, "  MAE:               %s\n", util.FormatOptionalPrice(m.MAE))
	fmt.Fprintf(w, "  RMSE:              %s\n", util.FormatOptionalPrice(m.RMSE))
	fmt.Fprintf(w, "  R²:                %s\n", util.FormatOptionalFloat(m.R2, 3))
}

// featureOrder is the column order predictions are printed in.
var featureOrder = []string{
	domain.ColPropertyType,
	domain.ColOldNew,
	domain.ColDuration,
	domain.ColTownCity,
	domain.ColDistrict,
	domain.ColCounty,
	domain.ColPPDCategory,
	domain.ColDate,
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
