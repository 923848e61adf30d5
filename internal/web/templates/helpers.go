package templates

import (
	"math"
	"net/url"
	"strconv"
	"time"

	"github.com/a-h/templ"

	"github.com/emiliopalmerini/pricepaid/internal/dataset"
	"github.com/emiliopalmerini/pricepaid/internal/util"
)

func formatPrice(p float64) string {
	return util.FormatPrice(p)
}

func formatCorrelation(v float64) string {
	if math.IsNaN(v) {
		return util.NotAvailable
	}
	return util.FormatFloat(v, 2)
}

// correlationClass buckets a coefficient for cell shading.
func correlationClass(v float64) string {
	switch {
	case math.IsNaN(v):
		return "corr-na"
	case v >= 0.5:
		return "corr-strong-pos"
	case v >= 0.1:
		return "corr-pos"
	case v <= -0.5:
		return "corr-strong-neg"
	case v <= -0.1:
		return "corr-neg"
	}
	return "corr-none"
}

func formatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format("2006-01-02")
}

func formatDateTime(t time.Time) string {
	return t.Local().Format("Jan 2, 15:04")
}

// selectionQuery encodes a filter selection so chart endpoints see the same
// rows as the page.
func selectionQuery(sel dataset.Selection) string {
	q := url.Values{}
	q.Set("filtered", "1")
	for _, y := range sel.Years {
		q.Add("year", strconv.Itoa(y))
	}
	for _, c := range sel.Counties {
		q.Add("county", c)
	}
	return q.Encode()
}

func chartURL(path string, sel *dataset.Selection) templ.SafeURL {
	if sel == nil {
		return templ.SafeURL(path)
	}
	return templ.SafeURL(path + "?" + selectionQuery(*sel))
}

func containsInt(xs []int, v int) bool {
	for _, x := range xs {
		if x == v {
			return true
		}
	}
	return false
}

func containsString(xs []string, v string) bool {
	for _, x := range xs {
		if x == v {
			return true
		}
	}
	return false
}
