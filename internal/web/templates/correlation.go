package templates

import (
	"context"
	"strconv"

	"github.com/a-h/templ"

	"github.com/emiliopalmerini/pricepaid/internal/util"
)

func Correlation(p ExplorePage) templ.Component {
	return Layout("Correlation Analysis", "/correlation", correlationBody(p))
}

func correlationBody(p ExplorePage) templ.Component {
	return component(func(ctx context.Context, h *writer) {
		if p.Error != "" {
			h.render(ctx, ErrorPanel(p.Error))
			return
		}
		d := p.Data

		h.raw(`<div class="with-sidebar"><aside class="sidebar"><h2>Filter data</h2>`)
		h.raw(`<form method="get" action="/correlation"><input type="hidden" name="filtered" value="1">`)
		h.raw(`<label for="year">Year</label><select id="year" name="year" multiple size="8">`)
		for _, y := range d.Options.Years {
			h.raw(`<option`)
			h.attr("value", strconv.Itoa(y))
			if containsInt(d.Selection.Years, y) {
				h.raw(` selected`)
			}
			h.raw(`>`)
			h.text(strconv.Itoa(y))
			h.raw(`</option>`)
		}
		h.raw(`</select><label for="county">County</label><select id="county" name="county" multiple size="12">`)
		for _, c := range d.Options.Counties {
			h.raw(`<option`)
			h.attr("value", c)
			if containsString(d.Selection.Counties, c) {
				h.raw(` selected`)
			}
			h.raw(`>`)
			h.text(c)
			h.raw(`</option>`)
		}
		h.raw(`</select><button type="submit">Apply</button> <a href="/correlation">Reset</a></form></aside>`)

		h.raw(`<div class="main">`)
		h.raw(`<p>`)
		h.textf("%s of %s transactions match the selection.", util.FormatInt(d.Rows), util.FormatInt(d.TotalRows))
		h.raw(`</p>`)

		if d.Rows == 0 {
			notice(h, "info", "No transactions match the selected years and counties.")
			h.raw(`</div></div>`)
			return
		}

		s := d.Price
		h.raw(`<section><h2>Price summary</h2><div class="cards">`)
		card(h, "Mean", formatPrice(s.Mean))
		card(h, "Median", formatPrice(s.Median))
		card(h, "Std dev", formatPrice(s.Std))
		card(h, "Min", formatPrice(s.Min))
		card(h, "Max", formatPrice(s.Max))
		h.raw(`</div></section>`)

		sel := d.Selection
		h.raw(`<section class="charts">`)
		chart(h, "price-distribution", "bar", chartURL("/api/charts/price-distribution", &sel), "Price distribution")
		chart(h, "price-by-year", "line", chartURL("/api/charts/price-by-year", &sel), "Mean price by year")
		chart(h, "price-by-type", "bar", chartURL("/api/charts/price-by-type", &sel), "Mean price by property type")
		h.raw(`</section>`)

		h.raw(`<section><h2>Correlation matrix</h2><table class="matrix"><thead><tr><th></th>`)
		for _, c := range d.Correlation.Columns {
			h.raw(`<th>`)
			h.text(c)
			h.raw(`</th>`)
		}
		h.raw(`</tr></thead><tbody>`)
		for i, row := range d.Correlation.Values {
			h.raw(`<tr><th>`)
			h.text(d.Correlation.Columns[i])
			h.raw(`</th>`)
			for _, v := range row {
				h.raw(`<td`)
				h.attr("class", correlationClass(v))
				h.raw(`>`)
				h.text(formatCorrelation(v))
				h.raw(`</td>`)
			}
			h.raw(`</tr>`)
		}
		h.raw(`</tbody></table></section>`)

		h.raw(`<section><h2>Sample rows</h2><table class="data"><thead><tr>`)
		for _, c := range []string{"Price", "Date", "Type", "New", "Town/City", "County"} {
			h.raw(`<th>`)
			h.text(c)
			h.raw(`</th>`)
		}
		h.raw(`</tr></thead><tbody>`)
		for _, r := range d.Sample {
			h.raw(`<tr><td class="num">`)
			h.text(formatPrice(r.Price))
			h.raw(`</td><td>`)
			h.text(formatDate(r.DateOfTransfer))
			h.raw(`</td><td>`)
			h.text(r.PropertyType)
			h.raw(`</td><td>`)
			if r.IsNew() {
				h.raw(`yes`)
			} else {
				h.raw(`no`)
			}
			h.raw(`</td><td>`)
			h.text(r.TownCity)
			h.raw(`</td><td>`)
			h.text(r.County)
			h.raw(`</td></tr>`)
		}
		h.raw(`</tbody></table></section>`)
		h.raw(`</div></div>`)
	})
}
