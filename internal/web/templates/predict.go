package templates

import (
	"context"

	"github.com/a-h/templ"

	"github.com/emiliopalmerini/pricepaid/internal/analytics"
	"github.com/emiliopalmerini/pricepaid/internal/domain"
)

func Predict(p PredictPage) templ.Component {
	return Layout("Sale Price Prediction", "/predict", predictBody(p))
}

func selectField(h *writer, name, label, selected string, choices []analytics.Choice) {
	h.raw(`<label`)
	h.attr("for", name)
	h.raw(`>`)
	h.text(label)
	h.raw(`</label><select`)
	h.attr("id", name)
	h.attr("name", name)
	h.raw(` required>`)
	for _, c := range choices {
		h.raw(`<option`)
		h.attr("value", c.Value)
		if c.Value == selected {
			h.raw(` selected`)
		}
		h.raw(`>`)
		h.text(c.Label)
		h.raw(`</option>`)
	}
	h.raw(`</select>`)
}

func predictBody(p PredictPage) templ.Component {
	return component(func(ctx context.Context, h *writer) {
		if p.Error != "" {
			h.render(ctx, ErrorPanel(p.Error))
			return
		}
		f, in := p.Form, p.Input

		h.raw(`<p class="lead">Enter property details below and click <strong>Predict Price</strong> to get an estimated sale price.</p>`)

		if p.InputError != "" {
			notice(h, "error", p.InputError)
		}
		if p.Result != nil {
			h.raw(`<div class="panel panel-success result">Estimated sale price: <strong>`)
			h.text(formatPrice(p.Result.PredictedPrice))
			h.raw(`</strong></div>`)
		}

		h.raw(`<form method="post" action="/predict" class="predict-form">`)
		selectField(h, "property_type", "Property type", in.PropertyType, f.PropertyTypes)
		selectField(h, "old_new", "New or established", in.OldNew, f.OldNew)
		selectField(h, "duration", "Tenure", in.Duration, f.Durations)
		selectField(h, "town_city", "Town/City", in.TownCity, f.Towns)
		selectField(h, "district", "District", in.District, f.Districts)
		selectField(h, "county", "County", in.County, f.Counties)
		selectField(h, "ppd_category", "PPD category", domain.PPDLabel(in.PPDCategory), f.PPDCategories)

		h.raw(`<label for="date">Date of transfer</label><input type="date" id="date" name="date" required`)
		h.attr("min", formatDate(f.MinDate))
		h.attr("max", formatDate(f.MaxDate))
		h.attr("value", formatDate(in.Date))
		h.raw(`><button type="submit">Predict Price</button></form>`)

		if len(p.History) == 0 {
			return
		}
		h.raw(`<section><h2>Recent predictions</h2><table class="data"><thead><tr>`)
		h.raw(`<th>When</th><th>Type</th><th>Town/City</th><th>County</th><th>Date</th><th>Price</th></tr></thead><tbody>`)
		for _, pred := range p.History {
			h.raw(`<tr><td>`)
			h.text(formatDateTime(pred.CreatedAt))
			h.raw(`</td><td>`)
			h.text(pred.Features[domain.ColPropertyType])
			h.raw(`</td><td>`)
			h.text(pred.Features[domain.ColTownCity])
			h.raw(`</td><td>`)
			h.text(pred.Features[domain.ColCounty])
			h.raw(`</td><td>`)
			h.text(pred.Features[domain.ColDate])
			h.raw(`</td><td class="num">`)
			h.text(formatPrice(pred.PredictedPrice))
			h.raw(`</td></tr>`)
		}
		h.raw(`</tbody></table></section>`)
	})
}
