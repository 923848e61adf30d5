package templates

import (
	"context"
	"fmt"

	"github.com/a-h/templ"

	"github.com/emiliopalmerini/pricepaid/internal/util"
)

func Summary(p SummaryPage) templ.Component {
	return Layout("UK House-Price Estimator", "/", summaryBody(p))
}

func summaryBody(p SummaryPage) templ.Component {
	return component(func(ctx context.Context, h *writer) {
		if p.Error != "" {
			h.render(ctx, ErrorPanel(p.Error))
			return
		}
		ov := p.Overview

		h.raw(`<p class="lead">This dashboard lets UK house-hunters and data enthusiasts explore historic `)
		h.raw(`<strong>Price Paid</strong> transactions, test a few market hypotheses, and obtain an instant sale-price prediction.</p>`)

		h.raw(`<section><h2>Model performance</h2>`)
		if ov.MetricsMissing != "" {
			notice(h, "info", ov.MetricsMissing)
		}
		h.raw(`<div class="cards">`)
		card(h, "MAE", util.FormatOptionalPrice(ov.Metrics.MAE))
		card(h, "RMSE", util.FormatOptionalPrice(ov.Metrics.RMSE))
		card(h, "R²", util.FormatOptionalFloat(ov.Metrics.R2, 3))
		h.raw(`</div></section>`)

		h.raw(`<section><h2>Dataset glimpse</h2>`)
		if g := ov.Glimpse; g != nil {
			h.raw(`<div class="cards">`)
			card(h, "Transactions", util.FormatInt(g.Rows))
			card(h, "Median price", formatPrice(g.MedianPrice))
			card(h, "Years", fmt.Sprintf("%d–%d", g.FirstYear, g.LastYear))
			card(h, "Counties", util.FormatInt(g.Counties))
			h.raw(`</div>`)
		} else if ov.DatasetMissing != "" {
			notice(h, "info", ov.DatasetMissing)
		}
		h.raw(`</section>`)

		h.raw(`<section><h2>Pages</h2><ul class="page-list">`)
		h.raw(`<li><a href="/correlation">Correlation</a>: price distribution and correlations, filtered by year and county.</li>`)
		h.raw(`<li><a href="/hypothesis">Hypotheses</a>: are new houses more expensive than old ones? Does property type matter?</li>`)
		h.raw(`<li><a href="/model">Model</a>: train and test metrics, residuals and feature importances.</li>`)
		h.raw(`<li><a href="/predict">Prediction</a>: estimate the sale price of a property.</li>`)
		h.raw(`</ul></section>`)
	})
}
