package templates

import (
	"context"

	"github.com/a-h/templ"

	"github.com/emiliopalmerini/pricepaid/internal/pipeline"
	"github.com/emiliopalmerini/pricepaid/internal/util"
)

func Model(p ModelPage) templ.Component {
	return Layout("Machine Learning Model", "/model", modelBody(p))
}

func scoresRow(h *writer, name string, s pipeline.Scores) {
	h.raw(`<tr><th>`)
	h.text(name)
	h.raw(`</th><td class="num">`)
	h.text(util.FormatInt(s.Count))
	h.raw(`</td><td class="num">`)
	h.text(formatPrice(s.MAE))
	h.raw(`</td><td class="num">`)
	h.text(formatPrice(s.RMSE))
	h.raw(`</td><td class="num">`)
	h.text(util.FormatFloat(s.R2, 3))
	h.raw(`</td></tr>`)
}

func modelBody(p ModelPage) templ.Component {
	return component(func(ctx context.Context, h *writer) {
		if p.Error != "" {
			h.render(ctx, ErrorPanel(p.Error))
			return
		}
		r := p.Report

		h.raw(`<p class="lead">Train/test metrics, residuals and feature importances for the regression model.</p>`)

		h.raw(`<section><h2>Test-set metrics</h2>`)
		m := r.Metrics
		if m.IsEmpty() && r.Evaluation != nil {
			m.MAE, m.RMSE, m.R2 = &r.Evaluation.Test.MAE, &r.Evaluation.Test.RMSE, &r.Evaluation.Test.R2
			notice(h, "info", "Metrics file not available, showing metrics computed on the held-out split.")
		} else if r.MetricsMissing != "" {
			notice(h, "info", r.MetricsMissing)
		}
		h.raw(`<div class="cards">`)
		card(h, "MAE", util.FormatOptionalPrice(m.MAE))
		card(h, "RMSE", util.FormatOptionalPrice(m.RMSE))
		card(h, "R²", util.FormatOptionalFloat(m.R2, 3))
		h.raw(`</div></section>`)

		h.raw(`<section><h2>Train vs test</h2>`)
		if ev := r.Evaluation; ev != nil {
			h.raw(`<table class="data"><thead><tr><th>Split</th><th>Rows</th><th>MAE</th><th>RMSE</th><th>R²</th></tr></thead><tbody>`)
			scoresRow(h, "Train", ev.Train)
			scoresRow(h, "Test", ev.Test)
			h.raw(`</tbody></table>`)
			if ev.Skipped > 0 {
				notice(h, "info", util.FormatInt(ev.Skipped)+" rows could not be scored and were left out.")
			}
			h.raw(`<section class="charts">`)
			chart(h, "residuals", "scatter", chartURL("/api/charts/residuals", nil), "Residuals (actual − predicted) against predicted price")
			h.raw(`</section>`)
		} else {
			notice(h, "info", r.EvalError)
		}
		h.raw(`</section>`)

		h.raw(`<section><h2>Feature importances</h2><section class="charts">`)
		chart(h, "importances", "hbar", chartURL("/api/charts/importances", nil), "Top features")
		h.raw(`</section><table class="data"><thead><tr><th>Feature</th><th>Importance</th></tr></thead><tbody>`)
		for _, imp := range r.Importances {
			h.raw(`<tr><td>`)
			h.text(imp.Feature)
			h.raw(`</td><td class="num">`)
			h.text(util.FormatFloat(imp.Value, 4))
			h.raw(`</td></tr>`)
		}
		h.raw(`</tbody></table>`)
		h.raw(`<p class="hint">Inputs: `)
		for i, in := range r.Inputs {
			if i > 0 {
				h.raw(`, `)
			}
			h.text(in)
		}
		h.raw(`</p></section>`)
	})
}
