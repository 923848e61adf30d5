package templates

import (
	"context"
	"strings"

	"github.com/a-h/templ"

	"github.com/emiliopalmerini/pricepaid/internal/hypothesis"
	"github.com/emiliopalmerini/pricepaid/internal/util"
)

func Hypothesis(p HypothesisPage) templ.Component {
	return Layout("Hypothesis Validation", "/hypothesis", hypothesisBody(p))
}

func verdictClass(v hypothesis.Verdict) string {
	if v == hypothesis.Reject {
		return "success"
	}
	return "info"
}

func hypothesisBody(p HypothesisPage) templ.Component {
	return component(func(ctx context.Context, h *writer) {
		if p.Error != "" {
			h.render(ctx, ErrorPanel(p.Error))
			return
		}
		r := p.Report

		h.raw(`<p class="lead">Use statistical tests to confirm or reject our market hypotheses.</p>`)

		h.raw(`<section><h2>H1: Are new houses more expensive than old ones?</h2>`)
		h.raw(`<ul class="stats">`)
		h.raw(`<li>T-statistic: <strong>`)
		h.text(util.FormatFloat(r.TTest.T, 2))
		h.raw(`</strong></li><li>p-value: <strong>`)
		h.text(util.FormatPValue(r.TTest.P))
		h.raw(`</strong></li><li>Degrees of freedom: `)
		h.text(util.FormatFloat(r.TTest.DF, 1))
		h.raw(`</li><li>New houses: `)
		h.textf("%s sales, mean %s", util.FormatInt(r.NewCount), formatPrice(r.TTest.MeanA))
		h.raw(`</li><li>Old houses: `)
		h.textf("%s sales, mean %s", util.FormatInt(r.OldCount), formatPrice(r.TTest.MeanB))
		h.raw(`</li></ul>`)
		notice(h, verdictClass(r.TTestVerdict), r.TTestMessage)
		h.raw(`<p class="hint">Welch's two-sample t-test, unequal variances, α = `)
		h.text(util.FormatFloat(r.Alpha, 2))
		h.raw(`.</p></section>`)

		h.raw(`<section><h2>H2: Does property type affect price?</h2>`)
		if r.ANOVA == nil {
			notice(h, "info", "ANOVA could not be run: "+r.ANOVAError)
			h.raw(`</section>`)
			return
		}
		h.raw(`<ul class="stats"><li>F-statistic: <strong>`)
		h.text(util.FormatFloat(r.ANOVA.F, 2))
		h.raw(`</strong></li><li>p-value: <strong>`)
		h.text(util.FormatPValue(r.ANOVA.P))
		h.raw(`</strong></li><li>Property types: `)
		h.text(strings.Join(r.ANOVA.Groups, ", "))
		h.raw(`</li></ul>`)
		notice(h, verdictClass(r.ANOVAVerdict), r.ANOVAMessage)
		h.raw(`</section>`)
	})
}
