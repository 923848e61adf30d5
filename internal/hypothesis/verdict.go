package hypothesis

// Alpha is the significance level every test is judged against.
const Alpha = 0.05

// Verdict is the conclusion drawn from a p-value.
type Verdict int

const (
	FailToReject Verdict = iota
	Reject
)

// Decide rejects the null hypothesis when p is below Alpha.
func Decide(p float64) Verdict {
	if p < Alpha {
		return Reject
	}
	return FailToReject
}

func (v Verdict) String() string {
	if v == Reject {
		return "reject"
	}
	return "fail to reject"
}

// NewVsOldMessage is the sentence shown for the new-vs-old price test.
func NewVsOldMessage(v Verdict) string {
	if v == Reject {
		return "Reject H0: new houses are significantly more expensive."
	}
	return "Fail to reject H0: no significant price difference found."
}

// PropertyTypeMessage is the sentence shown for the property type ANOVA.
func PropertyTypeMessage(v Verdict) string {
	if v == Reject {
		return "Reject H0: mean price differs across property types."
	}
	return "Fail to reject H0: no significant difference across property types."
}
