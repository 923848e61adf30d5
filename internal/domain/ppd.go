package domain

import "sort"

// PPDCategories maps the PPD category code to the label shown to users.
var PPDCategories = map[string]string{
	"A": "Standard sale (market value)",
	"B": "Other sale types (repossessions, buy-to-let, etc.)",
}

// PPDLabel returns the human label for a category code, or the code itself
// when it is not known.
func PPDLabel(code string) string {
	if label, ok := PPDCategories[code]; ok {
		return label
	}
	return code
}

// PPDCode returns the category code for a label. Codes are accepted as-is.
func PPDCode(label string) (string, bool) {
	if _, ok := PPDCategories[label]; ok {
		return label, true
	}
	for code, l := range PPDCategories {
		if l == label {
			return code, true
		}
	}
	return "", false
}

// PPDCodes returns the known category codes in sorted order.
func PPDCodes() []string {
	codes := make([]string, 0, len(PPDCategories))
	for code := range PPDCategories {
		codes = append(codes, code)
	}
	sort.Strings(codes)
	return codes
}
