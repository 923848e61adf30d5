package domain

import (
	"strconv"
	"time"
)

// Column names used by the cleaned Price Paid dataset.
const (
	ColPrice        = "Price"
	ColDate         = "Date of Transfer"
	ColPropertyType = "Property Type"
	ColOldNew       = "Old/New"
	ColDuration     = "Duration"
	ColTownCity     = "Town/City"
	ColDistrict     = "District"
	ColCounty       = "County"
	ColPPDCategory  = "PPD Category Type"
	ColYear         = "Year"
	ColMonth        = "Month"
)

// OldNewUnknown marks a record whose Old/New flag is blank.
const OldNewUnknown = -1

// Record is a single property transaction from the cleaned dataset.
type Record struct {
	Price          float64
	DateOfTransfer time.Time
	PropertyType   string
	// OldNew is 1 for a new build, 0 for an established home and
	// OldNewUnknown when the column is blank or absent.
	OldNew         int
	Duration       string
	TownCity       string
	District       string
	County         string
	PPDCategory    string
	Year           int
	Month          int
	// Fields holds every raw column of the row keyed by header name.
	Fields map[string]string
}

// IsNew reports whether the property was newly built.
func (r Record) IsNew() bool {
	return r.OldNew == 1
}

// HasOldNew reports whether the Old/New flag is known.
func (r Record) HasOldNew() bool {
	return r.OldNew != OldNewUnknown
}

// Features is the raw input handed to a pipeline: column name to value.
type Features map[string]string

// Features returns the row as pipeline input. Year and Month are filled in
// from the transfer date when the source file did not carry them.
func (r Record) Features() Features {
	f := make(Features, len(r.Fields)+2)
	for k, v := range r.Fields {
		f[k] = v
	}
	if _, ok := f[ColYear]; !ok && r.Year != 0 {
		f[ColYear] = strconv.Itoa(r.Year)
	}
	if _, ok := f[ColMonth]; !ok && r.Month != 0 {
		f[ColMonth] = strconv.Itoa(r.Month)
	}
	return f
}
