package util

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// NotAvailable is shown in place of a figure that could not be computed.
const NotAvailable = "n/a"

// FormatNumber formats an int64 with K/M suffix for readability.
// Examples: 500 -> "500", 1500 -> "1.5K", 1500000 -> "1.5M"
func FormatNumber(n int64) string {
	if n < 1000 {
		return fmt.Sprintf("%d", n)
	}
	if n < 1000000 {
		return fmt.Sprintf("%.1fK", float64(n)/1000)
	}
	return fmt.Sprintf("%.1fM", float64(n)/1000000)
}

// FormatPrice formats a sterling amount rounded to the pound with thousands
// separators. Examples: 1234567.8 -> "£1,234,568", -50 -> "-£50"
func FormatPrice(p float64) string {
	if math.IsNaN(p) || math.IsInf(p, 0) {
		return NotAvailable
	}
	sign := ""
	if p < 0 {
		sign = "-"
		p = -p
	}
	return sign + "£" + groupThousands(strconv.FormatFloat(math.Round(p), 'f', 0, 64))
}

// FormatInt formats an integer with thousands separators.
func FormatInt(n int) string {
	if n < 0 {
		return "-" + groupThousands(strconv.Itoa(-n))
	}
	return groupThousands(strconv.Itoa(n))
}

func groupThousands(digits string) string {
	if len(digits) <= 3 {
		return digits
	}
	var b strings.Builder
	lead := len(digits) % 3
	if lead > 0 {
		b.WriteString(digits[:lead])
	}
	for i := lead; i < len(digits); i += 3 {
		if b.Len() > 0 {
			b.WriteByte(',')
		}
		b.WriteString(digits[i : i+3])
	}
	return b.String()
}

// FormatFloat formats f with the given number of decimals, or "n/a" for NaN.
func FormatFloat(f float64, decimals int) string {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return NotAvailable
	}
	return strconv.FormatFloat(f, 'f', decimals, 64)
}

// FormatOptionalPrice formats a price that may be absent.
func FormatOptionalPrice(p *float64) string {
	if p == nil {
		return NotAvailable
	}
	return FormatPrice(*p)
}

// FormatOptionalFloat formats a value that may be absent.
func FormatOptionalFloat(f *float64, decimals int) string {
	if f == nil {
		return NotAvailable
	}
	return FormatFloat(*f, decimals)
}

// FormatPValue formats a p-value with four decimals, switching to scientific
// notation below 0.0001 so tiny values do not read as zero.
func FormatPValue(p float64) string {
	if math.IsNaN(p) {
		return NotAvailable
	}
	if p > 0 && p < 0.0001 {
		return strconv.FormatFloat(p, 'e', 2, 64)
	}
	return strconv.FormatFloat(p, 'f', 4, 64)
}
