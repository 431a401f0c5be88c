// Package label renders amounts and times as the strings shown on KPI cards and charts.
package label

import (
	"math"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/shopspring/decimal"
)

// CurrencySymbol prefixes every currency label.
const CurrencySymbol = "৳"

var (
	thousand = decimal.NewFromInt(1_000)
	million  = decimal.NewFromInt(1_000_000)
)

// Currency renders v with the currency glyph and thousands separators.
// Integral amounts get no decimals, fractional amounts exactly two.
// Rounding is half away from zero on the shortest decimal form of v, so a
// float printed as 1234.005 renders as 1,234.01 even though its binary value
// is slightly below the midpoint.
//
//	1000     -> "৳ 1,000"
//	1234.5   -> "৳ 1,234.50"
//	1234.005 -> "৳ 1,234.01"
func Currency(v float64) string {
	d := decimal.NewFromFloat(v)
	places := int32(2)
	if d.IsInteger() {
		places = 0
	}
	return CurrencySymbol + " " + group(d.StringFixed(places))
}

// Compact renders v in k/M notation with three decimals. The M threshold is inclusive.
//
//	512     -> "512"
//	87231   -> "87.231k"
//	2500000 -> "2.500M"
func Compact(v float64) string {
	d := decimal.NewFromFloat(v)
	abs := d.Abs()
	switch {
	case abs.GreaterThanOrEqual(million):
		return group(d.Div(million).StringFixed(3)) + "M"
	case abs.GreaterThanOrEqual(thousand):
		return group(d.Div(thousand).StringFixed(3)) + "k"
	case d.IsInteger():
		return group(d.StringFixed(0))
	default:
		return group(d.Round(2).String())
	}
}

// Integer renders the integer part of v with thousands separators.
func Integer(v float64) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return "0"
	}
	return humanize.Comma(int64(v))
}

// group inserts thousands separators into the integer part of a plain decimal string.
func group(s string) string {
	sign := ""
	if strings.HasPrefix(s, "-") {
		sign, s = "-", s[1:]
	}
	whole, frac, hasFrac := strings.Cut(s, ".")
	d, err := decimal.NewFromString(whole)
	if err != nil || !d.IsInteger() {
		return sign + s
	}
	out := humanize.Comma(d.IntPart())
	if hasFrac {
		out += "." + frac
	}
	return sign + out
}
