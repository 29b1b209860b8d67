package labels

import (
	"math"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// GroupDelimiter separates groups of three digits on both sides of the decimal point.
const GroupDelimiter = " "

var scaleWords = []struct {
	exp  int32
	word string
}{
	{exp: 6, word: "million"},
	{exp: 9, word: "billion"},
	{exp: 12, word: "trillion"},
	{exp: 15, word: "quadrillion"},
	{exp: 18, word: "quintillion"},
}

// Currency formats a balance for an axis label. Values of a million and more are shown as a
// whole number of the largest fitting scale word, values below one with up to nine decimals,
// everything else with one decimal. Fraction groups made only of zeros are dropped.
func Currency(v float64) string {
	if v == 0 || math.IsNaN(v) || math.IsInf(v, 0) {
		return "0"
	}

	sign := ""
	if v < 0 {
		sign = "-"
		v = -v
	}

	if v >= 1e6 {
		return sign + withScaleWord(v)
	}

	var raw string
	if v < 1 {
		raw = strconv.FormatFloat(v, 'f', 9, 64)
	} else {
		raw = strconv.FormatFloat(v, 'f', 1, 64)
	}

	grouped := group(raw)
	if grouped == "0" {
		return grouped
	}
	return sign + grouped
}

// CurrencyLabels formats every tick of a value axis.
func CurrencyLabels(ticks []float64) []string {
	out := make([]string, 0, len(ticks))
	for _, v := range ticks {
		out = append(out, Currency(v))
	}
	return out
}

func withScaleWord(v float64) string {
	d := decimal.NewFromFloat(v)
	idx := 0
	for i, s := range scaleWords {
		if d.GreaterThanOrEqual(decimal.New(1, s.exp)) {
			idx = i
		}
	}

	n := d.Shift(-scaleWords[idx].exp).Round(0)
	// 999.6 million is shown as 1 billion
	if idx+1 < len(scaleWords) && n.GreaterThanOrEqual(decimal.NewFromInt(1000)) {
		idx++
		n = d.Shift(-scaleWords[idx].exp).Round(0)
	}
	return n.String() + " " + scaleWords[idx].word
}

func group(raw string) string {
	intPart, fracPart, _ := strings.Cut(raw, ".")

	var chunks []string
	for len(intPart) > 3 {
		chunks = append([]string{intPart[len(intPart)-3:]}, chunks...)
		intPart = intPart[:len(intPart)-3]
	}
	chunks = append([]string{intPart}, chunks...)
	out := strings.Join(chunks, GroupDelimiter)

	var frac []string
	for len(fracPart) > 0 {
		n := min(3, len(fracPart))
		frac = append(frac, fracPart[:n])
		fracPart = fracPart[n:]
	}
	for len(frac) > 0 && strings.Trim(frac[len(frac)-1], "0") == "" {
		frac = frac[:len(frac)-1]
	}
	if len(frac) == 0 {
		return out
	}
	return out + "." + strings.Join(frac, GroupDelimiter)
}
