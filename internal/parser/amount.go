package parser

import (
	"math"
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
)

// amountPattern matches an optional currency symbol, an optional opening
// parenthesis and a number with strict 3-digit comma groups and optional
// 2-digit cents. Loose digit runs such as account numbers are split rather
// than read as one large value.
var amountPattern = func() *regexp.Regexp {
	re := regexp.MustCompile(`[$£€]?\s*\(?\d{1,3}(?:,\d{3})*(?:\.\d{2})?\)?`)
	re.Longest()
	return re
}()

// ExtractAmounts returns every monetary value on the line, left to right.
// A value written inside parentheses is negative. A line without numbers
// yields nil.
func ExtractAmounts(line string) []float64 {
	matches := amountPattern.FindAllString(line, -1)
	if len(matches) == 0 {
		return nil
	}

	amounts := make([]float64, 0, len(matches))
	for _, m := range matches {
		v, ok := parseMatch(m)
		if !ok {
			continue
		}
		amounts = append(amounts, v)
	}
	return amounts
}

func parseMatch(m string) (float64, bool) {
	digits := strings.Map(func(r rune) rune {
		if (r >= '0' && r <= '9') || r == '.' {
			return r
		}
		return -1
	}, m)

	d, err := decimal.NewFromString(digits)
	if err != nil {
		return 0, false
	}
	if strings.Contains(m, "(") {
		d = d.Neg()
	}
	v, _ := d.Float64()
	return v, true
}

// MainAmount returns the amount with the greatest absolute value. Ties go to
// the earliest one. ok is false for an empty slice.
func MainAmount(amounts []float64) (main float64, ok bool) {
	for i, a := range amounts {
		if i == 0 || math.Abs(a) > math.Abs(main) {
			main = a
		}
	}
	return main, len(amounts) > 0
}
