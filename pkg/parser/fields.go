package parser

import (
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"
	"unicode"

	"github.com/yurifrl/festas/pkg/models"
)

var (
	guestsRegex  = regexp.MustCompile(`(\d+)\+?(\d+)?`)
	decimalRegex = regexp.MustCompile(`^\d*\.?\d+$`)
)

// ParseCurrency converts a localized amount ("R$ 1.234,56") into centavos.
// Anything it cannot read is worth zero.
func ParseCurrency(raw models.RawValue) models.Cents {
	if raw.IsBlank() {
		return 0
	}
	if f, ok := raw.Float(); ok {
		return toCents(f)
	}

	valueStr := strings.ReplaceAll(raw.String(), "R$", "")
	valueStr = strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, valueStr)
	valueStr = strings.ReplaceAll(valueStr, ".", "")  // thousands separator
	valueStr = strings.ReplaceAll(valueStr, ",", ".") // decimal separator
	if !decimalRegex.MatchString(valueStr) {
		return 0
	}

	value, err := strconv.ParseFloat(valueStr, 64)
	if err != nil {
		return 0
	}
	return toCents(value)
}

func toCents(value float64) models.Cents {
	if math.IsNaN(value) || math.IsInf(value, 0) || value <= 0 {
		return 0
	}
	cents := math.Round(value * 100)
	if cents > math.MaxInt64 {
		return 0
	}
	return models.Cents(cents)
}

// ParseGuestCount reads "50+10" style counts (base plus extra guests) or a
// bare integer. Unreadable input counts as zero guests.
func ParseGuestCount(raw models.RawValue) int {
	if raw.IsBlank() {
		return 0
	}

	matches := guestsRegex.FindStringSubmatch(raw.String())
	if matches == nil {
		return 0
	}

	base, err := strconv.Atoi(matches[1])
	if err != nil {
		return 0
	}
	extra := 0
	if matches[2] != "" {
		if extra, err = strconv.Atoi(matches[2]); err != nil {
			return 0
		}
	}
	return base + extra
}

// ParseDate accepts exactly DD/MM/YYYY. Other layouts, even valid ones, are
// rejected rather than guessed.
func ParseDate(raw models.RawValue) (time.Time, bool) {
	if raw.Kind() != models.KindText {
		return time.Time{}, false
	}
	date, err := time.Parse(models.DateLayout, raw.String())
	if err != nil {
		return time.Time{}, false
	}
	return date, true
}

// NormalizeName trims and lower-cases a name for matching.
func NormalizeName(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}
