package util

import (
	"fmt"
	"time"
)

// FormatCurrency formats a dollar amount with a K/M suffix for readability.
// Examples: 500 -> "$500", 1500 -> "$1.5K", 1500000 -> "$1.5M"
func FormatCurrency(amount float64) string {
	neg := ""
	if amount < 0 {
		neg = "-"
		amount = -amount
	}
	if amount < 1000 {
		return fmt.Sprintf("%s$%.0f", neg, amount)
	}
	if amount < 1000000 {
		return fmt.Sprintf("%s$%.1fK", neg, amount/1000)
	}
	return fmt.Sprintf("%s$%.1fM", neg, amount/1000000)
}

// FormatCurrencyExact formats a dollar amount without abbreviation.
// Examples: 266.666 -> "$266.67", 8000 -> "$8,000.00"
func FormatCurrencyExact(amount float64) string {
	neg := ""
	if amount < 0 {
		neg = "-"
		amount = -amount
	}
	whole := int64(amount)
	cents := int64((amount-float64(whole))*100 + 0.5)
	if cents == 100 {
		whole++
		cents = 0
	}
	return fmt.Sprintf("%s$%s.%02d", neg, groupThousands(whole), cents)
}

func groupThousands(n int64) string {
	s := fmt.Sprintf("%d", n)
	if len(s) <= 3 {
		return s
	}
	var out []byte
	for i, c := range []byte(s) {
		if i > 0 && (len(s)-i)%3 == 0 {
			out = append(out, ',')
		}
		out = append(out, c)
	}
	return string(out)
}

// FormatHours formats an hour total with one decimal place.
// Examples: 30 -> "30.0h", 7.25 -> "7.3h"
func FormatHours(h float64) string {
	return fmt.Sprintf("%.1fh", h)
}

// FormatPercent formats a percentage with one decimal place.
// Examples: 300 -> "300.0%", 87.55 -> "87.6%"
func FormatPercent(p float64) string {
	return fmt.Sprintf("%.1f%%", p)
}

// FormatRate formats a nullable hourly rate.
// Nil means no hours were worked and renders as a dash.
func FormatRate(r *float64) string {
	if r == nil {
		return "—"
	}
	return fmt.Sprintf("$%.2f/h", *r)
}

// FormatDateISO formats a date in ISO format (2006-01-02).
// The zero time renders as a dash so missing dates stay visible in tables.
func FormatDateISO(t time.Time) string {
	if t.IsZero() {
		return "—"
	}
	return t.Format("2006-01-02")
}

// FormatMonth formats a month bucket as "Jan 2006".
func FormatMonth(t time.Time) string {
	if t.IsZero() {
		return "—"
	}
	return t.Format("Jan 2006")
}

// FormatCount formats an int with a K suffix past a thousand.
func FormatCount(n int) string {
	if n < 1000 {
		return fmt.Sprintf("%d", n)
	}
	return fmt.Sprintf("%.1fK", float64(n)/1000)
}
