package parser

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// ConvertDateDMY parses the transaction date format "05-JAN-2024" into an
// ISO 8601 calendar date string.
func ConvertDateDMY(s string) (any, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	// time's "Jan" layout wants mixed case; the reports print the month in
	// upper case.
	t, err := time.Parse("02-Jan-2006", normalizeMonthCase(s))
	if err != nil {
		return nil, fmt.Errorf("bad DD-MON-YYYY date %q: %w", s, err)
	}
	return t.Format("2006-01-02"), nil
}

// ConvertDateMDY parses the payroll date format "01/05/2024" into an
// ISO 8601 calendar date string.
func ConvertDateMDY(s string) (any, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	t, err := time.Parse("01/02/2006", s)
	if err != nil {
		return nil, fmt.Errorf("bad MM/DD/YYYY date %q: %w", s, err)
	}
	return t.Format("2006-01-02"), nil
}

// ConvertNumber parses a thousands-separated numeric like "1,234.50" into a
// float64. Parenthesized values are negative, matching the report's
// accounting notation.
func ConvertNumber(s string) (any, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	neg := false
	if strings.HasPrefix(s, "(") && strings.HasSuffix(s, ")") {
		neg = true
		s = s[1 : len(s)-1]
	}
	// A trailing minus is the report's other negative notation.
	if strings.HasSuffix(s, "-") {
		neg = true
		s = strings.TrimSuffix(s, "-")
	}
	s = strings.ReplaceAll(s, ",", "")
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil, fmt.Errorf("bad numeric %q: %w", s, err)
	}
	if neg {
		f = -f
	}
	return f, nil
}

// normalizeMonthCase rewrites "05-JAN-2024" as "05-Jan-2024" so the stdlib
// layout can parse it.
func normalizeMonthCase(s string) string {
	parts := strings.Split(s, "-")
	if len(parts) != 3 || len(parts[1]) == 0 {
		return s
	}
	m := strings.ToLower(parts[1])
	parts[1] = strings.ToUpper(m[:1]) + m[1:]
	return strings.Join(parts, "-")
}
