// Package revenue turns free-text revenue answers ("$1.2M", "15K/mo",
// "2,500,000") into annual USD integers.
package revenue

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Normalize parses a free-text revenue figure into annual USD. A
// trailing k multiplies by a thousand, m by a million; a monthly
// qualifier anywhere in the text ("/mo", "month") annualizes by 12.
// Anything unparseable comes back as 0. The function is idempotent
// over its own formatted output.
func Normalize(raw string) int64 {
	s := strings.ToLower(strings.TrimSpace(raw))
	if s == "" {
		return 0
	}
	monthly := strings.Contains(s, "/mo") || strings.Contains(s, "month")

	var b strings.Builder
	for _, r := range s {
		if (r >= '0' && r <= '9') || r == 'k' || r == 'm' || r == '.' {
			b.WriteRune(r)
		}
	}
	cleaned := b.String()

	i := 0
	for i < len(cleaned) && (cleaned[i] == '.' || (cleaned[i] >= '0' && cleaned[i] <= '9')) {
		i++
	}
	if i == 0 {
		return 0
	}
	v, err := strconv.ParseFloat(cleaned[:i], 64)
	if err != nil {
		return 0
	}

	if i < len(cleaned) {
		switch cleaned[i] {
		case 'k':
			v *= 1_000
		case 'm':
			v *= 1_000_000
		}
	}
	if monthly {
		v *= 12
	}
	if v < 0 || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return int64(math.Round(v))
}

// Format renders an annual revenue figure for display.
func Format(v float64) string {
	switch {
	case v >= 1e9:
		return fmt.Sprintf("$%.1fB", v/1e9)
	case v >= 1e6:
		return fmt.Sprintf("$%.1fM", v/1e6)
	case v >= 1e3:
		return fmt.Sprintf("$%.1fK", v/1e3)
	default:
		return fmt.Sprintf("$%.0f", v)
	}
}
