package extract

import (
	"encoding/json"
	"regexp"
	"strings"

	"github.com/rotisserie/eris"
)

var fenceRe = regexp.MustCompile("```(?:json)?\n?")

// cleanJSON strips markdown code fences the model sometimes wraps
// around its output.
func cleanJSON(raw string) string {
	return strings.TrimSpace(fenceRe.ReplaceAllString(raw, ""))
}

// lenientUnmarshal parses model output that may carry prose before or
// after the JSON value. After fence stripping it tries a direct parse,
// then falls back to locating the first bracket and cutting the
// balanced region of that bracket kind.
func lenientUnmarshal(raw string, v any) error {
	cleaned := cleanJSON(raw)
	if err := json.Unmarshal([]byte(cleaned), v); err == nil {
		return nil
	}

	start := strings.IndexAny(cleaned, "[{")
	if start < 0 {
		return eris.New("extract: no JSON value in response")
	}
	open := cleaned[start]
	var closing byte = '}'
	if open == '[' {
		closing = ']'
	}

	depth := 0
	for i := start; i < len(cleaned); i++ {
		switch cleaned[i] {
		case open:
			depth++
		case closing:
			depth--
		}
		if depth == 0 {
			if err := json.Unmarshal([]byte(cleaned[start:i+1]), v); err != nil {
				return eris.Wrap(err, "extract: parse recovered JSON")
			}
			return nil
		}
	}
	return eris.New("extract: truncated JSON in response")
}

// toFloat64 coerces the loosely typed numbers models emit.
func toFloat64(v any) float64 {
	switch n := v.(type) {
	case float64:
		return n
	case int:
		return float64(n)
	case json.Number:
		f, _ := n.Float64()
		return f
	case string:
		var f float64
		if err := json.Unmarshal([]byte(strings.TrimSpace(n)), &f); err == nil {
			return f
		}
	}
	return 0
}
