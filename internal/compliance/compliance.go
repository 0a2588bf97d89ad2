// Package compliance implements the do-not-call screen applied to every
// lead phone number before it is stored.
package compliance

import (
	"fmt"
	"strings"
)

// Block codes, in check order. The first hit wins.
const (
	CodeCustomBlock  = "CUSTOM_BLOCK"
	CodeDNCBlock     = "DNC_BLOCK"
	CodePatternBlock = "PATTERN_BLOCK"
)

// globalBlocklist holds numbers reported to the internal DNC registry.
var globalBlocklist = []string{
	"999-888-7777",
	"123-456-7890",
	"000-000-0000",
	"888-888-8888",
}

// restrictedPatterns are digit sequences that flag premium-rate,
// directory, and emergency exchanges anywhere in the number.
var restrictedPatterns = []string{"555", "900", "976", "700", "911", "411", "809"}

// Result is the outcome of one DNC check.
type Result struct {
	Restricted bool   `json:"restricted"`
	Code       string `json:"code,omitempty"`
	Reason     string `json:"reason,omitempty"`
	Match      string `json:"match,omitempty"`
}

// Normalize strips everything but digits so that formatting never
// affects a match.
func Normalize(phone string) string {
	var b strings.Builder
	for _, r := range phone {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// Check screens a phone number against the admin-managed custom
// blocklist, then the global blocklist, then the restricted pattern
// list. An empty or digit-free number passes as safe.
func Check(phone string, custom []string) Result {
	normalized := Normalize(phone)

	for _, entry := range custom {
		if ne := Normalize(entry); ne != "" && ne == normalized {
			return Result{
				Restricted: true,
				Code:       CodeCustomBlock,
				Reason:     fmt.Sprintf("Custom Blocklist Match: Number '%s' flagged by admin", entry),
				Match:      entry,
			}
		}
	}

	for _, entry := range globalBlocklist {
		if Normalize(entry) == normalized {
			return Result{
				Restricted: true,
				Code:       CodeDNCBlock,
				Reason:     fmt.Sprintf("Blocklist Match: Number '%s' found in database", entry),
				Match:      entry,
			}
		}
	}

	for _, pattern := range restrictedPatterns {
		if strings.Contains(normalized, pattern) {
			return Result{
				Restricted: true,
				Code:       CodePatternBlock,
				Reason:     fmt.Sprintf("Pattern Match: Number contains restricted sequence '%s'", pattern),
				Match:      pattern,
			}
		}
	}

	return Result{}
}
