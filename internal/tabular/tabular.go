// Package tabular parses pasted spreadsheet text: tab- or
// comma-delimited rows with a repair pass for currency values split
// across a thousands comma.
package tabular

import (
	"regexp"
	"strings"
)

// Delimiter is the detected cell separator for a block of text.
type Delimiter rune

const (
	Comma Delimiter = ','
	Tab   Delimiter = '\t'
)

var (
	currencyHeadRe = regexp.MustCompile(`^\$[\d.]+$`)
	currencyTailRe = regexp.MustCompile(`^\d{3}$`)
)

// Detect picks the delimiter from the first line: any tab present
// means the text came out of a spreadsheet copy, otherwise comma.
func Detect(text string) Delimiter {
	first, _, _ := strings.Cut(text, "\n")
	if strings.ContainsRune(first, '\t') {
		return Tab
	}
	return Comma
}

// ParseLine splits one line into trimmed cells. Tab mode is a plain
// split. Comma mode honors double quotes: quote characters toggle
// quoted state and are dropped, a doubled quote inside a quoted cell
// emits one literal quote, and only commas outside quotes split. A
// comma-mode repair pass re-joins currency values that a thousands
// comma tore apart ("$1" + "200" -> "$1,200"); tab splits are taken
// as-is since tabs never appear inside a number.
func ParseLine(line string, delim Delimiter) []string {
	var cells []string
	if delim == Tab {
		for _, c := range strings.Split(line, "\t") {
			cells = append(cells, strings.TrimSpace(c))
		}
		return cells
	}

	var cur strings.Builder
	inQuotes := false
	for i := 0; i < len(line); i++ {
		switch ch := line[i]; {
		case ch == '"':
			if inQuotes && i+1 < len(line) && line[i+1] == '"' {
				cur.WriteByte('"')
				i++
			} else {
				inQuotes = !inQuotes
			}
		case ch == ',' && !inQuotes:
			cells = append(cells, strings.TrimSpace(cur.String()))
			cur.Reset()
		default:
			cur.WriteByte(ch)
		}
	}
	cells = append(cells, strings.TrimSpace(cur.String()))
	return repairCurrency(cells)
}

// repairCurrency merges cells like ["$1", "200"] back into "$1,200".
func repairCurrency(cells []string) []string {
	var fixed []string
	for _, cell := range cells {
		if n := len(fixed); n > 0 && currencyHeadRe.MatchString(fixed[n-1]) && currencyTailRe.MatchString(cell) {
			fixed[n-1] = fixed[n-1] + "," + cell
			continue
		}
		fixed = append(fixed, cell)
	}
	return fixed
}

// Parse splits text into rows of cells, dropping rows whose every
// cell is empty.
func Parse(text string) [][]string {
	delim := Detect(text)
	var rows [][]string
	for _, line := range strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n") {
		cells := ParseLine(line, delim)
		if allEmpty(cells) {
			continue
		}
		rows = append(rows, cells)
	}
	return rows
}

func allEmpty(cells []string) bool {
	for _, c := range cells {
		if c != "" {
			return false
		}
	}
	return true
}
