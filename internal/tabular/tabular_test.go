package tabular

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDetect(t *testing.T) {
	assert.Equal(t, Tab, Detect("name\trevenue\nAcme\t100"))
	assert.Equal(t, Comma, Detect("name,revenue\nAcme,100"))
	assert.Equal(t, Comma, Detect("just one line, with commas"))
}

func TestParseLineTab(t *testing.T) {
	cells := ParseLine("  Acme Corp \t $1,200 \t NY ", Tab)
	assert.Equal(t, []string{"Acme Corp", "$1,200", "NY"}, cells)
}

func TestParseLineTabNoCurrencyRepair(t *testing.T) {
	// Adjacent tab cells that look like a torn currency figure are
	// distinct values, not a split number.
	cells := ParseLine("Acme\t$45\t000\tny", Tab)
	assert.Equal(t, []string{"Acme", "$45", "000", "ny"}, cells)
}

func TestParseLineQuotedComma(t *testing.T) {
	cells := ParseLine(`"Smith, Jones & Co",ny,"$95,000"`, Comma)
	assert.Equal(t, []string{"Smith, Jones & Co", "ny", "$95,000"}, cells)
}

func TestParseLineEscapedQuote(t *testing.T) {
	cells := ParseLine(`"Bob ""The Builder"" LLC",55`, Comma)
	assert.Equal(t, []string{`Bob "The Builder" LLC`, "55"}, cells)
}

func TestParseLineCurrencyRepair(t *testing.T) {
	// An unquoted currency figure splits on its thousands comma and
	// must be stitched back together.
	cells := ParseLine("Acme,$1,200,ny", Comma)
	assert.Equal(t, []string{"Acme", "$1,200", "ny"}, cells)
}

func TestParseLineCurrencyRepairNotGreedy(t *testing.T) {
	// A bare 3-digit cell after a non-currency cell stays separate.
	cells := ParseLine("Acme,100,200", Comma)
	assert.Equal(t, []string{"Acme", "100", "200"}, cells)
}

func TestParseDropsEmptyRows(t *testing.T) {
	rows := Parse("name,rev\n,,\nAcme,100\n\n")
	assert.Equal(t, [][]string{
		{"name", "rev"},
		{"Acme", "100"},
	}, rows)
}

func TestParseCRLF(t *testing.T) {
	rows := Parse("a\tb\r\nc\td\r\n")
	assert.Equal(t, [][]string{{"a", "b"}, {"c", "d"}}, rows)
}
