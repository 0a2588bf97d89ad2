package compliance

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalize(t *testing.T) {
	assert.Equal(t, "9998887777", Normalize("(999) 888-7777"))
	assert.Equal(t, "18005551234", Normalize("+1 800 555 1234"))
	assert.Equal(t, "", Normalize("call me maybe"))
	assert.Equal(t, "", Normalize(""))
}

func TestCheckGlobalBlocklist(t *testing.T) {
	res := Check("(999) 888-7777", nil)
	assert.True(t, res.Restricted)
	assert.Equal(t, CodeDNCBlock, res.Code)
	assert.Equal(t, "Blocklist Match: Number '999-888-7777' found in database", res.Reason)
	assert.Equal(t, "999-888-7777", res.Match)
}

func TestCheckCustomBeforeGlobal(t *testing.T) {
	// A number also present in the global list must be reported as a
	// custom hit when the admin flagged it.
	res := Check("123-456-7890", []string{"(123) 456-7890"})
	assert.True(t, res.Restricted)
	assert.Equal(t, CodeCustomBlock, res.Code)
	assert.Equal(t, "Custom Blocklist Match: Number '(123) 456-7890' flagged by admin", res.Reason)
}

func TestCheckPatternMatch(t *testing.T) {
	res := Check("212-555-0142", nil)
	assert.True(t, res.Restricted)
	assert.Equal(t, CodePatternBlock, res.Code)
	assert.Equal(t, "Pattern Match: Number contains restricted sequence '555'", res.Reason)
	assert.Equal(t, "555", res.Match)
}

func TestCheckPatternAnywhere(t *testing.T) {
	// The sequence can appear in any position, not just the exchange.
	res := Check("(202) 123-9003", nil)
	assert.True(t, res.Restricted)
	assert.Equal(t, CodePatternBlock, res.Code)
	assert.Equal(t, "900", res.Match)
}

func TestCheckSafe(t *testing.T) {
	res := Check("(212) 867-0309", nil)
	assert.False(t, res.Restricted)
	assert.Empty(t, res.Code)
	assert.Empty(t, res.Reason)
}

func TestCheckEmptyPhone(t *testing.T) {
	assert.False(t, Check("", nil).Restricted)
	assert.False(t, Check("n/a", []string{""}).Restricted)
}
