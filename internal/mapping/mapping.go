// Package mapping matches spreadsheet headers to lead fields using a
// synonym table with exact, containment, and token-prefix fuzzy
// scoring, then builds leads from mapped rows.
package mapping

import (
	"regexp"
	"sort"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Field names a logical lead field a column can map to.
type Field string

const (
	FieldBusinessName Field = "businessName"
	FieldEmail        Field = "email"
	FieldRevenue      Field = "revenue"
	FieldPhone        Field = "phone"
	FieldState        Field = "state"
	FieldIndustry     Field = "industry"
	FieldContactName  Field = "contactName"
)

// fieldSynonyms is ordered so candidate selection is deterministic
// when two fields score the same against a header.
var fieldSynonyms = []struct {
	field    Field
	synonyms []string
}{
	{FieldBusinessName, []string{"company", "business", "name", "dba", "merchant", "legal name", "legal", "corp", "llc", "entity", "firm", "account", "organization", "org"}},
	{FieldEmail, []string{"email", "e-mail", "mail", "contact email", "email address", "owner email"}},
	{FieldRevenue, []string{"revenue", "rev", "sales", "volume", "vol", "monthly vol", "gross", "monthly", "annual", "income", "funded", "amount", "avg", "average", "mrr", "arr", "deposit"}},
	{FieldPhone, []string{"phone", "tel", "cell", "mobile", "fax", "number", "work phone", "contact phone", "ph"}},
	{FieldState, []string{"state", "st", "location", "region", "territory", "province", "area"}},
	{FieldIndustry, []string{"industry", "sic", "type", "sector", "vertical", "category", "business type", "niche"}},
	{FieldContactName, []string{"owner", "contact", "principal", "agent", "rep", "first name", "last name", "full name", "contact name", "manager", "person"}},
}

// Mapping records which field a column feeds and how confident the
// match was (0-100 scale, matches below 30 are discarded).
type Mapping struct {
	Field      Field   `json:"field"`
	Confidence float64 `json:"confidence"`
}

const minConfidence = 30

var tokenSplitRe = regexp.MustCompile(`[\s_\-.]+`)

var foldTransformer = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// normalizeHeader lowercases, trims, and folds accents so "Téléphone"
// scores against "telephone"-family synonyms.
func normalizeHeader(h string) string {
	s := strings.ToLower(strings.TrimSpace(h))
	if folded, _, err := transform.String(foldTransformer, s); err == nil {
		s = folded
	}
	return s
}

// scoreAgainst rates one normalized header against one synonym:
// exact 100, header-contains-synonym 80, synonym-contains-header 60,
// else a token-prefix overlap score in (30,70], or 0.
func scoreAgainst(header, syn string) float64 {
	if header == syn {
		return 100
	}
	if strings.Contains(header, syn) {
		return 80
	}
	if strings.Contains(syn, header) {
		return 60
	}
	ht := tokens(header)
	st := tokens(syn)
	if len(ht) == 0 || len(st) == 0 {
		return 0
	}
	overlap := 0
	for _, h := range ht {
		for _, s := range st {
			if strings.HasPrefix(h, s) || strings.HasPrefix(s, h) {
				overlap++
				break
			}
		}
	}
	if overlap == 0 {
		return 0
	}
	denom := len(ht)
	if len(st) > denom {
		denom = len(st)
	}
	return 30 + float64(overlap)/float64(denom)*40
}

func tokens(s string) []string {
	var out []string
	for _, t := range tokenSplitRe.Split(s, -1) {
		if t != "" {
			out = append(out, t)
		}
	}
	return out
}

// bestCandidate finds the highest-scoring field for one header.
func bestCandidate(header string) (Field, float64) {
	var bestField Field
	var best float64
	for _, fs := range fieldSynonyms {
		for _, syn := range fs.synonyms {
			if s := scoreAgainst(header, syn); s > best {
				best = s
				bestField = fs.field
			}
		}
	}
	return bestField, best
}

// AutoMap assigns each column at most one field. Columns are ranked
// by confidence and claimed greedily, so a stronger "Company" column
// beats a weaker "Account Name" column for businessName; matches
// under the confidence floor are dropped.
func AutoMap(headers []string) map[int]Mapping {
	type candidate struct {
		col   int
		field Field
		conf  float64
	}
	var cands []candidate
	for i, h := range headers {
		f, conf := bestCandidate(normalizeHeader(h))
		if conf >= minConfidence {
			cands = append(cands, candidate{col: i, field: f, conf: conf})
		}
	}
	sort.SliceStable(cands, func(i, j int) bool { return cands[i].conf > cands[j].conf })

	result := make(map[int]Mapping)
	taken := make(map[Field]bool)
	for _, c := range cands {
		if taken[c.field] {
			continue
		}
		taken[c.field] = true
		result[c.col] = Mapping{Field: c.field, Confidence: c.conf}
	}
	return result
}
