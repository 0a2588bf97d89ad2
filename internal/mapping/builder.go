package mapping

import (
	"strings"

	"github.com/leadflow/leadflow-cli/internal/model"
	"github.com/leadflow/leadflow-cli/internal/revenue"
)

// Legacy placeholder values that older exports used for missing data.
// They are treated as absent, never stored.
var sentinels = map[string]bool{
	"unknown":               true,
	"no-email@provided.com": true,
	"555-000-0000":          true,
}

// CleanValue trims a cell and blanks legacy placeholders.
func CleanValue(v string) string {
	v = strings.TrimSpace(v)
	if sentinels[strings.ToLower(v)] {
		return ""
	}
	return v
}

// Build fills a lead from one row using a column mapping. The second
// return value lists the logical fields that ended up unset, either
// because no column mapped to them or because the cell was empty.
func Build(row []string, m map[int]Mapping) (model.Lead, []string) {
	values := make(map[Field]string)
	for col, mp := range m {
		if col >= len(row) {
			continue
		}
		if v := CleanValue(row[col]); v != "" {
			values[mp.Field] = v
		}
	}

	lead := model.Lead{
		BusinessName: values[FieldBusinessName],
		ContactName:  values[FieldContactName],
		Email:        values[FieldEmail],
		Phone:        values[FieldPhone],
		State:        values[FieldState],
		Industry:     values[FieldIndustry],
		Revenue:      revenue.Normalize(values[FieldRevenue]),
	}

	var unset []string
	for _, f := range []Field{FieldBusinessName, FieldEmail, FieldRevenue, FieldPhone, FieldState, FieldIndustry, FieldContactName} {
		if values[f] == "" {
			unset = append(unset, string(f))
		}
	}
	return lead, unset
}

// AssessQuality grades a lead on how much contactable data survived
// cleanup: complete needs name, email, phone, and positive revenue;
// partial needs name plus one contact channel.
func AssessQuality(lead model.Lead) model.Quality {
	name := CleanValue(lead.BusinessName) != ""
	email := CleanValue(lead.Email) != ""
	phone := CleanValue(lead.Phone) != ""
	switch {
	case name && email && phone && lead.Revenue > 0:
		return model.QualityComplete
	case name && (email || phone):
		return model.QualityPartial
	default:
		return model.QualityMinimal
	}
}
