package ingest

import (
	"context"
	"regexp"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/leadflow/leadflow-cli/internal/model"
	"github.com/leadflow/leadflow-cli/internal/tabular"
)

// Fixed column layout of the intake sheet. The sheet is produced by a
// form, so positions are stable and headers are ignored.
const (
	colPhone     = 0
	colFirstName = 1
	colLastName  = 2
	colCompany   = 3
	colEmail     = 4
	colState     = 8
	colMonthlyK  = 11 // monthly revenue in thousands
	colPurpose   = 13
)

var emailRe = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// SyncSheets pulls the intake sheet, maps its fixed columns to leads,
// and bulk-inserts them. Fetch failures come back inside the result
// rather than as an error so callers can report partial state.
func (p *Pipeline) SyncSheets(ctx context.Context) model.SyncResult {
	now := time.Now().UTC()

	body, err := p.sheets.Fetch(ctx, p.opts.SheetID, p.opts.SheetName)
	if err != nil {
		return model.SyncResult{Success: false, Error: err.Error(), SyncedAt: now}
	}

	rows := tabular.Parse(string(body))
	if len(rows) < 2 {
		return model.SyncResult{Success: false, Error: "sheet has no data rows", SyncedAt: now}
	}

	totalRows := len(rows) - 1
	data := rows[1:]
	if len(data) > p.opts.MaxRows {
		data = data[:p.opts.MaxRows]
	}

	// Skipped counts rejected rows and duplicates, not rows dropped
	// by the MaxRows cap.
	var leads []*model.Lead
	skipped := 0
	for _, row := range data {
		lead, ok := p.mapSheetRow(row)
		if !ok {
			skipped++
			continue
		}
		p.finalize(lead)
		leads = append(leads, lead)
	}

	leads, dupes, nameless := dedupeLeads(leads)
	skipped += dupes + nameless

	imported, err := p.insertChunked(ctx, leads)
	if err != nil {
		return model.SyncResult{
			Success:   false,
			TotalRows: totalRows,
			Imported:  imported,
			Skipped:   skipped,
			Error:     err.Error(),
			SyncedAt:  now,
		}
	}

	zap.L().Info("ingest: sheet sync complete",
		zap.String("sheet_id", p.opts.SheetID),
		zap.Int("total_rows", totalRows),
		zap.Int("imported", imported),
		zap.Int("duplicates", dupes),
		zap.Int("skipped", skipped))

	return model.SyncResult{
		Success:   true,
		TotalRows: totalRows,
		Imported:  imported,
		Skipped:   skipped,
		SyncedAt:  now,
	}
}

// mapSheetRow converts one sheet row to a lead. Rows without a
// company name are skipped.
func (p *Pipeline) mapSheetRow(row []string) (*model.Lead, bool) {
	company := strings.TrimSpace(cell(row, colCompany))
	if company == "" {
		return nil, false
	}

	email := strings.TrimSpace(cell(row, colEmail))
	if !emailRe.MatchString(email) {
		email = ""
	}

	contact := strings.TrimSpace(strings.TrimSpace(cell(row, colFirstName)) + " " + strings.TrimSpace(cell(row, colLastName)))

	return &model.Lead{
		BusinessName: company,
		ContactName:  contact,
		Email:        email,
		Phone:        FormatPhone(cell(row, colPhone)),
		State:        strings.TrimSpace(cell(row, colState)),
		Industry:     IndustryForPurpose(cell(row, colPurpose)),
		Revenue:      sheetRevenue(cell(row, colMonthlyK)),
	}, true
}

func cell(row []string, i int) string {
	if i < len(row) {
		return row[i]
	}
	return ""
}

// sheetRevenue converts the sheet's "monthly revenue in thousands"
// column to annual USD: 20 means $20k/month, so $240k/year.
func sheetRevenue(raw string) int64 {
	var b strings.Builder
	for _, r := range raw {
		if (r >= '0' && r <= '9') || r == '.' {
			b.WriteRune(r)
		}
	}
	v, err := strconv.ParseFloat(b.String(), 64)
	if err != nil || v < 0 {
		return 0
	}
	return int64(v * 1000 * 12)
}

// FormatPhone renders US numbers as (XXX) XXX-XXXX. Anything that is
// not 10 digits, or 11 with a leading 1, passes through unchanged.
func FormatPhone(raw string) string {
	var digits strings.Builder
	for _, r := range raw {
		if r >= '0' && r <= '9' {
			digits.WriteRune(r)
		}
	}
	d := digits.String()
	if len(d) == 11 && d[0] == '1' {
		d = d[1:]
	}
	if len(d) != 10 {
		return strings.TrimSpace(raw)
	}
	return "(" + d[:3] + ") " + d[3:6] + "-" + d[6:]
}

// purposeIndustries maps loan-purpose keywords to industries, first
// hit wins.
var purposeIndustries = []struct {
	keywords []string
	industry string
}{
	{[]string{"truck", "transport", "fleet"}, "Transportation"},
	{[]string{"construct", "build"}, "Construction"},
	{[]string{"restaurant", "food"}, "Food & Beverage"},
	{[]string{"retail", "store"}, "Retail"},
	{[]string{"medical", "health", "dental"}, "Healthcare"},
	{[]string{"tech", "software", "it"}, "Technology"},
	{[]string{"real estate", "property"}, "Real Estate"},
	{[]string{"work", "capital", "cash"}, "Working Capital"},
	{[]string{"equip", "machine"}, "Equipment"},
	{[]string{"expan", "grow"}, "Expansion"},
}

// IndustryForPurpose guesses an industry from the free-text loan
// purpose. Unknown purposes land in General.
func IndustryForPurpose(purpose string) string {
	p := strings.ToLower(purpose)
	for _, entry := range purposeIndustries {
		for _, kw := range entry.keywords {
			if strings.Contains(p, kw) {
				return entry.industry
			}
		}
	}
	return "General"
}
