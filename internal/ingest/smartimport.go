package ingest

import (
	"context"
	"fmt"
	"strings"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/leadflow/leadflow-cli/internal/mapping"
	"github.com/leadflow/leadflow-cli/internal/model"
	"github.com/leadflow/leadflow-cli/internal/tabular"
)

// detectStructured decides whether pasted text is tabular: the first
// line must split into at least 3 columns and at least 60% of the
// next up-to-9 lines must have a column count within one of it.
func detectStructured(raw string) bool {
	var lines []string
	for _, l := range strings.Split(strings.ReplaceAll(raw, "\r\n", "\n"), "\n") {
		if strings.TrimSpace(l) != "" {
			lines = append(lines, l)
		}
	}
	if len(lines) == 0 {
		return false
	}
	delim := tabular.Detect(lines[0])
	headerCols := len(tabular.ParseLine(lines[0], delim))
	if headerCols < 3 {
		return false
	}

	sample := lines[1:]
	if len(sample) > 9 {
		sample = sample[:9]
	}
	if len(sample) == 0 {
		return true
	}
	within := 0
	for _, l := range sample {
		cols := len(tabular.ParseLine(l, delim))
		if cols >= headerCols-1 && cols <= headerCols+1 {
			within++
		}
	}
	return float64(within) >= 0.6*float64(len(sample))
}

// SmartImport ingests arbitrary pasted text. Model extraction is
// preferred whenever a client is configured; structured text falls
// back to header mapping when extraction is unavailable or comes back
// empty. Unstructured text cannot be imported offline.
func (p *Pipeline) SmartImport(ctx context.Context, raw string) (model.ImportResult, error) {
	if strings.TrimSpace(raw) == "" {
		return model.ImportResult{}, eris.New("ingest: empty input")
	}

	structured := detectStructured(raw)
	var leads []*model.Lead
	skipped := 0
	var warnings []string

	if p.extractor != nil && p.extractor.Enabled() {
		extracted, err := p.extractor.ExtractLeads(ctx, raw)
		switch {
		case err != nil && !structured:
			return model.ImportResult{}, eris.Wrap(err, "ingest: extraction failed on unstructured input")
		case err != nil:
			zap.L().Warn("ingest: extraction failed, falling back to table parsing", zap.Error(err))
		default:
			for _, e := range extracted {
				leads = append(leads, &model.Lead{
					BusinessName: e.BusinessName,
					ContactName:  e.ContactName,
					Email:        e.Email,
					Phone:        e.Phone,
					State:        e.State,
					Industry:     e.Industry,
					Revenue:      e.Revenue,
				})
			}
		}
	}

	if len(leads) == 0 {
		if !structured {
			return model.ImportResult{}, eris.New("ingest: unstructured input requires a configured model API key")
		}
		rows := tabular.Parse(raw)
		if len(rows) < 2 {
			return model.ImportResult{}, eris.New("ingest: no data rows found")
		}
		colMap := mapping.AutoMap(rows[0])
		if len(colMap) == 0 {
			return model.ImportResult{}, eris.New("ingest: no columns could be mapped to lead fields")
		}
		for _, row := range rows[1:] {
			lead, _ := mapping.Build(row, colMap)
			leads = append(leads, &lead)
		}
	}

	leads, dupes, nameless := dedupeLeads(leads)
	skipped += nameless
	if dupes > 0 {
		warnings = append(warnings, fmt.Sprintf("%d duplicate leads removed", dupes))
	}

	minimal := 0
	for _, lead := range leads {
		p.finalize(lead)
		if mapping.AssessQuality(*lead) == model.QualityMinimal {
			minimal++
		}
	}
	if minimal > 0 {
		warnings = append(warnings, fmt.Sprintf("%d leads have minimal data quality", minimal))
	}

	imported, err := p.insertChunked(ctx, leads)
	if err != nil {
		return model.ImportResult{Imported: imported, Duplicates: dupes, Skipped: skipped, Warnings: warnings}, err
	}

	zap.L().Info("ingest: smart import complete",
		zap.Bool("structured", structured),
		zap.Int("imported", imported),
		zap.Int("duplicates", dupes),
		zap.Int("skipped", skipped))

	return model.ImportResult{
		Imported:   imported,
		Duplicates: dupes,
		Skipped:    skipped,
		Warnings:   warnings,
	}, nil
}
