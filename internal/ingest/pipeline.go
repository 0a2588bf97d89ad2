// Package ingest orchestrates the three ways leads enter the system:
// single adds, Google Sheets sync, and smart import of pasted text.
// Every path funnels through the same classify-and-screen step before
// anything is stored.
package ingest

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/leadflow/leadflow-cli/internal/compliance"
	"github.com/leadflow/leadflow-cli/internal/extract"
	"github.com/leadflow/leadflow-cli/internal/mapping"
	"github.com/leadflow/leadflow-cli/internal/model"
	"github.com/leadflow/leadflow-cli/internal/scoring"
	"github.com/leadflow/leadflow-cli/internal/sheets"
	"github.com/leadflow/leadflow-cli/internal/store"
)

// Options tunes a Pipeline.
type Options struct {
	SheetID         string
	SheetName       string
	MaxRows         int
	ChunkSize       int
	CustomBlocklist []string
}

// Pipeline wires the ingestion collaborators together.
type Pipeline struct {
	store     store.Store
	extractor *extract.Extractor
	sheets    *sheets.Client
	opts      Options
}

// New builds a Pipeline. A nil extractor gets an offline one; a nil
// sheetClient is allowed when the sheet path is unused.
func New(st store.Store, extractor *extract.Extractor, sheetClient *sheets.Client, opts Options) *Pipeline {
	if extractor == nil {
		extractor = extract.New(nil, nil)
	}
	if opts.MaxRows <= 0 {
		opts.MaxRows = 500
	}
	if opts.ChunkSize <= 0 {
		opts.ChunkSize = store.BulkChunkSize
	}
	if opts.SheetID == "" {
		opts.SheetID = sheets.DefaultSheetID
	}
	if opts.SheetName == "" {
		opts.SheetName = sheets.DefaultSheetName
	}
	return &Pipeline{store: st, extractor: extractor, sheets: sheetClient, opts: opts}
}

// finalize cleans placeholders, classifies, and screens one lead. It
// is the single gate in front of the store.
func (p *Pipeline) finalize(lead *model.Lead) {
	lead.BusinessName = mapping.CleanValue(lead.BusinessName)
	lead.ContactName = mapping.CleanValue(lead.ContactName)
	lead.Email = mapping.CleanValue(lead.Email)
	lead.Phone = mapping.CleanValue(lead.Phone)
	lead.State = mapping.CleanValue(lead.State)
	lead.Industry = mapping.CleanValue(lead.Industry)

	scoring.Apply(lead, scoring.Classify(lead.Revenue))

	res := compliance.Check(lead.Phone, p.opts.CustomBlocklist)
	if res.Restricted {
		lead.DNCStatus = model.DNCRestricted
		lead.DNCReason = res.Reason
	} else {
		lead.DNCStatus = model.DNCSafe
		lead.DNCReason = ""
	}
	if lead.PipelineStage == "" {
		lead.PipelineStage = model.StageNew
	}
}

// CreateLead finalizes and stores a single lead.
func (p *Pipeline) CreateLead(ctx context.Context, lead *model.Lead) error {
	p.finalize(lead)
	return p.store.CreateLead(ctx, lead)
}

// Assess produces a preliminary scoring narrative for one lead, model
// backed when a client is configured and heuristic otherwise.
func (p *Pipeline) Assess(ctx context.Context, lead model.Lead) extract.Draft {
	return p.extractor.DraftScore(ctx, lead)
}

// insertChunked bulk-inserts leads in fixed-size chunks, logging
// cumulative progress.
func (p *Pipeline) insertChunked(ctx context.Context, leads []*model.Lead) (int, error) {
	inserted := 0
	for start := 0; start < len(leads); start += p.opts.ChunkSize {
		end := start + p.opts.ChunkSize
		if end > len(leads) {
			end = len(leads)
		}
		n, err := p.store.BulkCreateLeads(ctx, leads[start:end])
		inserted += n
		if err != nil {
			return inserted, err
		}
		zap.L().Info("ingest: inserted chunk",
			zap.Int("chunk", n),
			zap.Int("total", inserted),
			zap.Int("of", len(leads)))
	}
	return inserted, nil
}

// Rescore recomputes score, tier, and temperature for every stored
// lead from its persisted revenue and writes back the ones that
// changed. Returns how many were updated.
func (p *Pipeline) Rescore(ctx context.Context) (int, error) {
	leads, err := p.store.ListForRescore(ctx)
	if err != nil {
		return 0, err
	}
	updated := 0
	for _, lead := range leads {
		c := scoring.Classify(lead.Revenue)
		if c.Score == lead.Score && c.Tier == lead.Tier &&
			c.Temperature == lead.Temperature && c.TemplateID == lead.TemplateID {
			continue
		}
		if err := p.store.UpdateLeadScore(ctx, lead.ID, c); err != nil {
			return updated, err
		}
		updated++
	}
	zap.L().Info("ingest: rescore complete",
		zap.Int("leads", len(leads)),
		zap.Int("updated", updated))
	return updated, nil
}

// dedupeLeads drops case-insensitive business-name duplicates, keeping
// the first occurrence. Records with no usable name are dropped too;
// the second return value counts duplicates, the third the nameless.
func dedupeLeads(leads []*model.Lead) ([]*model.Lead, int, int) {
	seen := make(map[string]bool, len(leads))
	var kept []*model.Lead
	dupes, nameless := 0, 0
	for _, lead := range leads {
		key := strings.ToLower(mapping.CleanValue(lead.BusinessName))
		if key == "" {
			nameless++
			continue
		}
		if seen[key] {
			dupes++
			continue
		}
		seen[key] = true
		kept = append(kept, lead)
	}
	return kept, dupes, nameless
}
