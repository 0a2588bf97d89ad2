package model

import "time"

// Tier buckets a lead by annual revenue. Boundaries are strict
// greater-than: exactly $100k is still Tier100kUnder and exactly
// $500k is still Tier101k500k.
type Tier string

const (
	Tier100kUnder Tier = "100k_Under"
	Tier101k500k  Tier = "101k_500k"
	Tier500kPlus  Tier = "500k_Plus"
)

// Temperature is the outreach priority band, derived from the score.
type Temperature string

const (
	TempHot      Temperature = "Hot"
	TempWarm     Temperature = "Warm"
	TempLukewarm Temperature = "Lukewarm"
	TempCold     Temperature = "Cold"
)

// PipelineStage tracks where a lead sits in the sales funnel.
type PipelineStage string

const (
	StageNew         PipelineStage = "New"
	StageEngagement  PipelineStage = "Engagement"
	StageProposal    PipelineStage = "Proposal"
	StageNegotiation PipelineStage = "Negotiation"
	StageClosed      PipelineStage = "Closed"
)

// ValidStage reports whether s is one of the known pipeline stages.
func ValidStage(s PipelineStage) bool {
	switch s {
	case StageNew, StageEngagement, StageProposal, StageNegotiation, StageClosed:
		return true
	}
	return false
}

// DNCStatus is the outcome of a do-not-call compliance check.
type DNCStatus string

const (
	DNCSafe       DNCStatus = "SAFE"
	DNCRestricted DNCStatus = "RESTRICTED"
)

// Quality grades how much of an imported record was actually present.
type Quality string

const (
	QualityComplete Quality = "complete"
	QualityPartial  Quality = "partial"
	QualityMinimal  Quality = "minimal"
)

// Lead is the core record. Optional fields that are unknown hold the
// empty string; legacy placeholder values ("unknown", fake emails and
// phone numbers) are cleaned at the ingestion boundary and never
// stored.
type Lead struct {
	ID            string        `json:"id"`
	BusinessName  string        `json:"business_name"`
	ContactName   string        `json:"contact_name,omitempty"`
	Email         string        `json:"email,omitempty"`
	Phone         string        `json:"phone,omitempty"`
	State         string        `json:"state,omitempty"`
	Industry      string        `json:"industry,omitempty"`
	Revenue       int64         `json:"revenue"` // annual USD
	Score         int           `json:"score"`
	Tier          Tier          `json:"tier"`
	Temperature   Temperature   `json:"temperature"`
	TemplateID    int           `json:"template_id"`
	DNCStatus     DNCStatus     `json:"dnc_status"`
	DNCReason     string        `json:"dnc_reason,omitempty"`
	PipelineStage PipelineStage `json:"pipeline_stage"`
	CreatedAt     time.Time     `json:"created_at"`
}

// SyncResult summarizes one Google Sheets sync pass.
type SyncResult struct {
	Success   bool      `json:"success"`
	TotalRows int       `json:"total_rows"`
	Imported  int       `json:"imported"`
	Skipped   int       `json:"skipped"`
	Error     string    `json:"error,omitempty"`
	SyncedAt  time.Time `json:"synced_at"`
}

// ImportResult summarizes a smart-import pass.
type ImportResult struct {
	Imported   int      `json:"imported"`
	Duplicates int      `json:"duplicates"`
	Skipped    int      `json:"skipped"`
	Warnings   []string `json:"warnings,omitempty"`
}

// LeadStats are the aggregate counters shown on the dashboard.
type LeadStats struct {
	Total        int     `json:"total"`
	Hot          int     `json:"hot"`
	Warm         int     `json:"warm"`
	Lukewarm     int     `json:"lukewarm"`
	Cold         int     `json:"cold"`
	AvgScore     float64 `json:"avg_score"`
	TotalRevenue int64   `json:"total_revenue"`
}
