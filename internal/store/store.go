// Package store persists leads. Two backends implement the same
// interface: Postgres via pgxpool for shared deployments and SQLite
// for single-user local use.
package store

import (
	"context"

	"github.com/leadflow/leadflow-cli/internal/model"
	"github.com/leadflow/leadflow-cli/internal/scoring"
)

const (
	// DefaultPageSize is applied when a caller asks for page size 0.
	DefaultPageSize = 50
	// MaxPageSize caps what a caller may request.
	MaxPageSize = 200
	// BulkChunkSize is how many leads go into one bulk insert.
	BulkChunkSize = 500
)

// ListOptions selects and pages leads.
type ListOptions struct {
	Page        int               `json:"page"`
	PageSize    int               `json:"page_size"`
	Temperature model.Temperature `json:"temperature,omitempty"`
	Tier        model.Tier        `json:"tier,omitempty"`
	Stage       model.PipelineStage `json:"stage,omitempty"`
	// Search matches business names case-insensitively.
	Search string `json:"search,omitempty"`
}

// Normalize clamps paging values into range.
func (o *ListOptions) Normalize() {
	if o.Page < 1 {
		o.Page = 1
	}
	if o.PageSize <= 0 {
		o.PageSize = DefaultPageSize
	}
	if o.PageSize > MaxPageSize {
		o.PageSize = MaxPageSize
	}
}

// LeadPage is one page of results plus totals.
type LeadPage struct {
	Leads      []*model.Lead `json:"leads"`
	Total      int           `json:"total"`
	TotalPages int           `json:"total_pages"`
}

// Store defines the persistence interface for leads.
type Store interface {
	CreateLead(ctx context.Context, lead *model.Lead) error
	BulkCreateLeads(ctx context.Context, leads []*model.Lead) (int, error)
	ListLeads(ctx context.Context, opts ListOptions) (*LeadPage, error)
	UpdateLeadStage(ctx context.Context, id string, stage model.PipelineStage) error
	UpdateLeadScore(ctx context.Context, id string, c scoring.Classification) error
	ListForRescore(ctx context.Context) ([]*model.Lead, error)
	GetLeadStats(ctx context.Context) (*model.LeadStats, error)

	Migrate(ctx context.Context) error
	Ping(ctx context.Context) error
	Close() error
}

func totalPages(total, pageSize int) int {
	if total == 0 {
		return 0
	}
	return (total + pageSize - 1) / pageSize
}
