package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leadflow/leadflow-cli/internal/model"
	"github.com/leadflow/leadflow-cli/internal/scoring"
)

func newTestSQLiteStore(t *testing.T) *SQLiteStore {
	t.Helper()
	s, err := NewSQLite(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	require.NoError(t, s.Migrate(context.Background()))
	return s
}

func makeLead(name string, revenue int64) *model.Lead {
	lead := &model.Lead{
		BusinessName: name,
		Revenue:      revenue,
		DNCStatus:    model.DNCSafe,
	}
	scoring.Apply(lead, scoring.Classify(revenue))
	return lead
}

func TestSQLiteStore_CreateAndList(t *testing.T) {
	s := newTestSQLiteStore(t)
	ctx := context.Background()

	require.NoError(t, s.CreateLead(ctx, makeLead("Acme Corp", 900_000)))
	require.NoError(t, s.CreateLead(ctx, makeLead("Beta LLC", 50_000)))

	page, err := s.ListLeads(ctx, ListOptions{})
	require.NoError(t, err)
	assert.Equal(t, 2, page.Total)
	assert.Equal(t, 1, page.TotalPages)
	assert.Len(t, page.Leads, 2)
}

func TestSQLiteStore_ListFilters(t *testing.T) {
	s := newTestSQLiteStore(t)
	ctx := context.Background()

	require.NoError(t, s.CreateLead(ctx, makeLead("Acme Corp", 900_000)))  // Hot
	require.NoError(t, s.CreateLead(ctx, makeLead("Beta LLC", 50_000)))   // Lukewarm
	require.NoError(t, s.CreateLead(ctx, makeLead("Gamma Inc", 250_000))) // Warm

	hot, err := s.ListLeads(ctx, ListOptions{Temperature: model.TempHot})
	require.NoError(t, err)
	require.Len(t, hot.Leads, 1)
	assert.Equal(t, "Acme Corp", hot.Leads[0].BusinessName)

	search, err := s.ListLeads(ctx, ListOptions{Search: "beta"})
	require.NoError(t, err)
	require.Len(t, search.Leads, 1)
	assert.Equal(t, "Beta LLC", search.Leads[0].BusinessName)

	tier, err := s.ListLeads(ctx, ListOptions{Tier: model.Tier101k500k})
	require.NoError(t, err)
	require.Len(t, tier.Leads, 1)
	assert.Equal(t, "Gamma Inc", tier.Leads[0].BusinessName)
}

func TestSQLiteStore_Pagination(t *testing.T) {
	s := newTestSQLiteStore(t)
	ctx := context.Background()

	var leads []*model.Lead
	for i := 0; i < 7; i++ {
		leads = append(leads, makeLead("Biz", 10_000))
	}
	n, err := s.BulkCreateLeads(ctx, leads)
	require.NoError(t, err)
	assert.Equal(t, 7, n)

	page, err := s.ListLeads(ctx, ListOptions{Page: 2, PageSize: 3})
	require.NoError(t, err)
	assert.Equal(t, 7, page.Total)
	assert.Equal(t, 3, page.TotalPages)
	assert.Len(t, page.Leads, 3)

	last, err := s.ListLeads(ctx, ListOptions{Page: 3, PageSize: 3})
	require.NoError(t, err)
	assert.Len(t, last.Leads, 1)
}

func TestSQLiteStore_UpdateLeadStage(t *testing.T) {
	s := newTestSQLiteStore(t)
	ctx := context.Background()

	lead := makeLead("Acme", 250_000)
	require.NoError(t, s.CreateLead(ctx, lead))

	require.NoError(t, s.UpdateLeadStage(ctx, lead.ID, model.StageProposal))

	page, err := s.ListLeads(ctx, ListOptions{})
	require.NoError(t, err)
	assert.Equal(t, model.StageProposal, page.Leads[0].PipelineStage)

	err = s.UpdateLeadStage(ctx, "missing-id", model.StageClosed)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "lead not found")
}

func TestSQLiteStore_UpdateLeadScore(t *testing.T) {
	s := newTestSQLiteStore(t)
	ctx := context.Background()

	lead := makeLead("Acme", 50_000)
	require.NoError(t, s.CreateLead(ctx, lead))

	require.NoError(t, s.UpdateLeadScore(ctx, lead.ID, scoring.Classify(900_000)))

	page, err := s.ListLeads(ctx, ListOptions{})
	require.NoError(t, err)
	got := page.Leads[0]
	assert.Equal(t, model.Tier500kPlus, got.Tier)
	assert.Equal(t, model.TempHot, got.Temperature)
	assert.Equal(t, 3, got.TemplateID)
}

func TestSQLiteStore_ListForRescore(t *testing.T) {
	s := newTestSQLiteStore(t)
	ctx := context.Background()

	require.NoError(t, s.CreateLead(ctx, makeLead("A", 10_000)))
	require.NoError(t, s.CreateLead(ctx, makeLead("B", 20_000)))

	leads, err := s.ListForRescore(ctx)
	require.NoError(t, err)
	assert.Len(t, leads, 2)
}

func TestSQLiteStore_GetLeadStats(t *testing.T) {
	s := newTestSQLiteStore(t)
	ctx := context.Background()

	require.NoError(t, s.CreateLead(ctx, makeLead("A", 900_000))) // Hot
	require.NoError(t, s.CreateLead(ctx, makeLead("B", 250_000)))
	require.NoError(t, s.CreateLead(ctx, makeLead("C", 0))) // Cold

	stats, err := s.GetLeadStats(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, stats.Total)
	assert.Equal(t, 1, stats.Hot)
	assert.Equal(t, 1, stats.Cold)
	assert.Equal(t, int64(1_150_000), stats.TotalRevenue)
	assert.Greater(t, stats.AvgScore, float64(0))
}

func TestSQLiteStore_OptionalFieldsRoundTrip(t *testing.T) {
	s := newTestSQLiteStore(t)
	ctx := context.Background()

	lead := makeLead("Acme", 100_000)
	lead.Email = "ops@acme.com"
	require.NoError(t, s.CreateLead(ctx, lead))

	page, err := s.ListLeads(ctx, ListOptions{})
	require.NoError(t, err)
	got := page.Leads[0]
	assert.Equal(t, "ops@acme.com", got.Email)
	assert.Empty(t, got.Phone)
	assert.Empty(t, got.ContactName)
}
