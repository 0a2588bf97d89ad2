package store

import (
	"context"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leadflow/leadflow-cli/internal/model"
	"github.com/leadflow/leadflow-cli/internal/scoring"
)

// newMockPostgresStore creates a PostgresStore backed by pgxmock for unit testing.
func newMockPostgresStore(t *testing.T) (*PostgresStore, pgxmock.PgxPoolIface) {
	t.Helper()
	mock, err := pgxmock.NewPool(pgxmock.QueryMatcherOption(pgxmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(func() { mock.Close() })

	s := &PostgresStore{pool: mock}
	return s, mock
}

func TestPostgresStore_CreateLead(t *testing.T) {
	s, mock := newMockPostgresStore(t)

	mock.ExpectExec(`INSERT INTO leads`).
		WithArgs(
			pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(),
			pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(),
			pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(),
			pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(),
		).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	lead := &model.Lead{
		BusinessName: "Acme Corp",
		Revenue:      250_000,
		Tier:         model.Tier101k500k,
		Temperature:  model.TempWarm,
		DNCStatus:    model.DNCSafe,
	}
	err := s.CreateLead(context.Background(), lead)
	require.NoError(t, err)
	assert.NotEmpty(t, lead.ID)
	assert.Equal(t, model.StageNew, lead.PipelineStage)
	assert.False(t, lead.CreatedAt.IsZero())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_BulkCreateLeads(t *testing.T) {
	s, mock := newMockPostgresStore(t)

	mock.ExpectCopyFrom(pgx.Identifier{"leads"}, leadCopyColumns).WillReturnResult(2)

	leads := []*model.Lead{
		{BusinessName: "Acme", Tier: model.Tier100kUnder, Temperature: model.TempCold, DNCStatus: model.DNCSafe},
		{BusinessName: "Beta", Tier: model.Tier500kPlus, Temperature: model.TempHot, DNCStatus: model.DNCSafe},
	}
	n, err := s.BulkCreateLeads(context.Background(), leads)
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.NotEmpty(t, leads[0].ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_BulkCreateLeads_Empty(t *testing.T) {
	s, _ := newMockPostgresStore(t)
	n, err := s.BulkCreateLeads(context.Background(), nil)
	assert.NoError(t, err)
	assert.Equal(t, 0, n)
}

func TestPostgresStore_UpdateLeadStage_NotFound(t *testing.T) {
	s, mock := newMockPostgresStore(t)

	mock.ExpectExec(`UPDATE leads SET pipeline_stage`).
		WithArgs("Closed", "missing-id").
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))

	err := s.UpdateLeadStage(context.Background(), "missing-id", model.StageClosed)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "lead not found")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_UpdateLeadScore(t *testing.T) {
	s, mock := newMockPostgresStore(t)

	c := scoring.Classify(250_000)
	mock.ExpectExec(`UPDATE leads SET score`).
		WithArgs(c.Score, string(c.Tier), string(c.Temperature), c.TemplateID, "lead-1").
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	err := s.UpdateLeadScore(context.Background(), "lead-1", c)
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_ListLeads(t *testing.T) {
	s, mock := newMockPostgresStore(t)

	mock.ExpectQuery(`SELECT count\(\*\) FROM leads WHERE temperature = \$1`).
		WithArgs("Hot").
		WillReturnRows(pgxmock.NewRows([]string{"count"}).AddRow(1))

	now := time.Now().UTC()
	mock.ExpectQuery(`SELECT .+ FROM leads WHERE temperature = \$1 ORDER BY created_at DESC LIMIT \$2 OFFSET \$3`).
		WithArgs("Hot", 50, 0).
		WillReturnRows(pgxmock.NewRows([]string{
			"id", "business_name", "contact_name", "email", "phone", "state", "industry",
			"revenue", "score", "tier", "temperature", "template_id",
			"dnc_status", "dnc_reason", "pipeline_stage", "created_at",
		}).AddRow(
			"lead-1", "Acme Corp", "Jo Smith", "a@acme.com", "(212) 867-0309", "NY", "Retail",
			int64(900_000), 85, "500k_Plus", "Hot", 3,
			"SAFE", "", "New", now,
		))

	page, err := s.ListLeads(context.Background(), ListOptions{Temperature: model.TempHot})
	require.NoError(t, err)
	assert.Equal(t, 1, page.Total)
	assert.Equal(t, 1, page.TotalPages)
	require.Len(t, page.Leads, 1)
	assert.Equal(t, "Acme Corp", page.Leads[0].BusinessName)
	assert.Equal(t, model.Tier500kPlus, page.Leads[0].Tier)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_GetLeadStats(t *testing.T) {
	s, mock := newMockPostgresStore(t)

	mock.ExpectQuery(`SELECT\s+count\(\*\),`).
		WillReturnRows(pgxmock.NewRows([]string{
			"total", "hot", "warm", "lukewarm", "cold", "avg_score", "total_revenue",
		}).AddRow(4, 1, 1, 1, 1, 52.5, int64(1_900_000)))

	stats, err := s.GetLeadStats(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 4, stats.Total)
	assert.Equal(t, 1, stats.Hot)
	assert.Equal(t, 52.5, stats.AvgScore)
	assert.Equal(t, int64(1_900_000), stats.TotalRevenue)
	assert.NoError(t, mock.ExpectationsWereMet())
}
