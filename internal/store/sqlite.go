package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	_ "modernc.org/sqlite"

	"github.com/leadflow/leadflow-cli/internal/model"
	"github.com/leadflow/leadflow-cli/internal/scoring"
)

// SQLiteStore implements Store using modernc.org/sqlite.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLite opens a SQLite database at the given path and configures WAL mode.
func NewSQLite(dsn string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: open")
	}
	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA synchronous=NORMAL",
	} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, eris.Wrapf(err, "sqlite: exec %s", pragma)
		}
	}
	return &SQLiteStore{db: db}, nil
}

const sqliteMigration = `
CREATE TABLE IF NOT EXISTS leads (
	id             TEXT PRIMARY KEY,
	business_name  TEXT NOT NULL,
	contact_name   TEXT,
	email          TEXT,
	phone          TEXT,
	state          TEXT,
	industry       TEXT,
	revenue        INTEGER NOT NULL DEFAULT 0,
	score          INTEGER NOT NULL DEFAULT 0,
	tier           TEXT NOT NULL,
	temperature    TEXT NOT NULL,
	template_id    INTEGER NOT NULL DEFAULT 1,
	dnc_status     TEXT NOT NULL DEFAULT 'SAFE',
	dnc_reason     TEXT,
	pipeline_stage TEXT NOT NULL DEFAULT 'New',
	created_at     TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_leads_temperature ON leads(temperature);
CREATE INDEX IF NOT EXISTS idx_leads_tier ON leads(tier);
CREATE INDEX IF NOT EXISTS idx_leads_stage ON leads(pipeline_stage);
CREATE INDEX IF NOT EXISTS idx_leads_created_at ON leads(created_at DESC);
`

func (s *SQLiteStore) Migrate(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, sqliteMigration)
	return eris.Wrap(err, "sqlite: migrate")
}

func (s *SQLiteStore) Ping(ctx context.Context) error {
	return eris.Wrap(s.db.PingContext(ctx), "sqlite: ping")
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

const sqliteLeadColumns = `id, business_name, COALESCE(contact_name, ''), COALESCE(email, ''), COALESCE(phone, ''), COALESCE(state, ''), COALESCE(industry, ''), revenue, score, tier, temperature, template_id, dnc_status, COALESCE(dnc_reason, ''), pipeline_stage, created_at`

const sqliteInsertLead = `INSERT INTO leads (id, business_name, contact_name, email, phone, state, industry, revenue, score, tier, temperature, template_id, dnc_status, dnc_reason, pipeline_stage, created_at) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

func leadArgs(lead *model.Lead) []any {
	return []any{
		lead.ID, lead.BusinessName, nullable(lead.ContactName), nullable(lead.Email), nullable(lead.Phone), nullable(lead.State), nullable(lead.Industry),
		lead.Revenue, lead.Score, string(lead.Tier), string(lead.Temperature), lead.TemplateID,
		string(lead.DNCStatus), nullable(lead.DNCReason), string(lead.PipelineStage),
		lead.CreatedAt.UTC().Format(time.RFC3339Nano),
	}
}

func prepareLead(lead *model.Lead, now time.Time) {
	if lead.ID == "" {
		lead.ID = uuid.New().String()
	}
	if lead.CreatedAt.IsZero() {
		lead.CreatedAt = now
	}
	if lead.PipelineStage == "" {
		lead.PipelineStage = model.StageNew
	}
}

func (s *SQLiteStore) CreateLead(ctx context.Context, lead *model.Lead) error {
	prepareLead(lead, time.Now().UTC())
	_, err := s.db.ExecContext(ctx, sqliteInsertLead, leadArgs(lead)...)
	return eris.Wrap(err, "sqlite: insert lead")
}

func (s *SQLiteStore) BulkCreateLeads(ctx context.Context, leads []*model.Lead) (int, error) {
	if len(leads) == 0 {
		return 0, nil
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, eris.Wrap(err, "sqlite: begin bulk insert")
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, sqliteInsertLead)
	if err != nil {
		return 0, eris.Wrap(err, "sqlite: prepare bulk insert")
	}
	defer stmt.Close()

	now := time.Now().UTC()
	for _, lead := range leads {
		prepareLead(lead, now)
		if _, err := stmt.ExecContext(ctx, leadArgs(lead)...); err != nil {
			return 0, eris.Wrapf(err, "sqlite: bulk insert lead %s", lead.ID)
		}
	}
	if err := tx.Commit(); err != nil {
		return 0, eris.Wrap(err, "sqlite: commit bulk insert")
	}
	return len(leads), nil
}

func (s *SQLiteStore) ListLeads(ctx context.Context, opts ListOptions) (*LeadPage, error) {
	opts.Normalize()

	var conds []string
	var args []any
	if opts.Temperature != "" {
		conds = append(conds, "temperature = ?")
		args = append(args, string(opts.Temperature))
	}
	if opts.Tier != "" {
		conds = append(conds, "tier = ?")
		args = append(args, string(opts.Tier))
	}
	if opts.Stage != "" {
		conds = append(conds, "pipeline_stage = ?")
		args = append(args, string(opts.Stage))
	}
	if opts.Search != "" {
		conds = append(conds, "lower(business_name) LIKE ?")
		args = append(args, "%"+strings.ToLower(opts.Search)+"%")
	}
	where := ""
	if len(conds) > 0 {
		where = " WHERE " + strings.Join(conds, " AND ")
	}

	var total int
	if err := s.db.QueryRowContext(ctx, "SELECT count(*) FROM leads"+where, args...).Scan(&total); err != nil {
		return nil, eris.Wrap(err, "sqlite: count leads")
	}

	query := fmt.Sprintf("SELECT %s FROM leads%s ORDER BY created_at DESC LIMIT ? OFFSET ?", sqliteLeadColumns, where)
	args = append(args, opts.PageSize, (opts.Page-1)*opts.PageSize)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: list leads")
	}
	defer rows.Close()

	var leads []*model.Lead
	for rows.Next() {
		lead, err := scanSQLiteLead(rows)
		if err != nil {
			return nil, err
		}
		leads = append(leads, lead)
	}
	if err := rows.Err(); err != nil {
		return nil, eris.Wrap(err, "sqlite: iterate leads")
	}

	return &LeadPage{
		Leads:      leads,
		Total:      total,
		TotalPages: totalPages(total, opts.PageSize),
	}, nil
}

func (s *SQLiteStore) UpdateLeadStage(ctx context.Context, id string, stage model.PipelineStage) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE leads SET pipeline_stage = ? WHERE id = ?`, string(stage), id)
	if err != nil {
		return eris.Wrapf(err, "sqlite: update lead stage %s", id)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return eris.Errorf("lead not found: %s", id)
	}
	return nil
}

func (s *SQLiteStore) UpdateLeadScore(ctx context.Context, id string, c scoring.Classification) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE leads SET score = ?, tier = ?, temperature = ?, template_id = ? WHERE id = ?`,
		c.Score, string(c.Tier), string(c.Temperature), c.TemplateID, id)
	if err != nil {
		return eris.Wrapf(err, "sqlite: update lead score %s", id)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return eris.Errorf("lead not found: %s", id)
	}
	return nil
}

func (s *SQLiteStore) ListForRescore(ctx context.Context) ([]*model.Lead, error) {
	rows, err := s.db.QueryContext(ctx,
		fmt.Sprintf("SELECT %s FROM leads ORDER BY created_at", sqliteLeadColumns))
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: list for rescore")
	}
	defer rows.Close()

	var leads []*model.Lead
	for rows.Next() {
		lead, err := scanSQLiteLead(rows)
		if err != nil {
			return nil, err
		}
		leads = append(leads, lead)
	}
	if err := rows.Err(); err != nil {
		return nil, eris.Wrap(err, "sqlite: iterate rescore leads")
	}
	return leads, nil
}

func (s *SQLiteStore) GetLeadStats(ctx context.Context) (*model.LeadStats, error) {
	var stats model.LeadStats
	err := s.db.QueryRowContext(ctx, `SELECT
		count(*),
		COALESCE(sum(CASE WHEN temperature = 'Hot' THEN 1 ELSE 0 END), 0),
		COALESCE(sum(CASE WHEN temperature = 'Warm' THEN 1 ELSE 0 END), 0),
		COALESCE(sum(CASE WHEN temperature = 'Lukewarm' THEN 1 ELSE 0 END), 0),
		COALESCE(sum(CASE WHEN temperature = 'Cold' THEN 1 ELSE 0 END), 0),
		COALESCE(avg(score), 0),
		COALESCE(sum(revenue), 0)
	FROM leads`).Scan(
		&stats.Total, &stats.Hot, &stats.Warm, &stats.Lukewarm, &stats.Cold,
		&stats.AvgScore, &stats.TotalRevenue,
	)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: lead stats")
	}
	return &stats, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanSQLiteLead(row rowScanner) (*model.Lead, error) {
	var lead model.Lead
	var tier, temp, dnc, stage, createdAt string
	err := row.Scan(
		&lead.ID, &lead.BusinessName, &lead.ContactName, &lead.Email, &lead.Phone,
		&lead.State, &lead.Industry, &lead.Revenue, &lead.Score, &tier, &temp,
		&lead.TemplateID, &dnc, &lead.DNCReason, &stage, &createdAt,
	)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: scan lead")
	}
	lead.Tier = model.Tier(tier)
	lead.Temperature = model.Temperature(temp)
	lead.DNCStatus = model.DNCStatus(dnc)
	lead.PipelineStage = model.PipelineStage(stage)
	if ts, err := time.Parse(time.RFC3339Nano, createdAt); err == nil {
		lead.CreatedAt = ts
	}
	return &lead, nil
}
