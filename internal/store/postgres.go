package store

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rotisserie/eris"

	"github.com/leadflow/leadflow-cli/internal/db"
	"github.com/leadflow/leadflow-cli/internal/model"
	"github.com/leadflow/leadflow-cli/internal/scoring"
)

// PostgresStore implements Store using pgxpool.
type PostgresStore struct {
	pool    db.Pool
	closeFn func()
}

// PoolConfig holds optional connection pool tuning parameters.
type PoolConfig struct {
	MaxConns int32 `yaml:"max_conns" mapstructure:"max_conns"`
	MinConns int32 `yaml:"min_conns" mapstructure:"min_conns"`
}

const leadColumns = `id, business_name, COALESCE(contact_name, ''), COALESCE(email, ''), COALESCE(phone, ''), COALESCE(state, ''), COALESCE(industry, ''), revenue, score, tier, temperature, template_id, dnc_status, COALESCE(dnc_reason, ''), pipeline_stage, created_at`

// preparedStatements lists queries to prepare on each new connection
// for faster execution of the hottest store operations.
var preparedStatements = map[string]string{
	"insert_lead":       `INSERT INTO leads (id, business_name, contact_name, email, phone, state, industry, revenue, score, tier, temperature, template_id, dnc_status, dnc_reason, pipeline_stage, created_at) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)`,
	"update_lead_stage": `UPDATE leads SET pipeline_stage = $1 WHERE id = $2`,
	"update_lead_score": `UPDATE leads SET score = $1, tier = $2, temperature = $3, template_id = $4 WHERE id = $5`,
}

// NewPostgres creates a PostgresStore with a connection pool.
func NewPostgres(ctx context.Context, connString string, poolCfg *PoolConfig) (*PostgresStore, error) {
	pgxCfg, err := pgxpool.ParseConfig(connString)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: parse config")
	}

	maxConns := int32(10)
	minConns := int32(2)
	if poolCfg != nil {
		if poolCfg.MaxConns > 0 {
			maxConns = poolCfg.MaxConns
		}
		if poolCfg.MinConns > 0 {
			minConns = poolCfg.MinConns
		}
	}
	pgxCfg.MaxConns = maxConns
	pgxCfg.MinConns = minConns
	pgxCfg.MaxConnLifetime = 30 * time.Minute
	pgxCfg.MaxConnIdleTime = 5 * time.Minute

	// Prepare frequently-used statements on each new connection.
	pgxCfg.AfterConnect = func(ctx context.Context, conn *pgx.Conn) error {
		for name, sql := range preparedStatements {
			if _, err := conn.Prepare(ctx, name, sql); err != nil {
				return eris.Wrapf(err, "postgres: prepare %s", name)
			}
		}
		return nil
	}

	pool, err := pgxpool.NewWithConfig(ctx, pgxCfg)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: create pool")
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, eris.Wrap(err, "postgres: ping")
	}
	return &PostgresStore{pool: pool, closeFn: pool.Close}, nil
}

const postgresMigration = `
CREATE TABLE IF NOT EXISTS leads (
	id             TEXT PRIMARY KEY DEFAULT gen_random_uuid()::text,
	business_name  TEXT NOT NULL,
	contact_name   TEXT,
	email          TEXT,
	phone          TEXT,
	state          TEXT,
	industry       TEXT,
	revenue        BIGINT NOT NULL DEFAULT 0,
	score          INTEGER NOT NULL DEFAULT 0,
	tier           TEXT NOT NULL,
	temperature    TEXT NOT NULL,
	template_id    INTEGER NOT NULL DEFAULT 1,
	dnc_status     TEXT NOT NULL DEFAULT 'SAFE',
	dnc_reason     TEXT,
	pipeline_stage TEXT NOT NULL DEFAULT 'New',
	created_at     TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE INDEX IF NOT EXISTS idx_leads_temperature ON leads(temperature);
CREATE INDEX IF NOT EXISTS idx_leads_tier ON leads(tier);
CREATE INDEX IF NOT EXISTS idx_leads_stage ON leads(pipeline_stage);
CREATE INDEX IF NOT EXISTS idx_leads_business_name ON leads(lower(business_name));
CREATE INDEX IF NOT EXISTS idx_leads_created_at ON leads(created_at DESC);
`

func (s *PostgresStore) Migrate(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, postgresMigration)
	return eris.Wrap(err, "postgres: migrate")
}

func (s *PostgresStore) Ping(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, "SELECT 1")
	return eris.Wrap(err, "postgres: ping")
}

func (s *PostgresStore) Close() error {
	if s.closeFn != nil {
		s.closeFn()
	}
	return nil
}

func (s *PostgresStore) CreateLead(ctx context.Context, lead *model.Lead) error {
	if lead.ID == "" {
		lead.ID = uuid.New().String()
	}
	if lead.CreatedAt.IsZero() {
		lead.CreatedAt = time.Now().UTC()
	}
	if lead.PipelineStage == "" {
		lead.PipelineStage = model.StageNew
	}

	_, err := s.pool.Exec(ctx,
		`INSERT INTO leads (id, business_name, contact_name, email, phone, state, industry, revenue, score, tier, temperature, template_id, dnc_status, dnc_reason, pipeline_stage, created_at) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)`,
		lead.ID, lead.BusinessName, nullable(lead.ContactName), nullable(lead.Email), nullable(lead.Phone), nullable(lead.State), nullable(lead.Industry),
		lead.Revenue, lead.Score, string(lead.Tier), string(lead.Temperature), lead.TemplateID,
		string(lead.DNCStatus), nullable(lead.DNCReason), string(lead.PipelineStage), lead.CreatedAt,
	)
	if err != nil {
		return eris.Wrap(err, "postgres: insert lead")
	}
	return nil
}

var leadCopyColumns = []string{
	"id", "business_name", "contact_name", "email", "phone", "state", "industry",
	"revenue", "score", "tier", "temperature", "template_id",
	"dnc_status", "dnc_reason", "pipeline_stage", "created_at",
}

func (s *PostgresStore) BulkCreateLeads(ctx context.Context, leads []*model.Lead) (int, error) {
	if len(leads) == 0 {
		return 0, nil
	}
	now := time.Now().UTC()
	rows := make([][]any, 0, len(leads))
	for _, lead := range leads {
		if lead.ID == "" {
			lead.ID = uuid.New().String()
		}
		if lead.CreatedAt.IsZero() {
			lead.CreatedAt = now
		}
		if lead.PipelineStage == "" {
			lead.PipelineStage = model.StageNew
		}
		rows = append(rows, []any{
			lead.ID, lead.BusinessName, nullable(lead.ContactName), nullable(lead.Email), nullable(lead.Phone), nullable(lead.State), nullable(lead.Industry),
			lead.Revenue, lead.Score, string(lead.Tier), string(lead.Temperature), lead.TemplateID,
			string(lead.DNCStatus), nullable(lead.DNCReason), string(lead.PipelineStage), lead.CreatedAt,
		})
	}

	n, err := db.CopyFrom(ctx, s.pool, "leads", leadCopyColumns, rows)
	if err != nil {
		return 0, eris.Wrap(err, "postgres: bulk insert leads")
	}
	return int(n), nil
}

func (s *PostgresStore) ListLeads(ctx context.Context, opts ListOptions) (*LeadPage, error) {
	opts.Normalize()

	var conds []string
	var args []any
	argIdx := 1
	addCond := func(cond string, val any) {
		conds = append(conds, fmt.Sprintf(cond, argIdx))
		args = append(args, val)
		argIdx++
	}
	if opts.Temperature != "" {
		addCond("temperature = $%d", string(opts.Temperature))
	}
	if opts.Tier != "" {
		addCond("tier = $%d", string(opts.Tier))
	}
	if opts.Stage != "" {
		addCond("pipeline_stage = $%d", string(opts.Stage))
	}
	if opts.Search != "" {
		addCond("business_name ILIKE $%d", "%"+opts.Search+"%")
	}
	where := ""
	if len(conds) > 0 {
		where = " WHERE " + strings.Join(conds, " AND ")
	}

	var total int
	if err := s.pool.QueryRow(ctx, "SELECT count(*) FROM leads"+where, args...).Scan(&total); err != nil {
		return nil, eris.Wrap(err, "postgres: count leads")
	}

	query := fmt.Sprintf("SELECT %s FROM leads%s ORDER BY created_at DESC LIMIT $%d OFFSET $%d",
		leadColumns, where, argIdx, argIdx+1)
	args = append(args, opts.PageSize, (opts.Page-1)*opts.PageSize)

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: list leads")
	}
	defer rows.Close()

	var leads []*model.Lead
	for rows.Next() {
		lead, err := scanLead(rows)
		if err != nil {
			return nil, err
		}
		leads = append(leads, lead)
	}
	if err := rows.Err(); err != nil {
		return nil, eris.Wrap(err, "postgres: iterate leads")
	}

	return &LeadPage{
		Leads:      leads,
		Total:      total,
		TotalPages: totalPages(total, opts.PageSize),
	}, nil
}

func (s *PostgresStore) UpdateLeadStage(ctx context.Context, id string, stage model.PipelineStage) error {
	tag, err := s.pool.Exec(ctx,
		`UPDATE leads SET pipeline_stage = $1 WHERE id = $2`,
		string(stage), id,
	)
	if err != nil {
		return eris.Wrapf(err, "postgres: update lead stage %s", id)
	}
	if tag.RowsAffected() == 0 {
		return eris.Errorf("lead not found: %s", id)
	}
	return nil
}

func (s *PostgresStore) UpdateLeadScore(ctx context.Context, id string, c scoring.Classification) error {
	tag, err := s.pool.Exec(ctx,
		`UPDATE leads SET score = $1, tier = $2, temperature = $3, template_id = $4 WHERE id = $5`,
		c.Score, string(c.Tier), string(c.Temperature), c.TemplateID, id,
	)
	if err != nil {
		return eris.Wrapf(err, "postgres: update lead score %s", id)
	}
	if tag.RowsAffected() == 0 {
		return eris.Errorf("lead not found: %s", id)
	}
	return nil
}

func (s *PostgresStore) ListForRescore(ctx context.Context) ([]*model.Lead, error) {
	rows, err := s.pool.Query(ctx,
		fmt.Sprintf("SELECT %s FROM leads ORDER BY created_at", leadColumns))
	if err != nil {
		return nil, eris.Wrap(err, "postgres: list for rescore")
	}
	defer rows.Close()

	var leads []*model.Lead
	for rows.Next() {
		lead, err := scanLead(rows)
		if err != nil {
			return nil, err
		}
		leads = append(leads, lead)
	}
	if err := rows.Err(); err != nil {
		return nil, eris.Wrap(err, "postgres: iterate rescore leads")
	}
	return leads, nil
}

func (s *PostgresStore) GetLeadStats(ctx context.Context) (*model.LeadStats, error) {
	var stats model.LeadStats
	err := s.pool.QueryRow(ctx, `SELECT
		count(*),
		count(*) FILTER (WHERE temperature = 'Hot'),
		count(*) FILTER (WHERE temperature = 'Warm'),
		count(*) FILTER (WHERE temperature = 'Lukewarm'),
		count(*) FILTER (WHERE temperature = 'Cold'),
		COALESCE(avg(score), 0),
		COALESCE(sum(revenue), 0)
	FROM leads`).Scan(
		&stats.Total, &stats.Hot, &stats.Warm, &stats.Lukewarm, &stats.Cold,
		&stats.AvgScore, &stats.TotalRevenue,
	)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: lead stats")
	}
	return &stats, nil
}

func scanLead(row pgx.Row) (*model.Lead, error) {
	var lead model.Lead
	var tier, temp, dnc, stage string
	err := row.Scan(
		&lead.ID, &lead.BusinessName, &lead.ContactName, &lead.Email, &lead.Phone,
		&lead.State, &lead.Industry, &lead.Revenue, &lead.Score, &tier, &temp,
		&lead.TemplateID, &dnc, &lead.DNCReason, &stage, &lead.CreatedAt,
	)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: scan lead")
	}
	lead.Tier = model.Tier(tier)
	lead.Temperature = model.Temperature(temp)
	lead.DNCStatus = model.DNCStatus(dnc)
	lead.PipelineStage = model.PipelineStage(stage)
	return &lead, nil
}

// nullable maps empty strings to NULL so optional fields never store
// placeholder values.
func nullable(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
