package store

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rotisserie/eris"

	"github.com/pitchintel/brief-cli/internal/db"
	"github.com/pitchintel/brief-cli/internal/model"
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

const briefColumns = `id, user_id, company_name, website, user_intent, summary, pitch_angle, subject_line, what_not_to_pitch, signal_tag, hiring_trends, news_trends, company_logo, news, job_signals, tech_stack, tech_stack_data, tone_insights, intelligence_sources, created_at`

// preparedStatements lists queries to prepare on each new connection for
// faster execution of the most frequently used store operations.
var preparedStatements = map[string]string{
	"insert_brief": `INSERT INTO briefs (` + briefColumns + `) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20)`,
	"get_brief":    `SELECT ` + briefColumns + ` FROM briefs WHERE id = $1`,
	"list_briefs":  `SELECT ` + briefColumns + ` FROM briefs ORDER BY created_at DESC`,
	"delete_brief": `DELETE FROM briefs WHERE id = $1`,
	"save_session": `INSERT INTO outreach_sessions (id, user_id, brief_id, session_name, messages, created_at, updated_at) VALUES ($1, $2, $3, $4, $5, $6, $7) ON CONFLICT (id) DO UPDATE SET session_name = $4, messages = $5, updated_at = $7`,
}

// NewPostgres creates a PostgresStore with a connection pool.
func NewPostgres(ctx context.Context, connString string, poolCfg *PoolConfig) (*PostgresStore, error) {
	pgxCfg, err := pgxpool.ParseConfig(connString)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: parse config")
	}

	// Apply pool sizing from config with sensible defaults.
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

// Pool returns the underlying database pool for subsystems that need direct
// query access (e.g., the metrics collector).
func (s *PostgresStore) Pool() db.Pool {
	return s.pool
}

const postgresMigration = `
CREATE TABLE IF NOT EXISTS briefs (
	id                   TEXT PRIMARY KEY DEFAULT gen_random_uuid()::text,
	user_id              TEXT NOT NULL DEFAULT '',
	company_name         TEXT NOT NULL,
	website              TEXT NOT NULL DEFAULT '',
	user_intent          TEXT NOT NULL,
	summary              TEXT NOT NULL DEFAULT '',
	pitch_angle          TEXT NOT NULL DEFAULT '',
	subject_line         TEXT NOT NULL DEFAULT '',
	what_not_to_pitch    TEXT NOT NULL DEFAULT '',
	signal_tag           TEXT NOT NULL DEFAULT '',
	hiring_trends        TEXT NOT NULL DEFAULT '',
	news_trends          TEXT NOT NULL DEFAULT '',
	company_logo         TEXT NOT NULL DEFAULT '',
	news                 JSONB NOT NULL DEFAULT '[]',
	job_signals          JSONB NOT NULL DEFAULT '[]',
	tech_stack           JSONB NOT NULL DEFAULT '[]',
	tech_stack_data      JSONB NOT NULL DEFAULT '[]',
	tone_insights        JSONB NOT NULL DEFAULT '{}',
	intelligence_sources JSONB NOT NULL DEFAULT '{}',
	created_at           TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE INDEX IF NOT EXISTS idx_briefs_user_id ON briefs(user_id);
CREATE INDEX IF NOT EXISTS idx_briefs_created_at ON briefs(created_at DESC);

CREATE TABLE IF NOT EXISTS outreach_sessions (
	id           TEXT PRIMARY KEY DEFAULT gen_random_uuid()::text,
	user_id      TEXT NOT NULL,
	brief_id     TEXT NOT NULL REFERENCES briefs(id) ON DELETE CASCADE,
	session_name TEXT NOT NULL,
	messages     JSONB NOT NULL DEFAULT '[]',
	created_at   TIMESTAMPTZ NOT NULL DEFAULT now(),
	updated_at   TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE INDEX IF NOT EXISTS idx_outreach_sessions_user_id ON outreach_sessions(user_id);
CREATE INDEX IF NOT EXISTS idx_outreach_sessions_updated_at ON outreach_sessions(updated_at DESC);
`

func (s *PostgresStore) Ping(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, "SELECT 1")
	return eris.Wrap(err, "postgres: ping")
}

func (s *PostgresStore) Migrate(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, postgresMigration)
	return eris.Wrap(err, "postgres: migrate")
}

func (s *PostgresStore) Close() error {
	if s.closeFn != nil {
		s.closeFn()
	}
	return nil
}

func (s *PostgresStore) InsertBrief(ctx context.Context, brief model.Brief) (*model.Brief, error) {
	if brief.ID == "" {
		brief.ID = uuid.New().String()
	}
	brief.CreatedAt = time.Now().UTC()

	docs, err := encodeBriefDocs(brief)
	if err != nil {
		return nil, err
	}

	_, err = s.pool.Exec(ctx,
		`INSERT INTO briefs (`+briefColumns+`) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20)`,
		brief.ID, brief.UserID, brief.CompanyName, brief.Website, brief.UserIntent,
		brief.Summary, brief.PitchAngle, brief.SubjectLine, brief.WhatNotToPitch,
		brief.SignalTag, brief.HiringTrends, brief.NewsTrends, brief.CompanyLogo,
		docs.News, docs.Jobs, docs.Stack, docs.StackData, docs.Tone, docs.Sources,
		brief.CreatedAt,
	)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: insert brief")
	}
	return &brief, nil
}

// rowScanner covers pgx.Row and pgx.Rows so the wide brief scan is written once.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanBrief(row rowScanner) (*model.Brief, error) {
	var b model.Brief
	var d briefDocs
	err := row.Scan(
		&b.ID, &b.UserID, &b.CompanyName, &b.Website, &b.UserIntent,
		&b.Summary, &b.PitchAngle, &b.SubjectLine, &b.WhatNotToPitch,
		&b.SignalTag, &b.HiringTrends, &b.NewsTrends, &b.CompanyLogo,
		&d.News, &d.Jobs, &d.Stack, &d.StackData, &d.Tone, &d.Sources,
		&b.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	if err := decodeBriefDocs(&b, d); err != nil {
		return nil, err
	}
	return &b, nil
}

func (s *PostgresStore) GetBrief(ctx context.Context, id, owner string) (*model.Brief, error) {
	query := `SELECT ` + briefColumns + ` FROM briefs WHERE id = $1`
	args := []any{id}
	if owner != "" {
		query += ` AND user_id = $2`
		args = append(args, owner)
	}

	b, err := scanBrief(s.pool.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, eris.Wrapf(err, "postgres: get brief %s", id)
	}
	return b, nil
}

func (s *PostgresStore) ListBriefs(ctx context.Context, owner string) ([]model.Brief, error) {
	query := `SELECT ` + briefColumns + ` FROM briefs`
	args := []any{}
	if owner != "" {
		query += ` WHERE user_id = $1`
		args = append(args, owner)
	}
	query += ` ORDER BY created_at DESC`

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: list briefs")
	}
	defer rows.Close()

	var briefs []model.Brief
	for rows.Next() {
		b, err := scanBrief(rows)
		if err != nil {
			return nil, eris.Wrap(err, "postgres: scan brief")
		}
		briefs = append(briefs, *b)
	}
	return briefs, eris.Wrap(rows.Err(), "postgres: list briefs iterate")
}

func (s *PostgresStore) UpdateBrief(ctx context.Context, id string, update model.BriefUpdate, owner string) (*model.Brief, error) {
	cols, vals := briefUpdateColumns(update)
	if len(cols) == 0 {
		return nil, eris.Errorf("postgres: update brief %s: no fields", id)
	}

	sets := make([]string, len(cols))
	for i, col := range cols {
		sets[i] = fmt.Sprintf("%s = $%d", col, i+1)
	}
	query := `UPDATE briefs SET ` + strings.Join(sets, ", ") + fmt.Sprintf(` WHERE id = $%d`, len(cols)+1)
	args := append(vals, id)
	if owner != "" {
		query += fmt.Sprintf(` AND user_id = $%d`, len(cols)+2)
		args = append(args, owner)
	}

	tag, err := s.pool.Exec(ctx, query, args...)
	if err != nil {
		return nil, eris.Wrapf(err, "postgres: update brief %s", id)
	}
	if tag.RowsAffected() == 0 {
		return nil, eris.Errorf("brief not found: %s", id)
	}
	return s.GetBrief(ctx, id, owner)
}

func (s *PostgresStore) DeleteBrief(ctx context.Context, id, owner string) error {
	query := `DELETE FROM briefs WHERE id = $1`
	args := []any{id}
	if owner != "" {
		query += ` AND user_id = $2`
		args = append(args, owner)
	}

	tag, err := s.pool.Exec(ctx, query, args...)
	if err != nil {
		return eris.Wrapf(err, "postgres: delete brief %s", id)
	}
	if tag.RowsAffected() == 0 {
		return eris.Errorf("brief not found: %s", id)
	}
	return nil
}

func (s *PostgresStore) SaveOutreachSession(ctx context.Context, session model.OutreachSession) (*model.OutreachSession, error) {
	now := time.Now().UTC()
	if session.ID == "" {
		session.ID = uuid.New().String()
		session.CreatedAt = now
	}
	if session.SessionName == "" {
		session.SessionName = "Session " + now.Format("1/2/2006")
	}
	if session.Messages == nil {
		session.Messages = []byte("[]")
	}
	session.UpdatedAt = now

	_, err := s.pool.Exec(ctx,
		`INSERT INTO outreach_sessions (id, user_id, brief_id, session_name, messages, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)
		 ON CONFLICT (id) DO UPDATE SET session_name = $4, messages = $5, updated_at = $7`,
		session.ID, session.UserID, session.BriefID, session.SessionName,
		[]byte(session.Messages), session.CreatedAt, session.UpdatedAt,
	)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: save outreach session")
	}
	return &session, nil
}

func (s *PostgresStore) ListOutreachSessions(ctx context.Context, userID string) ([]model.OutreachSession, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT s.id, s.user_id, s.brief_id, s.session_name, s.messages, s.created_at, s.updated_at,
		        b.company_name, b.website, b.signal_tag
		 FROM outreach_sessions s
		 LEFT JOIN briefs b ON b.id = s.brief_id
		 WHERE s.user_id = $1
		 ORDER BY s.updated_at DESC`,
		userID,
	)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: list outreach sessions")
	}
	defer rows.Close()

	var sessions []model.OutreachSession
	for rows.Next() {
		var sess model.OutreachSession
		var messages []byte
		var companyName, website, signalTag *string
		if err := rows.Scan(&sess.ID, &sess.UserID, &sess.BriefID, &sess.SessionName,
			&messages, &sess.CreatedAt, &sess.UpdatedAt,
			&companyName, &website, &signalTag); err != nil {
			return nil, eris.Wrap(err, "postgres: scan outreach session")
		}
		sess.Messages = messages
		if companyName != nil {
			sess.Brief = &model.SessionBrief{
				CompanyName: *companyName,
				Website:     deref(website),
				SignalTag:   deref(signalTag),
			}
		}
		sessions = append(sessions, sess)
	}
	return sessions, eris.Wrap(rows.Err(), "postgres: list outreach sessions iterate")
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
