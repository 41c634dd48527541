package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	_ "modernc.org/sqlite"

	"github.com/pitchintel/brief-cli/internal/model"
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
CREATE TABLE IF NOT EXISTS briefs (
	id                   TEXT PRIMARY KEY,
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
	news                 TEXT NOT NULL DEFAULT '[]',
	job_signals          TEXT NOT NULL DEFAULT '[]',
	tech_stack           TEXT NOT NULL DEFAULT '[]',
	tech_stack_data      TEXT NOT NULL DEFAULT '[]',
	tone_insights        TEXT NOT NULL DEFAULT '{}',
	intelligence_sources TEXT NOT NULL DEFAULT '{}',
	created_at           DATETIME NOT NULL DEFAULT (datetime('now'))
);

CREATE INDEX IF NOT EXISTS idx_briefs_user_id ON briefs(user_id);
CREATE INDEX IF NOT EXISTS idx_briefs_created_at ON briefs(created_at);

CREATE TABLE IF NOT EXISTS outreach_sessions (
	id           TEXT PRIMARY KEY,
	user_id      TEXT NOT NULL,
	brief_id     TEXT NOT NULL REFERENCES briefs(id) ON DELETE CASCADE,
	session_name TEXT NOT NULL,
	messages     TEXT NOT NULL DEFAULT '[]',
	created_at   DATETIME NOT NULL DEFAULT (datetime('now')),
	updated_at   DATETIME NOT NULL DEFAULT (datetime('now'))
);

CREATE INDEX IF NOT EXISTS idx_outreach_sessions_user_id ON outreach_sessions(user_id);
CREATE INDEX IF NOT EXISTS idx_outreach_sessions_updated_at ON outreach_sessions(updated_at);
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

func (s *SQLiteStore) InsertBrief(ctx context.Context, brief model.Brief) (*model.Brief, error) {
	if brief.ID == "" {
		brief.ID = uuid.New().String()
	}
	brief.CreatedAt = time.Now().UTC()

	docs, err := encodeBriefDocs(brief)
	if err != nil {
		return nil, err
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO briefs (`+briefColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		brief.ID, brief.UserID, brief.CompanyName, brief.Website, brief.UserIntent,
		brief.Summary, brief.PitchAngle, brief.SubjectLine, brief.WhatNotToPitch,
		brief.SignalTag, brief.HiringTrends, brief.NewsTrends, brief.CompanyLogo,
		string(docs.News), string(docs.Jobs), string(docs.Stack), string(docs.StackData),
		string(docs.Tone), string(docs.Sources), brief.CreatedAt,
	)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: insert brief")
	}
	return &brief, nil
}

func scanBriefSQLite(row rowScanner) (*model.Brief, error) {
	var b model.Brief
	var news, jobs, stack, stackData, tone, sources string
	err := row.Scan(
		&b.ID, &b.UserID, &b.CompanyName, &b.Website, &b.UserIntent,
		&b.Summary, &b.PitchAngle, &b.SubjectLine, &b.WhatNotToPitch,
		&b.SignalTag, &b.HiringTrends, &b.NewsTrends, &b.CompanyLogo,
		&news, &jobs, &stack, &stackData, &tone, &sources,
		&b.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	d := briefDocs{
		News:      []byte(news),
		Jobs:      []byte(jobs),
		Stack:     []byte(stack),
		StackData: []byte(stackData),
		Tone:      []byte(tone),
		Sources:   []byte(sources),
	}
	if err := decodeBriefDocs(&b, d); err != nil {
		return nil, err
	}
	return &b, nil
}

func (s *SQLiteStore) GetBrief(ctx context.Context, id, owner string) (*model.Brief, error) {
	query := `SELECT ` + briefColumns + ` FROM briefs WHERE id = ?`
	args := []any{id}
	if owner != "" {
		query += ` AND user_id = ?`
		args = append(args, owner)
	}

	b, err := scanBriefSQLite(s.db.QueryRowContext(ctx, query, args...))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, eris.Wrapf(err, "sqlite: get brief %s", id)
	}
	return b, nil
}

func (s *SQLiteStore) ListBriefs(ctx context.Context, owner string) ([]model.Brief, error) {
	query := `SELECT ` + briefColumns + ` FROM briefs`
	args := []any{}
	if owner != "" {
		query += ` WHERE user_id = ?`
		args = append(args, owner)
	}
	query += ` ORDER BY created_at DESC`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: list briefs")
	}
	defer rows.Close()

	var briefs []model.Brief
	for rows.Next() {
		b, err := scanBriefSQLite(rows)
		if err != nil {
			return nil, eris.Wrap(err, "sqlite: scan brief")
		}
		briefs = append(briefs, *b)
	}
	return briefs, eris.Wrap(rows.Err(), "sqlite: list briefs iterate")
}

func (s *SQLiteStore) UpdateBrief(ctx context.Context, id string, update model.BriefUpdate, owner string) (*model.Brief, error) {
	cols, vals := briefUpdateColumns(update)
	if len(cols) == 0 {
		return nil, eris.Errorf("sqlite: update brief %s: no fields", id)
	}

	sets := make([]string, len(cols))
	for i, col := range cols {
		sets[i] = col + " = ?"
	}
	query := `UPDATE briefs SET ` + strings.Join(sets, ", ") + ` WHERE id = ?`
	args := append(vals, id)
	if owner != "" {
		query += ` AND user_id = ?`
		args = append(args, owner)
	}

	res, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		return nil, eris.Wrapf(err, "sqlite: update brief %s", id)
	}
	if err := checkRowsAffected(res, "brief", id); err != nil {
		return nil, err
	}
	return s.GetBrief(ctx, id, owner)
}

func (s *SQLiteStore) DeleteBrief(ctx context.Context, id, owner string) error {
	query := `DELETE FROM briefs WHERE id = ?`
	args := []any{id}
	if owner != "" {
		query += ` AND user_id = ?`
		args = append(args, owner)
	}

	res, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		return eris.Wrapf(err, "sqlite: delete brief %s", id)
	}
	return checkRowsAffected(res, "brief", id)
}

func (s *SQLiteStore) SaveOutreachSession(ctx context.Context, session model.OutreachSession) (*model.OutreachSession, error) {
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

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO outreach_sessions (id, user_id, brief_id, session_name, messages, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT (id) DO UPDATE SET session_name = excluded.session_name, messages = excluded.messages, updated_at = excluded.updated_at`,
		session.ID, session.UserID, session.BriefID, session.SessionName,
		string(session.Messages), session.CreatedAt, session.UpdatedAt,
	)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: save outreach session")
	}
	return &session, nil
}

func (s *SQLiteStore) ListOutreachSessions(ctx context.Context, userID string) ([]model.OutreachSession, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT s.id, s.user_id, s.brief_id, s.session_name, s.messages, s.created_at, s.updated_at,
		        b.company_name, b.website, b.signal_tag
		 FROM outreach_sessions s
		 LEFT JOIN briefs b ON b.id = s.brief_id
		 WHERE s.user_id = ?
		 ORDER BY s.updated_at DESC`,
		userID,
	)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: list outreach sessions")
	}
	defer rows.Close()

	var sessions []model.OutreachSession
	for rows.Next() {
		var sess model.OutreachSession
		var messages string
		var companyName, website, signalTag sql.NullString
		if err := rows.Scan(&sess.ID, &sess.UserID, &sess.BriefID, &sess.SessionName,
			&messages, &sess.CreatedAt, &sess.UpdatedAt,
			&companyName, &website, &signalTag); err != nil {
			return nil, eris.Wrap(err, "sqlite: scan outreach session")
		}
		sess.Messages = json.RawMessage(messages)
		if companyName.Valid {
			sess.Brief = &model.SessionBrief{
				CompanyName: companyName.String,
				Website:     website.String,
				SignalTag:   signalTag.String,
			}
		}
		sessions = append(sessions, sess)
	}
	return sessions, eris.Wrap(rows.Err(), "sqlite: list outreach sessions iterate")
}

func checkRowsAffected(res sql.Result, entity, id string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return eris.Wrapf(err, "sqlite: rows affected for %s %s", entity, id)
	}
	if n == 0 {
		return eris.Errorf("%s not found: %s", entity, id)
	}
	return nil
}
