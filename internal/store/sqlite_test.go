package store

import (
	"context"
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pitchintel/brief-cli/internal/model"
)

func newTestSQLiteStore(t *testing.T) *SQLiteStore {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "test.db")
	st, err := NewSQLite(dbPath)
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() }) //nolint:errcheck
	require.NoError(t, st.Migrate(context.Background()))
	return st
}

func sampleBrief(userID string) model.Brief {
	return model.Brief{
		UserID:         userID,
		CompanyName:    "Acme Corp",
		Website:        "https://acme.com",
		UserIntent:     "sell developer tooling",
		Summary:        "Acme Corp is scaling.",
		PitchAngle:     "Lead with the hiring surge.",
		SubjectLine:    "Quick question about Acme Corp's growth",
		WhatNotToPitch: "Avoid cost-cutting angles.",
		SignalTag:      "Scaling Operations - Positive Market Position",
		HiringTrends:   "Active hiring: 5 roles across 3 locations",
		NewsTrends:     "2 recent articles - positive sentiment",
		CompanyLogo:    "https://logo.clearbit.com/acme.com",
		News: []model.NewsItem{
			{Title: "Acme raises Series B", URL: "https://example.com/a", Source: "TechCrunch"},
		},
		JobSignals: []model.JobSignal{
			{Title: "Senior Software Engineer", Company: "Acme Corp", Location: "Austin, TX"},
		},
		TechStack: []string{"React", "Python"},
		TechStackData: []model.TechStackItem{
			{Name: "React", Confidence: model.ConfidenceHigh, Source: "Job Analysis", Category: "Frontend"},
		},
		ToneInsights: model.ToneInsights{
			Emotion:    "joy",
			Confidence: 0.8,
			Sentiment:  model.SentimentPositive,
		},
		IntelligenceSources: model.IntelligenceSources{
			News: 1, Jobs: 1, Technologies: 1,
			NewsLive: true, JobsLive: true, ToneAnalysis: true, TechAnalysis: true,
		},
	}
}

func TestSQLite_InsertAndGetBrief(t *testing.T) {
	st := newTestSQLiteStore(t)
	ctx := context.Background()

	created, err := st.InsertBrief(ctx, sampleBrief("user-1"))
	require.NoError(t, err)
	require.NotEmpty(t, created.ID)
	require.False(t, created.CreatedAt.IsZero())

	got, err := st.GetBrief(ctx, created.ID, "")
	require.NoError(t, err)
	require.NotNil(t, got)

	assert.Equal(t, "Acme Corp", got.CompanyName)
	assert.Equal(t, "Scaling Operations - Positive Market Position", got.SignalTag)
	require.Len(t, got.News, 1)
	assert.Equal(t, "Acme raises Series B", got.News[0].Title)
	require.Len(t, got.TechStackData, 1)
	assert.Equal(t, model.ConfidenceHigh, got.TechStackData[0].Confidence)
	assert.Equal(t, model.SentimentPositive, got.ToneInsights.Sentiment)
	assert.True(t, got.IntelligenceSources.ToneAnalysis)
}

func TestSQLite_GetBrief_Missing(t *testing.T) {
	st := newTestSQLiteStore(t)

	got, err := st.GetBrief(context.Background(), "nonexistent", "")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestSQLite_GetBrief_OwnerScoped(t *testing.T) {
	st := newTestSQLiteStore(t)
	ctx := context.Background()

	created, err := st.InsertBrief(ctx, sampleBrief("user-1"))
	require.NoError(t, err)

	got, err := st.GetBrief(ctx, created.ID, "someone-else")
	require.NoError(t, err)
	assert.Nil(t, got)

	got, err = st.GetBrief(ctx, created.ID, "user-1")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, created.ID, got.ID)
}

func TestSQLite_ListBriefs_OwnerFilter(t *testing.T) {
	st := newTestSQLiteStore(t)
	ctx := context.Background()

	_, err := st.InsertBrief(ctx, sampleBrief("user-1"))
	require.NoError(t, err)
	_, err = st.InsertBrief(ctx, sampleBrief("user-2"))
	require.NoError(t, err)

	mine, err := st.ListBriefs(ctx, "user-1")
	require.NoError(t, err)
	assert.Len(t, mine, 1)

	all, err := st.ListBriefs(ctx, "")
	require.NoError(t, err)
	assert.Len(t, all, 2)

	none, err := st.ListBriefs(ctx, "user-3")
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestSQLite_UpdateBrief_PartialFields(t *testing.T) {
	st := newTestSQLiteStore(t)
	ctx := context.Background()

	created, err := st.InsertBrief(ctx, sampleBrief("user-1"))
	require.NoError(t, err)

	newSummary := "Rewritten summary."
	updated, err := st.UpdateBrief(ctx, created.ID, model.BriefUpdate{Summary: &newSummary}, "user-1")
	require.NoError(t, err)
	require.NotNil(t, updated)

	assert.Equal(t, "Rewritten summary.", updated.Summary)
	// Untouched fields survive the partial update.
	assert.Equal(t, created.PitchAngle, updated.PitchAngle)
	assert.Equal(t, created.SignalTag, updated.SignalTag)
}

func TestSQLite_UpdateBrief_NoFields(t *testing.T) {
	st := newTestSQLiteStore(t)

	_, err := st.UpdateBrief(context.Background(), "some-id", model.BriefUpdate{}, "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no fields")
}

func TestSQLite_UpdateBrief_WrongOwner(t *testing.T) {
	st := newTestSQLiteStore(t)
	ctx := context.Background()

	created, err := st.InsertBrief(ctx, sampleBrief("user-1"))
	require.NoError(t, err)

	newSummary := "should not apply"
	_, err = st.UpdateBrief(ctx, created.ID, model.BriefUpdate{Summary: &newSummary}, "someone-else")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")

	got, err := st.GetBrief(ctx, created.ID, "")
	require.NoError(t, err)
	assert.Equal(t, created.Summary, got.Summary)
}

func TestSQLite_DeleteBrief_OwnerScoped(t *testing.T) {
	st := newTestSQLiteStore(t)
	ctx := context.Background()

	created, err := st.InsertBrief(ctx, sampleBrief("user-1"))
	require.NoError(t, err)

	err = st.DeleteBrief(ctx, created.ID, "someone-else")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")

	// Row is still there for its owner.
	got, err := st.GetBrief(ctx, created.ID, "user-1")
	require.NoError(t, err)
	require.NotNil(t, got)

	require.NoError(t, st.DeleteBrief(ctx, created.ID, "user-1"))

	got, err = st.GetBrief(ctx, created.ID, "")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestSQLite_SaveOutreachSession_Defaults(t *testing.T) {
	st := newTestSQLiteStore(t)
	ctx := context.Background()

	brief, err := st.InsertBrief(ctx, sampleBrief("user-1"))
	require.NoError(t, err)

	saved, err := st.SaveOutreachSession(ctx, model.OutreachSession{
		UserID:  "user-1",
		BriefID: brief.ID,
	})
	require.NoError(t, err)
	require.NotEmpty(t, saved.ID)
	assert.Contains(t, saved.SessionName, "Session ")
	assert.JSONEq(t, "[]", string(saved.Messages))
	assert.False(t, saved.UpdatedAt.IsZero())
}

func TestSQLite_SaveOutreachSession_UpsertByID(t *testing.T) {
	st := newTestSQLiteStore(t)
	ctx := context.Background()

	brief, err := st.InsertBrief(ctx, sampleBrief("user-1"))
	require.NoError(t, err)

	saved, err := st.SaveOutreachSession(ctx, model.OutreachSession{
		UserID:      "user-1",
		BriefID:     brief.ID,
		SessionName: "First pass",
		Messages:    json.RawMessage(`[{"role":"user","content":"hi"}]`),
	})
	require.NoError(t, err)

	saved.SessionName = "Second pass"
	saved.Messages = json.RawMessage(`[{"role":"user","content":"hi"},{"role":"assistant","content":"hello"}]`)
	resaved, err := st.SaveOutreachSession(ctx, *saved)
	require.NoError(t, err)
	assert.Equal(t, saved.ID, resaved.ID)

	sessions, err := st.ListOutreachSessions(ctx, "user-1")
	require.NoError(t, err)
	require.Len(t, sessions, 1)
	assert.Equal(t, "Second pass", sessions[0].SessionName)
}

func TestSQLite_ListOutreachSessions_JoinsBrief(t *testing.T) {
	st := newTestSQLiteStore(t)
	ctx := context.Background()

	brief, err := st.InsertBrief(ctx, sampleBrief("user-1"))
	require.NoError(t, err)

	_, err = st.SaveOutreachSession(ctx, model.OutreachSession{
		UserID:  "user-1",
		BriefID: brief.ID,
	})
	require.NoError(t, err)

	sessions, err := st.ListOutreachSessions(ctx, "user-1")
	require.NoError(t, err)
	require.Len(t, sessions, 1)
	require.NotNil(t, sessions[0].Brief)
	assert.Equal(t, "Acme Corp", sessions[0].Brief.CompanyName)
	assert.Equal(t, brief.SignalTag, sessions[0].Brief.SignalTag)

	other, err := st.ListOutreachSessions(ctx, "user-2")
	require.NoError(t, err)
	assert.Empty(t, other)
}
