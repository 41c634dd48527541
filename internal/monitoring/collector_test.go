package monitoring

import (
	"context"
	"testing"
	"time"

	"github.com/rotisserie/eris"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pitchintel/brief-cli/internal/model"
)

// listStore serves a fixed brief list.
type listStore struct {
	briefs  []model.Brief
	listErr error
}

func (s *listStore) ListBriefs(context.Context, string) ([]model.Brief, error) {
	return s.briefs, s.listErr
}

func (s *listStore) InsertBrief(_ context.Context, b model.Brief) (*model.Brief, error) {
	return &b, nil
}
func (s *listStore) GetBrief(context.Context, string, string) (*model.Brief, error) {
	return nil, nil
}
func (s *listStore) UpdateBrief(context.Context, string, model.BriefUpdate, string) (*model.Brief, error) {
	return nil, nil
}
func (s *listStore) DeleteBrief(context.Context, string, string) error { return nil }
func (s *listStore) SaveOutreachSession(_ context.Context, sess model.OutreachSession) (*model.OutreachSession, error) {
	return &sess, nil
}
func (s *listStore) ListOutreachSessions(context.Context, string) ([]model.OutreachSession, error) {
	return nil, nil
}
func (s *listStore) Migrate(context.Context) error { return nil }
func (s *listStore) Ping(context.Context) error    { return nil }
func (s *listStore) Close() error                  { return nil }

func briefWithSources(created time.Time, src model.IntelligenceSources) model.Brief {
	return model.Brief{
		CompanyName:         "Acme Corp",
		UserIntent:          "sell tooling",
		CreatedAt:           created,
		IntelligenceSources: src,
	}
}

func TestCollect_Empty(t *testing.T) {
	c := NewCollector(&listStore{})

	snap, err := c.Collect(context.Background(), 24)
	require.NoError(t, err)
	assert.Zero(t, snap.BriefTotal)
	assert.Zero(t, snap.ToneAnalyzedRate)
	assert.Equal(t, 24, snap.LookbackHours)
	assert.False(t, snap.CollectedAt.IsZero())
}

func TestCollect_CountsAndRates(t *testing.T) {
	now := time.Now().UTC()
	st := &listStore{briefs: []model.Brief{
		briefWithSources(now, model.IntelligenceSources{
			News: 2, Jobs: 5, Technologies: 4,
			NewsLive: true, JobsLive: true, ToneAnalysis: true, TechAnalysis: true,
		}),
		briefWithSources(now, model.IntelligenceSources{
			News: 2, Jobs: 5, Technologies: 2,
			ToneAnalysis: true, TechAnalysis: true,
		}),
	}}
	c := NewCollector(st)

	snap, err := c.Collect(context.Background(), 0)
	require.NoError(t, err)

	assert.Equal(t, 2, snap.BriefTotal)
	assert.Equal(t, 1, snap.NewsLive)
	assert.Equal(t, 1, snap.NewsMock)
	assert.Equal(t, 1, snap.JobsLive)
	assert.Equal(t, 1, snap.JobsMock)
	assert.InDelta(t, 1.0, snap.ToneAnalyzedRate, 1e-9)
	assert.InDelta(t, 2.0, snap.AvgNewsPerBrief, 1e-9)
	assert.InDelta(t, 5.0, snap.AvgJobsPerBrief, 1e-9)
	assert.InDelta(t, 3.0, snap.AvgTechnologies, 1e-9)
}

func TestCollect_LookbackWindow(t *testing.T) {
	now := time.Now().UTC()
	st := &listStore{briefs: []model.Brief{
		briefWithSources(now, model.IntelligenceSources{News: 2}),
		briefWithSources(now.Add(-48*time.Hour), model.IntelligenceSources{News: 2}),
	}}
	c := NewCollector(st)

	snap, err := c.Collect(context.Background(), 24)
	require.NoError(t, err)
	assert.Equal(t, 1, snap.BriefTotal)

	all, err := c.Collect(context.Background(), 0)
	require.NoError(t, err)
	assert.Equal(t, 2, all.BriefTotal)
}

func TestCollect_StoreError(t *testing.T) {
	c := NewCollector(&listStore{listErr: eris.New("sqlite: list briefs: disk I/O error")})

	_, err := c.Collect(context.Background(), 0)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "list briefs")
}
