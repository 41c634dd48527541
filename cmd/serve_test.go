//go:build !integration

package main

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pitchintel/brief-cli/internal/config"
	"github.com/pitchintel/brief-cli/internal/derive"
	"github.com/pitchintel/brief-cli/internal/draft"
	"github.com/pitchintel/brief-cli/internal/model"
	"github.com/pitchintel/brief-cli/internal/monitoring"
	"github.com/pitchintel/brief-cli/internal/pipeline"
	"github.com/pitchintel/brief-cli/internal/signals"
	"github.com/pitchintel/brief-cli/internal/store"
)

// newTestEnv builds an environment over a temp SQLite store with no provider
// keys, so brief creation runs fully offline on mock signal data.
func newTestEnv(t *testing.T) *briefEnv {
	t.Helper()

	st, err := store.NewSQLite(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() }) //nolint:errcheck
	require.NoError(t, st.Migrate(t.Context()))

	c := &config.Config{
		Brief: config.BriefConfig{
			NewsPageSize:     10,
			JobsLimit:        10,
			TechTopN:         10,
			HiringThreshold:  5,
			DescriptionLimit: 200,
		},
	}
	news := signals.NewNewsFetcher(nil, c.Brief.NewsPageSize, signals.NewMockGenerator(1))
	jobs := signals.NewJobsFetcher(nil, c.Brief.JobsLimit, c.Brief.DescriptionLimit, signals.NewMockGenerator(2))
	tone := derive.NewToneAnalyzer(nil, 3)

	return &briefEnv{
		Store:     st,
		Pipeline:  pipeline.New(c, st, news, jobs, tone),
		Drafts:    draft.NewGenerator(nil, st),
		Collector: monitoring.NewCollector(st),
	}
}

func doJSON(t *testing.T, h http.Handler, method, path, userID string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if userID != "" {
		req.Header.Set("X-User-ID", userID)
	}
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	return rr
}

func createTestBrief(t *testing.T, h http.Handler, userID string) model.Brief {
	t.Helper()
	rr := doJSON(t, h, http.MethodPost, "/api/briefs", userID, map[string]string{
		"companyName": "Acme Corp",
		"website":     "https://www.acme.com",
		"userIntent":  "sell developer tooling",
	})
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())

	var brief model.Brief
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &brief))
	return brief
}

func TestRouter_Health(t *testing.T) {
	router := buildRouter(newTestEnv(t))

	rr := doJSON(t, router, http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Header().Get("Content-Type"), "application/json")

	var body map[string]string
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
	assert.Equal(t, "ok", body["status"])
}

func TestRouter_CreateBrief(t *testing.T) {
	router := buildRouter(newTestEnv(t))

	brief := createTestBrief(t, router, "user-1")
	assert.NotEmpty(t, brief.ID)
	assert.Equal(t, "user-1", brief.UserID)
	assert.Equal(t, "https://logo.clearbit.com/acme.com", brief.CompanyLogo)
	assert.NotEmpty(t, brief.SignalTag)
	assert.False(t, brief.IntelligenceSources.NewsLive)
}

func TestRouter_CreateBrief_Invalid(t *testing.T) {
	router := buildRouter(newTestEnv(t))

	rr := doJSON(t, router, http.MethodPost, "/api/briefs", "", map[string]string{
		"companyName": "  ",
		"userIntent":  "sell tooling",
	})
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestRouter_CreateBrief_BadBody(t *testing.T) {
	router := buildRouter(newTestEnv(t))

	req := httptest.NewRequest(http.MethodPost, "/api/briefs", bytes.NewReader([]byte("{not json")))
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestRouter_GetBrief_OwnerScoped(t *testing.T) {
	router := buildRouter(newTestEnv(t))
	brief := createTestBrief(t, router, "user-1")

	rr := doJSON(t, router, http.MethodGet, "/api/briefs/"+brief.ID, "user-1", nil)
	assert.Equal(t, http.StatusOK, rr.Code)

	rr = doJSON(t, router, http.MethodGet, "/api/briefs/"+brief.ID, "someone-else", nil)
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestRouter_ListBriefs(t *testing.T) {
	router := buildRouter(newTestEnv(t))
	createTestBrief(t, router, "user-1")
	createTestBrief(t, router, "user-2")

	rr := doJSON(t, router, http.MethodGet, "/api/briefs", "user-1", nil)
	require.Equal(t, http.StatusOK, rr.Code)

	var body struct {
		Briefs []model.Brief `json:"briefs"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
	assert.Len(t, body.Briefs, 1)

	// No owner header returns everything.
	rr = doJSON(t, router, http.MethodGet, "/api/briefs", "", nil)
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
	assert.Len(t, body.Briefs, 2)
}

func TestRouter_UpdateBrief(t *testing.T) {
	router := buildRouter(newTestEnv(t))
	brief := createTestBrief(t, router, "user-1")

	rr := doJSON(t, router, http.MethodPatch, "/api/briefs/"+brief.ID, "user-1", map[string]string{
		"summary": "Rewritten summary.",
	})
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())

	var updated model.Brief
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &updated))
	assert.Equal(t, "Rewritten summary.", updated.Summary)
	assert.Equal(t, brief.PitchAngle, updated.PitchAngle)

	rr = doJSON(t, router, http.MethodPatch, "/api/briefs/"+brief.ID, "user-1", map[string]string{})
	assert.Equal(t, http.StatusBadRequest, rr.Code)

	rr = doJSON(t, router, http.MethodPatch, "/api/briefs/"+brief.ID, "someone-else", map[string]string{
		"summary": "should not apply",
	})
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestRouter_DeleteBrief_OwnerScoped(t *testing.T) {
	router := buildRouter(newTestEnv(t))
	brief := createTestBrief(t, router, "user-1")

	rr := doJSON(t, router, http.MethodDelete, "/api/briefs/"+brief.ID, "someone-else", nil)
	assert.Equal(t, http.StatusNotFound, rr.Code)

	rr = doJSON(t, router, http.MethodDelete, "/api/briefs/"+brief.ID, "user-1", nil)
	assert.Equal(t, http.StatusOK, rr.Code)

	rr = doJSON(t, router, http.MethodGet, "/api/briefs/"+brief.ID, "", nil)
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestRouter_Draft_UnknownType(t *testing.T) {
	router := buildRouter(newTestEnv(t))
	brief := createTestBrief(t, router, "user-1")

	rr := doJSON(t, router, http.MethodPost, "/api/briefs/"+brief.ID+"/draft", "user-1", map[string]string{
		"draft_type": "tweet",
	})
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestRouter_Draft_BriefNotFound(t *testing.T) {
	router := buildRouter(newTestEnv(t))

	rr := doJSON(t, router, http.MethodPost, "/api/briefs/nonexistent/draft", "", map[string]string{
		"draft_type": "email",
	})
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestRouter_Draft_Unconfigured(t *testing.T) {
	// Brief exists but no Groq key is configured.
	router := buildRouter(newTestEnv(t))
	brief := createTestBrief(t, router, "user-1")

	rr := doJSON(t, router, http.MethodPost, "/api/briefs/"+brief.ID+"/draft", "user-1", map[string]string{
		"draft_type": "email",
	})
	assert.Equal(t, http.StatusInternalServerError, rr.Code)
}

func TestRouter_OutreachSessions(t *testing.T) {
	router := buildRouter(newTestEnv(t))
	brief := createTestBrief(t, router, "user-1")

	rr := doJSON(t, router, http.MethodPost, "/api/outreach/sessions", "user-1", map[string]any{
		"brief_id": brief.ID,
		"messages": []map[string]string{{"role": "user", "content": "hi"}},
	})
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())

	var saveResp struct {
		Success bool                  `json:"success"`
		Session model.OutreachSession `json:"session"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &saveResp))
	assert.True(t, saveResp.Success)
	assert.NotEmpty(t, saveResp.Session.ID)
	assert.Equal(t, "user-1", saveResp.Session.UserID)

	rr = doJSON(t, router, http.MethodGet, "/api/outreach/sessions", "user-1", nil)
	require.Equal(t, http.StatusOK, rr.Code)

	var listResp struct {
		Sessions []model.OutreachSession `json:"sessions"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &listResp))
	require.Len(t, listResp.Sessions, 1)
	require.NotNil(t, listResp.Sessions[0].Brief)
	assert.Equal(t, "Acme Corp", listResp.Sessions[0].Brief.CompanyName)
}

func TestRouter_OutreachSessions_MissingBriefID(t *testing.T) {
	router := buildRouter(newTestEnv(t))

	rr := doJSON(t, router, http.MethodPost, "/api/outreach/sessions", "user-1", map[string]any{})
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestRouter_OutreachSessions_ListRequiresUser(t *testing.T) {
	router := buildRouter(newTestEnv(t))

	rr := doJSON(t, router, http.MethodGet, "/api/outreach/sessions", "", nil)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestRouter_Metrics(t *testing.T) {
	router := buildRouter(newTestEnv(t))
	createTestBrief(t, router, "user-1")

	rr := doJSON(t, router, http.MethodGet, "/metrics", "", nil)
	require.Equal(t, http.StatusOK, rr.Code)

	var snap monitoring.MetricsSnapshot
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &snap))
	assert.Equal(t, 1, snap.BriefTotal)
	assert.Equal(t, 1, snap.NewsMock)

	rr = doJSON(t, router, http.MethodGet, "/metrics?lookback_hours=bogus", "", nil)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}
