// Package signals retrieves external signals (news, job postings) about a
// target company. Every fetcher is best-effort: provider failures degrade to
// deterministic-shape mock data and are reported through the result's Source
// tag and operator logs, never to the caller.
package signals

import "github.com/pitchintel/brief-cli/internal/model"

// Source tags whether a fetch hit the live provider or fell back to mock data.
type Source string

const (
	SourceLive Source = "live"
	SourceMock Source = "mock"
)

// NewsResult is the outcome of a news fetch.
type NewsResult struct {
	Items  []model.NewsItem
	Source Source
}

// JobsResult is the outcome of a jobs fetch.
type JobsResult struct {
	Items  []model.JobSignal
	Source Source
}

// Live reports whether the result came from the real provider.
func (r NewsResult) Live() bool { return r.Source == SourceLive }

// Live reports whether the result came from the real provider.
func (r JobsResult) Live() bool { return r.Source == SourceLive }
