package signals

import (
	"context"
	"fmt"

	"github.com/dustin/go-humanize"
	"go.uber.org/zap"

	"github.com/pitchintel/brief-cli/internal/model"
	"github.com/pitchintel/brief-cli/pkg/jsearch"
)

// JobsFetcher retrieves active job postings attributed to a company.
type JobsFetcher struct {
	client    jsearch.Client
	limit     int
	descLimit int
	mock      *MockGenerator
}

// NewJobsFetcher creates a jobs fetcher. A nil client means the provider is
// not configured and every fetch serves mock data.
func NewJobsFetcher(client jsearch.Client, limit, descLimit int, mock *MockGenerator) *JobsFetcher {
	if limit <= 0 {
		limit = 10
	}
	if descLimit <= 0 {
		descLimit = 200
	}
	return &JobsFetcher{client: client, limit: limit, descLimit: descLimit, mock: mock}
}

// Fetch returns job postings for the company. It never fails: provider errors
// are logged and absorbed by the mock fallback.
func (f *JobsFetcher) Fetch(ctx context.Context, companyName string) JobsResult {
	if f.client == nil {
		zap.L().Debug("jobs fetch: provider not configured, using mock data",
			zap.String("company", companyName))
		return JobsResult{Items: f.mock.Jobs(companyName), Source: SourceMock}
	}

	resp, err := f.client.Search(ctx, companyName)
	if err != nil {
		zap.L().Warn("jobs fetch degraded",
			zap.String("company", companyName),
			zap.Error(err))
		return JobsResult{Items: f.mock.Jobs(companyName), Source: SourceMock}
	}

	// A response without a data field is malformed; an empty data array is a
	// legitimate live answer.
	if resp.Data == nil {
		zap.L().Warn("jobs fetch degraded: response missing data",
			zap.String("company", companyName))
		return JobsResult{Items: f.mock.Jobs(companyName), Source: SourceMock}
	}

	jobs := resp.Data
	if len(jobs) > f.limit {
		jobs = jobs[:f.limit]
	}

	items := make([]model.JobSignal, 0, len(jobs))
	for _, j := range jobs {
		items = append(items, model.JobSignal{
			Title:       j.JobTitle,
			Company:     j.EmployerName,
			Location:    j.JobCity + ", " + j.JobState,
			PostedDate:  j.JobPostedAt,
			Description: truncate(j.Description, f.descLimit),
			Salary:      salaryRange(j.MinSalary, j.MaxSalary),
		})
	}

	return JobsResult{Items: items, Source: SourceLive}
}

// truncate cuts s to limit runes and marks the cut with an ellipsis.
func truncate(s string, limit int) string {
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit]) + "..."
}

// salaryRange formats "$140,000 - $190,000", or empty when either bound is
// missing.
func salaryRange(min, max *float64) string {
	if min == nil || max == nil {
		return ""
	}
	return fmt.Sprintf("$%s - $%s", humanize.Commaf(*min), humanize.Commaf(*max))
}
