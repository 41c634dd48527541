package signals

import (
	"context"

	"go.uber.org/zap"

	"github.com/pitchintel/brief-cli/internal/model"
	"github.com/pitchintel/brief-cli/pkg/newsdata"
)

// NewsFetcher retrieves recent news articles about a company.
type NewsFetcher struct {
	client   newsdata.Client
	pageSize int
	mock     *MockGenerator
}

// NewNewsFetcher creates a news fetcher. A nil client means the provider is
// not configured and every fetch serves mock data.
func NewNewsFetcher(client newsdata.Client, pageSize int, mock *MockGenerator) *NewsFetcher {
	if pageSize <= 0 {
		pageSize = 10
	}
	return &NewsFetcher{client: client, pageSize: pageSize, mock: mock}
}

// Fetch returns news about the company. It never fails: provider errors are
// logged and absorbed by the mock fallback.
func (f *NewsFetcher) Fetch(ctx context.Context, companyName string) NewsResult {
	if f.client == nil {
		zap.L().Debug("news fetch: provider not configured, using mock data",
			zap.String("company", companyName))
		return NewsResult{Items: f.mock.News(companyName), Source: SourceMock}
	}

	resp, err := f.client.Search(ctx, companyName, f.pageSize)
	if err != nil {
		zap.L().Warn("news fetch degraded",
			zap.String("company", companyName),
			zap.Error(err))
		return NewsResult{Items: f.mock.News(companyName), Source: SourceMock}
	}

	// A response without a results field is malformed; an empty results
	// array is a legitimate live answer.
	if resp.Results == nil {
		zap.L().Warn("news fetch degraded: response missing results",
			zap.String("company", companyName))
		return NewsResult{Items: f.mock.News(companyName), Source: SourceMock}
	}

	items := make([]model.NewsItem, 0, len(resp.Results))
	seen := make(map[string]struct{}, len(resp.Results))
	for _, a := range resp.Results {
		item := model.NewsItem{
			Title:         a.Title,
			Description:   a.Description,
			URL:           a.Link,
			PublishedAt:   a.PubDate,
			Source:        a.SourceID,
			SourceFavicon: "https://www.google.com/s2/favicons?domain=" + a.SourceID,
		}
		// Dedupe by (title, url); first occurrence wins.
		key := item.Title + "|" + item.URL
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		items = append(items, item)
	}

	return NewsResult{Items: items, Source: SourceLive}
}
