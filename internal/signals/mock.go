package signals

import (
	"fmt"
	"math/rand/v2"
	"strings"
	"sync"
	"time"

	"github.com/pitchintel/brief-cli/internal/model"
)

var (
	mockRoles = []string{
		"Senior Software Engineer", "Product Manager", "Data Scientist",
		"DevOps Engineer", "UX Designer",
	}
	mockLocations = []string{
		"San Francisco, CA", "New York, NY", "Remote", "Seattle, WA", "Austin, TX",
	}
)

// MockGenerator fabricates plausible signal records for the degraded-fetch
// path. Randomness is seeded so tests can pin the output. One generator is
// shared across requests, so the RNG is guarded by a mutex.
type MockGenerator struct {
	mu  sync.Mutex
	rnd *rand.Rand
	now func() time.Time
}

// NewMockGenerator creates a generator seeded from the given value.
func NewMockGenerator(seed uint64) *MockGenerator {
	return &MockGenerator{
		rnd: rand.New(rand.NewPCG(seed, seed)),
		now: time.Now,
	}
}

// News fabricates recent articles referencing the company.
func (g *MockGenerator) News(companyName string) []model.NewsItem {
	g.mu.Lock()
	defer g.mu.Unlock()

	slug := strings.Join(strings.Fields(strings.ToLower(companyName)), "-")
	return []model.NewsItem{
		{
			Title:         companyName + " announces strategic expansion plans",
			Description:   companyName + " has unveiled comprehensive growth initiatives focusing on market expansion and technology advancement.",
			URL:           "https://example.com/news/" + slug,
			PublishedAt:   g.pastTime(7 * 24 * time.Hour),
			Source:        "TechCrunch",
			SourceFavicon: "https://techcrunch.com/favicon.ico",
		},
		{
			Title:         companyName + " secures significant funding round",
			Description:   "The company raised substantial investment to accelerate product development and team expansion.",
			URL:           "https://example.com/funding/" + slug,
			PublishedAt:   g.pastTime(14 * 24 * time.Hour),
			Source:        "VentureBeat",
			SourceFavicon: "https://venturebeat.com/favicon.ico",
		},
	}
}

// Jobs fabricates open roles at the company.
func (g *MockGenerator) Jobs(companyName string) []model.JobSignal {
	g.mu.Lock()
	defer g.mu.Unlock()

	jobs := make([]model.JobSignal, 0, len(mockRoles))
	for _, role := range mockRoles {
		jobs = append(jobs, model.JobSignal{
			Title:       role,
			Company:     companyName,
			Location:    mockLocations[g.rnd.IntN(len(mockLocations))],
			PostedDate:  g.pastTime(30 * 24 * time.Hour),
			Description: fmt.Sprintf("Join our growing team as a %s. We're looking for talented individuals to help build scalable solutions.", role),
			Salary:      fmt.Sprintf("$%dk - $%dk", 100+g.rnd.IntN(100), 150+g.rnd.IntN(100)),
		})
	}
	return jobs
}

// pastTime must be called with g.mu held.
func (g *MockGenerator) pastTime(window time.Duration) string {
	offset := time.Duration(g.rnd.Int64N(int64(window)))
	return g.now().Add(-offset).UTC().Format(time.RFC3339)
}
