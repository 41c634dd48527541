// Package monitoring summarizes stored briefs into a health snapshot for the
// metrics endpoint and the status command.
package monitoring

import (
	"context"
	"time"

	"github.com/rotisserie/eris"

	"github.com/pitchintel/brief-cli/internal/store"
)

// MetricsSnapshot holds a point-in-time view of brief generation health.
type MetricsSnapshot struct {
	// Brief volume (within lookback window).
	BriefTotal int `json:"brief_total"`

	// Live vs mock source counts.
	NewsLive int `json:"news_live"`
	NewsMock int `json:"news_mock"`
	JobsLive int `json:"jobs_live"`
	JobsMock int `json:"jobs_mock"`

	// Derivation coverage.
	ToneAnalyzedRate float64 `json:"tone_analyzed_rate"`
	TechAnalyzedRate float64 `json:"tech_analyzed_rate"`

	// Average signal counts per brief.
	AvgNewsPerBrief float64 `json:"avg_news_per_brief"`
	AvgJobsPerBrief float64 `json:"avg_jobs_per_brief"`
	AvgTechnologies float64 `json:"avg_technologies"`

	// Metadata.
	LookbackHours int       `json:"lookback_hours"`
	CollectedAt   time.Time `json:"collected_at"`
}

// Collector gathers metrics from the store.
type Collector struct {
	store store.Store
}

// NewCollector creates a new metrics collector.
func NewCollector(st store.Store) *Collector {
	return &Collector{store: st}
}

// Collect gathers a snapshot over briefs created within the lookback window.
// A lookback of 0 covers all stored briefs.
func (c *Collector) Collect(ctx context.Context, lookbackHours int) (*MetricsSnapshot, error) {
	snap := &MetricsSnapshot{
		LookbackHours: lookbackHours,
		CollectedAt:   time.Now().UTC(),
	}

	briefs, err := c.store.ListBriefs(ctx, "")
	if err != nil {
		return nil, eris.Wrap(err, "monitoring: list briefs")
	}

	cutoff := time.Time{}
	if lookbackHours > 0 {
		cutoff = time.Now().UTC().Add(-time.Duration(lookbackHours) * time.Hour)
	}

	var toneAnalyzed, techAnalyzed int
	var totalNews, totalJobs, totalTech int
	for _, b := range briefs {
		if !cutoff.IsZero() && b.CreatedAt.Before(cutoff) {
			continue
		}
		snap.BriefTotal++

		src := b.IntelligenceSources
		if src.NewsLive {
			snap.NewsLive++
		} else {
			snap.NewsMock++
		}
		if src.JobsLive {
			snap.JobsLive++
		} else {
			snap.JobsMock++
		}
		if src.ToneAnalysis {
			toneAnalyzed++
		}
		if src.TechAnalysis {
			techAnalyzed++
		}
		totalNews += src.News
		totalJobs += src.Jobs
		totalTech += src.Technologies
	}

	if snap.BriefTotal > 0 {
		n := float64(snap.BriefTotal)
		snap.ToneAnalyzedRate = float64(toneAnalyzed) / n
		snap.TechAnalyzedRate = float64(techAnalyzed) / n
		snap.AvgNewsPerBrief = float64(totalNews) / n
		snap.AvgJobsPerBrief = float64(totalJobs) / n
		snap.AvgTechnologies = float64(totalTech) / n
	}

	return snap, nil
}
