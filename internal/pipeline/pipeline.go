// Package pipeline orchestrates brief generation: fetch external signals,
// derive tech stack and tone, compose the narrative, persist exactly one row.
package pipeline

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/pitchintel/brief-cli/internal/compose"
	"github.com/pitchintel/brief-cli/internal/config"
	"github.com/pitchintel/brief-cli/internal/derive"
	"github.com/pitchintel/brief-cli/internal/model"
	"github.com/pitchintel/brief-cli/internal/signals"
	"github.com/pitchintel/brief-cli/internal/store"
)

// Pipeline sequences brief generation end to end. Fetch and derivation
// failures degrade to mock data inside the fetchers/analyzer; only input
// validation and the final persistence write can fail the pipeline.
type Pipeline struct {
	cfg   *config.Config
	store store.Store
	news  *signals.NewsFetcher
	jobs  *signals.JobsFetcher
	tone  *derive.ToneAnalyzer
	now   func() time.Time
}

// New creates a Pipeline with all dependencies.
func New(
	cfg *config.Config,
	st store.Store,
	newsFetcher *signals.NewsFetcher,
	jobsFetcher *signals.JobsFetcher,
	toneAnalyzer *derive.ToneAnalyzer,
) *Pipeline {
	return &Pipeline{
		cfg:   cfg,
		store: st,
		news:  newsFetcher,
		jobs:  jobsFetcher,
		tone:  toneAnalyzer,
		now:   time.Now,
	}
}

// CreateBrief runs the full generation pipeline for one request and persists
// the resulting brief. Validation failures satisfy model.ErrValidation; any
// other error is a persistence failure.
func (p *Pipeline) CreateBrief(ctx context.Context, req model.BriefRequest) (*model.Brief, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	log := zap.L().With(zap.String("company", req.CompanyName))
	log.Info("brief: starting generation")

	logo := logoURL(req.Website)

	// News and jobs are independent; fetch them in parallel. Tone waits on
	// news, tech inference waits on jobs.
	var newsRes signals.NewsResult
	var jobsRes signals.JobsResult
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		newsRes = p.news.Fetch(gctx, req.CompanyName)
		return nil
	})
	g.Go(func() error {
		jobsRes = p.jobs.Fetch(gctx, req.CompanyName)
		return nil
	})
	_ = g.Wait() // fetchers never fail

	tech := derive.InferTechStack(jobsRes.Items, p.cfg.Brief.TechTopN, p.now())
	toneInsights, toneLive := p.tone.Analyze(ctx, req.UserIntent, newsRes.Items)

	narrative := compose.Compose(compose.Input{
		CompanyName:     req.CompanyName,
		UserIntent:      req.UserIntent,
		News:            newsRes.Items,
		Jobs:            jobsRes.Items,
		Tech:            tech,
		Tone:            toneInsights,
		Requester:       req.UserCompany,
		HiringThreshold: p.cfg.Brief.HiringThreshold,
	})

	techNames := make([]string, 0, len(tech))
	for _, t := range tech {
		techNames = append(techNames, t.Name)
	}

	brief := model.Brief{
		UserID:         req.UserID,
		CompanyName:    req.CompanyName,
		Website:        req.Website,
		UserIntent:     req.UserIntent,
		Summary:        narrative.Summary,
		PitchAngle:     narrative.PitchAngle,
		SubjectLine:    narrative.SubjectLine,
		WhatNotToPitch: narrative.WhatNotToPitch,
		SignalTag:      narrative.SignalTag,
		HiringTrends:   hiringTrends(jobsRes.Items),
		NewsTrends:     newsTrends(newsRes.Items, toneInsights),
		CompanyLogo:    logo,
		News:           newsRes.Items,
		JobSignals:     jobsRes.Items,
		TechStack:      techNames,
		TechStackData:  tech,
		ToneInsights:   toneInsights,
		IntelligenceSources: model.IntelligenceSources{
			News:         len(newsRes.Items),
			Jobs:         len(jobsRes.Items),
			Technologies: len(tech),
			NewsLive:     newsRes.Live(),
			JobsLive:     jobsRes.Live(),
			ToneAnalysis: toneInsights.Emotion != "",
			TechAnalysis: len(tech) > 0,
		},
	}

	created, err := p.store.InsertBrief(ctx, brief)
	if err != nil {
		log.Error("brief: save failed", zap.Error(err))
		return nil, eris.Wrap(err, "pipeline: save brief")
	}

	log.Info("brief: created",
		zap.String("id", created.ID),
		zap.String("signal_tag", created.SignalTag),
		zap.Int("news", len(created.News)),
		zap.Int("jobs", len(created.JobSignals)),
		zap.Int("technologies", len(created.TechStackData)),
		zap.Bool("news_live", newsRes.Live()),
		zap.Bool("jobs_live", jobsRes.Live()),
		zap.Bool("tone_live", toneLive),
	)
	return created, nil
}

// logoURL builds a clearbit-style logo URL from the website's hostname.
// Malformed or host-less input yields no logo, never an error.
func logoURL(website string) string {
	if website == "" {
		return ""
	}
	u, err := url.Parse(website)
	if err != nil || u.Hostname() == "" {
		return ""
	}
	domain := strings.TrimPrefix(u.Hostname(), "www.")
	return "https://logo.clearbit.com/" + domain
}

// hiringTrends summarizes role count and distinct locations, where a
// location's first comma-separated segment identifies it.
func hiringTrends(jobs []model.JobSignal) string {
	cities := make(map[string]struct{}, len(jobs))
	for _, j := range jobs {
		city, _, _ := strings.Cut(j.Location, ",")
		cities[city] = struct{}{}
	}
	return fmt.Sprintf("Active hiring: %d roles across %d locations", len(jobs), len(cities))
}

func newsTrends(news []model.NewsItem, tone model.ToneInsights) string {
	sentiment := string(tone.Sentiment)
	if sentiment == "" {
		sentiment = "neutral"
	}
	return fmt.Sprintf("%d recent articles - %s sentiment", len(news), sentiment)
}
