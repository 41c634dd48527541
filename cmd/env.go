package main

import (
	"context"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/pitchintel/brief-cli/internal/derive"
	"github.com/pitchintel/brief-cli/internal/draft"
	"github.com/pitchintel/brief-cli/internal/monitoring"
	"github.com/pitchintel/brief-cli/internal/pipeline"
	"github.com/pitchintel/brief-cli/internal/signals"
	"github.com/pitchintel/brief-cli/internal/store"
	"github.com/pitchintel/brief-cli/pkg/groq"
	"github.com/pitchintel/brief-cli/pkg/jsearch"
	"github.com/pitchintel/brief-cli/pkg/newsdata"
	"github.com/pitchintel/brief-cli/pkg/twinword"
)

// briefEnv holds the initialized store, clients, and pipeline needed by the
// serve/brief/draft commands.
type briefEnv struct {
	Store     store.Store
	Pipeline  *pipeline.Pipeline
	Drafts    *draft.Generator
	Collector *monitoring.Collector
}

// Close releases resources held by the environment.
func (e *briefEnv) Close() {
	if e.Store != nil {
		_ = e.Store.Close()
	}
}

func initStore(ctx context.Context) (store.Store, error) {
	switch cfg.Store.Driver {
	case "sqlite":
		dsn := cfg.Store.DatabaseURL
		if dsn == "" {
			dsn = "pitchintel.db"
		}
		return store.NewSQLite(dsn)
	case "postgres":
		return store.NewPostgres(ctx, cfg.Store.DatabaseURL, &store.PoolConfig{
			MaxConns: cfg.Store.MaxConns,
			MinConns: cfg.Store.MinConns,
		})
	default:
		return nil, eris.Errorf("unsupported store driver: %s", cfg.Store.Driver)
	}
}

// initEnv sets up the store and all provider clients and builds the pipeline.
// Providers without a configured key are left nil; their fetchers degrade to
// mock data. Callers should defer env.Close().
func initEnv(ctx context.Context) (*briefEnv, error) {
	st, err := initStore(ctx)
	if err != nil {
		return nil, err
	}

	if err := st.Migrate(ctx); err != nil {
		_ = st.Close()
		return nil, eris.Wrap(err, "migrate store")
	}

	var newsClient newsdata.Client
	if cfg.NewsData.Key != "" {
		newsClient = newsdata.NewClient(cfg.NewsData.Key, newsdata.WithBaseURL(cfg.NewsData.BaseURL))
	} else {
		zap.L().Debug("PITCHINTEL_NEWSDATA_KEY not set, news fetcher will use mock data")
	}

	var jobsClient jsearch.Client
	if cfg.JSearch.Key != "" {
		jobsClient = jsearch.NewClient(cfg.JSearch.Key, jsearch.WithBaseURL(cfg.JSearch.BaseURL), jsearch.WithHost(cfg.JSearch.Host))
	} else {
		zap.L().Debug("PITCHINTEL_JSEARCH_KEY not set, jobs fetcher will use mock data")
	}

	var toneClient twinword.Client
	if cfg.Twinword.Key != "" {
		toneClient = twinword.NewClient(cfg.Twinword.Key, twinword.WithBaseURL(cfg.Twinword.BaseURL), twinword.WithHost(cfg.Twinword.Host))
	} else {
		zap.L().Debug("PITCHINTEL_TWINWORD_KEY not set, tone analysis will use mock data")
	}

	var groqClient groq.Client
	if cfg.Groq.Key != "" {
		groqClient = groq.NewClient(cfg.Groq.Key, groq.WithBaseURL(cfg.Groq.BaseURL), groq.WithModel(cfg.Groq.Model))
	} else {
		zap.L().Debug("PITCHINTEL_GROQ_KEY not set, draft generation disabled")
	}

	seed := uint64(time.Now().UnixNano())
	news := signals.NewNewsFetcher(newsClient, cfg.Brief.NewsPageSize, signals.NewMockGenerator(seed))
	jobs := signals.NewJobsFetcher(jobsClient, cfg.Brief.JobsLimit, cfg.Brief.DescriptionLimit, signals.NewMockGenerator(seed+1))
	tone := derive.NewToneAnalyzer(toneClient, seed+2)

	return &briefEnv{
		Store:     st,
		Pipeline:  pipeline.New(cfg, st, news, jobs, tone),
		Drafts:    draft.NewGenerator(groqClient, st),
		Collector: monitoring.NewCollector(st),
	}, nil
}
