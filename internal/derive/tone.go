package derive

import (
	"context"
	"math/rand/v2"
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/pitchintel/brief-cli/internal/model"
	"github.com/pitchintel/brief-cli/pkg/twinword"
)

const maxHeadlines = 3

// mockEmotions is the fixed label set used on the degraded path.
var mockEmotions = []string{"joy", "trust", "anticipation", "surprise", "fear", "sadness"}

// ToneAnalyzer derives emotion and sentiment from intent text plus headlines.
// One analyzer is shared across requests, so the mock-path RNG is guarded by
// a mutex.
type ToneAnalyzer struct {
	client twinword.Client
	mu     sync.Mutex
	rnd    *rand.Rand
}

// NewToneAnalyzer creates a tone analyzer. A nil client means the provider is
// not configured and every analysis serves mock insights. The seed pins the
// mock path's emotion pick.
func NewToneAnalyzer(client twinword.Client, seed uint64) *ToneAnalyzer {
	return &ToneAnalyzer{
		client: client,
		rnd:    rand.New(rand.NewPCG(seed, seed)),
	}
}

// Analyze sends the intent text concatenated with the first headlines to the
// emotion provider. It never fails: provider errors are logged and absorbed
// by the mock fallback. The second return reports whether the live provider
// produced the insights.
func (a *ToneAnalyzer) Analyze(ctx context.Context, intent string, news []model.NewsItem) (model.ToneInsights, bool) {
	if a.client == nil {
		zap.L().Debug("tone analysis: provider not configured, using mock data")
		return a.mockTone(), false
	}

	parts := []string{intent}
	for i, n := range news {
		if i >= maxHeadlines {
			break
		}
		parts = append(parts, n.Title)
	}

	resp, err := a.client.Analyze(ctx, strings.Join(parts, " "))
	if err != nil {
		zap.L().Warn("tone analysis degraded", zap.Error(err))
		return a.mockTone(), false
	}
	if len(resp.Emotions) == 0 {
		zap.L().Warn("tone analysis degraded", zap.String("reason", "no emotions detected"))
		return a.mockTone(), false
	}

	insights := model.ToneInsights{
		Emotion:    resp.Emotions[0].Emotion,
		Confidence: resp.Emotions[0].Score,
		Mood:       resp.Mood,
		Sentiment:  model.Sentiment(resp.Sentiment),
	}
	for i, e := range resp.Emotions {
		if i >= 6 {
			break
		}
		insights.Emotions = append(insights.Emotions, model.EmotionScore{Name: e.Emotion, Score: e.Score})
	}
	return insights, true
}

// mockTone fabricates a plausible emotion reading: a pseudo-random primary
// emotion, sentiment derived from its polarity, and a synthesized score
// distribution. Display-only; nothing downstream branches on the scores.
func (a *ToneAnalyzer) mockTone() model.ToneInsights {
	a.mu.Lock()
	defer a.mu.Unlock()

	primary := mockEmotions[a.rnd.IntN(len(mockEmotions))]
	polarity := sentimentFor(primary)

	insights := model.ToneInsights{
		Emotion:    primary,
		Confidence: 0.6 + a.rnd.Float64()*0.4,
		Mood:       string(polarity),
		Sentiment:  polarity,
	}
	for _, name := range mockEmotions {
		score := a.rnd.Float64() * 0.4
		if name == primary {
			score = 0.7 + a.rnd.Float64()*0.3
		}
		insights.Emotions = append(insights.Emotions, model.EmotionScore{Name: name, Score: score})
	}
	return insights
}

func sentimentFor(emotion string) model.Sentiment {
	switch emotion {
	case "joy", "trust":
		return model.SentimentPositive
	case "fear", "sadness":
		return model.SentimentNegative
	default:
		return model.SentimentNeutral
	}
}
