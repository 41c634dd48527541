// Package compose assembles the company-facing narrative (summary, pitch
// angle, subject line, anti-pitch warning, signal tag) from the collected and
// derived signals. Everything here is a pure function of its input.
package compose

import (
	"fmt"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/pitchintel/brief-cli/internal/model"
)

var titleCaser = cases.Title(language.English)

// Input carries everything the composer reads. Empty slices and zero values
// are all valid; the composer never fails.
type Input struct {
	CompanyName     string
	UserIntent      string
	News            []model.NewsItem
	Jobs            []model.JobSignal
	Tech            []model.TechStackItem
	Tone            model.ToneInsights
	Requester       *model.RequesterCompany
	HiringThreshold int
}

// Narrative is the composed outreach text.
type Narrative struct {
	Summary        string
	PitchAngle     string
	SubjectLine    string
	WhatNotToPitch string
	SignalTag      string
}

var positiveMarkers = []string{"growth", "funding", "expansion", "partnership"}
var negativeMarkers = []string{"layoffs", "decline", "loss"}

// Compose builds the narrative. Deterministic given deterministic inputs.
func Compose(in Input) Narrative {
	threshold := in.HiringThreshold
	if threshold <= 0 {
		threshold = 5
	}

	hasPositiveNews := anyTitleContains(in.News, positiveMarkers)
	hasNegativeNews := anyTitleContains(in.News, negativeMarkers)
	isActivelyHiring := len(in.Jobs) > threshold

	sentiment := string(in.Tone.Sentiment)
	if sentiment == "" {
		sentiment = "neutral"
	}
	emotion := in.Tone.Emotion
	if emotion == "" {
		emotion = "neutral"
	}

	userContext := "Given your strategic objectives, "
	if in.Requester != nil {
		userContext = fmt.Sprintf("As a %s company offering %s, ", in.Requester.Industry, in.Requester.Product)
	}

	valueAlignment := ""
	if in.Requester != nil && in.Requester.ValueProposition != "" {
		valueAlignment = fmt.Sprintf("Your unique value proposition of %s aligns well with their %s market position. ",
			in.Requester.ValueProposition, sentiment)
	}

	newsMomentum := "stable operations"
	if hasPositiveNews {
		newsMomentum = "positive momentum"
	} else if hasNegativeNews {
		newsMomentum = "market challenges"
	}

	hiringPosture := "selective growth"
	hiringSupport := "operational objectives"
	if isActivelyHiring {
		hiringPosture = "aggressive expansion"
		hiringSupport = "scaling initiatives"
	}

	opportunity := fmt.Sprintf(
		"%s%s presents a compelling strategic opportunity with %s market sentiment and %s emotional positioning. Their %d recent news mentions indicate %s, while %d active job postings suggest %s.",
		userContext, in.CompanyName, sentiment, emotion, len(in.News), newsMomentum, len(in.Jobs), hiringPosture)

	timing := fmt.Sprintf(
		"%sthe strategic timing for engaging %s is exceptionally favorable. Their %s sentiment combined with %s emotional state creates receptiveness to partnerships that support their %s.",
		userContext, in.CompanyName, sentiment, emotion, hiringSupport)

	warning := composeWarning(in, userContext, sentiment, emotion, isActivelyHiring, hasNegativeNews)

	tagPosture := "Strategic Growth"
	if isActivelyHiring {
		tagPosture = "Scaling Operations"
	}
	signalTag := fmt.Sprintf("%s - %s Market Position", tagPosture, titleCaser.String(sentiment))

	// Sentence-level dedup guards against identical blocks repeating in the
	// joined summary; first occurrence wins.
	unique := dedupe([]string{opportunity, timing, warning, signalTag})

	summary := strings.Join(unique, " ") +
		" The timing appears optimal for strategic engagement based on their current trajectory and market positioning."

	pitchAngle := timing + " "
	if in.Requester != nil {
		pitchAngle += fmt.Sprintf("Your %s directly addresses their expansion needs, particularly given their %d active hiring positions. ",
			in.Requester.Product, len(in.Jobs))
	}
	pitchAngle += valueAlignment
	pitchAngle += fmt.Sprintf(
		"The convergence of their market position, emotional readiness, and operational scaling creates an ideal window for %s. Their %d recent news mentions and hiring patterns suggest they're actively seeking solutions that align with your strategic offering.",
		in.UserIntent, len(in.News))

	return Narrative{
		Summary:        summary,
		PitchAngle:     pitchAngle,
		SubjectLine:    composeSubject(in, hasPositiveNews),
		WhatNotToPitch: warning,
		SignalTag:      signalTag,
	}
}

func composeWarning(in Input, userContext, sentiment, emotion string, isActivelyHiring, hasNegativeNews bool) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%savoid approaches that contradict %s's current %s sentiment and %s emotional state. ",
		userContext, in.CompanyName, sentiment, emotion)

	if isActivelyHiring {
		b.WriteString("Never pitch cost-reduction or efficiency-only solutions during their expansion phase. ")
	} else {
		b.WriteString("Avoid aggressive scaling pitches if they're in maintenance mode. ")
	}
	if hasNegativeNews {
		b.WriteString("Be sensitive to recent market challenges and avoid highlighting competitive threats. ")
	}
	if in.Requester != nil {
		fmt.Fprintf(&b, "Don't position your %s as a replacement for their existing systems without acknowledging their current %s market approach. ",
			in.Requester.Product, sentiment)
	}
	fmt.Fprintf(&b, "Avoid generic pitches that ignore their specific %d recent developments, %d hiring signals, and %s emotional positioning. Never underestimate their strategic sophistication or current market intelligence.",
		len(in.News), len(in.Jobs), emotion)
	return b.String()
}

func composeSubject(in Input, hasPositiveNews bool) string {
	if in.Requester != nil {
		s := fmt.Sprintf("Strategic Partnership: %s + %s", in.Requester.Name, in.CompanyName)
		if hasPositiveNews {
			s += " - Perfect Timing"
		}
		return s
	}
	s := fmt.Sprintf("Strategic Partnership Opportunity for %s", in.CompanyName)
	if hasPositiveNews {
		s += " - Capitalizing on Growth"
	}
	return s
}

func anyTitleContains(news []model.NewsItem, markers []string) bool {
	for _, n := range news {
		title := strings.ToLower(n.Title)
		for _, m := range markers {
			if strings.Contains(title, m) {
				return true
			}
		}
	}
	return false
}

func dedupe(candidates []string) []string {
	seen := make(map[string]struct{}, len(candidates))
	out := make([]string, 0, len(candidates))
	for _, c := range candidates {
		if _, ok := seen[c]; ok {
			continue
		}
		seen[c] = struct{}{}
		out = append(out, c)
	}
	return out
}
