package model

import (
	"encoding/json"
	"strings"
	"time"

	"github.com/rotisserie/eris"
)

// Confidence grades how strongly a technology signal was detected.
type Confidence string

const (
	ConfidenceHigh   Confidence = "High"
	ConfidenceMedium Confidence = "Medium"
	ConfidenceLow    Confidence = "Low"
)

// Sentiment classifies the overall tone of the collected signals.
type Sentiment string

const (
	SentimentPositive Sentiment = "positive"
	SentimentNegative Sentiment = "negative"
	SentimentNeutral  Sentiment = "neutral"
)

// RequesterCompany is optional context about the company requesting the
// brief, used to personalize the narrative.
type RequesterCompany struct {
	Name             string `json:"name"`
	Industry         string `json:"industry"`
	Product          string `json:"product"`
	ValueProposition string `json:"valueProposition"`
	Website          string `json:"website,omitempty"`
	Goals            string `json:"goals"`
}

// BriefRequest is the caller-supplied input for creating a brief.
type BriefRequest struct {
	CompanyName string            `json:"companyName"`
	Website     string            `json:"website,omitempty"`
	UserIntent  string            `json:"userIntent"`
	UserID      string            `json:"userId,omitempty"`
	UserCompany *RequesterCompany `json:"userCompany,omitempty"`
}

// ErrValidation marks request validation failures.
var ErrValidation = eris.New("validation failed")

// Validate checks required fields. It runs before any network or store calls.
func (r BriefRequest) Validate() error {
	if strings.TrimSpace(r.CompanyName) == "" || strings.TrimSpace(r.UserIntent) == "" {
		return eris.Wrap(ErrValidation, "company name and user intent are required")
	}
	return nil
}

// NewsItem is a single news article about the target company.
type NewsItem struct {
	Title         string `json:"title"`
	Description   string `json:"description"`
	URL           string `json:"url"`
	PublishedAt   string `json:"publishedAt"`
	Source        string `json:"source"`
	SourceFavicon string `json:"sourceFavicon,omitempty"`
}

// JobSignal is a single job posting attributed to the target company.
type JobSignal struct {
	Title       string `json:"title"`
	Company     string `json:"company"`
	Location    string `json:"location"`
	PostedDate  string `json:"postedDate"`
	Description string `json:"description"`
	Salary      string `json:"salary,omitempty"`
}

// TechStackItem is a technology inferred from job postings.
type TechStackItem struct {
	Name          string     `json:"name"`
	Confidence    Confidence `json:"confidence"`
	Source        string     `json:"source"`
	Category      string     `json:"category"`
	FirstDetected string     `json:"firstDetected,omitempty"`
}

// EmotionScore is one (emotion, score) pair from tone analysis.
type EmotionScore struct {
	Name  string  `json:"name"`
	Score float64 `json:"score"`
}

// ToneInsights holds the emotion/sentiment reading for a brief.
type ToneInsights struct {
	Emotion    string         `json:"emotion,omitempty"`
	Confidence float64        `json:"confidence,omitempty"`
	Mood       string         `json:"mood,omitempty"`
	Sentiment  Sentiment      `json:"sentiment,omitempty"`
	Emotions   []EmotionScore `json:"emotions,omitempty"`
}

// IntelligenceSources summarizes which signal sources fed a brief.
type IntelligenceSources struct {
	News         int  `json:"news"`
	Jobs         int  `json:"jobs"`
	Technologies int  `json:"technologies"`
	NewsLive     bool `json:"newsLive"`
	JobsLive     bool `json:"jobsLive"`
	ToneAnalysis bool `json:"toneAnalysis"`
	TechAnalysis bool `json:"techAnalysis"`
}

// Brief is the persisted record summarizing a target company's public
// signals plus the composed outreach narrative.
type Brief struct {
	ID          string `json:"id"`
	UserID      string `json:"userId,omitempty"`
	CompanyName string `json:"companyName"`
	Website     string `json:"website,omitempty"`
	UserIntent  string `json:"userIntent"`

	Summary        string `json:"summary"`
	PitchAngle     string `json:"pitchAngle"`
	SubjectLine    string `json:"subjectLine"`
	WhatNotToPitch string `json:"whatNotToPitch"`
	SignalTag      string `json:"signalTag"`
	HiringTrends   string `json:"hiringTrends"`
	NewsTrends     string `json:"newsTrends"`
	CompanyLogo    string `json:"companyLogo,omitempty"`

	News          []NewsItem      `json:"news"`
	JobSignals    []JobSignal     `json:"jobSignals"`
	TechStack     []string        `json:"techStack"`
	TechStackData []TechStackItem `json:"techStackData"`
	ToneInsights  ToneInsights    `json:"toneInsights"`

	IntelligenceSources IntelligenceSources `json:"intelligenceSources"`
	CreatedAt           time.Time           `json:"createdAt"`
}

// BriefUpdate holds the derived fields an improve/regenerate operation may
// overwrite. Nil fields are left untouched.
type BriefUpdate struct {
	Summary        *string `json:"summary,omitempty"`
	PitchAngle     *string `json:"pitchAngle,omitempty"`
	SubjectLine    *string `json:"subjectLine,omitempty"`
	WhatNotToPitch *string `json:"whatNotToPitch,omitempty"`
	SignalTag      *string `json:"signalTag,omitempty"`
	HiringTrends   *string `json:"hiringTrends,omitempty"`
	NewsTrends     *string `json:"newsTrends,omitempty"`
}

// SessionBrief is the slice of brief columns shown alongside a session
// in listings.
type SessionBrief struct {
	CompanyName string `json:"companyName"`
	Website     string `json:"website,omitempty"`
	SignalTag   string `json:"signalTag"`
}

// OutreachSession is a saved outreach conversation attached to a brief.
type OutreachSession struct {
	ID          string          `json:"id"`
	UserID      string          `json:"user_id"`
	BriefID     string          `json:"brief_id"`
	SessionName string          `json:"session_name"`
	Messages    json.RawMessage `json:"messages"`
	Brief       *SessionBrief   `json:"briefs,omitempty"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}
