package store

import (
	"encoding/json"

	"github.com/rotisserie/eris"

	"github.com/pitchintel/brief-cli/internal/model"
)

// briefDocs holds the JSON-encoded document columns of a brief row, shared
// by both backends. Postgres binds them as JSONB, SQLite as TEXT.
type briefDocs struct {
	News      []byte
	Jobs      []byte
	Stack     []byte
	StackData []byte
	Tone      []byte
	Sources   []byte
}

// encodeBriefDocs marshals the document columns. Nil slices encode as empty
// JSON arrays so rows never carry SQL-visible nulls.
func encodeBriefDocs(b model.Brief) (briefDocs, error) {
	if b.News == nil {
		b.News = []model.NewsItem{}
	}
	if b.JobSignals == nil {
		b.JobSignals = []model.JobSignal{}
	}
	if b.TechStack == nil {
		b.TechStack = []string{}
	}
	if b.TechStackData == nil {
		b.TechStackData = []model.TechStackItem{}
	}

	var d briefDocs
	var err error
	if d.News, err = json.Marshal(b.News); err != nil {
		return d, eris.Wrap(err, "store: marshal news")
	}
	if d.Jobs, err = json.Marshal(b.JobSignals); err != nil {
		return d, eris.Wrap(err, "store: marshal job signals")
	}
	if d.Stack, err = json.Marshal(b.TechStack); err != nil {
		return d, eris.Wrap(err, "store: marshal tech stack")
	}
	if d.StackData, err = json.Marshal(b.TechStackData); err != nil {
		return d, eris.Wrap(err, "store: marshal tech stack data")
	}
	if d.Tone, err = json.Marshal(b.ToneInsights); err != nil {
		return d, eris.Wrap(err, "store: marshal tone insights")
	}
	if d.Sources, err = json.Marshal(b.IntelligenceSources); err != nil {
		return d, eris.Wrap(err, "store: marshal intelligence sources")
	}
	return d, nil
}

// decodeBriefDocs unmarshals the document columns back into the brief.
func decodeBriefDocs(b *model.Brief, d briefDocs) error {
	if err := json.Unmarshal(d.News, &b.News); err != nil {
		return eris.Wrap(err, "store: unmarshal news")
	}
	if err := json.Unmarshal(d.Jobs, &b.JobSignals); err != nil {
		return eris.Wrap(err, "store: unmarshal job signals")
	}
	if err := json.Unmarshal(d.Stack, &b.TechStack); err != nil {
		return eris.Wrap(err, "store: unmarshal tech stack")
	}
	if err := json.Unmarshal(d.StackData, &b.TechStackData); err != nil {
		return eris.Wrap(err, "store: unmarshal tech stack data")
	}
	if err := json.Unmarshal(d.Tone, &b.ToneInsights); err != nil {
		return eris.Wrap(err, "store: unmarshal tone insights")
	}
	if err := json.Unmarshal(d.Sources, &b.IntelligenceSources); err != nil {
		return eris.Wrap(err, "store: unmarshal intelligence sources")
	}
	return nil
}

// briefUpdateColumns maps the overwritable derived fields to their columns,
// in a fixed order so generated SQL is deterministic.
func briefUpdateColumns(u model.BriefUpdate) ([]string, []any) {
	var cols []string
	var vals []any
	add := func(col string, v *string) {
		if v != nil {
			cols = append(cols, col)
			vals = append(vals, *v)
		}
	}
	add("summary", u.Summary)
	add("pitch_angle", u.PitchAngle)
	add("subject_line", u.SubjectLine)
	add("what_not_to_pitch", u.WhatNotToPitch)
	add("signal_tag", u.SignalTag)
	add("hiring_trends", u.HiringTrends)
	add("news_trends", u.NewsTrends)
	return cols, vals
}
