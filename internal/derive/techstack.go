// Package derive computes secondary signals from the raw fetched data:
// technology-stack inference from job postings and tone analysis from intent
// text plus headlines.
package derive

import (
	_ "embed"
	"sort"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/pitchintel/brief-cli/internal/model"
)

//go:embed vocab.yaml
var vocabYAML []byte

// Keyword is one known technology with its category.
type Keyword struct {
	Name     string `yaml:"name"`
	Category string `yaml:"category"`
}

type vocabFile struct {
	Keywords []Keyword `yaml:"keywords"`
}

// vocabulary is the fixed technology keyword list, in file order.
var vocabulary = loadVocabulary()

func loadVocabulary() []Keyword {
	var f vocabFile
	if err := yaml.Unmarshal(vocabYAML, &f); err != nil {
		panic("derive: parse embedded vocabulary: " + err.Error())
	}
	for i := range f.Keywords {
		if f.Keywords[i].Category == "" {
			f.Keywords[i].Category = "Other"
		}
	}
	return f.Keywords
}

// InferTechStack scans job titles and descriptions for known technology
// keywords and grades each hit by how many jobs mention it. Jobs count once
// per keyword regardless of repeat mentions. Results are sorted by
// descending count (vocabulary order breaks ties) and truncated to topN.
// Pure function of its inputs; detectedAt stamps each item's FirstDetected.
func InferTechStack(jobs []model.JobSignal, topN int, detectedAt time.Time) []model.TechStackItem {
	if topN <= 0 {
		topN = 10
	}

	counts := make(map[string]int, len(vocabulary))
	for _, job := range jobs {
		jobText := strings.ToLower(job.Title + " " + job.Description)
		for _, kw := range vocabulary {
			if strings.Contains(jobText, strings.ToLower(kw.Name)) {
				counts[kw.Name]++
			}
		}
	}

	detected := make([]Keyword, 0, len(counts))
	for _, kw := range vocabulary {
		if counts[kw.Name] > 0 {
			detected = append(detected, kw)
		}
	}
	sort.SliceStable(detected, func(i, j int) bool {
		return counts[detected[i].Name] > counts[detected[j].Name]
	})
	if len(detected) > topN {
		detected = detected[:topN]
	}

	stamp := detectedAt.UTC().Format(time.RFC3339)
	items := make([]model.TechStackItem, 0, len(detected))
	for _, kw := range detected {
		items = append(items, model.TechStackItem{
			Name:          kw.Name,
			Confidence:    confidenceFor(counts[kw.Name]),
			Source:        "Job Analysis",
			Category:      kw.Category,
			FirstDetected: stamp,
		})
	}
	return items
}

func confidenceFor(count int) model.Confidence {
	switch {
	case count > 2:
		return model.ConfidenceHigh
	case count == 2:
		return model.ConfidenceMedium
	default:
		return model.ConfidenceLow
	}
}
