// Package draft generates outreach message drafts from a stored brief using
// the Groq chat completion API.
package draft

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/pitchintel/brief-cli/internal/model"
	"github.com/pitchintel/brief-cli/internal/store"
	"github.com/pitchintel/brief-cli/pkg/groq"
)

// Type selects the outreach channel and framing for a draft.
type Type string

const (
	TypeEmail    Type = "email"
	TypeDM       Type = "dm"
	TypeFollowup Type = "followup"
	TypeRebuttal Type = "rebuttal"
)

// Valid reports whether t is one of the supported draft types.
func (t Type) Valid() bool {
	switch t {
	case TypeEmail, TypeDM, TypeFollowup, TypeRebuttal:
		return true
	}
	return false
}

// Request identifies the brief and framing for one draft generation.
type Request struct {
	BriefID     string `json:"brief_id"`
	Type        Type   `json:"draft_type"`
	LastOutcome string `json:"last_outcome,omitempty"`
}

// Result is the generated draft plus the model's reasoning.
type Result struct {
	Draft       string `json:"draft"`
	Explanation string `json:"explanation"`
}

// Generator produces drafts by interpolating a stored brief into a
// type-specific prompt. Unlike signal fetching there is no mock fallback:
// provider failures surface to the caller.
type Generator struct {
	client groq.Client
	store  store.Store
}

// NewGenerator creates a Generator. A nil client means draft generation is
// unconfigured and every call fails.
func NewGenerator(client groq.Client, st store.Store) *Generator {
	return &Generator{client: client, store: st}
}

// Generate loads the brief (owner-scoped when owner is non-empty), builds the
// prompt for the requested type and asks Groq for a draft.
func (g *Generator) Generate(ctx context.Context, req Request, owner string) (*Result, error) {
	if !req.Type.Valid() {
		return nil, eris.Errorf("draft: unknown draft type %q", req.Type)
	}

	brief, err := g.store.GetBrief(ctx, req.BriefID, owner)
	if err != nil {
		return nil, eris.Wrap(err, "draft: load brief")
	}
	if brief == nil {
		return nil, eris.Errorf("draft: brief not found: %s", req.BriefID)
	}

	if g.client == nil {
		return nil, eris.New("draft: groq api key not configured")
	}

	temperature := 0.7
	maxTokens := 1000
	resp, err := g.client.ChatCompletion(ctx, groq.ChatCompletionRequest{
		Messages:    []groq.Message{{Role: "user", Content: buildPrompt(req.Type, brief, req.LastOutcome)}},
		Temperature: &temperature,
		MaxTokens:   &maxTokens,
	})
	if err != nil {
		return nil, eris.Wrap(err, "draft: chat completion")
	}
	if len(resp.Choices) == 0 || strings.TrimSpace(resp.Choices[0].Message.Content) == "" {
		return nil, eris.New("draft: empty completion")
	}

	result := parseResult(resp.Choices[0].Message.Content)
	zap.L().Debug("draft: generated",
		zap.String("brief_id", req.BriefID),
		zap.String("type", string(req.Type)),
		zap.Int("draft_len", len(result.Draft)),
	)
	return result, nil
}

func buildPrompt(t Type, b *model.Brief, lastOutcome string) string {
	website := b.Website
	if website == "" {
		website = "N/A"
	}

	switch t {
	case TypeEmail:
		return fmt.Sprintf(`Generate a professional B2B sales email draft based on this brief:

Company: %s
Website: %s
User Intent: %s
Summary: %s
Pitch Angle: %s
What NOT to pitch: %s
Signal Tag: %s

Create a personalized email that:
1. Uses the signal tag as conversation starter
2. Follows the pitch angle
3. Avoids what NOT to pitch
4. Includes a clear call-to-action
5. Sounds natural and human

Format the response as JSON with "draft" and "explanation" fields.`,
			b.CompanyName, website, b.UserIntent, b.Summary, b.PitchAngle, b.WhatNotToPitch, b.SignalTag)

	case TypeDM:
		return fmt.Sprintf(`Generate a LinkedIn DM based on this brief:

Company: %s
Website: %s
User Intent: %s
Summary: %s
Pitch Angle: %s
Signal Tag: %s

Create a short, engaging LinkedIn message that:
1. References the signal tag naturally
2. Follows the pitch angle
3. Feels personal, not salesy
4. Has a soft ask or question
5. Is under 100 words

Format the response as JSON with "draft" and "explanation" fields.`,
			b.CompanyName, website, b.UserIntent, b.Summary, b.PitchAngle, b.SignalTag)

	case TypeFollowup:
		if lastOutcome == "" {
			lastOutcome = "No response"
		}
		return fmt.Sprintf(`Generate a follow-up message based on this context:

Company: %s
Original Pitch Angle: %s
Last Outcome: %s

Create a follow-up that:
1. Acknowledges the previous message
2. Adds new value or angle
3. Handles common objections
4. Has a different call-to-action
5. Maintains professionalism

Format the response as JSON with "draft" and "explanation" fields.`,
			b.CompanyName, b.PitchAngle, lastOutcome)

	default: // TypeRebuttal
		if lastOutcome == "" {
			lastOutcome = "Generic objection"
		}
		return fmt.Sprintf(`Generate a rebuttal/objection handler based on this context:

Company: %s
Original Pitch Angle: %s
Objection/Outcome: %s

Create a response that:
1. Acknowledges their concern
2. Provides social proof or case study
3. Reframes the value proposition
4. Offers a low-commitment next step
5. Remains respectful and helpful

Format the response as JSON with "draft" and "explanation" fields.`,
			b.CompanyName, b.PitchAngle, lastOutcome)
	}
}

// parseResult extracts {draft, explanation} from the completion, stripping
// markdown code fences. Non-JSON content becomes the draft verbatim.
func parseResult(content string) *Result {
	text := strings.TrimSpace(content)
	if strings.HasPrefix(text, "```") {
		lines := strings.Split(text, "\n")
		endIdx := len(lines) - 1
		for i := len(lines) - 1; i > 0; i-- {
			if strings.TrimSpace(lines[i]) == "```" {
				endIdx = i
				break
			}
		}
		text = strings.Join(lines[1:endIdx], "\n")
	}

	var r Result
	if err := json.Unmarshal([]byte(text), &r); err != nil || r.Draft == "" {
		return &Result{
			Draft:       content,
			Explanation: "AI-generated draft based on your brief insights",
		}
	}
	return &r
}
