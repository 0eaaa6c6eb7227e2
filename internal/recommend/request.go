// Package recommend asks a generative model for gift package ideas.
package recommend

import (
	"fmt"
	"strings"
)

// Request holds the concierge parameters chosen by the buyer. Values are free-form text.
type Request struct {
	Occasion       string `json:"occasion" validate:"max=100"`
	Budget         string `json:"budget" validate:"max=50"`
	RecipientCount string `json:"recipientCount" validate:"max=10"`
	Tone           string `json:"tone" validate:"max=50"`
}

// DefaultRequest is what the concierge form starts with.
func DefaultRequest() Request {
	return Request{
		Occasion:       "Holiday Gifting",
		Budget:         "₹5000-₹15000",
		RecipientCount: "25",
		Tone:           "Professional",
	}
}

// WithDefaults fills blank fields from DefaultRequest.
func (r Request) WithDefaults() Request {
	def := DefaultRequest()
	if strings.TrimSpace(r.Occasion) == "" {
		r.Occasion = def.Occasion
	}
	if strings.TrimSpace(r.Budget) == "" {
		r.Budget = def.Budget
	}
	if strings.TrimSpace(r.RecipientCount) == "" {
		r.RecipientCount = def.RecipientCount
	}
	if strings.TrimSpace(r.Tone) == "" {
		r.Tone = def.Tone
	}
	return r
}

const promptTemplate = `You are the Chief Joy Officer for 'Oh My Happiness', a luxury corporate gifting platform.
Your goal is to suggest 3 specific gift packages that maximize positive emotional impact and delight.

Criteria provided:
- Occasion: %s
- Budget: %s per person
- Number of recipients: %s
- Desired Tone: %s

Please provide a professional, warm, and inspiring response.
Format it with clear bullet points.
Each suggestion should include:
1. A creative Name for the gift set.
2. Brief list of contents.
3. A "Happiness Impact" section explaining why this choice specifically will delight the recipients.`

// BuildPrompt renders the model prompt for r.
func BuildPrompt(r Request) string {
	return fmt.Sprintf(promptTemplate, r.Occasion, r.Budget, r.RecipientCount, r.Tone)
}
