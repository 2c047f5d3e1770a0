package services

import (
	"strings"

	"github.com/Ananth-NQI/medeasy-backend/internal/models"
)

// Reply is what a handler wants to say: ordered text segments plus quick replies
type Reply struct {
	Texts       []string `json:"texts"`
	Suggestions []string `json:"suggestions,omitempty"`
}

// NewReply builds a reply from text segments, dropping empty ones
func NewReply(texts ...string) Reply {
	r := Reply{}
	for _, t := range texts {
		if t != "" {
			r.Texts = append(r.Texts, t)
		}
	}
	return r
}

// WithSuggestions returns a copy of r with quick replies appended
func (r Reply) WithSuggestions(labels ...string) Reply {
	out := Reply{
		Texts:       append([]string(nil), r.Texts...),
		Suggestions: append([]string(nil), r.Suggestions...),
	}
	for _, l := range labels {
		if l != "" {
			out.Suggestions = append(out.Suggestions, l)
		}
	}
	return out
}

// Text joins all segments, the form written to the message log
func (r Reply) Text() string {
	return strings.Join(r.Texts, "\n\n")
}

// ToDialogflow renders the reply as a fulfillment response.
// Each text segment becomes its own message; suggestions follow as one quick-replies card.
func (r Reply) ToDialogflow() models.WebhookResponse {
	resp := models.WebhookResponse{
		FulfillmentText:     r.Text(),
		FulfillmentMessages: make([]models.FulfillmentMessage, 0, len(r.Texts)+1),
	}
	for _, t := range r.Texts {
		resp.FulfillmentMessages = append(resp.FulfillmentMessages, models.FulfillmentMessage{
			Text: &models.TextMessage{Text: []string{t}},
		})
	}
	if len(r.Suggestions) > 0 {
		resp.FulfillmentMessages = append(resp.FulfillmentMessages, models.FulfillmentMessage{
			QuickReplies: &models.QuickReplies{QuickReplies: append([]string(nil), r.Suggestions...)},
		})
	}
	return resp
}
