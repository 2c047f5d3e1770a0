package services

import (
	"strings"
)

// EscalationCategory names why a message needs a human
type EscalationCategory string

const (
	CategoryNone          EscalationCategory = ""
	CategoryHumanRequest  EscalationCategory = "explicit-human-request"
	CategoryMedicalSignal EscalationCategory = "medical-signal"
)

// EscalationRule maps one category to its lowercase keywords
type EscalationRule struct {
	Category EscalationCategory
	Keywords []string
}

// DefaultEscalationRules is checked in order; the first matching rule wins
var DefaultEscalationRules = []EscalationRule{
	{
		Category: CategoryHumanRequest,
		Keywords: []string{"pharmacist", "doctor", "human", "insaan", "connect", "baat karo"},
	},
	{
		Category: CategoryMedicalSignal,
		Keywords: []string{"bimar", "dawai", "parchi", "pain", "dosage", "urgent", "khurak"},
	},
}

// EscalationPolicy decides whether free text should go to a pharmacist
type EscalationPolicy struct {
	rules []EscalationRule
}

// NewEscalationPolicy builds a policy; keywords are matched case-insensitively
func NewEscalationPolicy(rules []EscalationRule) *EscalationPolicy {
	normalized := make([]EscalationRule, 0, len(rules))
	for _, r := range rules {
		kw := make([]string, 0, len(r.Keywords))
		for _, k := range r.Keywords {
			if k = strings.ToLower(strings.TrimSpace(k)); k != "" {
				kw = append(kw, k)
			}
		}
		normalized = append(normalized, EscalationRule{Category: r.Category, Keywords: kw})
	}
	return &EscalationPolicy{rules: normalized}
}

// Classify returns the first category whose keyword occurs in the utterance
func (p *EscalationPolicy) Classify(utterance string) EscalationCategory {
	text := strings.ToLower(utterance)
	for _, rule := range p.rules {
		for _, kw := range rule.Keywords {
			if strings.Contains(text, kw) {
				return rule.Category
			}
		}
	}
	return CategoryNone
}

// ShouldEscalate reports whether any rule matches
func (p *EscalationPolicy) ShouldEscalate(utterance string) bool {
	return p.Classify(utterance) != CategoryNone
}
