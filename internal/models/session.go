package models

import "time"

// Step is the position of a session inside the order collection flow
type Step string

const (
	StepIdle            Step = "idle"
	StepAwaitingPhone   Step = "awaiting_phone"
	StepAwaitingName    Step = "awaiting_name"
	StepAwaitingEmail   Step = "awaiting_email"
	StepAwaitingAddress Step = "awaiting_address"
	StepComplete        Step = "complete"
)

// Collecting reports whether the step belongs to the middle of the flow.
// Only collecting sessions are ever kept in a session store.
func (s Step) Collecting() bool {
	switch s {
	case StepAwaitingPhone, StepAwaitingName, StepAwaitingEmail, StepAwaitingAddress:
		return true
	}
	return false
}

// CollectedData is the partial profile gathered so far
type CollectedData struct {
	Phone    string  `json:"phone,omitempty"`
	FullName string  `json:"full_name,omitempty"`
	Email    *string `json:"email,omitempty"`
	Address  *string `json:"address,omitempty"`
}

// Session holds the conversation state for one Dialogflow session
type Session struct {
	Key       string        `json:"session_key"`
	Step      Step          `json:"step"`
	Data      CollectedData `json:"data"`
	StartedAt time.Time     `json:"started_at"`
	UpdatedAt time.Time     `json:"updated_at"`
}

// NewSession starts a fresh collection at the phone step
func NewSession(key string, now time.Time) *Session {
	return &Session{
		Key:       key,
		Step:      StepAwaitingPhone,
		StartedAt: now,
		UpdatedAt: now,
	}
}

// Clone returns a deep copy so callers never share pointers with a store
func (s *Session) Clone() *Session {
	if s == nil {
		return nil
	}
	c := *s
	if s.Data.Email != nil {
		email := *s.Data.Email
		c.Data.Email = &email
	}
	if s.Data.Address != nil {
		address := *s.Data.Address
		c.Data.Address = &address
	}
	return &c
}
