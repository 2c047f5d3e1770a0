package services

import (
	"context"
	"log"
	"time"

	"github.com/Ananth-NQI/medeasy-backend/internal/models"
)

// ProfileWriter persists the profile produced by a finished collection
type ProfileWriter interface {
	UpsertProfile(ctx context.Context, profile *models.Profile) error
}

// Transition is the outcome of feeding one input to a session.
// Session is the next state to keep, or nil when the session must be cleared.
// Profile is set only when the terminal step was reached.
type Transition struct {
	Reply   string
	Session *models.Session
	Profile *models.Profile
}

// Done reports whether the collection finished on this input
func (t Transition) Done() bool {
	return t.Profile != nil
}

// Advance moves a session one step through phone, name, email, address.
// It never mutates the given session. A rejected input returns the session unchanged
// together with a corrective re-prompt.
func Advance(session *models.Session, input string, now time.Time) Transition {
	if session == nil {
		return Transition{}
	}
	next := session.Clone()
	next.UpdatedAt = now

	switch session.Step {
	case models.StepAwaitingPhone:
		phone, ok := ParsePhone(input)
		if !ok {
			return Transition{Reply: InvalidPhoneText, Session: session.Clone()}
		}
		next.Data.Phone = phone
		next.Step = models.StepAwaitingName
		return Transition{Reply: PhoneSavedText(phone), Session: next}

	case models.StepAwaitingName:
		name, ok := ParseName(input)
		if !ok {
			return Transition{Reply: EmptyNameText, Session: session.Clone()}
		}
		next.Data.FullName = name
		next.Step = models.StepAwaitingEmail
		return Transition{Reply: NameSavedText(name), Session: next}

	case models.StepAwaitingEmail:
		next.Data.Email = ParseOptional(input)
		next.Step = models.StepAwaitingAddress
		return Transition{Reply: EmailSavedText, Session: next}

	case models.StepAwaitingAddress:
		next.Data.Address = ParseOptional(input)
		next.Step = models.StepComplete
		return Transition{
			Reply:   ProfileSavedText,
			Profile: models.NewProfile(next.Data, now),
		}
	}

	// Idle or Complete never sit in a store; treat them as no session
	return Transition{}
}

// CollectionFlow applies Advance against a session store and persists finished profiles
type CollectionFlow struct {
	sessions SessionStore
	profiles ProfileWriter
	now      func() time.Time
}

// NewCollectionFlow creates the order collection flow
func NewCollectionFlow(sessions SessionStore, profiles ProfileWriter) *CollectionFlow {
	return &CollectionFlow{
		sessions: sessions,
		profiles: profiles,
		now:      time.Now,
	}
}

// Start begins a fresh collection for key, discarding any progress
func (f *CollectionFlow) Start(key string) string {
	f.sessions.Set(models.NewSession(key, f.now()))
	log.Printf("🛒 Order collection started for %s", key)
	return AskPhoneText
}

// Continue feeds input to the session for key.
// ok is false when no session exists; the caller must take another path.
func (f *CollectionFlow) Continue(ctx context.Context, key, input string) (reply string, ok bool) {
	session, exists := f.sessions.Get(key)
	if !exists {
		return "", false
	}

	t := Advance(session, input, f.now())
	if t.Reply == "" {
		f.sessions.Delete(key)
		return "", false
	}

	if t.Done() {
		if err := f.profiles.UpsertProfile(ctx, t.Profile); err != nil {
			log.Printf("❌ Failed to save profile for %s: %v", t.Profile.Phone, err)
		} else {
			log.Printf("✅ Profile saved for %s", t.Profile.Phone)
		}
		f.sessions.Delete(key)
		return t.Reply, true
	}

	f.sessions.Set(t.Session)
	return t.Reply, true
}

// Phone returns the phone collected so far for key, if any
func (f *CollectionFlow) Phone(key string) *string {
	session, exists := f.sessions.Get(key)
	if !exists || session.Data.Phone == "" {
		return nil
	}
	phone := session.Data.Phone
	return &phone
}
