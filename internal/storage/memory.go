package storage

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/Ananth-NQI/medeasy-backend/internal/models"
)

// MemoryStore holds all data in memory for local runs and tests
type MemoryStore struct {
	profiles  map[string]*models.Profile
	messages  []*models.Message
	handovers map[string]*models.HandoverFlag

	// Mutexes for thread safety
	profileMu  sync.RWMutex
	messageMu  sync.RWMutex
	handoverMu sync.RWMutex

	// Counters for ID generation
	profileCounter  uint
	messageCounter  uint
	handoverCounter uint
}

// NewMemoryStore creates a new in-memory storage
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		profiles:  make(map[string]*models.Profile),
		handovers: make(map[string]*models.HandoverFlag),
	}
}

// Profile operations
func (m *MemoryStore) UpsertProfile(ctx context.Context, profile *models.Profile) error {
	m.profileMu.Lock()
	defer m.profileMu.Unlock()

	now := time.Now()
	if profile.UpdatedAt.IsZero() {
		profile.UpdatedAt = now
	}

	stored := *profile
	if existing, ok := m.profiles[profile.Phone]; ok {
		stored.ID = existing.ID
		stored.CreatedAt = existing.CreatedAt
	} else {
		m.profileCounter++
		stored.ID = m.profileCounter
		stored.CreatedAt = now
	}

	m.profiles[profile.Phone] = &stored
	profile.ID = stored.ID
	profile.CreatedAt = stored.CreatedAt
	return nil
}

func (m *MemoryStore) GetProfileByPhone(ctx context.Context, phone string) (*models.Profile, error) {
	m.profileMu.RLock()
	defer m.profileMu.RUnlock()

	profile, exists := m.profiles[phone]
	if !exists {
		return nil, ErrNotFound
	}
	out := *profile
	return &out, nil
}

// Message log operations
func (m *MemoryStore) InsertMessage(ctx context.Context, msg *models.Message) error {
	m.messageMu.Lock()
	defer m.messageMu.Unlock()

	m.messageCounter++
	stored := *msg
	stored.ID = m.messageCounter
	if stored.CreatedAt.IsZero() {
		stored.CreatedAt = time.Now()
	}

	m.messages = append(m.messages, &stored)
	msg.ID = stored.ID
	msg.CreatedAt = stored.CreatedAt
	return nil
}

func (m *MemoryStore) GetMessagesBySession(ctx context.Context, sessionKey string) ([]*models.Message, error) {
	m.messageMu.RLock()
	defer m.messageMu.RUnlock()

	var out []*models.Message
	for _, msg := range m.messages {
		if msg.SessionKey == sessionKey {
			c := *msg
			out = append(out, &c)
		}
	}
	return out, nil
}

// Handover operations
func (m *MemoryStore) UpsertHandoverFlag(ctx context.Context, flag *models.HandoverFlag) error {
	m.handoverMu.Lock()
	defer m.handoverMu.Unlock()

	now := time.Now()
	existing, ok := m.handovers[flag.SessionKey]
	if !ok {
		m.handoverCounter++
		stored := *flag
		stored.ID = m.handoverCounter
		stored.CreatedAt = now
		stored.UpdatedAt = now
		m.handovers[flag.SessionKey] = &stored
		return nil
	}

	existing.NeedsHuman = flag.NeedsHuman
	if flag.Phone != nil {
		phone := *flag.Phone
		existing.Phone = &phone
	}
	existing.UpdatedAt = now
	return nil
}

func (m *MemoryStore) GetHandoverFlag(ctx context.Context, sessionKey string) (*models.HandoverFlag, error) {
	m.handoverMu.RLock()
	defer m.handoverMu.RUnlock()

	flag, exists := m.handovers[sessionKey]
	if !exists {
		return nil, ErrNotFound
	}
	out := *flag
	return &out, nil
}

func (m *MemoryStore) GetPendingHandovers(ctx context.Context) ([]*models.HandoverFlag, error) {
	m.handoverMu.RLock()
	defer m.handoverMu.RUnlock()

	var pending []*models.HandoverFlag
	for _, flag := range m.handovers {
		if flag.NeedsHuman {
			c := *flag
			pending = append(pending, &c)
		}
	}
	sort.Slice(pending, func(i, j int) bool {
		return pending[i].UpdatedAt.After(pending[j].UpdatedAt)
	})
	return pending, nil
}
