package storage

import (
	"context"
	"errors"

	"github.com/Ananth-NQI/medeasy-backend/internal/models"
)

// ErrNotFound is returned by lookups that match nothing
var ErrNotFound = errors.New("record not found")

// Store defines the interface for storage operations
type Store interface {
	// Profile operations
	UpsertProfile(ctx context.Context, profile *models.Profile) error
	GetProfileByPhone(ctx context.Context, phone string) (*models.Profile, error)

	// Message log operations
	InsertMessage(ctx context.Context, msg *models.Message) error
	GetMessagesBySession(ctx context.Context, sessionKey string) ([]*models.Message, error)

	// Handover operations
	UpsertHandoverFlag(ctx context.Context, flag *models.HandoverFlag) error
	GetHandoverFlag(ctx context.Context, sessionKey string) (*models.HandoverFlag, error)
	GetPendingHandovers(ctx context.Context) ([]*models.HandoverFlag, error)
}

// UploadTargetProvider hands out one-time upload URLs for prescription photos
type UploadTargetProvider interface {
	CreateUploadTarget(ctx context.Context, path string) (string, error)
}
