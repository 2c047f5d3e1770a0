package storage

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/Ananth-NQI/medeasy-backend/internal/models"
)

// DatabaseStore implements Store on top of gorm (Postgres in production, SQLite locally)
type DatabaseStore struct {
	db *gorm.DB
}

// NewDatabaseStore creates a store backed by an open gorm connection
func NewDatabaseStore(db *gorm.DB) *DatabaseStore {
	return &DatabaseStore{db: db}
}

// AutoMigrate creates or updates the tables used by the store
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.Profile{},
		&models.Message{},
		&models.HandoverFlag{},
	)
}

// Profile operations
func (d *DatabaseStore) UpsertProfile(ctx context.Context, profile *models.Profile) error {
	err := d.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "phone"}},
		DoUpdates: clause.AssignmentColumns([]string{"full_name", "email", "address", "city", "updated_at"}),
	}).Create(profile).Error
	if err != nil {
		return fmt.Errorf("upsert profile %s: %w", profile.Phone, err)
	}
	return nil
}

func (d *DatabaseStore) GetProfileByPhone(ctx context.Context, phone string) (*models.Profile, error) {
	var profile models.Profile
	err := d.db.WithContext(ctx).Where("phone = ?", phone).First(&profile).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get profile %s: %w", phone, err)
	}
	return &profile, nil
}

// Message log operations
func (d *DatabaseStore) InsertMessage(ctx context.Context, msg *models.Message) error {
	if err := d.db.WithContext(ctx).Create(msg).Error; err != nil {
		return fmt.Errorf("insert message for %s: %w", msg.SessionKey, err)
	}
	return nil
}

func (d *DatabaseStore) GetMessagesBySession(ctx context.Context, sessionKey string) ([]*models.Message, error) {
	var messages []*models.Message
	err := d.db.WithContext(ctx).
		Where("session_id = ?", sessionKey).
		Order("created_at asc, id asc").
		Find(&messages).Error
	if err != nil {
		return nil, fmt.Errorf("get messages for %s: %w", sessionKey, err)
	}
	return messages, nil
}

// Handover operations
func (d *DatabaseStore) UpsertHandoverFlag(ctx context.Context, flag *models.HandoverFlag) error {
	// A later escalation without a known phone must not wipe the one we already have
	updates := []string{"needs_human", "updated_at"}
	if flag.Phone != nil {
		updates = append(updates, "phone")
	}

	err := d.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "session_id"}},
		DoUpdates: clause.AssignmentColumns(updates),
	}).Create(flag).Error
	if err != nil {
		return fmt.Errorf("upsert handover flag for %s: %w", flag.SessionKey, err)
	}
	return nil
}

func (d *DatabaseStore) GetHandoverFlag(ctx context.Context, sessionKey string) (*models.HandoverFlag, error) {
	var flag models.HandoverFlag
	err := d.db.WithContext(ctx).Where("session_id = ?", sessionKey).First(&flag).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get handover flag for %s: %w", sessionKey, err)
	}
	return &flag, nil
}

func (d *DatabaseStore) GetPendingHandovers(ctx context.Context) ([]*models.HandoverFlag, error) {
	var flags []*models.HandoverFlag
	err := d.db.WithContext(ctx).
		Where("needs_human = ?", true).
		Order("updated_at desc").
		Find(&flags).Error
	if err != nil {
		return nil, fmt.Errorf("get pending handovers: %w", err)
	}
	return flags, nil
}
