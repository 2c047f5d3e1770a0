package models

import (
	"time"
)

// DefaultCity is stamped on every profile; the pharmacy only delivers in Karachi
const DefaultCity = "Karachi"

// Profile is the customer record produced by a completed order collection.
// Upserts are keyed by phone.
type Profile struct {
	ID        uint      `json:"-" gorm:"primaryKey"`
	Phone     string    `json:"phone" gorm:"uniqueIndex;not null"`
	FullName  string    `json:"full_name"`
	Email     *string   `json:"email"`
	Address   *string   `json:"address"`
	City      string    `json:"city"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName keeps the table name shared with the dashboard
func (Profile) TableName() string {
	return "profiles"
}

// NewProfile builds a profile from data collected in a session
func NewProfile(data CollectedData, now time.Time) *Profile {
	return &Profile{
		Phone:     data.Phone,
		FullName:  data.FullName,
		Email:     data.Email,
		Address:   data.Address,
		City:      DefaultCity,
		UpdatedAt: now,
	}
}
