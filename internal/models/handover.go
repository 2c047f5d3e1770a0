package models

import "time"

// HandoverFlag marks a conversation for a human pharmacist.
// It is not a lock: repeated escalations overwrite the same row.
type HandoverFlag struct {
	ID         uint      `json:"-" gorm:"primaryKey"`
	SessionKey string    `json:"session_id" gorm:"column:session_id;uniqueIndex;not null"`
	NeedsHuman bool      `json:"needs_human" gorm:"default:false"`
	Phone      *string   `json:"phone"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// TableName matches the conversations table the operator console reads
func (HandoverFlag) TableName() string {
	return "conversations"
}
