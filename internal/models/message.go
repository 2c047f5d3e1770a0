package models

import "time"

// Sender identifies who wrote a logged message
type Sender string

const (
	SenderUser Sender = "user"
	SenderBot  Sender = "bot"
)

// Message is one append-only entry of the conversation log
type Message struct {
	ID         uint      `json:"id" gorm:"primaryKey"`
	SessionKey string    `json:"session_id" gorm:"column:session_id;index;not null"`
	Sender     Sender    `json:"sender" gorm:"not null"`
	Text       string    `json:"text"`
	CreatedAt  time.Time `json:"created_at"`
}

func (Message) TableName() string {
	return "messages"
}
