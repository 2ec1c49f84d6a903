package domain

import "time"

// Message is one persisted chat line. Delivery status is never stored.
type Message struct {
	ID         int64     `json:"id" gorm:"primaryKey"`
	SenderID   string    `json:"sender_id" gorm:"size:36;index;not null"`
	ReceiverID string    `json:"receiver_id" gorm:"size:36;index;not null"`
	Content    string    `json:"content" gorm:"type:text;not null"`
	CreatedAt  time.Time `json:"created_at" gorm:"index"`

	// ClientRef is the sender's temporary id for the line, echoed back on
	// the realtime insert so the sending client can match it.
	ClientRef string `json:"client_ref,omitempty" gorm:"size:36"`
}

func (Message) TableName() string { return "messages" }
