package models

import "time"

// Outbox states.
const (
	OutboxQueued = "queued"
	OutboxSent   = "sent"
)

// EmailOutbox queues outgoing document mails. A separate worker (not part of
// this service) picks up queued rows and performs the actual SMTP delivery.
type EmailOutbox struct {
	ID           uint       `gorm:"primaryKey" json:"id"`
	DocumentType string     `gorm:"not null;index" json:"document_type"` // offer | invoice | reminder
	DocumentID   uint       `gorm:"not null;index" json:"document_id"`
	Recipient    string     `gorm:"not null" json:"recipient"`
	Subject      string     `gorm:"not null" json:"subject"`
	Body         string     `gorm:"type:text" json:"body"`
	Status       string     `gorm:"not null;default:'queued';index" json:"status"`
	QueuedAt     time.Time  `json:"queued_at"`
	SentAt       *time.Time `json:"sent_at,omitempty"`
}
