// Package domain defines the core persistence models for the application.
// These types are used by GORM for database schema mapping and are shared
// across the repository and service layers.
package domain

import "time"

// EmailReceipt represents a recorded outcome of a previously delivered
// notification email, keyed by (recipient, template_id, key). It enables safe
// retries of POST /send-email: a replayed request with the same
// Idempotency-Key returns the original outcome instead of sending the
// notification a second time.
type EmailReceipt struct {
	ID         string    `gorm:"type:TEXT NOT NULL;primaryKey"`
	Recipient  string    `gorm:"type:TEXT NOT NULL;uniqueIndex:ux_recipient_template_key,priority:1"`
	TemplateID string    `gorm:"type:TEXT NOT NULL;uniqueIndex:ux_recipient_template_key,priority:2"`
	Key        string    `gorm:"type:TEXT NOT NULL;uniqueIndex:ux_recipient_template_key,priority:3"`
	Status     int       `gorm:"type:INTEGER NOT NULL"`
	CreatedAt  time.Time `gorm:"type:DATETIME NOT NULL;autoCreateTime"`
	ExpiresAt  time.Time `gorm:"type:DATETIME NOT NULL;index"`
}

// TableName implements the GORM tabler interface.
func (EmailReceipt) TableName() string { return "email_receipts" }
