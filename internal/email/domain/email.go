package domain

import "time"

// Email is one ingested message. ID is the provider-assigned message id and
// doubles as the dedup key: inserting an id that is already stored is a no-op.
// Rows are never mutated after creation except for Processed, which is
// reserved for pipeline-stage tracking.
type Email struct {
	ID        string     `json:"id" gorm:"primaryKey"`
	UserID    string     `json:"user_id" gorm:"index;not null"`
	Subject   string     `json:"subject"`
	Sender    string     `json:"sender"`
	Date      *time.Time `json:"date"`
	Snippet   string     `json:"snippet" gorm:"type:text"`
	Processed bool       `json:"processed" gorm:"default:false"`
}

// TableName specifies the table name for GORM
func (Email) TableName() string {
	return "emails"
}

// RawMessage is a message exactly as a MailboxSource returned it, before the
// Date header has been parsed.
type RawMessage struct {
	ID      string `json:"id"`
	Subject string `json:"subject"`
	From    string `json:"from"`
	Date    string `json:"date"`
	Snippet string `json:"snippet"`
}
