package domain

import "time"

// EmailSync is the per-user incremental fetch checkpoint. LastSync is stored
// in UTC and is monotonically non-decreasing: it only moves after a full
// ingest+derive cycle has completed, so a failed run never skips a window.
type EmailSync struct {
	UserID   string    `json:"user_id" gorm:"primaryKey"`
	LastSync time.Time `json:"last_sync"`
}

// TableName specifies the table name for GORM
func (EmailSync) TableName() string {
	return "email_syncs"
}
