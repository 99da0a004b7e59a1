package domain

// MeetingNote is a derived artifact: one meeting summary the model extracted
// from a user's inbox. Unique per (user_id, meeting_text), so re-running the
// pipeline over an overlapping window never duplicates a note. Note is a
// free-text annotation, empty at creation.
type MeetingNote struct {
	ID          string `json:"id" gorm:"primaryKey"`
	UserID      string `json:"user_id" gorm:"uniqueIndex:idx_user_meeting_unique;not null"`
	MeetingText string `json:"meeting_text" gorm:"type:text;uniqueIndex:idx_user_meeting_unique"`
	Note        string `json:"note" gorm:"type:text"`
}

// TableName specifies the table name for GORM
func (MeetingNote) TableName() string {
	return "meeting_notes"
}
