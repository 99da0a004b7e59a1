package repository

import (
	emaildomain "inboxtriage-backend/internal/email/domain"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// MeetingNoteRepository stores derived meeting notes, unique per
// (user_id, meeting_text).
type MeetingNoteRepository interface {
	// InsertIfAbsent stores a note unless identical derived text already
	// exists for the user, in which case the existing row is returned
	// unchanged.
	InsertIfAbsent(userID, meetingText string) (*emaildomain.MeetingNote, error)
	// List returns the user's notes ordered by meeting_text.
	List(userID string) ([]*emaildomain.MeetingNote, error)
}

// meetingNoteRepository implements MeetingNoteRepository interface
type meetingNoteRepository struct {
	db *gorm.DB
}

// NewMeetingNoteRepository creates a new instance of meetingNoteRepository
func NewMeetingNoteRepository(db *gorm.DB) MeetingNoteRepository {
	return &meetingNoteRepository{
		db: db,
	}
}

func (r *meetingNoteRepository) InsertIfAbsent(userID, meetingText string) (*emaildomain.MeetingNote, error) {
	var note emaildomain.MeetingNote
	result := r.db.Where("user_id = ? AND meeting_text = ?", userID, meetingText).Attrs(emaildomain.MeetingNote{
		ID:          uuid.New().String(),
		UserID:      userID,
		MeetingText: meetingText,
		Note:        "",
	}).FirstOrCreate(&note)
	if result.Error != nil {
		return nil, result.Error
	}
	return &note, nil
}

func (r *meetingNoteRepository) List(userID string) ([]*emaildomain.MeetingNote, error) {
	var notes []*emaildomain.MeetingNote
	err := r.db.Where("user_id = ?", userID).Order("meeting_text").Find(&notes).Error
	if err != nil {
		return nil, err
	}
	return notes, nil
}
