package repository

import (
	"net/mail"
	"time"

	emaildomain "inboxtriage-backend/internal/email/domain"

	"gorm.io/gorm"
)

// EmailRepository is the durable store for ingested messages.
type EmailRepository interface {
	// InsertIfAbsent stores a fetched message unless its id is already
	// present, in which case the existing row is returned unchanged.
	InsertIfAbsent(userID string, raw emaildomain.RawMessage) (*emaildomain.Email, error)
	// List returns stored messages for a user, non-null dates newest
	// first with undated rows trailing. limit <= 0 means no limit.
	List(userID string, limit int) ([]*emaildomain.Email, error)
}

// emailRepository implements EmailRepository interface
type emailRepository struct {
	db *gorm.DB
}

// NewEmailRepository creates a new instance of emailRepository
func NewEmailRepository(db *gorm.DB) EmailRepository {
	return &emailRepository{
		db: db,
	}
}

// InsertIfAbsent inserts the message keyed on its provider id. FirstOrCreate
// makes re-ingesting an overlapping fetch window a no-op.
func (r *emailRepository) InsertIfAbsent(userID string, raw emaildomain.RawMessage) (*emaildomain.Email, error) {
	var email emaildomain.Email
	result := r.db.Where("id = ?", raw.ID).Attrs(emaildomain.Email{
		ID:      raw.ID,
		UserID:  userID,
		Subject: raw.Subject,
		Sender:  raw.From,
		Date:    ParseMessageDate(raw.Date),
		Snippet: raw.Snippet,
	}).FirstOrCreate(&email)
	if result.Error != nil {
		return nil, result.Error
	}
	return &email, nil
}

// List returns stored messages ordered date DESC NULLS LAST: undated rows
// always trail dated ones (Postgres would otherwise put nulls first on DESC).
func (r *emailRepository) List(userID string, limit int) ([]*emaildomain.Email, error) {
	query := r.db.Where("user_id = ?", userID).Order("date DESC NULLS LAST")
	if limit > 0 {
		query = query.Limit(limit)
	}

	var emails []*emaildomain.Email
	if err := query.Find(&emails).Error; err != nil {
		return nil, err
	}
	return emails, nil
}

// ParseMessageDate parses an RFC 5322 Date header and normalizes it to UTC.
// Malformed or missing dates yield nil rather than an error: an unparsable
// header must never block ingestion.
func ParseMessageDate(raw string) *time.Time {
	if raw == "" {
		return nil
	}
	t, err := mail.ParseDate(raw)
	if err != nil {
		return nil
	}
	utc := t.UTC()
	return &utc
}
