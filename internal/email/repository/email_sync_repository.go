package repository

import (
	"time"

	emaildomain "inboxtriage-backend/internal/email/domain"

	"gorm.io/gorm"
)

// EmailSyncRepository tracks the per-user incremental fetch checkpoint.
type EmailSyncRepository interface {
	// GetLastSync returns the checkpoint in UTC, or nil when the user has
	// never completed a cycle.
	GetLastSync(userID string) (*time.Time, error)
	// SetLastSync upserts the checkpoint. Idempotent.
	SetLastSync(userID string, lastSync time.Time) error
}

// emailSyncRepository implements EmailSyncRepository interface
type emailSyncRepository struct {
	db *gorm.DB
}

// NewEmailSyncRepository creates a new instance of emailSyncRepository
func NewEmailSyncRepository(db *gorm.DB) EmailSyncRepository {
	return &emailSyncRepository{
		db: db,
	}
}

func (r *emailSyncRepository) GetLastSync(userID string) (*time.Time, error) {
	var sync emaildomain.EmailSync
	err := r.db.Where("user_id = ?", userID).First(&sync).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	t := sync.LastSync.UTC()
	return &t, nil
}

func (r *emailSyncRepository) SetLastSync(userID string, lastSync time.Time) error {
	var sync emaildomain.EmailSync
	err := r.db.Where("user_id = ?", userID).First(&sync).Error

	if err == gorm.ErrRecordNotFound {
		sync = emaildomain.EmailSync{
			UserID:   userID,
			LastSync: lastSync.UTC(),
		}
		return r.db.Create(&sync).Error
	} else if err != nil {
		return err
	}

	sync.LastSync = lastSync.UTC()
	return r.db.Save(&sync).Error
}
