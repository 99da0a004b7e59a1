package domain

import "time"

// GoogleCredential is the durable OAuth token record for one user, keyed by
// the account email. Storing the full token material (including the token
// endpoint and client pair) means a mailbox fetch needs nothing beyond this
// row, and credentials survive process restarts.
type GoogleCredential struct {
	UserID       string    `json:"user_id" gorm:"primaryKey"`
	AccessToken  string    `json:"-"`
	RefreshToken string    `json:"-"`
	TokenURI     string    `json:"-"`
	ClientID     string    `json:"-"`
	ClientSecret string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// TableName specifies the table name for GORM
func (GoogleCredential) TableName() string {
	return "google_credentials"
}
