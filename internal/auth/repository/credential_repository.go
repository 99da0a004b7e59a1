package repository

import (
	authdomain "inboxtriage-backend/internal/auth/domain"
	emaildomain "inboxtriage-backend/internal/email/domain"

	"gorm.io/gorm"
)

// CredentialRepository is the durable credential store behind the pipeline's
// CredentialProvider.
type CredentialRepository interface {
	// Get returns the stored credential, or (nil, nil) when the user has
	// never authorized.
	Get(userID string) (*authdomain.GoogleCredential, error)
	// Upsert stores or replaces the credential for cred.UserID.
	Upsert(cred *authdomain.GoogleCredential) error
	// UpdateAccessToken replaces only the access token, for refresh
	// callbacks.
	UpdateAccessToken(userID, accessToken string) error
}

// credentialRepository implements CredentialRepository interface
type credentialRepository struct {
	db *gorm.DB
}

// NewCredentialRepository creates a new instance of credentialRepository
func NewCredentialRepository(db *gorm.DB) CredentialRepository {
	return &credentialRepository{
		db: db,
	}
}

func (r *credentialRepository) Get(userID string) (*authdomain.GoogleCredential, error) {
	var cred authdomain.GoogleCredential
	err := r.db.Where("user_id = ?", userID).First(&cred).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &cred, nil
}

func (r *credentialRepository) Upsert(cred *authdomain.GoogleCredential) error {
	var existing authdomain.GoogleCredential
	err := r.db.Where("user_id = ?", cred.UserID).First(&existing).Error

	if err == gorm.ErrRecordNotFound {
		return r.db.Create(cred).Error
	} else if err != nil {
		return err
	}

	existing.AccessToken = cred.AccessToken
	// A re-consent may omit the refresh token; keep the one we have.
	if cred.RefreshToken != "" {
		existing.RefreshToken = cred.RefreshToken
	}
	existing.TokenURI = cred.TokenURI
	existing.ClientID = cred.ClientID
	existing.ClientSecret = cred.ClientSecret
	return r.db.Save(&existing).Error
}

func (r *credentialRepository) UpdateAccessToken(userID, accessToken string) error {
	return r.db.Model(&authdomain.GoogleCredential{}).
		Where("user_id = ?", userID).
		Update("access_token", accessToken).Error
}

// credentialProvider adapts CredentialRepository to the email pipeline's
// CredentialProvider interface.
type credentialProvider struct {
	repo CredentialRepository
}

// NewCredentialProvider wraps repo for use by the email usecase.
func NewCredentialProvider(repo CredentialRepository) emaildomain.CredentialProvider {
	return &credentialProvider{repo: repo}
}

func (p *credentialProvider) Get(userID string) (*emaildomain.Credential, error) {
	cred, err := p.repo.Get(userID)
	if err != nil || cred == nil {
		return nil, err
	}
	return &emaildomain.Credential{
		AccessToken:  cred.AccessToken,
		RefreshToken: cred.RefreshToken,
		TokenURI:     cred.TokenURI,
		ClientID:     cred.ClientID,
		ClientSecret: cred.ClientSecret,
	}, nil
}
