package usecase

import (
	"context"
	"fmt"

	authdomain "inboxtriage-backend/internal/auth/domain"
	"inboxtriage-backend/internal/auth/repository"
	"inboxtriage-backend/pkg/config"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	gmailapi "google.golang.org/api/gmail/v1"
	goauth2 "google.golang.org/api/oauth2/v2"
	"google.golang.org/api/option"
)

// AuthUsecase runs the Google OAuth consent flow and persists the resulting
// credentials for the sync pipeline.
type AuthUsecase interface {
	// LoginURL returns the Google consent URL to redirect the user to.
	LoginURL(state string) string
	// HandleCallback exchanges the authorization code, resolves the
	// account email and upserts the credential row. Returns the user id
	// (the account email).
	HandleCallback(ctx context.Context, code string) (string, error)
}

// authUsecase implements AuthUsecase interface
type authUsecase struct {
	credRepo repository.CredentialRepository
	oauth    *oauth2.Config
}

// NewAuthUsecase creates a new instance of authUsecase
func NewAuthUsecase(credRepo repository.CredentialRepository, cfg *config.Config) AuthUsecase {
	return &authUsecase{
		credRepo: credRepo,
		oauth: &oauth2.Config{
			ClientID:     cfg.GoogleClientID,
			ClientSecret: cfg.GoogleClientSecret,
			RedirectURL:  cfg.GoogleRedirectURI,
			Scopes: []string{
				gmailapi.GmailReadonlyScope,
				"https://www.googleapis.com/auth/userinfo.email",
				"https://www.googleapis.com/auth/userinfo.profile",
				"openid",
			},
			Endpoint: google.Endpoint,
		},
	}
}

func (u *authUsecase) LoginURL(state string) string {
	// Offline access plus forced consent so Google returns a refresh
	// token even for accounts that authorized before.
	return u.oauth.AuthCodeURL(state,
		oauth2.AccessTypeOffline,
		oauth2.SetAuthURLParam("prompt", "consent"),
		oauth2.SetAuthURLParam("include_granted_scopes", "true"),
	)
}

func (u *authUsecase) HandleCallback(ctx context.Context, code string) (string, error) {
	token, err := u.oauth.Exchange(ctx, code)
	if err != nil {
		return "", fmt.Errorf("exchange authorization code: %w", err)
	}

	client := u.oauth.Client(ctx, token)
	userinfoService, err := goauth2.NewService(ctx, option.WithHTTPClient(client))
	if err != nil {
		return "", fmt.Errorf("create userinfo service: %w", err)
	}
	info, err := userinfoService.Userinfo.Get().Do()
	if err != nil {
		return "", fmt.Errorf("fetch userinfo: %w", err)
	}
	if info.Email == "" {
		return "", fmt.Errorf("userinfo response has no email")
	}

	cred := &authdomain.GoogleCredential{
		UserID:       info.Email,
		AccessToken:  token.AccessToken,
		RefreshToken: token.RefreshToken,
		TokenURI:     google.Endpoint.TokenURL,
		ClientID:     u.oauth.ClientID,
		ClientSecret: u.oauth.ClientSecret,
	}
	if err := u.credRepo.Upsert(cred); err != nil {
		return "", fmt.Errorf("store credentials: %w", err)
	}
	return info.Email, nil
}
