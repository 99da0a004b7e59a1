package domain

import (
	"context"
	"time"
)

// Credential is the OAuth material a MailboxSource needs to act on a user's
// behalf. IMAP-backed sources reuse the same shape: ClientID carries the
// account name, AccessToken the password and TokenURI the server address.
type Credential struct {
	AccessToken  string
	RefreshToken string
	TokenURI     string
	ClientID     string
	ClientSecret string
}

// CredentialProvider supplies stored credentials per user. A user with no
// stored credentials yields (nil, nil), not an error.
type CredentialProvider interface {
	Get(userID string) (*Credential, error)
}

// MailboxSource retrieves recent messages on a user's behalf. A non-nil
// after restricts the fetch to messages received at or after that instant.
// Transport and auth failures must surface as errors, never as an empty
// result, so callers can tell "no new mail" from "could not check".
type MailboxSource interface {
	Fetch(ctx context.Context, cred *Credential, after *time.Time, maxResults int64) ([]RawMessage, error)
}
