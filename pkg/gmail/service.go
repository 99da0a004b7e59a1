package gmail

import (
	"context"
	"fmt"
	"time"

	emaildomain "inboxtriage-backend/internal/email/domain"

	"golang.org/x/oauth2"
	"google.golang.org/api/gmail/v1"
	"google.golang.org/api/option"
)

// Service fetches mailbox messages through the Gmail REST API. It
// implements emaildomain.MailboxSource.
type Service struct{}

func NewService() *Service {
	return &Service{}
}

// gmailClient builds a Gmail API client from the stored per-user
// credential. The token endpoint and client pair come from the credential
// row, so one Service instance can serve users authorized against
// different OAuth clients.
func (s *Service) gmailClient(ctx context.Context, cred *emaildomain.Credential) (*gmail.Service, error) {
	token := &oauth2.Token{
		AccessToken:  cred.AccessToken,
		RefreshToken: cred.RefreshToken,
		TokenType:    "Bearer",
	}

	// Only force refresh if we have a refresh token
	if cred.RefreshToken != "" {
		token.Expiry = time.Now()
	}

	config := &oauth2.Config{
		ClientID:     cred.ClientID,
		ClientSecret: cred.ClientSecret,
		Endpoint: oauth2.Endpoint{
			TokenURL: cred.TokenURI,
		},
	}

	client := oauth2.NewClient(ctx, config.TokenSource(ctx, token))

	srv, err := gmail.NewService(ctx, option.WithHTTPClient(client))
	if err != nil {
		return nil, fmt.Errorf("unable to create Gmail service: %v", err)
	}
	return srv, nil
}

// Fetch lists message ids newer than after (Gmail's after: operator takes
// epoch seconds) and loads the Subject/From/Date headers plus snippet for
// each, newest first. A nil after fetches the most recent maxResults
// messages unconditionally.
func (s *Service) Fetch(ctx context.Context, cred *emaildomain.Credential, after *time.Time, maxResults int64) ([]emaildomain.RawMessage, error) {
	srv, err := s.gmailClient(ctx, cred)
	if err != nil {
		return nil, err
	}

	if maxResults <= 0 {
		maxResults = 50
	}
	if maxResults > 500 {
		maxResults = 500 // Gmail API maximum
	}

	user := "me"
	listCall := srv.Users.Messages.List(user).MaxResults(maxResults)
	if after != nil {
		listCall = listCall.Q(fmt.Sprintf("after:%d", after.Unix()))
	}

	resp, err := listCall.Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("unable to retrieve messages: %v", err)
	}

	// Fetch message details in parallel (with reasonable concurrency limit);
	// results keep the list order, which Gmail returns newest first.
	type detailResult struct {
		index int
		msg   emaildomain.RawMessage
		err   error
	}

	results := make(chan detailResult, len(resp.Messages))
	semaphore := make(chan struct{}, 10) // Max 10 concurrent requests

	for i, msg := range resp.Messages {
		go func(index int, msgID string) {
			semaphore <- struct{}{}        // Acquire
			defer func() { <-semaphore }() // Release

			detail, err := srv.Users.Messages.Get(user, msgID).
				Format("metadata").
				MetadataHeaders("Subject", "From", "Date").
				Context(ctx).Do()
			if err != nil {
				results <- detailResult{index: index, err: err}
				return
			}

			results <- detailResult{index: index, msg: emaildomain.RawMessage{
				ID:      detail.Id,
				Subject: getHeader(detail.Payload.Headers, "Subject"),
				From:    getHeader(detail.Payload.Headers, "From"),
				Date:    getHeader(detail.Payload.Headers, "Date"),
				Snippet: detail.Snippet,
			}}
		}(i, msg.Id)
	}

	messages := make([]emaildomain.RawMessage, len(resp.Messages))
	for range resp.Messages {
		r := <-results
		if r.err != nil {
			return nil, fmt.Errorf("unable to retrieve message detail: %v", r.err)
		}
		messages[r.index] = r.msg
	}

	return messages, nil
}

func getHeader(headers []*gmail.MessagePartHeader, name string) string {
	for _, header := range headers {
		if header.Name == name {
			return header.Value
		}
	}
	return ""
}
