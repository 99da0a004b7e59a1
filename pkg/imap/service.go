package imap

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	emaildomain "inboxtriage-backend/internal/email/domain"

	"github.com/emersion/go-imap"
	"github.com/emersion/go-imap/client"
	gomail "github.com/emersion/go-message/mail"
)

const snippetLength = 200

// Service fetches mailbox messages over IMAP, for accounts that are not
// Gmail API backed. It implements emaildomain.MailboxSource with the
// credential mapping documented on emaildomain.Credential: ClientID is the
// account name, AccessToken the password and TokenURI the server address
// (host:port, implicit TLS).
type Service struct{}

func NewService() *Service {
	return &Service{}
}

// Fetch selects INBOX read-only and returns the newest messages, newest
// first. A non-nil after narrows the window with an IMAP SINCE search
// (whole-day granularity; the store's idempotent insert absorbs the
// overlap).
func (s *Service) Fetch(ctx context.Context, cred *emaildomain.Credential, after *time.Time, maxResults int64) ([]emaildomain.RawMessage, error) {
	c, err := client.DialTLS(cred.TokenURI, nil)
	if err != nil {
		return nil, fmt.Errorf("imap dial %s: %v", cred.TokenURI, err)
	}
	defer c.Logout()

	if err := c.Login(cred.ClientID, cred.AccessToken); err != nil {
		return nil, fmt.Errorf("imap login: %v", err)
	}

	mbox, err := c.Select("INBOX", true)
	if err != nil {
		return nil, fmt.Errorf("imap select: %v", err)
	}
	if mbox.Messages == 0 {
		return []emaildomain.RawMessage{}, nil
	}

	if maxResults <= 0 {
		maxResults = 50
	}

	seqset := new(imap.SeqSet)
	if after != nil {
		criteria := imap.NewSearchCriteria()
		criteria.Since = after.UTC()
		ids, err := c.Search(criteria)
		if err != nil {
			return nil, fmt.Errorf("imap search: %v", err)
		}
		if len(ids) == 0 {
			return []emaildomain.RawMessage{}, nil
		}
		if int64(len(ids)) > maxResults {
			ids = ids[int64(len(ids))-maxResults:]
		}
		seqset.AddNum(ids...)
	} else {
		from := uint32(1)
		if int64(mbox.Messages) > maxResults {
			from = mbox.Messages - uint32(maxResults) + 1
		}
		seqset.AddRange(from, mbox.Messages)
	}

	section := &imap.BodySectionName{Peek: true}
	items := []imap.FetchItem{imap.FetchEnvelope, imap.FetchUid, section.FetchItem()}

	messages := make(chan *imap.Message, 10)
	done := make(chan error, 1)
	go func() {
		done <- c.Fetch(seqset, items, messages)
	}()

	var raws []emaildomain.RawMessage
	for msg := range messages {
		raws = append(raws, convertMessage(msg, section))
	}
	if err := <-done; err != nil {
		return nil, fmt.Errorf("imap fetch: %v", err)
	}

	// Sequence numbers run oldest to newest; reverse to match the Gmail
	// source's ordering.
	for i, j := 0, len(raws)-1; i < j; i, j = i+1, j-1 {
		raws[i], raws[j] = raws[j], raws[i]
	}
	return raws, nil
}

func convertMessage(msg *imap.Message, section *imap.BodySectionName) emaildomain.RawMessage {
	raw := emaildomain.RawMessage{
		ID: fmt.Sprintf("imap-%d", msg.Uid),
	}

	if env := msg.Envelope; env != nil {
		// Message-Id is globally unique and stable across mailboxes,
		// which makes it the better dedup key when present.
		if env.MessageId != "" {
			raw.ID = env.MessageId
		}
		raw.Subject = env.Subject
		if len(env.From) > 0 {
			raw.From = env.From[0].Address()
		}
		if !env.Date.IsZero() {
			raw.Date = env.Date.UTC().Format(time.RFC1123Z)
		}
	}

	if body := msg.GetBody(section); body != nil {
		raw.Snippet = extractSnippet(body)
	}
	return raw
}

// extractSnippet reads the first inline part of the message and collapses
// it into a short preview, mirroring the snippet Gmail provides for free.
func extractSnippet(body io.Reader) string {
	mr, err := gomail.CreateReader(body)
	if err != nil {
		return ""
	}

	for {
		part, err := mr.NextPart()
		if err != nil {
			return ""
		}
		if _, ok := part.Header.(*gomail.InlineHeader); ok {
			data, err := io.ReadAll(io.LimitReader(part.Body, 4096))
			if err != nil {
				return ""
			}
			snippet := strings.Join(strings.Fields(string(data)), " ")
			if len(snippet) > snippetLength {
				snippet = snippet[:snippetLength]
			}
			return snippet
		}
	}
}
