package usecase

import (
	"context"
	"fmt"
	"time"

	emaildomain "inboxtriage-backend/internal/email/domain"
	"inboxtriage-backend/internal/email/pipeline"
	"inboxtriage-backend/internal/email/repository"
	"inboxtriage-backend/pkg/ai"
)

const (
	defaultFetchCap          = 50
	defaultCompletionTimeout = 60 * time.Second
)

// emailUsecase implements EmailUsecase interface
type emailUsecase struct {
	emailRepo  repository.EmailRepository
	syncRepo   repository.EmailSyncRepository
	noteRepo   repository.MeetingNoteRepository
	creds      emaildomain.CredentialProvider
	mailbox    emaildomain.MailboxSource
	completion ai.CompletionService

	fetchCap          int64
	completionTimeout time.Duration
}

// NewEmailUsecase creates a new instance of emailUsecase. fetchCap and
// completionTimeout fall back to defaults when zero.
func NewEmailUsecase(
	emailRepo repository.EmailRepository,
	syncRepo repository.EmailSyncRepository,
	noteRepo repository.MeetingNoteRepository,
	creds emaildomain.CredentialProvider,
	mailbox emaildomain.MailboxSource,
	completion ai.CompletionService,
	fetchCap int64,
	completionTimeout time.Duration,
) EmailUsecase {
	if fetchCap <= 0 {
		fetchCap = defaultFetchCap
	}
	if completionTimeout <= 0 {
		completionTimeout = defaultCompletionTimeout
	}
	return &emailUsecase{
		emailRepo:         emailRepo,
		syncRepo:          syncRepo,
		noteRepo:          noteRepo,
		creds:             creds,
		mailbox:           mailbox,
		completion:        completion,
		fetchCap:          fetchCap,
		completionTimeout: completionTimeout,
	}
}

func (u *emailUsecase) SyncAndSummarize(ctx context.Context, userID string) (map[string][]string, error) {
	return u.runSyncPipeline(ctx, userID, pipeline.ModeSummarize)
}

// runSyncPipeline executes one fetch+derive cycle. The checkpoint advances
// only on the path that runs to the end: a failure after fetching leaves it
// untouched, so the next run re-covers the same window. Re-runs are safe
// because message and note inserts are idempotent.
func (u *emailUsecase) runSyncPipeline(ctx context.Context, userID string, mode pipeline.Mode) (map[string][]string, error) {
	cred, err := u.credential(userID)
	if err != nil {
		return nil, err
	}

	lastSync, err := u.syncRepo.GetLastSync(userID)
	if err != nil {
		return nil, fmt.Errorf("read checkpoint: %w", err)
	}

	// Captured before the fetch so mail arriving mid-cycle lands inside
	// the next window rather than being skipped.
	runStart := time.Now().UTC()

	raw, err := u.fetchNew(ctx, cred, lastSync, u.fetchCap)
	if err != nil {
		return nil, err
	}

	if err := u.persistMessages(userID, raw); err != nil {
		return nil, err
	}

	result, err := u.derive(ctx, userID, mode, promptMessagesFromRaw(raw))
	if err != nil {
		return nil, err
	}

	if err := u.syncRepo.SetLastSync(userID, runStart); err != nil {
		return nil, fmt.Errorf("advance checkpoint: %w", err)
	}
	return result, nil
}

func (u *emailUsecase) SyncRecent(ctx context.Context, userID string, limit int) ([]*emaildomain.Email, error) {
	cred, err := u.credential(userID)
	if err != nil {
		return nil, err
	}

	maxResults := int64(limit)
	if maxResults <= 0 {
		maxResults = u.fetchCap
	}

	// No lower bound: "recent" means the newest messages regardless of the
	// checkpoint, and an ingest-only call must not move it.
	raw, err := u.fetchNew(ctx, cred, nil, maxResults)
	if err != nil {
		return nil, err
	}

	stored := make([]*emaildomain.Email, 0, len(raw))
	for _, msg := range raw {
		email, err := u.emailRepo.InsertIfAbsent(userID, msg)
		if err != nil {
			return nil, fmt.Errorf("persist message %s: %w", msg.ID, err)
		}
		stored = append(stored, email)
	}
	return stored, nil
}

func (u *emailUsecase) ListStoredMessages(userID string, limit int) ([]*emaildomain.Email, error) {
	return u.emailRepo.List(userID, limit)
}

func (u *emailUsecase) Reprocess(ctx context.Context, userID string, limit int) (map[string][]string, error) {
	return u.deriveFromStored(ctx, userID, pipeline.ModeSummarize, limit)
}

func (u *emailUsecase) Classify(ctx context.Context, userID string, limit int) (map[string][]string, error) {
	return u.deriveFromStored(ctx, userID, pipeline.ModeClassify, limit)
}

func (u *emailUsecase) ListNotes(userID string) ([]*emaildomain.MeetingNote, error) {
	return u.noteRepo.List(userID)
}

// deriveFromStored runs the derive stage over already-stored messages.
// There is no fetch and no checkpoint involvement.
func (u *emailUsecase) deriveFromStored(ctx context.Context, userID string, mode pipeline.Mode, limit int) (map[string][]string, error) {
	emails, err := u.emailRepo.List(userID, limit)
	if err != nil {
		return nil, fmt.Errorf("list stored messages: %w", err)
	}
	return u.derive(ctx, userID, mode, promptMessagesFromStored(emails))
}

func (u *emailUsecase) credential(userID string) (*emaildomain.Credential, error) {
	cred, err := u.creds.Get(userID)
	if err != nil {
		return nil, fmt.Errorf("load credentials: %w", err)
	}
	if cred == nil {
		return nil, fmt.Errorf("%w: %s", emaildomain.ErrCredentialsMissing, userID)
	}
	return cred, nil
}

// fetchNew pulls messages since after. A nil after means no lower bound:
// the most recent maxResults messages are fetched unconditionally. Results may
// include already-stored messages; the store's idempotent insert is the
// dedup boundary, not this method.
func (u *emailUsecase) fetchNew(ctx context.Context, cred *emaildomain.Credential, after *time.Time, maxResults int64) ([]emaildomain.RawMessage, error) {
	raw, err := u.mailbox.Fetch(ctx, cred, after, maxResults)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", emaildomain.ErrMailboxUnavailable, err)
	}
	return raw, nil
}

func (u *emailUsecase) persistMessages(userID string, raw []emaildomain.RawMessage) error {
	for _, msg := range raw {
		if _, err := u.emailRepo.InsertIfAbsent(userID, msg); err != nil {
			return fmt.Errorf("persist message %s: %w", msg.ID, err)
		}
	}
	return nil
}

// derive builds the prompt, calls the completion backend under a bounded
// deadline, parses the response against the mode's key schema and persists
// every entry of the "meetings" bucket as a note.
func (u *emailUsecase) derive(ctx context.Context, userID string, mode pipeline.Mode, messages []pipeline.PromptMessage) (map[string][]string, error) {
	prompt := pipeline.Build(mode, messages)

	cctx, cancel := context.WithTimeout(ctx, u.completionTimeout)
	defer cancel()

	output, err := u.completion.Complete(cctx, prompt)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", emaildomain.ErrCompletionUnavailable, err)
	}

	result, err := pipeline.Parse(output, mode.Keys())
	if err != nil {
		return nil, err
	}

	for _, meeting := range result["meetings"] {
		if _, err := u.noteRepo.InsertIfAbsent(userID, meeting); err != nil {
			return nil, fmt.Errorf("persist meeting note: %w", err)
		}
	}
	return result, nil
}

func promptMessagesFromRaw(raw []emaildomain.RawMessage) []pipeline.PromptMessage {
	messages := make([]pipeline.PromptMessage, 0, len(raw))
	for _, m := range raw {
		messages = append(messages, pipeline.PromptMessage{
			From:    m.From,
			Subject: m.Subject,
			Date:    m.Date,
			Snippet: m.Snippet,
		})
	}
	return messages
}

func promptMessagesFromStored(emails []*emaildomain.Email) []pipeline.PromptMessage {
	messages := make([]pipeline.PromptMessage, 0, len(emails))
	for _, e := range emails {
		date := ""
		if e.Date != nil {
			date = e.Date.UTC().Format(time.RFC1123Z)
		}
		messages = append(messages, pipeline.PromptMessage{
			From:    e.Sender,
			Subject: e.Subject,
			Date:    date,
			Snippet: e.Snippet,
		})
	}
	return messages
}
