package usecase

import (
	"context"

	emaildomain "inboxtriage-backend/internal/email/domain"
)

// EmailUsecase sequences the sync pipeline: fetch, persist, prompt, infer,
// parse, persist derived notes, advance the checkpoint.
type EmailUsecase interface {
	// SyncAndSummarize runs one full incremental cycle in summarize mode
	// and returns the four category buckets. The checkpoint advances only
	// when the whole cycle succeeds.
	SyncAndSummarize(ctx context.Context, userID string) (map[string][]string, error)
	// SyncRecent fetches and persists the most recent messages without a
	// derive stage. The checkpoint does not move.
	SyncRecent(ctx context.Context, userID string, limit int) ([]*emaildomain.Email, error)
	// ListStoredMessages returns stored messages, newest first.
	ListStoredMessages(userID string, limit int) ([]*emaildomain.Email, error)
	// Reprocess re-runs summarization over already-stored messages. No
	// fetch, no checkpoint movement.
	Reprocess(ctx context.Context, userID string, limit int) (map[string][]string, error)
	// Classify runs 8-way classification over already-stored messages.
	Classify(ctx context.Context, userID string, limit int) (map[string][]string, error)
	// ListNotes returns the user's derived meeting notes.
	ListNotes(userID string) ([]*emaildomain.MeetingNote, error)
}
