package domain

import "errors"

// Failure tags for the sync pipeline. Each external collaborator call site
// wraps its native error with exactly one of these, and none are retried
// internally; callers dispatch on them with errors.Is.
var (
	// ErrCredentialsMissing means no stored credentials exist for the user;
	// the pipeline does not run.
	ErrCredentialsMissing = errors.New("no credentials stored for user")

	// ErrMailboxUnavailable means the mailbox could not be reached or
	// refused the stored credentials. The checkpoint is left untouched.
	ErrMailboxUnavailable = errors.New("mailbox unavailable")

	// ErrCompletionUnavailable means the model backend was unreachable or
	// errored before producing text. Already-persisted messages remain
	// persisted and the checkpoint is left untouched.
	ErrCompletionUnavailable = errors.New("completion service unavailable")

	// ErrInvalidResponseFormat means the model ran but returned text with
	// no decodable JSON object. Distinct from ErrCompletionUnavailable so
	// callers can tell "answered badly" from "didn't run".
	ErrInvalidResponseFormat = errors.New("model response is not valid JSON")
)
