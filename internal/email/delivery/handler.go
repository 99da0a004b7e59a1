package delivery

import (
	"errors"
	"net/http"
	"strconv"

	emaildomain "inboxtriage-backend/internal/email/domain"
	emaildto "inboxtriage-backend/internal/email/dto"
	"inboxtriage-backend/internal/email/usecase"

	"github.com/gin-gonic/gin"
)

type EmailHandler struct {
	emailUsecase usecase.EmailUsecase
}

func NewEmailHandler(emailUsecase usecase.EmailUsecase) *EmailHandler {
	return &EmailHandler{
		emailUsecase: emailUsecase,
	}
}

// Summary runs a full incremental sync+summarize cycle and returns the
// extracted meetings.
func (h *EmailHandler) Summary(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	result, err := h.emailUsecase.SyncAndSummarize(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"meetings": result["meetings"]})
}

// Recent fetches and persists the newest messages and returns them, without
// running the derive stage.
func (h *EmailHandler) Recent(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	emails, err := h.emailUsecase.SyncRecent(c.Request.Context(), userID, queryLimit(c, 3))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, emaildto.NewMessageViews(emails))
}

// ListStored returns already-stored messages, newest first.
func (h *EmailHandler) ListStored(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	emails, err := h.emailUsecase.ListStoredMessages(userID, queryLimit(c, 0))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, emaildto.NewMessageViews(emails))
}

// Reprocess re-runs summarization over stored messages without fetching.
func (h *EmailHandler) Reprocess(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	result, err := h.emailUsecase.Reprocess(c.Request.Context(), userID, queryLimit(c, 0))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"meetings": result["meetings"]})
}

// Classify runs 8-way classification over stored messages and returns all
// category buckets.
func (h *EmailHandler) Classify(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	result, err := h.emailUsecase.Classify(c.Request.Context(), userID, queryLimit(c, 0))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// ListNotes returns the user's derived meeting notes.
func (h *EmailHandler) ListNotes(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	notes, err := h.emailUsecase.ListNotes(userID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, emaildto.NewMeetingNoteViews(notes))
}

func requireUserID(c *gin.Context) (string, bool) {
	userID := c.Query("user_id")
	if userID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "bad_request", "message": "user_id is required"})
		return "", false
	}
	return userID, true
}

func queryLimit(c *gin.Context, fallback int) int {
	if limitStr := c.Query("limit"); limitStr != "" {
		if parsed, err := strconv.Atoi(limitStr); err == nil && parsed > 0 {
			return parsed
		}
	}
	return fallback
}

// respondError maps pipeline failure tags to an HTTP status and a stable
// error kind. Storage failures get a generic message so nothing internal
// leaks to clients.
func respondError(c *gin.Context, err error) {
	kind := "storage_error"
	status := http.StatusInternalServerError
	message := err.Error()

	switch {
	case errors.Is(err, emaildomain.ErrCredentialsMissing):
		kind, status = "credentials_missing", http.StatusUnauthorized
	case errors.Is(err, emaildomain.ErrMailboxUnavailable):
		kind, status = "mailbox_unavailable", http.StatusBadGateway
	case errors.Is(err, emaildomain.ErrCompletionUnavailable):
		kind, status = "completion_unavailable", http.StatusBadGateway
	case errors.Is(err, emaildomain.ErrInvalidResponseFormat):
		kind, status = "invalid_response_format", http.StatusBadGateway
	default:
		message = "internal storage error"
	}

	c.JSON(status, gin.H{"error": kind, "message": message})
}
