package dto

import (
	"time"

	emaildomain "inboxtriage-backend/internal/email/domain"
)

// MessageView is the external representation of a message. Date is an
// ISO-8601 string, or null when the provider's Date header was unparsable.
type MessageView struct {
	ID      string  `json:"id"`
	Subject string  `json:"subject"`
	From    string  `json:"from"`
	Date    *string `json:"date"`
	Snippet string  `json:"snippet"`
}

// MeetingNoteView is the external representation of a derived meeting note.
type MeetingNoteView struct {
	ID          string `json:"id"`
	UserID      string `json:"user_id"`
	MeetingText string `json:"meeting_text"`
	Note        string `json:"note"`
}

func NewMessageView(email *emaildomain.Email) MessageView {
	var date *string
	if email.Date != nil {
		s := email.Date.UTC().Format(time.RFC3339)
		date = &s
	}
	return MessageView{
		ID:      email.ID,
		Subject: email.Subject,
		From:    email.Sender,
		Date:    date,
		Snippet: email.Snippet,
	}
}

func NewMessageViews(emails []*emaildomain.Email) []MessageView {
	views := make([]MessageView, 0, len(emails))
	for _, e := range emails {
		views = append(views, NewMessageView(e))
	}
	return views
}

func NewMeetingNoteViews(notes []*emaildomain.MeetingNote) []MeetingNoteView {
	views := make([]MeetingNoteView, 0, len(notes))
	for _, n := range notes {
		views = append(views, MeetingNoteView{
			ID:          n.ID,
			UserID:      n.UserID,
			MeetingText: n.MeetingText,
			Note:        n.Note,
		})
	}
	return views
}
