// Package pipeline holds the pure halves of the LLM stage: deterministic
// prompt construction and tolerant parsing of model output.
package pipeline

import (
	"fmt"
	"strings"
)

// Mode selects which category schema the model is asked to fill.
type Mode string

const (
	// ModeSummarize extracts four buckets from recent mail.
	ModeSummarize Mode = "summarize"
	// ModeClassify extracts eight buckets from stored mail.
	ModeClassify Mode = "classify"
)

// PromptMessage is one message as rendered into the prompt data block.
type PromptMessage struct {
	From    string
	Subject string
	Date    string
	Snippet string
}

type category struct {
	key      string
	guidance string
}

// A single schema table drives both prompt rendering and response
// validation, so the 4-key and 8-key paths cannot drift apart.
var modeSchemas = map[Mode][]category{
	ModeSummarize: {
		{"meetings", "Emails that contain scheduled meetings, calendar invites, or time/location details."},
		{"urgent", "Emails that require immediate attention or have deadlines within 48 hours."},
		{"todos", "Emails that contain tasks, requests, or deliverables the user needs to follow up on."},
		{"other", "Any emails that don't fit the above categories (e.g. FYI, newsletters)."},
	},
	ModeClassify: {
		{"meetings", "Emails that contain scheduled meetings, calendar invites, or time/location details."},
		{"urgent", "Emails that require immediate attention or have deadlines within 48 hours."},
		{"todos", "Emails that contain tasks, requests, or deliverables the user needs to follow up on."},
		{"work", "Work emails: colleagues, projects, internal announcements."},
		{"school", "School emails: courses, assignments, campus announcements."},
		{"bills", "Bills, invoices, payment confirmations, and account statements."},
		{"travel", "Travel emails: bookings, itineraries, check-in reminders."},
		{"other", "Any emails that don't fit the above categories (e.g. FYI, newsletters)."},
	},
}

// Valid reports whether m names a known mode.
func (m Mode) Valid() bool {
	_, ok := modeSchemas[m]
	return ok
}

// Keys returns the mode's category keys in schema order.
func (m Mode) Keys() []string {
	schema := modeSchemas[m]
	keys := make([]string, 0, len(schema))
	for _, c := range schema {
		keys = append(keys, c.key)
	}
	return keys
}

// Build renders the instruction prompt for mode over messages. It is a pure
// function: the same input sequence always yields identical text. Message
// content is embedded between === fences so the model can tell the data
// apart from the instructions. An empty message sequence still produces a
// well-formed prompt with an empty data block.
func Build(mode Mode, messages []PromptMessage) string {
	schema := modeSchemas[mode]

	var b strings.Builder
	b.WriteString("You are an intelligent email assistant. Your task is to read a user's recent emails and extract actionable insights. ")
	fmt.Fprintf(&b, "Classify emails into one of %d categories based on the content:\n\n", len(schema))
	for i, c := range schema {
		fmt.Fprintf(&b, "%d. %q: %s\n", i+1, c.key, c.guidance)
	}
	b.WriteString("\nEach email contains the following fields:\n")
	b.WriteString("- From\n- Subject\n- Date\n- Snippet (short content preview)\n\n")
	b.WriteString("Here are the emails:\n===\n")
	b.WriteString(renderMessages(messages))
	b.WriteString("\n===\n\n")
	fmt.Fprintf(&b, "Return your response as a strict JSON object with only these %d top-level keys: %s. ", len(schema), quotedKeys(schema))
	b.WriteString("Each key should map to a list of email summaries (as short strings). If a category has no emails, map its key to an empty list. ")
	b.WriteString("Do not include any commentary, markdown, or extra explanation. Output only raw JSON.")
	return b.String()
}

func renderMessages(messages []PromptMessage) string {
	blocks := make([]string, 0, len(messages))
	for _, m := range messages {
		blocks = append(blocks, fmt.Sprintf("From: %s\nSubject: %s\nDate: %s\nSnippet: %s", m.From, m.Subject, m.Date, m.Snippet))
	}
	return strings.Join(blocks, "\n\n")
}

func quotedKeys(schema []category) string {
	quoted := make([]string, 0, len(schema))
	for _, c := range schema {
		quoted = append(quoted, fmt.Sprintf("%q", c.key))
	}
	return strings.Join(quoted, ", ")
}
