package pipeline

import (
	"fmt"
	"strings"
	"testing"
)

var testMessages = []PromptMessage{
	{From: "alice@example.com", Subject: "Kickoff", Date: "Mon, 02 Jan 2006 15:04:05 -0700", Snippet: "Kickoff meeting Tuesday 10am in room 4"},
	{From: "billing@vendor.com", Subject: "Invoice #42", Date: "Tue, 03 Jan 2006 09:00:00 +0000", Snippet: "Your invoice is attached"},
}

func TestBuildDeterministic(t *testing.T) {
	for _, mode := range []Mode{ModeSummarize, ModeClassify} {
		first := Build(mode, testMessages)
		second := Build(mode, testMessages)
		if first != second {
			t.Errorf("mode %s: two builds over the same input differ", mode)
		}
	}
}

func TestBuildRendersMessageBlocks(t *testing.T) {
	prompt := Build(ModeSummarize, testMessages)

	want := "From: alice@example.com\nSubject: Kickoff\nDate: Mon, 02 Jan 2006 15:04:05 -0700\nSnippet: Kickoff meeting Tuesday 10am in room 4"
	if !strings.Contains(prompt, want) {
		t.Errorf("prompt missing first message block:\n%s", prompt)
	}
	if !strings.Contains(prompt, "Invoice #42") {
		t.Errorf("prompt missing second message")
	}
	// Blocks are separated by a blank line inside the fences.
	if !strings.Contains(prompt, "room 4\n\nFrom: billing@vendor.com") {
		t.Errorf("message blocks not separated by a blank line:\n%s", prompt)
	}
	if strings.Count(prompt, "===") != 2 {
		t.Errorf("expected exactly two === fences, got %d", strings.Count(prompt, "==="))
	}
}

func TestBuildListsAllCategoryKeys(t *testing.T) {
	tests := []struct {
		mode Mode
		keys []string
	}{
		{ModeSummarize, []string{"meetings", "urgent", "todos", "other"}},
		{ModeClassify, []string{"meetings", "urgent", "todos", "work", "school", "bills", "travel", "other"}},
	}

	for _, tt := range tests {
		prompt := Build(tt.mode, testMessages)
		for _, key := range tt.keys {
			if !strings.Contains(prompt, fmt.Sprintf("%q", key)) {
				t.Errorf("mode %s: prompt does not name key %q", tt.mode, key)
			}
		}
		if got := tt.mode.Keys(); len(got) != len(tt.keys) {
			t.Errorf("mode %s: Keys() returned %d keys, want %d", tt.mode, len(got), len(tt.keys))
		}
		for i, key := range tt.mode.Keys() {
			if key != tt.keys[i] {
				t.Errorf("mode %s: Keys()[%d] = %q, want %q", tt.mode, i, key, tt.keys[i])
			}
		}
	}
}

// A sync for a quiet inbox still asks the model for every category, and the
// instructions must keep the output contract intact with zero emails.
func TestBuildEmptyInput(t *testing.T) {
	prompt := Build(ModeClassify, nil)

	if strings.Count(prompt, "===") != 2 {
		t.Fatalf("empty prompt lost its data fences:\n%s", prompt)
	}
	if !strings.Contains(prompt, "If a category has no emails, map its key to an empty list.") {
		t.Errorf("empty prompt does not tell the model how to handle empty categories")
	}
	if !strings.Contains(prompt, `"travel"`) {
		t.Errorf("empty prompt dropped category keys")
	}
	if Build(ModeClassify, nil) != prompt {
		t.Errorf("empty prompt is not deterministic")
	}
}

func TestBuildModesDiffer(t *testing.T) {
	if Build(ModeSummarize, testMessages) == Build(ModeClassify, testMessages) {
		t.Errorf("summarize and classify prompts are identical")
	}
}

func TestModeValid(t *testing.T) {
	if !ModeSummarize.Valid() || !ModeClassify.Valid() {
		t.Errorf("known modes reported invalid")
	}
	if Mode("rank").Valid() {
		t.Errorf("unknown mode reported valid")
	}
}
