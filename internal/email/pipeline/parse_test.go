package pipeline

import (
	"errors"
	"reflect"
	"testing"

	emaildomain "inboxtriage-backend/internal/email/domain"
)

var summarizeKeys = []string{"meetings", "urgent", "todos", "other"}

func TestParseToleratesSurroundingProse(t *testing.T) {
	raw := "Sure! Here you go:\n{\"meetings\":[\"x\"]}\nThanks"

	got, err := Parse(raw, summarizeKeys)
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}

	want := map[string][]string{
		"meetings": {"x"},
		"urgent":   {},
		"todos":    {},
		"other":    {},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestParseMarkdownFence(t *testing.T) {
	raw := "```json\n{\"meetings\":[\"standup\"],\"urgent\":[\"reply to legal\"]}\n```"

	got, err := Parse(raw, summarizeKeys)
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	if len(got["meetings"]) != 1 || got["meetings"][0] != "standup" {
		t.Errorf("meetings = %v", got["meetings"])
	}
	if len(got["urgent"]) != 1 {
		t.Errorf("urgent = %v", got["urgent"])
	}
}

func TestParseNestedBraces(t *testing.T) {
	// The outer object must survive nested braces; a minimal-match scan
	// would truncate at the first '}'.
	raw := "Result: {\"meetings\":[\"sync\"],\"meta\":{\"count\":1}} done"

	got, err := Parse(raw, summarizeKeys)
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	if len(got["meetings"]) != 1 || got["meetings"][0] != "sync" {
		t.Errorf("meetings = %v", got["meetings"])
	}
	if _, ok := got["meta"]; ok {
		t.Errorf("unexpected key survived: %v", got)
	}
}

func TestParseBracesInsideStrings(t *testing.T) {
	raw := `{"meetings":["agenda covers {budget} and } edge cases"],"urgent":[]}`

	got, err := Parse(raw, summarizeKeys)
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	if got["meetings"][0] != "agenda covers {budget} and } edge cases" {
		t.Errorf("meetings = %v", got["meetings"])
	}
}

func TestParseMissingKeysDefaultEmpty(t *testing.T) {
	got, err := Parse(`{"todos":["buy milk"]}`, summarizeKeys)
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	for _, key := range summarizeKeys {
		if got[key] == nil {
			t.Errorf("key %q is nil, want empty slice", key)
		}
	}
	if len(got["todos"]) != 1 {
		t.Errorf("todos = %v", got["todos"])
	}
}

func TestParseNullCategory(t *testing.T) {
	got, err := Parse(`{"meetings":null,"urgent":["now"]}`, summarizeKeys)
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	if got["meetings"] == nil || len(got["meetings"]) != 0 {
		t.Errorf("meetings = %#v, want empty slice", got["meetings"])
	}
}

func TestParseFailures(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{"no json at all", "no json here"},
		{"unterminated object", `{"meetings":["x"`},
		{"category is not a list", `{"meetings":"just a string"}`},
		{"category list of objects", `{"meetings":[{"title":"x"}]}`},
		{"bare array", `[1, 2, 3]`},
		{"empty text", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(tt.raw, summarizeKeys)
			if !errors.Is(err, emaildomain.ErrInvalidResponseFormat) {
				t.Errorf("got err %v, want ErrInvalidResponseFormat", err)
			}
		})
	}
}

func TestExtractObject(t *testing.T) {
	tests := []struct {
		name string
		text string
		want string
	}{
		{"bare object", `{"a":1}`, `{"a":1}`},
		{"prose around", `text {"a":1} more`, `{"a":1}`},
		{"nested", `{"a":{"b":2}}`, `{"a":{"b":2}}`},
		{"brace in string", `{"a":"}"}`, `{"a":"}"}`},
		{"escaped quote in string", `{"a":"\"}"}`, `{"a":"\"}"}`},
		{"first of two objects", `{"a":1} {"b":2}`, `{"a":1}`},
		{"unbalanced", `{"a":1`, ""},
		{"no object", "nothing", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := extractObject(tt.text); got != tt.want {
				t.Errorf("extractObject(%q) = %q, want %q", tt.text, got, tt.want)
			}
		})
	}
}
