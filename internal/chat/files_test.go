package chat

import (
	"testing"
	"time"

	"UniProjectHub/internal/apperr"
)

func TestFormatFileSize(t *testing.T) {
	tests := []struct {
		size int64
		want string
	}{
		{0, "0 B"},
		{500, "500 B"},
		{1023, "1023 B"},
		{1024, "1 KB"},
		{1536, "1.5 KB"},
		{10 << 20, "10 MB"},
		{5<<20 + 256<<10, "5.25 MB"},
		{3 << 30, "3 GB"},
	}

	for _, tt := range tests {
		if got := FormatFileSize(tt.size); got != tt.want {
			t.Errorf("FormatFileSize(%d) = %q, want %q", tt.size, got, tt.want)
		}
	}
}

func TestValidateUpload(t *testing.T) {
	tests := []struct {
		name     string
		mimeType string
		size     int64
		wantErr  bool
	}{
		{"small png", "image/png", 5 << 20, false},
		{"pdf at limit", "application/pdf", 10 << 20, false},
		{"oversized png", "image/png", 11 << 20, true},
		{"octet-stream rejected", "application/octet-stream", 1024, true},
		{"executable rejected", "application/x-msdownload", 1024, true},
		{"docx", "application/vnd.openxmlformats-officedocument.wordprocessingml.document", 2 << 20, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validateUpload(tt.mimeType, tt.size)
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error, got nil")
				}
				if !apperr.IsValidation(err) {
					t.Errorf("expected validation error, got %v", err)
				}
				return
			}
			if err != nil {
				t.Errorf("unexpected error: %v", err)
			}
		})
	}
}

func TestSortMessages(t *testing.T) {
	base := time.Now()
	messages := []*Message{
		{Content: "third", Timestamp: base.Add(2 * time.Minute)},
		{Content: "first", Timestamp: base},
		{Content: "second", Timestamp: base.Add(time.Minute)},
	}

	sortMessages(messages)

	want := []string{"first", "second", "third"}
	for i, m := range messages {
		if m.Content != want[i] {
			t.Errorf("messages[%d] = %q, want %q", i, m.Content, want[i])
		}
	}
}

func TestSortConversations(t *testing.T) {
	base := time.Now()
	conversations := []*Conversation{
		{GroupName: "oldest", UpdatedAt: base.Add(-2 * time.Hour)},
		{GroupName: "newest", UpdatedAt: base},
		{GroupName: "middle", UpdatedAt: base.Add(-time.Hour)},
	}

	sortConversations(conversations)

	want := []string{"newest", "middle", "oldest"}
	for i, conv := range conversations {
		if conv.GroupName != want[i] {
			t.Errorf("conversations[%d] = %q, want %q", i, conv.GroupName, want[i])
		}
	}
}

func TestLatestMessage(t *testing.T) {
	if got := latestMessage(nil); got != nil {
		t.Errorf("latestMessage(nil) = %v, want nil", got)
	}

	base := time.Now()
	messages := []*Message{
		{Content: "old", Timestamp: base.Add(-time.Hour)},
		{Content: "newest", Timestamp: base},
		{Content: "older", Timestamp: base.Add(-2 * time.Hour)},
	}
	if got := latestMessage(messages); got == nil || got.Content != "newest" {
		t.Errorf("latestMessage() = %v, want newest", got)
	}
}

func TestDedupeParticipants(t *testing.T) {
	tests := []struct {
		name string
		in   []string
		want []string
	}{
		{"removes duplicates", []string{"a", "b", "a", "c", "b"}, []string{"a", "b", "c"}},
		{"drops empty ids", []string{"a", "", "b"}, []string{"a", "b"}},
		{"keeps order", []string{"c", "a", "b"}, []string{"c", "a", "b"}},
		{"empty input", nil, []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := dedupeParticipants(tt.in)
			if len(got) != len(tt.want) {
				t.Fatalf("dedupeParticipants(%v) = %v, want %v", tt.in, got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("dedupeParticipants(%v)[%d] = %q, want %q", tt.in, i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestContainsParticipant(t *testing.T) {
	participants := []string{"u1", "u2"}
	if !containsParticipant(participants, "u2") {
		t.Error("u2 should be a participant")
	}
	if containsParticipant(participants, "u3") {
		t.Error("u3 should not be a participant")
	}
	if containsParticipant(nil, "u1") {
		t.Error("nil participants should contain nobody")
	}
}
