package chat

import (
	"math"
	"sort"
	"strconv"

	"UniProjectHub/internal/apperr"
)

// maxUploadSize is 10 MiB.
const maxUploadSize = 10 << 20

// allowedMIMETypes is the attachment allow-list. Anything else is rejected
// with a ValidationError, including application/octet-stream.
var allowedMIMETypes = map[string]bool{
	"application/pdf":    true,
	"application/msword": true,
	"application/vnd.openxmlformats-officedocument.wordprocessingml.document": true,
	"image/jpeg":                   true,
	"image/png":                    true,
	"image/gif":                    true,
	"text/plain":                   true,
	"application/zip":              true,
	"application/x-rar-compressed": true,
	"application/vnd.ms-excel":     true,
	"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet": true,
	"application/vnd.ms-powerpoint":                                     true,
	"application/vnd.openxmlformats-officedocument.presentationml.presentation": true,
}

func validateUpload(mimeType string, size int64) error {
	if !allowedMIMETypes[mimeType] {
		return apperr.Validation("file type %q is not allowed", mimeType)
	}
	if size > maxUploadSize {
		return apperr.Validation("file exceeds the 10 MB limit")
	}
	return nil
}

var sizeUnits = []string{"B", "KB", "MB", "GB"}

// FormatFileSize renders a byte count in base-1024 units with up to two
// decimals, trailing zeros trimmed: 512 B, 1.5 KB, 5 MB.
func FormatFileSize(size int64) string {
	value := float64(size)
	unit := 0
	for value >= 1024 && unit < len(sizeUnits)-1 {
		value /= 1024
		unit++
	}
	value = math.Round(value*100) / 100
	return strconv.FormatFloat(value, 'f', -1, 64) + " " + sizeUnits[unit]
}

// sortMessages orders ascending by timestamp, the presentation order within
// a conversation.
func sortMessages(messages []*Message) {
	sort.Slice(messages, func(i, j int) bool {
		return messages[i].Timestamp.Before(messages[j].Timestamp)
	})
}

// sortConversations orders descending by last activity.
func sortConversations(conversations []*Conversation) {
	sort.Slice(conversations, func(i, j int) bool {
		return conversations[i].UpdatedAt.After(conversations[j].UpdatedAt)
	})
}

// latestMessage returns the most recent message, or nil for an empty set.
func latestMessage(messages []*Message) *Message {
	var latest *Message
	for _, m := range messages {
		if latest == nil || m.Timestamp.After(latest.Timestamp) {
			latest = m
		}
	}
	return latest
}

func containsParticipant(participants []string, userID string) bool {
	for _, p := range participants {
		if p == userID {
			return true
		}
	}
	return false
}

func dedupeParticipants(participants []string) []string {
	seen := make(map[string]bool, len(participants))
	out := make([]string, 0, len(participants))
	for _, p := range participants {
		if p == "" || seen[p] {
			continue
		}
		seen[p] = true
		out = append(out, p)
	}
	return out
}
