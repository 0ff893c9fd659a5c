package chat

import (
	"context"
	"io"
	"log"
	"strings"
	"time"

	"UniProjectHub/internal/apperr"
	"UniProjectHub/internal/auth"
	"UniProjectHub/internal/config"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const defaultGroupName = "New Group"

// ChatService owns conversation and message lifecycle.
type ChatService struct {
	repo    *ChatRepository
	users   *auth.UserRepository
	storage *config.FileStorage
}

func NewChatService(repo *ChatRepository, users *auth.UserRepository, storage *config.FileStorage) *ChatService {
	return &ChatService{repo: repo, users: users, storage: storage}
}

type CreateConversationRequest struct {
	Participants []string `json:"participants"`
	IsGroup      bool     `json:"is_group"`
	GroupName    string   `json:"group_name"`
	GroupAvatar  string   `json:"group_avatar"`
}

// CreateConversation creates a direct or group conversation. For direct
// conversations the pair is checked for an existing conversation first and
// that one is returned instead; the check is advisory, so two clients
// creating first contact concurrently can still produce duplicates.
func (s *ChatService) CreateConversation(ctx context.Context, actorID string, req CreateConversationRequest) (*Conversation, error) {
	participants := dedupeParticipants(req.Participants)
	if !containsParticipant(participants, actorID) {
		return nil, apperr.Permission("you must be a participant of the conversation")
	}

	if !req.IsGroup {
		if len(participants) != 2 {
			return nil, apperr.Validation("a direct conversation requires exactly 2 participants")
		}
		other := participants[0]
		if other == actorID {
			other = participants[1]
		}
		existing, err := s.FindConversationBetweenUsers(ctx, actorID, other)
		if err != nil {
			return nil, err
		}
		if existing != nil {
			return existing, nil
		}
	} else if len(participants) < 2 {
		return nil, apperr.Validation("a group conversation requires at least 2 participants")
	}

	now := time.Now()
	conv := &Conversation{
		ID:           primitive.NewObjectID(),
		Participants: participants,
		IsGroup:      req.IsGroup,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if req.IsGroup {
		conv.GroupName = strings.TrimSpace(req.GroupName)
		if conv.GroupName == "" {
			conv.GroupName = defaultGroupName
		}
		conv.GroupAvatar = strings.TrimSpace(req.GroupAvatar)
	}

	if err := s.repo.CreateConversation(ctx, conv); err != nil {
		return nil, err
	}
	return conv, nil
}

// ListConversations returns the user's conversations, most recent activity
// first. Ordering is applied here after a full fetch.
func (s *ChatService) ListConversations(ctx context.Context, userID string) ([]*Conversation, error) {
	conversations, err := s.repo.FindConversationsByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	sortConversations(conversations)
	return conversations, nil
}

// FindConversationBetweenUsers scans a's non-group conversations for one
// containing b. Linear in the number of a's conversations.
func (s *ChatService) FindConversationBetweenUsers(ctx context.Context, a, b string) (*Conversation, error) {
	conversations, err := s.repo.FindConversationsByUser(ctx, a)
	if err != nil {
		return nil, err
	}
	for _, conv := range conversations {
		if conv.IsGroup {
			continue
		}
		if containsParticipant(conv.Participants, b) {
			return conv, nil
		}
	}
	return nil, nil
}

func (s *ChatService) getConversation(ctx context.Context, id primitive.ObjectID) (*Conversation, error) {
	conv, err := s.repo.FindConversationByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if conv == nil {
		return nil, apperr.NotFound("conversation not found")
	}
	return conv, nil
}

func (s *ChatService) getConversationFor(ctx context.Context, id primitive.ObjectID, userID string) (*Conversation, error) {
	conv, err := s.getConversation(ctx, id)
	if err != nil {
		return nil, err
	}
	if !containsParticipant(conv.Participants, userID) {
		return nil, apperr.Permission("you are not a participant of this conversation")
	}
	return conv, nil
}

// GetMessages returns the conversation's messages in ascending timestamp
// order, sorted here after a full fetch.
func (s *ChatService) GetMessages(ctx context.Context, conversationID primitive.ObjectID, userID string) ([]*Message, error) {
	if _, err := s.getConversationFor(ctx, conversationID, userID); err != nil {
		return nil, err
	}
	messages, err := s.repo.FindMessagesByConversation(ctx, conversationID)
	if err != nil {
		return nil, err
	}
	sortMessages(messages)
	return messages, nil
}

// SendMessage appends a message and then denormalizes it into the parent
// conversation's last_message. The two writes are not atomic: a crash in
// between leaves last_message stale, which self-heals on the next send.
func (s *ChatService) SendMessage(ctx context.Context, conversationID primitive.ObjectID, senderID, content, msgType, fileURL, fileName string) (*Message, error) {
	if content == "" {
		return nil, apperr.Validation("message content is required")
	}
	if msgType == "" {
		msgType = MessageTypeText
	}
	if msgType != MessageTypeText && msgType != MessageTypeFile && msgType != MessageTypeImage {
		return nil, apperr.Validation("unknown message type %q", msgType)
	}

	if senderID != SystemSenderID {
		if _, err := s.getConversationFor(ctx, conversationID, senderID); err != nil {
			return nil, err
		}
	}

	msg := &Message{
		ID:             primitive.NewObjectID(),
		ConversationID: conversationID,
		SenderID:       senderID,
		Content:        content,
		Timestamp:      time.Now(),
		Type:           msgType,
		FileURL:        fileURL,
		FileName:       fileName,
		IsRead:         false,
	}
	if err := s.repo.InsertMessage(ctx, msg); err != nil {
		return nil, err
	}

	if err := s.repo.SetLastMessage(ctx, conversationID, msg, msg.Timestamp); err != nil {
		log.Printf("Failed to update last message for conversation %s: %v", conversationID.Hex(), err)
	}
	return msg, nil
}

// SendFile validates the upload, stores it, and sends a file message whose
// content carries the human-readable size.
func (s *ChatService) SendFile(ctx context.Context, conversationID primitive.ObjectID, senderID, fileName, mimeType string, size int64, source io.Reader) (*Message, error) {
	if err := validateUpload(mimeType, size); err != nil {
		return nil, err
	}
	if _, err := s.getConversationFor(ctx, conversationID, senderID); err != nil {
		return nil, err
	}

	url, err := s.storage.Upload(fileName, source)
	if err != nil {
		return nil, apperr.Store("upload file", err)
	}

	content := fileName + " (" + FormatFileSize(size) + ")"
	return s.SendMessage(ctx, conversationID, senderID, content, MessageTypeFile, url, fileName)
}

// DeleteMessage hard-removes a message; only its sender may delete it.
// Deleting the most recent message forces a recompute of the denormalized
// last_message from the remaining messages, an O(n) re-fetch.
func (s *ChatService) DeleteMessage(ctx context.Context, conversationID, messageID primitive.ObjectID, requesterID string) error {
	conv, err := s.getConversationFor(ctx, conversationID, requesterID)
	if err != nil {
		return err
	}

	msg, err := s.repo.FindMessageByID(ctx, messageID)
	if err != nil {
		return err
	}
	if msg == nil || msg.ConversationID != conversationID {
		return apperr.NotFound("message not found")
	}
	if msg.SenderID != requesterID {
		return apperr.Permission("only the sender can delete a message")
	}

	if err := s.repo.DeleteMessage(ctx, messageID); err != nil {
		return err
	}

	remaining, err := s.repo.FindMessagesByConversation(ctx, conversationID)
	if err != nil {
		return err
	}
	latest := latestMessage(remaining)
	updatedAt := conv.UpdatedAt
	if latest != nil {
		updatedAt = latest.Timestamp
	}
	if err := s.repo.SetLastMessage(ctx, conversationID, latest, updatedAt); err != nil {
		log.Printf("Failed to recompute last message for conversation %s: %v", conversationID.Hex(), err)
	}
	return nil
}

// MarkMessagesAsRead flips is_read on every message not sent by the reader.
// When nothing is unread no write is issued at all, so a second call in a
// row is a clean no-op.
func (s *ChatService) MarkMessagesAsRead(ctx context.Context, conversationID primitive.ObjectID, readerID string) error {
	if _, err := s.getConversationFor(ctx, conversationID, readerID); err != nil {
		return err
	}

	count, err := s.repo.CountUnread(ctx, conversationID, readerID)
	if err != nil {
		return err
	}
	if count == 0 {
		return nil
	}
	if err := s.repo.MarkRead(ctx, conversationID, readerID); err != nil {
		return err
	}

	// Best effort: the unread counter is a denormalized convenience, not a
	// source of truth.
	if err := s.repo.SetUnreadCount(ctx, conversationID, 0); err != nil {
		log.Printf("Failed to reset unread count for conversation %s: %v", conversationID.Hex(), err)
	}
	return nil
}

// AddUserToGroup adds a participant and records the change as a
// system-authored message in the same stream.
func (s *ChatService) AddUserToGroup(ctx context.Context, conversationID primitive.ObjectID, actorID, targetID string) error {
	conv, err := s.getConversationFor(ctx, conversationID, actorID)
	if err != nil {
		return err
	}
	if !conv.IsGroup {
		return apperr.Validation("not a group conversation")
	}
	if containsParticipant(conv.Participants, targetID) {
		return apperr.Validation("user is already a participant")
	}

	if err := s.repo.AddParticipant(ctx, conversationID, targetID); err != nil {
		return err
	}

	content := s.displayName(ctx, actorID) + " added " + s.displayName(ctx, targetID) + " to the group"
	if _, err := s.SendMessage(ctx, conversationID, SystemSenderID, content, MessageTypeText, "", ""); err != nil {
		log.Printf("Failed to record membership change in conversation %s: %v", conversationID.Hex(), err)
	}
	return nil
}

// RemoveUserFromGroup removes a participant and records the change as a
// system-authored message.
func (s *ChatService) RemoveUserFromGroup(ctx context.Context, conversationID primitive.ObjectID, actorID, targetID string) error {
	conv, err := s.getConversationFor(ctx, conversationID, actorID)
	if err != nil {
		return err
	}
	if !conv.IsGroup {
		return apperr.Validation("not a group conversation")
	}
	if !containsParticipant(conv.Participants, targetID) {
		return apperr.Validation("user is not a participant")
	}

	if err := s.repo.RemoveParticipant(ctx, conversationID, targetID); err != nil {
		return err
	}

	content := s.displayName(ctx, actorID) + " removed " + s.displayName(ctx, targetID) + " from the group"
	if _, err := s.SendMessage(ctx, conversationID, SystemSenderID, content, MessageTypeText, "", ""); err != nil {
		log.Printf("Failed to record membership change in conversation %s: %v", conversationID.Hex(), err)
	}
	return nil
}

// GetConversationStats recounts on every call.
func (s *ChatService) GetConversationStats(ctx context.Context, conversationID primitive.ObjectID, userID string) (*ConversationStats, error) {
	conv, err := s.getConversationFor(ctx, conversationID, userID)
	if err != nil {
		return nil, err
	}
	count, err := s.repo.CountMessages(ctx, conversationID)
	if err != nil {
		return nil, err
	}
	return &ConversationStats{
		MessageCount:     count,
		ParticipantCount: len(conv.Participants),
		LastActivity:     conv.UpdatedAt,
	}, nil
}

// AuthorizeParticipant verifies the user belongs to the conversation.
func (s *ChatService) AuthorizeParticipant(ctx context.Context, conversationID primitive.ObjectID, userID string) error {
	_, err := s.getConversationFor(ctx, conversationID, userID)
	return err
}

// StreamMessages delivers new messages to fn until ctx is cancelled.
func (s *ChatService) StreamMessages(ctx context.Context, conversationID primitive.ObjectID, userID string, fn func(*Message) error) error {
	if err := s.AuthorizeParticipant(ctx, conversationID, userID); err != nil {
		return err
	}
	return s.repo.WatchMessages(ctx, conversationID, fn)
}

func (s *ChatService) displayName(ctx context.Context, userID string) string {
	user, err := s.users.FindByHexID(ctx, userID)
	if err != nil || user == nil {
		return userID
	}
	return user.Name
}
