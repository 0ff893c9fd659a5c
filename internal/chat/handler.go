package chat

import (
	"encoding/json"
	"net/http"

	"UniProjectHub/internal/apperr"
	"UniProjectHub/internal/auth"
	"UniProjectHub/internal/config"

	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ChatHandler handles HTTP requests for conversations and messages.
type ChatHandler struct {
	service *ChatService
	storage *config.FileStorage
}

func NewChatHandler(service *ChatService, storage *config.FileStorage) *ChatHandler {
	return &ChatHandler{service: service, storage: storage}
}

func userID(c echo.Context) (string, bool) {
	claims, ok := c.Get("user").(*auth.JWTClaims)
	if !ok || claims == nil {
		return "", false
	}
	return claims.UserID, true
}

func conversationID(c echo.Context) (primitive.ObjectID, error) {
	return primitive.ObjectIDFromHex(c.Param("id"))
}

func (h *ChatHandler) CreateConversation(c echo.Context) error {
	uid, ok := userID(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": "Invalid or missing token"})
	}

	var req CreateConversationRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request"})
	}

	conv, err := h.service.CreateConversation(c.Request().Context(), uid, req)
	if err != nil {
		return c.JSON(apperr.Status(err), map[string]string{"error": err.Error()})
	}
	return c.JSON(http.StatusCreated, conv)
}

func (h *ChatHandler) ListConversations(c echo.Context) error {
	uid, ok := userID(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": "Invalid or missing token"})
	}

	conversations, err := h.service.ListConversations(c.Request().Context(), uid)
	if err != nil {
		return c.JSON(apperr.Status(err), map[string]string{"error": err.Error()})
	}
	return c.JSON(http.StatusOK, conversations)
}

func (h *ChatHandler) GetMessages(c echo.Context) error {
	uid, ok := userID(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": "Invalid or missing token"})
	}

	id, err := conversationID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid conversation ID"})
	}

	messages, err := h.service.GetMessages(c.Request().Context(), id, uid)
	if err != nil {
		return c.JSON(apperr.Status(err), map[string]string{"error": err.Error()})
	}
	return c.JSON(http.StatusOK, messages)
}

type SendMessageRequest struct {
	Content string `json:"content"`
	Type    string `json:"type"`
}

func (h *ChatHandler) SendMessage(c echo.Context) error {
	uid, ok := userID(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": "Invalid or missing token"})
	}

	id, err := conversationID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid conversation ID"})
	}

	var req SendMessageRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request"})
	}

	msg, err := h.service.SendMessage(c.Request().Context(), id, uid, req.Content, req.Type, "", "")
	if err != nil {
		return c.JSON(apperr.Status(err), map[string]string{"error": err.Error()})
	}
	return c.JSON(http.StatusCreated, msg)
}

func (h *ChatHandler) SendFile(c echo.Context) error {
	uid, ok := userID(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": "Invalid or missing token"})
	}

	id, err := conversationID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid conversation ID"})
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "A file is required"})
	}

	file, err := fileHeader.Open()
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Failed to read file"})
	}
	defer file.Close()

	msg, err := h.service.SendFile(c.Request().Context(), id, uid,
		fileHeader.Filename, fileHeader.Header.Get("Content-Type"), fileHeader.Size, file)
	if err != nil {
		return c.JSON(apperr.Status(err), map[string]string{"error": err.Error()})
	}
	return c.JSON(http.StatusCreated, msg)
}

func (h *ChatHandler) DownloadFile(c echo.Context) error {
	fileID, err := primitive.ObjectIDFromHex(c.Param("fileId"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid file ID"})
	}

	c.Response().Header().Set(echo.HeaderContentType, echo.MIMEOctetStream)
	c.Response().WriteHeader(http.StatusOK)
	if err := h.storage.Download(fileID, c.Response()); err != nil {
		return err
	}
	return nil
}

func (h *ChatHandler) DeleteMessage(c echo.Context) error {
	uid, ok := userID(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": "Invalid or missing token"})
	}

	id, err := conversationID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid conversation ID"})
	}
	messageID, err := primitive.ObjectIDFromHex(c.Param("messageId"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid message ID"})
	}

	if err := h.service.DeleteMessage(c.Request().Context(), id, messageID, uid); err != nil {
		return c.JSON(apperr.Status(err), map[string]string{"error": err.Error()})
	}
	return c.JSON(http.StatusOK, map[string]string{"message": "Message deleted"})
}

func (h *ChatHandler) MarkMessagesAsRead(c echo.Context) error {
	uid, ok := userID(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": "Invalid or missing token"})
	}

	id, err := conversationID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid conversation ID"})
	}

	if err := h.service.MarkMessagesAsRead(c.Request().Context(), id, uid); err != nil {
		return c.JSON(apperr.Status(err), map[string]string{"error": err.Error()})
	}
	return c.JSON(http.StatusOK, map[string]string{"message": "Messages marked as read"})
}

type GroupMemberRequest struct {
	UserID string `json:"user_id"`
}

func (h *ChatHandler) AddUserToGroup(c echo.Context) error {
	uid, ok := userID(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": "Invalid or missing token"})
	}

	id, err := conversationID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid conversation ID"})
	}

	var req GroupMemberRequest
	if err := c.Bind(&req); err != nil || req.UserID == "" {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "A user ID is required"})
	}

	if err := h.service.AddUserToGroup(c.Request().Context(), id, uid, req.UserID); err != nil {
		return c.JSON(apperr.Status(err), map[string]string{"error": err.Error()})
	}
	return c.JSON(http.StatusOK, map[string]string{"message": "User added to group"})
}

func (h *ChatHandler) RemoveUserFromGroup(c echo.Context) error {
	uid, ok := userID(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": "Invalid or missing token"})
	}

	id, err := conversationID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid conversation ID"})
	}

	if err := h.service.RemoveUserFromGroup(c.Request().Context(), id, uid, c.Param("userId")); err != nil {
		return c.JSON(apperr.Status(err), map[string]string{"error": err.Error()})
	}
	return c.JSON(http.StatusOK, map[string]string{"message": "User removed from group"})
}

func (h *ChatHandler) GetConversationStats(c echo.Context) error {
	uid, ok := userID(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": "Invalid or missing token"})
	}

	id, err := conversationID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid conversation ID"})
	}

	stats, err := h.service.GetConversationStats(c.Request().Context(), id, uid)
	if err != nil {
		return c.JSON(apperr.Status(err), map[string]string{"error": err.Error()})
	}
	return c.JSON(http.StatusOK, stats)
}

// StreamMessages serves new messages over SSE until the client disconnects.
// The request context cancels the underlying change stream on teardown.
func (h *ChatHandler) StreamMessages(c echo.Context) error {
	uid, ok := userID(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": "Invalid or missing token"})
	}

	id, err := conversationID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid conversation ID"})
	}

	if err := h.service.AuthorizeParticipant(c.Request().Context(), id, uid); err != nil {
		return c.JSON(apperr.Status(err), map[string]string{"error": err.Error()})
	}

	c.Response().Header().Set(echo.HeaderContentType, "text/event-stream")
	c.Response().Header().Set("Cache-Control", "no-cache")
	c.Response().Header().Set("Connection", "keep-alive")
	c.Response().WriteHeader(http.StatusOK)
	c.Response().Flush()

	err = h.service.StreamMessages(c.Request().Context(), id, uid, func(msg *Message) error {
		data, err := json.Marshal(msg)
		if err != nil {
			return err
		}
		if _, err := c.Response().Write([]byte("data: " + string(data) + "\n\n")); err != nil {
			return err
		}
		c.Response().Flush()
		return nil
	})
	// Headers are already out; a mid-stream failure can only be logged.
	return err
}
