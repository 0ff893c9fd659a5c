package chat

import (
	"context"
	"time"

	"UniProjectHub/internal/apperr"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ChatRepository handles DB operations for conversations and messages.
// Messages live in their own collection keyed by conversation_id.
type ChatRepository struct {
	conversations *mongo.Collection
	messages      *mongo.Collection
}

func NewChatRepository(db *mongo.Database) *ChatRepository {
	return &ChatRepository{
		conversations: db.Collection("conversations"),
		messages:      db.Collection("messages"),
	}
}

// Conversation operations

func (r *ChatRepository) CreateConversation(ctx context.Context, conv *Conversation) error {
	_, err := r.conversations.InsertOne(ctx, conv)
	if err != nil {
		return apperr.Store("create conversation", err)
	}
	return nil
}

func (r *ChatRepository) FindConversationByID(ctx context.Context, id primitive.ObjectID) (*Conversation, error) {
	var conv Conversation
	err := r.conversations.FindOne(ctx, bson.M{"_id": id}).Decode(&conv)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, apperr.Store("find conversation", err)
	}
	return &conv, nil
}

func (r *ChatRepository) FindConversationsByUser(ctx context.Context, userID string) ([]*Conversation, error) {
	cursor, err := r.conversations.Find(ctx, bson.M{"participants": userID})
	if err != nil {
		return nil, apperr.Store("list conversations", err)
	}
	var conversations []*Conversation
	if err := cursor.All(ctx, &conversations); err != nil {
		return nil, apperr.Store("decode conversations", err)
	}
	return conversations, nil
}

// SetLastMessage overwrites the denormalized last_message and bumps
// updated_at. A nil message unsets the field entirely.
func (r *ChatRepository) SetLastMessage(ctx context.Context, id primitive.ObjectID, msg *Message, updatedAt time.Time) error {
	var update bson.M
	if msg == nil {
		update = bson.M{
			"$unset": bson.M{"last_message": ""},
			"$set":   bson.M{"updated_at": updatedAt},
		}
	} else {
		update = bson.M{"$set": bson.M{"last_message": msg, "updated_at": updatedAt}}
	}
	_, err := r.conversations.UpdateOne(ctx, bson.M{"_id": id}, update)
	if err != nil {
		return apperr.Store("update last message", err)
	}
	return nil
}

func (r *ChatRepository) SetUnreadCount(ctx context.Context, id primitive.ObjectID, count int) error {
	_, err := r.conversations.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": bson.M{"unread_count": count}})
	if err != nil {
		return apperr.Store("update unread count", err)
	}
	return nil
}

func (r *ChatRepository) AddParticipant(ctx context.Context, id primitive.ObjectID, userID string) error {
	res, err := r.conversations.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$addToSet": bson.M{"participants": userID}})
	if err != nil {
		return apperr.Store("add participant", err)
	}
	if res.MatchedCount == 0 {
		return apperr.NotFound("conversation not found")
	}
	return nil
}

func (r *ChatRepository) RemoveParticipant(ctx context.Context, id primitive.ObjectID, userID string) error {
	res, err := r.conversations.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$pull": bson.M{"participants": userID}})
	if err != nil {
		return apperr.Store("remove participant", err)
	}
	if res.MatchedCount == 0 {
		return apperr.NotFound("conversation not found")
	}
	return nil
}

func (r *ChatRepository) DeleteConversation(ctx context.Context, id primitive.ObjectID) error {
	res, err := r.conversations.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return apperr.Store("delete conversation", err)
	}
	if res.DeletedCount == 0 {
		return apperr.NotFound("conversation not found")
	}
	_, err = r.messages.DeleteMany(ctx, bson.M{"conversation_id": id})
	if err != nil {
		return apperr.Store("delete conversation messages", err)
	}
	return nil
}

// Message operations

func (r *ChatRepository) InsertMessage(ctx context.Context, msg *Message) error {
	_, err := r.messages.InsertOne(ctx, msg)
	if err != nil {
		return apperr.Store("insert message", err)
	}
	return nil
}

func (r *ChatRepository) FindMessageByID(ctx context.Context, id primitive.ObjectID) (*Message, error) {
	var msg Message
	err := r.messages.FindOne(ctx, bson.M{"_id": id}).Decode(&msg)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, apperr.Store("find message", err)
	}
	return &msg, nil
}

// FindMessagesByConversation fetches the full message set with no server
// ordering; callers sort client-side.
func (r *ChatRepository) FindMessagesByConversation(ctx context.Context, conversationID primitive.ObjectID) ([]*Message, error) {
	cursor, err := r.messages.Find(ctx, bson.M{"conversation_id": conversationID})
	if err != nil {
		return nil, apperr.Store("list messages", err)
	}
	var messages []*Message
	if err := cursor.All(ctx, &messages); err != nil {
		return nil, apperr.Store("decode messages", err)
	}
	return messages, nil
}

func (r *ChatRepository) DeleteMessage(ctx context.Context, id primitive.ObjectID) error {
	res, err := r.messages.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return apperr.Store("delete message", err)
	}
	if res.DeletedCount == 0 {
		return apperr.NotFound("message not found")
	}
	return nil
}

func (r *ChatRepository) CountMessages(ctx context.Context, conversationID primitive.ObjectID) (int64, error) {
	count, err := r.messages.CountDocuments(ctx, bson.M{"conversation_id": conversationID})
	if err != nil {
		return 0, apperr.Store("count messages", err)
	}
	return count, nil
}

func (r *ChatRepository) CountUnread(ctx context.Context, conversationID primitive.ObjectID, readerID string) (int64, error) {
	filter := bson.M{
		"conversation_id": conversationID,
		"sender_id":       bson.M{"$ne": readerID},
		"is_read":         false,
	}
	count, err := r.messages.CountDocuments(ctx, filter)
	if err != nil {
		return 0, apperr.Store("count unread messages", err)
	}
	return count, nil
}

// MarkRead flips is_read on every message in the conversation not sent by
// the reader. Callers check the unread count first so an empty batch is
// never issued.
func (r *ChatRepository) MarkRead(ctx context.Context, conversationID primitive.ObjectID, readerID string) error {
	filter := bson.M{
		"conversation_id": conversationID,
		"sender_id":       bson.M{"$ne": readerID},
		"is_read":         false,
	}
	_, err := r.messages.UpdateMany(ctx, filter, bson.M{"$set": bson.M{"is_read": true}})
	if err != nil {
		return apperr.Store("mark messages read", err)
	}
	return nil
}

// WatchMessages subscribes to new messages in a conversation via a change
// stream and invokes fn for each insert. It blocks until ctx is cancelled;
// cancelling the context is the unsubscribe.
func (r *ChatRepository) WatchMessages(ctx context.Context, conversationID primitive.ObjectID, fn func(*Message) error) error {
	pipeline := mongo.Pipeline{
		bson.D{{Key: "$match", Value: bson.D{
			{Key: "operationType", Value: "insert"},
			{Key: "fullDocument.conversation_id", Value: conversationID},
		}}},
	}
	stream, err := r.messages.Watch(ctx, pipeline, options.ChangeStream())
	if err != nil {
		return apperr.Store("watch messages", err)
	}
	defer stream.Close(context.Background())

	for stream.Next(ctx) {
		var event struct {
			FullDocument Message `bson:"fullDocument"`
		}
		if err := stream.Decode(&event); err != nil {
			return apperr.Store("decode change event", err)
		}
		if err := fn(&event.FullDocument); err != nil {
			return err
		}
	}
	if ctx.Err() != nil {
		return nil
	}
	if err := stream.Err(); err != nil {
		return apperr.Store("message stream", err)
	}
	return nil
}
