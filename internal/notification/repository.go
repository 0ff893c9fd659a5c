package notification

import (
	"context"

	"UniProjectHub/internal/apperr"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// NotificationRepository handles DB operations for the notification feed.
type NotificationRepository struct {
	collection *mongo.Collection
}

func NewNotificationRepository(db *mongo.Database) *NotificationRepository {
	return &NotificationRepository{collection: db.Collection("notifications")}
}

func (r *NotificationRepository) CreateNotification(ctx context.Context, n *Notification) error {
	_, err := r.collection.InsertOne(ctx, n)
	if err != nil {
		return apperr.Store("create notification", err)
	}
	return nil
}

func (r *NotificationRepository) FindByRecipient(ctx context.Context, recipientID string) ([]*Notification, error) {
	cursor, err := r.collection.Find(ctx, bson.M{"recipient_id": recipientID})
	if err != nil {
		return nil, apperr.Store("list notifications", err)
	}
	var notifications []*Notification
	if err := cursor.All(ctx, &notifications); err != nil {
		return nil, apperr.Store("decode notifications", err)
	}
	return notifications, nil
}

func (r *NotificationRepository) CountUnread(ctx context.Context, recipientID string) (int64, error) {
	count, err := r.collection.CountDocuments(ctx, bson.M{"recipient_id": recipientID, "is_read": false})
	if err != nil {
		return 0, apperr.Store("count unread notifications", err)
	}
	return count, nil
}

func (r *NotificationRepository) MarkRead(ctx context.Context, id primitive.ObjectID, recipientID string) error {
	res, err := r.collection.UpdateOne(ctx,
		bson.M{"_id": id, "recipient_id": recipientID},
		bson.M{"$set": bson.M{"is_read": true}})
	if err != nil {
		return apperr.Store("mark notification read", err)
	}
	if res.MatchedCount == 0 {
		return apperr.NotFound("notification not found")
	}
	return nil
}

func (r *NotificationRepository) MarkAllRead(ctx context.Context, recipientID string) error {
	_, err := r.collection.UpdateMany(ctx,
		bson.M{"recipient_id": recipientID, "is_read": false},
		bson.M{"$set": bson.M{"is_read": true}})
	if err != nil {
		return apperr.Store("mark all notifications read", err)
	}
	return nil
}

// DeleteNotification deletes one of the recipient's own notifications.
func (r *NotificationRepository) DeleteNotification(ctx context.Context, id primitive.ObjectID, recipientID string) error {
	res, err := r.collection.DeleteOne(ctx, bson.M{"_id": id, "recipient_id": recipientID})
	if err != nil {
		return apperr.Store("delete notification", err)
	}
	if res.DeletedCount == 0 {
		return apperr.NotFound("notification not found")
	}
	return nil
}
