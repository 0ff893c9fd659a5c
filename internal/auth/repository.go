package auth

import (
	"context"

	"UniProjectHub/internal/apperr"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

type UserRepository struct {
	collection *mongo.Collection
}

func NewUserRepository(db *mongo.Database) *UserRepository {
	return &UserRepository{collection: db.Collection("users")}
}

func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*User, error) {
	var user User
	err := r.collection.FindOne(ctx, bson.M{"email": email}).Decode(&user)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, apperr.Store("find user by email", err)
	}
	return &user, nil
}

func (r *UserRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*User, error) {
	var user User
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&user)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, apperr.Store("find user by id", err)
	}
	return &user, nil
}

// FindByHexID resolves the string ids the engines carry around (JWT subject,
// project owner ids) back to directory records.
func (r *UserRepository) FindByHexID(ctx context.Context, hexID string) (*User, error) {
	id, err := primitive.ObjectIDFromHex(hexID)
	if err != nil {
		return nil, nil
	}
	return r.FindByID(ctx, id)
}

func (r *UserRepository) FindAll(ctx context.Context) ([]*User, error) {
	cursor, err := r.collection.Find(ctx, bson.M{})
	if err != nil {
		return nil, apperr.Store("list users", err)
	}
	var users []*User
	if err := cursor.All(ctx, &users); err != nil {
		return nil, apperr.Store("decode users", err)
	}
	return users, nil
}

func (r *UserRepository) FindByRole(ctx context.Context, role string) ([]*User, error) {
	cursor, err := r.collection.Find(ctx, bson.M{"role": role})
	if err != nil {
		return nil, apperr.Store("list users by role", err)
	}
	var users []*User
	if err := cursor.All(ctx, &users); err != nil {
		return nil, apperr.Store("decode users", err)
	}
	return users, nil
}

func (r *UserRepository) CreateUser(ctx context.Context, user *User) error {
	_, err := r.collection.InsertOne(ctx, user)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return apperr.Validation("email already registered")
		}
		return apperr.Store("create user", err)
	}
	return nil
}

func (r *UserRepository) UpdateUser(ctx context.Context, user *User) error {
	res, err := r.collection.UpdateOne(ctx, bson.M{"_id": user.ID}, bson.M{"$set": user})
	if err != nil {
		return apperr.Store("update user", err)
	}
	if res.MatchedCount == 0 {
		return apperr.NotFound("user not found")
	}
	return nil
}

// DeleteUser removes the directory record. References from projects and
// conversations are left dangling on purpose; there is no cascade.
func (r *UserRepository) DeleteUser(ctx context.Context, id primitive.ObjectID) error {
	res, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return apperr.Store("delete user", err)
	}
	if res.DeletedCount == 0 {
		return apperr.NotFound("user not found")
	}
	return nil
}
