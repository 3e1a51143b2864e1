package database

import (
	"context"
	"errors"
	"fmt"

	"videotube/internal/models"
	"videotube/internal/utils"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// publicUserProjection keeps credentials and history out of every user read.
var publicUserProjection = bson.M{
	"username":   1,
	"email":      1,
	"fullName":   1,
	"avatar":     1,
	"coverImage": 1,
}

// GetUser retrieves the public profile of a user by ID
func (m *MongoDB) GetUser(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	var user models.User
	opts := options.FindOne().SetProjection(publicUserProjection)
	err := m.Users.FindOne(ctx, bson.M{"_id": id}, opts).Decode(&user)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, utils.NewAppError(utils.ErrNotFound, "User not found", err)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return &user, nil
}
