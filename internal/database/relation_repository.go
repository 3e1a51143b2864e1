package database

import (
	"context"
	"errors"
	"fmt"
	"time"

	"videotube/internal/models"
	"videotube/internal/utils"

	"github.com/rs/zerolog/log"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// relationStore locates the collection of a relation kind and the field
// holding the acting user.
type relationStore struct {
	coll       *mongo.Collection
	actorField string
}

func (m *MongoDB) relationStore(kind models.RelationKind) (relationStore, error) {
	switch kind {
	case models.LikeRelation:
		return relationStore{coll: m.Likes, actorField: "likedBy"}, nil
	case models.DislikeRelation:
		return relationStore{coll: m.Dislikes, actorField: "dislikedBy"}, nil
	case models.SubscriptionRelation:
		return relationStore{coll: m.Subscriptions, actorField: "subscriber"}, nil
	}
	return relationStore{}, utils.NewValidationError("Unsupported relation kind: " + string(kind))
}

// relationFilter identifies the single document of a relation triple.
// The target kind doubles as the target field name.
func relationFilter(store relationStore, rel models.Relation) bson.D {
	return bson.D{
		{Key: store.actorField, Value: rel.ActorID},
		{Key: string(rel.TargetKind), Value: rel.TargetID},
	}
}

// ToggleRelation deletes the relation when present and creates it when
// absent. A concurrent insert of the same triple hits the unique index and
// is reported as added, which is the state the caller asked for.
func (m *MongoDB) ToggleRelation(ctx context.Context, rel models.Relation) (models.ToggleState, error) {
	if !rel.Valid() {
		return "", utils.NewValidationError("Invalid relation target")
	}
	store, err := m.relationStore(rel.Kind)
	if err != nil {
		return "", err
	}

	filter := relationFilter(store, rel)
	err = store.coll.FindOneAndDelete(ctx, filter).Err()
	if err == nil {
		log.Debug().Str("kind", string(rel.Kind)).Str("target", rel.TargetID.Hex()).Msg("relation removed")
		return models.StateRemoved, nil
	}
	if !errors.Is(err, mongo.ErrNoDocuments) {
		return "", fmt.Errorf("failed to remove %s: %w", rel.Kind, err)
	}

	doc := append(bson.D{{Key: "_id", Value: primitive.NewObjectID()}}, filter...)
	doc = append(doc, bson.E{Key: "createdAt", Value: time.Now().UTC()})
	if _, err := store.coll.InsertOne(ctx, doc); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return models.StateAdded, nil
		}
		return "", fmt.Errorf("failed to add %s: %w", rel.Kind, err)
	}

	log.Debug().Str("kind", string(rel.Kind)).Str("target", rel.TargetID.Hex()).Msg("relation added")
	return models.StateAdded, nil
}

// GetRelatedVideos lists the videos a user liked or disliked.
func (m *MongoDB) GetRelatedVideos(ctx context.Context, kind models.RelationKind, userID primitive.ObjectID) ([]*models.RelatedVideoView, error) {
	if kind == models.SubscriptionRelation {
		return nil, utils.NewValidationError("Subscriptions do not point at videos")
	}
	store, err := m.relationStore(kind)
	if err != nil {
		return nil, err
	}

	cursor, err := store.coll.Aggregate(ctx, relatedVideosPipeline(store.actorField, userID))
	if err != nil {
		return nil, fmt.Errorf("failed to get %s videos: %w", kind, err)
	}
	defer cursor.Close(ctx)

	views := make([]*models.RelatedVideoView, 0)
	if err := cursor.All(ctx, &views); err != nil {
		return nil, fmt.Errorf("failed to decode %s videos: %w", kind, err)
	}
	return views, nil
}

func (m *MongoDB) GetChannelSubscribers(ctx context.Context, channelID primitive.ObjectID) ([]*models.SubscriberView, error) {
	cursor, err := m.Subscriptions.Aggregate(ctx, channelSubscribersPipeline(channelID))
	if err != nil {
		return nil, fmt.Errorf("failed to get subscribers: %w", err)
	}
	defer cursor.Close(ctx)

	views := make([]*models.SubscriberView, 0)
	if err := cursor.All(ctx, &views); err != nil {
		return nil, fmt.Errorf("failed to decode subscribers: %w", err)
	}
	return views, nil
}

func (m *MongoDB) GetSubscribedChannels(ctx context.Context, subscriberID primitive.ObjectID) ([]*models.SubscribedChannelView, error) {
	cursor, err := m.Subscriptions.Aggregate(ctx, subscribedChannelsPipeline(subscriberID))
	if err != nil {
		return nil, fmt.Errorf("failed to get subscribed channels: %w", err)
	}
	defer cursor.Close(ctx)

	views := make([]*models.SubscribedChannelView, 0)
	if err := cursor.All(ctx, &views); err != nil {
		return nil, fmt.Errorf("failed to decode subscribed channels: %w", err)
	}
	return views, nil
}

// relationIndexes builds one unique partial index per target field so each
// (actor, target) pair exists at most once, plus a plain index for counts.
func relationIndexes(actorField string, targets ...string) []mongo.IndexModel {
	var indexes []mongo.IndexModel
	for _, target := range targets {
		indexes = append(indexes,
			mongo.IndexModel{
				Keys: bson.D{
					{Key: actorField, Value: 1},
					{Key: target, Value: 1},
				},
				Options: options.Index().
					SetUnique(true).
					SetPartialFilterExpression(bson.M{target: bson.M{"$exists": true}}),
			},
			mongo.IndexModel{
				Keys: bson.D{{Key: target, Value: 1}},
			},
		)
	}
	return indexes
}

// EnsureRelationIndexes creates the uniqueness and lookup indexes for
// likes, dislikes and subscriptions.
func (m *MongoDB) EnsureRelationIndexes(ctx context.Context) error {
	engagementTargets := []string{
		string(models.VideoTarget),
		string(models.CommentTarget),
		string(models.TweetTarget),
	}

	if _, err := m.Likes.Indexes().CreateMany(ctx, relationIndexes("likedBy", engagementTargets...)); err != nil {
		return fmt.Errorf("failed to create like indexes: %w", err)
	}
	if _, err := m.Dislikes.Indexes().CreateMany(ctx, relationIndexes("dislikedBy", engagementTargets...)); err != nil {
		return fmt.Errorf("failed to create dislike indexes: %w", err)
	}
	if _, err := m.Subscriptions.Indexes().CreateMany(ctx, relationIndexes("subscriber", string(models.ChannelTarget))); err != nil {
		return fmt.Errorf("failed to create subscription indexes: %w", err)
	}
	return nil
}
