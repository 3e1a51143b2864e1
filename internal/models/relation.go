package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// RelationKind identifies which actor-to-target relation is being toggled.
type RelationKind string

const (
	LikeRelation         RelationKind = "like"
	DislikeRelation      RelationKind = "dislike"
	SubscriptionRelation RelationKind = "subscription"
)

// TargetKind identifies the entity a relation points at.
type TargetKind string

const (
	VideoTarget   TargetKind = "video"
	CommentTarget TargetKind = "comment"
	TweetTarget   TargetKind = "tweet"
	ChannelTarget TargetKind = "channel"
)

// ToggleState is the outcome of a toggle.
type ToggleState string

const (
	StateAdded   ToggleState = "added"
	StateRemoved ToggleState = "removed"
)

// Relation is an (actor, target, kind) triple. At most one record exists per triple.
type Relation struct {
	Kind       RelationKind
	ActorID    primitive.ObjectID
	TargetKind TargetKind
	TargetID   primitive.ObjectID
}

// Valid reports whether the target kind can be used with the relation kind.
func (r Relation) Valid() bool {
	switch r.Kind {
	case LikeRelation, DislikeRelation:
		return r.TargetKind == VideoTarget || r.TargetKind == CommentTarget || r.TargetKind == TweetTarget
	case SubscriptionRelation:
		return r.TargetKind == ChannelTarget
	}
	return false
}

// RelationRecord is a stored relation. Likes, dislikes and subscriptions
// all share this shape; storage decides the concrete field names.
type RelationRecord struct {
	ID         primitive.ObjectID `json:"_id"`
	Kind       RelationKind       `json:"kind"`
	ActorID    primitive.ObjectID `json:"actor"`
	TargetKind TargetKind         `json:"targetKind"`
	TargetID   primitive.ObjectID `json:"target"`
	CreatedAt  time.Time          `json:"createdAt"`
}

// ToggleResult is returned to clients after a toggle.
type ToggleResult struct {
	State ToggleState `json:"state"`
}

var toggleNouns = map[TargetKind]string{
	VideoTarget:   "Video",
	CommentTarget: "Comment",
	TweetTarget:   "Tweet",
}

// ToggleMessage renders the response message for a toggle outcome,
// e.g. "Video liked successfully" or "Comment undisliked successfully".
func ToggleMessage(kind RelationKind, target TargetKind, state ToggleState) string {
	if kind == SubscriptionRelation {
		if state == StateAdded {
			return "Subscribed successfully"
		}
		return "Unsubscribed successfully"
	}

	verb := "liked"
	if kind == DislikeRelation {
		verb = "disliked"
	}
	if state == StateRemoved {
		verb = "un" + verb
	}
	return toggleNouns[target] + " " + verb + " successfully"
}

// RelatedVideoView is a video reached through a like or dislike record.
type RelatedVideoView struct {
	ID        primitive.ObjectID `json:"_id" bson:"_id"`
	Title     string             `json:"title" bson:"title"`
	VideoFile string             `json:"videoFile" bson:"videoFile"`
	Thumbnail string             `json:"thumbnail" bson:"thumbnail"`
	Duration  float64            `json:"duration" bson:"duration"`
	Owner     *UserSummary       `json:"owner" bson:"owner"`
	CreatedAt time.Time          `json:"createdAt" bson:"createdAt"`
}

// SubscriberView is one subscriber of a channel.
type SubscriberView struct {
	ID           primitive.ObjectID `json:"_id" bson:"_id"`
	Subscriber   *UserSummary       `json:"subscriber" bson:"subscriber"`
	SubscribedAt time.Time          `json:"subscribedAt" bson:"createdAt"`
}

// SubscribedChannelView is one channel a user is subscribed to.
type SubscribedChannelView struct {
	ID           primitive.ObjectID `json:"_id" bson:"_id"`
	Channel      *UserSummary       `json:"channel" bson:"channel"`
	SubscribedAt time.Time          `json:"subscribedAt" bson:"createdAt"`
}
