package actors

import (
	"context"
	"testing"
	"time"

	"videotube/internal/models"
	"videotube/internal/utils"

	"github.com/asynkron/protoactor-go/actor"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func newEngagementEnv(t *testing.T) *testEnv {
	return newTestEnv(t, func(deps Deps, _ *fakeMedia) actor.Actor {
		return NewEngagementActor(deps)
	})
}

func toggleState(t *testing.T, env *testEnv, msg *ToggleMsg) models.ToggleState {
	t.Helper()
	result := env.request(t, msg)
	toggled, ok := result.(*models.ToggleResult)
	require.True(t, ok, "got %T: %v", result, result)
	return toggled.State
}

// toggleCount reads videotube_toggles_total for one label set.
func toggleCount(t *testing.T, env *testEnv, kind, target, state string) float64 {
	t.Helper()
	families, err := env.metrics.Registry().Gather()
	require.NoError(t, err)

	want := map[string]string{"kind": kind, "target": target, "state": state}
	for _, family := range families {
		if family.GetName() != "videotube_toggles_total" {
			continue
		}
		for _, m := range family.GetMetric() {
			matched := 0
			for _, label := range m.GetLabel() {
				if want[label.GetName()] == label.GetValue() {
					matched++
				}
			}
			if matched == len(want) {
				return m.GetCounter().GetValue()
			}
		}
	}
	return 0
}

func TestToggleLikeRoundTrip(t *testing.T) {
	env := newEngagementEnv(t)
	alice := env.seedUser("alice")
	bob := env.seedUser("bob")
	video := env.seedVideo(t, alice.ID, "intro")

	like := &ToggleMsg{Kind: models.LikeRelation, TargetKind: models.VideoTarget, TargetID: video.ID, UserID: bob.ID}

	assert.Equal(t, models.StateAdded, toggleState(t, env, like))
	assert.Equal(t, 1, env.db.CountRelations(models.LikeRelation, models.VideoTarget, video.ID))

	assert.Equal(t, models.StateRemoved, toggleState(t, env, like))
	assert.Equal(t, 0, env.db.CountRelations(models.LikeRelation, models.VideoTarget, video.ID))

	assert.Equal(t, float64(1), toggleCount(t, env, "like", "video", "added"))
	assert.Equal(t, float64(1), toggleCount(t, env, "like", "video", "removed"))
}

func TestToggleLikeAndDislikeAreIndependent(t *testing.T) {
	env := newEngagementEnv(t)
	alice := env.seedUser("alice")
	video := env.seedVideo(t, alice.ID, "intro")

	assert.Equal(t, models.StateAdded, toggleState(t, env, &ToggleMsg{Kind: models.LikeRelation, TargetKind: models.VideoTarget, TargetID: video.ID, UserID: alice.ID}))
	assert.Equal(t, models.StateAdded, toggleState(t, env, &ToggleMsg{Kind: models.DislikeRelation, TargetKind: models.VideoTarget, TargetID: video.ID, UserID: alice.ID}))

	detail, err := env.db.GetVideoDetail(context.Background(), video.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, detail.LikesCount)
	assert.Equal(t, 1, detail.DislikesCount)
}

func TestToggleTargets(t *testing.T) {
	env := newEngagementEnv(t)
	alice := env.seedUser("alice")
	bob := env.seedUser("bob")
	video := env.seedVideo(t, alice.ID, "intro")

	comment := &models.Comment{ID: primitive.NewObjectID(), Content: "hi", VideoID: video.ID, OwnerID: alice.ID, CreatedAt: now()}
	require.NoError(t, env.db.SaveComment(context.Background(), comment))
	tweet := &models.Tweet{ID: primitive.NewObjectID(), Content: "hello", OwnerID: alice.ID, CreatedAt: now()}
	require.NoError(t, env.db.SaveTweet(context.Background(), tweet))

	assert.Equal(t, models.StateAdded, toggleState(t, env, &ToggleMsg{Kind: models.LikeRelation, TargetKind: models.CommentTarget, TargetID: comment.ID, UserID: bob.ID}))
	assert.Equal(t, models.StateAdded, toggleState(t, env, &ToggleMsg{Kind: models.DislikeRelation, TargetKind: models.TweetTarget, TargetID: tweet.ID, UserID: bob.ID}))
	assert.Equal(t, models.StateAdded, toggleState(t, env, &ToggleMsg{Kind: models.SubscriptionRelation, TargetKind: models.ChannelTarget, TargetID: alice.ID, UserID: bob.ID}))

	// Missing targets are rejected before any record is written
	missing := primitive.NewObjectID()
	env.requestErr(t, &ToggleMsg{Kind: models.LikeRelation, TargetKind: models.VideoTarget, TargetID: missing, UserID: bob.ID}, utils.ErrNotFound)
	env.requestErr(t, &ToggleMsg{Kind: models.LikeRelation, TargetKind: models.CommentTarget, TargetID: missing, UserID: bob.ID}, utils.ErrNotFound)
	env.requestErr(t, &ToggleMsg{Kind: models.DislikeRelation, TargetKind: models.TweetTarget, TargetID: missing, UserID: bob.ID}, utils.ErrNotFound)
	appErr := env.requestErr(t, &ToggleMsg{Kind: models.SubscriptionRelation, TargetKind: models.ChannelTarget, TargetID: missing, UserID: bob.ID}, utils.ErrNotFound)
	assert.Equal(t, "Channel not found", appErr.Message)
	assert.Equal(t, 0, env.db.CountRelations(models.LikeRelation, models.VideoTarget, missing))
}

func TestToggleValidation(t *testing.T) {
	env := newEngagementEnv(t)
	alice := env.seedUser("alice")
	video := env.seedVideo(t, alice.ID, "intro")

	// Unauthenticated
	env.requestErr(t, &ToggleMsg{Kind: models.LikeRelation, TargetKind: models.VideoTarget, TargetID: video.ID}, utils.ErrInvalidInput)
	// Missing target id
	env.requestErr(t, &ToggleMsg{Kind: models.LikeRelation, TargetKind: models.VideoTarget, UserID: alice.ID}, utils.ErrInvalidInput)
	// Subscriptions only point at channels
	env.requestErr(t, &ToggleMsg{Kind: models.SubscriptionRelation, TargetKind: models.VideoTarget, TargetID: video.ID, UserID: alice.ID}, utils.ErrInvalidInput)
}

func TestEngagementLists(t *testing.T) {
	env := newEngagementEnv(t)
	alice := env.seedUser("alice")
	bob := env.seedUser("bob")
	first := env.seedVideo(t, alice.ID, "first")
	second := env.seedVideo(t, alice.ID, "second")

	toggleState(t, env, &ToggleMsg{Kind: models.LikeRelation, TargetKind: models.VideoTarget, TargetID: first.ID, UserID: bob.ID})
	time.Sleep(2 * time.Millisecond)
	toggleState(t, env, &ToggleMsg{Kind: models.LikeRelation, TargetKind: models.VideoTarget, TargetID: second.ID, UserID: bob.ID})
	toggleState(t, env, &ToggleMsg{Kind: models.SubscriptionRelation, TargetKind: models.ChannelTarget, TargetID: alice.ID, UserID: bob.ID})

	result := env.request(t, &GetRelatedVideosMsg{Kind: models.LikeRelation, UserID: bob.ID})
	liked := result.([]*models.RelatedVideoView)
	require.Len(t, liked, 2)
	assert.Equal(t, second.ID, liked[0].ID)
	assert.Equal(t, "alice", liked[0].Owner.Username)

	result = env.request(t, &GetRelatedVideosMsg{Kind: models.DislikeRelation, UserID: bob.ID})
	assert.Empty(t, result.([]*models.RelatedVideoView))

	result = env.request(t, &GetChannelSubscribersMsg{ChannelID: alice.ID})
	subscribers := result.([]*models.SubscriberView)
	require.Len(t, subscribers, 1)
	assert.Equal(t, bob.ID, subscribers[0].Subscriber.ID)

	result = env.request(t, &GetSubscribedChannelsMsg{SubscriberID: bob.ID})
	channels := result.([]*models.SubscribedChannelView)
	require.Len(t, channels, 1)
	assert.Equal(t, alice.ID, channels[0].Channel.ID)

	env.requestErr(t, &GetRelatedVideosMsg{Kind: models.LikeRelation}, utils.ErrInvalidInput)
}
