package actors

import (
	"context"
	"testing"

	"videotube/internal/models"
	"videotube/internal/utils"

	"github.com/asynkron/protoactor-go/actor"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func newCommentEnv(t *testing.T) *testEnv {
	return newTestEnv(t, func(deps Deps, _ *fakeMedia) actor.Actor {
		return NewCommentActor(deps)
	})
}

func TestCommentActor(t *testing.T) {
	env := newCommentEnv(t)
	alice := env.seedUser("alice")
	bob := env.seedUser("bob")
	video := env.seedVideo(t, alice.ID, "intro")

	// Add a top-level comment
	result := env.request(t, &AddCommentMsg{VideoID: video.ID, UserID: bob.ID, Content: "  Great video  "})
	comment, ok := result.(*models.CommentView)
	require.True(t, ok, "got %T", result)
	assert.Equal(t, "Great video", comment.Content)
	require.NotNil(t, comment.Owner)
	assert.Equal(t, bob.ID, comment.Owner.ID)
	assert.Equal(t, "bob", comment.Owner.Username)
	assert.Nil(t, comment.ParentID)
	assert.Empty(t, comment.Replies)

	// Reply inherits the video
	result = env.request(t, &ReplyCommentMsg{CommentID: comment.ID, UserID: alice.ID, Content: "Thanks"})
	reply := result.(*models.CommentView)
	assert.Equal(t, video.ID, reply.VideoID)
	assert.Equal(t, "alice", reply.Owner.Username)
	require.NotNil(t, reply.ParentID)
	assert.Equal(t, comment.ID, *reply.ParentID)

	// A reply to the reply joins the same thread
	result = env.request(t, &ReplyCommentMsg{CommentID: reply.ID, UserID: bob.ID, Content: "Welcome"})
	nested := result.(*models.CommentView)
	assert.Equal(t, comment.ID, *nested.ParentID)

	// Listing shows one thread with both replies, oldest first
	result = env.request(t, &GetVideoCommentsMsg{VideoID: video.ID, Page: models.Page{}})
	views := result.([]*models.CommentView)
	require.Len(t, views, 1)
	assert.Equal(t, "bob", views[0].Owner.Username)
	require.Len(t, views[0].Replies, 2)
	assert.Equal(t, "Thanks", views[0].Replies[0].Content)
	assert.Equal(t, "Welcome", views[0].Replies[1].Content)

	// Only the owner may edit
	env.requestErr(t, &UpdateCommentMsg{CommentID: comment.ID, UserID: alice.ID, Content: "hijack"}, utils.ErrForbidden)

	result = env.request(t, &UpdateCommentMsg{CommentID: comment.ID, UserID: bob.ID, Content: "Great video!"})
	assert.Equal(t, "Great video!", result.(*models.Comment).Content)

	// Only the owner may delete
	env.requestErr(t, &DeleteCommentMsg{CommentID: comment.ID, UserID: alice.ID}, utils.ErrForbidden)
	stored, err := env.db.GetComment(context.Background(), comment.ID)
	require.NoError(t, err)
	assert.Equal(t, "Great video!", stored.Content)

	result = env.request(t, &DeleteCommentMsg{CommentID: comment.ID, UserID: bob.ID})
	assert.Equal(t, comment.ID, result.(*models.Comment).ID)
	env.requestErr(t, &DeleteCommentMsg{CommentID: comment.ID, UserID: bob.ID}, utils.ErrNotFound)
}

func TestCommentActorValidation(t *testing.T) {
	env := newCommentEnv(t)
	alice := env.seedUser("alice")
	video := env.seedVideo(t, alice.ID, "intro")

	env.requestErr(t, &AddCommentMsg{VideoID: video.ID, UserID: alice.ID, Content: "   "}, utils.ErrInvalidInput)
	env.requestErr(t, &AddCommentMsg{VideoID: video.ID, Content: "anonymous"}, utils.ErrInvalidInput)
	env.requestErr(t, &AddCommentMsg{VideoID: primitive.NewObjectID(), UserID: alice.ID, Content: "hi"}, utils.ErrNotFound)
	env.requestErr(t, &ReplyCommentMsg{CommentID: primitive.NewObjectID(), UserID: alice.ID, Content: "hi"}, utils.ErrNotFound)
	env.requestErr(t, &GetVideoCommentsMsg{VideoID: primitive.NewObjectID()}, utils.ErrNotFound)
	env.requestErr(t, &UpdateCommentMsg{CommentID: primitive.NewObjectID(), UserID: alice.ID, Content: "x"}, utils.ErrNotFound)
}

func TestCommentActorEmptyVideo(t *testing.T) {
	env := newCommentEnv(t)
	alice := env.seedUser("alice")
	video := env.seedVideo(t, alice.ID, "quiet")

	result := env.request(t, &GetVideoCommentsMsg{VideoID: video.ID, Page: models.NewPage("abc", "-3")})
	views, ok := result.([]*models.CommentView)
	require.True(t, ok, "got %T", result)
	assert.Empty(t, views)
}
