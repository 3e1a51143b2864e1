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

func TestPlaylistActor(t *testing.T) {
	env := newTestEnv(t, func(deps Deps, _ *fakeMedia) actor.Actor {
		return NewPlaylistActor(deps)
	})
	alice := env.seedUser("alice")
	bob := env.seedUser("bob")
	video := env.seedVideo(t, alice.ID, "intro")

	result := env.request(t, &CreatePlaylistMsg{UserID: alice.ID, Name: " Favorites ", Description: "best"})
	playlist, ok := result.(*models.Playlist)
	require.True(t, ok, "got %T", result)
	assert.Equal(t, "Favorites", playlist.Name)
	assert.Empty(t, playlist.Videos)

	env.requestErr(t, &CreatePlaylistMsg{UserID: alice.ID, Name: "", Description: "x"}, utils.ErrInvalidInput)

	// Adding appends, duplicates allowed
	env.request(t, &AddPlaylistVideoMsg{PlaylistID: playlist.ID, VideoID: video.ID, UserID: alice.ID})
	result = env.request(t, &AddPlaylistVideoMsg{PlaylistID: playlist.ID, VideoID: video.ID, UserID: alice.ID})
	assert.Equal(t, []primitive.ObjectID{video.ID, video.ID}, result.(*models.Playlist).Videos)

	env.requestErr(t, &AddPlaylistVideoMsg{PlaylistID: playlist.ID, VideoID: video.ID, UserID: bob.ID}, utils.ErrForbidden)
	env.requestErr(t, &AddPlaylistVideoMsg{PlaylistID: playlist.ID, VideoID: primitive.NewObjectID(), UserID: alice.ID}, utils.ErrNotFound)

	// Removing pulls every occurrence
	result = env.request(t, &RemovePlaylistVideoMsg{PlaylistID: playlist.ID, VideoID: video.ID, UserID: alice.ID})
	assert.Empty(t, result.(*models.Playlist).Videos)

	// Ids of deleted videos can still be removed
	gone := env.seedVideo(t, alice.ID, "gone")
	env.request(t, &AddPlaylistVideoMsg{PlaylistID: playlist.ID, VideoID: gone.ID, UserID: alice.ID})
	require.NoError(t, env.db.DeleteVideo(context.Background(), gone.ID))
	env.requestErr(t, &RemovePlaylistVideoMsg{PlaylistID: playlist.ID, VideoID: gone.ID, UserID: bob.ID}, utils.ErrForbidden)
	result = env.request(t, &RemovePlaylistVideoMsg{PlaylistID: playlist.ID, VideoID: gone.ID, UserID: alice.ID})
	assert.Empty(t, result.(*models.Playlist).Videos)

	result = env.request(t, &UpdatePlaylistMsg{PlaylistID: playlist.ID, UserID: alice.ID, Name: "Watch later", Description: "queue"})
	assert.Equal(t, "Watch later", result.(*models.Playlist).Name)
	env.requestErr(t, &UpdatePlaylistMsg{PlaylistID: playlist.ID, UserID: bob.ID, Name: "mine", Description: "now"}, utils.ErrForbidden)

	result = env.request(t, &GetUserPlaylistsMsg{OwnerID: alice.ID})
	assert.Len(t, result.([]*models.Playlist), 1)
	result = env.request(t, &GetUserPlaylistsMsg{OwnerID: bob.ID})
	assert.Empty(t, result.([]*models.Playlist))

	env.requestErr(t, &DeletePlaylistMsg{PlaylistID: playlist.ID, UserID: bob.ID}, utils.ErrForbidden)
	env.request(t, &DeletePlaylistMsg{PlaylistID: playlist.ID, UserID: alice.ID})
	env.requestErr(t, &GetPlaylistMsg{PlaylistID: playlist.ID}, utils.ErrNotFound)
}
