package models

import (
	"math"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestNewPage(t *testing.T) {
	tests := []struct {
		page, limit string
		want        Page
		skip        int
	}{
		{"", "", Page{Number: 1, Limit: 10}, 0},
		{"3", "20", Page{Number: 3, Limit: 20}, 40},
		{"abc", "xyz", Page{Number: 1, Limit: 10}, 0},
		{"0", "-5", Page{Number: 1, Limit: 10}, 0},
		{" 2 ", "5", Page{Number: 2, Limit: 5}, 5},
		{"1", "5000", Page{Number: 1, Limit: MaxLimit}, 0},
		{"922337203685477580", "100", Page{Number: 922337203685477580, Limit: 100}, math.MaxInt},
		{"9223372036854775807", "10", Page{Number: math.MaxInt, Limit: 10}, math.MaxInt},
		{"99999999999999999999", "10", Page{Number: 1, Limit: 10}, 0},
	}

	for _, tt := range tests {
		got := NewPage(tt.page, tt.limit)
		assert.Equal(t, tt.want, got, "page=%q limit=%q", tt.page, tt.limit)
		assert.Equal(t, tt.skip, got.Skip())
	}

	assert.Equal(t, Page{Number: 1, Limit: 10}, Page{}.Normalize())
	assert.Equal(t, Page{Number: 4, Limit: MaxLimit}, Page{Number: 4, Limit: 1000}.Normalize())
	assert.Equal(t, 300, Page{Number: 4, Limit: 1000}.Skip())
}

func TestNewVideoSort(t *testing.T) {
	sort, ok := NewVideoSort("", "asc")
	assert.True(t, ok)
	assert.Equal(t, DefaultVideoSort, sort)

	sort, ok = NewVideoSort("title", "asc")
	assert.True(t, ok)
	assert.Equal(t, VideoSort{Field: "title", Ascending: true}, sort)

	// Anything but "asc" sorts descending
	sort, ok = NewVideoSort("duration", "ASC")
	assert.True(t, ok)
	assert.False(t, sort.Ascending)

	sort, ok = NewVideoSort("owner", "asc")
	assert.False(t, ok)
	assert.Equal(t, DefaultVideoSort, sort)
}

func TestVideoFilterMatches(t *testing.T) {
	owner := primitive.NewObjectID()
	other := primitive.NewObjectID()
	video := &Video{Title: "Learning Go", Description: "Channels and goroutines", OwnerID: owner}

	tests := []struct {
		name   string
		filter VideoFilter
		want   bool
	}{
		{"empty filter", VideoFilter{}, true},
		{"title case-insensitive", VideoFilter{Search: "learning GO"}, true},
		{"description", VideoFilter{Search: "goroutine"}, true},
		{"no match", VideoFilter{Search: "rust"}, false},
		{"owner", VideoFilter{OwnerID: &owner}, true},
		{"other owner", VideoFilter{OwnerID: &other}, false},
		{"owner and search both hold", VideoFilter{OwnerID: &owner, Search: "channels"}, true},
		{"owner holds, search fails", VideoFilter{OwnerID: &owner, Search: "rust"}, false},
		{"regex characters are literal", VideoFilter{Search: "go.*"}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.filter.Matches(video))
		})
	}
}

func TestRelationValid(t *testing.T) {
	assert.True(t, Relation{Kind: LikeRelation, TargetKind: VideoTarget}.Valid())
	assert.True(t, Relation{Kind: DislikeRelation, TargetKind: TweetTarget}.Valid())
	assert.True(t, Relation{Kind: SubscriptionRelation, TargetKind: ChannelTarget}.Valid())
	assert.False(t, Relation{Kind: LikeRelation, TargetKind: ChannelTarget}.Valid())
	assert.False(t, Relation{Kind: SubscriptionRelation, TargetKind: VideoTarget}.Valid())
	assert.False(t, Relation{Kind: "share", TargetKind: VideoTarget}.Valid())
}

func TestToggleMessage(t *testing.T) {
	assert.Equal(t, "Video liked successfully", ToggleMessage(LikeRelation, VideoTarget, StateAdded))
	assert.Equal(t, "Video unliked successfully", ToggleMessage(LikeRelation, VideoTarget, StateRemoved))
	assert.Equal(t, "Comment disliked successfully", ToggleMessage(DislikeRelation, CommentTarget, StateAdded))
	assert.Equal(t, "Tweet undisliked successfully", ToggleMessage(DislikeRelation, TweetTarget, StateRemoved))
	assert.Equal(t, "Subscribed successfully", ToggleMessage(SubscriptionRelation, ChannelTarget, StateAdded))
	assert.Equal(t, "Unsubscribed successfully", ToggleMessage(SubscriptionRelation, ChannelTarget, StateRemoved))
}

func TestPlaylistRemoveVideo(t *testing.T) {
	a, b := primitive.NewObjectID(), primitive.NewObjectID()
	p := &Playlist{Videos: []primitive.ObjectID{a, b, a}}

	assert.Equal(t, 2, p.RemoveVideo(a))
	assert.Equal(t, []primitive.ObjectID{b}, p.Videos)
	assert.Equal(t, 0, p.RemoveVideo(a))
}

func TestEnvelopes(t *testing.T) {
	ok := NewAPIResponse(http.StatusCreated, nil, "Tweet created successfully")
	assert.True(t, ok.Success)
	assert.Equal(t, struct{}{}, ok.Data)

	failed := NewAPIError(http.StatusNotFound, "Video not found", nil)
	assert.False(t, failed.Success)
	assert.Equal(t, []string{}, failed.Errors)
}

func TestPublishStatus(t *testing.T) {
	assert.Equal(t, "Published", (&Video{IsPublished: true}).PublishStatus())
	assert.Equal(t, "Unpublished", (&Video{}).PublishStatus())
}
