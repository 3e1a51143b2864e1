package models

import (
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Video struct {
	ID          primitive.ObjectID `json:"_id" bson:"_id"`
	VideoFile   string             `json:"videoFile" bson:"videoFile"`
	Thumbnail   string             `json:"thumbnail" bson:"thumbnail"`
	Title       string             `json:"title" bson:"title"`
	Description string             `json:"description" bson:"description"`
	Duration    float64            `json:"duration" bson:"duration"`
	IsPublished bool               `json:"isPublished" bson:"isPublished"`
	OwnerID     primitive.ObjectID `json:"owner" bson:"owner"`
	CreatedAt   time.Time          `json:"createdAt" bson:"createdAt"`
	UpdatedAt   time.Time          `json:"updatedAt" bson:"updatedAt"`
}

// PublishStatus renders the published flag the way the toggle response reports it.
func (v *Video) PublishStatus() string {
	if v.IsPublished {
		return "Published"
	}
	return "Unpublished"
}

// VideoDetailView is a single video with engagement counts and its owner's channel profile.
type VideoDetailView struct {
	ID            primitive.ObjectID `json:"_id" bson:"_id"`
	VideoFile     string             `json:"videoFile" bson:"videoFile"`
	Thumbnail     string             `json:"thumbnail" bson:"thumbnail"`
	Title         string             `json:"title" bson:"title"`
	Description   string             `json:"description" bson:"description"`
	Duration      float64            `json:"duration" bson:"duration"`
	IsPublished   bool               `json:"isPublished" bson:"isPublished"`
	Owner         *ChannelProfile    `json:"owner" bson:"owner"`
	LikesCount    int                `json:"likesCount" bson:"likesCount"`
	DislikesCount int                `json:"dislikesCount" bson:"dislikesCount"`
	CreatedAt     time.Time          `json:"createdAt" bson:"createdAt"`
	UpdatedAt     time.Time          `json:"updatedAt" bson:"updatedAt"`
}

// VideoSummaryView is one row of the video listing.
type VideoSummaryView struct {
	ID          primitive.ObjectID `json:"_id" bson:"_id"`
	VideoFile   string             `json:"videoFile" bson:"videoFile"`
	Thumbnail   string             `json:"thumbnail" bson:"thumbnail"`
	Title       string             `json:"title" bson:"title"`
	Description string             `json:"description" bson:"description"`
	Duration    float64            `json:"duration" bson:"duration"`
	IsPublished bool               `json:"isPublished" bson:"isPublished"`
	Owner       *UserSummary       `json:"owner" bson:"owner"`
	Likes       int                `json:"likes" bson:"likes"`
	CreatedAt   time.Time          `json:"createdAt" bson:"createdAt"`
	UpdatedAt   time.Time          `json:"updatedAt" bson:"updatedAt"`
}

// VideoFilter restricts a video listing. A nil OwnerID and an empty Search
// match every video; when both are set both must hold.
type VideoFilter struct {
	OwnerID *primitive.ObjectID
	Search  string
}

// Matches applies the filter to a single video. Search is a
// case-insensitive substring match against title or description.
func (f VideoFilter) Matches(v *Video) bool {
	if f.OwnerID != nil && v.OwnerID != *f.OwnerID {
		return false
	}
	if f.Search == "" {
		return true
	}
	needle := strings.ToLower(f.Search)
	return strings.Contains(strings.ToLower(v.Title), needle) ||
		strings.Contains(strings.ToLower(v.Description), needle)
}

// Sortable video fields.
var videoSortFields = map[string]bool{
	"createdAt": true,
	"updatedAt": true,
	"title":     true,
	"duration":  true,
}

// VideoSort orders a video listing.
type VideoSort struct {
	Field     string
	Ascending bool
}

// DefaultVideoSort is newest-first.
var DefaultVideoSort = VideoSort{Field: "createdAt"}

// NewVideoSort builds a sort from query values. An empty sortBy yields the
// default; sortType "asc" sorts ascending and anything else descending.
// A sortBy naming a field that cannot be sorted on also yields the default,
// with ok false.
func NewVideoSort(sortBy, sortType string) (sort VideoSort, ok bool) {
	sortBy = strings.TrimSpace(sortBy)
	if sortBy == "" {
		return DefaultVideoSort, true
	}
	if !videoSortFields[sortBy] {
		return DefaultVideoSort, false
	}
	return VideoSort{Field: sortBy, Ascending: sortType == "asc"}, true
}

// VideoQuery is a complete listing request.
type VideoQuery struct {
	Filter VideoFilter
	Sort   VideoSort
	Page   Page
}
