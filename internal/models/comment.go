package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Comment is a comment on a video. Parent is nil for top-level comments.
type Comment struct {
	ID        primitive.ObjectID  `json:"_id" bson:"_id"`
	Content   string              `json:"content" bson:"content"`
	VideoID   primitive.ObjectID  `json:"video" bson:"video"`
	OwnerID   primitive.ObjectID  `json:"owner" bson:"owner"`
	ParentID  *primitive.ObjectID `json:"parent" bson:"parent,omitempty"`
	CreatedAt time.Time           `json:"createdAt" bson:"createdAt"`
	UpdatedAt time.Time           `json:"updatedAt" bson:"updatedAt"`
}

// IsReply reports whether the comment belongs to another comment's thread.
func (c *Comment) IsReply() bool {
	return c.ParentID != nil
}

// CommentView is a top-level comment joined with its owner, engagement
// counts and reply thread.
type CommentView struct {
	ID            primitive.ObjectID  `json:"_id" bson:"_id"`
	Content       string              `json:"content" bson:"content"`
	VideoID       primitive.ObjectID  `json:"video" bson:"video"`
	Owner         *UserSummary        `json:"owner" bson:"owner"`
	ParentID      *primitive.ObjectID `json:"parent" bson:"parent,omitempty"`
	LikesCount    int                 `json:"likesCount" bson:"likesCount"`
	DislikesCount int                 `json:"dislikesCount" bson:"dislikesCount"`
	Replies       []*ReplyView        `json:"replies" bson:"replies"`
	CreatedAt     time.Time           `json:"createdAt" bson:"createdAt"`
	UpdatedAt     time.Time           `json:"updatedAt" bson:"updatedAt"`
}

// NewCommentView wraps a freshly written comment. Counts start at zero and
// the reply thread is empty.
func NewCommentView(c *Comment, owner *UserSummary) *CommentView {
	return &CommentView{
		ID:        c.ID,
		Content:   c.Content,
		VideoID:   c.VideoID,
		Owner:     owner,
		ParentID:  c.ParentID,
		Replies:   []*ReplyView{},
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	}
}

// ReplyView is a reply inside a CommentView thread.
type ReplyView struct {
	ID        primitive.ObjectID  `json:"_id" bson:"_id"`
	Content   string              `json:"content" bson:"content"`
	VideoID   primitive.ObjectID  `json:"video" bson:"video"`
	Owner     *UserSummary        `json:"owner" bson:"owner"`
	ParentID  *primitive.ObjectID `json:"parent" bson:"parent,omitempty"`
	CreatedAt time.Time           `json:"createdAt" bson:"createdAt"`
	UpdatedAt time.Time           `json:"updatedAt" bson:"updatedAt"`
}
