package actors

import (
	stdctx "context"

	"videotube/internal/models"
	"videotube/internal/utils"

	"github.com/asynkron/protoactor-go/actor"
	"github.com/rs/zerolog/log"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Message types for CommentActor
type (
	GetVideoCommentsMsg struct {
		VideoID primitive.ObjectID
		Page    models.Page
	}

	AddCommentMsg struct {
		VideoID primitive.ObjectID
		UserID  primitive.ObjectID
		Content string
	}

	ReplyCommentMsg struct {
		CommentID primitive.ObjectID
		UserID    primitive.ObjectID
		Content   string
	}

	UpdateCommentMsg struct {
		CommentID primitive.ObjectID
		UserID    primitive.ObjectID
		Content   string
	}

	DeleteCommentMsg struct {
		CommentID primitive.ObjectID
		UserID    primitive.ObjectID
	}
)

// CommentActor manages comments and their reply threads
type CommentActor struct {
	Deps
}

func NewCommentActor(deps Deps) actor.Actor {
	return &CommentActor{Deps: deps}
}

func (a *CommentActor) Receive(context actor.Context) {
	switch msg := context.Message().(type) {
	case *actor.Started:
		log.Debug().Str("pid", context.Self().String()).Msg("CommentActor started")

	case *GetVideoCommentsMsg:
		a.run(context, "get_video_comments", func(ctx stdctx.Context) (interface{}, error) {
			return a.handleGetVideoComments(ctx, msg)
		})

	case *AddCommentMsg:
		a.run(context, "add_comment", func(ctx stdctx.Context) (interface{}, error) {
			return a.handleAddComment(ctx, msg)
		})

	case *ReplyCommentMsg:
		a.run(context, "reply_comment", func(ctx stdctx.Context) (interface{}, error) {
			return a.handleReplyComment(ctx, msg)
		})

	case *UpdateCommentMsg:
		a.run(context, "update_comment", func(ctx stdctx.Context) (interface{}, error) {
			return a.handleUpdateComment(ctx, msg)
		})

	case *DeleteCommentMsg:
		a.run(context, "delete_comment", func(ctx stdctx.Context) (interface{}, error) {
			return a.handleDeleteComment(ctx, msg)
		})

	case *actor.Stopping, *actor.Stopped, *actor.Restarting:
	default:
		log.Warn().Str("type", typeName(msg)).Msg("CommentActor: unknown message")
	}
}

func (a *CommentActor) handleGetVideoComments(ctx stdctx.Context, msg *GetVideoCommentsMsg) ([]*models.CommentView, error) {
	if err := utils.RequireID(msg.VideoID, "video"); err != nil {
		return nil, err
	}
	if _, err := a.DB.GetVideo(ctx, msg.VideoID); err != nil {
		return nil, err
	}
	return a.DB.GetVideoComments(ctx, msg.VideoID, msg.Page.Normalize())
}

func (a *CommentActor) handleAddComment(ctx stdctx.Context, msg *AddCommentMsg) (*models.CommentView, error) {
	if err := utils.RequireActor(msg.UserID); err != nil {
		return nil, err
	}
	if err := utils.RequireID(msg.VideoID, "video"); err != nil {
		return nil, err
	}
	content, err := utils.RequireText(msg.Content, "Content")
	if err != nil {
		return nil, err
	}
	if _, err := a.DB.GetVideo(ctx, msg.VideoID); err != nil {
		return nil, err
	}

	createdAt := now()
	comment := &models.Comment{
		ID:        primitive.NewObjectID(),
		Content:   content,
		VideoID:   msg.VideoID,
		OwnerID:   msg.UserID,
		CreatedAt: createdAt,
		UpdatedAt: createdAt,
	}
	if err := a.DB.SaveComment(ctx, comment); err != nil {
		return nil, err
	}
	return a.createdView(ctx, comment), nil
}

// handleReplyComment attaches the reply to the thread root, so replying to
// a reply keeps the thread one level deep.
func (a *CommentActor) handleReplyComment(ctx stdctx.Context, msg *ReplyCommentMsg) (*models.CommentView, error) {
	if err := utils.RequireActor(msg.UserID); err != nil {
		return nil, err
	}
	if err := utils.RequireID(msg.CommentID, "comment"); err != nil {
		return nil, err
	}
	content, err := utils.RequireText(msg.Content, "Content")
	if err != nil {
		return nil, err
	}

	parent, err := a.DB.GetComment(ctx, msg.CommentID)
	if err != nil {
		return nil, err
	}
	root := parent.ID
	if parent.ParentID != nil {
		root = *parent.ParentID
	}

	createdAt := now()
	reply := &models.Comment{
		ID:        primitive.NewObjectID(),
		Content:   content,
		VideoID:   parent.VideoID,
		OwnerID:   msg.UserID,
		ParentID:  &root,
		CreatedAt: createdAt,
		UpdatedAt: createdAt,
	}
	if err := a.DB.SaveComment(ctx, reply); err != nil {
		return nil, err
	}
	return a.createdView(ctx, reply), nil
}

// createdView joins a new comment with its owner's summary. The comment is
// already stored, so a failed owner lookup falls back to the bare id.
func (a *CommentActor) createdView(ctx stdctx.Context, c *models.Comment) *models.CommentView {
	owner := &models.UserSummary{ID: c.OwnerID}
	user, err := a.DB.GetUser(ctx, c.OwnerID)
	if err != nil {
		log.Warn().Err(err).Str("commentId", c.ID.Hex()).Msg("owner lookup failed for new comment")
	} else {
		owner = user.Summary()
	}
	return models.NewCommentView(c, owner)
}

func (a *CommentActor) handleUpdateComment(ctx stdctx.Context, msg *UpdateCommentMsg) (*models.CommentView, error) {
	if err := utils.RequireActor(msg.UserID); err != nil {
		return nil, err
	}
	if err := utils.RequireID(msg.CommentID, "comment"); err != nil {
		return nil, err
	}
	content, err := utils.RequireText(msg.Content, "Content")
	if err != nil {
		return nil, err
	}

	comment, err := a.DB.GetComment(ctx, msg.CommentID)
	if err != nil {
		return nil, err
	}
	if err := utils.RequireOwner(comment.OwnerID, msg.UserID, "update this comment"); err != nil {
		return nil, err
	}

	comment.Content = content
	comment.UpdatedAt = now()
	if err := a.DB.SaveComment(ctx, comment); err != nil {
		return nil, err
	}
	return a.createdView(ctx, comment), nil
}

func (a *CommentActor) handleDeleteComment(ctx stdctx.Context, msg *DeleteCommentMsg) (*models.Comment, error) {
	if err := utils.RequireActor(msg.UserID); err != nil {
		return nil, err
	}
	if err := utils.RequireID(msg.CommentID, "comment"); err != nil {
		return nil, err
	}

	comment, err := a.DB.GetComment(ctx, msg.CommentID)
	if err != nil {
		return nil, err
	}
	if err := utils.RequireOwner(comment.OwnerID, msg.UserID, "delete this comment"); err != nil {
		return nil, err
	}
	if err := a.DB.DeleteComment(ctx, comment.ID); err != nil {
		return nil, err
	}
	return comment, nil
}
