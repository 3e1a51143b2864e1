package actors

import (
	stdctx "context"

	"videotube/internal/models"
	"videotube/internal/utils"

	"github.com/asynkron/protoactor-go/actor"
	"github.com/rs/zerolog/log"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Message types for TweetActor
type (
	CreateTweetMsg struct {
		UserID  primitive.ObjectID
		Content string
	}

	GetUserTweetsMsg struct {
		OwnerID primitive.ObjectID
	}

	UpdateTweetMsg struct {
		TweetID primitive.ObjectID
		UserID  primitive.ObjectID
		Content string
	}

	DeleteTweetMsg struct {
		TweetID primitive.ObjectID
		UserID  primitive.ObjectID
	}
)

type TweetActor struct {
	Deps
}

func NewTweetActor(deps Deps) actor.Actor {
	return &TweetActor{Deps: deps}
}

func (a *TweetActor) Receive(context actor.Context) {
	switch msg := context.Message().(type) {
	case *actor.Started:
		log.Debug().Str("pid", context.Self().String()).Msg("TweetActor started")

	case *CreateTweetMsg:
		a.run(context, "create_tweet", func(ctx stdctx.Context) (interface{}, error) {
			return a.handleCreateTweet(ctx, msg)
		})

	case *GetUserTweetsMsg:
		a.run(context, "get_user_tweets", func(ctx stdctx.Context) (interface{}, error) {
			if err := utils.RequireID(msg.OwnerID, "user"); err != nil {
				return nil, err
			}
			if _, err := a.DB.GetUser(ctx, msg.OwnerID); err != nil {
				return nil, err
			}
			return a.DB.GetUserTweets(ctx, msg.OwnerID)
		})

	case *UpdateTweetMsg:
		a.run(context, "update_tweet", func(ctx stdctx.Context) (interface{}, error) {
			return a.handleUpdateTweet(ctx, msg)
		})

	case *DeleteTweetMsg:
		a.run(context, "delete_tweet", func(ctx stdctx.Context) (interface{}, error) {
			tweet, err := a.ownedTweet(ctx, msg.TweetID, msg.UserID, "delete this tweet")
			if err != nil {
				return nil, err
			}
			if err := a.DB.DeleteTweet(ctx, tweet.ID); err != nil {
				return nil, err
			}
			return tweet, nil
		})

	case *actor.Stopping, *actor.Stopped, *actor.Restarting:
	default:
		log.Warn().Str("type", typeName(msg)).Msg("TweetActor: unknown message")
	}
}

func (a *TweetActor) handleCreateTweet(ctx stdctx.Context, msg *CreateTweetMsg) (*models.Tweet, error) {
	if err := utils.RequireActor(msg.UserID); err != nil {
		return nil, err
	}
	content, err := utils.RequireText(msg.Content, "Content")
	if err != nil {
		return nil, err
	}

	createdAt := now()
	tweet := &models.Tweet{
		ID:        primitive.NewObjectID(),
		Content:   content,
		OwnerID:   msg.UserID,
		CreatedAt: createdAt,
		UpdatedAt: createdAt,
	}
	if err := a.DB.SaveTweet(ctx, tweet); err != nil {
		return nil, err
	}
	return tweet, nil
}

func (a *TweetActor) handleUpdateTweet(ctx stdctx.Context, msg *UpdateTweetMsg) (*models.Tweet, error) {
	content, err := utils.RequireText(msg.Content, "Content")
	if err != nil {
		return nil, err
	}
	tweet, err := a.ownedTweet(ctx, msg.TweetID, msg.UserID, "update this tweet")
	if err != nil {
		return nil, err
	}

	tweet.Content = content
	tweet.UpdatedAt = now()
	if err := a.DB.SaveTweet(ctx, tweet); err != nil {
		return nil, err
	}
	return tweet, nil
}

// ownedTweet fetches the tweet and verifies ownership before any mutation.
func (a *TweetActor) ownedTweet(ctx stdctx.Context, tweetID, userID primitive.ObjectID, action string) (*models.Tweet, error) {
	if err := utils.RequireActor(userID); err != nil {
		return nil, err
	}
	if err := utils.RequireID(tweetID, "tweet"); err != nil {
		return nil, err
	}
	tweet, err := a.DB.GetTweet(ctx, tweetID)
	if err != nil {
		return nil, err
	}
	if err := utils.RequireOwner(tweet.OwnerID, userID, action); err != nil {
		return nil, err
	}
	return tweet, nil
}
