package engine

import (
	"time"

	"videotube/internal/database"
	"videotube/internal/engine/actors"
	"videotube/internal/storage"
	"videotube/internal/utils"

	"github.com/asynkron/protoactor-go/actor"
	"github.com/asynkron/protoactor-go/router"
	"github.com/rs/zerolog/log"
)

// Options tunes the actor pools. UploadTimeout replaces OperationTimeout
// for the video pool, whose messages may carry media uploads.
type Options struct {
	PoolSize         int
	OperationTimeout time.Duration
	UploadTimeout    time.Duration
}

// Engine coordinates communication between actors
type Engine struct {
	commentActor    *actor.PID
	engagementActor *actor.PID
	videoActor      *actor.PID
	playlistActor   *actor.PID
	tweetActor      *actor.PID
}

// NewEngine spawns one round-robin pool per domain actor.
func NewEngine(system *actor.ActorSystem, db database.DBAdapter, media storage.MediaStore, metrics *utils.MetricsCollector, opts Options) *Engine {
	if opts.PoolSize <= 0 {
		opts.PoolSize = 1
	}
	deps := actors.Deps{DB: db, Metrics: metrics, Timeout: opts.OperationTimeout}
	videoDeps := deps
	if opts.UploadTimeout > 0 {
		videoDeps.Timeout = opts.UploadTimeout
	}
	context := system.Root

	spawnPool := func(name string, producer actor.Producer) *actor.PID {
		props := router.NewRoundRobinPool(opts.PoolSize, actor.WithProducer(producer))
		pid, err := context.SpawnNamed(props, name)
		if err != nil {
			// Names are fixed, so this only happens if NewEngine runs twice on one system
			log.Warn().Err(err).Str("pool", name).Msg("pool name taken, spawning anonymously")
			pid = context.Spawn(props)
		}
		return pid
	}

	e := &Engine{
		commentActor: spawnPool("comments", func() actor.Actor {
			return actors.NewCommentActor(deps)
		}),
		engagementActor: spawnPool("engagement", func() actor.Actor {
			return actors.NewEngagementActor(deps)
		}),
		videoActor: spawnPool("videos", func() actor.Actor {
			return actors.NewVideoActor(videoDeps, media)
		}),
		playlistActor: spawnPool("playlists", func() actor.Actor {
			return actors.NewPlaylistActor(deps)
		}),
		tweetActor: spawnPool("tweets", func() actor.Actor {
			return actors.NewTweetActor(deps)
		}),
	}

	log.Info().Int("poolSize", opts.PoolSize).Msg("actor engine started")
	return e
}

// GetCommentActor returns the PID of the comment pool
func (e *Engine) GetCommentActor() *actor.PID {
	return e.commentActor
}

// GetEngagementActor returns the PID of the like, dislike and subscription pool
func (e *Engine) GetEngagementActor() *actor.PID {
	return e.engagementActor
}

// GetVideoActor returns the PID of the video pool
func (e *Engine) GetVideoActor() *actor.PID {
	return e.videoActor
}

// GetPlaylistActor returns the PID of the playlist pool
func (e *Engine) GetPlaylistActor() *actor.PID {
	return e.playlistActor
}

// GetTweetActor returns the PID of the tweet pool
func (e *Engine) GetTweetActor() *actor.PID {
	return e.tweetActor
}
