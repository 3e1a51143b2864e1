package handlers

import (
	"net/http"
	"time"

	"videotube/internal/middleware"
	"videotube/internal/models"
	"videotube/internal/utils"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
)

// RouterOptions configures the outer middleware stack.
type RouterOptions struct {
	CORS               *middleware.CORSConfig
	RateLimitPerMinute int
	MetricsEnabled     bool
}

// Routes builds the chi router: unauthenticated /health and /metrics, and
// the authenticated API under /api/v1.
func (s *Server) Routes(opts RouterOptions) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(chimiddleware.Recoverer)
	r.Use(middleware.RequestLogger)
	if s.Metrics != nil {
		r.Use(middleware.Metrics(s.Metrics))
	}
	r.Use(middleware.CORS(opts.CORS))

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		middleware.WriteError(w, utils.NewNotFoundError("Route not found"))
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		middleware.WriteJSON(w, http.StatusMethodNotAllowed,
			models.NewAPIError(http.StatusMethodNotAllowed, "Method not allowed", nil))
	})

	r.Get("/health", s.HandleHealth())
	if opts.MetricsEnabled && s.Metrics != nil {
		r.Handle("/metrics", s.Metrics.Handler())
	}

	r.Route("/api/v1", func(api chi.Router) {
		api.Use(middleware.RateLimit(opts.RateLimitPerMinute, time.Minute))
		api.Use(s.Auth.Middleware)

		api.Route("/comments", func(r chi.Router) {
			r.Get("/{videoId}", s.HandleGetVideoComments())
			r.Post("/{videoId}", s.HandleAddComment())
			r.Post("/c/{commentId}", s.HandleReplyComment())
			r.Patch("/c/{commentId}", s.HandleUpdateComment())
			r.Delete("/c/{commentId}", s.HandleDeleteComment())
		})

		api.Route("/likes", func(r chi.Router) {
			r.Post("/toggle/v/{videoId}", s.HandleToggle(models.LikeRelation, models.VideoTarget, "videoId"))
			r.Post("/toggle/c/{commentId}", s.HandleToggle(models.LikeRelation, models.CommentTarget, "commentId"))
			r.Post("/toggle/t/{tweetId}", s.HandleToggle(models.LikeRelation, models.TweetTarget, "tweetId"))
			r.Get("/videos", s.HandleRelatedVideos(models.LikeRelation))
		})

		api.Route("/dislikes", func(r chi.Router) {
			r.Post("/toggle/v/{videoId}", s.HandleToggle(models.DislikeRelation, models.VideoTarget, "videoId"))
			r.Post("/toggle/c/{commentId}", s.HandleToggle(models.DislikeRelation, models.CommentTarget, "commentId"))
			r.Post("/toggle/t/{tweetId}", s.HandleToggle(models.DislikeRelation, models.TweetTarget, "tweetId"))
			r.Get("/videos", s.HandleRelatedVideos(models.DislikeRelation))
		})

		api.Route("/subscriptions", func(r chi.Router) {
			r.Post("/u/{channelId}", s.HandleToggle(models.SubscriptionRelation, models.ChannelTarget, "channelId"))
			r.Get("/u/{channelId}", s.HandleChannelSubscribers())
			r.Get("/c/{subscriberId}", s.HandleSubscribedChannels())
		})

		api.Route("/tweets", func(r chi.Router) {
			r.Post("/", s.HandleCreateTweet())
			r.Get("/user/{userId}", s.HandleGetUserTweets())
			r.Patch("/{tweetId}", s.HandleUpdateTweet())
			r.Delete("/{tweetId}", s.HandleDeleteTweet())
		})

		api.Route("/playlists", func(r chi.Router) {
			r.Post("/", s.HandleCreatePlaylist())
			r.Get("/user/{userId}", s.HandleGetUserPlaylists())
			r.Patch("/add/{videoId}/{playlistId}", s.HandlePlaylistVideo(false))
			r.Patch("/remove/{videoId}/{playlistId}", s.HandlePlaylistVideo(true))
			r.Get("/{playlistId}", s.HandleGetPlaylist())
			r.Patch("/{playlistId}", s.HandleUpdatePlaylist())
			r.Delete("/{playlistId}", s.HandleDeletePlaylist())
		})

		api.Route("/videos", func(r chi.Router) {
			r.Get("/getAllVideos", s.HandleListVideos())
			r.Post("/publish", s.HandlePublishVideo())
			r.Patch("/toggle/publish/{videoId}", s.HandleTogglePublish())
			r.Get("/{videoId}", s.HandleGetVideo())
			r.Patch("/{videoId}", s.HandleUpdateVideo())
			r.Delete("/{videoId}", s.HandleDeleteVideo())
		})
	})

	return r
}
