package handlers

import (
	"bytes"
	"context"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"videotube/internal/config"
	"videotube/internal/database"
	"videotube/internal/engine"
	"videotube/internal/middleware"
	"videotube/internal/models"
	"videotube/internal/storage"
	"videotube/internal/utils"

	"github.com/asynkron/protoactor-go/actor"
	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type stubMedia struct{}

func (stubMedia) UploadVideo(ctx context.Context, file *storage.Upload) (*storage.MediaAsset, error) {
	return &storage.MediaAsset{URL: "http://media/videos/" + file.Filename, Duration: 12.5}, nil
}

func (stubMedia) UploadImage(ctx context.Context, file *storage.Upload) (*storage.MediaAsset, error) {
	return &storage.MediaAsset{URL: "http://media/thumbnails/" + file.Filename}, nil
}

func (stubMedia) Remove(ctx context.Context, asset *storage.MediaAsset) error {
	return nil
}

// envelope decodes both the success and the error shape.
type envelope struct {
	Status  int             `json:"status"`
	Data    json.RawMessage `json:"data"`
	Message string          `json:"message"`
	Success bool            `json:"success"`
	Errors  []string        `json:"errors"`
}

type apiEnv struct {
	db     *database.MemoryDB
	auth   *middleware.Authenticator
	router http.Handler
}

func newAPIEnv(t *testing.T) *apiEnv {
	t.Helper()
	system := actor.NewActorSystem()
	t.Cleanup(func() { system.Shutdown() })

	db := database.NewMemoryDB()
	metrics := utils.NewMetricsCollector()
	auth := middleware.NewAuthenticator(&config.AuthConfig{JWTSecret: "handler-secret", Issuer: "videotube-test"})
	eng := engine.NewEngine(system, db, stubMedia{}, metrics, engine.Options{PoolSize: 2, OperationTimeout: time.Second})

	server := NewServer(system, eng, metrics, auth, Options{RequestTimeout: time.Second, MaxUploadBytes: 1 << 20})
	return &apiEnv{
		db:   db,
		auth: auth,
		router: server.Routes(RouterOptions{
			CORS:           middleware.DefaultCORSConfig(nil),
			MetricsEnabled: true,
		}),
	}
}

func (e *apiEnv) seedUser(name string) *models.User {
	u := &models.User{ID: primitive.NewObjectID(), Username: name, FullName: name, Avatar: name + ".png"}
	e.db.SaveUser(u)
	return u
}

func (e *apiEnv) seedVideo(t *testing.T, owner primitive.ObjectID, title string) *models.Video {
	t.Helper()
	at := time.Now().UTC().Truncate(time.Millisecond)
	v := &models.Video{ID: primitive.NewObjectID(), Title: title, Description: "about " + title, IsPublished: true, OwnerID: owner, CreatedAt: at, UpdatedAt: at}
	require.NoError(t, e.db.SaveVideo(context.Background(), v))
	return v
}

// send issues a request as user; a zero user sends no token.
func (e *apiEnv) send(t *testing.T, method, path string, body io.Reader, contentType string, user primitive.ObjectID) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	req := httptest.NewRequest(method, path, body)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if !user.IsZero() {
		token, err := e.auth.GenerateToken(user)
		require.NoError(t, err)
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	e.router.ServeHTTP(rec, req)

	var env envelope
	if rec.Header().Get("Content-Type") == "application/json" {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env), rec.Body.String())
	}
	return rec, env
}

func (e *apiEnv) sendJSON(t *testing.T, method, path string, payload interface{}, user primitive.ObjectID) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	var body io.Reader
	if payload != nil {
		raw, err := json.Marshal(payload)
		require.NoError(t, err)
		body = bytes.NewReader(raw)
	}
	return e.send(t, method, path, body, "application/json", user)
}

func TestHealthAndMetricsAreOpen(t *testing.T) {
	env := newAPIEnv(t)

	rec, body := env.send(t, http.MethodGet, "/health", nil, "", primitive.NilObjectID)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, body.Success)

	rec, _ = env.send(t, http.MethodGet, "/metrics", nil, "", primitive.NilObjectID)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "videotube_http_requests_total")
}

func TestAPIRequiresToken(t *testing.T) {
	env := newAPIEnv(t)

	rec, body := env.send(t, http.MethodGet, "/api/v1/likes/videos", nil, "", primitive.NilObjectID)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.False(t, body.Success)
}

func TestCommentRoutes(t *testing.T) {
	env := newAPIEnv(t)
	alice := env.seedUser("alice")
	bob := env.seedUser("bob")
	video := env.seedVideo(t, alice.ID, "intro")

	rec, body := env.sendJSON(t, http.MethodPost, "/api/v1/comments/"+video.ID.Hex(), ContentRequest{Content: "Nice"}, bob.ID)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "Comment added successfully", body.Message)
	var comment models.CommentView
	require.NoError(t, json.Unmarshal(body.Data, &comment))
	require.NotNil(t, comment.Owner)
	assert.Equal(t, "bob", comment.Owner.Username)

	rec, body = env.sendJSON(t, http.MethodPost, "/api/v1/comments/c/"+comment.ID.Hex(), ContentRequest{Content: "Thanks"}, alice.ID)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "Reply added successfully", body.Message)

	rec, body = env.send(t, http.MethodGet, "/api/v1/comments/"+video.ID.Hex()+"?page=1&limit=5", nil, "", bob.ID)
	require.Equal(t, http.StatusOK, rec.Code)
	var views []models.CommentView
	require.NoError(t, json.Unmarshal(body.Data, &views))
	require.Len(t, views, 1)
	assert.Len(t, views[0].Replies, 1)

	rec, _ = env.sendJSON(t, http.MethodPatch, "/api/v1/comments/c/"+comment.ID.Hex(), ContentRequest{Content: "edit"}, alice.ID)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec, body = env.sendJSON(t, http.MethodPost, "/api/v1/comments/not-an-id", ContentRequest{Content: "x"}, bob.ID)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Invalid video id", body.Message)

	rec, body = env.sendJSON(t, http.MethodPost, "/api/v1/comments/"+video.ID.Hex(), ContentRequest{}, bob.ID)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, []string{"Content is required"}, body.Errors)

	rec, body = env.sendJSON(t, http.MethodDelete, "/api/v1/comments/c/"+comment.ID.Hex(), nil, bob.ID)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Comment deleted successfully", body.Message)
}

func TestToggleRoutes(t *testing.T) {
	env := newAPIEnv(t)
	alice := env.seedUser("alice")
	bob := env.seedUser("bob")
	video := env.seedVideo(t, alice.ID, "intro")

	path := "/api/v1/likes/toggle/v/" + video.ID.Hex()
	rec, body := env.send(t, http.MethodPost, path, nil, "", bob.ID)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "Video liked successfully", body.Message)
	var toggled models.ToggleResult
	require.NoError(t, json.Unmarshal(body.Data, &toggled))
	assert.Equal(t, models.StateAdded, toggled.State)

	_, body = env.send(t, http.MethodPost, path, nil, "", bob.ID)
	assert.Equal(t, "Video unliked successfully", body.Message)

	_, body = env.send(t, http.MethodPost, "/api/v1/dislikes/toggle/v/"+video.ID.Hex(), nil, "", bob.ID)
	assert.Equal(t, "Video disliked successfully", body.Message)

	_, body = env.send(t, http.MethodPost, "/api/v1/subscriptions/u/"+alice.ID.Hex(), nil, "", bob.ID)
	assert.Equal(t, "Subscribed successfully", body.Message)

	rec, body = env.send(t, http.MethodGet, "/api/v1/subscriptions/u/"+alice.ID.Hex(), nil, "", bob.ID)
	require.Equal(t, http.StatusOK, rec.Code)
	var subscribers []models.SubscriberView
	require.NoError(t, json.Unmarshal(body.Data, &subscribers))
	require.Len(t, subscribers, 1)
	assert.Equal(t, "bob", subscribers[0].Subscriber.Username)

	rec, _ = env.send(t, http.MethodPost, "/api/v1/likes/toggle/t/"+primitive.NewObjectID().Hex(), nil, "", bob.ID)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec, body = env.send(t, http.MethodGet, "/api/v1/dislikes/videos", nil, "", bob.ID)
	require.Equal(t, http.StatusOK, rec.Code)
	var disliked []models.RelatedVideoView
	require.NoError(t, json.Unmarshal(body.Data, &disliked))
	require.Len(t, disliked, 1)
	assert.Equal(t, video.ID, disliked[0].ID)
}

func TestTweetAndPlaylistRoutes(t *testing.T) {
	env := newAPIEnv(t)
	alice := env.seedUser("alice")
	video := env.seedVideo(t, alice.ID, "intro")

	rec, body := env.sendJSON(t, http.MethodPost, "/api/v1/tweets", ContentRequest{Content: "hello"}, alice.ID)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	assert.Equal(t, http.StatusCreated, body.Status)
	var tweet models.Tweet
	require.NoError(t, json.Unmarshal(body.Data, &tweet))

	rec, body = env.send(t, http.MethodGet, "/api/v1/tweets/user/"+alice.ID.Hex(), nil, "", alice.ID)
	require.Equal(t, http.StatusOK, rec.Code)
	var tweets []models.Tweet
	require.NoError(t, json.Unmarshal(body.Data, &tweets))
	assert.Len(t, tweets, 1)

	rec, body = env.sendJSON(t, http.MethodPost, "/api/v1/playlists", PlaylistRequest{Name: "Faves", Description: "best"}, alice.ID)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var playlist models.Playlist
	require.NoError(t, json.Unmarshal(body.Data, &playlist))

	rec, body = env.send(t, http.MethodPatch, "/api/v1/playlists/add/"+video.ID.Hex()+"/"+playlist.ID.Hex(), nil, "", alice.ID)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "Video added to playlist successfully", body.Message)
	require.NoError(t, json.Unmarshal(body.Data, &playlist))
	assert.Equal(t, []primitive.ObjectID{video.ID}, playlist.Videos)

	rec, body = env.send(t, http.MethodPatch, "/api/v1/playlists/remove/"+video.ID.Hex()+"/"+playlist.ID.Hex(), nil, "", alice.ID)
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(body.Data, &playlist))
	assert.Empty(t, playlist.Videos)

	rec, _ = env.sendJSON(t, http.MethodPost, "/api/v1/playlists", map[string]string{"name": "only name"}, alice.ID)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestVideoRoutes(t *testing.T) {
	env := newAPIEnv(t)
	alice := env.seedUser("alice")

	var buf bytes.Buffer
	form := multipart.NewWriter(&buf)
	require.NoError(t, form.WriteField("title", "Launch"))
	require.NoError(t, form.WriteField("description", "launch day"))
	part, err := form.CreateFormFile("videoFile", "launch.mp4")
	require.NoError(t, err)
	_, err = part.Write([]byte("fake video bytes"))
	require.NoError(t, err)
	part, err = form.CreateFormFile("thumbnail", "launch.png")
	require.NoError(t, err)
	_, err = part.Write([]byte("fake image bytes"))
	require.NoError(t, err)
	require.NoError(t, form.Close())

	rec, body := env.send(t, http.MethodPost, "/api/v1/videos/publish", &buf, form.FormDataContentType(), alice.ID)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var video models.Video
	require.NoError(t, json.Unmarshal(body.Data, &video))
	assert.Equal(t, "http://media/videos/launch.mp4", video.VideoFile)
	assert.Equal(t, 12.5, video.Duration)
	assert.True(t, video.IsPublished)

	rec, body = env.send(t, http.MethodGet, "/api/v1/videos/getAllVideos?query=LAUNCH&userId="+alice.ID.Hex(), nil, "", alice.ID)
	require.Equal(t, http.StatusOK, rec.Code)
	var listed []models.VideoSummaryView
	require.NoError(t, json.Unmarshal(body.Data, &listed))
	require.Len(t, listed, 1)
	assert.Equal(t, "alice", listed[0].Owner.Username)

	rec, _ = env.send(t, http.MethodGet, "/api/v1/videos/getAllVideos?sortBy=owner", nil, "", alice.ID)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec, body = env.send(t, http.MethodPatch, "/api/v1/videos/toggle/publish/"+video.ID.Hex(), nil, "", alice.ID)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Publish status toggled successfully. New status: Unpublished", body.Message)

	rec, body = env.sendJSON(t, http.MethodPatch, "/api/v1/videos/"+video.ID.Hex(), VideoForm{Title: "Launch v2", Description: "updated"}, alice.ID)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	require.NoError(t, json.Unmarshal(body.Data, &video))
	assert.Equal(t, "Launch v2", video.Title)

	rec, body = env.send(t, http.MethodGet, "/api/v1/videos/"+video.ID.Hex(), nil, "", alice.ID)
	require.Equal(t, http.StatusOK, rec.Code)
	var detail models.VideoDetailView
	require.NoError(t, json.Unmarshal(body.Data, &detail))
	assert.Equal(t, "alice", detail.Owner.Username)

	rec, _ = env.send(t, http.MethodGet, "/api/v1/videos/"+primitive.NewObjectID().Hex(), nil, "", alice.ID)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec, _ = env.sendJSON(t, http.MethodPost, "/api/v1/videos/publish", VideoForm{Title: "x", Description: "y"}, alice.ID)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
