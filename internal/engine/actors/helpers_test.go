package actors

import (
	stdctx "context"
	"errors"
	"sync"
	"testing"
	"time"

	"videotube/internal/database"
	"videotube/internal/models"
	"videotube/internal/storage"
	"videotube/internal/utils"

	"github.com/asynkron/protoactor-go/actor"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// fakeMedia records uploads and hands out predictable URLs.
type fakeMedia struct {
	mu        sync.Mutex
	uploads   []string
	removed   []string
	duration  float64
	fail      bool
	failImage bool
}

func (f *fakeMedia) UploadVideo(ctx stdctx.Context, file *storage.Upload) (*storage.MediaAsset, error) {
	return f.upload("videos", file, f.duration)
}

func (f *fakeMedia) UploadImage(ctx stdctx.Context, file *storage.Upload) (*storage.MediaAsset, error) {
	if f.failImage {
		return nil, errors.New("thumbnail rejected")
	}
	return f.upload("thumbnails", file, 0)
}

func (f *fakeMedia) Remove(ctx stdctx.Context, asset *storage.MediaAsset) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.removed = append(f.removed, asset.Object)
	return nil
}

func (f *fakeMedia) upload(bucket string, file *storage.Upload, duration float64) (*storage.MediaAsset, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.fail {
		return nil, errors.New("bucket unavailable")
	}
	f.uploads = append(f.uploads, file.Filename)
	return &storage.MediaAsset{
		URL:      "http://media/" + bucket + "/" + file.Filename,
		Bucket:   bucket,
		Object:   file.Filename,
		Duration: duration,
	}, nil
}

type testEnv struct {
	system  *actor.ActorSystem
	db      *database.MemoryDB
	media   *fakeMedia
	metrics *utils.MetricsCollector
	pid     *actor.PID
}

func newTestEnv(t *testing.T, producer func(Deps, *fakeMedia) actor.Actor) *testEnv {
	t.Helper()
	env := &testEnv{
		system:  actor.NewActorSystem(),
		db:      database.NewMemoryDB(),
		media:   &fakeMedia{duration: 42.5},
		metrics: utils.NewMetricsCollector(),
	}
	deps := Deps{DB: env.db, Metrics: env.metrics, Timeout: time.Second}
	props := actor.PropsFromProducer(func() actor.Actor {
		return producer(deps, env.media)
	})
	env.pid = env.system.Root.Spawn(props)
	t.Cleanup(func() { env.system.Shutdown() })
	return env
}

// request sends msg and returns the actor's response.
func (e *testEnv) request(t *testing.T, msg interface{}) interface{} {
	t.Helper()
	result, err := e.system.Root.RequestFuture(e.pid, msg, 5*time.Second).Result()
	require.NoError(t, err)
	return result
}

// requestErr sends msg and requires an AppError response with code.
func (e *testEnv) requestErr(t *testing.T, msg interface{}, code string) *utils.AppError {
	t.Helper()
	result := e.request(t, msg)
	appErr, ok := result.(*utils.AppError)
	require.True(t, ok, "expected *utils.AppError, got %T", result)
	require.Equal(t, code, appErr.Code, appErr.Message)
	return appErr
}

func (e *testEnv) seedUser(name string) *models.User {
	u := &models.User{ID: primitive.NewObjectID(), Username: name, FullName: name, Avatar: name + ".png"}
	e.db.SaveUser(u)
	return u
}

func (e *testEnv) seedVideo(t *testing.T, owner primitive.ObjectID, title string) *models.Video {
	t.Helper()
	at := now()
	v := &models.Video{
		ID:          primitive.NewObjectID(),
		Title:       title,
		Description: title + " description",
		IsPublished: true,
		OwnerID:     owner,
		CreatedAt:   at,
		UpdatedAt:   at,
	}
	require.NoError(t, e.db.SaveVideo(stdctx.Background(), v))
	return v
}
