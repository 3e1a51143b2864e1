package database

import (
	"bytes"
	"cmp"
	"context"
	"slices"
	"sync"
	"time"

	"videotube/internal/models"
	"videotube/internal/utils"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type relationKey struct {
	kind       models.RelationKind
	actor      primitive.ObjectID
	targetKind models.TargetKind
	target     primitive.ObjectID
}

func keyOf(rel models.Relation) relationKey {
	return relationKey{kind: rel.Kind, actor: rel.ActorID, targetKind: rel.TargetKind, target: rel.TargetID}
}

// MemoryDB is an in-process DBAdapter with the same observable behavior as
// MongoDB, including relation uniqueness. Stored values are copied on the
// way in and out.
type MemoryDB struct {
	mu        sync.RWMutex
	users     map[primitive.ObjectID]*models.User
	videos    map[primitive.ObjectID]*models.Video
	comments  map[primitive.ObjectID]*models.Comment
	relations map[relationKey]*models.RelationRecord
	tweets    map[primitive.ObjectID]*models.Tweet
	playlists map[primitive.ObjectID]*models.Playlist
}

func NewMemoryDB() *MemoryDB {
	return &MemoryDB{
		users:     make(map[primitive.ObjectID]*models.User),
		videos:    make(map[primitive.ObjectID]*models.Video),
		comments:  make(map[primitive.ObjectID]*models.Comment),
		relations: make(map[relationKey]*models.RelationRecord),
		tweets:    make(map[primitive.ObjectID]*models.Tweet),
		playlists: make(map[primitive.ObjectID]*models.Playlist),
	}
}

func (db *MemoryDB) Close(ctx context.Context) error {
	return nil
}

// SaveUser stores a user profile. Users are provisioned externally in
// production; this seeds them for local runs and tests.
func (db *MemoryDB) SaveUser(user *models.User) {
	db.mu.Lock()
	defer db.mu.Unlock()
	u := *user
	db.users[u.ID] = &u
}

func (db *MemoryDB) GetUser(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	db.mu.RLock()
	defer db.mu.RUnlock()
	u, ok := db.users[id]
	if !ok {
		return nil, utils.NewNotFoundError("User not found")
	}
	out := *u
	return &out, nil
}

// userSummary must be called with the lock held.
func (db *MemoryDB) userSummary(id primitive.ObjectID) *models.UserSummary {
	if u, ok := db.users[id]; ok {
		return u.Summary()
	}
	return nil
}

// countRelations must be called with the lock held.
func (db *MemoryDB) countRelations(kind models.RelationKind, targetKind models.TargetKind, target primitive.ObjectID) int {
	n := 0
	for k := range db.relations {
		if k.kind == kind && k.targetKind == targetKind && k.target == target {
			n++
		}
	}
	return n
}

// CountRelations reports how many records of kind point at the target.
func (db *MemoryDB) CountRelations(kind models.RelationKind, targetKind models.TargetKind, target primitive.ObjectID) int {
	db.mu.RLock()
	defer db.mu.RUnlock()
	return db.countRelations(kind, targetKind, target)
}

// Video methods

func (db *MemoryDB) SaveVideo(ctx context.Context, video *models.Video) error {
	db.mu.Lock()
	defer db.mu.Unlock()
	v := *video
	db.videos[v.ID] = &v
	return nil
}

func (db *MemoryDB) GetVideo(ctx context.Context, id primitive.ObjectID) (*models.Video, error) {
	db.mu.RLock()
	defer db.mu.RUnlock()
	v, ok := db.videos[id]
	if !ok {
		return nil, utils.NewNotFoundError("Video not found")
	}
	out := *v
	return &out, nil
}

func (db *MemoryDB) DeleteVideo(ctx context.Context, id primitive.ObjectID) error {
	db.mu.Lock()
	defer db.mu.Unlock()
	if _, ok := db.videos[id]; !ok {
		return utils.NewNotFoundError("Video not found")
	}
	delete(db.videos, id)
	return nil
}

func (db *MemoryDB) GetVideoDetail(ctx context.Context, id primitive.ObjectID) (*models.VideoDetailView, error) {
	db.mu.RLock()
	defer db.mu.RUnlock()
	v, ok := db.videos[id]
	if !ok {
		return nil, utils.NewNotFoundError("Video not found")
	}

	view := &models.VideoDetailView{
		ID:            v.ID,
		VideoFile:     v.VideoFile,
		Thumbnail:     v.Thumbnail,
		Title:         v.Title,
		Description:   v.Description,
		Duration:      v.Duration,
		IsPublished:   v.IsPublished,
		LikesCount:    db.countRelations(models.LikeRelation, models.VideoTarget, v.ID),
		DislikesCount: db.countRelations(models.DislikeRelation, models.VideoTarget, v.ID),
		CreatedAt:     v.CreatedAt,
		UpdatedAt:     v.UpdatedAt,
	}
	if owner, ok := db.users[v.OwnerID]; ok {
		view.Owner = &models.ChannelProfile{
			ID:               owner.ID,
			Username:         owner.Username,
			FullName:         owner.FullName,
			Avatar:           owner.Avatar,
			CoverImage:       owner.CoverImage,
			SubscribersCount: db.countRelations(models.SubscriptionRelation, models.ChannelTarget, owner.ID),
		}
	}
	return view, nil
}

func (db *MemoryDB) ListVideos(ctx context.Context, query models.VideoQuery) ([]*models.VideoSummaryView, error) {
	db.mu.RLock()
	defer db.mu.RUnlock()

	matched := make([]*models.Video, 0)
	for _, v := range db.videos {
		if query.Filter.Matches(v) {
			matched = append(matched, v)
		}
	}

	sortBy := query.Sort
	if sortBy.Field == "" {
		sortBy = models.DefaultVideoSort
	}
	slices.SortFunc(matched, func(a, b *models.Video) int {
		c := compareVideoField(a, b, sortBy.Field)
		if c == 0 {
			c = compareIDs(a.ID, b.ID)
		}
		if !sortBy.Ascending {
			c = -c
		}
		return c
	})

	views := make([]*models.VideoSummaryView, 0)
	for _, v := range pageOf(matched, query.Page) {
		views = append(views, &models.VideoSummaryView{
			ID:          v.ID,
			VideoFile:   v.VideoFile,
			Thumbnail:   v.Thumbnail,
			Title:       v.Title,
			Description: v.Description,
			Duration:    v.Duration,
			IsPublished: v.IsPublished,
			Owner:       db.userSummary(v.OwnerID),
			Likes:       db.countRelations(models.LikeRelation, models.VideoTarget, v.ID),
			CreatedAt:   v.CreatedAt,
			UpdatedAt:   v.UpdatedAt,
		})
	}
	return views, nil
}

func compareVideoField(a, b *models.Video, field string) int {
	switch field {
	case "title":
		return cmp.Compare(a.Title, b.Title)
	case "duration":
		return cmp.Compare(a.Duration, b.Duration)
	case "updatedAt":
		return a.UpdatedAt.Compare(b.UpdatedAt)
	default:
		return a.CreatedAt.Compare(b.CreatedAt)
	}
}

func compareIDs(a, b primitive.ObjectID) int {
	return bytes.Compare(a[:], b[:])
}

// newestFirst orders by creation time descending with the id as tie-breaker.
func newestFirst(aAt, bAt time.Time, aID, bID primitive.ObjectID) int {
	if c := bAt.Compare(aAt); c != 0 {
		return c
	}
	return compareIDs(bID, aID)
}

func pageOf[T any](items []T, pg models.Page) []T {
	pg = pg.Normalize()
	start := pg.Skip()
	if start < 0 || start >= len(items) {
		return nil
	}
	end := min(start+pg.Limit, len(items))
	return items[start:end]
}

// Comment methods

func copyComment(c *models.Comment) *models.Comment {
	out := *c
	if c.ParentID != nil {
		parent := *c.ParentID
		out.ParentID = &parent
	}
	return &out
}

func (db *MemoryDB) SaveComment(ctx context.Context, comment *models.Comment) error {
	db.mu.Lock()
	defer db.mu.Unlock()
	db.comments[comment.ID] = copyComment(comment)
	return nil
}

func (db *MemoryDB) GetComment(ctx context.Context, id primitive.ObjectID) (*models.Comment, error) {
	db.mu.RLock()
	defer db.mu.RUnlock()
	c, ok := db.comments[id]
	if !ok {
		return nil, utils.NewNotFoundError("Comment not found")
	}
	return copyComment(c), nil
}

func (db *MemoryDB) DeleteComment(ctx context.Context, id primitive.ObjectID) error {
	db.mu.Lock()
	defer db.mu.Unlock()
	if _, ok := db.comments[id]; !ok {
		return utils.NewNotFoundError("Comment not found")
	}
	delete(db.comments, id)
	return nil
}

func (db *MemoryDB) GetVideoComments(ctx context.Context, videoID primitive.ObjectID, page models.Page) ([]*models.CommentView, error) {
	db.mu.RLock()
	defer db.mu.RUnlock()

	var top []*models.Comment
	replies := make(map[primitive.ObjectID][]*models.Comment)
	for _, c := range db.comments {
		switch {
		case c.ParentID == nil && c.VideoID == videoID:
			top = append(top, c)
		case c.ParentID != nil:
			replies[*c.ParentID] = append(replies[*c.ParentID], c)
		}
	}

	slices.SortFunc(top, func(a, b *models.Comment) int {
		return newestFirst(a.CreatedAt, b.CreatedAt, a.ID, b.ID)
	})

	views := make([]*models.CommentView, 0)
	for _, c := range pageOf(top, page) {
		thread := replies[c.ID]
		slices.SortFunc(thread, func(a, b *models.Comment) int {
			return -newestFirst(a.CreatedAt, b.CreatedAt, a.ID, b.ID)
		})

		view := &models.CommentView{
			ID:            c.ID,
			Content:       c.Content,
			VideoID:       c.VideoID,
			Owner:         db.userSummary(c.OwnerID),
			LikesCount:    db.countRelations(models.LikeRelation, models.CommentTarget, c.ID),
			DislikesCount: db.countRelations(models.DislikeRelation, models.CommentTarget, c.ID),
			Replies:       make([]*models.ReplyView, 0, len(thread)),
			CreatedAt:     c.CreatedAt,
			UpdatedAt:     c.UpdatedAt,
		}
		for _, r := range thread {
			parent := *r.ParentID
			view.Replies = append(view.Replies, &models.ReplyView{
				ID:        r.ID,
				Content:   r.Content,
				VideoID:   r.VideoID,
				Owner:     db.userSummary(r.OwnerID),
				ParentID:  &parent,
				CreatedAt: r.CreatedAt,
				UpdatedAt: r.UpdatedAt,
			})
		}
		views = append(views, view)
	}
	return views, nil
}

// Relation methods

func (db *MemoryDB) ToggleRelation(ctx context.Context, rel models.Relation) (models.ToggleState, error) {
	if !rel.Valid() {
		return "", utils.NewValidationError("Invalid relation target")
	}

	db.mu.Lock()
	defer db.mu.Unlock()

	key := keyOf(rel)
	if _, ok := db.relations[key]; ok {
		delete(db.relations, key)
		return models.StateRemoved, nil
	}
	db.relations[key] = &models.RelationRecord{
		ID:         primitive.NewObjectID(),
		Kind:       rel.Kind,
		ActorID:    rel.ActorID,
		TargetKind: rel.TargetKind,
		TargetID:   rel.TargetID,
		CreatedAt:  time.Now().UTC(),
	}
	return models.StateAdded, nil
}

// recordsWhere collects relation records matching keep, newest first.
// Must be called with the lock held.
func (db *MemoryDB) recordsWhere(keep func(relationKey) bool) []*models.RelationRecord {
	var out []*models.RelationRecord
	for k, r := range db.relations {
		if keep(k) {
			out = append(out, r)
		}
	}
	slices.SortFunc(out, func(a, b *models.RelationRecord) int {
		return newestFirst(a.CreatedAt, b.CreatedAt, a.ID, b.ID)
	})
	return out
}

func (db *MemoryDB) GetRelatedVideos(ctx context.Context, kind models.RelationKind, userID primitive.ObjectID) ([]*models.RelatedVideoView, error) {
	if kind == models.SubscriptionRelation {
		return nil, utils.NewValidationError("Subscriptions do not point at videos")
	}

	db.mu.RLock()
	defer db.mu.RUnlock()

	records := db.recordsWhere(func(k relationKey) bool {
		return k.kind == kind && k.actor == userID && k.targetKind == models.VideoTarget
	})

	views := make([]*models.RelatedVideoView, 0, len(records))
	for _, r := range records {
		v, ok := db.videos[r.TargetID]
		if !ok {
			continue
		}
		views = append(views, &models.RelatedVideoView{
			ID:        v.ID,
			Title:     v.Title,
			VideoFile: v.VideoFile,
			Thumbnail: v.Thumbnail,
			Duration:  v.Duration,
			Owner:     db.userSummary(v.OwnerID),
			CreatedAt: v.CreatedAt,
		})
	}
	return views, nil
}

func (db *MemoryDB) GetChannelSubscribers(ctx context.Context, channelID primitive.ObjectID) ([]*models.SubscriberView, error) {
	db.mu.RLock()
	defer db.mu.RUnlock()

	records := db.recordsWhere(func(k relationKey) bool {
		return k.kind == models.SubscriptionRelation && k.target == channelID
	})

	views := make([]*models.SubscriberView, 0, len(records))
	for _, r := range records {
		views = append(views, &models.SubscriberView{
			ID:           r.ID,
			Subscriber:   db.userSummary(r.ActorID),
			SubscribedAt: r.CreatedAt,
		})
	}
	return views, nil
}

func (db *MemoryDB) GetSubscribedChannels(ctx context.Context, subscriberID primitive.ObjectID) ([]*models.SubscribedChannelView, error) {
	db.mu.RLock()
	defer db.mu.RUnlock()

	records := db.recordsWhere(func(k relationKey) bool {
		return k.kind == models.SubscriptionRelation && k.actor == subscriberID
	})

	views := make([]*models.SubscribedChannelView, 0, len(records))
	for _, r := range records {
		views = append(views, &models.SubscribedChannelView{
			ID:           r.ID,
			Channel:      db.userSummary(r.TargetID),
			SubscribedAt: r.CreatedAt,
		})
	}
	return views, nil
}

// Tweet methods

func (db *MemoryDB) SaveTweet(ctx context.Context, tweet *models.Tweet) error {
	db.mu.Lock()
	defer db.mu.Unlock()
	t := *tweet
	db.tweets[t.ID] = &t
	return nil
}

func (db *MemoryDB) GetTweet(ctx context.Context, id primitive.ObjectID) (*models.Tweet, error) {
	db.mu.RLock()
	defer db.mu.RUnlock()
	t, ok := db.tweets[id]
	if !ok {
		return nil, utils.NewNotFoundError("Tweet not found")
	}
	out := *t
	return &out, nil
}

func (db *MemoryDB) DeleteTweet(ctx context.Context, id primitive.ObjectID) error {
	db.mu.Lock()
	defer db.mu.Unlock()
	if _, ok := db.tweets[id]; !ok {
		return utils.NewNotFoundError("Tweet not found")
	}
	delete(db.tweets, id)
	return nil
}

func (db *MemoryDB) GetUserTweets(ctx context.Context, ownerID primitive.ObjectID) ([]*models.Tweet, error) {
	db.mu.RLock()
	defer db.mu.RUnlock()

	tweets := make([]*models.Tweet, 0)
	for _, t := range db.tweets {
		if t.OwnerID == ownerID {
			out := *t
			tweets = append(tweets, &out)
		}
	}
	slices.SortFunc(tweets, func(a, b *models.Tweet) int {
		return newestFirst(a.CreatedAt, b.CreatedAt, a.ID, b.ID)
	})
	return tweets, nil
}

// Playlist methods

func copyPlaylist(p *models.Playlist) *models.Playlist {
	out := *p
	out.Videos = append([]primitive.ObjectID{}, p.Videos...)
	return &out
}

func (db *MemoryDB) SavePlaylist(ctx context.Context, playlist *models.Playlist) error {
	db.mu.Lock()
	defer db.mu.Unlock()
	db.playlists[playlist.ID] = copyPlaylist(playlist)
	return nil
}

func (db *MemoryDB) GetPlaylist(ctx context.Context, id primitive.ObjectID) (*models.Playlist, error) {
	db.mu.RLock()
	defer db.mu.RUnlock()
	p, ok := db.playlists[id]
	if !ok {
		return nil, utils.NewNotFoundError("Playlist not found")
	}
	return copyPlaylist(p), nil
}

func (db *MemoryDB) DeletePlaylist(ctx context.Context, id primitive.ObjectID) error {
	db.mu.Lock()
	defer db.mu.Unlock()
	if _, ok := db.playlists[id]; !ok {
		return utils.NewNotFoundError("Playlist not found")
	}
	delete(db.playlists, id)
	return nil
}

func (db *MemoryDB) GetUserPlaylists(ctx context.Context, ownerID primitive.ObjectID) ([]*models.Playlist, error) {
	db.mu.RLock()
	defer db.mu.RUnlock()

	playlists := make([]*models.Playlist, 0)
	for _, p := range db.playlists {
		if p.OwnerID == ownerID {
			playlists = append(playlists, copyPlaylist(p))
		}
	}
	slices.SortFunc(playlists, func(a, b *models.Playlist) int {
		return newestFirst(a.CreatedAt, b.CreatedAt, a.ID, b.ID)
	})
	return playlists, nil
}

func (db *MemoryDB) PushPlaylistVideo(ctx context.Context, playlistID, videoID primitive.ObjectID) (*models.Playlist, error) {
	db.mu.Lock()
	defer db.mu.Unlock()
	p, ok := db.playlists[playlistID]
	if !ok {
		return nil, utils.NewNotFoundError("Playlist not found")
	}
	p.Videos = append(p.Videos, videoID)
	p.UpdatedAt = time.Now().UTC()
	return copyPlaylist(p), nil
}

func (db *MemoryDB) PullPlaylistVideo(ctx context.Context, playlistID, videoID primitive.ObjectID) (*models.Playlist, error) {
	db.mu.Lock()
	defer db.mu.Unlock()
	p, ok := db.playlists[playlistID]
	if !ok {
		return nil, utils.NewNotFoundError("Playlist not found")
	}
	p.RemoveVideo(videoID)
	p.UpdatedAt = time.Now().UTC()
	return copyPlaylist(p), nil
}
