package database

import (
	"regexp"
	"strings"

	"videotube/internal/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// Public user fields. Nothing else from the users collection leaves the database.
var (
	userSummaryFields    = []string{"username", "fullName", "avatar"}
	channelProfileFields = []string{"username", "fullName", "avatar", "coverImage"}
)

// pipeline composes aggregation stages in order.
type pipeline struct {
	stages mongo.Pipeline
}

func newPipeline() *pipeline {
	return &pipeline{stages: mongo.Pipeline{}}
}

func (p *pipeline) stage(op string, value interface{}) *pipeline {
	p.stages = append(p.stages, bson.D{{Key: op, Value: value}})
	return p
}

func (p *pipeline) match(filter bson.M) *pipeline {
	return p.stage("$match", filter)
}

func (p *pipeline) sort(fields bson.D) *pipeline {
	return p.stage("$sort", fields)
}

// page appends $skip and $limit for a normalized page.
func (p *pipeline) page(pg models.Page) *pipeline {
	pg = pg.Normalize()
	return p.stage("$skip", int64(pg.Skip())).stage("$limit", int64(pg.Limit))
}

func (p *pipeline) project(fields ...string) *pipeline {
	doc := bson.D{}
	for _, f := range fields {
		doc = append(doc, bson.E{Key: f, Value: 1})
	}
	return p.stage("$project", doc)
}

func (p *pipeline) addFields(fields bson.M) *pipeline {
	return p.stage("$addFields", fields)
}

func (p *pipeline) unset(fields ...string) *pipeline {
	return p.stage("$unset", fields)
}

// lookupOwner joins the users document referenced by localField and stores
// its public summary in as. A dangling reference leaves as unset.
func (p *pipeline) lookupOwner(localField, as string) *pipeline {
	p.stage("$lookup", bson.M{
		"from":         usersCollection,
		"localField":   localField,
		"foreignField": "_id",
		"as":           as,
		"pipeline":     newPipeline().project(userSummaryFields...).build(),
	})
	return p.addFields(bson.M{as: bson.M{"$first": "$" + as}})
}

// lookupChannel joins the owner as a channel profile with a subscriber count.
func (p *pipeline) lookupChannel(localField, as string) *pipeline {
	inner := newPipeline().
		project(channelProfileFields...).
		lookupCount(subscriptionsCollection, "_id", "channel", "subscribersCount").
		build()
	p.stage("$lookup", bson.M{
		"from":         usersCollection,
		"localField":   localField,
		"foreignField": "_id",
		"as":           as,
		"pipeline":     inner,
	})
	return p.addFields(bson.M{as: bson.M{"$first": "$" + as}})
}

// lookupCount stores in as the number of documents in from whose
// foreignField equals this document's localField.
func (p *pipeline) lookupCount(from, localField, foreignField, as string) *pipeline {
	tmp := "_" + as
	p.stage("$lookup", bson.M{
		"from":         from,
		"localField":   localField,
		"foreignField": foreignField,
		"as":           tmp,
		"pipeline":     newPipeline().project("_id").build(),
	})
	return p.addFields(bson.M{as: bson.M{"$size": "$" + tmp}}).unset(tmp)
}

func (p *pipeline) build() mongo.Pipeline {
	return p.stages
}

// videoFilterDocument renders a VideoFilter as a $match document. Owner and
// search conditions are combined with $and.
func videoFilterDocument(f models.VideoFilter) bson.M {
	var conds []bson.M
	if f.OwnerID != nil {
		conds = append(conds, bson.M{"owner": *f.OwnerID})
	}
	if search := strings.TrimSpace(f.Search); search != "" {
		rx := primitive.Regex{Pattern: regexp.QuoteMeta(search), Options: "i"}
		conds = append(conds, bson.M{"$or": bson.A{
			bson.M{"title": rx},
			bson.M{"description": rx},
		}})
	}

	switch len(conds) {
	case 0:
		return bson.M{}
	case 1:
		return conds[0]
	default:
		and := bson.A{}
		for _, c := range conds {
			and = append(and, c)
		}
		return bson.M{"$and": and}
	}
}

// videoSortDocument orders by the requested field with _id as tie-breaker
// so pages stay stable.
func videoSortDocument(s models.VideoSort) bson.D {
	if s.Field == "" {
		s = models.DefaultVideoSort
	}
	dir := -1
	if s.Ascending {
		dir = 1
	}
	return bson.D{{Key: s.Field, Value: dir}, {Key: "_id", Value: dir}}
}

// commentThreadPipeline lists top-level comments of a video, newest first,
// each with owner, engagement counts and its replies oldest first.
func commentThreadPipeline(videoID primitive.ObjectID, pg models.Page) mongo.Pipeline {
	replies := newPipeline().
		match(bson.M{"$expr": bson.M{"$eq": bson.A{"$parent", "$$commentId"}}}).
		sort(bson.D{{Key: "createdAt", Value: 1}, {Key: "_id", Value: 1}}).
		lookupOwner("owner", "owner").
		build()

	return newPipeline().
		match(bson.M{"video": videoID, "parent": bson.M{"$exists": false}}).
		sort(bson.D{{Key: "createdAt", Value: -1}, {Key: "_id", Value: -1}}).
		page(pg).
		lookupOwner("owner", "owner").
		lookupCount(likesCollection, "_id", "comment", "likesCount").
		lookupCount(dislikesCollection, "_id", "comment", "dislikesCount").
		stage("$lookup", bson.M{
			"from":     commentsCollection,
			"let":      bson.M{"commentId": "$_id"},
			"pipeline": replies,
			"as":       "replies",
		}).
		build()
}

func videoDetailPipeline(videoID primitive.ObjectID) mongo.Pipeline {
	return newPipeline().
		match(bson.M{"_id": videoID}).
		lookupCount(likesCollection, "_id", "video", "likesCount").
		lookupCount(dislikesCollection, "_id", "video", "dislikesCount").
		lookupChannel("owner", "owner").
		build()
}

func videoListPipeline(q models.VideoQuery) mongo.Pipeline {
	return newPipeline().
		match(videoFilterDocument(q.Filter)).
		sort(videoSortDocument(q.Sort)).
		page(q.Page).
		lookupOwner("owner", "owner").
		lookupCount(likesCollection, "_id", "video", "likes").
		build()
}

// relatedVideosPipeline runs against a likes or dislikes collection and
// resolves the videos the user reacted to, most recent reaction first.
func relatedVideosPipeline(actorField string, userID primitive.ObjectID) mongo.Pipeline {
	return newPipeline().
		match(bson.M{actorField: userID, "video": bson.M{"$exists": true}}).
		sort(bson.D{{Key: "createdAt", Value: -1}, {Key: "_id", Value: -1}}).
		stage("$lookup", bson.M{
			"from":         videosCollection,
			"localField":   "video",
			"foreignField": "_id",
			"as":           "video",
		}).
		stage("$unwind", "$video").
		stage("$replaceRoot", bson.M{"newRoot": "$video"}).
		lookupOwner("owner", "owner").
		project("title", "videoFile", "thumbnail", "duration", "owner", "createdAt").
		build()
}

func channelSubscribersPipeline(channelID primitive.ObjectID) mongo.Pipeline {
	return newPipeline().
		match(bson.M{"channel": channelID}).
		sort(bson.D{{Key: "createdAt", Value: -1}, {Key: "_id", Value: -1}}).
		lookupOwner("subscriber", "subscriber").
		project("subscriber", "createdAt").
		build()
}

func subscribedChannelsPipeline(subscriberID primitive.ObjectID) mongo.Pipeline {
	return newPipeline().
		match(bson.M{"subscriber": subscriberID}).
		sort(bson.D{{Key: "createdAt", Value: -1}, {Key: "_id", Value: -1}}).
		lookupOwner("channel", "channel").
		project("channel", "createdAt").
		build()
}
