package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Playlist is an ordered list of videos. Videos may repeat.
type Playlist struct {
	ID          primitive.ObjectID   `json:"_id" bson:"_id"`
	Name        string               `json:"name" bson:"name"`
	Description string               `json:"description" bson:"description"`
	Videos      []primitive.ObjectID `json:"videos" bson:"videos"`
	OwnerID     primitive.ObjectID   `json:"owner" bson:"owner"`
	CreatedAt   time.Time            `json:"createdAt" bson:"createdAt"`
	UpdatedAt   time.Time            `json:"updatedAt" bson:"updatedAt"`
}

// RemoveVideo drops every occurrence of videoID and reports how many were removed.
func (p *Playlist) RemoveVideo(videoID primitive.ObjectID) int {
	kept := p.Videos[:0]
	removed := 0
	for _, id := range p.Videos {
		if id == videoID {
			removed++
			continue
		}
		kept = append(kept, id)
	}
	p.Videos = kept
	return removed
}
