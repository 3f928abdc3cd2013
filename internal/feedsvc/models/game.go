package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Game is a single recommendation post. The image URL points at the
// externally hosted media; user references the owning account and is
// never reassigned after creation.
type Game struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	Title     string             `bson:"title" json:"title"`
	Caption   string             `bson:"caption" json:"caption"`
	Rating    int                `bson:"rating" json:"rating"`
	Image     string             `bson:"image" json:"image"`
	User      primitive.ObjectID `bson:"user" json:"user"`
	CreatedAt time.Time          `bson:"createdAt" json:"createdAt"`
}

// Owner is the projection of a User joined onto feed entries.
type Owner struct {
	ID           primitive.ObjectID `bson:"_id" json:"_id"`
	Username     string             `bson:"username" json:"username"`
	ProfileImage string             `bson:"profileImage" json:"profileImage"`
}

// FeedGame is a Game enriched with its owner for the paginated feed.
// The embedded user id field is shadowed by the populated Owner.
type FeedGame struct {
	Game `bson:",inline"`
	User Owner `json:"user"`
}

// FeedPage is the list response envelope consumed by the mobile client.
type FeedPage struct {
	Games       []FeedGame `json:"games"`
	CurrentPage int        `json:"currentPage"`
	TotalGames  int64      `json:"totalGames"`
	TotalPages  int        `json:"totalPages"`
}
