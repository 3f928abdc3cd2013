package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// User represents an account document. Accounts are created by the auth
// service; the feed service only reads them to resolve callers and to
// join owner details onto feed entries.
type User struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	Username     string             `bson:"username" json:"username"`
	Email        string             `bson:"email" json:"email,omitempty"`
	Password     string             `bson:"password" json:"-"`
	ProfileImage string             `bson:"profileImage" json:"profileImage"`
	CreatedAt    time.Time          `bson:"createdAt" json:"createdAt"`
}
