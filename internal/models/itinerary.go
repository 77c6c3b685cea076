package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Trip type values a client will usually send. The field itself is an open
// string and is stored as-is.
const (
	TripTypeAdventure = "Adventure"
	TripTypeLeisure   = "Leisure"
	TripTypeWork      = "Work"
)

// Itinerary represents one trip owned by a single user. Activities and
// photos are always replaced wholesale on update, never patched per-element.
type Itinerary struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID      primitive.ObjectID `bson:"user_id" json:"user_id"`
	Title       string             `bson:"title" json:"title"`
	Destination string             `bson:"destination" json:"destination"`
	TripType    string             `bson:"trip_type" json:"trip_type"`
	Activities  []Activity         `bson:"activities" json:"activities"`
	Photos      []string           `bson:"photos" json:"photos"`
	Favorite    bool               `bson:"favorite,omitempty" json:"favorite"`
	CreatedAt   time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt   time.Time          `bson:"updated_at" json:"updated_at"`
}

// Activity is a single planned event inside an itinerary. All fields may be
// empty; Date is a plain calendar-date string with no timezone semantics.
type Activity struct {
	Name        string `bson:"name" json:"name"`
	Description string `bson:"description" json:"description"`
	Date        string `bson:"date" json:"date"`
}
