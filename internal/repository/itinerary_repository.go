package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/mohitjoer/travel-planner/internal/models"
	"github.com/mohitjoer/travel-planner/pkg/logger"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ItineraryRepository handles database operations for itineraries. All
// queries are scoped by user_id, which acts as the partition key.
type ItineraryRepository struct {
	collection *mongo.Collection
}

// NewItineraryRepository creates a new instance of ItineraryRepository.
func NewItineraryRepository(db *mongo.Database) *ItineraryRepository {
	return &ItineraryRepository{
		collection: db.Collection("itineraries"),
	}
}

// CreateItinerary inserts a new itinerary and returns it with the assigned ID.
// CreatedAt is set here, once, and never touched again.
func (r *ItineraryRepository) CreateItinerary(ctx context.Context, itinerary *models.Itinerary) (*models.Itinerary, error) {
	itinerary.CreatedAt = time.Now()
	itinerary.UpdatedAt = itinerary.CreatedAt

	result, err := r.collection.InsertOne(ctx, itinerary)
	if err != nil {
		logger.Log.WithError(err).Error("Failed to insert itinerary")
		return nil, fmt.Errorf("failed to create itinerary: %v", err)
	}

	insertedID, ok := result.InsertedID.(primitive.ObjectID)
	if !ok {
		logger.Log.Error("Failed to cast inserted itinerary ID")
		return nil, fmt.Errorf("failed to read inserted itinerary ID")
	}
	itinerary.ID = insertedID

	logger.Log.WithField("itinerary_id", itinerary.ID.Hex()).Info("Itinerary created")
	return itinerary, nil
}

// GetItineraryByID fetches a single itinerary by its ID.
func (r *ItineraryRepository) GetItineraryByID(ctx context.Context, id primitive.ObjectID) (*models.Itinerary, error) {
	var itinerary models.Itinerary
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&itinerary)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, models.ErrNotFound
	}
	if err != nil {
		logger.Log.WithError(err).WithField("itinerary_id", id.Hex()).Error("Failed to find itinerary")
		return nil, fmt.Errorf("failed to get itinerary: %v", err)
	}
	return &itinerary, nil
}

// GetItinerariesByUser returns all itineraries of one user, newest first.
func (r *ItineraryRepository) GetItinerariesByUser(ctx context.Context, userID primitive.ObjectID) ([]models.Itinerary, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})

	cursor, err := r.collection.Find(ctx, bson.M{"user_id": userID}, opts)
	if err != nil {
		logger.Log.WithError(err).Error("Failed to fetch itineraries")
		return nil, fmt.Errorf("failed to fetch itineraries: %v", err)
	}
	defer cursor.Close(ctx)

	var itineraries []models.Itinerary
	if err := cursor.All(ctx, &itineraries); err != nil {
		return nil, fmt.Errorf("failed to decode itineraries: %v", err)
	}
	return itineraries, nil
}

// ReplaceItinerary overwrites the mutable fields of a record. Activities and
// photos are full-array replacements; _id and created_at stay untouched.
func (r *ItineraryRepository) ReplaceItinerary(ctx context.Context, id primitive.ObjectID, itinerary *models.Itinerary) (*models.Itinerary, error) {
	update := bson.M{"$set": bson.M{
		"title":       itinerary.Title,
		"destination": itinerary.Destination,
		"trip_type":   itinerary.TripType,
		"activities":  itinerary.Activities,
		"photos":      itinerary.Photos,
		"updated_at":  time.Now(),
	}}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var updated models.Itinerary
	err := r.collection.FindOneAndUpdate(ctx, bson.M{"_id": id}, update, opts).Decode(&updated)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, models.ErrNotFound
	}
	if err != nil {
		logger.Log.WithError(err).WithField("itinerary_id", id.Hex()).Error("Failed to update itinerary")
		return nil, fmt.Errorf("failed to update itinerary: %v", err)
	}

	logger.Log.WithField("itinerary_id", id.Hex()).Info("Itinerary updated")
	return &updated, nil
}

// SetFavorite writes the favorite flag. The read half of the toggle lives in
// the service; concurrent toggles are last-writer-wins.
func (r *ItineraryRepository) SetFavorite(ctx context.Context, id primitive.ObjectID, favorite bool) error {
	update := bson.M{"$set": bson.M{
		"favorite":   favorite,
		"updated_at": time.Now(),
	}}

	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": id}, update)
	if err != nil {
		logger.Log.WithError(err).WithField("itinerary_id", id.Hex()).Error("Failed to set favorite flag")
		return fmt.Errorf("failed to set favorite: %v", err)
	}
	if result.MatchedCount == 0 {
		return models.ErrNotFound
	}
	return nil
}

// DeleteItinerary removes a record. Uploaded media is not cleaned up.
func (r *ItineraryRepository) DeleteItinerary(ctx context.Context, id primitive.ObjectID) error {
	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		logger.Log.WithError(err).WithField("itinerary_id", id.Hex()).Error("Failed to delete itinerary")
		return fmt.Errorf("failed to delete itinerary: %v", err)
	}
	if result.DeletedCount == 0 {
		return models.ErrNotFound
	}

	logger.Log.WithField("itinerary_id", id.Hex()).Info("Itinerary deleted")
	return nil
}
