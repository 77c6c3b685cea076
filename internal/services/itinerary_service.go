package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/mohitjoer/travel-planner/internal/filter"
	"github.com/mohitjoer/travel-planner/internal/models"
	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ItineraryStore is the persistence surface the service needs. It is
// satisfied by *repository.ItineraryRepository; tests substitute a fake.
type ItineraryStore interface {
	CreateItinerary(ctx context.Context, itinerary *models.Itinerary) (*models.Itinerary, error)
	GetItineraryByID(ctx context.Context, id primitive.ObjectID) (*models.Itinerary, error)
	GetItinerariesByUser(ctx context.Context, userID primitive.ObjectID) ([]models.Itinerary, error)
	ReplaceItinerary(ctx context.Context, id primitive.ObjectID, itinerary *models.Itinerary) (*models.Itinerary, error)
	SetFavorite(ctx context.Context, id primitive.ObjectID, favorite bool) error
	DeleteItinerary(ctx context.Context, id primitive.ObjectID) error
}

// ItineraryService encapsulates the business logic for itinerary operations.
// The owner ID is passed explicitly into every call; nothing is read from
// ambient session state.
type ItineraryService struct {
	store ItineraryStore
}

// NewItineraryService creates a new instance of ItineraryService.
func NewItineraryService(store ItineraryStore) *ItineraryService {
	return &ItineraryService{store: store}
}

// CreateItinerary validates and persists a new itinerary for the owner.
func (s *ItineraryService) CreateItinerary(ctx context.Context, ownerID primitive.ObjectID, itinerary *models.Itinerary) (*models.Itinerary, error) {
	if strings.TrimSpace(itinerary.Title) == "" {
		return nil, fmt.Errorf("%w: title is required", models.ErrValidation)
	}
	if strings.TrimSpace(itinerary.Destination) == "" {
		return nil, fmt.Errorf("%w: destination is required", models.ErrValidation)
	}

	itinerary.UserID = ownerID
	if itinerary.Activities == nil {
		itinerary.Activities = []models.Activity{}
	}
	if itinerary.Photos == nil {
		itinerary.Photos = []string{}
	}

	created, err := s.store.CreateItinerary(ctx, itinerary)
	if err != nil {
		return nil, err
	}

	logrus.WithFields(logrus.Fields{
		"itinerary_id": created.ID.Hex(),
		"user_id":      ownerID.Hex(),
	}).Info("Itinerary created")
	return created, nil
}

// GetItinerary returns one of the owner's itineraries. A record owned by
// another user is reported as not found.
func (s *ItineraryService) GetItinerary(ctx context.Context, ownerID primitive.ObjectID, id string) (*models.Itinerary, error) {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid itinerary ID", models.ErrValidation)
	}

	itinerary, err := s.store.GetItineraryByID(ctx, objID)
	if err != nil {
		return nil, err
	}
	if itinerary.UserID != ownerID {
		return nil, models.ErrNotFound
	}
	return itinerary, nil
}

// GetItineraries returns the owner's full collection, newest first.
func (s *ItineraryService) GetItineraries(ctx context.Context, ownerID primitive.ObjectID) ([]models.Itinerary, error) {
	return s.store.GetItinerariesByUser(ctx, ownerID)
}

// UpdateItinerary replaces the mutable fields of one of the owner's
// itineraries. Activities and photos are overwritten wholesale; ID and
// CreatedAt never change.
func (s *ItineraryService) UpdateItinerary(ctx context.Context, ownerID primitive.ObjectID, id string, updated *models.Itinerary) (*models.Itinerary, error) {
	if strings.TrimSpace(updated.Title) == "" {
		return nil, fmt.Errorf("%w: title is required", models.ErrValidation)
	}
	if strings.TrimSpace(updated.Destination) == "" {
		return nil, fmt.Errorf("%w: destination is required", models.ErrValidation)
	}

	existing, err := s.GetItinerary(ctx, ownerID, id)
	if err != nil {
		return nil, err
	}

	if updated.Activities == nil {
		updated.Activities = []models.Activity{}
	}
	if updated.Photos == nil {
		updated.Photos = []string{}
	}

	return s.store.ReplaceItinerary(ctx, existing.ID, updated)
}

// ToggleFavorite flips the favorite flag as a read-then-write. There is no
// version check; concurrent toggles are last-writer-wins.
func (s *ItineraryService) ToggleFavorite(ctx context.Context, ownerID primitive.ObjectID, id string) (*models.Itinerary, error) {
	itinerary, err := s.GetItinerary(ctx, ownerID, id)
	if err != nil {
		return nil, err
	}

	itinerary.Favorite = !itinerary.Favorite
	if err := s.store.SetFavorite(ctx, itinerary.ID, itinerary.Favorite); err != nil {
		return nil, err
	}
	return itinerary, nil
}

// AppendPhotos adds already-uploaded media URLs to the end of the record's
// photo list, preserving append order.
func (s *ItineraryService) AppendPhotos(ctx context.Context, ownerID primitive.ObjectID, id string, urls []string) (*models.Itinerary, error) {
	itinerary, err := s.GetItinerary(ctx, ownerID, id)
	if err != nil {
		return nil, err
	}

	itinerary.Photos = append(itinerary.Photos, urls...)
	return s.store.ReplaceItinerary(ctx, itinerary.ID, itinerary)
}

// DeleteItinerary removes one of the owner's itineraries. Media referenced
// by the record is left behind on the media host.
func (s *ItineraryService) DeleteItinerary(ctx context.Context, ownerID primitive.ObjectID, id string) error {
	itinerary, err := s.GetItinerary(ctx, ownerID, id)
	if err != nil {
		return err
	}

	if err := s.store.DeleteItinerary(ctx, itinerary.ID); err != nil {
		return err
	}

	logrus.WithFields(logrus.Fields{
		"itinerary_id": itinerary.ID.Hex(),
		"user_id":      ownerID.Hex(),
	}).Info("Itinerary deleted")
	return nil
}

// SearchItineraries fetches the owner's full list and narrows it in memory.
// The store cannot query nested activity fields, so filtering always happens
// here, with the same predicate the dashboard uses.
func (s *ItineraryService) SearchItineraries(ctx context.Context, ownerID primitive.ObjectID, criteria filter.Criteria) ([]models.Itinerary, error) {
	itineraries, err := s.store.GetItinerariesByUser(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	return filter.Apply(itineraries, criteria), nil
}
