package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/mohitjoer/travel-planner/internal/filter"
	"github.com/mohitjoer/travel-planner/internal/models"
	"github.com/mohitjoer/travel-planner/internal/services"
	"github.com/mohitjoer/travel-planner/internal/uploader"
	"github.com/mohitjoer/travel-planner/pkg/middleware"
	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

const maxUploadSize = 32 << 20 // whole multipart form

// ItineraryHandler handles HTTP requests related to itineraries.
type ItineraryHandler struct {
	Service  *services.ItineraryService
	Uploader uploader.Uploader
}

// NewItineraryHandler creates a new instance of ItineraryHandler.
func NewItineraryHandler(service *services.ItineraryService, up uploader.Uploader) *ItineraryHandler {
	return &ItineraryHandler{
		Service:  service,
		Uploader: up,
	}
}

// ownerID extracts the authenticated owner from the request context. A nil
// return means the 401 was already written.
func ownerID(w http.ResponseWriter, r *http.Request) (primitive.ObjectID, bool) {
	claims := middleware.GetUserFromContext(r.Context())
	if claims == nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return primitive.NilObjectID, false
	}

	id, err := primitive.ObjectIDFromHex(claims.UserID)
	if err != nil {
		http.Error(w, "Invalid user ID", http.StatusInternalServerError)
		return primitive.NilObjectID, false
	}
	return id, true
}

// CreateItineraryHandler accepts a multipart form with the itinerary fields,
// a JSON-encoded activities array and zero or more photo files. Photos are
// uploaded one at a time; a failed file is logged and omitted rather than
// aborting the create.
func (h *ItineraryHandler) CreateItineraryHandler(w http.ResponseWriter, r *http.Request) {
	owner, ok := ownerID(w, r)
	if !ok {
		return
	}

	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		http.Error(w, "Invalid multipart form", http.StatusBadRequest)
		return
	}

	title := r.FormValue("title")
	destination := r.FormValue("destination")
	tripType := r.FormValue("tripType")

	// Required fields are checked before any upload or persistence attempt.
	if title == "" || destination == "" {
		http.Error(w, "Missing required fields", http.StatusBadRequest)
		return
	}

	activities, err := parseActivities(r.FormValue("activities"))
	if err != nil {
		logrus.WithError(err).Warn("Invalid activities payload during itinerary creation")
		http.Error(w, "Invalid activities format", http.StatusBadRequest)
		return
	}

	var photoURLs []string
	if r.MultipartForm != nil {
		files := r.MultipartForm.File["photos"]
		photoURLs, _ = uploader.UploadBatch(r.Context(), h.Uploader, files, owner.Hex())
	}

	itinerary := &models.Itinerary{
		Title:       title,
		Destination: destination,
		TripType:    tripType,
		Activities:  activities,
		Photos:      photoURLs,
	}

	created, err := h.Service.CreateItinerary(r.Context(), owner, itinerary)
	if err != nil {
		logrus.WithError(err).Error("Failed to create itinerary")
		writeError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"message": "Itinerary created successfully",
		"id":      created.ID.Hex(),
	})
}

// parseActivities decodes the JSON-encoded activities form field. Some
// clients send the literal string "undefined" when the field is unset.
func parseActivities(raw string) ([]models.Activity, error) {
	if raw == "" || raw == "undefined" {
		return []models.Activity{}, nil
	}
	var activities []models.Activity
	if err := json.Unmarshal([]byte(raw), &activities); err != nil {
		return nil, err
	}
	return activities, nil
}

// GetItinerariesHandler returns the owner's full collection, newest first.
func (h *ItineraryHandler) GetItinerariesHandler(w http.ResponseWriter, r *http.Request) {
	owner, ok := ownerID(w, r)
	if !ok {
		return
	}

	itineraries, err := h.Service.GetItineraries(r.Context(), owner)
	if err != nil {
		logrus.WithError(err).Error("Failed to fetch itineraries")
		writeError(w, err)
		return
	}
	if itineraries == nil {
		itineraries = []models.Itinerary{}
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(itineraries)
}

// GetItineraryHandler returns a single itinerary by ID.
func (h *ItineraryHandler) GetItineraryHandler(w http.ResponseWriter, r *http.Request) {
	owner, ok := ownerID(w, r)
	if !ok {
		return
	}

	itinerary, err := h.Service.GetItinerary(r.Context(), owner, mux.Vars(r)["id"])
	if err != nil {
		writeError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(itinerary)
}

// UpdateItineraryHandler replaces the mutable fields of an itinerary from a
// JSON body. Activities and photos arrays are overwritten wholesale.
func (h *ItineraryHandler) UpdateItineraryHandler(w http.ResponseWriter, r *http.Request) {
	owner, ok := ownerID(w, r)
	if !ok {
		return
	}

	var payload models.Itinerary
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		http.Error(w, "Invalid request payload", http.StatusBadRequest)
		return
	}
	defer r.Body.Close()

	updated, err := h.Service.UpdateItinerary(r.Context(), owner, mux.Vars(r)["id"], &payload)
	if err != nil {
		logrus.WithError(err).Warn("Failed to update itinerary")
		writeError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(updated)
}

// ToggleFavoriteHandler flips the favorite flag and returns the updated
// record.
func (h *ItineraryHandler) ToggleFavoriteHandler(w http.ResponseWriter, r *http.Request) {
	owner, ok := ownerID(w, r)
	if !ok {
		return
	}

	itinerary, err := h.Service.ToggleFavorite(r.Context(), owner, mux.Vars(r)["id"])
	if err != nil {
		writeError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(itinerary)
}

// DeleteItineraryHandler removes an itinerary.
func (h *ItineraryHandler) DeleteItineraryHandler(w http.ResponseWriter, r *http.Request) {
	owner, ok := ownerID(w, r)
	if !ok {
		return
	}

	if err := h.Service.DeleteItinerary(r.Context(), owner, mux.Vars(r)["id"]); err != nil {
		writeError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"message": "Itinerary deleted successfully"})
}

// UploadPhotosHandler appends more photos to an existing itinerary. Each
// file is attempted independently; failures are omitted.
func (h *ItineraryHandler) UploadPhotosHandler(w http.ResponseWriter, r *http.Request) {
	owner, ok := ownerID(w, r)
	if !ok {
		return
	}

	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		http.Error(w, "Invalid multipart form", http.StatusBadRequest)
		return
	}

	files := r.MultipartForm.File["photos"]
	if len(files) == 0 {
		http.Error(w, "Missing photos in request", http.StatusBadRequest)
		return
	}

	urls, _ := uploader.UploadBatch(r.Context(), h.Uploader, files, owner.Hex())

	itinerary, err := h.Service.AppendPhotos(r.Context(), owner, mux.Vars(r)["id"], urls)
	if err != nil {
		writeError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(itinerary)
}

// SearchItinerariesHandler runs the shared in-memory filter over the
// owner's collection. The store cannot query nested activity fields, so the
// whole list is fetched and narrowed here.
func (h *ItineraryHandler) SearchItinerariesHandler(w http.ResponseWriter, r *http.Request) {
	owner, ok := ownerID(w, r)
	if !ok {
		return
	}

	var criteria filter.Criteria
	if err := json.NewDecoder(r.Body).Decode(&criteria); err != nil {
		http.Error(w, "Invalid search criteria", http.StatusBadRequest)
		return
	}
	defer r.Body.Close()

	results, err := h.Service.SearchItineraries(r.Context(), owner, criteria)
	if err != nil {
		logrus.WithError(err).Error("Search failed")
		writeError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{"itineraries": results})
}
