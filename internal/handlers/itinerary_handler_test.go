package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/mohitjoer/travel-planner/internal/handlers"
	"github.com/mohitjoer/travel-planner/internal/models"
	"github.com/mohitjoer/travel-planner/internal/services"
	jwtutil "github.com/mohitjoer/travel-planner/pkg/jwt"
	"github.com/mohitjoer/travel-planner/pkg/middleware"
)

// memoryStore is an in-memory ItineraryStore good enough for handler tests.
type memoryStore struct {
	records []models.Itinerary
}

func (m *memoryStore) CreateItinerary(_ context.Context, it *models.Itinerary) (*models.Itinerary, error) {
	it.ID = primitive.NewObjectID()
	m.records = append(m.records, *it)
	return it, nil
}

func (m *memoryStore) GetItineraryByID(_ context.Context, id primitive.ObjectID) (*models.Itinerary, error) {
	for _, rec := range m.records {
		if rec.ID == id {
			found := rec
			return &found, nil
		}
	}
	return nil, models.ErrNotFound
}

func (m *memoryStore) GetItinerariesByUser(_ context.Context, userID primitive.ObjectID) ([]models.Itinerary, error) {
	var out []models.Itinerary
	for _, rec := range m.records {
		if rec.UserID == userID {
			out = append(out, rec)
		}
	}
	return out, nil
}

func (m *memoryStore) ReplaceItinerary(_ context.Context, id primitive.ObjectID, it *models.Itinerary) (*models.Itinerary, error) {
	for i, rec := range m.records {
		if rec.ID == id {
			rec.Title = it.Title
			rec.Destination = it.Destination
			rec.TripType = it.TripType
			rec.Activities = it.Activities
			rec.Photos = it.Photos
			m.records[i] = rec
			updated := rec
			return &updated, nil
		}
	}
	return nil, models.ErrNotFound
}

func (m *memoryStore) SetFavorite(_ context.Context, id primitive.ObjectID, favorite bool) error {
	for i, rec := range m.records {
		if rec.ID == id {
			m.records[i].Favorite = favorite
			return nil
		}
	}
	return models.ErrNotFound
}

func (m *memoryStore) DeleteItinerary(_ context.Context, id primitive.ObjectID) error {
	for i, rec := range m.records {
		if rec.ID == id {
			m.records = append(m.records[:i], m.records[i+1:]...)
			return nil
		}
	}
	return models.ErrNotFound
}

var _ services.ItineraryStore = (*memoryStore)(nil)

type uploaderFunc func(ctx context.Context, r io.Reader, filename, folder string) (string, error)

func (f uploaderFunc) Upload(ctx context.Context, r io.Reader, filename, folder string) (string, error) {
	return f(ctx, r, filename, folder)
}

func okUploader() uploaderFunc {
	return func(_ context.Context, _ io.Reader, filename, folder string) (string, error) {
		return "/uploads/" + folder + "/" + filename, nil
	}
}

func newRouter(store services.ItineraryStore, up uploaderFunc) *mux.Router {
	h := handlers.NewItineraryHandler(services.NewItineraryService(store), up)

	router := mux.NewRouter()
	router.HandleFunc("/itineraries", h.CreateItineraryHandler).Methods("POST")
	router.HandleFunc("/itineraries", h.GetItinerariesHandler).Methods("GET")
	router.HandleFunc("/itineraries/search", h.SearchItinerariesHandler).Methods("POST")
	router.HandleFunc("/itineraries/{id}", h.GetItineraryHandler).Methods("GET")
	router.HandleFunc("/itineraries/{id}", h.UpdateItineraryHandler).Methods("PUT")
	router.HandleFunc("/itineraries/{id}", h.DeleteItineraryHandler).Methods("DELETE")
	router.HandleFunc("/itineraries/{id}/favorite", h.ToggleFavoriteHandler).Methods("POST")
	router.HandleFunc("/itineraries/{id}/photos", h.UploadPhotosHandler).Methods("POST")
	return router
}

func authed(req *http.Request, owner primitive.ObjectID) *http.Request {
	claims := &jwtutil.Claims{UserID: owner.Hex()}
	return req.WithContext(middleware.WithUser(req.Context(), claims))
}

func seed(store *memoryStore, owner primitive.ObjectID, it models.Itinerary) primitive.ObjectID {
	it.ID = primitive.NewObjectID()
	it.UserID = owner
	store.records = append(store.records, it)
	return it.ID
}

func multipartBody(t *testing.T, fields map[string]string, photoNames ...string) (*bytes.Buffer, string) {
	t.Helper()

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	for key, value := range fields {
		require.NoError(t, writer.WriteField(key, value))
	}
	for _, name := range photoNames {
		part, err := writer.CreateFormFile("photos", name)
		require.NoError(t, err)
		_, err = part.Write([]byte("image " + name))
		require.NoError(t, err)
	}
	require.NoError(t, writer.Close())
	return &body, writer.FormDataContentType()
}

func TestCreateItinerary_MultipartRoundTrip(t *testing.T) {
	store := &memoryStore{}
	router := newRouter(store, okUploader())
	owner := primitive.NewObjectID()

	body, contentType := multipartBody(t, map[string]string{
		"title":       "Hiking week",
		"destination": "Chamonix",
		"tripType":    "Adventure",
		"activities":  `[{"name":"Hike","description":"","date":"2024-05-01"}]`,
	}, "summit.jpg")

	req := authed(httptest.NewRequest("POST", "/itineraries", body), owner)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var envelope struct {
		Message string `json:"message"`
		ID      string `json:"id"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	assert.NotEmpty(t, envelope.ID)

	// Fetch it back; activities must deep-equal the submitted payload.
	req = authed(httptest.NewRequest("GET", "/itineraries/"+envelope.ID, nil), owner)
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	var fetched models.Itinerary
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &fetched))
	assert.Equal(t, []models.Activity{{Name: "Hike", Description: "", Date: "2024-05-01"}}, fetched.Activities)
	assert.Equal(t, []string{"/uploads/" + owner.Hex() + "/summit.jpg"}, fetched.Photos)
}

func TestCreateItinerary_MissingRequiredFields(t *testing.T) {
	store := &memoryStore{}
	router := newRouter(store, okUploader())

	body, contentType := multipartBody(t, map[string]string{"title": "No destination"})
	req := authed(httptest.NewRequest("POST", "/itineraries", body), primitive.NewObjectID())
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Empty(t, store.records, "nothing may be persisted on validation failure")
}

func TestCreateItinerary_FailedPhotoIsOmitted(t *testing.T) {
	store := &memoryStore{}
	flaky := uploaderFunc(func(_ context.Context, _ io.Reader, filename, folder string) (string, error) {
		if filename == "broken.jpg" {
			return "", fmt.Errorf("media host unavailable")
		}
		return "/uploads/" + folder + "/" + filename, nil
	})
	router := newRouter(store, flaky)
	owner := primitive.NewObjectID()

	body, contentType := multipartBody(t, map[string]string{
		"title":       "Beach days",
		"destination": "Lisbon",
	}, "ok.jpg", "broken.jpg")

	req := authed(httptest.NewRequest("POST", "/itineraries", body), owner)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	// The create still succeeds; only the failed file's URL is missing.
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	require.Len(t, store.records, 1)
	assert.Equal(t, []string{"/uploads/" + owner.Hex() + "/ok.jpg"}, store.records[0].Photos)
}

func TestCreateItinerary_InvalidActivitiesJSON(t *testing.T) {
	router := newRouter(&memoryStore{}, okUploader())

	body, contentType := multipartBody(t, map[string]string{
		"title":       "x",
		"destination": "y",
		"activities":  "{not json",
	})
	req := authed(httptest.NewRequest("POST", "/itineraries", body), primitive.NewObjectID())
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCreateItinerary_Unauthorized(t *testing.T) {
	router := newRouter(&memoryStore{}, okUploader())

	body, contentType := multipartBody(t, map[string]string{"title": "x", "destination": "y"})
	req := httptest.NewRequest("POST", "/itineraries", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestGetItineraries_EmptyCollectionIsJSONArray(t *testing.T) {
	router := newRouter(&memoryStore{}, okUploader())

	req := authed(httptest.NewRequest("GET", "/itineraries", nil), primitive.NewObjectID())
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "[]", strings.TrimSpace(rec.Body.String()))
}

func TestGetItinerary_OtherOwnerGets404(t *testing.T) {
	store := &memoryStore{}
	owner := primitive.NewObjectID()
	id := seed(store, owner, models.Itinerary{Title: "t", Destination: "d"})
	router := newRouter(store, okUploader())

	req := authed(httptest.NewRequest("GET", "/itineraries/"+id.Hex(), nil), primitive.NewObjectID())
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestUpdateItinerary_ReplacesArraysWholesale(t *testing.T) {
	store := &memoryStore{}
	owner := primitive.NewObjectID()
	id := seed(store, owner, models.Itinerary{
		Title:       "Old",
		Destination: "Rome",
		Activities:  []models.Activity{{Name: "Colosseum"}, {Name: "Forum"}},
		Photos:      []string{"/uploads/old.jpg"},
	})
	router := newRouter(store, okUploader())

	payload, err := json.Marshal(models.Itinerary{
		Title:       "New",
		Destination: "Rome",
		TripType:    "Leisure",
		Activities:  []models.Activity{{Name: "Vatican", Date: "2024-06-01"}},
		Photos:      []string{"/uploads/new.jpg"},
	})
	require.NoError(t, err)

	req := authed(httptest.NewRequest("PUT", "/itineraries/"+id.Hex(), bytes.NewReader(payload)), owner)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	require.Len(t, store.records, 1)
	assert.Equal(t, "New", store.records[0].Title)
	assert.Equal(t, []models.Activity{{Name: "Vatican", Date: "2024-06-01"}}, store.records[0].Activities)
	assert.Equal(t, []string{"/uploads/new.jpg"}, store.records[0].Photos)
}

func TestToggleFavorite_TwiceRestoresOriginal(t *testing.T) {
	store := &memoryStore{}
	owner := primitive.NewObjectID()
	id := seed(store, owner, models.Itinerary{Title: "t", Destination: "d"})
	router := newRouter(store, okUploader())

	toggle := func() models.Itinerary {
		req := authed(httptest.NewRequest("POST", "/itineraries/"+id.Hex()+"/favorite", nil), owner)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		require.Equal(t, http.StatusOK, rec.Code)
		var it models.Itinerary
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &it))
		return it
	}

	assert.True(t, toggle().Favorite)
	assert.False(t, toggle().Favorite)
}

func TestDeleteItinerary_GoneFromList(t *testing.T) {
	store := &memoryStore{}
	owner := primitive.NewObjectID()
	id := seed(store, owner, models.Itinerary{Title: "t", Destination: "d"})
	seed(store, owner, models.Itinerary{Title: "other", Destination: "d"})
	router := newRouter(store, okUploader())

	req := authed(httptest.NewRequest("DELETE", "/itineraries/"+id.Hex(), nil), owner)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	req = authed(httptest.NewRequest("GET", "/itineraries", nil), owner)
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	var list []models.Itinerary
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &list))
	require.Len(t, list, 1)
	assert.NotEqual(t, id, list[0].ID)
}

func TestUploadPhotos_AppendsToExistingRecord(t *testing.T) {
	store := &memoryStore{}
	owner := primitive.NewObjectID()
	id := seed(store, owner, models.Itinerary{Title: "t", Destination: "d", Photos: []string{"/uploads/a.jpg"}})
	router := newRouter(store, okUploader())

	body, contentType := multipartBody(t, nil, "b.jpg")
	req := authed(httptest.NewRequest("POST", "/itineraries/"+id.Hex()+"/photos", body), owner)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var it models.Itinerary
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &it))
	assert.Equal(t, []string{"/uploads/a.jpg", "/uploads/" + owner.Hex() + "/b.jpg"}, it.Photos)
}

func TestSearchItineraries_FiltersOwnersCollection(t *testing.T) {
	store := &memoryStore{}
	owner := primitive.NewObjectID()
	seed(store, owner, models.Itinerary{
		Title: "Paris trip", Destination: "Paris", TripType: "Leisure", Favorite: true,
		Activities: []models.Activity{{Name: "Louvre Museum"}},
	})
	seed(store, owner, models.Itinerary{Title: "Tokyo trip", Destination: "Tokyo", TripType: "Work"})
	seed(store, primitive.NewObjectID(), models.Itinerary{Title: "Not mine", Destination: "Paris"})
	router := newRouter(store, okUploader())

	body := strings.NewReader(`{"tripType":"Leisure","favoriteOnly":true}`)
	req := authed(httptest.NewRequest("POST", "/itineraries/search", body), owner)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var envelope struct {
		Itineraries []models.Itinerary `json:"itineraries"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	require.Len(t, envelope.Itineraries, 1)
	assert.Equal(t, "Paris", envelope.Itineraries[0].Destination)
}

func TestSearchItineraries_NoCriteriaReturnsEverything(t *testing.T) {
	store := &memoryStore{}
	owner := primitive.NewObjectID()
	seed(store, owner, models.Itinerary{Title: "a", Destination: "x"})
	seed(store, owner, models.Itinerary{Title: "b", Destination: "y"})
	router := newRouter(store, okUploader())

	req := authed(httptest.NewRequest("POST", "/itineraries/search", strings.NewReader(`{}`)), owner)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var envelope struct {
		Itineraries []models.Itinerary `json:"itineraries"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	assert.Len(t, envelope.Itineraries, 2)
}
