// Package filter narrows an in-memory list of itineraries by a conjunction
// of optional predicates. The document store cannot query nested activity
// fields server-side, so every caller fetches the owner's full list first
// and filters here. The search endpoint and any in-process consumer share
// this one implementation.
package filter

import (
	"strings"

	"github.com/mohitjoer/travel-planner/internal/models"
)

// Criteria holds the optional predicates. Empty strings and a false
// FavoriteOnly are skipped, not matched against.
type Criteria struct {
	Destination  string `json:"destination"`
	ActivityName string `json:"activityName"`
	TripType     string `json:"tripType"`
	FavoriteOnly bool   `json:"favoriteOnly"`
}

// IsZero reports whether no predicate is set.
func (c Criteria) IsZero() bool {
	return c.Destination == "" && c.ActivityName == "" && c.TripType == "" && !c.FavoriteOnly
}

// Apply returns the itineraries satisfying every set predicate, in the same
// relative order as the input. The input slice is never mutated.
func Apply(itineraries []models.Itinerary, c Criteria) []models.Itinerary {
	results := make([]models.Itinerary, 0, len(itineraries))
	for _, it := range itineraries {
		if Matches(it, c) {
			results = append(results, it)
		}
	}
	return results
}

// Matches reports whether a single itinerary satisfies every set predicate.
func Matches(it models.Itinerary, c Criteria) bool {
	if c.Destination != "" && !containsFold(it.Destination, c.Destination) {
		return false
	}
	if c.TripType != "" && it.TripType != c.TripType {
		return false
	}
	if c.FavoriteOnly && !it.Favorite {
		return false
	}
	if c.ActivityName != "" && !anyActivityNamed(it.Activities, c.ActivityName) {
		return false
	}
	return true
}

func anyActivityNamed(activities []models.Activity, name string) bool {
	for _, act := range activities {
		if containsFold(act.Name, name) {
			return true
		}
	}
	return false
}

// containsFold is a case-insensitive strings.Contains.
func containsFold(s, substr string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(substr))
}
