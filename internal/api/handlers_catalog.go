package api

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/tripweaver/assistant/internal/api/respond"
	"github.com/tripweaver/assistant/internal/catalog"
	"github.com/tripweaver/assistant/internal/model"
)

// ActivityLookup is the slice of the lookup service exposed over HTTP.
type ActivityLookup interface {
	Search(ctx context.Context, activity, destination string) ([]model.ActivityMatch, error)
}

type CatalogHandler struct {
	lookup ActivityLookup
	store  catalog.Store
}

func NewCatalogHandler(lookup ActivityLookup, store catalog.Store) *CatalogHandler {
	return &CatalogHandler{lookup: lookup, store: store}
}

type searchActivitiesRequest struct {
	Activity    string `json:"activity"`
	Destination string `json:"destination"`
}

// SearchActivities handles POST /api/activities/search.
func (h *CatalogHandler) SearchActivities(w http.ResponseWriter, r *http.Request) {
	var in searchActivitiesRequest
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		respond.WriteBadRequest(w, "invalid json")
		return
	}

	matches, err := h.lookup.Search(r.Context(), in.Activity, in.Destination)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	if matches == nil {
		matches = []model.ActivityMatch{}
	}
	respond.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"activities": matches,
		"count":      len(matches),
	})
}

// HotelsForDestination handles GET /api/destinations/{name}/hotels.
func (h *CatalogHandler) HotelsForDestination(w http.ResponseWriter, r *http.Request) {
	name := mux.Vars(r)["name"]

	dest, err := h.store.ResolveDestination(r.Context(), name)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	hotels, err := h.store.HotelsForDestination(r.Context(), dest.ID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	if hotels == nil {
		hotels = []model.Hotel{}
	}
	respond.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"destination": dest,
		"hotels":      hotels,
	})
}
