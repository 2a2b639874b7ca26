package api

import (
	"github.com/gorilla/mux"

	"github.com/tripweaver/assistant/internal/api/recovery"
	"github.com/tripweaver/assistant/internal/catalog"
	"github.com/tripweaver/assistant/internal/health"
)

// NewRouter wires all API routes.
func NewRouter(assistant Assistant, lookup ActivityLookup, store catalog.Store, healthSvc *health.Service) *mux.Router {
	router := mux.NewRouter()

	router.Use(recovery.Middleware)

	conversationHandler := NewConversationHandler(assistant)
	catalogHandler := NewCatalogHandler(lookup, store)
	healthHandler := NewHealthHandler(healthSvc, store)

	// Health endpoints
	router.HandleFunc("/api/health", healthHandler.CheckHealth).Methods("GET")
	router.HandleFunc("/api/health/db", healthHandler.CheckStorageHealth).Methods("GET")

	// Conversation endpoints
	router.HandleFunc("/api/conversations/{userId}/messages", conversationHandler.PostMessage).Methods("POST")
	router.HandleFunc("/api/conversations/{userId}", conversationHandler.GetTranscript).Methods("GET")
	router.HandleFunc("/api/conversations/{userId}/itinerary", conversationHandler.RefreshItinerary).Methods("POST")

	// Catalog endpoints
	router.HandleFunc("/api/activities/search", catalogHandler.SearchActivities).Methods("POST")
	router.HandleFunc("/api/destinations/{name}/hotels", catalogHandler.HotelsForDestination).Methods("GET")

	return router
}
