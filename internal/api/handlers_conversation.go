package api

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/pkg/errors"

	"github.com/tripweaver/assistant/internal/api/respond"
	"github.com/tripweaver/assistant/internal/model"
)

// Assistant is the slice of the dialogue service the HTTP layer consumes.
type Assistant interface {
	HandleMessage(ctx context.Context, userID, message, itinerary string) ([]model.Turn, error)
	Transcript(userID string) ([]model.Turn, error)
	RefreshItinerary(userID, doc string) error
}

type ConversationHandler struct {
	svc Assistant
}

func NewConversationHandler(svc Assistant) *ConversationHandler {
	return &ConversationHandler{svc: svc}
}

type postMessageRequest struct {
	Message   string          `json:"message"`
	Itinerary json.RawMessage `json:"itinerary,omitempty"`
}

type transcriptResponse struct {
	Messages []model.Turn `json:"messages"`
	Count    int          `json:"count"`
}

// PostMessage handles POST /api/conversations/{userId}/messages.
func (h *ConversationHandler) PostMessage(w http.ResponseWriter, r *http.Request) {
	userID := mux.Vars(r)["userId"]

	var in postMessageRequest
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		respond.WriteBadRequest(w, "invalid json")
		return
	}

	turns, err := h.svc.HandleMessage(r.Context(), userID, in.Message, string(in.Itinerary))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	respond.WriteJSON(w, http.StatusOK, transcriptResponse{Messages: turns, Count: len(turns)})
}

// GetTranscript handles GET /api/conversations/{userId}.
func (h *ConversationHandler) GetTranscript(w http.ResponseWriter, r *http.Request) {
	userID := mux.Vars(r)["userId"]
	turns, err := h.svc.Transcript(userID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	respond.WriteJSON(w, http.StatusOK, transcriptResponse{Messages: turns, Count: len(turns)})
}

type refreshRequest struct {
	Itinerary json.RawMessage `json:"itinerary,omitempty"`
}

// RefreshItinerary handles POST /api/conversations/{userId}/itinerary. It
// rewrites the system turn; without it the conversation stays anchored to
// the snapshot taken at its first message.
func (h *ConversationHandler) RefreshItinerary(w http.ResponseWriter, r *http.Request) {
	userID := mux.Vars(r)["userId"]

	var in refreshRequest
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		respond.WriteBadRequest(w, "invalid json")
		return
	}

	if err := h.svc.RefreshItinerary(userID, string(in.Itinerary)); err != nil {
		writeServiceError(w, err)
		return
	}
	respond.WriteJSON(w, http.StatusOK, map[string]string{"status": "refreshed"})
}

// writeServiceError maps service errors onto HTTP statuses. Raw error text
// never reaches the client for external failures.
func writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, model.ErrValidation):
		respond.WriteBadRequest(w, err.Error())
	case errors.Is(err, model.ErrNotFound):
		respond.WriteNotFound(w, err.Error())
	case errors.Is(err, model.ErrAmbiguous):
		respond.WriteConflict(w, err.Error())
	case errors.Is(err, model.ErrExternal):
		respond.WriteBadGateway(w, "an upstream call failed; please retry")
	default:
		respond.WriteInternalError(w, "internal error")
	}
}
