package assistant

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/pkg/errors"

	"github.com/tripweaver/assistant/internal/conversation"
	"github.com/tripweaver/assistant/internal/llm"
	"github.com/tripweaver/assistant/internal/model"
	"github.com/tripweaver/assistant/internal/mutator"
)

// Args holds parsed tool-call arguments, all string-valued.
type Args map[string]string

// HandlerFunc executes one tool call and returns a human-readable summary.
// The conversation lock is held by the caller for the whole turn.
type HandlerFunc func(ctx context.Context, args Args, conv *conversation.Conversation) (string, error)

// Param describes one tool argument for the model-facing JSON schema.
type Param struct {
	Name        string
	Description string
}

// Tool is one entry of the fixed intent catalog. Catalog growth is data:
// adding an intent means adding a Tool value, not a new code path.
type Tool struct {
	Name        string
	Description string
	Example     string
	Params      []Param
	Required    []string
	Handle      HandlerFunc
}

// ActivitySearcher is the slice of the lookup service the catalog needs.
type ActivitySearcher interface {
	SearchNames(ctx context.Context, activity, destination string) ([]string, error)
}

// buildCatalog wires the nine supported intents. update_itinerary and
// add_activity have real handlers; the rest acknowledge the request without
// mutating anything, which is the default behavior.
func buildCatalog(mut *mutator.Mutator, search ActivitySearcher) []Tool {
	return []Tool{
		{
			Name:        "update_itinerary",
			Description: "Update the existing itinerary based on user changes",
			Example:     "shorten the trip to 5 days",
			Params: []Param{
				{Name: "itinerary", Description: "The complete itinerary as a JSON string"},
				{Name: "updated_changes", Description: "The changes requested by the user"},
			},
			Required: []string{"itinerary", "updated_changes"},
			Handle: func(ctx context.Context, args Args, conv *conversation.Conversation) (string, error) {
				doc := args["itinerary"]
				if strings.TrimSpace(doc) == "" {
					doc = conv.Itinerary()
				}
				updated, err := mut.Apply(ctx, doc, args["updated_changes"])
				if err != nil {
					return "", err
				}
				conv.SetItinerary(updated)
				return "Here is your updated itinerary:\n\n" + updated, nil
			},
		},
		{
			Name:        "add_free_day",
			Description: "Adds a free day to the itinerary for personal leisure or exploration",
			Example:     "add a free day for self-exploration in Seminyak",
			Handle: acknowledge("add a free day to your itinerary"),
		},
		{
			Name:        "remove_free_day",
			Description: "Removes a free day from the itinerary",
			Example:     "remove the free day from the itinerary",
			Handle:      acknowledge("remove the free day from your itinerary"),
		},
		{
			Name:        "add_activity",
			Description: "Adds a new activity to the itinerary",
			Example:     "add a new activity: Snorkeling at Nusa Dua",
			Params: []Param{
				{Name: "activity", Description: "Free-text description of the activity"},
				{Name: "destination", Description: "Destination the activity belongs to"},
			},
			Required: []string{"activity", "destination"},
			Handle: func(ctx context.Context, args Args, conv *conversation.Conversation) (string, error) {
				names, err := search.SearchNames(ctx, args["activity"], args["destination"])
				if err != nil {
					return "", err
				}
				if len(names) == 0 {
					return fmt.Sprintf("I couldn't find any matching activities for %q in %s. Would you like me to add it as a custom activity instead?",
						args["activity"], args["destination"]), nil
				}
				return fmt.Sprintf("I found these matching activities in %s: %s. Which one should I add, and on which day?",
					args["destination"], strings.Join(names, ", ")), nil
			},
		},
		{
			Name:        "remove_activity",
			Description: "Removes an activity from the itinerary",
			Example:     "remove activity: Ubud Monkey Forest",
			Params: []Param{
				{Name: "activity", Description: "The activity to remove"},
			},
			Required: []string{"activity"},
			Handle: acknowledgeWithArg("remove %q from your itinerary", "activity"),
		},
		{
			Name:        "reorder_activities",
			Description: "Changes the order of activities on a specific day or across days",
			Example:     "move snorkeling to the first day",
			Params: []Param{
				{Name: "activity", Description: "The activity to move"},
				{Name: "day", Description: "The day to move the activity to"},
			},
			Required: []string{"activity", "day"},
			Handle: func(ctx context.Context, args Args, conv *conversation.Conversation) (string, error) {
				return fmt.Sprintf("Noted. I've registered your request to move %q to day %s. A travel specialist will confirm the new order shortly.",
					args["activity"], args["day"]), nil
			},
		},
		{
			Name:        "change_accommodation",
			Description: "Updates the accommodation to a different location or hotel",
			Example:     "change accommodation to Villa Seminyak Estate & Spa",
			Params: []Param{
				{Name: "accommodation", Description: "The hotel or accommodation to switch to"},
			},
			Required: []string{"accommodation"},
			Handle: acknowledgeWithArg("change your accommodation to %q", "accommodation"),
		},
		{
			Name:        "upgrade_accommodation",
			Description: "Upgrades the accommodation to a higher category or luxury hotel",
			Example:     "upgrade hotel to Four Seasons Resort Bali at Sayan",
			Params: []Param{
				{Name: "category", Description: "The hotel category to upgrade to"},
			},
			Required: []string{"category"},
			Handle: acknowledgeWithArg("upgrade your accommodation to the %s category", "category"),
		},
		{
			Name:        "downgrade_accommodation",
			Description: "Downgrades the accommodation to a more budget-friendly option",
			Example:     "downgrade hotel to The Kayon Resort by Pramana",
			Params: []Param{
				{Name: "category", Description: "The hotel category to downgrade to"},
			},
			Required: []string{"category"},
			Handle: acknowledgeWithArg("downgrade your accommodation to the %s category", "category"),
		},
	}
}

func acknowledge(what string) HandlerFunc {
	return func(ctx context.Context, args Args, conv *conversation.Conversation) (string, error) {
		return fmt.Sprintf("Noted. I've registered your request to %s. A travel specialist will confirm the change shortly.", what), nil
	}
}

func acknowledgeWithArg(format, key string) HandlerFunc {
	return func(ctx context.Context, args Args, conv *conversation.Conversation) (string, error) {
		return fmt.Sprintf("Noted. I've registered your request to "+format+". A travel specialist will confirm the change shortly.", args[key]), nil
	}
}

// parseArgs decodes tool-call arguments and enforces the catalog's required
// fields. Failures are model.ErrMalformedToolCall.
func parseArgs(t *Tool, raw json.RawMessage) (Args, error) {
	var decoded map[string]interface{}
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &decoded); err != nil {
			return nil, errors.Wrapf(model.ErrMalformedToolCall, "%s arguments: %v", t.Name, err)
		}
	}
	args := make(Args, len(decoded))
	for k, v := range decoded {
		s, ok := v.(string)
		if !ok {
			return nil, errors.Wrapf(model.ErrMalformedToolCall, "%s argument %q is not a string", t.Name, k)
		}
		args[k] = s
	}
	for _, req := range t.Required {
		if strings.TrimSpace(args[req]) == "" {
			return nil, errors.Wrapf(model.ErrMalformedToolCall, "%s missing required argument %q", t.Name, req)
		}
	}
	return args, nil
}

// llmTools renders the catalog into the wire shape advertised to the model.
func llmTools(catalog []Tool) []llm.Tool {
	out := make([]llm.Tool, 0, len(catalog))
	for _, t := range catalog {
		props := map[string]interface{}{}
		for _, p := range t.Params {
			props[p.Name] = map[string]interface{}{
				"type":        "string",
				"description": p.Description,
			}
		}
		schema := map[string]interface{}{
			"type":       "object",
			"properties": props,
		}
		if len(t.Required) > 0 {
			schema["required"] = t.Required
		}
		out = append(out, llm.Tool{
			Name:        t.Name,
			Description: t.Description,
			Parameters:  schema,
		})
	}
	return out
}
