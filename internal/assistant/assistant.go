// Package assistant owns the per-user dialogue loop: it classifies each
// message against the intent catalog, dispatches tool calls, and maintains
// the transcript.
package assistant

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"

	"github.com/tripweaver/assistant/internal/conversation"
	"github.com/tripweaver/assistant/internal/llm"
	"github.com/tripweaver/assistant/internal/model"
	"github.com/tripweaver/assistant/internal/mutator"
)

const fallbackReply = "Sorry, I couldn't make sense of that request. Could you rephrase it?"

// Options tune the dialogue loop.
type Options struct {
	ChatModel          string
	ContextWindowTurns int
	CallTimeout        time.Duration
}

// Service is the intent router.
type Service struct {
	store   *conversation.Store
	client  llm.ChatClient
	catalog []Tool
	byName  map[string]*Tool
	wire    []llm.Tool
	opts    Options
	log     zerolog.Logger
}

func New(store *conversation.Store, client llm.ChatClient, mut *mutator.Mutator, search ActivitySearcher, opts Options, log zerolog.Logger) *Service {
	catalog := buildCatalog(mut, search)
	byName := make(map[string]*Tool, len(catalog))
	for i := range catalog {
		byName[catalog[i].Name] = &catalog[i]
	}
	return &Service{
		store:   store,
		client:  client,
		catalog: catalog,
		byName:  byName,
		wire:    llmTools(catalog),
		opts:    opts,
		log:     log,
	}
}

// HandleMessage runs one full turn for userID and returns the visible
// transcript. On the first turn the conversation is seeded with a system
// prompt embedding the itinerary snapshot verbatim; later calls reuse the
// stored system turn unchanged. If the classification call fails the
// transcript is left exactly as it was.
func (s *Service) HandleMessage(ctx context.Context, userID, message, itinerary string) ([]model.Turn, error) {
	if strings.TrimSpace(userID) == "" {
		return nil, errors.Wrap(model.ErrValidation, "userId is required")
	}
	if strings.TrimSpace(message) == "" {
		return nil, errors.Wrap(model.ErrValidation, "message is required")
	}

	turnID := uuid.NewString()
	conv := s.store.GetOrCreate(userID)
	conv.Lock()
	defer conv.Unlock()

	if !conv.Seeded() {
		conv.Seed(s.systemPrompt(itinerary), itinerary)
	}

	mark := conv.Len()
	conv.Append(model.Turn{Role: model.RoleUser, Content: message})

	completion, err := s.classify(ctx, conv)
	if err != nil {
		conv.Truncate(mark)
		s.log.Error().Err(err).Str("user_id", userID).Str("turn_id", turnID).Msg("classification call failed")
		return nil, err
	}

	if len(completion.ToolCalls) == 0 {
		reply := completion.Content
		if strings.TrimSpace(reply) == "" {
			reply = fallbackReply
		}
		conv.Append(model.Turn{Role: model.RoleAssistant, Content: reply})
		return conv.Visible(), nil
	}

	// Tool calls are processed strictly in the order the model returned
	// them; each appends exactly one assistant turn.
	for _, call := range completion.ToolCalls {
		summary := s.dispatch(ctx, call, conv, completion.Content, userID, turnID)
		conv.Append(model.Turn{Role: model.RoleAssistant, Content: summary})
	}
	return conv.Visible(), nil
}

// Transcript returns the visible transcript for userID.
func (s *Service) Transcript(userID string) ([]model.Turn, error) {
	conv, ok := s.store.Get(userID)
	if !ok {
		return nil, errors.Wrapf(model.ErrNotFound, "conversation for user %q", userID)
	}
	conv.Lock()
	defer conv.Unlock()
	return conv.Visible(), nil
}

// RefreshItinerary rewrites the system turn from the given document, or from
// the conversation's current snapshot when doc is empty. The system turn is
// stale by default; this is the explicit opt-in to update it.
func (s *Service) RefreshItinerary(userID, doc string) error {
	conv, ok := s.store.Get(userID)
	if !ok {
		return errors.Wrapf(model.ErrNotFound, "conversation for user %q", userID)
	}
	conv.Lock()
	defer conv.Unlock()
	if !conv.Seeded() {
		return errors.Wrapf(model.ErrNotFound, "conversation for user %q is empty", userID)
	}
	if strings.TrimSpace(doc) == "" {
		doc = conv.Itinerary()
	}
	conv.SetItinerary(doc)
	conv.RefreshSystem(s.systemPrompt(doc))
	return nil
}

func (s *Service) classify(ctx context.Context, conv *conversation.Conversation) (*llm.Completion, error) {
	cctx, cancel := s.callContext(ctx)
	defer cancel()

	turns := conv.Context(s.opts.ContextWindowTurns)
	messages := make([]llm.Message, len(turns))
	for i, t := range turns {
		messages[i] = llm.Message{Role: string(t.Role), Content: t.Content}
	}
	return s.client.Complete(cctx, s.opts.ChatModel, messages, s.wire)
}

// dispatch runs one tool call and always returns a non-empty human-readable
// summary. Recoverable failures become plain-language replies, never raw
// errors in the transcript.
func (s *Service) dispatch(ctx context.Context, call llm.ToolCall, conv *conversation.Conversation, freeText, userID, turnID string) string {
	tool, ok := s.byName[call.Name]
	if !ok {
		s.log.Warn().Str("user_id", userID).Str("turn_id", turnID).Str("tool", call.Name).Msg("model requested unknown tool")
		return s.fallback(freeText)
	}

	args, err := parseArgs(tool, call.Arguments)
	if err != nil {
		s.log.Warn().Err(err).Str("user_id", userID).Str("turn_id", turnID).Str("tool", call.Name).Msg("malformed tool arguments")
		return s.fallback(freeText)
	}

	cctx, cancel := s.callContext(ctx)
	defer cancel()

	summary, err := tool.Handle(cctx, args, conv)
	if err != nil {
		s.log.Warn().Err(err).Str("user_id", userID).Str("turn_id", turnID).Str("tool", call.Name).Msg("tool call failed")
		switch {
		case errors.Is(err, model.ErrAmbiguous):
			return "That destination name matches more than one place we know. Could you be more specific about where you mean?"
		case errors.Is(err, model.ErrNotFound):
			return "I couldn't find that destination in our catalog. Could you double-check the name?"
		default:
			return "Sorry, I ran into a problem handling that request. Please try again in a moment."
		}
	}
	if strings.TrimSpace(summary) == "" {
		return s.fallback(freeText)
	}
	return summary
}

func (s *Service) fallback(freeText string) string {
	if strings.TrimSpace(freeText) != "" {
		return freeText
	}
	return fallbackReply
}

func (s *Service) callContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.opts.CallTimeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, s.opts.CallTimeout)
}

// systemPrompt embeds the itinerary snapshot verbatim together with the
// catalog description of every supported intent.
func (s *Service) systemPrompt(itinerary string) string {
	var b strings.Builder
	b.WriteString(`You are the manager agent of a travel company. Your main task is to understand the customer's message and reply on behalf of the company. The customer's complete itinerary is provided below so you can ground your answers in it.

For example, if the customer asks to reduce the number of days in the trip, understand that they want to shorten the trip, then gather how many days they want, and so on.

The customer may ask for the following kinds of changes:
`)
	for i, t := range s.catalog {
		fmt.Fprintf(&b, "    %d. %s\n        - %s.\n", i+1, t.Name, t.Description)
		if t.Example != "" {
			fmt.Fprintf(&b, "        - example: %s\n", t.Example)
		}
	}
	b.WriteString(`
Important:
    - You can give the customer a brief summary of the itinerary and ask what changes they need.
    - If the customer asks to add an activity, ask which day they want it on, or whether to extend the trip.
    - Use update_itinerary only after the customer has confirmed the changes.

complete_itinerary: `)
	b.WriteString(itinerary)
	return b.String()
}
