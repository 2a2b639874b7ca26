package model

// Role identifies the author of a conversation turn.
type Role string

const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Turn is one entry in a conversation transcript. Transcripts are ordered
// and append-only; the first turn for a user is always the system turn.
type Turn struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

// Destination is a resolved catalog destination.
type Destination struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Code        string `json:"code"`
	Description string `json:"description,omitempty"`
	Region      string `json:"region,omitempty"`
}

// Activity is a catalog activity row. Embedding is populated by the offline
// backfill job and is immutable afterwards.
type Activity struct {
	ID            int64     `json:"id"`
	Name          string    `json:"name"`
	Code          string    `json:"code"`
	Description   string    `json:"description,omitempty"`
	DestinationID int64     `json:"destinationId"`
	Embedding     []float32 `json:"-"`
}

// ActivityMatch is an activity scored against a query embedding.
type ActivityMatch struct {
	ID          int64   `json:"id"`
	Name        string  `json:"name"`
	Description string  `json:"description,omitempty"`
	Similarity  float64 `json:"similarity"`
}

// Hotel is a catalog hotel row.
type Hotel struct {
	ID            int64   `json:"id"`
	Name          string  `json:"name"`
	Location      string  `json:"location"`
	Star          int     `json:"star"`
	Rating        float64 `json:"rating"`
	DestinationID int64   `json:"destinationId"`
}
