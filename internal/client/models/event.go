package models

import (
	"encoding/json"
	"time"
)

type EventRepo struct {
	ID        int64      `json:"id"`
	FullName  string     `json:"full_name,omitempty"`
	HumanName string     `json:"human_name,omitempty"`
	URL       string     `json:"url,omitempty"`
	Namespace *Namespace `json:"namespace,omitempty"`
}

// Event is an activity record from /users/{login}/events. Payload shape
// depends on Type and is left undecoded.
type Event struct {
	ID        ID              `json:"id"`
	Type      string          `json:"type"`
	Actor     *User           `json:"actor,omitempty"`
	Repo      *EventRepo      `json:"repo,omitempty"`
	Public    bool            `json:"public"`
	CreatedAt *time.Time      `json:"created_at,omitempty"`
	Payload   json.RawMessage `json:"payload,omitempty"`
}

// PushPayload is the payload of a PushEvent.
type PushPayload struct {
	Ref     string `json:"ref"`
	Before  string `json:"before"`
	After   string `json:"after"`
	Size    int    `json:"size"`
	Created bool   `json:"created"`
	Deleted bool   `json:"deleted"`
	Commits []struct {
		SHA     string `json:"sha"`
		Message string `json:"message"`
		Author  struct {
			Name  string `json:"name"`
			Email string `json:"email"`
		} `json:"author"`
	} `json:"commits"`
}

// Push decodes Payload as a PushPayload. ok is false for other event types.
func (e Event) Push() (p PushPayload, ok bool) {
	if e.Type != "PushEvent" || len(e.Payload) == 0 {
		return p, false
	}
	if err := json.Unmarshal(e.Payload, &p); err != nil {
		return p, false
	}
	return p, true
}
