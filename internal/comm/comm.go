package comm

import (
	"encoding/json"
)

// Message is the envelope published on the NATS subjects.
type Message struct {
	Type string          `json:"type"` // e.g. "card-registered"
	Data json.RawMessage `json:"data"`
}

type CardRegistered struct {
	ID       string `json:"id"`
	OwnerID  string `json:"owner_id"`
	Name     string `json:"name"`
	Created  bool   `json:"created"`
	Revision int64  `json:"revision"`
}
