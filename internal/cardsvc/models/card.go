package models

import "time"

// Card is one owner's registered card.
type Card struct {
	ID        string    `json:"id"`       // canonical 16-char hex card id
	OwnerID   string    `json:"owner_id"` // unique
	Username  string    `json:"username"` // display name at the last write
	Revision  int64     `json:"revision"` // 1 on insert, bumped on every overwrite
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Created reports whether the write that produced c inserted the row.
func (c Card) Created() bool {
	return c.Revision == 1
}

type CardList struct {
	Pages []Page `json:"pages"`
}

type Page struct {
	Cards []CardEntry `json:"cards"`
}

type CardEntry struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// NewCardList puts every card on a single page.
func NewCardList(cards []Card) CardList {
	entries := make([]CardEntry, 0, len(cards))
	for _, c := range cards {
		entries = append(entries, CardEntry{ID: c.ID, Name: c.Username})
	}
	return CardList{Pages: []Page{{Cards: entries}}}
}
