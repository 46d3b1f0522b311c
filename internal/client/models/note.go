package models

import (
	"encoding/json"
	"time"
)

// Note is a locally owned memo. Notes never reach the backend.
type Note struct {
	ID        string
	Title     string
	Text      string
	CreatedAt time.Time
	UpdatedAt time.Time
	Pinned    bool
}

// noteJSON keeps timestamps as epoch milliseconds in storage.
type noteJSON struct {
	ID        string `json:"id"`
	Title     string `json:"title"`
	Text      string `json:"text"`
	CreatedAt int64  `json:"createdAt"`
	UpdatedAt int64  `json:"updatedAt"`
	Pinned    bool   `json:"pinned,omitempty"`
}

func (n Note) MarshalJSON() ([]byte, error) {
	return json.Marshal(noteJSON{
		ID:        n.ID,
		Title:     n.Title,
		Text:      n.Text,
		CreatedAt: millis(n.CreatedAt),
		UpdatedAt: millis(n.UpdatedAt),
		Pinned:    n.Pinned,
	})
}

func (n *Note) UnmarshalJSON(b []byte) error {
	var v noteJSON
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}
	*n = Note{
		ID:        v.ID,
		Title:     v.Title,
		Text:      v.Text,
		CreatedAt: fromMillis(v.CreatedAt),
		UpdatedAt: fromMillis(v.UpdatedAt),
		Pinned:    v.Pinned,
	}
	return nil
}

func millis(t time.Time) int64 {
	if t.IsZero() {
		return 0
	}
	return t.UnixMilli()
}

func fromMillis(ms int64) time.Time {
	if ms == 0 {
		return time.Time{}
	}
	return time.UnixMilli(ms).UTC()
}
