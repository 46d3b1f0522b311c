package overlay

import (
	"context"
	"errors"
	"strings"

	"github.com/dmitrijs2005/fridgekeeper/internal/client/models"
)

// ErrNoIdentity is returned when notes are accessed without a known email.
var ErrNoIdentity = errors.New("no identity for local notes")

// NoteBook stores one notes array per identity.
type NoteBook struct {
	s *Store
}

func NewNoteBook(s *Store) *NoteBook { return &NoteBook{s: s} }

// Load returns the notes saved for email, in saved order.
func (n *NoteBook) Load(ctx context.Context, email string) ([]models.Note, error) {
	if strings.TrimSpace(email) == "" {
		return nil, ErrNoIdentity
	}
	notes, _ := GetDocument[[]models.Note](ctx, n.s, NotesKey(email))
	if notes == nil {
		notes = []models.Note{}
	}
	return notes, nil
}

// Save replaces the notes of email.
func (n *NoteBook) Save(ctx context.Context, email string, notes []models.Note) error {
	if strings.TrimSpace(email) == "" {
		return ErrNoIdentity
	}
	if notes == nil {
		notes = []models.Note{}
	}
	return PutDocument(ctx, n.s, NotesKey(email), notes)
}

// Update edits the notes of email under the document lock.
func (n *NoteBook) Update(ctx context.Context, email string, fn func([]models.Note) ([]models.Note, error)) error {
	if strings.TrimSpace(email) == "" {
		return ErrNoIdentity
	}
	return Update(ctx, n.s, NotesKey(email), func(cur []models.Note, _ bool) ([]models.Note, error) {
		next, err := fn(cur)
		if next == nil {
			next = []models.Note{}
		}
		return next, err
	})
}

// Remove deletes the notes of email.
func (n *NoteBook) Remove(ctx context.Context, email string) error {
	if strings.TrimSpace(email) == "" {
		return ErrNoIdentity
	}
	return n.s.RemoveDocument(ctx, NotesKey(email))
}

// RemoveAll deletes every identity's notes.
func (n *NoteBook) RemoveAll(ctx context.Context) error {
	return n.s.RemoveNamespace(ctx, NotesNamespace())
}
