package services

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/dmitrijs2005/fridgekeeper/internal/client/models"
	"github.com/google/uuid"
)

// DefaultNoteTitle is used when a note is saved with text only.
const DefaultNoteTitle = "Untitled"

var (
	ErrEmptyNote    = errors.New("note needs a title or text")
	ErrNoteNotFound = errors.New("note not found")
)

// NoteService manages notes stored on this device for the signed-in
// identity. Notes never reach the backend.
type NoteService interface {
	// List returns notes pinned first, then most recently updated first,
	// keeping those whose title or text contains search.
	List(ctx context.Context, search string) ([]models.Note, error)
	Create(ctx context.Context, title, text string) (models.Note, error)
	Edit(ctx context.Context, id, title, text string) (models.Note, error)
	Delete(ctx context.Context, id string) error
	TogglePin(ctx context.Context, id string) (models.Note, error)
}

type noteService struct {
	d   *Deps
	now func() time.Time
}

func NewNoteService(d *Deps) NoteService {
	return &noteService{d: d, now: time.Now}
}

// stamp matches the millisecond precision notes are stored with.
func (s *noteService) stamp() time.Time {
	return s.now().UTC().Truncate(time.Millisecond)
}

func (s *noteService) List(ctx context.Context, search string) ([]models.Note, error) {
	notes, err := s.d.notes.Load(ctx, s.d.profile.Email(ctx))
	if err != nil {
		return nil, err
	}

	q := strings.ToLower(strings.TrimSpace(search))
	out := make([]models.Note, 0, len(notes))
	for _, n := range notes {
		if q == "" || strings.Contains(strings.ToLower(n.Title+"\n"+n.Text), q) {
			out = append(out, n)
		}
	}
	slices.SortStableFunc(out, func(a, b models.Note) int {
		if a.Pinned != b.Pinned {
			if a.Pinned {
				return -1
			}
			return 1
		}
		return cmp.Compare(b.UpdatedAt.UnixMilli(), a.UpdatedAt.UnixMilli())
	})
	return out, nil
}

func (s *noteService) Create(ctx context.Context, title, text string) (models.Note, error) {
	title, text = strings.TrimSpace(title), strings.TrimSpace(text)
	if title == "" && text == "" {
		return models.Note{}, ErrEmptyNote
	}
	if title == "" {
		title = DefaultNoteTitle
	}

	now := s.stamp()
	n := models.Note{
		ID:        uuid.NewString(),
		Title:     title,
		Text:      text,
		CreatedAt: now,
		UpdatedAt: now,
	}
	err := s.d.notes.Update(ctx, s.d.profile.Email(ctx), func(cur []models.Note) ([]models.Note, error) {
		return append([]models.Note{n}, cur...), nil
	})
	if err != nil {
		return models.Note{}, fmt.Errorf("note saving error: %w", err)
	}
	return n, nil
}

func (s *noteService) Edit(ctx context.Context, id, title, text string) (models.Note, error) {
	title, text = strings.TrimSpace(title), strings.TrimSpace(text)
	if title == "" && text == "" {
		return models.Note{}, ErrEmptyNote
	}
	if title == "" {
		title = DefaultNoteTitle
	}
	return s.modify(ctx, id, func(n *models.Note) {
		n.Title, n.Text = title, text
	})
}

func (s *noteService) TogglePin(ctx context.Context, id string) (models.Note, error) {
	return s.modify(ctx, id, func(n *models.Note) {
		n.Pinned = !n.Pinned
	})
}

func (s *noteService) modify(ctx context.Context, id string, fn func(*models.Note)) (models.Note, error) {
	var out models.Note
	err := s.d.notes.Update(ctx, s.d.profile.Email(ctx), func(cur []models.Note) ([]models.Note, error) {
		i := slices.IndexFunc(cur, func(n models.Note) bool { return n.ID == id })
		if i < 0 {
			return cur, fmt.Errorf("%w: %s", ErrNoteNotFound, id)
		}
		fn(&cur[i])
		cur[i].UpdatedAt = s.stamp()
		out = cur[i]
		return cur, nil
	})
	if err != nil {
		return models.Note{}, err
	}
	return out, nil
}

func (s *noteService) Delete(ctx context.Context, id string) error {
	return s.d.notes.Update(ctx, s.d.profile.Email(ctx), func(cur []models.Note) ([]models.Note, error) {
		i := slices.IndexFunc(cur, func(n models.Note) bool { return n.ID == id })
		if i < 0 {
			return cur, fmt.Errorf("%w: %s", ErrNoteNotFound, id)
		}
		return slices.Delete(cur, i, i+1), nil
	})
}
