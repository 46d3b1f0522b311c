package services

import (
	"context"

	"github.com/dmitrijs2005/fridgekeeper/internal/client/overlay"
)

// HintService tracks one-time hints.
type HintService interface {
	ShowAIHint(ctx context.Context) bool
	DismissAIHint(ctx context.Context) error
}

type hintService struct {
	flags *overlay.Flags
}

func NewHintService(d *Deps) HintService {
	return &hintService{flags: overlay.NewFlags(d.Overlay)}
}

func (s *hintService) ShowAIHint(ctx context.Context) bool {
	return !s.flags.Get(ctx, overlay.KeyAIHintSeen)
}

func (s *hintService) DismissAIHint(ctx context.Context) error {
	return s.flags.Set(ctx, overlay.KeyAIHintSeen, true)
}
