package services

import (
	"context"
	"fmt"
	"time"

	"github.com/dmitrijs2005/fridgekeeper/internal/client/client"
	"github.com/dmitrijs2005/fridgekeeper/internal/client/models"
	"github.com/dmitrijs2005/fridgekeeper/internal/client/overlay"
	"github.com/dmitrijs2005/fridgekeeper/internal/timex"
)

// Notifier shows the expiration reminder.
type Notifier interface {
	NotifyExpiring(ctx context.Context, products []models.Product) error
}

type ReminderService interface {
	// CheckDaily notifies about products expiring soon at most once per
	// calendar day of now. It reports whether a notification was sent.
	CheckDaily(ctx context.Context, now time.Time) (bool, error)
}

type reminderService struct {
	d         *Deps
	reminders *overlay.ReminderLog
	notifier  Notifier
}

func NewReminderService(d *Deps, n Notifier) ReminderService {
	return &reminderService{d: d, reminders: overlay.NewReminderLog(d.Overlay), notifier: n}
}

func (s *reminderService) CheckDaily(ctx context.Context, now time.Time) (bool, error) {
	today := timex.DateOf(now)
	if s.reminders.Last(ctx).Compare(today) == 0 {
		return false, nil
	}

	soon, err := s.d.Client.ListProducts(ctx, client.ProductQuery{ExpiringSoon: true})
	if err != nil {
		return false, fmt.Errorf("expiring products error: %w", err)
	}
	// an empty day is not recorded so products added later still trigger
	if len(soon) == 0 {
		return false, nil
	}

	if err := s.notifier.NotifyExpiring(ctx, soon); err != nil {
		return false, fmt.Errorf("notify error: %w", err)
	}
	if err := s.reminders.Record(ctx, today); err != nil {
		s.d.Log.Warn(ctx, "reminder date not saved", "err", err)
	}
	return true, nil
}
