package overlay

import (
	"context"
	"strconv"

	"github.com/dmitrijs2005/fridgekeeper/internal/timex"
)

// Flags are boolean markers stored as "true"/"false".
type Flags struct {
	s *Store
}

func NewFlags(s *Store) *Flags { return &Flags{s: s} }

func (f *Flags) Get(ctx context.Context, key string) bool {
	v, err := strconv.ParseBool(f.s.GetString(ctx, key))
	return err == nil && v
}

func (f *Flags) Set(ctx context.Context, key string, value bool) error {
	return f.s.PutString(ctx, key, strconv.FormatBool(value))
}

// ReminderLog remembers the last day an expiration reminder was shown.
type ReminderLog struct {
	s *Store
}

func NewReminderLog(s *Store) *ReminderLog { return &ReminderLog{s: s} }

// Last returns the zero Date when nothing (or garbage) is stored.
func (r *ReminderLog) Last(ctx context.Context) timex.Date {
	d, err := timex.ParseISO(r.s.GetString(ctx, KeyLastReminder))
	if err != nil {
		r.s.log.Warn(ctx, "overlay document corrupted, using default", "key", KeyLastReminder, "err", err)
		return timex.Date{}
	}
	return d
}

func (r *ReminderLog) Record(ctx context.Context, day timex.Date) error {
	return r.s.PutString(ctx, KeyLastReminder, day.ISO())
}
