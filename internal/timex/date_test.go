package timex

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDisplayISO_RoundTrip(t *testing.T) {
	tests := []struct {
		display string
		iso     string
	}{
		{"20-02-2026", "2026-02-20"},
		{"01-01-2000", "2000-01-01"},
		{"29-02-2024", "2024-02-29"},
		{"31-12-1999", "1999-12-31"},
	}

	for _, tt := range tests {
		t.Run(tt.display, func(t *testing.T) {
			iso, err := DisplayToISO(tt.display)
			require.NoError(t, err)
			assert.Equal(t, tt.iso, iso)

			back, err := ISOToDisplay(iso)
			require.NoError(t, err)
			assert.Equal(t, tt.display, back)
		})
	}
}

func TestParseDisplay_Invalid(t *testing.T) {
	for _, s := range []string{"2026-02-20", "32-01-2026", "29-02-2025", "20/02/2026", "abc"} {
		_, err := ParseDisplay(s)
		require.ErrorIs(t, err, ErrInvalidDate, s)
	}
}

func TestParseISO_AcceptsTimestamps(t *testing.T) {
	tests := []string{
		"2026-02-18",
		"2026-02-18T00:00:00Z",
		"2026-02-18T13:45:00+02:00",
		"2026-02-18T13:45:00",
		"2026-02-18T13:45:00.1234567",
	}
	for _, s := range tests {
		d, err := ParseISO(s)
		require.NoError(t, err, s)
		assert.Equal(t, "2026-02-18", d.ISO(), s)
	}
}

func TestParseEmpty_IsZero(t *testing.T) {
	d, err := ParseISO("  ")
	require.NoError(t, err)
	assert.True(t, d.IsZero())
	assert.Equal(t, "", d.ISO())
	assert.Equal(t, "", d.Display())

	d, err = ParseDisplay("")
	require.NoError(t, err)
	assert.True(t, d.IsZero())
}

func TestDate_JSON(t *testing.T) {
	type wrapper struct {
		D Date `json:"d"`
	}

	b, err := json.Marshal(wrapper{D: NewDate(2026, time.February, 20)})
	require.NoError(t, err)
	assert.JSONEq(t, `{"d":"2026-02-20"}`, string(b))

	b, err = json.Marshal(wrapper{})
	require.NoError(t, err)
	assert.JSONEq(t, `{"d":null}`, string(b))

	var w wrapper
	require.NoError(t, json.Unmarshal([]byte(`{"d":"2026-02-20T00:00:00Z"}`), &w))
	assert.Equal(t, NewDate(2026, time.February, 20), w.D)

	require.NoError(t, json.Unmarshal([]byte(`{"d":null}`), &w))
	assert.True(t, w.D.IsZero())

	require.Error(t, json.Unmarshal([]byte(`{"d":"soon"}`), &w))
}

func TestDate_CompareAndAddDays(t *testing.T) {
	a := NewDate(2026, time.February, 18)
	b := NewDate(2026, time.February, 20)

	assert.True(t, a.Before(b))
	assert.Equal(t, 1, b.Compare(a))
	assert.Equal(t, 0, a.Compare(NewDate(2026, time.February, 18)))
	assert.Equal(t, b, a.AddDays(2))
	assert.True(t, Date{}.Before(a))
	assert.True(t, Date{}.AddDays(3).IsZero())
}

func TestDateOf_DropsClock(t *testing.T) {
	loc := time.FixedZone("UTC+3", 3*3600)
	d := DateOf(time.Date(2026, time.March, 1, 1, 30, 0, 0, loc))
	assert.Equal(t, "2026-03-01", d.ISO())
	assert.True(t, DateOf(time.Time{}).IsZero())
}
