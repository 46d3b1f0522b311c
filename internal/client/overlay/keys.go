package overlay

import "strings"

const (
	KeyProductCategories = "productCategories"
	KeyProfileEmail      = "profile_email"
	KeyProfileName       = "profile_name"
	KeyLastReminder      = "lastExpirationNotificationDate"
	KeyAIHintSeen        = "aiHintSeen"

	notesPrefix = "notes_v1_"
)

// NotesKey is the per-identity notes document key. Email is trimmed and
// lowercased so "A@x.com " and "a@x.com" share notes.
func NotesKey(email string) string {
	return notesPrefix + normalizeEmail(email)
}

// NotesNamespace is the prefix shared by every identity's notes document.
func NotesNamespace() string { return notesPrefix }

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
