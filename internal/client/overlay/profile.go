package overlay

import "context"

// ProfileCache holds the signed-in user's email and name. The email is the
// partition key for notes.
type ProfileCache struct {
	s *Store
}

func NewProfileCache(s *Store) *ProfileCache { return &ProfileCache{s: s} }

func (p *ProfileCache) Email(ctx context.Context) string {
	return normalizeEmail(p.s.GetString(ctx, KeyProfileEmail))
}

func (p *ProfileCache) Name(ctx context.Context) string {
	return p.s.GetString(ctx, KeyProfileName)
}

func (p *ProfileCache) SetEmail(ctx context.Context, email string) error {
	return p.s.PutString(ctx, KeyProfileEmail, normalizeEmail(email))
}

func (p *ProfileCache) SetName(ctx context.Context, name string) error {
	return p.s.PutString(ctx, KeyProfileName, name)
}

// Clear forgets both fields.
func (p *ProfileCache) Clear(ctx context.Context) error {
	if err := p.s.RemoveDocument(ctx, KeyProfileEmail); err != nil {
		return err
	}
	return p.s.RemoveDocument(ctx, KeyProfileName)
}
