package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/fridgekeeper/internal/client/models"
)

// AuthService covers token acquisition and logout.
//
// Login and Register store the token in the session and remember the email
// as the identity local notes are partitioned by. Logout forgets both.
type AuthService interface {
	Login(ctx context.Context, creds models.Credentials) error
	// Register reports whether the backend signed the new user in.
	Register(ctx context.Context, creds models.Credentials) (bool, error)
	Logout(ctx context.Context, opts LogoutOptions) error
	LoggedIn(ctx context.Context) bool
	Ping(ctx context.Context) error
}

// LogoutOptions tune what logout removes besides the session.
type LogoutOptions struct {
	// PurgeLocalData also deletes the notes of the identity being logged out.
	PurgeLocalData bool
}

type authService struct {
	d *Deps
}

func NewAuthService(d *Deps) AuthService {
	return &authService{d: d}
}

func (a *authService) Login(ctx context.Context, creds models.Credentials) error {
	creds.Email = strings.TrimSpace(creds.Email)
	if err := a.d.check(creds); err != nil {
		return err
	}
	tok, err := a.d.Client.Login(ctx, creds)
	if err != nil {
		return fmt.Errorf("login error: %w", err)
	}
	return a.signIn(ctx, creds.Email, tok)
}

func (a *authService) Register(ctx context.Context, creds models.Credentials) (bool, error) {
	creds.Email = strings.TrimSpace(creds.Email)
	if err := a.d.check(creds); err != nil {
		return false, err
	}
	tok, err := a.d.Client.Register(ctx, creds)
	if err != nil {
		return false, fmt.Errorf("register error: %w", err)
	}
	if tok == "" {
		return false, nil
	}
	return true, a.signIn(ctx, creds.Email, tok)
}

func (a *authService) signIn(ctx context.Context, email, token string) error {
	// a different identity must not see the previous one's working set:
	// the old session and profile go first, and the token is stored only
	// after the email that partitions local data
	if prev := a.d.profile.Email(ctx); !strings.EqualFold(prev, email) {
		if err := a.d.Session.Clear(ctx); err != nil {
			return fmt.Errorf("session clearing error: %w", err)
		}
		if err := a.d.profile.Clear(ctx); err != nil {
			return fmt.Errorf("profile clearing error: %w", err)
		}
		a.resetWorkingSet()
	}
	if err := a.d.profile.SetEmail(ctx, email); err != nil {
		return fmt.Errorf("profile saving error: %w", err)
	}
	if err := a.d.Session.Set(ctx, token); err != nil {
		return fmt.Errorf("session saving error: %w", err)
	}
	a.d.Log.Info(ctx, "signed in", "email", email)
	return nil
}

// Logout clears the session and the profile cache. Notes stay on disk,
// keyed by the old email, unless opts.PurgeLocalData is set. Every step is
// attempted even if an earlier one fails.
func (a *authService) Logout(ctx context.Context, opts LogoutOptions) error {
	email := a.d.profile.Email(ctx)

	var errs []error
	if opts.PurgeLocalData && email != "" {
		if err := a.d.notes.Remove(ctx, email); err != nil {
			errs = append(errs, fmt.Errorf("notes removal error: %w", err))
		}
	}
	if err := a.d.Session.Clear(ctx); err != nil {
		errs = append(errs, fmt.Errorf("session clearing error: %w", err))
	}
	if err := a.d.profile.Clear(ctx); err != nil {
		errs = append(errs, fmt.Errorf("profile clearing error: %w", err))
	}
	a.resetWorkingSet()

	a.d.Log.Info(ctx, "signed out", "purged", opts.PurgeLocalData)
	return errors.Join(errs...)
}

func (a *authService) resetWorkingSet() {
	// drops snapshots, favorites and fetches still in flight
	a.d.Scheduler.Reset()
}

func (a *authService) LoggedIn(ctx context.Context) bool {
	return a.d.Session.LoggedIn(ctx)
}

func (a *authService) Ping(ctx context.Context) error {
	return a.d.Client.Ping(ctx)
}
