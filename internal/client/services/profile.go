package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/fridgekeeper/internal/client/client"
	"github.com/dmitrijs2005/fridgekeeper/internal/client/models"
)

type ProfileService interface {
	// Load asks the backend for the profile and caches it. When the backend
	// cannot be reached the cached profile is returned instead.
	Load(ctx context.Context) (models.Profile, error)
	Update(ctx context.Context, name string) (models.Profile, error)
	// Delete removes the account and every local trace of it.
	Delete(ctx context.Context) error
}

type profileService struct {
	d    *Deps
	auth AuthService
}

func NewProfileService(d *Deps, auth AuthService) ProfileService {
	return &profileService{d: d, auth: auth}
}

func (s *profileService) Load(ctx context.Context) (models.Profile, error) {
	p, err := s.d.Client.Me(ctx)
	if err != nil {
		cached := s.cached(ctx)
		if cached.Email == "" || errors.Is(err, client.ErrUnauthenticated) || errors.Is(err, client.ErrUnauthorized) {
			return models.Profile{}, fmt.Errorf("profile error: %w", err)
		}
		s.d.Log.Warn(ctx, "profile unavailable, using cached", "err", err)
		return cached, nil
	}
	s.store(ctx, p)
	return p, nil
}

func (s *profileService) Update(ctx context.Context, name string) (models.Profile, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return models.Profile{}, fmt.Errorf("%w: name is empty", ErrInvalidInput)
	}
	p, err := s.d.Client.UpdateProfile(ctx, name)
	if err != nil {
		return models.Profile{}, fmt.Errorf("profile update error: %w", err)
	}
	if p.Name == "" {
		p.Name = name
	}
	if p.Email == "" {
		p.Email = s.d.profile.Email(ctx)
	}
	s.store(ctx, p)
	return p, nil
}

func (s *profileService) Delete(ctx context.Context) error {
	if err := s.d.Client.DeleteProfile(ctx); err != nil {
		return fmt.Errorf("profile delete error: %w", err)
	}
	return s.auth.Logout(ctx, LogoutOptions{PurgeLocalData: true})
}

func (s *profileService) cached(ctx context.Context) models.Profile {
	return models.Profile{Email: s.d.profile.Email(ctx), Name: s.d.profile.Name(ctx)}
}

func (s *profileService) store(ctx context.Context, p models.Profile) {
	if p.Email != "" {
		if err := s.d.profile.SetEmail(ctx, p.Email); err != nil {
			s.d.Log.Warn(ctx, "profile email not cached", "err", err)
		}
	}
	if err := s.d.profile.SetName(ctx, p.Name); err != nil {
		s.d.Log.Warn(ctx, "profile name not cached", "err", err)
	}
}
