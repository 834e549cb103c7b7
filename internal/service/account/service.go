// Package account covers owner signup, login and notification settings.
package account

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/hrtools/rptracker/internal/model"
	"github.com/hrtools/rptracker/internal/repository"
	"github.com/hrtools/rptracker/pkg/auth"
	apperrors "github.com/hrtools/rptracker/pkg/errors"
	"github.com/hrtools/rptracker/pkg/security"
)

type Servicer interface {
	Signup(ctx context.Context, name, email, password string) (*model.User, error)
	Login(ctx context.Context, email, password string) (*model.TokenResponse, error)
	SaveSettings(ctx context.Context, ownerEmail string, settings *model.AccountSettings) error
	GetSettings(ctx context.Context, ownerEmail string) (*model.AccountSettings, error)
}

type Service struct {
	store  repository.SnapshotStore
	hasher security.PasswordHasher
	tokens auth.TokenService
}

func NewService(store repository.SnapshotStore, hasher security.PasswordHasher, tokens auth.TokenService) *Service {
	return &Service{store: store, hasher: hasher, tokens: tokens}
}

func (s *Service) Signup(ctx context.Context, name, email, password string) (*model.User, error) {
	hash, err := s.hasher.Hash(password)
	if err != nil {
		return nil, apperrors.BadRequest("password must be at least 6 characters", err)
	}

	snap, err := s.store.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load snapshot: %w", err)
	}

	if snap.UserByEmail(email) != nil {
		return nil, apperrors.Conflict("email already registered", nil)
	}

	user := &model.User{
		ID:           uuid.New(),
		Name:         name,
		Email:        email,
		PasswordHash: hash,
		CreatedAt:    time.Now(),
	}
	snap.Users = append(snap.Users, user)

	if err := s.store.Save(ctx, snap); err != nil {
		return nil, fmt.Errorf("failed to save snapshot: %w", err)
	}
	return user, nil
}

func (s *Service) Login(ctx context.Context, email, password string) (*model.TokenResponse, error) {
	snap, err := s.store.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load snapshot: %w", err)
	}

	user := snap.UserByEmail(email)
	if user == nil {
		return nil, apperrors.Unauthorized("invalid credentials", nil)
	}
	if err := s.hasher.Compare(user.PasswordHash, password); err != nil {
		return nil, apperrors.Unauthorized("invalid credentials", err)
	}

	token, err := s.tokens.Generate(user)
	if err != nil {
		return nil, fmt.Errorf("failed to generate token: %w", err)
	}

	return &model.TokenResponse{
		Token: token,
		Name:  user.Name,
		Email: user.Email,
	}, nil
}

// SaveSettings replaces the owner's channel settings wholesale, mirroring the
// settings form which always submits every field.
func (s *Service) SaveSettings(ctx context.Context, ownerEmail string, settings *model.AccountSettings) error {
	snap, err := s.store.Load(ctx)
	if err != nil {
		return fmt.Errorf("failed to load snapshot: %w", err)
	}

	settings.UpdatedAt = time.Now()
	snap.Settings[ownerEmail] = settings

	if err := s.store.Save(ctx, snap); err != nil {
		return fmt.Errorf("failed to save snapshot: %w", err)
	}
	return nil
}

// GetSettings returns the owner's settings, or an empty value when none were
// saved yet.
func (s *Service) GetSettings(ctx context.Context, ownerEmail string) (*model.AccountSettings, error) {
	snap, err := s.store.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load snapshot: %w", err)
	}

	settings := snap.SettingsFor(ownerEmail)
	if settings == nil {
		settings = &model.AccountSettings{}
	}
	return settings, nil
}
