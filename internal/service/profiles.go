package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"lapor/internal/access"
	"lapor/internal/domain"
	"lapor/pkg/e"
)

type ProfileService struct {
	logger *slog.Logger
	repo   ProfileRepository
}

func NewProfileService(logger *slog.Logger, repo ProfileRepository) *ProfileService {
	return &ProfileService{
		logger: logger.With(slog.String("service", "profiles")),
		repo:   repo,
	}
}

// Resolve returns the actor for an authenticated profile id with the role
// currently stored for it.
func (s *ProfileService) Resolve(ctx context.Context, id uuid.UUID) (domain.Actor, error) {
	const op = "service.Profile.Resolve"

	p, err := s.repo.Get(ctx, id)
	if err != nil {
		return domain.Actor{}, err
	}
	if !p.Role.Valid() {
		s.logger.Error("profile with unknown role", slog.String("id", id.String()), slog.String("role", string(p.Role)))
		return domain.Actor{}, fmt.Errorf("%s: role %q: %w", op, p.Role, e.ErrMalformed)
	}
	return p.Actor(), nil
}

// Register provisions a citizen profile for an identity the store has not
// seen yet. A concurrent first request for the same id resolves to the row
// that won; an email owned by another id is a conflict.
func (s *ProfileService) Register(ctx context.Context, id uuid.UUID, email string) (domain.Actor, error) {
	const op = "service.Profile.Register"

	email = strings.ToLower(strings.TrimSpace(email))
	if id == uuid.Nil || email == "" {
		return domain.Actor{}, fmt.Errorf("%s: %w", op, e.ErrInvalidInput)
	}

	p := &domain.Profile{ID: id, Email: email, Role: domain.RoleCitizen}
	if err := s.repo.Create(ctx, p); err != nil {
		if !errors.Is(err, e.ErrUniqueViolation) {
			return domain.Actor{}, err
		}
		existing, gerr := s.repo.Get(ctx, id)
		if gerr != nil {
			if errors.Is(gerr, e.ErrNotFound) {
				return domain.Actor{}, fmt.Errorf("%s: email taken: %w", op, e.ErrConflict)
			}
			return domain.Actor{}, gerr
		}
		return existing.Actor(), nil
	}

	s.logger.Info("profile registered", slog.String("id", id.String()))
	return p.Actor(), nil
}

// Me returns the caller's own profile.
func (s *ProfileService) Me(ctx context.Context, actor domain.Actor) (*domain.Profile, error) {
	return s.repo.Get(ctx, actor.ID)
}

// UpdateOwn edits the caller's full name and phone. Role and email are not
// self-editable.
func (s *ProfileService) UpdateOwn(ctx context.Context, actor domain.Actor, req domain.UpdateProfileRequest) (*domain.Profile, error) {
	const op = "service.Profile.UpdateOwn"

	name := strings.TrimSpace(req.FullName)
	if name == "" {
		return nil, fmt.Errorf("%s: full name required: %w", op, e.ErrInvalidInput)
	}

	var phone *string
	if p := strings.TrimSpace(req.Phone); p != "" {
		phone = &p
	}

	return s.repo.UpdateDetails(ctx, actor.ID, name, phone)
}

// List returns profiles, optionally narrowed to one role. An empty role or
// "all" returns everyone.
func (s *ProfileService) List(ctx context.Context, actor domain.Actor, role string) ([]*domain.Profile, error) {
	const op = "service.Profile.List"

	if !access.Allowed(actor.Role, domain.EntityProfile, domain.ActionRead) {
		return nil, fmt.Errorf("%s: %w", op, e.ErrUnauthorized)
	}

	var filter domain.Role
	if role != "" && role != domain.FilterAll {
		filter = domain.Role(role)
		if !filter.Valid() {
			return nil, fmt.Errorf("%s: role %q: %w", op, role, e.ErrInvalidInput)
		}
	}
	return s.repo.List(ctx, filter)
}

// ChangeRole sets target's role. Only admins may do it, and never on
// themselves.
func (s *ProfileService) ChangeRole(ctx context.Context, actor domain.Actor, target uuid.UUID, role domain.Role) (*domain.Profile, error) {
	const op = "service.Profile.ChangeRole"

	if !access.Allowed(actor.Role, domain.EntityProfile, domain.ActionChangeRole) {
		return nil, fmt.Errorf("%s: %w", op, e.ErrUnauthorized)
	}
	if !role.Valid() {
		return nil, fmt.Errorf("%s: role %q: %w", op, role, e.ErrInvalidInput)
	}
	if actor.ID == target {
		return nil, fmt.Errorf("%s: own role: %w", op, e.ErrConflict)
	}

	p, err := s.repo.UpdateRole(ctx, target, role)
	if err != nil {
		return nil, err
	}

	s.logger.Info("role changed",
		slog.String("target", target.String()),
		slog.String("role", string(role)),
		slog.String("by", actor.ID.String()))
	return p, nil
}
