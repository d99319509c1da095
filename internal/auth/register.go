package auth

import (
	"context"
	"errors"
	"strings"

	"github.com/giftconnect/giftconnect-backend/internal/storage"
	"github.com/giftconnect/giftconnect-backend/pkg/db/models"
	"github.com/giftconnect/giftconnect-backend/pkg/enums"
	pkgerrors "github.com/giftconnect/giftconnect-backend/pkg/errors"
)

// Register creates an HR or VENDOR account and signs it in. ADMIN accounts
// only come from seeding or a role change by another admin.
func (s *service) Register(ctx context.Context, req RegisterRequest) (*AuthResponse, error) {
	role, err := registrationRole(req.Role)
	if err != nil {
		return nil, err
	}
	username := strings.TrimSpace(req.Username)
	email := strings.TrimSpace(req.Email)
	if username == "" || email == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "Validation error")
	}

	if err := s.ensureAvailable(ctx, username, email); err != nil {
		s.metrics.AuthEvent("register", "conflict")
		return nil, err
	}

	hash, err := s.hasher.Hash(req.Password)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "hash password")
	}

	user, err := s.users.CreateUser(ctx, models.User{
		Username:     username,
		PasswordHash: hash,
		Email:        email,
		Name:         strings.TrimSpace(req.Name),
		Company:      trimmedOptional(req.Company),
		Role:         role,
	})
	if err != nil {
		if errors.Is(err, storage.ErrConflict) {
			return nil, pkgerrors.Wrap(pkgerrors.CodeConflict, err, "Username or email already exists")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create user")
	}

	resp, err := s.issue(ctx, user)
	if err != nil {
		return nil, err
	}
	s.metrics.AuthEvent("register", "success")
	if s.logg != nil {
		logCtx := s.logg.WithUserID(ctx, user.ID)
		s.logg.Info(s.logg.WithActorRole(logCtx, string(role)), "auth.registered")
	}
	return resp, nil
}

func (s *service) ensureAvailable(ctx context.Context, username, email string) error {
	if _, err := s.users.GetUserByUsername(ctx, username); err == nil {
		return pkgerrors.New(pkgerrors.CodeConflict, "Username already exists")
	} else if !errors.Is(err, storage.ErrNotFound) {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "check username")
	}
	if _, err := s.users.GetUserByEmail(ctx, email); err == nil {
		return pkgerrors.New(pkgerrors.CodeConflict, "Email already exists")
	} else if !errors.Is(err, storage.ErrNotFound) {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "check email")
	}
	return nil
}

func registrationRole(raw string) (enums.UserRole, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return enums.UserRoleHR, nil
	}
	role, err := enums.ParseUserRole(raw)
	if err != nil || role == enums.UserRoleAdmin {
		return "", pkgerrors.New(pkgerrors.CodeValidation, "Invalid role")
	}
	return role, nil
}

func trimmedOptional(v *string) *string {
	if v == nil {
		return nil
	}
	out := strings.TrimSpace(*v)
	if out == "" {
		return nil
	}
	return &out
}
