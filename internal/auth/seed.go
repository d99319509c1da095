package auth

import (
	"context"
	"errors"
	"strings"

	"github.com/giftconnect/giftconnect-backend/internal/storage"
	"github.com/giftconnect/giftconnect-backend/pkg/db/models"
	"github.com/giftconnect/giftconnect-backend/pkg/enums"
	pkgerrors "github.com/giftconnect/giftconnect-backend/pkg/errors"
	"github.com/giftconnect/giftconnect-backend/pkg/security"
)

const generatedAdminPasswordLength = 16

// SeedAdmin creates the bootstrap administrator when no account holds the
// configured username. A generated password is logged exactly once.
func (s *service) SeedAdmin(ctx context.Context) error {
	username := strings.TrimSpace(s.seed.AdminUsername)
	if username == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "seed admin username is required")
	}
	if _, err := s.users.GetUserByUsername(ctx, username); err == nil {
		return nil
	} else if !errors.Is(err, storage.ErrNotFound) {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "lookup seed admin")
	}

	password := s.seed.AdminPassword
	generated := password == ""
	if generated {
		var err error
		password, err = security.GenerateTempPassword(generatedAdminPasswordLength)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "generate admin password")
		}
	}

	hash, err := s.hasher.Hash(password)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "hash admin password")
	}

	var company *string
	if c := strings.TrimSpace(s.seed.AdminCompany); c != "" {
		company = &c
	}
	user, err := s.users.CreateUser(ctx, models.User{
		Username:     username,
		PasswordHash: hash,
		Email:        s.seed.AdminEmail,
		Name:         s.seed.AdminName,
		Company:      company,
		Role:         enums.UserRoleAdmin,
	})
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create seed admin")
	}

	if s.logg != nil {
		fields := map[string]any{"username": user.Username, "user_id": user.ID}
		if generated {
			fields["generated_password"] = password
		}
		s.logg.Warn(s.logg.WithFields(ctx, fields), "auth.admin_seeded")
	}
	return nil
}
