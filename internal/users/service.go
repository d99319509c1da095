package users

import (
	"context"
	"errors"

	"github.com/giftconnect/giftconnect-backend/internal/storage"
	"github.com/giftconnect/giftconnect-backend/pkg/db/models"
	pkgerrors "github.com/giftconnect/giftconnect-backend/pkg/errors"
)

const msgUserNotFound = "User not found"

// Service serves read-only user lookups.
type Service interface {
	Profile(ctx context.Context, id int64) (ProfileDTO, error)
	Current(ctx context.Context, id int64) (*UserDTO, error)
}

type service struct {
	store storage.UserStore
}

func NewService(store storage.UserStore) (Service, error) {
	if store == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "user store is required")
	}
	return &service{store: store}, nil
}

func (s *service) Profile(ctx context.Context, id int64) (ProfileDTO, error) {
	user, err := s.load(ctx, id)
	if err != nil {
		return ProfileDTO{}, err
	}
	return ProfileFromModel(user), nil
}

// Current returns the caller's full account without the password hash.
func (s *service) Current(ctx context.Context, id int64) (*UserDTO, error) {
	user, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	return FromModel(user), nil
}

func (s *service) load(ctx context.Context, id int64) (*models.User, error) {
	user, err := s.store.GetUser(ctx, id)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, pkgerrors.Wrap(pkgerrors.CodeNotFound, err, msgUserNotFound)
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load user")
	}
	return user, nil
}
