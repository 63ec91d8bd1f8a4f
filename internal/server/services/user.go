// Package services contains server-side business logic. This file implements
// UserService, which handles login and first-login registration.
package services

import (
	"context"
	"crypto/subtle"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/incidentkeeper/internal/common"
	"github.com/dmitrijs2005/incidentkeeper/internal/models"
)

// UserRepository is the part of the users collection UserService needs.
type UserRepository interface {
	FindOrAdd(ctx context.Context, match func(models.User) bool, create func() models.User) (models.User, bool, error)
}

type UserService struct {
	users UserRepository
}

func NewUserService(users UserRepository) *UserService {
	return &UserService{users: users}
}

// Login authenticates username. The first login for an unknown username
// registers it with the given password and reports created. Lookup and
// registration are atomic, so concurrent first logins create one user.
func (s *UserService) Login(ctx context.Context, username, password string) (created bool, err error) {
	if strings.TrimSpace(username) == "" {
		return false, common.ErrEmptyUsername
	}

	user, created, err := s.users.FindOrAdd(ctx,
		func(u models.User) bool { return u.Username == username },
		func() models.User { return models.NewUser(username, password) },
	)
	if err != nil {
		return false, fmt.Errorf("login %s: %w", username, err)
	}
	if created {
		return true, nil
	}

	if subtle.ConstantTimeCompare([]byte(user.Password), []byte(password)) != 1 {
		return false, common.ErrWrongPassword
	}
	return false, nil
}
