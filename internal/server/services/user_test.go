package services

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/incidentkeeper/internal/common"
	"github.com/dmitrijs2005/incidentkeeper/internal/models"
	"github.com/dmitrijs2005/incidentkeeper/internal/server/store"
)

func newUserCollection(t *testing.T) *store.Collection[models.User] {
	t.Helper()
	return store.NewCollection[models.User](common.CollectionUsers, filepath.Join(t.TempDir(), "users.dat"))
}

type errBoom struct{}

func (errBoom) Error() string { return "boom" }

type fakeUsersRepo struct {
	out     models.User
	created bool
	err     error
}

func (f *fakeUsersRepo) FindOrAdd(context.Context, func(models.User) bool, func() models.User) (models.User, bool, error) {
	return f.out, f.created, f.err
}

func TestLogin_FirstLoginCreatesUser(t *testing.T) {
	users := newUserCollection(t)
	s := NewUserService(users)
	ctx := context.Background()

	created, err := s.Login(ctx, "alice", "secret")
	require.NoError(t, err)
	assert.True(t, created)

	all, err := users.List(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, "alice", all[0].Username)
	assert.Equal(t, "secret", all[0].Password)
}

func TestLogin_SamePasswordSucceedsWithoutDuplicate(t *testing.T) {
	users := newUserCollection(t)
	s := NewUserService(users)
	ctx := context.Background()

	_, err := s.Login(ctx, "alice", "secret")
	require.NoError(t, err)

	created, err := s.Login(ctx, "alice", "secret")
	require.NoError(t, err)
	assert.False(t, created)

	all, err := users.List(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestLogin_WrongPassword(t *testing.T) {
	users := newUserCollection(t)
	s := NewUserService(users)
	ctx := context.Background()

	_, err := s.Login(ctx, "alice", "secret")
	require.NoError(t, err)

	created, err := s.Login(ctx, "alice", "guess")
	assert.False(t, created)
	assert.ErrorIs(t, err, common.ErrWrongPassword)
	assert.ErrorIs(t, err, common.ErrValidation)
	assert.Equal(t, "wrong password", err.Error())

	all, err := users.List(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestLogin_EmptyUsername(t *testing.T) {
	s := NewUserService(newUserCollection(t))

	_, err := s.Login(context.Background(), "  ", "pw")
	assert.ErrorIs(t, err, common.ErrEmptyUsername)
}

func TestLogin_RepositoryError(t *testing.T) {
	s := NewUserService(&fakeUsersRepo{err: errBoom{}})

	_, err := s.Login(context.Background(), "alice", "pw")
	require.Error(t, err)
	assert.True(t, errors.As(err, new(errBoom)))
	assert.Contains(t, err.Error(), "boom")
}

func TestLogin_ComparesAgainstStoredPassword(t *testing.T) {
	s := NewUserService(&fakeUsersRepo{out: models.NewUser("bob", "right")})

	_, err := s.Login(context.Background(), "bob", "right")
	assert.NoError(t, err)

	_, err = s.Login(context.Background(), "bob", "wrong")
	assert.ErrorIs(t, err, common.ErrWrongPassword)
}
