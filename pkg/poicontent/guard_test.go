package poicontent

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubRepo implements only the user-lookup side of Repository.
type stubRepo struct {
	Repository
	users  map[string]*User
	admins map[string]bool
}

func (s *stubRepo) GetUser(ctx context.Context, name string) (*User, error) {
	user, ok := s.users[name]
	if !ok {
		return nil, ErrUserNotFound
	}
	return user, nil
}

func (s *stubRepo) IsAdmin(ctx context.Context, name string) (bool, error) {
	return s.admins[name], nil
}

func newStubRepo(t *testing.T) *stubRepo {
	t.Helper()

	hash, err := HashPassword("secret")
	require.NoError(t, err)

	return &stubRepo{
		users: map[string]*User{
			"alice": {Name: "alice", PasswordHash: hash},
			"root":  {Name: "root", PasswordHash: hash},
		},
		admins: map[string]bool{"root": true},
	}
}

func TestGuardAuthenticate(t *testing.T) {
	guard := NewGuard(newStubRepo(t))
	ctx := context.Background()

	t.Run("valid credentials", func(t *testing.T) {
		identity, err := guard.Authenticate(ctx, Credentials{Name: "alice", Password: "secret"})
		require.NoError(t, err)
		assert.Equal(t, &Identity{Name: "alice"}, identity)
	})

	t.Run("admin flag", func(t *testing.T) {
		identity, err := guard.Authenticate(ctx, Credentials{Name: "root", Password: "secret"})
		require.NoError(t, err)
		assert.True(t, identity.Admin)
	})

	t.Run("wrong password", func(t *testing.T) {
		_, err := guard.Authenticate(ctx, Credentials{Name: "alice", Password: "nope"})
		assert.ErrorIs(t, err, ErrUnauthenticated)
	})

	t.Run("unknown user is indistinguishable from wrong password", func(t *testing.T) {
		_, err := guard.Authenticate(ctx, Credentials{Name: "mallory", Password: "secret"})
		assert.ErrorIs(t, err, ErrUnauthenticated)
	})

	t.Run("empty name or password", func(t *testing.T) {
		_, err := guard.Authenticate(ctx, Credentials{Name: "alice"})
		assert.ErrorIs(t, err, ErrUnauthenticated)
		_, err = guard.Authenticate(ctx, Credentials{Password: "secret"})
		assert.ErrorIs(t, err, ErrUnauthenticated)
	})
}

func TestGuardAssertOwnerOrAdmin(t *testing.T) {
	guard := NewGuard(newStubRepo(t))
	content := &Content{ID: 1, Owner: "alice"}

	assert.NoError(t, guard.AssertOwnerOrAdmin(&Identity{Name: "alice"}, content))
	assert.NoError(t, guard.AssertOwnerOrAdmin(&Identity{Name: "root", Admin: true}, content))
	assert.ErrorIs(t, guard.AssertOwnerOrAdmin(&Identity{Name: "bob"}, content), ErrForbidden)
}

func TestGuardAssertMutableFields(t *testing.T) {
	guard := NewGuard(newStubRepo(t))

	assert.NoError(t, guard.AssertMutableFields(nil))
	assert.NoError(t, guard.AssertMutableFields([]string{"comment"}))
	assert.NoError(t, guard.AssertMutableFields([]string{"comment", "file_description"}))
	assert.ErrorIs(t, guard.AssertMutableFields([]string{"owner"}), ErrFieldNotModifiable)
	assert.ErrorIs(t, guard.AssertMutableFields([]string{"comment", "id"}), ErrFieldNotModifiable)
}
