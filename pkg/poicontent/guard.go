package poicontent

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// Guard performs the identity and ownership checks invoked by every mutating
// operation. All methods are pure checks: they raise the stated failures and
// have no side effects.
type Guard struct {
	repo Repository
}

// NewGuard creates a guard over the given repository.
func NewGuard(repo Repository) *Guard {
	return &Guard{repo: repo}
}

// Authenticate verifies the credentials against the stored bcrypt hash and
// resolves the caller's admin flag. Absent or mismatching credentials yield
// ErrUnauthenticated. bcrypt's comparison is constant time by construction.
func (g *Guard) Authenticate(ctx context.Context, creds Credentials) (*Identity, error) {
	if creds.Name == "" || creds.Password == "" {
		return nil, ErrUnauthenticated
	}

	user, err := g.repo.GetUser(ctx, creds.Name)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return nil, ErrUnauthenticated
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(creds.Password)); err != nil {
		return nil, ErrUnauthenticated
	}

	admin, err := g.repo.IsAdmin(ctx, user.Name)
	if err != nil {
		return nil, err
	}

	return &Identity{Name: user.Name, Admin: admin}, nil
}

// AssertOwnerOrAdmin fails with ErrForbidden unless the identity owns the
// content or is an administrator.
func (g *Guard) AssertOwnerOrAdmin(identity *Identity, content *Content) error {
	if identity.Admin || identity.Name == content.Owner {
		return nil
	}
	return ErrForbidden
}

// mutableFields is the schema of fields a modification request may touch.
var mutableFields = map[string]bool{
	"comment":          true,
	"file_description": true,
}

// AssertMutableFields fails with ErrFieldNotModifiable if any named field is
// outside the mutable set.
func (g *Guard) AssertMutableFields(fields []string) error {
	for _, f := range fields {
		if !mutableFields[f] {
			return fmt.Errorf("%w: %q", ErrFieldNotModifiable, f)
		}
	}
	return nil
}

// HashPassword produces the stored credential for a new user.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}
