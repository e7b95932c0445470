package identity

import (
	"context"
	"errors"
	"testing"

	"firebase.google.com/go/v4/auth"
	"github.com/stretchr/testify/require"

	"github.com/charlesng35/stockpulse/internal/database/testutil"
	"github.com/charlesng35/stockpulse/internal/models"
)

func TestDBResolver(t *testing.T) {
	db := testutil.MustOpenTestDB(t, testutil.WithUsers(
		models.User{ID: "alice", Email: "alice@example.com"},
	))
	r := NewDBResolver(db)
	ctx := context.Background()

	ok, err := r.Exists(ctx, "alice")
	require.NoError(t, err)
	require.True(t, ok)

	ok, err = r.Exists(ctx, "mallory")
	require.NoError(t, err)
	require.False(t, ok)

	ok, err = r.Exists(ctx, "  ")
	require.NoError(t, err)
	require.False(t, ok)

	email, err := r.Email(ctx, "alice")
	require.NoError(t, err)
	require.Equal(t, "alice@example.com", email)

	_, err = r.Email(ctx, "mallory")
	require.ErrorIs(t, err, ErrUnknownUser)
}

var errNotFound = errors.New("user not found")

type fakeFirebase struct {
	users map[string]*auth.UserRecord
	err   error
}

func (f fakeFirebase) GetUser(_ context.Context, uid string) (*auth.UserRecord, error) {
	if f.err != nil {
		return nil, f.err
	}
	record, ok := f.users[uid]
	if !ok {
		return nil, errNotFound
	}
	return record, nil
}

func isFakeNotFound(err error) bool { return errors.Is(err, errNotFound) }

func TestFirebaseResolver(t *testing.T) {
	r := newFirebaseResolver(fakeFirebase{users: map[string]*auth.UserRecord{
		"uid-1": {UserInfo: &auth.UserInfo{UID: "uid-1", Email: "one@example.com"}},
		"uid-2": {UserInfo: &auth.UserInfo{UID: "uid-2"}},
	}}, isFakeNotFound)
	ctx := context.Background()

	ok, err := r.Exists(ctx, "uid-1")
	require.NoError(t, err)
	require.True(t, ok)

	ok, err = r.Exists(ctx, "uid-9")
	require.NoError(t, err)
	require.False(t, ok)

	email, err := r.Email(ctx, "uid-1")
	require.NoError(t, err)
	require.Equal(t, "one@example.com", email)

	_, err = r.Email(ctx, "uid-2")
	require.ErrorIs(t, err, ErrNoEmail)

	_, err = r.Email(ctx, "uid-9")
	require.ErrorIs(t, err, ErrUnknownUser)
}

func TestFirebaseResolverPropagatesBackendErrors(t *testing.T) {
	boom := errors.New("quota exceeded")
	r := newFirebaseResolver(fakeFirebase{err: boom}, isFakeNotFound)

	_, err := r.Exists(context.Background(), "uid-1")
	require.ErrorIs(t, err, boom)
}

func TestNewFirebaseResolverRequiresProject(t *testing.T) {
	_, err := NewFirebaseResolver(context.Background(), FirebaseConfig{})
	require.Error(t, err)
}
