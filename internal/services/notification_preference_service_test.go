package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/charlesng35/stockpulse/internal/database/testutil"
	"github.com/charlesng35/stockpulse/internal/models"
	"github.com/charlesng35/stockpulse/internal/repository"
	apperrors "github.com/charlesng35/stockpulse/pkg/errors"
)

func newPreferenceService(t *testing.T) (*NotificationPreferenceService, repository.PreferenceRepository) {
	t.Helper()
	db := testutil.MustOpenTestDB(t, testutil.WithAutoMigrate())
	repo := repository.NewPreferenceRepository(db)
	svc, err := NewNotificationPreferenceService(repo)
	require.NoError(t, err)
	return svc, repo
}

func TestPreferenceServiceUpdateCreatesLazily(t *testing.T) {
	svc, repo := newPreferenceService(t)
	ctx := context.Background()

	prefs, err := svc.Update(ctx, "alice", []PreferenceUpdate{
		{Category: "inventory", EmailEnabled: boolPtr(true), MinPriority: strPtr("high")},
	})
	require.NoError(t, err)
	require.Len(t, prefs, 1)
	require.Equal(t, "inventory", prefs[0].Category)
	require.True(t, prefs[0].EmailEnabled)
	require.False(t, prefs[0].PushEnabled)
	require.NotNil(t, prefs[0].MinPriority)
	require.Equal(t, "high", *prefs[0].MinPriority)

	stored, err := repo.Find(ctx, "alice", "inventory")
	require.NoError(t, err)
	require.NotNil(t, stored)
}

func TestPreferenceServiceUpdateMergesOnlySuppliedFields(t *testing.T) {
	svc, repo := newPreferenceService(t)
	ctx := context.Background()
	require.NoError(t, repo.Save(ctx, &models.NotificationPreference{
		UserID:       "alice",
		Category:     "inventory",
		EmailEnabled: true,
		PushEnabled:  true,
		MinPriority:  strPtr("normal"),
	}))

	_, err := svc.Update(ctx, "alice", []PreferenceUpdate{{Category: "inventory", PushEnabled: boolPtr(false)}})
	require.NoError(t, err)

	stored, err := repo.Find(ctx, "alice", "inventory")
	require.NoError(t, err)
	require.True(t, stored.EmailEnabled)
	require.False(t, stored.PushEnabled)
	require.Equal(t, "normal", *stored.MinPriority)

	_, err = svc.Update(ctx, "alice", []PreferenceUpdate{{Category: "inventory", MinPriority: strPtr("")}})
	require.NoError(t, err)

	stored, err = repo.Find(ctx, "alice", "inventory")
	require.NoError(t, err)
	require.Nil(t, stored.MinPriority)
	require.True(t, stored.EmailEnabled)
}

func TestPreferenceServiceUpdateIsAtomic(t *testing.T) {
	svc, repo := newPreferenceService(t)
	ctx := context.Background()

	_, err := svc.Update(ctx, "alice", []PreferenceUpdate{
		{Category: "inventory", EmailEnabled: boolPtr(true)},
		{Category: "billing", MinPriority: strPtr("critical")},
	})
	require.ErrorIs(t, err, apperrors.ErrValidation)

	stored, err := repo.Find(ctx, "alice", "inventory")
	require.NoError(t, err)
	require.Nil(t, stored)

	_, err = svc.Update(ctx, "alice", []PreferenceUpdate{{Category: "  "}})
	require.ErrorIs(t, err, apperrors.ErrValidation)
}

func TestPreferenceServiceListIsScoped(t *testing.T) {
	svc, _ := newPreferenceService(t)
	ctx := context.Background()

	_, err := svc.Update(ctx, "alice", []PreferenceUpdate{
		{Category: "system", PushEnabled: boolPtr(true)},
		{Category: "inventory", EmailEnabled: boolPtr(true)},
	})
	require.NoError(t, err)
	_, err = svc.Update(ctx, "bob", []PreferenceUpdate{{Category: "inventory"}})
	require.NoError(t, err)

	prefs, err := svc.List(ctx, "alice")
	require.NoError(t, err)
	require.Len(t, prefs, 2)
	require.Equal(t, "inventory", prefs[0].Category)
	require.Equal(t, "system", prefs[1].Category)

	_, err = svc.List(ctx, "")
	require.ErrorIs(t, err, apperrors.ErrValidation)
}
