package services

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/charlesng35/stockpulse/internal/database/testutil"
	"github.com/charlesng35/stockpulse/internal/identity"
	"github.com/charlesng35/stockpulse/internal/models"
	"github.com/charlesng35/stockpulse/internal/notifications"
	"github.com/charlesng35/stockpulse/internal/repository"
)

type recordingChannel struct {
	mu     sync.Mutex
	name   string
	status notifications.DeliveryStatus
	err    error
	panics bool
	calls  []*models.Notification
}

func (c *recordingChannel) Name() string { return c.name }

func (c *recordingChannel) Deliver(_ context.Context, n *models.Notification) notifications.DeliveryResult {
	c.mu.Lock()
	c.calls = append(c.calls, n)
	c.mu.Unlock()
	if c.panics {
		panic("transport exploded")
	}
	status := c.status
	if status == "" {
		status = notifications.StatusSent
	}
	return notifications.DeliveryResult{Channel: c.name, Status: status, Err: c.err}
}

func (c *recordingChannel) callCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.calls)
}

type failingResolver struct{}

func (failingResolver) Exists(context.Context, string) (bool, error) {
	return false, errors.New("identity backend down")
}

func (failingResolver) Email(context.Context, string) (string, error) {
	return "", errors.New("identity backend down")
}

type notificationFixture struct {
	db      *gorm.DB
	svc     *NotificationService
	prefs   repository.PreferenceRepository
	records repository.NotificationRepository
	email   *recordingChannel
	push    *recordingChannel
}

func newNotificationFixture(t *testing.T, opts ...NotificationOption) *notificationFixture {
	t.Helper()

	db := testutil.MustOpenTestDB(t, testutil.WithUsers(
		models.User{ID: "alice", Email: "alice@example.com"},
		models.User{ID: "bob", Email: "bob@example.com"},
	))

	f := &notificationFixture{
		db:      db,
		prefs:   repository.NewPreferenceRepository(db),
		records: repository.NewNotificationRepository(db),
		email:   &recordingChannel{name: notifications.ChannelEmail},
		push:    &recordingChannel{name: notifications.ChannelPush, status: notifications.StatusSkipped},
	}

	all := append([]NotificationOption{WithEmailChannel(f.email), WithPushChannel(f.push)}, opts...)
	svc, err := NewNotificationService(f.records, f.prefs, identity.NewDBResolver(db), all...)
	require.NoError(t, err)
	f.svc = svc
	return f
}

func (f *notificationFixture) setPreference(t *testing.T, pref models.NotificationPreference) {
	t.Helper()
	require.NoError(t, f.prefs.Save(context.Background(), &pref))
}

func (f *notificationFixture) countRecords(t *testing.T, userID string) int64 {
	t.Helper()
	var count int64
	require.NoError(t, f.db.Model(&models.Notification{}).Where("user_id = ?", userID).Count(&count).Error)
	return count
}

func strPtr(v string) *string { return &v }

func boolPtr(v bool) *bool { return &v }

func intPtr(v int) *int { return &v }
