package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/charlesng35/stockpulse/internal/identity"
	"github.com/charlesng35/stockpulse/internal/models"
	"github.com/charlesng35/stockpulse/internal/notifications"
	"github.com/charlesng35/stockpulse/internal/repository"
	apperrors "github.com/charlesng35/stockpulse/pkg/errors"
	"github.com/charlesng35/stockpulse/pkg/logger"
	"github.com/charlesng35/stockpulse/pkg/metrics"
)

// NotificationDTO represents the API-friendly notification payload.
type NotificationDTO struct {
	ID        string         `json:"id"`
	UserID    string         `json:"user_id"`
	Category  string         `json:"type"`
	Title     string         `json:"title"`
	Message   string         `json:"message"`
	Priority  string         `json:"priority"`
	Metadata  map[string]any `json:"metadata,omitempty"`
	IsRead    bool           `json:"is_read"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	ReadAt    *time.Time     `json:"read_at,omitempty"`
}

// CreateNotificationInput defines attributes required to persist a notification.
type CreateNotificationInput struct {
	UserID   string
	Category string
	Title    string
	Message  string
	Priority string
	Metadata map[string]any
}

// CreateNotificationResult carries the stored notification and what each
// channel did with it. Deliveries is empty when no channel was invoked.
type CreateNotificationResult struct {
	Notification NotificationDTO                `json:"notification"`
	Deliveries   []notifications.DeliveryResult `json:"deliveries"`
}

// ListNotificationsInput defines filters for querying user notifications.
// Priority "all" or empty disables the priority filter.
type ListNotificationsInput struct {
	UserID     string
	UnreadOnly bool
	Priority   string
	Category   string
	Page       int
	PerPage    int
}

// NotificationPage is one page of a user's notifications, newest first.
type NotificationPage struct {
	Items   []NotificationDTO `json:"items"`
	Page    int               `json:"page"`
	PerPage int               `json:"per_page"`
	Total   int64             `json:"total"`
}

// NotificationOption customises a NotificationService.
type NotificationOption func(*NotificationService)

// WithEmailChannel sets the channel used when a preference enables email.
func WithEmailChannel(ch notifications.Channel) NotificationOption {
	return func(s *NotificationService) { s.email = ch }
}

// WithPushChannel sets the channel used when a preference enables push.
func WithPushChannel(ch notifications.Channel) NotificationOption {
	return func(s *NotificationService) { s.push = ch }
}

// WithDefaultPageSize overrides the page size used when a listing does not ask for one.
func WithDefaultPageSize(size int) NotificationOption {
	return func(s *NotificationService) { s.pageSize = size }
}

// WithClock overrides the time source used for read timestamps.
func WithClock(now func() time.Time) NotificationOption {
	return func(s *NotificationService) {
		if now != nil {
			s.now = now
		}
	}
}

// NotificationService persists notifications and fans them out to the
// channels the owner's preferences enable.
type NotificationService struct {
	notifications repository.NotificationRepository
	preferences   repository.PreferenceRepository
	users         identity.Resolver
	email         notifications.Channel
	push          notifications.Channel
	pageSize      int
	now           func() time.Time
}

// NewNotificationService constructs a NotificationService.
func NewNotificationService(
	notificationRepo repository.NotificationRepository,
	preferenceRepo repository.PreferenceRepository,
	users identity.Resolver,
	opts ...NotificationOption,
) (*NotificationService, error) {
	if notificationRepo == nil {
		return nil, errors.New("notification service: notification repository is required")
	}
	if preferenceRepo == nil {
		return nil, errors.New("notification service: preference repository is required")
	}
	if users == nil {
		return nil, errors.New("notification service: identity resolver is required")
	}

	svc := &NotificationService{
		notifications: notificationRepo,
		preferences:   preferenceRepo,
		users:         users,
		pageSize:      defaultPageSize,
		now:           time.Now,
	}
	for _, opt := range opts {
		opt(svc)
	}
	return svc, nil
}

// Create validates and persists a notification, then delivers it through every
// channel the owner's preference for its category enables. Delivery outcomes
// never turn into errors.
func (s *NotificationService) Create(ctx context.Context, input CreateNotificationInput) (*CreateNotificationResult, error) {
	ctx = ensureContext(ctx)

	userID := strings.TrimSpace(input.UserID)
	if userID == "" {
		return nil, apperrors.NewValidation("user id is required")
	}
	if strings.TrimSpace(input.Title) == "" {
		return nil, apperrors.NewValidation("title is required")
	}
	if strings.TrimSpace(input.Message) == "" {
		return nil, apperrors.NewValidation("message is required")
	}
	category := strings.TrimSpace(input.Category)
	if category == "" {
		return nil, apperrors.NewValidation("type is required")
	}
	priority := defaultIfEmpty(strings.TrimSpace(input.Priority), string(notifications.DefaultPriority))
	if !notifications.ValidPriority(priority) {
		return nil, apperrors.NewValidation("priority must be one of low, normal, high")
	}

	exists, err := s.users.Exists(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("notification service: resolve user: %w", err)
	}
	if !exists {
		return nil, apperrors.NewValidation("user %s does not exist", userID)
	}

	metadata, err := encodeJSON(input.Metadata)
	if err != nil {
		return nil, fmt.Errorf("notification service: marshal metadata: %w", err)
	}

	notification := models.Notification{
		UserID:   userID,
		Category: category,
		Title:    input.Title,
		Message:  input.Message,
		Priority: priority,
		Metadata: metadata,
	}
	if err := s.notifications.Create(ctx, &notification); err != nil {
		return nil, fmt.Errorf("notification service: create notification: %w", err)
	}
	metrics.NotificationsCreated.WithLabelValues(category, priority).Inc()

	return &CreateNotificationResult{
		Notification: mapNotification(notification),
		Deliveries:   s.dispatch(ctx, &notification),
	}, nil
}

func (s *NotificationService) dispatch(ctx context.Context, n *models.Notification) []notifications.DeliveryResult {
	log := logger.WithModule("notifications").With(
		zap.String("notification_id", n.ID),
		zap.String("user_id", n.UserID),
		zap.String("category", n.Category),
	)
	results := make([]notifications.DeliveryResult, 0, 2)

	pref, err := s.preferences.Find(ctx, n.UserID, n.Category)
	if err != nil {
		log.Error("load notification preference", zap.Error(err))
		return results
	}
	if pref == nil {
		return results
	}

	threshold := ""
	if pref.MinPriority != nil {
		threshold = *pref.MinPriority
	}
	if !notifications.MeetsThreshold(n.Priority, threshold) {
		log.Debug("priority below threshold",
			zap.String("priority", n.Priority),
			zap.String("threshold", threshold),
		)
		return results
	}

	if pref.EmailEnabled {
		results = append(results, deliver(ctx, notifications.ChannelEmail, s.email, n))
	}
	if pref.PushEnabled {
		results = append(results, deliver(ctx, notifications.ChannelPush, s.push, n))
	}
	return results
}

// deliver invokes one channel and contains anything it does, panics included,
// so the next channel always runs. Results are labelled with the channel's own
// name; slot names the channel position when nothing is wired there.
func deliver(ctx context.Context, slot string, ch notifications.Channel, n *models.Notification) (result notifications.DeliveryResult) {
	name := slot
	defer func() {
		if rec := recover(); rec != nil {
			err := fmt.Errorf("channel panic: %v", rec)
			logger.WithModule("notifications").Error("delivery channel panicked",
				zap.String("channel", name),
				zap.String("notification_id", n.ID),
				zap.Any("panic", rec),
			)
			result = notifications.DeliveryResult{Channel: name, Status: notifications.StatusFailed, Detail: err.Error(), Err: err}
		}
		metrics.Deliveries.WithLabelValues(result.Channel, string(result.Status)).Inc()
	}()

	if ch == nil {
		return notifications.DeliveryResult{Channel: name, Status: notifications.StatusDeclined, Detail: "channel not configured"}
	}
	name = ch.Name()
	result = ch.Deliver(ctx, n)
	if result.Channel == "" {
		result.Channel = name
	}
	return result
}

// List returns one page of the user's notifications ordered by recency.
func (s *NotificationService) List(ctx context.Context, input ListNotificationsInput) (*NotificationPage, error) {
	ctx = ensureContext(ctx)
	userID := strings.TrimSpace(input.UserID)
	if userID == "" {
		return nil, apperrors.NewValidation("user id is required")
	}

	priority := strings.TrimSpace(input.Priority)
	if strings.EqualFold(priority, "all") {
		priority = ""
	}

	page, perPage, offset := normalisePage(input.Page, input.PerPage, s.pageSize)
	rows, total, err := s.notifications.List(ctx, repository.NotificationFilter{
		UserID:     userID,
		UnreadOnly: input.UnreadOnly,
		Priority:   priority,
		Category:   strings.TrimSpace(input.Category),
	}, perPage, offset)
	if err != nil {
		return nil, fmt.Errorf("notification service: list notifications: %w", err)
	}

	return &NotificationPage{
		Items:   mapNotificationRows(rows),
		Page:    page,
		PerPage: perPage,
		Total:   total,
	}, nil
}

// MarkRead sets the read flag on a notification owned by the user. Marking an
// already-read notification succeeds and keeps its original read time.
func (s *NotificationService) MarkRead(ctx context.Context, userID, notificationID string) (*NotificationDTO, error) {
	ctx = ensureContext(ctx)
	if _, err := s.notifications.MarkRead(ctx, userID, notificationID, s.now().UTC()); err != nil {
		return nil, fmt.Errorf("notification service: mark read: %w", err)
	}

	notification, err := s.notifications.FindOwned(ctx, userID, notificationID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("notification service: load notification: %w", err)
	}

	dto := mapNotification(*notification)
	return &dto, nil
}

// MarkAllRead marks every unread notification of the user as read and reports how many changed.
func (s *NotificationService) MarkAllRead(ctx context.Context, userID string) (int64, error) {
	ctx = ensureContext(ctx)
	if strings.TrimSpace(userID) == "" {
		return 0, apperrors.NewValidation("user id is required")
	}
	updated, err := s.notifications.MarkAllRead(ctx, userID, s.now().UTC())
	if err != nil {
		return 0, fmt.Errorf("notification service: mark all read: %w", err)
	}
	return updated, nil
}

// Delete removes a notification owned by the supplied user.
func (s *NotificationService) Delete(ctx context.Context, userID, notificationID string) error {
	ctx = ensureContext(ctx)
	deleted, err := s.notifications.Delete(ctx, userID, notificationID)
	if err != nil {
		return fmt.Errorf("notification service: delete notification: %w", err)
	}
	if deleted == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// ClearAll removes every notification of the user and reports how many were deleted.
func (s *NotificationService) ClearAll(ctx context.Context, userID string) (int64, error) {
	ctx = ensureContext(ctx)
	if strings.TrimSpace(userID) == "" {
		return 0, apperrors.NewValidation("user id is required")
	}
	deleted, err := s.notifications.DeleteAll(ctx, userID)
	if err != nil {
		return 0, fmt.Errorf("notification service: clear notifications: %w", err)
	}
	return deleted, nil
}

// UnreadCount returns the number of unread notifications for the user.
func (s *NotificationService) UnreadCount(ctx context.Context, userID string) (int64, error) {
	ctx = ensureContext(ctx)
	count, err := s.notifications.CountUnread(ctx, userID)
	if err != nil {
		return 0, fmt.Errorf("notification service: count unread: %w", err)
	}
	return count, nil
}

func mapNotificationRows(rows []models.Notification) []NotificationDTO {
	items := make([]NotificationDTO, 0, len(rows))
	for _, row := range rows {
		items = append(items, mapNotification(row))
	}
	return items
}

func mapNotification(row models.Notification) NotificationDTO {
	return NotificationDTO{
		ID:        row.ID,
		UserID:    row.UserID,
		Category:  row.Category,
		Title:     row.Title,
		Message:   row.Message,
		Priority:  defaultIfEmpty(row.Priority, string(notifications.DefaultPriority)),
		Metadata:  decodeJSON(row.Metadata),
		IsRead:    row.IsRead,
		CreatedAt: row.CreatedAt,
		UpdatedAt: row.UpdatedAt,
		ReadAt:    row.ReadAt,
	}
}
