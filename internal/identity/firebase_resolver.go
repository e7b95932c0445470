package identity

import (
	"context"
	"errors"
	"fmt"
	"strings"

	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/auth"
	"google.golang.org/api/option"
)

// FirebaseConfig selects the Firebase project used for user lookups. An empty
// CredentialsFile falls back to application default credentials.
type FirebaseConfig struct {
	ProjectID       string
	CredentialsFile string
}

type userGetter interface {
	GetUser(ctx context.Context, uid string) (*auth.UserRecord, error)
}

// FirebaseResolver resolves users through the Firebase Admin Auth API.
type FirebaseResolver struct {
	client   userGetter
	notFound func(error) bool
}

// NewFirebaseResolver initialises a Firebase app and its Auth client.
func NewFirebaseResolver(ctx context.Context, cfg FirebaseConfig) (*FirebaseResolver, error) {
	if strings.TrimSpace(cfg.ProjectID) == "" {
		return nil, errors.New("identity: firebase project id is required")
	}

	var opts []option.ClientOption
	if cfg.CredentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(cfg.CredentialsFile))
	}

	app, err := firebase.NewApp(ctx, &firebase.Config{ProjectID: cfg.ProjectID}, opts...)
	if err != nil {
		return nil, fmt.Errorf("identity: init firebase app: %w", err)
	}
	client, err := app.Auth(ctx)
	if err != nil {
		return nil, fmt.Errorf("identity: init firebase auth: %w", err)
	}
	return newFirebaseResolver(client, auth.IsUserNotFound), nil
}

func newFirebaseResolver(client userGetter, notFound func(error) bool) *FirebaseResolver {
	return &FirebaseResolver{client: client, notFound: notFound}
}

func (r *FirebaseResolver) lookup(ctx context.Context, userID string) (*auth.UserRecord, error) {
	record, err := r.client.GetUser(ctx, userID)
	if err != nil {
		if r.notFound(err) {
			return nil, ErrUnknownUser
		}
		return nil, fmt.Errorf("identity: firebase get user: %w", err)
	}
	return record, nil
}

func (r *FirebaseResolver) Exists(ctx context.Context, userID string) (bool, error) {
	if strings.TrimSpace(userID) == "" {
		return false, nil
	}
	if _, err := r.lookup(ctx, userID); err != nil {
		if errors.Is(err, ErrUnknownUser) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

func (r *FirebaseResolver) Email(ctx context.Context, userID string) (string, error) {
	record, err := r.lookup(ctx, userID)
	if err != nil {
		return "", err
	}
	if record.UserInfo == nil || strings.TrimSpace(record.Email) == "" {
		return "", ErrNoEmail
	}
	return record.Email, nil
}
