// Package identity answers the two questions the notification pipeline asks
// about a user: does the account exist, and where can it be emailed.
package identity

import (
	"context"
	"errors"
)

// ErrUnknownUser is returned by Email when the user does not exist.
var ErrUnknownUser = errors.New("identity: unknown user")

// ErrNoEmail is returned by Email when the user has no address on record.
var ErrNoEmail = errors.New("identity: user has no email address")

// Resolver looks up users in the configured identity source.
type Resolver interface {
	Exists(ctx context.Context, userID string) (bool, error)
	Email(ctx context.Context, userID string) (string, error)
}
