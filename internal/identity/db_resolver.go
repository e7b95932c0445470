package identity

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/charlesng35/stockpulse/internal/models"
)

// DBResolver resolves users from the users table. The account service sharing
// the database populates it; this service only reads it.
type DBResolver struct {
	db *gorm.DB
}

// NewDBResolver returns a resolver backed by the users table.
func NewDBResolver(db *gorm.DB) *DBResolver {
	return &DBResolver{db: db}
}

func (r *DBResolver) Exists(ctx context.Context, userID string) (bool, error) {
	if strings.TrimSpace(userID) == "" {
		return false, nil
	}
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.User{}).
		Where("id = ?", userID).
		Count(&count).Error; err != nil {
		return false, fmt.Errorf("identity: lookup user: %w", err)
	}
	return count > 0, nil
}

func (r *DBResolver) Email(ctx context.Context, userID string) (string, error) {
	var user models.User
	if err := r.db.WithContext(ctx).
		Select("id", "email").
		Where("id = ?", userID).
		First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", ErrUnknownUser
		}
		return "", fmt.Errorf("identity: load user: %w", err)
	}
	if strings.TrimSpace(user.Email) == "" {
		return "", ErrNoEmail
	}
	return user.Email, nil
}
