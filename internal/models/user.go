package models

import (
	"time"

	"gorm.io/gorm"
)

// User is the local projection of an authenticated account. The ID matches the
// identity provider's subject (a uuid for local users, a uid for Firebase).
type User struct {
	ID          string `gorm:"primaryKey;type:varchar(128)" json:"id"`
	Email       string `gorm:"type:varchar(255);uniqueIndex;not null" json:"email"`
	DisplayName string `gorm:"type:varchar(255)" json:"display_name"`
	Role        string `gorm:"type:varchar(32);default:'employee'" json:"role"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}
