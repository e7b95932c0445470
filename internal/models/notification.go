package models

import (
	"time"

	"gorm.io/datatypes"
)

// Notification is a message raised for a single user. UserID and Category are
// never updated after insert; IsRead only moves from false to true.
type Notification struct {
	BaseModel

	UserID   string         `gorm:"type:varchar(128);not null;index:idx_notifications_user_read,priority:1" json:"user_id"`
	Category string         `gorm:"column:type;type:varchar(64);not null;index" json:"category"`
	Title    string         `gorm:"type:varchar(255);not null" json:"title"`
	Message  string         `gorm:"type:text;not null" json:"message"`
	Priority string         `gorm:"type:varchar(16);not null;default:'normal';index" json:"priority"`
	Metadata datatypes.JSON `json:"metadata"`

	IsRead bool       `gorm:"not null;default:false;index:idx_notifications_user_read,priority:2" json:"is_read"`
	ReadAt *time.Time `json:"read_at"`
}
