package models

// NotificationPreference stores per-user, per-category delivery settings.
// A nil MinPriority means no threshold has been configured.
type NotificationPreference struct {
	BaseModel

	UserID       string  `gorm:"type:varchar(128);not null;uniqueIndex:idx_notification_pref_user_category,priority:1" json:"user_id"`
	Category     string  `gorm:"column:notification_type;type:varchar(64);not null;uniqueIndex:idx_notification_pref_user_category,priority:2" json:"category"`
	EmailEnabled bool    `gorm:"not null;default:false" json:"email_enabled"`
	PushEnabled  bool    `gorm:"not null;default:false" json:"push_enabled"`
	MinPriority  *string `gorm:"type:varchar(16)" json:"min_priority"`
}
