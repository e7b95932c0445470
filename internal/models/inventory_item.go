package models

// InventoryItem is a stock-keeping unit owned by one user.
type InventoryItem struct {
	BaseModel

	UserID       string `gorm:"type:varchar(128);not null;index" json:"user_id"`
	Name         string `gorm:"type:varchar(255);not null" json:"name"`
	SKU          string `gorm:"type:varchar(64)" json:"sku"`
	Quantity     int    `gorm:"not null;default:0" json:"quantity"`
	ReorderPoint int    `gorm:"not null;default:0" json:"reorder_point"`
}
