package models

import "time"

// Order is an immutable-once-created purchase record built from a cart.
// Status is two-valued: false = placed, true = delivered (out for delivery
// in between is not tracked). Date is set at creation and never changes.
type Order struct {
	ID             uint        `json:"id" gorm:"primaryKey"`
	UserID         uint        `json:"user_id" gorm:"not null"`
	User           User        `json:"user,omitempty" gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
	DeliveryCrewID *uint       `json:"delivery_crew_id"`
	DeliveryCrew   *User       `json:"delivery_crew,omitempty" gorm:"foreignKey:DeliveryCrewID;constraint:OnDelete:SET NULL"`
	Status         bool        `json:"status" gorm:"index;not null;default:false"`
	Total          float64     `json:"total" gorm:"not null"`
	Date           time.Time   `json:"date" gorm:"index;not null"`
	Items          []OrderItem `json:"items,omitempty" gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
}

// OrderItem is a frozen line item. UnitPrice and Price snapshot the cart
// values at placement time and are decoupled from later menu price changes.
type OrderItem struct {
	ID         uint     `json:"id" gorm:"primaryKey"`
	OrderID    uint     `json:"order_id" gorm:"not null;uniqueIndex:idx_order_items_order_menu_item"`
	MenuItemID uint     `json:"menu_item_id" gorm:"not null;uniqueIndex:idx_order_items_order_menu_item"`
	MenuItem   MenuItem `json:"menu_item,omitempty" gorm:"foreignKey:MenuItemID;constraint:OnDelete:CASCADE"`
	Quantity   int      `json:"quantity" gorm:"not null"`
	UnitPrice  float64  `json:"unit_price" gorm:"not null"`
	Price      float64  `json:"price" gorm:"not null"` // quantity × unit_price at placement
}
