package models

// Cart is one line of a user's shopping cart: one row per (user, menu item)
// pair, enforced by a composite unique index. UnitPrice snapshots the menu
// price at the moment the line was added; the line total is computed when
// rendered, never stored.
type Cart struct {
	ID         uint     `json:"id" gorm:"primaryKey"`
	UserID     uint     `json:"user_id" gorm:"not null;uniqueIndex:idx_carts_user_menu_item"`
	User       User     `json:"-" gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
	MenuItemID uint     `json:"menu_item_id" gorm:"not null;uniqueIndex:idx_carts_user_menu_item"`
	MenuItem   MenuItem `json:"menu_item,omitempty" gorm:"foreignKey:MenuItemID;constraint:OnDelete:CASCADE"`
	Quantity   int      `json:"quantity" gorm:"not null"`
	UnitPrice  float64  `json:"unit_price" gorm:"not null"`
}

// TotalPrice is the line total at current quantity.
func (c *Cart) TotalPrice() float64 {
	return c.UnitPrice * float64(c.Quantity)
}
