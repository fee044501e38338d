package models

// Category groups menu items. Deletion is blocked while any MenuItem
// still references it (RESTRICT, not cascade).
type Category struct {
	ID    uint   `json:"id" gorm:"primaryKey"`
	Slug  string `json:"slug" gorm:"not null"`
	Title string `json:"title" gorm:"index;not null"`
}

type MenuItem struct {
	ID         uint     `json:"id" gorm:"primaryKey"`
	Title      string   `json:"title" gorm:"index;not null;uniqueIndex:idx_menu_items_title_category"`
	Price      float64  `json:"price" gorm:"index;not null"`
	Featured   bool     `json:"featured" gorm:"index;default:false"`
	CategoryID uint     `json:"category_id" gorm:"not null;uniqueIndex:idx_menu_items_title_category"`
	Category   Category `json:"category,omitempty" gorm:"foreignKey:CategoryID;constraint:OnDelete:RESTRICT"`
}
