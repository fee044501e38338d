package handlers

import (
	"net/http"
	"strconv"

	"littlelemon-api/config"
	"littlelemon-api/models"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type CategoryRequest struct {
	Slug  string `json:"slug" binding:"required"`
	Title string `json:"title" binding:"required"`
}

// ListCategories returns all menu categories (public)
func ListCategories(c *gin.Context) {
	var categories []models.Category
	query := config.DB
	if search := c.Query("search"); search != "" {
		query = query.Where("title LIKE ?", "%"+search+"%")
	}
	query.Find(&categories)
	c.JSON(http.StatusOK, gin.H{"count": len(categories), "categories": categories})
}

// CreateCategory adds a category (manager only)
func CreateCategory(c *gin.Context) {
	var req CategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	category := models.Category{Slug: req.Slug, Title: req.Title}
	if err := config.DB.Create(&category).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create category"})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "Category created", "category": category})
}

// DeleteCategory removes a category (manager only). Deletion is refused
// while any menu item still references the category.
func DeleteCategory(c *gin.Context) {
	var category models.Category
	if err := config.DB.First(&category, c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Category not found"})
		return
	}
	var referenced int64
	config.DB.Model(&models.MenuItem{}).Where("category_id = ?", category.ID).Count(&referenced)
	if referenced > 0 {
		c.JSON(http.StatusConflict, gin.H{"error": "Category still has menu items and cannot be deleted"})
		return
	}
	if err := config.DB.Delete(&category).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete category"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Category deleted", "category_id": category.ID})
}

type MenuItemRequest struct {
	Title      string   `json:"title" binding:"required"`
	Price      *float64 `json:"price" binding:"required,gt=0"`
	Featured   *bool    `json:"featured" binding:"required"`
	CategoryID uint     `json:"category_id" binding:"required"`
}

type MenuItemPatchRequest struct {
	Title      *string  `json:"title"`
	Price      *float64 `json:"price" binding:"omitempty,gt=0"`
	Featured   *bool    `json:"featured"`
	CategoryID *uint    `json:"category_id"`
}

// ListMenuItems returns the menu (public), filterable and orderable.
func ListMenuItems(c *gin.Context) {
	var items []models.MenuItem
	query := config.DB.Preload("Category")

	if category := c.Query("category"); category != "" {
		query = query.Where("category_id = ?", category)
	}
	if search := c.Query("search"); search != "" {
		query = query.Where("title LIKE ?", "%"+search+"%")
	}
	if featured := c.Query("featured"); featured != "" {
		if f, err := strconv.ParseBool(featured); err == nil {
			query = query.Where("featured = ?", f)
		}
	}
	if toPrice := c.Query("to_price"); toPrice != "" {
		if p, err := strconv.ParseFloat(toPrice, 64); err == nil {
			query = query.Where("price <= ?", p)
		}
	}
	switch c.Query("ordering") {
	case "price":
		query = query.Order("price asc")
	case "-price":
		query = query.Order("price desc")
	case "title":
		query = query.Order("title asc")
	}
	if perpage, err := strconv.Atoi(c.Query("perpage")); err == nil && perpage > 0 {
		page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
		if page < 1 {
			page = 1
		}
		query = query.Limit(perpage).Offset((page - 1) * perpage)
	}

	query.Find(&items)
	c.JSON(http.StatusOK, gin.H{"count": len(items), "menu_items": items})
}

// CreateMenuItem adds an item to the menu (manager only)
func CreateMenuItem(c *gin.Context) {
	var req MenuItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	var category models.Category
	if err := config.DB.First(&category, req.CategoryID).Error; err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Category not found"})
		return
	}
	item := models.MenuItem{
		Title:      req.Title,
		Price:      *req.Price,
		Featured:   *req.Featured,
		CategoryID: req.CategoryID,
	}
	if err := config.DB.Create(&item).Error; err != nil {
		// unique (title, category) pair
		c.JSON(http.StatusBadRequest, gin.H{"error": "Menu item already exists in this category"})
		return
	}
	config.DB.Preload("Category").First(&item, item.ID)
	c.JSON(http.StatusCreated, gin.H{"message": "Menu item created", "menu_item": item})
}

// GetMenuItem returns a single menu item (public)
func GetMenuItem(c *gin.Context) {
	var item models.MenuItem
	if err := config.DB.Preload("Category").First(&item, c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Menu item not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"menu_item": item})
}

// UpdateMenuItem fully replaces a menu item (manager only)
func UpdateMenuItem(c *gin.Context) {
	var item models.MenuItem
	if err := config.DB.First(&item, c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Menu item not found"})
		return
	}
	var req MenuItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := config.DB.First(&models.Category{}, req.CategoryID).Error; err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Category not found"})
		return
	}
	item.Title = req.Title
	item.Price = *req.Price
	item.Featured = *req.Featured
	item.CategoryID = req.CategoryID
	if err := config.DB.Save(&item).Error; err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Menu item already exists in this category"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Menu item updated", "menu_item": item})
}

// PatchMenuItem updates only the provided fields (manager only)
func PatchMenuItem(c *gin.Context) {
	var item models.MenuItem
	if err := config.DB.First(&item, c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Menu item not found"})
		return
	}
	var req MenuItemPatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.Title != nil {
		item.Title = *req.Title
	}
	if req.Price != nil {
		item.Price = *req.Price
	}
	if req.Featured != nil {
		item.Featured = *req.Featured
	}
	if req.CategoryID != nil {
		if err := config.DB.First(&models.Category{}, *req.CategoryID).Error; err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Category not found"})
			return
		}
		item.CategoryID = *req.CategoryID
	}
	if err := config.DB.Save(&item).Error; err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Menu item already exists in this category"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Menu item updated", "menu_item": item})
}

// DeleteMenuItem removes a menu item (manager only). Cart lines and order
// lines referencing the item go with it, so no cart can check out a phantom
// item and no order line dangles.
func DeleteMenuItem(c *gin.Context) {
	var item models.MenuItem
	if err := config.DB.First(&item, c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Menu item not found"})
		return
	}
	if err := config.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("menu_item_id = ?", item.ID).Delete(&models.Cart{}).Error; err != nil {
			return err
		}
		if err := tx.Where("menu_item_id = ?", item.ID).Delete(&models.OrderItem{}).Error; err != nil {
			return err
		}
		return tx.Delete(&item).Error
	}); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete menu item"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Menu item deleted", "menu_item_id": item.ID})
}

// findMenuItemByTitle resolves a menu item by exact title. Cart additions
// reference items by title, mirroring the ordering UI.
func findMenuItemByTitle(title string) (*models.MenuItem, error) {
	var item models.MenuItem
	if err := config.DB.Where("title = ?", title).First(&item).Error; err != nil {
		return nil, err
	}
	return &item, nil
}
