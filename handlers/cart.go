package handlers

import (
	"net/http"

	"littlelemon-api/config"
	"littlelemon-api/middleware"
	"littlelemon-api/models"

	"github.com/gin-gonic/gin"
)

type AddToCartRequest struct {
	MenuItem string `json:"menuitem" binding:"required"`
	Quantity int    `json:"quantity" binding:"required,min=1"`
}

// cartLineJSON shapes one cart row for the response; the line total is
// computed here, never stored.
func cartLineJSON(line models.Cart) gin.H {
	return gin.H{
		"id":          line.ID,
		"menu_item":   line.MenuItem,
		"quantity":    line.Quantity,
		"unit_price":  line.UnitPrice,
		"total_price": line.TotalPrice(),
	}
}

// GetCart lists the caller's cart with a running total.
func GetCart(c *gin.Context) {
	user := middleware.GetUser(c)
	var lines []models.Cart
	config.DB.Preload("MenuItem").Preload("MenuItem.Category").
		Where("user_id = ?", user.ID).
		Find(&lines)

	items := make([]gin.H, 0, len(lines))
	var total float64
	for _, line := range lines {
		items = append(items, cartLineJSON(line))
		total += line.TotalPrice()
	}
	c.JSON(http.StatusOK, gin.H{"count": len(lines), "items": items, "total": total})
}

// AddToCart adds a menu item (resolved by title) to the caller's cart,
// snapshotting the current menu price as the line's unit price.
func AddToCart(c *gin.Context) {
	user := middleware.GetUser(c)
	var req AddToCartRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	item, err := findMenuItemByTitle(req.MenuItem)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Menu item not found"})
		return
	}

	var existing models.Cart
	if result := config.DB.Where("user_id = ? AND menu_item_id = ?", user.ID, item.ID).First(&existing); result.Error == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "'" + item.Title + "' is already in your cart"})
		return
	}

	line := models.Cart{
		UserID:     user.ID,
		MenuItemID: item.ID,
		Quantity:   req.Quantity,
		UnitPrice:  item.Price,
	}
	if err := config.DB.Create(&line).Error; err != nil {
		// unique (user, menu item) pair; lost race with a duplicate insert
		c.JSON(http.StatusBadRequest, gin.H{"error": "'" + item.Title + "' is already in your cart"})
		return
	}
	config.DB.Preload("MenuItem").First(&line, line.ID)
	c.JSON(http.StatusCreated, gin.H{"message": "Added to cart", "item": cartLineJSON(line)})
}

// ClearCart deletes all of the caller's cart rows. Clearing an empty cart
// succeeds.
func ClearCart(c *gin.Context) {
	user := middleware.GetUser(c)
	config.DB.Where("user_id = ?", user.ID).Delete(&models.Cart{})
	c.JSON(http.StatusOK, gin.H{"message": "Cart cleared"})
}
