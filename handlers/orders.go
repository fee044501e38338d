package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"littlelemon-api/config"
	"littlelemon-api/middleware"
	"littlelemon-api/models"
	"littlelemon-api/statemachine"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

var (
	errEmptyCart    = errors.New("cart is empty")
	errCartConsumed = errors.New("cart was already checked out")
)

// PlaceOrder converts the caller's cart into an order. The cart read, total
// computation, order/line creation, and cart deletion run in one transaction
// so a partially placed order is never observable and two concurrent
// checkouts cannot both consume the same cart.
func PlaceOrder(c *gin.Context) {
	user := middleware.GetUser(c)

	var order models.Order
	err := config.DB.Transaction(func(tx *gorm.DB) error {
		var lines []models.Cart
		if err := tx.Where("user_id = ?", user.ID).Find(&lines).Error; err != nil {
			return err
		}
		if len(lines) == 0 {
			return errEmptyCart
		}

		var total float64
		items := make([]models.OrderItem, 0, len(lines))
		for _, line := range lines {
			lineTotal := line.UnitPrice * float64(line.Quantity)
			total += lineTotal
			items = append(items, models.OrderItem{
				MenuItemID: line.MenuItemID,
				Quantity:   line.Quantity,
				UnitPrice:  line.UnitPrice,
				Price:      lineTotal,
			})
		}

		order = models.Order{
			UserID: user.ID,
			Status: bool(statemachine.StatePlaced),
			Total:  total,
			Date:   time.Now(),
			Items:  items,
		}
		if err := tx.Create(&order).Error; err != nil {
			return err
		}

		res := tx.Where("user_id = ?", user.ID).Delete(&models.Cart{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected != int64(len(lines)) {
			return errCartConsumed
		}
		return nil
	})
	if errors.Is(err, errEmptyCart) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Cannot place an order with an empty cart"})
		return
	}
	if errors.Is(err, errCartConsumed) {
		c.JSON(http.StatusConflict, gin.H{"error": "Cart was already checked out"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to place order"})
		return
	}

	config.DB.Preload("Items.MenuItem").First(&order, order.ID)
	c.JSON(http.StatusCreated, gin.H{"message": "Order placed successfully", "order": order})
}

// ListOrders returns all orders for managers, and only the caller's own
// orders for everyone else. Supports filtering by status, date and assigned
// delivery crew, searching by item/category/owner, and ordering.
func ListOrders(c *gin.Context) {
	user := middleware.GetUser(c)

	query := config.DB.Preload("Items.MenuItem").Preload("User").Preload("DeliveryCrew")
	if !user.IsManager() {
		query = query.Where("orders.user_id = ?", user.ID)
	}

	if status := c.Query("status"); status != "" {
		if s, err := strconv.ParseBool(status); err == nil {
			query = query.Where("orders.status = ?", s)
		}
	}
	if date := c.Query("date"); date != "" {
		query = query.Where("date(orders.date) = ?", date)
	}
	if crew := c.Query("delivery_crew"); crew != "" {
		query = query.Where("orders.delivery_crew_id = ?", crew)
	}
	if search := c.Query("search"); search != "" {
		like := "%" + search + "%"
		byItem := config.DB.Table("order_items").
			Select("order_items.order_id").
			Joins("JOIN menu_items ON menu_items.id = order_items.menu_item_id").
			Joins("JOIN categories ON categories.id = menu_items.category_id").
			Where("menu_items.title LIKE ? OR categories.title LIKE ?", like, like)
		byOwner := config.DB.Table("users").
			Select("users.id").
			Where("users.username LIKE ?", like)
		query = query.Where("orders.id IN (?) OR orders.user_id IN (?)", byItem, byOwner)
	}
	switch c.Query("ordering") {
	case "date":
		query = query.Order("orders.date asc")
	case "-date":
		query = query.Order("orders.date desc")
	case "total":
		query = query.Order("orders.total asc")
	case "-total":
		query = query.Order("orders.total desc")
	case "status":
		query = query.Order("orders.status asc")
	default:
		query = query.Order("orders.date desc")
	}
	if perpage, err := strconv.Atoi(c.Query("perpage")); err == nil && perpage > 0 {
		page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
		if page < 1 {
			page = 1
		}
		query = query.Limit(perpage).Offset((page - 1) * perpage)
	}

	var orders []models.Order
	query.Find(&orders)
	c.JSON(http.StatusOK, gin.H{"count": len(orders), "orders": orders})
}

// GetOrderDetail returns a single order with its lines. Callers who are not
// the owner, a manager, or delivery crew get 404 rather than 403 so order
// ids are not probeable.
func GetOrderDetail(c *gin.Context) {
	user := middleware.GetUser(c)

	var order models.Order
	if err := config.DB.
		Preload("Items.MenuItem").
		Preload("User").
		Preload("DeliveryCrew").
		First(&order, c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Order not found"})
		return
	}
	if order.UserID != user.ID && !user.IsManager() && !user.IsDeliveryCrew() {
		c.JSON(http.StatusNotFound, gin.H{"error": "Order not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"order": order})
}

type OrderPutRequest struct {
	UserID         *uint    `json:"user_id" binding:"required"`
	DeliveryCrewID *uint    `json:"delivery_crew_id" binding:"required"`
	Status         *bool    `json:"status" binding:"required"`
	Total          *float64 `json:"total" binding:"required"`
	Date           *string  `json:"date" binding:"required"`
}

type OrderPatchRequest struct {
	UserID         *uint    `json:"user_id"`
	DeliveryCrewID *uint    `json:"delivery_crew_id"`
	Status         *bool    `json:"status"`
	Total          *float64 `json:"total"`
	Date           *string  `json:"date"`
}

// resolveDeliveryCrew checks that the given user id belongs to a user
// holding the Delivery Crew role.
func resolveDeliveryCrew(id uint) (*models.User, error) {
	var crew models.User
	if err := config.DB.Preload("Groups").First(&crew, id).Error; err != nil {
		return nil, errors.New("delivery crew user not found")
	}
	if !crew.IsDeliveryCrew() {
		return nil, errors.New("user '" + crew.Username + "' is not a delivery crew member")
	}
	return &crew, nil
}

func parseOrderDate(s string) (time.Time, error) {
	return time.Parse("2006-01-02", s)
}

// UpdateOrder fully replaces an order's mutable record (manager only).
// All fields are required; the delivery crew assignment must point at a
// user actually holding the role.
func UpdateOrder(c *gin.Context) {
	var order models.Order
	if err := config.DB.First(&order, c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Order not found"})
		return
	}

	var req OrderPutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var owner models.User
	if err := config.DB.First(&owner, *req.UserID).Error; err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Order owner not found"})
		return
	}
	if _, err := resolveDeliveryCrew(*req.DeliveryCrewID); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	date, err := parseOrderDate(*req.Date)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid date, expected YYYY-MM-DD"})
		return
	}

	order.UserID = *req.UserID
	order.DeliveryCrewID = req.DeliveryCrewID
	order.Status = *req.Status
	order.Total = *req.Total
	order.Date = date
	if err := config.DB.Save(&order).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update order"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Order updated", "order": order})
}

// PatchOrder applies a partial update, branching by caller role:
// managers may change any subset of fields; the order's assigned delivery
// crew member may flip status only; everyone else is rejected.
func PatchOrder(c *gin.Context) {
	user := middleware.GetUser(c)

	var order models.Order
	if err := config.DB.First(&order, c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Order not found"})
		return
	}

	var req OrderPatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	switch {
	case user.IsManager():
		patchOrderAsManager(c, &order, &req)
	case user.IsDeliveryCrew():
		if order.DeliveryCrewID == nil || *order.DeliveryCrewID != user.ID {
			c.JSON(http.StatusForbidden, gin.H{"error": "You are not the assigned delivery crew for this order"})
			return
		}
		patchOrderAsCrew(c, &order, &req)
	default:
		c.JSON(http.StatusForbidden, gin.H{"error": "You cannot update this order"})
	}
}

func patchOrderAsManager(c *gin.Context, order *models.Order, req *OrderPatchRequest) {
	if req.UserID != nil {
		var owner models.User
		if err := config.DB.First(&owner, *req.UserID).Error; err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Order owner not found"})
			return
		}
		order.UserID = *req.UserID
	}
	if req.DeliveryCrewID != nil {
		if _, err := resolveDeliveryCrew(*req.DeliveryCrewID); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		order.DeliveryCrewID = req.DeliveryCrewID
	}
	if req.Status != nil {
		if *req.Status {
			if err := statemachine.CanMarkDelivered(order.DeliveryCrewID); err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
		}
		order.Status = *req.Status
	}
	if req.Total != nil {
		order.Total = *req.Total
	}
	if req.Date != nil {
		date, err := parseOrderDate(*req.Date)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid date, expected YYYY-MM-DD"})
			return
		}
		order.Date = date
	}

	if err := config.DB.Save(order).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update order"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Order updated", "order": order})
}

func patchOrderAsCrew(c *gin.Context, order *models.Order, req *OrderPatchRequest) {
	if req.UserID != nil || req.DeliveryCrewID != nil || req.Total != nil || req.Date != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Delivery crew may only update the status field"})
		return
	}
	if req.Status == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No update given"})
		return
	}

	from := statemachine.OrderState(order.Status)
	to := statemachine.OrderState(*req.Status)
	if err := statemachine.CanTransition(from, to, statemachine.ActorDeliveryCrew); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if to == statemachine.StateDelivered {
		if err := statemachine.CanMarkDelivered(order.DeliveryCrewID); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
	}

	order.Status = *req.Status
	if err := config.DB.Save(order).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update order"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Order status updated", "order_id": order.ID, "status": order.Status})
}

// DeleteOrder removes an order and its lines (manager only).
func DeleteOrder(c *gin.Context) {
	var order models.Order
	if err := config.DB.First(&order, c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Order not found"})
		return
	}
	if err := config.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("order_id = ?", order.ID).Delete(&models.OrderItem{}).Error; err != nil {
			return err
		}
		return tx.Delete(&order).Error
	}); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete order"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Order deleted", "order_id": order.ID})
}

// GetStateMachineInfo documents the order lifecycle (public).
func GetStateMachineInfo(c *gin.Context) {
	transitions := statemachine.GetAllTransitions()
	info := make([]gin.H, 0, len(transitions))
	for _, t := range transitions {
		info = append(info, gin.H{"from": t.From.String(), "to": t.To.String(), "actor": t.Actor})
	}
	c.JSON(http.StatusOK, gin.H{
		"state_machine": info,
		"rules":         []string{"DELIVERED requires an assigned delivery crew"},
		"description":   "Order Lifecycle State Machine",
	})
}
