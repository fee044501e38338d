package handlers_test

import (
	"fmt"
	"net/http"
	"testing"

	"littlelemon-api/config"
	"littlelemon-api/models"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestPlaceOrderFromCart(t *testing.T) {
	r := setupRouter(t)
	appetizers := createCategory(t, "appetizers", "Appetizers")
	desserts := createCategory(t, "desserts", "Desserts")
	createMenuItem(t, "Greek salad", 12.99, appetizers.ID)
	createMenuItem(t, "Lemon cake", 5.00, desserts.ID)
	user, token := createUser(t, "alice")

	addCartLine(t, r, token, "Greek salad", 2)
	addCartLine(t, r, token, "Lemon cake", 1)

	w := doRequest(t, r, http.MethodPost, "/api/orders", token, nil)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var order models.Order
	require.NoError(t, config.DB.Preload("Items").Where("user_id = ?", user.ID).First(&order).Error)
	assert.InDelta(t, 30.98, order.Total, 0.001)
	assert.False(t, order.Status)
	assert.Nil(t, order.DeliveryCrewID)
	require.Len(t, order.Items, 2)

	lineTotals := map[int]float64{2: 25.98, 1: 5.00}
	for _, item := range order.Items {
		expected, ok := lineTotals[item.Quantity]
		require.True(t, ok)
		assert.InDelta(t, expected, item.Price, 0.001)
		assert.InDelta(t, expected, item.UnitPrice*float64(item.Quantity), 0.001)
	}

	// Cart must be consumed by the same transaction.
	var cartCount int64
	config.DB.Model(&models.Cart{}).Where("user_id = ?", user.ID).Count(&cartCount)
	assert.EqualValues(t, 0, cartCount)
}

func TestPlaceOrderEmptyCart(t *testing.T) {
	r := setupRouter(t)
	_, token := createUser(t, "alice")

	w := doRequest(t, r, http.MethodPost, "/api/orders", token, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	var count int64
	config.DB.Model(&models.Order{}).Count(&count)
	assert.EqualValues(t, 0, count)
}

func TestPlaceOrderRivalCheckoutConsumesCartOnce(t *testing.T) {
	r := setupRouter(t)
	category := createCategory(t, "mains", "Mains")
	createMenuItem(t, "Pasta", 14.25, category.ID)
	user, token := createUser(t, "alice")

	addCartLine(t, r, token, "Pasta", 2)

	// Simulate a rival checkout winning the race: right before the order
	// header is inserted, the cart rows vanish inside the same transaction,
	// exactly as if a concurrent request had already consumed them.
	stole := false
	err := config.DB.Callback().Create().Before("gorm:create").Register("rival_checkout", func(tx *gorm.DB) {
		if stole {
			return
		}
		if _, ok := tx.Statement.Dest.(*models.Order); !ok {
			return
		}
		stole = true
		tx.Session(&gorm.Session{NewDB: true}).Where("user_id = ?", user.ID).Delete(&models.Cart{})
	})
	require.NoError(t, err)

	// The loser rolls everything back and reports the conflict.
	w := doRequest(t, r, http.MethodPost, "/api/orders", token, nil)
	assert.Equal(t, http.StatusConflict, w.Code, w.Body.String())

	var orderCount int64
	config.DB.Model(&models.Order{}).Count(&orderCount)
	assert.EqualValues(t, 0, orderCount)

	// The rollback restored the cart, so the retry succeeds — and exactly
	// one order ever comes out of this cart's contents.
	var cartCount int64
	config.DB.Model(&models.Cart{}).Where("user_id = ?", user.ID).Count(&cartCount)
	require.EqualValues(t, 1, cartCount)

	w = doRequest(t, r, http.MethodPost, "/api/orders", token, nil)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	config.DB.Model(&models.Order{}).Count(&orderCount)
	assert.EqualValues(t, 1, orderCount)

	var order models.Order
	require.NoError(t, config.DB.Where("user_id = ?", user.ID).First(&order).Error)
	assert.InDelta(t, 28.50, order.Total, 0.001)
}

func TestOrderItemsFrozenAgainstMenuChanges(t *testing.T) {
	r := setupRouter(t)
	category := createCategory(t, "appetizers", "Appetizers")
	item := createMenuItem(t, "Greek salad", 12.99, category.ID)
	user, token := createUser(t, "alice")

	addCartLine(t, r, token, "Greek salad", 2)
	w := doRequest(t, r, http.MethodPost, "/api/orders", token, nil)
	require.Equal(t, http.StatusCreated, w.Code)

	require.NoError(t, config.DB.Model(item).Update("price", 20.00).Error)

	var line models.OrderItem
	require.NoError(t, config.DB.
		Joins("JOIN orders ON orders.id = order_items.order_id").
		Where("orders.user_id = ?", user.ID).
		First(&line).Error)
	assert.InDelta(t, 12.99, line.UnitPrice, 0.001)
	assert.InDelta(t, 25.98, line.Price, 0.001)
}

// placeOrderFor seeds a one-line cart and checks it out, returning the order id.
func placeOrderFor(t *testing.T, r *gin.Engine, token, itemTitle string) uint {
	t.Helper()
	addCartLine(t, r, token, itemTitle, 1)
	w := doRequest(t, r, http.MethodPost, "/api/orders", token, nil)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	body := decodeBody(t, w)
	order := body["order"].(map[string]any)
	return uint(order["id"].(float64))
}

func TestOrderListVisibility(t *testing.T) {
	r := setupRouter(t)
	category := createCategory(t, "mains", "Mains")
	createMenuItem(t, "Pasta", 14.25, category.ID)
	_, aliceToken := createUser(t, "alice")
	_, bobToken := createUser(t, "bob")
	_, managerToken := createUser(t, "mgr", models.GroupManager)

	placeOrderFor(t, r, aliceToken, "Pasta")
	addCartLine(t, r, bobToken, "Pasta", 1)
	w := doRequest(t, r, http.MethodPost, "/api/orders", bobToken, nil)
	require.Equal(t, http.StatusCreated, w.Code)

	w = doRequest(t, r, http.MethodGet, "/api/orders", aliceToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.EqualValues(t, 1, decodeBody(t, w)["count"])

	w = doRequest(t, r, http.MethodGet, "/api/orders", managerToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.EqualValues(t, 2, decodeBody(t, w)["count"])
}

func TestOrderListSearchAndFilters(t *testing.T) {
	r := setupRouter(t)
	category := createCategory(t, "mains", "Mains")
	createMenuItem(t, "Pasta", 14.25, category.ID)
	createMenuItem(t, "Grilled fish", 21.50, category.ID)
	_, aliceToken := createUser(t, "alice")
	_, bobToken := createUser(t, "bob")
	_, managerToken := createUser(t, "mgr", models.GroupManager)

	placeOrderFor(t, r, aliceToken, "Pasta")
	placeOrderFor(t, r, bobToken, "Grilled fish")

	w := doRequest(t, r, http.MethodGet, "/api/orders?search=fish", managerToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.EqualValues(t, 1, decodeBody(t, w)["count"])

	w = doRequest(t, r, http.MethodGet, "/api/orders?search=alice", managerToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.EqualValues(t, 1, decodeBody(t, w)["count"])

	w = doRequest(t, r, http.MethodGet, "/api/orders?status=1", managerToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.EqualValues(t, 0, decodeBody(t, w)["count"])
}

func TestGetOrderDetailHidesExistence(t *testing.T) {
	r := setupRouter(t)
	category := createCategory(t, "mains", "Mains")
	createMenuItem(t, "Pasta", 14.25, category.ID)
	_, aliceToken := createUser(t, "alice")
	_, strangerToken := createUser(t, "mallory")
	_, managerToken := createUser(t, "mgr", models.GroupManager)
	_, crewToken := createUser(t, "dave", models.GroupDeliveryCrew)

	orderID := placeOrderFor(t, r, aliceToken, "Pasta")
	path := fmt.Sprintf("/api/orders/%d", orderID)

	assert.Equal(t, http.StatusOK, doRequest(t, r, http.MethodGet, path, aliceToken, nil).Code)
	assert.Equal(t, http.StatusOK, doRequest(t, r, http.MethodGet, path, managerToken, nil).Code)
	assert.Equal(t, http.StatusOK, doRequest(t, r, http.MethodGet, path, crewToken, nil).Code)

	// 404, not 403: unauthorized callers cannot learn the order exists.
	assert.Equal(t, http.StatusNotFound, doRequest(t, r, http.MethodGet, path, strangerToken, nil).Code)
}

func TestPatchOrderAsManager(t *testing.T) {
	r := setupRouter(t)
	category := createCategory(t, "mains", "Mains")
	createMenuItem(t, "Pasta", 14.25, category.ID)
	_, aliceToken := createUser(t, "alice")
	crew, _ := createUser(t, "bob", models.GroupDeliveryCrew)
	_, managerToken := createUser(t, "mgr", models.GroupManager)

	orderID := placeOrderFor(t, r, aliceToken, "Pasta")
	path := fmt.Sprintf("/api/orders/%d", orderID)

	// Delivered with no crew assigned is always rejected.
	w := doRequest(t, r, http.MethodPatch, path, managerToken, gin.H{"status": true})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// Assigning crew and delivering in one patch succeeds.
	w = doRequest(t, r, http.MethodPatch, path, managerToken, gin.H{
		"delivery_crew_id": crew.ID,
		"status":           true,
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var order models.Order
	require.NoError(t, config.DB.First(&order, orderID).Error)
	assert.True(t, order.Status)
	require.NotNil(t, order.DeliveryCrewID)
	assert.Equal(t, crew.ID, *order.DeliveryCrewID)
}

func TestPatchOrderRejectsNonCrewAssignment(t *testing.T) {
	r := setupRouter(t)
	category := createCategory(t, "mains", "Mains")
	createMenuItem(t, "Pasta", 14.25, category.ID)
	_, aliceToken := createUser(t, "alice")
	notCrew, _ := createUser(t, "carl")
	_, managerToken := createUser(t, "mgr", models.GroupManager)

	orderID := placeOrderFor(t, r, aliceToken, "Pasta")
	w := doRequest(t, r, http.MethodPatch, fmt.Sprintf("/api/orders/%d", orderID), managerToken, gin.H{
		"delivery_crew_id": notCrew.ID,
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestPatchOrderAsDeliveryCrew(t *testing.T) {
	r := setupRouter(t)
	category := createCategory(t, "mains", "Mains")
	createMenuItem(t, "Pasta", 14.25, category.ID)
	_, aliceToken := createUser(t, "alice")
	crew, crewToken := createUser(t, "bob", models.GroupDeliveryCrew)
	_, otherCrewToken := createUser(t, "dave", models.GroupDeliveryCrew)
	_, managerToken := createUser(t, "mgr", models.GroupManager)

	orderID := placeOrderFor(t, r, aliceToken, "Pasta")
	path := fmt.Sprintf("/api/orders/%d", orderID)

	// Unassigned crew members cannot touch the order.
	w := doRequest(t, r, http.MethodPatch, path, crewToken, gin.H{"status": true})
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = doRequest(t, r, http.MethodPatch, path, managerToken, gin.H{"delivery_crew_id": crew.ID})
	require.Equal(t, http.StatusOK, w.Code)

	// Assigned crew may flip status only.
	w = doRequest(t, r, http.MethodPatch, path, crewToken, gin.H{"status": true, "total": 1.00})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doRequest(t, r, http.MethodPatch, path, crewToken, gin.H{})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doRequest(t, r, http.MethodPatch, path, crewToken, gin.H{"status": true})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	// A different crew member still cannot act on it.
	w = doRequest(t, r, http.MethodPatch, path, otherCrewToken, gin.H{"status": false})
	assert.Equal(t, http.StatusForbidden, w.Code)

	// Crew cannot reverse a delivery.
	w = doRequest(t, r, http.MethodPatch, path, crewToken, gin.H{"status": false})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestPatchOrderAsCustomerForbidden(t *testing.T) {
	r := setupRouter(t)
	category := createCategory(t, "mains", "Mains")
	createMenuItem(t, "Pasta", 14.25, category.ID)
	_, aliceToken := createUser(t, "alice")

	orderID := placeOrderFor(t, r, aliceToken, "Pasta")
	w := doRequest(t, r, http.MethodPatch, fmt.Sprintf("/api/orders/%d", orderID), aliceToken, gin.H{"status": true})
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestPutOrderFullReplace(t *testing.T) {
	r := setupRouter(t)
	category := createCategory(t, "mains", "Mains")
	createMenuItem(t, "Pasta", 14.25, category.ID)
	owner, aliceToken := createUser(t, "alice")
	crew, _ := createUser(t, "bob", models.GroupDeliveryCrew)
	_, managerToken := createUser(t, "mgr", models.GroupManager)

	orderID := placeOrderFor(t, r, aliceToken, "Pasta")
	path := fmt.Sprintf("/api/orders/%d", orderID)

	// Non-managers are rejected outright.
	w := doRequest(t, r, http.MethodPut, path, aliceToken, gin.H{})
	assert.Equal(t, http.StatusForbidden, w.Code)

	// Full replace requires every field.
	w = doRequest(t, r, http.MethodPut, path, managerToken, gin.H{"status": true})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doRequest(t, r, http.MethodPut, path, managerToken, gin.H{
		"user_id":          owner.ID,
		"delivery_crew_id": crew.ID,
		"status":           true,
		"total":            14.25,
		"date":             "2026-08-28",
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var order models.Order
	require.NoError(t, config.DB.First(&order, orderID).Error)
	assert.True(t, order.Status)
	assert.InDelta(t, 14.25, order.Total, 0.001)
	assert.Equal(t, "2026-08-28", order.Date.Format("2006-01-02"))
}

func TestDeleteOrder(t *testing.T) {
	r := setupRouter(t)
	category := createCategory(t, "mains", "Mains")
	createMenuItem(t, "Pasta", 14.25, category.ID)
	_, aliceToken := createUser(t, "alice")
	_, managerToken := createUser(t, "mgr", models.GroupManager)

	orderID := placeOrderFor(t, r, aliceToken, "Pasta")
	path := fmt.Sprintf("/api/orders/%d", orderID)

	w := doRequest(t, r, http.MethodDelete, path, aliceToken, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = doRequest(t, r, http.MethodDelete, path, managerToken, nil)
	require.Equal(t, http.StatusOK, w.Code)

	var items int64
	config.DB.Model(&models.OrderItem{}).Where("order_id = ?", orderID).Count(&items)
	assert.EqualValues(t, 0, items)

	w = doRequest(t, r, http.MethodGet, path, managerToken, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}
