package routes

import (
	"littlelemon-api/handlers"
	"littlelemon-api/middleware"

	"github.com/gin-gonic/gin"
)

func SetupRoutes(r *gin.Engine) {
	// ── Public routes ──────────────────────────────────────────────
	public := r.Group("/api")
	{
		// Auth
		public.POST("/auth/register", handlers.Register)
		public.POST("/auth/login", handlers.Login)

		// Menu browsing (no auth needed)
		public.GET("/categories", handlers.ListCategories)
		public.GET("/menu-items", handlers.ListMenuItems)
		public.GET("/menu-items/:id", handlers.GetMenuItem)

		// Order lifecycle info (great for docs/Postman)
		public.GET("/state-machine", handlers.GetStateMachineInfo)
	}

	// ── Authenticated routes ───────────────────────────────────────
	auth := r.Group("/api")
	auth.Use(middleware.AuthRequired())
	{
		auth.GET("/profile", handlers.GetProfile)

		// Cart (own rows only)
		auth.GET("/cart/menu-items", handlers.GetCart)
		auth.POST("/cart/menu-items", handlers.AddToCart)
		auth.DELETE("/cart/menu-items", handlers.ClearCart)

		// Orders
		auth.GET("/orders", handlers.ListOrders)
		auth.POST("/orders", handlers.PlaceOrder)
		auth.GET("/orders/:id", handlers.GetOrderDetail)
		auth.PATCH("/orders/:id", handlers.PatchOrder)
	}

	// ── Manager routes ─────────────────────────────────────────────
	manager := r.Group("/api")
	manager.Use(middleware.AuthRequired(), middleware.ManagerRequired())
	{
		// Catalog management
		manager.POST("/categories", handlers.CreateCategory)
		manager.DELETE("/categories/:id", handlers.DeleteCategory)
		manager.POST("/menu-items", handlers.CreateMenuItem)
		manager.PUT("/menu-items/:id", handlers.UpdateMenuItem)
		manager.PATCH("/menu-items/:id", handlers.PatchMenuItem)
		manager.DELETE("/menu-items/:id", handlers.DeleteMenuItem)

		// Staff role management
		manager.GET("/groups/manager/users", handlers.ListManagers)
		manager.POST("/groups/manager/users", handlers.AssignManager)
		manager.DELETE("/groups/manager/users/:id", handlers.RemoveManager)
		manager.GET("/groups/delivery-crew/users", handlers.ListDeliveryCrew)
		manager.POST("/groups/delivery-crew/users", handlers.AssignDeliveryCrew)
		manager.DELETE("/groups/delivery-crew/users/:id", handlers.RemoveDeliveryCrew)

		// Order lifecycle (full replace and delete stay manager-only)
		manager.PUT("/orders/:id", handlers.UpdateOrder)
		manager.DELETE("/orders/:id", handlers.DeleteOrder)
	}
}
