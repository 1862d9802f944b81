package router

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yeremiapane/restaurant-backoffice/controllers"
	"github.com/yeremiapane/restaurant-backoffice/media"
	"github.com/yeremiapane/restaurant-backoffice/middlewares"
	"github.com/yeremiapane/restaurant-backoffice/models"
	"github.com/yeremiapane/restaurant-backoffice/notify"
	"github.com/yeremiapane/restaurant-backoffice/panel"
	"github.com/yeremiapane/restaurant-backoffice/services"
	"github.com/yeremiapane/restaurant-backoffice/utils"
	"gorm.io/gorm"
)

// Deps is everything the HTTP layer needs from main.
type Deps struct {
	DB         *gorm.DB
	Services   *services.Set
	Sessions   *panel.Sessions
	Dashboard  controllers.SummaryLoader
	Hub        *notify.Hub
	Tokens     *utils.TokenManager
	Blacklist  *utils.Blacklist
	Uploader   media.Uploader
	CORSOrigin string
	// LoginLimiter defaults to 5 attempts per minute per IP.
	LoginLimiter *middlewares.RateLimiter
}

func SetupRouter(d Deps) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())

	r.Use(middlewares.SecurityHeaders())
	r.Use(middlewares.CORSMiddleware(d.CORSOrigin))
	r.Use(middlewares.LoggerMiddleware())

	// Inisialisasi controller
	userCtrl := controllers.NewUserController(d.DB, d.Tokens, d.Blacklist, d.Sessions)
	menuCtrl := controllers.NewMenuItemController(d.Services.MenuItems, d.Sessions, d.Uploader)
	orderCtrl := controllers.NewOrderController(d.Services.Orders, d.Services.OrderItems, d.Sessions)
	orderItemCtrl := controllers.NewOrderItemController(d.Services.OrderItems)
	inventoryCtrl := controllers.NewInventoryController(d.Services.Inventory, d.Sessions)
	dashboardCtrl := controllers.NewDashboardController(d.Dashboard)
	notificationCtrl := controllers.NewNotificationController(d.Hub, d.CORSOrigin)

	// ----------------------------------------------------------------
	//                      PUBLIC ROUTES
	// ----------------------------------------------------------------
	r.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})

	loginLimiter := d.LoginLimiter
	if loginLimiter == nil {
		loginLimiter = middlewares.NewStrictRateLimiter()
	}
	r.POST("/login", loginLimiter.RateLimit(), userCtrl.Login)

	// ----------------------------------------------------------------
	//                      AUTHENTICATED ROUTES
	// ----------------------------------------------------------------
	auth := r.Group("/admin")
	auth.Use(middlewares.AuthMiddleware(d.Tokens, d.Blacklist))
	auth.Use(middlewares.RequireRoles(models.StaffRoles...))

	auth.GET("/profile", userCtrl.GetProfile)
	auth.POST("/logout", userCtrl.Logout)
	auth.POST("/users", middlewares.RequireRoles(models.RoleAdmin), userCtrl.Register)

	// MENU ITEMS
	auth.GET("/menu-items", menuCtrl.ListMenuItems)
	auth.POST("/menu-items", menuCtrl.CreateMenuItem)
	auth.POST("/menu-items/bulk-delete", menuCtrl.BulkDeleteMenuItems)
	auth.GET("/menu-items/:id", menuCtrl.GetMenuItem)
	auth.PATCH("/menu-items/:id", menuCtrl.UpdateMenuItem)
	auth.DELETE("/menu-items/:id", menuCtrl.DeleteMenuItem)
	auth.POST("/menu-items/:id/image", menuCtrl.UploadImage)

	// ORDERS
	auth.GET("/orders", orderCtrl.ListOrders)
	auth.POST("/orders", orderCtrl.CreateOrder)
	auth.GET("/orders/:id", orderCtrl.GetOrder)
	auth.PATCH("/orders/:id", orderCtrl.UpdateOrder)
	auth.DELETE("/orders/:id", orderCtrl.DeleteOrder)
	auth.PATCH("/orders/:id/status", orderCtrl.UpdateOrderStatus)
	auth.GET("/orders/:id/items", orderCtrl.ListOrderItems)
	auth.POST("/orders/:id/items", orderCtrl.AddOrderItem)

	// ORDER ITEMS
	auth.PATCH("/order-items/:id", orderItemCtrl.UpdateOrderItem)
	auth.DELETE("/order-items/:id", orderItemCtrl.DeleteOrderItem)

	// INVENTORY
	auth.GET("/inventory", inventoryCtrl.ListInventory)
	auth.POST("/inventory", inventoryCtrl.CreateInventoryItem)
	auth.GET("/inventory/:id", inventoryCtrl.GetInventoryItem)
	auth.PATCH("/inventory/:id", inventoryCtrl.UpdateInventoryItem)
	auth.DELETE("/inventory/:id", inventoryCtrl.DeleteInventoryItem)

	auth.GET("/dashboard", dashboardCtrl.GetDashboard)

	// WebSocket toast stream, token lewat ?token=
	auth.GET("/notifications/ws", notificationCtrl.ServeWS)

	return r
}
