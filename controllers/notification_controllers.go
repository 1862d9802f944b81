package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/yeremiapane/restaurant-backoffice/middlewares"
	"github.com/yeremiapane/restaurant-backoffice/notify"
	"github.com/yeremiapane/restaurant-backoffice/utils"
)

type NotificationController struct {
	Hub      *notify.Hub
	upgrader websocket.Upgrader
}

// NewNotificationController accepts websocket upgrades from allowedOrigin,
// or from anywhere when it is "*" or empty.
func NewNotificationController(hub *notify.Hub, allowedOrigin string) *NotificationController {
	return &NotificationController{
		Hub: hub,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				if allowedOrigin == "" || allowedOrigin == "*" {
					return true
				}
				return r.Header.Get("Origin") == allowedOrigin
			},
		},
	}
}

// ServeWS streams toasts for the signed-in user until the socket closes.
func (nc *NotificationController) ServeWS(c *gin.Context) {
	userID := middlewares.CurrentUserID(c)
	if userID == 0 {
		c.AbortWithStatus(http.StatusUnauthorized)
		return
	}

	ws, err := nc.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		utils.ErrorLogger.Errorf("Websocket upgrade failed: %v", err)
		return
	}

	nc.Hub.Register(ws, userID)
	defer nc.Hub.Unregister(ws)

	// Baca pesan sampai client disconnect
	for {
		if _, _, err := ws.ReadMessage(); err != nil {
			break
		}
	}
}
