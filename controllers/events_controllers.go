package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/shakecraft/shake-app/events"
	"github.com/shakecraft/shake-app/models"
	"github.com/shakecraft/shake-app/utils"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// EventsHandler -> WebSocket endpoint for counter displays
func EventsHandler(c *gin.Context) {
	roleInterface, exists := c.Get("role")
	if !exists {
		c.AbortWithStatus(http.StatusUnauthorized)
		return
	}
	role := roleInterface.(string)

	if role != "staff" && role != "admin" {
		c.AbortWithStatus(http.StatusForbidden)
		return
	}

	ws, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		return
	}

	events.RegisterClient(ws, role)

	// New clients start from the current open orders, then follow the
	// broadcast stream.
	if db := utils.GetDB(); db != nil {
		var open []models.Order
		if err := db.Where("status = ?", models.OrderStatusDraft).
			Order("created_at").Find(&open).Error; err != nil {
			utils.ErrorLogger.Printf("Error loading order snapshot: %v", err)
		} else if err := events.SendOrderSnapshot(ws, open); err != nil {
			utils.ErrorLogger.Printf("Error sending order snapshot: %v", err)
		}
	}

	for {
		_, _, err := ws.ReadMessage()
		if err != nil {
			break
		}
	}

	events.UnregisterClient(ws)
}
