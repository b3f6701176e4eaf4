package events

import (
	"encoding/json"
	"log"
	"sync"

	"github.com/gorilla/websocket"
	"github.com/shakecraft/shake-app/models"
)

// Event types
const (
	EventOrderCreated   = "order_created"
	EventOrderCompleted = "order_completed"
	EventOrderSnapshot  = "order_snapshot"
	EventPromoApplied   = "promo_applied"
	EventStaffNotif     = "staff_notification"
)

type Message struct {
	Event string      `json:"event"`
	Data  interface{} `json:"data"`
}

// Hub holds every connected storefront client (staff, admin) keyed by role.
type Hub struct {
	clients map[*websocket.Conn]string
	mutex   sync.Mutex
}

var hub = Hub{
	clients: make(map[*websocket.Conn]string),
}

// RegisterClient adds a connection to the set with its role.
func RegisterClient(conn *websocket.Conn, role string) {
	hub.mutex.Lock()
	defer hub.mutex.Unlock()
	hub.clients[conn] = role
}

// UnregisterClient drops a connection.
func UnregisterClient(conn *websocket.Conn) {
	hub.mutex.Lock()
	defer hub.mutex.Unlock()
	delete(hub.clients, conn)
	conn.Close()
}

// BroadcastOrderCreated announces a new draft order to the counter displays.
func BroadcastOrderCreated(order models.Order) {
	broadcast(Message{
		Event: EventOrderCreated,
		Data:  order,
	})
}

// BroadcastOrderCompleted announces a finalized order.
func BroadcastOrderCompleted(order models.Order) {
	broadcast(Message{
		Event: EventOrderCompleted,
		Data:  order,
	})
}

// BroadcastPromoApplied announces a successful promo validation.
func BroadcastPromoApplied(result interface{}) {
	broadcast(Message{
		Event: EventPromoApplied,
		Data:  result,
	})
}

// BroadcastStaffNotification sends a free-form notice to staff clients.
func BroadcastStaffNotification(message string) {
	broadcast(Message{
		Event: EventStaffNotif,
		Data:  message,
	})
}

// SendOrderSnapshot delivers the current open orders to one freshly
// connected client so its display starts consistent with the floor.
func SendOrderSnapshot(conn *websocket.Conn, orders []models.Order) error {
	data, err := json.Marshal(Message{
		Event: EventOrderSnapshot,
		Data:  orders,
	})
	if err != nil {
		return err
	}
	return conn.WriteMessage(websocket.TextMessage, data)
}

func broadcast(msg Message) {
	hub.mutex.Lock()
	defer hub.mutex.Unlock()

	data, err := json.Marshal(msg)
	if err != nil {
		log.Printf("Error marshaling message: %v", err)
		return
	}

	for conn, role := range hub.clients {
		if err := conn.WriteMessage(websocket.TextMessage, data); err != nil {
			log.Printf("Error sending %s event to %s client: %v", msg.Event, role, err)
			continue
		}
	}
}
