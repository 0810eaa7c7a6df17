package ws

import (
	"encoding/json"
	"log"
)

// OrderNotifier adapts the hub to the order service's Notifier interface.
type OrderNotifier struct {
	hub *Hub
}

func NewOrderNotifier(hub *Hub) *OrderNotifier {
	return &OrderNotifier{hub: hub}
}

// Publish marshals the payload and hands it to the hub. A payload that does
// not serialize is logged and dropped; an order never fails because a
// dashboard update could not be sent.
func (n *OrderNotifier) Publish(event string, payload any) {
	data, err := json.Marshal(payload)
	if err != nil {
		log.Printf("ERROR: marshal %s event: %v", event, err)
		return
	}
	n.hub.Broadcast(Event{Type: event, Payload: data})
}
