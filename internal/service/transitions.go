package service

import "github.com/kopiroti/api/internal/database"

// allowedTransitions is the order lifecycle. A status absent from the map
// (COMPLETED, REJECTED, CANCELLED) is terminal.
var allowedTransitions = map[database.OrderStatus][]database.OrderStatus{
	database.OrderStatusPENDING: {
		database.OrderStatusPAID,
		database.OrderStatusPENDINGAPPROVAL,
		database.OrderStatusCANCELLED,
	},
	database.OrderStatusPENDINGAPPROVAL: {
		database.OrderStatusAPPROVED,
		database.OrderStatusREJECTED,
		database.OrderStatusCANCELLED,
	},
	database.OrderStatusAPPROVED: {
		database.OrderStatusWAITING,
		database.OrderStatusCANCELLED,
	},
	database.OrderStatusPAID: {
		database.OrderStatusWAITING,
		database.OrderStatusCANCELLED,
	},
	database.OrderStatusWAITING: {
		database.OrderStatusCOOKING,
		database.OrderStatusCANCELLED,
	},
	database.OrderStatusCOOKING: {
		database.OrderStatusCOMPLETED,
	},
}

// CanTransition reports whether the lifecycle allows moving from one status
// to another.
func CanTransition(from, to database.OrderStatus) bool {
	for _, next := range allowedTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// ParseStatus validates a client-supplied status string.
func ParseStatus(s string) (database.OrderStatus, error) {
	switch database.OrderStatus(s) {
	case database.OrderStatusPENDING, database.OrderStatusPAID,
		database.OrderStatusPENDINGAPPROVAL, database.OrderStatusAPPROVED,
		database.OrderStatusREJECTED, database.OrderStatusWAITING,
		database.OrderStatusCOOKING, database.OrderStatusCOMPLETED,
		database.OrderStatusCANCELLED:
		return database.OrderStatus(s), nil
	}
	return "", ErrInvalidStatus
}
