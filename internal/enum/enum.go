package enum

// Order and payment statuses live as typed strings in internal/database;
// this file holds the plain-string groups consumed by services and handlers.

// ── Business policy (stored in settings) ──

const (
	ApprovalModeDirect           = "DIRECT"
	ApprovalModeRequiresApproval = "REQUIRES_APPROVAL"
)

// ── Staff roles (CHECK constrained in DB) ──

const (
	StaffRoleAdmin   = "ADMIN"
	StaffRoleCashier = "CASHIER"
	StaffRoleKitchen = "KITCHEN"
)

// ── Menu categories (CHECK constrained in DB) ──
// CABINET_FOOD is the bounded-stock category: its items carry a stock_qty
// that order creation decrements. CAKE items trigger down-payment rules.

const (
	CategoryCoffee      = "COFFEE"
	CategoryDrink       = "DRINK"
	CategoryCabinetFood = "CABINET_FOOD"
	CategoryCake        = "CAKE"
)

// ── Broadcast event kinds ──

const (
	EventOrderCreated        = "order.created"
	EventOrderUpdated        = "order.updated"
	EventOrderStatusChanged  = "order.statusChanged"
	EventOrderPaymentUpdated = "order.paymentUpdated"
	EventOrderDeleted        = "order.deleted"
)
