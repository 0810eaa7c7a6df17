package database

import (
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
)

// OrderStatus values match the CHECK constraint on orders.status.
type OrderStatus string

const (
	OrderStatusPENDING         OrderStatus = "PENDING"
	OrderStatusPAID            OrderStatus = "PAID"
	OrderStatusPENDINGAPPROVAL OrderStatus = "PENDING_APPROVAL"
	OrderStatusAPPROVED        OrderStatus = "APPROVED"
	OrderStatusREJECTED        OrderStatus = "REJECTED"
	OrderStatusWAITING         OrderStatus = "WAITING"
	OrderStatusCOOKING         OrderStatus = "COOKING"
	OrderStatusCOMPLETED       OrderStatus = "COMPLETED"
	OrderStatusCANCELLED       OrderStatus = "CANCELLED"
)

// PaymentStatus values match the CHECK constraint on orders.payment_status.
type PaymentStatus string

const (
	PaymentStatusPENDING PaymentStatus = "PENDING"
	PaymentStatusPARTIAL PaymentStatus = "PARTIAL"
	PaymentStatusPAID    PaymentStatus = "PAID"
	PaymentStatusFAILED  PaymentStatus = "FAILED"
)

type Staff struct {
	ID             uuid.UUID
	Email          string
	HashedPassword string
	FullName       string
	Role           string
	IsActive       bool
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

type CafeTable struct {
	ID        uuid.UUID
	Number    int32
	QrSlug    string
	IsActive  bool
	CreatedAt time.Time
}

type MenuItem struct {
	ID          uuid.UUID
	Name        string
	Description pgtype.Text
	Category    string
	Price       pgtype.Numeric
	IsAvailable bool
	StockQty    pgtype.Int4
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

type Settings struct {
	ID                   int32
	ApprovalMode         string
	AutoClearNormalHours int32
	AutoClearCakeDays    int32
	UpdatedAt            time.Time
}

type Order struct {
	ID                 uuid.UUID
	OrderNumber        string
	CustomerName       string
	CustomerPhone      string
	TableID            pgtype.UUID
	StaffID            pgtype.UUID
	Notes              pgtype.Text
	TotalAmount        pgtype.Numeric
	IsCakeOrder        bool
	DownPaymentAmount  pgtype.Numeric
	DownPaymentDueDate pgtype.Timestamptz
	Status             OrderStatus
	PaymentStatus      PaymentStatus
	PaidAt             pgtype.Timestamptz
	CompletedAt        pgtype.Timestamptz
	AutoCleared        bool
	AutoClearedAt      pgtype.Timestamptz
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

type OrderItem struct {
	ID         uuid.UUID
	OrderID    uuid.UUID
	MenuItemID uuid.UUID
	Quantity   int32
	UnitPrice  pgtype.Numeric
	Subtotal   pgtype.Numeric
	Notes      pgtype.Text
}
