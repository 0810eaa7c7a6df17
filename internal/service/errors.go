package service

import (
	"errors"
	"fmt"

	"github.com/kopiroti/api/internal/database"
)

// Errors returned by the order service.
var (
	ErrEmptyItems           = errors.New("items are required")
	ErrCustomerName         = errors.New("customer_name is required")
	ErrInvalidQuantity      = errors.New("quantity must be > 0")
	ErrInvalidMenuItemID    = errors.New("invalid menu_item_id")
	ErrMenuItemNotFound     = errors.New("menu item not found")
	ErrInvalidTableID       = errors.New("invalid table_id")
	ErrInvalidStatus        = errors.New("invalid status")
	ErrOrderNotFound        = errors.New("order not found")
	ErrOrderNumberConflict  = errors.New("order number conflict, please retry")
	ErrAlreadyPaid          = errors.New("order is already paid")
	ErrOrderNotEditable     = errors.New("order can no longer be edited")
	ErrOrderNotCancellable  = errors.New("order can no longer be cancelled")
	ErrCancelCompleted      = errors.New("cannot cancel a completed order")
	ErrCancelPaidOrder      = errors.New("must refund before cancelling a paid order")
	ErrDeleteCompletedOrder = errors.New("completed orders cannot be deleted")
	ErrStatusConflict       = errors.New("order status changed concurrently")
)

// ItemUnavailableError reports an order line referencing a menu item that is
// currently switched off.
type ItemUnavailableError struct {
	Name string
}

func (e *ItemUnavailableError) Error() string {
	return fmt.Sprintf("menu item %q is not available", e.Name)
}

// InsufficientStockError reports a cabinet food line that asked for more than
// is left. Remaining is the stock level observed when the order was refused.
type InsufficientStockError struct {
	Name      string
	Requested int32
	Remaining int32
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock for %q: requested %d, remaining %d", e.Name, e.Requested, e.Remaining)
}

// TransitionError reports a status change the lifecycle does not allow.
type TransitionError struct {
	From database.OrderStatus
	To   database.OrderStatus
}

func (e *TransitionError) Error() string {
	return fmt.Sprintf("cannot transition order from %s to %s", e.From, e.To)
}
