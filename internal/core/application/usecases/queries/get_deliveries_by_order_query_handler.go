package queries

import (
	"context"

	"gorm.io/gorm"
)

// GetDeliveriesByOrderQueryHandler lists an order's deliveries from the
// database, oldest first.
type GetDeliveriesByOrderQueryHandler struct {
	db *gorm.DB
}

// NewGetDeliveriesByOrderQueryHandler creates a handler for per-order
// delivery listings.
func NewGetDeliveriesByOrderQueryHandler(db *gorm.DB) GetDeliveriesByOrderQueryHandler {
	return GetDeliveriesByOrderQueryHandler{db: db}
}

// Handle executes the listing. An order with no deliveries yields an empty
// slice, not an error.
func (h GetDeliveriesByOrderQueryHandler) Handle(ctx context.Context, query GetDeliveriesByOrderQuery) ([]DeliveryResponse, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	rows, err := h.db.WithContext(ctx).Raw(`
		SELECT `+deliverySelectColumns+`
		FROM delivery_orders
		WHERE order_id = ?
		ORDER BY created_at, id
	`, query.OrderID().Bytes()).Rows()
	if err != nil {
		return nil, err
	}

	return collectDeliveryRows(rows)
}
