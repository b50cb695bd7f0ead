package queries

import (
	"context"

	"gorm.io/gorm"
)

// GetDeliveriesInStatusQueryHandler lists deliveries by lifecycle status,
// oldest first, so the longest-waiting deliveries lead the operator views.
type GetDeliveriesInStatusQueryHandler struct {
	db *gorm.DB
}

// NewGetDeliveriesInStatusQueryHandler creates a handler for status listings.
func NewGetDeliveriesInStatusQueryHandler(db *gorm.DB) GetDeliveriesInStatusQueryHandler {
	return GetDeliveriesInStatusQueryHandler{db: db}
}

// Handle executes the listing.
func (h GetDeliveriesInStatusQueryHandler) Handle(ctx context.Context, query GetDeliveriesInStatusQuery) ([]DeliveryResponse, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	rows, err := h.db.WithContext(ctx).Raw(`
		SELECT `+deliverySelectColumns+`
		FROM delivery_orders
		WHERE status = ?
		ORDER BY created_at, id
	`, query.Status().String()).Rows()
	if err != nil {
		return nil, err
	}

	return collectDeliveryRows(rows)
}
