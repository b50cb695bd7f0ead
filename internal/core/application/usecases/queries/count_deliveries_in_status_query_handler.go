package queries

import (
	"context"

	"gorm.io/gorm"
)

// CountDeliveriesInStatusQueryHandler counts deliveries by lifecycle status.
type CountDeliveriesInStatusQueryHandler struct {
	db *gorm.DB
}

// NewCountDeliveriesInStatusQueryHandler creates a handler for status counts.
func NewCountDeliveriesInStatusQueryHandler(db *gorm.DB) CountDeliveriesInStatusQueryHandler {
	return CountDeliveriesInStatusQueryHandler{db: db}
}

// Handle executes the count.
func (h CountDeliveriesInStatusQueryHandler) Handle(ctx context.Context, query CountDeliveriesInStatusQuery) (int64, error) {
	if err := query.Validate(); err != nil {
		return 0, err
	}

	var count int64
	err := h.db.WithContext(ctx).Raw(`
		SELECT count(*)
		FROM delivery_orders
		WHERE status = ?
	`, query.Status().String()).Scan(&count).Error
	if err != nil {
		return 0, err
	}

	return count, nil
}
