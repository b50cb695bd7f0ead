package queries

import (
	"context"

	"deliverystate/internal/pkg/errs"

	"gorm.io/gorm"
)

// GetDeliveryQueryHandler reads one delivery snapshot from the database.
// Reads always reflect the latest committed transition: the snapshot row is
// only ever written inside the same transaction as its audit event.
type GetDeliveryQueryHandler struct {
	db *gorm.DB
}

// NewGetDeliveryQueryHandler creates a handler for snapshot lookups.
// Requires a GORM database connection for query execution.
func NewGetDeliveryQueryHandler(db *gorm.DB) GetDeliveryQueryHandler {
	return GetDeliveryQueryHandler{db: db}
}

// Handle executes the lookup. Returns ObjectNotFoundError for unknown ids.
func (h GetDeliveryQueryHandler) Handle(ctx context.Context, query GetDeliveryQuery) (DeliveryResponse, error) {
	if err := query.Validate(); err != nil {
		return DeliveryResponse{}, err
	}

	rows, err := h.db.WithContext(ctx).Raw(`
		SELECT `+deliverySelectColumns+`
		FROM delivery_orders
		WHERE id = ?
	`, query.DeliveryID().Bytes()).Rows()
	if err != nil {
		return DeliveryResponse{}, err
	}

	deliveries, err := collectDeliveryRows(rows)
	if err != nil {
		return DeliveryResponse{}, err
	}

	if len(deliveries) == 0 {
		return DeliveryResponse{}, errs.NewObjectNotFoundError("deliveryID", query.DeliveryID())
	}

	return deliveries[0], nil
}
