package eventrepo

import (
	"context"

	"deliverystate/internal/core/domain/model/delivery"
	"deliverystate/internal/core/domain/model/kernel"

	"gorm.io/gorm"
)

// GormEventRepository implements ports.EventRepository using GORM.
type GormEventRepository struct {
	db *gorm.DB
}

// NewGormEventRepository creates a new GORM state event repository.
func NewGormEventRepository(db *gorm.DB) *GormEventRepository {
	return &GormEventRepository{db: db}
}

// Add appends an event to the log. There is no Update counterpart.
func (r *GormEventRepository) Add(ctx context.Context, event *delivery.StateEvent) error {
	if err := event.Validate(); err != nil {
		return err
	}

	dto := fromDomain(event)
	return r.db.WithContext(ctx).Create(&dto).Error
}

// ListByDelivery retrieves the delivery's event stream in commit order:
// created_at ascending with id breaking ties.
func (r *GormEventRepository) ListByDelivery(ctx context.Context, deliveryID kernel.UUID) ([]*delivery.StateEvent, error) {
	if err := deliveryID.Validate(); err != nil {
		return nil, err
	}

	var dtos []StateEventDTO
	if err := r.db.WithContext(ctx).
		Order("created_at, id").
		Find(&dtos, "delivery_id = ?", deliveryID.Bytes()).Error; err != nil {
		return nil, err
	}

	events := make([]*delivery.StateEvent, 0, len(dtos))
	for _, dto := range dtos {
		event, err := toDomain(dto)
		if err != nil {
			return nil, err
		}
		events = append(events, event)
	}

	return events, nil
}
