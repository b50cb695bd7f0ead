// Package eventrepo persists the append-only delivery state event log.
// Events are written once and never updated or deleted; the package therefore
// exposes only append and ordered listing.
package eventrepo

import (
	"time"

	"deliverystate/internal/core/domain/model/delivery"
	"deliverystate/internal/core/domain/model/kernel"

	"github.com/google/uuid"
)

// StateEventDTO represents the database structure for one audit event.
type StateEventDTO struct {
	ID            uuid.UUID `gorm:"type:uuid;primaryKey"`
	DeliveryID    uuid.UUID `gorm:"type:uuid;index;not null"`
	FromStatus    string    `gorm:"not null"`
	ToStatus      string    `gorm:"not null"`
	FailureReason *string
	Source        string `gorm:"not null"`
	Description   string
	Metadata      string
	CreatedAt     time.Time `gorm:"index;not null"`
}

// TableName specifies the database table name for state events.
func (StateEventDTO) TableName() string {
	return "delivery_state_events"
}

func fromDomain(event *delivery.StateEvent) StateEventDTO {
	var failureReason *string
	if reason := event.FailureReason(); reason.IsPresent() {
		name := reason.String()
		failureReason = &name
	}

	return StateEventDTO{
		ID:            event.ID().Bytes(),
		DeliveryID:    event.DeliveryID().Bytes(),
		FromStatus:    event.FromStatus().String(),
		ToStatus:      event.ToStatus().String(),
		FailureReason: failureReason,
		Source:        event.Source(),
		Description:   event.Description(),
		Metadata:      event.Metadata(),
		CreatedAt:     event.CreatedAt(),
	}
}

func toDomain(dto StateEventDTO) (*delivery.StateEvent, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}

	deliveryID, err := kernel.UUIDFromBytes(dto.DeliveryID[:])
	if err != nil {
		return nil, err
	}

	fromStatus, err := delivery.StatusFromString(dto.FromStatus)
	if err != nil {
		return nil, err
	}

	toStatus, err := delivery.StatusFromString(dto.ToStatus)
	if err != nil {
		return nil, err
	}

	var reasonName string
	if dto.FailureReason != nil {
		reasonName = *dto.FailureReason
	}
	failureReason, err := delivery.FailureReasonFromString(reasonName)
	if err != nil {
		return nil, err
	}

	return delivery.RestoreStateEvent(
		id,
		deliveryID,
		fromStatus,
		toStatus,
		failureReason,
		dto.Source,
		dto.Description,
		dto.Metadata,
		dto.CreatedAt,
	)
}
