// Package deliveryrepo provides data transfer objects and mapping functions
// for delivery snapshot persistence. It implements the repository pattern for
// the delivery aggregate, handling the conversion between the domain model and
// the delivery_orders table.
package deliveryrepo

import (
	"time"

	"deliverystate/internal/core/domain/model/delivery"
	"deliverystate/internal/core/domain/model/kernel"

	"github.com/google/uuid"
)

// DeliveryDTO represents the database structure for the delivery snapshot.
// Status and failure reason are stored as their wire names so the rows read
// naturally in SQL; the delivery number carries a unique index because it is
// an external tracking code.
type DeliveryDTO struct {
	ID                    uuid.UUID  `gorm:"type:uuid;primaryKey"`
	OrderID               uuid.UUID  `gorm:"type:uuid;index;not null"`
	CustomerAddressID     uuid.UUID  `gorm:"type:uuid;not null"`
	DeliveryNumber        *string    `gorm:"uniqueIndex"`
	Status                string     `gorm:"index;not null"`
	FailureReason         *string
	EstimatedDeliveryTime *time.Time
	ActualDeliveryTime    *time.Time
	OperatorID            *uuid.UUID `gorm:"type:uuid"`
	OperatorNotes         string
	CreatedAt             time.Time `gorm:"not null"`
	UpdatedAt             time.Time `gorm:"not null"`
}

// TableName specifies the database table name for delivery snapshots.
func (DeliveryDTO) TableName() string {
	return "delivery_orders"
}

// fromDomain converts a delivery aggregate to its database representation.
func fromDomain(aggregate *delivery.Delivery) DeliveryDTO {
	var deliveryNumber *string
	if n := aggregate.DeliveryNumber(); n != "" {
		deliveryNumber = &n
	}

	var failureReason *string
	if reason := aggregate.FailureReason(); reason.IsPresent() {
		name := reason.String()
		failureReason = &name
	}

	var operatorID *uuid.UUID
	if id := aggregate.OperatorID(); id != nil {
		raw := id.Bytes()
		operatorID = &raw
	}

	return DeliveryDTO{
		ID:                    aggregate.ID().Bytes(),
		OrderID:               aggregate.OrderID().Bytes(),
		CustomerAddressID:     aggregate.CustomerAddressID().Bytes(),
		DeliveryNumber:        deliveryNumber,
		Status:                aggregate.Status().String(),
		FailureReason:         failureReason,
		EstimatedDeliveryTime: aggregate.EstimatedDeliveryTime(),
		ActualDeliveryTime:    aggregate.ActualDeliveryTime(),
		OperatorID:            operatorID,
		OperatorNotes:         aggregate.OperatorNotes(),
		CreatedAt:             aggregate.CreatedAt(),
		UpdatedAt:             aggregate.UpdatedAt(),
	}
}

// toDomain converts a database DTO back to a delivery aggregate using
// RestoreDelivery.
func toDomain(dto DeliveryDTO) (*delivery.Delivery, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}

	orderID, err := kernel.UUIDFromBytes(dto.OrderID[:])
	if err != nil {
		return nil, err
	}

	addressID, err := kernel.UUIDFromBytes(dto.CustomerAddressID[:])
	if err != nil {
		return nil, err
	}

	status, err := delivery.StatusFromString(dto.Status)
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

	var deliveryNumber string
	if dto.DeliveryNumber != nil {
		deliveryNumber = *dto.DeliveryNumber
	}

	var operatorID *kernel.UUID
	if dto.OperatorID != nil {
		opID, opErr := kernel.UUIDFromBytes((*dto.OperatorID)[:])
		if opErr != nil {
			return nil, opErr
		}
		operatorID = &opID
	}

	return delivery.RestoreDelivery(
		id,
		orderID,
		addressID,
		deliveryNumber,
		status,
		failureReason,
		dto.EstimatedDeliveryTime,
		dto.ActualDeliveryTime,
		operatorID,
		dto.OperatorNotes,
		dto.CreatedAt,
		dto.UpdatedAt,
	)
}
