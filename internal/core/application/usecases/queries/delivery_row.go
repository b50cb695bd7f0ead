package queries

import (
	"database/sql"

	"deliverystate/internal/core/domain/model/delivery"
	"deliverystate/internal/core/domain/model/kernel"

	"github.com/google/uuid"
)

// deliverySelectColumns is the column list every delivery query selects, in
// the order scanDeliveryRow expects.
const deliverySelectColumns = `
	id,
	order_id,
	customer_address_id,
	delivery_number,
	status,
	failure_reason,
	estimated_delivery_time,
	actual_delivery_time,
	operator_id,
	operator_notes,
	created_at,
	updated_at`

func scanDeliveryRow(rows *sql.Rows) (DeliveryResponse, error) {
	var (
		id             uuid.UUID
		orderID        uuid.UUID
		addressID      uuid.UUID
		deliveryNumber sql.NullString
		status         string
		failureReason  sql.NullString
		estimated      sql.NullTime
		actual         sql.NullTime
		operatorID     uuid.NullUUID
		operatorNotes  sql.NullString
		createdAt      sql.NullTime
		updatedAt      sql.NullTime
	)

	if err := rows.Scan(
		&id,
		&orderID,
		&addressID,
		&deliveryNumber,
		&status,
		&failureReason,
		&estimated,
		&actual,
		&operatorID,
		&operatorNotes,
		&createdAt,
		&updatedAt,
	); err != nil {
		return DeliveryResponse{}, err
	}

	resp := DeliveryResponse{
		DeliveryNumber: deliveryNumber.String,
		OperatorNotes:  operatorNotes.String,
		CreatedAt:      createdAt.Time,
		UpdatedAt:      updatedAt.Time,
	}

	var err error
	if resp.ID, err = kernel.UUIDFromBytes(id[:]); err != nil {
		return DeliveryResponse{}, err
	}
	if resp.OrderID, err = kernel.UUIDFromBytes(orderID[:]); err != nil {
		return DeliveryResponse{}, err
	}
	if resp.CustomerAddressID, err = kernel.UUIDFromBytes(addressID[:]); err != nil {
		return DeliveryResponse{}, err
	}

	if resp.Status, err = delivery.StatusFromString(status); err != nil {
		return DeliveryResponse{}, err
	}
	if resp.FailureReason, err = delivery.FailureReasonFromString(failureReason.String); err != nil {
		return DeliveryResponse{}, err
	}

	if estimated.Valid {
		t := estimated.Time
		resp.EstimatedDeliveryTime = &t
	}
	if actual.Valid {
		t := actual.Time
		resp.ActualDeliveryTime = &t
	}
	if operatorID.Valid {
		opID, opErr := kernel.UUIDFromBytes(operatorID.UUID[:])
		if opErr != nil {
			return DeliveryResponse{}, opErr
		}
		resp.OperatorID = &opID
	}

	return resp, nil
}

func collectDeliveryRows(rows *sql.Rows) ([]DeliveryResponse, error) {
	defer rows.Close()

	deliveries := make([]DeliveryResponse, 0)
	for rows.Next() {
		resp, err := scanDeliveryRow(rows)
		if err != nil {
			return nil, err
		}
		deliveries = append(deliveries, resp)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return deliveries, nil
}
