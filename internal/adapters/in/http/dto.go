package http

import (
	"time"

	"deliverystate/internal/core/application/usecases/commands"
	"deliverystate/internal/core/application/usecases/queries"
	"deliverystate/internal/core/domain/model/delivery"
	"deliverystate/internal/core/domain/model/kernel"
)

// ErrorResponse is the JSON body returned for every failed request.
type ErrorResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// CreateDeliveryRequest is the body of POST /api/v1/delivery.
type CreateDeliveryRequest struct {
	OrderID               string     `json:"order_id"`
	CustomerAddressID     string     `json:"customer_address_id"`
	EstimatedDeliveryTime *time.Time `json:"estimated_delivery_time,omitempty"`
}

// UpdateDeliveryRequest is the body of PATCH /api/v1/delivery/:id.
// Status drives a lifecycle transition; delivery_number assigns the carrier
// number. Either may be sent alone or both together.
type UpdateDeliveryRequest struct {
	Status         *string `json:"status,omitempty"`
	FailureReason  *string `json:"failure_reason,omitempty"`
	DeliveryNumber *string `json:"delivery_number,omitempty"`
	Source         *string `json:"source,omitempty"`
	Description    string  `json:"description,omitempty"`
	Metadata       string  `json:"metadata,omitempty"`
}

// OperatorActionRequest is the body of POST /api/v1/operator/delivery/:id/action.
type OperatorActionRequest struct {
	Action        string  `json:"action"`
	Notes         string  `json:"notes,omitempty"`
	FailureReason *string `json:"failure_reason,omitempty"`
	NewAddressID  *string `json:"new_address_id,omitempty"`
}

// OperatorNotesRequest is the body of POST /api/v1/operator/delivery/:id/notes.
type OperatorNotesRequest struct {
	Notes string `json:"notes"`
}

// DeliveryResponse is the JSON projection of a delivery snapshot.
type DeliveryResponse struct {
	ID                    string     `json:"id"`
	OrderID               string     `json:"order_id"`
	CustomerAddressID     string     `json:"customer_address_id"`
	DeliveryNumber        *string    `json:"delivery_number"`
	Status                string     `json:"status"`
	FailureReason         *string    `json:"failure_reason"`
	EstimatedDeliveryTime *time.Time `json:"estimated_delivery_time"`
	ActualDeliveryTime    *time.Time `json:"actual_delivery_time"`
	OperatorID            *string    `json:"operator_id,omitempty"`
	OperatorNotes         string     `json:"operator_notes,omitempty"`
	CreatedAt             time.Time  `json:"created_at"`
	UpdatedAt             time.Time  `json:"updated_at"`
}

// StateEventResponse is the JSON projection of one audit event.
type StateEventResponse struct {
	ID            string    `json:"id"`
	DeliveryID    string    `json:"delivery_id"`
	FromStatus    string    `json:"from_status"`
	ToStatus      string    `json:"to_status"`
	FailureReason *string   `json:"failure_reason"`
	Source        string    `json:"source"`
	Description   string    `json:"description,omitempty"`
	Metadata      string    `json:"metadata,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
}

// OperatorActionResponse reports what an operator action did.
type OperatorActionResponse struct {
	DeliveryID string               `json:"delivery_id"`
	Action     string               `json:"action"`
	Status     string               `json:"status"`
	Timestamp  time.Time            `json:"timestamp"`
	Notes      string               `json:"notes,omitempty"`
	Events     []StateEventResponse `json:"events"`
}

func failureReasonJSON(reason delivery.FailureReason) *string {
	if !reason.IsPresent() {
		return nil
	}
	s := reason.String()
	return &s
}

func optionalString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func optionalUUIDJSON(id *kernel.UUID) *string {
	if id == nil {
		return nil
	}
	s := id.String()
	return &s
}

func deliveryResponseFromQuery(row queries.DeliveryResponse) DeliveryResponse {
	return DeliveryResponse{
		ID:                    row.ID.String(),
		OrderID:               row.OrderID.String(),
		CustomerAddressID:     row.CustomerAddressID.String(),
		DeliveryNumber:        optionalString(row.DeliveryNumber),
		Status:                row.Status.String(),
		FailureReason:         failureReasonJSON(row.FailureReason),
		EstimatedDeliveryTime: row.EstimatedDeliveryTime,
		ActualDeliveryTime:    row.ActualDeliveryTime,
		OperatorID:            optionalUUIDJSON(row.OperatorID),
		OperatorNotes:         row.OperatorNotes,
		CreatedAt:             row.CreatedAt,
		UpdatedAt:             row.UpdatedAt,
	}
}

func deliveryResponseFromAggregate(aggregate *delivery.Delivery) DeliveryResponse {
	return DeliveryResponse{
		ID:                    aggregate.ID().String(),
		OrderID:               aggregate.OrderID().String(),
		CustomerAddressID:     aggregate.CustomerAddressID().String(),
		DeliveryNumber:        optionalString(aggregate.DeliveryNumber()),
		Status:                aggregate.Status().String(),
		FailureReason:         failureReasonJSON(aggregate.FailureReason()),
		EstimatedDeliveryTime: aggregate.EstimatedDeliveryTime(),
		ActualDeliveryTime:    aggregate.ActualDeliveryTime(),
		OperatorID:            optionalUUIDJSON(aggregate.OperatorID()),
		OperatorNotes:         aggregate.OperatorNotes(),
		CreatedAt:             aggregate.CreatedAt(),
		UpdatedAt:             aggregate.UpdatedAt(),
	}
}

func deliveryResponsesFromQuery(rows []queries.DeliveryResponse) []DeliveryResponse {
	response := make([]DeliveryResponse, len(rows))
	for i, row := range rows {
		response[i] = deliveryResponseFromQuery(row)
	}
	return response
}

func stateEventResponseFromQuery(row queries.StateEventResponse) StateEventResponse {
	return StateEventResponse{
		ID:            row.ID.String(),
		DeliveryID:    row.DeliveryID.String(),
		FromStatus:    row.FromStatus.String(),
		ToStatus:      row.ToStatus.String(),
		FailureReason: failureReasonJSON(row.FailureReason),
		Source:        row.Source,
		Description:   row.Description,
		Metadata:      row.Metadata,
		CreatedAt:     row.CreatedAt,
	}
}

func stateEventResponseFromEvent(event *delivery.StateEvent) StateEventResponse {
	return StateEventResponse{
		ID:            event.ID().String(),
		DeliveryID:    event.DeliveryID().String(),
		FromStatus:    event.FromStatus().String(),
		ToStatus:      event.ToStatus().String(),
		FailureReason: failureReasonJSON(event.FailureReason()),
		Source:        event.Source(),
		Description:   event.Description(),
		Metadata:      event.Metadata(),
		CreatedAt:     event.CreatedAt(),
	}
}

func operatorActionResponseFromResult(result commands.OperatorActionResult, notes string, now time.Time) OperatorActionResponse {
	events := make([]StateEventResponse, len(result.Events))
	for i, event := range result.Events {
		events[i] = stateEventResponseFromEvent(event)
	}

	return OperatorActionResponse{
		DeliveryID: result.Delivery.ID().String(),
		Action:     result.Action.String(),
		Status:     result.Delivery.Status().String(),
		Timestamp:  now,
		Notes:      notes,
		Events:     events,
	}
}
