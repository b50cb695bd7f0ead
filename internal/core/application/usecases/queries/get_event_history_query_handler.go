package queries

import (
	"context"
	"database/sql"

	"deliverystate/internal/core/domain/model/delivery"
	"deliverystate/internal/core/domain/model/kernel"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GetEventHistoryQueryHandler reads a delivery's append-only audit stream.
type GetEventHistoryQueryHandler struct {
	db *gorm.DB
}

// NewGetEventHistoryQueryHandler creates a handler for event history reads.
func NewGetEventHistoryQueryHandler(db *gorm.DB) GetEventHistoryQueryHandler {
	return GetEventHistoryQueryHandler{db: db}
}

// Handle executes the read. A delivery with no events yields an empty slice;
// existence of the delivery itself is not checked here.
func (h GetEventHistoryQueryHandler) Handle(ctx context.Context, query GetEventHistoryQuery) ([]StateEventResponse, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	rows, err := h.db.WithContext(ctx).Raw(`
		SELECT
			id,
			delivery_id,
			from_status,
			to_status,
			failure_reason,
			source,
			description,
			metadata,
			created_at
		FROM delivery_state_events
		WHERE delivery_id = ?
		ORDER BY created_at, id
	`, query.DeliveryID().Bytes()).Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	events := make([]StateEventResponse, 0)
	for rows.Next() {
		var (
			id            uuid.UUID
			deliveryID    uuid.UUID
			fromStatus    string
			toStatus      string
			failureReason sql.NullString
			source        string
			description   sql.NullString
			metadata      sql.NullString
			createdAt     sql.NullTime
		)

		if err = rows.Scan(
			&id,
			&deliveryID,
			&fromStatus,
			&toStatus,
			&failureReason,
			&source,
			&description,
			&metadata,
			&createdAt,
		); err != nil {
			return nil, err
		}

		resp := StateEventResponse{
			Source:      source,
			Description: description.String,
			Metadata:    metadata.String,
			CreatedAt:   createdAt.Time,
		}

		if resp.ID, err = kernel.UUIDFromBytes(id[:]); err != nil {
			return nil, err
		}
		if resp.DeliveryID, err = kernel.UUIDFromBytes(deliveryID[:]); err != nil {
			return nil, err
		}
		if resp.FromStatus, err = delivery.StatusFromString(fromStatus); err != nil {
			return nil, err
		}
		if resp.ToStatus, err = delivery.StatusFromString(toStatus); err != nil {
			return nil, err
		}
		if resp.FailureReason, err = delivery.FailureReasonFromString(failureReason.String); err != nil {
			return nil, err
		}

		events = append(events, resp)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return events, nil
}
