package http

import (
	"net/http"
	"time"

	"deliverystate/internal/core/application/usecases/commands"
	"deliverystate/internal/core/application/usecases/queries"
	"deliverystate/internal/core/domain/model/delivery"
	"deliverystate/internal/core/domain/model/kernel"
	"deliverystate/internal/core/domain/services"

	"github.com/labstack/echo/v4"
)

// operatorIDHeader carries the identity of the operator performing an
// action. Operator endpoints reject requests without it.
const operatorIDHeader = "X-Operator-ID"

// Server exposes the delivery lifecycle over REST and SSE.
// It coordinates between HTTP handlers and application use cases.
type Server struct {
	// Command handlers
	createDeliveryHandler        commands.CreateDeliveryCommandHandler
	requestTransitionHandler     commands.RequestTransitionCommandHandler
	confirmDeliveryHandler       commands.ConfirmDeliveryCommandHandler
	performOperatorActionHandler commands.PerformOperatorActionCommandHandler
	assignDeliveryNumberHandler  commands.AssignDeliveryNumberCommandHandler

	// Query handlers
	getDeliveryHandler           queries.GetDeliveryQueryHandler
	getDeliveriesByOrderHandler  queries.GetDeliveriesByOrderQueryHandler
	getDeliveriesInStatusHandler queries.GetDeliveriesInStatusQueryHandler
	getEventHistoryHandler       queries.GetEventHistoryQueryHandler

	streams StreamHub
}

// NewServer creates a new HTTP server with the required command and query handlers.
func NewServer(
	createDeliveryHandler commands.CreateDeliveryCommandHandler,
	requestTransitionHandler commands.RequestTransitionCommandHandler,
	confirmDeliveryHandler commands.ConfirmDeliveryCommandHandler,
	performOperatorActionHandler commands.PerformOperatorActionCommandHandler,
	assignDeliveryNumberHandler commands.AssignDeliveryNumberCommandHandler,
	getDeliveryHandler queries.GetDeliveryQueryHandler,
	getDeliveriesByOrderHandler queries.GetDeliveriesByOrderQueryHandler,
	getDeliveriesInStatusHandler queries.GetDeliveriesInStatusQueryHandler,
	getEventHistoryHandler queries.GetEventHistoryQueryHandler,
	streams StreamHub,
) *Server {
	return &Server{
		createDeliveryHandler:        createDeliveryHandler,
		requestTransitionHandler:     requestTransitionHandler,
		confirmDeliveryHandler:       confirmDeliveryHandler,
		performOperatorActionHandler: performOperatorActionHandler,
		assignDeliveryNumberHandler:  assignDeliveryNumberHandler,
		getDeliveryHandler:           getDeliveryHandler,
		getDeliveriesByOrderHandler:  getDeliveriesByOrderHandler,
		getDeliveriesInStatusHandler: getDeliveriesInStatusHandler,
		getEventHistoryHandler:       getEventHistoryHandler,
		streams:                      streams,
	}
}

// RegisterRoutes attaches all delivery and operator routes to the echo instance.
func (s *Server) RegisterRoutes(e *echo.Echo) {
	api := e.Group("/api/v1")

	api.POST("/delivery", s.CreateDelivery)
	api.GET("/delivery/:id", s.GetDelivery)
	api.PATCH("/delivery/:id", s.UpdateDelivery)
	api.GET("/delivery/order/:orderId", s.GetDeliveriesByOrder)
	api.POST("/delivery/:id/confirm", s.ConfirmDelivery)
	api.GET("/delivery/:id/events", s.GetEventHistory)
	api.GET("/delivery/:id/stream", s.StreamDelivery)

	api.POST("/operator/delivery/:id/action", s.TakeOperatorAction)
	api.POST("/operator/delivery/:id/notes", s.AddOperatorNotes)
	api.GET("/operator/delivery/failed", s.GetFailedDeliveries)
	api.GET("/operator/delivery/pending", s.GetPendingDeliveries)

	e.GET("/health", s.Health)
}

// Health handles GET /health.
func (s *Server) Health(ctx echo.Context) error {
	return ctx.String(http.StatusOK, "Healthy")
}

// CreateDelivery handles POST /api/v1/delivery - registers a new delivery.
func (s *Server) CreateDelivery(ctx echo.Context) error {
	var request CreateDeliveryRequest
	if err := ctx.Bind(&request); err != nil {
		return badRequest(ctx, "Invalid request body")
	}

	orderID, err := kernel.UUIDFromString(request.OrderID)
	if err != nil {
		return badRequest(ctx, "Invalid order_id: "+err.Error())
	}

	addressID, err := kernel.UUIDFromString(request.CustomerAddressID)
	if err != nil {
		return badRequest(ctx, "Invalid customer_address_id: "+err.Error())
	}

	cmd, err := commands.NewCreateDeliveryCommand(
		kernel.NewUUID(), orderID, addressID, request.EstimatedDeliveryTime)
	if err != nil {
		return badRequest(ctx, "Invalid delivery data: "+err.Error())
	}

	created, err := s.createDeliveryHandler.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		return domainError(ctx, err)
	}

	return ctx.JSON(http.StatusCreated, deliveryResponseFromAggregate(created))
}

// GetDelivery handles GET /api/v1/delivery/:id.
func (s *Server) GetDelivery(ctx echo.Context) error {
	deliveryID, err := kernel.UUIDFromString(ctx.Param("id"))
	if err != nil {
		return badRequest(ctx, "Invalid delivery id: "+err.Error())
	}

	query, err := queries.NewGetDeliveryQuery(deliveryID)
	if err != nil {
		return badRequest(ctx, "Invalid delivery id: "+err.Error())
	}

	row, err := s.getDeliveryHandler.Handle(ctx.Request().Context(), query)
	if err != nil {
		return domainError(ctx, err)
	}

	return ctx.JSON(http.StatusOK, deliveryResponseFromQuery(row))
}

// UpdateDelivery handles PATCH /api/v1/delivery/:id. A status in the body
// requests a lifecycle transition; a delivery_number assigns the carrier
// number. When both are present the number is assigned first, so a rejected
// transition leaves the number in place.
func (s *Server) UpdateDelivery(ctx echo.Context) error {
	deliveryID, err := kernel.UUIDFromString(ctx.Param("id"))
	if err != nil {
		return badRequest(ctx, "Invalid delivery id: "+err.Error())
	}

	var request UpdateDeliveryRequest
	if err := ctx.Bind(&request); err != nil {
		return badRequest(ctx, "Invalid request body")
	}
	if request.Status == nil && request.DeliveryNumber == nil {
		return badRequest(ctx, "Either status or delivery_number must be provided")
	}

	var updated *delivery.Delivery

	if request.DeliveryNumber != nil {
		cmd, err := commands.NewAssignDeliveryNumberCommand(deliveryID, *request.DeliveryNumber)
		if err != nil {
			return badRequest(ctx, "Invalid delivery_number: "+err.Error())
		}

		updated, err = s.assignDeliveryNumberHandler.Handle(ctx.Request().Context(), cmd)
		if err != nil {
			return domainError(ctx, err)
		}
	}

	if request.Status != nil {
		toStatus, err := delivery.StatusFromString(*request.Status)
		if err != nil {
			return badRequest(ctx, "Invalid status: "+err.Error())
		}

		reason := delivery.NoFailure
		if request.FailureReason != nil {
			reason, err = delivery.FailureReasonFromString(*request.FailureReason)
			if err != nil {
				return badRequest(ctx, "Invalid failure_reason: "+err.Error())
			}
		}

		source := delivery.SourceSystem
		if request.Source != nil {
			source = *request.Source
		}

		cmd, err := commands.NewRequestTransitionCommand(
			deliveryID, toStatus, reason, source, request.Description, request.Metadata)
		if err != nil {
			return badRequest(ctx, "Invalid transition data: "+err.Error())
		}

		updated, _, err = s.requestTransitionHandler.Handle(ctx.Request().Context(), cmd)
		if err != nil {
			return domainError(ctx, err)
		}
	}

	return ctx.JSON(http.StatusOK, deliveryResponseFromAggregate(updated))
}

// GetDeliveriesByOrder handles GET /api/v1/delivery/order/:orderId.
func (s *Server) GetDeliveriesByOrder(ctx echo.Context) error {
	orderID, err := kernel.UUIDFromString(ctx.Param("orderId"))
	if err != nil {
		return badRequest(ctx, "Invalid order id: "+err.Error())
	}

	query, err := queries.NewGetDeliveriesByOrderQuery(orderID)
	if err != nil {
		return badRequest(ctx, "Invalid order id: "+err.Error())
	}

	rows, err := s.getDeliveriesByOrderHandler.Handle(ctx.Request().Context(), query)
	if err != nil {
		return domainError(ctx, err)
	}

	return ctx.JSON(http.StatusOK, deliveryResponsesFromQuery(rows))
}

// ConfirmDelivery handles POST /api/v1/delivery/:id/confirm - the customer
// acknowledges receipt.
func (s *Server) ConfirmDelivery(ctx echo.Context) error {
	deliveryID, err := kernel.UUIDFromString(ctx.Param("id"))
	if err != nil {
		return badRequest(ctx, "Invalid delivery id: "+err.Error())
	}

	cmd, err := commands.NewConfirmDeliveryCommand(deliveryID)
	if err != nil {
		return badRequest(ctx, "Invalid delivery id: "+err.Error())
	}

	confirmed, err := s.confirmDeliveryHandler.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		return domainError(ctx, err)
	}

	return ctx.JSON(http.StatusOK, deliveryResponseFromAggregate(confirmed))
}

// GetEventHistory handles GET /api/v1/delivery/:id/events.
func (s *Server) GetEventHistory(ctx echo.Context) error {
	deliveryID, err := kernel.UUIDFromString(ctx.Param("id"))
	if err != nil {
		return badRequest(ctx, "Invalid delivery id: "+err.Error())
	}

	query, err := queries.NewGetEventHistoryQuery(deliveryID)
	if err != nil {
		return badRequest(ctx, "Invalid delivery id: "+err.Error())
	}

	rows, err := s.getEventHistoryHandler.Handle(ctx.Request().Context(), query)
	if err != nil {
		return domainError(ctx, err)
	}

	response := make([]StateEventResponse, len(rows))
	for i, row := range rows {
		response[i] = stateEventResponseFromQuery(row)
	}

	return ctx.JSON(http.StatusOK, response)
}

// TakeOperatorAction handles POST /api/v1/operator/delivery/:id/action.
// The acting operator is identified by the X-Operator-ID header.
func (s *Server) TakeOperatorAction(ctx echo.Context) error {
	deliveryID, err := kernel.UUIDFromString(ctx.Param("id"))
	if err != nil {
		return badRequest(ctx, "Invalid delivery id: "+err.Error())
	}

	operatorID, err := kernel.UUIDFromString(ctx.Request().Header.Get(operatorIDHeader))
	if err != nil {
		return badRequest(ctx, "Missing or invalid "+operatorIDHeader+" header")
	}

	var request OperatorActionRequest
	if err := ctx.Bind(&request); err != nil {
		return badRequest(ctx, "Invalid request body")
	}

	action, err := services.ActionFromString(request.Action)
	if err != nil {
		return badRequest(ctx, "Invalid action: "+err.Error())
	}

	reason := delivery.NoFailure
	if request.FailureReason != nil {
		reason, err = delivery.FailureReasonFromString(*request.FailureReason)
		if err != nil {
			return badRequest(ctx, "Invalid failure_reason: "+err.Error())
		}
	}

	var newAddressID *kernel.UUID
	if request.NewAddressID != nil {
		addressID, err := kernel.UUIDFromString(*request.NewAddressID)
		if err != nil {
			return badRequest(ctx, "Invalid new_address_id: "+err.Error())
		}
		newAddressID = &addressID
	}

	cmd, err := commands.NewPerformOperatorActionCommand(
		deliveryID, action, operatorID, request.Notes, reason, newAddressID)
	if err != nil {
		return badRequest(ctx, "Invalid action data: "+err.Error())
	}

	result, err := s.performOperatorActionHandler.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		return domainError(ctx, err)
	}

	return ctx.JSON(http.StatusOK,
		operatorActionResponseFromResult(result, request.Notes, time.Now().UTC()))
}

// AddOperatorNotes handles POST /api/v1/operator/delivery/:id/notes - appends
// a note to the delivery as a CONTACT_CUSTOMER action.
func (s *Server) AddOperatorNotes(ctx echo.Context) error {
	deliveryID, err := kernel.UUIDFromString(ctx.Param("id"))
	if err != nil {
		return badRequest(ctx, "Invalid delivery id: "+err.Error())
	}

	operatorID, err := kernel.UUIDFromString(ctx.Request().Header.Get(operatorIDHeader))
	if err != nil {
		return badRequest(ctx, "Missing or invalid "+operatorIDHeader+" header")
	}

	var request OperatorNotesRequest
	if err := ctx.Bind(&request); err != nil {
		return badRequest(ctx, "Invalid request body")
	}
	if request.Notes == "" {
		return badRequest(ctx, "Notes must not be empty")
	}

	cmd, err := commands.NewPerformOperatorActionCommand(
		deliveryID, services.ActionContactCustomer, operatorID, request.Notes, delivery.NoFailure, nil)
	if err != nil {
		return badRequest(ctx, "Invalid notes data: "+err.Error())
	}

	result, err := s.performOperatorActionHandler.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		return domainError(ctx, err)
	}

	return ctx.JSON(http.StatusOK,
		operatorActionResponseFromResult(result, request.Notes, time.Now().UTC()))
}

// GetFailedDeliveries handles GET /api/v1/operator/delivery/failed.
func (s *Server) GetFailedDeliveries(ctx echo.Context) error {
	return s.listInStatus(ctx, delivery.DeliveryFailed)
}

// GetPendingDeliveries handles GET /api/v1/operator/delivery/pending.
func (s *Server) GetPendingDeliveries(ctx echo.Context) error {
	return s.listInStatus(ctx, delivery.PendingByOperator)
}

func (s *Server) listInStatus(ctx echo.Context, status delivery.Status) error {
	query, err := queries.NewGetDeliveriesInStatusQuery(status)
	if err != nil {
		return domainError(ctx, err)
	}

	rows, err := s.getDeliveriesInStatusHandler.Handle(ctx.Request().Context(), query)
	if err != nil {
		return domainError(ctx, err)
	}

	return ctx.JSON(http.StatusOK, deliveryResponsesFromQuery(rows))
}
