package http_test

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	nethttp "net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	httpin "deliverystate/internal/adapters/in/http"
	"deliverystate/internal/core/application/usecases/commands"
	"deliverystate/internal/core/application/usecases/queries"
	"deliverystate/internal/core/domain/model/delivery"
	"deliverystate/internal/core/domain/model/kernel"
	"deliverystate/internal/core/domain/services"
	"deliverystate/internal/core/ports"
	"deliverystate/internal/notifications"
	"deliverystate/internal/pkg/errs"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// memStore is a shared in-memory backing store for the fake unit of work.
// It enforces the same status guard as the real repository so conflict
// responses can be exercised end to end.
type memStore struct {
	mu         sync.Mutex
	deliveries map[string]*delivery.Delivery
	events     []*delivery.StateEvent
}

func newMemStore() *memStore {
	return &memStore{deliveries: make(map[string]*delivery.Delivery)}
}

func (s *memStore) eventCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.events)
}

type memDeliveryRepo struct {
	store *memStore
}

func (r memDeliveryRepo) Add(_ context.Context, aggregate *delivery.Delivery) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	r.store.deliveries[aggregate.ID().String()] = aggregate
	return nil
}

func (r memDeliveryRepo) Update(_ context.Context, aggregate *delivery.Delivery, expectedStatus delivery.Status) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	stored, ok := r.store.deliveries[aggregate.ID().String()]
	if !ok {
		return errs.NewObjectNotFoundError("deliveryID", aggregate.ID())
	}
	if stored.Status() != expectedStatus && stored != aggregate {
		return errs.NewConflictingUpdateError(aggregate.ID(), expectedStatus.String())
	}
	r.store.deliveries[aggregate.ID().String()] = aggregate
	return nil
}

func (r memDeliveryRepo) Get(_ context.Context, id kernel.UUID) (*delivery.Delivery, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	stored, ok := r.store.deliveries[id.String()]
	if !ok {
		return nil, errs.NewObjectNotFoundError("deliveryID", id)
	}
	return stored, nil
}

func (r memDeliveryRepo) GetByOrder(_ context.Context, orderID kernel.UUID) ([]*delivery.Delivery, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	var result []*delivery.Delivery
	for _, stored := range r.store.deliveries {
		if stored.OrderID().IsEqual(orderID) {
			result = append(result, stored)
		}
	}
	return result, nil
}

func (r memDeliveryRepo) GetAllInStatus(_ context.Context, status delivery.Status) ([]*delivery.Delivery, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	var result []*delivery.Delivery
	for _, stored := range r.store.deliveries {
		if stored.Status() == status {
			result = append(result, stored)
		}
	}
	return result, nil
}

type memEventRepo struct {
	store *memStore
}

func (r memEventRepo) Add(_ context.Context, event *delivery.StateEvent) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	r.store.events = append(r.store.events, event)
	return nil
}

func (r memEventRepo) ListByDelivery(_ context.Context, deliveryID kernel.UUID) ([]*delivery.StateEvent, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	var result []*delivery.StateEvent
	for _, event := range r.store.events {
		if event.DeliveryID().IsEqual(deliveryID) {
			result = append(result, event)
		}
	}
	return result, nil
}

type memUoW struct {
	store *memStore
}

func (u memUoW) Begin(context.Context) error    { return nil }
func (u memUoW) Commit(context.Context) error   { return nil }
func (u memUoW) Rollback(context.Context) error { return nil }

func (u memUoW) DeliveryRepository() ports.DeliveryRepository {
	return memDeliveryRepo{store: u.store}
}

func (u memUoW) EventRepository() ports.EventRepository {
	return memEventRepo{store: u.store}
}

type memUoWFactory struct {
	store *memStore
}

func (f memUoWFactory) Create() commands.DeliveryUoW {
	return memUoW{store: f.store}
}

type testEnv struct {
	echo       *echo.Echo
	store      *memStore
	dispatcher *notifications.Dispatcher
}

func newTestEnv(t *testing.T) testEnv {
	t.Helper()

	store := newMemStore()
	dispatcher := notifications.NewDispatcher(slog.Default())
	t.Cleanup(dispatcher.Close)

	factory := memUoWFactory{store: store}
	translator := services.NewOperatorActionTranslator(services.RestartLifecycle)

	server := httpin.NewServer(
		commands.NewCreateDeliveryCommandHandler(factory, dispatcher),
		commands.NewRequestTransitionCommandHandler(factory, dispatcher),
		commands.NewConfirmDeliveryCommandHandler(factory, dispatcher),
		commands.NewPerformOperatorActionCommandHandler(factory, translator, dispatcher),
		commands.NewAssignDeliveryNumberCommandHandler(factory),
		queries.GetDeliveryQueryHandler{},
		queries.GetDeliveriesByOrderQueryHandler{},
		queries.GetDeliveriesInStatusQueryHandler{},
		queries.GetEventHistoryQueryHandler{},
		dispatcher,
	)

	e := echo.New()
	server.RegisterRoutes(e)

	return testEnv{echo: e, store: store, dispatcher: dispatcher}
}

func (env testEnv) request(method, path string, body any, headers map[string]string) *httptest.ResponseRecorder {
	var reader io.Reader
	if body != nil {
		payload, _ := json.Marshal(body)
		reader = bytes.NewReader(payload)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	for key, value := range headers {
		req.Header.Set(key, value)
	}

	rec := httptest.NewRecorder()
	env.echo.ServeHTTP(rec, req)
	return rec
}

func (env testEnv) createDelivery(t *testing.T) httpin.DeliveryResponse {
	t.Helper()

	rec := env.request(nethttp.MethodPost, "/api/v1/delivery", map[string]any{
		"order_id":            kernel.NewUUID().String(),
		"customer_address_id": kernel.NewUUID().String(),
	}, nil)
	require.Equal(t, nethttp.StatusCreated, rec.Code, rec.Body.String())

	var created httpin.DeliveryResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	return created
}

func (env testEnv) transition(t *testing.T, id string, status string) {
	t.Helper()

	rec := env.request(nethttp.MethodPatch, "/api/v1/delivery/"+id,
		map[string]any{"status": status}, nil)
	require.Equal(t, nethttp.StatusOK, rec.Code, rec.Body.String())
}

func TestHealth(t *testing.T) {
	env := newTestEnv(t)

	rec := env.request(nethttp.MethodGet, "/health", nil, nil)

	assert.Equal(t, nethttp.StatusOK, rec.Code)
	assert.Equal(t, "Healthy", rec.Body.String())
}

func TestCreateDelivery(t *testing.T) {
	t.Run("creates_in_created_status", func(t *testing.T) {
		env := newTestEnv(t)

		created := env.createDelivery(t)

		assert.Equal(t, "CREATED", created.Status)
		assert.Nil(t, created.FailureReason)
		assert.Equal(t, 1, env.store.eventCount())
	})

	t.Run("rejects_malformed_order_id", func(t *testing.T) {
		env := newTestEnv(t)

		rec := env.request(nethttp.MethodPost, "/api/v1/delivery", map[string]any{
			"order_id":            "not-a-uuid",
			"customer_address_id": kernel.NewUUID().String(),
		}, nil)

		assert.Equal(t, nethttp.StatusBadRequest, rec.Code)
	})
}

func TestUpdateDelivery(t *testing.T) {
	t.Run("legal_transition_returns_updated_snapshot", func(t *testing.T) {
		env := newTestEnv(t)
		created := env.createDelivery(t)

		rec := env.request(nethttp.MethodPatch, "/api/v1/delivery/"+created.ID,
			map[string]any{"status": "PICKED_UP"}, nil)

		require.Equal(t, nethttp.StatusOK, rec.Code, rec.Body.String())
		var updated httpin.DeliveryResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &updated))
		assert.Equal(t, "PICKED_UP", updated.Status)
		assert.Equal(t, 2, env.store.eventCount())
	})

	t.Run("illegal_transition_conflicts", func(t *testing.T) {
		env := newTestEnv(t)
		created := env.createDelivery(t)

		rec := env.request(nethttp.MethodPatch, "/api/v1/delivery/"+created.ID,
			map[string]any{"status": "DELIVERY_CONFIRMED"}, nil)

		assert.Equal(t, nethttp.StatusConflict, rec.Code)
	})

	t.Run("failure_requires_reason", func(t *testing.T) {
		env := newTestEnv(t)
		created := env.createDelivery(t)
		env.transition(t, created.ID, "PICKED_UP")

		rec := env.request(nethttp.MethodPatch, "/api/v1/delivery/"+created.ID,
			map[string]any{"status": "DELIVERY_FAILED"}, nil)

		assert.Equal(t, nethttp.StatusBadRequest, rec.Code)
	})

	t.Run("failure_with_reason_is_recorded", func(t *testing.T) {
		env := newTestEnv(t)
		created := env.createDelivery(t)
		env.transition(t, created.ID, "PICKED_UP")

		rec := env.request(nethttp.MethodPatch, "/api/v1/delivery/"+created.ID,
			map[string]any{"status": "DELIVERY_FAILED", "failure_reason": "PACKAGE_DAMAGED"}, nil)

		require.Equal(t, nethttp.StatusOK, rec.Code, rec.Body.String())
		var updated httpin.DeliveryResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &updated))
		require.NotNil(t, updated.FailureReason)
		assert.Equal(t, "PACKAGE_DAMAGED", *updated.FailureReason)
	})

	t.Run("assigns_delivery_number_without_transition", func(t *testing.T) {
		env := newTestEnv(t)
		created := env.createDelivery(t)

		rec := env.request(nethttp.MethodPatch, "/api/v1/delivery/"+created.ID,
			map[string]any{"delivery_number": "TRK-001"}, nil)

		require.Equal(t, nethttp.StatusOK, rec.Code, rec.Body.String())
		var updated httpin.DeliveryResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &updated))
		require.NotNil(t, updated.DeliveryNumber)
		assert.Equal(t, "TRK-001", *updated.DeliveryNumber)
		assert.Equal(t, "CREATED", updated.Status)
	})

	t.Run("empty_body_is_rejected", func(t *testing.T) {
		env := newTestEnv(t)
		created := env.createDelivery(t)

		rec := env.request(nethttp.MethodPatch, "/api/v1/delivery/"+created.ID,
			map[string]any{}, nil)

		assert.Equal(t, nethttp.StatusBadRequest, rec.Code)
	})

	t.Run("unknown_delivery_is_not_found", func(t *testing.T) {
		env := newTestEnv(t)

		rec := env.request(nethttp.MethodPatch, "/api/v1/delivery/"+kernel.NewUUID().String(),
			map[string]any{"status": "PICKED_UP"}, nil)

		assert.Equal(t, nethttp.StatusNotFound, rec.Code)
	})
}

func TestConfirmDelivery(t *testing.T) {
	env := newTestEnv(t)
	created := env.createDelivery(t)
	env.transition(t, created.ID, "PICKED_UP")
	env.transition(t, created.ID, "DELIVERED")

	rec := env.request(nethttp.MethodPost, "/api/v1/delivery/"+created.ID+"/confirm", nil, nil)

	require.Equal(t, nethttp.StatusOK, rec.Code, rec.Body.String())
	var confirmed httpin.DeliveryResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &confirmed))
	assert.Equal(t, "DELIVERY_CONFIRMED", confirmed.Status)
}

func TestTakeOperatorAction(t *testing.T) {
	operatorHeader := func() map[string]string {
		return map[string]string{"X-Operator-ID": kernel.NewUUID().String()}
	}

	failDelivery := func(t *testing.T, env testEnv, id string) {
		t.Helper()
		env.transition(t, id, "PICKED_UP")
		rec := env.request(nethttp.MethodPatch, "/api/v1/delivery/"+id,
			map[string]any{"status": "DELIVERY_FAILED", "failure_reason": "CUSTOMER_NOT_AVAILABLE"}, nil)
		require.Equal(t, nethttp.StatusOK, rec.Code, rec.Body.String())
	}

	t.Run("retry_moves_back_to_picked_up", func(t *testing.T) {
		env := newTestEnv(t)
		created := env.createDelivery(t)
		failDelivery(t, env, created.ID)

		rec := env.request(nethttp.MethodPost, "/api/v1/operator/delivery/"+created.ID+"/action",
			map[string]any{"action": "RETRY_DELIVERY"}, operatorHeader())

		require.Equal(t, nethttp.StatusOK, rec.Code, rec.Body.String())
		var result httpin.OperatorActionResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
		assert.Equal(t, "RETRY_DELIVERY", result.Action)
		assert.Equal(t, "PICKED_UP", result.Status)
		assert.Len(t, result.Events, 1)
	})

	t.Run("address_update_from_failed_restarts_through_pending", func(t *testing.T) {
		env := newTestEnv(t)
		created := env.createDelivery(t)
		env.transition(t, created.ID, "PICKED_UP")
		rec := env.request(nethttp.MethodPatch, "/api/v1/delivery/"+created.ID,
			map[string]any{"status": "DELIVERY_FAILED", "failure_reason": "INCORRECT_ADDRESS"}, nil)
		require.Equal(t, nethttp.StatusOK, rec.Code, rec.Body.String())

		rec = env.request(nethttp.MethodPost, "/api/v1/operator/delivery/"+created.ID+"/action",
			map[string]any{
				"action":         "UPDATE_ADDRESS",
				"new_address_id": kernel.NewUUID().String(),
			}, operatorHeader())

		require.Equal(t, nethttp.StatusOK, rec.Code, rec.Body.String())
		var result httpin.OperatorActionResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
		assert.Equal(t, "CREATED", result.Status)
		require.Len(t, result.Events, 2)
		assert.Equal(t, "PENDING_BY_OPERATOR", result.Events[0].ToStatus)
		assert.Equal(t, "CREATED", result.Events[1].ToStatus)
	})

	t.Run("retry_on_fresh_delivery_conflicts", func(t *testing.T) {
		env := newTestEnv(t)
		created := env.createDelivery(t)

		rec := env.request(nethttp.MethodPost, "/api/v1/operator/delivery/"+created.ID+"/action",
			map[string]any{"action": "RETRY_DELIVERY"}, operatorHeader())

		assert.Equal(t, nethttp.StatusConflict, rec.Code)
	})

	t.Run("missing_operator_header_is_rejected", func(t *testing.T) {
		env := newTestEnv(t)
		created := env.createDelivery(t)

		rec := env.request(nethttp.MethodPost, "/api/v1/operator/delivery/"+created.ID+"/action",
			map[string]any{"action": "RETRY_DELIVERY"}, nil)

		assert.Equal(t, nethttp.StatusBadRequest, rec.Code)
	})

	t.Run("unknown_action_is_rejected", func(t *testing.T) {
		env := newTestEnv(t)
		created := env.createDelivery(t)

		rec := env.request(nethttp.MethodPost, "/api/v1/operator/delivery/"+created.ID+"/action",
			map[string]any{"action": "ESCALATE"}, operatorHeader())

		assert.Equal(t, nethttp.StatusBadRequest, rec.Code)
	})
}

func TestAddOperatorNotes(t *testing.T) {
	t.Run("appends_note_without_transition", func(t *testing.T) {
		env := newTestEnv(t)
		created := env.createDelivery(t)
		eventsBefore := env.store.eventCount()

		rec := env.request(nethttp.MethodPost, "/api/v1/operator/delivery/"+created.ID+"/notes",
			map[string]any{"notes": "called the customer, no answer"},
			map[string]string{"X-Operator-ID": kernel.NewUUID().String()})

		require.Equal(t, nethttp.StatusOK, rec.Code, rec.Body.String())
		var result httpin.OperatorActionResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
		assert.Equal(t, "CONTACT_CUSTOMER", result.Action)
		assert.Empty(t, result.Events)
		assert.Equal(t, eventsBefore, env.store.eventCount())
	})

	t.Run("empty_note_is_rejected", func(t *testing.T) {
		env := newTestEnv(t)
		created := env.createDelivery(t)

		rec := env.request(nethttp.MethodPost, "/api/v1/operator/delivery/"+created.ID+"/notes",
			map[string]any{"notes": ""},
			map[string]string{"X-Operator-ID": kernel.NewUUID().String()})

		assert.Equal(t, nethttp.StatusBadRequest, rec.Code)
	})
}

func TestStreamDelivery(t *testing.T) {
	env := newTestEnv(t)
	created := env.createDelivery(t)

	srv := httptest.NewServer(env.echo)
	t.Cleanup(srv.Close)

	resp, err := nethttp.Get(fmt.Sprintf("%s/api/v1/delivery/%s/stream", srv.URL, created.ID))
	require.NoError(t, err)
	t.Cleanup(func() { _ = resp.Body.Close() })
	require.Equal(t, nethttp.StatusOK, resp.StatusCode)
	require.Equal(t, "text/event-stream", resp.Header.Get("Content-Type"))

	// Subscription happens inside the handler; give it a moment before
	// publishing or the event may be dropped as unrouted.
	time.Sleep(50 * time.Millisecond)

	deliveryID, err := kernel.UUIDFromString(created.ID)
	require.NoError(t, err)
	env.dispatcher.Publish(ports.TransitionNotification{
		DeliveryID: deliveryID,
		ToStatus:   delivery.PickedUp,
		Source:     delivery.SourceSystem,
		OccurredAt: time.Now().UTC(),
	})

	reader := bufio.NewReader(resp.Body)
	deadline := time.After(2 * time.Second)
	lines := make(chan string, 1)
	go func() {
		for {
			line, err := reader.ReadString('\n')
			if err != nil {
				return
			}
			if strings.HasPrefix(line, "data: ") {
				lines <- strings.TrimSpace(strings.TrimPrefix(line, "data: "))
				return
			}
		}
	}()

	select {
	case payload := <-lines:
		var event map[string]any
		require.NoError(t, json.Unmarshal([]byte(payload), &event))
		assert.Equal(t, created.ID, event["delivery_id"])
		assert.Equal(t, "PICKED_UP", event["to_status"])
	case <-deadline:
		t.Fatal("no SSE event received")
	}
}
