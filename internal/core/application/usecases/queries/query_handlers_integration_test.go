package queries_test

import (
	"context"
	"testing"
	"time"

	"deliverystate/internal/adapters/out/postgres/deliveryrepo"
	"deliverystate/internal/adapters/out/postgres/eventrepo"
	"deliverystate/internal/core/application/usecases/queries"
	"deliverystate/internal/core/domain/model/delivery"
	"deliverystate/internal/core/domain/model/kernel"
	"deliverystate/internal/pkg/errs"

	"github.com/stretchr/testify/suite"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	gorm_postgres "gorm.io/driver/postgres"
	"gorm.io/gorm"
)

type QueryHandlersTestSuite struct {
	suite.Suite
	container    *postgres.PostgresContainer
	db           *gorm.DB
	deliveryRepo *deliveryrepo.GormDeliveryRepository
	eventRepo    *eventrepo.GormEventRepository
}

func (suite *QueryHandlersTestSuite) SetupSuite() {
	ctx := context.Background()

	container, err := postgres.Run(ctx,
		"postgres:15-alpine",
		postgres.WithDatabase("testdb"),
		postgres.WithUsername("testuser"),
		postgres.WithPassword("testpass"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second),
		),
	)
	suite.Require().NoError(err)
	suite.container = container

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	suite.Require().NoError(err)

	db, err := gorm.Open(gorm_postgres.Open(dsn), &gorm.Config{})
	suite.Require().NoError(err)
	suite.db = db

	err = db.AutoMigrate(&deliveryrepo.DeliveryDTO{}, &eventrepo.StateEventDTO{})
	suite.Require().NoError(err)

	suite.deliveryRepo = deliveryrepo.NewGormDeliveryRepository(db)
	suite.eventRepo = eventrepo.NewGormEventRepository(db)
}

func (suite *QueryHandlersTestSuite) TearDownSuite() {
	if suite.container != nil {
		err := suite.container.Terminate(context.Background())
		suite.Require().NoError(err)
	}
}

func (suite *QueryHandlersTestSuite) SetupTest() {
	err := suite.db.Exec("TRUNCATE TABLE delivery_orders, delivery_state_events").Error
	suite.Require().NoError(err)
}

func (suite *QueryHandlersTestSuite) TestGetDelivery_ExistingDelivery_ReturnsSnapshot() {
	ctx := context.Background()
	seeded := suite.seedDelivery(delivery.Created, delivery.NoFailure, kernel.NewUUID(), time.Now().UTC())

	handler := queries.NewGetDeliveryQueryHandler(suite.db)
	query, err := queries.NewGetDeliveryQuery(seeded.ID())
	suite.Require().NoError(err)

	result, err := handler.Handle(ctx, query)
	suite.Require().NoError(err)

	suite.Equal(seeded.ID(), result.ID)
	suite.Equal(seeded.OrderID(), result.OrderID)
	suite.Equal(delivery.Created, result.Status)
	suite.Equal(delivery.NoFailure, result.FailureReason)
	suite.Nil(result.OperatorID)
}

func (suite *QueryHandlersTestSuite) TestGetDelivery_NonExistentDelivery_ReturnsNotFoundError() {
	handler := queries.NewGetDeliveryQueryHandler(suite.db)
	query, err := queries.NewGetDeliveryQuery(kernel.NewUUID())
	suite.Require().NoError(err)

	_, err = handler.Handle(context.Background(), query)
	suite.Require().Error(err)

	var notFoundErr *errs.ObjectNotFoundError
	suite.Require().ErrorAs(err, &notFoundErr)
}

func (suite *QueryHandlersTestSuite) TestGetDeliveriesByOrder_ReturnsOldestFirst() {
	ctx := context.Background()
	orderID := kernel.NewUUID()
	base := time.Now().UTC().Truncate(time.Microsecond)

	first := suite.seedDelivery(delivery.DeliveryConfirmed, delivery.NoFailure, orderID, base.Add(-2*time.Hour))
	second := suite.seedDelivery(delivery.Created, delivery.NoFailure, orderID, base.Add(-time.Hour))
	suite.seedDelivery(delivery.Created, delivery.NoFailure, kernel.NewUUID(), base)

	handler := queries.NewGetDeliveriesByOrderQueryHandler(suite.db)
	query, err := queries.NewGetDeliveriesByOrderQuery(orderID)
	suite.Require().NoError(err)

	result, err := handler.Handle(ctx, query)
	suite.Require().NoError(err)

	suite.Require().Len(result, 2)
	suite.Equal(first.ID(), result[0].ID)
	suite.Equal(second.ID(), result[1].ID)
}

func (suite *QueryHandlersTestSuite) TestGetDeliveriesByOrder_UnknownOrder_ReturnsEmptySlice() {
	handler := queries.NewGetDeliveriesByOrderQueryHandler(suite.db)
	query, err := queries.NewGetDeliveriesByOrderQuery(kernel.NewUUID())
	suite.Require().NoError(err)

	result, err := handler.Handle(context.Background(), query)
	suite.Require().NoError(err)
	suite.Empty(result)
}

func (suite *QueryHandlersTestSuite) TestGetDeliveriesInStatus_FiltersAndCarriesReason() {
	ctx := context.Background()
	now := time.Now().UTC()

	suite.seedDelivery(delivery.Created, delivery.NoFailure, kernel.NewUUID(), now)
	failed := suite.seedDelivery(delivery.DeliveryFailed, delivery.PackageDamaged, kernel.NewUUID(), now)
	suite.seedDelivery(delivery.PendingByOperator, delivery.NoFailure, kernel.NewUUID(), now)

	handler := queries.NewGetDeliveriesInStatusQueryHandler(suite.db)
	query, err := queries.NewGetDeliveriesInStatusQuery(delivery.DeliveryFailed)
	suite.Require().NoError(err)

	result, err := handler.Handle(ctx, query)
	suite.Require().NoError(err)

	suite.Require().Len(result, 1)
	suite.Equal(failed.ID(), result[0].ID)
	suite.Equal(delivery.PackageDamaged, result[0].FailureReason)
}

func (suite *QueryHandlersTestSuite) TestCountDeliveriesInStatus_CountsOnlyMatchingRows() {
	ctx := context.Background()
	now := time.Now().UTC()

	suite.seedDelivery(delivery.DeliveryFailed, delivery.PackageDamaged, kernel.NewUUID(), now)
	suite.seedDelivery(delivery.DeliveryFailed, delivery.IncorrectAddress, kernel.NewUUID(), now)
	suite.seedDelivery(delivery.Created, delivery.NoFailure, kernel.NewUUID(), now)

	handler := queries.NewCountDeliveriesInStatusQueryHandler(suite.db)

	query, err := queries.NewCountDeliveriesInStatusQuery(delivery.DeliveryFailed)
	suite.Require().NoError(err)
	count, err := handler.Handle(ctx, query)
	suite.Require().NoError(err)
	suite.Equal(int64(2), count)

	query, err = queries.NewCountDeliveriesInStatusQuery(delivery.PendingByOperator)
	suite.Require().NoError(err)
	count, err = handler.Handle(ctx, query)
	suite.Require().NoError(err)
	suite.Zero(count)
}

func (suite *QueryHandlersTestSuite) TestGetEventHistory_ReturnsLogOldestFirst() {
	ctx := context.Background()
	base := time.Now().UTC().Truncate(time.Microsecond)
	seeded := suite.seedDelivery(delivery.PickedUp, delivery.NoFailure, kernel.NewUUID(), base)

	creation, err := delivery.NewCreationEvent(kernel.NewUUID(), seeded.ID(), base)
	suite.Require().NoError(err)
	suite.Require().NoError(suite.eventRepo.Add(ctx, creation))

	pickup, err := delivery.RestoreStateEvent(
		kernel.NewUUID(), seeded.ID(),
		delivery.Created, delivery.PickedUp, delivery.NoFailure,
		delivery.SourceSystem, "courier picked up the package", "", base.Add(time.Minute),
	)
	suite.Require().NoError(err)
	suite.Require().NoError(suite.eventRepo.Add(ctx, pickup))

	handler := queries.NewGetEventHistoryQueryHandler(suite.db)
	query, err := queries.NewGetEventHistoryQuery(seeded.ID())
	suite.Require().NoError(err)

	result, err := handler.Handle(ctx, query)
	suite.Require().NoError(err)

	suite.Require().Len(result, 2)
	suite.Equal(delivery.Created, result[0].FromStatus)
	suite.Equal(delivery.Created, result[0].ToStatus)
	suite.Equal(delivery.SourceSystem, result[0].Source)
	suite.Equal(delivery.PickedUp, result[1].ToStatus)
	suite.Equal("courier picked up the package", result[1].Description)
}

func (suite *QueryHandlersTestSuite) TestGetEventHistory_UnknownDelivery_ReturnsEmptySlice() {
	handler := queries.NewGetEventHistoryQueryHandler(suite.db)
	query, err := queries.NewGetEventHistoryQuery(kernel.NewUUID())
	suite.Require().NoError(err)

	result, err := handler.Handle(context.Background(), query)
	suite.Require().NoError(err)
	suite.Empty(result)
}

func (suite *QueryHandlersTestSuite) seedDelivery(
	status delivery.Status, reason delivery.FailureReason, orderID kernel.UUID, createdAt time.Time,
) *delivery.Delivery {
	seeded, err := delivery.RestoreDelivery(
		kernel.NewUUID(), orderID, kernel.NewUUID(),
		"", status, reason,
		nil, nil, nil, "",
		createdAt, createdAt,
	)
	suite.Require().NoError(err)
	suite.Require().NoError(suite.deliveryRepo.Add(context.Background(), seeded))
	return seeded
}

func TestQueryHandlersTestSuite(t *testing.T) {
	suite.Run(t, new(QueryHandlersTestSuite))
}
