package cmd

import (
	"log/slog"

	"deliverystate/internal/adapters/out/postgres"
	redisout "deliverystate/internal/adapters/out/redis"
	"deliverystate/internal/core/application/usecases/commands"
	"deliverystate/internal/core/application/usecases/queries"
	"deliverystate/internal/core/domain/services"
	"deliverystate/internal/core/ports"
	"deliverystate/internal/jobs"
	"deliverystate/internal/notifications"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

type CompositionRoot struct {
	gormDB     *gorm.DB
	uowFactory postgres.GormUnitOfWorkFactory
	dispatcher *notifications.Dispatcher
	publisher  ports.TransitionPublisher
	translator services.OperatorActionTranslator
	logger     *slog.Logger
}

func NewCompositionRoot(config Config, gormDB *gorm.DB, redisClient *redis.Client, logger *slog.Logger) CompositionRoot {
	policy, err := services.AddressUpdatePolicyFromString(config.AddressUpdatePolicy)
	if err != nil {
		logger.Warn("Unknown address update policy, falling back to RESTART_LIFECYCLE",
			"value", config.AddressUpdatePolicy)
		policy = services.RestartLifecycle
	}

	dispatcher := notifications.NewDispatcher(logger)

	publisher := notifications.MultiPublisher{dispatcher}
	if redisClient != nil {
		publisher = append(publisher, redisout.NewPublisher(redisClient, logger))
	}

	return CompositionRoot{
		gormDB:     gormDB,
		uowFactory: *postgres.NewGormUnitOfWorkFactory(gormDB),
		dispatcher: dispatcher,
		publisher:  publisher,
		translator: services.NewOperatorActionTranslator(policy),
		logger:     logger,
	}
}

// Dispatcher exposes the in-process fanout for the SSE stream endpoint.
func (c *CompositionRoot) Dispatcher() *notifications.Dispatcher {
	return c.dispatcher
}

// Close releases background resources held by the root.
func (c *CompositionRoot) Close() {
	c.dispatcher.Close()
}

func (c *CompositionRoot) deliveryUoWFactory() commands.DeliveryUoWFactory {
	return FuncDeliveryUoWFactory(func() commands.DeliveryUoW {
		return c.uowFactory.Create()
	})
}

func (c *CompositionRoot) CreateCreateDeliveryCommandHandler() commands.CreateDeliveryCommandHandler {
	return commands.NewCreateDeliveryCommandHandler(c.deliveryUoWFactory(), c.publisher)
}

func (c *CompositionRoot) CreateRequestTransitionCommandHandler() commands.RequestTransitionCommandHandler {
	return commands.NewRequestTransitionCommandHandler(c.deliveryUoWFactory(), c.publisher)
}

func (c *CompositionRoot) CreateConfirmDeliveryCommandHandler() commands.ConfirmDeliveryCommandHandler {
	return commands.NewConfirmDeliveryCommandHandler(c.deliveryUoWFactory(), c.publisher)
}

func (c *CompositionRoot) CreatePerformOperatorActionCommandHandler() commands.PerformOperatorActionCommandHandler {
	return commands.NewPerformOperatorActionCommandHandler(c.deliveryUoWFactory(), c.translator, c.publisher)
}

func (c *CompositionRoot) CreateAssignDeliveryNumberCommandHandler() commands.AssignDeliveryNumberCommandHandler {
	return commands.NewAssignDeliveryNumberCommandHandler(c.deliveryUoWFactory())
}

func (c *CompositionRoot) CreateGetDeliveryQueryHandler() queries.GetDeliveryQueryHandler {
	return queries.NewGetDeliveryQueryHandler(c.gormDB)
}

func (c *CompositionRoot) CreateGetDeliveriesByOrderQueryHandler() queries.GetDeliveriesByOrderQueryHandler {
	return queries.NewGetDeliveriesByOrderQueryHandler(c.gormDB)
}

func (c *CompositionRoot) CreateGetDeliveriesInStatusQueryHandler() queries.GetDeliveriesInStatusQueryHandler {
	return queries.NewGetDeliveriesInStatusQueryHandler(c.gormDB)
}

func (c *CompositionRoot) CreateGetEventHistoryQueryHandler() queries.GetEventHistoryQueryHandler {
	return queries.NewGetEventHistoryQueryHandler(c.gormDB)
}

func (c *CompositionRoot) CreateCountDeliveriesInStatusQueryHandler() queries.CountDeliveriesInStatusQueryHandler {
	return queries.NewCountDeliveriesInStatusQueryHandler(c.gormDB)
}

func (c *CompositionRoot) CreateJobManager() *jobs.JobManager {
	return jobs.NewJobManager(c.CreateCountDeliveriesInStatusQueryHandler(), c.logger)
}

type FuncDeliveryUoWFactory func() commands.DeliveryUoW

func (f FuncDeliveryUoWFactory) Create() commands.DeliveryUoW {
	return f()
}
