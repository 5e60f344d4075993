package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"orderservice/internal/adapters/out/inmemory"
	"orderservice/internal/adapters/out/kafka"
	"orderservice/internal/adapters/out/menu"
	"orderservice/internal/adapters/out/postgres"
	"orderservice/internal/adapters/out/postgres/orderrepo"
	"orderservice/internal/adapters/out/postgres/outboxrepo"
	"orderservice/internal/adapters/out/redis/shopqueue"
	"orderservice/internal/core/application/usecases/commands"
	"orderservice/internal/core/application/usecases/queries"
	"orderservice/internal/core/domain/services"
	"orderservice/internal/core/ports"
	"orderservice/internal/jobs"

	"github.com/bwmarrin/snowflake"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

const outboxRelayTimeout = 30 * time.Second

// CompositionRoot builds the use case handlers and jobs from their adapters.
type CompositionRoot struct {
	cfg        Config
	gormDB     *gorm.DB
	uowFactory *postgres.GormUnitOfWorkFactory
	outbox     ports.OutboxRepository
	shops      ports.ShopQueue
	menu       ports.MenuCatalog
	publisher  ports.MessagePublisher
	estimator  services.ReadyTimeEstimator
	logger     *slog.Logger
	closers    []func() error
}

// NewCompositionRoot picks the collaborator adapters from cfg: Redis, the menu
// service and Kafka when configured, in-memory fixtures otherwise.
func NewCompositionRoot(ctx context.Context, cfg Config, gormDB *gorm.DB, logger *slog.Logger) (*CompositionRoot, error) {
	node, err := snowflake.NewNode(cfg.SnowflakeNode)
	if err != nil {
		return nil, fmt.Errorf("snowflake node: %w", err)
	}
	estimator, err := services.NewReadyTimeEstimator(cfg.OrderQueueSlotDuration)
	if err != nil {
		return nil, err
	}

	c := &CompositionRoot{
		cfg:        cfg,
		gormDB:     gormDB,
		uowFactory: postgres.NewGormUnitOfWorkFactory(gormDB, node),
		outbox:     outboxrepo.NewGormOutboxRepository(gormDB, node),
		estimator:  estimator,
		logger:     logger,
	}

	var redisClient redis.UniversalClient
	if cfg.RedisAddr != "" {
		client := redis.NewClient(&redis.Options{
			Addr:         cfg.RedisAddr,
			Password:     cfg.RedisPassword,
			DB:           cfg.RedisDB,
			DialTimeout:  cfg.CollaboratorTimeout,
			ReadTimeout:  cfg.CollaboratorTimeout,
			WriteTimeout: cfg.CollaboratorTimeout,
		})
		c.closers = append(c.closers, client.Close)
		if err = client.Ping(ctx).Err(); err != nil {
			return nil, errors.Join(fmt.Errorf("redis ping: %w", err), c.Close())
		}
		redisClient = client
	}

	if err = c.wireShops(ctx, redisClient); err != nil {
		return nil, errors.Join(err, c.Close())
	}
	if err = c.wireMenu(redisClient); err != nil {
		return nil, errors.Join(err, c.Close())
	}
	c.wirePublisher()
	return c, nil
}

func (c *CompositionRoot) wireShops(ctx context.Context, client redis.UniversalClient) error {
	if client == nil {
		c.logger.Warn("REDIS_ADDR is not set, using in-memory shop queues with sample shops")
		c.shops = inmemory.NewShopQueue(inmemory.SampleShops()...)
		return nil
	}

	queue := shopqueue.NewRedisShopQueue(client)
	if len(c.cfg.ShopIDs) > 0 {
		if err := queue.RegisterShops(ctx, c.cfg.ShopIDs...); err != nil {
			return fmt.Errorf("register shops: %w", err)
		}
	}
	c.shops = queue
	return nil
}

func (c *CompositionRoot) wireMenu(client redis.UniversalClient) error {
	if c.cfg.MenuServiceURL == "" {
		c.logger.Warn("MENU_SERVICE_URL is not set, using the sample menu")
		c.menu = inmemory.NewMenuCatalog(inmemory.SampleMenu()...)
		return nil
	}

	catalog, err := menu.NewHTTPCatalog(c.cfg.MenuServiceURL, c.cfg.CollaboratorTimeout)
	if err != nil {
		return err
	}
	if client == nil {
		c.menu = catalog
		return nil
	}
	c.menu = menu.NewCachedCatalog(catalog, client, c.cfg.MenuCacheTTL, c.logger)
	return nil
}

func (c *CompositionRoot) wirePublisher() {
	if len(c.cfg.KafkaBrokers) == 0 {
		c.logger.Warn("KAFKA_BROKERS is not set, order events are only logged")
		c.publisher = inmemory.NewPublisher(c.logger)
		return
	}

	writer := kafka.NewWriter(c.cfg.KafkaBrokers, c.cfg.OrderEventsTopic)
	c.closers = append(c.closers, writer.Close)
	c.publisher = kafka.NewPublisher(writer)
}

// Close releases the Redis client and the Kafka writer, newest first.
func (c *CompositionRoot) Close() error {
	var err error
	for i := len(c.closers) - 1; i >= 0; i-- {
		err = errors.Join(err, c.closers[i]())
	}
	c.closers = nil
	return err
}

func (c *CompositionRoot) orderUoWFactory() commands.OrderUoWFactory {
	return FuncOrderUoWFactory(func() commands.OrderUoW {
		return c.uowFactory.Create()
	})
}

func (c *CompositionRoot) CreateCreateOrderCommandHandler() *commands.CreateOrderCommandHandler {
	h := commands.NewCreateOrderCommandHandler(c.orderUoWFactory(), c.shops, c.menu, c.estimator,
		c.cfg.CollaboratorTimeout, time.Now, c.logger)
	return &h
}

func (c *CompositionRoot) CreateChangeOrderStatusCommandHandler() *commands.ChangeOrderStatusCommandHandler {
	h := commands.NewChangeOrderStatusCommandHandler(c.orderUoWFactory(), c.shops, time.Now, c.logger)
	return &h
}

func (c *CompositionRoot) CreateCancelOrderCommandHandler() *commands.CancelOrderCommandHandler {
	h := commands.NewCancelOrderCommandHandler(*c.CreateChangeOrderStatusCommandHandler())
	return &h
}

func (c *CompositionRoot) CreateRelayOutboxCommandHandler() *commands.RelayOutboxCommandHandler {
	backoff := commands.RetryBackoff{Base: c.cfg.OutboxRetryBase, Max: c.cfg.OutboxRetryMax}
	h := commands.NewRelayOutboxCommandHandler(c.outbox, c.publisher, backoff, time.Now, c.logger)
	return &h
}

// Queries read outside any transaction, so nothing is tracked for the outbox.
func (c *CompositionRoot) CreateGetOrderQueryHandler() queries.GetOrderQueryHandler {
	return queries.NewGetOrderQueryHandler(orderrepo.NewGormOrderRepository(c.gormDB, nil))
}

func (c *CompositionRoot) CreateListOrdersQueryHandler() queries.ListOrdersQueryHandler {
	return queries.NewListOrdersQueryHandler(orderrepo.NewGormOrderRepository(c.gormDB, nil))
}

func (c *CompositionRoot) CreateJobManager() *jobs.JobManager {
	relay := jobs.NewOutboxRelayJob(
		c.CreateRelayOutboxCommandHandler(),
		c.cfg.OutboxRelaySchedule,
		c.cfg.OutboxBatchSize,
		outboxRelayTimeout,
		c.logger,
	)
	return jobs.NewJobManager().Add("outbox relay", relay)
}

type FuncOrderUoWFactory func() commands.OrderUoW

func (f FuncOrderUoWFactory) Create() commands.OrderUoW {
	return f()
}
