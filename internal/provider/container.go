package provider

import (
	"github.com/repartia/api/internal/cache"
	"github.com/repartia/api/internal/config"
	"github.com/repartia/api/internal/logger"
	"github.com/repartia/api/internal/models"
	"github.com/repartia/api/internal/queue"
	"github.com/repartia/api/internal/repository"
	"github.com/repartia/api/internal/service"
)

// Container dependency injection container
type Container struct {
	Config      *config.Config
	QueueClient *queue.Client

	// Repositories
	UserRepo         repository.UserRepository
	ClientRepo       repository.ClientRepository
	ProductRepo      repository.ProductRepository
	SpecialPriceRepo repository.SpecialPriceRepository
	OrderRepo        repository.OrderRepository
	PaymentRepo      repository.PaymentRepository
	CreditRepo       repository.CreditRepository
	RouteRepo        repository.RouteRepository

	// Services
	AuthService        *service.AuthService
	ClientService      *service.ClientService
	ProductService     *service.ProductService
	DebtService        *service.DebtService
	OrderService       *service.OrderService
	FulfillmentService *service.FulfillmentService
	AssignmentService  *service.AssignmentService
	WorkListService    *service.WorkListService
	RouteService       *service.RouteService
}

// NewContainer initializes the container
func NewContainer(cfg *config.Config) *Container {
	if err := cache.InitRedis(&cfg.Redis); err != nil {
		logger.Warnw("provider_init_redis_failed", "error", err)
	}

	var queueClient *queue.Client
	if cfg.Queue.Enabled {
		qc, err := queue.NewClient(&cfg.Queue)
		if err != nil {
			logger.Errorw("provider_init_queue_client_failed", "error", err)
		} else {
			queueClient = qc
		}
	}

	c := &Container{
		Config:      cfg,
		QueueClient: queueClient,
	}

	c.initRepositories()
	c.initServices()

	return c
}

func (c *Container) initRepositories() {
	db := models.DB
	c.UserRepo = repository.NewUserRepository(db)
	c.ClientRepo = repository.NewClientRepository(db)
	c.ProductRepo = repository.NewProductRepository(db)
	c.SpecialPriceRepo = repository.NewSpecialPriceRepository(db)
	c.OrderRepo = repository.NewOrderRepository(db)
	c.PaymentRepo = repository.NewPaymentRepository(db)
	c.CreditRepo = repository.NewCreditRepository(db)
	c.RouteRepo = repository.NewRouteRepository(db)
}

func (c *Container) initServices() {
	c.AuthService = service.NewAuthService(c.Config, c.UserRepo)
	c.ClientService = service.NewClientService(c.ClientRepo)
	c.ProductService = service.NewProductService(c.ProductRepo, c.SpecialPriceRepo)
	c.DebtService = service.NewDebtService(c.ClientRepo, c.PaymentRepo)
	c.OrderService = service.NewOrderService(c.OrderRepo, c.ClientRepo, c.ProductRepo,
		c.SpecialPriceRepo, c.CreditRepo, c.ProductService, c.DebtService)
	c.FulfillmentService = service.NewFulfillmentService(c.OrderRepo, c.CreditRepo)
	c.AssignmentService = service.NewAssignmentService(c.OrderRepo, c.UserRepo,
		service.StrategyByName(c.Config.Assignment.Strategy), c.QueueClient)
	c.WorkListService = service.NewWorkListService(c.OrderRepo, c.RouteRepo, c.ClientRepo, c.UserRepo)
	c.RouteService = service.NewRouteService(c.RouteRepo, c.ClientRepo, c.UserRepo)
}
