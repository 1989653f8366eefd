package api

import (
	"log/slog"
	"time"

	"gorm.io/gorm"

	cateringserver "github.com/Apurer/catering-api/go"
	adminsmemory "github.com/Apurer/catering-api/internal/domains/admins/adapters/memory"
	adminspostgres "github.com/Apurer/catering-api/internal/domains/admins/adapters/persistence/postgres"
	adminsapp "github.com/Apurer/catering-api/internal/domains/admins/application"
	adminsports "github.com/Apurer/catering-api/internal/domains/admins/ports"
	catalogevents "github.com/Apurer/catering-api/internal/domains/catalog/adapters/events"
	catalogmemory "github.com/Apurer/catering-api/internal/domains/catalog/adapters/memory"
	catalogpostgres "github.com/Apurer/catering-api/internal/domains/catalog/adapters/persistence/postgres"
	catalogapp "github.com/Apurer/catering-api/internal/domains/catalog/application"
	catalogports "github.com/Apurer/catering-api/internal/domains/catalog/ports"
	customersmemory "github.com/Apurer/catering-api/internal/domains/customers/adapters/memory"
	customerspostgres "github.com/Apurer/catering-api/internal/domains/customers/adapters/persistence/postgres"
	customersapp "github.com/Apurer/catering-api/internal/domains/customers/application"
	customersports "github.com/Apurer/catering-api/internal/domains/customers/ports"
	dashboardapp "github.com/Apurer/catering-api/internal/domains/dashboard/application"
	dashboardports "github.com/Apurer/catering-api/internal/domains/dashboard/ports"
	menusmemory "github.com/Apurer/catering-api/internal/domains/menus/adapters/memory"
	menuspostgres "github.com/Apurer/catering-api/internal/domains/menus/adapters/persistence/postgres"
	menusapp "github.com/Apurer/catering-api/internal/domains/menus/application"
	menusports "github.com/Apurer/catering-api/internal/domains/menus/ports"
	messagesmemory "github.com/Apurer/catering-api/internal/domains/messages/adapters/memory"
	messagespostgres "github.com/Apurer/catering-api/internal/domains/messages/adapters/persistence/postgres"
	messagesapp "github.com/Apurer/catering-api/internal/domains/messages/application"
	messagesports "github.com/Apurer/catering-api/internal/domains/messages/ports"
	orderscollaborators "github.com/Apurer/catering-api/internal/domains/orders/adapters/collaborators"
	ordersmemory "github.com/Apurer/catering-api/internal/domains/orders/adapters/memory"
	ordersobs "github.com/Apurer/catering-api/internal/domains/orders/adapters/observability"
	orderspostgres "github.com/Apurer/catering-api/internal/domains/orders/adapters/persistence/postgres"
	ordersapp "github.com/Apurer/catering-api/internal/domains/orders/application"
	ordersports "github.com/Apurer/catering-api/internal/domains/orders/ports"
	reviewscollaborators "github.com/Apurer/catering-api/internal/domains/reviews/adapters/collaborators"
	reviewsmemory "github.com/Apurer/catering-api/internal/domains/reviews/adapters/memory"
	reviewsobs "github.com/Apurer/catering-api/internal/domains/reviews/adapters/observability"
	reviewspostgres "github.com/Apurer/catering-api/internal/domains/reviews/adapters/persistence/postgres"
	reviewsapp "github.com/Apurer/catering-api/internal/domains/reviews/application"
	reviewsports "github.com/Apurer/catering-api/internal/domains/reviews/ports"
	settingsmemory "github.com/Apurer/catering-api/internal/domains/settings/adapters/memory"
	settingspostgres "github.com/Apurer/catering-api/internal/domains/settings/adapters/persistence/postgres"
	settingsapp "github.com/Apurer/catering-api/internal/domains/settings/application"
	settingsports "github.com/Apurer/catering-api/internal/domains/settings/ports"
	platformobservability "github.com/Apurer/catering-api/internal/platform/observability"
	"github.com/Apurer/catering-api/internal/shared/events"
)

// Repositories is the persistence set the services run on.
type Repositories struct {
	Dishes          catalogports.DishRepository
	Categories      catalogports.CategoryRepository
	Customers       customersports.Repository
	Orders          ordersports.Repository
	IdempotencyKeys ordersports.IdempotencyStore
	Reviews         reviewsports.Repository
	Menus           menusports.Repository
	Messages        messagesports.Repository
	Settings        settingsports.Repository
	Admins          adminsports.Repository
	Sessions        adminsports.SessionStore
}

// MemoryRepositories keeps everything in process memory.
func MemoryRepositories() Repositories {
	dishes, categories := catalogmemory.NewRepositories()
	return Repositories{
		Dishes:          dishes,
		Categories:      categories,
		Customers:       customersmemory.NewRepository(),
		Orders:          ordersmemory.NewRepository(),
		IdempotencyKeys: ordersmemory.NewIdempotencyStore(),
		Reviews:         reviewsmemory.NewRepository(),
		Menus:           menusmemory.NewRepository(),
		Messages:        messagesmemory.NewRepository(),
		Settings:        settingsmemory.NewRepository(),
		Admins:          adminsmemory.NewRepository(),
		Sessions:        adminsmemory.NewSessionStore(),
	}
}

// GormRepositories stores everything through db. The schema must already be
// migrated.
func GormRepositories(db *gorm.DB) Repositories {
	dishes, categories := catalogpostgres.NewRepositories(db)
	return Repositories{
		Dishes:          dishes,
		Categories:      categories,
		Customers:       customerspostgres.NewRepository(db),
		Orders:          orderspostgres.NewRepository(db),
		IdempotencyKeys: orderspostgres.NewIdempotencyStore(db),
		Reviews:         reviewspostgres.NewRepository(db),
		Menus:           menuspostgres.NewRepository(db),
		Messages:        messagespostgres.NewRepository(db),
		Settings:        settingspostgres.NewRepository(db),
		Admins:          adminspostgres.NewRepository(db),
		Sessions:        adminspostgres.NewSessionStore(db),
	}
}

// ServiceOptions carries the optional collaborators of NewServices.
type ServiceOptions struct {
	Logger      *slog.Logger
	Instruments *platformobservability.Instruments
	// Publisher receives integration events besides the in-process dispatcher.
	Publisher events.Publisher
	// LocalRatings folds approved review ratings in process. Disable it when a
	// separate rating-aggregator consumes the event stream.
	LocalRatings  bool
	SettingsCache settingsports.Cache
	Tokens        adminsports.TokenIssuer
	SessionTTL    time.Duration
	// HashCost overrides the bcrypt cost; tests lower it.
	HashCost int
}

// Services is every use case of the API, wired together.
type Services struct {
	Catalog    catalogports.Service
	Customers  customersports.Service
	Settings   settingsports.Service
	Orders     ordersports.Service
	Reviews    reviewsports.Service
	Menus      menusports.Service
	Messages   messagesports.Service
	Admins     adminsports.Service
	Dashboard  dashboardports.Service
	Dispatcher *events.Dispatcher
	// IdempotencyKeys backs inline order placement.
	IdempotencyKeys ordersports.IdempotencyStore
}

// NewServices builds the bounded contexts on top of repos.
func NewServices(repos Repositories, opts ServiceOptions) *Services {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	instruments := opts.Instruments

	dispatcher := events.NewDispatcher()
	publisher := events.Publisher(dispatcher)
	if opts.Publisher != nil {
		publisher = events.Fanout{dispatcher, opts.Publisher}
	}

	catalog := catalogapp.NewService(repos.Dishes, repos.Categories)
	customers := customersapp.NewService(repos.Customers)
	settings := settingsapp.NewService(repos.Settings, opts.SettingsCache, logger)

	coreOrders := ordersapp.NewService(
		repos.Orders,
		orderscollaborators.NewCatalog(catalog),
		orderscollaborators.NewCustomers(customers),
		orderscollaborators.NewPricing(settings),
		ordersapp.WithLogger(logger),
		ordersapp.WithPublisher(publisher),
	)
	orders := ordersobs.New(
		coreOrders,
		ordersobs.WithLogger(logger),
		ordersobs.WithTracer(instruments.Tracer("internal.orders.application")),
		ordersobs.WithMeter(instruments.Meter("internal.orders.application")),
	)

	coreReviews := reviewsapp.NewService(
		repos.Reviews,
		reviewscollaborators.NewOrders(orders),
		reviewsapp.WithLogger(logger),
		reviewsapp.WithPublisher(publisher),
	)
	reviews := reviewsobs.New(
		coreReviews,
		reviewsobs.WithLogger(logger),
		reviewsobs.WithTracer(instruments.Tracer("internal.reviews.application")),
		reviewsobs.WithMeter(instruments.Meter("internal.reviews.application")),
	)

	if opts.LocalRatings {
		aggregator := catalogevents.NewRatingAggregator(catalog, logger)
		dispatcher.Subscribe(events.ReviewApproved, aggregator.Handle)
		dispatcher.Subscribe(events.ReviewRetracted, aggregator.Handle)
	}

	adminOpts := []adminsapp.Option{adminsapp.WithLogger(logger)}
	if opts.SessionTTL > 0 {
		adminOpts = append(adminOpts, adminsapp.WithSessionTTL(opts.SessionTTL))
	}
	if opts.HashCost > 0 {
		adminOpts = append(adminOpts, adminsapp.WithHashCost(opts.HashCost))
	}

	return &Services{
		Catalog:         catalog,
		Customers:       customers,
		Settings:        settings,
		Orders:          orders,
		Reviews:         reviews,
		Menus:           menusapp.NewService(repos.Menus),
		Messages:        messagesapp.NewService(repos.Messages, logger),
		Admins:          adminsapp.NewService(repos.Admins, repos.Sessions, opts.Tokens, adminOpts...),
		Dashboard:       dashboardapp.NewService(orders, catalog, customers),
		Dispatcher:      dispatcher,
		IdempotencyKeys: repos.IdempotencyKeys,
	}
}

// Handlers binds the services to the HTTP handler sets.
func (s *Services) Handlers(workflows ordersports.WorkflowOrchestrator, codes cateringserver.TrackingCodes) cateringserver.ApiHandleFunctions {
	return cateringserver.ApiHandleFunctions{
		HealthAPI:    cateringserver.NewHealthAPI(),
		OrderAPI:     cateringserver.NewOrderAPI(s.Orders, workflows, codes),
		DeliveryAPI:  cateringserver.NewDeliveryAPI(s.Orders),
		ReviewAPI:    cateringserver.NewReviewAPI(s.Reviews),
		DishAPI:      cateringserver.NewDishAPI(s.Catalog),
		CategoryAPI:  cateringserver.NewCategoryAPI(s.Catalog),
		CustomerAPI:  cateringserver.NewCustomerAPI(s.Customers, s.Orders),
		MenuAPI:      cateringserver.NewMenuAPI(s.Menus),
		MessageAPI:   cateringserver.NewMessageAPI(s.Messages),
		SettingsAPI:  cateringserver.NewSettingsAPI(s.Settings),
		StatsAPI:     cateringserver.NewStatsAPI(s.Dashboard),
		AdminAuthAPI: cateringserver.NewAdminAuthAPI(s.Admins),
	}
}
