// Package cateringserver is the HTTP transport of the catering API: the gin
// router, request and response models, and one handler type per resource.
package cateringserver

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	apierrors "github.com/Apurer/catering-api/internal/shared/errors"
)

// DefaultBasePath prefixes every route.
const DefaultBasePath = "/api"

// Access says who may call a route.
type Access int

const (
	// AccessPublic routes are open to everyone.
	AccessPublic Access = iota
	// AccessPublicWrite routes are open but rate limited per client.
	AccessPublicWrite
	// AccessAdmin routes go through the admin guard.
	AccessAdmin
)

// Route is the information for every URI.
type Route struct {
	// Name is the name of this Route.
	Name string
	// Method is the string for the HTTP method. ex) GET, POST etc..
	Method string
	// Pattern is the pattern of the URI, relative to the base path.
	Pattern string
	// HandlerFunc is the handler function of this route.
	HandlerFunc gin.HandlerFunc
	Access      Access
}

// ApiHandleFunctions groups the handler sets the router dispatches to.
type ApiHandleFunctions struct {
	HealthAPI    HealthAPI
	OrderAPI     OrderAPI
	DeliveryAPI  DeliveryAPI
	ReviewAPI    ReviewAPI
	DishAPI      DishAPI
	CategoryAPI  CategoryAPI
	CustomerAPI  CustomerAPI
	MenuAPI      MenuAPI
	MessageAPI   MessageAPI
	SettingsAPI  SettingsAPI
	StatsAPI     StatsAPI
	AdminAuthAPI AdminAuthAPI
}

// RouterOptions tunes the router. The zero value serves every route openly
// under DefaultBasePath.
type RouterOptions struct {
	BasePath string
	// ProblemBaseURI prefixes relative problem type URIs.
	ProblemBaseURI string
	Logger         *slog.Logger
	// AdminGuard protects AccessAdmin routes; nil leaves them open.
	AdminGuard gin.HandlerFunc
	// WriteLimiter throttles AccessPublicWrite routes; nil disables it.
	WriteLimiter gin.HandlerFunc
	// Middleware runs before every route, after recovery and request logging.
	Middleware []gin.HandlerFunc
}

// NewRouter returns a new router.
func NewRouter(handleFunctions ApiHandleFunctions, opts RouterOptions) *gin.Engine {
	return NewRouterWithGinEngine(gin.New(), handleFunctions, opts)
}

// NewRouterWithGinEngine adds the routes to an existing gin engine.
func NewRouterWithGinEngine(router *gin.Engine, handleFunctions ApiHandleFunctions, opts RouterOptions) *gin.Engine {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	configureResponder(opts.ProblemBaseURI, logger)

	router.Use(gin.CustomRecovery(func(c *gin.Context, recovered any) {
		logger.LogAttrs(c.Request.Context(), slog.LevelError, "panic while serving request",
			slog.String("path", c.Request.URL.Path),
			slog.Any("panic", recovered),
		)
		respondProblem(c, apierrors.ErrInternal)
	}))
	router.Use(requestLogger(logger))
	router.Use(opts.Middleware...)
	router.NoRoute(func(c *gin.Context) {
		respondProblem(c, apierrors.ErrNotFound.WithMessage("Route non trouvée"))
	})

	basePath := opts.BasePath
	if strings.TrimSpace(basePath) == "" {
		basePath = DefaultBasePath
	}
	group := router.Group(strings.TrimRight(basePath, "/"))
	for _, route := range getRoutes(handleFunctions) {
		chain := make([]gin.HandlerFunc, 0, 2)
		switch route.Access {
		case AccessAdmin:
			if opts.AdminGuard != nil {
				chain = append(chain, opts.AdminGuard)
			}
		case AccessPublicWrite:
			if opts.WriteLimiter != nil {
				chain = append(chain, opts.WriteLimiter)
			}
		}
		chain = append(chain, route.HandlerFunc)
		group.Handle(route.Method, route.Pattern, chain...)
	}
	return router
}

func getRoutes(h ApiHandleFunctions) []Route {
	return []Route{
		{"Health", http.MethodGet, "/health", h.HealthAPI.Health, AccessPublic},

		{"ListOrders", http.MethodGet, "/orders", h.OrderAPI.ListOrders, AccessAdmin},
		{"GetOrder", http.MethodGet, "/orders/:id", h.OrderAPI.GetOrder, AccessPublic},
		{"CreateOrder", http.MethodPost, "/orders", h.OrderAPI.CreateOrder, AccessPublicWrite},
		{"UpdateOrderStatus", http.MethodPatch, "/orders/:id/status", h.OrderAPI.UpdateOrderStatus, AccessAdmin},
		{"GetOrderQRCode", http.MethodGet, "/orders/:id/qrcode", h.OrderAPI.GetOrderQRCode, AccessPublic},

		{"ListDeliveryOrders", http.MethodGet, "/delivery/orders", h.DeliveryAPI.ListDeliveryOrders, AccessAdmin},
		{"AdvanceDeliveryOrder", http.MethodPost, "/delivery/orders/:id/advance", h.DeliveryAPI.AdvanceDeliveryOrder, AccessAdmin},

		{"ListApprovedReviews", http.MethodGet, "/reviews", h.ReviewAPI.ListApprovedReviews, AccessPublic},
		{"ListAllReviews", http.MethodGet, "/reviews/all", h.ReviewAPI.ListAllReviews, AccessAdmin},
		{"SubmitReview", http.MethodPost, "/reviews", h.ReviewAPI.SubmitReview, AccessPublicWrite},
		{"ApproveReview", http.MethodPatch, "/reviews/:id/approve", h.ReviewAPI.ApproveReview, AccessAdmin},
		{"DeleteReview", http.MethodDelete, "/reviews/:id", h.ReviewAPI.DeleteReview, AccessAdmin},

		{"ListDishes", http.MethodGet, "/dishes", h.DishAPI.ListDishes, AccessPublic},
		{"GetDish", http.MethodGet, "/dishes/:id", h.DishAPI.GetDish, AccessPublic},
		{"CreateDish", http.MethodPost, "/dishes", h.DishAPI.CreateDish, AccessAdmin},
		{"UpdateDish", http.MethodPut, "/dishes/:id", h.DishAPI.UpdateDish, AccessAdmin},
		{"DeleteDish", http.MethodDelete, "/dishes/:id", h.DishAPI.DeleteDish, AccessAdmin},

		{"ListCategories", http.MethodGet, "/categories", h.CategoryAPI.ListCategories, AccessPublic},
		{"CreateCategory", http.MethodPost, "/categories", h.CategoryAPI.CreateCategory, AccessAdmin},
		{"UpdateCategory", http.MethodPut, "/categories/:id", h.CategoryAPI.UpdateCategory, AccessAdmin},
		{"DeleteCategory", http.MethodDelete, "/categories/:id", h.CategoryAPI.DeleteCategory, AccessAdmin},

		{"ListCustomers", http.MethodGet, "/customers", h.CustomerAPI.ListCustomers, AccessAdmin},
		{"GetCustomer", http.MethodGet, "/customers/:id", h.CustomerAPI.GetCustomer, AccessAdmin},
		{"RegisterCustomer", http.MethodPost, "/customers", h.CustomerAPI.RegisterCustomer, AccessPublicWrite},

		{"ListMenus", http.MethodGet, "/menus", h.MenuAPI.ListMenus, AccessPublic},
		{"CreateMenu", http.MethodPost, "/menus", h.MenuAPI.CreateMenu, AccessPublicWrite},
		{"DeleteMenu", http.MethodDelete, "/menus/:id", h.MenuAPI.DeleteMenu, AccessPublic},

		{"ListMessages", http.MethodGet, "/messages", h.MessageAPI.ListMessages, AccessAdmin},
		{"SubmitMessage", http.MethodPost, "/messages", h.MessageAPI.SubmitMessage, AccessPublicWrite},
		{"MarkMessageRead", http.MethodPatch, "/messages/:id/read", h.MessageAPI.MarkMessageRead, AccessAdmin},
		{"DeleteMessage", http.MethodDelete, "/messages/:id", h.MessageAPI.DeleteMessage, AccessAdmin},

		{"GetSettings", http.MethodGet, "/settings", h.SettingsAPI.GetSettings, AccessPublic},
		{"UpdateSettings", http.MethodPut, "/settings", h.SettingsAPI.UpdateSettings, AccessAdmin},

		{"GetStats", http.MethodGet, "/stats", h.StatsAPI.GetStats, AccessAdmin},

		{"RegisterAdmin", http.MethodPost, "/auth/admin/register", h.AdminAuthAPI.Register, AccessAdmin},
		{"LoginAdmin", http.MethodPost, "/auth/admin/login", h.AdminAuthAPI.Login, AccessPublicWrite},
		{"LogoutAdmin", http.MethodPost, "/auth/admin/logout", h.AdminAuthAPI.Logout, AccessPublic},
	}
}
