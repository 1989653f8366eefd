package cateringserver

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	dashboardports "github.com/Apurer/catering-api/internal/domains/dashboard/ports"
	settingsdomain "github.com/Apurer/catering-api/internal/domains/settings/domain"
	settingsports "github.com/Apurer/catering-api/internal/domains/settings/ports"
)

type Settings struct {
	Id                    string    `json:"id"`
	RestaurantName        string    `json:"restaurantName"`
	Phone                 string    `json:"phone"`
	Email                 string    `json:"email"`
	Address               string    `json:"address"`
	OpeningHours          string    `json:"openingHours"`
	WhatsappNumber        string    `json:"whatsappNumber"`
	DeliveryFee           float64   `json:"deliveryFee"`
	FreeDeliveryThreshold float64   `json:"freeDeliveryThreshold"`
	UpdatedAt             time.Time `json:"updatedAt"`
}

// SettingsRequest updates only the fields present in the body.
type SettingsRequest struct {
	RestaurantName        *string          `json:"restaurantName"`
	Phone                 *string          `json:"phone"`
	Email                 *string          `json:"email"`
	Address               *string          `json:"address"`
	OpeningHours          *string          `json:"openingHours"`
	WhatsappNumber        *string          `json:"whatsappNumber"`
	DeliveryFee           *decimal.Decimal `json:"deliveryFee"`
	FreeDeliveryThreshold *decimal.Decimal `json:"freeDeliveryThreshold"`
}

func toSettings(s *settingsdomain.Settings) Settings {
	return Settings{
		Id:                    s.ID,
		RestaurantName:        s.RestaurantName,
		Phone:                 s.Phone,
		Email:                 s.Email,
		Address:               s.Address,
		OpeningHours:          s.OpeningHours,
		WhatsappNumber:        s.WhatsappNumber,
		DeliveryFee:           s.DeliveryFee.InexactFloat64(),
		FreeDeliveryThreshold: s.FreeDeliveryThreshold.InexactFloat64(),
		UpdatedAt:             s.UpdatedAt,
	}
}

// SettingsAPI reads and updates the restaurant settings.
type SettingsAPI struct {
	service settingsports.Service
}

func NewSettingsAPI(service settingsports.Service) SettingsAPI {
	return SettingsAPI{service: service}
}

// Get /api/settings
func (api *SettingsAPI) GetSettings(c *gin.Context) {
	settings, err := api.service.Get(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toSettings(settings))
}

// Put /api/settings
func (api *SettingsAPI) UpdateSettings(c *gin.Context) {
	var payload SettingsRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		respondBadRequest(c, "Corps de requête invalide", err)
		return
	}
	updated, err := api.service.Update(c.Request.Context(), settingsdomain.Patch{
		RestaurantName:        payload.RestaurantName,
		Phone:                 payload.Phone,
		Email:                 payload.Email,
		Address:               payload.Address,
		OpeningHours:          payload.OpeningHours,
		WhatsappNumber:        payload.WhatsappNumber,
		DeliveryFee:           payload.DeliveryFee,
		FreeDeliveryThreshold: payload.FreeDeliveryThreshold,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toSettings(updated))
}

type Stats struct {
	TotalOrders    int64   `json:"totalOrders"`
	PendingOrders  int64   `json:"pendingOrders"`
	TotalRevenue   float64 `json:"totalRevenue"`
	AvgOrderValue  float64 `json:"avgOrderValue"`
	TotalDishes    int64   `json:"totalDishes"`
	TotalCustomers int64   `json:"totalCustomers"`
}

// StatsAPI serves the dashboard figures.
type StatsAPI struct {
	service dashboardports.Service
}

func NewStatsAPI(service dashboardports.Service) StatsAPI {
	return StatsAPI{service: service}
}

// Get /api/stats
func (api *StatsAPI) GetStats(c *gin.Context) {
	stats, err := api.service.Stats(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, Stats{
		TotalOrders:    stats.TotalOrders,
		PendingOrders:  stats.PendingOrders,
		TotalRevenue:   stats.TotalRevenue.InexactFloat64(),
		AvgOrderValue:  stats.AvgOrderValue.InexactFloat64(),
		TotalDishes:    stats.TotalDishes,
		TotalCustomers: stats.TotalCustomers,
	})
}

// HealthAPI answers liveness probes.
type HealthAPI struct {
	now func() time.Time
}

func NewHealthAPI() HealthAPI {
	return HealthAPI{now: time.Now}
}

// Get /api/health
func (api *HealthAPI) Health(c *gin.Context) {
	now := time.Now
	if api.now != nil {
		now = api.now
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok", "timestamp": now().UTC().Format(time.RFC3339)})
}
