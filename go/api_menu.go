package cateringserver

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	menusdomain "github.com/Apurer/catering-api/internal/domains/menus/domain"
	menusports "github.com/Apurer/catering-api/internal/domains/menus/ports"
)

type MenuItem struct {
	DishId   string `json:"dishId"`
	Quantity int    `json:"quantity"`
}

type Menu struct {
	Id          string     `json:"id"`
	Name        string     `json:"name"`
	Description string     `json:"description"`
	Items       []MenuItem `json:"items"`
	CustomerId  string     `json:"customerId,omitempty"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
}

type MenuItemRequest struct {
	DishId   string          `json:"dishId"`
	Quantity json.RawMessage `json:"quantity"`
}

type MenuRequest struct {
	Name        string            `json:"name"`
	Description string            `json:"description"`
	Items       []MenuItemRequest `json:"items"`
	CustomerId  string            `json:"customerId"`
}

func (r MenuRequest) toMenu() *menusdomain.SavedMenu {
	menu := &menusdomain.SavedMenu{
		Name:        r.Name,
		Description: r.Description,
		CustomerID:  r.CustomerId,
		Items:       make([]menusdomain.Item, 0, len(r.Items)),
	}
	for _, item := range r.Items {
		quantity, _ := parseIntField(item.Quantity)
		menu.Items = append(menu.Items, menusdomain.Item{DishID: item.DishId, Quantity: quantity})
	}
	return menu
}

func toMenu(menu *menusdomain.SavedMenu) Menu {
	out := Menu{
		Id:          menu.ID,
		Name:        menu.Name,
		Description: menu.Description,
		CustomerId:  menu.CustomerID,
		Items:       make([]MenuItem, 0, len(menu.Items)),
		CreatedAt:   menu.CreatedAt,
		UpdatedAt:   menu.UpdatedAt,
	}
	for _, item := range menu.Items {
		out.Items = append(out.Items, MenuItem{DishId: item.DishID, Quantity: item.Quantity})
	}
	return out
}

// MenuAPI manages saved menus.
type MenuAPI struct {
	service menusports.Service
}

func NewMenuAPI(service menusports.Service) MenuAPI {
	return MenuAPI{service: service}
}

// Get /api/menus
// Saved menus, optionally those of one customer
func (api *MenuAPI) ListMenus(c *gin.Context) {
	menus, err := api.service.List(c.Request.Context(), c.Query("customerId"))
	if err != nil {
		respondError(c, err)
		return
	}
	out := make([]Menu, 0, len(menus))
	for _, menu := range menus {
		out = append(out, toMenu(menu))
	}
	c.JSON(http.StatusOK, out)
}

// Post /api/menus
func (api *MenuAPI) CreateMenu(c *gin.Context) {
	var payload MenuRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		respondBadRequest(c, "Corps de requête invalide", err)
		return
	}
	created, err := api.service.Create(c.Request.Context(), payload.toMenu())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, toMenu(created))
}

// Delete /api/menus/:id
func (api *MenuAPI) DeleteMenu(c *gin.Context) {
	if err := api.service.Delete(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
