package cateringserver

import (
	"net/http"

	"github.com/gin-gonic/gin"

	catalogdomain "github.com/Apurer/catering-api/internal/domains/catalog/domain"
	catalogports "github.com/Apurer/catering-api/internal/domains/catalog/ports"
)

// DishAPI exposes the dish catalog.
type DishAPI struct {
	service catalogports.Service
}

func NewDishAPI(service catalogports.Service) DishAPI {
	return DishAPI{service: service}
}

// Get /api/dishes
// List dishes by category slug, search term and sort order
func (api *DishAPI) ListDishes(c *gin.Context) {
	dishes, err := api.service.ListDishes(c.Request.Context(), catalogdomain.DishFilter{
		CategorySlug: c.Query("category"),
		Search:       c.Query("search"),
		Sort:         catalogdomain.ParseSortOrder(c.Query("sort")),
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toDishes(dishes))
}

// Get /api/dishes/:id
func (api *DishAPI) GetDish(c *gin.Context) {
	dish, err := api.service.GetDish(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toDish(dish))
}

// Post /api/dishes
func (api *DishAPI) CreateDish(c *gin.Context) {
	var payload DishRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		respondBadRequest(c, "Corps de requête invalide", err)
		return
	}
	dish, err := payload.toDish()
	if err != nil {
		respondBadRequest(c, "Portions invalides", err)
		return
	}
	created, err := api.service.CreateDish(c.Request.Context(), dish)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, toDish(created))
}

// Put /api/dishes/:id
// Update the supplied fields of a dish
func (api *DishAPI) UpdateDish(c *gin.Context) {
	var payload DishRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		respondBadRequest(c, "Corps de requête invalide", err)
		return
	}
	patch, err := payload.toPatch()
	if err != nil {
		respondBadRequest(c, "Portions invalides", err)
		return
	}
	updated, err := api.service.UpdateDish(c.Request.Context(), c.Param("id"), patch)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toDish(updated))
}

// Delete /api/dishes/:id
func (api *DishAPI) DeleteDish(c *gin.Context) {
	if err := api.service.DeleteDish(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// CategoryAPI exposes dish categories.
type CategoryAPI struct {
	service catalogports.Service
}

func NewCategoryAPI(service catalogports.Service) CategoryAPI {
	return CategoryAPI{service: service}
}

// Get /api/categories
// List categories with their dish counts
func (api *CategoryAPI) ListCategories(c *gin.Context) {
	categories, err := api.service.ListCategories(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toCategories(categories))
}

// Post /api/categories
func (api *CategoryAPI) CreateCategory(c *gin.Context) {
	var payload CategoryRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		respondBadRequest(c, "Corps de requête invalide", err)
		return
	}
	created, err := api.service.CreateCategory(c.Request.Context(), &catalogdomain.Category{
		Name:   payload.Name,
		NameAr: payload.NameAr,
		Slug:   payload.Slug,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, toCategory(created))
}

// Put /api/categories/:id
func (api *CategoryAPI) UpdateCategory(c *gin.Context) {
	var payload CategoryRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		respondBadRequest(c, "Corps de requête invalide", err)
		return
	}
	updated, err := api.service.UpdateCategory(c.Request.Context(), c.Param("id"), &catalogdomain.Category{
		Name:   payload.Name,
		NameAr: payload.NameAr,
		Slug:   payload.Slug,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toCategory(updated))
}

// Delete /api/categories/:id
// Refused while dishes still reference the category
func (api *CategoryAPI) DeleteCategory(c *gin.Context) {
	if err := api.service.DeleteCategory(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
