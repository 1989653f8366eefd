package cateringserver

import (
	"encoding/json"
	"errors"
	"time"

	"github.com/shopspring/decimal"

	catalogdomain "github.com/Apurer/catering-api/internal/domains/catalog/domain"
)

var errInvalidPortions = errors.New("portions must be a list or a comma separated string")

type Category struct {
	Id        string `json:"id"`
	Name      string `json:"name"`
	NameAr    string `json:"nameAr,omitempty"`
	Slug      string `json:"slug"`
	DishCount int64  `json:"dishCount"`
}

type CategoryRequest struct {
	Name   string `json:"name"`
	NameAr string `json:"nameAr"`
	Slug   string `json:"slug"`
}

type Dish struct {
	Id          string    `json:"id"`
	Name        string    `json:"name"`
	NameAr      string    `json:"nameAr,omitempty"`
	Description string    `json:"description"`
	Price       float64   `json:"price"`
	Image       string    `json:"image,omitempty"`
	Portions    []string  `json:"portions"`
	IsAvailable bool      `json:"isAvailable"`
	IsPopular   bool      `json:"isPopular"`
	Rating      float64   `json:"rating"`
	Reviews     int       `json:"reviews"`
	CategoryId  string    `json:"categoryId"`
	Category    *Category `json:"category,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// DishRequest is used by both create and update; on update only the fields
// present in the body change. Price may be quoted and portions may be one
// comma separated string.
type DishRequest struct {
	Name        *string          `json:"name"`
	NameAr      *string          `json:"nameAr"`
	Description *string          `json:"description"`
	Price       *decimal.Decimal `json:"price"`
	Image       *string          `json:"image"`
	Portions    json.RawMessage  `json:"portions"`
	IsAvailable *bool            `json:"isAvailable"`
	IsPopular   *bool            `json:"isPopular"`
	Rating      *float64         `json:"rating"`
	Reviews     *int             `json:"reviews"`
	CategoryId  *string          `json:"categoryId"`
}

func (r DishRequest) toPatch() (catalogdomain.DishPatch, error) {
	patch := catalogdomain.DishPatch{
		Name:        r.Name,
		NameAr:      r.NameAr,
		Description: r.Description,
		Price:       r.Price,
		Image:       r.Image,
		IsAvailable: r.IsAvailable,
		IsPopular:   r.IsPopular,
		Rating:      r.Rating,
		Reviews:     r.Reviews,
		CategoryID:  r.CategoryId,
	}
	if !isBlankJSON(r.Portions) {
		portions, err := parsePortions(r.Portions)
		if err != nil {
			return catalogdomain.DishPatch{}, err
		}
		patch.Portions = portions
		patch.SetPortions = true
	}
	return patch, nil
}

// toDish builds a new dish. Dishes are available unless stated otherwise.
func (r DishRequest) toDish() (*catalogdomain.Dish, error) {
	patch, err := r.toPatch()
	if err != nil {
		return nil, err
	}
	dish := &catalogdomain.Dish{
		Name:        deref(patch.Name),
		NameAr:      deref(patch.NameAr),
		Description: deref(patch.Description),
		Image:       deref(patch.Image),
		Portions:    patch.Portions,
		IsAvailable: true,
		IsPopular:   deref(patch.IsPopular),
		Rating:      deref(patch.Rating),
		Reviews:     deref(patch.Reviews),
		CategoryID:  deref(patch.CategoryID),
	}
	if patch.Price != nil {
		dish.Price = *patch.Price
	}
	if patch.IsAvailable != nil {
		dish.IsAvailable = *patch.IsAvailable
	}
	return dish, nil
}

func parsePortions(raw json.RawMessage) ([]string, error) {
	var list []string
	if err := json.Unmarshal(raw, &list); err == nil {
		return catalogdomain.NormalizePortions(list), nil
	}
	var joined string
	if err := json.Unmarshal(raw, &joined); err == nil {
		return catalogdomain.SplitPortions(joined), nil
	}
	return nil, errInvalidPortions
}

func toCategory(category *catalogdomain.Category) *Category {
	if category == nil {
		return nil
	}
	return &Category{
		Id:        category.ID,
		Name:      category.Name,
		NameAr:    category.NameAr,
		Slug:      category.Slug,
		DishCount: category.DishCount,
	}
}

func toCategories(categories []*catalogdomain.Category) []Category {
	out := make([]Category, 0, len(categories))
	for _, category := range categories {
		out = append(out, *toCategory(category))
	}
	return out
}

func toDish(dish *catalogdomain.Dish) Dish {
	portions := dish.Portions
	if portions == nil {
		portions = []string{}
	}
	return Dish{
		Id:          dish.ID,
		Name:        dish.Name,
		NameAr:      dish.NameAr,
		Description: dish.Description,
		Price:       dish.Price.InexactFloat64(),
		Image:       dish.Image,
		Portions:    portions,
		IsAvailable: dish.IsAvailable,
		IsPopular:   dish.IsPopular,
		Rating:      dish.Rating,
		Reviews:     dish.Reviews,
		CategoryId:  dish.CategoryID,
		Category:    toCategory(dish.Category),
		CreatedAt:   dish.CreatedAt,
		UpdatedAt:   dish.UpdatedAt,
	}
}

func toDishes(dishes []*catalogdomain.Dish) []Dish {
	out := make([]Dish, 0, len(dishes))
	for _, dish := range dishes {
		out = append(out, toDish(dish))
	}
	return out
}
