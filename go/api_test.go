package cateringserver_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	cateringserver "github.com/Apurer/catering-api/go"
	"github.com/Apurer/catering-api/internal/app/api"
	"github.com/Apurer/catering-api/internal/domains/admins/adapters/token"
	"github.com/Apurer/catering-api/internal/domains/orders/adapters/qrcode"
	"github.com/Apurer/catering-api/internal/domains/orders/adapters/workflows"
)

type testServer struct {
	t        *testing.T
	router   http.Handler
	services *api.Services
	token    string
}

type serverOption func(*api.Services, *cateringserver.RouterOptions)

func withAdminGuard() serverOption {
	return func(s *api.Services, o *cateringserver.RouterOptions) {
		o.AdminGuard = cateringserver.AdminGuard(s.Admins)
	}
}

func withWriteLimit(perMinute int) serverOption {
	return func(_ *api.Services, o *cateringserver.RouterOptions) {
		o.WriteLimiter = cateringserver.NewRateLimiter(perMinute).Middleware()
	}
}

func newTestServer(t *testing.T, opts ...serverOption) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)
	issuer, err := token.NewJWTIssuer("test-secret")
	require.NoError(t, err)
	services := api.NewServices(api.MemoryRepositories(), api.ServiceOptions{
		Tokens:       issuer,
		LocalRatings: true,
		HashCost:     bcrypt.MinCost,
	})
	routerOpts := cateringserver.RouterOptions{}
	for _, opt := range opts {
		opt(services, &routerOpts)
	}
	handlers := services.Handlers(
		workflows.NewInlineOrderWorkflows(services.Orders, services.IdempotencyKeys),
		qrcode.NewGenerator("https://traiteur.tn"),
	)
	return &testServer{t: t, router: cateringserver.NewRouter(handlers, routerOpts), services: services}
}

func (s *testServer) do(method, path string, body any, headers ...string) *httptest.ResponseRecorder {
	s.t.Helper()
	var reader io.Reader
	if body != nil {
		raw, ok := body.(string)
		if !ok {
			encoded, err := json.Marshal(body)
			require.NoError(s.t, err)
			raw = string(encoded)
		}
		reader = bytes.NewBufferString(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if s.token != "" {
		req.Header.Set("Authorization", "Bearer "+s.token)
	}
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out), rec.Body.String())
	return out
}

func (s *testServer) seedDish(price float64) (categoryID, dishID string) {
	s.t.Helper()
	rec := s.do(http.MethodPost, "/api/categories", map[string]any{"name": "Plats tunisiens"})
	require.Equal(s.t, http.StatusCreated, rec.Code, rec.Body.String())
	category := decode[cateringserver.Category](s.t, rec)

	rec = s.do(http.MethodPost, "/api/dishes", map[string]any{
		"name":       "Couscous",
		"price":      price,
		"categoryId": category.Id,
		"portions":   "2 pers, 4 pers",
	})
	require.Equal(s.t, http.StatusCreated, rec.Code, rec.Body.String())
	dish := decode[cateringserver.Dish](s.t, rec)
	return category.Id, dish.Id
}

func (s *testServer) placeOrder(dishID string) cateringserver.Order {
	s.t.Helper()
	rec := s.do(http.MethodPost, "/api/orders", map[string]any{
		"items":    []map[string]any{{"dishId": dishID, "quantity": 2, "price": 10}},
		"total":    20,
		"customer": map[string]any{"firstName": "A", "lastName": "B", "email": "a@b.com"},
	})
	require.Equal(s.t, http.StatusCreated, rec.Code, rec.Body.String())
	return decode[cateringserver.Order](s.t, rec)
}

func TestHealth(t *testing.T) {
	srv := newTestServer(t)
	rec := srv.do(http.MethodGet, "/api/health", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	body := decode[map[string]string](t, rec)
	require.Equal(t, "ok", body["status"])
	require.NotEmpty(t, body["timestamp"])
}

func TestCreateOrder(t *testing.T) {
	srv := newTestServer(t)
	_, dishID := srv.seedDish(10)

	order := srv.placeOrder(dishID)
	require.Equal(t, 20.0, order.Total)
	require.Len(t, order.Items, 1)
	require.Equal(t, 2, order.Items[0].Quantity)
	require.Equal(t, "Couscous", order.Items[0].DishName)
	require.Equal(t, "PENDING", order.Status)
	require.NotNil(t, order.Customer)
	require.Equal(t, "a@b.com", order.Customer.Email)

	rec := srv.do(http.MethodGet, "/api/orders/"+order.Id, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, order.Id, decode[cateringserver.Order](t, rec).Id)
}

func TestCreateOrder_SkipsUnknownDishes(t *testing.T) {
	srv := newTestServer(t)
	_, dishID := srv.seedDish(10)

	rec := srv.do(http.MethodPost, "/api/orders", map[string]any{
		"items": []map[string]any{
			{"dishId": dishID, "quantity": 1},
			{"dishId": "missing", "quantity": 3},
		},
		"customer": map[string]any{"firstName": "Sami", "email": "sami@example.tn"},
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	order := decode[cateringserver.Order](t, rec)
	require.Len(t, order.Items, 1)
	require.Equal(t, dishID, order.Items[0].DishId)

	rec = srv.do(http.MethodPost, "/api/orders", map[string]any{
		"items":    []map[string]any{{"dishId": "missing", "quantity": 1}},
		"customer": map[string]any{"firstName": "Sami", "email": "sami@example.tn"},
	})
	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Equal(t, "Aucun article valide dans la commande", decode[map[string]any](t, rec)["error"])

	rec = srv.do(http.MethodGet, "/api/orders", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Len(t, decode[[]cateringserver.Order](t, rec), 1)
}

func TestCreateOrder_RejectsMalformedBody(t *testing.T) {
	srv := newTestServer(t)
	rec := srv.do(http.MethodPost, "/api/orders", `{"items": [`)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Contains(t, rec.Header().Get("Content-Type"), "problem+json")
	require.Equal(t, "Corps de requête invalide", decode[map[string]any](t, rec)["error"])
}

func TestCreateOrder_RejectsFractionalAndHugeQuantities(t *testing.T) {
	srv := newTestServer(t)
	_, dishID := srv.seedDish(10)

	for _, quantity := range []any{1.9, 0.5, 1e20, "2.5"} {
		rec := srv.do(http.MethodPost, "/api/orders", map[string]any{
			"customer": map[string]any{"firstName": "A", "email": "a@b.com"},
			"items":    []map[string]any{{"dishId": dishID, "quantity": quantity}},
		})
		require.Equal(t, http.StatusBadRequest, rec.Code, "%v", quantity)
		require.Equal(t, "Quantité invalide", decode[map[string]any](t, rec)["error"])
	}

	rec := srv.do(http.MethodGet, "/api/orders", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Empty(t, decode[[]cateringserver.Order](t, rec))
}

func TestCreateOrder_IdempotencyKey(t *testing.T) {
	srv := newTestServer(t)
	_, dishID := srv.seedDish(10)
	body := map[string]any{
		"items":    []map[string]any{{"dishId": dishID, "quantity": 1}},
		"customer": map[string]any{"firstName": "Leila", "email": "leila@example.tn"},
	}

	first := srv.do(http.MethodPost, "/api/orders", body, cateringserver.IdempotencyKeyHeader, "key-1")
	require.Equal(t, http.StatusCreated, first.Code, first.Body.String())
	second := srv.do(http.MethodPost, "/api/orders", body, cateringserver.IdempotencyKeyHeader, "key-1")
	require.Equal(t, http.StatusCreated, second.Code, second.Body.String())
	require.Equal(t, decode[cateringserver.Order](t, first).Id, decode[cateringserver.Order](t, second).Id)

	body["items"] = []map[string]any{{"dishId": dishID, "quantity": 5}}
	conflict := srv.do(http.MethodPost, "/api/orders", body, cateringserver.IdempotencyKeyHeader, "key-1")
	require.Equal(t, http.StatusConflict, conflict.Code)
}

func TestUpdateOrderStatus(t *testing.T) {
	srv := newTestServer(t)
	_, dishID := srv.seedDish(10)
	order := srv.placeOrder(dishID)
	path := "/api/orders/" + order.Id + "/status"

	rec := srv.do(http.MethodPatch, path, map[string]string{"status": "preparing"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	require.Equal(t, "PREPARING", decode[cateringserver.Order](t, rec).Status)

	rec = srv.do(http.MethodPatch, path, map[string]string{"status": "delivering"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	require.Equal(t, "DELIVERING", decode[cateringserver.Order](t, rec).Status)

	rec = srv.do(http.MethodGet, "/api/orders/"+order.Id, nil)
	require.Equal(t, "DELIVERING", decode[cateringserver.Order](t, rec).Status)

	rec = srv.do(http.MethodPatch, path, map[string]string{"status": "pending"})
	require.Equal(t, http.StatusConflict, rec.Code)
	require.Equal(t, "Transition de statut non autorisée", decode[map[string]any](t, rec)["error"])

	rec = srv.do(http.MethodPatch, path, map[string]string{"status": "shipped"})
	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Equal(t, "Statut invalide", decode[map[string]any](t, rec)["error"])

	rec = srv.do(http.MethodPatch, "/api/orders/unknown/status", map[string]string{"status": "confirmed"})
	require.Equal(t, http.StatusNotFound, rec.Code)
	require.Equal(t, "Commande non trouvée", decode[map[string]any](t, rec)["error"])
}

func TestUpdateOrderStatus_BackwardMovesKeepStoredStatus(t *testing.T) {
	srv := newTestServer(t)
	_, dishID := srv.seedDish(10)
	order := srv.placeOrder(dishID)
	path := "/api/orders/" + order.Id + "/status"

	rec := srv.do(http.MethodPatch, path, map[string]string{"status": "delivered"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	for _, status := range []string{"pending", "confirmed", "preparing", "delivering"} {
		rec = srv.do(http.MethodPatch, path, map[string]string{"status": status})
		require.Equal(t, http.StatusConflict, rec.Code, status)
		require.Contains(t, rec.Header().Get("Content-Type"), "problem+json")

		rec = srv.do(http.MethodGet, "/api/orders/"+order.Id, nil)
		require.Equal(t, http.StatusOK, rec.Code)
		require.Equal(t, "DELIVERED", decode[cateringserver.Order](t, rec).Status, status)
	}

	rec = srv.do(http.MethodPatch, path, map[string]string{"status": "delivered"})
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "DELIVERED", decode[cateringserver.Order](t, rec).Status)
}

func TestDeliveryQueue(t *testing.T) {
	srv := newTestServer(t)
	_, dishID := srv.seedDish(10)
	waiting := srv.placeOrder(dishID)
	cooking := srv.placeOrder(dishID)
	rec := srv.do(http.MethodPatch, "/api/orders/"+cooking.Id+"/status", map[string]string{"status": "PREPARING"})
	require.Equal(t, http.StatusOK, rec.Code)

	rec = srv.do(http.MethodGet, "/api/delivery/orders", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	queue := decode[[]cateringserver.Order](t, rec)
	require.Len(t, queue, 1)
	require.Equal(t, cooking.Id, queue[0].Id)

	rec = srv.do(http.MethodPost, "/api/delivery/orders/"+cooking.Id+"/advance", nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	require.Equal(t, "DELIVERING", decode[cateringserver.Order](t, rec).Status)

	rec = srv.do(http.MethodPost, "/api/delivery/orders/"+waiting.Id+"/advance", nil)
	require.Equal(t, http.StatusConflict, rec.Code)
}

func TestOrderQRCode(t *testing.T) {
	srv := newTestServer(t)
	_, dishID := srv.seedDish(10)
	order := srv.placeOrder(dishID)

	rec := srv.do(http.MethodGet, "/api/orders/"+order.Id+"/qrcode", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "image/png", rec.Header().Get("Content-Type"))
	require.True(t, bytes.HasPrefix(rec.Body.Bytes(), []byte("\x89PNG")))

	rec = srv.do(http.MethodGet, "/api/orders/unknown/qrcode", nil)
	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestReviews_ResubmissionReplacesAndResetsApproval(t *testing.T) {
	srv := newTestServer(t)
	_, dishID := srv.seedDish(10)
	order := srv.placeOrder(dishID)

	rec := srv.do(http.MethodPost, "/api/reviews", map[string]any{"orderId": order.Id, "rating": 4, "comment": "Good", "customerName": "A"})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	reviewID := decode[cateringserver.Review](t, rec).Id

	rec = srv.do(http.MethodPatch, "/api/reviews/"+reviewID+"/approve", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.True(t, decode[cateringserver.Review](t, rec).IsApproved)

	rec = srv.do(http.MethodPost, "/api/reviews", map[string]any{"orderId": order.Id, "rating": 2, "comment": "Changed mind", "customerName": "A"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = srv.do(http.MethodGet, "/api/reviews/all", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	all := decode[[]cateringserver.Review](t, rec)
	require.Len(t, all, 1)
	require.Equal(t, order.Id, all[0].OrderId)
	require.Equal(t, 2, all[0].Rating)
	require.Equal(t, "Changed mind", all[0].Comment)
	require.False(t, all[0].IsApproved)

	rec = srv.do(http.MethodGet, "/api/reviews", nil)
	require.Empty(t, decode[[]cateringserver.Review](t, rec))
}

func TestReviews_Validation(t *testing.T) {
	srv := newTestServer(t)
	_, dishID := srv.seedDish(10)
	order := srv.placeOrder(dishID)

	for _, body := range []map[string]any{
		{"orderId": order.Id, "comment": "no rating"},
		{"orderId": order.Id, "rating": 6},
		{"orderId": order.Id, "rating": "four"},
	} {
		rec := srv.do(http.MethodPost, "/api/reviews", body)
		require.Equal(t, http.StatusBadRequest, rec.Code, rec.Body.String())
	}

	rec := srv.do(http.MethodPost, "/api/reviews", map[string]any{"orderId": "unknown", "rating": 5})
	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestApprovedReviewFoldsIntoDishRating(t *testing.T) {
	srv := newTestServer(t)
	_, dishID := srv.seedDish(10)
	order := srv.placeOrder(dishID)

	rec := srv.do(http.MethodPost, "/api/reviews", map[string]any{"orderId": order.Id, "rating": 4})
	require.Equal(t, http.StatusCreated, rec.Code)
	reviewID := decode[cateringserver.Review](t, rec).Id
	rec = srv.do(http.MethodPatch, "/api/reviews/"+reviewID+"/approve", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = srv.do(http.MethodGet, "/api/dishes/"+dishID, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	dish := decode[cateringserver.Dish](t, rec)
	require.Equal(t, 1, dish.Reviews)
	require.InDelta(t, 4.0, dish.Rating, 0.001)
}

func TestReviewEditsAndDeletesKeepDishRatingInStep(t *testing.T) {
	srv := newTestServer(t)
	_, dishID := srv.seedDish(10)
	order := srv.placeOrder(dishID)
	dishRating := func() cateringserver.Dish {
		rec := srv.do(http.MethodGet, "/api/dishes/"+dishID, nil)
		require.Equal(t, http.StatusOK, rec.Code)
		return decode[cateringserver.Dish](t, rec)
	}

	rec := srv.do(http.MethodPost, "/api/reviews", map[string]any{"orderId": order.Id, "rating": 4})
	require.Equal(t, http.StatusCreated, rec.Code)
	reviewID := decode[cateringserver.Review](t, rec).Id
	rec = srv.do(http.MethodPatch, "/api/reviews/"+reviewID+"/approve", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = srv.do(http.MethodPost, "/api/reviews", map[string]any{"orderId": order.Id, "rating": 2})
	require.Equal(t, http.StatusOK, rec.Code)
	dish := dishRating()
	require.Equal(t, 1, dish.Reviews)
	require.InDelta(t, 4.0, dish.Rating, 0.001)

	rec = srv.do(http.MethodPatch, "/api/reviews/"+reviewID+"/approve", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	dish = dishRating()
	require.Equal(t, 1, dish.Reviews)
	require.InDelta(t, 2.0, dish.Rating, 0.001)

	rec = srv.do(http.MethodDelete, "/api/reviews/"+reviewID, nil)
	require.Equal(t, http.StatusNoContent, rec.Code)
	dish = dishRating()
	require.Equal(t, 0, dish.Reviews)
	require.InDelta(t, 0.0, dish.Rating, 0.001)
}

func TestCatalog(t *testing.T) {
	srv := newTestServer(t)
	categoryID, dishID := srv.seedDish(12.5)

	rec := srv.do(http.MethodGet, "/api/dishes/"+dishID, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	dish := decode[cateringserver.Dish](t, rec)
	require.Equal(t, []string{"2 pers", "4 pers"}, dish.Portions)
	require.True(t, dish.IsAvailable)
	require.Equal(t, 12.5, dish.Price)

	rec = srv.do(http.MethodPut, "/api/dishes/"+dishID, map[string]any{"isPopular": true})
	require.Equal(t, http.StatusOK, rec.Code)
	updated := decode[cateringserver.Dish](t, rec)
	require.True(t, updated.IsPopular)
	require.Equal(t, "Couscous", updated.Name)

	rec = srv.do(http.MethodGet, "/api/dishes?search=cous", nil)
	require.Len(t, decode[[]cateringserver.Dish](t, rec), 1)
	rec = srv.do(http.MethodGet, "/api/dishes?search=pizza", nil)
	require.Empty(t, decode[[]cateringserver.Dish](t, rec))

	rec = srv.do(http.MethodPost, "/api/dishes", map[string]any{"price": 3})
	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Equal(t, "Nom et catégorie requis", decode[map[string]any](t, rec)["error"])

	rec = srv.do(http.MethodGet, "/api/categories", nil)
	categories := decode[[]cateringserver.Category](t, rec)
	require.Len(t, categories, 1)
	require.Equal(t, int64(1), categories[0].DishCount)
	require.Equal(t, "plats-tunisiens", categories[0].Slug)

	rec = srv.do(http.MethodPost, "/api/categories", map[string]any{"name": "Plats Tunisiens"})
	require.Equal(t, http.StatusConflict, rec.Code)

	rec = srv.do(http.MethodDelete, "/api/categories/"+categoryID, nil)
	require.Equal(t, http.StatusConflict, rec.Code)
	require.Equal(t, "Catégorie utilisée par des plats", decode[map[string]any](t, rec)["error"])

	rec = srv.do(http.MethodDelete, "/api/dishes/"+dishID, nil)
	require.Equal(t, http.StatusNoContent, rec.Code)
	rec = srv.do(http.MethodDelete, "/api/categories/"+categoryID, nil)
	require.Equal(t, http.StatusNoContent, rec.Code)
	rec = srv.do(http.MethodGet, "/api/dishes/"+dishID, nil)
	require.Equal(t, http.StatusNotFound, rec.Code)
	require.Equal(t, "Plat non trouvé", decode[map[string]any](t, rec)["error"])
}

func TestCustomers(t *testing.T) {
	srv := newTestServer(t)
	_, dishID := srv.seedDish(10)
	order := srv.placeOrder(dishID)

	rec := srv.do(http.MethodPost, "/api/customers", map[string]any{"firstName": "A", "email": "a@b.com"})
	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Equal(t, "Email déjà utilisé", decode[map[string]any](t, rec)["error"])

	rec = srv.do(http.MethodGet, "/api/customers", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	customers := decode[[]cateringserver.Customer](t, rec)
	require.Len(t, customers, 1)
	require.Equal(t, order.CustomerId, customers[0].Id)
	require.Equal(t, int64(1), customers[0].OrdersCount)

	rec = srv.do(http.MethodGet, "/api/customers/missing", nil)
	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestMenusAndMessages(t *testing.T) {
	srv := newTestServer(t)
	_, dishID := srv.seedDish(10)

	rec := srv.do(http.MethodPost, "/api/menus", map[string]any{
		"name":       "Fête",
		"items":      []map[string]any{{"dishId": dishID, "quantity": 3}},
		"customerId": "c1",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	menu := decode[cateringserver.Menu](t, rec)
	rec = srv.do(http.MethodGet, "/api/menus?customerId=c1", nil)
	require.Len(t, decode[[]cateringserver.Menu](t, rec), 1)
	rec = srv.do(http.MethodDelete, "/api/menus/"+menu.Id, nil)
	require.Equal(t, http.StatusNoContent, rec.Code)
	rec = srv.do(http.MethodDelete, "/api/menus/"+menu.Id, nil)
	require.Equal(t, http.StatusNotFound, rec.Code)

	rec = srv.do(http.MethodPost, "/api/messages", map[string]any{"name": "Amel", "email": "amel@example.tn"})
	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Equal(t, "Nom, email et message requis", decode[map[string]any](t, rec)["error"])

	rec = srv.do(http.MethodPost, "/api/messages", map[string]any{"name": "Amel", "email": "amel@example.tn", "message": "Mariage samedi ?"})
	require.Equal(t, http.StatusCreated, rec.Code)
	msg := decode[cateringserver.Message](t, rec)
	require.False(t, msg.IsRead)
	rec = srv.do(http.MethodPatch, "/api/messages/"+msg.Id+"/read", nil)
	require.True(t, decode[cateringserver.Message](t, rec).IsRead)
}

func TestSettingsAndStats(t *testing.T) {
	srv := newTestServer(t)
	_, dishID := srv.seedDish(10)

	rec := srv.do(http.MethodPut, "/api/settings", map[string]any{"deliveryFee": 7, "freeDeliveryThreshold": 50})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	settings := decode[cateringserver.Settings](t, rec)
	require.Equal(t, 7.0, settings.DeliveryFee)

	order := srv.placeOrder(dishID)
	require.Equal(t, 20.0, order.Subtotal)
	require.Equal(t, 7.0, order.DeliveryFee)
	require.Equal(t, 27.0, order.Total)

	rec = srv.do(http.MethodPatch, "/api/orders/"+order.Id+"/status", map[string]string{"status": "delivered"})
	require.Equal(t, http.StatusOK, rec.Code)
	srv.placeOrder(dishID)

	rec = srv.do(http.MethodGet, "/api/stats", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	stats := decode[cateringserver.Stats](t, rec)
	require.Equal(t, int64(2), stats.TotalOrders)
	require.Equal(t, int64(1), stats.PendingOrders)
	require.Equal(t, 27.0, stats.TotalRevenue)
	require.Equal(t, 13.5, stats.AvgOrderValue)
	require.Equal(t, int64(1), stats.TotalDishes)
	require.Equal(t, int64(1), stats.TotalCustomers)
}

func TestAdminGuard(t *testing.T) {
	srv := newTestServer(t, withAdminGuard())
	_, err := srv.services.Admins.Register(context.Background(), "chef@traiteur.tn", "Chef", "s3cret-pass")
	require.NoError(t, err)

	rec := srv.do(http.MethodGet, "/api/orders", nil)
	require.Equal(t, http.StatusUnauthorized, rec.Code)
	require.Equal(t, "Authentification requise", decode[map[string]any](t, rec)["error"])

	rec = srv.do(http.MethodPost, "/api/auth/admin/login", map[string]string{"email": "chef@traiteur.tn", "password": "wrong"})
	require.Equal(t, http.StatusUnauthorized, rec.Code)
	require.Equal(t, "Email ou mot de passe incorrect", decode[map[string]any](t, rec)["error"])

	rec = srv.do(http.MethodPost, "/api/auth/admin/login", map[string]string{"email": "chef@traiteur.tn", "password": "s3cret-pass"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	login := decode[cateringserver.AdminLoginResponse](t, rec)
	require.NotEmpty(t, login.Token)
	require.Equal(t, "chef@traiteur.tn", login.User.Email)

	srv.token = login.Token
	rec = srv.do(http.MethodGet, "/api/orders", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = srv.do(http.MethodPost, "/api/auth/admin/logout", nil)
	require.Equal(t, http.StatusNoContent, rec.Code)
	rec = srv.do(http.MethodGet, "/api/orders", nil)
	require.Equal(t, http.StatusUnauthorized, rec.Code)

	srv.token = ""
	rec = srv.do(http.MethodGet, "/api/dishes", nil)
	require.Equal(t, http.StatusOK, rec.Code)
}

func TestWriteLimiter(t *testing.T) {
	srv := newTestServer(t, withWriteLimit(2))
	body := map[string]any{"name": "Amel", "email": "amel@example.tn", "message": "Bonjour"}

	for i := 0; i < 2; i++ {
		rec := srv.do(http.MethodPost, "/api/messages", body)
		require.Equal(t, http.StatusCreated, rec.Code)
	}
	rec := srv.do(http.MethodPost, "/api/messages", body)
	require.Equal(t, http.StatusTooManyRequests, rec.Code)
	require.Equal(t, "60", rec.Header().Get("Retry-After"))

	rec = srv.do(http.MethodGet, "/api/messages", nil)
	require.Equal(t, http.StatusOK, rec.Code)
}

func TestUnknownRoute(t *testing.T) {
	srv := newTestServer(t)
	rec := srv.do(http.MethodGet, "/api/nope", nil)
	require.Equal(t, http.StatusNotFound, rec.Code)
	problem := decode[map[string]any](t, rec)
	require.Equal(t, "Route non trouvée", problem["error"])
	require.Equal(t, "/api/nope", problem["instance"])
}
