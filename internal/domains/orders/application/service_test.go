package application

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	catalogmemory "github.com/Apurer/catering-api/internal/domains/catalog/adapters/memory"
	catalogapp "github.com/Apurer/catering-api/internal/domains/catalog/application"
	catalogdomain "github.com/Apurer/catering-api/internal/domains/catalog/domain"
	customermemory "github.com/Apurer/catering-api/internal/domains/customers/adapters/memory"
	customerapp "github.com/Apurer/catering-api/internal/domains/customers/application"
	"github.com/Apurer/catering-api/internal/domains/orders/adapters/collaborators"
	ordermemory "github.com/Apurer/catering-api/internal/domains/orders/adapters/memory"
	"github.com/Apurer/catering-api/internal/domains/orders/application/types"
	"github.com/Apurer/catering-api/internal/domains/orders/domain"
	"github.com/Apurer/catering-api/internal/domains/orders/ports"
	settingsmemory "github.com/Apurer/catering-api/internal/domains/settings/adapters/memory"
	settingsapp "github.com/Apurer/catering-api/internal/domains/settings/application"
	settingsdomain "github.com/Apurer/catering-api/internal/domains/settings/domain"
	"github.com/Apurer/catering-api/internal/shared/events"
)

type fixture struct {
	svc       *Service
	repo      *ordermemory.Repository
	catalog   *catalogapp.Service
	customers *customerapp.Service
	settings  *settingsapp.Service
	events    *events.Recorder
	dishID    string
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	ctx := context.Background()
	dishes, categories := catalogmemory.NewRepositories()
	catalog := catalogapp.NewService(dishes, categories)
	category, err := catalog.CreateCategory(ctx, &catalogdomain.Category{Name: "Plats"})
	require.NoError(t, err)
	dish, err := catalog.CreateDish(ctx, &catalogdomain.Dish{
		Name:        "Couscous",
		CategoryID:  category.ID,
		Price:       decimal.NewFromInt(10),
		IsAvailable: true,
	})
	require.NoError(t, err)

	customers := customerapp.NewService(customermemory.NewRepository())
	settings := settingsapp.NewService(settingsmemory.NewRepository(), nil, nil)
	repo := ordermemory.NewRepository()
	recorder := &events.Recorder{}
	svc := NewService(repo,
		collaborators.NewCatalog(catalog),
		collaborators.NewCustomers(customers),
		collaborators.NewPricing(settings),
		WithPublisher(recorder),
	)
	return &fixture{svc: svc, repo: repo, catalog: catalog, customers: customers, settings: settings, events: recorder, dishID: dish.ID}
}

func price(v string) *decimal.Decimal {
	d := decimal.RequireFromString(v)
	return &d
}

func (f *fixture) place(t *testing.T, input types.PlaceOrderInput) *domain.Order {
	t.Helper()
	order, err := f.svc.PlaceOrder(context.Background(), input)
	require.NoError(t, err)
	return order
}

func (f *fixture) orderWithStatus(t *testing.T, status domain.Status) *domain.Order {
	t.Helper()
	order := f.place(t, types.PlaceOrderInput{
		Customer: &types.Contact{FirstName: "A"},
		Items:    []domain.ItemRequest{{DishID: f.dishID}},
	})
	if status == domain.StatusPending {
		return order
	}
	updated, err := f.svc.UpdateStatus(context.Background(), order.ID, string(status))
	require.NoError(t, err)
	return updated
}

func TestPlaceOrder_ComputesTotalFromCatalog(t *testing.T) {
	f := newFixture(t)

	order := f.place(t, types.PlaceOrderInput{
		Customer: &types.Contact{FirstName: "A", LastName: "B", Email: "a@b.com"},
		Items:    []domain.ItemRequest{{DishID: f.dishID, Quantity: 2, Price: price("10")}},
		Total:    price("20"),
	})

	require.NotEmpty(t, order.ID)
	require.Equal(t, domain.StatusPending, order.Status)
	require.True(t, order.Total.Equal(decimal.NewFromInt(20)))
	require.Len(t, order.Items, 1)
	require.Equal(t, 2, order.Items[0].Quantity)
	require.Equal(t, "Couscous", order.Items[0].DishName)
	require.NotNil(t, order.Items[0].Dish)
	require.NotNil(t, order.Customer)
	require.Equal(t, "a@b.com", order.Customer.Email)

	placed := f.events.OfType(events.OrderPlaced)
	require.Len(t, placed, 1)
	require.Equal(t, order.ID, placed[0].OrderID)
	require.Equal(t, []string{f.dishID}, placed[0].DishIDs)
}

func TestPlaceOrder_IgnoresClientTotal(t *testing.T) {
	f := newFixture(t)

	order := f.place(t, types.PlaceOrderInput{
		Customer: &types.Contact{Email: "a@b.com"},
		Items:    []domain.ItemRequest{{DishID: f.dishID, Quantity: 3, Price: price("1")}},
		Total:    price("3"),
	})

	require.True(t, order.Total.Equal(decimal.NewFromInt(30)))
	require.True(t, order.Items[0].UnitPrice.Equal(decimal.NewFromInt(10)))
}

func TestPlaceOrder_AddsDeliveryFeeBelowThreshold(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	fee, threshold := decimal.NewFromInt(5), decimal.NewFromInt(50)
	_, err := f.settings.Update(ctx, settingsdomain.Patch{DeliveryFee: &fee, FreeDeliveryThreshold: &threshold})
	require.NoError(t, err)

	small := f.place(t, types.PlaceOrderInput{
		Customer: &types.Contact{FirstName: "A"},
		Items:    []domain.ItemRequest{{DishID: f.dishID, Quantity: 2}},
	})
	require.True(t, small.Subtotal.Equal(decimal.NewFromInt(20)))
	require.True(t, small.DeliveryFee.Equal(fee))
	require.True(t, small.Total.Equal(decimal.NewFromInt(25)))

	large := f.place(t, types.PlaceOrderInput{
		Customer: &types.Contact{FirstName: "A"},
		Items:    []domain.ItemRequest{{DishID: f.dishID, Quantity: 5}},
	})
	require.True(t, large.DeliveryFee.IsZero())
	require.True(t, large.Total.Equal(decimal.NewFromInt(50)))
}

func TestPlaceOrder_DropsItemsForUnknownDishes(t *testing.T) {
	f := newFixture(t)

	order := f.place(t, types.PlaceOrderInput{
		Customer: &types.Contact{FirstName: "A"},
		Items: []domain.ItemRequest{
			{DishID: "gone", Quantity: 4},
			{DishID: f.dishID, Portion: " 6 pers "},
			{DishID: ""},
		},
	})

	require.Len(t, order.Items, 1)
	require.Equal(t, f.dishID, order.Items[0].DishID)
	require.Equal(t, 1, order.Items[0].Quantity)
	require.Equal(t, "6 pers", order.Items[0].Portion)
}

func TestPlaceOrder_NoValidItemsPersistsNothing(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.svc.PlaceOrder(ctx, types.PlaceOrderInput{
		Customer: &types.Contact{Email: "nobody@example.com"},
		Items:    []domain.ItemRequest{{DishID: "gone"}, {DishID: "also-gone"}},
	})
	require.ErrorIs(t, err, ErrInvalidInput)
	require.ErrorIs(t, err, domain.ErrNoValidItems)

	orders, err := f.repo.List(ctx, ports.ListFilter{})
	require.NoError(t, err)
	require.Empty(t, orders)

	count, err := f.customers.Count(ctx)
	require.NoError(t, err)
	require.Zero(t, count)
	require.Empty(t, f.events.OfType(events.OrderPlaced))
}

func TestPlaceOrder_RejectsNegativeQuantity(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.PlaceOrder(context.Background(), types.PlaceOrderInput{
		Customer: &types.Contact{FirstName: "A"},
		Items:    []domain.ItemRequest{{DishID: f.dishID, Quantity: -2}},
	})
	require.ErrorIs(t, err, domain.ErrInvalidQuantity)
}

func TestPlaceOrder_RejectsQuantityAboveCap(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.PlaceOrder(context.Background(), types.PlaceOrderInput{
		Customer: &types.Contact{FirstName: "A"},
		Items:    []domain.ItemRequest{{DishID: f.dishID, Quantity: domain.MaxItemQuantity + 1}},
	})
	require.ErrorIs(t, err, ErrInvalidInput)
	require.ErrorIs(t, err, domain.ErrInvalidQuantity)
}

func TestPlaceOrder_GuestsGetDistinctCustomers(t *testing.T) {
	f := newFixture(t)

	first := f.place(t, types.PlaceOrderInput{
		Customer: &types.Contact{FirstName: "Guest"},
		Items:    []domain.ItemRequest{{DishID: f.dishID}},
	})
	second := f.place(t, types.PlaceOrderInput{
		Customer: &types.Contact{FirstName: "Guest"},
		Items:    []domain.ItemRequest{{DishID: f.dishID}},
	})

	require.NotEqual(t, first.CustomerID, second.CustomerID)
}

func TestPlaceOrder_ReusesCustomerByEmail(t *testing.T) {
	f := newFixture(t)

	first := f.place(t, types.PlaceOrderInput{
		Customer: &types.Contact{FirstName: "Amel", Email: "amel@example.com", Address: "Rue A"},
		Items:    []domain.ItemRequest{{DishID: f.dishID}},
	})
	second := f.place(t, types.PlaceOrderInput{
		Customer: &types.Contact{Email: "AMEL@example.com", Phone: "555"},
		Items:    []domain.ItemRequest{{DishID: f.dishID}},
	})

	require.Equal(t, first.CustomerID, second.CustomerID)
	require.Equal(t, "Rue A", second.Delivery.Address)
	require.Equal(t, "555", second.Delivery.Phone)
	require.Equal(t, "Amel", second.Customer.FirstName)
}

func TestPlaceOrder_CustomerReference(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.svc.PlaceOrder(ctx, types.PlaceOrderInput{
		CustomerID: "missing",
		Items:      []domain.ItemRequest{{DishID: f.dishID}},
	})
	require.ErrorIs(t, err, ErrInvalidInput)
	require.ErrorIs(t, err, ports.ErrCustomerNotFound)

	_, err = f.svc.PlaceOrder(ctx, types.PlaceOrderInput{
		Items: []domain.ItemRequest{{DishID: f.dishID}},
	})
	require.ErrorIs(t, err, domain.ErrCustomerRequired)

	existing := f.place(t, types.PlaceOrderInput{
		Customer: &types.Contact{Email: "known@example.com"},
		Items:    []domain.ItemRequest{{DishID: f.dishID}},
	})
	again := f.place(t, types.PlaceOrderInput{
		CustomerID: existing.CustomerID,
		Items:      []domain.ItemRequest{{DishID: f.dishID}},
		Address:    "Livraison au bureau",
	})
	require.Equal(t, existing.CustomerID, again.CustomerID)
	require.Equal(t, "Livraison au bureau", again.Delivery.Address)
}

func TestPlaceOrder_InvalidContactEmail(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.PlaceOrder(context.Background(), types.PlaceOrderInput{
		Customer: &types.Contact{Email: "not-an-email"},
		Items:    []domain.ItemRequest{{DishID: f.dishID}},
	})
	require.ErrorIs(t, err, ErrInvalidInput)
	require.ErrorIs(t, err, ports.ErrInvalidContact)
}

func TestUpdateStatus_CaseInsensitiveAndVisible(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	order := f.orderWithStatus(t, domain.StatusPreparing)

	updated, err := f.svc.UpdateStatus(ctx, order.ID, "delivering")
	require.NoError(t, err)
	require.Equal(t, domain.StatusDelivering, updated.Status)

	read, err := f.svc.GetOrder(ctx, order.ID)
	require.NoError(t, err)
	require.Equal(t, domain.StatusDelivering, read.Status)

	changes := f.events.OfType(events.OrderStatusChanged)
	require.NotEmpty(t, changes)
	last := changes[len(changes)-1]
	require.Equal(t, "DELIVERING", last.Status)
	require.Equal(t, "PREPARING", last.PrevStatus)
}

func TestUpdateStatus_RejectsUnknownAndBackward(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	order := f.orderWithStatus(t, domain.StatusDelivered)

	_, err := f.svc.UpdateStatus(ctx, order.ID, "shipped")
	require.ErrorIs(t, err, ErrInvalidInput)
	require.ErrorIs(t, err, domain.ErrInvalidStatus)

	_, err = f.svc.UpdateStatus(ctx, order.ID, "pending")
	require.ErrorIs(t, err, domain.ErrInvalidTransition)
	var transition *domain.TransitionError
	require.ErrorAs(t, err, &transition)
	require.Equal(t, domain.StatusDelivered, transition.From)

	_, err = f.svc.UpdateStatus(ctx, "missing", "confirmed")
	require.ErrorIs(t, err, ports.ErrNotFound)
}

func TestUpdateStatus_SameStatusIsNoop(t *testing.T) {
	f := newFixture(t)
	order := f.orderWithStatus(t, domain.StatusConfirmed)
	before := len(f.events.OfType(events.OrderStatusChanged))

	updated, err := f.svc.UpdateStatus(context.Background(), order.ID, "CONFIRMED")
	require.NoError(t, err)
	require.Equal(t, domain.StatusConfirmed, updated.Status)
	require.Len(t, f.events.OfType(events.OrderStatusChanged), before)
}

func TestAdvanceDelivery_OneStepOnly(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	pending := f.orderWithStatus(t, domain.StatusPending)
	preparing := f.orderWithStatus(t, domain.StatusPreparing)

	_, err := f.svc.AdvanceDelivery(ctx, pending.ID)
	require.ErrorIs(t, err, domain.ErrInvalidTransition)

	advanced, err := f.svc.AdvanceDelivery(ctx, preparing.ID)
	require.NoError(t, err)
	require.Equal(t, domain.StatusDelivering, advanced.Status)

	advanced, err = f.svc.AdvanceDelivery(ctx, preparing.ID)
	require.NoError(t, err)
	require.Equal(t, domain.StatusDelivered, advanced.Status)

	_, err = f.svc.AdvanceDelivery(ctx, preparing.ID)
	require.ErrorIs(t, err, domain.ErrInvalidTransition)
}

func TestDeliveryQueueAndListFilters(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.orderWithStatus(t, domain.StatusPending)
	preparing := f.orderWithStatus(t, domain.StatusPreparing)
	delivering := f.orderWithStatus(t, domain.StatusDelivering)
	f.orderWithStatus(t, domain.StatusDelivered)

	queue, err := f.svc.DeliveryQueue(ctx)
	require.NoError(t, err)
	ids := []string{}
	for _, o := range queue {
		ids = append(ids, o.ID)
	}
	require.ElementsMatch(t, []string{preparing.ID, delivering.ID}, ids)

	pending, err := f.svc.ListOrders(ctx, types.ListOrdersInput{Status: "pending"})
	require.NoError(t, err)
	require.Len(t, pending, 1)

	all, err := f.svc.ListOrders(ctx, types.ListOrdersInput{Status: "all"})
	require.NoError(t, err)
	require.Len(t, all, 4)

	mine, err := f.svc.ListOrders(ctx, types.ListOrdersInput{CustomerID: preparing.CustomerID})
	require.NoError(t, err)
	require.Len(t, mine, 1)
	require.NotNil(t, mine[0].Customer)

	_, err = f.svc.ListOrders(ctx, types.ListOrdersInput{Status: "lost"})
	require.ErrorIs(t, err, ErrInvalidInput)
}

func TestSummary_CountsAndRevenue(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.orderWithStatus(t, domain.StatusPending)
	f.orderWithStatus(t, domain.StatusDelivered)
	f.orderWithStatus(t, domain.StatusDelivered)

	summary, err := f.svc.Summary(ctx)
	require.NoError(t, err)
	require.EqualValues(t, 3, summary.TotalOrders)
	require.EqualValues(t, 1, summary.PendingOrders)
	require.True(t, summary.Revenue.Equal(decimal.NewFromInt(20)))
}
