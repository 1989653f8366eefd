//go:build integration

package api

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/Apurer/catering-api/internal/domains/admins/adapters/token"
	catalogdomain "github.com/Apurer/catering-api/internal/domains/catalog/domain"
	catalogports "github.com/Apurer/catering-api/internal/domains/catalog/ports"
	customersdomain "github.com/Apurer/catering-api/internal/domains/customers/domain"
	"github.com/Apurer/catering-api/internal/domains/orders/application/types"
	ordersdomain "github.com/Apurer/catering-api/internal/domains/orders/domain"
	"github.com/Apurer/catering-api/internal/domains/orders/adapters/workflows"
	reviewsdomain "github.com/Apurer/catering-api/internal/domains/reviews/domain"
	"github.com/Apurer/catering-api/internal/platform/migrations"
	platformpostgres "github.com/Apurer/catering-api/internal/platform/postgres"
)

func setupCateringPostgres(t *testing.T) *gorm.DB {
	ctx := context.Background()

	pgContainer, err := tcpostgres.Run(ctx, "postgres:16-alpine",
		tcpostgres.WithDatabase("catering_test"),
		tcpostgres.WithUsername("test"),
		tcpostgres.WithPassword("test"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second),
		),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = pgContainer.Terminate(ctx) })

	dsn, err := pgContainer.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	db, err := platformpostgres.Connect(ctx, dsn)
	require.NoError(t, err)
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	require.NoError(t, migrations.Run(db))
	return db
}

func newPostgresServices(t *testing.T, db *gorm.DB) *Services {
	issuer, err := token.NewJWTIssuer("integration-secret")
	require.NoError(t, err)
	return NewServices(GormRepositories(db), ServiceOptions{
		Tokens:       issuer,
		LocalRatings: true,
		HashCost:     bcrypt.MinCost,
	})
}

func TestPostgres_OrderLifecycle(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}
	ctx := context.Background()
	services := newPostgresServices(t, setupCateringPostgres(t))

	category, err := services.Catalog.CreateCategory(ctx, &catalogdomain.Category{Name: "Plats tunisiens"})
	require.NoError(t, err)
	dish, err := services.Catalog.CreateDish(ctx, &catalogdomain.Dish{
		Name:        "Couscous",
		Price:       decimal.RequireFromString("10.000"),
		CategoryID:  category.ID,
		IsAvailable: true,
	})
	require.NoError(t, err)

	placer := workflows.NewInlineOrderWorkflows(services.Orders, services.IdempotencyKeys)
	input := types.PlaceOrderInput{
		Customer: &types.Contact{FirstName: "A", LastName: "B", Email: "a@b.com"},
		Items: []ordersdomain.ItemRequest{
			{DishID: dish.ID, Quantity: 2},
			{DishID: "00000000-0000-0000-0000-000000000000", Quantity: 1},
		},
		IdempotencyKey: "checkout-1",
	}
	order, err := placer.PlaceOrder(ctx, input)
	require.NoError(t, err)
	require.Len(t, order.Items, 1)
	assert.True(t, order.Total.Equal(decimal.NewFromInt(20)))

	again, err := placer.PlaceOrder(ctx, input)
	require.NoError(t, err)
	assert.Equal(t, order.ID, again.ID)

	updated, err := services.Orders.UpdateStatus(ctx, order.ID, "preparing")
	require.NoError(t, err)
	assert.Equal(t, ordersdomain.StatusPreparing, updated.Status)
	_, err = services.Orders.UpdateStatus(ctx, order.ID, "confirmed")
	require.ErrorIs(t, err, ordersdomain.ErrInvalidTransition)

	rating := 4
	review, created, err := services.Reviews.Submit(ctx, reviewsdomain.Submission{OrderID: order.ID, Rating: &rating, Comment: "Bon"})
	require.NoError(t, err)
	require.True(t, created)
	_, err = services.Reviews.Approve(ctx, review.ID)
	require.NoError(t, err)

	rated, err := services.Catalog.GetDish(ctx, dish.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, rated.Reviews)
	assert.InDelta(t, 4.0, rated.Rating, 0.001)

	edited := 2
	_, _, err = services.Reviews.Submit(ctx, reviewsdomain.Submission{OrderID: order.ID, Rating: &edited})
	require.NoError(t, err)
	_, err = services.Reviews.Approve(ctx, review.ID)
	require.NoError(t, err)
	rated, err = services.Catalog.GetDish(ctx, dish.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, rated.Reviews)
	assert.InDelta(t, 2.0, rated.Rating, 0.001)

	require.NoError(t, services.Reviews.Delete(ctx, review.ID))
	rated, err = services.Catalog.GetDish(ctx, dish.ID)
	require.NoError(t, err)
	assert.Zero(t, rated.Reviews)

	err = services.Catalog.DeleteCategory(ctx, category.ID)
	require.ErrorIs(t, err, catalogports.ErrCategoryInUse)

	stats, err := services.Dashboard.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), stats.TotalOrders)
	assert.Equal(t, int64(1), stats.TotalCustomers)
}

func TestPostgres_ConcurrentCustomerResolveConverges(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}
	ctx := context.Background()
	services := newPostgresServices(t, setupCateringPostgres(t))

	const workers = 8
	ids := make([]string, workers)
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			customer, err := services.Customers.Resolve(ctx, customersdomain.Contact{FirstName: "Sami", Email: "sami@example.tn"})
			if assert.NoError(t, err) {
				ids[i] = customer.ID
			}
		}(i)
	}
	wg.Wait()
	for _, id := range ids[1:] {
		assert.Equal(t, ids[0], id)
	}
	count, err := services.Customers.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
}

func TestPostgres_AdminSessions(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}
	ctx := context.Background()
	services := newPostgresServices(t, setupCateringPostgres(t))

	_, err := services.Admins.EnsureAdmin(ctx, "chef@traiteur.tn", "Chef", "s3cret-pass")
	require.NoError(t, err)
	login, err := services.Admins.Login(ctx, "chef@traiteur.tn", "s3cret-pass")
	require.NoError(t, err)
	admin, err := services.Admins.Authenticate(ctx, login.Token)
	require.NoError(t, err)
	assert.Equal(t, "chef@traiteur.tn", admin.Email)

	require.NoError(t, services.Admins.Logout(ctx, login.Token))
	_, err = services.Admins.Authenticate(ctx, login.Token)
	require.Error(t, err)
}
