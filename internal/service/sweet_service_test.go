package service_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/sweet-shop-service/internal/domain"
	"github.com/spec-kit/sweet-shop-service/internal/events"
	"github.com/spec-kit/sweet-shop-service/internal/service"
	"github.com/spec-kit/sweet-shop-service/internal/testutil"
	apperrors "github.com/spec-kit/sweet-shop-service/pkg/util"
)

var testActor = events.Actor{UserID: "u1", Role: domain.RoleAdmin}

func newSweetService() (*service.SweetService, *testutil.MemorySweetStore) {
	store := testutil.NewMemorySweetStore()
	svc := service.NewSweetService(service.SweetDependencies{
		SweetRepo:  store,
		Dispatcher: events.NewInMemoryDispatcher(),
	})
	return svc, store
}

func createSweet(t *testing.T, svc *service.SweetService, name, category string, price string, quantity int) *domain.Sweet {
	t.Helper()
	sweet, err := svc.Create(context.Background(), testActor, service.SweetCreateInput{
		Name:     name,
		Category: category,
		Price:    decimal.RequireFromString(price),
		Quantity: quantity,
	})
	require.NoError(t, err)
	return sweet
}

func TestSweetCreate_AssignsIDAndDefaults(t *testing.T) {
	svc, _ := newSweetService()

	sweet := createSweet(t, svc, "Ladoo", "Traditional", "2.0", 0)
	assert.NotEmpty(t, sweet.ID)
	assert.False(t, sweet.CreatedAt.IsZero())
	assert.Equal(t, 0, sweet.Quantity)
}

func TestSweetCreate_Validation(t *testing.T) {
	svc, _ := newSweetService()
	ctx := context.Background()

	_, err := svc.Create(ctx, testActor, service.SweetCreateInput{Name: "  ", Price: decimal.NewFromInt(1)})
	require.Error(t, err)
	assert.Equal(t, apperrors.CodeValidationFailed, errorCode(t, err))

	_, err = svc.Create(ctx, testActor, service.SweetCreateInput{Name: "Barfi", Price: decimal.NewFromInt(-1)})
	require.Error(t, err)
	assert.Equal(t, apperrors.CodeValidationFailed, errorCode(t, err))

	_, err = svc.Create(ctx, testActor, service.SweetCreateInput{Name: "Barfi", Price: decimal.NewFromInt(1), Quantity: -5})
	require.Error(t, err)
	assert.Equal(t, apperrors.CodeValidationFailed, errorCode(t, err))
}

func TestSweetList_NewestFirst(t *testing.T) {
	svc, _ := newSweetService()

	createSweet(t, svc, "First", "A", "1.0", 1)
	createSweet(t, svc, "Second", "B", "2.0", 2)

	sweets, err := svc.List(context.Background())
	require.NoError(t, err)
	require.Len(t, sweets, 2)
	assert.Equal(t, "Second", sweets[0].Name)
	assert.Equal(t, "First", sweets[1].Name)
}

func TestSweetSearch_MatchesNameOrCategory(t *testing.T) {
	svc, _ := newSweetService()
	ctx := context.Background()

	createSweet(t, svc, "Chocolate Lava Cake", "Cake", "5.5", 10)
	createSweet(t, svc, "Ladoo", "Traditional", "2.0", 10)

	byName, err := svc.Search(ctx, "lava")
	require.NoError(t, err)
	require.Len(t, byName, 1)
	assert.Equal(t, "Chocolate Lava Cake", byName[0].Name)

	byCategory, err := svc.Search(ctx, "tradition")
	require.NoError(t, err)
	require.Len(t, byCategory, 1)
	assert.Equal(t, "Ladoo", byCategory[0].Name)

	none, err := svc.Search(ctx, "pizza")
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestSweetSearch_BlankTermReturnsEverything(t *testing.T) {
	svc, _ := newSweetService()
	ctx := context.Background()

	createSweet(t, svc, "Ladoo", "Traditional", "2.0", 10)
	createSweet(t, svc, "Barfi", "Traditional", "3.0", 5)

	for _, term := range []string{"", "   "} {
		sweets, err := svc.Search(ctx, term)
		require.NoError(t, err)
		assert.Len(t, sweets, 2, "term %q applies no filter", term)
	}
}

func TestSweetUpdate_MergesOnlyProvidedFields(t *testing.T) {
	svc, _ := newSweetService()
	ctx := context.Background()

	sweet := createSweet(t, svc, "Ladoo", "Traditional", "2.0", 10)

	newPrice := decimal.RequireFromString("20")
	updated, err := svc.Update(ctx, testActor, sweet.ID, service.SweetUpdateInput{Price: &newPrice})
	require.NoError(t, err)

	assert.Equal(t, "Ladoo", updated.Name)
	assert.Equal(t, "Traditional", updated.Category)
	assert.Equal(t, 10, updated.Quantity)
	assert.True(t, updated.Price.Equal(newPrice))
}

func TestSweetUpdate_UnknownIDNotFound(t *testing.T) {
	svc, _ := newSweetService()

	name := "Barfi"
	_, err := svc.Update(context.Background(), testActor, "missing-id", service.SweetUpdateInput{Name: &name})
	require.Error(t, err)
	assert.Equal(t, apperrors.CodeNotFound, errorCode(t, err))
}

func TestSweetDelete_RemovesFromSearch(t *testing.T) {
	svc, _ := newSweetService()
	ctx := context.Background()

	sweet := createSweet(t, svc, "Ladoo", "Traditional", "2.0", 10)

	require.NoError(t, svc.Delete(ctx, testActor, sweet.ID))

	sweets, err := svc.Search(ctx, "Ladoo")
	require.NoError(t, err)
	assert.Empty(t, sweets)

	err = svc.Delete(ctx, testActor, sweet.ID)
	require.Error(t, err)
	assert.Equal(t, apperrors.CodeNotFound, errorCode(t, err))
}

func TestSweetPurchase_DecrementsByOne(t *testing.T) {
	svc, _ := newSweetService()

	sweet := createSweet(t, svc, "Ladoo", "Traditional", "2.0", 10)

	purchased, err := svc.Purchase(context.Background(), testActor, sweet.ID)
	require.NoError(t, err)
	assert.Equal(t, 9, purchased.Quantity)
}

func TestSweetPurchase_UnknownIDNotFound(t *testing.T) {
	svc, _ := newSweetService()

	_, err := svc.Purchase(context.Background(), testActor, "missing-id")
	require.Error(t, err)
	assert.Equal(t, apperrors.CodeNotFound, errorCode(t, err))
}

func TestSweetPurchase_SoldOutFailsAndQuantityUnchanged(t *testing.T) {
	svc, store := newSweetService()
	ctx := context.Background()

	sweet := createSweet(t, svc, "Ladoo", "Traditional", "2.0", 0)

	_, err := svc.Purchase(ctx, testActor, sweet.ID)
	require.Error(t, err)
	assert.Equal(t, apperrors.CodeOutOfStock, errorCode(t, err))

	stored, err := store.GetByID(ctx, sweet.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, stored.Quantity)
}

func TestSweetPurchase_ConcurrentLastUnit(t *testing.T) {
	svc, store := newSweetService()
	ctx := context.Background()

	sweet := createSweet(t, svc, "Ladoo", "Traditional", "2.0", 1)

	results := make(chan error, 2)
	var start sync.WaitGroup
	start.Add(1)
	for i := 0; i < 2; i++ {
		go func() {
			start.Wait()
			_, err := svc.Purchase(ctx, testActor, sweet.ID)
			results <- err
		}()
	}
	start.Done()

	var successes, soldOut int
	for i := 0; i < 2; i++ {
		err := <-results
		if err == nil {
			successes++
			continue
		}
		var domainErr *apperrors.DomainError
		require.True(t, errors.As(err, &domainErr))
		require.Equal(t, apperrors.CodeOutOfStock, domainErr.Code)
		soldOut++
	}

	assert.Equal(t, 1, successes, "exactly one purchase wins the last unit")
	assert.Equal(t, 1, soldOut)

	stored, err := store.GetByID(ctx, sweet.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, stored.Quantity, "stock never goes negative")
}

func TestSweetPurchase_ConcurrentManyBuyers(t *testing.T) {
	svc, store := newSweetService()
	ctx := context.Background()

	const stock = 5
	const buyers = 20
	sweet := createSweet(t, svc, "Jalebi", "Traditional", "1.5", stock)

	results := make(chan error, buyers)
	var start sync.WaitGroup
	start.Add(1)
	for i := 0; i < buyers; i++ {
		go func() {
			start.Wait()
			_, err := svc.Purchase(ctx, testActor, sweet.ID)
			results <- err
		}()
	}
	start.Done()

	var successes int
	for i := 0; i < buyers; i++ {
		if err := <-results; err == nil {
			successes++
		}
	}

	assert.Equal(t, stock, successes)

	stored, err := store.GetByID(ctx, sweet.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, stored.Quantity)
}
