package catalog

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/seller-portal-api/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// --- mocks ---

type mockSellerStore struct{ mock.Mock }

func (m *mockSellerStore) Get(ctx context.Context, sellerID string) (*domain.Seller, error) {
	args := m.Called(ctx, sellerID)
	if s, _ := args.Get(0).(*domain.Seller); s != nil {
		return s, args.Error(1)
	}
	return nil, args.Error(1)
}
func (m *mockSellerStore) AppendProduct(ctx context.Context, sellerID string, p domain.Product) error {
	return m.Called(ctx, sellerID, p).Error(0)
}
func (m *mockSellerStore) SetProductAt(ctx context.Context, sellerID string, i int, p domain.Product) error {
	return m.Called(ctx, sellerID, i, p).Error(0)
}
func (m *mockSellerStore) RemoveProductAt(ctx context.Context, sellerID string, i int) error {
	return m.Called(ctx, sellerID, i).Error(0)
}

type mockObjectStore struct{ mock.Mock }

func (m *mockObjectStore) Delete(ctx context.Context, key string) error {
	return m.Called(ctx, key).Error(0)
}

// --- builder ---

var testClock = time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)

func newTestService(repo *mockSellerStore, images *mockObjectStore) Service {
	svc := NewService(repo, images)
	svc.(*service).now = func() time.Time { return testClock }
	return svc
}

func sellerWith(products ...domain.Product) *domain.Seller {
	return &domain.Seller{SellerID: "s1", Email: "a@b.com", Products: products}
}

// --- Add ---

func TestAdd_HappyPath(t *testing.T) {
	repo := &mockSellerStore{}
	repo.On("AppendProduct", mock.Anything, "s1", mock.MatchedBy(func(p domain.Product) bool {
		return p.Name == "Mug" && p.Quantity == 3 && p.CreatedAt.Equal(testClock)
	})).Return(nil)

	svc := newTestService(repo, &mockObjectStore{})
	p, err := svc.Add(context.Background(), "s1", domain.ProductInput{
		Name:        "Mug",
		Description: "Ceramic mug",
		Category:    "kitchen",
		Price:       9.99,
		Quantity:    3,
	})

	require.NoError(t, err)
	assert.Equal(t, "Mug", p.Name)
	assert.Equal(t, 9.99, p.Price)
	repo.AssertExpectations(t)
}

func TestAdd_MissingRequiredFields(t *testing.T) {
	svc := newTestService(&mockSellerStore{}, &mockObjectStore{})
	_, err := svc.Add(context.Background(), "s1", domain.ProductInput{Name: "Mug"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrBadRequest))
}

func TestAdd_NegativePrice(t *testing.T) {
	svc := newTestService(&mockSellerStore{}, &mockObjectStore{})
	_, err := svc.Add(context.Background(), "s1", domain.ProductInput{
		Name:        "Mug",
		Description: "Ceramic mug",
		Category:    "kitchen",
		Price:       -1,
	})
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrBadRequest))
}

func TestAdd_SellerMissing(t *testing.T) {
	repo := &mockSellerStore{}
	repo.On("AppendProduct", mock.Anything, "ghost", mock.Anything).Return(domain.ErrNotFound)

	svc := newTestService(repo, &mockObjectStore{})
	_, err := svc.Add(context.Background(), "ghost", domain.ProductInput{
		Name:        "Mug",
		Description: "Ceramic mug",
		Category:    "kitchen",
	})
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrNotFound))
}

// --- List ---

func TestList_ReturnsProducts(t *testing.T) {
	repo := &mockSellerStore{}
	repo.On("Get", mock.Anything, "s1").Return(sellerWith(
		domain.Product{Name: "Mug"},
		domain.Product{Name: "Plate"},
	), nil)

	svc := newTestService(repo, &mockObjectStore{})
	products, err := svc.List(context.Background(), "s1")

	require.NoError(t, err)
	require.Len(t, products, 2)
	assert.Equal(t, "Plate", products[1].Name)
}

// --- Edit ---

func TestEdit_PartialUpdatePreservesOtherFields(t *testing.T) {
	repo := &mockSellerStore{}
	repo.On("Get", mock.Anything, "s1").Return(sellerWith(domain.Product{
		Name:        "Mug",
		Description: "Ceramic mug",
		Category:    "kitchen",
		Price:       9.99,
		Quantity:    3,
	}), nil)
	repo.On("SetProductAt", mock.Anything, "s1", 0, mock.MatchedBy(func(p domain.Product) bool {
		return p.Name == "Mug" && p.Price == 50 && p.Description == "Ceramic mug" && p.Quantity == 3
	})).Return(nil)

	price := 50.0
	svc := newTestService(repo, &mockObjectStore{})
	p, err := svc.Edit(context.Background(), "s1", "Mug", domain.UpdateProductRequest{Price: &price})

	require.NoError(t, err)
	assert.Equal(t, 50.0, p.Price)
	assert.Equal(t, "kitchen", p.Category)
	assert.Equal(t, testClock, p.UpdatedAt)
	repo.AssertExpectations(t)
}

func TestEdit_FirstMatchWins(t *testing.T) {
	repo := &mockSellerStore{}
	repo.On("Get", mock.Anything, "s1").Return(sellerWith(
		domain.Product{Name: "Mug", Price: 1},
		domain.Product{Name: "Mug", Price: 2},
	), nil)
	repo.On("SetProductAt", mock.Anything, "s1", 0, mock.Anything).Return(nil)

	price := 5.0
	svc := newTestService(repo, &mockObjectStore{})
	_, err := svc.Edit(context.Background(), "s1", "Mug", domain.UpdateProductRequest{Price: &price})

	require.NoError(t, err)
	repo.AssertExpectations(t)
}

func TestEdit_NameNotFound(t *testing.T) {
	repo := &mockSellerStore{}
	repo.On("Get", mock.Anything, "s1").Return(sellerWith(domain.Product{Name: "Mug"}), nil)

	svc := newTestService(repo, &mockObjectStore{})
	_, err := svc.Edit(context.Background(), "s1", "Plate", domain.UpdateProductRequest{})
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrNotFound))
}

func TestEdit_NegativeQuantityRejected(t *testing.T) {
	q := -1
	svc := newTestService(&mockSellerStore{}, &mockObjectStore{})
	_, err := svc.Edit(context.Background(), "s1", "Mug", domain.UpdateProductRequest{Quantity: &q})
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrBadRequest))
}

// --- Delete ---

func TestDelete_ReleasesImageAndRemovesEntry(t *testing.T) {
	repo := &mockSellerStore{}
	images := &mockObjectStore{}
	repo.On("Get", mock.Anything, "s1").Return(sellerWith(
		domain.Product{Name: "Mug", ImagePublicID: "products/s1/mug.png"},
		domain.Product{Name: "Plate"},
	), nil)
	images.On("Delete", mock.Anything, "products/s1/mug.png").Return(nil)
	repo.On("RemoveProductAt", mock.Anything, "s1", 0).Return(nil)

	svc := newTestService(repo, images)
	res, err := svc.Delete(context.Background(), "s1", "Mug")

	require.NoError(t, err)
	assert.Equal(t, 1, res.RemainingCount)
	assert.Empty(t, res.Warning)
	repo.AssertExpectations(t)
	images.AssertExpectations(t)
}

func TestDelete_ImageFailureIsWarningOnly(t *testing.T) {
	repo := &mockSellerStore{}
	images := &mockObjectStore{}
	repo.On("Get", mock.Anything, "s1").Return(sellerWith(
		domain.Product{Name: "Mug", ImagePublicID: "products/s1/mug.png"},
	), nil)
	images.On("Delete", mock.Anything, "products/s1/mug.png").Return(errors.New("s3 down"))
	repo.On("RemoveProductAt", mock.Anything, "s1", 0).Return(nil)

	svc := newTestService(repo, images)
	res, err := svc.Delete(context.Background(), "s1", "Mug")

	require.NoError(t, err)
	assert.Equal(t, 0, res.RemainingCount)
	assert.Equal(t, "product deleted but its image could not be released", res.Warning)
}

func TestDelete_NoImageSkipsRelease(t *testing.T) {
	repo := &mockSellerStore{}
	images := &mockObjectStore{}
	repo.On("Get", mock.Anything, "s1").Return(sellerWith(domain.Product{Name: "Mug"}), nil)
	repo.On("RemoveProductAt", mock.Anything, "s1", 0).Return(nil)

	svc := newTestService(repo, images)
	_, err := svc.Delete(context.Background(), "s1", "Mug")

	require.NoError(t, err)
	images.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
}

func TestDelete_NotFound(t *testing.T) {
	repo := &mockSellerStore{}
	repo.On("Get", mock.Anything, "s1").Return(sellerWith(), nil)

	svc := newTestService(repo, &mockObjectStore{})
	_, err := svc.Delete(context.Background(), "s1", "Mug")
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrNotFound))
}

// --- AdjustQuantity ---

func TestAdjustQuantity_Increase(t *testing.T) {
	repo := &mockSellerStore{}
	repo.On("Get", mock.Anything, "s1").Return(sellerWith(domain.Product{Name: "Mug", Quantity: 3}), nil)
	repo.On("SetProductAt", mock.Anything, "s1", 0, mock.MatchedBy(func(p domain.Product) bool {
		return p.Quantity == 4
	})).Return(nil)

	svc := newTestService(repo, &mockObjectStore{})
	p, err := svc.AdjustQuantity(context.Background(), "s1", "Mug", true)

	require.NoError(t, err)
	assert.Equal(t, 4, p.Quantity)
}

func TestAdjustQuantity_DecreaseStopsAtZero(t *testing.T) {
	repo := &mockSellerStore{}
	repo.On("Get", mock.Anything, "s1").Return(sellerWith(domain.Product{Name: "Mug", Quantity: 1}), nil)
	repo.On("SetProductAt", mock.Anything, "s1", 0, mock.MatchedBy(func(p domain.Product) bool {
		return p.Quantity == 0
	})).Return(nil)

	svc := newTestService(repo, &mockObjectStore{})
	p, err := svc.AdjustQuantity(context.Background(), "s1", "Mug", false)

	require.NoError(t, err)
	assert.Equal(t, 0, p.Quantity)
}

func TestAdjustQuantity_DecreaseAtZeroReportsFloor(t *testing.T) {
	repo := &mockSellerStore{}
	repo.On("Get", mock.Anything, "s1").Return(sellerWith(domain.Product{Name: "Mug", Quantity: 0, Price: 9.99}), nil)

	svc := newTestService(repo, &mockObjectStore{})
	_, err := svc.AdjustQuantity(context.Background(), "s1", "Mug", false)

	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrBadRequest))
	var floorErr *domain.QuantityFloorError
	require.True(t, errors.As(err, &floorErr))
	require.NotNil(t, floorErr.Product)
	assert.Equal(t, 0, floorErr.Product.Quantity)
	assert.Equal(t, 9.99, floorErr.Product.Price)
	repo.AssertNotCalled(t, "SetProductAt", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestAdjustQuantity_NotFound(t *testing.T) {
	repo := &mockSellerStore{}
	repo.On("Get", mock.Anything, "s1").Return(sellerWith(), nil)

	svc := newTestService(repo, &mockObjectStore{})
	_, err := svc.AdjustQuantity(context.Background(), "s1", "Mug", true)
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrNotFound))
}
