package farmer

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/agrochain-api/internal/domain"
)

type mockProductStore struct{ mock.Mock }

func (m *mockProductStore) Put(ctx context.Context, p *domain.Product) error {
	return m.Called(ctx, p).Error(0)
}

func (m *mockProductStore) Get(ctx context.Context, productID string) (*domain.Product, error) {
	args := m.Called(ctx, productID)
	if p := args.Get(0); p != nil {
		return p.(*domain.Product), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockProductStore) ListByFarmer(ctx context.Context, farmerID string) ([]domain.Product, error) {
	args := m.Called(ctx, farmerID)
	if ps := args.Get(0); ps != nil {
		return ps.([]domain.Product), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockProductStore) Update(ctx context.Context, productID string, updates map[string]interface{}) error {
	return m.Called(ctx, productID, updates).Error(0)
}

func (m *mockProductStore) Delete(ctx context.Context, productID string) error {
	return m.Called(ctx, productID).Error(0)
}

type mockUserStore struct{ mock.Mock }

func (m *mockUserStore) Get(ctx context.Context, userID string) (*domain.User, error) {
	args := m.Called(ctx, userID)
	if u := args.Get(0); u != nil {
		return u.(*domain.User), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockUserStore) Update(ctx context.Context, userID string, updates map[string]interface{}) error {
	return m.Called(ctx, userID, updates).Error(0)
}

type mockOrderStore struct{ mock.Mock }

func (m *mockOrderStore) ListByFarmer(ctx context.Context, farmerID string) ([]domain.Order, error) {
	args := m.Called(ctx, farmerID)
	if os := args.Get(0); os != nil {
		return os.([]domain.Order), args.Error(1)
	}
	return nil, args.Error(1)
}

func newService(ps *mockProductStore, us *mockUserStore, os *mockOrderStore) Service {
	return NewService(ServiceDeps{ProductRepo: ps, UserRepo: us, OrderRepo: os})
}

func aFarmer(id string) *domain.User {
	return &domain.User{UserID: id, Role: domain.RoleFarmer, FirstName: "Ravi", Email: "ravi@farm.in"}
}

func TestAddProduct_DefaultsImage(t *testing.T) {
	ps := new(mockProductStore)
	us := new(mockUserStore)
	svc := newService(ps, us, new(mockOrderStore))

	us.On("Get", mock.Anything, "f1").Return(aFarmer("f1"), nil)
	ps.On("Put", mock.Anything, mock.MatchedBy(func(p *domain.Product) bool {
		return p.ImageURL == domain.PlaceholderImageURL && p.FarmerID == "f1" && p.ProductID != ""
	})).Return(nil)

	p, err := svc.AddProduct(context.Background(), domain.CreateProductRequest{
		FarmerID: "f1", Name: "Wheat", Price: 25, Quantity: 100, Unit: domain.UnitKg,
	})
	require.NoError(t, err)
	assert.Equal(t, "Wheat", p.Name)
	assert.Equal(t, domain.PlaceholderImageURL, p.ImageURL)
	ps.AssertExpectations(t)
}

func TestAddProduct_KeepsProvidedImage(t *testing.T) {
	ps := new(mockProductStore)
	us := new(mockUserStore)
	svc := newService(ps, us, new(mockOrderStore))

	us.On("Get", mock.Anything, "f1").Return(aFarmer("f1"), nil)
	ps.On("Put", mock.Anything, mock.Anything).Return(nil)

	p, err := svc.AddProduct(context.Background(), domain.CreateProductRequest{
		FarmerID: "f1", Name: "Rice", ImageURL: "/uploads/products/rice.png", Price: 40, Quantity: 50, Unit: domain.UnitKg,
	})
	require.NoError(t, err)
	assert.Equal(t, "/uploads/products/rice.png", p.ImageURL)
}

func TestAddProduct_RejectsNonFarmer(t *testing.T) {
	ps := new(mockProductStore)
	us := new(mockUserStore)
	svc := newService(ps, us, new(mockOrderStore))

	us.On("Get", mock.Anything, "d1").Return(&domain.User{UserID: "d1", Role: domain.RoleDealer}, nil)

	_, err := svc.AddProduct(context.Background(), domain.CreateProductRequest{
		FarmerID: "d1", Name: "Wheat", Price: 25, Quantity: 100, Unit: domain.UnitKg,
	})
	assert.ErrorIs(t, err, domain.ErrForbidden)
	ps.AssertNotCalled(t, "Put", mock.Anything, mock.Anything)
}

func TestUpdateProduct_PartialFields(t *testing.T) {
	ps := new(mockProductStore)
	svc := newService(ps, new(mockUserStore), new(mockOrderStore))

	price := 30.0
	existing := &domain.Product{ProductID: "p1", FarmerID: "f1", Name: "Wheat", Price: 25}
	updated := &domain.Product{ProductID: "p1", FarmerID: "f1", Name: "Wheat", Price: 30}

	ps.On("Get", mock.Anything, "p1").Return(existing, nil).Once()
	ps.On("Update", mock.Anything, "p1", map[string]interface{}{"price": 30.0}).Return(nil)
	ps.On("Get", mock.Anything, "p1").Return(updated, nil).Once()

	got, err := svc.UpdateProduct(context.Background(), "p1", domain.UpdateProductRequest{Price: &price})
	require.NoError(t, err)
	assert.Equal(t, 30.0, got.Price)
	ps.AssertExpectations(t)
}

func TestUpdateProduct_NoFields(t *testing.T) {
	ps := new(mockProductStore)
	svc := newService(ps, new(mockUserStore), new(mockOrderStore))

	_, err := svc.UpdateProduct(context.Background(), "p1", domain.UpdateProductRequest{})
	assert.ErrorIs(t, err, domain.ErrBadRequest)
	ps.AssertNotCalled(t, "Update", mock.Anything, mock.Anything, mock.Anything)
}

func TestUpdateProduct_BadUnit(t *testing.T) {
	ps := new(mockProductStore)
	svc := newService(ps, new(mockUserStore), new(mockOrderStore))

	unit := "quintal"
	_, err := svc.UpdateProduct(context.Background(), "p1", domain.UpdateProductRequest{Unit: &unit})
	assert.ErrorIs(t, err, domain.ErrBadRequest)
}

func TestUpdateProduct_NotFound(t *testing.T) {
	ps := new(mockProductStore)
	svc := newService(ps, new(mockUserStore), new(mockOrderStore))

	name := "Maize"
	ps.On("Get", mock.Anything, "missing").Return(nil, domain.ErrNotFound)

	_, err := svc.UpdateProduct(context.Background(), "missing", domain.UpdateProductRequest{Name: &name})
	assert.ErrorIs(t, err, domain.ErrNotFound)
	ps.AssertNotCalled(t, "Update", mock.Anything, mock.Anything, mock.Anything)
}

func TestGetProfile_SubsetOfFields(t *testing.T) {
	us := new(mockUserStore)
	svc := newService(new(mockProductStore), us, new(mockOrderStore))

	us.On("Get", mock.Anything, "f1").Return(&domain.User{
		UserID:       "f1",
		Role:         domain.RoleFarmer,
		FirstName:    "Ravi",
		LastName:     "Kumar",
		Email:        "ravi@farm.in",
		Mobile:       "9876543210",
		Aadhaar:      "123456789012",
		FarmLocation: "Nashik",
		CropsGrown:   []string{"wheat", "onion"},
	}, nil)

	p, err := svc.GetProfile(context.Background(), "f1")
	require.NoError(t, err)
	assert.Equal(t, "Ravi", p.FirstName)
	assert.Equal(t, "Nashik", p.FarmLocation)
	assert.Equal(t, []string{"wheat", "onion"}, p.CropsGrown)
}

func TestUpdateProfile_MapsSnakeCase(t *testing.T) {
	us := new(mockUserStore)
	svc := newService(new(mockProductStore), us, new(mockOrderStore))

	loc := "Pune"
	crops := []string{"grapes"}
	us.On("Get", mock.Anything, "f1").Return(aFarmer("f1"), nil)
	us.On("Update", mock.Anything, "f1", map[string]interface{}{
		"farm_location": "Pune",
		"crops_grown":   []string{"grapes"},
	}).Return(nil)

	err := svc.UpdateProfile(context.Background(), "f1", domain.UpdateProfileRequest{
		FarmLocation: &loc,
		CropsGrown:   &crops,
	})
	require.NoError(t, err)
	us.AssertExpectations(t)
}

func TestUpdateProfile_NoFields(t *testing.T) {
	us := new(mockUserStore)
	svc := newService(new(mockProductStore), us, new(mockOrderStore))

	err := svc.UpdateProfile(context.Background(), "f1", domain.UpdateProfileRequest{})
	assert.ErrorIs(t, err, domain.ErrBadRequest)
	us.AssertNotCalled(t, "Update", mock.Anything, mock.Anything, mock.Anything)
}

func TestOverview_Empty(t *testing.T) {
	ps := new(mockProductStore)
	os := new(mockOrderStore)
	svc := newService(ps, new(mockUserStore), os)

	ps.On("ListByFarmer", mock.Anything, "f1").Return([]domain.Product{}, nil)
	os.On("ListByFarmer", mock.Anything, "f1").Return([]domain.Order{}, nil)

	ov, err := svc.Overview(context.Background(), "f1")
	require.NoError(t, err)
	assert.Zero(t, ov.TotalSales)
	assert.Zero(t, ov.OverallRevenue)
	assert.Empty(t, ov.RecentSales)
	assert.Empty(t, ov.FrequentBuyers)
}

func TestOverview_CountsOnlyAcceptedOrders(t *testing.T) {
	ps := new(mockProductStore)
	os := new(mockOrderStore)
	svc := newService(ps, new(mockUserStore), os)

	now := time.Now().UTC()
	ps.On("ListByFarmer", mock.Anything, "f1").Return([]domain.Product{
		{ProductID: "p1", Name: "Wheat", Price: 25},
		{ProductID: "p2", Name: "Rice", Price: 40},
	}, nil)
	os.On("ListByFarmer", mock.Anything, "f1").Return([]domain.Order{
		{OrderID: "o1", ProductID: "p1", DealerID: "d1", Quantity: 10, Status: domain.OrderStatusAccepted, CreatedAt: now},
		{OrderID: "o2", ProductID: "p2", DealerID: "d2", Quantity: 5, Status: domain.OrderStatusAccepted, CreatedAt: now.Add(-time.Hour)},
		{OrderID: "o3", ProductID: "p1", DealerID: "d1", Quantity: 99, Status: domain.OrderStatusPending, CreatedAt: now},
		{OrderID: "o4", ProductID: "p1", DealerID: "d3", Quantity: 7, Status: domain.OrderStatusRejected, CreatedAt: now},
	}, nil)

	ov, err := svc.Overview(context.Background(), "f1")
	require.NoError(t, err)
	assert.Equal(t, 2, ov.TotalSales)
	assert.Equal(t, 10*25.0+5*40.0, ov.OverallRevenue)
	assert.Equal(t, 2, ov.ProductsInInventory)
	require.Len(t, ov.RecentSales, 2)
	assert.Equal(t, "o1", ov.RecentSales[0].OrderID)
	assert.Equal(t, "Wheat", ov.RecentSales[0].ProductName)
	assert.Equal(t, 250.0, ov.RecentSales[0].Amount)
}

func TestOverview_FrequentBuyersRankedAndCapped(t *testing.T) {
	ps := new(mockProductStore)
	os := new(mockOrderStore)
	svc := newService(ps, new(mockUserStore), os)

	ps.On("ListByFarmer", mock.Anything, "f1").Return([]domain.Product{{ProductID: "p1", Price: 10}}, nil)

	var orders []domain.Order
	// d1 wins with 3 orders, d2 has 2, d3..d7 one each; only five buyers surface
	counts := map[string]int{"d1": 3, "d2": 2, "d3": 1, "d4": 1, "d5": 1, "d6": 1, "d7": 1}
	for dealer, n := range counts {
		for i := 0; i < n; i++ {
			orders = append(orders, domain.Order{
				OrderID: dealer + "-o", ProductID: "p1", DealerID: dealer,
				Quantity: 1, Status: domain.OrderStatusAccepted, CreatedAt: time.Now(),
			})
		}
	}
	os.On("ListByFarmer", mock.Anything, "f1").Return(orders, nil)

	ov, err := svc.Overview(context.Background(), "f1")
	require.NoError(t, err)
	require.Len(t, ov.FrequentBuyers, 5)
	assert.Equal(t, BuyerSummary{DealerID: "d1", Orders: 3}, ov.FrequentBuyers[0])
	assert.Equal(t, BuyerSummary{DealerID: "d2", Orders: 2}, ov.FrequentBuyers[1])
	// ties broken by dealer ID so the ranking is stable
	assert.Equal(t, "d3", ov.FrequentBuyers[2].DealerID)
}

func TestOverview_PropagatesStoreError(t *testing.T) {
	ps := new(mockProductStore)
	svc := newService(ps, new(mockUserStore), new(mockOrderStore))

	boom := errors.New("dynamo down")
	ps.On("ListByFarmer", mock.Anything, "f1").Return(nil, boom)

	_, err := svc.Overview(context.Background(), "f1")
	assert.ErrorIs(t, err, boom)
}
