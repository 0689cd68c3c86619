package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/agrochain-api/internal/application/farmer"
	"github.com/agrochain-api/internal/domain"
)

// --- mock ---

type mockFarmerSvc struct{ mock.Mock }

func (m *mockFarmerSvc) Overview(ctx context.Context, farmerID string) (*farmer.Overview, error) {
	args := m.Called(ctx, farmerID)
	if ov, _ := args.Get(0).(*farmer.Overview); ov != nil {
		return ov, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockFarmerSvc) AddProduct(ctx context.Context, req domain.CreateProductRequest) (*domain.Product, error) {
	args := m.Called(ctx, req)
	if p, _ := args.Get(0).(*domain.Product); p != nil {
		return p, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockFarmerSvc) ListProducts(ctx context.Context, farmerID string) ([]domain.Product, error) {
	args := m.Called(ctx, farmerID)
	if ps, _ := args.Get(0).([]domain.Product); ps != nil {
		return ps, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockFarmerSvc) UpdateProduct(ctx context.Context, productID string, req domain.UpdateProductRequest) (*domain.Product, error) {
	args := m.Called(ctx, productID, req)
	if p, _ := args.Get(0).(*domain.Product); p != nil {
		return p, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockFarmerSvc) DeleteProduct(ctx context.Context, productID string) error {
	return m.Called(ctx, productID).Error(0)
}

func (m *mockFarmerSvc) GetProfile(ctx context.Context, farmerID string) (*farmer.Profile, error) {
	args := m.Called(ctx, farmerID)
	if p, _ := args.Get(0).(*farmer.Profile); p != nil {
		return p, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockFarmerSvc) UpdateProfile(ctx context.Context, farmerID string, req domain.UpdateProfileRequest) error {
	return m.Called(ctx, farmerID, req).Error(0)
}

// withChiParam injects a chi URL param into the request context.
func withChiParam(r *http.Request, key, value string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(key, value)
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

// --- tests ---

func TestOverview_HappyPath(t *testing.T) {
	svc := &mockFarmerSvc{}
	svc.On("Overview", mock.Anything, "f1").Return(&farmer.Overview{
		TotalSales: 3, OverallRevenue: 1250, ProductsInInventory: 2,
	}, nil)
	h := NewFarmerHandler(svc)

	r := withChiParam(httptest.NewRequest(http.MethodGet, "/api/farmer/overview/f1", nil), "farmerId", "f1")
	rr := httptest.NewRecorder()
	h.Overview(rr, r)
	assert.Equal(t, http.StatusOK, rr.Code)

	var resp farmer.Overview
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&resp))
	assert.Equal(t, 3, resp.TotalSales)
	assert.Equal(t, 1250.0, resp.OverallRevenue)
}

func TestAddProduct_ValidationFailure(t *testing.T) {
	svc := &mockFarmerSvc{}
	h := NewFarmerHandler(svc)

	body, _ := json.Marshal(map[string]interface{}{"name": "Wheat"}) // missing farmerId, price, quantity, unit
	r := httptest.NewRequest(http.MethodPost, "/api/farmer/products", bytes.NewReader(body))
	rr := httptest.NewRecorder()
	h.AddProduct(rr, r)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	svc.AssertNotCalled(t, "AddProduct", mock.Anything, mock.Anything)
}

func TestAddProduct_HappyPath(t *testing.T) {
	svc := &mockFarmerSvc{}
	p := &domain.Product{ProductID: "p1", FarmerID: "f1", Name: "Wheat", ImageURL: domain.PlaceholderImageURL}
	svc.On("AddProduct", mock.Anything, mock.Anything).Return(p, nil)
	h := NewFarmerHandler(svc)

	body, _ := json.Marshal(domain.CreateProductRequest{
		FarmerID: "f1", Name: "Wheat", Price: 25, Quantity: 100, Unit: domain.UnitKg,
	})
	r := httptest.NewRequest(http.MethodPost, "/api/farmer/products", bytes.NewReader(body))
	rr := httptest.NewRecorder()
	h.AddProduct(rr, r)
	assert.Equal(t, http.StatusCreated, rr.Code)

	var resp ProductEnvelope
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&resp))
	assert.Equal(t, "Product added successfully", resp.Msg)
	assert.Equal(t, "p1", resp.Product.ProductID)
}

func TestUpdateProduct_NotFoundIs404(t *testing.T) {
	svc := &mockFarmerSvc{}
	svc.On("UpdateProduct", mock.Anything, "missing", mock.Anything).Return(nil, domain.ErrNotFound)
	h := NewFarmerHandler(svc)

	body, _ := json.Marshal(map[string]interface{}{"price": 30})
	r := withChiParam(httptest.NewRequest(http.MethodPut, "/api/farmer/products/missing", bytes.NewReader(body)), "productId", "missing")
	rr := httptest.NewRecorder()
	h.UpdateProduct(rr, r)
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestDeleteProduct_HappyPath(t *testing.T) {
	svc := &mockFarmerSvc{}
	svc.On("DeleteProduct", mock.Anything, "p1").Return(nil)
	h := NewFarmerHandler(svc)

	r := withChiParam(httptest.NewRequest(http.MethodDelete, "/api/farmer/products/p1", nil), "productId", "p1")
	rr := httptest.NewRecorder()
	h.DeleteProduct(rr, r)
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "Product deleted successfully", decodeMsg(t, rr))
	svc.AssertExpectations(t)
}

func TestGetProfile_HappyPath(t *testing.T) {
	svc := &mockFarmerSvc{}
	svc.On("GetProfile", mock.Anything, "f1").Return(&farmer.Profile{
		FirstName: "Ravi", Email: "ravi@farm.in", FarmLocation: "Nashik",
	}, nil)
	h := NewFarmerHandler(svc)

	r := withChiParam(httptest.NewRequest(http.MethodGet, "/api/farmer/profile/f1", nil), "farmerId", "f1")
	rr := httptest.NewRecorder()
	h.GetProfile(rr, r)
	assert.Equal(t, http.StatusOK, rr.Code)

	var resp farmer.Profile
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&resp))
	assert.Equal(t, "Nashik", resp.FarmLocation)
}

func TestUpdateProfile_BadBody(t *testing.T) {
	svc := &mockFarmerSvc{}
	h := NewFarmerHandler(svc)

	r := withChiParam(httptest.NewRequest(http.MethodPut, "/api/farmer/profile/f1", bytes.NewBufferString("not-json")), "farmerId", "f1")
	rr := httptest.NewRecorder()
	h.UpdateProfile(rr, r)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	svc.AssertNotCalled(t, "UpdateProfile", mock.Anything, mock.Anything, mock.Anything)
}
