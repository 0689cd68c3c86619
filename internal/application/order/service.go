package order

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/agrochain-api/internal/domain"
	"github.com/agrochain-api/internal/pkg/id"
)

type Service interface {
	Create(ctx context.Context, req domain.CreateOrderRequest) (*domain.Order, error)
	ListByFarmer(ctx context.Context, farmerID string) ([]domain.Order, error)
	ListByDealer(ctx context.Context, dealerID string) ([]domain.Order, error)
	UpdateStatus(ctx context.Context, orderID string, req domain.UpdateOrderStatusRequest) (*domain.Order, error)
}

type orderStore interface {
	Put(ctx context.Context, o *domain.Order) error
	Get(ctx context.Context, orderID string) (*domain.Order, error)
	ListByFarmer(ctx context.Context, farmerID string) ([]domain.Order, error)
	ListByDealer(ctx context.Context, dealerID string) ([]domain.Order, error)
	UpdateStatus(ctx context.Context, orderID, status string) error
}

type productStore interface {
	Get(ctx context.Context, productID string) (*domain.Product, error)
}

type userStore interface {
	Get(ctx context.Context, userID string) (*domain.User, error)
}

type smsSender interface {
	SendSMS(ctx context.Context, to, message string) error
}

type service struct {
	orders   orderStore
	products productStore
	users    userStore
	sms      smsSender // nil when SNS is not configured
}

type ServiceDeps struct {
	OrderRepo   orderStore
	ProductRepo productStore
	UserRepo    userStore
	SMS         smsSender
}

func NewService(deps ServiceDeps) Service {
	return &service{
		orders:   deps.OrderRepo,
		products: deps.ProductRepo,
		users:    deps.UserRepo,
		sms:      deps.SMS,
	}
}

func (s *service) Create(ctx context.Context, req domain.CreateOrderRequest) (*domain.Order, error) {
	product, err := s.products.Get(ctx, req.ProductID)
	if err != nil {
		return nil, err
	}
	dealer, err := s.users.Get(ctx, req.DealerID)
	if err != nil {
		return nil, err
	}
	if dealer.Role != domain.RoleDealer && dealer.Role != domain.RoleRetailer {
		return nil, fmt.Errorf("only dealers and retailers can place orders: %w", domain.ErrForbidden)
	}

	now := time.Now().UTC()
	o := &domain.Order{
		OrderID:   id.New(),
		DealerID:  req.DealerID,
		FarmerID:  product.FarmerID,
		ProductID: req.ProductID,
		Quantity:  req.Quantity,
		Status:    domain.OrderStatusPending,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.orders.Put(ctx, o); err != nil {
		return nil, err
	}

	s.notifyFarmer(ctx, o, product)
	return o, nil
}

// notifyFarmer texts the product owner about the new order. Best effort:
// a missing farmer mobile or an SNS failure never fails the order.
func (s *service) notifyFarmer(ctx context.Context, o *domain.Order, product *domain.Product) {
	if s.sms == nil {
		return
	}
	farmer, err := s.users.Get(ctx, o.FarmerID)
	if err != nil || farmer.Mobile == "" {
		slog.Warn("skipping order SMS, farmer unreachable", "order_id", o.OrderID, "farmer_id", o.FarmerID)
		return
	}
	msg := fmt.Sprintf("AgroChain: new order for %.0f %s of %s. Open your dashboard to accept or reject.",
		o.Quantity, product.Unit, product.Name)
	if err := s.sms.SendSMS(ctx, farmer.Mobile, msg); err != nil {
		slog.Warn("failed to send order SMS", "order_id", o.OrderID, "error", err)
	}
}

func (s *service) ListByFarmer(ctx context.Context, farmerID string) ([]domain.Order, error) {
	return s.orders.ListByFarmer(ctx, farmerID)
}

func (s *service) ListByDealer(ctx context.Context, dealerID string) ([]domain.Order, error) {
	return s.orders.ListByDealer(ctx, dealerID)
}

func (s *service) UpdateStatus(ctx context.Context, orderID string, req domain.UpdateOrderStatusRequest) (*domain.Order, error) {
	if req.Status != domain.OrderStatusAccepted && req.Status != domain.OrderStatusRejected {
		return nil, fmt.Errorf("status must be accepted or rejected: %w", domain.ErrBadRequest)
	}
	o, err := s.orders.Get(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if o.Status != domain.OrderStatusPending {
		return nil, fmt.Errorf("order already %s: %w", o.Status, domain.ErrConflict)
	}
	if err := s.orders.UpdateStatus(ctx, orderID, req.Status); err != nil {
		return nil, err
	}
	o.Status = req.Status
	o.UpdatedAt = time.Now().UTC()
	return o, nil
}
