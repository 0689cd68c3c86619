package farmer

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/agrochain-api/internal/domain"
	"github.com/agrochain-api/internal/pkg/id"
)

// Overview aggregates the farmer dashboard numbers from accepted orders and
// current listings.
type Overview struct {
	TotalSales          int            `json:"totalSales"`
	OverallRevenue      float64        `json:"overallRevenue"`
	ProductsInInventory int            `json:"productsInInventory"`
	RecentSales         []RecentSale   `json:"recentSales"`
	FrequentBuyers      []BuyerSummary `json:"frequentBuyers"`
}

type RecentSale struct {
	OrderID     string    `json:"orderId"`
	ProductName string    `json:"productName"`
	Quantity    float64   `json:"quantity"`
	Amount      float64   `json:"amount"`
	Date        time.Time `json:"date"`
}

type BuyerSummary struct {
	DealerID string `json:"dealerId"`
	Orders   int    `json:"orders"`
}

// Profile is the dashboard view of a farmer account.
type Profile struct {
	FirstName    string   `json:"firstName"`
	LastName     string   `json:"lastName"`
	Email        string   `json:"email"`
	Mobile       string   `json:"mobile"`
	Aadhaar      string   `json:"aadhaar"`
	FarmLocation string   `json:"farmLocation"`
	CropsGrown   []string `json:"cropsGrown"`
}

type Service interface {
	Overview(ctx context.Context, farmerID string) (*Overview, error)
	AddProduct(ctx context.Context, req domain.CreateProductRequest) (*domain.Product, error)
	ListProducts(ctx context.Context, farmerID string) ([]domain.Product, error)
	UpdateProduct(ctx context.Context, productID string, req domain.UpdateProductRequest) (*domain.Product, error)
	DeleteProduct(ctx context.Context, productID string) error
	GetProfile(ctx context.Context, farmerID string) (*Profile, error)
	UpdateProfile(ctx context.Context, farmerID string, req domain.UpdateProfileRequest) error
}

type productStore interface {
	Put(ctx context.Context, p *domain.Product) error
	Get(ctx context.Context, productID string) (*domain.Product, error)
	ListByFarmer(ctx context.Context, farmerID string) ([]domain.Product, error)
	Update(ctx context.Context, productID string, updates map[string]interface{}) error
	Delete(ctx context.Context, productID string) error
}

type userStore interface {
	Get(ctx context.Context, userID string) (*domain.User, error)
	Update(ctx context.Context, userID string, updates map[string]interface{}) error
}

type orderStore interface {
	ListByFarmer(ctx context.Context, farmerID string) ([]domain.Order, error)
}

type service struct {
	products productStore
	users    userStore
	orders   orderStore
}

type ServiceDeps struct {
	ProductRepo productStore
	UserRepo    userStore
	OrderRepo   orderStore
}

func NewService(deps ServiceDeps) Service {
	return &service{products: deps.ProductRepo, users: deps.UserRepo, orders: deps.OrderRepo}
}

func (s *service) Overview(ctx context.Context, farmerID string) (*Overview, error) {
	products, err := s.products.ListByFarmer(ctx, farmerID)
	if err != nil {
		return nil, err
	}
	orders, err := s.orders.ListByFarmer(ctx, farmerID)
	if err != nil {
		return nil, err
	}

	priceByProduct := make(map[string]float64, len(products))
	nameByProduct := make(map[string]string, len(products))
	for _, p := range products {
		priceByProduct[p.ProductID] = p.Price
		nameByProduct[p.ProductID] = p.Name
	}

	ov := &Overview{
		ProductsInInventory: len(products),
		RecentSales:         []RecentSale{},
		FrequentBuyers:      []BuyerSummary{},
	}
	buyerOrders := make(map[string]int)
	for _, o := range orders {
		if o.Status != domain.OrderStatusAccepted {
			continue
		}
		amount := o.Quantity * priceByProduct[o.ProductID]
		ov.TotalSales++
		ov.OverallRevenue += amount
		buyerOrders[o.DealerID]++
		if len(ov.RecentSales) < 5 {
			// orders arrive newest first from the repo
			ov.RecentSales = append(ov.RecentSales, RecentSale{
				OrderID:     o.OrderID,
				ProductName: nameByProduct[o.ProductID],
				Quantity:    o.Quantity,
				Amount:      amount,
				Date:        o.CreatedAt,
			})
		}
	}

	for dealerID, n := range buyerOrders {
		ov.FrequentBuyers = append(ov.FrequentBuyers, BuyerSummary{DealerID: dealerID, Orders: n})
	}
	sort.Slice(ov.FrequentBuyers, func(i, j int) bool {
		if ov.FrequentBuyers[i].Orders != ov.FrequentBuyers[j].Orders {
			return ov.FrequentBuyers[i].Orders > ov.FrequentBuyers[j].Orders
		}
		return ov.FrequentBuyers[i].DealerID < ov.FrequentBuyers[j].DealerID
	})
	if len(ov.FrequentBuyers) > 5 {
		ov.FrequentBuyers = ov.FrequentBuyers[:5]
	}
	return ov, nil
}

func (s *service) AddProduct(ctx context.Context, req domain.CreateProductRequest) (*domain.Product, error) {
	owner, err := s.users.Get(ctx, req.FarmerID)
	if err != nil {
		return nil, err
	}
	if owner.Role != domain.RoleFarmer {
		return nil, fmt.Errorf("only farmers can list products: %w", domain.ErrForbidden)
	}

	imageURL := req.ImageURL
	if imageURL == "" {
		imageURL = domain.PlaceholderImageURL
	}
	now := time.Now().UTC()
	p := &domain.Product{
		ProductID: id.New(),
		FarmerID:  req.FarmerID,
		Name:      req.Name,
		ImageURL:  imageURL,
		Price:     req.Price,
		Quantity:  req.Quantity,
		Unit:      req.Unit,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.products.Put(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

func (s *service) ListProducts(ctx context.Context, farmerID string) ([]domain.Product, error) {
	return s.products.ListByFarmer(ctx, farmerID)
}

func (s *service) UpdateProduct(ctx context.Context, productID string, req domain.UpdateProductRequest) (*domain.Product, error) {
	updates := map[string]interface{}{}
	if req.Name != nil {
		updates["name"] = *req.Name
	}
	if req.ImageURL != nil {
		updates["image_url"] = *req.ImageURL
	}
	if req.Price != nil {
		updates["price"] = *req.Price
	}
	if req.Quantity != nil {
		updates["quantity"] = *req.Quantity
	}
	if req.Unit != nil {
		if *req.Unit != domain.UnitKg && *req.Unit != domain.UnitTon {
			return nil, fmt.Errorf("unit must be kg or ton: %w", domain.ErrBadRequest)
		}
		updates["unit"] = *req.Unit
	}
	if len(updates) == 0 {
		return nil, fmt.Errorf("no fields to update: %w", domain.ErrBadRequest)
	}

	// Confirm existence first so a bad ID surfaces as 404, not a silent upsert.
	if _, err := s.products.Get(ctx, productID); err != nil {
		return nil, err
	}
	if err := s.products.Update(ctx, productID, updates); err != nil {
		return nil, err
	}
	return s.products.Get(ctx, productID)
}

func (s *service) DeleteProduct(ctx context.Context, productID string) error {
	return s.products.Delete(ctx, productID)
}

func (s *service) GetProfile(ctx context.Context, farmerID string) (*Profile, error) {
	u, err := s.users.Get(ctx, farmerID)
	if err != nil {
		return nil, err
	}
	return &Profile{
		FirstName:    u.FirstName,
		LastName:     u.LastName,
		Email:        u.Email,
		Mobile:       u.Mobile,
		Aadhaar:      u.Aadhaar,
		FarmLocation: u.FarmLocation,
		CropsGrown:   u.CropsGrown,
	}, nil
}

func (s *service) UpdateProfile(ctx context.Context, farmerID string, req domain.UpdateProfileRequest) error {
	updates := map[string]interface{}{}
	if req.FirstName != nil {
		updates["first_name"] = *req.FirstName
	}
	if req.LastName != nil {
		updates["last_name"] = *req.LastName
	}
	if req.Mobile != nil {
		updates["mobile"] = *req.Mobile
	}
	if req.Aadhaar != nil {
		updates["aadhaar"] = *req.Aadhaar
	}
	if req.FarmLocation != nil {
		updates["farm_location"] = *req.FarmLocation
	}
	if req.GeoTag != nil {
		updates["geo_tag"] = *req.GeoTag
	}
	if req.FarmSize != nil {
		updates["farm_size"] = *req.FarmSize
	}
	if req.CropsGrown != nil {
		updates["crops_grown"] = *req.CropsGrown
	}
	if len(updates) == 0 {
		return fmt.Errorf("no fields to update: %w", domain.ErrBadRequest)
	}

	if _, err := s.users.Get(ctx, farmerID); err != nil {
		return err
	}
	return s.users.Update(ctx, farmerID, updates)
}
