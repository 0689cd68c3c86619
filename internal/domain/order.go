package domain

import "time"

// Order statuses. Orders start pending and the farmer moves them to
// accepted or rejected exactly once.
const (
	OrderStatusPending  = "pending"
	OrderStatusAccepted = "accepted"
	OrderStatusRejected = "rejected"
)

// Order is a dealer's purchase request against a farmer's product.
type Order struct {
	OrderID   string    `json:"id" dynamodbav:"order_id"`
	DealerID  string    `json:"dealer" dynamodbav:"dealer_id"`
	FarmerID  string    `json:"farmer" dynamodbav:"farmer_id"`
	ProductID string    `json:"product" dynamodbav:"product_id"`
	Quantity  float64   `json:"quantity" dynamodbav:"quantity"`
	Status    string    `json:"status" dynamodbav:"status"`
	CreatedAt time.Time `json:"created" dynamodbav:"created_at"`
	UpdatedAt time.Time `json:"updated" dynamodbav:"updated_at"`
}

type CreateOrderRequest struct {
	DealerID  string  `json:"dealerId" validate:"required"`
	ProductID string  `json:"productId" validate:"required"`
	Quantity  float64 `json:"quantity" validate:"required,gt=0"`
}

type UpdateOrderStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=accepted rejected"`
}
