package domain

import "time"

// Product quantity units.
const (
	UnitKg  = "kg"
	UnitTon = "ton"
)

// PlaceholderImageURL is used when a product is created without an image.
const PlaceholderImageURL = "/uploads/products/placeholder.png"

// Product is a farmer's listing.
type Product struct {
	ProductID string    `json:"id" dynamodbav:"product_id"`
	FarmerID  string    `json:"farmer" dynamodbav:"farmer_id"`
	Name      string    `json:"name" dynamodbav:"name"`
	ImageURL  string    `json:"imageURL" dynamodbav:"image_url"`
	Price     float64   `json:"price" dynamodbav:"price"`
	Quantity  float64   `json:"quantity" dynamodbav:"quantity"`
	Unit      string    `json:"unit" dynamodbav:"unit"` // "kg" | "ton"
	CreatedAt time.Time `json:"created" dynamodbav:"created_at"`
	UpdatedAt time.Time `json:"updated" dynamodbav:"updated_at"`
}

type CreateProductRequest struct {
	FarmerID string  `json:"farmerId" validate:"required"`
	Name     string  `json:"name" validate:"required"`
	ImageURL string  `json:"imageURL"`
	Price    float64 `json:"price" validate:"required,gt=0"`
	Quantity float64 `json:"quantity" validate:"required,gt=0"`
	Unit     string  `json:"unit" validate:"required,oneof=kg ton"`
}

type UpdateProductRequest struct {
	Name     *string  `json:"name"`
	ImageURL *string  `json:"imageURL"`
	Price    *float64 `json:"price"`
	Quantity *float64 `json:"quantity"`
	Unit     *string  `json:"unit" validate:"omitempty,oneof=kg ton"`
}
