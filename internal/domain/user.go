package domain

import "time"

// Account roles. Role is immutable after creation.
const (
	RoleFarmer   = "farmer"
	RoleDealer   = "dealer"
	RoleRetailer = "retailer"
)

// ValidRole reports whether role is one of the three marketplace roles.
func ValidRole(role string) bool {
	return role == RoleFarmer || role == RoleDealer || role == RoleRetailer
}

// User is a marketplace account. The role-specific field groups are optional
// and guarded by Role; the registration gate enforces which of them must be
// present before a record is created.
type User struct {
	UserID        string    `json:"id" dynamodbav:"user_id"`
	Role          string    `json:"role" dynamodbav:"role"`
	FirstName     string    `json:"firstName" dynamodbav:"first_name"`
	LastName      string    `json:"lastName,omitempty" dynamodbav:"last_name"`
	Mobile        string    `json:"mobile" dynamodbav:"mobile"`
	Email         string    `json:"email" dynamodbav:"email"`
	EmailVerified bool      `json:"emailVerified" dynamodbav:"email_verified"`
	GoogleAuth    bool      `json:"googleAuth" dynamodbav:"google_auth"`

	// Farmer fields
	Aadhaar      string   `json:"aadhaar,omitempty" dynamodbav:"aadhaar"`
	FarmLocation string   `json:"farmLocation,omitempty" dynamodbav:"farm_location"`
	GeoTag       string   `json:"geoTag,omitempty" dynamodbav:"geo_tag"`
	FarmSize     string   `json:"farmSize,omitempty" dynamodbav:"farm_size"`
	CropsGrown   []string `json:"cropsGrown,omitempty" dynamodbav:"crops_grown"`

	// Dealer fields
	BusinessName         string   `json:"businessName,omitempty" dynamodbav:"business_name"`
	GSTIN                string   `json:"gstin,omitempty" dynamodbav:"gstin"`
	WarehouseAddress     string   `json:"warehouseAddress,omitempty" dynamodbav:"warehouse_address"`
	PreferredCommodities []string `json:"preferredCommodities,omitempty" dynamodbav:"preferred_commodities"`

	// Retailer fields
	ShopName              string `json:"shopName,omitempty" dynamodbav:"shop_name"`
	ShopAddress           string `json:"shopAddress,omitempty" dynamodbav:"shop_address"`
	ShopType              string `json:"shopType,omitempty" dynamodbav:"shop_type"`
	MonthlyPurchaseVolume string `json:"monthlyPurchaseVolume,omitempty" dynamodbav:"monthly_purchase_volume"`

	CreatedAt time.Time `json:"created" dynamodbav:"created_at"`
	UpdatedAt time.Time `json:"updated" dynamodbav:"updated_at"`
}

// UserSummary is the trimmed user shape returned by the login endpoints.
type UserSummary struct {
	ID        string `json:"id"`
	Email     string `json:"email"`
	FirstName string `json:"firstName"`
	Role      string `json:"role"`
}

// Summary returns the login-response view of the user.
func (u *User) Summary() UserSummary {
	return UserSummary{ID: u.UserID, Email: u.Email, FirstName: u.FirstName, Role: u.Role}
}

// SignupRequest is the registration payload. Email and EmailVerified are only
// meaningful on the OTP path; the Google path takes identity from the verified
// token instead.
type SignupRequest struct {
	Role          string `json:"role" validate:"required"`
	FirstName     string `json:"firstName" validate:"required"`
	LastName      string `json:"lastName"`
	Mobile        string `json:"mobile" validate:"required"`
	Email         string `json:"email" validate:"required,email"`
	EmailVerified bool   `json:"emailVerified"`

	Aadhaar      string   `json:"aadhaar"`
	FarmLocation string   `json:"farmLocation"`
	GeoTag       string   `json:"geoTag"`
	FarmSize     string   `json:"farmSize"`
	CropsGrown   []string `json:"cropsGrown"`

	BusinessName         string   `json:"businessName"`
	GSTIN                string   `json:"gstin"`
	WarehouseAddress     string   `json:"warehouseAddress"`
	PreferredCommodities []string `json:"preferredCommodities"`

	ShopName              string `json:"shopName"`
	ShopAddress           string `json:"shopAddress"`
	ShopType              string `json:"shopType"`
	MonthlyPurchaseVolume string `json:"monthlyPurchaseVolume"`
}

// GoogleSignupRequest is the registration payload for the Google path. The
// token is re-verified server-side; email and names come from its claims.
type GoogleSignupRequest struct {
	GoogleToken string `json:"googleToken" validate:"required"`
	SignupRequest
}

// UpdateProfileRequest carries the partial profile update for the farmer
// dashboard. Nil fields are left untouched.
type UpdateProfileRequest struct {
	FirstName    *string   `json:"firstName"`
	LastName     *string   `json:"lastName"`
	Mobile       *string   `json:"mobile"`
	Aadhaar      *string   `json:"aadhaar"`
	FarmLocation *string   `json:"farmLocation"`
	GeoTag       *string   `json:"geoTag"`
	FarmSize     *string   `json:"farmSize"`
	CropsGrown   *[]string `json:"cropsGrown"`
}
