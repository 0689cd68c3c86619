package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"golang.org/x/time/rate"

	"github.com/agrochain-api/internal/application/auth"
	"github.com/agrochain-api/internal/application/farmer"
	"github.com/agrochain-api/internal/application/order"
	"github.com/agrochain-api/internal/config"
	"github.com/agrochain-api/internal/infrastructure/dynamo"
	"github.com/agrochain-api/internal/infrastructure/google"
	jwtinfra "github.com/agrochain-api/internal/infrastructure/jwt"
	"github.com/agrochain-api/internal/infrastructure/smtp"
	"github.com/agrochain-api/internal/infrastructure/sns"
	"github.com/agrochain-api/internal/otp"
	"github.com/agrochain-api/internal/transport/http/handler"
	appmiddleware "github.com/agrochain-api/internal/transport/http/middleware"
)

// Deps holds all infrastructure dependencies for the router.
type Deps struct {
	UserRepo    *dynamo.UserRepo
	ProductRepo *dynamo.ProductRepo
	OrderRepo   *dynamo.OrderRepo
	Codes       otp.Store
	Mailer      smtp.Mailer
	Google      *google.Verifier // nil when no client ID is configured
	SMSSender   sns.SMSSender    // nil when SNS is not configured
	JWTProvider *jwtinfra.Provider
}

// NewRouter builds and returns the application router.
func NewRouter(cfg *config.Config, deps *Deps) http.Handler {
	r := chi.NewRouter()
	r.Use(chimiddleware.Logger)
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.RequestID)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	var authMw func(http.Handler) http.Handler
	if deps.JWTProvider != nil {
		authMw = appmiddleware.Auth(deps.JWTProvider)
	} else {
		authMw = func(next http.Handler) http.Handler { return next }
	}

	// 5 requests/second, burst of 10 — applied to the OTP send endpoints.
	otpRL := appmiddleware.NewRateLimiter(rate.Limit(5), 10)

	authDeps := auth.ServiceDeps{
		Codes:    deps.Codes,
		UserRepo: deps.UserRepo,
		Mailer:   deps.Mailer,
	}
	if deps.Google != nil {
		authDeps.Google = deps.Google
	}
	authSvc := auth.NewService(authDeps)
	farmerSvc := farmer.NewService(farmer.ServiceDeps{
		ProductRepo: deps.ProductRepo,
		UserRepo:    deps.UserRepo,
		OrderRepo:   deps.OrderRepo,
	})
	orderDeps := order.ServiceDeps{
		OrderRepo:   deps.OrderRepo,
		ProductRepo: deps.ProductRepo,
		UserRepo:    deps.UserRepo,
	}
	if deps.SMSSender != nil {
		orderDeps.SMS = deps.SMSSender
	}
	orderSvc := order.NewService(orderDeps)

	healthH := handler.NewHealthHandler()
	authH := handler.NewAuthHandler(authSvc, deps.JWTProvider)
	farmerH := handler.NewFarmerHandler(farmerSvc)
	orderH := handler.NewOrderHandler(orderSvc)

	r.Get("/", healthH.Root)

	r.Route("/api/auth", func(r chi.Router) {
		r.With(otpRL.Limit).Post("/send-otp", authH.SendOTP)
		r.With(otpRL.Limit).Post("/send-login-otp", authH.SendLoginOTP)
		r.Post("/verify-otp", authH.VerifyOTP)
		r.Post("/verify-login-otp", authH.VerifyLoginOTP)
		r.Post("/verify-google", authH.VerifyGoogle)
		r.Post("/login-google", authH.LoginGoogle)
		r.Post("/signup", authH.Signup)
		r.Post("/signup-google", authH.SignupGoogle)
	})

	r.Route("/api/farmer", func(r chi.Router) {
		r.Use(authMw)

		r.Get("/overview/{farmerId}", farmerH.Overview)
		r.Post("/products", farmerH.AddProduct)
		r.Get("/products/{farmerId}", farmerH.ListProducts)
		r.Put("/products/{productId}", farmerH.UpdateProduct)
		r.Delete("/products/{productId}", farmerH.DeleteProduct)
		r.Get("/profile/{farmerId}", farmerH.GetProfile)
		r.Put("/profile/{farmerId}", farmerH.UpdateProfile)
	})

	r.Route("/api/orders", func(r chi.Router) {
		r.Use(authMw)

		r.Post("/", orderH.Create)
		r.Get("/farmer/{farmerId}", orderH.ListByFarmer)
		r.Get("/dealer/{dealerId}", orderH.ListByDealer)
		r.Put("/{orderId}/status", orderH.UpdateStatus)
	})

	return r
}
