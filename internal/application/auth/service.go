package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/agrochain-api/internal/domain"
	"github.com/agrochain-api/internal/infrastructure/google"
	"github.com/agrochain-api/internal/otp"
	"github.com/agrochain-api/internal/pkg/id"
	"github.com/agrochain-api/internal/pkg/validate"
)

// Purpose selects which existence precondition a verification flow enforces:
// signup requires the email to be unregistered, login requires it registered.
type Purpose string

const (
	PurposeSignup Purpose = "signup"
	PurposeLogin  Purpose = "login"
)

// Service is the identity verification engine and registration gate. Both the
// OTP and the Google path converge on the same VerifiedIdentity value, which
// Register consumes without branching on how the identity was proven.
type Service interface {
	// RequestCode issues a fresh code for email and mails it. The code stays
	// stored and redeemable even when delivery fails; re-requesting
	// overwrites it.
	RequestCode(ctx context.Context, email string, purpose Purpose) error
	// VerifyCode checks and consumes the pending code. For login it also
	// loads and returns the account.
	VerifyCode(ctx context.Context, email, code string, purpose Purpose) (*domain.VerifiedIdentity, *domain.User, error)
	// VerifyGoogleToken validates the ID token and applies the purpose's
	// existence precondition. No stored state is involved; the token itself
	// is the proof.
	VerifyGoogleToken(ctx context.Context, token string, purpose Purpose) (*domain.VerifiedIdentity, *domain.User, error)
	// Register is the single checkpoint between a verified identity and a
	// durable account.
	Register(ctx context.Context, ident *domain.VerifiedIdentity, req *domain.SignupRequest) (*domain.User, error)
}

type userStore interface {
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	Put(ctx context.Context, u *domain.User) error
}

type mailer interface {
	SendEmail(to, subject, htmlBody string) error
}

type tokenVerifier interface {
	Verify(ctx context.Context, token string) (*google.Payload, error)
}

type service struct {
	codes         otp.Store
	userRepo      userStore
	mailer        mailer
	google        tokenVerifier
	verifyTimeout time.Duration
}

type ServiceDeps struct {
	Codes    otp.Store
	UserRepo userStore
	Mailer   mailer
	// Google may be nil when no client ID is configured; the Google
	// endpoints then reject with a bad-request error.
	Google tokenVerifier
	// VerifyTimeout bounds outbound token verification. Zero means 10s.
	VerifyTimeout time.Duration
}

func NewService(deps ServiceDeps) Service {
	timeout := deps.VerifyTimeout
	if timeout == 0 {
		timeout = 10 * time.Second
	}
	return &service{
		codes:         deps.Codes,
		userRepo:      deps.UserRepo,
		mailer:        deps.Mailer,
		google:        deps.Google,
		verifyTimeout: timeout,
	}
}

func (s *service) RequestCode(ctx context.Context, email string, purpose Purpose) error {
	_, err := s.userRepo.GetByEmail(ctx, email)
	switch purpose {
	case PurposeSignup:
		if err == nil {
			return fmt.Errorf("email already registered: %w", domain.ErrConflict)
		}
		if !errors.Is(err, domain.ErrNotFound) {
			return err
		}
	case PurposeLogin:
		if errors.Is(err, domain.ErrNotFound) {
			return fmt.Errorf("email not registered, please signup first: %w", domain.ErrNotFound)
		}
		if err != nil {
			return err
		}
	default:
		return fmt.Errorf("unknown purpose %q: %w", purpose, domain.ErrBadRequest)
	}

	pc, err := s.codes.Issue(ctx, email)
	if err != nil {
		return err
	}

	subject, body := signupOTPEmail(pc.Code)
	if purpose == PurposeLogin {
		subject, body = loginOTPEmail(pc.Code)
	}
	if err := s.mailer.SendEmail(email, subject, body); err != nil {
		// The code stays stored and redeemable; the caller re-requests to
		// resend, which overwrites it.
		slog.Error("otp email delivery failed", "email", email, "purpose", purpose, "err", err)
		return fmt.Errorf("failed to send OTP email: %w", domain.ErrDelivery)
	}
	return nil
}

func (s *service) VerifyCode(ctx context.Context, email, code string, purpose Purpose) (*domain.VerifiedIdentity, *domain.User, error) {
	pc, err := s.codes.Peek(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, nil, fmt.Errorf("OTP not found or expired: %w", domain.ErrNotFound)
		}
		return nil, nil, err
	}

	if pc.Expired(time.Now()) {
		if err := s.codes.Delete(ctx, email); err != nil {
			slog.Warn("failed to delete expired OTP", "email", email, "err", err)
		}
		return nil, nil, fmt.Errorf("OTP has expired: %w", domain.ErrExpired)
	}

	// Mismatch keeps the entry so the caller can retry until expiry.
	if pc.Code != code {
		return nil, nil, fmt.Errorf("invalid OTP: %w", domain.ErrUnauthorized)
	}

	// A concurrent issuance or verification may have replaced or removed the
	// slot since the peek; treat a vanished or rotated code as not found.
	consumed, err := s.codes.Consume(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, nil, fmt.Errorf("OTP not found or expired: %w", domain.ErrNotFound)
		}
		return nil, nil, err
	}
	if consumed.Code != code {
		return nil, nil, fmt.Errorf("invalid OTP: %w", domain.ErrUnauthorized)
	}

	ident := &domain.VerifiedIdentity{Email: email, Source: domain.IdentitySourceOTP}

	if purpose == PurposeLogin {
		u, err := s.userRepo.GetByEmail(ctx, email)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return nil, nil, fmt.Errorf("user not found: %w", domain.ErrNotFound)
			}
			return nil, nil, err
		}
		return ident, u, nil
	}
	return ident, nil, nil
}

func (s *service) VerifyGoogleToken(ctx context.Context, token string, purpose Purpose) (*domain.VerifiedIdentity, *domain.User, error) {
	if s.google == nil {
		return nil, nil, fmt.Errorf("google sign-in is not configured: %w", domain.ErrBadRequest)
	}

	vctx, cancel := context.WithTimeout(ctx, s.verifyTimeout)
	defer cancel()
	payload, err := s.google.Verify(vctx, token)
	if err != nil {
		return nil, nil, err
	}
	if !payload.EmailVerified {
		return nil, nil, fmt.Errorf("google email not verified: %w", domain.ErrUnauthorized)
	}

	ident := &domain.VerifiedIdentity{
		Email:     payload.Email,
		FirstName: payload.FirstName,
		LastName:  payload.LastName,
		Source:    domain.IdentitySourceOAuth,
	}

	u, err := s.userRepo.GetByEmail(ctx, payload.Email)
	switch purpose {
	case PurposeSignup:
		if err == nil {
			return nil, nil, fmt.Errorf("email already registered: %w", domain.ErrConflict)
		}
		if !errors.Is(err, domain.ErrNotFound) {
			return nil, nil, err
		}
		return ident, nil, nil
	case PurposeLogin:
		if errors.Is(err, domain.ErrNotFound) {
			return nil, nil, fmt.Errorf("email not registered, please signup first: %w", domain.ErrNotFound)
		}
		if err != nil {
			return nil, nil, err
		}
		return ident, u, nil
	default:
		return nil, nil, fmt.Errorf("unknown purpose %q: %w", purpose, domain.ErrBadRequest)
	}
}

func (s *service) Register(ctx context.Context, ident *domain.VerifiedIdentity, req *domain.SignupRequest) (*domain.User, error) {
	if ident == nil || ident.Email == "" {
		return nil, fmt.Errorf("please verify your email first: %w", domain.ErrUnauthorized)
	}
	if !domain.ValidRole(req.Role) {
		return nil, fmt.Errorf("invalid role %q: %w", req.Role, domain.ErrBadRequest)
	}

	// Re-check uniqueness: verification and registration are separate calls,
	// so another registration may have landed in between.
	if _, err := s.userRepo.GetByEmail(ctx, ident.Email); err == nil {
		return nil, fmt.Errorf("email already registered: %w", domain.ErrConflict)
	} else if !errors.Is(err, domain.ErrNotFound) {
		return nil, err
	}

	if err := checkRoleFields(req); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	u := &domain.User{
		UserID:        id.New(),
		Role:          req.Role,
		FirstName:     req.FirstName,
		LastName:      req.LastName,
		Mobile:        req.Mobile,
		Email:         ident.Email,
		EmailVerified: true,

		Aadhaar:      req.Aadhaar,
		FarmLocation: req.FarmLocation,
		GeoTag:       req.GeoTag,
		FarmSize:     req.FarmSize,
		CropsGrown:   req.CropsGrown,

		BusinessName:         req.BusinessName,
		GSTIN:                req.GSTIN,
		WarehouseAddress:     req.WarehouseAddress,
		PreferredCommodities: req.PreferredCommodities,

		ShopName:              req.ShopName,
		ShopAddress:           req.ShopAddress,
		ShopType:              req.ShopType,
		MonthlyPurchaseVolume: req.MonthlyPurchaseVolume,

		CreatedAt: now,
		UpdatedAt: now,
	}
	if ident.Source == domain.IdentitySourceOAuth {
		u.GoogleAuth = true
		if ident.FirstName != "" {
			u.FirstName = ident.FirstName
		}
		if ident.LastName != "" {
			u.LastName = ident.LastName
		}
	}

	if err := s.userRepo.Put(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}

// checkRoleFields applies the role-specific field contracts in their fixed
// order. The dealer/retailer mobile-length asymmetry (12 vs 10) mirrors the
// deployed behavior and is deliberate.
func checkRoleFields(req *domain.SignupRequest) error {
	switch req.Role {
	case domain.RoleFarmer:
		if len(req.Aadhaar) != 12 || !validate.Digits(req.Aadhaar) {
			return fmt.Errorf("farmer aadhaar must be 12 digits: %w", domain.ErrBadRequest)
		}
	case domain.RoleDealer:
		if req.GSTIN == "" {
			return fmt.Errorf("dealer GSTIN is required: %w", domain.ErrBadRequest)
		}
		if len(req.Mobile) != 12 {
			return fmt.Errorf("dealer mobile must be 12 digits: %w", domain.ErrBadRequest)
		}
	case domain.RoleRetailer:
		if req.ShopName == "" {
			return fmt.Errorf("retailer shop name required: %w", domain.ErrBadRequest)
		}
		if len(req.Mobile) != 10 {
			return fmt.Errorf("retailer mobile must be 10 digits: %w", domain.ErrBadRequest)
		}
	}
	return nil
}
