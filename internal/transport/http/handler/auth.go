package handler

import (
	"encoding/json"
	"net/http"

	"github.com/agrochain-api/internal/application/auth"
	"github.com/agrochain-api/internal/domain"
	jwtinfra "github.com/agrochain-api/internal/infrastructure/jwt"
	"github.com/agrochain-api/internal/pkg/validate"
)

// AuthHandler handles the signup and login endpoints. When a JWT provider is
// configured, login responses additionally carry a signed token.
type AuthHandler struct {
	svc auth.Service
	jwt *jwtinfra.Provider
}

func NewAuthHandler(svc auth.Service, jwt *jwtinfra.Provider) *AuthHandler {
	return &AuthHandler{svc: svc, jwt: jwt}
}

type emailRequest struct {
	Email string `json:"email" validate:"required,email"`
}

type verifyOTPRequest struct {
	Email string `json:"email" validate:"required,email"`
	OTP   string `json:"otp" validate:"required"`
}

type googleTokenRequest struct {
	Token string `json:"token" validate:"required"`
}

func (h *AuthHandler) SendOTP(w http.ResponseWriter, r *http.Request) {
	var req emailRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || validate.Struct(req) != nil {
		writeError(w, http.StatusBadRequest, "valid email is required")
		return
	}
	if err := h.svc.RequestCode(r.Context(), req.Email, auth.PurposeSignup); err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, MessageEnvelope{Msg: "OTP sent to email"})
}

func (h *AuthHandler) SendLoginOTP(w http.ResponseWriter, r *http.Request) {
	var req emailRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || validate.Struct(req) != nil {
		writeError(w, http.StatusBadRequest, "valid email is required")
		return
	}
	if err := h.svc.RequestCode(r.Context(), req.Email, auth.PurposeLogin); err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, MessageEnvelope{Msg: "Login OTP sent to email"})
}

func (h *AuthHandler) VerifyOTP(w http.ResponseWriter, r *http.Request) {
	var req verifyOTPRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || validate.Struct(req) != nil {
		writeError(w, http.StatusBadRequest, "email and otp are required")
		return
	}
	if _, _, err := h.svc.VerifyCode(r.Context(), req.Email, req.OTP, auth.PurposeSignup); err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, MessageEnvelope{Msg: "Email verified successfully"})
}

func (h *AuthHandler) VerifyLoginOTP(w http.ResponseWriter, r *http.Request) {
	var req verifyOTPRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || validate.Struct(req) != nil {
		writeError(w, http.StatusBadRequest, "email and otp are required")
		return
	}
	_, user, err := h.svc.VerifyCode(r.Context(), req.Email, req.OTP, auth.PurposeLogin)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	h.writeLogin(w, "Login successful", user)
}

func (h *AuthHandler) VerifyGoogle(w http.ResponseWriter, r *http.Request) {
	var req googleTokenRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || validate.Struct(req) != nil {
		writeError(w, http.StatusBadRequest, "token is required")
		return
	}
	ident, _, err := h.svc.VerifyGoogleToken(r.Context(), req.Token, auth.PurposeSignup)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, GoogleVerifyEnvelope{
		Msg:       "Google verification successful",
		Email:     ident.Email,
		FirstName: ident.FirstName,
		LastName:  ident.LastName,
	})
}

func (h *AuthHandler) LoginGoogle(w http.ResponseWriter, r *http.Request) {
	var req googleTokenRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || validate.Struct(req) != nil {
		writeError(w, http.StatusBadRequest, "token is required")
		return
	}
	_, user, err := h.svc.VerifyGoogleToken(r.Context(), req.Token, auth.PurposeLogin)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	h.writeLogin(w, "Google login successful", user)
}

func (h *AuthHandler) Signup(w http.ResponseWriter, r *http.Request) {
	var req domain.SignupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := validate.Struct(req); err != nil {
		writeError(w, http.StatusBadRequest, "role, firstName, mobile and email are required")
		return
	}

	// A nil identity makes the gate reject with its own message, so an
	// unverified email is reported the same way on every path.
	var ident *domain.VerifiedIdentity
	if req.EmailVerified {
		ident = &domain.VerifiedIdentity{Email: req.Email, Source: domain.IdentitySourceOTP}
	}
	user, err := h.svc.Register(r.Context(), ident, &req)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	summary := user.Summary()
	writeJSON(w, http.StatusCreated, SignupEnvelope{Msg: "User registered successfully", User: &summary})
}

func (h *AuthHandler) SignupGoogle(w http.ResponseWriter, r *http.Request) {
	var req domain.GoogleSignupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.GoogleToken == "" {
		writeError(w, http.StatusBadRequest, "googleToken is required")
		return
	}

	ident, _, err := h.svc.VerifyGoogleToken(r.Context(), req.GoogleToken, auth.PurposeSignup)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	req.Email = ident.Email
	if req.FirstName == "" {
		req.FirstName = ident.FirstName
	}
	if err := validate.Struct(req.SignupRequest); err != nil {
		writeError(w, http.StatusBadRequest, "role, firstName and mobile are required")
		return
	}
	user, err := h.svc.Register(r.Context(), ident, &req.SignupRequest)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	summary := user.Summary()
	writeJSON(w, http.StatusCreated, SignupEnvelope{Msg: "User registered successfully with Google", User: &summary})
}

func (h *AuthHandler) writeLogin(w http.ResponseWriter, msg string, user *domain.User) {
	summary := user.Summary()
	resp := LoginEnvelope{Msg: msg, Role: user.Role, User: &summary}
	if h.jwt != nil {
		if token, err := h.jwt.Sign(user.UserID, user.Email, user.Role); err == nil {
			resp.Token = token
		}
	}
	writeJSON(w, http.StatusOK, resp)
}
