package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/agrochain-api/internal/domain"
)

// MessageEnvelope is the generic response wrapper.
type MessageEnvelope struct {
	Msg string `json:"msg"`
}

// LoginEnvelope wraps successful login responses.
type LoginEnvelope struct {
	Msg   string              `json:"msg"`
	Role  string              `json:"role"`
	Token string              `json:"token,omitempty"`
	User  *domain.UserSummary `json:"user,omitempty"`
}

// SignupEnvelope wraps successful registration responses.
type SignupEnvelope struct {
	Msg  string              `json:"msg"`
	User *domain.UserSummary `json:"user,omitempty"`
}

// GoogleVerifyEnvelope wraps Google pre-signup verification responses.
type GoogleVerifyEnvelope struct {
	Msg       string `json:"msg"`
	Email     string `json:"email"`
	FirstName string `json:"firstName,omitempty"`
	LastName  string `json:"lastName,omitempty"`
}

// ProductEnvelope wraps single-product responses.
type ProductEnvelope struct {
	Msg     string          `json:"msg,omitempty"`
	Product *domain.Product `json:"product"`
}

// OrderEnvelope wraps single-order responses.
type OrderEnvelope struct {
	Msg   string        `json:"msg,omitempty"`
	Order *domain.Order `json:"order"`
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, MessageEnvelope{Msg: msg})
}

// writeDomainError maps sentinel errors onto HTTP statuses. Delivery failures
// are the caller's only 5xx; everything else in the auth surface is a 400 to
// match what the dashboard frontend expects.
func writeDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrDelivery):
		writeError(w, http.StatusInternalServerError, err.Error())
	case errors.Is(err, domain.ErrNotFound),
		errors.Is(err, domain.ErrConflict),
		errors.Is(err, domain.ErrUnauthorized),
		errors.Is(err, domain.ErrForbidden),
		errors.Is(err, domain.ErrExpired),
		errors.Is(err, domain.ErrBadRequest):
		writeError(w, http.StatusBadRequest, err.Error())
	default:
		writeError(w, http.StatusInternalServerError, "internal server error")
	}
}

// writeResourceError is writeDomainError for resource endpoints, where a
// missing record is a 404 and a forbidden action a 403.
func writeResourceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, domain.ErrForbidden):
		writeError(w, http.StatusForbidden, err.Error())
	case errors.Is(err, domain.ErrConflict):
		writeError(w, http.StatusConflict, err.Error())
	case errors.Is(err, domain.ErrBadRequest):
		writeError(w, http.StatusBadRequest, err.Error())
	default:
		writeError(w, http.StatusInternalServerError, "internal server error")
	}
}
