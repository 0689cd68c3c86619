package handler

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/agrochain-api/internal/application/order"
	"github.com/agrochain-api/internal/domain"
	"github.com/agrochain-api/internal/pkg/validate"
)

// OrderHandler handles dealer orders and the farmer's accept/reject decision.
type OrderHandler struct {
	svc order.Service
}

func NewOrderHandler(svc order.Service) *OrderHandler {
	return &OrderHandler{svc: svc}
}

func (h *OrderHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req domain.CreateOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := validate.Struct(req); err != nil {
		writeError(w, http.StatusBadRequest, "dealerId, productId and quantity are required")
		return
	}
	o, err := h.svc.Create(r.Context(), req)
	if err != nil {
		writeResourceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, OrderEnvelope{Msg: "Order placed successfully", Order: o})
}

func (h *OrderHandler) ListByFarmer(w http.ResponseWriter, r *http.Request) {
	farmerID := chi.URLParam(r, "farmerId")
	orders, err := h.svc.ListByFarmer(r.Context(), farmerID)
	if err != nil {
		writeResourceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, orders)
}

func (h *OrderHandler) ListByDealer(w http.ResponseWriter, r *http.Request) {
	dealerID := chi.URLParam(r, "dealerId")
	orders, err := h.svc.ListByDealer(r.Context(), dealerID)
	if err != nil {
		writeResourceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, orders)
}

func (h *OrderHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	orderID := chi.URLParam(r, "orderId")
	var req domain.UpdateOrderStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := validate.Struct(req); err != nil {
		writeError(w, http.StatusBadRequest, "status must be accepted or rejected")
		return
	}
	o, err := h.svc.UpdateStatus(r.Context(), orderID, req)
	if err != nil {
		writeResourceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, OrderEnvelope{Msg: "Order " + o.Status, Order: o})
}
