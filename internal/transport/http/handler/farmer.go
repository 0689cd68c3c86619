package handler

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/agrochain-api/internal/application/farmer"
	"github.com/agrochain-api/internal/domain"
	"github.com/agrochain-api/internal/pkg/validate"
)

// FarmerHandler handles the farmer dashboard endpoints.
type FarmerHandler struct {
	svc farmer.Service
}

func NewFarmerHandler(svc farmer.Service) *FarmerHandler {
	return &FarmerHandler{svc: svc}
}

func (h *FarmerHandler) Overview(w http.ResponseWriter, r *http.Request) {
	farmerID := chi.URLParam(r, "farmerId")
	ov, err := h.svc.Overview(r.Context(), farmerID)
	if err != nil {
		writeResourceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, ov)
}

func (h *FarmerHandler) AddProduct(w http.ResponseWriter, r *http.Request) {
	var req domain.CreateProductRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := validate.Struct(req); err != nil {
		writeError(w, http.StatusBadRequest, "farmerId, name, price, quantity and unit (kg|ton) are required")
		return
	}
	p, err := h.svc.AddProduct(r.Context(), req)
	if err != nil {
		writeResourceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, ProductEnvelope{Msg: "Product added successfully", Product: p})
}

func (h *FarmerHandler) ListProducts(w http.ResponseWriter, r *http.Request) {
	farmerID := chi.URLParam(r, "farmerId")
	products, err := h.svc.ListProducts(r.Context(), farmerID)
	if err != nil {
		writeResourceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, products)
}

func (h *FarmerHandler) UpdateProduct(w http.ResponseWriter, r *http.Request) {
	productID := chi.URLParam(r, "productId")
	var req domain.UpdateProductRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	p, err := h.svc.UpdateProduct(r.Context(), productID, req)
	if err != nil {
		writeResourceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, ProductEnvelope{Msg: "Product updated successfully", Product: p})
}

func (h *FarmerHandler) DeleteProduct(w http.ResponseWriter, r *http.Request) {
	productID := chi.URLParam(r, "productId")
	if err := h.svc.DeleteProduct(r.Context(), productID); err != nil {
		writeResourceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, MessageEnvelope{Msg: "Product deleted successfully"})
}

func (h *FarmerHandler) GetProfile(w http.ResponseWriter, r *http.Request) {
	farmerID := chi.URLParam(r, "farmerId")
	p, err := h.svc.GetProfile(r.Context(), farmerID)
	if err != nil {
		writeResourceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (h *FarmerHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	farmerID := chi.URLParam(r, "farmerId")
	var req domain.UpdateProfileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := h.svc.UpdateProfile(r.Context(), farmerID, req); err != nil {
		writeResourceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, MessageEnvelope{Msg: "Profile updated successfully"})
}
