package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/seller-portal-api/internal/application/catalog"
	"github.com/seller-portal-api/internal/domain"
)

// ProductHandler handles the name-addressed catalog endpoints.
type ProductHandler struct {
	svc catalog.Service
}

func NewProductHandler(svc catalog.Service) *ProductHandler {
	return &ProductHandler{svc: svc}
}

type productPayload struct {
	UserID  string         `json:"userId"`
	Product *domain.Product `json:"product"`
}

// Add handles POST /product.
func (h *ProductHandler) Add(w http.ResponseWriter, r *http.Request) {
	var body struct {
		UserID  string               `json:"userId"`
		Product *domain.ProductInput `json:"product"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if body.UserID == "" || body.Product == nil {
		writeError(w, http.StatusBadRequest, "User ID and product details are required")
		return
	}
	added, err := h.svc.Add(r.Context(), body.UserID, *body.Product)
	if err != nil {
		httpError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, ProductEnvelope{
		Message: "Product added successfully",
		Payload: struct {
			UserID       string          `json:"userId"`
			AddedProduct *domain.Product `json:"addedProduct"`
		}{body.UserID, added},
	})
}

// List handles GET /products?userId=.
func (h *ProductHandler) List(w http.ResponseWriter, r *http.Request) {
	userID := r.URL.Query().Get("userId")
	if userID == "" {
		writeError(w, http.StatusBadRequest, "userId is required")
		return
	}
	products, err := h.svc.List(r.Context(), userID)
	if err != nil {
		httpError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, ProductEnvelope{Message: "Products fetched", Payload: products})
}

// Edit handles PUT /edit: partial update of the name-matched product.
func (h *ProductHandler) Edit(w http.ResponseWriter, r *http.Request) {
	var body struct {
		UserID         string                      `json:"userId"`
		Name           string                      `json:"pName"`
		UpdatedProduct domain.UpdateProductRequest `json:"updatedProduct"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if body.UserID == "" || body.Name == "" {
		writeError(w, http.StatusBadRequest, "User ID and product name are required")
		return
	}
	updated, err := h.svc.Edit(r.Context(), body.UserID, body.Name, body.UpdatedProduct)
	if err != nil {
		httpError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, ProductEnvelope{
		Message: "Product updated successfully",
		Payload: struct {
			UserID         string          `json:"userId"`
			UpdatedProduct *domain.Product `json:"updatedProduct"`
		}{body.UserID, updated},
	})
}

// Delete handles DELETE /delete. Image release is best-effort; a failure
// surfaces as a warning on an otherwise-successful response.
func (h *ProductHandler) Delete(w http.ResponseWriter, r *http.Request) {
	var body struct {
		UserID string `json:"userId"`
		Name   string `json:"pName"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if body.UserID == "" || body.Name == "" {
		writeError(w, http.StatusBadRequest, "User ID and product name are required")
		return
	}
	res, err := h.svc.Delete(r.Context(), body.UserID, body.Name)
	if err != nil {
		httpError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, ProductEnvelope{
		Message: "Product deleted successfully",
		Payload: struct {
			UserID                 string `json:"userId"`
			RemainingProductsCount int    `json:"remainingProductsCount"`
		}{body.UserID, res.RemainingCount},
		Warning: res.Warning,
	})
}

// AdjustQuantity handles PATCH /updateQuantity. op=true increments, op=false
// decrements with a floor at zero; the floor case returns the unchanged
// entry so clients can tell "already at zero" from "product vanished".
func (h *ProductHandler) AdjustQuantity(w http.ResponseWriter, r *http.Request) {
	var body struct {
		UserID string `json:"userId"`
		Name   string `json:"pName"`
		Op     bool   `json:"op"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if body.UserID == "" || body.Name == "" {
		writeError(w, http.StatusBadRequest, "User ID and product name are required")
		return
	}
	p, err := h.svc.AdjustQuantity(r.Context(), body.UserID, body.Name, body.Op)
	if err != nil {
		var floor *domain.QuantityFloorError
		if errors.As(err, &floor) {
			writeJSON(w, http.StatusBadRequest, ProductEnvelope{
				Message: floor.Error(),
				Payload: productPayload{body.UserID, floor.Product},
			})
			return
		}
		httpError(w, err)
		return
	}
	msg := "Quantity decreased"
	if body.Op {
		msg = "Quantity increased"
	}
	writeJSON(w, http.StatusOK, ProductEnvelope{
		Message: msg,
		Payload: productPayload{body.UserID, p},
	})
}
