package httpserver

import (
	"encoding/json"
	"errors"
	"net/http"

	carterrors "caravel/domains/cart/domain/errors"
	carthttp "caravel/domains/cart/transport/http"
)

func (s *Server) registerCartRoutes() {
	s.mux.HandleFunc("GET /api/cart/v1/cart", s.handleGetCart)
	s.mux.HandleFunc("POST /api/cart/v1/cart/items", s.handleAddCartItem)
	s.mux.HandleFunc("DELETE /api/cart/v1/cart/items/{product_id}", s.handleRemoveCartItem)
}

func (s *Server) handleGetCart(w http.ResponseWriter, r *http.Request) {
	buyerID := buyerIDFrom(r)
	if buyerID == "" {
		writeCartError(w, http.StatusUnauthorized, "buyer_required", "X-Buyer-Id header is required")
		return
	}
	resp, err := s.cart.Handler.GetCartHandler(r.Context(), buyerID)
	if err != nil {
		writeCartDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleAddCartItem(w http.ResponseWriter, r *http.Request) {
	buyerID := buyerIDFrom(r)
	if buyerID == "" {
		writeCartError(w, http.StatusUnauthorized, "buyer_required", "X-Buyer-Id header is required")
		return
	}
	var req carthttp.AddItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeCartError(w, http.StatusBadRequest, "invalid_body", "request body must be valid JSON")
		return
	}
	resp, err := s.cart.Handler.AddItemHandler(r.Context(), buyerID, req)
	if err != nil {
		writeCartDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, resp)
}

func (s *Server) handleRemoveCartItem(w http.ResponseWriter, r *http.Request) {
	buyerID := buyerIDFrom(r)
	if buyerID == "" {
		writeCartError(w, http.StatusUnauthorized, "buyer_required", "X-Buyer-Id header is required")
		return
	}
	resp, err := s.cart.Handler.RemoveItemHandler(r.Context(), buyerID, r.PathValue("product_id"))
	if err != nil {
		writeCartDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func writeCartDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, carterrors.ErrCartNotFound):
		writeCartError(w, http.StatusNotFound, "cart_not_found", err.Error())
	case errors.Is(err, carterrors.ErrCartItemNotFound):
		writeCartError(w, http.StatusNotFound, "cart_item_not_found", err.Error())
	case errors.Is(err, carterrors.ErrProductUnavailable):
		writeCartError(w, http.StatusConflict, "product_unavailable", err.Error())
	case errors.Is(err, carterrors.ErrInvalidQuantity),
		errors.Is(err, carterrors.ErrInvalidCart):
		writeCartError(w, http.StatusUnprocessableEntity, "invalid_cart_request", err.Error())
	default:
		writeCartError(w, http.StatusInternalServerError, "internal_error", "internal server error")
	}
}

func writeCartError(w http.ResponseWriter, status int, code string, message string) {
	writeJSON(w, status, carthttp.ErrorResponse{
		Code:    code,
		Message: message,
	})
}
