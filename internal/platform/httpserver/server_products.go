package httpserver

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	productserrors "caravel/domains/products/domain/errors"
	productshttp "caravel/domains/products/transport/http"
)

func (s *Server) registerProductRoutes() {
	s.mux.HandleFunc("POST /api/catalog/v1/products", s.handleCreateProduct)
	s.mux.HandleFunc("GET /api/catalog/v1/products", s.handleListProducts)
	s.mux.HandleFunc("GET /api/catalog/v1/products/{product_id}", s.handleGetProduct)
	s.mux.HandleFunc("POST /api/catalog/v1/products/{product_id}/price", s.handleChangePrice)

	// Snapshot endpoint backing the remote CatalogPort adapter.
	s.mux.HandleFunc("GET /internal/catalog/v1/products/{product_id}/snapshot", s.handleProductSnapshot)
}

func (s *Server) handleCreateProduct(w http.ResponseWriter, r *http.Request) {
	var req productshttp.CreateProductRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeProductError(w, http.StatusBadRequest, "invalid_body", "request body must be valid JSON")
		return
	}
	resp, err := s.products.Handler.CreateProductHandler(r.Context(), req)
	if err != nil {
		writeProductDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, resp)
}

func (s *Server) handleListProducts(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	req := productshttp.ListProductsRequest{
		SellerID: query.Get("seller_id"),
		Status:   query.Get("status"),
		Cursor:   query.Get("cursor"),
	}
	if limitRaw := query.Get("limit"); limitRaw != "" {
		limit, err := strconv.Atoi(limitRaw)
		if err != nil {
			writeProductError(w, http.StatusBadRequest, "invalid_limit", "limit must be an integer")
			return
		}
		req.Limit = limit
	}

	resp, err := s.products.Handler.ListProductsHandler(r.Context(), req)
	if err != nil {
		writeProductDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleGetProduct(w http.ResponseWriter, r *http.Request) {
	resp, err := s.products.Handler.GetProductHandler(r.Context(), r.PathValue("product_id"))
	if err != nil {
		writeProductDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleChangePrice(w http.ResponseWriter, r *http.Request) {
	var req productshttp.ChangePriceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeProductError(w, http.StatusBadRequest, "invalid_body", "request body must be valid JSON")
		return
	}
	resp, err := s.products.Handler.ChangePriceHandler(r.Context(), r.PathValue("product_id"), req)
	if err != nil {
		writeProductDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleProductSnapshot(w http.ResponseWriter, r *http.Request) {
	snapshot, err := s.products.Catalog.GetProductSnapshot(r.Context(), r.PathValue("product_id"))
	if err != nil {
		writeProductDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, snapshot)
}

func writeProductDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, productserrors.ErrProductNotFound):
		writeProductError(w, http.StatusNotFound, "product_not_found", err.Error())
	case errors.Is(err, productserrors.ErrDuplicateProductID):
		writeProductError(w, http.StatusConflict, "duplicate_product", err.Error())
	case errors.Is(err, productserrors.ErrProductNotActive):
		writeProductError(w, http.StatusConflict, "product_not_active", err.Error())
	case errors.Is(err, productserrors.ErrInvalidListFilter):
		writeProductError(w, http.StatusBadRequest, "invalid_list_filter", err.Error())
	case errors.Is(err, productserrors.ErrInvalidProduct),
		errors.Is(err, productserrors.ErrProductNameRequired),
		errors.Is(err, productserrors.ErrInvalidPrice),
		errors.Is(err, productserrors.ErrInvalidCurrency):
		writeProductError(w, http.StatusUnprocessableEntity, "invalid_product", err.Error())
	default:
		writeProductError(w, http.StatusInternalServerError, "internal_error", "internal server error")
	}
}

func writeProductError(w http.ResponseWriter, status int, code string, message string) {
	writeJSON(w, status, productshttp.ErrorResponse{
		Code:    code,
		Message: message,
	})
}
