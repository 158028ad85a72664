package httpserver

import (
	"encoding/json"
	"errors"
	"net/http"

	sellerserrors "caravel/domains/sellers/domain/errors"
	sellershttp "caravel/domains/sellers/transport/http"
)

func (s *Server) registerSellerRoutes() {
	s.mux.HandleFunc("POST /api/sellers/v1/sellers", s.handleRegisterSeller)
	s.mux.HandleFunc("POST /api/sellers/v1/sellers/{seller_id}/activate", s.handleActivateSeller)
	s.mux.HandleFunc("GET /api/sellers/v1/sellers/{seller_id}", s.handleGetSeller)
}

func (s *Server) handleRegisterSeller(w http.ResponseWriter, r *http.Request) {
	var req sellershttp.RegisterSellerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeSellerError(w, http.StatusBadRequest, "invalid_body", "request body must be valid JSON")
		return
	}
	resp, err := s.sellers.Handler.RegisterSellerHandler(r.Context(), req)
	if err != nil {
		writeSellerDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, resp)
}

func (s *Server) handleActivateSeller(w http.ResponseWriter, r *http.Request) {
	resp, err := s.sellers.Handler.ActivateSellerHandler(r.Context(), r.PathValue("seller_id"))
	if err != nil {
		writeSellerDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleGetSeller(w http.ResponseWriter, r *http.Request) {
	resp, err := s.sellers.Handler.GetSellerHandler(r.Context(), r.PathValue("seller_id"))
	if err != nil {
		writeSellerDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func writeSellerDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, sellerserrors.ErrSellerNotFound):
		writeSellerError(w, http.StatusNotFound, "seller_not_found", err.Error())
	case errors.Is(err, sellerserrors.ErrSellerAlreadyActive):
		writeSellerError(w, http.StatusConflict, "seller_already_active", err.Error())
	case errors.Is(err, sellerserrors.ErrInvalidSeller),
		errors.Is(err, sellerserrors.ErrStoreNameRequired):
		writeSellerError(w, http.StatusUnprocessableEntity, "invalid_seller", err.Error())
	default:
		writeSellerError(w, http.StatusInternalServerError, "internal_error", "internal server error")
	}
}

func writeSellerError(w http.ResponseWriter, status int, code string, message string) {
	writeJSON(w, status, sellershttp.ErrorResponse{
		Code:    code,
		Message: message,
	})
}
