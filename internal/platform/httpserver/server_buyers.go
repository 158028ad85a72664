package httpserver

import (
	"encoding/json"
	"errors"
	"net/http"

	buyerserrors "caravel/domains/buyers/domain/errors"
	buyershttp "caravel/domains/buyers/transport/http"
)

func (s *Server) registerBuyerRoutes() {
	s.mux.HandleFunc("POST /api/buyers/v1/buyers", s.handleRegisterBuyer)
	s.mux.HandleFunc("GET /api/buyers/v1/buyers/{buyer_id}", s.handleGetBuyer)
}

func (s *Server) handleRegisterBuyer(w http.ResponseWriter, r *http.Request) {
	var req buyershttp.RegisterBuyerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBuyerError(w, http.StatusBadRequest, "invalid_body", "request body must be valid JSON")
		return
	}
	resp, err := s.buyers.Handler.RegisterBuyerHandler(r.Context(), req)
	if err != nil {
		writeBuyerDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, resp)
}

func (s *Server) handleGetBuyer(w http.ResponseWriter, r *http.Request) {
	resp, err := s.buyers.Handler.GetBuyerHandler(r.Context(), r.PathValue("buyer_id"))
	if err != nil {
		writeBuyerDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func writeBuyerDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, buyerserrors.ErrBuyerNotFound):
		writeBuyerError(w, http.StatusNotFound, "buyer_not_found", err.Error())
	case errors.Is(err, buyerserrors.ErrEmailTaken):
		writeBuyerError(w, http.StatusConflict, "email_taken", err.Error())
	case errors.Is(err, buyerserrors.ErrInvalidBuyer),
		errors.Is(err, buyerserrors.ErrInvalidEmail),
		errors.Is(err, buyerserrors.ErrDisplayNameRequired):
		writeBuyerError(w, http.StatusUnprocessableEntity, "invalid_buyer", err.Error())
	default:
		writeBuyerError(w, http.StatusInternalServerError, "internal_error", "internal server error")
	}
}

func writeBuyerError(w http.ResponseWriter, status int, code string, message string) {
	writeJSON(w, status, buyershttp.ErrorResponse{
		Code:    code,
		Message: message,
	})
}
