// Package httpserver is the single HTTP surface of the monolith. It routes
// into each domain module's handler and never reaches past a module's
// adapters.
package httpserver

import (
	"encoding/json"
	"log/slog"
	"net/http"

	buyers "caravel/domains/buyers"
	cart "caravel/domains/cart"
	products "caravel/domains/products"
	sellers "caravel/domains/sellers"
	_ "caravel/internal/platform/httpserver/docs"

	httpSwagger "github.com/swaggo/http-swagger"
)

type Server struct {
	mux      *http.ServeMux
	logger   *slog.Logger
	addr     string
	products products.Module
	cart     cart.Module
	buyers   buyers.Module
	sellers  sellers.Module
}

func New(
	productsModule products.Module,
	cartModule cart.Module,
	buyersModule buyers.Module,
	sellersModule sellers.Module,
	logger *slog.Logger,
	addr string,
) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	if addr == "" {
		addr = ":8080"
	}

	s := &Server{
		mux:      http.NewServeMux(),
		logger:   logger,
		addr:     addr,
		products: productsModule,
		cart:     cartModule,
		buyers:   buyersModule,
		sellers:  sellersModule,
	}
	s.registerRoutes()
	return s
}

func (s *Server) Start() error {
	s.logger.Info("http server starting",
		"event", "http_server_starting",
		"module", "internal/platform/httpserver",
		"layer", "platform",
		"addr", s.addr,
	)
	return http.ListenAndServe(s.addr, s.mux)
}

// Handler exposes the mux for tests.
func (s *Server) Handler() http.Handler {
	return s.mux
}

func (s *Server) registerRoutes() {
	s.mux.Handle("/swagger/", httpSwagger.Handler(
		httpSwagger.URL("/swagger/doc.json"),
	))

	s.registerProductRoutes()
	s.registerCartRoutes()
	s.registerBuyerRoutes()
	s.registerSellerRoutes()
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func buyerIDFrom(r *http.Request) string {
	return r.Header.Get("X-Buyer-Id")
}
