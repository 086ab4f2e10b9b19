// Package handler implements the HTTP handlers for the Benefits API.
// All handlers are methods on Server. Routes are declared in one table
// (routes) and registered on a chi router by Register.
package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/pkordes/benefits-api/internal/domain"
)

// BenefitServicer defines the business operations the benefit handlers depend on.
// Defining the interface here (in the consumer package) lets handler tests
// inject a mock without touching the database or service layer.
type BenefitServicer interface {
	Create(ctx context.Context, name string, description *string, isActive *bool) (domain.Benefit, error)
	FindOne(ctx context.Context, id int64) (domain.Benefit, error)
	FindAll(ctx context.Context, page, limit *int) (domain.BenefitPage, error)
	Update(ctx context.Context, id int64, patch domain.BenefitPatch) (domain.Benefit, error)
	Activate(ctx context.Context, id int64) (domain.Benefit, error)
	Deactivate(ctx context.Context, id int64) (domain.Benefit, error)
	Remove(ctx context.Context, id int64) error
}

// Server holds the dependencies shared by every handler.
type Server struct {
	benefits BenefitServicer
	log      *slog.Logger
}

// NewServer constructs the Server with all its dependencies.
// A nil logger falls back to slog.Default().
func NewServer(benefits BenefitServicer, log *slog.Logger) *Server {
	if log == nil {
		log = slog.Default()
	}
	return &Server{benefits: benefits, log: log}
}

// route binds one (method, pattern) pair to a handler.
type route struct {
	method  string
	pattern string
	handler http.HandlerFunc
}

// routes is the full HTTP surface served by Server.
func (s *Server) routes() []route {
	return []route{
		{http.MethodGet, "/healthz", s.GetHealth},

		{http.MethodGet, "/benefits", s.ListBenefits},
		{http.MethodPost, "/benefits", s.CreateBenefit},
		{http.MethodGet, "/benefits/{id}", s.GetBenefit},
		{http.MethodPut, "/benefits/{id}", s.UpdateBenefit},
		{http.MethodPut, "/benefits/{id}/activate", s.ActivateBenefit},
		{http.MethodPut, "/benefits/{id}/deactivate", s.DeactivateBenefit},
		{http.MethodDelete, "/benefits/{id}", s.DeleteBenefit},

		{http.MethodGet, "/api", s.GetDocs},
		{http.MethodGet, "/api/openapi.yaml", s.GetOpenAPI},
	}
}

// Register adds every route to r. Middleware should already be installed on r.
func (s *Server) Register(r chi.Router) {
	for _, rt := range s.routes() {
		r.Method(rt.method, rt.pattern, rt.handler)
	}
}
