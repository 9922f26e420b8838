package middleware

import (
	"net/http"

	"marma_admin/internal/common/validate"

	"github.com/go-chi/chi/v5"
)

// Pipeline builds the per-route middleware chains.
type Pipeline struct {
	auth *Authenticator
}

func NewPipeline(auth *Authenticator) *Pipeline {
	return &Pipeline{auth: auth}
}

// Public sanitizes and validates.
func (p *Pipeline) Public(rules validate.Rules) chi.Middlewares {
	return chi.Middlewares{LimitBody, Sanitize, Validate(rules)}
}

// Guarded sanitizes, validates, authenticates and then applies gate.
func (p *Pipeline) Guarded(rules validate.Rules, gate func(http.Handler) http.Handler) chi.Middlewares {
	return append(p.Public(rules), p.auth.Authenticate, gate)
}
