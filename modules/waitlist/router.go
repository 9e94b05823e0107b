package waitlist

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/dmitrymomot/waitlist/pkg/clientip"
	"github.com/dmitrymomot/waitlist/pkg/requestid"
)

type Mountable interface {
	Handle() http.Handler
}

// RouterOptions configures what the relay serves. Nil entries are not mounted.
type RouterOptions struct {
	Waitlist Mountable
	Health   http.Handler
	Metrics  http.Handler
	// TrustedIPHeaders overrides clientip.DefaultHeaders.
	TrustedIPHeaders []string
}

// Router assembles the relay:
//
//	POST /waitlist/{userType}
//	GET  /healthz
//	GET  /metrics
func Router(opts RouterOptions) chi.Router {
	r := chi.NewRouter()
	r.Use(requestid.Middleware, clientip.Middleware(opts.TrustedIPHeaders...), middleware.Recoverer)

	if opts.Waitlist != nil {
		r.Mount("/waitlist", opts.Waitlist.Handle())
	}
	if opts.Health != nil {
		r.Method(http.MethodGet, "/healthz", opts.Health)
	}
	if opts.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", opts.Metrics)
	}

	return r
}
