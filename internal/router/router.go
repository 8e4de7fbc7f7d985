package router // package router defines how HTTP routes are registered

import (
	"github.com/labstack/echo/v4" // import the Echo web framework to handle routing

	"github.com/iliyamo/cafe-finder/internal/handler" // import the handlers that serve pages and the API
)

// Middlewares groups the optional middleware applied per route class.
// Nil entries are skipped.
type Middlewares struct {
	CSRF          echo.MiddlewareFunc // HTML pages
	Cache         echo.MiddlewareFunc // cacheable API reads
	RateLimit     echo.MiddlewareFunc // API writes
	PageRateLimit echo.MiddlewareFunc // form posts; answers with the error page
	Invalidate    echo.MiddlewareFunc // every write; purges cached reads
}

func (m Middlewares) reads(extra ...echo.MiddlewareFunc) []echo.MiddlewareFunc {
	return compact(extra...)
}

// writes chains limit before the purge so rejected requests never reach it.
func (m Middlewares) writes(limit echo.MiddlewareFunc, extra ...echo.MiddlewareFunc) []echo.MiddlewareFunc {
	return compact(append(extra, limit, m.Invalidate)...)
}

func compact(mws ...echo.MiddlewareFunc) []echo.MiddlewareFunc {
	out := make([]echo.MiddlewareFunc, 0, len(mws))
	for _, mw := range mws {
		if mw != nil {
			out = append(out, mw)
		}
	}
	return out
}

// RegisterRoutes registers non-page routes that need no café handler.
// At the moment it only exposes a health check endpoint backed by a
// database ping.
func RegisterRoutes(e *echo.Echo, db handler.Pinger) {
	e.GET("/healthz", handler.Health(db))
}

// RegisterPages registers the server-rendered pages.  Forms are protected
// by the CSRF middleware, which also issues the token on GET.
func RegisterPages(e *echo.Echo, h *handler.CafeHandler, m Middlewares) {
	e.GET("/", h.Home)
	e.GET("/cafes", h.ListPage, m.reads(m.CSRF)...)
	e.GET("/add", h.AddForm, m.reads(m.CSRF)...)
	e.POST("/add", h.AddSubmit, m.writes(m.PageRateLimit, m.CSRF)...)
	// Report a café as closed; removes it from the listing.
	e.POST("/report_close/:id", h.ReportClose, m.writes(m.PageRateLimit, m.CSRF)...)
}

// RegisterAPI registers the JSON API under /v1.  Listing responses are
// cached; writes purge the cache when they succeed.
func RegisterAPI(e *echo.Echo, h *handler.CafeHandler, m Middlewares) {
	g := e.Group("/v1")
	g.GET("/cafes", h.ListCafes, m.reads(m.Cache)...)
	g.POST("/cafes", h.CreateCafe, m.writes(m.RateLimit)...)
	g.DELETE("/cafes/:id", h.DeleteCafe, m.writes(m.RateLimit)...)
}
