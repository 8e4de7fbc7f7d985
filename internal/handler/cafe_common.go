package handler // handler defines http handlers

import (
    "strconv" // strconv converts path parameters to numeric ids

    "github.com/labstack/echo/v4" // echo defines request context types

    "github.com/iliyamo/cafe-finder/internal/service" // service implements the café use cases
)

// CafeHandler serves the café pages and the JSON API on top of the
// record service.
type CafeHandler struct {
    Cafes *service.CafeService // Cafes lists, submits and removes cafés
}

// NewCafeHandler constructs a new CafeHandler and panics if the service is nil
func NewCafeHandler(cafes *service.CafeService) *CafeHandler {
    if cafes == nil {
        panic("nil service passed to NewCafeHandler")
    }
    return &CafeHandler{Cafes: cafes}
}

// parseID reads the :id path parameter; ids start at 1.
func parseID(c echo.Context) (uint64, bool) {
    id, err := strconv.ParseUint(c.Param("id"), 10, 64)
    if err != nil || id == 0 {
        return 0, false
    }
    return id, true
}

// csrfToken returns the token stored by echo's CSRF middleware, if any.
func csrfToken(c echo.Context) string {
    if v, ok := c.Get(CSRFContextKey).(string); ok {
        return v
    }
    return ""
}

// CSRFContextKey is the context key the CSRF middleware stores tokens under.
const CSRFContextKey = "csrf"
