package middleware

import (
    "net/http"

    "github.com/labstack/echo/v4"
    echomw "github.com/labstack/echo/v4/middleware"
)

// CSRF protects the HTML forms.  The token is read from the `_csrf` form
// field and stored in the context under contextKey for the templates.
// The JSON API is not cookie-authenticated and is registered without it.
func CSRF(contextKey string, secure bool) echo.MiddlewareFunc {
    return echomw.CSRFWithConfig(echomw.CSRFConfig{
        TokenLookup:    "form:_csrf,header:X-CSRF-Token",
        ContextKey:     contextKey,
        CookieName:     "_csrf",
        CookiePath:     "/",
        CookieHTTPOnly: true,
        CookieSecure:   secure,
        CookieSameSite: http.SameSiteLaxMode,
    })
}
