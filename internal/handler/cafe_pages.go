// Package handler exposes HTTP handlers for the server-rendered pages and
// the JSON API.  This file implements the HTML pages: landing page, café
// listing, add form and the report-closed action.
package handler

import (
    "fmt"
    "net/http"

    "github.com/labstack/echo/v4"

    "github.com/iliyamo/cafe-finder/internal/model"
    "github.com/iliyamo/cafe-finder/internal/service"
    "github.com/iliyamo/cafe-finder/internal/validation"
)

// duplicateNameMessage is shown on the add form when the name is taken.
const duplicateNameMessage = "Cafe with this name already exists"

type listPage struct {
    CSRF  string
    Cafes []*model.Cafe
}

type addPage struct {
    CSRF   string
    Form   validation.Submission
    Errors validation.Errors
    Error  string
}

type errorPage struct {
    Status  string
    Message string
}

// Home handles GET / and renders the landing page.
func (h *CafeHandler) Home(c echo.Context) error {
    return c.Render(http.StatusOK, "index.html", nil)
}

// ListPage handles GET /cafes and renders every café.
func (h *CafeHandler) ListPage(c echo.Context) error {
    items, err := h.Cafes.Listing(c.Request().Context())
    if err != nil {
        return err
    }
    return c.Render(http.StatusOK, "cafes.html", listPage{CSRF: csrfToken(c), Cafes: items})
}

// AddForm handles GET /add and renders an empty form.
func (h *CafeHandler) AddForm(c echo.Context) error {
    return c.Render(http.StatusOK, "add.html", addPage{CSRF: csrfToken(c)})
}

// AddSubmit handles POST /add.  A created café redirects to the listing;
// rejected submissions re-render the form with the entered values.
func (h *CafeHandler) AddSubmit(c echo.Context) error {
    form, err := c.FormParams()
    if err != nil {
        return renderError(c, http.StatusBadRequest, "The form could not be read.")
    }
    sub := validation.FromForm(form)
    res, err := h.Cafes.Submit(c.Request().Context(), sub)
    if err != nil {
        return err
    }
    switch res.Outcome {
    case service.ValidationFailed:
        return c.Render(http.StatusUnprocessableEntity, "add.html", addPage{CSRF: csrfToken(c), Form: sub, Errors: res.Errors})
    case service.DuplicateName:
        return c.Render(http.StatusConflict, "add.html", addPage{CSRF: csrfToken(c), Form: sub, Error: duplicateNameMessage})
    }
    return c.Redirect(http.StatusSeeOther, "/cafes")
}

// ReportClose handles POST /report_close/:id and removes the café.
func (h *CafeHandler) ReportClose(c echo.Context) error {
    id, ok := parseID(c)
    if !ok {
        return renderError(c, http.StatusBadRequest, "Invalid cafe id.")
    }
    out, err := h.Cafes.Remove(c.Request().Context(), id)
    if err != nil {
        return err
    }
    if out == service.NotFound {
        return renderError(c, http.StatusNotFound, "That cafe does not exist.")
    }
    return c.Redirect(http.StatusSeeOther, "/cafes")
}

func renderError(c echo.Context, status int, msg string) error {
    return c.Render(status, "error.html", errorPage{Status: http.StatusText(status), Message: msg})
}

// RateLimitedPage answers a throttled form post with the error page.
func RateLimitedPage(c echo.Context, retryAfter int) error {
    msg := fmt.Sprintf("Too many requests. Please try again in %d seconds.", retryAfter)
    return renderError(c, http.StatusTooManyRequests, msg)
}
