package handler

import (
    "net/http" // status code constants

    "github.com/labstack/echo/v4" // echo provides request/response handling

    "github.com/iliyamo/cafe-finder/internal/service"
    "github.com/iliyamo/cafe-finder/internal/validation"
)

// ListCafes handles GET /v1/cafes and returns every café.
func (h *CafeHandler) ListCafes(c echo.Context) error {
    items, err := h.Cafes.Listing(c.Request().Context())
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
    }
    return c.JSON(http.StatusOK, echo.Map{"items": items})
}

// CreateCafe handles POST /v1/cafes.  201 with the café on success, 422
// with field errors, 409 when the name is taken.
func (h *CafeHandler) CreateCafe(c echo.Context) error {
    var body validation.Submission
    if err := c.Bind(&body); err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
    }
    res, err := h.Cafes.Submit(c.Request().Context(), body)
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not create cafe"})
    }
    switch res.Outcome {
    case service.ValidationFailed:
        return c.JSON(http.StatusUnprocessableEntity, echo.Map{"error": "validation failed", "fields": res.Errors})
    case service.DuplicateName:
        return c.JSON(http.StatusConflict, echo.Map{"error": "cafe name already exists"})
    }
    return c.JSON(http.StatusCreated, res.Cafe)
}

// DeleteCafe handles DELETE /v1/cafes/:id.  204 on success, 404 when the
// café does not exist.
func (h *CafeHandler) DeleteCafe(c echo.Context) error {
    id, ok := parseID(c)
    if !ok {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
    }
    out, err := h.Cafes.Remove(c.Request().Context(), id)
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not delete cafe"})
    }
    if out == service.NotFound {
        return c.JSON(http.StatusNotFound, echo.Map{"error": "cafe not found"})
    }
    return c.NoContent(http.StatusNoContent)
}
