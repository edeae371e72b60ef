package handler

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/hotel-listing/internal/repository"
)

// CountryHandler serves the country catalog.  The generic repository
// covers CRUD and paging; the concrete store adds the details join.
type CountryHandler struct {
	Repo  *repository.Repo[repository.Country]
	Store *repository.CountryStore
}

func NewCountryHandler(store *repository.CountryStore) *CountryHandler {
	return &CountryHandler{Repo: repository.NewRepo[repository.Country](store), Store: store}
}

// ----- DTOs -----

type countryDto struct {
	ID        int    `json:"id"`
	Name      string `json:"name"`
	ShortName string `json:"shortName"`
}

type countryDetailsDto struct {
	countryDto
	Hotels []hotelDto `json:"hotels"`
}

type countryReq struct {
	Name      string `json:"name"`
	ShortName string `json:"shortName"`
}

func toCountryDto(c *repository.Country) countryDto {
	return countryDto{ID: c.ID, Name: c.Name, ShortName: c.ShortName}
}

// List returns countries, paged when ?page= is present.
func (h *CountryHandler) List(c echo.Context) error {
	ctx, cancel := reqCtx(c)
	defer cancel()

	if pr, paged := pageRequest(c); paged {
		res, err := repository.GetAllPaged(ctx, h.Repo, pr, toCountryDto)
		if err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
		}
		return c.JSON(http.StatusOK, res)
	}

	all, err := h.Repo.GetAll(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	out := make([]countryDto, 0, len(all))
	for i := range all {
		out = append(out, toCountryDto(&all[i]))
	}
	return c.JSON(http.StatusOK, out)
}

// Get returns one country with its hotels.
func (h *CountryHandler) Get(c echo.Context) error {
	id, ok := pathID(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	ctx, cancel := reqCtx(c)
	defer cancel()

	d, err := h.Store.GetDetails(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "country not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	dto := countryDetailsDto{countryDto: toCountryDto(&d.Country), Hotels: make([]hotelDto, 0, len(d.Hotels))}
	for i := range d.Hotels {
		dto.Hotels = append(dto.Hotels, toHotelDto(&d.Hotels[i]))
	}
	return c.JSON(http.StatusOK, dto)
}

// Create adds a country.
func (h *CountryHandler) Create(c echo.Context) error {
	var req countryReq
	if err := c.Bind(&req); err != nil || req.Name == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "name required"})
	}
	ctx, cancel := reqCtx(c)
	defer cancel()

	created, err := h.Repo.Add(ctx, &repository.Country{Name: req.Name, ShortName: req.ShortName})
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create failed"})
	}
	return c.JSON(http.StatusCreated, toCountryDto(created))
}

// Update rewrites a country.
func (h *CountryHandler) Update(c echo.Context) error {
	id, ok := pathID(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	var req countryReq
	if err := c.Bind(&req); err != nil || req.Name == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "name required"})
	}
	ctx, cancel := reqCtx(c)
	defer cancel()

	err := h.Repo.Update(ctx, &repository.Country{ID: id, Name: req.Name, ShortName: req.ShortName})
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "country not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update failed"})
	}
	return c.NoContent(http.StatusNoContent)
}

// Delete removes a country.
func (h *CountryHandler) Delete(c echo.Context) error {
	id, ok := pathID(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	ctx, cancel := reqCtx(c)
	defer cancel()

	if err := h.Repo.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "country not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "delete failed"})
	}
	return c.NoContent(http.StatusNoContent)
}

func reqCtx(c echo.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(c.Request().Context(), 5*time.Second)
}
