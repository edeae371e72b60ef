package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/hotel-listing/internal/repository"
)

// HotelHandler serves the hotel catalog, including the public search.
type HotelHandler struct {
	Repo    *repository.Repo[repository.Hotel]
	Store   *repository.HotelStore
	Country *repository.Repo[repository.Country]
}

func NewHotelHandler(store *repository.HotelStore, countries *repository.CountryStore) *HotelHandler {
	return &HotelHandler{
		Repo:    repository.NewRepo[repository.Hotel](store),
		Store:   store,
		Country: repository.NewRepo[repository.Country](countries),
	}
}

type hotelDto struct {
	ID        int     `json:"id"`
	Name      string  `json:"name"`
	Address   string  `json:"address"`
	Rating    float64 `json:"rating"`
	CountryID int     `json:"countryId"`
}

type hotelReq struct {
	Name      string  `json:"name"`
	Address   string  `json:"address"`
	Rating    float64 `json:"rating"`
	CountryID int     `json:"countryId"`
}

func toHotelDto(h *repository.Hotel) hotelDto {
	return hotelDto{ID: h.ID, Name: h.Name, Address: h.Address, Rating: h.Rating, CountryID: h.CountryID}
}

// List returns hotels, paged when ?page= is present.
func (h *HotelHandler) List(c echo.Context) error {
	ctx, cancel := reqCtx(c)
	defer cancel()

	if pr, paged := pageRequest(c); paged {
		res, err := repository.GetAllPaged(ctx, h.Repo, pr, toHotelDto)
		if err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
		}
		return c.JSON(http.StatusOK, res)
	}

	all, err := h.Repo.GetAll(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	out := make([]hotelDto, 0, len(all))
	for i := range all {
		out = append(out, toHotelDto(&all[i]))
	}
	return c.JSON(http.StatusOK, out)
}

// Get returns one hotel by id.
func (h *HotelHandler) Get(c echo.Context) error {
	id, ok := pathID(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	ctx, cancel := reqCtx(c)
	defer cancel()

	hotel, err := h.Repo.Get(ctx, &id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "hotel not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusOK, toHotelDto(hotel))
}

// Search filters hotels by optional name, country and minimum rating.
func (h *HotelHandler) Search(c echo.Context) error {
	var f repository.HotelFilter
	f.Name = c.QueryParam("name")
	if v := c.QueryParam("countryId"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			f.CountryID = n
		}
	}
	if v := c.QueryParam("minRating"); v != "" {
		if r, err := strconv.ParseFloat(v, 64); err == nil {
			f.MinRating = r
		}
	}
	ctx, cancel := reqCtx(c)
	defer cancel()

	hotels, err := h.Store.Search(ctx, f)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	out := make([]hotelDto, 0, len(hotels))
	for i := range hotels {
		out = append(out, toHotelDto(&hotels[i]))
	}
	return c.JSON(http.StatusOK, out)
}

// Create adds a hotel after checking its country exists.
func (h *HotelHandler) Create(c echo.Context) error {
	var req hotelReq
	if err := c.Bind(&req); err != nil || req.Name == "" || req.Address == "" || req.CountryID < 1 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "name, address and countryId required"})
	}
	ctx, cancel := reqCtx(c)
	defer cancel()

	ok, err := h.Country.Exists(ctx, req.CountryID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "unknown countryId"})
	}

	created, err := h.Repo.Add(ctx, &repository.Hotel{
		Name: req.Name, Address: req.Address, Rating: req.Rating, CountryID: req.CountryID,
	})
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create failed"})
	}
	return c.JSON(http.StatusCreated, toHotelDto(created))
}

// Update rewrites a hotel.
func (h *HotelHandler) Update(c echo.Context) error {
	id, ok := pathID(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	var req hotelReq
	if err := c.Bind(&req); err != nil || req.Name == "" || req.Address == "" || req.CountryID < 1 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "name, address and countryId required"})
	}
	ctx, cancel := reqCtx(c)
	defer cancel()

	err := h.Repo.Update(ctx, &repository.Hotel{
		ID: id, Name: req.Name, Address: req.Address, Rating: req.Rating, CountryID: req.CountryID,
	})
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "hotel not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update failed"})
	}
	return c.NoContent(http.StatusNoContent)
}

// Delete removes a hotel.
func (h *HotelHandler) Delete(c echo.Context) error {
	id, ok := pathID(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	ctx, cancel := reqCtx(c)
	defer cancel()

	if err := h.Repo.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "hotel not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "delete failed"})
	}
	return c.NoContent(http.StatusNoContent)
}
