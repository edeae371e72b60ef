package handler // handler defines the HTTP layer over the catalog repositories

import (
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/hotel-listing/internal/repository"
)

const (
	defaultPageSize = 15
	maxPageSize     = 100
)

// pageRequest reads ?page= and ?size= from the query string.  The second
// return value reports whether the caller asked for paging at all; without
// it list endpoints fall back to the unpaginated reference-table path.
func pageRequest(c echo.Context) (repository.PageRequest, bool) {
	pageStr := c.QueryParam("page")
	if pageStr == "" {
		return repository.PageRequest{}, false
	}
	page, err := strconv.Atoi(pageStr)
	if err != nil || page < 1 {
		page = 1
	}
	size, err := strconv.Atoi(c.QueryParam("size"))
	if err != nil || size < 1 {
		size = defaultPageSize
	}
	if size > maxPageSize {
		size = maxPageSize
	}
	return repository.PageRequest{PageNumber: page, PageSize: size}, true
}

// pathID parses the :id route parameter.
func pathID(c echo.Context) (int, bool) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id < 1 {
		return 0, false
	}
	return id, true
}
