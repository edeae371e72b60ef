package handler

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"
)

func testContext(target string) echo.Context {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, target, nil)
	return e.NewContext(req, httptest.NewRecorder())
}

func TestPageRequestAbsent(t *testing.T) {
	_, paged := pageRequest(testContext("/v1/hotels"))
	require.False(t, paged)
}

func TestPageRequestDefaults(t *testing.T) {
	pr, paged := pageRequest(testContext("/v1/hotels?page=2"))
	require.True(t, paged)
	require.Equal(t, 2, pr.PageNumber)
	require.Equal(t, defaultPageSize, pr.PageSize)
	require.Equal(t, defaultPageSize, pr.StartIndex())
}

func TestPageRequestCapsSize(t *testing.T) {
	pr, paged := pageRequest(testContext("/v1/hotels?page=1&size=5000"))
	require.True(t, paged)
	require.Equal(t, maxPageSize, pr.PageSize)
}

func TestPageRequestBadValues(t *testing.T) {
	pr, paged := pageRequest(testContext("/v1/hotels?page=zero&size=-3"))
	require.True(t, paged)
	require.Equal(t, 1, pr.PageNumber)
	require.Equal(t, defaultPageSize, pr.PageSize)
}

func TestPathID(t *testing.T) {
	c := testContext("/v1/hotels/7")
	c.SetParamNames("id")
	c.SetParamValues("7")
	id, ok := pathID(c)
	require.True(t, ok)
	require.Equal(t, 7, id)

	c.SetParamValues("x")
	_, ok = pathID(c)
	require.False(t, ok)
}
