package http

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/shelterseek/goapi/base/ctx"
	"github.com/shelterseek/goapi/base/delivery"
	"github.com/shelterseek/goapi/domain/listing"
	"github.com/shelterseek/goapi/middleware"
)

type handler struct {
	published listing.PublishedUsecase
}

// New registers the traveler-facing read routes over the published store
func New(e *echo.Echo, published listing.PublishedUsecase) {
	h := &handler{published}

	g := e.Group("/published-listings")

	g.GET("", h.list, middleware.CacheHttp(30*time.Second))

	g.GET("/:id", h.get, middleware.CacheHttp(30*time.Second))
}

func (h *handler) list(c echo.Context) error {
	ctx := c.Get("ctx").(ctx.Ctx)

	res, err := h.published.List(ctx)
	if err != nil {
		return delivery.MakeJsonResp(c, http.StatusInternalServerError, err)
	}

	return delivery.MakeJsonResp(c, http.StatusOK, res)
}

func (h *handler) get(c echo.Context) error {
	ctx := c.Get("ctx").(ctx.Ctx)

	res, err := h.published.Get(ctx, c.Param("id"))
	if err != nil {
		return delivery.MakeJsonResp(c, http.StatusInternalServerError, err)
	}

	return delivery.MakeJsonResp(c, http.StatusOK, res)
}
