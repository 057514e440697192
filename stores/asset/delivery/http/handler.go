package http

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/shelterseek/goapi/base/ctx"
	"github.com/shelterseek/goapi/base/delivery"
	"github.com/shelterseek/goapi/domain/asset"
)

type handler struct {
	asset asset.Usecase
}

// New registers the blob streaming route and the admin sweep trigger
func New(e *echo.Echo, uc asset.Usecase) {
	h := &handler{uc}

	e.GET("/images/:assetId", h.get)

	e.POST("/assets/sweep", h.sweep)
}

func (h *handler) get(c echo.Context) error {
	ctx := c.Get("ctx").(ctx.Ctx)

	contentType, body, err := h.asset.Fetch(ctx, c.Param("assetId"))
	if err != nil {
		return delivery.MakeJsonResp(c, http.StatusInternalServerError, err)
	}
	defer body.Close()

	return c.Stream(http.StatusOK, contentType, body)
}

type sweepPayload struct {
	OlderThanMinutes int `json:"olderThanMinutes" form:"olderThanMinutes"`
}

func (h *handler) sweep(c echo.Context) error {
	ctx := c.Get("ctx").(ctx.Ctx)

	p := &sweepPayload{}
	if err := c.Bind(p); err != nil {
		return delivery.MakeJsonResp(c, http.StatusBadRequest, "invalid params")
	}
	if p.OlderThanMinutes <= 0 {
		p.OlderThanMinutes = 60
	}

	removed, err := h.asset.SweepOrphans(ctx, time.Duration(p.OlderThanMinutes)*time.Minute)
	if err != nil {
		return delivery.MakeJsonResp(c, http.StatusInternalServerError, err)
	}

	return delivery.MakeJsonResp(c, http.StatusOK, map[string]int{"removed": removed})
}
