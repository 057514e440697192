package http

import (
	"io/ioutil"
	"mime/multipart"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/shelterseek/goapi/base/ctx"
	"github.com/shelterseek/goapi/base/delivery"
	"github.com/shelterseek/goapi/base/metrics"
	"github.com/shelterseek/goapi/domain"
	"github.com/shelterseek/goapi/domain/asset"
	"github.com/shelterseek/goapi/domain/listing"
	"github.com/shelterseek/goapi/middleware"
)

const maxImageFiles = 12

var met metrics.Service

type handler struct {
	listing listing.Usecase
}

// New registers the host-facing listing routes
func New(e *echo.Echo, mid *middleware.GoMiddleware, uc listing.Usecase) {
	met = metrics.New("listing")

	h := &handler{uc}

	g := e.Group("/listings")

	g.GET("", h.list)

	g.GET("/:id", h.get)

	g.POST("", h.create, mid.RequireSubmitter())

	g.PUT("/:id", h.update, mid.RequireSubmitter())

	g.PATCH("/:id/status", h.updateStatus)

	g.DELETE("/:id", h.delete)

	g.POST("/:id/like", h.like)
}

func (h *handler) list(c echo.Context) error {
	ctx := c.Get("ctx").(ctx.Ctx)

	res, err := h.listing.List(ctx)
	if err != nil {
		return delivery.MakeJsonResp(c, http.StatusInternalServerError, err)
	}

	return delivery.MakeJsonResp(c, http.StatusOK, res)
}

func (h *handler) get(c echo.Context) error {
	ctx := c.Get("ctx").(ctx.Ctx)

	res, err := h.listing.Get(ctx, c.Param("id"))
	if err != nil {
		return delivery.MakeJsonResp(c, http.StatusInternalServerError, err)
	}

	return delivery.MakeJsonResp(c, http.StatusOK, res)
}

func (h *handler) create(c echo.Context) error {
	ctx := c.Get("ctx").(ctx.Ctx)
	submitter := c.Get("submitter").(listing.Host)

	p := &listing.CreatePayload{}
	if err := c.Bind(p); err != nil {
		return delivery.MakeJsonResp(c, http.StatusBadRequest, domain.ErrBadParamInput)
	}
	if err := c.Validate(p); err != nil {
		return delivery.MakeJsonResp(c, http.StatusBadRequest, err.Error())
	}

	files, err := readUploads(c)
	if err != nil {
		return delivery.MakeJsonResp(c, http.StatusBadRequest, err)
	}

	res, err := h.listing.Create(ctx, p, submitter, files)
	if err != nil {
		return delivery.MakeJsonResp(c, http.StatusInternalServerError, err)
	}

	met.BumpSum("listing.created", 1)

	return delivery.MakeJsonResp(c, http.StatusCreated, res)
}

func (h *handler) update(c echo.Context) error {
	ctx := c.Get("ctx").(ctx.Ctx)
	submitter := c.Get("submitter").(listing.Host)

	p := &listing.UpdatePayload{}
	if err := c.Bind(p); err != nil {
		return delivery.MakeJsonResp(c, http.StatusBadRequest, domain.ErrBadParamInput)
	}
	if err := c.Validate(p); err != nil {
		return delivery.MakeJsonResp(c, http.StatusBadRequest, err.Error())
	}

	files, err := readUploads(c)
	if err != nil {
		return delivery.MakeJsonResp(c, http.StatusBadRequest, err)
	}

	res, err := h.listing.Update(ctx, c.Param("id"), p, submitter, files)
	if err != nil {
		return delivery.MakeJsonResp(c, http.StatusInternalServerError, err)
	}

	return delivery.MakeJsonResp(c, http.StatusOK, res)
}

type updateStatusPayload struct {
	Status string `json:"status" form:"status" validate:"required"`
}

func (h *handler) updateStatus(c echo.Context) error {
	ctx := c.Get("ctx").(ctx.Ctx)

	p := &updateStatusPayload{}
	if err := c.Bind(p); err != nil {
		return delivery.MakeJsonResp(c, http.StatusBadRequest, domain.ErrBadParamInput)
	}
	if err := c.Validate(p); err != nil {
		return delivery.MakeJsonResp(c, http.StatusBadRequest, err.Error())
	}

	status, err := listing.ParseStatus(p.Status)
	if err != nil {
		return delivery.MakeJsonResp(c, http.StatusBadRequest, err)
	}

	res, err := h.listing.UpdateStatus(ctx, c.Param("id"), status)
	if err != nil {
		return delivery.MakeJsonResp(c, http.StatusInternalServerError, err)
	}

	met.BumpSum("listing.statusChanged", 1, "status", string(status))

	return delivery.MakeJsonResp(c, http.StatusOK, res)
}

func (h *handler) delete(c echo.Context) error {
	ctx := c.Get("ctx").(ctx.Ctx)

	if err := h.listing.Delete(ctx, c.Param("id")); err != nil {
		return delivery.MakeJsonResp(c, http.StatusInternalServerError, err)
	}

	return delivery.MakeJsonResp(c, http.StatusOK, "ok")
}

func (h *handler) like(c echo.Context) error {
	ctx := c.Get("ctx").(ctx.Ctx)

	res, err := h.listing.Like(ctx, c.Param("id"))
	if err != nil {
		return delivery.MakeJsonResp(c, http.StatusInternalServerError, err)
	}

	return delivery.MakeJsonResp(c, http.StatusOK, res)
}

// readUploads drains every image part into memory so the multipart staging
// files can be reclaimed as soon as the handler returns.
func readUploads(c echo.Context) ([]asset.Upload, error) {
	form, err := c.MultipartForm()
	if err != nil {
		// no multipart body at all is fine
		return nil, nil
	}

	parts := form.File["images"]
	if len(parts) > maxImageFiles {
		return nil, domain.ErrTooManyFiles
	}

	uploads := []asset.Upload{}
	for _, part := range parts {
		up, err := readUpload(part)
		if err != nil {
			return nil, err
		}
		uploads = append(uploads, up)
	}

	return uploads, nil
}

func readUpload(part *multipart.FileHeader) (asset.Upload, error) {
	src, err := part.Open()
	if err != nil {
		return asset.Upload{}, err
	}
	defer src.Close()

	content, err := ioutil.ReadAll(src)
	if err != nil {
		return asset.Upload{}, err
	}

	return asset.Upload{
		Filename:    part.Filename,
		ContentType: part.Header.Get("Content-Type"),
		Content:     content,
	}, nil
}
