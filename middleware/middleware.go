package middleware

import (
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/shelterseek/goapi/base/ctx"
	"github.com/shelterseek/goapi/base/delivery"
	"github.com/shelterseek/goapi/base/log"
	"github.com/shelterseek/goapi/base/metrics"
	"github.com/shelterseek/goapi/domain/listing"
)

const (
	// HeaderSubmitterName carries the display name of the host submitting a listing
	HeaderSubmitterName = "X-Submitter-Name"
	// HeaderSubmitterEmail carries the contact email of the host submitting a listing
	HeaderSubmitterEmail = "X-Submitter-Email"
)

// GoMiddleware represent the data-struct for middleware
type GoMiddleware struct {
	// another stuff , may be needed by middleware
}

// InitMiddleware initialize the middleware
func InitMiddleware() *GoMiddleware {
	return &GoMiddleware{}
}

// CORS will handle the CORS middleware
func (m *GoMiddleware) CORS(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		c.Response().Header().Set("Access-Control-Allow-Origin", "*")
		return next(c)
	}
}

// AddContext adds custome context into echo
func (m *GoMiddleware) AddContext() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) (err error) {
			cont := ctx.WithValue(ctx.Background(), "requestID", c.Response().Header().Get(echo.HeaderXRequestID))
			c.Set("ctx", cont)
			return next(c)
		}
	}
}

// RequireSubmitter extracts the submitting host identity from request
// headers and stores it in echo context under "submitter". Requests
// without both headers are rejected.
func (m *GoMiddleware) RequireSubmitter() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			name := strings.TrimSpace(c.Request().Header.Get(HeaderSubmitterName))
			email := strings.TrimSpace(c.Request().Header.Get(HeaderSubmitterEmail))
			if name == "" || email == "" {
				return delivery.MakeJsonResp(c, http.StatusBadRequest, "missing submitter headers")
			}
			c.Set("submitter", listing.Host{Name: name, Email: email})
			return next(c)
		}
	}
}

// ResponseLogger logs response for every request
func (m *GoMiddleware) ResponseLogger() echo.MiddlewareFunc {
	met := metrics.New("http")
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			defer met.BumpTime("request.time", "method", c.Request().Method, "path", c.Path()).End()

			start := time.Now()

			err := next(c)
			if err != nil {
				c.Error(err)
			}

			req := c.Request()
			res := c.Response()

			fields := log.Fields{
				"ms":         time.Since(start).Seconds() * 1000,
				"httpStatus": c.Response().Status,
				"host":       req.Host,
				"remoteIP":   c.RealIP(),
				"uri":        c.Request().URL.Path,
				"httpMethod": c.Request().Method,
				"size":       res.Size,
				"userAgent":  req.UserAgent(),
				"referer":    c.Request().Header.Get("Referer"),
			}

			n := res.Status
			switch {
			case n >= 400:
				fields["nextErr"] = err
			default:
			}

			c.Get("ctx").(ctx.Ctx).WithFields(fields).Info("response")
			return nil
		}
	}
}
