// Package webserver hosts the echo HTTP server. Handler packages register
// their routes through ApiGET/ApiPOST/... before Listen is called; everything
// under /api sits behind the JWT session middleware.
package webserver

import (
	"fmt"
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"
	jsoniter "github.com/json-iterator/go"
	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"

	"github.com/udelbo/acme-admin/internal/app"
)

const appContextKey = "acmeadmin.app"

type routeDef struct {
	method string
	path   string
	h      echo.HandlerFunc
}

var (
	apiRoutes []routeDef
	pubRoutes []routeDef
)

func ApiGET(path string, h echo.HandlerFunc) {
	apiRoutes = append(apiRoutes, routeDef{http.MethodGet, path, h})
}

func ApiPOST(path string, h echo.HandlerFunc) {
	apiRoutes = append(apiRoutes, routeDef{http.MethodPost, path, h})
}

func ApiPUT(path string, h echo.HandlerFunc) {
	apiRoutes = append(apiRoutes, routeDef{http.MethodPut, path, h})
}

func ApiDELETE(path string, h echo.HandlerFunc) {
	apiRoutes = append(apiRoutes, routeDef{http.MethodDelete, path, h})
}

// PubPOST registers a route outside the JWT session middleware.
func PubPOST(path string, h echo.HandlerFunc) {
	pubRoutes = append(pubRoutes, routeDef{http.MethodPost, path, h})
}

// AppFromContext returns the application bound to the request.
func AppFromContext(c echo.Context) *app.Application {
	return c.Get(appContextKey).(*app.Application)
}

type CustomValidator struct {
	validate *validator.Validate
}

func (cv *CustomValidator) Validate(i interface{}) error {
	return cv.validate.Struct(i)
}

type jsonSerializer struct{}

func (jsonSerializer) Serialize(c echo.Context, i interface{}, indent string) error {
	enc := jsoniter.ConfigCompatibleWithStandardLibrary.NewEncoder(c.Response())
	if indent != "" {
		enc.SetIndent("", indent)
	}
	return enc.Encode(i)
}

func (jsonSerializer) Deserialize(c echo.Context, i interface{}) error {
	if err := jsoniter.ConfigCompatibleWithStandardLibrary.NewDecoder(c.Request().Body).Decode(i); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error()).SetInternal(err)
	}
	return nil
}

// NewEcho builds the configured echo instance with all registered routes.
// Split from Listen so tests can drive the server through httptest.
func NewEcho(application *app.Application) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.JSONSerializer = jsonSerializer{}
	e.Validator = &CustomValidator{validate: validator.New()}

	e.Use(middleware.Recover())
	e.Use(middleware.RequestID())
	e.Use(func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			c.Set(appContextKey, application)
			return next(c)
		}
	})
	e.Use(accessLog)

	for _, r := range pubRoutes {
		e.Add(r.method, r.path, r.h)
	}

	api := e.Group("/api")
	api.Use(echojwt.WithConfig(echojwt.Config{
		SigningKey: []byte(application.Config().Web.Secret),
	}))
	for _, r := range apiRoutes {
		api.Add(r.method, r.path, r.h)
	}

	return e
}

// Listen starts the web server and blocks.
func Listen(application *app.Application) error {
	e := NewEcho(application)
	cfg := application.Config().Web
	addr := fmt.Sprintf("%s:%d", cfg.Host, cfg.Port)
	zap.L().Info("admin web server listening", zap.String("addr", addr))
	return e.Start(addr)
}

func accessLog(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		start := time.Now()
		err := next(c)
		status := c.Response().Status
		if he, ok := err.(*echo.HTTPError); ok {
			status = he.Code
		}
		zap.L().Debug("http request",
			zap.String("method", c.Request().Method),
			zap.String("path", c.Request().URL.Path),
			zap.Int("status", status),
			zap.Duration("latency", time.Since(start)),
			zap.String("request_id", c.Response().Header().Get(echo.HeaderXRequestID)))
		return err
	}
}
