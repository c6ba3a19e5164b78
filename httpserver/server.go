// Package httpserver exposes a small operational HTTP surface next to the
// datagram store: a health check and a read-only view of the stored rows.
package httpserver

import (
	"context"
	"net/http"

	"phonebook/contact"
	"phonebook/errs"
	"phonebook/pkg/config"
	"phonebook/pkg/sentry"

	sentryecho "github.com/getsentry/sentry-go/echo"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
)

const defaultAddr = ":8080"

type Server struct {
	// Router is the Echo router instance
	Router *echo.Echo

	// Addr represents the address the server will listen on
	Addr string

	// Allowed origins for CORS
	AllowOrigins []string

	ContactService contact.Service

	// StoreAddr is the bound datagram address shown by the health check.
	StoreAddr string
}

func Default(cfg *config.Config) *Server {
	s := Server{
		Router:       echo.New(),
		Addr:         cfg.Store.AdminAddr,
		AllowOrigins: []string{"*"},
	}
	if s.Addr == "" {
		s.Addr = defaultAddr
	}
	s.Router.HideBanner = true
	s.Router.HidePort = true

	s.Router.HTTPErrorHandler = customHTTPErrorHandler
	s.RegisterGlobalMiddlewares()
	s.RegisterHealthRoutes()
	s.RegisterContactRoutes()
	return &s
}

func (s *Server) RegisterGlobalMiddlewares() {
	s.Router.Use(middleware.Recover())
	s.Router.Use(middleware.Secure())
	s.Router.Use(middleware.RequestID())
	s.Router.Use(middleware.Gzip())
	s.Router.Use(sentryecho.New(sentryecho.Options{Repanic: true}))
	s.Router.Use(middleware.RateLimiter(middleware.NewRateLimiterMemoryStore(20)))

	// CORS
	if len(s.AllowOrigins) > 0 {
		s.Router.Use(middleware.CORSWithConfig(middleware.CORSConfig{
			AllowOrigins: s.AllowOrigins,
		}))
	}
}

func (s *Server) Start() error {
	return s.Router.Start(s.Addr)
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.Router.Shutdown(ctx)
}

// customHTTPErrorHandler maps application errors to HTTP status codes
func customHTTPErrorHandler(err error, c echo.Context) {
	code := http.StatusInternalServerError
	message := "Internal server error"

	if he, ok := err.(*echo.HTTPError); ok {
		code = he.Code
		if m, ok := he.Message.(string); ok {
			message = m
		} else {
			message = http.StatusText(code)
		}
	} else {
		switch errs.ErrorCode(err) {
		case errs.EINVALID, errs.EMALFORMED:
			code = http.StatusBadRequest
			message = errs.ErrorMessage(err)
		case errs.ENOTFOUND:
			code = http.StatusNotFound
			message = errs.ErrorMessage(err)
		case errs.ECONFLICT:
			code = http.StatusConflict
			message = errs.ErrorMessage(err)
		case errs.EUNAVAILABLE:
			code = http.StatusServiceUnavailable
			message = errs.ErrorMessage(err)
		case errs.ETIMEOUT:
			code = http.StatusGatewayTimeout
			message = errs.ErrorMessage(err)
		}
	}

	if code >= http.StatusInternalServerError {
		c.Logger().Error(err)
		sentry.WithContext(c).Error(err)
	}

	// Don't write response if already committed
	if !c.Response().Committed {
		if err := writeError(c, code, message, "", err); err != nil {
			c.Logger().Error(err)
		}
	}
}
