package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

func (s *Server) RegisterHealthRoutes() {
	s.Router.GET("/healthcheck", s.healthCheck)
}

// healthCheck reports liveness and, once known, the datagram address the
// store is bound to.
func (s *Server) healthCheck(c echo.Context) error {
	status := map[string]string{"status": "OK"}
	if s.StoreAddr != "" {
		status["store_addr"] = s.StoreAddr
	}
	return writeSuccess(c, http.StatusOK, status)
}
