package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

func (s *Server) RegisterContactRoutes() {
	s.Router.GET("/api/contacts", s.handleListContacts)
}

// handleListContacts returns the stored rows in storage order. Rows are
// changed only through the datagram protocol.
func (s *Server) handleListContacts(c echo.Context) error {
	contacts, err := s.ContactService.ListContacts(c.Request().Context())
	if err != nil {
		return err
	}

	return writeList(c, http.StatusOK, contacts)
}
