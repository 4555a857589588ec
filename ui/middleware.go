package ui

import (
	"github.com/gin-gonic/gin"
)

// multipartMemory is how much of an upload is held in memory before the
// multipart parser spills to temp files
const multipartMemory = 8 << 20

// setupMiddleware configures Gin middleware
func (s *Server) setupMiddleware() {
	s.router.Use(gin.Logger())
	s.router.Use(gin.Recovery())
	s.router.MaxMultipartMemory = multipartMemory
}
