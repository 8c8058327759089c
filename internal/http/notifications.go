package httpapi

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// @Summary Notification stream
// @Description WebSocket; messages are JSON notifications for the given session plus broadcasts.
// @Description Without a session an admin token (Authorization header or token query) subscribes to all sessions.
// @Tags notifications
// @Param session query string false "Client session"
// @Param token query string false "Admin token for the all-sessions stream"
// @Success 101
// @Router /api/notifications/ws [get]
func (s *Server) notifications(c *gin.Context) {
	session := c.Query("session")
	if session == "" {
		session = c.GetHeader(SessionHeader)
	}
	if session == "" && !s.isAdmin(c) {
		// fresh session: only broadcasts reach it
		session = uuid.NewString()
	}
	if err := s.deps.Hub.Serve(c.Writer, c.Request, session); err != nil {
		s.deps.Logger.Debug("websocket closed", "session", session, "error", err)
	}
}

// isAdmin токен из заголовка или query token принадлежит администратору
func (s *Server) isAdmin(c *gin.Context) bool {
	token := bearerToken(c)
	if token == "" {
		token = c.Query("token")
	}
	if token == "" || s.deps.Auth == nil {
		return false
	}
	sess, err := s.deps.Auth.Current(c, token)
	return err == nil && sess.IsAdmin
}
