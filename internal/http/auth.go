package httpapi

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"storefront/internal/admin"
	"storefront/internal/auth"
	"storefront/internal/domain"
	"storefront/internal/notify"
)

const sessionCtxKey = "adminSession"

type loginReq struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginResp struct {
	Token   string          `json:"token"`
	Session *domain.Session `json:"user"`
}

// @Summary Admin login
// @Tags auth
// @Accept json
// @Produce json
// @Param input body loginReq true "Credentials"
// @Success 200 {object} loginResp
// @Failure 401 {object} map[string]string
// @Router /api/auth/login [post]
func (s *Server) login(c *gin.Context) {
	sid := sessionID(c)
	var req loginReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}
	token, sess, err := s.deps.Auth.Login(c, req.Email, req.Password)
	if err != nil {
		if errors.Is(err, auth.ErrInvalidCredentials) {
			notify.Error(c, s.deps.Notifier, sid, "Помилка входу", "Невірна електронна пошта або пароль")
		} else {
			s.deps.Logger.Error("login", "error", err)
		}
		writeError(c, err)
		return
	}
	notify.Success(c, s.deps.Notifier, sid, "Вхід виконано успішно")
	c.JSON(http.StatusOK, loginResp{Token: token, Session: sess})
}

// @Summary Admin logout
// @Tags auth
// @Security BearerAuth
// @Success 204
// @Failure 401 {object} map[string]string
// @Router /api/auth/logout [post]
func (s *Server) logout(c *gin.Context) {
	if err := s.deps.Auth.Logout(c, bearerToken(c)); err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// @Summary Current admin session
// @Tags auth
// @Produce json
// @Security BearerAuth
// @Success 200 {object} domain.Session
// @Failure 401 {object} map[string]string
// @Router /api/auth/me [get]
func (s *Server) me(c *gin.Context) {
	sess, err := s.deps.Auth.Current(c, bearerToken(c))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, sess)
}

// requireAdmin пускает только с действующим токеном администратора
func (s *Server) requireAdmin(c *gin.Context) {
	sess, err := s.deps.Auth.Current(c, bearerToken(c))
	if err != nil {
		c.AbortWithStatusJSON(mapErrorToStatus(err), gin.H{"error": err.Error()})
		return
	}
	if !sess.IsAdmin {
		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "admin only"})
		return
	}
	c.Set(sessionCtxKey, sess)
	c.Next()
}

// adminCtx контекст запроса с адресатом уведомлений панели
func adminCtx(c *gin.Context) context.Context {
	return admin.WithSession(c.Request.Context(), sessionID(c))
}
