package auth

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Auditor records authentication attempts.
type Auditor interface {
	LogAuth(actor, action, ipAddr, userAgent string, success bool)
}

// LoginRequest is the body of POST /admin/login.
type LoginRequest struct {
	Username string `json:"username" binding:"required,max=64"`
	Password string `json:"password" binding:"required,max=72"`
}

// Controller handles the admin login endpoints.
type Controller struct {
	service  *Service
	sessions *SessionManager
	limiter  *LoginLimiter
	auditor  Auditor
	logger   *zap.Logger
}

// NewController creates a new authentication controller.
func NewController(service *Service, sessions *SessionManager, limiter *LoginLimiter, auditor Auditor, logger *zap.Logger) *Controller {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Controller{
		service:  service,
		sessions: sessions,
		limiter:  limiter,
		auditor:  auditor,
		logger:   logger,
	}
}

// RegisterRoutes registers authentication routes on the router.
func (ac *Controller) RegisterRoutes(router gin.IRouter) {
	login := []gin.HandlerFunc{ac.Login}
	if ac.limiter != nil {
		login = append([]gin.HandlerFunc{ac.limiter.Middleware()}, login...)
	}
	router.POST("/admin/login", login...)
	router.POST("/admin/logout", ac.Logout)
	router.GET("/admin/me", RequireAdmin(ac.sessions), ac.Me)
}

// Login checks the credentials and starts an admin session.
func (ac *Controller) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "username and password are required", "code": "VALIDATION_ERROR"})
		return
	}

	admin, err := ac.service.Authenticate(req.Username, req.Password)
	if err != nil {
		ac.audit(req.Username, "login_failed", c, false)
		switch {
		case errors.Is(err, ErrAdminNotConfigured):
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": err.Error(), "code": "ADMIN_DISABLED"})
		case errors.Is(err, ErrInvalidCredentials):
			c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error(), "code": "INVALID_CREDENTIALS"})
		default:
			ac.logger.Error("admin authentication failed", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error", "code": "INTERNAL_ERROR"})
		}
		return
	}

	if err := ac.sessions.CreateSession(c.Request, admin); err != nil {
		ac.logger.Error("failed to create admin session", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create session", "code": "INTERNAL_ERROR"})
		return
	}

	ac.audit(admin, "login", c, true)
	c.JSON(http.StatusOK, ac.sessions.GetSessionData(c.Request))
}

// Logout ends the admin session.
func (ac *Controller) Logout(c *gin.Context) {
	admin := ac.sessions.GetAdmin(c.Request)
	if err := ac.sessions.DestroySession(c.Request); err != nil {
		ac.logger.Error("failed to destroy admin session", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to end session", "code": "INTERNAL_ERROR"})
		return
	}
	if admin != "" {
		ac.audit(admin, "logout", c, true)
	}
	c.Status(http.StatusNoContent)
}

// Me returns the current admin session.
func (ac *Controller) Me(c *gin.Context) {
	c.JSON(http.StatusOK, ac.sessions.GetSessionData(c.Request))
}

func (ac *Controller) audit(actor, action string, c *gin.Context, success bool) {
	if ac.auditor == nil {
		return
	}
	ac.auditor.LogAuth(actor, action, c.ClientIP(), c.Request.UserAgent(), success)
}
