package httptransport

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"taskflow-server-go/internal/domain/auth"
	"taskflow-server-go/internal/platform/config"
	"taskflow-server-go/internal/platform/logging"
)

// AuthAPI serves registration, login, logout and current-user routes.
type AuthAPI struct {
	auth   *auth.Service
	guard  *AuthGuard
	config *config.Config
	logger *logging.Logger
}

// NewAuthAPI wires the auth route handlers.
func NewAuthAPI(svc *auth.Service, guard *AuthGuard, cfg *config.Config, logger *logging.Logger) *AuthAPI {
	return &AuthAPI{auth: svc, guard: guard, config: cfg, logger: logger}
}

// Start registers all auth routes on the API group.
func (a *AuthAPI) Start(_ context.Context, _ *gin.Engine, apiGroup *gin.RouterGroup) error {
	group := apiGroup.Group("/auth")
	group.POST("/register", a.handleRegister)
	group.POST("/login", a.handleLogin)
	group.POST("/create-admin", a.handleCreateAdmin)

	secured := group.Group("")
	secured.Use(a.guard.RequireAuth())
	secured.POST("/logout", a.handleLogout)
	secured.GET("/me", a.handleMe)

	a.logger.InfoTag("HTTP", "auth routes registered")
	return nil
}

type registerRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (a *AuthAPI) handleRegister(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "Invalid request body", nil)
		return
	}

	grant, err := a.auth.Register(c.Request.Context(), req.Name, req.Email, req.Password)
	if err != nil {
		RespondServiceError(c, err, a.config.IsDevelopment())
		return
	}
	RespondSuccess(c, http.StatusCreated, gin.H{
		"user":  grant.User,
		"token": grant.Token,
	}, "User registered successfully")
}

func (a *AuthAPI) handleLogin(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "Invalid request body", nil)
		return
	}

	grant, err := a.auth.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		RespondServiceError(c, err, a.config.IsDevelopment())
		return
	}
	RespondSuccess(c, http.StatusOK, gin.H{
		"user":  grant.User,
		"token": grant.Token,
	}, "Login successful")
}

func (a *AuthAPI) handleCreateAdmin(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "Invalid request body", nil)
		return
	}

	grant, err := a.auth.CreateAdmin(c.Request.Context(), req.Name, req.Email, req.Password)
	if err != nil {
		RespondServiceError(c, err, a.config.IsDevelopment())
		return
	}
	RespondSuccess(c, http.StatusCreated, gin.H{
		"user":  grant.User,
		"token": grant.Token,
	}, "Admin user created successfully")
}

func (a *AuthAPI) handleLogout(c *gin.Context) {
	identity, ok := CurrentIdentity(c)
	if !ok {
		RespondError(c, http.StatusBadRequest, "No token provided", nil)
		return
	}

	a.auth.Logout(c.Request.Context(), identity.Token)
	RespondSuccess(c, http.StatusOK, nil, "Logout successful")
}

func (a *AuthAPI) handleMe(c *gin.Context) {
	identity, ok := CurrentIdentity(c)
	if !ok {
		RespondError(c, http.StatusUnauthorized, msgNotAuthorized, nil)
		return
	}

	account, err := a.auth.CurrentUser(c.Request.Context(), identity.UserID)
	if err != nil {
		RespondServiceError(c, err, a.config.IsDevelopment())
		return
	}
	RespondSuccess(c, http.StatusOK, gin.H{"user": account}, "")
}
