package httptransport

import (
	"context"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"taskflow-server-go/internal/domain/user"
	"taskflow-server-go/internal/platform/config"
	"taskflow-server-go/internal/platform/logging"
)

// UserAPI serves the administrative user-management routes.
type UserAPI struct {
	users  *user.Service
	guard  *AuthGuard
	config *config.Config
	logger *logging.Logger
}

// NewUserAPI wires the user admin route handlers.
func NewUserAPI(svc *user.Service, guard *AuthGuard, cfg *config.Config, logger *logging.Logger) *UserAPI {
	return &UserAPI{users: svc, guard: guard, config: cfg, logger: logger}
}

// Start registers all user routes on the API group. Every route is
// admin-only.
func (a *UserAPI) Start(_ context.Context, _ *gin.Engine, apiGroup *gin.RouterGroup) error {
	group := apiGroup.Group("/users")
	group.Use(a.guard.RequireAuth(), RequireRole("admin"))

	group.GET("/all", a.handleListAll)
	group.GET("/:userId", a.handleGet)
	group.PATCH("/:userId/role", a.handleUpdateRole)

	a.logger.InfoTag("HTTP", "user admin routes registered")
	return nil
}

type updateRoleRequest struct {
	Role string `json:"role"`
}

func (a *UserAPI) handleListAll(c *gin.Context) {
	users, err := a.users.List(c.Request.Context())
	if err != nil {
		RespondServiceError(c, err, a.config.IsDevelopment())
		return
	}
	RespondSuccess(c, http.StatusOK, gin.H{
		"users": users,
		"count": len(users),
	}, "")
}

func (a *UserAPI) handleGet(c *gin.Context) {
	found, err := a.users.GetByID(c.Request.Context(), c.Param("userId"))
	if err != nil {
		RespondServiceError(c, err, a.config.IsDevelopment())
		return
	}
	RespondSuccess(c, http.StatusOK, gin.H{"user": found}, "")
}

func (a *UserAPI) handleUpdateRole(c *gin.Context) {
	var req updateRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "Invalid request body", nil)
		return
	}

	updated, err := a.users.UpdateRole(c.Request.Context(), c.Param("userId"), req.Role)
	if err != nil {
		RespondServiceError(c, err, a.config.IsDevelopment())
		return
	}
	RespondSuccess(c, http.StatusOK, gin.H{"user": updated},
		fmt.Sprintf("User role updated to %s successfully", updated.Role))
}
