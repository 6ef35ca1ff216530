package httptransport

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"taskflow-server-go/internal/domain/task"
	"taskflow-server-go/internal/platform/config"
	"taskflow-server-go/internal/platform/logging"
)

// TaskAPI serves the task CRUD routes. Everything requires authentication;
// the cross-user listing additionally requires the admin role.
type TaskAPI struct {
	tasks  *task.Service
	guard  *AuthGuard
	config *config.Config
	logger *logging.Logger
}

// NewTaskAPI wires the task route handlers.
func NewTaskAPI(svc *task.Service, guard *AuthGuard, cfg *config.Config, logger *logging.Logger) *TaskAPI {
	return &TaskAPI{tasks: svc, guard: guard, config: cfg, logger: logger}
}

// Start registers all task routes on the API group.
func (a *TaskAPI) Start(_ context.Context, _ *gin.Engine, apiGroup *gin.RouterGroup) error {
	group := apiGroup.Group("/tasks")
	group.Use(a.guard.RequireAuth())

	group.POST("", a.handleCreate)
	group.GET("", a.handleListOwn)
	group.GET("/all", RequireRole("admin"), a.handleListAll)
	group.GET("/:taskId", a.handleGet)
	group.PATCH("/:taskId", a.handleUpdate)
	group.DELETE("/:taskId", a.handleDelete)

	a.logger.InfoTag("HTTP", "task routes registered")
	return nil
}

type createTaskRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

type updateTaskRequest struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	Status      *string `json:"status"`
}

func (a *TaskAPI) handleCreate(c *gin.Context) {
	identity, _ := CurrentIdentity(c)

	var req createTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "Invalid request body", nil)
		return
	}

	created, err := a.tasks.Create(c.Request.Context(), identity.UserID, req.Title, req.Description)
	if err != nil {
		RespondServiceError(c, err, a.config.IsDevelopment())
		return
	}
	RespondSuccess(c, http.StatusCreated, gin.H{"task": created}, "Task created successfully")
}

func (a *TaskAPI) handleListOwn(c *gin.Context) {
	identity, _ := CurrentIdentity(c)

	tasks, err := a.tasks.ListByOwner(c.Request.Context(), identity.UserID)
	if err != nil {
		RespondServiceError(c, err, a.config.IsDevelopment())
		return
	}
	RespondSuccess(c, http.StatusOK, gin.H{
		"tasks": tasks,
		"count": len(tasks),
	}, "")
}

func (a *TaskAPI) handleListAll(c *gin.Context) {
	tasks, err := a.tasks.ListAll(c.Request.Context())
	if err != nil {
		RespondServiceError(c, err, a.config.IsDevelopment())
		return
	}
	RespondSuccess(c, http.StatusOK, gin.H{
		"tasks": tasks,
		"count": len(tasks),
	}, "")
}

func (a *TaskAPI) handleGet(c *gin.Context) {
	identity, _ := CurrentIdentity(c)

	found, err := a.tasks.Get(c.Request.Context(), c.Param("taskId"), identity.UserID, identity.Role)
	if err != nil {
		RespondServiceError(c, err, a.config.IsDevelopment())
		return
	}
	RespondSuccess(c, http.StatusOK, gin.H{"task": found}, "")
}

func (a *TaskAPI) handleUpdate(c *gin.Context) {
	identity, _ := CurrentIdentity(c)

	var req updateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "Invalid request body", nil)
		return
	}

	updated, err := a.tasks.Modify(c.Request.Context(), c.Param("taskId"), identity.UserID, identity.Role, task.Update{
		Title:       req.Title,
		Description: req.Description,
		Status:      req.Status,
	})
	if err != nil {
		RespondServiceError(c, err, a.config.IsDevelopment())
		return
	}
	RespondSuccess(c, http.StatusOK, gin.H{"task": updated}, "Task updated successfully")
}

func (a *TaskAPI) handleDelete(c *gin.Context) {
	identity, _ := CurrentIdentity(c)

	err := a.tasks.Remove(c.Request.Context(), c.Param("taskId"), identity.UserID, identity.Role)
	if err != nil {
		RespondServiceError(c, err, a.config.IsDevelopment())
		return
	}
	RespondSuccess(c, http.StatusOK, nil, "Task deleted successfully")
}
