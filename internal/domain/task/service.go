package task

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"taskflow-server-go/internal/domain/eventbus"
	"taskflow-server-go/internal/models"
	"taskflow-server-go/internal/platform/errors"
)

// Repository is the persistence contract the service depends on. Lookups
// return (nil, nil) when no row matches.
type Repository interface {
	Create(ctx context.Context, task *models.Task) error
	FindByID(ctx context.Context, id string) (*models.Task, error)
	ListByOwner(ctx context.Context, ownerID string) ([]models.Task, error)
	ListAll(ctx context.Context) ([]models.Task, error)
	Update(ctx context.Context, task *models.Task) error
	Delete(ctx context.Context, id string) error
}

// Logger is the minimal logging contract this package needs.
type Logger interface {
	Debug(format string, args ...any)
	Info(format string, args ...any)
	Warn(format string, args ...any)
	Error(format string, args ...any)
}

// Update describes a partial task change. Nil fields are left untouched.
type Update struct {
	Title       *string
	Description *string
	Status      *string
}

// Service owns task CRUD and the owner-or-admin authorization rule.
type Service struct {
	repo   Repository
	logger Logger
	bus    *eventbus.Bus
}

// NewService wires a task service. The bus may be nil in tests.
func NewService(repo Repository, logger Logger, bus *eventbus.Bus) *Service {
	return &Service{repo: repo, logger: logger, bus: bus}
}

func validateTitle(title string) error {
	if len(strings.TrimSpace(title)) < 3 {
		return errors.BadRequest("Task title must be at least 3 characters")
	}
	if len(title) > 100 {
		return errors.BadRequest("Title cannot exceed 100 characters")
	}
	return nil
}

func validateDescription(description string) error {
	if len(description) > 500 {
		return errors.BadRequest("Description cannot exceed 500 characters")
	}
	return nil
}

// Create stores a new pending task owned by ownerID.
func (s *Service) Create(ctx context.Context, ownerID, title, description string) (*models.Task, error) {
	if err := validateTitle(title); err != nil {
		return nil, err
	}
	if err := validateDescription(description); err != nil {
		return nil, err
	}

	t := &models.Task{
		ID:          uuid.NewString(),
		Title:       strings.TrimSpace(title),
		Description: description,
		Status:      models.TaskStatusPending,
		OwnerID:     ownerID,
	}
	if err := s.repo.Create(ctx, t); err != nil {
		return nil, err
	}
	s.publish(eventbus.TopicTaskCreated, t)
	return t, nil
}

// ListByOwner returns the caller's own tasks.
func (s *Service) ListByOwner(ctx context.Context, ownerID string) ([]models.Task, error) {
	return s.repo.ListByOwner(ctx, ownerID)
}

// ListAll returns every task. The transport layer restricts this to admins.
func (s *Service) ListAll(ctx context.Context) ([]models.Task, error) {
	return s.repo.ListAll(ctx)
}

// Get fetches a task the caller is allowed to view.
func (s *Service) Get(ctx context.Context, id, callerID, callerRole string) (*models.Task, error) {
	return s.authorized(ctx, id, callerID, callerRole, "view")
}

// Modify applies a partial update after the ownership check.
func (s *Service) Modify(ctx context.Context, id, callerID, callerRole string, upd Update) (*models.Task, error) {
	t, err := s.authorized(ctx, id, callerID, callerRole, "update")
	if err != nil {
		return nil, err
	}

	if upd.Title != nil {
		if err := validateTitle(*upd.Title); err != nil {
			return nil, err
		}
		t.Title = strings.TrimSpace(*upd.Title)
	}
	if upd.Description != nil {
		if err := validateDescription(*upd.Description); err != nil {
			return nil, err
		}
		t.Description = *upd.Description
	}
	if upd.Status != nil {
		if *upd.Status != models.TaskStatusPending && *upd.Status != models.TaskStatusCompleted {
			return nil, errors.BadRequest("Invalid status value")
		}
		t.Status = *upd.Status
	}

	if err := s.repo.Update(ctx, t); err != nil {
		return nil, err
	}
	return t, nil
}

// Remove deletes a task after the ownership check.
func (s *Service) Remove(ctx context.Context, id, callerID, callerRole string) error {
	t, err := s.authorized(ctx, id, callerID, callerRole, "delete")
	if err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.publish(eventbus.TopicTaskDeleted, t)
	return nil
}

func (s *Service) authorized(ctx context.Context, id, callerID, callerRole, verb string) (*models.Task, error) {
	t, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if t == nil {
		return nil, errors.NotFound("Task not found")
	}
	if t.OwnerID != callerID && callerRole != "admin" {
		return nil, errors.Forbidden("Not authorized to " + verb + " this task")
	}
	return t, nil
}

func (s *Service) publish(topic string, t *models.Task) {
	if s.bus == nil {
		return
	}
	s.bus.Publish(topic, eventbus.TaskEvent{
		TaskID:  t.ID,
		OwnerID: t.OwnerID,
		At:      time.Now(),
	})
}
