package storage

import (
	"context"

	"gorm.io/gorm"

	"taskflow-server-go/internal/domain/task"
	"taskflow-server-go/internal/models"
	"taskflow-server-go/internal/platform/errors"
)

type taskRepository struct {
	db *gorm.DB
}

// NewTaskRepository creates the gorm-backed task repository.
func NewTaskRepository(db *gorm.DB) task.Repository {
	return &taskRepository{db: db}
}

func (r *taskRepository) Create(ctx context.Context, t *models.Task) error {
	if err := r.db.WithContext(ctx).Create(t).Error; err != nil {
		return errors.Wrap(errors.KindStorage, "task.create", "failed to create task", err)
	}
	return nil
}

func (r *taskRepository) FindByID(ctx context.Context, id string) (*models.Task, error) {
	var t models.Task
	err := r.db.WithContext(ctx).Preload("Owner").Where("id = ?", id).First(&t).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, errors.Wrap(errors.KindStorage, "task.find_by_id", "failed to find task", err)
	}
	return &t, nil
}

func (r *taskRepository) ListByOwner(ctx context.Context, ownerID string) ([]models.Task, error) {
	var tasks []models.Task
	err := r.db.WithContext(ctx).
		Where("owner_id = ?", ownerID).
		Order("created_at DESC").
		Find(&tasks).Error
	if err != nil {
		return nil, errors.Wrap(errors.KindStorage, "task.list_by_owner", "failed to list tasks", err)
	}
	return tasks, nil
}

func (r *taskRepository) ListAll(ctx context.Context) ([]models.Task, error) {
	var tasks []models.Task
	err := r.db.WithContext(ctx).
		Preload("Owner").
		Order("created_at DESC").
		Find(&tasks).Error
	if err != nil {
		return nil, errors.Wrap(errors.KindStorage, "task.list_all", "failed to list tasks", err)
	}
	return tasks, nil
}

func (r *taskRepository) Update(ctx context.Context, t *models.Task) error {
	if err := r.db.WithContext(ctx).Omit("Owner").Save(t).Error; err != nil {
		return errors.Wrap(errors.KindStorage, "task.update", "failed to update task", err)
	}
	return nil
}

func (r *taskRepository) Delete(ctx context.Context, id string) error {
	if err := r.db.WithContext(ctx).Delete(&models.Task{}, "id = ?", id).Error; err != nil {
		return errors.Wrap(errors.KindStorage, "task.delete", "failed to delete task", err)
	}
	return nil
}
