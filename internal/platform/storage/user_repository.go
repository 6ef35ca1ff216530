package storage

import (
	"context"
	"time"

	"gorm.io/gorm"

	"taskflow-server-go/internal/domain/user"
	"taskflow-server-go/internal/models"
	"taskflow-server-go/internal/platform/errors"
)

type userRepository struct {
	db *gorm.DB
}

// NewUserRepository creates the gorm-backed user repository.
func NewUserRepository(db *gorm.DB) user.Repository {
	return &userRepository{db: db}
}

func (r *userRepository) Create(ctx context.Context, account *models.User) error {
	if err := r.db.WithContext(ctx).Create(account).Error; err != nil {
		return errors.Wrap(errors.KindStorage, "user.create", "failed to create user", err)
	}
	return nil
}

func (r *userRepository) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	var account models.User
	if err := r.db.WithContext(ctx).Where("email = ?", email).First(&account).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, errors.Wrap(errors.KindStorage, "user.find_by_email", "failed to find user", err)
	}
	return &account, nil
}

func (r *userRepository) FindByID(ctx context.Context, id string) (*models.User, error) {
	var account models.User
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&account).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, errors.Wrap(errors.KindStorage, "user.find_by_id", "failed to find user", err)
	}
	return &account, nil
}

func (r *userRepository) List(ctx context.Context) ([]models.User, error) {
	var accounts []models.User
	if err := r.db.WithContext(ctx).Order("created_at DESC").Find(&accounts).Error; err != nil {
		return nil, errors.Wrap(errors.KindStorage, "user.list", "failed to list users", err)
	}
	return accounts, nil
}

func (r *userRepository) UpdateRole(ctx context.Context, id, role string) error {
	err := r.db.WithContext(ctx).Model(&models.User{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"role":       role,
			"updated_at": time.Now(),
		}).Error
	if err != nil {
		return errors.Wrap(errors.KindStorage, "user.update_role", "failed to update role", err)
	}
	return nil
}
