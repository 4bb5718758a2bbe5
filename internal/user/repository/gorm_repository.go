package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/tair/grocery-pos/internal/user/domain"
	"github.com/tair/grocery-pos/pkg/apperror"
	"github.com/tair/grocery-pos/pkg/database"
)

// GormUserRepository implements UserRepository interface using GORM
type GormUserRepository struct {
	db *gorm.DB
}

// NewGormUserRepository creates a new GORM user repository
func NewGormUserRepository(db *gorm.DB) *GormUserRepository {
	return &GormUserRepository{db: db}
}

// AutoMigrate runs database migrations
func (r *GormUserRepository) AutoMigrate() error {
	return r.db.AutoMigrate(&domain.User{})
}

// Create inserts a new user; duplicate usernames or emails are a conflict
func (r *GormUserRepository) Create(ctx context.Context, user *domain.User) error {
	if err := database.Conn(ctx, r.db).Create(user).Error; err != nil {
		if database.IsUniqueViolation(err) {
			return apperror.Conflict("username or email already exists")
		}
		return fmt.Errorf("failed to create user: %w", err)
	}
	return nil
}

func (r *GormUserRepository) findOne(ctx context.Context, what string, query interface{}, args ...interface{}) (*domain.User, error) {
	var user domain.User
	err := database.Conn(ctx, r.db).Where(query, args...).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperror.NotFound("user %s not found", what)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find user: %w", err)
	}
	return &user, nil
}

// FindByID retrieves a user by ID
func (r *GormUserRepository) FindByID(ctx context.Context, id uint) (*domain.User, error) {
	return r.findOne(ctx, fmt.Sprint(id), "id = ?", id)
}

// FindByUsername retrieves a user by username
func (r *GormUserRepository) FindByUsername(ctx context.Context, username string) (*domain.User, error) {
	return r.findOne(ctx, username, "username = ?", username)
}

// List retrieves users, newest first
func (r *GormUserRepository) List(ctx context.Context, filter domain.Filter) ([]domain.User, int64, error) {
	q := database.Conn(ctx, r.db).Model(&domain.User{})
	if filter.Role != "" {
		q = q.Where("role = ?", filter.Role)
	}
	if filter.Status != "" {
		q = q.Where("status = ?", filter.Status)
	}
	q = q.Session(&gorm.Session{})

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count users: %w", err)
	}

	var users []domain.User
	if err := q.Order("created_at DESC, id DESC").Limit(filter.Limit).Offset(filter.Offset).Find(&users).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to find users: %w", err)
	}
	return users, total, nil
}

// Update saves every column of the user
func (r *GormUserRepository) Update(ctx context.Context, user *domain.User) error {
	if err := database.Conn(ctx, r.db).Save(user).Error; err != nil {
		if database.IsUniqueViolation(err) {
			return apperror.Conflict("username or email already exists")
		}
		return fmt.Errorf("failed to update user: %w", err)
	}
	return nil
}

func (r *GormUserRepository) TouchLastLogin(ctx context.Context, id uint, at time.Time) error {
	err := database.Conn(ctx, r.db).Model(&domain.User{}).
		Where("id = ?", id).
		UpdateColumn("last_login_at", at).Error
	if err != nil {
		return fmt.Errorf("failed to record login: %w", err)
	}
	return nil
}

// Count returns the total number of users
func (r *GormUserRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := database.Conn(ctx, r.db).Model(&domain.User{}).Count(&count).Error; err != nil {
		return 0, fmt.Errorf("failed to count users: %w", err)
	}
	return count, nil
}

// CountBy counts users whose role or status equals value
func (r *GormUserRepository) CountBy(ctx context.Context, column, value string) (int64, error) {
	if column != "role" && column != "status" {
		return 0, fmt.Errorf("cannot count users by %q", column)
	}
	var count int64
	if err := database.Conn(ctx, r.db).Model(&domain.User{}).Where(column+" = ?", value).Count(&count).Error; err != nil {
		return 0, fmt.Errorf("failed to count users by %s: %w", column, err)
	}
	return count, nil
}

// ActiveIDsByRole returns the ids of active users holding one of roles
func (r *GormUserRepository) ActiveIDsByRole(ctx context.Context, roles ...string) ([]uint, error) {
	var ids []uint
	err := database.Conn(ctx, r.db).Model(&domain.User{}).
		Where("status = ? AND role IN ?", domain.StatusActive, roles).
		Order("id").
		Pluck("id", &ids).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list active users: %w", err)
	}
	return ids, nil
}
