package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/tair/grocery-pos/internal/notification/domain"
	"github.com/tair/grocery-pos/pkg/apperror"
	"github.com/tair/grocery-pos/pkg/database"
)

const batchSize = 100

type GormNotificationRepository struct {
	db *gorm.DB
}

func NewGormNotificationRepository(db *gorm.DB) *GormNotificationRepository {
	return &GormNotificationRepository{db: db}
}

func (r *GormNotificationRepository) AutoMigrate() error {
	return r.db.AutoMigrate(&domain.Notification{})
}

func (r *GormNotificationRepository) CreateBatch(ctx context.Context, notifications []domain.Notification) error {
	if len(notifications) == 0 {
		return nil
	}
	if err := database.Conn(ctx, r.db).CreateInBatches(notifications, batchSize).Error; err != nil {
		return fmt.Errorf("create notifications: %w", err)
	}
	return nil
}

func (r *GormNotificationRepository) FindByID(ctx context.Context, id, userID uint) (*domain.Notification, error) {
	var n domain.Notification
	err := database.Conn(ctx, r.db).Where("id = ? AND user_id = ?", id, userID).First(&n).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperror.NotFound("notification %d not found", id)
	}
	if err != nil {
		return nil, fmt.Errorf("find notification %d: %w", id, err)
	}
	return &n, nil
}

func (r *GormNotificationRepository) ListByUser(ctx context.Context, userID uint, unreadOnly bool, limit, offset int) ([]domain.Notification, int64, error) {
	q := database.Conn(ctx, r.db).Model(&domain.Notification{}).Where("user_id = ?", userID)
	if unreadOnly {
		q = q.Where("is_read = ?", false)
	}
	q = q.Session(&gorm.Session{})

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("count notifications: %w", err)
	}

	var rows []domain.Notification
	if err := q.Order("created_at DESC, id DESC").Limit(limit).Offset(offset).Find(&rows).Error; err != nil {
		return nil, 0, fmt.Errorf("list notifications: %w", err)
	}
	return rows, total, nil
}

func (r *GormNotificationRepository) CountUnread(ctx context.Context, userID uint) (int64, error) {
	var n int64
	err := database.Conn(ctx, r.db).Model(&domain.Notification{}).
		Where("user_id = ? AND is_read = ?", userID, false).
		Count(&n).Error
	if err != nil {
		return 0, fmt.Errorf("count unread notifications: %w", err)
	}
	return n, nil
}

func (r *GormNotificationRepository) MarkRead(ctx context.Context, id, userID uint, at time.Time) error {
	res := database.Conn(ctx, r.db).Model(&domain.Notification{}).
		Where("id = ? AND user_id = ?", id, userID).
		Updates(map[string]interface{}{"is_read": true, "read_at": at})
	if res.Error != nil {
		return fmt.Errorf("mark notification %d read: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return apperror.NotFound("notification %d not found", id)
	}
	return nil
}

func (r *GormNotificationRepository) MarkAllRead(ctx context.Context, userID uint, at time.Time) (int64, error) {
	res := database.Conn(ctx, r.db).Model(&domain.Notification{}).
		Where("user_id = ? AND is_read = ?", userID, false).
		Updates(map[string]interface{}{"is_read": true, "read_at": at})
	if res.Error != nil {
		return 0, fmt.Errorf("mark notifications read: %w", res.Error)
	}
	return res.RowsAffected, nil
}

func (r *GormNotificationRepository) Delete(ctx context.Context, id, userID uint) error {
	res := database.Conn(ctx, r.db).Where("id = ? AND user_id = ?", id, userID).Delete(&domain.Notification{})
	if res.Error != nil {
		return fmt.Errorf("delete notification %d: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return apperror.NotFound("notification %d not found", id)
	}
	return nil
}
