package repository

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/tair/grocery-pos/internal/setting/domain"
	"github.com/tair/grocery-pos/pkg/apperror"
	"github.com/tair/grocery-pos/pkg/database"
)

type GormSettingRepository struct {
	db *gorm.DB
}

func NewGormSettingRepository(db *gorm.DB) *GormSettingRepository {
	return &GormSettingRepository{db: db}
}

func (r *GormSettingRepository) AutoMigrate() error {
	return r.db.AutoMigrate(&domain.Setting{})
}

func (r *GormSettingRepository) List(ctx context.Context) ([]domain.Setting, error) {
	var settings []domain.Setting
	if err := database.Conn(ctx, r.db).Order(`"key"`).Find(&settings).Error; err != nil {
		return nil, fmt.Errorf("list settings: %w", err)
	}
	return settings, nil
}

func (r *GormSettingRepository) Get(ctx context.Context, key string) (*domain.Setting, error) {
	var s domain.Setting
	err := database.Conn(ctx, r.db).Where(`"key" = ?`, key).First(&s).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperror.NotFound("setting %q not found", key)
	}
	if err != nil {
		return nil, fmt.Errorf("get setting %q: %w", key, err)
	}
	return &s, nil
}

// Upsert inserts the setting or overwrites value, description and author
func (r *GormSettingRepository) Upsert(ctx context.Context, setting *domain.Setting) error {
	err := database.Conn(ctx, r.db).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "description", "updated_at", "updated_by"}),
	}).Create(setting).Error
	if err != nil {
		return fmt.Errorf("save setting %q: %w", setting.Key, err)
	}
	return nil
}

// CreateMissing inserts the settings whose key does not exist yet
func (r *GormSettingRepository) CreateMissing(ctx context.Context, settings []domain.Setting) (int64, error) {
	if len(settings) == 0 {
		return 0, nil
	}
	rows := append([]domain.Setting(nil), settings...)
	res := database.Conn(ctx, r.db).Clauses(clause.OnConflict{DoNothing: true}).Create(&rows)
	if res.Error != nil {
		return 0, fmt.Errorf("seed settings: %w", res.Error)
	}
	return res.RowsAffected, nil
}

func (r *GormSettingRepository) Delete(ctx context.Context, key string) error {
	res := database.Conn(ctx, r.db).Where(`"key" = ?`, key).Delete(&domain.Setting{})
	if res.Error != nil {
		return fmt.Errorf("delete setting %q: %w", key, res.Error)
	}
	if res.RowsAffected == 0 {
		return apperror.NotFound("setting %q not found", key)
	}
	return nil
}
