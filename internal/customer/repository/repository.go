package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/tair/grocery-pos/internal/customer/domain"
	"github.com/tair/grocery-pos/pkg/apperror"
	"github.com/tair/grocery-pos/pkg/database"
)

type GormCustomerRepository struct {
	db *gorm.DB
}

func NewGormCustomerRepository(db *gorm.DB) *GormCustomerRepository {
	return &GormCustomerRepository{db: db}
}

func (r *GormCustomerRepository) AutoMigrate() error {
	return r.db.AutoMigrate(&domain.Customer{})
}

func (r *GormCustomerRepository) Create(ctx context.Context, customer *domain.Customer) error {
	if err := database.Conn(ctx, r.db).Create(customer).Error; err != nil {
		if database.IsUniqueViolation(err) {
			return apperror.Conflict("a customer with this email already exists")
		}
		return fmt.Errorf("create customer: %w", err)
	}
	return nil
}

func (r *GormCustomerRepository) FindByID(ctx context.Context, id uint) (*domain.Customer, error) {
	var c domain.Customer
	err := database.Conn(ctx, r.db).First(&c, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperror.NotFound("customer %d not found", id)
	}
	if err != nil {
		return nil, fmt.Errorf("find customer %d: %w", id, err)
	}
	return &c, nil
}

func (r *GormCustomerRepository) List(ctx context.Context, search string, limit, offset int) ([]domain.Customer, int64, error) {
	q := database.Conn(ctx, r.db).Model(&domain.Customer{})
	if search != "" {
		like := "%" + strings.ToLower(search) + "%"
		q = q.Where("LOWER(name) LIKE ? OR LOWER(email) LIKE ? OR phone LIKE ?", like, like, like)
	}
	q = q.Session(&gorm.Session{})

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("count customers: %w", err)
	}

	var rows []domain.Customer
	if err := q.Order("name ASC, id ASC").Limit(limit).Offset(offset).Find(&rows).Error; err != nil {
		return nil, 0, fmt.Errorf("list customers: %w", err)
	}
	return rows, total, nil
}

func (r *GormCustomerRepository) Update(ctx context.Context, customer *domain.Customer) error {
	err := database.Conn(ctx, r.db).Model(customer).
		Select("name", "email", "phone", "address").
		Updates(customer).Error
	if err != nil {
		if database.IsUniqueViolation(err) {
			return apperror.Conflict("a customer with this email already exists")
		}
		return fmt.Errorf("update customer %d: %w", customer.ID, err)
	}
	return nil
}

// AddLoyaltyPoints adds points, never letting the balance drop below zero
func (r *GormCustomerRepository) AddLoyaltyPoints(ctx context.Context, id uint, points int) error {
	err := database.Conn(ctx, r.db).Model(&domain.Customer{}).
		Where("id = ?", id).
		UpdateColumn("loyalty_points", gorm.Expr("CASE WHEN loyalty_points + ? < 0 THEN 0 ELSE loyalty_points + ? END", points, points)).
		Error
	if err != nil {
		return fmt.Errorf("update loyalty points of customer %d: %w", id, err)
	}
	return nil
}

func (r *GormCustomerRepository) HasSales(ctx context.Context, id uint) (bool, error) {
	var n int64
	if err := database.Conn(ctx, r.db).Table("sales").Where("customer_id = ?", id).Count(&n).Error; err != nil {
		return false, fmt.Errorf("count sales of customer %d: %w", id, err)
	}
	return n > 0, nil
}

func (r *GormCustomerRepository) Delete(ctx context.Context, id uint) error {
	res := database.Conn(ctx, r.db).Delete(&domain.Customer{}, id)
	if res.Error != nil {
		if database.IsForeignKeyViolation(res.Error) {
			return apperror.Conflict("customer %d is referenced by sales", id)
		}
		return fmt.Errorf("delete customer %d: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return apperror.NotFound("customer %d not found", id)
	}
	return nil
}
