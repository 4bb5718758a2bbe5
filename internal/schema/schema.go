// Package schema lists the persistent models of the service.
package schema

import (
	"gorm.io/gorm"

	customerdomain "github.com/tair/grocery-pos/internal/customer/domain"
	inventorydomain "github.com/tair/grocery-pos/internal/inventory/domain"
	notificationdomain "github.com/tair/grocery-pos/internal/notification/domain"
	productdomain "github.com/tair/grocery-pos/internal/product/domain"
	saledomain "github.com/tair/grocery-pos/internal/sale/domain"
	settingdomain "github.com/tair/grocery-pos/internal/setting/domain"
	userdomain "github.com/tair/grocery-pos/internal/user/domain"
)

// Models lists every table in migration order
func Models() []interface{} {
	return []interface{}{
		&productdomain.Product{},
		&inventorydomain.Inventory{},
		&inventorydomain.InventoryTransaction{},
		&customerdomain.Customer{},
		&userdomain.User{},
		&saledomain.Sale{},
		&saledomain.SaleItem{},
		&notificationdomain.Notification{},
		&settingdomain.Setting{},
	}
}

// Migrate creates or updates every table
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(Models()...)
}
